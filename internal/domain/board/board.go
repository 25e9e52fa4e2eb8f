// Package board holds the Board container entity and pending-membership
// Invite records.
package board

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
)

// Board is a named container of epics with a set of member users. The member
// set and the epic set are not embedded here: members and epics carry the
// board id and are looked up by query, so there is no bidirectional
// collection to keep in sync.
//
// Invariant, enforced by the succession engine: while a board exists and has
// any member, exactly one member holds role OWNER for it.
type Board struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// Validate checks business rules for the Board entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with
// per-field details, or nil if all rules pass.
func (b *Board) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(b.Name) == "" {
		fields["name"] = domain.MsgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
