// Package epic holds the Epic entity and the pure aggregator that derives an
// epic's status from its task set.
package epic

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
)

// Epic is a unit of work on a board, fixed to that board at creation. Its
// Status is derived from the task set and must never be set arbitrarily.
// Tasks, comments and the participant set carry the epic id and are looked
// up by query rather than held here.
type Epic struct {
	ID          uuid.UUID
	BoardID     uuid.UUID
	AuthorID    uuid.UUID
	Name        string
	Description string
	Status      Status
	CreatedAt   time.Time
}

// Validate checks business rules for the Epic entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with
// per-field details, or nil if all rules pass.
func (e *Epic) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(e.Name) == "" {
		fields["name"] = domain.MsgRequired
	}
	if e.BoardID == uuid.Nil {
		fields["board_id"] = domain.MsgRequired
	}
	if e.AuthorID == uuid.Nil {
		fields["author_id"] = domain.MsgRequired
	}
	if !e.Status.IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", e.Status)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
