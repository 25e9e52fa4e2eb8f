package entitlement

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
)

// Entitlement is the persisted grant of a Role to a User on a specific Board.
// At most one entitlement exists per (user, board) pair. GrantedAt records
// when the pair first received a role and is preserved across role changes;
// the succession engine uses it as the deterministic tie-break when several
// members are equally eligible for promotion.
type Entitlement struct {
	ID        uuid.UUID
	BoardID   uuid.UUID
	UserID    uuid.UUID
	Role      Role
	GrantedAt time.Time
}

// Validate checks business rules for the Entitlement record.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with
// per-field details, or nil if all rules pass.
func (e *Entitlement) Validate() error {
	fields := make(map[string]string)

	if e.BoardID == uuid.Nil {
		fields["board_id"] = domain.MsgRequired
	}
	if e.UserID == uuid.Nil {
		fields["user_id"] = domain.MsgRequired
	}
	if !e.Role.IsValid() {
		fields["role"] = fmt.Sprintf("invalid: %q", e.Role)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
