// Package task holds the Task entity.
package task

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
)

// Task is a single unit of work inside an epic, fixed to that epic at
// creation. Flipping Completed triggers a recompute of the owning epic's
// derived status.
type Task struct {
	ID          uuid.UUID
	EpicID      uuid.UUID
	Description string
	Completed   bool
}

// Validate checks business rules for the Task entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with
// per-field details, or nil if all rules pass.
func (t *Task) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(t.Description) == "" {
		fields["description"] = domain.MsgRequired
	}
	if t.EpicID == uuid.Nil {
		fields["epic_id"] = domain.MsgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
