// Package comment holds the Comment entity.
package comment

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
)

// Comment is a note on an epic's activity feed. Author and epic are fixed at
// creation; only the text may change, and only by the author.
type Comment struct {
	ID        uuid.UUID
	EpicID    uuid.UUID
	AuthorID  uuid.UUID
	Text      string
	CreatedAt time.Time
}

// Validate checks business rules for the Comment entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with
// per-field details, or nil if all rules pass.
func (c *Comment) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(c.Text) == "" {
		fields["text"] = domain.MsgRequired
	}
	if c.EpicID == uuid.Nil {
		fields["epic_id"] = domain.MsgRequired
	}
	if c.AuthorID == uuid.Nil {
		fields["author_id"] = domain.MsgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
