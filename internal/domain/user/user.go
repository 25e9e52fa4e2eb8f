// Package user holds the User identity entity.
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
)

// User is an account identity. Entitlements, board memberships, epic
// participations and authored comments all carry the user id and are looked
// up by query. Deleting a user runs the ownership succession engine before
// the row is removed.
type User struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Validate checks business rules for the User entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with
// per-field details, or nil if all rules pass.
func (u *User) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(u.FirstName) == "" {
		fields["first_name"] = domain.MsgRequired
	}
	if strings.TrimSpace(u.LastName) == "" {
		fields["last_name"] = domain.MsgRequired
	}

	email := strings.TrimSpace(u.Email)
	switch {
	case email == "":
		fields["email"] = domain.MsgRequired
	case !strings.Contains(email, "@"):
		fields["email"] = "must be a valid email address"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
