package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors for errors.Is() checking.
var (
	// ErrNotFound reports a missing User, Board, Epic, Task, Comment or
	// Invite. Use errors.As with *NotFoundError for the entity and id.
	ErrNotFound = errors.New("not found")

	// ErrRightsNotFound reports that no entitlement exists for a
	// (user, board) pair. This is deliberately distinct from
	// ErrAccessDenied: the absence of a role record is not a denial.
	ErrRightsNotFound = errors.New("entitlement not found")

	// ErrAccessDenied reports that an entitlement exists but its role is
	// insufficient for the requested action.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidState reports an operation that assumed a relationship
	// (task-epic, user-epic) which has been severed concurrently.
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation reports an entity that fails its business rules.
	ErrValidation = errors.New("validation error")
)

// MsgRequired is the validation message for mandatory fields.
const MsgRequired = "is required"

// NotFoundError carries the entity kind and id of a failed lookup.
type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, ErrNotFound.Error())
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// RightsNotFoundError reports that the user holds no entitlement on the board.
type RightsNotFoundError struct {
	UserID  uuid.UUID
	BoardID uuid.UUID
}

func (e *RightsNotFoundError) Error() string {
	return fmt.Sprintf("user %s on board %s: %s", e.UserID, e.BoardID, ErrRightsNotFound.Error())
}

func (e *RightsNotFoundError) Unwrap() error {
	return ErrRightsNotFound
}

// AccessDeniedError reports an explicit low-privilege denial for the user.
type AccessDeniedError struct {
	UserID uuid.UUID
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("user %s: %s", e.UserID, ErrAccessDenied.Error())
}

func (e *AccessDeniedError) Unwrap() error {
	return ErrAccessDenied
}

// ValidationError provides programmatic access to field-level validation
// failures. Use errors.Is(err, ErrValidation) for simple checks, or
// errors.As(err, &verr) to access verr.Fields for per-field details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
