package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain/board"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/comment"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/entitlement"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/epic"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/task"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/user"
)

// EntitlementRepository persists the (user, board) -> role mapping that every
// authorization check reads.
type EntitlementRepository interface {
	// FindEntitlement returns the entitlement for a (user, board) pair.
	// Returns domain.ErrRightsNotFound if no record exists — callers must
	// surface that as "entitlement not found", distinct from a denial.
	FindEntitlement(ctx context.Context, userID, boardID uuid.UUID) (*entitlement.Entitlement, error)

	// FindEntitlementsByBoard returns all entitlements on a board, ordered
	// by grant time then id so candidate selection is deterministic.
	FindEntitlementsByBoard(ctx context.Context, boardID uuid.UUID) ([]entitlement.Entitlement, error)

	// FindEntitlementsByUserAndRole returns the user's entitlements holding
	// exactly the given role, ordered by grant time then id.
	FindEntitlementsByUserAndRole(ctx context.Context, userID uuid.UUID, role entitlement.Role) ([]entitlement.Entitlement, error)

	// SaveEntitlement inserts or updates the record for its (user, board)
	// pair. GrantedAt is preserved on role changes.
	SaveEntitlement(ctx context.Context, ent *entitlement.Entitlement) error

	// DeleteEntitlement removes the record for a (user, board) pair.
	// Deleting a non-existent record succeeds silently.
	DeleteEntitlement(ctx context.Context, userID, boardID uuid.UUID) error

	// DeleteEntitlementsByBoard removes every entitlement on a board.
	DeleteEntitlementsByBoard(ctx context.Context, boardID uuid.UUID) error

	// DeleteEntitlementsByUser removes every entitlement held by a user.
	DeleteEntitlementsByUser(ctx context.Context, userID uuid.UUID) error
}

// BoardRepository persists boards and their member sets.
type BoardRepository interface {
	// FindBoard returns a board by id, or domain.ErrNotFound.
	FindBoard(ctx context.Context, id uuid.UUID) (*board.Board, error)

	// SaveBoard inserts or updates a board.
	SaveBoard(ctx context.Context, b *board.Board) error

	// DeleteBoard removes the board row only; dependent rows are the
	// cascade engine's responsibility. Idempotent.
	DeleteBoard(ctx context.Context, id uuid.UUID) error

	// AddBoardMember adds a user to the board's member set. Idempotent.
	AddBoardMember(ctx context.Context, boardID, userID uuid.UUID) error

	// RemoveBoardMember removes a user from the board's member set.
	// Idempotent.
	RemoveBoardMember(ctx context.Context, boardID, userID uuid.UUID) error

	// ListBoardMembers returns the ids of the board's members.
	ListBoardMembers(ctx context.Context, boardID uuid.UUID) ([]uuid.UUID, error)

	// DeleteBoardMembers removes the whole member set of a board.
	DeleteBoardMembers(ctx context.Context, boardID uuid.UUID) error

	// DeleteMembershipsByUser removes the user from every board's member
	// set.
	DeleteMembershipsByUser(ctx context.Context, userID uuid.UUID) error
}

// EpicRepository persists epics and their participant sets.
type EpicRepository interface {
	// FindEpic returns an epic by id, or domain.ErrNotFound.
	FindEpic(ctx context.Context, id uuid.UUID) (*epic.Epic, error)

	// ListEpicsByBoard returns the board's epics ordered by creation time.
	ListEpicsByBoard(ctx context.Context, boardID uuid.UUID) ([]epic.Epic, error)

	// SaveEpic inserts or updates an epic, including its derived status.
	SaveEpic(ctx context.Context, e *epic.Epic) error

	// DeleteEpic removes the epic row only. Idempotent.
	DeleteEpic(ctx context.Context, id uuid.UUID) error

	// DeleteEpicsByBoard removes every epic row of a board.
	DeleteEpicsByBoard(ctx context.Context, boardID uuid.UUID) error

	// AddEpicParticipant adds a user to the epic's participant set.
	// Idempotent.
	AddEpicParticipant(ctx context.Context, epicID, userID uuid.UUID) error

	// RemoveEpicParticipant removes a user from the epic's participant set.
	// Returns domain.ErrInvalidState if the user is not a participant.
	RemoveEpicParticipant(ctx context.Context, epicID, userID uuid.UUID) error

	// IsEpicParticipant reports whether the user is in the epic's
	// participant set.
	IsEpicParticipant(ctx context.Context, epicID, userID uuid.UUID) (bool, error)

	// DeleteParticipantsByEpic removes the epic's whole participant set.
	DeleteParticipantsByEpic(ctx context.Context, epicID uuid.UUID) error

	// DeleteParticipationsByUser removes the user from every epic's
	// participant set.
	DeleteParticipationsByUser(ctx context.Context, userID uuid.UUID) error
}

// TaskRepository persists tasks.
type TaskRepository interface {
	// FindTask returns a task by id, or domain.ErrNotFound.
	FindTask(ctx context.Context, id uuid.UUID) (*task.Task, error)

	// ListTasksByEpic returns the epic's tasks.
	ListTasksByEpic(ctx context.Context, epicID uuid.UUID) ([]task.Task, error)

	// SaveTask inserts or updates a task.
	SaveTask(ctx context.Context, t *task.Task) error

	// DeleteTask removes a task. Idempotent.
	DeleteTask(ctx context.Context, id uuid.UUID) error

	// DeleteTasksByEpic removes every task of an epic.
	DeleteTasksByEpic(ctx context.Context, epicID uuid.UUID) error
}

// CommentRepository persists epic activity comments.
type CommentRepository interface {
	// FindComment returns a comment by id, or domain.ErrNotFound.
	FindComment(ctx context.Context, id uuid.UUID) (*comment.Comment, error)

	// ListCommentsByEpic returns the epic's comments ordered by creation
	// time.
	ListCommentsByEpic(ctx context.Context, epicID uuid.UUID) ([]comment.Comment, error)

	// SaveComment inserts or updates a comment.
	SaveComment(ctx context.Context, c *comment.Comment) error

	// DeleteComment removes a comment. Idempotent.
	DeleteComment(ctx context.Context, id uuid.UUID) error

	// DeleteCommentsByEpic removes every comment on an epic.
	DeleteCommentsByEpic(ctx context.Context, epicID uuid.UUID) error

	// DeleteCommentsByAuthor removes every comment the user authored,
	// across all epics.
	DeleteCommentsByAuthor(ctx context.Context, authorID uuid.UUID) error
}

// InviteRepository persists pending-membership invites.
type InviteRepository interface {
	// FindInvite returns the invite for a (user, board) pair, or
	// domain.ErrNotFound.
	FindInvite(ctx context.Context, userID, boardID uuid.UUID) (*board.Invite, error)

	// ListInvitesByBoard returns all invites for a board.
	ListInvitesByBoard(ctx context.Context, boardID uuid.UUID) ([]board.Invite, error)

	// ListPendingInvitesByUser returns the user's open invites. Invites are
	// deleted when consumed, so every stored invite is pending.
	ListPendingInvitesByUser(ctx context.Context, userID uuid.UUID) ([]board.Invite, error)

	// SaveInvite inserts an invite. Saving an invite for a (user, board)
	// pair that already has one is a no-op.
	SaveInvite(ctx context.Context, inv *board.Invite) error

	// DeleteInvite removes the invite for a (user, board) pair. Idempotent.
	DeleteInvite(ctx context.Context, userID, boardID uuid.UUID) error

	// DeleteInvitesByBoard removes every invite for a board.
	DeleteInvitesByBoard(ctx context.Context, boardID uuid.UUID) error

	// DeleteInvitesByUser removes every invite addressed to a user.
	DeleteInvitesByUser(ctx context.Context, userID uuid.UUID) error
}

// UserRepository persists user identities.
type UserRepository interface {
	// FindUser returns a user by id, or domain.ErrNotFound.
	FindUser(ctx context.Context, id uuid.UUID) (*user.User, error)

	// FindUserByEmail returns a user by email, or domain.ErrNotFound.
	FindUserByEmail(ctx context.Context, email string) (*user.User, error)

	// SaveUser inserts or updates a user.
	SaveUser(ctx context.Context, u *user.User) error

	// DeleteUser removes the user row only; the cascade engine deletes
	// dependent rows first. Idempotent.
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// Store aggregates every repository port and adds the transaction boundary.
// Each mutating operation — including a full succession run for one user —
// executes inside a single transaction so a concurrent read never observes a
// board with zero owners or a half-cascaded deletion.
type Store interface {
	EntitlementRepository
	BoardRepository
	EpicRepository
	TaskRepository
	CommentRepository
	InviteRepository
	UserRepository

	// WithinTx runs fn inside one transaction; the Store handed to fn is
	// bound to that transaction. A non-nil error from fn rolls everything
	// back. Calls made on an already transaction-bound Store join the
	// ambient transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
