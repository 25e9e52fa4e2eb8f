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

// AccessService is the reusable authorization check exposed to the API layer
// and shared by every board-scoped operation.
type AccessService interface {
	// CheckAccess resolves the actor's entitlement on the board and
	// evaluates the role policy for the action. It returns nil on allow,
	// domain.ErrRightsNotFound when no entitlement exists for the pair,
	// and domain.ErrAccessDenied when the held role is insufficient.
	// The check never mutates state.
	CheckAccess(ctx context.Context, userID, boardID uuid.UUID, action entitlement.Action) error
}

// SuccessionEngine orchestrates the lifecycle cascades that fire when a board
// or a user is deleted.
type SuccessionEngine interface {
	// DeleteBoardCascade deletes the board and everything referencing it:
	// tasks, epics (with comments and participant sets), invites,
	// entitlements and memberships, children before parents. The caller
	// is responsible for having verified the actor is OWNER; no role
	// reassignment happens on this path.
	DeleteBoardCascade(ctx context.Context, boardID uuid.UUID) error

	// DeleteUserCascade resolves ownership succession for every board the
	// user owns, then deletes the user's entitlements, memberships,
	// authored comments, addressed invites and finally the user row. For each owned board a
	// remaining member is promoted to OWNER — strongest role first,
	// earliest grant winning among equals — and a board left with no
	// members at all is deleted via the board cascade. Boards or
	// entitlements that disappear mid-run are treated as already
	// resolved, never as errors.
	DeleteUserCascade(ctx context.Context, userID uuid.UUID) error
}

// BoardUpdate carries the optional fields of a board update; nil means
// "leave unchanged".
type BoardUpdate struct {
	Name *string
}

// BoardService is the board-facing service port.
type BoardService interface {
	// CreateBoard creates a board owned by ownerID. The OWNER entitlement
	// and the board membership are created atomically with the board.
	// Returns domain.ErrNotFound if the owner does not exist and
	// domain.ErrValidation if the board fails validation.
	CreateBoard(ctx context.Context, ownerID uuid.UUID, b *board.Board) (*board.Board, error)

	// FindBoard returns a board by id, or domain.ErrNotFound.
	FindBoard(ctx context.Context, boardID uuid.UUID) (*board.Board, error)

	// UpdateBoard applies the non-nil fields of upd. Requires OWNER.
	UpdateBoard(ctx context.Context, actorID, boardID uuid.UUID, upd BoardUpdate) (*board.Board, error)

	// DeleteBoard verifies the actor is OWNER and runs the board cascade.
	DeleteBoard(ctx context.Context, actorID, boardID uuid.UUID) error

	// InviteUser records a pending invite of userID to the board.
	// Requires OWNER.
	InviteUser(ctx context.Context, actorID, boardID, userID uuid.UUID) error

	// ConfirmInvite consumes the user's pending invite: adds the user to
	// the board's member set, grants a USER entitlement and deletes the
	// invite. Returns domain.ErrNotFound if no invite exists, unless the
	// user already holds an entitlement on the board (replayed confirm),
	// which is a no-op.
	ConfirmInvite(ctx context.Context, userID, boardID uuid.UUID) error

	// PendingInvites returns the boards the user has open invites to.
	PendingInvites(ctx context.Context, userID uuid.UUID) ([]board.Board, error)

	// IssueEntitlement reassigns the target member's role. Requires ADMIN;
	// granting OWNER requires OWNER; a target already holding OWNER is
	// never reassigned.
	IssueEntitlement(ctx context.Context, actorID, boardID, targetID uuid.UUID, role entitlement.Role) error
}

// EpicUpdate carries the optional fields of an epic update; nil means
// "leave unchanged".
type EpicUpdate struct {
	Name        *string
	Description *string
}

// EpicService is the epic-facing service port.
type EpicService interface {
	// FindEpic returns an epic by id, or domain.ErrNotFound.
	FindEpic(ctx context.Context, epicID uuid.UUID) (*epic.Epic, error)

	// ListEpics returns the board's epics. Returns domain.ErrNotFound if
	// the board does not exist.
	ListEpics(ctx context.Context, boardID uuid.UUID) ([]epic.Epic, error)

	// CreateEpic creates an epic on the board authored by actorID, with
	// status derived from its (empty) task set. Requires EDITOR.
	CreateEpic(ctx context.Context, actorID, boardID uuid.UUID, e *epic.Epic) (*epic.Epic, error)

	// UpdateEpic applies the non-nil fields of upd. Requires EDITOR.
	// The derived status cannot be updated through this path.
	UpdateEpic(ctx context.Context, actorID, epicID uuid.UUID, upd EpicUpdate) (*epic.Epic, error)

	// DeleteEpic deletes the epic with its tasks, comments and
	// participant set. Requires EDITOR.
	DeleteEpic(ctx context.Context, actorID, epicID uuid.UUID) error

	// TakeEpic adds the actor to the epic's participant set. Any board
	// member may take an epic.
	TakeEpic(ctx context.Context, actorID, epicID uuid.UUID) error

	// RefuseEpic removes the actor from the epic's participant set.
	// Returns domain.ErrInvalidState if the actor is not a participant.
	RefuseEpic(ctx context.Context, actorID, epicID uuid.UUID) error
}

// TaskUpdate carries the optional fields of a task update; nil means
// "leave unchanged".
type TaskUpdate struct {
	Description *string
}

// TaskService is the task-facing service port.
type TaskService interface {
	// FindTask returns a task by id, or domain.ErrNotFound.
	FindTask(ctx context.Context, taskID uuid.UUID) (*task.Task, error)

	// ListTasks returns the epic's tasks. Returns domain.ErrNotFound if
	// the epic does not exist.
	ListTasks(ctx context.Context, epicID uuid.UUID) ([]task.Task, error)

	// CreateTask creates a task in the epic and recomputes the epic's
	// status. Requires EDITOR.
	CreateTask(ctx context.Context, actorID, epicID uuid.UUID, description string) (*task.Task, error)

	// UpdateTask applies the non-nil fields of upd. Requires EDITOR.
	UpdateTask(ctx context.Context, actorID, taskID uuid.UUID, upd TaskUpdate) (*task.Task, error)

	// SetTaskCompleted flips the task's completion flag and recomputes the
	// owning epic's status. Allowed for participants of the epic and for
	// EDITOR-or-above members.
	SetTaskCompleted(ctx context.Context, actorID, taskID uuid.UUID, completed bool) (*task.Task, error)

	// DeleteTask deletes the task and recomputes the owning epic's status.
	// Requires EDITOR.
	DeleteTask(ctx context.Context, actorID, taskID uuid.UUID) error

	// RecomputeEpicStatus recomputes and persists the epic's derived
	// status from its current task set, returning the new status.
	RecomputeEpicStatus(ctx context.Context, epicID uuid.UUID) (epic.Status, error)
}

// CommentService is the comment-facing service port.
type CommentService interface {
	// ListComments returns the epic's comments ordered by creation time.
	ListComments(ctx context.Context, epicID uuid.UUID) ([]comment.Comment, error)

	// CreateComment adds a comment authored by actorID to the epic. Any
	// member holding an entitlement on the epic's board may comment.
	CreateComment(ctx context.Context, actorID, epicID uuid.UUID, text string) (*comment.Comment, error)

	// UpdateComment replaces the comment text. Only the author may update
	// a comment, regardless of role.
	UpdateComment(ctx context.Context, actorID, commentID uuid.UUID, text string) (*comment.Comment, error)

	// DeleteComment deletes a comment. The author may always delete their
	// own; deleting someone else's requires ADMIN.
	DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error
}

// UserUpdate carries the optional fields of a user update; nil means
// "leave unchanged".
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// UserService is the user-facing service port.
type UserService interface {
	// RegisterUser creates a new user. Returns domain.ErrValidation if the
	// user fails validation.
	RegisterUser(ctx context.Context, u *user.User) (*user.User, error)

	// FindUser returns a user by id, or domain.ErrNotFound.
	FindUser(ctx context.Context, userID uuid.UUID) (*user.User, error)

	// UpdateUser applies the non-nil fields of upd.
	UpdateUser(ctx context.Context, userID uuid.UUID, upd UserUpdate) (*user.User, error)

	// DeleteUser runs the full user cascade, resolving ownership
	// succession for every board the user owns before removing the user.
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}
