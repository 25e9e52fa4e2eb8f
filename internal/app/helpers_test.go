package app_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ArchieBar/task-tracker-it1/internal/adapters/store/sqlite"
	"github.com/ArchieBar/task-tracker-it1/internal/app"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/board"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/entitlement"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/epic"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/user"
)

// fixture wires every application service against a real store in a temp
// directory, which exercises the same transaction paths production uses.
type fixture struct {
	store      *sqlite.Store
	access     *app.Access
	succession *app.Succession
	boards     *app.BoardService
	epics      *app.EpicService
	tasks      *app.TaskService
	comments   *app.CommentService
	users      *app.UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "app.db"), 5*time.Second, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	succession := app.NewSuccession(store, nil, nil)
	return &fixture{
		store:      store,
		access:     app.NewAccess(store, nil, nil),
		succession: succession,
		boards:     app.NewBoardService(store, succession, nil),
		epics:      app.NewEpicService(store, nil),
		tasks:      app.NewTaskService(store, nil, nil),
		comments:   app.NewCommentService(store, nil),
		users:      app.NewUserService(store, succession, nil),
	}
}

func (f *fixture) seedUser(t *testing.T, firstName string) uuid.UUID {
	t.Helper()

	u, err := f.users.RegisterUser(context.Background(), &user.User{
		FirstName: firstName,
		LastName:  "Tester",
		Email:     firstName + "@example.com",
	})
	require.NoError(t, err)
	return u.ID
}

// seedBoard creates a board owned by ownerID through the service, so the
// OWNER entitlement and membership exist as in production.
func (f *fixture) seedBoard(t *testing.T, ownerID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	b, err := f.boards.CreateBoard(context.Background(), ownerID, &board.Board{Name: name})
	require.NoError(t, err)
	return b.ID
}

// grant adds a member with the given role and grant time directly, bypassing
// the invite flow where a test only needs the membership state.
func (f *fixture) grant(t *testing.T, boardID, userID uuid.UUID, role entitlement.Role, grantedAt time.Time) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, f.store.AddBoardMember(ctx, boardID, userID))
	require.NoError(t, f.store.SaveEntitlement(ctx, &entitlement.Entitlement{
		ID:        uuid.New(),
		BoardID:   boardID,
		UserID:    userID,
		Role:      role,
		GrantedAt: grantedAt,
	}))
}

func (f *fixture) seedEpic(t *testing.T, actorID, boardID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	e, err := f.epics.CreateEpic(context.Background(), actorID, boardID, &epic.Epic{Name: name})
	require.NoError(t, err)
	return e.ID
}
