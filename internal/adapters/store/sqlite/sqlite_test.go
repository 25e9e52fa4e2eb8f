package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArchieBar/task-tracker-it1/internal/adapters/store/sqlite"
	"github.com/ArchieBar/task-tracker-it1/internal/domain"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/board"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/entitlement"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/epic"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/task"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/user"
	"github.com/ArchieBar/task-tracker-it1/internal/ports"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), 5*time.Second, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestEntitlementRoundtrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	boardID := uuid.New()
	userID := uuid.New()
	granted := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	ent := &entitlement.Entitlement{
		ID:        uuid.New(),
		BoardID:   boardID,
		UserID:    userID,
		Role:      entitlement.RoleEditor,
		GrantedAt: granted,
	}
	require.NoError(t, s.SaveEntitlement(ctx, ent))

	got, err := s.FindEntitlement(ctx, userID, boardID)
	require.NoError(t, err)
	assert.Equal(t, entitlement.RoleEditor, got.Role)
	assert.True(t, got.GrantedAt.Equal(granted))
}

func TestFindEntitlementMissing(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.FindEntitlement(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, domain.ErrRightsNotFound)

	var rerr *domain.RightsNotFoundError
	require.ErrorAs(t, err, &rerr)
}

func TestSaveEntitlementPreservesGrantTime(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	boardID := uuid.New()
	userID := uuid.New()
	granted := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

	ent := &entitlement.Entitlement{
		ID:        uuid.New(),
		BoardID:   boardID,
		UserID:    userID,
		Role:      entitlement.RoleUser,
		GrantedAt: granted,
	}
	require.NoError(t, s.SaveEntitlement(ctx, ent))

	// Promote with a fresh record; the stored grant time must survive.
	promoted := &entitlement.Entitlement{
		ID:        uuid.New(),
		BoardID:   boardID,
		UserID:    userID,
		Role:      entitlement.RoleOwner,
		GrantedAt: granted.Add(48 * time.Hour),
	}
	require.NoError(t, s.SaveEntitlement(ctx, promoted))

	got, err := s.FindEntitlement(ctx, userID, boardID)
	require.NoError(t, err)
	assert.Equal(t, entitlement.RoleOwner, got.Role)
	assert.True(t, got.GrantedAt.Equal(granted), "granted_at must not change on promotion")
}

func TestFindEntitlementsByBoardOrder(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	boardID := uuid.New()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	third := uuid.New()
	first := uuid.New()
	second := uuid.New()

	// Insert out of chronological order.
	for _, ent := range []entitlement.Entitlement{
		{ID: uuid.New(), BoardID: boardID, UserID: third, Role: entitlement.RoleUser, GrantedAt: base.Add(2 * time.Hour)},
		{ID: uuid.New(), BoardID: boardID, UserID: first, Role: entitlement.RoleAdmin, GrantedAt: base},
		{ID: uuid.New(), BoardID: boardID, UserID: second, Role: entitlement.RoleEditor, GrantedAt: base.Add(time.Hour)},
	} {
		require.NoError(t, s.SaveEntitlement(ctx, &ent))
	}

	ents, err := s.FindEntitlementsByBoard(ctx, boardID)
	require.NoError(t, err)
	require.Len(t, ents, 3)
	assert.Equal(t, first, ents[0].UserID)
	assert.Equal(t, second, ents[1].UserID)
	assert.Equal(t, third, ents[2].UserID)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	boardID := uuid.New()
	errBoom := errors.New("boom")

	err := s.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		b := &board.Board{ID: boardID, Name: "doomed", CreatedAt: time.Now().UTC()}
		if err := tx.SaveBoard(ctx, b); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = s.FindBoard(ctx, boardID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWithinTxJoinsAmbientTransaction(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	boardID := uuid.New()

	err := s.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		return tx.WithinTx(ctx, func(ctx context.Context, inner ports.Store) error {
			b := &board.Board{ID: boardID, Name: "nested", CreatedAt: time.Now().UTC()}
			return inner.SaveBoard(ctx, b)
		})
	})
	require.NoError(t, err)

	got, err := s.FindBoard(ctx, boardID)
	require.NoError(t, err)
	assert.Equal(t, "nested", got.Name)
}

func TestRemoveEpicParticipantNotParticipating(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	err := s.RemoveEpicParticipant(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestEpicParticipantLifecycle(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	epicID := uuid.New()
	userID := uuid.New()

	require.NoError(t, s.AddEpicParticipant(ctx, epicID, userID))
	// Taking twice is a no-op.
	require.NoError(t, s.AddEpicParticipant(ctx, epicID, userID))

	participant, err := s.IsEpicParticipant(ctx, epicID, userID)
	require.NoError(t, err)
	assert.True(t, participant)

	require.NoError(t, s.RemoveEpicParticipant(ctx, epicID, userID))

	participant, err = s.IsEpicParticipant(ctx, epicID, userID)
	require.NoError(t, err)
	assert.False(t, participant)
}

func TestEpicRoundtrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	e := &epic.Epic{
		ID:          uuid.New(),
		BoardID:     uuid.New(),
		AuthorID:    uuid.New(),
		Name:        "payments",
		Description: "migrate the payments flow",
		Status:      epic.StatusTodo,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.SaveEpic(ctx, e))

	e.Status = epic.StatusDoing
	require.NoError(t, s.SaveEpic(ctx, e))

	got, err := s.FindEpic(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, epic.StatusDoing, got.Status)
	assert.Equal(t, e.BoardID, got.BoardID)
	assert.Equal(t, "payments", got.Name)
}

func TestTaskRoundtrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	epicID := uuid.New()
	tk := &task.Task{ID: uuid.New(), EpicID: epicID, Description: "write schema"}
	require.NoError(t, s.SaveTask(ctx, tk))

	tk.Completed = true
	require.NoError(t, s.SaveTask(ctx, tk))

	got, err := s.FindTask(ctx, tk.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	tasks, err := s.ListTasksByEpic(ctx, epicID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
}

func TestFindUserByEmail(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := &user.User{
		ID:        uuid.New(),
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.SaveUser(ctx, u))

	got, err := s.FindUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.FindUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	assert.Equal(t, "sqlite", s.Name())
	require.NoError(t, s.HealthCheck(context.Background()))
}
