package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/entitlement"
)

func TestUserCascadePromotesStrongestRole(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "owner")
	admin := f.seedUser(t, "admin")
	editor := f.seedUser(t, "editor")
	member := f.seedUser(t, "member")
	boardID := f.seedBoard(t, owner, "roadmap")

	base := time.Now().UTC()
	f.grant(t, boardID, admin, entitlement.RoleAdmin, base.Add(time.Minute))
	f.grant(t, boardID, editor, entitlement.RoleEditor, base)
	f.grant(t, boardID, member, entitlement.RoleUser, base)

	require.NoError(t, f.users.DeleteUser(ctx, owner))

	// The ADMIN wins over the earlier-granted EDITOR and USER.
	ent, err := f.store.FindEntitlement(ctx, admin, boardID)
	require.NoError(t, err)
	assert.Equal(t, entitlement.RoleOwner, ent.Role)

	// Other members keep their roles.
	ent, err = f.store.FindEntitlement(ctx, editor, boardID)
	require.NoError(t, err)
	assert.Equal(t, entitlement.RoleEditor, ent.Role)

	// The departed owner is fully gone.
	_, err = f.store.FindUser(ctx, owner)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.store.FindEntitlement(ctx, owner, boardID)
	require.ErrorIs(t, err, domain.ErrRightsNotFound)
}

func TestUserCascadeFallsBackThroughRanks(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	base := time.Now().UTC()

	// Board with only an EDITOR besides the owner.
	owner1 := f.seedUser(t, "ownerone")
	editor := f.seedUser(t, "editor")
	boardWithEditor := f.seedBoard(t, owner1, "editor board")
	f.grant(t, boardWithEditor, editor, entitlement.RoleEditor, base)
	require.NoError(t, f.users.DeleteUser(ctx, owner1))

	ent, err := f.store.FindEntitlement(ctx, editor, boardWithEditor)
	require.NoError(t, err)
	assert.Equal(t, entitlement.RoleOwner, ent.Role)

	// Board with only a USER besides the owner.
	owner2 := f.seedUser(t, "ownertwo")
	member := f.seedUser(t, "member")
	boardWithUser := f.seedBoard(t, owner2, "user board")
	f.grant(t, boardWithUser, member, entitlement.RoleUser, base)
	require.NoError(t, f.users.DeleteUser(ctx, owner2))

	ent, err = f.store.FindEntitlement(ctx, member, boardWithUser)
	require.NoError(t, err)
	assert.Equal(t, entitlement.RoleOwner, ent.Role)
}

func TestUserCascadeTieBreaksByEarliestGrant(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "owner")
	laterAdmin := f.seedUser(t, "later")
	earlierAdmin := f.seedUser(t, "earlier")
	boardID := f.seedBoard(t, owner, "roadmap")

	base := time.Now().UTC()
	f.grant(t, boardID, laterAdmin, entitlement.RoleAdmin, base.Add(time.Hour))
	f.grant(t, boardID, earlierAdmin, entitlement.RoleAdmin, base)

	require.NoError(t, f.users.DeleteUser(ctx, owner))

	ent, err := f.store.FindEntitlement(ctx, earlierAdmin, boardID)
	require.NoError(t, err)
	assert.Equal(t, entitlement.RoleOwner, ent.Role, "earliest-granted admin must inherit")

	ent, err = f.store.FindEntitlement(ctx, laterAdmin, boardID)
	require.NoError(t, err)
	assert.Equal(t, entitlement.RoleAdmin, ent.Role)
}

func TestUserCascadeDeletesMemberlessBoard(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "sole")
	boardID := f.seedBoard(t, owner, "private notes")
	epicID := f.seedEpic(t, owner, boardID, "thoughts")
	tk, err := f.tasks.CreateTask(ctx, owner, epicID, "remember")
	require.NoError(t, err)

	require.NoError(t, f.users.DeleteUser(ctx, owner))

	_, err = f.store.FindBoard(ctx, boardID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.store.FindEpic(ctx, epicID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.store.FindTask(ctx, tk.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserCascadeResolvesEveryOwnedBoard(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "owner")
	heir := f.seedUser(t, "heir")

	inherited := f.seedBoard(t, owner, "inherited")
	orphaned := f.seedBoard(t, owner, "orphaned")
	f.grant(t, inherited, heir, entitlement.RoleUser, time.Now().UTC())

	require.NoError(t, f.users.DeleteUser(ctx, owner))

	// The board with a member survives under its new owner.
	ent, err := f.store.FindEntitlement(ctx, heir, inherited)
	require.NoError(t, err)
	assert.Equal(t, entitlement.RoleOwner, ent.Role)

	// The board without members is gone.
	_, err = f.store.FindBoard(ctx, orphaned)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserCascadeSweepsAllTraces(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "owner")
	departing := f.seedUser(t, "departing")
	boardID := f.seedBoard(t, owner, "roadmap")
	f.grant(t, boardID, departing, entitlement.RoleEditor, time.Now().UTC())

	epicID := f.seedEpic(t, owner, boardID, "launch")
	require.NoError(t, f.epics.TakeEpic(ctx, departing, epicID))
	c, err := f.comments.CreateComment(ctx, departing, epicID, "my two cents")
	require.NoError(t, err)

	// An open invite to the departing user on a board they never joined.
	otherBoard := f.seedBoard(t, owner, "backlog")
	require.NoError(t, f.boards.InviteUser(ctx, owner, otherBoard, departing))

	require.NoError(t, f.users.DeleteUser(ctx, departing))

	// Board and epic survive, the departing user's traces do not.
	_, err = f.store.FindBoard(ctx, boardID)
	require.NoError(t, err)
	participant, err := f.store.IsEpicParticipant(ctx, epicID, departing)
	require.NoError(t, err)
	assert.False(t, participant)
	_, err = f.store.FindComment(ctx, c.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.store.FindEntitlement(ctx, departing, boardID)
	require.ErrorIs(t, err, domain.ErrRightsNotFound)
	_, err = f.store.FindInvite(ctx, departing, otherBoard)
	require.ErrorIs(t, err, domain.ErrNotFound)
	invites, err := f.store.ListInvitesByBoard(ctx, otherBoard)
	require.NoError(t, err)
	assert.Empty(t, invites)

	// The owner is untouched.
	ent, err := f.store.FindEntitlement(ctx, owner, boardID)
	require.NoError(t, err)
	assert.Equal(t, entitlement.RoleOwner, ent.Role)
}

func TestUserCascadeMissingUser(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	err := f.users.DeleteUser(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBoardCascadeIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "owner")
	boardID := f.seedBoard(t, owner, "roadmap")
	f.seedEpic(t, owner, boardID, "launch")

	require.NoError(t, f.succession.DeleteBoardCascade(ctx, boardID))
	// Replaying the cascade on an already-deleted board finishes cleanly.
	require.NoError(t, f.succession.DeleteBoardCascade(ctx, boardID))

	_, err := f.store.FindBoard(ctx, boardID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
