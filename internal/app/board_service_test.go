package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/board"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/entitlement"
	"github.com/ArchieBar/task-tracker-it1/internal/ports"
)

func TestCreateBoardGrantsOwnership(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "owner")
	boardID := f.seedBoard(t, owner, "roadmap")

	ent, err := f.store.FindEntitlement(ctx, owner, boardID)
	require.NoError(t, err)
	assert.Equal(t, entitlement.RoleOwner, ent.Role)

	members, err := f.store.ListBoardMembers(ctx, boardID)
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestCreateBoardValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	owner := f.seedUser(t, "owner")
	_, err := f.boards.CreateBoard(context.Background(), owner, &board.Board{Name: "   "})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateBoardRequiresOwner(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "owner")
	admin := f.seedUser(t, "admin")
	boardID := f.seedBoard(t, owner, "old name")
	f.grant(t, boardID, admin, entitlement.RoleAdmin, time.Now().UTC())

	newName := "new name"

	// Even ADMIN is insufficient for board metadata.
	_, err := f.boards.UpdateBoard(ctx, admin, boardID, ports.BoardUpdate{Name: &newName})
	require.ErrorIs(t, err, domain.ErrAccessDenied)

	got, err := f.boards.UpdateBoard(ctx, owner, boardID, ports.BoardUpdate{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, got.Name)
}

func TestInviteAndConfirmFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "owner")
	invitee := f.seedUser(t, "invitee")
	boardID := f.seedBoard(t, owner, "roadmap")

	require.NoError(t, f.boards.InviteUser(ctx, owner, boardID, invitee))

	pending, err := f.boards.PendingInvites(ctx, invitee)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, boardID, pending[0].ID)

	require.NoError(t, f.boards.ConfirmInvite(ctx, invitee, boardID))

	ent, err := f.store.FindEntitlement(ctx, invitee, boardID)
	require.NoError(t, err)
	assert.Equal(t, entitlement.RoleUser, ent.Role)

	// The consumed invite row is deleted, not just hidden.
	_, err = f.store.FindInvite(ctx, invitee, boardID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	pending, err = f.boards.PendingInvites(ctx, invitee)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Replaying the confirm is a no-op for the now-entitled member.
	require.NoError(t, f.boards.ConfirmInvite(ctx, invitee, boardID))
}

func TestConfirmInviteWithoutInvite(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "owner")
	stranger := f.seedUser(t, "stranger")
	boardID := f.seedBoard(t, owner, "roadmap")

	err := f.boards.ConfirmInvite(ctx, stranger, boardID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInviteRequiresOwner(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "owner")
	admin := f.seedUser(t, "admin")
	invitee := f.seedUser(t, "invitee")
	boardID := f.seedBoard(t, owner, "roadmap")
	f.grant(t, boardID, admin, entitlement.RoleAdmin, time.Now().UTC())

	err := f.boards.InviteUser(ctx, admin, boardID, invitee)
	require.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestIssueEntitlement(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "owner")
	admin := f.seedUser(t, "admin")
	member := f.seedUser(t, "member")
	boardID := f.seedBoard(t, owner, "roadmap")
	f.grant(t, boardID, admin, entitlement.RoleAdmin, time.Now().UTC())
	f.grant(t, boardID, member, entitlement.RoleUser, time.Now().UTC())

	// ADMIN may issue roles below OWNER.
	require.NoError(t, f.boards.IssueEntitlement(ctx, admin, boardID, member, entitlement.RoleEditor))

	ent, err := f.store.FindEntitlement(ctx, member, boardID)
	require.NoError(t, err)
	assert.Equal(t, entitlement.RoleEditor, ent.Role)

	// ADMIN may not grant OWNER.
	err = f.boards.IssueEntitlement(ctx, admin, boardID, member, entitlement.RoleOwner)
	require.ErrorIs(t, err, domain.ErrAccessDenied)

	// OWNER may grant OWNER.
	require.NoError(t, f.boards.IssueEntitlement(ctx, owner, boardID, member, entitlement.RoleOwner))

	// A target already holding OWNER is immutable.
	err = f.boards.IssueEntitlement(ctx, admin, boardID, member, entitlement.RoleUser)
	require.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestIssueEntitlementTargetWithoutRights(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "owner")
	outsider := f.seedUser(t, "outsider")
	boardID := f.seedBoard(t, owner, "roadmap")

	err := f.boards.IssueEntitlement(ctx, owner, boardID, outsider, entitlement.RoleEditor)
	require.ErrorIs(t, err, domain.ErrRightsNotFound)
}

func TestDeleteBoardRequiresOwnerAndCascades(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedUser(t, "owner")
	editor := f.seedUser(t, "editor")
	boardID := f.seedBoard(t, owner, "roadmap")
	f.grant(t, boardID, editor, entitlement.RoleEditor, time.Now().UTC())

	epicID := f.seedEpic(t, editor, boardID, "launch")
	taskRec, err := f.tasks.CreateTask(ctx, editor, epicID, "ship it")
	require.NoError(t, err)
	commentRec, err := f.comments.CreateComment(ctx, editor, epicID, "on it")
	require.NoError(t, err)

	err = f.boards.DeleteBoard(ctx, editor, boardID)
	require.ErrorIs(t, err, domain.ErrAccessDenied)

	require.NoError(t, f.boards.DeleteBoard(ctx, owner, boardID))

	_, err = f.store.FindBoard(ctx, boardID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.store.FindEpic(ctx, epicID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.store.FindTask(ctx, taskRec.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.store.FindComment(ctx, commentRec.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.store.FindEntitlement(ctx, owner, boardID)
	require.ErrorIs(t, err, domain.ErrRightsNotFound)
}
