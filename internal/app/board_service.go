package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/board"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/entitlement"
	"github.com/ArchieBar/task-tracker-it1/internal/ports"
)

var _ ports.BoardService = (*BoardService)(nil)

// BoardService implements ports.BoardService.
type BoardService struct {
	store      ports.Store
	succession *Succession
	logger     *slog.Logger
}

// NewBoardService creates a BoardService.
func NewBoardService(store ports.Store, succession *Succession, logger *slog.Logger) *BoardService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BoardService{store: store, succession: succession, logger: logger}
}

// CreateBoard creates the board, its owner membership and the OWNER
// entitlement in one transaction, so a board is never observable without an
// owner.
func (s *BoardService) CreateBoard(ctx context.Context, ownerID uuid.UUID, b *board.Board) (*board.Board, error) {
	b.ID = uuid.New()
	b.CreatedAt = time.Now().UTC()
	if err := b.Validate(); err != nil {
		return nil, err
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		if _, err := tx.FindUser(ctx, ownerID); err != nil {
			return err
		}
		if err := tx.SaveBoard(ctx, b); err != nil {
			return fmt.Errorf("save board: %w", err)
		}
		if err := tx.AddBoardMember(ctx, b.ID, ownerID); err != nil {
			return fmt.Errorf("add member: %w", err)
		}
		ent := &entitlement.Entitlement{
			ID:        uuid.New(),
			BoardID:   b.ID,
			UserID:    ownerID,
			Role:      entitlement.RoleOwner,
			GrantedAt: b.CreatedAt,
		}
		if err := tx.SaveEntitlement(ctx, ent); err != nil {
			return fmt.Errorf("grant ownership: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create board",
			slog.String("operation", "CreateBoard"),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "board created",
		slog.String("operation", "CreateBoard"),
		slog.String("board_id", b.ID.String()),
		slog.String("owner_id", ownerID.String()),
	)
	return b, nil
}

func (s *BoardService) FindBoard(ctx context.Context, boardID uuid.UUID) (*board.Board, error) {
	return s.store.FindBoard(ctx, boardID)
}

func (s *BoardService) UpdateBoard(ctx context.Context, actorID, boardID uuid.UUID, upd ports.BoardUpdate) (*board.Board, error) {
	var updated *board.Board

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		if err := requireAction(ctx, tx, actorID, boardID, entitlement.ActionUpdateBoard); err != nil {
			return err
		}
		b, err := tx.FindBoard(ctx, boardID)
		if err != nil {
			return err
		}
		if upd.Name != nil {
			b.Name = *upd.Name
		}
		if err := b.Validate(); err != nil {
			return err
		}
		if err := tx.SaveBoard(ctx, b); err != nil {
			return fmt.Errorf("save board: %w", err)
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteBoard verifies ownership and runs the board cascade in the same
// transaction as the check.
func (s *BoardService) DeleteBoard(ctx context.Context, actorID, boardID uuid.UUID) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		if err := requireAction(ctx, tx, actorID, boardID, entitlement.ActionDeleteBoard); err != nil {
			return err
		}
		if _, err := tx.FindBoard(ctx, boardID); err != nil {
			return err
		}
		return cascadeBoard(ctx, tx, boardID)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "board deleted",
		slog.String("operation", "DeleteBoard"),
		slog.String("board_id", boardID.String()),
		slog.String("actor_id", actorID.String()),
	)
	return nil
}

// InviteUser records a pending invite. Re-inviting an already invited user
// succeeds without creating a second invite.
func (s *BoardService) InviteUser(ctx context.Context, actorID, boardID, userID uuid.UUID) error {
	return s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		if err := requireAction(ctx, tx, actorID, boardID, entitlement.ActionInviteUser); err != nil {
			return err
		}
		if _, err := tx.FindUser(ctx, userID); err != nil {
			return err
		}
		if _, err := tx.FindInvite(ctx, userID, boardID); err == nil {
			return nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		inv := &board.Invite{
			ID:        uuid.New(),
			BoardID:   boardID,
			UserID:    userID,
			CreatedAt: time.Now().UTC(),
		}
		return tx.SaveInvite(ctx, inv)
	})
}

// ConfirmInvite consumes the pending invite: the user joins the member set,
// receives a USER entitlement, and the invite row is deleted. Confirming
// again after the invite is consumed is a no-op for a user who already holds
// an entitlement on the board.
func (s *BoardService) ConfirmInvite(ctx context.Context, userID, boardID uuid.UUID) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		if _, err := tx.FindInvite(ctx, userID, boardID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				if _, entErr := tx.FindEntitlement(ctx, userID, boardID); entErr == nil {
					return nil
				}
			}
			return err
		}
		if err := tx.AddBoardMember(ctx, boardID, userID); err != nil {
			return fmt.Errorf("add member: %w", err)
		}
		ent := &entitlement.Entitlement{
			ID:        uuid.New(),
			BoardID:   boardID,
			UserID:    userID,
			Role:      entitlement.RoleUser,
			GrantedAt: time.Now().UTC(),
		}
		if err := tx.SaveEntitlement(ctx, ent); err != nil {
			return fmt.Errorf("grant entitlement: %w", err)
		}
		if err := tx.DeleteInvite(ctx, userID, boardID); err != nil {
			return fmt.Errorf("consume invite: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "invite confirmed",
		slog.String("operation", "ConfirmInvite"),
		slog.String("board_id", boardID.String()),
		slog.String("user_id", userID.String()),
	)
	return nil
}

func (s *BoardService) PendingInvites(ctx context.Context, userID uuid.UUID) ([]board.Board, error) {
	invites, err := s.store.ListPendingInvitesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	boards := make([]board.Board, 0, len(invites))
	for _, inv := range invites {
		b, err := s.store.FindBoard(ctx, inv.BoardID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		boards = append(boards, *b)
	}
	return boards, nil
}

// IssueEntitlement reassigns the target member's role under the reassignment
// policy: the actor needs ADMIN, granting OWNER needs OWNER, and a target
// already holding OWNER is never reassigned.
func (s *BoardService) IssueEntitlement(ctx context.Context, actorID, boardID, targetID uuid.UUID, role entitlement.Role) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		actor, err := resolveEntitlement(ctx, tx, actorID, boardID)
		if err != nil {
			return err
		}
		target, err := resolveEntitlement(ctx, tx, targetID, boardID)
		if err != nil {
			return err
		}
		if !entitlement.CanReassign(actor.Role, role, target.Role) {
			return &domain.AccessDeniedError{UserID: actorID}
		}
		target.Role = role
		return tx.SaveEntitlement(ctx, target)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "entitlement issued",
		slog.String("operation", "IssueEntitlement"),
		slog.String("board_id", boardID.String()),
		slog.String("target_id", targetID.String()),
		slog.String("role", role.String()),
	)
	return nil
}
