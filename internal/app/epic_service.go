package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain/entitlement"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/epic"
	"github.com/ArchieBar/task-tracker-it1/internal/ports"
)

var _ ports.EpicService = (*EpicService)(nil)

// EpicService implements ports.EpicService.
type EpicService struct {
	store  ports.Store
	logger *slog.Logger
}

// NewEpicService creates an EpicService.
func NewEpicService(store ports.Store, logger *slog.Logger) *EpicService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &EpicService{store: store, logger: logger}
}

func (s *EpicService) FindEpic(ctx context.Context, epicID uuid.UUID) (*epic.Epic, error) {
	return s.store.FindEpic(ctx, epicID)
}

func (s *EpicService) ListEpics(ctx context.Context, boardID uuid.UUID) ([]epic.Epic, error) {
	if _, err := s.store.FindBoard(ctx, boardID); err != nil {
		return nil, err
	}
	return s.store.ListEpicsByBoard(ctx, boardID)
}

// CreateEpic creates an epic on the board. The status is derived from the
// task set, which is empty at creation.
func (s *EpicService) CreateEpic(ctx context.Context, actorID, boardID uuid.UUID, e *epic.Epic) (*epic.Epic, error) {
	e.ID = uuid.New()
	e.BoardID = boardID
	e.AuthorID = actorID
	e.Status = epic.ComputeStatus(nil)
	e.CreatedAt = time.Now().UTC()
	if err := e.Validate(); err != nil {
		return nil, err
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		if err := requireAction(ctx, tx, actorID, boardID, entitlement.ActionCreateEpic); err != nil {
			return err
		}
		if _, err := tx.FindBoard(ctx, boardID); err != nil {
			return err
		}
		return tx.SaveEpic(ctx, e)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create epic",
			slog.String("operation", "CreateEpic"),
			slog.String("board_id", boardID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "epic created",
		slog.String("operation", "CreateEpic"),
		slog.String("epic_id", e.ID.String()),
		slog.String("board_id", boardID.String()),
	)
	return e, nil
}

func (s *EpicService) UpdateEpic(ctx context.Context, actorID, epicID uuid.UUID, upd ports.EpicUpdate) (*epic.Epic, error) {
	var updated *epic.Epic

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		e, err := tx.FindEpic(ctx, epicID)
		if err != nil {
			return err
		}
		if err := requireAction(ctx, tx, actorID, e.BoardID, entitlement.ActionUpdateEpic); err != nil {
			return err
		}
		if upd.Name != nil {
			e.Name = *upd.Name
		}
		if upd.Description != nil {
			e.Description = *upd.Description
		}
		if err := e.Validate(); err != nil {
			return err
		}
		if err := tx.SaveEpic(ctx, e); err != nil {
			return fmt.Errorf("save epic: %w", err)
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteEpic removes the epic together with its tasks, comments and
// participant set.
func (s *EpicService) DeleteEpic(ctx context.Context, actorID, epicID uuid.UUID) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		e, err := tx.FindEpic(ctx, epicID)
		if err != nil {
			return err
		}
		if err := requireAction(ctx, tx, actorID, e.BoardID, entitlement.ActionDeleteEpic); err != nil {
			return err
		}
		if err := tx.DeleteTasksByEpic(ctx, epicID); err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		if err := tx.DeleteCommentsByEpic(ctx, epicID); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := tx.DeleteParticipantsByEpic(ctx, epicID); err != nil {
			return fmt.Errorf("delete participants: %w", err)
		}
		return tx.DeleteEpic(ctx, epicID)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "epic deleted",
		slog.String("operation", "DeleteEpic"),
		slog.String("epic_id", epicID.String()),
		slog.String("actor_id", actorID.String()),
	)
	return nil
}

// TakeEpic adds the actor to the epic's participant set. Any board member may
// take an epic; participation later feeds the task-completion policy.
func (s *EpicService) TakeEpic(ctx context.Context, actorID, epicID uuid.UUID) error {
	return s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		e, err := tx.FindEpic(ctx, epicID)
		if err != nil {
			return err
		}
		if _, err := resolveEntitlement(ctx, tx, actorID, e.BoardID); err != nil {
			return err
		}
		return tx.AddEpicParticipant(ctx, epicID, actorID)
	})
}

func (s *EpicService) RefuseEpic(ctx context.Context, actorID, epicID uuid.UUID) error {
	return s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		if _, err := tx.FindEpic(ctx, epicID); err != nil {
			return err
		}
		return tx.RemoveEpicParticipant(ctx, epicID, actorID)
	})
}
