package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/entitlement"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/epic"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/task"
	"github.com/ArchieBar/task-tracker-it1/internal/platform/telemetry"
	"github.com/ArchieBar/task-tracker-it1/internal/ports"
)

var _ ports.TaskService = (*TaskService)(nil)

// TaskService implements ports.TaskService. Every mutation that changes the
// task set of an epic recomputes the epic's derived status in the same
// transaction.
type TaskService struct {
	store   ports.Store
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewTaskService creates a TaskService. The metrics may be nil.
func NewTaskService(store ports.Store, logger *slog.Logger, metrics *telemetry.Metrics) *TaskService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TaskService{store: store, logger: logger, metrics: metrics}
}

func (s *TaskService) FindTask(ctx context.Context, taskID uuid.UUID) (*task.Task, error) {
	return s.store.FindTask(ctx, taskID)
}

func (s *TaskService) ListTasks(ctx context.Context, epicID uuid.UUID) ([]task.Task, error) {
	if _, err := s.store.FindEpic(ctx, epicID); err != nil {
		return nil, err
	}
	return s.store.ListTasksByEpic(ctx, epicID)
}

func (s *TaskService) CreateTask(ctx context.Context, actorID, epicID uuid.UUID, description string) (*task.Task, error) {
	t := &task.Task{
		ID:          uuid.New(),
		EpicID:      epicID,
		Description: description,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		e, err := tx.FindEpic(ctx, epicID)
		if err != nil {
			return err
		}
		if err := requireAction(ctx, tx, actorID, e.BoardID, entitlement.ActionCreateTask); err != nil {
			return err
		}
		if err := tx.SaveTask(ctx, t); err != nil {
			return fmt.Errorf("save task: %w", err)
		}
		_, err = s.recomputeStatus(ctx, tx, e)
		return err
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create task",
			slog.String("operation", "CreateTask"),
			slog.String("epic_id", epicID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "task created",
		slog.String("operation", "CreateTask"),
		slog.String("task_id", t.ID.String()),
		slog.String("epic_id", epicID.String()),
	)
	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, actorID, taskID uuid.UUID, upd ports.TaskUpdate) (*task.Task, error) {
	var updated *task.Task

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		t, err := tx.FindTask(ctx, taskID)
		if err != nil {
			return err
		}
		e, err := s.owningEpic(ctx, tx, t)
		if err != nil {
			return err
		}
		if err := requireAction(ctx, tx, actorID, e.BoardID, entitlement.ActionUpdateTask); err != nil {
			return err
		}
		if upd.Description != nil {
			t.Description = *upd.Description
		}
		if err := t.Validate(); err != nil {
			return err
		}
		if err := tx.SaveTask(ctx, t); err != nil {
			return fmt.Errorf("save task: %w", err)
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetTaskCompleted flips the completion flag and recomputes the owning
// epic's status. Participants of the epic may complete tasks regardless of
// role; everyone else needs EDITOR or above.
func (s *TaskService) SetTaskCompleted(ctx context.Context, actorID, taskID uuid.UUID, completed bool) (*task.Task, error) {
	var updated *task.Task

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		t, err := tx.FindTask(ctx, taskID)
		if err != nil {
			return err
		}
		e, err := s.owningEpic(ctx, tx, t)
		if err != nil {
			return err
		}
		ent, err := resolveEntitlement(ctx, tx, actorID, e.BoardID)
		if err != nil {
			return err
		}
		participant, err := tx.IsEpicParticipant(ctx, e.ID, actorID)
		if err != nil {
			return err
		}
		if !participant && !entitlement.CanPerform(ent.Role, entitlement.ActionCompleteTask) {
			return &domain.AccessDeniedError{UserID: actorID}
		}

		t.Completed = completed
		if err := tx.SaveTask(ctx, t); err != nil {
			return fmt.Errorf("save task: %w", err)
		}
		if _, err := s.recomputeStatus(ctx, tx, e); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "task completion changed",
		slog.String("operation", "SetTaskCompleted"),
		slog.String("task_id", taskID.String()),
		slog.Bool("completed", completed),
	)
	return updated, nil
}

// DeleteTask removes the task and recomputes the owning epic's status, so an
// epic whose only incomplete task was deleted moves to DONE.
func (s *TaskService) DeleteTask(ctx context.Context, actorID, taskID uuid.UUID) error {
	return s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		t, err := tx.FindTask(ctx, taskID)
		if err != nil {
			return err
		}
		e, err := s.owningEpic(ctx, tx, t)
		if err != nil {
			return err
		}
		if err := requireAction(ctx, tx, actorID, e.BoardID, entitlement.ActionDeleteTask); err != nil {
			return err
		}
		if err := tx.DeleteTask(ctx, taskID); err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		_, err = s.recomputeStatus(ctx, tx, e)
		return err
	})
}

func (s *TaskService) RecomputeEpicStatus(ctx context.Context, epicID uuid.UUID) (epic.Status, error) {
	var status epic.Status

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		e, err := tx.FindEpic(ctx, epicID)
		if err != nil {
			return err
		}
		status, err = s.recomputeStatus(ctx, tx, e)
		return err
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// owningEpic resolves the epic a task belongs to. A task whose epic is gone
// is in an invalid state, not merely missing.
func (s *TaskService) owningEpic(ctx context.Context, tx ports.Store, t *task.Task) (*epic.Epic, error) {
	e, err := tx.FindEpic(ctx, t.EpicID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("task %s references missing epic %s: %w", t.ID, t.EpicID, domain.ErrInvalidState)
		}
		return nil, err
	}
	return e, nil
}

// recomputeStatus derives the epic's status from its current task set and
// persists it when it changed.
func (s *TaskService) recomputeStatus(ctx context.Context, tx ports.Store, e *epic.Epic) (epic.Status, error) {
	tasks, err := tx.ListTasksByEpic(ctx, e.ID)
	if err != nil {
		return "", fmt.Errorf("list tasks: %w", err)
	}

	status := epic.ComputeStatus(tasks)
	if status == e.Status {
		return status, nil
	}
	e.Status = status
	if err := tx.SaveEpic(ctx, e); err != nil {
		return "", fmt.Errorf("save epic: %w", err)
	}
	s.metrics.RecordEpicRecompute(ctx)
	return status, nil
}
