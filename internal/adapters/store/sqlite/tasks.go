package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/task"
)

func (s *Store) FindTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := scanTask(s.q.QueryRowContext(ctx, `
		SELECT id, epic_id, description, completed
		FROM tasks WHERE id = ?`, id.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "task", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("finding task: %w", err)
	}
	return t, nil
}

func (s *Store) ListTasksByEpic(ctx context.Context, epicID uuid.UUID) ([]task.Task, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, epic_id, description, completed
		FROM tasks
		WHERE epic_id = ?
		ORDER BY id`,
		epicID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *Store) SaveTask(ctx context.Context, t *task.Task) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO tasks (id, epic_id, description, completed)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			description = excluded.description,
			completed   = excluded.completed`,
		t.ID.String(), t.EpicID.String(), t.Description, t.Completed,
	)
	if err != nil {
		return fmt.Errorf("saving task: %w", err)
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id uuid.UUID) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

func (s *Store) DeleteTasksByEpic(ctx context.Context, epicID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM tasks WHERE epic_id = ?`, epicID.String(),
	)
	if err != nil {
		return fmt.Errorf("deleting epic tasks: %w", err)
	}
	return nil
}

func scanTask(row rowScanner) (*task.Task, error) {
	var (
		t             task.Task
		rawID, epicID string
	)
	if err := row.Scan(&rawID, &epicID, &t.Description, &t.Completed); err != nil {
		return nil, err
	}

	var err error
	if t.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parsing task id: %w", err)
	}
	if t.EpicID, err = uuid.Parse(epicID); err != nil {
		return nil, fmt.Errorf("parsing epic id: %w", err)
	}
	return &t, nil
}
