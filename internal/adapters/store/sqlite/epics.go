package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/epic"
)

func (s *Store) FindEpic(ctx context.Context, id uuid.UUID) (*epic.Epic, error) {
	e, err := scanEpic(s.q.QueryRowContext(ctx, `
		SELECT id, board_id, author_id, name, description, status, created_at
		FROM epics WHERE id = ?`, id.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "epic", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("finding epic: %w", err)
	}
	return e, nil
}

func (s *Store) ListEpicsByBoard(ctx context.Context, boardID uuid.UUID) ([]epic.Epic, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, board_id, author_id, name, description, status, created_at
		FROM epics
		WHERE board_id = ?
		ORDER BY created_at, id`,
		boardID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing epics: %w", err)
	}
	defer rows.Close()

	var epics []epic.Epic
	for rows.Next() {
		e, err := scanEpic(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning epic: %w", err)
		}
		epics = append(epics, *e)
	}
	return epics, rows.Err()
}

func (s *Store) SaveEpic(ctx context.Context, e *epic.Epic) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO epics (id, board_id, author_id, name, description, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name        = excluded.name,
			description = excluded.description,
			status      = excluded.status`,
		e.ID.String(), e.BoardID.String(), e.AuthorID.String(),
		e.Name, e.Description, e.Status.String(), formatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving epic: %w", err)
	}
	return nil
}

func (s *Store) DeleteEpic(ctx context.Context, id uuid.UUID) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM epics WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting epic: %w", err)
	}
	return nil
}

func (s *Store) DeleteEpicsByBoard(ctx context.Context, boardID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM epics WHERE board_id = ?`, boardID.String(),
	)
	if err != nil {
		return fmt.Errorf("deleting board epics: %w", err)
	}
	return nil
}

func (s *Store) AddEpicParticipant(ctx context.Context, epicID, userID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO epic_participants (epic_id, user_id)
		VALUES (?, ?)
		ON CONFLICT (epic_id, user_id) DO NOTHING`,
		epicID.String(), userID.String(),
	)
	if err != nil {
		return fmt.Errorf("adding epic participant: %w", err)
	}
	return nil
}

// RemoveEpicParticipant returns domain.ErrInvalidState when the user was not
// a participant: refusing an epic never taken is a caller bug, not a no-op.
func (s *Store) RemoveEpicParticipant(ctx context.Context, epicID, userID uuid.UUID) error {
	res, err := s.q.ExecContext(ctx,
		`DELETE FROM epic_participants WHERE epic_id = ? AND user_id = ?`,
		epicID.String(), userID.String(),
	)
	if err != nil {
		return fmt.Errorf("removing epic participant: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("removing epic participant: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %s does not participate in epic %s: %w",
			userID, epicID, domain.ErrInvalidState)
	}
	return nil
}

func (s *Store) IsEpicParticipant(ctx context.Context, epicID, userID uuid.UUID) (bool, error) {
	var one int
	err := s.q.QueryRowContext(ctx,
		`SELECT 1 FROM epic_participants WHERE epic_id = ? AND user_id = ?`,
		epicID.String(), userID.String(),
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking epic participant: %w", err)
	}
	return true, nil
}

func (s *Store) DeleteParticipantsByEpic(ctx context.Context, epicID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM epic_participants WHERE epic_id = ?`, epicID.String(),
	)
	if err != nil {
		return fmt.Errorf("deleting epic participants: %w", err)
	}
	return nil
}

func (s *Store) DeleteParticipationsByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM epic_participants WHERE user_id = ?`, userID.String(),
	)
	if err != nil {
		return fmt.Errorf("deleting user participations: %w", err)
	}
	return nil
}

func scanEpic(row rowScanner) (*epic.Epic, error) {
	var (
		e                        epic.Epic
		rawID, boardID, authorID string
		status, createdAt        string
	)
	if err := row.Scan(&rawID, &boardID, &authorID, &e.Name, &e.Description, &status, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if e.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parsing epic id: %w", err)
	}
	if e.BoardID, err = uuid.Parse(boardID); err != nil {
		return nil, fmt.Errorf("parsing board id: %w", err)
	}
	if e.AuthorID, err = uuid.Parse(authorID); err != nil {
		return nil, fmt.Errorf("parsing author id: %w", err)
	}
	e.Status = epic.Status(status)
	if !e.Status.IsValid() {
		return nil, fmt.Errorf("unknown epic status %q", status)
	}
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &e, nil
}
