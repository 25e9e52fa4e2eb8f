package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/board"
)

func (s *Store) FindBoard(ctx context.Context, id uuid.UUID) (*board.Board, error) {
	var (
		b         board.Board
		rawID     string
		createdAt string
	)
	err := s.q.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM boards WHERE id = ?`, id.String(),
	).Scan(&rawID, &b.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "board", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("finding board: %w", err)
	}

	if b.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parsing board id: %w", err)
	}
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) SaveBoard(ctx context.Context, b *board.Board) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO boards (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name`,
		b.ID.String(), b.Name, formatTime(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving board: %w", err)
	}
	return nil
}

func (s *Store) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting board: %w", err)
	}
	return nil
}

func (s *Store) AddBoardMember(ctx context.Context, boardID, userID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO board_members (board_id, user_id)
		VALUES (?, ?)
		ON CONFLICT (board_id, user_id) DO NOTHING`,
		boardID.String(), userID.String(),
	)
	if err != nil {
		return fmt.Errorf("adding board member: %w", err)
	}
	return nil
}

func (s *Store) RemoveBoardMember(ctx context.Context, boardID, userID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM board_members WHERE board_id = ? AND user_id = ?`,
		boardID.String(), userID.String(),
	)
	if err != nil {
		return fmt.Errorf("removing board member: %w", err)
	}
	return nil
}

func (s *Store) ListBoardMembers(ctx context.Context, boardID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT user_id FROM board_members WHERE board_id = ? ORDER BY user_id`,
		boardID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing board members: %w", err)
	}
	defer rows.Close()

	var members []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning board member: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing member id: %w", err)
		}
		members = append(members, id)
	}
	return members, rows.Err()
}

func (s *Store) DeleteBoardMembers(ctx context.Context, boardID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM board_members WHERE board_id = ?`, boardID.String(),
	)
	if err != nil {
		return fmt.Errorf("deleting board members: %w", err)
	}
	return nil
}

func (s *Store) DeleteMembershipsByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM board_members WHERE user_id = ?`, userID.String(),
	)
	if err != nil {
		return fmt.Errorf("deleting user memberships: %w", err)
	}
	return nil
}
