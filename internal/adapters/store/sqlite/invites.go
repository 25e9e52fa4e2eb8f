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

func (s *Store) FindInvite(ctx context.Context, userID, boardID uuid.UUID) (*board.Invite, error) {
	inv, err := scanInvite(s.q.QueryRowContext(ctx, `
		SELECT id, board_id, user_id, created_at
		FROM invites
		WHERE user_id = ? AND board_id = ?`,
		userID.String(), boardID.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "invite"}
	}
	if err != nil {
		return nil, fmt.Errorf("finding invite: %w", err)
	}
	return inv, nil
}

func (s *Store) ListInvitesByBoard(ctx context.Context, boardID uuid.UUID) ([]board.Invite, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, board_id, user_id, created_at
		FROM invites
		WHERE board_id = ?
		ORDER BY created_at, id`,
		boardID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing board invites: %w", err)
	}
	defer rows.Close()

	return collectInvites(rows)
}

func (s *Store) ListPendingInvitesByUser(ctx context.Context, userID uuid.UUID) ([]board.Invite, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, board_id, user_id, created_at
		FROM invites
		WHERE user_id = ?
		ORDER BY created_at, id`,
		userID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing pending invites: %w", err)
	}
	defer rows.Close()

	return collectInvites(rows)
}

func (s *Store) SaveInvite(ctx context.Context, inv *board.Invite) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO invites (id, board_id, user_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (board_id, user_id) DO NOTHING`,
		inv.ID.String(), inv.BoardID.String(), inv.UserID.String(),
		formatTime(inv.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving invite: %w", err)
	}
	return nil
}

func (s *Store) DeleteInvite(ctx context.Context, userID, boardID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM invites WHERE user_id = ? AND board_id = ?`,
		userID.String(), boardID.String(),
	)
	if err != nil {
		return fmt.Errorf("deleting invite: %w", err)
	}
	return nil
}

func (s *Store) DeleteInvitesByBoard(ctx context.Context, boardID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM invites WHERE board_id = ?`, boardID.String(),
	)
	if err != nil {
		return fmt.Errorf("deleting board invites: %w", err)
	}
	return nil
}

func (s *Store) DeleteInvitesByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM invites WHERE user_id = ?`, userID.String(),
	)
	if err != nil {
		return fmt.Errorf("deleting user invites: %w", err)
	}
	return nil
}

func scanInvite(row rowScanner) (*board.Invite, error) {
	var (
		inv                               board.Invite
		rawID, boardID, userID, createdAt string
	)
	if err := row.Scan(&rawID, &boardID, &userID, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if inv.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parsing invite id: %w", err)
	}
	if inv.BoardID, err = uuid.Parse(boardID); err != nil {
		return nil, fmt.Errorf("parsing board id: %w", err)
	}
	if inv.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("parsing user id: %w", err)
	}
	if inv.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

func collectInvites(rows *sql.Rows) ([]board.Invite, error) {
	var invites []board.Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invite: %w", err)
		}
		invites = append(invites, *inv)
	}
	return invites, rows.Err()
}
