package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/entitlement"
)

func (s *Store) FindEntitlement(ctx context.Context, userID, boardID uuid.UUID) (*entitlement.Entitlement, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, board_id, user_id, role, granted_at
		FROM entitlements
		WHERE user_id = ? AND board_id = ?`,
		userID.String(), boardID.String(),
	)

	ent, err := scanEntitlement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.RightsNotFoundError{UserID: userID, BoardID: boardID}
	}
	if err != nil {
		return nil, fmt.Errorf("finding entitlement: %w", err)
	}
	return ent, nil
}

func (s *Store) FindEntitlementsByBoard(ctx context.Context, boardID uuid.UUID) ([]entitlement.Entitlement, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, board_id, user_id, role, granted_at
		FROM entitlements
		WHERE board_id = ?
		ORDER BY granted_at, id`,
		boardID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing board entitlements: %w", err)
	}
	defer rows.Close()

	return collectEntitlements(rows)
}

func (s *Store) FindEntitlementsByUserAndRole(ctx context.Context, userID uuid.UUID, role entitlement.Role) ([]entitlement.Entitlement, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, board_id, user_id, role, granted_at
		FROM entitlements
		WHERE user_id = ? AND role = ?
		ORDER BY granted_at, id`,
		userID.String(), role.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing user entitlements: %w", err)
	}
	defer rows.Close()

	return collectEntitlements(rows)
}

// SaveEntitlement upserts on the (board, user) pair. The stored granted_at
// survives role changes: a promotion does not reset a member's seniority.
func (s *Store) SaveEntitlement(ctx context.Context, ent *entitlement.Entitlement) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO entitlements (id, board_id, user_id, role, granted_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (board_id, user_id) DO UPDATE SET role = excluded.role`,
		ent.ID.String(), ent.BoardID.String(), ent.UserID.String(),
		ent.Role.String(), formatTime(ent.GrantedAt),
	)
	if err != nil {
		return fmt.Errorf("saving entitlement: %w", err)
	}
	return nil
}

func (s *Store) DeleteEntitlement(ctx context.Context, userID, boardID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM entitlements WHERE user_id = ? AND board_id = ?`,
		userID.String(), boardID.String(),
	)
	if err != nil {
		return fmt.Errorf("deleting entitlement: %w", err)
	}
	return nil
}

func (s *Store) DeleteEntitlementsByBoard(ctx context.Context, boardID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM entitlements WHERE board_id = ?`, boardID.String(),
	)
	if err != nil {
		return fmt.Errorf("deleting board entitlements: %w", err)
	}
	return nil
}

func (s *Store) DeleteEntitlementsByUser(ctx context.Context, userID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM entitlements WHERE user_id = ?`, userID.String(),
	)
	if err != nil {
		return fmt.Errorf("deleting user entitlements: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntitlement(row rowScanner) (*entitlement.Entitlement, error) {
	var (
		ent                 entitlement.Entitlement
		id, boardID, userID string
		role, grantedAt     string
	)
	if err := row.Scan(&id, &boardID, &userID, &role, &grantedAt); err != nil {
		return nil, err
	}

	var err error
	if ent.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parsing entitlement id: %w", err)
	}
	if ent.BoardID, err = uuid.Parse(boardID); err != nil {
		return nil, fmt.Errorf("parsing board id: %w", err)
	}
	if ent.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("parsing user id: %w", err)
	}
	if ent.Role, err = entitlement.ParseRole(role); err != nil {
		return nil, err
	}
	if ent.GrantedAt, err = parseTime(grantedAt); err != nil {
		return nil, err
	}
	return &ent, nil
}

func collectEntitlements(rows *sql.Rows) ([]entitlement.Entitlement, error) {
	var ents []entitlement.Entitlement
	for rows.Next() {
		ent, err := scanEntitlement(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entitlement: %w", err)
		}
		ents = append(ents, *ent)
	}
	return ents, rows.Err()
}
