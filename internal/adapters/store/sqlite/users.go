package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/user"
)

func (s *Store) FindUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.scanUser(s.q.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, created_at
		FROM users WHERE id = ?`, id.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "user", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*user.User, error) {
	u, err := s.scanUser(s.q.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, created_at
		FROM users WHERE email = ?`, email,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "user"}
	}
	if err != nil {
		return nil, fmt.Errorf("finding user by email: %w", err)
	}
	return u, nil
}

func (s *Store) SaveUser(ctx context.Context, u *user.User) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name, email, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name  = excluded.last_name,
			email      = excluded.email`,
		u.ID.String(), u.FirstName, u.LastName, u.Email, formatTime(u.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving user: %w", err)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

func (s *Store) scanUser(row rowScanner) (*user.User, error) {
	var (
		u                user.User
		rawID, createdAt string
	)
	if err := row.Scan(&rawID, &u.FirstName, &u.LastName, &u.Email, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if u.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parsing user id: %w", err)
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &u, nil
}
