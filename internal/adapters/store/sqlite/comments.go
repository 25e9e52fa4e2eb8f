package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/comment"
)

func (s *Store) FindComment(ctx context.Context, id uuid.UUID) (*comment.Comment, error) {
	c, err := scanComment(s.q.QueryRowContext(ctx, `
		SELECT id, epic_id, author_id, body, created_at
		FROM comments WHERE id = ?`, id.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "comment", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("finding comment: %w", err)
	}
	return c, nil
}

func (s *Store) ListCommentsByEpic(ctx context.Context, epicID uuid.UUID) ([]comment.Comment, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, epic_id, author_id, body, created_at
		FROM comments
		WHERE epic_id = ?
		ORDER BY created_at, id`,
		epicID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var comments []comment.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

func (s *Store) SaveComment(ctx context.Context, c *comment.Comment) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO comments (id, epic_id, author_id, body, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET body = excluded.body`,
		c.ID.String(), c.EpicID.String(), c.AuthorID.String(),
		c.Text, formatTime(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving comment: %w", err)
	}
	return nil
}

func (s *Store) DeleteComment(ctx context.Context, id uuid.UUID) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return nil
}

func (s *Store) DeleteCommentsByEpic(ctx context.Context, epicID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM comments WHERE epic_id = ?`, epicID.String(),
	)
	if err != nil {
		return fmt.Errorf("deleting epic comments: %w", err)
	}
	return nil
}

func (s *Store) DeleteCommentsByAuthor(ctx context.Context, authorID uuid.UUID) error {
	_, err := s.q.ExecContext(ctx,
		`DELETE FROM comments WHERE author_id = ?`, authorID.String(),
	)
	if err != nil {
		return fmt.Errorf("deleting author comments: %w", err)
	}
	return nil
}

func scanComment(row rowScanner) (*comment.Comment, error) {
	var (
		c                       comment.Comment
		rawID, epicID, authorID string
		createdAt               string
	)
	if err := row.Scan(&rawID, &epicID, &authorID, &c.Text, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if c.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("parsing comment id: %w", err)
	}
	if c.EpicID, err = uuid.Parse(epicID); err != nil {
		return nil, fmt.Errorf("parsing epic id: %w", err)
	}
	if c.AuthorID, err = uuid.Parse(authorID); err != nil {
		return nil, fmt.Errorf("parsing author id: %w", err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &c, nil
}
