package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/comment"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/entitlement"
	"github.com/ArchieBar/task-tracker-it1/internal/ports"
)

var _ ports.CommentService = (*CommentService)(nil)

// CommentService implements ports.CommentService.
type CommentService struct {
	store  ports.Store
	logger *slog.Logger
}

// NewCommentService creates a CommentService.
func NewCommentService(store ports.Store, logger *slog.Logger) *CommentService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CommentService{store: store, logger: logger}
}

func (s *CommentService) ListComments(ctx context.Context, epicID uuid.UUID) ([]comment.Comment, error) {
	if _, err := s.store.FindEpic(ctx, epicID); err != nil {
		return nil, err
	}
	return s.store.ListCommentsByEpic(ctx, epicID)
}

// CreateComment adds a comment to the epic. Any member of the epic's board
// may comment, whatever their role.
func (s *CommentService) CreateComment(ctx context.Context, actorID, epicID uuid.UUID, text string) (*comment.Comment, error) {
	c := &comment.Comment{
		ID:        uuid.New(),
		EpicID:    epicID,
		AuthorID:  actorID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		e, err := tx.FindEpic(ctx, epicID)
		if err != nil {
			return err
		}
		if err := requireAction(ctx, tx, actorID, e.BoardID, entitlement.ActionCreateComment); err != nil {
			return err
		}
		return tx.SaveComment(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "comment created",
		slog.String("operation", "CreateComment"),
		slog.String("comment_id", c.ID.String()),
		slog.String("epic_id", epicID.String()),
	)
	return c, nil
}

// UpdateComment replaces the comment text. Only the author may edit a
// comment; no role grants edit rights over someone else's words.
func (s *CommentService) UpdateComment(ctx context.Context, actorID, commentID uuid.UUID, text string) (*comment.Comment, error) {
	var updated *comment.Comment

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		c, err := tx.FindComment(ctx, commentID)
		if err != nil {
			return err
		}
		if c.AuthorID != actorID {
			return &domain.AccessDeniedError{UserID: actorID}
		}
		c.Text = text
		if err := c.Validate(); err != nil {
			return err
		}
		if err := tx.SaveComment(ctx, c); err != nil {
			return fmt.Errorf("save comment: %w", err)
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteComment deletes a comment. Authors may always delete their own;
// deleting another member's comment requires ADMIN on the epic's board.
func (s *CommentService) DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error {
	return s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		c, err := tx.FindComment(ctx, commentID)
		if err != nil {
			return err
		}
		if c.AuthorID != actorID {
			e, err := tx.FindEpic(ctx, c.EpicID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("comment %s references missing epic %s: %w", c.ID, c.EpicID, domain.ErrInvalidState)
				}
				return err
			}
			if err := requireAction(ctx, tx, actorID, e.BoardID, entitlement.ActionDeleteAnyComment); err != nil {
				return err
			}
		}
		return tx.DeleteComment(ctx, commentID)
	})
}
