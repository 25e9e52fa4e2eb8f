package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/entitlement"
	"github.com/ArchieBar/task-tracker-it1/internal/platform/telemetry"
	"github.com/ArchieBar/task-tracker-it1/internal/ports"
)

var _ ports.SuccessionEngine = (*Succession)(nil)

// Succession implements ports.SuccessionEngine. It resolves ownership when a
// board owner is removed: the highest-ranked remaining member is promoted to
// owner, and a board with no remaining members is deleted together with all
// of its content.
type Succession struct {
	store   ports.Store
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewSuccession creates a Succession engine. The metrics may be nil.
func NewSuccession(store ports.Store, logger *slog.Logger, metrics *telemetry.Metrics) *Succession {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Succession{store: store, logger: logger, metrics: metrics}
}

// DeleteBoardCascade removes a board and everything reachable from it:
// epics with their tasks, comments and participant links, invites,
// entitlements and memberships. The whole cascade runs in one transaction.
func (e *Succession) DeleteBoardCascade(ctx context.Context, boardID uuid.UUID) error {
	return e.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		return cascadeBoard(ctx, tx, boardID)
	})
}

// DeleteUserCascade removes a user and resolves ownership of every board the
// user owns before deleting the user's remaining traces. The entire run,
// including any board cascades it triggers, is one transaction: either the
// user is fully gone or nothing changed.
func (e *Succession) DeleteUserCascade(ctx context.Context, userID uuid.UUID) error {
	start := time.Now()

	err := e.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		return e.cascadeUser(ctx, tx, userID)
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "user cascade failed",
			slog.String("operation", "DeleteUserCascade"),
			slog.String("user_id", userID.String()),
			slog.Any("error", err),
		)
		return err
	}

	e.metrics.RecordCascadeRun(ctx, time.Since(start).Seconds())
	e.logger.InfoContext(ctx, "user deleted",
		slog.String("operation", "DeleteUserCascade"),
		slog.String("user_id", userID.String()),
	)
	return nil
}

func (e *Succession) cascadeUser(ctx context.Context, tx ports.Store, userID uuid.UUID) error {
	if _, err := tx.FindUser(ctx, userID); err != nil {
		return err
	}

	owned, err := tx.FindEntitlementsByUserAndRole(ctx, userID, entitlement.RoleOwner)
	if err != nil {
		return fmt.Errorf("list owned boards: %w", err)
	}

	for _, ent := range owned {
		outcome, err := e.resolveBoard(ctx, tx, userID, ent.BoardID)
		if err != nil {
			return fmt.Errorf("resolve board %s: %w", ent.BoardID, err)
		}
		e.metrics.RecordCascadeBoard(ctx, outcome)
		e.logger.InfoContext(ctx, "board ownership resolved",
			slog.String("operation", "DeleteUserCascade"),
			slog.String("board_id", ent.BoardID.String()),
			slog.String("outcome", outcome),
		)
	}

	if err := tx.DeleteEntitlementsByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete entitlements: %w", err)
	}
	if err := tx.DeleteMembershipsByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete memberships: %w", err)
	}
	if err := tx.DeleteParticipationsByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete epic participations: %w", err)
	}
	if err := tx.DeleteCommentsByAuthor(ctx, userID); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	if err := tx.DeleteInvitesByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete invites: %w", err)
	}
	return tx.DeleteUser(ctx, userID)
}

// Succession proceeds through search phases in strict rank order; each phase
// either promotes a candidate and stops, or falls through to the next.
type successionPhase int

const (
	phaseSearchAdmin successionPhase = iota
	phaseSearchEditor
	phaseSearchUser
	phaseDeleteBoard
)

// resolveBoard picks a new owner for a single board the departing user owns.
// The earliest-granted entitlement wins within a rank; when no members
// remain the board is cascaded away. A board that disappeared since the
// owned list was read is skipped, which keeps the cascade idempotent.
func (e *Succession) resolveBoard(ctx context.Context, tx ports.Store, departing, boardID uuid.UUID) (string, error) {
	if _, err := tx.FindBoard(ctx, boardID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return telemetry.CascadeSkipped, nil
		}
		return "", err
	}

	ents, err := tx.FindEntitlementsByBoard(ctx, boardID)
	if err != nil {
		return "", fmt.Errorf("list entitlements: %w", err)
	}
	candidates := lo.Filter(ents, func(ent entitlement.Entitlement, _ int) bool {
		return ent.UserID != departing
	})

	phase := phaseSearchAdmin
	for {
		switch phase {
		case phaseSearchAdmin:
			if promoted, err := e.promote(ctx, tx, candidates, entitlement.RoleAdmin); err != nil || promoted {
				return telemetry.CascadePromoted, err
			}
			phase = phaseSearchEditor
		case phaseSearchEditor:
			if promoted, err := e.promote(ctx, tx, candidates, entitlement.RoleEditor); err != nil || promoted {
				return telemetry.CascadePromoted, err
			}
			phase = phaseSearchUser
		case phaseSearchUser:
			if promoted, err := e.promote(ctx, tx, candidates, entitlement.RoleUser); err != nil || promoted {
				return telemetry.CascadePromoted, err
			}
			phase = phaseDeleteBoard
		case phaseDeleteBoard:
			if err := cascadeBoard(ctx, tx, boardID); err != nil {
				return "", err
			}
			return telemetry.CascadeDeleted, nil
		}
	}
}

// promote grants ownership to the first candidate holding exactly the given
// role. Candidates arrive ordered by grant time, so "first" is the member
// whose entitlement at that rank is oldest.
func (e *Succession) promote(ctx context.Context, tx ports.Store, candidates []entitlement.Entitlement, role entitlement.Role) (bool, error) {
	heir, found := lo.Find(candidates, func(ent entitlement.Entitlement) bool {
		return ent.Role == role
	})
	if !found {
		return false, nil
	}

	heir.Role = entitlement.RoleOwner
	if err := tx.SaveEntitlement(ctx, &heir); err != nil {
		return false, fmt.Errorf("promote %s: %w", heir.UserID, err)
	}
	return true, nil
}

// cascadeBoard deletes a board and all content reachable from it, children
// first. Every step tolerates rows already being gone, so replaying the
// cascade on a half-deleted board finishes the job.
func cascadeBoard(ctx context.Context, tx ports.Store, boardID uuid.UUID) error {
	epics, err := tx.ListEpicsByBoard(ctx, boardID)
	if err != nil {
		return fmt.Errorf("list epics: %w", err)
	}
	for _, ep := range epics {
		if err := tx.DeleteTasksByEpic(ctx, ep.ID); err != nil {
			return fmt.Errorf("delete tasks of epic %s: %w", ep.ID, err)
		}
		if err := tx.DeleteCommentsByEpic(ctx, ep.ID); err != nil {
			return fmt.Errorf("delete comments of epic %s: %w", ep.ID, err)
		}
		if err := tx.DeleteParticipantsByEpic(ctx, ep.ID); err != nil {
			return fmt.Errorf("delete participants of epic %s: %w", ep.ID, err)
		}
	}
	if err := tx.DeleteEpicsByBoard(ctx, boardID); err != nil {
		return fmt.Errorf("delete epics: %w", err)
	}
	if err := tx.DeleteInvitesByBoard(ctx, boardID); err != nil {
		return fmt.Errorf("delete invites: %w", err)
	}
	if err := tx.DeleteEntitlementsByBoard(ctx, boardID); err != nil {
		return fmt.Errorf("delete entitlements: %w", err)
	}
	if err := tx.DeleteBoardMembers(ctx, boardID); err != nil {
		return fmt.Errorf("delete members: %w", err)
	}
	return tx.DeleteBoard(ctx, boardID)
}
