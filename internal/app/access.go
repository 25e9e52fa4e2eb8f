// Package app provides application services that orchestrate use cases by
// coordinating domain logic and persistence through the repository ports.
// Every mutating operation follows the same shape: resolve the actor's
// entitlement, evaluate the role policy, apply the mutation, and recompute
// derived state — all inside a single store transaction.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain"
	"github.com/ArchieBar/task-tracker-it1/internal/domain/entitlement"
	"github.com/ArchieBar/task-tracker-it1/internal/platform/telemetry"
	"github.com/ArchieBar/task-tracker-it1/internal/ports"
)

// Compile-time check that Access implements ports.AccessService.
var _ ports.AccessService = (*Access)(nil)

// Access implements ports.AccessService. It is the single authorization
// entry point shared by the API layer; the other services use the same
// underlying helpers inside their own transactions so the entitlement read
// and the mutation it authorizes can never be split across transactions.
type Access struct {
	store   ports.Store
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewAccess creates an Access service. The metrics may be nil, in which case
// check outcomes are not recorded.
func NewAccess(store ports.Store, logger *slog.Logger, metrics *telemetry.Metrics) *Access {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Access{store: store, logger: logger, metrics: metrics}
}

// CheckAccess resolves the actor's entitlement and evaluates the role policy.
func (a *Access) CheckAccess(ctx context.Context, userID, boardID uuid.UUID, action entitlement.Action) error {
	err := requireAction(ctx, a.store, userID, boardID, action)

	switch {
	case err == nil:
		a.metrics.RecordAccessCheck(ctx, telemetry.AccessAllowed)
	case errors.Is(err, domain.ErrRightsNotFound):
		a.metrics.RecordAccessCheck(ctx, telemetry.AccessNoRights)
	case errors.Is(err, domain.ErrAccessDenied):
		a.metrics.RecordAccessCheck(ctx, telemetry.AccessDenied)
		a.logger.InfoContext(ctx, "access denied",
			slog.String("operation", "CheckAccess"),
			slog.String("user_id", userID.String()),
			slog.String("board_id", boardID.String()),
			slog.String("action", string(action)),
		)
	}

	return err
}

// resolveEntitlement fetches the actor's entitlement on the board. A missing
// record surfaces as domain.ErrRightsNotFound, which callers must keep
// distinct from an explicit denial.
func resolveEntitlement(ctx context.Context, s ports.Store, userID, boardID uuid.UUID) (*entitlement.Entitlement, error) {
	return s.FindEntitlement(ctx, userID, boardID)
}

// requireAction resolves the actor's entitlement and evaluates the role
// policy for the action. Returns nil on allow, the entitlement lookup error
// when no record exists, and *domain.AccessDeniedError when the held role is
// insufficient.
func requireAction(ctx context.Context, s ports.Store, userID, boardID uuid.UUID, action entitlement.Action) error {
	ent, err := resolveEntitlement(ctx, s, userID, boardID)
	if err != nil {
		return err
	}
	if !entitlement.CanPerform(ent.Role, action) {
		return &domain.AccessDeniedError{UserID: userID}
	}
	return nil
}
