package app

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/ArchieBar/task-tracker-it1/internal/domain/user"
	"github.com/ArchieBar/task-tracker-it1/internal/ports"
)

var _ ports.UserService = (*UserService)(nil)

// UserService implements ports.UserService. User deletion is delegated to
// the succession engine since removing a user may reassign or delete boards.
type UserService struct {
	store      ports.Store
	succession *Succession
	logger     *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(store ports.Store, succession *Succession, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &UserService{store: store, succession: succession, logger: logger}
}

func (s *UserService) RegisterUser(ctx context.Context, u *user.User) (*user.User, error) {
	u.ID = uuid.New()
	u.FirstName = titleCase(u.FirstName)
	u.LastName = titleCase(u.LastName)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = time.Now().UTC()
	if err := u.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.SaveUser(ctx, u); err != nil {
		s.logger.ErrorContext(ctx, "failed to register user",
			slog.String("operation", "RegisterUser"),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("operation", "RegisterUser"),
		slog.String("user_id", u.ID.String()),
	)
	return u, nil
}

func (s *UserService) FindUser(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return s.store.FindUser(ctx, userID)
}

func (s *UserService) UpdateUser(ctx context.Context, userID uuid.UUID, upd ports.UserUpdate) (*user.User, error) {
	var updated *user.User

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		u, err := tx.FindUser(ctx, userID)
		if err != nil {
			return err
		}
		if upd.FirstName != nil {
			u.FirstName = titleCase(*upd.FirstName)
		}
		if upd.LastName != nil {
			u.LastName = titleCase(*upd.LastName)
		}
		if upd.Email != nil {
			u.Email = strings.ToLower(strings.TrimSpace(*upd.Email))
		}
		if err := u.Validate(); err != nil {
			return err
		}
		if err := tx.SaveUser(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.succession.DeleteUserCascade(ctx, userID)
}

// titleCase normalizes a name to an upper first letter with the rest
// lowered.
func titleCase(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	runes := []rune(strings.ToLower(name))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
