// Package sqlite implements ports.Store on an embedded SQLite database using
// the pure-Go modernc.org/sqlite driver. Every repository method accepts the
// ambient transaction when one is active, so a full cascade run commits or
// rolls back as a unit.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ArchieBar/task-tracker-it1/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.Store         = (*Store)(nil)
	_ ports.HealthChecker = (*Store)(nil)
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store implements ports.Store. A Store is either root (owns the *sql.DB) or
// transaction-bound (its querier is a *sql.Tx); transaction-bound stores join
// the ambient transaction instead of opening a nested one.
type Store struct {
	db     *sql.DB // nil when transaction-bound
	q      querier
	logger *slog.Logger
}

// Open creates the database file (and parent directories) if needed, applies
// the connection pragmas and ensures the schema exists.
func Open(path string, busyTimeout time.Duration, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout.Milliseconds()),
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %s: %w", pragma, err)
		}
	}

	s := &Store{db: db, q: db, logger: logger}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("sqlite store initialized", slog.String("path", path))
	return s, nil
}

func (s *Store) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name  TEXT NOT NULL,
			email      TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS boards (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS board_members (
			board_id TEXT NOT NULL,
			user_id  TEXT NOT NULL,

			PRIMARY KEY (board_id, user_id)
		);

		CREATE INDEX IF NOT EXISTS idx_board_members_user
			ON board_members(user_id);

		CREATE TABLE IF NOT EXISTS entitlements (
			id         TEXT PRIMARY KEY,
			board_id   TEXT NOT NULL,
			user_id    TEXT NOT NULL,
			role       TEXT NOT NULL,
			granted_at TEXT NOT NULL,

			UNIQUE (board_id, user_id),
			CHECK (role IN ('USER', 'EDITOR', 'ADMIN', 'OWNER'))
		);

		CREATE INDEX IF NOT EXISTS idx_entitlements_user_role
			ON entitlements(user_id, role);

		CREATE INDEX IF NOT EXISTS idx_entitlements_board_granted
			ON entitlements(board_id, granted_at, id);

		CREATE TABLE IF NOT EXISTS invites (
			id         TEXT PRIMARY KEY,
			board_id   TEXT NOT NULL,
			user_id    TEXT NOT NULL,
			created_at TEXT NOT NULL,

			UNIQUE (board_id, user_id)
		);

		CREATE INDEX IF NOT EXISTS idx_invites_user
			ON invites(user_id);

		CREATE TABLE IF NOT EXISTS epics (
			id          TEXT PRIMARY KEY,
			board_id    TEXT NOT NULL,
			author_id   TEXT NOT NULL,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL,
			created_at  TEXT NOT NULL,

			CHECK (status IN ('TODO', 'DOING', 'DONE'))
		);

		CREATE INDEX IF NOT EXISTS idx_epics_board
			ON epics(board_id, created_at);

		CREATE TABLE IF NOT EXISTS epic_participants (
			epic_id TEXT NOT NULL,
			user_id TEXT NOT NULL,

			PRIMARY KEY (epic_id, user_id)
		);

		CREATE INDEX IF NOT EXISTS idx_epic_participants_user
			ON epic_participants(user_id);

		CREATE TABLE IF NOT EXISTS tasks (
			id          TEXT PRIMARY KEY,
			epic_id     TEXT NOT NULL,
			description TEXT NOT NULL,
			completed   INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_epic
			ON tasks(epic_id);

		CREATE TABLE IF NOT EXISTS comments (
			id         TEXT PRIMARY KEY,
			epic_id    TEXT NOT NULL,
			author_id  TEXT NOT NULL,
			body       TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_comments_epic
			ON comments(epic_id, created_at);

		CREATE INDEX IF NOT EXISTS idx_comments_author
			ON comments(author_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// WithinTx runs fn inside a transaction. The Store handed to fn shares the
// logger but is bound to the transaction; calling WithinTx on an already
// transaction-bound Store joins the ambient transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.Store) error) error {
	if s.db == nil {
		return fn(ctx, s)
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	bound := &Store{q: sqlTx, logger: s.logger}
	if err := fn(ctx, bound); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			s.logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close closes the underlying database. Closing a transaction-bound Store is
// a no-op.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "sqlite"
}

// HealthCheck implements ports.HealthChecker by running a trivial query.
func (s *Store) HealthCheck(ctx context.Context) error {
	var one int
	if err := s.q.QueryRowContext(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("sqlite health check: %w", err)
	}
	return nil
}

// Timestamps are stored as RFC 3339 text in UTC so lexicographic ordering in
// SQL matches chronological ordering.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
