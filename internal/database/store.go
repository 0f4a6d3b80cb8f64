package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrSessionNotFound is returned when an update targets an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// Store defines the session index operations.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// RecordSession inserts the row for a new run.
	RecordSession(ctx context.Context, session *Session) error

	// IncrementInteractions bumps the interaction counter of a session and
	// stamps the time of the latest interaction.
	IncrementInteractions(ctx context.Context, sessionID string, at time.Time) error

	// GetSession retrieves one session. Returns nil, nil if not found.
	GetSession(ctx context.Context, sessionID string) (*Session, error)

	// RecentSessions returns up to limit sessions, newest first.
	RecentSessions(ctx context.Context, limit int) ([]Session, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) RecordSession(ctx context.Context, session *Session) error {
	if session == nil {
		return fmt.Errorf("cannot save nil session")
	}
	if session.ID == "" {
		return fmt.Errorf("session must have an id")
	}
	if session.StartedAt.IsZero() {
		return fmt.Errorf("session must have a non-zero start time")
	}

	query := `
        INSERT INTO sessions (id, started_at, log_file, bot_username, model, provider, interaction_count, last_interaction_at)
        VALUES (:id, :started_at, :log_file, :bot_username, :model, :provider, :interaction_count, :last_interaction_at);
    `
	if _, err := s.db.NamedExecContext(ctx, query, session); err != nil {
		s.logger.ErrorContext(ctx, "Error saving session", "session_id", session.ID, "error", err)
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}

	s.logger.DebugContext(ctx, "Session saved", "session_id", session.ID, "log_file", session.LogFile)
	return nil
}

func (s *sqlxStore) IncrementInteractions(ctx context.Context, sessionID string, at time.Time) error {
	if sessionID == "" {
		return fmt.Errorf("session id cannot be empty")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET interaction_count = interaction_count + 1, last_interaction_at = ? WHERE id = ?;`,
		at, sessionID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating session counters", "session_id", sessionID, "error", err)
		return fmt.Errorf("failed to update session %s: %w", sessionID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for session %s: %w", sessionID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

func (s *sqlxStore) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var session Session
	query := `SELECT id, started_at, log_file, bot_username, model, provider, interaction_count, last_interaction_at
              FROM sessions WHERE id = ? LIMIT 1;`
	if err := s.db.GetContext(ctx, &session, query, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}
	return &session, nil
}

func (s *sqlxStore) RecentSessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	var sessions []Session
	query := `SELECT id, started_at, log_file, bot_username, model, provider, interaction_count, last_interaction_at
              FROM sessions ORDER BY started_at DESC, rowid DESC LIMIT ?;`
	if err := s.db.SelectContext(ctx, &sessions, query, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error loading recent sessions", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to load recent sessions: %w", err)
	}
	return sessions, nil
}

// RunSQLMaintenance runs VACUUM followed by PRAGMA optimize. VACUUM cannot run
// inside a transaction.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		s.logger.WarnContext(ctx, "Failed to set busy timeout", "error", err)
	}

	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
		s.logger.WarnContext(ctx, "PRAGMA optimize failed", "error", err)
		return fmt.Errorf("failed to execute PRAGMA optimize: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed successfully")
	return nil
}
