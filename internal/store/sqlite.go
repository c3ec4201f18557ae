package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/next-toks/opschat/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository. The schema is created
// idempotently, so calling this on every process start is safe.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions_agent (
		session_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		app_name TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		last_used_at INTEGER NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// UpsertSession creates a session row or refreshes an existing one.
func (s *SQLiteStore) UpsertSession(ctx context.Context, sessionID, userID, appName string) error {
	query := `
	INSERT INTO sessions_agent (session_id, user_id, app_name, created_at, last_used_at, is_active)
	VALUES (?, ?, ?, ?, ?, 1)
	ON CONFLICT(session_id) DO UPDATE SET
		last_used_at = excluded.last_used_at,
		is_active = 1`

	now := time.Now().Unix()
	_, err := s.db.ExecContext(ctx, query, sessionID, userID, appName, now, now)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// GetSession retrieves a session row by identifier.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	query := `
		SELECT session_id, user_id, app_name, created_at, last_used_at, is_active
		FROM sessions_agent WHERE session_id = ?`

	row := s.db.QueryRowContext(ctx, query, sessionID)

	var session domain.Session
	var createdAt, lastUsedAt int64
	var isActive int

	err := row.Scan(
		&session.SessionID, &session.UserID, &session.AppName,
		&createdAt, &lastUsedAt, &isActive,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session row: %w", err)
	}

	session.CreatedAt = time.Unix(createdAt, 0)
	session.LastUsedAt = time.Unix(lastUsedAt, 0)
	session.IsActive = isActive != 0

	return &session, nil
}

// SessionActive reports whether a session exists and is active.
func (s *SQLiteStore) SessionActive(ctx context.Context, sessionID string) (bool, error) {
	query := `SELECT 1 FROM sessions_agent WHERE session_id = ? AND is_active = 1`

	var one int
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query session: %w", err)
	}
	return true, nil
}

// DeactivateSession marks a session inactive.
// Retries on SQLITE_BUSY with backoff since resets can race a chat turn.
func (s *SQLiteStore) DeactivateSession(ctx context.Context, sessionID string) error {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	var err error
	for i := 0; i < maxRetries; i++ {
		err = s.deactivateSessionOnce(ctx, sessionID)
		if err == nil || !isSQLiteConflict(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(baseDelay * time.Duration(1<<i)):
		}
	}
	return err
}

func (s *SQLiteStore) deactivateSessionOnce(ctx context.Context, sessionID string) error {
	query := `UPDATE sessions_agent SET is_active = 0 WHERE session_id = ?`
	if _, err := s.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("deactivate session: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// isSQLiteConflict reports whether err is a SQLITE_BUSY or "database is
// locked" concurrency error that warrants a retry.
func isSQLiteConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
