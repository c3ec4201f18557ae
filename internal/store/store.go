// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/next-toks/opschat/internal/domain"
)

// Repository defines the interface for persisting agent session records.
type Repository interface {
	// UpsertSession creates a session row or, if it already exists,
	// refreshes last_used_at and forces it back to active.
	UpsertSession(ctx context.Context, sessionID, userID, appName string) error

	// GetSession retrieves a session by its identifier regardless of
	// active state. Returns nil when the identifier is unknown.
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)

	// SessionActive reports whether a session exists and is active.
	SessionActive(ctx context.Context, sessionID string) (bool, error)

	// DeactivateSession marks a session inactive. Unknown identifiers
	// are a no-op success; rows are never physically removed.
	DeactivateSession(ctx context.Context, sessionID string) error

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
