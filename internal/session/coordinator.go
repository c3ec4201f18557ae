// Package session keeps local and remote session state in agreement.
package session

import (
	"context"
	"log/slog"

	"github.com/next-toks/opschat/internal/adk"
	"github.com/next-toks/opschat/internal/store"
)

// Creator is the remote side of session establishment. Implemented by
// adk.Client.
type Creator interface {
	CreateSession(ctx context.Context, appName, userID, sessionID string) (adk.CreateResult, error)
}

// Coordinator ensures a session identifier is valid both locally and on the
// remote agent service before any query is sent. It is the sole writer of
// the session store.
type Coordinator struct {
	repo    store.Repository
	remote  Creator
	appName string
	userID  string
}

// NewCoordinator creates a coordinator scoped to one deployment's fixed
// application name and user identifier.
func NewCoordinator(repo store.Repository, remote Creator, appName, userID string) *Coordinator {
	return &Coordinator{
		repo:    repo,
		remote:  remote,
		appName: appName,
		userID:  userID,
	}
}

// Ensure makes sessionID usable for a run call. A session already active in
// the local store succeeds without any network call; otherwise the session
// is created remotely and then recorded locally. False means the session
// could not be guaranteed and the enclosing chat turn must be aborted.
//
// Storage and transport errors are absorbed here and reported as false;
// callers never see the cause. A local row can outlive the remote session
// (remote-side expiry is not re-checked); resetting the session is the
// reconciliation path.
func (c *Coordinator) Ensure(ctx context.Context, sessionID string) bool {
	active, err := c.repo.SessionActive(ctx, sessionID)
	if err != nil {
		slog.Error("session store lookup failed", "session_id", sessionID, "error", err)
		return false
	}
	if active {
		return true
	}

	result, err := c.remote.CreateSession(ctx, c.appName, c.userID, sessionID)
	if err != nil {
		slog.Error("remote session create failed", "session_id", sessionID, "error", err)
		return false
	}
	if result == adk.SessionExists {
		slog.Info("session already existed on agent service", "session_id", sessionID)
	} else {
		slog.Info("session created on agent service", "session_id", sessionID)
	}

	// Do not proceed if durability cannot be confirmed, even though the
	// remote create succeeded.
	if err := c.repo.UpsertSession(ctx, sessionID, c.userID, c.appName); err != nil {
		slog.Error("session store upsert failed", "session_id", sessionID, "error", err)
		return false
	}
	return true
}

// Deactivate marks a session inactive locally. Unknown identifiers succeed.
func (c *Coordinator) Deactivate(ctx context.Context, sessionID string) bool {
	if err := c.repo.DeactivateSession(ctx, sessionID); err != nil {
		slog.Error("session deactivate failed", "session_id", sessionID, "error", err)
		return false
	}
	return true
}
