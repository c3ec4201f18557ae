// Package domain contains core domain types for the opschat application.
package domain

import (
	"time"
)

// Session represents a durable conversational context known to both the
// local store and the remote agent service.
type Session struct {
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id"`
	AppName    string    `json:"app_name"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
	IsActive   bool      `json:"is_active"`
}

// Idle returns how long the session has gone without use.
func (s *Session) Idle(now time.Time) time.Duration {
	return now.Sub(s.LastUsedAt)
}
