// Package chat implements the conversational loop against the remote agent.
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/next-toks/opschat/internal/adk"
	"github.com/next-toks/opschat/internal/domain"
)

// ErrSessionUnavailable is returned when the session could not be verified
// or created; the chat turn is aborted before any message is sent.
var ErrSessionUnavailable = errors.New("no se pudo crear o verificar la sesión con el agente")

// Ensurer guarantees a session is valid locally and remotely.
// Implemented by session.Coordinator.
type Ensurer interface {
	Ensure(ctx context.Context, sessionID string) bool
	Deactivate(ctx context.Context, sessionID string) bool
}

// Runner issues run calls to the remote agent. Implemented by adk.Client.
type Runner interface {
	Run(ctx context.Context, req adk.RunRequest) ([]adk.Event, error)
}

// Service processes one user utterance at a time: ensure session, forward
// to the remote agent, extract the reply, record both turns.
type Service struct {
	sessions    Ensurer
	agent       Runner
	transcripts *Transcripts
	appName     string
	userID      string
}

// NewService creates a chat service scoped to the deployment's fixed
// application name and user identifier.
func NewService(sessions Ensurer, agent Runner, appName, userID string) *Service {
	return &Service{
		sessions:    sessions,
		agent:       agent,
		transcripts: NewTranscripts(),
		appName:     appName,
		userID:      userID,
	}
}

// Ask produces one assistant reply for one user utterance.
//
// The user turn is recorded first, matching what the user already sees on
// screen. If the session cannot be ensured the turn is aborted with no
// assistant entry. A failed run call is recorded as the assistant turn so
// the failure stays visible in history, and returned as the error. No call
// is retried; transient remote failures are reported, not masked.
func (s *Service) Ask(ctx context.Context, sessionID, prompt string) (string, error) {
	s.transcripts.Append(sessionID, domain.RoleUser, prompt)

	if !s.sessions.Ensure(ctx, sessionID) {
		return "", ErrSessionUnavailable
	}

	events, err := s.agent.Run(ctx, adk.NewRunRequest(s.appName, s.userID, sessionID, prompt))
	if err != nil {
		msg := fmt.Sprintf("Error al conectar con el agente: %v", err)
		s.transcripts.Append(sessionID, domain.RoleAssistant, msg)
		return "", errors.New(msg)
	}

	reply := adk.ExtractReply(events)
	s.transcripts.Append(sessionID, domain.RoleAssistant, reply)
	return reply, nil
}

// History returns the session's transcript in turn order.
func (s *Service) History(sessionID string) []domain.Turn {
	return s.transcripts.Turns(sessionID)
}

// Reset deactivates the session locally and discards its transcript. The
// next utterance on a fresh identifier re-establishes remotely.
func (s *Service) Reset(ctx context.Context, sessionID string) bool {
	ok := s.sessions.Deactivate(ctx, sessionID)
	s.transcripts.Drop(sessionID)
	return ok
}
