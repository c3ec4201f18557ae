package chat

import (
	"sync"

	"github.com/next-toks/opschat/internal/domain"
)

// Transcripts holds the in-memory conversation history for every session
// this process is serving. Turns live only for the lifetime of the process;
// nothing here is persisted.
type Transcripts struct {
	mu        sync.RWMutex
	bySession map[string][]domain.Turn
}

// NewTranscripts creates an empty transcript registry.
func NewTranscripts() *Transcripts {
	return &Transcripts{bySession: make(map[string][]domain.Turn)}
}

// Append adds one turn to a session's transcript.
func (t *Transcripts) Append(sessionID, role, content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bySession[sessionID] = append(t.bySession[sessionID], domain.Turn{Role: role, Content: content})
}

// Turns returns a copy of a session's transcript in order.
func (t *Transcripts) Turns(sessionID string) []domain.Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	turns := t.bySession[sessionID]
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out
}

// Drop discards a session's transcript.
func (t *Transcripts) Drop(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.bySession, sessionID)
}
