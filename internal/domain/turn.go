package domain

// Turn roles as they appear in the transcript and on the wire.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry in a conversation transcript. Turns are appended in
// order and never mutated afterwards.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
