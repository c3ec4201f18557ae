package adk

import (
	"strings"
)

// NoAnswerFallback is rendered when a run response carries no agent text.
// The deployment's user-facing language is Spanish.
const NoAnswerFallback = "No pude encontrar una respuesta."

// Part is one text fragment inside an event's content.
type Part struct {
	Text string `json:"text,omitempty"`
}

// Content groups the text fragments of an event.
type Content struct {
	Parts []Part `json:"parts,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Event is one record in a run response. The remote service emits a
// heterogeneous list; every field is optional.
type Event struct {
	Author  string   `json:"author,omitempty"`
	Content *Content `json:"content,omitempty"`
}

// ExtractReply collects the agent-authored text fragments from a run
// response, in event order, joined with newlines. Events without an author,
// user-authored events, and empty fragments are skipped. When nothing is
// collected the fixed fallback message is returned, so the caller always
// has something to show.
func ExtractReply(events []Event) string {
	var parts []string
	for _, ev := range events {
		if ev.Author == "" || ev.Author == "user" {
			continue
		}
		if ev.Content == nil {
			continue
		}
		for _, p := range ev.Content.Parts {
			if p.Text != "" {
				parts = append(parts, p.Text)
			}
		}
	}
	if len(parts) == 0 {
		return NoAnswerFallback
	}
	return strings.Join(parts, "\n")
}
