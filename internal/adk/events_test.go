package adk

import (
	"testing"
)

func TestExtractReply(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   string
	}{
		{
			name:   "empty event list",
			events: []Event{},
			want:   NoAnswerFallback,
		},
		{
			name: "user events excluded, order preserved",
			events: []Event{
				{Author: "user", Content: &Content{Parts: []Part{{Text: "pregunta"}}}},
				{Author: "model", Content: &Content{Parts: []Part{{Text: "A"}}}},
				{Author: "model", Content: &Content{Parts: []Part{{Text: "B"}}}},
			},
			want: "A\nB",
		},
		{
			name: "multiple parts in one event",
			events: []Event{
				{Author: "processor_agent", Content: &Content{Parts: []Part{{Text: "A"}, {Text: "B"}}}},
			},
			want: "A\nB",
		},
		{
			name: "missing author skipped",
			events: []Event{
				{Content: &Content{Parts: []Part{{Text: "sin autor"}}}},
			},
			want: NoAnswerFallback,
		},
		{
			name: "nil content and empty parts skipped",
			events: []Event{
				{Author: "model"},
				{Author: "model", Content: &Content{}},
				{Author: "model", Content: &Content{Parts: []Part{{Text: ""}, {Text: "ok"}}}},
			},
			want: "ok",
		},
		{
			name: "only user events",
			events: []Event{
				{Author: "user", Content: &Content{Parts: []Part{{Text: "hola"}}}},
			},
			want: NoAnswerFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractReply(tt.events); got != tt.want {
				t.Errorf("ExtractReply() = %q, want %q", got, tt.want)
			}
		})
	}
}
