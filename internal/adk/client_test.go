package adk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    CreateResult
		wantErr bool
	}{
		{"created", http.StatusOK, `{"id":"s1"}`, SessionCreated, false},
		{"already exists", http.StatusBadRequest, `{"detail":"Session already exists: s1"}`, SessionExists, false},
		{"other client error", http.StatusBadRequest, `{"detail":"Invalid app name"}`, 0, true},
		{"server error", http.StatusInternalServerError, "boom", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotBody string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				buf := make([]byte, 16)
				n, _ := r.Body.Read(buf)
				gotBody = string(buf[:n])
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, 5*time.Second)
			got, err := client.CreateSession(context.Background(), "multi_tool_agent", "opschat_user", "s1")

			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSession failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("CreateSession() = %v, want %v", got, tt.want)
			}
			if gotPath != "/apps/multi_tool_agent/users/opschat_user/sessions/s1" {
				t.Errorf("Unexpected request path: %s", gotPath)
			}
			if gotBody != "null" {
				t.Errorf("Expected null body, got %q", gotBody)
			}
		})
	}
}

func TestRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/run" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}

		var req RunRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode run request: %v", err)
		}
		if req.Streaming {
			t.Error("Expected streaming=false")
		}
		if req.NewMessage.Role != "user" {
			t.Errorf("Expected role user, got %s", req.NewMessage.Role)
		}
		if len(req.NewMessage.Parts) != 1 || req.NewMessage.Parts[0].Text != "hola" {
			t.Errorf("Unexpected message parts: %+v", req.NewMessage.Parts)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"author":"user","content":{"parts":[{"text":"hola"}],"role":"user"}},
			{"author":"processor_agent","content":{"parts":[{"text":"buenas"}]}}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	events, err := client.Run(context.Background(), NewRunRequest("multi_tool_agent", "opschat_user", "s1", "hola"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if got := ExtractReply(events); got != "buenas" {
		t.Errorf("ExtractReply() = %q, want %q", got, "buenas")
	}
}

func TestRunHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	if _, err := client.Run(context.Background(), NewRunRequest("a", "u", "s", "q")); err == nil {
		t.Error("Expected error for 500 response")
	}
}

func TestRunTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, time.Second)
	if _, err := client.Run(context.Background(), NewRunRequest("a", "u", "s", "q")); err == nil {
		t.Error("Expected transport error against closed server")
	}
}
