// Package adk is an HTTP client for the hosted agent runtime (ADK API
// server). Retrieval and generation happen entirely on the remote side;
// this package only shapes requests and decodes responses.
package adk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// CreateResult says how a remote create-session call concluded.
type CreateResult int

const (
	// SessionCreated means the remote service created a new session.
	SessionCreated CreateResult = iota
	// SessionExists means the remote service already knew the session.
	// The service reports this as HTTP 400, but it is a success path.
	SessionExists
)

// Client talks to the ADK API server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL. The timeout bounds
// every call; the remote service sets no deadline of its own.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// RunRequest is the payload for a non-streaming run call.
type RunRequest struct {
	AppName    string  `json:"appName"`
	UserID     string  `json:"userId"`
	SessionID  string  `json:"sessionId"`
	NewMessage Content `json:"newMessage"`
	Streaming  bool    `json:"streaming"`
}

// NewRunRequest builds a run request carrying one user text fragment.
func NewRunRequest(appName, userID, sessionID, text string) RunRequest {
	return RunRequest{
		AppName:   appName,
		UserID:    userID,
		SessionID: sessionID,
		NewMessage: Content{
			Parts: []Part{{Text: text}},
			Role:  "user",
		},
		Streaming: false,
	}
}

// CreateSession registers sessionID with the remote service. The request
// body is null per the service contract. An HTTP 400 whose body reports an
// existing session counts as success (SessionExists).
func (c *Client) CreateSession(ctx context.Context, appName, userID, sessionID string) (CreateResult, error) {
	endpoint := fmt.Sprintf("%s/apps/%s/users/%s/sessions/%s",
		c.baseURL, url.PathEscape(appName), url.PathEscape(userID), url.PathEscape(sessionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader([]byte("null")))
	if err != nil {
		return 0, fmt.Errorf("build create-session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("read create-session response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return SessionCreated, nil
	case resp.StatusCode == http.StatusBadRequest && strings.Contains(string(body), "Session already exists"):
		return SessionExists, nil
	default:
		return 0, fmt.Errorf("create session: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

// Run sends one user message and returns the remote agent's event list.
func (c *Client) Run(ctx context.Context, runReq RunRequest) ([]Event, error) {
	payload, err := json.Marshal(runReq)
	if err != nil {
		return nil, fmt.Errorf("encode run request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/run", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build run request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, fmt.Errorf("run: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var events []Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode run response: %w", err)
	}
	return events, nil
}

// Ping checks that the remote service is reachable. Used by the health
// endpoint; any HTTP response counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping agent service: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	return nil
}
