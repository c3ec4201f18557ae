// Package corpus loads policy documents into the managed retrieval corpus.
//
// The corpus itself (embedding, chunking, vector search) is owned by the
// managed service; this package only drives its REST API for the one-off
// ingestion run.
package corpus

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

// Corpus is a document collection on the retrieval service.
type Corpus struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
}

// File is one uploaded document within a corpus.
type File struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// QueryResponse is the retrieval service's answer to a query.
type QueryResponse struct {
	Answer         string  `json:"answer"`
	RelevantChunks []Chunk `json:"relevantChunks,omitempty"`
}

// Chunk is one retrieved document fragment.
type Chunk struct {
	DocumentDisplayName string `json:"documentDisplayName"`
	ChunkText           string `json:"chunkText"`
}

// Client talks to the managed retrieval service's corpus API. All calls are
// scoped to one project and location.
type Client struct {
	baseURL  string
	token    string
	project  string
	location string
	http     *http.Client
}

// NewClient creates a corpus API client. The token authenticates every
// request; uploads of larger files get a generous timeout.
func NewClient(baseURL, token, project, location string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		project:  project,
		location: location,
		http:     &http.Client{Timeout: 5 * time.Minute},
	}
}

func (c *Client) scopedURL(suffix string) string {
	return fmt.Sprintf("%s/projects/%s/locations/%s/%s",
		c.baseURL, url.PathEscape(c.project), url.PathEscape(c.location), suffix)
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("%s %s: status %d: %s", method, endpoint, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// ListCorpora returns every corpus in the project/location scope.
func (c *Client) ListCorpora(ctx context.Context) ([]Corpus, error) {
	var resp struct {
		RagCorpora []Corpus `json:"ragCorpora"`
	}
	if err := c.do(ctx, http.MethodGet, c.scopedURL("ragCorpora"), nil, &resp); err != nil {
		return nil, fmt.Errorf("list corpora: %w", err)
	}
	return resp.RagCorpora, nil
}

// CreateCorpus creates a new corpus with the given display name.
func (c *Client) CreateCorpus(ctx context.Context, displayName, description string) (*Corpus, error) {
	payload := Corpus{DisplayName: displayName, Description: description}
	var created Corpus
	if err := c.do(ctx, http.MethodPost, c.scopedURL("ragCorpora"), payload, &created); err != nil {
		return nil, fmt.Errorf("create corpus: %w", err)
	}
	return &created, nil
}

type uploadRequest struct {
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content"`
}

// UploadFile adds one document to the corpus. Content is the raw
// line-delimited JSON text; chunking and embedding happen service-side.
func (c *Client) UploadFile(ctx context.Context, corpusName, displayName, description, content string) (*File, error) {
	endpoint := fmt.Sprintf("%s/%s/ragFiles:upload", c.baseURL, corpusName)
	payload := uploadRequest{DisplayName: displayName, Description: description, Content: content}

	var uploaded File
	if err := c.do(ctx, http.MethodPost, endpoint, payload, &uploaded); err != nil {
		return nil, fmt.Errorf("upload file %s: %w", displayName, err)
	}
	return &uploaded, nil
}

// ListFiles returns the documents currently in the corpus.
func (c *Client) ListFiles(ctx context.Context, corpusName string) ([]File, error) {
	endpoint := fmt.Sprintf("%s/%s/ragFiles", c.baseURL, corpusName)
	var resp struct {
		RagFiles []File `json:"ragFiles"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return resp.RagFiles, nil
}

// Query runs a retrieval query against the corpus.
func (c *Client) Query(ctx context.Context, corpusName, query string, maxDocuments int) (*QueryResponse, error) {
	endpoint := fmt.Sprintf("%s/%s:query", c.baseURL, corpusName)
	payload := map[string]interface{}{
		"query":        query,
		"maxDocuments": maxDocuments,
	}

	var resp QueryResponse
	if err := c.do(ctx, http.MethodPost, endpoint, payload, &resp); err != nil {
		return nil, fmt.Errorf("query corpus: %w", err)
	}
	return &resp, nil
}
