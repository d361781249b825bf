// Package panel drives one tool panel: it calls the generation service,
// tracks the loading/content/error states and owns the audio file of an
// audio summary until the panel moves on.
package panel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pep299/leeai-studio/internal/model"
)

// DefaultBaseURL is where the generation service listens by default
const DefaultBaseURL = "http://localhost:8080"

// Backend is the generation service as seen by a panel
type Backend interface {
	Generate(ctx context.Context, req model.GenerateRequest) (string, error)
	Audio(ctx context.Context, req model.GenerateRequest) ([]byte, error)
}

// StatusError is a non-2xx reply. Its message is the body, or a generic
// line when the body is empty.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if strings.TrimSpace(e.Body) != "" {
		return e.Body
	}
	return fmt.Sprintf("Request failed: %d", e.StatusCode)
}

// Client calls the /api/leeai endpoints over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client. Audio requests run a model call and a speech
// call back to back, so the timeout is generous.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 3 * time.Minute},
	}
}

// Generate returns the raw tool text
func (c *Client) Generate(ctx context.Context, req model.GenerateRequest) (string, error) {
	body, err := c.post(ctx, "/api/leeai/generate", req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Audio returns the MP3 bytes of a spoken summary
func (c *Client) Audio(ctx context.Context, req model.GenerateRequest) ([]byte, error) {
	return c.post(ctx, "/api/leeai/audio", req)
}

func (c *Client) post(ctx context.Context, path string, req model.GenerateRequest) ([]byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// ErrorMessage is the text a panel shows for a failed request
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Could not reach the server."
}
