package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client talks to the Universo Nómada REST backend. All domain data lives
// there; this client only normalizes its responses for the handlers.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Error carries the HTTP status plus the best message we could extract
// from the response body.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

// envelope matches the common wrapper shapes the backend uses. Responses are
// inconsistently enveloped: {success,data}, {success,data:{success,data}},
// or a bare array/object, so Data stays raw and gets unwrapped recursively.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Err     string          `json:"error"`
}

// unwrapData peels nested {success,data} envelopes until it reaches the
// payload. A body that is not an envelope (bare array, bare object) is
// returned as-is.
func unwrapData(raw json.RawMessage) json.RawMessage {
	for {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return raw
		}
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return raw
		}
		if len(env.Data) == 0 {
			return raw
		}
		raw = env.Data
	}
}

// extractMessage pulls a human-readable error out of an error body,
// falling back to the HTTP status text.
func extractMessage(body []byte, statusCode int) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Err != "" {
			return env.Err
		}
		// Some endpoints nest the message one envelope down.
		if len(env.Data) > 0 {
			var inner envelope
			if err := json.Unmarshal(env.Data, &inner); err == nil && inner.Message != "" {
				return inner.Message
			}
		}
	}
	return http.StatusText(statusCode)
}

// doJSON performs a JSON request and returns the unwrapped payload.
// An empty token means no Authorization header.
func (c *Client) doJSON(ctx context.Context, method, path string, payload interface{}, token string) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.do(req)
}

// doMultipart sends a pre-encoded multipart body.
func (c *Client) doMultipart(ctx context.Context, method, path string, body io.Reader, contentType, token string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(raw, resp.StatusCode),
		}
	}

	return unwrapData(raw), nil
}

// decodeList tolerates the two list shapes the backend emits: a bare JSON
// array, or an object holding the array under one of several keys. A shape
// that matches neither is logged and treated as empty rather than fatal.
func decodeList(raw json.RawMessage, keys ...string) (json.RawMessage, int) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return trimmed, -1
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		slog.Warn("Unexpected list response shape", "error", err)
		return nil, 0
	}

	total := -1
	if rawTotal, ok := obj["total"]; ok {
		if err := json.Unmarshal(rawTotal, &total); err != nil {
			total = -1
		}
	}

	for _, key := range keys {
		if items, ok := obj[key]; ok {
			return unwrapData(items), total
		}
	}
	slog.Warn("List response missing expected keys", "keys", keys)
	return nil, total
}
