// Package client talks to the expense backend over HTTP. It is the only
// place where wire payloads exist; everything it returns is already in
// canonical form.
package client

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

	"expensetrack/internal/core"
)

// ChatFallbackReply is stored when the backend answers 200 but the reply
// field is missing from the payload.
const ChatFallbackReply = "No message found in response"

const defaultTimeout = 30 * time.Second

// StatusError reports a non-2xx backend response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend returned status %d", e.Code)
}

// Client is a thin fetch-style collaborator for the two backend
// endpoints. It holds no view state.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL, e.g.
// "http://localhost:8282". A nil httpClient gets a default with a
// 30-second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// ListExpenses fetches the records for one year. The response body may be
// a bare array or an {"expenses": [...]} envelope; both come back as
// canonical records, unsorted.
func (c *Client) ListExpenses(ctx context.Context, year string) ([]core.Record, error) {
	u := c.baseURL + "/v1/expenses?year=" + url.QueryEscape(year)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build expenses request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch expenses: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read expenses response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Message: "unable to fetch expenses"}
	}

	return core.DecodeRecords(body)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Message string `json:"message"`
}

// Chat submits a free-text message and returns the backend's reply
// verbatim. A 200 payload without a reply field yields ChatFallbackReply
// rather than an error.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	payload, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/expense/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send chat message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode, Message: "chat request failed"}
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil || out.Message == "" {
		return ChatFallbackReply, nil
	}
	return out.Message, nil
}
