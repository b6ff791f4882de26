package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNetwork marks failures where no HTTP response was obtained.
	ErrNetwork = errors.New("network error")
	// ErrUnauthorized marks 401/403 responses.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response from the dashboard API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Is lets errors.Is(err, ErrUnauthorized) match authentication failures.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// TokenSource returns the bearer token to attach, or "" for none.
type TokenSource func() string

// Client is the dashboard API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	logger *zap.Logger
	token  TokenSource

	mu             sync.RWMutex
	onUnauthorized func()
}

// NewClient creates a new dashboard API client.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
		token:  func() string { return "" },
	}
}

// SetTokenSource sets where the bearer token is read from on each request.
func (c *Client) SetTokenSource(src TokenSource) {
	if src == nil {
		src = func() string { return "" }
	}
	c.token = src
}

// OnUnauthorized registers fn to be called whenever a request that carried a
// token is rejected with 401/403.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// errorResponse covers the error envelopes the API is known to return.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do performs an authenticated JSON request and decodes a 2xx body into target
// when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, target interface{}) error {
	return c.send(ctx, method, path, body, target, c.token())
}

// doAnonymous performs a request without the session token attached.
func (c *Client) doAnonymous(ctx context.Context, method, path string, body, target interface{}) error {
	return c.send(ctx, method, path, body, target, "")
}

func (c *Client) send(ctx context.Context, method, path string, body, target interface{}, token string) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseError(resp)
		if token != "" && errors.Is(apiErr, ErrUnauthorized) {
			c.logger.Warn("backend rejected session token",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("status", resp.StatusCode))
			c.mu.RLock()
			hook := c.onUnauthorized
			c.mu.RUnlock()
			if hook != nil {
				hook()
			}
		}
		return apiErr
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func parseError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Error != "" {
			apiErr.Message = errResp.Error
			return apiErr
		}
		if errResp.Message != "" {
			apiErr.Message = errResp.Message
			return apiErr
		}
	}
	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}

// Ping reports whether the API answers at all. Any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	err := c.doAnonymous(ctx, http.MethodGet, "/health", nil, nil)
	if errors.Is(err, ErrNetwork) {
		return err
	}
	return nil
}
