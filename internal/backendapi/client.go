// Package backendapi is the typed client for the TakaTrack REST backend.
// Every resource this service derives from (incomes, budgets, debts, shared
// expenses and the rest) is fetched through it; savings goals live locally
// and never pass through here.
package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ErrSessionExpired is returned when the backend rejects the credentials and
// a token refresh did not help. Handlers translate it to a 401 so the caller
// can re-authenticate.
var ErrSessionExpired = errors.New("session expired")

// APIError carries a non-2xx backend response.
type APIError struct {
	Status int
	Method string
	Path   string
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend %s %s: status %d", e.Method, e.Path, e.Status)
}

const defaultTimeout = 15 * time.Second

// Client talks to the backend with bearer authentication. On a 401 it
// refreshes the access token once and retries the request; a second 401
// surfaces as ErrSessionExpired. The mutex guards the token pair so
// concurrent dashboard branches trigger at most one refresh.
type Client struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient builds a client for the backend at baseURL, for example
// "http://localhost:8080/api".
func NewClient(baseURL, accessToken, refreshToken string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         &http.Client{Timeout: defaultTimeout},
		accessToken:  accessToken,
		refreshToken: refreshToken,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get fetches path and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// post sends body as JSON to path and decodes the response into out (out may
// be nil).
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	status, respBody, err := c.roundTrip(ctx, method, path, body)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		if err := c.refresh(ctx); err != nil {
			return fmt.Errorf("%s %s: %w", method, path, ErrSessionExpired)
		}
		status, respBody, err = c.roundTrip(ctx, method, path, body)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			return fmt.Errorf("%s %s: %w", method, path, ErrSessionExpired)
		}
	}

	if status < 200 || status > 299 {
		return &APIError{Status: status, Method: method, Path: path, Body: truncate(respBody, 512)}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.currentAccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return 0, nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}
	return resp.StatusCode, respBody, nil
}

// refresh exchanges the refresh token for a new access token. Only one
// goroutine refreshes at a time; the rest pick up the renewed token.
func (c *Client) refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.refreshToken == "" {
		return errors.New("no refresh token")
	}

	payload, err := json.Marshal(map[string]string{"refreshToken": c.refreshToken})
	if err != nil {
		return fmt.Errorf("encode refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/refreshtoken", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh token: status %d", resp.StatusCode)
	}

	var parsed struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if parsed.AccessToken == "" {
		return errors.New("refresh response missing access token")
	}

	c.accessToken = parsed.AccessToken
	slog.InfoContext(ctx, "Access token refreshed")
	return nil
}

func (c *Client) currentAccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
