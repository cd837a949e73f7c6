// Package clerk is a thin client for the identity provider's REST API.
// It is used for best-effort display-name lookups: every public method
// degrades to the Unknown sentinel instead of returning an error, so a
// degraded provider can never fail a caller.
package clerk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lostconnect/backend/internal/config"
	"github.com/lostconnect/backend/internal/models"
)

var ErrCircuitOpen = errors.New("clerk circuit open")

// Client wraps the identity API and adds retries, timeout, and a
// simple circuit breaker.
type Client struct {
	cfg    config.ClerkConfig
	client *http.Client

	// circuit breaker state
	failures  int32
	openUntil int64 // unix nano
	closed    int32 // atomic flag for Close()
}

// userPayload is the subset of the provider's user object we read.
type userPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewClient creates a new identity API client.
func NewClient(cfg config.ClerkConfig, httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	c := &Client{
		cfg:    cfg,
		client: httpClient,
	}
	logger.Info("clerk: client created", slog.String("base_url", cfg.BaseURL), slog.Duration("timeout", cfg.Timeout))
	return c, nil
}

// package-level logger for pkg/clerk; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by pkg/clerk. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

func (c *Client) isCircuitOpen() bool {
	if atomic.LoadInt32(&c.failures) < int32(c.cfg.CircuitFailureThreshold) {
		return false
	}

	if time.Now().UnixNano() < atomic.LoadInt64(&c.openUntil) {
		return true
	}

	// half-open: reset failures and allow a request
	atomic.StoreInt32(&c.failures, 0)
	return false
}

func (c *Client) recordFailure() {
	v := atomic.AddInt32(&c.failures, 1)
	if v >= int32(c.cfg.CircuitFailureThreshold) {
		atomic.StoreInt64(&c.openUntil, time.Now().Add(c.cfg.CircuitReset).UnixNano())
	}
}

// Close releases idle connections on the underlying transport when
// supported. Close is idempotent and safe to call multiple times.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	if c.client != nil && c.client.Transport != nil {
		if tr, ok := c.client.Transport.(interface{ CloseIdleConnections() }); ok {
			tr.CloseIdleConnections()
		}
	}
	return nil
}

// UserName resolves the display name for an identity-provider user id.
// It never fails: network errors, non-success statuses, malformed
// payloads, exhausted retries and an open circuit all come back as the
// Unknown sentinel.
func (c *Client) UserName(ctx context.Context, id string) string {
	name, err := c.fetchName(ctx, id)
	if err != nil {
		logger.Warn("clerk: name lookup failed",
			slog.String("user_id", id),
			slog.Any("err", err),
		)
		return models.UnknownName
	}
	if name == "" {
		return models.UnknownName
	}
	return name
}

func (c *Client) fetchName(ctx context.Context, id string) (string, error) {
	if c.isCircuitOpen() {
		return "", ErrCircuitOpen
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.Retries; attempt++ {
		name, err := c.fetchNameOnce(ctx, id)
		if err == nil {
			atomic.StoreInt32(&c.failures, 0)
			return name, nil
		}

		lastErr = err
		c.recordFailure()

		// backoff before the next attempt
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.cfg.Backoff * time.Duration(attempt+1)):
		}
		if c.isCircuitOpen() {
			return "", ErrCircuitOpen
		}
	}

	return "", fmt.Errorf("lookup failed after retries: %w", lastErr)
}

func (c *Client) fetchNameOnce(ctx context.Context, id string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", err
	}
	u := base.JoinPath("users", id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("users endpoint returned status %d", resp.StatusCode)
	}

	var payload userPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode user payload: %w", err)
	}

	return strings.TrimSpace(payload.FirstName + " " + payload.LastName), nil
}
