package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "http://127.0.0.1:9090"

// ErrUnhealthy is returned by Health when the watcher has not sampled yet.
var ErrUnhealthy = errors.New("watcher unhealthy")

// Client talks to the status server of a running procpresence instance
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Config holds client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger // Optional logger for client operations
}

// DefaultConfig returns default client configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: 10 * time.Second,
	}
}

func New(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		logger:  config.Logger,
		client:  &http.Client{Timeout: config.Timeout},
	}
}

// IsReachable checks if the status server is up
func (c *Client) IsReachable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		c.logger.Debug("Failed to create request for reachability check", "error", err)
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("Status server not reachable", "error", err, "url", c.baseURL)
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Status fetches the current watcher status
func (c *Client) Status(ctx context.Context) (Status, error) {
	var st Status
	code, err := c.getJSON(ctx, "/status", &st)
	if err != nil {
		return Status{}, err
	}
	if code != http.StatusOK {
		return Status{}, fmt.Errorf("HTTP %d", code)
	}
	return st, nil
}

// Health reports whether the watcher has taken a sample. A 503 from the
// server yields ErrUnhealthy with the server's reason.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	code, err := c.getJSON(ctx, "/healthz", &h)
	if err != nil {
		return Health{}, err
	}
	if code != http.StatusOK {
		return Health{}, fmt.Errorf("%w: HTTP %d", ErrUnhealthy, code)
	}
	return h, nil
}

// getJSON decodes a 200 body into out. Non-200 responses are logged and
// their status code returned without decoding into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) (int, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("HTTP request failed", "error", err, "url", url)
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.handleErrorResponse(resp)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s: %w", path, err)
	}
	return resp.StatusCode, nil
}

func (c *Client) handleErrorResponse(resp *http.Response) {
	var errorResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errorResp); err != nil {
		c.logger.Debug("Failed to decode error response", "status", resp.StatusCode)
		return
	}
	c.logger.Debug("API request failed", "error", errorResp.Error, "status", resp.StatusCode)
}
