// Package client provides an HTTP client for the corebridge control API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client communicates with a running corebridge daemon.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger
}

// DefaultConfig returns the configuration matching the daemon defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://127.0.0.1:8310/api",
		Timeout: 10 * time.Second,
	}
}

// New creates a corebridge API client.
func New(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8310/api"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Client{
		baseURL: config.BaseURL,
		logger:  config.Logger,
		client:  &http.Client{Timeout: config.Timeout},
	}
}

// IsReachable checks whether the daemon is running and answering.
func (c *Client) IsReachable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("daemon unreachable", slog.Any("error", err))
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// Status fetches the current node status snapshot.
func (c *Client) Status(ctx context.Context) (StatusResponse, error) {
	var out StatusResponse
	err := c.do(ctx, http.MethodGet, "/status", &out)
	return out, err
}

// StartNode asks the daemon to forward a start signal to the node.
func (c *Client) StartNode(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/node/start", nil)
}

// StopNode asks the daemon to forward a stop signal to the node.
func (c *Client) StopNode(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/node/stop", nil)
}

// ExitNode asks the daemon to stop the node and exit once the stop completes.
func (c *Client) ExitNode(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/node/exit", nil)
}

// StartService registers the daemon's background service.
func (c *Client) StartService(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/service/start", nil)
}

// StopService unregisters the daemon's background service.
func (c *Client) StopService(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/service/stop", nil)
}

// Shutdown begins daemon teardown.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/shutdown", nil)
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var er ErrorResponse
		if json.Unmarshal(body, &er) == nil && er.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, er.Error)
		}
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
