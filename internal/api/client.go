package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"wgdash/internal/model"
)

const (
	// DefaultLogTail is the number of daemon log lines requested.
	DefaultLogTail = 150
	// DefaultEventsWindow is the gateway event window in seconds.
	DefaultEventsWindow = 300
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second
)

// StatusError is returned for a non-2xx response. Its text is the resource
// name and the HTTP code, e.g. "status 503".
type StatusError struct {
	Resource string
	Code     int
}

func (e *StatusError) Error() string {
	return e.Resource + " " + strconv.Itoa(e.Code)
}

// Client is a thin HTTP client for the gateway status API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL (e.g. http://host:port).
// A non-positive timeout uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Status fetches the interface and peer snapshot.
func (c *Client) Status(ctx context.Context) (*model.StatusSnapshot, error) {
	var resp StatusResponse
	if err := c.getJSON(ctx, "status", "/api/status", &resp); err != nil {
		return nil, err
	}
	return resp.Snapshot(), nil
}

// Logs fetches the last tail lines of the daemon log as plain text.
func (c *Client) Logs(ctx context.Context, tail int) (string, error) {
	if tail <= 0 {
		tail = DefaultLogTail
	}
	res, err := c.do(ctx, http.MethodGet, "logs", "/api/logs?tail="+strconv.Itoa(tail))
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read logs: %w", err)
	}
	return string(b), nil
}

// Health fetches host and daemon health.
func (c *Client) Health(ctx context.Context) (model.Health, error) {
	var resp HealthResponse
	if err := c.getJSON(ctx, "health", "/api/health", &resp); err != nil {
		return model.Health{}, err
	}
	return resp.Health(), nil
}

// Events fetches gateway events from the last window seconds.
func (c *Client) Events(ctx context.Context, window int) ([]model.Event, error) {
	if window <= 0 {
		window = DefaultEventsWindow
	}
	var resp []eventResponse
	if err := c.getJSON(ctx, "events", "/api/events?window="+strconv.Itoa(window), &resp); err != nil {
		return nil, err
	}
	out := make([]model.Event, 0, len(resp))
	for _, e := range resp {
		out = append(out, e.event())
	}
	return out, nil
}

// Restart asks the gateway to restart the VPN daemon.
func (c *Client) Restart(ctx context.Context) error {
	res, err := c.do(ctx, http.MethodPost, "restart", "/api/restart")
	if err != nil {
		return err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

// do sends a request and returns the response for a 2xx status.
func (c *Client) do(ctx context.Context, method, resource, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, res.Body)
		res.Body.Close()
		return nil, &StatusError{Resource: resource, Code: res.StatusCode}
	}
	return res, nil
}

func (c *Client) getJSON(ctx context.Context, resource, path string, out any) error {
	res, err := c.do(ctx, http.MethodGet, resource, path)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	decoder := json.NewDecoder(res.Body)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", resource, err)
	}
	return nil
}
