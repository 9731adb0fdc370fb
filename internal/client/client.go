package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/qudata/hostmon/internal/domain"
)

// ErrNotReady is returned while the sampler has not published its first
// snapshot yet.
var ErrNotReady = errors.New("no snapshot published yet")

// Client reads snapshots from a running hostmon server.
type Client struct {
	baseURL string
	token   string

	http   *http.Client
	logger *slog.Logger
}

type Option func(*retryablehttp.Client)

// WithRetryMax caps the number of retries per request.
func WithRetryMax(n int) Option {
	return func(rc *retryablehttp.Client) { rc.RetryMax = n }
}

// NewClient creates a client for the server at baseURL. token may be empty.
func NewClient(baseURL, token string, logger *slog.Logger, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.Logger = nil // suppress default logging
	retryClient.CheckRetry = checkRetry
	for _, opt := range opts {
		opt(retryClient)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    retryClient.StandardClient(),
		logger:  logger,
	}
}

// Ping verifies the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doRequest(ctx, "/ping")
	return err
}

// Snapshot returns the latest published snapshot.
func (c *Client) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := c.get(ctx, "/snapshot", &snap)
	return snap, err
}

// History returns retained snapshots newer than since.
func (c *Client) History(ctx context.Context, since uint64) ([]domain.Snapshot, error) {
	var snaps []domain.Snapshot
	err := c.get(ctx, "/history?since="+strconv.FormatUint(since, 10), &snaps)
	return snaps, err
}

// ServerInfo is the response of /capabilities.
type ServerInfo struct {
	Capabilities domain.Capabilities `json:"capabilities"`
	IntervalMS   int64               `json:"interval_ms"`
	HistorySize  int                 `json:"history_size"`
}

// Capabilities reports which modules the server bound to real readers.
func (c *Client) Capabilities(ctx context.Context) (ServerInfo, error) {
	var info ServerInfo
	err := c.get(ctx, "/capabilities", &info)
	return info, err
}

// Host returns the server's static host description.
func (c *Client) Host(ctx context.Context) (domain.HostInfo, error) {
	var host domain.HostInfo
	err := c.get(ctx, "/host", &host)
	return host, err
}

// --- internal ---

type envelope struct {
	OK    bool            `json:"ok"`
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
}

// checkRetry keeps the default policy but does not retry a server that is
// up and simply has no snapshot yet.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err == nil && resp != nil && resp.StatusCode == http.StatusServiceUnavailable {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	body, err := c.doRequest(ctx, path)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", path, err)
	}
	if !env.OK {
		return fmt.Errorf("%s: server returned ok=false: %s", path, env.Error)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("unmarshal %s data: %w", path, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("X-Hostmon-Token", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode == http.StatusServiceUnavailable {
		return nil, ErrNotReady
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("server error",
			"path", path,
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		return nil, fmt.Errorf("GET %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return respBody, nil
}
