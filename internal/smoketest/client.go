package smoketest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/derby/internal/domain/match"
	"github.com/okian/derby/internal/domain/types"
)

// ErrBackpressure is returned when the server rejects a match with 429.
var ErrBackpressure = errors.New("server applied backpressure")

// StatusError is a non-2xx response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, strings.TrimSpace(e.Body))
}

// Client talks to the derby HTTP API.
type Client struct {
	base   string
	client *http.Client
}

// NewClient creates a client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// CreateRandomTeam posts to /teams/random.
func (c *Client) CreateRandomTeam(ctx context.Context, name string) (types.TeamSummary, error) {
	var team types.TeamSummary
	err := c.do(ctx, http.MethodPost, "/teams/random", map[string]string{"name": name}, &team)
	return team, err
}

// DeleteTeam deletes a team by name.
func (c *Client) DeleteTeam(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/teams/"+url.PathEscape(name), nil, nil)
}

// Schedule queues a fast match.
func (c *Client) Schedule(ctx context.Context, home, away string, seed uint64) (types.MatchSummary, error) {
	var summary types.MatchSummary
	body := map[string]any{"home": home, "away": away, "mode": match.ModeFast, "seed": seed}
	err := c.do(ctx, http.MethodPost, "/matches", body, &summary)
	return summary, err
}

// Match fetches the state of a match.
func (c *Client) Match(ctx context.Context, id string) (types.MatchSummary, error) {
	var summary types.MatchSummary
	err := c.do(ctx, http.MethodGet, "/matches/"+url.PathEscape(id), nil, &summary)
	return summary, err
}

// Report fetches the post-match report.
func (c *Client) Report(ctx context.Context, id string) (*match.Report, error) {
	var report match.Report
	if err := c.do(ctx, http.MethodGet, "/matches/"+url.PathEscape(id)+"/report", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrBackpressure
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Status: resp.StatusCode, Body: string(msg)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return nil
}
