// Package toggl fetches time entries from the Toggl Track v9 API.
package toggl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"asakatsu/internal/core"
	"asakatsu/internal/sources"
)

const (
	// DefaultBaseURL is the public Toggl Track API host.
	DefaultBaseURL = "https://api.track.toggl.com"

	entriesPath = "/api/v9/me/time_entries"

	// tokenPassword is the literal password Toggl expects when the API token is the username.
	tokenPassword = "api_token"

	maxErrorBody = 4 << 10
)

var (
	ErrMissingToken = errors.New("missing Toggl API token")
	ErrUnauthorized = errors.New("toggl rejected the API token")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("toggl: unexpected status %d: %s", e.Code, e.Body)
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client implements sources.EntryFetcher against the Toggl API.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	http    *http.Client
}

var (
	_ sources.EntryFetcher = (*Client)(nil)
	_ sources.Named        = (*Client)(nil)
)

// apiEntry mirrors the fields of a Toggl time entry the dashboard reads.
type apiEntry struct {
	Start     string  `json:"start"`
	Stop      *string `json:"stop"`
	ProjectID *int64  `json:"project_id"`
	Duration  int64   `json:"duration"`
}

// New creates a Toggl client.
func New(cfg Config) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, ErrMissingToken
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = newHTTPClient()
	}
	return &Client{baseURL: base, token: token, timeout: cfg.Timeout, http: hc}, nil
}

// newHTTPClient returns a client with dial and header timeouts. The overall
// deadline comes from the request context.
func newHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Transport: transport}
}

// Name implements sources.Named.
func (c *Client) Name() string { return "toggl" }

// FetchEntries issues one request for entries started within r. The Toggl
// end_date parameter is exclusive, so the day after r.End is sent.
func (c *Client) FetchEntries(ctx context.Context, r sources.DateRange) ([]core.TimeEntry, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid date range %s", r)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	q := url.Values{}
	q.Set("start_date", r.Start.String())
	q.Set("end_date", r.End.AddDays(1).String())
	endpoint := c.baseURL + entriesPath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.token, tokenPassword)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get time entries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	entries, err := DecodeEntries(body)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Fetched Toggl time entries",
		"range", r.String(),
		"count", len(entries),
		"duration_ms", time.Since(start).Milliseconds())
	return entries, nil
}

// DecodeEntries parses a Toggl time-entries JSON array.
func DecodeEntries(body []byte) ([]core.TimeEntry, error) {
	var raw []apiEntry
	if err := sonic.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode time entries: %w", err)
	}
	out := make([]core.TimeEntry, 0, len(raw))
	for i, e := range raw {
		start, err := time.Parse(time.RFC3339, e.Start)
		if err != nil {
			return nil, fmt.Errorf("entry %d: parse start %q: %w", i, e.Start, err)
		}
		te := core.TimeEntry{Start: start, Duration: e.Duration}
		if e.ProjectID != nil {
			te.ProjectID = *e.ProjectID
		}
		if e.Stop != nil && *e.Stop != "" {
			stop, err := time.Parse(time.RFC3339, *e.Stop)
			if err != nil {
				return nil, fmt.Errorf("entry %d: parse stop %q: %w", i, *e.Stop, err)
			}
			te.Stop = &stop
		}
		out = append(out, te)
	}
	return out, nil
}
