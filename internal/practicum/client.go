// Package practicum is a thin client for the homework status API.
//
// Fetch classifies every failure into one of three sentinels so callers can
// report them without inspecting transport details.
package practicum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	logx "hwbot/pkg/logx"
)

// DefaultEndpoint is the production homework status endpoint.
const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

const maxResponseBodySize = 1 << 20 // 1MB

var (
	ErrTransport  = errors.New("homework api unreachable")
	ErrHTTPStatus = errors.New("homework api returned unexpected status")
	ErrDecode     = errors.New("homework api response is not valid json")
)

// StatusError reports a non-200 response. It matches ErrHTTPStatus.
type StatusError struct {
	Code     int
	Endpoint string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: endpoint %s answered %d", ErrHTTPStatus, e.Endpoint, e.Code)
}

func (e *StatusError) Is(target error) bool { return target == ErrHTTPStatus }

type Config struct {
	Endpoint string
	Token    string
	// Timeout bounds a single request; 0 means 30s.
	Timeout time.Duration
	// HonorFromDate makes Fetch send the caller's timestamp. When false the
	// current time is sent, whatever the caller passed.
	HonorFromDate bool
}

type Client struct {
	cfg  Config
	log  logx.Logger
	http *http.Client
	now  func() time.Time
}

type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithClock overrides the wall clock used for from_date.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

func New(cfg Config, log logx.Logger, opts ...Option) *Client {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	c := &Client{
		cfg:  cfg,
		log:  log,
		http: &http.Client{Timeout: cfg.Timeout},
		now:  time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Endpoint() string { return c.cfg.Endpoint }

// Fetch asks the API for homework updates since the given time and returns
// the decoded JSON body without validating its shape.
func (c *Client) Fetch(ctx context.Context, since time.Time) (any, error) {
	if !c.cfg.HonorFromDate || since.IsZero() {
		since = c.now()
	}

	u, err := url.Parse(c.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: bad endpoint %q: %v", ErrTransport, c.cfg.Endpoint, err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(since.Unix(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Authorization", "OAuth "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("homework api request failed", logx.String("endpoint", c.cfg.Endpoint), logx.Err(err))
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.log.Error("homework api unavailable",
			logx.String("endpoint", c.cfg.Endpoint),
			logx.Int("code", resp.StatusCode),
		)
		return nil, &StatusError{Code: resp.StatusCode, Endpoint: c.cfg.Endpoint}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		c.log.Error("homework api body read failed", logx.Err(err))
		return nil, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	var out any
	if err := json.Unmarshal(body, &out); err != nil {
		c.log.Error("homework api json decode failed", logx.Err(err))
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	c.log.Debug("homework api answered",
		logx.Int64("from_date", since.Unix()),
		logx.Duration("latency", time.Since(start)),
	)
	return out, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	if c == nil || c.http == nil {
		return
	}
	c.http.CloseIdleConnections()
}
