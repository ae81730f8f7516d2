// Package apiclient provides the HTTP client for the ZenTasks REST API.
// It implements domain.TaskRepository and domain.AuthService.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zentasks/zentasks/internal/domain"
)

// Ensure Client implements the domain ports.
var (
	_ domain.TaskRepository = (*Client)(nil)
	_ domain.AuthService    = (*Client)(nil)
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Client is a typed client for the /v1 endpoints.
// It holds no ambient auth state; bind a session with WithSession.
// Fields are ordered to minimize memory padding.
type Client struct {
	http       *http.Client
	logger     *slog.Logger
	session    *domain.Session
	baseURL    string // origin + /v1
	retries    int
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRetries sets how many extra attempts a failed read gets.
func WithRetries(n int) Option {
	return func(c *Client) {
		c.retries = domain.ClampRetries(n)
	}
}

// WithRetryDelay sets the base delay between read attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a Client for the server at apiURL.
// The /v1 base path is appended unless apiURL already ends with it.
func New(apiURL string, opts ...Option) (*Client, error) {
	base, err := normalizeBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		http:       &http.Client{Timeout: domain.DefaultTimeout},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		baseURL:    base,
		retries:    domain.DefaultRetries,
		retryDelay: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func normalizeBaseURL(apiURL string) (string, error) {
	apiURL = strings.TrimSpace(apiURL)
	if apiURL == "" {
		return "", domain.ErrNoAPIURL
	}
	u, err := url.Parse(apiURL)
	if err != nil {
		return "", fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("api url %q: scheme must be http or https", apiURL)
	}
	base := strings.TrimRight(u.String(), "/")
	if !strings.HasSuffix(base, domain.APIBasePath) {
		base += domain.APIBasePath
	}
	return base, nil
}

// WithSession returns a copy of the client that authenticates as session.
func (c *Client) WithSession(session *domain.Session) *Client {
	cp := *c
	cp.session = session
	return &cp
}

// BaseURL returns the resolved base URL including the /v1 path.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one API call.
type request struct {
	query  url.Values
	body   any
	out    any
	method string
	path   string
	auth   bool
}

// send performs the request. Reads are retried on network errors and 5xx responses;
// mutations are sent exactly once.
func (c *Client) send(ctx context.Context, req request) (int, error) {
	attempts := 1
	if req.method == http.MethodGet {
		attempts += c.retries
	}

	var (
		status int
		err    error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		status, err = c.sendOnce(ctx, req)
		if err == nil || attempt == attempts || !isRetryable(err) || ctx.Err() != nil {
			break
		}
		c.logger.Debug("retrying request",
			"method", req.method, "path", req.path, "attempt", attempt, "error", err)
		if c.retryDelay > 0 {
			select {
			case <-ctx.Done():
				return status, err
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
		}
	}
	return status, err
}

func (c *Client) sendOnce(ctx context.Context, req request) (int, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.auth && c.session.IsAuthenticated() {
		httpReq.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("request failed",
			"method", req.method, "path", req.path, "request_id", requestID, "error", err)
		return 0, &domain.NetworkError{Err: err, Method: req.method, URL: target}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, &domain.NetworkError{Err: err, Method: req.method, URL: target}
	}

	c.logger.Debug("request",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, decodeError(resp.StatusCode, data)
	}
	if req.out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, req.out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// errorBody is the error payload shape used by the API.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func decodeError(status int, data []byte) error {
	var body errorBody
	msg := ""
	if err := json.Unmarshal(data, &body); err == nil {
		msg = body.Message
		if msg == "" {
			msg = body.Error
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &domain.HTTPError{Status: status, Message: msg}
}

func isRetryable(err error) bool {
	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		return !errors.Is(err, context.Canceled)
	}
	return domain.StatusCode(err) >= http.StatusInternalServerError
}
