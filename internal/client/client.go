package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ship-tracker-backend/internal/model"
)

// Default per-call timeouts.
const (
	DefaultShipsTimeout  = 30 * time.Second
	DefaultHealthTimeout = 10 * time.Second
	DefaultHelloTimeout  = 5 * time.Second
)

// Client talks to the ship tracker HTTP API. It never retries; callers own
// the retry policy.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	shipsTimeout  time.Duration
	healthTimeout time.Duration
	helloTimeout  time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeouts overrides the ships, health and hello timeouts. Zero values
// keep the defaults.
func WithTimeouts(ships, health, hello time.Duration) Option {
	return func(c *Client) {
		if ships > 0 {
			c.shipsTimeout = ships
		}
		if health > 0 {
			c.healthTimeout = health
		}
		if hello > 0 {
			c.helloTimeout = hello
		}
	}
}

// New creates a Client for baseURL, e.g. "http://localhost:5000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{},
		shipsTimeout:  DefaultShipsTimeout,
		healthTimeout: DefaultHealthTimeout,
		helloTimeout:  DefaultHelloTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchParams selects a page of active ships. Zero values are omitted from
// the query string so the server defaults apply.
type FetchParams struct {
	Limit  int
	Offset int
	Search string
}

func (p FetchParams) encode() string {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}
	if s := strings.TrimSpace(p.Search); s != "" {
		q.Set("search", s)
	}
	return q.Encode()
}

// FetchActiveShips calls GET /ships/active.
func (c *Client) FetchActiveShips(ctx context.Context, p FetchParams) (*model.ShipsResponse, error) {
	path := "/ships/active"
	if qs := p.encode(); qs != "" {
		path += "?" + qs
	}
	var resp model.ShipsResponse
	if err := c.get(ctx, path, c.shipsTimeout, "Request timed out", &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []model.ViewRecord{}
	}
	return &resp, nil
}

// CheckHealth calls GET /health.
func (c *Client) CheckHealth(ctx context.Context) (*model.HealthResponse, error) {
	var resp model.HealthResponse
	if err := c.get(ctx, "/health", c.healthTimeout, "Health check timed out", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestConnection calls GET /hello.
func (c *Client) TestConnection(ctx context.Context) (*model.HelloResponse, error) {
	var resp model.HelloResponse
	if err := c.get(ctx, "/hello", c.helloTimeout, "Connection test timed out", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(parent context.Context, path string, timeout time.Duration, timeoutMsg string, out any) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &APIError{Code: CodeUnknown, Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(parent, err, timeoutMsg)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classifyTransport(parent, err, timeoutMsg)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeFailure(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{
			Status:  resp.StatusCode,
			Code:    CodeUnknown,
			Message: fmt.Sprintf("invalid response body: %v", err),
			Err:     err,
		}
	}
	return nil
}

// classifyTransport maps a failed round trip to an APIError. A request
// abandoned by the caller is not a transport failure and comes back as
// ErrAborted wrapping the caller's context error.
func classifyTransport(parent context.Context, err error, timeoutMsg string) error {
	if cause := parent.Err(); cause != nil {
		return fmt.Errorf("%w: %w", ErrAborted, cause)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &APIError{Status: http.StatusRequestTimeout, Code: CodeTimeout, Message: timeoutMsg, Err: err}
	}
	return &APIError{Status: 0, Code: CodeConnection, Message: "Unable to connect to server", Err: err}
}

func decodeFailure(status int, body []byte) *APIError {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		payload.Message = "Network error occurred"
	}

	apiErr := &APIError{Status: status, Code: payload.Error, Message: payload.Message}
	if apiErr.Code == "" {
		apiErr.Code = CodeUnknown
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("HTTP error! status: %d", status)
	}
	return apiErr
}
