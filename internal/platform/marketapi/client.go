// Package marketapi is the REST client for the markets dashboard API. Every
// call goes through Client.Request, which applies the timeout, decodes JSON
// and normalizes failures into *domain.APIError.
package marketapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/marketdash/internal/domain"
)

// DefaultTimeout bounds every request unless overridden with WithTimeout.
const DefaultTimeout = 30 * time.Second

// Client issues JSON requests against a single API root.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for per-call logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// NewClient creates a client for baseURL, e.g. "http://localhost:5000/api/v1".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		headers: make(http.Header),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("component", "marketapi"))
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request sends method to path with an optional JSON body and extra headers,
// and returns the raw JSON response body. Failures are *domain.APIError:
// validation for a body that cannot be encoded (nothing is sent), network
// for transport problems, http for non-2xx statuses, decode for a 2xx body
// that is not JSON. Every failed call is logged before it is
// returned; the log never changes the error.
func (c *Client) Request(ctx context.Context, method, path string, body any, headers http.Header) (json.RawMessage, error) {
	start := time.Now()
	raw, err := c.do(ctx, method, path, body, headers)
	if err != nil {
		c.logFailure(ctx, method, path, err)
		return nil, err
	}
	c.logger.DebugContext(ctx, "request ok",
		slog.String("method", method),
		slog.String("path", path),
		slog.Duration("elapsed", time.Since(start)),
	)
	return raw, nil
}

// Get sends a GET with params serialized as a query string.
func (c *Client) Get(ctx context.Context, path string, params Params) (json.RawMessage, error) {
	if q := params.Encode(); q != "" {
		path += "?" + q
	}
	return c.Request(ctx, http.MethodGet, path, nil, nil)
}

// Post sends body as JSON with POST.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPost, path, body, nil)
}

// Put sends body as JSON with PUT.
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Request(ctx, http.MethodPut, path, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, headers http.Header) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, domain.NewEncodeError(err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, domain.NewNetworkError(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	for k, vs := range c.headers {
		req.Header[k] = vs
	}
	for k, vs := range headers {
		req.Header[http.CanonicalHeaderKey(k)] = vs
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewNetworkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewNetworkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NewHTTPError(resp.StatusCode, errorMessage(data))
	}

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, domain.NewDecodeError(err)
	}
	return raw, nil
}

// errorMessage extracts error.message from a structured error body. It
// returns "" when the body carries no such message.
func errorMessage(body []byte) string {
	var env struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil || env.Error == nil {
		return ""
	}
	return env.Error.Message
}

func (c *Client) logFailure(ctx context.Context, method, path string, err error) {
	attrs := []any{
		slog.String("method", method),
		slog.String("path", path),
		slog.String("error", err.Error()),
	}
	if apiErr, ok := domain.AsAPIError(err); ok {
		attrs = append(attrs, slog.String("kind", string(apiErr.Kind)))
		if apiErr.Status != 0 {
			attrs = append(attrs, slog.Int("status", apiErr.Status))
		}
	}
	c.logger.ErrorContext(ctx, "request failed", attrs...)
}
