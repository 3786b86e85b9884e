// Package fetch implements the HTTP data source used by provider handlers.
//
// A Client issues GET requests against a provider's REST API and decodes
// JSON responses. Any transport failure, non-2xx status or malformed
// payload is reported as *errors.UpstreamError. There is no caching and no
// retry: each call is a single request bounded by the client timeout.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wagiedev/opendata-mcp-go/internal/errors"
)

// DefaultTimeout bounds a single upstream request.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response body is kept.
const maxErrorBody = 4096

// Client fetches JSON documents from a base URL.
type Client struct {
	log       *slog.Logger
	http      *http.Client
	baseURL   *url.URL
	userAgent string
	timeout   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request. Zero keeps DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client rooted at baseURL.
func NewClient(log *slog.Logger, baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}

	c := &Client{
		log:     log.With("component", "fetch"),
		http:    http.DefaultClient,
		baseURL: u,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the base URL the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Get requests path relative to the base URL with the given query and
// decodes the JSON response into out.
//
// Query values that are empty are dropped, so optional parameters can be
// passed unconditionally.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.resolve(path, query)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &errors.UpstreamError{URL: endpoint, Err: err}
	}

	req.Header.Set("Accept", "application/json")

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return &errors.UpstreamError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("Upstream response",
		"url", endpoint,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return &errors.UpstreamError{
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &errors.UpstreamError{
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("malformed payload: %w", err),
		}
	}

	return nil
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")

	clean := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			if v != "" {
				clean.Add(k, v)
			}
		}
	}

	u.RawQuery = clean.Encode()

	return u.String()
}
