// Package qbtime is the adapter for the QuickBooks Time (TSheets) REST
// API: an authenticated HTTP client with token-bucket rate limiting,
// retry/backoff, and lazy page traversal over the service's paginated
// collections.
package qbtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"
	"golang.org/x/oauth2"

	"github.com/vespo92/QBMCPServer/internal/apperrors"
	"github.com/vespo92/QBMCPServer/internal/core/ports"
)

var _ ports.TimeDataProvider = (*Client)(nil)

// Options configures a Client.
type Options struct {
	BaseURL           string
	AccessToken       string
	RequestsPerSecond int
	RequestsPerMinute int
	MaxRetries        int
	RetryBaseDelay    time.Duration
	RetryMaxDelay     time.Duration
	Logger            *slog.Logger

	// Clock is injected for tests; nil means the real clock.
	Clock clockwork.Clock
	// HTTPClient overrides the oauth2 client; used by tests.
	HTTPClient *http.Client
}

// Client is the rate-limited QuickBooks Time API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *RateLimiter
	maxRetries uint64
	retryBase  time.Duration
	retryMax   time.Duration
	logger     *slog.Logger
}

// NewClient builds a client authenticated with a static bearer token.
func NewClient(ctx context.Context, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.AccessToken})
		httpClient = oauth2.NewClient(ctx, ts)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 3
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 300
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = 500 * time.Millisecond
	}
	if opts.RetryMaxDelay <= 0 {
		opts.RetryMaxDelay = 30 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 4
	}
	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: httpClient,
		limiter:    NewRateLimiter(opts.RequestsPerSecond, opts.RequestsPerMinute, opts.Clock),
		maxRetries: uint64(opts.MaxRetries),
		retryBase:  opts.RetryBaseDelay,
		retryMax:   opts.RetryMaxDelay,
		logger:     logger,
	}
}

// envelope is the common shape of QuickBooks Time collection responses.
type envelope struct {
	Results          map[string]json.RawMessage `json:"results"`
	More             bool                       `json:"more"`
	SupplementalData map[string]json.RawMessage `json:"supplemental_data"`
}

// get performs a rate-limited GET and decodes the response envelope.
// 429 and 5xx responses are retried with exponential backoff without
// withdrawing a fresh token; other 4xx fail immediately.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values) (*envelope, error) {
	return c.do(ctx, http.MethodGet, endpoint, query, nil)
}

// post performs a rate-limited POST with a JSON body (the report
// endpoints take their filters in the body).
func (c *Client) post(ctx context.Context, endpoint string, body any) (*envelope, error) {
	return c.do(ctx, http.MethodPost, endpoint, nil, body)
}

func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body any) (*envelope, error) {
	// One token covers the request and all its retries.
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate-limit token: %w", err)
	}

	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(map[string]any{"data": body})
		if err != nil {
			return nil, fmt.Errorf("encoding %s request body: %w", endpoint, err)
		}
	}

	reqURL := c.baseURL + endpoint
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var env *envelope
	attempt := 0
	operation := func() error {
		attempt++
		var reader io.Reader
		if bodyBytes != nil {
			reader = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating %s request: %w", endpoint, err))
		}
		req.Header.Set("Accept", "application/json")
		if bodyBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("%s request failed: %w", endpoint, err)
		}
		defer resp.Body.Close()
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading %s response: %w", endpoint, err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			var decoded envelope
			if err := json.Unmarshal(respBody, &decoded); err != nil {
				return backoff.Permanent(fmt.Errorf("decoding %s response: %w", endpoint, err))
			}
			env = &decoded
			return nil
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return backoff.Permanent(fmt.Errorf("%s returned %d: %w", endpoint, resp.StatusCode, apperrors.ErrAuth))
		case resp.StatusCode == http.StatusTooManyRequests:
			c.logger.Warn("Upstream rate limit hit, backing off",
				slog.String("endpoint", endpoint), slog.Int("attempt", attempt))
			return fmt.Errorf("%s returned 429: %w", endpoint, apperrors.ErrRateLimitExceeded)
		case resp.StatusCode >= 500:
			c.logger.Warn("Upstream server error, backing off",
				slog.String("endpoint", endpoint), slog.Int("status", resp.StatusCode), slog.Int("attempt", attempt))
			return fmt.Errorf("%s returned %d: %w", endpoint, resp.StatusCode, apperrors.ErrServer)
		default:
			// Non-retryable client failure: surface the triggering
			// endpoint and query for diagnosis.
			return backoff.Permanent(fmt.Errorf("%s rejected (status %d, query %q): %s: %w",
				endpoint, resp.StatusCode, query.Encode(), truncate(respBody, 256), apperrors.ErrUpstream))
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryBase
	policy.MaxInterval = c.retryMax
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx)); err != nil {
		return nil, err
	}
	return env, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
