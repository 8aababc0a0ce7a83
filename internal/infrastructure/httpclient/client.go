// Package httpclient is the shared JSON-over-HTTP transport of the upstream
// adapters: rate limiting, bounded retries with exponential backoff, size
// limited bodies and the error taxonomy of the domain package.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/greenscan/backend/internal/domain"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxRetries   = 3
	defaultBaseBackoff  = 500 * time.Millisecond
	defaultMaxBodyBytes = 5 << 20
	defaultUserAgent    = "GreenScan/1.0"
)

// Config configures a Client. Zero values fall back to the defaults;
// RequestsPerSecond <= 0 disables rate limiting.
type Config struct {
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	BaseBackoff       time.Duration
	MaxBodyBytes      int64
	Logger            *zap.Logger
}

// Client executes GET requests and decodes JSON responses
type Client struct {
	httpClient   *http.Client
	rateLimiter  *rate.Limiter
	userAgent    string
	maxRetries   int
	baseBackoff  time.Duration
	maxBodyBytes int64
	logger       *zap.Logger
}

// New creates a Client from cfg
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	} else if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = defaultBaseBackoff
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		rateLimiter:  rate.NewLimiter(limit, cfg.Burst),
		userAgent:    cfg.UserAgent,
		maxRetries:   cfg.MaxRetries,
		baseBackoff:  cfg.BaseBackoff,
		maxBodyBytes: cfg.MaxBodyBytes,
		logger:       cfg.Logger,
	}
}

// GetJSON fetches reqURL and decodes the JSON body into dest.
//
// 404 maps to domain.ErrProductNotFound. 429, 5xx and network errors are
// retried with exponential backoff and end in domain.ErrUpstreamFailure.
// Other 4xx responses fail immediately.
func (c *Client) GetJSON(ctx context.Context, reqURL string, headers http.Header, dest interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries+1; attempt++ {
		if attempt > 1 {
			wait := c.exponentialBackoff(attempt - 1)
			c.logger.Debug("retrying request",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", wait),
				zap.Error(lastErr))
			if err := sleep(ctx, wait); err != nil {
				return err
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		body, status, err := c.do(ctx, reqURL, headers)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if errors.Is(err, errBodyTooLarge) {
				return fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
			}
			lastErr = fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
			continue
		}

		switch {
		case status == http.StatusOK:
			if err := json.Unmarshal(body, dest); err != nil {
				return fmt.Errorf("%w: failed to decode response: %v", domain.ErrUpstreamFailure, err)
			}
			return nil
		case status == http.StatusNotFound:
			return domain.ErrProductNotFound
		case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
			c.logger.Warn("upstream error",
				zap.Int("status", status),
				zap.Int("attempt", attempt),
				zap.String("body", truncate(body, 200)))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, status)
		default:
			return fmt.Errorf("%w: status %d: %s", domain.ErrUpstreamFailure, status, truncate(body, 200))
		}
	}

	c.logger.Warn("all retries failed", zap.String("url", redact(reqURL)), zap.Error(lastErr))
	return lastErr
}

// do executes one GET request and returns the size limited body
func (c *Client) do(ctx context.Context, reqURL string, headers http.Header) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, c.maxBodyBytes)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// exponentialBackoff returns the wait before retry n (1-based): base, 2*base, 4*base, ...
func (c *Client) exponentialBackoff(retry int) time.Duration {
	if retry < 1 {
		retry = 1
	}
	return c.baseBackoff * time.Duration(1<<(retry-1))
}

var errBodyTooLarge = errors.New("response body too large")

// readLimitedBody reads at most limit bytes and fails if the body is larger
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, errBodyTooLarge
	}
	return body, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// redact hides credentials passed as query parameters before logging
func redact(reqURL string) string {
	u, err := url.Parse(reqURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
