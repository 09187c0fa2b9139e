package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tessro/tuneboard/internal/core"
	tberrors "github.com/tessro/tuneboard/internal/errors"
	"github.com/tessro/tuneboard/internal/logging"
	"github.com/tessro/tuneboard/internal/metrics"
)

const (
	// BaseURL is the Spotify Web API base URL.
	BaseURL = "https://api.spotify.com/v1"

	// Retry configuration for transient errors
	defaultMaxRetries  = 3
	defaultBaseBackoff = 500 * time.Millisecond

	breakerName = "spotify-api"
)

// Options configures a Client. Zero values get defaults.
type Options struct {
	BaseURL           string
	HTTPClient        *http.Client
	RequestsPerSecond float64
	MaxRetries        int
	BaseBackoff       time.Duration
}

// Client is a Spotify Web API client. It holds no credentials: every call
// takes the bearer token to use, so one Client can serve any caller.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	limiter     *rate.Limiter
	cb          *gobreaker.CircuitBreaker[*response]
	maxRetries  int
	baseBackoff time.Duration
	logger      zerolog.Logger
}

type response struct {
	status int
	body   []byte
}

// New creates a new Spotify client.
func New(opts Options) *Client {
	c := &Client{
		httpClient:  opts.HTTPClient,
		baseURL:     opts.BaseURL,
		maxRetries:  opts.MaxRetries,
		baseBackoff: opts.BaseBackoff,
		logger:      logging.WithComponent("spotify"),
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.baseURL == "" {
		c.baseURL = BaseURL
	}
	if c.maxRetries <= 0 {
		c.maxRetries = defaultMaxRetries
	}
	if c.baseBackoff <= 0 {
		c.baseBackoff = defaultBaseBackoff
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	c.limiter = rate.NewLimiter(limit, 1)

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	c.cb = gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Client errors say nothing about Spotify's health.
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.ErrorInfo.Status < 500 && apiErr.ErrorInfo.Status != http.StatusTooManyRequests
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return c
}

// Get performs a GET request to the Spotify API.
func (c *Client) Get(ctx context.Context, cred core.Credential, path string, result interface{}) error {
	return c.request(ctx, cred, http.MethodGet, path, nil, result)
}

// Post performs a POST request to the Spotify API.
func (c *Client) Post(ctx context.Context, cred core.Credential, path string, body interface{}, result interface{}) error {
	return c.request(ctx, cred, http.MethodPost, path, body, result)
}

// Put performs a PUT request to the Spotify API.
func (c *Client) Put(ctx context.Context, cred core.Credential, path string, body interface{}, result interface{}) error {
	return c.request(ctx, cred, http.MethodPut, path, body, result)
}

func (c *Client) request(ctx context.Context, cred core.Credential, method, path string, body interface{}, result interface{}) error {
	if cred == "" {
		return tberrors.ErrNotAuthenticated
	}

	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", tberrors.ErrTimeout, err)
	}

	resp, err := c.cb.Execute(func() (*response, error) {
		return c.doWithRetry(ctx, cred, method, path, jsonBody)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
			return fmt.Errorf("%w: spotify circuit breaker open", tberrors.ErrNetworkError)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		return err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()

	if result != nil && resp.status != http.StatusNoContent && len(resp.body) > 0 {
		if err := json.Unmarshal(resp.body, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// doWithRetry sends one logical request, retrying network failures, 429 and
// 5xx responses. A Retry-After header overrides the exponential backoff.
func (c *Client) doWithRetry(ctx context.Context, cred core.Credential, method, path string, jsonBody []byte) (*response, error) {
	fullURL := c.baseURL + path
	endpoint := endpointLabel(path)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			metrics.SpotifyRetries.WithLabelValues(endpoint).Inc()
		}

		var bodyReader io.Reader
		if jsonBody != nil {
			bodyReader = bytes.NewReader(jsonBody)
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+string(cred))
		if jsonBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		c.logger.Debug().Str("method", method).Str("url", fullURL).Int("attempt", attempt).Msg("spotify request")

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.RecordSpotifyRequest(endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", tberrors.ErrTimeout, ctx.Err())
			}
			lastErr = fmt.Errorf("%w: %v", tberrors.ErrNetworkError, err)
			if attempt < c.maxRetries {
				if werr := c.wait(ctx, attempt, 0); werr != nil {
					return nil, werr
				}
			}
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		metrics.RecordSpotifyRequest(endpoint, resp.StatusCode, time.Since(start))
		if err != nil {
			lastErr = fmt.Errorf("%w: failed to read response: %v", tberrors.ErrNetworkError, err)
			if attempt < c.maxRetries {
				if werr := c.wait(ctx, attempt, 0); werr != nil {
					return nil, werr
				}
			}
			continue
		}

		c.logger.Debug().Int("status", resp.StatusCode).Str("url", fullURL).Msg("spotify response")

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = parseAPIError(resp.StatusCode, respBody)
			c.logger.Warn().Err(lastErr).Int("attempt", attempt+1).Msg("spotify transient error, will retry")
			if attempt < c.maxRetries {
				if werr := c.wait(ctx, attempt, parseRetryAfter(resp)); werr != nil {
					return nil, werr
				}
			}
			continue
		}

		if resp.StatusCode >= 400 {
			return nil, parseAPIError(resp.StatusCode, respBody)
		}

		return &response{status: resp.StatusCode, body: respBody}, nil
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) wait(ctx context.Context, attempt int, retryAfter time.Duration) error {
	backoff := c.baseBackoff * time.Duration(1<<attempt)
	if retryAfter > 0 {
		backoff = retryAfter
	}

	timer := time.NewTimer(backoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", tberrors.ErrTimeout, ctx.Err())
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	var seconds int
	if _, err := fmt.Sscanf(v, "%d", &seconds); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(v); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}
	return 0
}

// endpointLabel strips the query string so metrics have bounded labels.
func endpointLabel(path string) string {
	if u, err := url.Parse(path); err == nil {
		return u.Path
	}
	return path
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// BuildURL builds a URL with query parameters.
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}

	u, _ := url.Parse(path)
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
