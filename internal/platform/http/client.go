package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout     = 10 * time.Second
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 5 * time.Second
	DefaultRPS         = 5
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestFunc builds a fresh request for every attempt
type RequestFunc func(ctx context.Context) (*http.Request, error)

// ResponseHandler consumes a successful response. Returning an error retries
// the attempt unless it is wrapped with backoff.Permanent.
type ResponseHandler func(resp *http.Response) error

// Client is a wrapper for HTTP client with rate limiting and fixed-delay retries
type Client struct {
	HTTPClient  Doer
	Limiter     *rate.Limiter
	MaxAttempts int
	RetryDelay  time.Duration

	timer  backoff.Timer
	logger zerolog.Logger
}

// ClientOptions holds options for creating a new Client
type ClientOptions struct {
	Timeout        time.Duration
	RequestsPerSec int
	MaxAttempts    int
	RetryDelay     time.Duration

	// Doer replaces the default *http.Client, Timeout is ignored when set
	Doer Doer
	// Timer replaces the wall clock used between attempts
	Timer  backoff.Timer
	Logger *zerolog.Logger
}

// NewClient creates a new HTTP client with rate limiting
func NewClient(opts ClientOptions) *Client {
	// Set default values if not provided
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = DefaultRPS
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.RetryDelay < 0 {
		opts.RetryDelay = 0
	} else if opts.RetryDelay == 0 {
		opts.RetryDelay = DefaultRetryDelay
	}

	doer := opts.Doer
	if doer == nil {
		doer = &http.Client{
			Timeout: opts.Timeout,
		}
	}

	logger := log.With().Str("component", "http_client").Logger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Client{
		HTTPClient:  doer,
		Limiter:     rate.NewLimiter(rate.Every(time.Second/time.Duration(opts.RequestsPerSec)), opts.RequestsPerSec),
		MaxAttempts: opts.MaxAttempts,
		RetryDelay:  opts.RetryDelay,
		timer:       opts.Timer,
		logger:      logger,
	}
}

// DoRequest performs an HTTP request with rate limiting and retries.
// Every attempt gets a new request from build; handle is only called for 2xx responses.
func (c *Client) DoRequest(ctx context.Context, build RequestFunc, handle ResponseHandler) error {
	attempt := 0
	operation := func() error {
		attempt++

		if err := c.Limiter.Wait(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("rate limiter: %w", err))
		}

		req, err := build(ctx)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}

		err = c.attempt(req, handle)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}

		c.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", c.MaxAttempts).
			Msgf("Request failed, attempt %d/%d", attempt, c.MaxAttempts)
		return err
	}

	strategy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.RetryDelay), uint64(c.MaxAttempts-1)),
		ctx,
	)

	if err := backoff.RetryNotifyWithTimer(operation, strategy, nil, c.timer); err != nil {
		return fmt.Errorf("after %d attempts: %w", attempt, err)
	}
	return nil
}

func (c *Client) attempt(req *http.Request, handle ResponseHandler) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return handle(resp)
}

// HTTPStatusError represents an error due to a non-2xx HTTP status code
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("non-2xx status code: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
