package goldapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpClient "github.com/Alias1177/goldwatch/internal/platform/http"
	"github.com/Alias1177/goldwatch/models"
)

const (
	DefaultBaseURL  = "https://www.goldapi.io/api"
	DefaultSymbol   = "XAU"
	DefaultCurrency = "USD"
)

var (
	// ErrNoPrice is returned when no price could be obtained in this cycle
	ErrNoPrice = errors.New("no price available")
	// ErrMissingPrice is returned when the API answered without a usable price
	ErrMissingPrice = errors.New("response has no price")
)

// Client is the goldapi.io API client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpClient.Client
	now        func() time.Time
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new goldapi client
type ClientOptions struct {
	APIKey         string
	BaseURL        string
	RequestTimeout time.Duration
	RequestsPerSec int
	MaxAttempts    int
	RetryDelay     time.Duration

	// Doer and Timer are passed through to the retrying HTTP client
	Doer  httpClient.Doer
	Timer backoff.Timer
	Now   func() time.Time
}

// NewClient creates a new goldapi client
func NewClient(options ClientOptions) *Client {
	logger := log.With().Str("component", "goldapi_client").Logger()

	httpOpts := httpClient.ClientOptions{
		Timeout:        options.RequestTimeout,
		RequestsPerSec: options.RequestsPerSec,
		MaxAttempts:    options.MaxAttempts,
		RetryDelay:     options.RetryDelay,
		Doer:           options.Doer,
		Timer:          options.Timer,
		Logger:         &logger,
	}

	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	now := options.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		apiKey:     options.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient.NewClient(httpOpts),
		now:        now,
		logger:     logger,
	}
}

// GetPrice fetches the current price of symbol quoted in currency.
// All failures are reported as ErrNoPrice so callers can treat them as a soft miss.
func (c *Client) GetPrice(ctx context.Context, symbol, currency string) (models.PriceQuote, error) {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	apiURL := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(symbol), url.PathEscape(currency))

	c.logger.Debug().Str("url", apiURL).Msg("Fetching price")

	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("x-access-token", c.apiKey)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	var data models.GoldAPIResponse
	handle := func(resp *http.Response) error {
		data = models.GoldAPIResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return fmt.Errorf("parsing JSON: %w", err)
		}
		if data.Price <= 0 {
			if data.Error != "" {
				return backoff.Permanent(fmt.Errorf("%w: %s", ErrMissingPrice, data.Error))
			}
			return backoff.Permanent(ErrMissingPrice)
		}
		return nil
	}

	if err := c.httpClient.DoRequest(ctx, build, handle); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.PriceQuote{}, ctxErr
		}
		c.logger.Error().Err(err).Str("symbol", symbol).Msg("Giving up on price fetch")
		return models.PriceQuote{}, fmt.Errorf("%w: %w", ErrNoPrice, err)
	}

	quote := models.PriceQuote{
		Symbol:    symbol,
		Currency:  currency,
		Price:     data.Price,
		FetchedAt: c.now(),
	}

	c.logger.Debug().Float64("price", quote.Price).Msg("Fetched price")
	return quote, nil
}
