package watcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/goldwatch/models"
)

const DefaultInterval = 30 * time.Second

// Renderer draws a dashboard frame for a fresh quote
type Renderer interface {
	Render(quote models.PriceQuote, params models.TradeParameters) error
}

// SleepFunc blocks for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Watcher polls the price and redraws the dashboard on a fixed cadence
type Watcher struct {
	client   models.PriceClient
	renderer Renderer
	params   models.TradeParameters
	symbol   string
	currency string
	interval time.Duration
	sleep    SleepFunc
	logger   zerolog.Logger

	last models.PriceQuote
}

// Options configures a Watcher
type Options struct {
	Symbol   string
	Currency string
	Interval time.Duration
	Sleep    SleepFunc
}

// New creates a Watcher
func New(client models.PriceClient, renderer Renderer, params models.TradeParameters, opts Options) *Watcher {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Sleep == nil {
		opts.Sleep = Sleep
	}

	return &Watcher{
		client:   client,
		renderer: renderer,
		params:   params,
		symbol:   opts.Symbol,
		currency: opts.Currency,
		interval: opts.Interval,
		sleep:    opts.Sleep,
		logger:   log.With().Str("component", "watcher").Logger(),
	}
}

// Last returns the most recent quote, zero before the first success
func (w *Watcher) Last() models.PriceQuote {
	return w.last
}

// Tick runs a single poll and render cycle. A failed fetch is logged and
// swallowed; only rendering failures and cancellation are returned.
func (w *Watcher) Tick(ctx context.Context) error {
	quote, err := w.client.GetPrice(ctx, w.symbol, w.currency)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		w.logger.Error().Err(err).Msg("Failed to fetch market data, retrying later")
		return nil
	}

	w.last = quote
	if err := w.renderer.Render(quote, w.params); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

// Run ticks until ctx is cancelled. Cancellation is a clean stop and returns nil.
func (w *Watcher) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("watcher panic: %v", r)
		}
	}()

	w.logger.Info().
		Str("symbol", w.symbol).
		Dur("interval", w.interval).
		Msg("Starting market monitoring")

	for {
		if err := w.Tick(ctx); err != nil {
			if isCancel(err) {
				return nil
			}
			return err
		}

		if err := w.sleep(ctx, w.interval); err != nil {
			if isCancel(err) {
				return nil
			}
			return err
		}
	}
}

// Sleep waits for d using a real timer
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
