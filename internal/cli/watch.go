package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	"github.com/Alias1177/goldwatch/internal/api/goldapi"
	"github.com/Alias1177/goldwatch/internal/config"
	"github.com/Alias1177/goldwatch/internal/dashboard"
	"github.com/Alias1177/goldwatch/internal/trading/risk"
	"github.com/Alias1177/goldwatch/internal/watcher"
	"github.com/Alias1177/goldwatch/models"
)

// Swapped out in tests so no real network or timers are touched
var (
	newPriceClient = func(cfg *config.Config) models.PriceClient {
		return goldapi.NewClient(goldapi.ClientOptions{
			APIKey:         cfg.GoldAPIKey,
			BaseURL:        cfg.GoldAPIURL,
			RequestTimeout: cfg.RequestTimeout,
		})
	}
	sleep watcher.SleepFunc = watcher.Sleep
)

type watchOptions struct {
	balance float64
	risk    float64
	symbol  string
}

func newWatchCmd(streams Streams) *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the gold price and redraw the risk dashboard every 30 seconds",
		Long: `Watch fetches the live price from goldapi.io, sizes positions for a
scalping, intraday and swing stop loss and redraws the table every 30 seconds.

Requires the GOLD_API_KEY environment variable (a .env file is also read).

Example:
  goldwatch watch --balance 5000 --risk 0.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, streams, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.balance, "balance", 10000, "Trading account balance in USD")
	cmd.Flags().Float64Var(&opts.risk, "risk", 1.0, "Risk per trade in percent")
	cmd.Flags().StringVar(&opts.symbol, "symbol", goldapi.DefaultSymbol, "Asset symbol")

	return cmd
}

func runWatch(cmd *cobra.Command, streams Streams, opts *watchOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	params := models.TradeParameters{Balance: opts.balance, RiskPercent: opts.risk}
	if err := risk.ValidateParameters(params); err != nil {
		return fmt.Errorf("invalid trade parameters: %w", err)
	}

	out := cmd.OutOrStdout()
	clearScreen := false
	if f, ok := streams.Out.(*os.File); ok && dashboard.IsTerminal(f) {
		out = colorable.NewColorable(f)
		clearScreen = true
	}

	renderer := dashboard.NewRenderer(out, dashboard.Options{Clear: clearScreen})
	w := watcher.New(newPriceClient(cfg), renderer, params, watcher.Options{
		Symbol:   opts.symbol,
		Currency: goldapi.DefaultCurrency,
		Sleep:    sleep,
	})

	if err := w.Run(cmd.Context()); err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}

	fmt.Fprintln(out, "\nProgram stopped by user. Happy trading!")
	return nil
}
