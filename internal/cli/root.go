package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Alias1177/goldwatch/internal/config"
	"github.com/Alias1177/goldwatch/internal/dashboard"
)

const version = "1.0.0"

// Streams are the process standard streams, swapped out in tests
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// NewRootCmd builds the goldwatch command tree
func NewRootCmd(streams Streams) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "goldwatch",
		Short:         "Gold trading assistant - risk management and price monitoring",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error (default $LOG_LEVEL or info)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		setupLogging(streams.Err, logLevel)
		config.LoadDotEnv()
		if logLevel == "" {
			setLogLevel(config.LogLevel())
		}
		return nil
	}

	cmd.AddCommand(
		newWatchCmd(streams),
		newCalcCmd(streams),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "goldwatch version %s\n", version)
		},
	})

	return cmd
}

// Run executes the CLI and returns the process exit code.
// SIGINT and SIGTERM cancel the command context.
func Run(args []string, streams Streams) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd(streams)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("goldwatch failed")
		return 1
	}
	return 0
}

// setupLogging configures the global logger
func setupLogging(w io.Writer, logLevel string) {
	noColor := true
	if f, ok := w.(*os.File); ok && dashboard.IsTerminal(f) {
		w = colorable.NewColorable(f)
		noColor = false
	}

	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: noColor}
	log.Logger = log.Output(output)
	setLogLevel(logLevel)
}

func setLogLevel(logLevel string) {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil || logLevel == "" {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}
