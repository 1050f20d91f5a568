package cli

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Alias1177/goldwatch/internal/dashboard"
	"github.com/Alias1177/goldwatch/internal/trading/risk"
	"github.com/Alias1177/goldwatch/models"
)

const numbersOnly = "Error: enter numbers only!"

type calcOptions struct {
	balance float64
	risk    float64
	pips    int
}

func newCalcCmd(streams Streams) *cobra.Command {
	opts := &calcOptions{}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Interactive XAU/USD position size calculator",
		Long: `Calc asks for balance, risk percent and stop loss distance and prints the
money at risk and the maximum lot size. Values passed as flags are not asked for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.balance, "balance", 0, "Account balance in USD")
	cmd.Flags().Float64Var(&opts.risk, "risk", 0, "Risk per trade in percent")
	cmd.Flags().IntVar(&opts.pips, "pips", 0, "Stop loss distance in pips")

	return cmd
}

func runCalc(cmd *cobra.Command, opts *calcOptions) error {
	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())

	fmt.Fprintln(out, "=== XAUUSD RISK CALCULATOR ===")

	params := models.TradeParameters{
		Balance:      opts.balance,
		RiskPercent:  opts.risk,
		StopLossPips: opts.pips,
	}

	var err error
	if !cmd.Flags().Changed("balance") {
		if params.Balance, err = promptFloat(in, out, "Balance (USD): "); err != nil {
			fmt.Fprintln(out, numbersOnly)
			return nil
		}
	}
	if !cmd.Flags().Changed("risk") {
		if params.RiskPercent, err = promptFloat(in, out, "Risk per trade (%): "); err != nil {
			fmt.Fprintln(out, numbersOnly)
			return nil
		}
	}
	if !cmd.Flags().Changed("pips") {
		if params.StopLossPips, err = promptInt(in, out, "Stop loss distance (pips): "); err != nil {
			fmt.Fprintln(out, numbersOnly)
			return nil
		}
	}

	if err := risk.ValidateParameters(params); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return nil
	}

	result := risk.CalculatePositionSize(params.Balance, params.RiskPercent, params.StopLossPips)
	return dashboard.NewRenderer(out, dashboard.Options{}).RenderCalculation(result)
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptFloat(in *bufio.Reader, out io.Writer, label string) (float64, error) {
	s, err := prompt(in, out, label)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

func promptInt(in *bufio.Reader, out io.Writer, label string) (int, error) {
	s, err := prompt(in, out, label)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}
