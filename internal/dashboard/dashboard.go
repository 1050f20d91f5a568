package dashboard

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Alias1177/goldwatch/internal/trading/risk"
	"github.com/Alias1177/goldwatch/models"
)

const (
	width           = 60
	clearScreen     = "\033[H\033[2J"
	timestampLayout = "2006-01-02 15:04:05"
)

// Scenario is a named stop loss distance shown on the dashboard
type Scenario struct {
	Label        string
	StopLossPips int
}

// DefaultScenarios are the short, medium and long stop loss setups
var DefaultScenarios = []Scenario{
	{Label: "Scalping", StopLossPips: 30},
	{Label: "Intraday", StopLossPips: 50},
	{Label: "Swing", StopLossPips: 100},
}

// Scenarios sizes every default scenario for the given account parameters
func Scenarios(params models.TradeParameters) []models.ScenarioRow {
	rows := make([]models.ScenarioRow, 0, len(DefaultScenarios))
	for _, s := range DefaultScenarios {
		sizing := risk.CalculatePositionSize(params.Balance, params.RiskPercent, s.StopLossPips)
		rows = append(rows, models.ScenarioRow{
			Label:         s.Label,
			StopLossPips:  s.StopLossPips,
			LotSize:       sizing.LotSize,
			PriceDistance: risk.PriceDistance(s.StopLossPips),
		})
	}
	return rows
}

// Renderer draws the dashboard to a text surface
type Renderer struct {
	out     io.Writer
	clear   bool
	now     func() time.Time
	printer *message.Printer
}

// Options configures a Renderer
type Options struct {
	// Clear wipes the screen before every dashboard frame
	Clear bool
	Now   func() time.Time
}

// NewRenderer creates a renderer writing to out
func NewRenderer(out io.Writer, opts Options) *Renderer {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Renderer{
		out:     out,
		clear:   opts.Clear,
		now:     now,
		printer: message.NewPrinter(language.English),
	}
}

// IsTerminal reports whether f is an interactive terminal
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render draws one dashboard frame for the quote
func (r *Renderer) Render(quote models.PriceQuote, params models.TradeParameters) error {
	var b strings.Builder

	if r.clear {
		b.WriteString(clearScreen)
	}

	sizing := risk.CalculatePositionSize(params.Balance, params.RiskPercent, 0)
	pair := fmt.Sprintf("%s/%s", quote.Symbol, quote.Currency)

	line(&b, "=")
	fmt.Fprintln(&b, center("ALGORITHMIC TRADING ASSISTANT (PRO)"))
	line(&b, "=")
	fmt.Fprintf(&b, " %-13s: $%s\n", pair+" LIVE", r.money(quote.Price))
	fmt.Fprintf(&b, " %-13s: $%s\n", "Balance", r.money(params.Balance))
	fmt.Fprintf(&b, " %-13s: %g%% ($%s per trade)\n", "Risk Profile", params.RiskPercent, r.money(sizing.RiskAmount))
	line(&b, "-")
	fmt.Fprintln(&b, center("SCENARIO ANALYSIS"))
	line(&b, "-")
	fmt.Fprintf(&b, "| %-12s | %-10s | %-10s | %-12s |\n", "Trade Type", "SL (Pips)", "Max Lot", "Distance ($)")
	line(&b, "-")

	for _, row := range Scenarios(params) {
		fmt.Fprintf(&b, "| %-12s | %-10d | %-10.2f | $%-11.2f |\n",
			row.Label, row.StopLossPips, row.LotSize, row.PriceDistance)
	}

	line(&b, "-")
	fmt.Fprintf(&b, " Last Update: %s\n", r.updatedAt(quote).Format(timestampLayout))
	fmt.Fprintln(&b, " Press CTRL+C to exit.")
	line(&b, "=")

	_, err := io.WriteString(r.out, b.String())
	return err
}

// updatedAt is the fetch time of the quote, or the render time if unknown
func (r *Renderer) updatedAt(quote models.PriceQuote) time.Time {
	if quote.FetchedAt.IsZero() {
		return r.now()
	}
	return quote.FetchedAt
}

// RenderCalculation prints the result block of the standalone calculator
func (r *Renderer) RenderCalculation(result risk.PositionSizingResult) error {
	advice := risk.Advise(result)

	var b strings.Builder
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "--- ANALYSIS RESULT ---")
	fmt.Fprintf(&b, "Money at risk: $%s\n", r.money(result.RiskAmount))
	fmt.Fprintf(&b, "Max lot size: %.2f lots\n", result.LotSize)
	fmt.Fprintf(&b, "Advice: %s\n", advice.Message)

	_, err := io.WriteString(r.out, b.String())
	return err
}

func (r *Renderer) money(v float64) string {
	return r.printer.Sprintf("%.2f", v)
}

func line(b *strings.Builder, ch string) {
	b.WriteString(strings.Repeat(ch, width))
	b.WriteByte('\n')
}

func center(s string) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}
