package risk

import (
	"errors"
	"fmt"
	"math"

	"github.com/Alias1177/goldwatch/models"
)

const (
	// PipValueXAUUSD is the USD value of a one pip move for one standard lot
	PipValueXAUUSD = 10.0
	// PipPriceDistance is the XAU/USD price movement of one pip
	PipPriceDistance = 0.1
	// MinLotSize is the smallest lot most brokers accept
	MinLotSize = 0.01
)

var (
	ErrInvalidBalance  = errors.New("balance must be a positive finite number")
	ErrInvalidRisk     = errors.New("risk percent must be between 0 and 100")
	ErrInvalidStopLoss = errors.New("stop loss pips must not be negative")
)

// PositionSizingResult holds position sizing calculation results
type PositionSizingResult struct {
	LotSize    float64 `json:"lot_size"`
	RiskAmount float64 `json:"risk_amount"`
}

// CalculatePositionSize returns the lot size that loses riskPercent of balance
// when the stop loss is hit. A zero stop loss yields a zero lot size.
func CalculatePositionSize(balance, riskPercent float64, stopLossPips int) PositionSizingResult {
	riskAmount := balance * riskPercent / 100

	if stopLossPips <= 0 {
		return PositionSizingResult{LotSize: 0, RiskAmount: riskAmount}
	}

	return PositionSizingResult{
		LotSize:    riskAmount / (float64(stopLossPips) * PipValueXAUUSD),
		RiskAmount: riskAmount,
	}
}

// PriceDistance converts a stop loss in pips to a price distance in USD
func PriceDistance(stopLossPips int) float64 {
	return float64(stopLossPips) * PipPriceDistance
}

// ValidateParameters checks the trade parameters before they reach the sizing math
func ValidateParameters(p models.TradeParameters) error {
	if math.IsNaN(p.Balance) || math.IsInf(p.Balance, 0) || p.Balance <= 0 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidBalance, p.Balance)
	}
	if math.IsNaN(p.RiskPercent) || p.RiskPercent < 0 || p.RiskPercent > 100 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidRisk, p.RiskPercent)
	}
	if p.StopLossPips < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidStopLoss, p.StopLossPips)
	}
	return nil
}

// Advice is a short trade/no-trade verdict for a sizing result
type Advice struct {
	Tradeable bool
	Message   string
}

// Advise flags positions smaller than the minimum tradeable lot
func Advise(result PositionSizingResult) Advice {
	if result.LotSize < MinLotSize {
		return Advice{
			Tradeable: false,
			Message:   "DO NOT TRADE! Balance or stop loss makes no sense.",
		}
	}
	return Advice{
		Tradeable: true,
		Message:   "Go ahead, but respect your stop loss.",
	}
}
