package models

import (
	"time"
)

// TradeParameters holds the account inputs used for position sizing
type TradeParameters struct {
	Balance      float64 `json:"balance"`
	RiskPercent  float64 `json:"risk_percent"` // 0-100
	StopLossPips int     `json:"stop_loss_pips"`
}

// PriceQuote is the latest market price for a symbol
type PriceQuote struct {
	Symbol    string    `json:"symbol"`
	Currency  string    `json:"currency"`
	Price     float64   `json:"price"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ScenarioRow is one line of the dashboard scenario table
type ScenarioRow struct {
	Label         string  `json:"label"`
	StopLossPips  int     `json:"stop_loss_pips"`
	LotSize       float64 `json:"lot_size"`
	PriceDistance float64 `json:"price_distance"`
}

// GoldAPIResponse represents the API response from goldapi.io
type GoldAPIResponse struct {
	Timestamp      int64   `json:"timestamp"`
	Metal          string  `json:"metal"`
	Currency       string  `json:"currency"`
	Exchange       string  `json:"exchange"`
	Symbol         string  `json:"symbol"`
	Price          float64 `json:"price"`
	PrevClosePrice float64 `json:"prev_close_price,omitempty"`
	Ask            float64 `json:"ask,omitempty"`
	Bid            float64 `json:"bid,omitempty"`
	Error          string  `json:"error,omitempty"`
}
