package models

import "context"

type PriceClient interface {
	GetPrice(ctx context.Context, symbol, currency string) (PriceQuote, error)
}
