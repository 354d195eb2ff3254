package collector

import (
	"context"

	"BuySignal/internal/model"
)

// Fetcher defines the interface for fetching daily closing prices.
// rng is a Yahoo-style range such as "1y" or "6mo".
type Fetcher interface {
	FetchDailyPrices(ctx context.Context, symbol, rng string) ([]model.PricePoint, error)
	Name() string
}
