package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"BuySignal/internal/calculator"
	"BuySignal/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price  float64
	Days   int
	Points []model.PricePoint
	Err    error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyPrices(_ context.Context, _, _ string) ([]model.PricePoint, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Points != nil {
		return m.Points, nil
	}
	days := m.Days
	if days == 0 {
		days = 252
	}
	return generateMockPrices(m.Price, days), nil
}

func generateMockPrices(basePrice float64, count int) []model.PricePoint {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	pts := make([]model.PricePoint, count)
	for i := 0; i < count; i++ {
		pts[i] = model.PricePoint{
			Time:  end.AddDate(0, 0, -(count - 1 - i)),
			Close: basePrice * (1 + float64(i-count/2)*0.001),
		}
	}
	return pts
}

// Collector fetches the daily price history of one instrument.
type Collector struct {
	Fetcher Fetcher
	Symbol  string
	Range   string
	log     zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol, rng string, log zerolog.Logger) *Collector {
	if rng == "" {
		rng = "1y"
	}
	return &Collector{
		Fetcher: fetcher,
		Symbol:  symbol,
		Range:   rng,
		log:     log.With().Str("component", "collector").Logger(),
	}
}

// Collect fetches the configured symbol. An empty history is reported as
// calculator.ErrEmptySeries so callers can stop before analysis.
func (c *Collector) Collect(ctx context.Context) (*model.PriceSeries, error) {
	return c.CollectSymbol(ctx, c.Symbol)
}

// CollectSymbol fetches an arbitrary symbol over the configured range.
func (c *Collector) CollectSymbol(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	start := time.Now()
	points, err := c.Fetcher.FetchDailyPrices(ctx, symbol, c.Range)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("fetch %s: %w", symbol, calculator.ErrEmptySeries)
	}
	c.log.Debug().
		Str("symbol", symbol).
		Str("source", c.Fetcher.Name()).
		Int("points", len(points)).
		Dur("took", time.Since(start)).
		Msg("price history collected")

	return &model.PriceSeries{
		Symbol:    symbol,
		Points:    points,
		Source:    c.Fetcher.Name(),
		FetchedAt: time.Now(),
	}, nil
}
