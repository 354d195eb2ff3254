// Package app wires configuration into the shared components used by the binaries.
package app

import (
	"context"

	"github.com/rs/zerolog"

	"BuySignal/internal/advisor"
	"BuySignal/internal/collector"
	"BuySignal/internal/config"
	"BuySignal/internal/recorder"
	"BuySignal/internal/report"
)

// Components holds the wired dependencies. Close releases them.
type Components struct {
	Advisor  *advisor.Advisor
	Recorder recorder.Recorder

	closers []func() error
}

// Build creates the fetcher chain, recorder and advisor from cfg.
// Optional backends that fail to start are logged and skipped.
func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger) *Components {
	c := &Components{}

	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "mock":
		fetcher = &collector.MockFetcher{Price: 80, Days: 252}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	if cfg.Cache.RedisAddr != "" {
		rc, err := collector.NewRedisCache(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			log.Warn().Err(err).Msg("price cache unavailable, fetching directly")
		} else {
			fetcher = collector.NewCachedFetcher(fetcher, rc, cfg.Cache.TTL, log)
			c.closers = append(c.closers, rc.Close)
		}
	}
	log.Info().Str("source", fetcher.Name()).Str("symbol", cfg.DataSource.Symbol).Msg("data source configured")

	c.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			c.Recorder = sr
			c.closers = append(c.closers, sr.Close)
		}
	}

	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol, cfg.DataSource.Range, log)
	c.Advisor = advisor.New(col, c.Recorder, cfg.Thresholds, report.Options{Currency: cfg.Display.Currency}, log)
	return c
}

// Close releases backends in reverse order of creation.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i]()
	}
}
