// Package advisor runs the buy-signal pipeline for the outer surfaces:
// it fetches prices, evaluates, stamps and records the result.
package advisor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"BuySignal/internal/collector"
	"BuySignal/internal/model"
	"BuySignal/internal/recorder"
	"BuySignal/internal/report"
	"BuySignal/internal/strategy"
)

// Advisor evaluates questionnaires against the configured instrument.
type Advisor struct {
	Collector  *collector.Collector
	Recorder   recorder.Recorder
	Thresholds model.Thresholds
	Options    report.Options

	now func() time.Time
	log zerolog.Logger
}

// New creates an Advisor.
func New(col *collector.Collector, rec recorder.Recorder, th model.Thresholds, opts report.Options, log zerolog.Logger) *Advisor {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Advisor{
		Collector:  col,
		Recorder:   rec,
		Thresholds: th,
		Options:    opts,
		now:        time.Now,
		log:        log.With().Str("component", "advisor").Logger(),
	}
}

// Symbol returns the instrument being evaluated.
func (a *Advisor) Symbol() string { return a.Collector.Symbol }

// Evaluate fetches the price history, runs the pipeline for sel and records the result.
// Fatal pipeline errors are returned unchanged so callers can match them with errors.Is.
func (a *Advisor) Evaluate(ctx context.Context, sel model.Selection, trigger recorder.Trigger) (*report.Report, error) {
	return a.evaluate(ctx, sel, trigger, true)
}

// Preview is Evaluate without the history record, for page loads that
// only display the current reading.
func (a *Advisor) Preview(ctx context.Context, sel model.Selection) (*report.Report, error) {
	return a.evaluate(ctx, sel, recorder.TriggerWeb, false)
}

func (a *Advisor) evaluate(ctx context.Context, sel model.Selection, trigger recorder.Trigger, record bool) (*report.Report, error) {
	series, err := a.Collector.Collect(ctx)
	if err != nil {
		a.log.Error().Err(err).Str("trigger", string(trigger)).Msg("collect prices")
		return nil, err
	}

	ev, err := strategy.Run(sel, series, a.Thresholds)
	if err != nil {
		a.log.Error().Err(err).Str("trigger", string(trigger)).Msg("evaluate")
		return nil, err
	}
	ev.EvaluatedAt = a.now()
	if !record {
		return report.Build(ev, series, a.Options), nil
	}
	ev.ID = uuid.NewString()

	for _, w := range ev.Warnings {
		a.log.Warn().Str("symbol", ev.Symbol).Msg(w)
	}
	a.log.Info().
		Str("id", ev.ID).
		Str("trigger", string(trigger)).
		Float64("sentiment", ev.Sentiment.Score).
		Int("score", ev.ScoreCard.Score).
		Msg("evaluation complete")

	if err := a.Recorder.RecordEvaluation(recorder.FromEvaluation(ev, trigger)); err != nil {
		a.log.Error().Err(err).Str("id", ev.ID).Msg("record evaluation")
	}

	return report.Build(ev, series, a.Options), nil
}
