package strategy

import (
	"fmt"

	"BuySignal/internal/calculator"
	"BuySignal/internal/model"
	"BuySignal/internal/sentiment"
)

// Run scores the selection, analyzes the series and combines both.
// It is a pure function of its inputs: callers stamp ID and time.
//
// Missing indicators, an empty series and a non-positive low halt the run.
// A short history is recorded in Warnings and the run continues without
// the average signal.
func Run(sel model.Selection, series *model.PriceSeries, th model.Thresholds) (*model.Evaluation, error) {
	s, err := sentiment.Score(sel, th)
	if err != nil {
		return nil, err
	}

	var points []model.PricePoint
	var symbol string
	if series != nil {
		points = series.Points
		symbol = series.Symbol
	}

	ev := &model.Evaluation{
		Symbol:    symbol,
		Selection: sel,
		Sentiment: s,
	}

	stats, err := calculator.Analyze(points, th)
	if err != nil {
		if !calculator.IsWarning(err) {
			return nil, fmt.Errorf("analyze %s: %w", symbol, err)
		}
		ev.Warnings = append(ev.Warnings, err.Error())
	}
	ev.Stats = *stats
	ev.ScoreCard, ev.Recommendation = Evaluate(s, stats)
	return ev, nil
}
