// Package report turns an evaluation into display-ready values.
package report

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"BuySignal/internal/calculator"
	"BuySignal/internal/model"
)

// Unavailable is shown in place of a value that could not be computed.
const Unavailable = "unavailable"

// Options controls formatting.
type Options struct {
	Currency string
}

// Indicator is one questionnaire row.
type Indicator struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Report is what the presentation layers render.
type Report struct {
	ID          string    `json:"id,omitempty"`
	Symbol      string    `json:"symbol"`
	EvaluatedAt time.Time `json:"evaluated_at"`

	Indicators     []Indicator `json:"indicators"`
	SentimentScore string      `json:"sentiment_score"`
	SentimentLabel string      `json:"sentiment_label"`
	SentimentColor string      `json:"sentiment_color"`

	CurrentPrice    string `json:"current_price"`
	TrailingAverage string `json:"trailing_average"`
	TrailingMinimum string `json:"trailing_minimum"`
	AverageWindow   int    `json:"average_window"`

	Score          int    `json:"score"`
	Recommendation string `json:"recommendation"`
	Severity       string `json:"severity"`

	Warnings     []string `json:"warnings,omitempty"`
	Chart        *Chart   `json:"chart,omitempty"`
	ChartSkipped bool     `json:"chart_skipped"`

	Evaluation *model.Evaluation `json:"evaluation"`
}

// Chart is the renderable price history.
type Chart struct {
	Dates         []string   `json:"dates"`
	Closes        []float64  `json:"closes"`
	MovingAverage []*float64 `json:"moving_average"`
	Minimum       float64    `json:"minimum"`
}

// Build formats ev for display. The chart is only produced when the trailing
// average is available; series may be nil when no chart is wanted.
func Build(ev *model.Evaluation, series *model.PriceSeries, opts Options) *Report {
	st := ev.Stats
	r := &Report{
		ID:              ev.ID,
		Symbol:          ev.Symbol,
		EvaluatedAt:     ev.EvaluatedAt,
		SentimentScore:  fmt.Sprintf("%.1f", ev.Sentiment.Score),
		SentimentLabel:  string(ev.Sentiment.Label),
		SentimentColor:  ev.Sentiment.Label.Color(),
		CurrentPrice:    Money(opts.Currency, st.CurrentPrice),
		TrailingAverage: Unavailable,
		TrailingMinimum: Money(opts.Currency, st.TrailingMinimum),
		AverageWindow:   st.AverageWindow,
		Score:           ev.Recommendation.Score,
		Recommendation:  ev.Recommendation.Message,
		Severity:        string(ev.Recommendation.Severity),
		Warnings:        ev.Warnings,
		Evaluation:      ev,
	}
	for _, ind := range model.Indicators() {
		r.Indicators = append(r.Indicators, Indicator{
			Key:      ind.Key(),
			Name:     ind.String(),
			Category: ev.Selection.Get(ind).String(),
		})
	}

	if !st.AverageAvailable {
		r.ChartSkipped = true
		return r
	}
	r.TrailingAverage = Money(opts.Currency, st.TrailingAverage)
	if series != nil {
		r.Chart = BuildChart(series, st.AverageWindow, st.TrailingMinimum)
	}
	r.ChartSkipped = r.Chart == nil
	return r
}

// BuildChart returns the chart series, or nil when the window is not filled.
func BuildChart(series *model.PriceSeries, window int, minimum float64) *Chart {
	closes := series.Closes()
	ma := calculator.MovingAverageSeries(closes, window)
	if ma == nil {
		return nil
	}
	dates := make([]string, len(series.Points))
	for i, p := range series.Points {
		dates[i] = p.Time.Format("2006-01-02")
	}
	return &Chart{
		Dates:         dates,
		Closes:        closes,
		MovingAverage: ma,
		Minimum:       minimum,
	}
}

// Money formats v with two decimals and thousands separators.
func Money(currency string, v float64) string {
	return currency + humanize.FormatFloat("#,###.##", v)
}
