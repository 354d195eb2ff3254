package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BuySignal/internal/model"
	"BuySignal/internal/strategy"
)

func flatSeries(n int, price float64) *model.PriceSeries {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	pts := make([]model.PricePoint, n)
	for i := range pts {
		pts[i] = model.PricePoint{Time: start.AddDate(0, 0, i), Close: price}
	}
	return &model.PriceSeries{Symbol: "IWDA.AS", Points: pts}
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "€100.00", Money("€", 100))
	assert.Equal(t, "€1,234.57", Money("€", 1234.567))
	assert.Equal(t, "$0.50", Money("$", 0.5))
}

func TestBuild_FullHistory(t *testing.T) {
	series := flatSeries(220, 100)
	ev, err := strategy.Run(model.UniformSelection(model.Neutral), series, model.DefaultThresholds())
	require.NoError(t, err)

	r := Build(ev, series, Options{Currency: "€"})
	assert.Equal(t, "50.0", r.SentimentScore)
	assert.Equal(t, "Neutral", r.SentimentLabel)
	assert.Equal(t, "orange", r.SentimentColor)
	assert.Equal(t, "€100.00", r.CurrentPrice)
	assert.Equal(t, "€100.00", r.TrailingAverage)
	assert.Equal(t, "€100.00", r.TrailingMinimum)
	assert.Len(t, r.Indicators, 7)
	assert.Equal(t, "Neutral", r.Indicators[0].Category)

	require.NotNil(t, r.Chart)
	assert.False(t, r.ChartSkipped)
	assert.Len(t, r.Chart.Dates, 220)
	assert.Equal(t, "2025-03-03", r.Chart.Dates[0])
	assert.Nil(t, r.Chart.MovingAverage[198])
	require.NotNil(t, r.Chart.MovingAverage[199])
	assert.InDelta(t, 100.0, *r.Chart.MovingAverage[199], 1e-9)
	assert.Equal(t, 100.0, r.Chart.Minimum)

	// not above the average and at the low
	assert.Equal(t, 2, r.Score)
	assert.Equal(t, "info", r.Severity)
}

func TestBuild_ShortHistorySkipsChart(t *testing.T) {
	series := flatSeries(50, 100)
	ev, err := strategy.Run(model.UniformSelection(model.ExtremeFear), series, model.DefaultThresholds())
	require.NoError(t, err)

	r := Build(ev, series, Options{Currency: "€"})
	assert.Equal(t, Unavailable, r.TrailingAverage)
	assert.True(t, r.ChartSkipped)
	assert.Nil(t, r.Chart)
	assert.Equal(t, "red", r.SentimentColor)
	assert.NotEmpty(t, r.Warnings)
}
