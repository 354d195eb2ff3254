package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BuySignal/internal/model"
)

func series(closes ...float64) []model.PricePoint {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		pts[i] = model.PricePoint{Time: start.AddDate(0, 0, i), Close: c}
	}
	return pts
}

func flat(n int, price float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}
	return out
}

func TestAnalyze_Empty(t *testing.T) {
	stats, err := Analyze(nil, model.DefaultThresholds())
	assert.Nil(t, stats)
	assert.ErrorIs(t, err, ErrEmptySeries)
	assert.False(t, IsWarning(err))
}

func TestAnalyze_FlatWindow(t *testing.T) {
	stats, err := Analyze(series(flat(200, 100)...), model.DefaultThresholds())
	require.NoError(t, err)
	assert.True(t, stats.AverageAvailable)
	assert.InDelta(t, 100.0, stats.TrailingAverage, 1e-9)
	assert.Equal(t, 100.0, stats.CurrentPrice)
	assert.False(t, stats.BelowAverage)
	assert.False(t, stats.AboveAverage)
	assert.True(t, stats.NearLow)
}

func TestAnalyze_InsufficientHistory(t *testing.T) {
	closes := flat(50, 100)
	closes[49] = 104
	stats, err := Analyze(series(closes...), model.DefaultThresholds())
	require.Error(t, err)
	assert.True(t, IsWarning(err))
	require.NotNil(t, stats)
	assert.False(t, stats.AverageAvailable)
	assert.Zero(t, stats.TrailingAverage)
	assert.False(t, stats.BelowAverage)
	assert.True(t, stats.NearLow)
	assert.Equal(t, 50, stats.Points)
}

func TestAnalyze_AverageUsesLastWindowOnly(t *testing.T) {
	// 50 old points at 10 followed by 200 at 100: the average ignores the old ones,
	// the minimum does not.
	closes := append(flat(50, 10), flat(200, 100)...)
	stats, err := Analyze(series(closes...), model.DefaultThresholds())
	require.NoError(t, err)
	assert.InDelta(t, 100.0, stats.TrailingAverage, 1e-9)
	assert.Equal(t, 10.0, stats.TrailingMinimum)
	assert.False(t, stats.NearLow)
}

func TestAnalyze_NearLow(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		near    bool
	}{
		{"five percent above low", 105, true},
		{"fifteen percent above low", 115, false},
		{"exactly ten percent above low", 110, false},
		{"at the low", 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := Analyze(series(120, 100, tt.current), model.DefaultThresholds())
			require.True(t, err == nil || IsWarning(err))
			assert.Equal(t, tt.near, stats.NearLow)
		})
	}
}

func TestAnalyze_NonPositiveMinimum(t *testing.T) {
	for _, low := range []float64{0, -5} {
		stats, err := Analyze(series(100, low, 90), model.DefaultThresholds())
		assert.Nil(t, stats)
		assert.ErrorIs(t, err, ErrNonPositiveMinimum)
		assert.False(t, IsWarning(err))
	}
}

func TestCalculateSMA(t *testing.T) {
	avg, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, avg, 1e-9)

	_, err = CalculateSMA([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, ErrInsufficientHistory)

	_, err = CalculateSMA([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestMovingAverageSeries(t *testing.T) {
	ma := MovingAverageSeries([]float64{1, 2, 3, 4, 5}, 3)
	require.Len(t, ma, 5)
	assert.Nil(t, ma[0])
	assert.Nil(t, ma[1])
	require.NotNil(t, ma[2])
	assert.InDelta(t, 2.0, *ma[2], 1e-9)
	assert.InDelta(t, 4.0, *ma[4], 1e-9)

	assert.Nil(t, MovingAverageSeries([]float64{1, 2}, 3))
}
