package calculator

import (
	"errors"
	"fmt"

	"BuySignal/internal/model"
)

var (
	// ErrEmptySeries is returned when there are no prices to analyze.
	ErrEmptySeries = errors.New("price series is empty")
	// ErrInsufficientHistory marks a series shorter than the average window.
	// It is a warning: Analyze still returns usable stats.
	ErrInsufficientHistory = errors.New("insufficient history for trailing average")
)

// IsWarning reports whether err only degrades the result rather than invalidating it.
func IsWarning(err error) bool {
	return errors.Is(err, ErrInsufficientHistory)
}

// Analyze derives the trailing statistics of an ascending price series.
//
// When the series is shorter than th.AverageWindow, the average is marked
// unavailable and the stats are returned together with an error wrapping
// ErrInsufficientHistory. Any other error means the stats are nil.
func Analyze(points []model.PricePoint, th model.Thresholds) (*model.TrailingStats, error) {
	if len(points) == 0 {
		return nil, ErrEmptySeries
	}
	closes := model.ExtractCloses(points)

	stats := &model.TrailingStats{
		Points:        len(closes),
		CurrentPrice:  closes[len(closes)-1],
		AverageWindow: th.AverageWindow,
	}

	low, err := TrailingMinimum(closes)
	if err != nil {
		return nil, err
	}
	stats.TrailingMinimum = low

	dist, err := DistanceFromLow(stats.CurrentPrice, low)
	if err != nil {
		return nil, fmt.Errorf("low %.4f: %w", low, err)
	}
	stats.DistanceFromLow = dist
	stats.NearLow = dist < th.NearLowRatio

	var warning error
	avg, err := CalculateSMA(closes, th.AverageWindow)
	switch {
	case errors.Is(err, ErrInsufficientHistory):
		warning = fmt.Errorf("%w: %d of %d points", ErrInsufficientHistory, len(closes), th.AverageWindow)
	case err != nil:
		return nil, fmt.Errorf("trailing average: %w", err)
	default:
		stats.TrailingAverage = avg
		stats.AverageAvailable = true
		stats.BelowAverage = stats.CurrentPrice < avg
		stats.AboveAverage = stats.CurrentPrice > avg
	}

	return stats, warning
}
