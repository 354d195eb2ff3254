package calculator

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

// ErrNonPositiveMinimum is returned when the trailing low is zero or negative,
// which leaves the distance from the low undefined.
var ErrNonPositiveMinimum = errors.New("trailing minimum is not positive")

// TrailingMinimum returns the lowest price of the whole window.
func TrailingMinimum(prices []float64) (float64, error) {
	if len(prices) == 0 {
		return 0, ErrEmptySeries
	}
	return floats.Min(prices), nil
}

// DistanceFromLow returns how far current sits above low, as a fraction of low.
func DistanceFromLow(current, low float64) (float64, error) {
	if low <= 0 {
		return 0, ErrNonPositiveMinimum
	}
	return (current - low) / low, nil
}
