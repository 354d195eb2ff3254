package calculator

import (
	"errors"
	"math"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"
)

// CalculateSMA computes the simple moving average of the last `period` prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, ErrInsufficientHistory
	}
	return stat.Mean(prices[len(prices)-period:], nil), nil
}

// MovingAverageSeries returns the rolling SMA aligned with prices. Positions
// without a full window are nil. Returns nil if no position has a full window.
func MovingAverageSeries(prices []float64, period int) []*float64 {
	if period <= 0 || len(prices) < period {
		return nil
	}
	sma := talib.Sma(prices, period)
	out := make([]*float64, len(prices))
	for i := period - 1; i < len(sma) && i < len(prices); i++ {
		if math.IsNaN(sma[i]) {
			continue
		}
		v := sma[i]
		out[i] = &v
	}
	return out
}
