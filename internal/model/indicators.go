package model

// TrailingStats holds the statistics derived from a price series.
type TrailingStats struct {
	Points       int     `json:"points"`
	CurrentPrice float64 `json:"current_price"`

	// TrailingAverage is only meaningful when AverageAvailable is true.
	TrailingAverage  float64 `json:"trailing_average"`
	AverageAvailable bool    `json:"average_available"`
	AverageWindow    int     `json:"average_window"`

	TrailingMinimum float64 `json:"trailing_minimum"`

	BelowAverage    bool    `json:"below_average"`
	AboveAverage    bool    `json:"above_average"`
	DistanceFromLow float64 `json:"distance_from_low"` // fraction above the minimum
	NearLow         bool    `json:"near_low"`
}

// Thresholds are the fixed decision constants of the signal.
type Thresholds struct {
	FearBelow     float64 `yaml:"fear_below" json:"fear_below"`
	GreedAbove    float64 `yaml:"greed_above" json:"greed_above"`
	NearLowRatio  float64 `yaml:"near_low_ratio" json:"near_low_ratio"`
	AverageWindow int     `yaml:"average_window" json:"average_window"`
}

// DefaultThresholds returns the standard 30/70 sentiment bands, 10% low proximity and 200-day average.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FearBelow:     30,
		GreedAbove:    70,
		NearLowRatio:  0.10,
		AverageWindow: 200,
	}
}
