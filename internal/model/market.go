package model

import "time"

// PricePoint is a single daily close.
type PricePoint struct {
	Time  time.Time `msgpack:"t" json:"time"`
	Close float64   `msgpack:"c" json:"close"`
}

// PriceSeries holds the daily closes of one instrument, oldest first.
type PriceSeries struct {
	Symbol    string       `msgpack:"symbol" json:"symbol"`
	Points    []PricePoint `msgpack:"points" json:"points"`
	Source    string       `msgpack:"source" json:"source"`
	FetchedAt time.Time    `msgpack:"fetched_at" json:"fetched_at"`
}

// Closes extracts the closing prices in order.
func (s *PriceSeries) Closes() []float64 {
	return ExtractCloses(s.Points)
}

// ExtractCloses returns the closing prices of the given points.
func ExtractCloses(points []PricePoint) []float64 {
	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}
	return closes
}
