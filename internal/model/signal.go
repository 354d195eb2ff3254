package model

import "time"

// Severity is the presentation class of a recommendation.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ScoreCard counts the favorable buy signals, 0 to 3.
type ScoreCard struct {
	Score           int  `json:"score"`
	NotAboveAverage bool `json:"not_above_average"`
	FearDominant    bool `json:"fear_dominant"`
	NearLow         bool `json:"near_low"`
}

// Recommendation is one of the four buy-signal tiers.
type Recommendation struct {
	Score    int      `json:"score"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Evaluation is the full output of one pipeline run.
type Evaluation struct {
	ID             string         `json:"id,omitempty"`
	Symbol         string         `json:"symbol"`
	Selection      Selection      `json:"-"`
	Sentiment      Sentiment      `json:"sentiment"`
	Stats          TrailingStats  `json:"stats"`
	ScoreCard      ScoreCard      `json:"score_card"`
	Recommendation Recommendation `json:"recommendation"`
	Warnings       []string       `json:"warnings,omitempty"`
	EvaluatedAt    time.Time      `json:"evaluated_at"`
}
