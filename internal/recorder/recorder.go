package recorder

import (
	"time"

	"BuySignal/internal/model"
)

// Trigger indicates what started an evaluation.
type Trigger string

const (
	TriggerWeb       Trigger = "WEB"
	TriggerAPI       Trigger = "API"
	TriggerCLI       Trigger = "CLI"
	TriggerScheduled Trigger = "SCHEDULED"
	TriggerCommand   Trigger = "COMMAND"
)

// EvaluationRecord is one stored pipeline run.
type EvaluationRecord struct {
	ID              string            `json:"id"`
	Timestamp       time.Time         `json:"timestamp"`
	Trigger         Trigger           `json:"trigger"`
	Symbol          string            `json:"symbol"`
	Selection       map[string]string `json:"selection"`
	SentimentScore  float64           `json:"sentiment_score"`
	SentimentLabel  string            `json:"sentiment_label"`
	CurrentPrice    float64           `json:"current_price"`
	TrailingAverage *float64          `json:"trailing_average"`
	TrailingMinimum float64           `json:"trailing_minimum"`
	Score           int               `json:"score"`
	Recommendation  string            `json:"recommendation"`
}

// FromEvaluation flattens an evaluation into a record.
func FromEvaluation(ev *model.Evaluation, trigger Trigger) *EvaluationRecord {
	rec := &EvaluationRecord{
		ID:              ev.ID,
		Timestamp:       ev.EvaluatedAt,
		Trigger:         trigger,
		Symbol:          ev.Symbol,
		Selection:       ev.Selection.Map(),
		SentimentScore:  ev.Sentiment.Score,
		SentimentLabel:  string(ev.Sentiment.Label),
		CurrentPrice:    ev.Stats.CurrentPrice,
		TrailingMinimum: ev.Stats.TrailingMinimum,
		Score:           ev.Recommendation.Score,
		Recommendation:  ev.Recommendation.Message,
	}
	if ev.Stats.AverageAvailable {
		avg := ev.Stats.TrailingAverage
		rec.TrailingAverage = &avg
	}
	return rec
}

// Recorder persists evaluation history for later analysis.
type Recorder interface {
	RecordEvaluation(rec *EvaluationRecord) error
	Recent(limit int) ([]EvaluationRecord, error)
	Close() error
}
