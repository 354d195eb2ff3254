package advisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BuySignal/internal/calculator"
	"BuySignal/internal/collector"
	"BuySignal/internal/model"
	"BuySignal/internal/recorder"
	"BuySignal/internal/report"
	"BuySignal/internal/sentiment"
)

type memRecorder struct {
	records []*recorder.EvaluationRecord
	err     error
}

func (m *memRecorder) RecordEvaluation(rec *recorder.EvaluationRecord) error {
	m.records = append(m.records, rec)
	return m.err
}
func (m *memRecorder) Recent(int) ([]recorder.EvaluationRecord, error) { return nil, nil }
func (m *memRecorder) Close() error                                    { return nil }

func newAdvisor(f collector.Fetcher, rec recorder.Recorder) *Advisor {
	col := collector.NewCollector(f, "IWDA.AS", "1y", zerolog.Nop())
	a := New(col, rec, model.DefaultThresholds(), report.Options{Currency: "€"}, zerolog.Nop())
	a.now = func() time.Time { return time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC) }
	return a
}

func TestEvaluate_RecordsAndReports(t *testing.T) {
	rec := &memRecorder{}
	a := newAdvisor(&collector.MockFetcher{Price: 100, Days: 260}, rec)

	r, err := a.Evaluate(context.Background(), model.UniformSelection(model.Neutral), recorder.TriggerWeb)
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "IWDA.AS", r.Symbol)
	assert.Equal(t, "50.0", r.SentimentScore)
	assert.NotNil(t, r.Chart)

	require.Len(t, rec.records, 1)
	assert.Equal(t, r.ID, rec.records[0].ID)
	assert.Equal(t, recorder.TriggerWeb, rec.records[0].Trigger)
	assert.True(t, rec.records[0].Timestamp.Equal(time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC)))
}

func TestPreview_DoesNotRecord(t *testing.T) {
	rec := &memRecorder{}
	a := newAdvisor(&collector.MockFetcher{Price: 100, Days: 260}, rec)

	r, err := a.Preview(context.Background(), model.UniformSelection(model.Fear))
	require.NoError(t, err)

	assert.Equal(t, "25.0", r.SentimentScore)
	assert.Empty(t, r.ID)
	assert.Empty(t, rec.records)
}

func TestEvaluate_RecorderFailureIsNotFatal(t *testing.T) {
	rec := &memRecorder{err: errors.New("disk full")}
	a := newAdvisor(&collector.MockFetcher{Price: 100, Days: 260}, rec)

	_, err := a.Evaluate(context.Background(), model.UniformSelection(model.Neutral), recorder.TriggerCLI)
	assert.NoError(t, err)
}

func TestEvaluate_FatalErrors(t *testing.T) {
	a := newAdvisor(&collector.MockFetcher{Points: []model.PricePoint{}}, nil)
	_, err := a.Evaluate(context.Background(), model.UniformSelection(model.Neutral), recorder.TriggerWeb)
	assert.ErrorIs(t, err, calculator.ErrEmptySeries)

	a = newAdvisor(&collector.MockFetcher{Price: 100}, nil)
	_, err = a.Evaluate(context.Background(), model.Selection{}, recorder.TriggerWeb)
	assert.ErrorIs(t, err, sentiment.ErrMissingIndicator)
}
