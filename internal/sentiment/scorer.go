package sentiment

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"

	"BuySignal/internal/model"
)

var (
	// ErrMissingIndicator is returned when an indicator has no category.
	ErrMissingIndicator = errors.New("missing indicator selection")
	// ErrUnknownCategory is returned when a value is not one of the five categories.
	ErrUnknownCategory = errors.New("unknown sentiment category")
	// ErrUnknownIndicator is returned for a key that names no indicator.
	ErrUnknownIndicator = errors.New("unknown indicator")
	// ErrDuplicateIndicator is returned when two keys name the same indicator.
	ErrDuplicateIndicator = errors.New("indicator given more than once")
)

// Score computes the composite fear & greed score of a complete selection.
// All indicators carry equal weight.
func Score(sel model.Selection, th model.Thresholds) (model.Sentiment, error) {
	anchors := make([]float64, 0, model.IndicatorCount)
	for _, ind := range model.Indicators() {
		c := sel.Get(ind)
		if !c.Valid() {
			return model.Sentiment{}, fmt.Errorf("%w: %s", ErrMissingIndicator, ind)
		}
		anchors = append(anchors, c.Anchor())
	}

	score := stat.Mean(anchors, nil)
	return model.Sentiment{
		Score:        score,
		Label:        Label(score, th),
		FearDominant: score < th.FearBelow,
	}, nil
}

// Label maps a composite score to its label. Both band edges are exclusive,
// so a score equal to either threshold reads Neutral.
func Label(score float64, th model.Thresholds) model.SentimentLabel {
	switch {
	case score < th.FearBelow:
		return model.LabelFear
	case score > th.GreedAbove:
		return model.LabelGreed
	default:
		return model.LabelNeutral
	}
}

// ParseSelection builds a selection from indicator-keyed values, as submitted
// by the form, the CLI or the JSON API. Keys may be indicator keys or display
// names, but each indicator may appear only once. Empty values count as unset.
func ParseSelection(values map[string]string) (model.Selection, error) {
	var sel model.Selection
	seen := make(map[model.Indicator]string, len(values))
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		ind, ok := model.ParseIndicator(k)
		if !ok {
			return sel, fmt.Errorf("%w: %q", ErrUnknownIndicator, k)
		}
		if prev, dup := seen[ind]; dup {
			return sel, fmt.Errorf("%w: %s (%q and %q)", ErrDuplicateIndicator, ind, prev, k)
		}
		seen[ind] = k

		v := values[k]
		if v == "" {
			continue
		}
		c, ok := model.ParseCategory(v)
		if !ok {
			return sel, fmt.Errorf("%w: %q for %s", ErrUnknownCategory, v, ind)
		}
		sel[ind] = c
	}
	for _, ind := range model.Indicators() {
		if !sel[ind].Valid() {
			return sel, fmt.Errorf("%w: %s", ErrMissingIndicator, ind)
		}
	}
	return sel, nil
}
