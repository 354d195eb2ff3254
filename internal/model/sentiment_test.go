package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryAnchors(t *testing.T) {
	want := map[Category]float64{
		ExtremeFear:  10,
		Fear:         25,
		Neutral:      50,
		Greed:        75,
		ExtremeGreed: 90,
	}
	for c, anchor := range want {
		assert.Equal(t, anchor, c.Anchor(), c.String())
	}
	assert.False(t, CategoryUnset.Valid())
	assert.Zero(t, CategoryUnset.Anchor())
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("extreme greed")
	assert.True(t, ok)
	assert.Equal(t, ExtremeGreed, c)

	c, ok = ParseCategory("EXTREME_FEAR")
	assert.True(t, ok)
	assert.Equal(t, ExtremeFear, c)

	_, ok = ParseCategory("")
	assert.False(t, ok)
	_, ok = ParseCategory("panic")
	assert.False(t, ok)
}

func TestIndicatorKeysRoundTrip(t *testing.T) {
	assert.Len(t, Indicators(), 7)
	for _, ind := range Indicators() {
		byKey, ok := ParseIndicator(ind.Key())
		assert.True(t, ok)
		assert.Equal(t, ind, byKey)

		byName, ok := ParseIndicator(ind.String())
		assert.True(t, ok)
		assert.Equal(t, ind, byName)
	}
}

func TestSentimentLabelColor(t *testing.T) {
	assert.Equal(t, "red", LabelFear.Color())
	assert.Equal(t, "green", LabelGreed.Color())
	assert.Equal(t, "orange", LabelNeutral.Color())
}
