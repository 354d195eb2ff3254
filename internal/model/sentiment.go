package model

import (
	"fmt"
	"strings"
)

// Indicator identifies one of the seven market sentiment proxies.
type Indicator int

const (
	Momentum Indicator = iota
	StockPriceStrength
	StockPriceBreadth
	PutCallRatio
	MarketVolatility
	SafeHavenDemand
	JunkBondDemand

	IndicatorCount
)

var indicatorNames = [IndicatorCount]struct {
	name string
	key  string
}{
	{"Momentum", "momentum"},
	{"Stock Price Strength", "stock_price_strength"},
	{"Stock Price Breadth", "stock_price_breadth"},
	{"Put/Call Ratio", "put_call_ratio"},
	{"Market Volatility", "market_volatility"},
	{"Safe Haven Demand", "safe_haven_demand"},
	{"Junk Bond Demand", "junk_bond_demand"},
}

// Indicators lists all indicators in display order.
func Indicators() []Indicator {
	out := make([]Indicator, IndicatorCount)
	for i := range out {
		out[i] = Indicator(i)
	}
	return out
}

func (i Indicator) Valid() bool { return i >= 0 && i < IndicatorCount }

func (i Indicator) String() string {
	if !i.Valid() {
		return fmt.Sprintf("Indicator(%d)", int(i))
	}
	return indicatorNames[i].name
}

// Key is the stable identifier used in form fields, flags and storage.
func (i Indicator) Key() string {
	if !i.Valid() {
		return ""
	}
	return indicatorNames[i].key
}

// ParseIndicator accepts either the display name or the key.
func ParseIndicator(s string) (Indicator, bool) {
	s = strings.TrimSpace(s)
	for i, n := range indicatorNames {
		if strings.EqualFold(s, n.name) || strings.EqualFold(s, n.key) {
			return Indicator(i), true
		}
	}
	return 0, false
}

// Category is the qualitative reading assigned to an indicator.
// The zero value means no reading was given.
type Category int

const (
	CategoryUnset Category = iota
	ExtremeFear
	Fear
	Neutral
	Greed
	ExtremeGreed

	categoryEnd
)

var categoryTable = [categoryEnd]struct {
	label  string
	key    string
	anchor float64
}{
	{"", "", 0},
	{"Extreme Fear", "extreme_fear", 10},
	{"Fear", "fear", 25},
	{"Neutral", "neutral", 50},
	{"Greed", "greed", 75},
	{"Extreme Greed", "extreme_greed", 90},
}

// Categories lists the selectable categories from most fearful to most greedy.
func Categories() []Category {
	return []Category{ExtremeFear, Fear, Neutral, Greed, ExtremeGreed}
}

func (c Category) Valid() bool { return c > CategoryUnset && c < categoryEnd }

func (c Category) String() string {
	if !c.Valid() {
		return ""
	}
	return categoryTable[c].label
}

func (c Category) Key() string {
	if !c.Valid() {
		return ""
	}
	return categoryTable[c].key
}

// Anchor returns the fixed numeric value of the category on the 0-100 scale.
func (c Category) Anchor() float64 {
	if !c.Valid() {
		return 0
	}
	return categoryTable[c].anchor
}

// ParseCategory accepts the label ("Extreme Fear") or the key ("extreme_fear"), case-insensitive.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryUnset, false
	}
	for c := ExtremeFear; c < categoryEnd; c++ {
		if strings.EqualFold(s, categoryTable[c].label) || strings.EqualFold(s, categoryTable[c].key) {
			return c, true
		}
	}
	return CategoryUnset, false
}

// Selection holds one category per indicator.
type Selection [IndicatorCount]Category

// UniformSelection assigns the same category to every indicator.
func UniformSelection(c Category) Selection {
	var s Selection
	for i := range s {
		s[i] = c
	}
	return s
}

// Get returns the category for an indicator.
func (s Selection) Get(i Indicator) Category {
	if !i.Valid() {
		return CategoryUnset
	}
	return s[i]
}

// Map renders the selection keyed by indicator key, skipping unset entries.
func (s Selection) Map() map[string]string {
	m := make(map[string]string, IndicatorCount)
	for i, c := range s {
		if c.Valid() {
			m[Indicator(i).Key()] = c.String()
		}
	}
	return m
}

// SentimentLabel is the qualitative reading of the composite score.
type SentimentLabel string

const (
	LabelFear    SentimentLabel = "Fear"
	LabelGreed   SentimentLabel = "Greed"
	LabelNeutral SentimentLabel = "Neutral"
)

// Color returns the display color class.
func (l SentimentLabel) Color() string {
	switch l {
	case LabelFear:
		return "red"
	case LabelGreed:
		return "green"
	default:
		return "orange"
	}
}

// Sentiment is the scored questionnaire.
type Sentiment struct {
	Score        float64        `json:"score"`
	Label        SentimentLabel `json:"label"`
	FearDominant bool           `json:"fear_dominant"`
}
