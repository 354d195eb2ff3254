package strategy

import "BuySignal/internal/model"

// Tiers maps a score card total to its recommendation, highest first.
var Tiers = []model.Recommendation{
	{Score: 3, Message: "Strong buy signal: fearful sentiment, price near low, and below long-term average.", Severity: model.SeveritySuccess},
	{Score: 2, Message: "Potential buying opportunity: not all signals favorable.", Severity: model.SeverityInfo},
	{Score: 1, Message: "Market not overvalued, but no strong signal.", Severity: model.SeverityWarning},
}

// DefaultTier applies when no signal is favorable.
var DefaultTier = model.Recommendation{Score: 0, Message: "Few buying arguments currently.", Severity: model.SeverityError}

// mapTier maps a score card total to a Recommendation.
func mapTier(score int) model.Recommendation {
	for _, t := range Tiers {
		if score >= t.Score {
			return t
		}
	}
	return DefaultTier
}

// Evaluate combines the sentiment and price signals into a score card and tier.
func Evaluate(s model.Sentiment, stats *model.TrailingStats) (model.ScoreCard, model.Recommendation) {
	card := scoreCard(s, stats)
	return card, mapTier(card.Score)
}
