package strategy

import "BuySignal/internal/model"

// scoreCard counts one point for each of: price not above its trailing
// average, fear-dominant sentiment, price close to its trailing low.
// The average signal only counts when the average could be computed.
func scoreCard(s model.Sentiment, stats *model.TrailingStats) model.ScoreCard {
	card := model.ScoreCard{
		NotAboveAverage: stats.AverageAvailable && !stats.AboveAverage,
		FearDominant:    s.FearDominant,
		NearLow:         stats.NearLow,
	}
	for _, ok := range []bool{card.NotAboveAverage, card.FearDominant, card.NearLow} {
		if ok {
			card.Score++
		}
	}
	return card
}
