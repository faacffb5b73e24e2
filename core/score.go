package core

import (
	"math"

	"github.com/celerio/scout/core/algo"
	"github.com/celerio/scout/schema"
)

// Neutral values substituted for missing observations.
const (
	neutralScore = 50.0
	neutralRatio = 1.0
)

// aiBuzzwords are the terms counted toward headline jargon density.
var aiBuzzwords = []string{
	"ai", "artificial intelligence", "machine learning", "ml", "deep learning",
	"neural network", "llm", "gpt", "transformer", "generative",
}

// Messaging weights, each the maximum points a component can contribute.
const (
	wJargon      = 40.0
	wPositioning = 40.0
	wStability   = 20.0
)

// Motion weights.
const (
	wTraffic = 0.4
	wHiring  = 0.4
	wRatio   = 0.2
)

// Market weights.
const (
	wSentiment = 0.3
	wProduct   = 0.4
	wActivity  = 0.3
)

// ComputeScores turns a signal bundle into the three vector scores.
// Missing observations fall back to neutral values and never fail.
func ComputeScores(b schema.RawSignalBundle) schema.ScoreTriple {
	return schema.ScoreTriple{
		Messaging: scoreMessaging(b),
		Motion:    scoreMotion(b),
		Market:    scoreMarket(b),
	}
}

// ClassifyStall labels the mean of the triple: below 40 is high,
// below 60 is medium, anything else is low.
func ClassifyStall(t schema.ScoreTriple) schema.StallProbability {
	avg := t.Average()
	switch {
	case avg < 40:
		return schema.StallHigh
	case avg < 60:
		return schema.StallMedium
	default:
		return schema.StallLow
	}
}

// neutralMessaging is returned verbatim when no homepage text is known.
func neutralMessaging() schema.VectorScore {
	return schema.VectorScore{
		Value: neutralScore,
		Submetrics: map[string]float64{
			"h1_volatility":           0,
			"positioning_consistency": 50,
			"jargon_density":          0,
		},
	}
}

func scoreMessaging(b schema.RawSignalBundle) schema.VectorScore {
	if !b.Homepage.HasContent() {
		return neutralMessaging()
	}
	h1, title := b.Homepage.H1Text, b.Homepage.TitleText

	density := algo.TermDensity(h1+" "+title, aiBuzzwords)
	overlap := algo.Jaccard(h1, title)
	var volatility float64
	if b.History != nil {
		volatility = b.History.H1Volatility
	}

	jargon := (1 - math.Min(density*10, 1)) * wJargon
	positioning := overlap * wPositioning
	stability := (1 - math.Min(volatility/3, 1)) * wStability

	sub := map[string]float64{
		"jargon_density":          density,
		"positioning_consistency": overlap * 100,
		"h1_volatility":           volatility,
		"jargon_component":        jargon,
		"positioning_component":   positioning,
		"stability_component":     stability,
	}
	if b.History != nil {
		sub["snapshot_count"] = float64(b.History.SnapshotCount)
	}
	return schema.VectorScore{
		Value:      algo.Clamp(jargon+positioning+stability, 0, 100),
		Submetrics: sub,
	}
}

func hiringScore(status schema.HiringStatus) float64 {
	switch status {
	case schema.HiringActive:
		return 70
	case schema.HiringFrozen:
		return 20
	default:
		return neutralScore
	}
}

func ratioScore(ratio float64) float64 {
	return algo.Piecewise(ratio, neutralScore,
		algo.Band{Match: algo.Within(0.5, 2.0), Score: 70},
		algo.Band{Match: algo.Above(3.0), Score: 30},
	)
}

func scoreMotion(b schema.RawSignalBundle) schema.VectorScore {
	traffic := neutralScore
	if b.Traffic != nil && b.Traffic.Score != nil {
		traffic = *b.Traffic.Score
	}
	status := schema.HiringUnknown
	ratio := neutralRatio
	if b.Hiring != nil {
		if b.Hiring.Status != "" {
			status = b.Hiring.Status
		}
		if b.Hiring.SalesToEngRatio != nil {
			ratio = *b.Hiring.SalesToEngRatio
		}
	}

	hiring := hiringScore(status)
	ratioPts := ratioScore(ratio)

	return schema.VectorScore{
		Value: algo.Clamp(traffic*wTraffic+hiring*wHiring+ratioPts*wRatio, 0, 100),
		Submetrics: map[string]float64{
			"traffic_score":      traffic,
			"hiring_score":       hiring,
			"ratio_score":        ratioPts,
			"sales_to_eng_ratio": ratio,
		},
	}
}

func productSignalScore(stars float64) float64 {
	return algo.Piecewise(stars, neutralScore,
		algo.Band{Match: algo.Above(500), Score: 80},
		algo.Band{Match: algo.Above(100), Score: 60},
		algo.Band{Match: algo.Equal(0), Score: 30},
	)
}

func activityScore(days float64) float64 {
	return algo.Piecewise(days, neutralScore,
		algo.Band{Match: algo.Below(7), Score: 80},
		algo.Band{Match: algo.Below(30), Score: 60},
		algo.Band{Match: algo.Above(90), Score: 20},
	)
}

func scoreMarket(b schema.RawSignalBundle) schema.VectorScore {
	sub := make(map[string]float64)

	sentiment := neutralScore
	if b.Social != nil {
		if b.Social.SentimentScore != nil {
			sentiment = *b.Social.SentimentScore
		}
		if b.Social.Mentions != nil {
			sub["mentions"] = float64(*b.Social.Mentions)
		}
	}

	product, activity := neutralScore, neutralScore
	if e := b.Engineering; e != nil {
		if e.Stars != nil {
			product = productSignalScore(float64(*e.Stars))
			sub["stars"] = float64(*e.Stars)
		}
		if e.LastCommitDays != nil {
			activity = activityScore(float64(*e.LastCommitDays))
			sub["last_commit_days"] = float64(*e.LastCommitDays)
		}
	}

	sub["sentiment_score"] = sentiment
	sub["product_signal_score"] = product
	sub["activity_score"] = activity

	return schema.VectorScore{
		Value:      algo.Clamp(sentiment*wSentiment+product*wProduct+activity*wActivity, 0, 100),
		Submetrics: sub,
	}
}

// roundTriple rounds every vector value to two decimals for presentation.
func roundTriple(t schema.ScoreTriple) schema.ScoreTriple {
	t.Messaging.Value = algo.Round2(t.Messaging.Value)
	t.Motion.Value = algo.Round2(t.Motion.Value)
	t.Market.Value = algo.Round2(t.Market.Value)
	return t
}
