package domain

import "math"

// Supplier score weights. The sub-scores are normalized to 0-100 before
// weighting, and missing survey or review data contributes exactly zero.
const (
	weightWinRate       = 0.20
	weightQuoteSpeed    = 0.15
	weightOnTime        = 0.20
	weightQuality       = 0.15
	weightCommunication = 0.10
	weightSatisfaction  = 0.15
	weightOwnerRating   = 0.05
)

// Customer score weights.
const (
	weightConversion      = 0.30
	weightNonCancellation = 0.25
	weightResponseSpeed   = 0.15
	weightSpending        = 0.15
	weightCustomerOwner   = 0.15
)

// CalculateScore derives the supplier's 0-100 composite score from the raw
// counters already stored on the row.
func (m *SupplierMetrics) CalculateScore() float64 {
	speed := speedScore(m.AvgResponseHours, 24)

	quality := 0.0
	communication := 0.0
	satisfaction := 0.0
	if m.FeedbackCount > 0 {
		quality = ratingScore(m.AvgQuality)
		communication = ratingScore(m.AvgCommunication)
		satisfaction = ratingScore(m.AvgSatisfaction)
	}

	owner := 0.0
	if m.OwnerReviewCount > 0 {
		owner = ratingScore(m.OwnerRatingAvg)
	}

	score := m.WinRate*weightWinRate +
		speed*weightQuoteSpeed +
		m.OnTimeDeliveryRate*weightOnTime +
		quality*weightQuality +
		communication*weightCommunication +
		satisfaction*weightSatisfaction +
		owner*weightOwnerRating

	return clampScore(score)
}

// CalculateScore derives the customer's 0-100 composite score.
func (m *CustomerMetrics) CalculateScore() float64 {
	speed := speedScore(m.AvgResponseHours, 48)

	spent, _ := m.TotalSpent.Float64()
	spending := 0.0
	if spent > 0 {
		spending = math.Min(100, math.Log10(spent+1)/5*100)
	}

	owner := 0.0
	if m.OwnerReviewCount > 0 {
		owner = ratingScore(m.OwnerRatingAvg)
	}

	score := m.ConversionRate*weightConversion +
		(100-m.CancellationRate)*weightNonCancellation +
		speed*weightResponseSpeed +
		spending*weightSpending +
		owner*weightCustomerOwner

	return clampScore(score)
}

// speedScore maps an average response time to 0-100: near-instant is 100 and
// anything at or beyond the scale (in hours) is 0. Zero hours means no
// activity at all, which contributes nothing rather than a perfect mark.
func speedScore(avgHours, scaleHours float64) float64 {
	if avgHours <= 0 {
		return 0
	}
	return math.Max(0, 100-avgHours/scaleHours*100)
}

// ratingScore converts a 1-5 survey average to 0-100.
func ratingScore(avg float64) float64 {
	return avg / 5 * 100
}

func clampScore(score float64) float64 {
	return math.Max(0, math.Min(100, score))
}
