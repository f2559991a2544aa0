package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSupplierScoreFullMarks(t *testing.T) {
	m := SupplierMetrics{
		WinRate:            100,
		AvgResponseHours:   0.0001,
		OnTimeDeliveryRate: 100,
		FeedbackCount:      3,
		AvgQuality:         5,
		AvgCommunication:   5,
		AvgSatisfaction:    5,
		OwnerReviewCount:   1,
		OwnerRatingAvg:     5,
	}
	require.InDelta(t, 100, m.CalculateScore(), 0.001)
}

func TestScoreZeroHoursMeansNoSpeedCredit(t *testing.T) {
	// An entity that never responded has zero average hours; that is absence
	// of history, not an instant response.
	supplier := SupplierMetrics{
		WinRate:            100,
		AvgResponseHours:   0,
		OnTimeDeliveryRate: 100,
	}
	// 100*0.20 + 0*0.15 + 100*0.20 = 40
	require.InDelta(t, 40, supplier.CalculateScore(), 0.001)

	customer := CustomerMetrics{ConversionRate: 0, CancellationRate: 100}
	require.InDelta(t, 0, customer.CalculateScore(), 0.001)
}

func TestSupplierScoreNoSurveyData(t *testing.T) {
	// Quality, communication, satisfaction and owner rating all weigh zero
	// when nothing has been filed, they are not treated as perfect.
	m := SupplierMetrics{
		WinRate:            50,
		AvgResponseHours:   12,
		OnTimeDeliveryRate: 100,
	}
	// 50*0.20 + 50*0.15 + 100*0.20 = 37.5
	require.InDelta(t, 37.5, m.CalculateScore(), 0.001)
}

func TestSupplierScoreSlowResponderFloorsSpeed(t *testing.T) {
	fast := SupplierMetrics{WinRate: 100, AvgResponseHours: 1}
	slow := SupplierMetrics{WinRate: 100, AvgResponseHours: 240}

	require.Greater(t, fast.CalculateScore(), slow.CalculateScore())
	// Beyond the 24h scale the speed component bottoms out at zero rather
	// than going negative.
	require.InDelta(t, 20, slow.CalculateScore(), 0.001)
}

func TestCustomerScoreSpendingIsLogScaled(t *testing.T) {
	small := CustomerMetrics{TotalSpent: decimal.RequireFromString("99.00")}
	big := CustomerMetrics{TotalSpent: decimal.RequireFromString("99999.00")}
	huge := CustomerMetrics{TotalSpent: decimal.RequireFromString("10000000000.00")}

	require.Greater(t, big.CalculateScore(), small.CalculateScore())
	// log10(1e10) = 10 would give 200% before the cap, so the spending
	// component tops out and big and huge land on the same score.
	require.InDelta(t, big.CalculateScore(), huge.CalculateScore(), 0.001)
}

func TestCustomerScoreCancellationsHurt(t *testing.T) {
	clean := CustomerMetrics{ConversionRate: 80, CancellationRate: 0}
	flaky := CustomerMetrics{ConversionRate: 80, CancellationRate: 60}

	require.Greater(t, clean.CalculateScore(), flaky.CalculateScore())
}

func TestScoreClampedToRange(t *testing.T) {
	m := CustomerMetrics{ConversionRate: 100, CancellationRate: 100}
	score := m.CalculateScore()
	require.GreaterOrEqual(t, score, 0.0)
	require.LessOrEqual(t, score, 100.0)
}
