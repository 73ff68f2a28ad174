package annuity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentForTarget(t *testing.T) {
	tests := []struct {
		name   string
		target float64
		rate   float64
		months int
		want   float64
	}{
		{"moderate 24 months", 3680, 0.075, 24, 142.5985},
		{"zero rate", 1200, 0, 12, 100},
		{"single month", 500, 0.06, 1, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PaymentForTarget(tt.target, tt.rate, tt.months)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestPaymentForTarget_NonPositiveMonths(t *testing.T) {
	for _, months := range []int{0, -3} {
		_, err := PaymentForTarget(1000, 0.05, months)
		assert.ErrorIs(t, err, ErrNonPositiveMonths)
	}
}

func TestPaymentForTarget_DecreasingInRate(t *testing.T) {
	prev := math.Inf(1)
	for _, rate := range []float64{0, 0.01, 0.02, 0.05, 0.075, 0.1, 0.12} {
		p, err := PaymentForTarget(10000, rate, 36)
		require.NoError(t, err)
		assert.Less(t, p, prev, "payment should fall as rate rises (rate %.3f)", rate)
		prev = p
	}
}

func TestMonthsForPayment(t *testing.T) {
	assert.Equal(t, 14.0, MonthsForPayment(2199, 0.09, 150), "regression baseline")
	assert.Equal(t, 4.0, MonthsForPayment(1000, 0, 250))
	assert.Equal(t, 25.0, MonthsForPayment(2450, 0, 100), "partial months round up")
	assert.Equal(t, 0.0, MonthsForPayment(0, 0.05, 100))
}

func TestMonthsNeeded_ZeroRateIsExactQuotient(t *testing.T) {
	assert.Equal(t, 24.5, MonthsNeeded(2450, 0, 100))
	assert.Equal(t, 2199.0/150.0, MonthsNeeded(2199, 0, 150))
	assert.InDelta(t, 13.9608, MonthsNeeded(2199, 0.09, 150), 1e-4)
	assert.True(t, math.IsInf(MonthsNeeded(2199, 0, 0), 1))
}

func TestMonthsForPayment_Unreachable(t *testing.T) {
	assert.True(t, math.IsInf(MonthsForPayment(2199, 0.09, 0), 1))
	assert.True(t, math.IsInf(MonthsForPayment(2199, 0.09, -10), 1))
	// A steep loss rate with a tiny payment never reaches the target.
	assert.True(t, math.IsInf(MonthsForPayment(100000, -0.5, 10), 1))
	assert.False(t, Achievable(MonthsForPayment(2199, 0.09, 0)))
}

func TestRoundTrip(t *testing.T) {
	for _, target := range []float64{500, 3680, 25000, 120000} {
		for _, rate := range []float64{0, 0.02, 0.045, 0.075, 0.12} {
			for _, months := range []int{1, 6, 12, 24, 60, 240} {
				payment, err := PaymentForTarget(target, rate, months)
				require.NoError(t, err)
				got := MonthsForPayment(target, rate, payment)
				assert.Equal(t, float64(months), got, "target=%v rate=%v months=%d", target, rate, months)
			}
		}
	}
}

func TestFutureValue(t *testing.T) {
	assert.Equal(t, 1200.0, FutureValue(0, 12, 100))
	assert.Equal(t, 0.0, FutureValue(0.05, 0, 100))

	payment, err := PaymentForTarget(3680, 0.075, 24)
	require.NoError(t, err)
	assert.InDelta(t, 3680, FutureValue(0.075, 24, payment), 1e-6)
}

func TestCompound(t *testing.T) {
	assert.Equal(t, 1000.0, Compound(1000, 0.06, 0))
	assert.InDelta(t, 1061.68, Compound(1000, 0.06, 12), 0.01)
}

func TestWholeMonths(t *testing.T) {
	n, ok := WholeMonths(14)
	assert.True(t, ok)
	assert.Equal(t, 14, n)

	_, ok = WholeMonths(math.Inf(1))
	assert.False(t, ok)
	_, ok = WholeMonths(math.NaN())
	assert.False(t, ok)
	_, ok = WholeMonths(-1)
	assert.False(t, ok)
}
