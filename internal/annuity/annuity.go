// Package annuity converts between target amount, monthly payment, month count and rate
// using future-value-of-annuity algebra. All functions are pure.
package annuity

import (
	"errors"
	"math"
)

// ErrNonPositiveMonths is returned when a payment is requested over zero or fewer months.
var ErrNonPositiveMonths = errors.New("annuity: months must be positive")

// ceilingTolerance absorbs floating-point noise so that 23.9999999999 and 24.0000000001 both land on 24.
const ceilingTolerance = 1e-9

// MonthlyRate converts an annual fractional rate to the equivalent nominal monthly rate.
func MonthlyRate(annualRate float64) float64 {
	return annualRate / 12
}

// PaymentForTarget returns the monthly payment that grows to targetAmount after months contributions.
func PaymentForTarget(targetAmount, annualRate float64, months int) (float64, error) {
	if months <= 0 {
		return 0, ErrNonPositiveMonths
	}
	r := MonthlyRate(annualRate)
	if r == 0 {
		return targetAmount / float64(months), nil
	}
	return targetAmount * r / (math.Pow(1+r, float64(months)) - 1), nil
}

// MonthsNeeded returns the exact, possibly fractional, number of monthly payments needed to reach
// targetAmount; at a zero rate it is targetAmount / payment. The result is +Inf when the target can
// never be reached (payment <= 0, or a negative rate that outpaces contributions).
func MonthsNeeded(targetAmount, annualRate, payment float64) float64 {
	if payment <= 0 {
		return math.Inf(1)
	}
	if targetAmount <= 0 {
		return 0
	}
	r := MonthlyRate(annualRate)
	if r == 0 {
		return targetAmount / payment
	}
	arg := targetAmount*r/payment + 1
	if arg <= 0 || r <= -1 {
		return math.Inf(1)
	}
	n := math.Log(arg) / math.Log(1+r)
	if math.IsNaN(n) || n < 0 {
		return math.Inf(1)
	}
	return n
}

// MonthsForPayment rounds MonthsNeeded up to whole contributions. Unreachable targets stay +Inf.
func MonthsForPayment(targetAmount, annualRate, payment float64) float64 {
	return ceil(MonthsNeeded(targetAmount, annualRate, payment))
}

// FutureValue returns the value of months equal payments compounding monthly.
func FutureValue(annualRate float64, months int, payment float64) float64 {
	if months <= 0 {
		return 0
	}
	r := MonthlyRate(annualRate)
	if r == 0 {
		return payment * float64(months)
	}
	return payment * (math.Pow(1+r, float64(months)) - 1) / r
}

// Compound grows a lump sum for the given number of months.
func Compound(balance, annualRate float64, months int) float64 {
	if months <= 0 {
		return balance
	}
	return balance * math.Pow(1+MonthlyRate(annualRate), float64(months))
}

// Achievable reports whether a solver output may be shown: finite and not negative.
func Achievable(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x >= 0
}

// WholeMonths converts a solver output to an int month count.
func WholeMonths(x float64) (int, bool) {
	if !Achievable(x) || x > math.MaxInt32 {
		return 0, false
	}
	return int(x), true
}

func ceil(x float64) float64 {
	return math.Ceil(x - ceilingTolerance)
}
