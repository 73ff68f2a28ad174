package calculation

import (
	"math"
	"time"

	"github.com/rgehrsitz/goalfund/internal/annuity"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/shopspring/decimal"
)

// MonthsBetween counts whole calendar months from one date to another using the year*12+month
// components, ignoring the day of month.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()*12 + int(to.Month())) - (from.Year()*12 + int(from.Month()))
}

// ComputeProjections solves the complementary unknown of the mode for every profile.
// Profiles whose payment or month count is not achievable are left out of the result.
func (ce *CalculationEngine) ComputeProjections(goal domain.Goal, mode domain.ProjectionMode, all []domain.RiskProfile, today time.Time) domain.ProjectionSet {
	set := make(domain.ProjectionSet, len(all))
	target := goal.FinalPrice.InexactFloat64()

	switch mode.Kind {
	case domain.ModeFixedDate:
		months := MonthsBetween(today, mode.TargetDate)
		if months <= 0 {
			ce.Logger.Debugf("goal %s: target date %s is not in a future month", goal.ID, mode.TargetDate.Format("2006-01"))
			return set
		}
		for _, p := range all {
			payment, err := annuity.PaymentForTarget(target, p.ExpectedAnnualReturn, months)
			if err != nil || !annuity.Achievable(payment) {
				ce.Logger.Debugf("goal %s: profile %s excluded (payment %v)", goal.ID, p.Name, payment)
				continue
			}
			// A far target date can shrink the payment below a cent.
			amount, ok := money(payment)
			if !ok || !amount.IsPositive() {
				ce.Logger.Debugf("goal %s: profile %s excluded (payment %v rounds to %s)", goal.ID, p.Name, payment, amount)
				continue
			}
			set[p.Name] = domain.ProfileProjection{
				Profile:        p.Name,
				MonthlyPayment: amount,
				Months:         months,
			}
		}

	case domain.ModeFixedPayment:
		if !mode.MonthlyAmount.IsPositive() {
			ce.Logger.Debugf("goal %s: monthly amount %s is not positive", goal.ID, mode.MonthlyAmount)
			return set
		}
		payment := mode.MonthlyAmount.InexactFloat64()
		for _, p := range all {
			months, ok := annuity.WholeMonths(annuity.MonthsForPayment(target, p.ExpectedAnnualReturn, payment))
			if !ok {
				ce.Logger.Debugf("goal %s: profile %s never reaches target", goal.ID, p.Name)
				continue
			}
			proj := domain.ProfileProjection{
				Profile:        p.Name,
				MonthlyPayment: mode.MonthlyAmount,
				Months:         months,
			}
			// A higher return reaches the target sooner: the lower month bound comes from the upper rate.
			if lower, ok := annuity.WholeMonths(annuity.MonthsForPayment(target, p.Range.Upper, payment)); ok {
				proj.MonthsLowerBound = &lower
			}
			if upper, ok := annuity.WholeMonths(annuity.MonthsForPayment(target, p.Range.Lower, payment)); ok {
				proj.MonthsUpperBound = &upper
			}
			set[p.Name] = proj
		}
	}

	return set
}

// MaxHorizonMonths caps the fixed-payment chart span. A tiny monthly amount can put the slowest
// profile hundreds of years out, where faster curves overflow.
const MaxHorizonMonths = 1200

// Horizon is the shared x-axis length for the chart: the fixed-date month count, or the
// longest pessimistic duration across profiles in fixed-payment mode, capped at MaxHorizonMonths.
func Horizon(mode domain.ProjectionMode, set domain.ProjectionSet, today time.Time) int {
	if mode.Kind == domain.ModeFixedDate {
		months := MonthsBetween(today, mode.TargetDate)
		if months < 0 || len(set) == 0 {
			return 0
		}
		return months
	}

	horizon := 0
	for _, proj := range set {
		m := proj.PessimisticMonths()
		if m > horizon && m < math.MaxInt32 {
			horizon = m
		}
	}
	return min(horizon, MaxHorizonMonths)
}

// money rounds a solver output to cents. Non-finite values have no decimal form and are rejected.
func money(x float64) (decimal.Decimal, bool) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(x).Round(2), true
}
