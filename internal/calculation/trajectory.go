package calculation

import (
	"github.com/rgehrsitz/goalfund/internal/annuity"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/shopspring/decimal"
)

// TrajectoryOptions controls which curves are emitted.
type TrajectoryOptions struct {
	// Selected drives the straight-line "total contributed" baseline.
	Selected string
	// Hidden profiles are skipped in ProjectedValue.
	Hidden map[string]bool
	// MaxPoints sets the sampling stride as horizon/MaxPoints; zero means DefaultMaxPoints.
	MaxPoints int
}

// SampleMonths returns 0, stride, 2*stride, ... and always ends exactly on horizon.
func SampleMonths(horizon, maxPoints int) []int {
	if horizon <= 0 {
		return nil
	}
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	stride := horizon / maxPoints
	if stride < 1 {
		stride = 1
	}

	months := make([]int, 0, horizon/stride+2)
	for m := 0; m < horizon; m += stride {
		months = append(months, m)
	}
	return append(months, horizon)
}

// Trajectory builds the down-sampled growth curves for every visible profile in the set. No
// emitted value is derived from a non-finite float.
func (ce *CalculationEngine) Trajectory(set domain.ProjectionSet, all []domain.RiskProfile, horizon int, opts TrajectoryOptions) []domain.TrajectoryPoint {
	samples := SampleMonths(horizon, opts.MaxPoints)
	if len(samples) == 0 {
		return nil
	}

	type curve struct {
		name    string
		rate    float64
		payment float64
		last    decimal.Decimal
	}
	curves := make([]curve, 0, len(set))
	for _, p := range all {
		proj, ok := set[p.Name]
		if !ok || opts.Hidden[p.Name] {
			continue
		}
		curves = append(curves, curve{name: p.Name, rate: p.ExpectedAnnualReturn, payment: proj.MonthlyPayment.InexactFloat64()})
	}

	baseline := decimal.Zero
	if sel, ok := set[opts.Selected]; ok {
		baseline = sel.MonthlyPayment
	}

	points := make([]domain.TrajectoryPoint, 0, len(samples))
	for _, month := range samples {
		values := make(domain.ProfileValues, len(curves))
		for i := range curves {
			c := &curves[i]
			// Past overflow a curve holds its last finite value.
			if v, ok := money(annuity.FutureValue(c.rate, month, c.payment)); ok {
				c.last = v
			}
			values[c.name] = c.last
		}
		points = append(points, domain.TrajectoryPoint{
			MonthIndex:       month,
			TotalContributed: baseline.Mul(decimal.NewFromInt(int64(month))).Round(2),
			ProjectedValue:   values,
		})
	}
	return points
}
