package calculation

import (
	"math"
	"testing"
	"time"

	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleMonths(t *testing.T) {
	tests := []struct {
		name      string
		horizon   int
		wantLen   int
		wantFirst int
		wantLast  int
	}{
		{"single month", 1, 2, 0, 1},
		{"short horizon stride one", 24, 25, 0, 24},
		{"exactly fifty", 50, 51, 0, 50},
		{"stride two", 120, 61, 0, 120},
		{"non multiple of stride", 157, 54, 0, 157},
		{"long horizon", 600, 51, 0, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			months := SampleMonths(tt.horizon, DefaultMaxPoints)
			require.Len(t, months, tt.wantLen)
			assert.Equal(t, tt.wantFirst, months[0])
			assert.Equal(t, tt.wantLast, months[len(months)-1])
			for i := 1; i < len(months); i++ {
				assert.Greater(t, months[i], months[i-1], "samples must be strictly increasing")
			}
		})
	}

	assert.Nil(t, SampleMonths(0, DefaultMaxPoints))
	assert.Nil(t, SampleMonths(-5, DefaultMaxPoints))
}

func TestSampleMonths_FinalPointAlwaysHorizon(t *testing.T) {
	for h := 1; h <= 400; h++ {
		months := SampleMonths(h, DefaultMaxPoints)
		assert.Equal(t, h, months[len(months)-1], "horizon %d", h)
	}
}

func TestTrajectory_HiddenProfilesAndBaseline(t *testing.T) {
	reg := testRegistry(t)
	engine := NewCalculationEngine(reg)
	mode := domain.FixedDate(time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC))
	set := engine.ComputeProjections(testGoal(3680), mode, reg.All(), today)

	points := engine.Trajectory(set, reg.All(), 24, TrajectoryOptions{
		Selected: "capital_preservation",
		Hidden:   map[string]bool{"conservative": true},
	})
	require.Len(t, points, 25)

	first := points[0]
	assert.Equal(t, 0, first.MonthIndex)
	assert.True(t, first.TotalContributed.IsZero())
	for _, v := range first.ProjectedValue {
		assert.True(t, v.IsZero())
	}

	mid := points[12]
	assert.Equal(t, 12, mid.MonthIndex)
	assert.NotContains(t, mid.ProjectedValue, "conservative")
	assert.Contains(t, mid.ProjectedValue, "growth")
	assert.Equal(t, "1771.27", mid.ProjectedValue["growth"].String())
	assert.True(t, mid.TotalContributed.Equal(decimal.RequireFromString("1839.96")), "baseline is month * selected payment")
	assert.True(t, mid.ProjectedValue["capital_preservation"].Equal(mid.TotalContributed), "zero growth equals contributions")
}

func TestTrajectory_EmptyHorizon(t *testing.T) {
	reg := testRegistry(t)
	engine := NewCalculationEngine(reg)
	assert.Nil(t, engine.Trajectory(domain.ProjectionSet{}, reg.All(), 0, TrajectoryOptions{}))
}

func requireFinite(t *testing.T, d decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	f := d.InexactFloat64()
	require.False(t, math.IsInf(f, 0) || math.IsNaN(f), msgAndArgs...)
	require.False(t, d.IsNegative(), msgAndArgs...)
}

func TestPlan_ExtremeInputsStayFinite(t *testing.T) {
	tests := []struct {
		name        string
		mode        domain.ProjectionMode
		wantHorizon int
		wantOnly    string
	}{
		{"tiny monthly amount", domain.FixedPayment(decimal.RequireFromString("0.03")), MaxHorizonMonths, ""},
		{"target date in year 2400", domain.FixedDate(time.Date(2400, 1, 1, 0, 0, 0, 0, time.UTC)), 4488, "capital_preservation"},
		{"target date in year 9999", domain.FixedDate(time.Date(9999, 12, 1, 0, 0, 0, 0, time.UTC)), 95687, "capital_preservation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewCalculationEngine(testRegistry(t))

			var plan *Plan
			require.NotPanics(t, func() {
				var err error
				plan, err = engine.Plan(testGoal(3680), tt.mode, today, TrajectoryOptions{Selected: "capital_preservation"})
				require.NoError(t, err)
			})
			assert.Equal(t, tt.wantHorizon, plan.Horizon)

			for _, proj := range plan.Projections {
				requireFinite(t, proj.MonthlyPayment, proj.Profile)
				assert.True(t, proj.MonthlyPayment.IsPositive(), "%s payment %s", proj.Profile, proj.MonthlyPayment)
			}
			if tt.wantOnly != "" {
				require.Len(t, plan.Projections, 1)
				assert.Equal(t, tt.wantOnly, plan.Projections[0].Profile)
				assert.ElementsMatch(t, []string{"conservative", "balanced", "growth"}, plan.Excluded)
			}

			require.NotEmpty(t, plan.Trajectory)
			assert.Equal(t, plan.Horizon, plan.Trajectory[len(plan.Trajectory)-1].MonthIndex)
			prev := map[string]decimal.Decimal{}
			for _, pt := range plan.Trajectory {
				requireFinite(t, pt.TotalContributed, "contributed at %d", pt.MonthIndex)
				for name, v := range pt.ProjectedValue {
					requireFinite(t, v, "%s at %d", name, pt.MonthIndex)
					if p, ok := prev[name]; ok {
						assert.True(t, v.GreaterThanOrEqual(p), "%s must not fall at %d", name, pt.MonthIndex)
					}
					prev[name] = v
				}
			}
		})
	}
}

func TestTrajectory_HoldsLastFiniteValue(t *testing.T) {
	reg := testRegistry(t)
	engine := NewCalculationEngine(reg)
	set := domain.ProjectionSet{
		"growth": {Profile: "growth", MonthlyPayment: decimal.NewFromInt(100), Months: 200000},
	}

	var points []domain.TrajectoryPoint
	require.NotPanics(t, func() {
		points = engine.Trajectory(set, reg.All(), 200000, TrajectoryOptions{Selected: "growth"})
	})
	last := points[len(points)-1].ProjectedValue["growth"]
	requireFinite(t, last)
	assert.True(t, last.IsPositive())
	assert.True(t, last.Equal(points[len(points)-2].ProjectedValue["growth"]), "overflowed samples repeat the last finite value")
}
