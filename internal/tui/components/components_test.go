package components

import (
	"testing"
	"time"

	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoints() []domain.TrajectoryPoint {
	return []domain.TrajectoryPoint{
		{MonthIndex: 0, TotalContributed: decimal.Zero, ProjectedValue: domain.ProfileValues{"growth": decimal.Zero, "conservative": decimal.Zero}},
		{MonthIndex: 12, TotalContributed: decimal.NewFromInt(1711), ProjectedValue: domain.ProfileValues{"growth": decimal.NewFromInt(1770), "conservative": decimal.NewFromInt(1740)}},
		{MonthIndex: 24, TotalContributed: decimal.NewFromInt(3422), ProjectedValue: domain.ProfileValues{"growth": decimal.NewFromInt(3680), "conservative": decimal.NewFromInt(3540)}},
	}
}

func TestFromTrajectory(t *testing.T) {
	order := []string{"conservative", "balanced", "growth"}
	chart := FromTrajectory("Growth", samplePoints(), order, map[string]string{"growth": "Growth"})

	// balanced is absent from the points and gets no series; the baseline is appended last.
	require.Len(t, chart.Series, 3)
	assert.Equal(t, "conservative", chart.Series[0].Name)
	assert.Equal(t, "Growth", chart.Series[1].Name)
	assert.Equal(t, "Contributed", chart.Series[2].Name)
	assert.Equal(t, []float64{0, 1770, 3680}, chart.Series[1].Points)
	assert.Equal(t, []string{"m0", "m12", "m24"}, chart.Labels)
}

func TestASCIIChart_Render(t *testing.T) {
	chart := FromTrajectory("Projected growth", samplePoints(), []string{"growth"}, nil).
		WithTarget(3680).
		WithSize(70, 10)
	out := chart.Render()

	assert.Contains(t, out, "Projected growth")
	assert.Contains(t, out, "Legend:")
	assert.Contains(t, out, "┄ goal")
	assert.Contains(t, out, "m24")
	assert.Contains(t, out, "months from today")
}

func TestASCIIChart_Empty(t *testing.T) {
	assert.Contains(t, NewASCIIChart("x").Render(), "No data to display")
	assert.Empty(t, FromTrajectory("x", nil, []string{"growth"}, nil).Series)
}

func TestFormatChartValue(t *testing.T) {
	assert.Equal(t, "$950", formatChartValue(950))
	assert.Equal(t, "$3.7K", formatChartValue(3680))
	assert.Equal(t, "$25K", formatChartValue(25000))
	assert.Equal(t, "$1.2M", formatChartValue(1200000))
}

func committedGoal(current int64) domain.UserGoal {
	g := domain.UserGoal{
		ID:            "g1",
		Goal:          domain.Goal{ID: "e-bike", Title: "E-Bike"},
		TargetAmount:  decimal.NewFromInt(3680),
		CurrentAmount: decimal.NewFromInt(current),
	}
	for i, pct := range domain.MilestonePercents {
		g.Milestones[i] = domain.Milestone{
			TargetPercent: pct,
			TargetAmount:  g.TargetAmount.Mul(decimal.NewFromInt(int64(pct))).Div(decimal.NewFromInt(100)),
		}
	}
	return g
}

func TestFundingBar(t *testing.T) {
	bar := NewFundingBar(committedGoal(1840))
	assert.InDelta(t, 50, bar.Percent, 1e-9)
	assert.False(t, bar.IsComplete())
	assert.Contains(t, bar.WithLabel("E-Bike").Render(), "50.0%")

	over := NewFundingBar(committedGoal(5000))
	assert.InDelta(t, 100, over.Percent, 1e-9)
	assert.True(t, over.IsComplete())

	negative := NewFundingBar(committedGoal(-10))
	assert.Zero(t, negative.Percent)
}

func TestMilestoneLadder(t *testing.T) {
	g := committedGoal(1000)
	at := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	g.Milestones[0].Achieved = true
	g.Milestones[0].AchievedDate = &at

	out := NewMilestoneLadder(g).Render()
	assert.Contains(t, out, "Milestones")
	assert.Contains(t, out, "reached 2026-02-01")
	assert.Contains(t, out, "$368.00")
	assert.Contains(t, out, "100%")
}

func TestParameterSlider(t *testing.T) {
	s := NewMonthlySlider(150, 400)
	s.Increment(1)
	assert.Equal(t, 155.0, s.Value)
	s.Decrement(10)
	assert.Equal(t, 105.0, s.Value)
	s.Increment(1000)
	assert.Equal(t, 400.0, s.Value)
	s.Decrement(1000)
	assert.Equal(t, 0.0, s.Value)
	s.SetValue(142.6)
	assert.True(t, s.Decimal().Equal(decimal.RequireFromString("142.6")))
	assert.Contains(t, s.Render(), "$143")

	m := NewMonthsSlider(24, 240)
	m.Decrement(100)
	assert.Equal(t, 1, m.Int())
	assert.InDelta(t, 0, m.Percentage(), 1e-9)
	assert.Contains(t, m.SetFocused(true).Render(), "← → to adjust")
	assert.Contains(t, m.RenderCompact(), "1 months")
}

func TestNewProfileCard(t *testing.T) {
	growth := domain.RiskProfile{Name: "growth", Label: "Growth", ExpectedAnnualReturn: 0.075}
	lower, upper := 25, 27

	fixedDate := NewProfileCard(growth, domain.ProfileProjection{Profile: "growth", MonthlyPayment: decimal.RequireFromString("142.6"), Months: 24}, domain.ModeFixedDate)
	assert.Equal(t, "Growth", fixedDate.Label)
	assert.Equal(t, "$142.60/mo", fixedDate.Value)
	assert.Equal(t, "2y at 7.50%", fixedDate.Description)

	fixedPayment := NewProfileCard(growth, domain.ProfileProjection{Profile: "growth", Months: 26, MonthsLowerBound: &lower, MonthsUpperBound: &upper}, domain.ModeFixedPayment)
	assert.Equal(t, "2y 2m", fixedPayment.Value)
	assert.Contains(t, fixedPayment.Description, "25-27 mo")

	assert.Contains(t, fixedDate.SetDimmed(true).Render(), "(hidden)")
}

func TestMetricGrid(t *testing.T) {
	assert.Empty(t, MetricGrid(nil, 3))
	out := MetricGrid([]*MetricCard{NewMetricCard("Saved", "$10.00"), NewMetricCard("Left", "$5.00")}, 0)
	assert.Contains(t, out, "Saved")
	assert.Contains(t, out, "Left")
}

func TestGoalCards(t *testing.T) {
	goal := domain.Goal{ID: "e-bike", Title: "E-Bike", Category: "transport", FinalPrice: decimal.NewFromInt(3680), RecommendedStrategy: "growth", EstimatedMonths: 24}
	card := NewGoalCard(goal)
	assert.Equal(t, []string{"Price $3680.00", "Recommended: growth", "Typically 24 months"}, card.Highlights)
	assert.Contains(t, card.Render(), "E-Bike")

	list := GoalListCompact([]*GoalCard{card, NewGoalCard(domain.Goal{ID: "laptop", Title: "Laptop"})}, 1)
	assert.Contains(t, list, "  E-Bike")
	assert.Contains(t, list, "▸ Laptop")
	assert.Contains(t, GoalListCompact(nil, 0), "No goals")
}

func TestSpinner(t *testing.T) {
	s := NewSpinner().WithMessage("Refining")
	first := s.Render()
	s.Next()
	assert.NotEqual(t, first, s.Render())
	assert.Contains(t, first, "Refining")
}
