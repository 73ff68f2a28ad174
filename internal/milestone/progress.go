package milestone

import (
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/shopspring/decimal"
)

// Progress is a read-only summary of a committed goal for display.
type Progress struct {
	GoalID         string            `json:"goalId"`
	Title          string            `json:"title"`
	TargetAmount   decimal.Decimal   `json:"targetAmount"`
	CurrentAmount  decimal.Decimal   `json:"currentAmount"`
	Remaining      decimal.Decimal   `json:"remaining"`
	Percent        decimal.Decimal   `json:"percent"`
	DisplayPercent float64           `json:"displayPercent"`
	Status         domain.GoalStatus `json:"status"`
	NextMilestone  *domain.Milestone `json:"nextMilestone,omitempty"`
}

// DisplayPercent clamps progress to [0, 100] for progress bars.
func DisplayPercent(goal domain.UserGoal) float64 {
	p := progress(goal.CurrentAmount, goal.TargetAmount).InexactFloat64()
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Remaining is the amount still to fund, never negative.
func Remaining(goal domain.UserGoal) decimal.Decimal {
	r := goal.TargetAmount.Sub(goal.CurrentAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Next returns the lowest milestone not yet achieved.
func Next(goal domain.UserGoal) (domain.Milestone, bool) {
	for _, m := range goal.Milestones {
		if !m.Achieved {
			return m, true
		}
	}
	return domain.Milestone{}, false
}

// Summarize builds the display summary. Percent is the raw value and may exceed 100.
func Summarize(goal domain.UserGoal) Progress {
	p := Progress{
		GoalID:         goal.ID,
		Title:          goal.Goal.Title,
		TargetAmount:   goal.TargetAmount,
		CurrentAmount:  goal.CurrentAmount,
		Remaining:      Remaining(goal),
		Percent:        progress(goal.CurrentAmount, goal.TargetAmount),
		DisplayPercent: DisplayPercent(goal),
		Status:         goal.Status,
	}
	if m, ok := Next(goal); ok {
		p.NextMilestone = &m
	}
	return p
}
