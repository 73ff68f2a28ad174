package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalStatus is the funding state of a committed goal.
type GoalStatus string

const (
	StatusFunding   GoalStatus = "funding"
	StatusCompleted GoalStatus = "completed"
)

// MilestonePercents is the fixed ladder of completion thresholds.
var MilestonePercents = [5]int{10, 25, 50, 75, 100}

// Milestone is a funding threshold with a permanent achievement flag.
type Milestone struct {
	TargetPercent int             `json:"targetPercent"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	Achieved      bool            `json:"achieved"`
	AchievedDate  *time.Time      `json:"achievedDate,omitempty"`
}

// UserGoal is a committed investment plan. The persistence collaborator owns it; the core only
// computes its transitions.
type UserGoal struct {
	ID                  string          `json:"id"`
	Goal                Goal            `json:"goal"`
	Profile             string          `json:"profile"`
	TargetAmount        decimal.Decimal `json:"targetAmount"`
	MonthlyContribution decimal.Decimal `json:"monthlyContribution"`
	TargetDate          time.Time       `json:"targetDate"`
	CurrentAmount       decimal.Decimal `json:"currentAmount"`
	ProgressPercent     decimal.Decimal `json:"progressPercent"`
	Milestones          [5]Milestone    `json:"milestones"`
	Status              GoalStatus      `json:"status"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`

	// AppliedEvents holds the ids of deposit events already folded into CurrentAmount.
	AppliedEvents []string `json:"appliedEvents,omitempty"`
}

// HasApplied reports whether the deposit event id was already folded in.
func (g *UserGoal) HasApplied(eventID string) bool {
	for _, id := range g.AppliedEvents {
		if id == eventID {
			return true
		}
	}
	return false
}

// DepositEvent is an external contribution (positive) or withdrawal (negative).
type DepositEvent struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	At     time.Time       `json:"at"`
}
