// Package milestone folds deposits into committed goals and evaluates the fixed milestone ladder.
package milestone

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/logging"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// EventKind names a state transition produced by an evaluation.
type EventKind string

const (
	EventMilestoneAchieved EventKind = "milestone_achieved"
	EventGoalCompleted     EventKind = "goal_completed"
)

// Event describes one transition. Events are only emitted for the evaluation in which the
// transition happened, so notification side effects fire once.
type Event struct {
	Kind    EventKind `json:"kind"`
	GoalID  string    `json:"goalId"`
	Percent int       `json:"percent,omitempty"`
	At      time.Time `json:"at"`
}

func (e Event) String() string {
	if e.Kind == EventMilestoneAchieved {
		return fmt.Sprintf("%s reached %d%%", e.GoalID, e.Percent)
	}
	return fmt.Sprintf("%s fully funded", e.GoalID)
}

// NewID returns a new time-ordered identifier.
func NewID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
}

// NewUserGoal commits a goal under the chosen projection. The milestone ladder is fixed.
func NewUserGoal(goal domain.Goal, projection domain.ProfileProjection, targetDate, now time.Time) domain.UserGoal {
	ug := domain.UserGoal{
		ID:                  NewID(now),
		Goal:                goal,
		Profile:             projection.Profile,
		TargetAmount:        goal.FinalPrice,
		MonthlyContribution: projection.MonthlyPayment,
		TargetDate:          targetDate,
		CurrentAmount:       decimal.Zero,
		ProgressPercent:     decimal.Zero,
		Status:              domain.StatusFunding,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	for i, pct := range domain.MilestonePercents {
		ug.Milestones[i] = domain.Milestone{
			TargetPercent: pct,
			TargetAmount:  goal.FinalPrice.Mul(decimal.NewFromInt(int64(pct))).Div(hundred).Round(2),
		}
	}
	return ug
}

// Tracker evaluates milestone state. It holds no per-goal state.
type Tracker struct {
	Logger logging.Logger
}

// NewTracker creates a tracker.
func NewTracker(logger logging.Logger) *Tracker {
	return &Tracker{Logger: logging.OrNop(logger)}
}

// Evaluate recomputes progress and flips milestones that are now reached. Achievement and
// completion are permanent: a lower balance never resets them. Re-evaluating an unchanged goal
// produces no events.
func (t *Tracker) Evaluate(goal domain.UserGoal, now time.Time) (domain.UserGoal, []Event) {
	out := clone(goal)
	out.ProgressPercent = progress(out.CurrentAmount, out.TargetAmount)

	// Achievement follows the reported percentage so the two never disagree.
	var events []Event
	for i := range out.Milestones {
		m := &out.Milestones[i]
		if m.Achieved || !out.TargetAmount.IsPositive() {
			continue
		}
		if out.ProgressPercent.GreaterThanOrEqual(decimal.NewFromInt(int64(m.TargetPercent))) {
			at := now
			m.Achieved = true
			m.AchievedDate = &at
			events = append(events, Event{Kind: EventMilestoneAchieved, GoalID: out.ID, Percent: m.TargetPercent, At: now})
		}
	}

	if out.Status != domain.StatusCompleted && out.Milestones[len(out.Milestones)-1].Achieved {
		out.Status = domain.StatusCompleted
		events = append(events, Event{Kind: EventGoalCompleted, GoalID: out.ID, At: now})
	}

	if len(events) > 0 {
		out.UpdatedAt = now
		t.logger().Infof("goal %s: %d transition(s) at %s%%", out.ID, len(events), out.ProgressPercent.StringFixed(2))
	}
	return out, events
}

// ApplyDeposit folds a deposit or withdrawal into the balance and re-evaluates. Delivery is
// at-least-once: an event already folded returns the goal unchanged with ErrDuplicateEvent, which
// callers treat as success.
func (t *Tracker) ApplyDeposit(goal domain.UserGoal, ev domain.DepositEvent) (domain.UserGoal, []Event, error) {
	if ev.ID == "" {
		return goal, nil, &domain.PlanError{Operation: "apply_deposit", Message: "event id is required"}
	}
	if goal.HasApplied(ev.ID) {
		t.logger().Debugf("goal %s: event %s already applied", goal.ID, ev.ID)
		return goal, nil, fmt.Errorf("event %s: %w", ev.ID, domain.ErrDuplicateEvent)
	}
	if ev.Amount.IsZero() {
		return goal, nil, &domain.PlanError{Operation: "apply_deposit", Message: "amount must be non-zero"}
	}

	balance := goal.CurrentAmount.Add(ev.Amount)
	if balance.IsNegative() {
		return goal, nil, &domain.PlanError{
			Operation: "apply_deposit",
			Message:   fmt.Sprintf("withdrawal of %s exceeds balance %s", ev.Amount.Neg().StringFixed(2), goal.CurrentAmount.StringFixed(2)),
		}
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	next := clone(goal)
	next.CurrentAmount = balance
	next.AppliedEvents = append(next.AppliedEvents, ev.ID)
	next.UpdatedAt = at

	evaluated, events := t.Evaluate(next, at)
	return evaluated, events, nil
}

func (t *Tracker) logger() logging.Logger {
	return logging.OrNop(t.Logger)
}

func clone(goal domain.UserGoal) domain.UserGoal {
	out := goal
	out.AppliedEvents = append([]string(nil), goal.AppliedEvents...)
	for i := range out.Milestones {
		if d := goal.Milestones[i].AchievedDate; d != nil {
			at := *d
			out.Milestones[i].AchievedDate = &at
		}
	}
	return out
}

func progress(current, target decimal.Decimal) decimal.Decimal {
	if !target.IsPositive() {
		return decimal.Zero
	}
	return current.Mul(hundred).Div(target).Round(2)
}
