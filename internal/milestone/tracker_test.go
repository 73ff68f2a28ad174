package milestone

import (
	"errors"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var committedAt = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

func newEBikeGoal(t *testing.T) domain.UserGoal {
	t.Helper()
	goal := domain.Goal{ID: "e-bike", Title: "E-Bike", FinalPrice: decimal.NewFromInt(3680), RecommendedStrategy: "growth"}
	proj := domain.ProfileProjection{Profile: "growth", MonthlyPayment: decimal.RequireFromString("142.60"), Months: 24}
	return NewUserGoal(goal, proj, time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC), committedAt)
}

func deposit(id string, amount int64, at time.Time) domain.DepositEvent {
	return domain.DepositEvent{ID: id, Amount: decimal.NewFromInt(amount), At: at}
}

func TestNewUserGoal(t *testing.T) {
	ug := newEBikeGoal(t)

	_, err := ulid.Parse(ug.ID)
	assert.NoError(t, err, "goal ids are ULIDs")
	assert.Equal(t, "growth", ug.Profile)
	assert.Equal(t, domain.StatusFunding, ug.Status)
	assert.True(t, ug.CurrentAmount.IsZero())
	assert.Equal(t, "142.6", ug.MonthlyContribution.String())

	wantAmounts := []string{"368", "920", "1840", "2760", "3680"}
	for i, m := range ug.Milestones {
		assert.Equal(t, domain.MilestonePercents[i], m.TargetPercent)
		assert.Equal(t, wantAmounts[i], m.TargetAmount.String())
		assert.False(t, m.Achieved)
		assert.Nil(t, m.AchievedDate)
	}
}

func TestEvaluate_AllMilestonesInOneCall(t *testing.T) {
	tracker := NewTracker(nil)
	ug := newEBikeGoal(t)
	ug.CurrentAmount = decimal.NewFromInt(1840)

	later := committedAt.AddDate(0, 6, 0)
	ug.CurrentAmount = decimal.NewFromInt(3680)
	got, events := tracker.Evaluate(ug, later)

	assert.Equal(t, "100", got.ProgressPercent.String())
	for _, m := range got.Milestones {
		assert.True(t, m.Achieved, "%d%%", m.TargetPercent)
		require.NotNil(t, m.AchievedDate)
		assert.Equal(t, later, *m.AchievedDate)
	}
	assert.Equal(t, domain.StatusCompleted, got.Status)
	require.Len(t, events, 6)
	assert.Equal(t, EventGoalCompleted, events[5].Kind)
	assert.False(t, ug.Milestones[0].Achieved, "input goal is not mutated")
}

func TestEvaluate_StepwiseFromHalfFunded(t *testing.T) {
	tracker := NewTracker(nil)
	ug := newEBikeGoal(t)

	ug.CurrentAmount = decimal.NewFromInt(1840)
	half, events := tracker.Evaluate(ug, committedAt)
	assert.Len(t, events, 3)
	assert.Equal(t, "50", half.ProgressPercent.String())
	assert.Equal(t, domain.StatusFunding, half.Status)

	half.CurrentAmount = decimal.NewFromInt(3680)
	full, events := tracker.Evaluate(half, committedAt.AddDate(0, 1, 0))
	require.Len(t, events, 3, "75%, 100% and completion")
	assert.Equal(t, 75, events[0].Percent)
	assert.Equal(t, 100, events[1].Percent)
	assert.Equal(t, domain.StatusCompleted, full.Status)
	assert.Equal(t, committedAt, *full.Milestones[0].AchievedDate, "earlier achievement dates are kept")
}

func TestEvaluate_AchievementMatchesReportedProgress(t *testing.T) {
	tests := []struct {
		name         string
		current      string
		wantProgress string
		wantAchieved []bool
		wantStatus   domain.GoalStatus
	}{
		{"rounds up to 100", "3679.999", "100", []bool{true, true, true, true, true}, domain.StatusCompleted},
		{"rounds up to 25", "919.9999", "25", []bool{true, true, false, false, false}, domain.StatusFunding},
		{"stays below 25", "919.5", "24.99", []bool{true, false, false, false, false}, domain.StatusFunding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ug := newEBikeGoal(t)
			ug.CurrentAmount = decimal.RequireFromString(tt.current)

			got, _ := NewTracker(nil).Evaluate(ug, committedAt)
			assert.Equal(t, tt.wantProgress, got.ProgressPercent.String())
			for i, m := range got.Milestones {
				assert.Equal(t, tt.wantAchieved[i], m.Achieved, "%d%%", m.TargetPercent)
			}
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	tracker := NewTracker(nil)
	ug := newEBikeGoal(t)
	ug.CurrentAmount = decimal.NewFromInt(1000)

	first, events := tracker.Evaluate(ug, committedAt)
	require.Len(t, events, 2)

	second, events := tracker.Evaluate(first, committedAt.AddDate(0, 0, 1))
	assert.Empty(t, events)
	assert.Equal(t, first.Milestones, second.Milestones)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
}

func TestEvaluate_AchievementIsPermanent(t *testing.T) {
	tracker := NewTracker(nil)
	ug := newEBikeGoal(t)
	ug.CurrentAmount = decimal.NewFromInt(3000)
	funded, _ := tracker.Evaluate(ug, committedAt)
	require.True(t, funded.Milestones[3].Achieved)

	funded.CurrentAmount = decimal.NewFromInt(100)
	drained, events := tracker.Evaluate(funded, committedAt.AddDate(0, 1, 0))

	assert.Empty(t, events)
	assert.Equal(t, "2.72", drained.ProgressPercent.String(), "progress is always live")
	for i := 0; i < 4; i++ {
		assert.True(t, drained.Milestones[i].Achieved, "%d%%", drained.Milestones[i].TargetPercent)
	}
	assert.False(t, drained.Milestones[4].Achieved)
}

func TestEvaluate_OverFunded(t *testing.T) {
	tracker := NewTracker(nil)
	ug := newEBikeGoal(t)
	ug.CurrentAmount = decimal.NewFromInt(4600)

	got, _ := tracker.Evaluate(ug, committedAt)
	assert.Equal(t, "125", got.ProgressPercent.String())
	assert.Equal(t, 100.0, DisplayPercent(got))
	assert.True(t, Remaining(got).IsZero())
}

func TestEvaluate_CompletionIsPermanent(t *testing.T) {
	tracker := NewTracker(nil)
	ug := newEBikeGoal(t)
	ug.CurrentAmount = decimal.NewFromInt(3680)
	done, _ := tracker.Evaluate(ug, committedAt)

	done.CurrentAmount = decimal.NewFromInt(3000)
	again, events := tracker.Evaluate(done, committedAt)
	assert.Equal(t, domain.StatusCompleted, again.Status)
	assert.Empty(t, events)
}

func TestApplyDeposit(t *testing.T) {
	tracker := NewTracker(nil)
	ug := newEBikeGoal(t)

	ug, events, err := tracker.ApplyDeposit(ug, deposit("dep-1", 400, committedAt))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 10, events[0].Percent)
	assert.Equal(t, "400", ug.CurrentAmount.String())
	assert.Equal(t, []string{"dep-1"}, ug.AppliedEvents)

	ug, events, err = tracker.ApplyDeposit(ug, deposit("dep-2", 600, committedAt.AddDate(0, 1, 0)))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 25, events[0].Percent)
	assert.Equal(t, "27.17", ug.ProgressPercent.String())
}

func TestApplyDeposit_DuplicateIgnored(t *testing.T) {
	tracker := NewTracker(nil)
	ug := newEBikeGoal(t)

	once, _, err := tracker.ApplyDeposit(ug, deposit("dep-1", 400, committedAt))
	require.NoError(t, err)

	twice, events, err := tracker.ApplyDeposit(once, deposit("dep-1", 400, committedAt))
	assert.True(t, errors.Is(err, domain.ErrDuplicateEvent))
	assert.Empty(t, events)
	assert.Equal(t, "400", twice.CurrentAmount.String(), "redelivered event must not double count")
}

func TestApplyDeposit_Withdrawal(t *testing.T) {
	tracker := NewTracker(nil)
	ug := newEBikeGoal(t)

	ug, _, err := tracker.ApplyDeposit(ug, deposit("dep-1", 2000, committedAt))
	require.NoError(t, err)
	require.True(t, ug.Milestones[2].Achieved)

	ug, events, err := tracker.ApplyDeposit(ug, deposit("wd-1", -1500, committedAt.AddDate(0, 1, 0)))
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, "500", ug.CurrentAmount.String())
	assert.True(t, ug.Milestones[2].Achieved, "withdrawals never un-achieve")

	_, _, err = tracker.ApplyDeposit(ug, deposit("wd-2", -501, committedAt.AddDate(0, 2, 0)))
	var planErr *domain.PlanError
	require.ErrorAs(t, err, &planErr)
	assert.Contains(t, planErr.Message, "exceeds balance")
}

func TestApplyDeposit_Invalid(t *testing.T) {
	tracker := NewTracker(nil)
	ug := newEBikeGoal(t)

	_, _, err := tracker.ApplyDeposit(ug, deposit("", 100, committedAt))
	assert.Error(t, err)

	_, _, err = tracker.ApplyDeposit(ug, deposit("dep-0", 0, committedAt))
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	tracker := NewTracker(nil)
	ug := newEBikeGoal(t)
	ug, _, err := tracker.ApplyDeposit(ug, deposit("dep-1", 1000, committedAt))
	require.NoError(t, err)

	p := Summarize(ug)
	assert.Equal(t, ug.ID, p.GoalID)
	assert.Equal(t, "E-Bike", p.Title)
	assert.Equal(t, "2680", p.Remaining.String())
	assert.InDelta(t, 27.17, p.DisplayPercent, 1e-9)
	require.NotNil(t, p.NextMilestone)
	assert.Equal(t, 50, p.NextMilestone.TargetPercent)

	assert.Equal(t, "E-Bike reached 25%", Event{Kind: EventMilestoneAchieved, GoalID: "E-Bike", Percent: 25}.String())
}

func TestDisplayPercent_ZeroTarget(t *testing.T) {
	ug := domain.UserGoal{TargetAmount: decimal.Zero, CurrentAmount: decimal.NewFromInt(50)}
	assert.Equal(t, 0.0, DisplayPercent(ug))
}
