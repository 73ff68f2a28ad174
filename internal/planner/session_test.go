package planner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rgehrsitz/goalfund/internal/calculation"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/profiles"
	"github.com/rgehrsitz/goalfund/internal/simulation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func newEngine(t *testing.T) *calculation.CalculationEngine {
	t.Helper()
	reg, err := profiles.New([]domain.RiskProfile{
		{Name: "conservative", ExpectedAnnualReturn: 0.035, Range: domain.ReturnRange{Lower: 0.01, Upper: 0.05}},
		{Name: "growth", ExpectedAnnualReturn: 0.075, Range: domain.ReturnRange{Lower: -0.02, Upper: 0.13}},
	}, domain.DefaultCapitalPreservation())
	require.NoError(t, err)
	return calculation.NewCalculationEngine(reg)
}

func eBike() domain.Goal {
	return domain.Goal{ID: "e-bike", Title: "E-Bike", FinalPrice: decimal.NewFromInt(3680), RecommendedStrategy: "growth"}
}

// blockingSimulator parks the first call until its context is cancelled; later calls answer.
type blockingSimulator struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
}

func newBlockingSimulator() *blockingSimulator {
	return &blockingSimulator{started: make(chan struct{}, 4)}
}

func (b *blockingSimulator) Simulate(ctx context.Context, _ string, _ int) (*simulation.Response, error) {
	b.mu.Lock()
	b.calls++
	n := b.calls
	b.mu.Unlock()
	b.started <- struct{}{}

	if n == 1 {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &simulation.Response{Results: []simulation.Result{{InitialValue: 1250, ProjectedValue: 1350, MonthsSimulated: 12}}}, nil
}

func TestSession_PlanRequiresMode(t *testing.T) {
	s := NewSession(newEngine(t), nil, eBike())
	_, err := s.Plan(today, calculation.TrajectoryOptions{})
	var planErr *domain.PlanError
	assert.ErrorAs(t, err, &planErr)
}

func TestSession_PlanMemoized(t *testing.T) {
	s := NewSession(newEngine(t), nil, eBike())
	require.NoError(t, s.SetMode(domain.FixedDate(time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC))))

	first, err := s.Plan(today, calculation.TrajectoryOptions{})
	require.NoError(t, err)
	second, err := s.Plan(today.AddDate(0, 0, 5), calculation.TrajectoryOptions{})
	require.NoError(t, err)
	assert.Same(t, first, second, "same mode and month reuses the plan")

	require.NoError(t, s.SetMode(domain.FixedDate(time.Date(2028, 1, 20, 0, 0, 0, 0, time.UTC))))
	third, err := s.Plan(today, calculation.TrajectoryOptions{})
	require.NoError(t, err)
	assert.Same(t, first, third, "an equivalent target month keeps memoized results")

	nextMonth, err := s.Plan(today.AddDate(0, 1, 0), calculation.TrajectoryOptions{})
	require.NoError(t, err)
	assert.NotSame(t, first, nextMonth)
	assert.Equal(t, 23, nextMonth.Horizon)
}

func TestSession_SetModeDiscardsStaleProjections(t *testing.T) {
	s := NewSession(newEngine(t), nil, eBike())
	require.NoError(t, s.SetMode(domain.FixedDate(time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC))))
	dated, err := s.Plan(today, calculation.TrajectoryOptions{})
	require.NoError(t, err)
	require.Nil(t, dated.Projections[0].MonthsLowerBound)

	require.NoError(t, s.SetMode(domain.FixedPayment(decimal.NewFromInt(150))))
	paid, err := s.Plan(today, calculation.TrajectoryOptions{})
	require.NoError(t, err)
	assert.NotSame(t, dated, paid)
	assert.Equal(t, domain.ModeFixedPayment, paid.Mode.Kind)
	require.NotNil(t, paid.Projections[0].MonthsLowerBound, "fresh results carry the fixed-payment band")

	mode, ok := s.Mode()
	assert.True(t, ok)
	assert.Equal(t, domain.ModeFixedPayment, mode.Kind)

	assert.Error(t, s.SetMode(domain.ProjectionMode{Kind: "sometime"}))
	mode, _ = s.Mode()
	assert.Equal(t, domain.ModeFixedPayment, mode.Kind, "an invalid mode leaves the session untouched")
}

func TestSession_CommitFallback(t *testing.T) {
	s := NewSession(newEngine(t), nil, eBike())
	require.NoError(t, s.SetMode(domain.FixedDate(time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC))))

	c, err := s.Commit(context.Background(), "growth", "acct-7", today)
	require.NoError(t, err)

	assert.Equal(t, "growth", c.UserGoal.Profile)
	assert.Equal(t, "142.6", c.UserGoal.MonthlyContribution.String())
	assert.Equal(t, time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC), c.UserGoal.TargetDate)
	assert.Equal(t, domain.StatusFunding, c.UserGoal.Status)
	require.NotNil(t, c.Completion)
	assert.Equal(t, simulation.SourceFallback, c.Completion.Source)
	assert.Len(t, c.Completion.YearByYear, 2)
}

func TestSession_CommitFixedPaymentTargetDate(t *testing.T) {
	s := NewSession(newEngine(t), nil, eBike())
	require.NoError(t, s.SetMode(domain.FixedPayment(decimal.NewFromInt(150))))

	c, err := s.Commit(context.Background(), "conservative", "acct-7", today)
	require.NoError(t, err)
	assert.Equal(t, today.AddDate(0, c.Projection.Months, 0), c.UserGoal.TargetDate)
}

func TestSession_CommitErrors(t *testing.T) {
	s := NewSession(newEngine(t), nil, eBike())
	require.NoError(t, s.SetMode(domain.FixedPayment(decimal.Zero)))

	_, err := s.Commit(context.Background(), "growth", "acct-7", today)
	assert.True(t, errors.Is(err, domain.ErrNotAchievable))

	_, err = s.Commit(context.Background(), "crypto", "acct-7", today)
	assert.True(t, errors.Is(err, domain.ErrUnknownProfile))
}

func TestSession_NewerCommitSupersedesInFlight(t *testing.T) {
	sim := newBlockingSimulator()
	s := NewSession(newEngine(t), simulation.NewAdapter(sim, nil, nil), eBike())
	require.NoError(t, s.SetMode(domain.FixedDate(time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC))))

	type result struct {
		c   *Commitment
		err error
	}
	done := make(chan result, 1)
	go func() {
		c, err := s.Commit(context.Background(), "growth", "acct-7", today)
		done <- result{c, err}
	}()
	<-sim.started

	latest, err := s.Commit(context.Background(), "conservative", "acct-7", today)
	require.NoError(t, err)
	assert.Equal(t, "conservative", latest.UserGoal.Profile)
	assert.Equal(t, simulation.SourceSimulation, latest.Completion.Source)

	select {
	case r := <-done:
		assert.Nil(t, r.c)
		assert.True(t, errors.Is(r.err, domain.ErrSuperseded))
	case <-time.After(2 * time.Second):
		t.Fatal("superseded commit did not return")
	}
}

func TestSession_ModeChangeSupersedesInFlightCommit(t *testing.T) {
	sim := newBlockingSimulator()
	s := NewSession(newEngine(t), simulation.NewAdapter(sim, nil, nil), eBike())
	require.NoError(t, s.SetMode(domain.FixedDate(time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC))))

	done := make(chan error, 1)
	go func() {
		_, err := s.Commit(context.Background(), "growth", "acct-7", today)
		done <- err
	}()
	<-sim.started

	require.NoError(t, s.SetMode(domain.FixedPayment(decimal.NewFromInt(200))))

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, domain.ErrSuperseded))
	case <-time.After(2 * time.Second):
		t.Fatal("commit was not cancelled by the mode change")
	}
}

func TestSession_CallerCancellation(t *testing.T) {
	sim := newBlockingSimulator()
	s := NewSession(newEngine(t), simulation.NewAdapter(sim, nil, nil), eBike())
	require.NoError(t, s.SetMode(domain.FixedDate(time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC))))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.Commit(ctx, "growth", "acct-7", today)
		done <- err
	}()
	<-sim.started
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("commit ignored caller cancellation")
	}
}
