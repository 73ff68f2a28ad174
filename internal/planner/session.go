// Package planner holds the state of one interactive planning session: the goal, the active
// projection mode, memoized projections and the in-flight commit.
package planner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rgehrsitz/goalfund/internal/calculation"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/logging"
	"github.com/rgehrsitz/goalfund/internal/milestone"
	"github.com/rgehrsitz/goalfund/internal/simulation"
)

// Commitment is the result of committing to a profile.
type Commitment struct {
	UserGoal   domain.UserGoal          `json:"userGoal"`
	Projection domain.ProfileProjection `json:"projection"`
	Completion *simulation.Completion   `json:"completion"`
}

// Session is safe for concurrent use. Changing the goal or mode discards every derived
// result and supersedes an in-flight commit.
type Session struct {
	engine  *calculation.CalculationEngine
	adapter *simulation.Adapter
	logger  logging.Logger

	mu         sync.Mutex
	goal       domain.Goal
	mode       domain.ProjectionMode
	hasMode    bool
	generation uint64
	memoKey    string
	memo       *calculation.Plan
	commitSeq  uint64
	cancel     context.CancelFunc
}

// NewSession creates a session for goal. A nil adapter uses the fixed-rate fallback.
func NewSession(engine *calculation.CalculationEngine, adapter *simulation.Adapter, goal domain.Goal) *Session {
	if adapter == nil {
		adapter = simulation.NewAdapter(nil, nil, engine.Logger)
	}
	return &Session{
		engine:  engine,
		adapter: adapter,
		logger:  logging.OrNop(engine.Logger),
		goal:    goal,
	}
}

// Goal returns the session goal.
func (s *Session) Goal() domain.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goal
}

// Mode returns the active mode, if one has been set.
func (s *Session) Mode() (domain.ProjectionMode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode, s.hasMode
}

// SetGoal switches the goal and discards all derived state.
func (s *Session) SetGoal(goal domain.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goal = goal
	s.invalidateLocked("goal changed")
}

// SetMode switches the projection mode. Setting an equivalent mode keeps memoized results.
func (s *Session) SetMode(mode domain.ProjectionMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasMode && s.mode.Key() == mode.Key() {
		return nil
	}
	s.mode = mode
	s.hasMode = true
	s.invalidateLocked("mode changed to " + mode.Key())
	return nil
}

func (s *Session) invalidateLocked(reason string) {
	s.generation++
	s.memo = nil
	s.memoKey = ""
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.logger.Debugf("planning session invalidated: %s", reason)
}

// Plan returns projections, horizon and trajectory for the active mode. Results are memoized
// per (mode, calendar month of today, selection, hidden set).
func (s *Session) Plan(today time.Time, opts calculation.TrajectoryOptions) (*calculation.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planLocked(today, opts)
}

func (s *Session) planLocked(today time.Time, opts calculation.TrajectoryOptions) (*calculation.Plan, error) {
	if !s.hasMode {
		return nil, &domain.PlanError{Operation: "plan", Message: "no projection mode selected"}
	}

	key := memoKey(s.mode, today, opts)
	if s.memo != nil && s.memoKey == key {
		return s.memo, nil
	}

	plan, err := s.engine.Plan(s.goal, s.mode, today, opts)
	if err != nil {
		return nil, err
	}
	s.memo = plan
	s.memoKey = key
	return plan, nil
}

func memoKey(mode domain.ProjectionMode, today time.Time, opts calculation.TrajectoryOptions) string {
	hidden := make([]string, 0, len(opts.Hidden))
	for name, h := range opts.Hidden {
		if h {
			hidden = append(hidden, name)
		}
	}
	sort.Strings(hidden)
	return fmt.Sprintf("%s|%04d-%02d|%s|%s|%d", mode.Key(), today.Year(), int(today.Month()),
		opts.Selected, strings.Join(hidden, ","), opts.MaxPoints)
}

// Commit turns the chosen profile's projection into a UserGoal and refines it with the external
// simulation. A later Commit, SetMode or SetGoal supersedes this call, which then returns
// ErrSuperseded and its result must be discarded.
func (s *Session) Commit(ctx context.Context, profile, clientRef string, today time.Time) (*Commitment, error) {
	s.mu.Lock()
	plan, err := s.planLocked(today, calculation.TrajectoryOptions{Selected: profile})
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	proj, ok := plan.Projection(profile)
	if !ok {
		s.mu.Unlock()
		if _, known := s.engine.Profiles.Get(profile); !known {
			return nil, fmt.Errorf("%q: %w", profile, domain.ErrUnknownProfile)
		}
		return nil, &domain.PlanError{Operation: "commit", Message: profile, Cause: domain.ErrNotAchievable}
	}

	targetDate := s.mode.TargetDate
	if s.mode.Kind == domain.ModeFixedPayment {
		targetDate = today.AddDate(0, proj.Months, 0)
	}
	userGoal := milestone.NewUserGoal(s.goal, proj, targetDate, today)
	goalID := s.goal.ID

	if s.cancel != nil {
		s.cancel()
	}
	commitCtx, cancel := context.WithCancel(ctx)
	s.commitSeq++
	seq, gen := s.commitSeq, s.generation
	s.cancel = cancel
	s.mu.Unlock()

	completion, err := s.adapter.ProjectGoalCompletion(commitCtx, clientRef, userGoal.TargetAmount, proj.MonthlyPayment, proj.Months)

	s.mu.Lock()
	superseded := seq != s.commitSeq || gen != s.generation
	if !superseded {
		s.cancel = nil
	}
	s.mu.Unlock()
	cancel()

	if superseded {
		s.logger.Debugf("commit %d for %s superseded", seq, goalID)
		return nil, domain.ErrSuperseded
	}
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("committing %s: %w", profile, err)
	}

	s.logger.Infof("committed %s to %s at %s/month (confidence %d)",
		goalID, profile, proj.MonthlyPayment.StringFixed(2), completion.Confidence)
	return &Commitment{UserGoal: userGoal, Projection: proj, Completion: completion}, nil
}
