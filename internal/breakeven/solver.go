package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/goalfund/internal/annuity"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/profiles"
	"github.com/shopspring/decimal"
)

// Solver finds required returns by bisection on the annuity future value, which increases
// with the rate for any positive payment.
type Solver struct {
	Profiles *profiles.Registry
	Options  SolverOptions
}

// NewSolver creates a new solver
func NewSolver(registry *profiles.Registry, options SolverOptions) *Solver {
	return &Solver{
		Profiles: registry,
		Options:  options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(registry *profiles.Registry) *Solver {
	return NewSolver(registry, DefaultSolverOptions())
}

// Solve returns the required annual return for req. A budget that cannot reach the target even
// at MaxRate fails with ErrNotAchievable.
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	target := req.Target.InexactFloat64()
	payment := req.Monthly.InexactFloat64()
	contributed := req.Monthly.Mul(decimal.NewFromInt(int64(req.Months)))
	result := &Result{
		Request:      req,
		Contributed:  contributed,
		GrowthNeeded: req.Target.Sub(contributed),
	}

	lo, hi := s.Options.MinRate, s.Options.MaxRate
	if reaches(lo, req.Months, payment, target) {
		result.RequiredRate = lo
		result.AtLowerBound = true
		result.ConvergenceInfo = fmt.Sprintf("funded even at %.2f%%", lo*100)
		result.Covering = s.covering(lo)
		return result, nil
	}
	if !reaches(hi, req.Months, payment, target) {
		return nil, &domain.PlanError{
			Operation: "required_rate",
			Message:   fmt.Sprintf("%s/month for %d months stays short of %s even at %.0f%%", req.Monthly.StringFixed(2), req.Months, req.Target.StringFixed(2), hi*100),
			Cause:     domain.ErrNotAchievable,
		}
	}

	for result.Iterations < s.Options.MaxIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Iterations++

		mid := (lo + hi) / 2
		if reaches(mid, req.Months, payment, target) {
			hi = mid
		} else {
			lo = mid
		}
		if hi-lo < s.Options.Tolerance {
			result.ConvergenceInfo = "bisection converged"
			break
		}
	}
	if result.ConvergenceInfo == "" {
		result.ConvergenceInfo = fmt.Sprintf("max iterations (%d) reached", s.Options.MaxIterations)
	}

	// hi always funds the target, so it is the conservative answer.
	result.RequiredRate = hi
	result.Covering = s.covering(hi)
	return result, nil
}

func reaches(rate float64, months int, payment, target float64) bool {
	return annuity.FutureValue(rate, months, payment) >= target
}

func (s *Solver) covering(rate float64) []string {
	if s.Profiles == nil {
		return nil
	}
	var names []string
	for _, p := range s.Profiles.All() {
		if p.ExpectedAnnualReturn >= rate {
			names = append(names, p.Name)
		}
	}
	return names
}

func validate(req Request) error {
	switch {
	case req.Months <= 0:
		return &domain.PlanError{Operation: "required_rate", Message: "months must be positive"}
	case !req.Monthly.IsPositive():
		return &domain.PlanError{Operation: "required_rate", Message: "monthly amount must be positive", Cause: domain.ErrNotAchievable}
	case !req.Target.IsPositive():
		return &domain.PlanError{Operation: "required_rate", Message: "target must be positive"}
	}
	return nil
}
