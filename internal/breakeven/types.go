// Package breakeven solves for the annual return a contribution plan needs to fund a goal on time.
package breakeven

import (
	"github.com/shopspring/decimal"
)

// Request describes a budget: Monthly paid for Months contributions toward Target.
type Request struct {
	GoalID  string          `json:"goalId,omitempty"`
	Target  decimal.Decimal `json:"target"`
	Monthly decimal.Decimal `json:"monthly"`
	Months  int             `json:"months"`
}

// SolverOptions bounds the bisection
type SolverOptions struct {
	MinRate       float64 // lowest annual rate searched
	MaxRate       float64 // highest annual rate searched
	Tolerance     float64 // width of the final rate bracket
	MaxIterations int
}

// DefaultSolverOptions returns the default search bounds
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		MinRate:       -0.5,
		MaxRate:       1.0,
		Tolerance:     1e-7,
		MaxIterations: 200,
	}
}

// Result is the smallest annual return that funds the request.
type Result struct {
	Request      Request         `json:"request"`
	RequiredRate float64         `json:"requiredRate"`
	Contributed  decimal.Decimal `json:"contributed"`
	// GrowthNeeded is the share of the target that must come from returns; negative when
	// contributions alone overshoot.
	GrowthNeeded decimal.Decimal `json:"growthNeeded"`
	// Covering lists profiles whose expected return meets the required rate, in registry order.
	Covering        []string `json:"coveringProfiles"`
	Iterations      int      `json:"iterations"`
	AtLowerBound    bool     `json:"atLowerBound,omitempty"`
	ConvergenceInfo string   `json:"convergenceInfo"`
}
