package simulation

import (
	"context"
	"errors"
	"fmt"
	"math"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/goalfund/internal/annuity"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/logging"
	"github.com/shopspring/decimal"
)

const (
	// MaxSimulationMonths caps the near-term horizon requested from the service.
	MaxSimulationMonths = 12
	// FallbackAnnualRate is assumed when no usable simulation is available.
	FallbackAnnualRate = 0.07
	// MinImpliedRate and MaxImpliedRate bound the rate extracted from a simulation.
	MinImpliedRate = 0.04
	MaxImpliedRate = 0.12
	// ConfidenceSimulated and ConfidenceFallback are coarse heuristic scores, not probabilities.
	ConfidenceSimulated = 90
	ConfidenceFallback  = 75
	// MaxLedgerMonths bounds the year-by-year ledger, matching the required-rate solver.
	MaxLedgerMonths = 1200
)

// Source records where the growth rate of a completion came from.
type Source string

const (
	SourceSimulation Source = "simulation"
	SourceFallback   Source = "fallback"
)

// Cache stores encoded simulation responses. Implementations own TTL and size limits.
type Cache interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
}

// YearBreakdown is one row of the year-by-year ledger.
type YearBreakdown struct {
	Year                  int             `json:"year"`
	Months                int             `json:"months"`
	Value                 decimal.Decimal `json:"value"`
	ContributionsThisYear decimal.Decimal `json:"contributionsThisYear"`
	GrowthThisYear        decimal.Decimal `json:"growthThisYear"`
}

// Completion is the refined long-run projection for a committed goal.
type Completion struct {
	Months         int             `json:"months"`
	ProjectedValue decimal.Decimal `json:"projectedValue"`
	Confidence     int             `json:"confidence"`
	AnnualRate     float64         `json:"annualRate"`
	Source         Source          `json:"source"`
	YearByYear     []YearBreakdown `json:"yearByYearBreakdown"`
}

// Adapter blends an external short-term simulation with annuity math.
type Adapter struct {
	Simulator Simulator
	Cache     Cache
	Logger    logging.Logger
}

// NewAdapter creates an adapter. A nil simulator always uses the fallback rate.
func NewAdapter(sim Simulator, cache Cache, logger logging.Logger) *Adapter {
	return &Adapter{Simulator: sim, Cache: cache, Logger: logging.OrNop(logger)}
}

// ProjectGoalCompletion projects how a goal funds over totalMonths. External failures and
// timeouts degrade to the 7% fallback; only invalid inputs or a cancelled ctx return an error.
func (a *Adapter) ProjectGoalCompletion(ctx context.Context, clientRef string, targetAmount, monthlyContribution decimal.Decimal, totalMonths int) (*Completion, error) {
	if totalMonths <= 0 {
		return nil, &domain.PlanError{Operation: "project_completion", Message: fmt.Sprintf("total months must be positive, got %d", totalMonths)}
	}
	if monthlyContribution.IsNegative() {
		return nil, &domain.PlanError{Operation: "project_completion", Message: "monthly contribution cannot be negative"}
	}

	simMonths := totalMonths
	if simMonths > MaxSimulationMonths {
		simMonths = MaxSimulationMonths
	}

	result, err := a.simulate(ctx, clientRef, simMonths)
	if errors.Is(err, context.Canceled) {
		return nil, err
	}

	completion := &Completion{
		AnnualRate: FallbackAnnualRate,
		Confidence: ConfidenceFallback,
		Source:     SourceFallback,
	}
	if err != nil {
		a.logger().Warnf("simulation for %s unavailable, using %.0f%% fallback: %v", clientRef, FallbackAnnualRate*100, err)
	} else {
		completion.AnnualRate = ImpliedAnnualRate(*result)
		completion.Confidence = ConfidenceSimulated
		completion.Source = SourceSimulation
	}

	monthly := monthlyContribution.InexactFloat64()
	completion.YearByYear = BuildLedger(completion.AnnualRate, monthly, min(totalMonths, MaxLedgerMonths), result)
	if n := len(completion.YearByYear); n > 0 {
		completion.ProjectedValue = completion.YearByYear[n-1].Value
	}

	completion.Months = totalMonths
	needed := annuity.MonthsForPayment(targetAmount.InexactFloat64(), completion.AnnualRate, monthly)
	if m, ok := annuity.WholeMonths(needed); ok {
		completion.Months = m
	}

	return completion, nil
}

func (a *Adapter) logger() logging.Logger {
	return logging.OrNop(a.Logger)
}

// simulate returns the first usable simulation result, consulting the cache first.
func (a *Adapter) simulate(ctx context.Context, clientRef string, months int) (*Result, error) {
	if a.Simulator == nil {
		return nil, ErrUnavailable
	}

	key := cacheKey(clientRef, months)
	if a.Cache != nil {
		if raw, ok, err := a.Cache.Get(key); err != nil {
			a.logger().Warnf("simulation cache read failed: %v", err)
		} else if ok {
			var cached Response
			if err := json.Unmarshal(raw, &cached); err == nil {
				if r, ok := usable(&cached); ok {
					a.logger().Debugf("simulation cache hit for %s", key)
					return r, nil
				}
			}
		}
	}

	resp, err := a.Simulator.Simulate(ctx, clientRef, months)
	if err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
			return nil, ctxErr
		}
		return nil, err
	}
	r, ok := usable(resp)
	if !ok {
		return nil, ErrMalformed
	}

	if a.Cache != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := a.Cache.Put(key, raw); err != nil {
				a.logger().Warnf("simulation cache write failed: %v", err)
			}
		}
	}
	return r, nil
}

func cacheKey(clientRef string, months int) string {
	return fmt.Sprintf("%s:%d", clientRef, months)
}

func usable(resp *Response) (*Result, bool) {
	if resp == nil || len(resp.Results) == 0 {
		return nil, false
	}
	r := resp.Results[0]
	if !finitePositive(r.InitialValue) || !finitePositive(r.ProjectedValue) {
		return nil, false
	}
	return &r, true
}

func finitePositive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0) && !math.IsNaN(x)
}

// ImpliedAnnualRate derives a yearly growth rate from a simulation, clamped to [4%, 12%].
// This is not the plain final/initial - 1: a run shorter than 12 months is annualized as
// (final/initial)^(12/months) - 1 so that a one-month gain is not read as a yearly one.
func ImpliedAnnualRate(r Result) float64 {
	ratio := r.ProjectedValue / r.InitialValue
	rate := ratio - 1
	if r.MonthsSimulated > 0 && r.MonthsSimulated < 12 {
		rate = math.Pow(ratio, 12/float64(r.MonthsSimulated)) - 1
	}
	if math.IsNaN(rate) {
		return FallbackAnnualRate
	}
	return math.Min(MaxImpliedRate, math.Max(MinImpliedRate, rate))
}

// BuildLedger rolls the balance forward one year at a time. Existing balance compounds for the
// months in the year; new contributions accrue their own annuity growth. The final year may be
// shorter than 12 months. When sim is present its projected value is used for year 1.
// The ledger stops at the last year whose value is finite.
func BuildLedger(annualRate, monthly float64, totalMonths int, sim *Result) []YearBreakdown {
	if totalMonths <= 0 {
		return nil
	}

	ledger := make([]YearBreakdown, 0, (totalMonths+11)/12)
	balance := 0.0
	remaining := totalMonths
	for year := 1; remaining > 0; year++ {
		months := remaining
		if months > 12 {
			months = 12
		}
		contributions := monthly * float64(months)

		var value float64
		if year == 1 && sim != nil {
			value = sim.ProjectedValue
		} else {
			value = annuity.Compound(balance, annualRate, months) + annuity.FutureValue(annualRate, months, monthly)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			break
		}

		ledger = append(ledger, YearBreakdown{
			Year:                  year,
			Months:                months,
			Value:                 cents(value),
			ContributionsThisYear: cents(contributions),
			GrowthThisYear:        cents(value - balance - contributions),
		})
		balance = value
		remaining -= months
	}
	return ledger
}

func cents(x float64) decimal.Decimal {
	return decimal.NewFromFloat(x).Round(2)
}
