package calculation

import (
	"time"

	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/logging"
	"github.com/rgehrsitz/goalfund/internal/profiles"
)

// DefaultMaxPoints bounds the number of regular trajectory samples; the final point is extra.
const DefaultMaxPoints = 50

// CalculationEngine orchestrates the annuity math across every registered profile.
type CalculationEngine struct {
	Profiles  *profiles.Registry
	MaxPoints int
	Logger    logging.Logger
	Debug     bool
}

// NewCalculationEngine creates an engine over the given registry.
func NewCalculationEngine(registry *profiles.Registry) *CalculationEngine {
	return &CalculationEngine{
		Profiles:  registry,
		MaxPoints: DefaultMaxPoints,
		Logger:    logging.NopLogger{},
	}
}

// SetLogger sets the logger; nil restores the no-op logger.
func (ce *CalculationEngine) SetLogger(l logging.Logger) {
	ce.Logger = logging.OrNop(l)
}

// Plan bundles everything the chart and decision UI need for one set of inputs.
type Plan struct {
	Goal        domain.Goal                `json:"goal"`
	Mode        domain.ProjectionMode      `json:"mode"`
	Projections []domain.ProfileProjection `json:"projections"`
	Excluded    []string                   `json:"excluded,omitempty"`
	Horizon     int                        `json:"horizon"`
	Selected    string                     `json:"selected"`
	Trajectory  []domain.TrajectoryPoint   `json:"trajectory"`
}

// Projection returns the projection for the named profile.
func (p *Plan) Projection(name string) (domain.ProfileProjection, bool) {
	for _, proj := range p.Projections {
		if proj.Profile == name {
			return proj, true
		}
	}
	return domain.ProfileProjection{}, false
}

// Plan computes projections, horizon and trajectory for a goal in one call.
// It fails only on a malformed mode; unachievable profiles are reported in Excluded.
func (ce *CalculationEngine) Plan(goal domain.Goal, mode domain.ProjectionMode, today time.Time, opts TrajectoryOptions) (*Plan, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}

	all := ce.Profiles.All()
	set := ce.ComputeProjections(goal, mode, all, today)
	horizon := Horizon(mode, set, today)

	if opts.Selected == "" {
		opts.Selected = goal.RecommendedStrategy
	}
	if _, ok := set[opts.Selected]; !ok {
		opts.Selected = firstPresent(set, all)
	}

	plan := &Plan{
		Goal:        goal,
		Mode:        mode,
		Projections: set.Ordered(all),
		Horizon:     horizon,
		Selected:    opts.Selected,
	}
	for _, p := range all {
		if _, ok := set[p.Name]; !ok {
			plan.Excluded = append(plan.Excluded, p.Name)
		}
	}
	if opts.MaxPoints == 0 {
		opts.MaxPoints = ce.MaxPoints
	}
	plan.Trajectory = ce.Trajectory(set, all, horizon, opts)

	ce.Logger.Debugf("plan %s mode=%s horizon=%d profiles=%d excluded=%d",
		goal.ID, mode.Key(), horizon, len(plan.Projections), len(plan.Excluded))
	return plan, nil
}

func firstPresent(set domain.ProjectionSet, all []domain.RiskProfile) string {
	for _, p := range all {
		if _, ok := set[p.Name]; ok {
			return p.Name
		}
	}
	return ""
}
