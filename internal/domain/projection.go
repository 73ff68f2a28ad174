package domain

import (
	"fmt"
	"sort"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// ModeKind identifies which unknown a planning session solves for.
type ModeKind string

const (
	// ModeFixedDate fixes the completion date and solves for the monthly payment.
	ModeFixedDate ModeKind = "fixed_date"
	// ModeFixedPayment fixes the monthly payment and solves for the duration.
	ModeFixedPayment ModeKind = "fixed_payment"
)

// ProjectionMode is a tagged union: exactly one of TargetDate or MonthlyAmount is meaningful,
// selected by Kind. Its JSON form carries only the field for its kind.
type ProjectionMode struct {
	Kind          ModeKind
	TargetDate    time.Time
	MonthlyAmount decimal.Decimal
}

type projectionModeJSON struct {
	Kind          ModeKind         `json:"kind"`
	TargetDate    *time.Time       `json:"targetDate,omitempty"`
	MonthlyAmount *decimal.Decimal `json:"monthlyAmount,omitempty"`
}

func (m ProjectionMode) MarshalJSON() ([]byte, error) {
	wire := projectionModeJSON{Kind: m.Kind}
	switch m.Kind {
	case ModeFixedDate:
		wire.TargetDate = &m.TargetDate
	case ModeFixedPayment:
		wire.MonthlyAmount = &m.MonthlyAmount
	}
	return json.Marshal(wire)
}

func (m *ProjectionMode) UnmarshalJSON(data []byte) error {
	var wire projectionModeJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*m = ProjectionMode{Kind: wire.Kind}
	if wire.TargetDate != nil {
		m.TargetDate = *wire.TargetDate
	}
	if wire.MonthlyAmount != nil {
		m.MonthlyAmount = *wire.MonthlyAmount
	}
	return nil
}

// FixedDate builds a fixed-date mode.
func FixedDate(target time.Time) ProjectionMode {
	return ProjectionMode{Kind: ModeFixedDate, TargetDate: target}
}

// FixedPayment builds a fixed-payment mode.
func FixedPayment(monthly decimal.Decimal) ProjectionMode {
	return ProjectionMode{Kind: ModeFixedPayment, MonthlyAmount: monthly}
}

// Key identifies the mode and its parameter for memoization.
func (m ProjectionMode) Key() string {
	switch m.Kind {
	case ModeFixedDate:
		return fmt.Sprintf("%s:%04d-%02d", m.Kind, m.TargetDate.Year(), int(m.TargetDate.Month()))
	case ModeFixedPayment:
		return fmt.Sprintf("%s:%s", m.Kind, m.MonthlyAmount.String())
	default:
		return string(m.Kind)
	}
}

// Validate checks that the mode is one of the known kinds.
func (m ProjectionMode) Validate() error {
	switch m.Kind {
	case ModeFixedDate:
		if m.TargetDate.IsZero() {
			return &PlanError{Operation: "validate_mode", Message: "target date is required in fixed_date mode"}
		}
	case ModeFixedPayment:
	default:
		return &PlanError{Operation: "validate_mode", Message: fmt.Sprintf("unknown projection mode %q", m.Kind)}
	}
	return nil
}

// ProfileProjection is the solved plan for one goal under one profile and mode.
// The bounds are only populated in fixed-payment mode.
type ProfileProjection struct {
	Profile          string          `json:"profile"`
	MonthlyPayment   decimal.Decimal `json:"monthlyPayment"`
	Months           int             `json:"months"`
	MonthsLowerBound *int            `json:"monthsLowerBound,omitempty"`
	MonthsUpperBound *int            `json:"monthsUpperBound,omitempty"`
}

// PessimisticMonths returns the upper bound when present, otherwise the central estimate.
func (p ProfileProjection) PessimisticMonths() int {
	if p.MonthsUpperBound != nil {
		return *p.MonthsUpperBound
	}
	return p.Months
}

// ProjectionSet maps profile name to its projection. Profiles that are not achievable are absent.
type ProjectionSet map[string]ProfileProjection

// Ordered returns projections following the order of the given profiles, skipping absent ones.
func (s ProjectionSet) Ordered(profiles []RiskProfile) []ProfileProjection {
	out := make([]ProfileProjection, 0, len(s))
	for _, p := range profiles {
		if proj, ok := s[p.Name]; ok {
			out = append(out, proj)
		}
	}
	return out
}

// Names returns the profile names in sorted order.
func (s ProjectionSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProfileValues maps profile name to a money value.
type ProfileValues map[string]decimal.Decimal

// TrajectoryPoint is one sample of the projected growth curve.
type TrajectoryPoint struct {
	MonthIndex       int             `json:"monthIndex"`
	TotalContributed decimal.Decimal `json:"totalContributed"`
	ProjectedValue   ProfileValues   `json:"projectedValue"`
}
