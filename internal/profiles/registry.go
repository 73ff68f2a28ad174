// Package profiles holds the read-only catalog of risk/return profiles.
package profiles

import (
	"fmt"

	"github.com/rgehrsitz/goalfund/internal/domain"
)

// Registry is an immutable lookup of risk profiles. The synthetic capital preservation
// profile is always last.
type Registry struct {
	profiles []domain.RiskProfile
	index    map[string]int
}

// New validates the configured profiles and appends the synthetic zero-volatility profile.
func New(configured []domain.RiskProfile, preservation domain.CapitalPreservation) (*Registry, error) {
	if preservation.Name == "" {
		preservation.Name = domain.DefaultCapitalPreservation().Name
	}

	r := &Registry{
		profiles: make([]domain.RiskProfile, 0, len(configured)+1),
		index:    make(map[string]int, len(configured)+1),
	}

	for _, p := range configured {
		if err := validateProfile(p); err != nil {
			return nil, err
		}
		if err := r.add(p); err != nil {
			return nil, err
		}
	}

	cash := domain.RiskProfile{
		Name:                 preservation.Name,
		Label:                preservation.Label,
		ExpectedAnnualReturn: preservation.Rate,
		Range:                domain.ReturnRange{Lower: preservation.Rate, Upper: preservation.Rate},
		Synthetic:            true,
	}
	if err := r.add(cash); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Registry) add(p domain.RiskProfile) error {
	if _, exists := r.index[p.Name]; exists {
		return &domain.PlanError{
			Operation: "register_profile",
			Message:   fmt.Sprintf("duplicate profile name %q", p.Name),
		}
	}
	r.index[p.Name] = len(r.profiles)
	r.profiles = append(r.profiles, p)
	return nil
}

func validateProfile(p domain.RiskProfile) error {
	if p.Name == "" {
		return &domain.PlanError{Operation: "register_profile", Message: "profile name is required"}
	}
	if p.Range.Lower > p.ExpectedAnnualReturn || p.ExpectedAnnualReturn > p.Range.Upper {
		return &domain.PlanError{
			Operation: "register_profile",
			Message: fmt.Sprintf("profile %q: expected return %.4f must lie within range [%.4f, %.4f]",
				p.Name, p.ExpectedAnnualReturn, p.Range.Lower, p.Range.Upper),
		}
	}
	if p.Volatility < 0 || p.MeanAbsoluteDeviation < 0 {
		return &domain.PlanError{
			Operation: "register_profile",
			Message:   fmt.Sprintf("profile %q: volatility and mean absolute deviation cannot be negative", p.Name),
		}
	}
	return nil
}

// Get returns the profile with the given name.
func (r *Registry) Get(name string) (domain.RiskProfile, bool) {
	i, ok := r.index[name]
	if !ok {
		return domain.RiskProfile{}, false
	}
	return r.profiles[i], true
}

// Lookup is Get returning an error wrapping ErrUnknownProfile.
func (r *Registry) Lookup(name string) (domain.RiskProfile, error) {
	p, ok := r.Get(name)
	if !ok {
		return domain.RiskProfile{}, fmt.Errorf("%w: %s", domain.ErrUnknownProfile, name)
	}
	return p, nil
}

// All returns a copy of every profile in configuration order.
func (r *Registry) All() []domain.RiskProfile {
	out := make([]domain.RiskProfile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// Names returns profile names in configuration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.profiles))
	for i, p := range r.profiles {
		names[i] = p.Name
	}
	return names
}

// Len returns the number of profiles including the synthetic one.
func (r *Registry) Len() int {
	return len(r.profiles)
}
