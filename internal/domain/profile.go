package domain

// ReturnRange is the [lower, upper] band of annual returns a profile may realistically produce.
type ReturnRange struct {
	Lower float64 `yaml:"lower" json:"lower"`
	Upper float64 `yaml:"upper" json:"upper"`
}

// RiskProfile is a named risk/return configuration. All rates are annual fractions (0.075 = 7.5%/yr).
type RiskProfile struct {
	Name                  string      `yaml:"name" json:"name" validate:"required"`
	Label                 string      `yaml:"label,omitempty" json:"label,omitempty"`
	ExpectedAnnualReturn  float64     `yaml:"expected_annual_return" json:"expectedAnnualReturn" validate:"gt=-1,lt=1"`
	Volatility            float64     `yaml:"volatility" json:"volatility" validate:"gte=0"`
	MeanAbsoluteDeviation float64     `yaml:"mean_absolute_deviation" json:"meanAbsoluteDeviation" validate:"gte=0"`
	Range                 ReturnRange `yaml:"range" json:"range"`

	// Synthetic marks the zero-volatility capital preservation profile appended by the registry.
	Synthetic bool `yaml:"-" json:"synthetic,omitempty"`
}

// DisplayName returns the label if set, otherwise the profile name.
func (p RiskProfile) DisplayName() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}

// HasBand reports whether the profile carries an uncertainty band around its expected return.
func (p RiskProfile) HasBand() bool {
	return p.Range.Lower != p.Range.Upper
}

// CapitalPreservation configures the synthetic "park it in cash" profile.
type CapitalPreservation struct {
	Name  string  `yaml:"name" json:"name" toml:"name"`
	Label string  `yaml:"label,omitempty" json:"label,omitempty" toml:"label"`
	Rate  float64 `yaml:"rate" json:"rate" toml:"rate"`
}

// DefaultCapitalPreservation returns the zero-growth cash profile settings.
func DefaultCapitalPreservation() CapitalPreservation {
	return CapitalPreservation{
		Name:  "capital_preservation",
		Label: "Capital preservation",
		Rate:  0,
	}
}
