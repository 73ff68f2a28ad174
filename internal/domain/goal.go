package domain

import (
	"github.com/shopspring/decimal"
)

// Goal is a purchase or experience the user saves toward. Goals come from the static catalog
// and are immutable during a planning session.
type Goal struct {
	ID                  string          `yaml:"id" json:"id" validate:"required"`
	Title               string          `yaml:"title" json:"title" validate:"required"`
	Category            string          `yaml:"category" json:"category"`
	Description         string          `yaml:"description,omitempty" json:"description,omitempty"`
	FinalPrice          decimal.Decimal `yaml:"final_price" json:"finalPrice"`
	RecommendedStrategy string          `yaml:"recommended_strategy" json:"recommendedStrategy"`
	EstimatedMonths     int             `yaml:"estimated_months" json:"estimatedMonths" validate:"gte=0"`
}

// Catalog is the static configuration loaded at process start.
type Catalog struct {
	Profiles            []RiskProfile        `yaml:"profiles" json:"profiles" validate:"required,min=1,dive"`
	CapitalPreservation *CapitalPreservation `yaml:"capital_preservation,omitempty" json:"capitalPreservation,omitempty"`
	Goals               []Goal               `yaml:"goals" json:"goals" validate:"dive"`
}

// FindGoal returns the catalog goal with the given id.
func (c *Catalog) FindGoal(id string) (Goal, bool) {
	for _, g := range c.Goals {
		if g.ID == id {
			return g, true
		}
	}
	return Goal{}, false
}
