package config

import (
	"testing"

	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/shopspring/decimal"
)

func TestCatalogValidation(t *testing.T) {
	validCatalog := &domain.Catalog{
		Profiles: []domain.RiskProfile{
			{
				Name:                  "growth",
				Label:                 "Growth",
				ExpectedAnnualReturn:  0.075,
				Volatility:            0.15,
				MeanAbsoluteDeviation: 0.11,
				Range:                 domain.ReturnRange{Lower: -0.02, Upper: 0.13},
			},
		},
		CapitalPreservation: &domain.CapitalPreservation{Name: "cash", Rate: 0.01},
		Goals: []domain.Goal{
			{
				ID:                  "e-bike",
				Title:               "E-Bike",
				Category:            "mobility",
				FinalPrice:          decimal.NewFromInt(3680),
				RecommendedStrategy: "cash",
				EstimatedMonths:     24,
			},
		},
	}

	parser := NewInputParser()
	err := parser.ValidateCatalog(validCatalog)
	if err != nil {
		t.Errorf("Expected valid catalog but got error: %s", err.Error())
	}
}
