package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
	assert.NotNil(t, parser.validate)
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()

	catalog, err := parser.LoadFromFile("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Nil(t, catalog, "Should return nil catalog")
	assert.Contains(t, err.Error(), "failed to read file", "Should have specific error message")
}

func TestInputParser_LoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	invalidFile := filepath.Join(tmpDir, "invalid.yaml")

	err := os.WriteFile(invalidFile, []byte("invalid: yaml: content: [unclosed"), 0644)
	require.NoError(t, err)

	parser := NewInputParser()
	catalog, err := parser.LoadFromFile(invalidFile)

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Nil(t, catalog, "Should return nil catalog")
	assert.Contains(t, err.Error(), "failed to parse YAML", "Should have specific error message")
}

func TestInputParser_LoadFromFile_Testdata(t *testing.T) {
	parser := NewInputParser()

	catalog, err := parser.LoadFromFile(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)

	require.Len(t, catalog.Profiles, 2)
	assert.Equal(t, "conservative", catalog.Profiles[0].Name)
	assert.Equal(t, 0.035, catalog.Profiles[0].ExpectedAnnualReturn)
	assert.Equal(t, -0.02, catalog.Profiles[1].Range.Lower)
	assert.Equal(t, "Growth", catalog.Profiles[1].DisplayName())
	assert.Nil(t, catalog.CapitalPreservation)

	goal, ok := catalog.FindGoal("e-bike")
	require.True(t, ok)
	assert.True(t, goal.FinalPrice.Equal(decimal.NewFromInt(3680)), "quoted and bare prices both decode")
	assert.Equal(t, 24, goal.EstimatedMonths)

	laptop, ok := catalog.FindGoal("laptop")
	require.True(t, ok)
	assert.Equal(t, "capital_preservation", laptop.RecommendedStrategy, "the synthetic profile is a valid recommendation")

	_, ok = catalog.FindGoal("yacht")
	assert.False(t, ok)
}

func TestDefaultCatalog(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	assert.Len(t, catalog.Profiles, 3)
	require.NotNil(t, catalog.CapitalPreservation)
	assert.Equal(t, "capital_preservation", catalog.CapitalPreservation.Name)

	goal, ok := catalog.FindGoal("e-bike")
	require.True(t, ok)
	assert.Equal(t, "3680", goal.FinalPrice.String())
	assert.Equal(t, "growth", goal.RecommendedStrategy)

	fromEmpty, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, len(catalog.Goals), len(fromEmpty.Goals))
}

func TestValidateCatalog_Rules(t *testing.T) {
	valid := func() *domain.Catalog {
		return &domain.Catalog{
			Profiles: []domain.RiskProfile{
				{Name: "balanced", ExpectedAnnualReturn: 0.055, Volatility: 0.09, Range: domain.ReturnRange{Lower: 0, Upper: 0.09}},
			},
			Goals: []domain.Goal{
				{ID: "laptop", Title: "Laptop", FinalPrice: decimal.NewFromInt(2199), RecommendedStrategy: "balanced"},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *domain.Catalog)
		wantErr string
	}{
		{"valid", func(c *domain.Catalog) {}, ""},
		{"no profiles", func(c *domain.Catalog) { c.Profiles = nil }, "profiles is required"},
		{"missing profile name", func(c *domain.Catalog) { c.Profiles[0].Name = "" }, "profiles[0].name is required"},
		{"negative volatility", func(c *domain.Catalog) { c.Profiles[0].Volatility = -1 }, "volatility must be at least 0"},
		{"inverted range", func(c *domain.Catalog) { c.Profiles[0].Range = domain.ReturnRange{Lower: 0.1, Upper: 0} }, "exceeds upper"},
		{"expected outside range", func(c *domain.Catalog) { c.Profiles[0].ExpectedAnnualReturn = 0.2 }, "outside range"},
		{"duplicate profile", func(c *domain.Catalog) { c.Profiles = append(c.Profiles, c.Profiles[0]) }, "duplicate profile name"},
		{"reserved profile name", func(c *domain.Catalog) { c.Profiles[0].Name = "capital_preservation" }, "reserved"},
		{"missing goal title", func(c *domain.Catalog) { c.Goals[0].Title = "" }, "goals[0].title is required"},
		{"zero price", func(c *domain.Catalog) { c.Goals[0].FinalPrice = decimal.Zero }, "final price must be positive"},
		{"unknown strategy", func(c *domain.Catalog) { c.Goals[0].RecommendedStrategy = "yolo" }, "unknown risk profile"},
		{"duplicate goal", func(c *domain.Catalog) { c.Goals = append(c.Goals, c.Goals[0]) }, "duplicate goal id"},
		{"negative cash rate", func(c *domain.Catalog) {
			c.CapitalPreservation = &domain.CapitalPreservation{Name: "cash", Rate: -0.01}
		}, "cannot be negative"},
	}

	parser := NewInputParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := parser.ValidateCatalog(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCatalog_UnknownStrategyWrapsSentinel(t *testing.T) {
	_, err := NewInputParser().Parse([]byte(`
profiles:
  - name: growth
    expected_annual_return: 0.075
    range: {lower: -0.02, upper: 0.13}
goals:
  - id: boat
    title: Boat
    final_price: 9000
    recommended_strategy: speculative
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownProfile))
}
