package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of the goal and profile catalog
type InputParser struct {
	validate *validator.Validate
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &InputParser{validate: v}
}

// LoadFromFile loads the catalog from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates catalog bytes
func (ip *InputParser) Parse(data []byte) (*domain.Catalog, error) {
	var catalog domain.Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateCatalog(&catalog); err != nil {
		return nil, fmt.Errorf("catalog validation failed: %w", err)
	}

	return &catalog, nil
}

// ValidateCatalog validates struct tags first, then the cross-field rules
func (ip *InputParser) ValidateCatalog(catalog *domain.Catalog) error {
	if err := ip.validate.Struct(catalog); err != nil {
		return FlattenValidation(err)
	}

	names := make(map[string]bool, len(catalog.Profiles)+1)
	for i, p := range catalog.Profiles {
		if err := ip.validateProfile(p); err != nil {
			return fmt.Errorf("profile %d (%s) validation failed: %w", i, p.Name, err)
		}
		if names[p.Name] {
			return fmt.Errorf("duplicate profile name %q", p.Name)
		}
		names[p.Name] = true
	}

	preservation := domain.DefaultCapitalPreservation()
	if catalog.CapitalPreservation != nil {
		if catalog.CapitalPreservation.Name != "" {
			preservation.Name = catalog.CapitalPreservation.Name
		}
		if catalog.CapitalPreservation.Rate < 0 {
			return fmt.Errorf("capital preservation rate cannot be negative")
		}
	}
	if names[preservation.Name] {
		return fmt.Errorf("profile name %q is reserved for capital preservation", preservation.Name)
	}
	names[preservation.Name] = true

	goalIDs := make(map[string]bool, len(catalog.Goals))
	for i, g := range catalog.Goals {
		if err := ip.validateGoal(g, names); err != nil {
			return fmt.Errorf("goal %d (%s) validation failed: %w", i, g.ID, err)
		}
		if goalIDs[g.ID] {
			return fmt.Errorf("duplicate goal id %q", g.ID)
		}
		goalIDs[g.ID] = true
	}

	return nil
}

func (ip *InputParser) validateProfile(p domain.RiskProfile) error {
	if p.Range.Lower > p.Range.Upper {
		return fmt.Errorf("range lower %.4f exceeds upper %.4f", p.Range.Lower, p.Range.Upper)
	}
	if p.ExpectedAnnualReturn < p.Range.Lower || p.ExpectedAnnualReturn > p.Range.Upper {
		return fmt.Errorf("expected return %.4f is outside range [%.4f, %.4f]",
			p.ExpectedAnnualReturn, p.Range.Lower, p.Range.Upper)
	}
	if p.Range.Lower <= -1 {
		return fmt.Errorf("range lower must be greater than -100%%")
	}
	return nil
}

func (ip *InputParser) validateGoal(g domain.Goal, profiles map[string]bool) error {
	if !g.FinalPrice.IsPositive() {
		return fmt.Errorf("final price must be positive")
	}
	if g.RecommendedStrategy != "" && !profiles[g.RecommendedStrategy] {
		return fmt.Errorf("recommended strategy %q: %w", g.RecommendedStrategy, domain.ErrUnknownProfile)
	}
	return nil
}

// FlattenValidation joins validator field errors into one readable message. Other errors pass through.
func FlattenValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, strings.Replace(fe.Param(), " ", " is ", 1))
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
