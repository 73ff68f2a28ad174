package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/goalfund/internal/calculation"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/milestone"
	"github.com/rgehrsitz/goalfund/internal/simulation"
	"github.com/shopspring/decimal"
)

// Report is everything a formatter may render. Only the populated sections are printed.
type Report struct {
	GeneratedAt time.Time              `json:"generatedAt"`
	Plan        *calculation.Plan      `json:"plan,omitempty"`
	Profiles    []domain.RiskProfile   `json:"profiles,omitempty"`
	UserGoal    *domain.UserGoal       `json:"userGoal,omitempty"`
	Progress    *milestone.Progress    `json:"progress,omitempty"`
	Completion  *simulation.Completion `json:"completion,omitempty"`
	Events      []milestone.Event      `json:"events,omitempty"`
	Assumptions []string               `json:"assumptions,omitempty"`
}

// Label returns the display name of a profile, falling back to its key.
func (r *Report) Label(name string) string {
	for _, p := range r.Profiles {
		if p.Name == name {
			return p.DisplayName()
		}
	}
	return name
}

// ProfileNames returns the profiles present in the plan trajectory, in plan order.
func (r *Report) ProfileNames() []string {
	if r.Plan == nil {
		return nil
	}
	names := make([]string, 0, len(r.Plan.Projections))
	for _, p := range r.Plan.Projections {
		names = append(names, p.Profile)
	}
	return names
}

// GenerateReport renders the report in the named format to w
func GenerateReport(w io.Writer, report *Report, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unsupported format: %s (available: %s)", format, strings.Join(AvailableFormatterNames(), ", "))
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("formatting %s report: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// SaveUserGoal writes a committed goal to a JSON file so later deposits can be folded in
func SaveUserGoal(goal *domain.UserGoal, filename string) error {
	data, err := json.MarshalIndent(goal, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, append(data, '\n'), 0644)
}

// LoadUserGoal reads a goal previously written by SaveUserGoal
func LoadUserGoal(filename string) (*domain.UserGoal, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	var goal domain.UserGoal
	if err := json.Unmarshal(data, &goal); err != nil {
		return nil, fmt.Errorf("failed to parse goal file: %w", err)
	}
	return &goal, nil
}

// FormatCurrency formats a decimal as currency
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}

// FormatRate formats an annual fractional rate (0.075) as a percentage
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

// FormatMonths renders a month count as years and months
func FormatMonths(months int) string {
	y, m := months/12, months%12
	switch {
	case y == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dy", y)
	default:
		return fmt.Sprintf("%dy %dm", y, m)
	}
}

// FormatBand renders the fixed-payment duration band, with "never" for an unreachable bound
func FormatBand(p domain.ProfileProjection) string {
	if p.MonthsLowerBound == nil && p.MonthsUpperBound == nil {
		return ""
	}
	lower, upper := "never", "never"
	if p.MonthsLowerBound != nil {
		lower = fmt.Sprintf("%d", *p.MonthsLowerBound)
	}
	if p.MonthsUpperBound != nil {
		upper = fmt.Sprintf("%d", *p.MonthsUpperBound)
	}
	return lower + "-" + upper
}

// DescribeMode renders the projection mode for headers
func DescribeMode(mode domain.ProjectionMode) string {
	switch mode.Kind {
	case domain.ModeFixedDate:
		return "fixed date " + mode.TargetDate.Format("2006-01")
	case domain.ModeFixedPayment:
		return "fixed payment " + FormatCurrency(mode.MonthlyAmount) + "/month"
	default:
		return string(mode.Kind)
	}
}
