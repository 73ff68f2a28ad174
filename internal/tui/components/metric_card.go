package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/output"
	"github.com/rgehrsitz/goalfund/internal/tui/tuistyles"
)

// MetricCard displays a single metric with label, value and optional description
type MetricCard struct {
	Label       string
	Value       string
	Description string
	Width       int
	Highlighted bool
	Dimmed      bool
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 26,
	}
}

// NewProfileCard summarizes one profile's projection: the payment in fixed-date mode or the
// duration and band in fixed-payment mode.
func NewProfileCard(profile domain.RiskProfile, proj domain.ProfileProjection, mode domain.ModeKind) *MetricCard {
	card := NewMetricCard(profile.DisplayName(), "")
	switch mode {
	case domain.ModeFixedDate:
		card.Value = output.FormatCurrency(proj.MonthlyPayment) + "/mo"
		card.Description = fmt.Sprintf("%s at %s", output.FormatMonths(proj.Months), output.FormatRate(profile.ExpectedAnnualReturn))
	default:
		card.Value = output.FormatMonths(proj.Months)
		card.Description = output.FormatRate(profile.ExpectedAnnualReturn)
		if band := output.FormatBand(proj); band != "" {
			card.Description += " • " + band + " mo"
		}
	}
	return card
}

// WithDescription adds a description/subtitle
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// SetHighlighted marks the card as the current selection
func (m *MetricCard) SetHighlighted(on bool) *MetricCard {
	m.Highlighted = on
	return m
}

// SetDimmed renders a card for a profile hidden from the chart
func (m *MetricCard) SetDimmed(on bool) *MetricCard {
	m.Dimmed = on
	return m
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	label := tuistyles.MetricLabelStyle.Render(m.Label)
	value := tuistyles.MetricValueStyle.Render(m.Value)
	if m.Dimmed {
		value = tuistyles.MetricLabelStyle.Render(m.Value + " (hidden)")
	}

	content := label + "\n" + value
	if m.Description != "" {
		content += "\n" + lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(m.Description)
	}

	border := tuistyles.ColorBorder
	if m.Highlighted {
		border = tuistyles.ColorPrimary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// RenderCompact returns a compact inline version without border
func (m *MetricCard) RenderCompact() string {
	return tuistyles.MetricLabelStyle.Render(m.Label+":") + " " + tuistyles.MetricValueStyle.Render(m.Value)
}

// MetricGrid renders multiple metric cards in a grid layout
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	var rows, current []string
	for i, card := range cards {
		current = append(current, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, current...))
			current = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
