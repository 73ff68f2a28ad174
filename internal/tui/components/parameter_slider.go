package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/goalfund/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// ParameterSlider adjusts one planning input: the monthly amount in fixed-payment mode or the
// number of months to the target date in fixed-date mode.
type ParameterSlider struct {
	Label     string
	Value     float64
	Min       float64
	Max       float64
	Step      float64
	Prefix    string // "$"
	Unit      string // " months"
	Format    string
	Width     int
	IsFocused bool
	Hint      string
}

// NewMonthlySlider adjusts a monthly contribution in whole currency units.
func NewMonthlySlider(value, max float64) *ParameterSlider {
	return &ParameterSlider{
		Label:  "Monthly contribution",
		Value:  value,
		Min:    0,
		Max:    max,
		Step:   5,
		Prefix: "$",
		Format: "%.0f",
		Width:  30,
	}
}

// NewMonthsSlider adjusts the number of months until the target date.
func NewMonthsSlider(value, max int) *ParameterSlider {
	return &ParameterSlider{
		Label:  "Months to target date",
		Value:  float64(value),
		Min:    1,
		Max:    float64(max),
		Step:   1,
		Unit:   " months",
		Format: "%.0f",
		Width:  30,
	}
}

// WithWidth sets the slider width
func (p *ParameterSlider) WithWidth(width int) *ParameterSlider {
	p.Width = width
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// WithHint adds help text shown under the bar
func (p *ParameterSlider) WithHint(hint string) *ParameterSlider {
	p.Hint = hint
	return p
}

// Increment increases the value by n steps, clamped to Max.
func (p *ParameterSlider) Increment(n int) {
	p.SetValue(p.Value + p.Step*float64(n))
}

// Decrement decreases the value by n steps, clamped to Min.
func (p *ParameterSlider) Decrement(n int) {
	p.SetValue(p.Value - p.Step*float64(n))
}

// SetValue sets the value directly, clamping to min/max
func (p *ParameterSlider) SetValue(value float64) {
	p.Value = math.Max(p.Min, math.Min(p.Max, value))
}

// Int returns the value rounded to a whole number.
func (p *ParameterSlider) Int() int {
	return int(math.Round(p.Value))
}

// Decimal returns the value as money.
func (p *ParameterSlider) Decimal() decimal.Decimal {
	return decimal.NewFromFloat(p.Value).Round(2)
}

// Percentage returns the value as a fraction of the range
func (p *ParameterSlider) Percentage() float64 {
	if p.Max == p.Min {
		return 0
	}
	return (p.Value - p.Min) / (p.Max - p.Min)
}

func (p *ParameterSlider) format(v float64) string {
	return p.Prefix + fmt.Sprintf(p.Format, v) + p.Unit
}

// Render returns the styled parameter slider
func (p *ParameterSlider) Render() string {
	var content strings.Builder

	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}
	content.WriteString(labelStyle.Render(p.Label))
	content.WriteString("  ")
	content.WriteString(valueStyle.Render(p.format(p.Value)))
	content.WriteString("\n")
	content.WriteString(p.renderSliderBar())

	rangeStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	content.WriteString("\n")
	content.WriteString(rangeStyle.Render(fmt.Sprintf("%s  ─  %s", p.format(p.Min), p.format(p.Max))))

	if p.Hint != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render(p.Hint))
	}
	if p.IsFocused {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorInfo).Italic(true).
			Render("← → to adjust • shift+← → for ×10"))
	}
	return content.String()
}

// renderSliderBar creates the visual slider bar
func (p *ParameterSlider) renderSliderBar() string {
	filled := int(math.Round(float64(p.Width) * p.Percentage()))
	if filled < 0 {
		filled = 0
	}
	if filled > p.Width {
		filled = p.Width
	}
	empty := p.Width - filled

	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	if filled > 1 {
		bar.WriteString(thumbStyle.Render(strings.Repeat("━", filled-1)))
	}
	bar.WriteString(thumbStyle.Render("●"))
	if empty > 1 {
		bar.WriteString(tuistyles.SliderTrackStyle.Render(strings.Repeat("─", empty-1)))
	}
	bar.WriteString("]")
	return bar.String()
}

// RenderCompact returns a compact single-line version
func (p *ParameterSlider) RenderCompact() string {
	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}
	return fmt.Sprintf("%s %s %s", labelStyle.Render(p.Label+":"), valueStyle.Render(p.format(p.Value)), p.renderMiniSliderBar(10))
}

func (p *ParameterSlider) renderMiniSliderBar(width int) string {
	filled := int(math.Round(float64(width) * p.Percentage()))

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < width; i++ {
		switch {
		case i == filled:
			bar.WriteString(tuistyles.SliderThumbStyle.Render("●"))
		case i < filled:
			bar.WriteString(tuistyles.SliderThumbStyle.Render("━"))
		default:
			bar.WriteString(tuistyles.SliderTrackStyle.Render("─"))
		}
	}
	bar.WriteString("]")
	return bar.String()
}
