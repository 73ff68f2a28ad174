// Package tuistyles holds the lipgloss palette and styles shared by the TUI scenes and components.
package tuistyles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	ColorPrimary   = lipgloss.Color("#7C9CFF")
	ColorSecondary = lipgloss.Color("#A78BFA")
	ColorAccent    = lipgloss.Color("#F5C26B")
	ColorSuccess   = lipgloss.Color("#5FD39A")
	ColorDanger    = lipgloss.Color("#F2707A")
	ColorInfo      = lipgloss.Color("#67C8E8")

	ColorForeground = lipgloss.Color("#E6E6E6")
	ColorMuted      = lipgloss.Color("#8A8F98")
	ColorBorder     = lipgloss.Color("#3D4350")
)

// SeriesColors cycles through chart lines, one per profile.
var SeriesColors = []lipgloss.Color{
	lipgloss.Color("#7C9CFF"),
	lipgloss.Color("#5FD39A"),
	lipgloss.Color("#F5C26B"),
	lipgloss.Color("#F2707A"),
	lipgloss.Color("#A78BFA"),
}

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	StatusKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	ActiveBorderStyle = BorderStyle.
				BorderForeground(ColorPrimary)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	UnselectedItemStyle = lipgloss.NewStyle().
				Foreground(ColorForeground)

	MetricLabelStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	MetricValueStyle = lipgloss.NewStyle().
				Foreground(ColorForeground).
				Bold(true)

	ParameterLabelStyle = lipgloss.NewStyle().
				Foreground(ColorForeground)

	ParameterValueStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)

	SliderTrackStyle = lipgloss.NewStyle().Foreground(ColorBorder)
	SliderThumbStyle = lipgloss.NewStyle().Foreground(ColorPrimary)

	HelpKeyStyle  = lipgloss.NewStyle().Foreground(ColorAccent)
	HelpDescStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorDanger).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)
)

// SeriesColor returns the chart color for the i-th series.
func SeriesColor(i int) lipgloss.Color {
	return SeriesColors[i%len(SeriesColors)]
}

// FormatCurrency renders money for compact TUI display.
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
