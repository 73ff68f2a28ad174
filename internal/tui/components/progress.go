package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/milestone"
	"github.com/rgehrsitz/goalfund/internal/tui/tuistyles"
)

// FundingBar shows how much of a committed goal is funded, with tick marks at each milestone.
type FundingBar struct {
	Percent    float64
	Milestones [5]domain.Milestone
	Width      int
	Label      string
}

// NewFundingBar creates a bar for the goal. Percent is clamped to [0, 100].
func NewFundingBar(goal domain.UserGoal) *FundingBar {
	return &FundingBar{
		Percent:    milestone.DisplayPercent(goal),
		Milestones: goal.Milestones,
		Width:      40,
	}
}

// WithLabel sets the bar label
func (p *FundingBar) WithLabel(label string) *FundingBar {
	p.Label = label
	return p
}

// WithWidth sets the bar width
func (p *FundingBar) WithWidth(width int) *FundingBar {
	if width >= 10 {
		p.Width = width
	}
	return p
}

// IsComplete returns true if the goal is fully funded
func (p *FundingBar) IsComplete() bool {
	return p.Percent >= 100
}

// Render returns the styled bar
func (p *FundingBar) Render() string {
	var content strings.Builder

	if p.Label != "" {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorForeground).Bold(true).Render(p.Label))
		content.WriteString("\n")
	}

	filled := int(float64(p.Width) * p.Percent / 100)
	if filled > p.Width {
		filled = p.Width
	}

	cells := make([]string, p.Width)
	barStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess)
	emptyStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorBorder)
	for i := range cells {
		if i < filled {
			cells[i] = barStyle.Render("█")
		} else {
			cells[i] = emptyStyle.Render("░")
		}
	}
	// Milestone ticks sit under the bar so the fill stays readable.
	ticks := []rune(strings.Repeat(" ", p.Width))
	for _, m := range p.Milestones {
		if m.TargetPercent <= 0 || m.TargetPercent >= 100 {
			continue
		}
		x := p.Width * m.TargetPercent / 100
		if m.Achieved {
			ticks[x] = '▲'
		} else {
			ticks[x] = '△'
		}
	}

	content.WriteString("[")
	content.WriteString(strings.Join(cells, ""))
	content.WriteString("] ")
	content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary).Bold(true).Render(fmt.Sprintf("%.1f%%", p.Percent)))
	content.WriteString("\n ")
	content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorAccent).Render(string(ticks)))
	return content.String()
}

// MilestoneLadder lists the five milestones with their status.
type MilestoneLadder struct {
	Title      string
	Milestones [5]domain.Milestone
	Width      int
}

// NewMilestoneLadder creates a ladder for the goal
func NewMilestoneLadder(goal domain.UserGoal) *MilestoneLadder {
	return &MilestoneLadder{
		Title:      "Milestones",
		Milestones: goal.Milestones,
		Width:      44,
	}
}

// Render returns the styled ladder
func (l *MilestoneLadder) Render() string {
	var content strings.Builder
	if l.Title != "" {
		content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(l.Title))
		content.WriteString("\n\n")
	}

	nextMarked := false
	for _, m := range l.Milestones {
		status := "pending"
		switch {
		case m.Achieved:
			status = "complete"
		case !nextMarked:
			status = "next"
			nextMarked = true
		}
		line := fmt.Sprintf("%s %3d%%  %s", statusStyle(status).Render(statusIcon(status)), m.TargetPercent,
			tuistyles.FormatCurrency(m.TargetAmount))
		if m.AchievedDate != nil {
			line += lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).
				Render("  reached " + m.AchievedDate.Format("2006-01-02"))
		}
		content.WriteString(line)
		content.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 2).
		Width(l.Width).
		Render(strings.TrimRight(content.String(), "\n"))
}

func statusIcon(status string) string {
	switch status {
	case "complete":
		return "●"
	case "next":
		return "◐"
	default:
		return "○"
	}
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "complete":
		return lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess)
	case "next":
		return lipgloss.NewStyle().Foreground(tuistyles.ColorInfo)
	default:
		return lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	}
}

// Spinner represents an animated spinner for loading states
type Spinner struct {
	Frame   int
	Message string
}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{}
}

// WithMessage sets the spinner message
func (s *Spinner) WithMessage(message string) *Spinner {
	s.Message = message
	return s
}

// Next advances the spinner to the next frame
func (s *Spinner) Next() {
	s.Frame++
}

// Render returns the current spinner frame
func (s *Spinner) Render() string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	rendered := lipgloss.NewStyle().Foreground(tuistyles.ColorPrimary).Bold(true).Render(frames[s.Frame%len(frames)])
	if s.Message != "" {
		rendered += " " + lipgloss.NewStyle().Foreground(tuistyles.ColorForeground).Render(s.Message)
	}
	return rendered
}
