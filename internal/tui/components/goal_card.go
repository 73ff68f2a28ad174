package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/tui/tuistyles"
)

// GoalCard displays a catalog goal
type GoalCard struct {
	Goal       domain.Goal
	Highlights []string
	IsSelected bool
	Width      int
}

// NewGoalCard creates a card for the goal with its price and recommended profile as highlights.
func NewGoalCard(goal domain.Goal) *GoalCard {
	c := &GoalCard{Goal: goal, Width: 50}
	c.AddHighlight("Price " + tuistyles.FormatCurrency(goal.FinalPrice))
	if goal.RecommendedStrategy != "" {
		c.AddHighlight("Recommended: " + goal.RecommendedStrategy)
	}
	if goal.EstimatedMonths > 0 {
		c.AddHighlight(fmt.Sprintf("Typically %d months", goal.EstimatedMonths))
	}
	return c
}

// AddHighlight adds a key fact
func (c *GoalCard) AddHighlight(highlight string) *GoalCard {
	c.Highlights = append(c.Highlights, highlight)
	return c
}

// SetSelected marks the card as selected
func (c *GoalCard) SetSelected(selected bool) *GoalCard {
	c.IsSelected = selected
	return c
}

// WithWidth sets the card width
func (c *GoalCard) WithWidth(width int) *GoalCard {
	c.Width = width
	return c
}

// Render returns the styled goal card
func (c *GoalCard) Render() string {
	var content strings.Builder

	content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Goal.Title))
	content.WriteString("\n")
	if c.Goal.Category != "" {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render("→ " + c.Goal.Category))
		content.WriteString("\n")
	}
	if c.Goal.Description != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorForeground).Render(c.Goal.Description))
		content.WriteString("\n")
	}
	if len(c.Highlights) > 0 {
		content.WriteString("\n")
		highlightStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
		for _, h := range c.Highlights {
			content.WriteString(highlightStyle.Render("• " + h))
			content.WriteString("\n")
		}
	}

	border := tuistyles.ColorBorder
	if c.IsSelected {
		border = tuistyles.ColorPrimary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(c.Width).
		Render(strings.TrimRight(content.String(), "\n"))
}

// RenderCompact returns a compact single-line version
func (c *GoalCard) RenderCompact() string {
	parts := []string{
		lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Goal.Title),
		lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("(" + c.Goal.ID + ")"),
	}
	if len(c.Highlights) > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("• "+c.Highlights[0]))
	}
	return strings.Join(parts, " ")
}

// GoalListCompact renders a compact list for selection menus
func GoalListCompact(cards []*GoalCard, selectedIndex int) string {
	if len(cards) == 0 {
		return tuistyles.InfoStyle.Render("No goals in the catalog")
	}

	rendered := make([]string, len(cards))
	for i, card := range cards {
		prefix, style := "  ", tuistyles.UnselectedItemStyle
		if i == selectedIndex {
			prefix, style = "▸ ", tuistyles.SelectedItemStyle
		}
		rendered[i] = style.Render(prefix + card.RenderCompact())
	}
	return strings.Join(rendered, "\n")
}
