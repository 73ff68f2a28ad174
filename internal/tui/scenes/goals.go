package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/profiles"
	"github.com/rgehrsitz/goalfund/internal/tui/components"
	"github.com/rgehrsitz/goalfund/internal/tui/tuimsg"
	"github.com/rgehrsitz/goalfund/internal/tui/tuistyles"
)

// GoalsModel is the catalog browsing scene
type GoalsModel struct {
	goals         []domain.Goal
	registry      *profiles.Registry
	selectedIndex int
	cards         []*components.GoalCard
	width         int
	height        int
}

// NewGoalsModel creates a new goals scene model
func NewGoalsModel(registry *profiles.Registry) *GoalsModel {
	return &GoalsModel{registry: registry}
}

// SetGoals updates the goals list
func (m *GoalsModel) SetGoals(goals []domain.Goal) {
	m.goals = goals
	m.cards = make([]*components.GoalCard, 0, len(goals))
	for _, g := range goals {
		m.cards = append(m.cards, components.NewGoalCard(g))
	}
	if m.selectedIndex >= len(m.goals) {
		m.selectedIndex = 0
	}
}

// SetSize updates the scene dimensions
func (m *GoalsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Selected returns the highlighted goal
func (m *GoalsModel) Selected() (domain.Goal, bool) {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.goals) {
		return m.goals[m.selectedIndex], true
	}
	return domain.Goal{}, false
}

// Update handles messages for the goals scene
func (m *GoalsModel) Update(msg tea.Msg) (*GoalsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.selectedIndex < len(m.goals)-1 {
			m.selectedIndex++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("g"))):
		m.selectedIndex = 0
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("G"))):
		m.selectedIndex = max(0, len(m.goals)-1)
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		goal, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return tuimsg.GoalSelectedMsg{Goal: goal} }
	}
	return m, nil
}

// View renders the goals scene
func (m *GoalsModel) View() string {
	if len(m.goals) == 0 {
		return "No goals in the catalog.\n\nAdd goals to the catalog file and restart."
	}

	for i, card := range m.cards {
		card.SetSelected(i == m.selectedIndex)
	}

	listStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 2).
		Width(46)
	title := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).MarginBottom(1).Render("Goals")
	left := listStyle.Render(title + "\n" + components.GoalListCompact(m.cards, m.selectedIndex))

	content := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.renderDetails(m.goals[m.selectedIndex]))
	return content + "\n\n" + "↑/k up • ↓/j down • Enter plan • g top • G bottom"
}

// renderDetails shows the goal and the return assumptions it will be planned against.
func (m *GoalsModel) renderDetails(goal domain.Goal) string {
	labelStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground)

	var content strings.Builder
	content.WriteString(components.NewGoalCard(goal).WithWidth(56).Render())
	content.WriteString("\n\n")

	if m.registry != nil {
		content.WriteString(labelStyle.Render("Profiles:"))
		content.WriteString("\n")
		for _, p := range m.registry.All() {
			marker := "  "
			if p.Name == goal.RecommendedStrategy {
				marker = "★ "
			}
			line := fmt.Sprintf("%s%-22s %6.2f%%", marker, p.DisplayName(), p.ExpectedAnnualReturn*100)
			if p.HasBand() {
				line += fmt.Sprintf("  (%.1f%% to %.1f%%)", p.Range.Lower*100, p.Range.Upper*100)
			}
			content.WriteString(valueStyle.Render(line))
			content.WriteString("\n")
		}
	}

	content.WriteString("\n")
	content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorInfo).Italic(true).Render("Press Enter to plan this goal"))
	return content.String()
}
