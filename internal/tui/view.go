package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/goalfund/internal/tui/tuistyles"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderApp(tuistyles.ErrorStyle.Render(fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err)))
	}

	var content string
	switch m.currentScene {
	case SceneGoals:
		content = m.goalsModel.View()
	case ScenePlan:
		content = m.planModel.View()
		if m.committing {
			content += "\n\n" + m.spinner.Render()
		}
	case SceneProgress:
		content = m.progressModel.View()
	case SceneHelp:
		content = renderHelp()
	default:
		content = "Unknown scene"
	}
	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentHeight := m.height - 4
	if contentHeight < 0 {
		contentHeight = 0
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		lipgloss.NewStyle().Height(contentHeight).Render(content),
		m.renderStatusBar(),
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := tuistyles.TitleStyle.Render("goalfund - savings goal planner")

	crumb := m.currentScene.String()
	if m.session != nil {
		crumb += " / " + m.session.Goal().Title
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, tuistyles.SubtitleStyle.Render(crumb))
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("1", "goals"),
		formatShortcut("2", "plan"),
		formatShortcut("3", "progress"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	statusText := strings.Join(shortcuts, " • ")

	right := "as of " + m.opts.Today.Format("2006-01-02")
	if spacer := m.width - lipgloss.Width(statusText) - lipgloss.Width(right) - 4; spacer > 0 {
		statusText += strings.Repeat(" ", spacer) + tuistyles.SubtitleStyle.Render(right)
	}
	return tuistyles.StatusBarStyle.Width(m.width).Render(statusText)
}

func formatShortcut(key, desc string) string {
	return tuistyles.StatusKeyStyle.Render(key) + " " + desc
}

func renderHelp() string {
	return tuistyles.BorderStyle.Render(`goalfund - plan and track savings goals

KEYBOARD SHORTCUTS:
  1        Goals
  2        Plan the selected goal
  3        Progress of the committed goal
  ?        Show this help
  ESC      Go back
  q/Ctrl+C Quit

PLAN:
  m            Switch between fixed date and fixed payment
  ←/→          Adjust the slider (shift for ×10)
  ↑/↓, Tab     Highlight a profile
  x            Hide or show the profile on the chart
  Enter        Commit to the highlighted profile

PROGRESS:
  d            Record a deposit (negative for a withdrawal)`)
}
