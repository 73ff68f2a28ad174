package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/milestone"
	"github.com/rgehrsitz/goalfund/internal/output"
	"github.com/rgehrsitz/goalfund/internal/simulation"
	"github.com/rgehrsitz/goalfund/internal/tui/components"
	"github.com/rgehrsitz/goalfund/internal/tui/tuimsg"
	"github.com/rgehrsitz/goalfund/internal/tui/tuistyles"
)

// maxEventLog bounds the recent milestone list shown under the ladder.
const maxEventLog = 6

// ProgressModel shows a committed goal and records deposits against it.
type ProgressModel struct {
	goal       *domain.UserGoal
	completion *simulation.Completion
	events     []milestone.Event
	input      textinput.Model
	editing    bool
	savedPath  string
	err        error
	width      int
	height     int
}

// NewProgressModel creates a new progress scene model
func NewProgressModel() *ProgressModel {
	ti := textinput.New()
	ti.Placeholder = "e.g. 250 or -100"
	ti.CharLimit = 12
	ti.Width = 20

	return &ProgressModel{input: ti}
}

// SetCommitment shows a freshly committed goal and clears the event log.
func (m *ProgressModel) SetCommitment(goal domain.UserGoal, completion *simulation.Completion) {
	m.goal = &goal
	m.completion = completion
	m.events = nil
	m.err = nil
	m.savedPath = ""
}

// ApplyResult folds a deposit result into the scene.
func (m *ProgressModel) ApplyResult(goal domain.UserGoal, events []milestone.Event) {
	m.goal = &goal
	m.err = nil
	m.events = append(m.events, events...)
	if len(m.events) > maxEventLog {
		m.events = m.events[len(m.events)-maxEventLog:]
	}
}

// SetError shows an error under the deposit input
func (m *ProgressModel) SetError(err error) {
	m.err = err
}

// SetSaved records where the plan was last written
func (m *ProgressModel) SetSaved(path string) {
	m.savedPath = path
}

// Goal returns the committed goal, if any
func (m *ProgressModel) Goal() (domain.UserGoal, bool) {
	if m.goal == nil {
		return domain.UserGoal{}, false
	}
	return *m.goal, true
}

// Completion returns the refined estimate made at commit time
func (m *ProgressModel) Completion() *simulation.Completion {
	return m.completion
}

// Editing reports whether the deposit input has focus; global shortcuts are suspended meanwhile.
func (m *ProgressModel) Editing() bool {
	return m.editing
}

// SetSize updates the model dimensions
func (m *ProgressModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the progress scene
func (m *ProgressModel) Update(msg tea.Msg) (*ProgressModel, tea.Cmd) {
	if m.goal == nil {
		return m, nil
	}
	if m.editing {
		return m.updateInput(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, key.NewBinding(key.WithKeys("d", "enter"))):
			m.editing = true
			m.err = nil
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m *ProgressModel) updateInput(msg tea.Msg) (*ProgressModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			amount, err := decimal.NewFromString(strings.TrimSpace(m.input.Value()))
			if err != nil || amount.IsZero() {
				m.err = fmt.Errorf("enter a non-zero amount")
				return m, nil
			}
			m.editing = false
			m.input.Blur()
			return m, func() tea.Msg { return tuimsg.DepositRequestedMsg{Amount: amount} }

		case tea.KeyEsc:
			m.editing = false
			m.input.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the progress scene
func (m *ProgressModel) View() string {
	if m.goal == nil {
		return "No committed goal yet.\n\nPlan a goal and press Enter on a profile to commit."
	}
	goal := *m.goal
	progress := milestone.Summarize(goal)

	var head strings.Builder
	head.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(goal.Goal.Title))
	head.WriteString("\n")
	head.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("%s • %s/mo • target %s",
		goal.Profile, tuistyles.FormatCurrency(goal.MonthlyContribution), goal.TargetDate.Format("2006-01"))))
	head.WriteString("\n\n")
	head.WriteString(components.NewFundingBar(goal).WithWidth(50).Render())
	head.WriteString("\n\n")

	metrics := []*components.MetricCard{
		components.NewMetricCard("Saved", tuistyles.FormatCurrency(progress.CurrentAmount)),
		components.NewMetricCard("Remaining", tuistyles.FormatCurrency(progress.Remaining)),
		components.NewMetricCard("Status", string(progress.Status)),
	}
	head.WriteString(components.MetricGrid(metrics, 3))

	right := m.renderCompletion()
	body := lipgloss.JoinHorizontal(lipgloss.Top, components.NewMilestoneLadder(goal).Render(), "  ", right)

	var content strings.Builder
	content.WriteString(head.String())
	content.WriteString("\n\n")
	content.WriteString(body)
	content.WriteString("\n\n")
	content.WriteString(m.renderEvents())

	if m.editing {
		content.WriteString("\n")
		content.WriteString(tuistyles.ParameterLabelStyle.Render("Deposit amount: "))
		content.WriteString(m.input.View())
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("Enter to record • ESC to cancel"))
	} else {
		content.WriteString("\n")
		content.WriteString("d deposit • ESC back")
	}
	if m.err != nil {
		content.WriteString("\n")
		content.WriteString(tuistyles.ErrorStyle.Render(m.err.Error()))
	}
	if m.savedPath != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("Saved to " + m.savedPath))
	}
	return content.String()
}

func (m *ProgressModel) renderEvents() string {
	if len(m.events) == 0 {
		return lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("No milestones reached this session")
	}
	lines := make([]string, len(m.events))
	for i, ev := range m.events {
		lines[i] = tuistyles.SuccessStyle.Render("✓ " + ev.String())
	}
	return strings.Join(lines, "\n")
}

func (m *ProgressModel) renderCompletion() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 2).
		Width(44)
	if m.completion == nil {
		return style.Render(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("No completion estimate"))
	}

	c := m.completion
	var content strings.Builder
	content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render("Completion estimate"))
	content.WriteString("\n\n")
	content.WriteString(fmt.Sprintf("%s at %s (%s)\n", output.FormatMonths(c.Months), output.FormatRate(c.AnnualRate), c.Source))
	content.WriteString(fmt.Sprintf("Projected %s • confidence %d\n", tuistyles.FormatCurrency(c.ProjectedValue), c.Confidence))
	for _, y := range c.YearByYear {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).
			Render(fmt.Sprintf("  year %d  %s", y.Year, tuistyles.FormatCurrency(y.Value))))
		content.WriteString("\n")
	}
	return style.Render(strings.TrimRight(content.String(), "\n"))
}
