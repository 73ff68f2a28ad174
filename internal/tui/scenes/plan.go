package scenes

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/goalfund/internal/calculation"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/output"
	"github.com/rgehrsitz/goalfund/internal/planner"
	"github.com/rgehrsitz/goalfund/internal/profiles"
	"github.com/rgehrsitz/goalfund/internal/tui/components"
	"github.com/rgehrsitz/goalfund/internal/tui/tuimsg"
	"github.com/rgehrsitz/goalfund/internal/tui/tuistyles"
)

const (
	defaultMonths = 12
	maxPlanMonths = 240
)

// PlanModel is the interactive planning scene: pick a mode, move the slider and compare every
// profile's projection and growth curve before committing to one.
type PlanModel struct {
	session  *planner.Session
	registry *profiles.Registry
	today    time.Time

	mode       domain.ModeKind
	months     *components.ParameterSlider
	monthly    *components.ParameterSlider
	selected   int
	hidden     map[string]bool
	plan       *calculation.Plan
	err        error
	committing bool

	width  int
	height int
}

// NewPlanModel creates the scene. It shows nothing until a session is set.
func NewPlanModel(registry *profiles.Registry, today time.Time) *PlanModel {
	return &PlanModel{
		registry: registry,
		today:    today,
		mode:     domain.ModeFixedDate,
		hidden:   map[string]bool{},
	}
}

// SetSession starts planning a new goal. The sliders start from the goal's typical duration.
func (m *PlanModel) SetSession(session *planner.Session) {
	m.session = session
	goal := session.Goal()

	months := goal.EstimatedMonths
	if months <= 0 {
		months = defaultMonths
	}
	months = min(months, maxPlanMonths)
	price := goal.FinalPrice.InexactFloat64()

	m.months = components.NewMonthsSlider(months, maxPlanMonths).WithWidth(40)
	m.monthly = components.NewMonthlySlider(math.Ceil(price/float64(months)), math.Ceil(price)).WithWidth(40)
	m.mode = domain.ModeFixedDate
	m.hidden = map[string]bool{}
	m.committing = false
	m.selected = 0
	for i, p := range m.registry.All() {
		if p.Name == goal.RecommendedStrategy {
			m.selected = i
		}
	}
	m.focusSlider()
	m.recompute()
}

// SetSize updates the scene dimensions
func (m *PlanModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetCommitting shows or clears the in-flight commit indicator
func (m *PlanModel) SetCommitting(on bool) {
	m.committing = on
}

// Plan returns the current plan, nil before a session is set or after an error.
func (m *PlanModel) Plan() *calculation.Plan {
	return m.plan
}

// Err returns the error from the last recompute.
func (m *PlanModel) Err() error {
	return m.err
}

// Mode returns the active projection mode for the slider position.
func (m *PlanModel) Mode() domain.ProjectionMode {
	if m.mode == domain.ModeFixedPayment {
		return domain.FixedPayment(m.monthly.Decimal())
	}
	target := time.Date(m.today.Year(), m.today.Month()+time.Month(m.months.Int()), 1, 0, 0, 0, 0, time.UTC)
	return domain.FixedDate(target)
}

// SelectedProfile returns the name of the highlighted profile.
func (m *PlanModel) SelectedProfile() string {
	all := m.registry.All()
	if m.selected >= 0 && m.selected < len(all) {
		return all[m.selected].Name
	}
	return ""
}

func (m *PlanModel) slider() *components.ParameterSlider {
	if m.mode == domain.ModeFixedPayment {
		return m.monthly
	}
	return m.months
}

func (m *PlanModel) focusSlider() {
	m.months.SetFocused(m.mode == domain.ModeFixedDate)
	m.monthly.SetFocused(m.mode == domain.ModeFixedPayment)
}

// recompute pushes the slider state into the session and refreshes the plan.
func (m *PlanModel) recompute() {
	if m.session == nil {
		return
	}
	if err := m.session.SetMode(m.Mode()); err != nil {
		m.plan, m.err = nil, err
		return
	}
	hidden := make(map[string]bool, len(m.hidden))
	for name, h := range m.hidden {
		hidden[name] = h
	}
	m.plan, m.err = m.session.Plan(m.today, calculation.TrajectoryOptions{
		Selected: m.SelectedProfile(),
		Hidden:   hidden,
	})
}

// Update handles messages for the plan scene
func (m *PlanModel) Update(msg tea.Msg) (*PlanModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.session == nil {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("m"))):
		if m.mode == domain.ModeFixedDate {
			m.mode = domain.ModeFixedPayment
		} else {
			m.mode = domain.ModeFixedDate
		}
		m.focusSlider()
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("right"))):
		m.slider().Increment(1)
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("left"))):
		m.slider().Decrement(1)
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("shift+right", "L"))):
		m.slider().Increment(10)
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("shift+left", "H"))):
		m.slider().Decrement(10)
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j", "tab"))):
		m.selected = (m.selected + 1) % m.registry.Len()
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k", "shift+tab"))):
		m.selected = (m.selected - 1 + m.registry.Len()) % m.registry.Len()
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("x", " "))):
		name := m.SelectedProfile()
		m.hidden[name] = !m.hidden[name]
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		return m, m.commit()
	default:
		return m, nil
	}
	m.recompute()
	return m, nil
}

// commit asks the root model to commit to the highlighted profile when it has a projection.
func (m *PlanModel) commit() tea.Cmd {
	if m.committing || m.plan == nil {
		return nil
	}
	profile := m.SelectedProfile()
	if _, ok := m.plan.Projection(profile); !ok {
		m.err = fmt.Errorf("%s: %w", profile, domain.ErrNotAchievable)
		return nil
	}
	return func() tea.Msg { return tuimsg.CommitRequestedMsg{Profile: profile} }
}

// View renders the plan scene
func (m *PlanModel) View() string {
	if m.session == nil {
		return "No goal selected.\n\nPick a goal from the list first."
	}
	goal := m.session.Goal()

	var content strings.Builder
	content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).
		Render(fmt.Sprintf("%s  %s", goal.Title, tuistyles.FormatCurrency(goal.FinalPrice))))
	content.WriteString("\n")
	content.WriteString(tuistyles.SubtitleStyle.Render(output.DescribeMode(m.Mode())))
	content.WriteString("\n\n")
	content.WriteString(m.slider().Render())
	content.WriteString("\n\n")
	content.WriteString(m.renderCards())

	if m.err != nil {
		content.WriteString("\n")
		content.WriteString(tuistyles.ErrorStyle.Render(m.err.Error()))
	}
	if m.plan != nil && len(m.plan.Projections) > 0 {
		content.WriteString("\n\n")
		content.WriteString(m.renderChart())
	}
	if m.committing {
		content.WriteString("\n\n")
		content.WriteString(tuistyles.InfoStyle.Render("Committing..."))
	}

	content.WriteString("\n\n")
	content.WriteString("m mode • ←/→ adjust • ↑/↓ profile • x hide • Enter commit • ESC back")
	return content.String()
}

func (m *PlanModel) renderCards() string {
	all := m.registry.All()
	cards := make([]*components.MetricCard, 0, len(all))
	for i, p := range all {
		var card *components.MetricCard
		if proj, ok := m.planProjection(p.Name); ok {
			card = components.NewProfileCard(p, proj, m.mode)
		} else {
			card = components.NewMetricCard(p.DisplayName(), "not achievable")
		}
		card.SetHighlighted(i == m.selected).SetDimmed(m.hidden[p.Name])
		cards = append(cards, card)
	}
	columns := 4
	if m.width > 0 {
		columns = max(1, m.width/28)
	}
	return components.MetricGrid(cards, columns)
}

func (m *PlanModel) planProjection(name string) (domain.ProfileProjection, bool) {
	if m.plan == nil {
		return domain.ProfileProjection{}, false
	}
	return m.plan.Projection(name)
}

func (m *PlanModel) renderChart() string {
	all := m.registry.All()
	order := make([]string, 0, len(all))
	labels := make(map[string]string, len(all))
	for _, p := range all {
		order = append(order, p.Name)
		labels[p.Name] = p.DisplayName()
	}
	chart := components.FromTrajectory(
		fmt.Sprintf("Projected growth over %s", output.FormatMonths(m.plan.Horizon)),
		m.plan.Trajectory, order, labels,
	).WithTarget(m.plan.Goal.FinalPrice.InexactFloat64())
	if m.width > 0 {
		chart.WithSize(m.width-4, 14)
	}
	return chart.Render()
}
