// Package tui is the interactive terminal front end: browse goals, compare profiles while moving
// the mode slider, commit to one and record deposits against it.
package tui

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/goalfund/internal/calculation"
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/logging"
	"github.com/rgehrsitz/goalfund/internal/milestone"
	"github.com/rgehrsitz/goalfund/internal/output"
	"github.com/rgehrsitz/goalfund/internal/planner"
	"github.com/rgehrsitz/goalfund/internal/simulation"
	"github.com/rgehrsitz/goalfund/internal/tui/components"
	"github.com/rgehrsitz/goalfund/internal/tui/scenes"
	"github.com/rgehrsitz/goalfund/internal/tui/tuimsg"
)

// Options wires the model to the planning core.
type Options struct {
	Catalog *domain.Catalog
	Engine  *calculation.CalculationEngine
	// Adapter refines commitments; nil uses the fixed-rate fallback.
	Adapter *simulation.Adapter
	Logger  logging.Logger
	// Today anchors every projection; zero means the current date.
	Today     time.Time
	ClientRef string
	// SaveDir receives <goal-id>.goal.json after a commit or deposit; empty disables saving.
	SaveDir string
}

// Model represents the entire application state
type Model struct {
	currentScene  Scene
	previousScene Scene

	width  int
	height int

	opts    Options
	log     logging.Logger
	tracker *milestone.Tracker
	session *planner.Session

	goalsModel    *scenes.GoalsModel
	planModel     *scenes.PlanModel
	progressModel *scenes.ProgressModel

	// commitSeq numbers commit requests; results carrying an older number are dropped.
	commitSeq  int
	committing bool
	spinner    *components.Spinner

	err error
}

// NewModel creates a new application model
func NewModel(opts Options) Model {
	if opts.Today.IsZero() {
		opts.Today = time.Now()
	}
	if opts.ClientRef == "" {
		opts.ClientRef = "local"
	}
	log := logging.OrNop(opts.Logger)

	m := Model{
		currentScene:  SceneGoals,
		opts:          opts,
		log:           log,
		tracker:       milestone.NewTracker(log),
		goalsModel:    scenes.NewGoalsModel(opts.Engine.Profiles),
		planModel:     scenes.NewPlanModel(opts.Engine.Profiles, opts.Today),
		progressModel: scenes.NewProgressModel(),
		spinner:       components.NewSpinner().WithMessage("Refining projection..."),
		width:         80,
		height:        24,
	}
	if opts.Catalog != nil {
		m.goalsModel.SetGoals(opts.Catalog.Goals)
	}
	return m
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("goalfund")
}

// commitCmd runs the commit off the update loop. The session reports ErrSuperseded when the
// mode or goal changed meanwhile.
func commitCmd(session *planner.Session, seq int, profile, clientRef string, today time.Time) tea.Cmd {
	return func() tea.Msg {
		c, err := session.Commit(context.Background(), profile, clientRef, today)
		return tuimsg.CommitCompleteMsg{Seq: seq, Commitment: c, Err: err}
	}
}

// depositCmd applies one deposit to the committed goal.
func depositCmd(tracker *milestone.Tracker, goal domain.UserGoal, amount decimal.Decimal, at time.Time) tea.Cmd {
	return func() tea.Msg {
		updated, events, err := tracker.ApplyDeposit(goal, domain.DepositEvent{
			ID:     milestone.NewID(at),
			Amount: amount,
			At:     at,
		})
		return tuimsg.DepositAppliedMsg{Goal: updated, Events: events, Err: err}
	}
}

// saveCmd writes the committed goal to dir.
func saveCmd(goal domain.UserGoal, dir string) tea.Cmd {
	if dir == "" {
		return nil
	}
	return func() tea.Msg {
		path := filepath.Join(dir, goal.Goal.ID+".goal.json")
		return tuimsg.SaveCompleteMsg{Path: path, Err: output.SaveUserGoal(&goal, path)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg { return TickMsg{} })
}
