package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/planner"
	"github.com/rgehrsitz/goalfund/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.goalsModel.SetSize(msg.Width, msg.Height)
		m.planModel.SetSize(msg.Width, msg.Height)
		m.progressModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		m.navigate(msg.Scene)
		return m, nil

	case tuimsg.ErrorMsg:
		m.err = msg.Err
		return m, nil

	case tuimsg.GoalSelectedMsg:
		// A new session makes any in-flight commit for the old goal stale.
		m.commitSeq++
		m.committing = false
		m.planModel.SetCommitting(false)
		m.session = planner.NewSession(m.opts.Engine, m.opts.Adapter, msg.Goal)
		m.planModel.SetSession(m.session)
		m.navigate(ScenePlan)
		return m, nil

	case tuimsg.CommitRequestedMsg:
		if m.session == nil {
			return m, nil
		}
		m.commitSeq++
		m.committing = true
		m.planModel.SetCommitting(true)
		return m, tea.Batch(
			commitCmd(m.session, m.commitSeq, msg.Profile, m.opts.ClientRef, m.opts.Today),
			tickCmd(),
		)

	case tuimsg.CommitCompleteMsg:
		return m.handleCommitComplete(msg)

	case tuimsg.DepositRequestedMsg:
		goal, ok := m.progressModel.Goal()
		if !ok {
			return m, nil
		}
		return m, depositCmd(m.tracker, goal, msg.Amount, m.opts.Today)

	case tuimsg.DepositAppliedMsg:
		if msg.Err != nil {
			m.progressModel.SetError(msg.Err)
			return m, nil
		}
		m.progressModel.ApplyResult(msg.Goal, msg.Events)
		return m, saveCmd(msg.Goal, m.opts.SaveDir)

	case tuimsg.SaveCompleteMsg:
		if msg.Err != nil {
			m.log.Errorf("saving plan to %s: %v", msg.Path, msg.Err)
			m.progressModel.SetError(msg.Err)
			return m, nil
		}
		m.progressModel.SetSaved(msg.Path)
		return m, nil

	case TickMsg:
		if !m.committing {
			return m, nil
		}
		m.spinner.Next()
		return m, tickCmd()
	}

	return m.updateCurrentScene(msg)
}

func (m Model) handleCommitComplete(msg tuimsg.CommitCompleteMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.commitSeq {
		return m, nil
	}
	m.committing = false
	m.planModel.SetCommitting(false)

	switch {
	case errors.Is(msg.Err, domain.ErrSuperseded):
		// The user changed the inputs while the commit was running.
		return m, nil
	case msg.Err != nil:
		m.err = msg.Err
		return m, nil
	}

	c := msg.Commitment
	m.log.Infof("committed %s to %s at %s/month", c.UserGoal.Goal.ID, c.UserGoal.Profile, c.UserGoal.MonthlyContribution)
	m.progressModel.SetCommitment(c.UserGoal, c.Completion)
	m.navigate(SceneProgress)
	return m, saveCmd(c.UserGoal, m.opts.SaveDir)
}

func (m *Model) navigate(scene Scene) {
	if scene == m.currentScene {
		return
	}
	m.previousScene = m.currentScene
	m.currentScene = scene
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.err != nil {
		m.err = nil
		return m, nil
	}
	// The deposit input owns the keyboard while it has focus.
	if m.currentScene == SceneProgress && m.progressModel.Editing() {
		return m.updateCurrentScene(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.navigate(SceneHelp)
		return m, nil
	case "esc":
		m.navigate(m.backScene())
		return m, nil
	case "1":
		m.navigate(SceneGoals)
		return m, nil
	case "2":
		m.navigate(ScenePlan)
		return m, nil
	case "3":
		m.navigate(SceneProgress)
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

func (m Model) backScene() Scene {
	switch m.currentScene {
	case SceneHelp:
		return m.previousScene
	case SceneProgress:
		return ScenePlan
	default:
		return SceneGoals
	}
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneGoals:
		m.goalsModel, cmd = m.goalsModel.Update(msg)
	case ScenePlan:
		m.planModel, cmd = m.planModel.Update(msg)
	case SceneProgress:
		m.progressModel, cmd = m.progressModel.Update(msg)
	}
	return m, cmd
}
