package tui

// Scene represents different screens in the TUI
type Scene int

const (
	SceneGoals Scene = iota
	ScenePlan
	SceneProgress
	SceneHelp
)

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneGoals:
		return "Goals"
	case ScenePlan:
		return "Plan"
	case SceneProgress:
		return "Progress"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// TickMsg advances the spinner while a commit is in flight
type TickMsg struct{}
