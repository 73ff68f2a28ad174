package domain

import "errors"

var (
	// ErrUnknownProfile is returned when a profile name is not in the registry.
	ErrUnknownProfile = errors.New("unknown risk profile")
	// ErrUnknownGoal is returned when a goal id is not in the catalog.
	ErrUnknownGoal = errors.New("unknown goal")
	// ErrNotAchievable means this combination of goal and strategy cannot be funded.
	ErrNotAchievable = errors.New("this combination of goal and strategy isn't achievable - adjust your inputs")
	// ErrSuperseded is returned for a commit whose inputs were replaced before it finished.
	ErrSuperseded = errors.New("planning request superseded by newer inputs")
	// ErrDuplicateEvent marks a deposit event that was already applied.
	ErrDuplicateEvent = errors.New("deposit event already applied")
)

// PlanError carries the failing operation alongside the cause.
type PlanError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *PlanError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *PlanError) Unwrap() error {
	return e.Cause
}
