// Package tuimsg holds the messages scenes send to the root model. It is separate from the tui
// package so scenes can emit them without an import cycle.
package tuimsg

import (
	"github.com/rgehrsitz/goalfund/internal/domain"
	"github.com/rgehrsitz/goalfund/internal/milestone"
	"github.com/rgehrsitz/goalfund/internal/planner"
	"github.com/shopspring/decimal"
)

// GoalSelectedMsg signals a catalog goal has been picked for planning
type GoalSelectedMsg struct {
	Goal domain.Goal
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// CommitRequestedMsg asks the root model to commit the session to a profile
type CommitRequestedMsg struct {
	Profile string
}

// CommitCompleteMsg carries the result of a commit. Seq identifies the request so a result
// from an earlier commit can be told apart.
type CommitCompleteMsg struct {
	Seq        int
	Commitment *planner.Commitment
	Err        error
}

// DepositRequestedMsg asks the root model to record a deposit (negative for a withdrawal)
type DepositRequestedMsg struct {
	Amount decimal.Decimal
}

// DepositAppliedMsg carries the updated goal and any milestones reached
type DepositAppliedMsg struct {
	Goal   domain.UserGoal
	Events []milestone.Event
	Err    error
}

// SaveCompleteMsg signals the committed plan has been written
type SaveCompleteMsg struct {
	Path string
	Err  error
}
