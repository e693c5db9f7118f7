package models

import "time"

// Role of an authenticated actor.
type Role string

const (
	Citizen       Role = "citizen"
	Administrator Role = "administrator"
)

// Actor is the identity performing a mutation, supplied by the auth layer.
type Actor struct {
	ID   string
	Role Role
}

// allowedTransitions is the complete lifecycle edge set. Rejected is reachable
// from every non-terminal state; nothing leaves a terminal state.
var allowedTransitions = map[IssueStatus]map[IssueStatus]bool{
	Reported:     {Acknowledged: true, Rejected: true},
	Acknowledged: {InProgress: true, Rejected: true},
	InProgress:   {Resolved: true, Rejected: true},
}

// CanTransition reports whether from -> to is a legal lifecycle edge.
func CanTransition(from, to IssueStatus) bool {
	return allowedTransitions[from][to]
}

// TransitionChange carries the optional side data an administrator may attach
// to a status move.
type TransitionChange struct {
	AssignedDepartment  *Department
	ResolutionNotes     string
	EstimatedResolution *time.Time
}

// Transition moves issue to target and applies the side effects defined for
// the entered state. It returns a new Issue and never mutates its input.
// Citizens may not call this; any request for an edge outside the allowed set,
// including a no-op re-request of the current status, is an error.
func Transition(issue Issue, target IssueStatus, actor Actor, change TransitionChange) (Issue, error) {
	if actor.Role != Administrator {
		return Issue{}, ErrUnauthorized
	}
	if !target.Valid() {
		return Issue{}, &InvalidEnumError{Field: "status", Value: string(target)}
	}
	if !CanTransition(issue.Status, target) {
		return Issue{}, &IllegalTransitionError{From: issue.Status, To: target}
	}

	next := issue
	next.Status = target

	switch target {
	case Acknowledged, InProgress:
		if change.AssignedDepartment != nil {
			next.AssignedDepartment = change.AssignedDepartment
		}
		if change.EstimatedResolution != nil {
			next.EstimatedResolution = change.EstimatedResolution
		}
	case Resolved:
		now := time.Now()
		next.ActualResolution = &now
		if change.ResolutionNotes != "" {
			next.ResolutionNotes = change.ResolutionNotes
		}
	case Rejected:
		// No actual_resolution for rejections.
		if change.ResolutionNotes != "" {
			next.ResolutionNotes = change.ResolutionNotes
		}
	}

	return next, nil
}
