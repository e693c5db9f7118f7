package models

import (
	"errors"
	"testing"
)

var admin = Actor{ID: "admin-1", Role: Administrator}
var citizen = Actor{ID: "citizen-1", Role: Citizen}

func TestTransition_EdgeSet(t *testing.T) {
	statuses := []IssueStatus{Reported, Acknowledged, InProgress, Resolved, Rejected}
	legal := map[IssueStatus][]IssueStatus{
		Reported:     {Acknowledged, Rejected},
		Acknowledged: {InProgress, Rejected},
		InProgress:   {Resolved, Rejected},
	}

	for _, from := range statuses {
		allowed := map[IssueStatus]bool{}
		for _, to := range legal[from] {
			allowed[to] = true
		}
		for _, to := range statuses {
			issue := Issue{Status: from}
			_, err := Transition(issue, to, admin, TransitionChange{})
			if allowed[to] && err != nil {
				t.Errorf("%s -> %s: error = %v, want success", from, to, err)
			}
			if !allowed[to] {
				var illegal *IllegalTransitionError
				if !errors.As(err, &illegal) {
					t.Errorf("%s -> %s: error = %v, want IllegalTransitionError", from, to, err)
				} else if illegal.From != from || illegal.To != to {
					t.Errorf("%s -> %s: error carries (%s, %s)", from, to, illegal.From, illegal.To)
				}
			}
		}
	}
}

func TestTransition_SkipToResolvedIsIllegal(t *testing.T) {
	issue := Issue{Status: Reported}
	_, err := Transition(issue, Resolved, admin, TransitionChange{})
	var illegal *IllegalTransitionError
	if !errors.As(err, &illegal) {
		t.Fatalf("error = %v, want IllegalTransitionError", err)
	}
	if illegal.From != Reported || illegal.To != Resolved {
		t.Errorf("error carries (%s, %s), want (reported, resolved)", illegal.From, illegal.To)
	}
}

func TestTransition_SelfEdgeIsIllegal(t *testing.T) {
	// A no-op re-request is an error, not a silent success.
	issue := Issue{Status: Acknowledged}
	_, err := Transition(issue, Acknowledged, admin, TransitionChange{})
	var illegal *IllegalTransitionError
	if !errors.As(err, &illegal) {
		t.Errorf("error = %v, want IllegalTransitionError", err)
	}
}

func TestTransition_TerminalStatesAreFinal(t *testing.T) {
	for _, from := range []IssueStatus{Resolved, Rejected} {
		for _, to := range []IssueStatus{Reported, Acknowledged, InProgress, Resolved, Rejected} {
			_, err := Transition(Issue{Status: from}, to, admin, TransitionChange{})
			var illegal *IllegalTransitionError
			if !errors.As(err, &illegal) {
				t.Errorf("%s -> %s: error = %v, want IllegalTransitionError", from, to, err)
			}
		}
	}
}

func TestTransition_CitizenUnauthorized(t *testing.T) {
	issue := Issue{Status: InProgress}
	_, err := Transition(issue, Resolved, citizen, TransitionChange{})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
	if issue.ActualResolution != nil {
		t.Error("input issue was mutated by a failed transition")
	}
}

func TestTransition_ResolvedStampsActualResolution(t *testing.T) {
	issue := Issue{Status: InProgress}
	next, err := Transition(issue, Resolved, admin, TransitionChange{ResolutionNotes: "patched"})
	if err != nil {
		t.Fatalf("error = %v, want success", err)
	}
	if next.ActualResolution == nil {
		t.Error("actualResolution not set on entering resolved")
	}
	if next.ResolutionNotes != "patched" {
		t.Errorf("resolutionNotes = %q, want \"patched\"", next.ResolutionNotes)
	}
	if issue.ActualResolution != nil || issue.Status != InProgress {
		t.Error("input issue mutated; Transition must return a copy")
	}
}

func TestTransition_RejectedLeavesActualResolutionUnset(t *testing.T) {
	next, err := Transition(Issue{Status: Reported}, Rejected, admin, TransitionChange{ResolutionNotes: "duplicate report"})
	if err != nil {
		t.Fatalf("error = %v, want success", err)
	}
	if next.ActualResolution != nil {
		t.Error("actualResolution set on rejection, want unset")
	}
	if next.ResolutionNotes != "duplicate report" {
		t.Errorf("resolutionNotes = %q, want \"duplicate report\"", next.ResolutionNotes)
	}
}

func TestTransition_AcknowledgedMaySetDepartment(t *testing.T) {
	dept := PublicWorks
	next, err := Transition(Issue{Status: Reported}, Acknowledged, admin, TransitionChange{AssignedDepartment: &dept})
	if err != nil {
		t.Fatalf("error = %v, want success", err)
	}
	if next.AssignedDepartment == nil || *next.AssignedDepartment != PublicWorks {
		t.Errorf("assignedDepartment = %v, want public_works", next.AssignedDepartment)
	}

	// Absence is not an error.
	next, err = Transition(Issue{Status: Reported}, Acknowledged, admin, TransitionChange{})
	if err != nil {
		t.Fatalf("error = %v, want success without department", err)
	}
	if next.AssignedDepartment != nil {
		t.Errorf("assignedDepartment = %v, want nil", next.AssignedDepartment)
	}
}

func TestTransition_InvalidTargetStatus(t *testing.T) {
	_, err := Transition(Issue{Status: Reported}, IssueStatus("archived"), admin, TransitionChange{})
	var badEnum *InvalidEnumError
	if !errors.As(err, &badEnum) {
		t.Errorf("error = %v, want InvalidEnumError", err)
	}
}
