package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the issue operations.
var (
	ErrUnauthorized  = errors.New("actor lacks administrator capability")
	ErrAlreadyVoted  = errors.New("voter has already upvoted this issue")
	ErrIssueNotFound = errors.New("issue not found")
	ErrNotResolved   = errors.New("issue is not resolved yet")
)

// MissingFieldError reports a required field absent from a payload.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// InvalidEnumError reports a value outside a field's closed enumeration.
type InvalidEnumError struct {
	Field string
	Value string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("invalid value %q for field %q", e.Value, e.Field)
}

// OutOfRangeError reports a numeric field outside its declared bounds.
type OutOfRangeError struct {
	Field string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("field %q is out of range", e.Field)
}

// IllegalTransitionError reports a status move not in the lifecycle edge set.
// Re-requesting the current status is illegal too: self-edges do not exist.
type IllegalTransitionError struct {
	From IssueStatus
	To   IssueStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition %s -> %s", e.From, e.To)
}
