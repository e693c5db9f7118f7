package models

import (
	"strings"
	"time"
)

// NewIssueInput is the validated shape of a citizen submission. Structural
// limits (max lengths) are enforced by the transport's binding tags; this
// layer owns required fields, enum membership and defaults.
type NewIssueInput struct {
	Title        string
	Description  string
	Category     string
	Priority     string
	Location     Location
	Photos       []string
	IsAnonymous  bool
	ContactEmail string
}

// ValidateNewIssue checks a submission and returns a normalized Issue with
// creation defaults applied. Pure: no ID or timestamps are assigned here.
func ValidateNewIssue(in NewIssueInput) (Issue, error) {
	if strings.TrimSpace(in.Title) == "" {
		return Issue{}, &MissingFieldError{Field: "title"}
	}
	if strings.TrimSpace(in.Description) == "" {
		return Issue{}, &MissingFieldError{Field: "description"}
	}
	if strings.TrimSpace(in.Category) == "" {
		return Issue{}, &MissingFieldError{Field: "category"}
	}
	if strings.TrimSpace(in.Location.Address) == "" {
		return Issue{}, &MissingFieldError{Field: "location.address"}
	}

	category := IssueCategory(in.Category)
	if !category.Valid() {
		return Issue{}, &InvalidEnumError{Field: "category", Value: in.Category}
	}

	priority := MediumPriority
	if in.Priority != "" {
		priority = IssuePriority(in.Priority)
		if !priority.Valid() {
			return Issue{}, &InvalidEnumError{Field: "priority", Value: in.Priority}
		}
	}

	// A contact email on an anonymous report would defeat the anonymity.
	contactEmail := in.ContactEmail
	if in.IsAnonymous {
		contactEmail = ""
	}

	photos := in.Photos
	if photos == nil {
		photos = []string{}
	}

	return Issue{
		Title:        in.Title,
		Description:  in.Description,
		Category:     category,
		Priority:     priority,
		Status:       Reported,
		Location:     in.Location,
		Photos:       photos,
		Upvotes:      0,
		UpvotedBy:    []string{},
		IsAnonymous:  in.IsAnonymous,
		ContactEmail: contactEmail,
	}, nil
}

// ValidateRating checks a citizen satisfaction rating against the issue state.
// Ratings exist only once an issue is resolved.
func ValidateRating(issue *Issue, rating int) error {
	if issue.Status != Resolved {
		return ErrNotResolved
	}
	if rating < 1 || rating > 5 {
		return &OutOfRangeError{Field: "citizen_rating"}
	}
	return nil
}

// ValidateDepartment checks an optional department assignment value.
func ValidateDepartment(value string) (*Department, error) {
	if value == "" {
		return nil, nil
	}
	d := Department(value)
	if !d.Valid() {
		return nil, &InvalidEnumError{Field: "assigned_department", Value: value}
	}
	return &d, nil
}

// ParseDate parses a YYYY-MM-DD date as used for resolution estimates.
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, &OutOfRangeError{Field: "estimated_resolution"}
	}
	return &t, nil
}
