package models

import (
	"sort"
	"strings"
)

// StatusFilterAll is the sentinel selector that matches every status.
const StatusFilterAll = "all"

// FilterByOwner returns the issues created by ownerID, newest first.
// The input slice is never modified.
func FilterByOwner(issues []Issue, ownerID string) []Issue {
	out := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.CreatedBy == ownerID {
			out = append(out, issue)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedDate.After(out[j].CreatedDate)
	})
	return out
}

// Search returns the issues whose title or description contains term,
// case-insensitively. An empty term returns the input unchanged.
func Search(issues []Issue, term string) []Issue {
	if term == "" {
		return issues
	}
	needle := strings.ToLower(term)
	out := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		if strings.Contains(strings.ToLower(issue.Title), needle) ||
			strings.Contains(strings.ToLower(issue.Description), needle) {
			out = append(out, issue)
		}
	}
	return out
}

// FilterByStatus returns the issues in exactly the given status. The "all"
// sentinel (or an empty selector) returns the input unchanged, same order.
func FilterByStatus(issues []Issue, status string) []Issue {
	if status == "" || status == StatusFilterAll {
		return issues
	}
	out := make([]Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.Status == IssueStatus(status) {
			out = append(out, issue)
		}
	}
	return out
}

// SummaryStats are the derived counters every dashboard view is built from.
type SummaryStats struct {
	Total        int `json:"total"`
	Reported     int `json:"reported"`
	Acknowledged int `json:"acknowledged"`
	InProgress   int `json:"inProgress"`
	Resolved     int `json:"resolved"`
	Rejected     int `json:"rejected"`
	TotalUpvotes int `json:"totalUpvotes"`
}

// Summarize computes SummaryStats over a snapshot. Status is always exactly
// one of the five values, so the per-status counts sum to Total.
func Summarize(issues []Issue) SummaryStats {
	stats := SummaryStats{Total: len(issues)}
	for _, issue := range issues {
		switch issue.Status {
		case Reported:
			stats.Reported++
		case Acknowledged:
			stats.Acknowledged++
		case InProgress:
			stats.InProgress++
		case Resolved:
			stats.Resolved++
		case Rejected:
			stats.Rejected++
		}
		stats.TotalUpvotes += issue.Upvotes
	}
	return stats
}
