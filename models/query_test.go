package models

import (
	"testing"
	"time"
)

func sampleIssues() []Issue {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []Issue{
		{Title: "Deep pothole on Main St", Description: "tire damage", Status: Reported, Upvotes: 2, CreatedBy: "alice", CreatedDate: base},
		{Title: "Broken streetlight", Description: "dark corner", Status: Reported, Upvotes: 0, CreatedBy: "bob", CreatedDate: base.Add(time.Hour)},
		{Title: "Overflowing garbage bins", Description: "smell", Status: InProgress, Upvotes: 3, CreatedBy: "alice", CreatedDate: base.Add(2 * time.Hour)},
		{Title: "Blocked drain", Description: "flooding after rain", Status: Resolved, Upvotes: 1, CreatedBy: "carol", CreatedDate: base.Add(3 * time.Hour)},
		{Title: "Fallen sign", Description: "near the park", Status: Rejected, Upvotes: 0, CreatedBy: "alice", CreatedDate: base.Add(4 * time.Hour)},
	}
}

func TestSummarize_CountsAndVotes(t *testing.T) {
	// statuses [reported, reported, in_progress, resolved, rejected],
	// upvotes [2,0,3,1,0] -> totalUpvotes 6
	stats := Summarize(sampleIssues())

	want := SummaryStats{Total: 5, Reported: 2, Acknowledged: 0, InProgress: 1, Resolved: 1, Rejected: 1, TotalUpvotes: 6}
	if stats != want {
		t.Errorf("Summarize() = %+v, want %+v", stats, want)
	}
}

func TestSummarize_CountsSumToTotal(t *testing.T) {
	stats := Summarize(sampleIssues())
	sum := stats.Reported + stats.Acknowledged + stats.InProgress + stats.Resolved + stats.Rejected
	if sum != stats.Total {
		t.Errorf("per-status counts sum to %d, want total %d", sum, stats.Total)
	}
}

func TestSummarize_Empty(t *testing.T) {
	stats := Summarize(nil)
	if stats != (SummaryStats{}) {
		t.Errorf("Summarize(nil) = %+v, want zero stats", stats)
	}
}

func TestSearch_CaseInsensitive(t *testing.T) {
	issues := sampleIssues()

	got := Search(issues, "pothole")
	if len(got) != 1 || got[0].Title != "Deep pothole on Main St" {
		t.Fatalf("Search(pothole) = %d results, want the single pothole issue", len(got))
	}

	upper := Search(issues, "POTHOLE")
	if len(upper) != 1 || upper[0].Title != got[0].Title {
		t.Errorf("Search(POTHOLE) = %d results, want the same single result", len(upper))
	}
}

func TestSearch_MatchesDescription(t *testing.T) {
	got := Search(sampleIssues(), "flooding")
	if len(got) != 1 || got[0].Title != "Blocked drain" {
		t.Errorf("Search(flooding) = %d results, want the drain issue", len(got))
	}
}

func TestSearch_EmptyTermIsIdentity(t *testing.T) {
	issues := sampleIssues()
	got := Search(issues, "")
	if len(got) != len(issues) {
		t.Fatalf("Search(\"\") = %d results, want %d", len(got), len(issues))
	}
	for i := range issues {
		if got[i].Title != issues[i].Title {
			t.Errorf("order changed at %d: %q != %q", i, got[i].Title, issues[i].Title)
		}
	}
}

func TestFilterByStatus_AllIsIdentity(t *testing.T) {
	issues := sampleIssues()
	got := FilterByStatus(issues, StatusFilterAll)
	if len(got) != len(issues) {
		t.Fatalf("FilterByStatus(all) = %d results, want %d", len(got), len(issues))
	}
	for i := range issues {
		if got[i].Title != issues[i].Title {
			t.Errorf("order changed at %d", i)
		}
	}
}

func TestFilterByStatus_ExactMatch(t *testing.T) {
	got := FilterByStatus(sampleIssues(), "reported")
	if len(got) != 2 {
		t.Fatalf("FilterByStatus(reported) = %d results, want 2", len(got))
	}
	for _, issue := range got {
		if issue.Status != Reported {
			t.Errorf("issue %q has status %q", issue.Title, issue.Status)
		}
	}
}

func TestFilterByOwner_NewestFirst(t *testing.T) {
	got := FilterByOwner(sampleIssues(), "alice")
	if len(got) != 3 {
		t.Fatalf("FilterByOwner(alice) = %d results, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedDate.After(got[i-1].CreatedDate) {
			t.Errorf("not sorted newest first at index %d", i)
		}
	}
	if got[0].Title != "Fallen sign" {
		t.Errorf("first = %q, want the newest of alice's issues", got[0].Title)
	}
}

func TestFilters_ComposeByIntersection(t *testing.T) {
	issues := sampleIssues()

	// owner -> status -> search
	a := Search(FilterByStatus(FilterByOwner(issues, "alice"), "reported"), "pothole")
	// search -> owner -> status
	b := FilterByStatus(FilterByOwner(Search(issues, "pothole"), "alice"), "reported")

	if len(a) != 1 || len(b) != 1 || a[0].Title != b[0].Title {
		t.Errorf("filter composition order changed the result: %d vs %d", len(a), len(b))
	}
}

func TestFilters_DoNotMutateInput(t *testing.T) {
	issues := sampleIssues()
	FilterByOwner(issues, "alice")
	if issues[0].Title != "Deep pothole on Main St" || issues[4].Title != "Fallen sign" {
		t.Error("FilterByOwner reordered the input snapshot")
	}
}
