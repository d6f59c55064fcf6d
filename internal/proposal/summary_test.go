package proposal

import "testing"

func TestSummarizeUrgentBatch(t *testing.T) {
	hours := 12.0
	items := []Proposal{
		{PendingActionBy: PartyCandidate, CanCurrentUserAct: true, IsUrgent: true, HoursRemaining: &hours},
		{PendingActionBy: PartyCompany, CanCurrentUserAct: false},
	}
	summary := Summarize(items)
	if summary.UrgentCount != 1 {
		t.Fatalf("expected urgent_count=1, got %d", summary.UrgentCount)
	}
	if summary.OverdueCount != 0 {
		t.Fatalf("expected overdue_count=0, got %d", summary.OverdueCount)
	}
	if summary.ActionableCount != 1 {
		t.Fatalf("expected actionable_count=1, got %d", summary.ActionableCount)
	}
	if summary.WaitingCount != 1 {
		t.Fatalf("expected waiting_count=1, got %d", summary.WaitingCount)
	}
}

func TestSummarizeCountsOverlap(t *testing.T) {
	negative := -3.0
	items := []Proposal{
		{PendingActionBy: PartyRecruiter, CanCurrentUserAct: true, IsUrgent: true},
		{PendingActionBy: PartyRecruiter, CanCurrentUserAct: true, IsOverdue: true, HoursRemaining: &negative},
		{PendingActionBy: PartyNone},
	}
	summary := Summarize(items)
	if summary.ActionableCount != 2 {
		t.Fatalf("expected actionable_count=2, got %d", summary.ActionableCount)
	}
	if summary.UrgentCount != 1 || summary.OverdueCount != 1 {
		t.Fatalf("expected urgent=1 overdue=1, got urgent=%d overdue=%d", summary.UrgentCount, summary.OverdueCount)
	}
	if summary.WaitingCount != 0 {
		t.Fatalf("expected waiting_count=0, got %d", summary.WaitingCount)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	if summary != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
}
