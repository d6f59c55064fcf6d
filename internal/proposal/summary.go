package proposal

type Summary struct {
	ActionableCount int `json:"actionable_count"`
	WaitingCount    int `json:"waiting_count"`
	UrgentCount     int `json:"urgent_count"`
	OverdueCount    int `json:"overdue_count"`
}

// Summarize counts four overlapping facets of a proposal batch. The counts
// are independent: one proposal may contribute to several of them.
func Summarize(items []Proposal) Summary {
	var summary Summary
	for _, item := range items {
		if item.CanCurrentUserAct {
			summary.ActionableCount++
		}
		if item.PendingActionBy != PartyNone && !item.CanCurrentUserAct {
			summary.WaitingCount++
		}
		if item.IsUrgent {
			summary.UrgentCount++
		}
		if item.IsOverdue {
			summary.OverdueCount++
		}
	}
	return summary
}
