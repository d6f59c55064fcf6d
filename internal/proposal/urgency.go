package proposal

import "time"

type Urgency struct {
	IsUrgent       bool
	IsOverdue      bool
	HoursRemaining *float64
}

// EvaluateUrgency computes deadline state against an explicit now. Urgent and
// overdue are mutually exclusive: once past due an item is only overdue.
// A nil due date means the proposal has no deadline at all.
func EvaluateUrgency(dueDate *time.Time, now time.Time, threshold time.Duration) Urgency {
	if dueDate == nil {
		return Urgency{}
	}
	remaining := dueDate.Sub(now)
	hours := remaining.Hours()
	overdue := remaining <= 0
	return Urgency{
		IsUrgent:       !overdue && remaining <= threshold,
		IsOverdue:      overdue,
		HoursRemaining: &hours,
	}
}
