package proposal

import (
	"strings"
	"time"

	"talentbridge/internal/common"
	"talentbridge/internal/domain/pipeline"
	"talentbridge/internal/domain/user"
)

type Badge struct {
	Text string `json:"text"`
	Tone string `json:"tone"`
}

// Proposal is the actor-relative view of an application. It is derived on
// every read and never persisted; its lifetime is the request that built it.
type Proposal struct {
	ID                common.UUID    `json:"id"`
	Type              Type           `json:"type"`
	Stage             pipeline.Stage `json:"stage"`
	PendingActionBy   Party          `json:"pending_action_by"`
	CanCurrentUserAct bool           `json:"can_current_user_act"`
	IsUrgent          bool           `json:"is_urgent"`
	IsOverdue         bool           `json:"is_overdue"`
	HoursRemaining    *float64       `json:"hours_remaining"`
	StatusBadge       Badge          `json:"status_badge"`

	Candidate pipeline.PartyRef `json:"candidate"`
	Recruiter pipeline.PartyRef `json:"recruiter"`
	Company   pipeline.PartyRef `json:"company"`
	Job       pipeline.JobRef   `json:"job"`

	ActionDueDate *time.Time `json:"action_due_date,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type Enricher struct {
	urgencyThreshold time.Duration
}

func NewEnricher(urgencyThreshold time.Duration) *Enricher {
	return &Enricher{urgencyThreshold: urgencyThreshold}
}

// Enrich builds the viewer-relative proposal for one application snapshot.
// The source application is not mutated. An application missing any of its
// four owner ids cannot be enriched and is rejected.
func (e *Enricher) Enrich(app pipeline.Application, viewerID common.UUID, viewerRole user.Role, now time.Time) (*Proposal, error) {
	if err := requireOwners(app); err != nil {
		return nil, err
	}
	proposalType, pending, err := Classify(app.Stage)
	if err != nil {
		return nil, err
	}
	urgency := EvaluateUrgency(app.ActionDueDate, now, e.urgencyThreshold)
	owners := OwnerIDs{
		RecruiterID: app.RecruiterID,
		CandidateID: app.CandidateID,
		CompanyID:   app.CompanyID,
	}
	return &Proposal{
		ID:                app.ID,
		Type:              proposalType,
		Stage:             app.Stage,
		PendingActionBy:   pending,
		CanCurrentUserAct: CanAct(pending, owners, viewerID, viewerRole),
		IsUrgent:          urgency.IsUrgent,
		IsOverdue:         urgency.IsOverdue,
		HoursRemaining:    urgency.HoursRemaining,
		StatusBadge:       badgeFor(pending),
		Candidate:         app.Candidate,
		Recruiter:         app.Recruiter,
		Company:           app.Company,
		Job:               app.Job,
		ActionDueDate:     app.ActionDueDate,
		Notes:             app.Notes,
		CreatedAt:         app.CreatedAt,
		UpdatedAt:         app.UpdatedAt,
	}, nil
}

// badgeFor is viewer-independent: it derives from the pending party only.
func badgeFor(pending Party) Badge {
	if pending == PartyNone {
		return Badge{Text: "Completed", Tone: "neutral"}
	}
	return Badge{Text: "Pending Response", Tone: "warning"}
}

func requireOwners(app pipeline.Application) error {
	var missing []string
	if app.RecruiterID.IsZero() {
		missing = append(missing, "recruiter_id")
	}
	if app.CandidateID.IsZero() {
		missing = append(missing, "candidate_id")
	}
	if app.CompanyID.IsZero() {
		missing = append(missing, "company_id")
	}
	if app.JobID.IsZero() {
		missing = append(missing, "job_id")
	}
	if len(missing) == 0 {
		return nil
	}
	return common.NewError(common.CodeUnprocessable, "application "+app.ID.String()+" is missing required parties: "+strings.Join(missing, ", "), nil)
}
