package pipeline

import (
	"time"

	"talentbridge/internal/common"
)

// Stage is the position of an application in the hiring pipeline.
type Stage string

const (
	StageRecruiterProposed Stage = "recruiter_proposed"
	StageCandidateAccepted Stage = "candidate_accepted"
	StageSubmitted         Stage = "submitted"
	StageUnderReview       Stage = "under_review"
	StageInterviewing      Stage = "interviewing"
	StageOfferExtended     Stage = "offer_extended"
	StagePlaced            Stage = "placed"
	StageDeclined          Stage = "declined"
	StageWithdrawn         Stage = "withdrawn"
)

func KnownStages() []Stage {
	return []Stage{
		StageRecruiterProposed,
		StageCandidateAccepted,
		StageSubmitted,
		StageUnderReview,
		StageInterviewing,
		StageOfferExtended,
		StagePlaced,
		StageDeclined,
		StageWithdrawn,
	}
}

// PartyRef is a denormalized display reference to a person or company.
// Used for rendering only, never for authorization decisions.
type PartyRef struct {
	ID   common.UUID `json:"id"`
	Name string      `json:"name"`
}

type JobRef struct {
	ID    common.UUID `json:"id"`
	Title string      `json:"title"`
}

type Application struct {
	ID    common.UUID `json:"id"`
	Stage Stage       `json:"stage"`

	RecruiterID common.UUID `json:"recruiter_id"`
	CandidateID common.UUID `json:"candidate_id"`
	CompanyID   common.UUID `json:"company_id"`
	JobID       common.UUID `json:"job_id"`

	ActionDueDate *time.Time `json:"action_due_date,omitempty"`

	Candidate PartyRef `json:"candidate"`
	Recruiter PartyRef `json:"recruiter"`
	Company   PartyRef `json:"company"`
	Job       JobRef   `json:"job"`

	Notes string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
