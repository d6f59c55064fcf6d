package proposal

import (
	"talentbridge/internal/common"
	"talentbridge/internal/domain/pipeline"
)

// Type is the kind of proposal an application presents to a viewer.
type Type string

const (
	TypeJobOpportunity    Type = "job_opportunity"
	TypeSubmissionPending Type = "submission_pending"
	TypeApplicationReview Type = "application_review"
	TypeInterviewFeedback Type = "interview_feedback"
	TypeOfferResponse     Type = "offer_response"
	TypePlacement         Type = "placement"
	TypeClosed            Type = "closed"
)

// Party is the role expected to act next on a proposal.
type Party string

const (
	PartyCandidate Party = "candidate"
	PartyRecruiter Party = "recruiter"
	PartyCompany   Party = "company"
	PartyNone      Party = "none"
)

// Classify derives the proposal type and the pending party from the pipeline
// stage alone. The mapping is exhaustive over the known stages; an unmapped
// stage is a data drift bug and fails loudly instead of defaulting.
func Classify(stage pipeline.Stage) (Type, Party, error) {
	switch stage {
	case pipeline.StageRecruiterProposed:
		return TypeJobOpportunity, PartyCandidate, nil
	case pipeline.StageCandidateAccepted:
		return TypeSubmissionPending, PartyRecruiter, nil
	case pipeline.StageSubmitted:
		return TypeApplicationReview, PartyCompany, nil
	case pipeline.StageUnderReview:
		return TypeApplicationReview, PartyCompany, nil
	case pipeline.StageInterviewing:
		return TypeInterviewFeedback, PartyCompany, nil
	case pipeline.StageOfferExtended:
		return TypeOfferResponse, PartyCandidate, nil
	case pipeline.StagePlaced:
		return TypePlacement, PartyNone, nil
	case pipeline.StageDeclined:
		return TypeClosed, PartyNone, nil
	case pipeline.StageWithdrawn:
		return TypeClosed, PartyNone, nil
	default:
		return "", "", common.NewError(common.CodeInternal, "unclassified pipeline stage: "+string(stage), nil)
	}
}
