package pipeline

import (
	"context"

	"talentbridge/internal/common"
)

// Filter scopes a paginated query. Ownership ids are combined with AND;
// a nil id leaves that dimension unscoped.
type Filter struct {
	RecruiterID *common.UUID
	CandidateID *common.UUID
	CompanyID   *common.UUID
	Search      string
	Page        int
	Limit       int
}

type Page struct {
	Data       []Application
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

type Repository interface {
	FindPaginated(ctx context.Context, filter Filter) (*Page, error)
	FindByID(ctx context.Context, id common.UUID) (*Application, error)
	// TransitionStage moves the application from fromStage to toStage only if
	// it is still at fromStage (compare-and-swap); a concurrent transition
	// surfaces as a conflict error.
	TransitionStage(ctx context.Context, id common.UUID, fromStage, toStage Stage, actorID common.UUID, notes string) (*Application, error)
}
