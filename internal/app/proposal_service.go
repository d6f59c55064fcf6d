package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"talentbridge/internal/common"
	"talentbridge/internal/domain/pipeline"
	"talentbridge/internal/domain/user"
	"talentbridge/internal/proposal"
)

// maxActionableBatch caps the unpaginated fetch behind the summary and
// actionable-list paths. Dashboard counts above this are clamped.
const maxActionableBatch = 500

const (
	StateActionable = "actionable"
	StateWaiting    = "waiting"
	StateCompleted  = "completed"
)

type ProposalService struct {
	repo     pipeline.Repository
	enricher *proposal.Enricher
	logger   *slog.Logger
	clock    func() time.Time
}

func NewProposalService(repo pipeline.Repository, enricher *proposal.Enricher, logger *slog.Logger) *ProposalService {
	return &ProposalService{repo: repo, enricher: enricher, logger: logger, clock: time.Now}
}

type ListFilters struct {
	State  string
	Search string
	Page   int
	Limit  int

	// Explicit ownership filters, honored for admins only.
	RecruiterID *common.UUID
	CandidateID *common.UUID
	CompanyID   *common.UUID
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type ListResult struct {
	Items []proposal.Proposal `json:"data"`
	// Pagination reflects the repository's unfiltered count for the requested
	// ownership scope. The state filter is applied after enrichment, so the
	// page window and Total are computed against the pre-filter population;
	// FilteredCount is the number of items that survived the state filter on
	// this page. Exact actionable counts come from Summary.
	Pagination    Pagination       `json:"pagination"`
	FilteredCount int              `json:"filtered_count"`
	Summary       proposal.Summary `json:"summary"`
}

// ListForUser resolves the caller's ownership scope, fetches one page of
// applications, enriches each into a proposal relative to the caller and
// applies the optional state filter. A malformed application is skipped and
// logged rather than failing the whole page.
func (s *ProposalService) ListForUser(ctx context.Context, userID common.UUID, role user.Role, filters ListFilters) (*ListResult, error) {
	state := strings.ToLower(strings.TrimSpace(filters.State))
	switch state {
	case "", StateActionable, StateWaiting, StateCompleted:
	default:
		return nil, common.NewValidationError("invalid state filter", map[string]string{"state": "state must be actionable, waiting, or completed"})
	}

	repoFilter, err := s.scopeFilter(userID, role, filters)
	if err != nil {
		return nil, err
	}
	repoFilter.Search = strings.TrimSpace(filters.Search)
	repoFilter.Page = filters.Page
	repoFilter.Limit = filters.Limit

	page, err := s.repo.FindPaginated(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	now := s.clock().UTC()
	enriched := make([]proposal.Proposal, 0, len(page.Data))
	for _, app := range page.Data {
		item, err := s.enricher.Enrich(app, userID, role, now)
		if err != nil {
			if common.Is(err, common.CodeUnprocessable) {
				s.logger.Warn("skipping unenrichable application", slog.String("application_id", app.ID.String()), slog.String("error", err.Error()))
				continue
			}
			return nil, err
		}
		enriched = append(enriched, *item)
	}

	filtered := filterByState(enriched, state)
	return &ListResult{
		Items: filtered,
		Pagination: Pagination{
			Page:       page.Page,
			Limit:      page.Limit,
			Total:      page.Total,
			TotalPages: page.TotalPages,
		},
		FilteredCount: len(filtered),
		Summary:       proposal.Summarize(enriched),
	}, nil
}

// GetActionableProposals returns every proposal in the caller's scope that the
// caller may act on right now, up to maxActionableBatch items. Used by
// dashboard badges that need an exact "needs your attention" count.
func (s *ProposalService) GetActionableProposals(ctx context.Context, userID common.UUID, role user.Role) ([]proposal.Proposal, error) {
	enriched, err := s.enrichScope(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	return filterByState(enriched, StateActionable), nil
}

// Summarize aggregates the caller's full scope into the four worklist counts.
func (s *ProposalService) Summarize(ctx context.Context, userID common.UUID, role user.Role) (proposal.Summary, error) {
	enriched, err := s.enrichScope(ctx, userID, role)
	if err != nil {
		return proposal.Summary{}, err
	}
	return proposal.Summarize(enriched), nil
}

// Accept moves a proposal forward along its accept transition.
func (s *ProposalService) Accept(ctx context.Context, proposalID, actorID common.UUID, actorRole user.Role, notes string) (*pipeline.Application, error) {
	return s.act(ctx, proposalID, actorID, actorRole, notes, acceptTarget)
}

// Decline closes a proposal along its decline transition.
func (s *ProposalService) Decline(ctx context.Context, proposalID, actorID common.UUID, actorRole user.Role, notes string) (*pipeline.Application, error) {
	return s.act(ctx, proposalID, actorID, actorRole, notes, declineTarget)
}

// act re-fetches the application and re-runs classification and permission
// against the current stage before every write. A caller holding a stale list
// view therefore gets a deterministic rejection instead of a double action;
// the repository's compare-and-swap closes the remaining window between the
// re-check and the write.
func (s *ProposalService) act(ctx context.Context, proposalID, actorID common.UUID, actorRole user.Role, notes string, target func(pipeline.Stage) (pipeline.Stage, bool)) (*pipeline.Application, error) {
	app, err := s.repo.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	_, pending, err := proposal.Classify(app.Stage)
	if err != nil {
		return nil, err
	}
	owners := proposal.OwnerIDs{
		RecruiterID: app.RecruiterID,
		CandidateID: app.CandidateID,
		CompanyID:   app.CompanyID,
	}
	if !proposal.CanAct(pending, owners, actorID, actorRole) {
		if pending == proposal.PartyNone {
			return nil, common.NewError(common.CodeForbidden, "this proposal was already resolved", nil)
		}
		return nil, common.NewError(common.CodeForbidden, "the proposal is pending action by the "+string(pending)+", not you", nil)
	}
	next, ok := target(app.Stage)
	if !ok {
		return nil, common.NewError(common.CodeConflict, "no such transition from stage "+string(app.Stage)+"; it may have been actioned by another user", nil)
	}
	return s.repo.TransitionStage(ctx, proposalID, app.Stage, next, actorID, notes)
}

func (s *ProposalService) enrichScope(ctx context.Context, userID common.UUID, role user.Role) ([]proposal.Proposal, error) {
	repoFilter, err := s.scopeFilter(userID, role, ListFilters{})
	if err != nil {
		return nil, err
	}
	repoFilter.Page = 1
	repoFilter.Limit = maxActionableBatch

	page, err := s.repo.FindPaginated(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	now := s.clock().UTC()
	enriched := make([]proposal.Proposal, 0, len(page.Data))
	for _, app := range page.Data {
		item, err := s.enricher.Enrich(app, userID, role, now)
		if err != nil {
			if common.Is(err, common.CodeUnprocessable) {
				s.logger.Warn("skipping unenrichable application", slog.String("application_id", app.ID.String()), slog.String("error", err.Error()))
				continue
			}
			return nil, err
		}
		enriched = append(enriched, *item)
	}
	return enriched, nil
}

// scopeFilter translates the caller's role into the ownership filter the
// repository query runs under. Admins are unscoped unless they pass explicit
// filters; everyone else is pinned to their own identity.
func (s *ProposalService) scopeFilter(userID common.UUID, role user.Role, filters ListFilters) (pipeline.Filter, error) {
	switch role {
	case user.RoleRecruiter:
		id := userID
		return pipeline.Filter{RecruiterID: &id}, nil
	case user.RoleCandidate:
		id := userID
		return pipeline.Filter{CandidateID: &id}, nil
	case user.RoleCompany:
		id := userID
		return pipeline.Filter{CompanyID: &id}, nil
	case user.RoleAdmin:
		return pipeline.Filter{
			RecruiterID: filters.RecruiterID,
			CandidateID: filters.CandidateID,
			CompanyID:   filters.CompanyID,
		}, nil
	default:
		return pipeline.Filter{}, common.NewError(common.CodeForbidden, "unknown role", nil)
	}
}

func filterByState(items []proposal.Proposal, state string) []proposal.Proposal {
	if state == "" {
		return items
	}
	filtered := make([]proposal.Proposal, 0, len(items))
	for _, item := range items {
		switch state {
		case StateActionable:
			if item.CanCurrentUserAct {
				filtered = append(filtered, item)
			}
		case StateWaiting:
			if item.PendingActionBy != proposal.PartyNone && !item.CanCurrentUserAct {
				filtered = append(filtered, item)
			}
		case StateCompleted:
			if item.PendingActionBy == proposal.PartyNone {
				filtered = append(filtered, item)
			}
		}
	}
	return filtered
}

func acceptTarget(stage pipeline.Stage) (pipeline.Stage, bool) {
	switch stage {
	case pipeline.StageRecruiterProposed:
		return pipeline.StageCandidateAccepted, true
	case pipeline.StageCandidateAccepted:
		return pipeline.StageSubmitted, true
	case pipeline.StageSubmitted:
		return pipeline.StageUnderReview, true
	case pipeline.StageUnderReview:
		return pipeline.StageInterviewing, true
	case pipeline.StageInterviewing:
		return pipeline.StageOfferExtended, true
	case pipeline.StageOfferExtended:
		return pipeline.StagePlaced, true
	default:
		return "", false
	}
}

func declineTarget(stage pipeline.Stage) (pipeline.Stage, bool) {
	switch stage {
	case pipeline.StageRecruiterProposed:
		return pipeline.StageDeclined, true
	case pipeline.StageCandidateAccepted:
		return pipeline.StageWithdrawn, true
	case pipeline.StageSubmitted, pipeline.StageUnderReview, pipeline.StageInterviewing, pipeline.StageOfferExtended:
		return pipeline.StageDeclined, true
	default:
		return "", false
	}
}
