package app

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"talentbridge/internal/common"
	"talentbridge/internal/domain/pipeline"
	"talentbridge/internal/domain/user"
	"talentbridge/internal/proposal"
)

type fakeApplicationRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*pipeline.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{byID: make(map[common.UUID]*pipeline.Application)}
}

func (r *fakeApplicationRepo) add(app pipeline.Application) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := app
	r.byID[app.ID] = &stored
}

func (r *fakeApplicationRepo) FindPaginated(ctx context.Context, filter pipeline.Filter) (*pipeline.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []pipeline.Application
	for _, app := range r.byID {
		if filter.RecruiterID != nil && app.RecruiterID != *filter.RecruiterID {
			continue
		}
		if filter.CandidateID != nil && app.CandidateID != *filter.CandidateID {
			continue
		}
		if filter.CompanyID != nil && app.CompanyID != *filter.CompanyID {
			continue
		}
		matched = append(matched, *app)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &pipeline.Page{Data: matched[start:end], Total: total, Page: page, Limit: limit, TotalPages: totalPages}, nil
}

func (r *fakeApplicationRepo) FindByID(ctx context.Context, id common.UUID) (*pipeline.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	copied := *app
	return &copied, nil
}

func (r *fakeApplicationRepo) TransitionStage(ctx context.Context, id common.UUID, fromStage, toStage pipeline.Stage, actorID common.UUID, notes string) (*pipeline.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if app.Stage != fromStage {
		return nil, common.NewError(common.CodeConflict, "application moved from "+string(fromStage)+" to "+string(app.Stage)+" before this action was applied", nil)
	}
	app.Stage = toStage
	app.Notes = notes
	app.UpdatedAt = time.Now().UTC()
	copied := *app
	return &copied, nil
}

var serviceNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeApplicationRepo) *ProposalService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewProposalService(repo, proposal.NewEnricher(24*time.Hour), logger)
	service.clock = func() time.Time { return serviceNow }
	return service
}

func fixtureApplication(id string, stage pipeline.Stage, recruiterID, candidateID, companyID string) pipeline.Application {
	return pipeline.Application{
		ID:          common.UUID(id),
		Stage:       stage,
		RecruiterID: common.UUID(recruiterID),
		CandidateID: common.UUID(candidateID),
		CompanyID:   common.UUID(companyID),
		JobID:       common.UUID("job-1"),
		Candidate:   pipeline.PartyRef{ID: common.UUID(candidateID), Name: "Candidate"},
		Recruiter:   pipeline.PartyRef{ID: common.UUID(recruiterID), Name: "Recruiter"},
		Company:     pipeline.PartyRef{ID: common.UUID(companyID), Name: "Company"},
		Job:         pipeline.JobRef{ID: "job-1", Title: "Engineer"},
		CreatedAt:   serviceNow.Add(-24 * time.Hour),
		UpdatedAt:   serviceNow.Add(-1 * time.Hour),
	}
}

func TestListForUserScopesByRecruiter(t *testing.T) {
	repo := newFakeApplicationRepo()
	repo.add(fixtureApplication("app-1", pipeline.StageSubmitted, "rec-1", "cand-1", "comp-1"))
	repo.add(fixtureApplication("app-2", pipeline.StageSubmitted, "rec-2", "cand-2", "comp-1"))
	service := newTestService(repo)

	result, err := service.ListForUser(context.Background(), "rec-1", user.RoleRecruiter, ListFilters{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if result.Items[0].Recruiter.ID != "rec-1" {
		t.Fatalf("expected rec-1 ownership, got %s", result.Items[0].Recruiter.ID)
	}
	if result.Pagination.Total != 1 {
		t.Fatalf("expected total=1, got %d", result.Pagination.Total)
	}
}

func TestListForUserStateFilterKeepsPrefilterTotal(t *testing.T) {
	repo := newFakeApplicationRepo()
	// Candidate cand-1 must act on app-1 only; the rest of their scope is
	// waiting or completed.
	repo.add(fixtureApplication("app-1", pipeline.StageRecruiterProposed, "rec-1", "cand-1", "comp-1"))
	repo.add(fixtureApplication("app-2", pipeline.StageSubmitted, "rec-1", "cand-1", "comp-1"))
	repo.add(fixtureApplication("app-3", pipeline.StagePlaced, "rec-1", "cand-1", "comp-1"))
	service := newTestService(repo)

	result, err := service.ListForUser(context.Background(), "cand-1", user.RoleCandidate, ListFilters{State: StateActionable})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].ID != "app-1" {
		t.Fatalf("expected only app-1 actionable, got %+v", result.Items)
	}
	if result.FilteredCount != 1 {
		t.Fatalf("expected filtered_count=1, got %d", result.FilteredCount)
	}
	// Pagination keeps the repository's unfiltered count for the scope.
	if result.Pagination.Total != 3 {
		t.Fatalf("expected pre-filter total=3, got %d", result.Pagination.Total)
	}
}

func TestListForUserWaitingAndCompletedFilters(t *testing.T) {
	repo := newFakeApplicationRepo()
	repo.add(fixtureApplication("app-1", pipeline.StageRecruiterProposed, "rec-1", "cand-1", "comp-1"))
	repo.add(fixtureApplication("app-2", pipeline.StageSubmitted, "rec-1", "cand-1", "comp-1"))
	repo.add(fixtureApplication("app-3", pipeline.StageDeclined, "rec-1", "cand-1", "comp-1"))
	service := newTestService(repo)

	waiting, err := service.ListForUser(context.Background(), "cand-1", user.RoleCandidate, ListFilters{State: StateWaiting})
	if err != nil {
		t.Fatalf("list waiting: %v", err)
	}
	if len(waiting.Items) != 1 || waiting.Items[0].ID != "app-2" {
		t.Fatalf("expected app-2 waiting, got %+v", waiting.Items)
	}

	completed, err := service.ListForUser(context.Background(), "cand-1", user.RoleCandidate, ListFilters{State: StateCompleted})
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed.Items) != 1 || completed.Items[0].ID != "app-3" {
		t.Fatalf("expected app-3 completed, got %+v", completed.Items)
	}
}

func TestListForUserInvalidState(t *testing.T) {
	service := newTestService(newFakeApplicationRepo())
	_, err := service.ListForUser(context.Background(), "cand-1", user.RoleCandidate, ListFilters{State: "urgent"})
	if err == nil || !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListForUserSkipsMalformedApplication(t *testing.T) {
	repo := newFakeApplicationRepo()
	repo.add(fixtureApplication("app-1", pipeline.StageSubmitted, "rec-1", "cand-1", "comp-1"))
	broken := fixtureApplication("app-2", pipeline.StageSubmitted, "rec-1", "cand-1", "comp-1")
	broken.JobID = ""
	repo.add(broken)
	service := newTestService(repo)

	result, err := service.ListForUser(context.Background(), "comp-1", user.RoleCompany, ListFilters{})
	if err != nil {
		t.Fatalf("one malformed record must not fail the page: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].ID != "app-1" {
		t.Fatalf("expected only the well-formed item, got %+v", result.Items)
	}
}

func TestListForUserAdminUnscoped(t *testing.T) {
	repo := newFakeApplicationRepo()
	repo.add(fixtureApplication("app-1", pipeline.StageSubmitted, "rec-1", "cand-1", "comp-1"))
	repo.add(fixtureApplication("app-2", pipeline.StageSubmitted, "rec-2", "cand-2", "comp-2"))
	service := newTestService(repo)

	result, err := service.ListForUser(context.Background(), "admin-1", user.RoleAdmin, ListFilters{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected both items for admin, got %d", len(result.Items))
	}

	recID := common.UUID("rec-2")
	scoped, err := service.ListForUser(context.Background(), "admin-1", user.RoleAdmin, ListFilters{RecruiterID: &recID})
	if err != nil {
		t.Fatalf("list scoped: %v", err)
	}
	if len(scoped.Items) != 1 || scoped.Items[0].ID != "app-2" {
		t.Fatalf("expected admin filter to apply, got %+v", scoped.Items)
	}
}

func TestGetActionableProposals(t *testing.T) {
	repo := newFakeApplicationRepo()
	repo.add(fixtureApplication("app-1", pipeline.StageRecruiterProposed, "rec-1", "cand-1", "comp-1"))
	repo.add(fixtureApplication("app-2", pipeline.StageSubmitted, "rec-1", "cand-1", "comp-1"))
	service := newTestService(repo)

	items, err := service.GetActionableProposals(context.Background(), "cand-1", user.RoleCandidate)
	if err != nil {
		t.Fatalf("actionable: %v", err)
	}
	if len(items) != 1 || items[0].ID != "app-1" {
		t.Fatalf("expected only app-1, got %+v", items)
	}
}

func TestSummarize(t *testing.T) {
	repo := newFakeApplicationRepo()
	urgentDue := serviceNow.Add(12 * time.Hour)
	overdueDue := serviceNow.Add(-6 * time.Hour)

	urgent := fixtureApplication("app-1", pipeline.StageRecruiterProposed, "rec-1", "cand-1", "comp-1")
	urgent.ActionDueDate = &urgentDue
	repo.add(urgent)

	overdue := fixtureApplication("app-2", pipeline.StageOfferExtended, "rec-1", "cand-1", "comp-1")
	overdue.ActionDueDate = &overdueDue
	repo.add(overdue)

	repo.add(fixtureApplication("app-3", pipeline.StageSubmitted, "rec-1", "cand-1", "comp-1"))
	repo.add(fixtureApplication("app-4", pipeline.StagePlaced, "rec-1", "cand-1", "comp-1"))
	service := newTestService(repo)

	summary, err := service.Summarize(context.Background(), "cand-1", user.RoleCandidate)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.ActionableCount != 2 {
		t.Fatalf("expected actionable_count=2, got %d", summary.ActionableCount)
	}
	if summary.WaitingCount != 1 {
		t.Fatalf("expected waiting_count=1, got %d", summary.WaitingCount)
	}
	if summary.UrgentCount != 1 {
		t.Fatalf("expected urgent_count=1, got %d", summary.UrgentCount)
	}
	if summary.OverdueCount != 1 {
		t.Fatalf("expected overdue_count=1, got %d", summary.OverdueCount)
	}
}

func TestAcceptMovesStageForward(t *testing.T) {
	repo := newFakeApplicationRepo()
	repo.add(fixtureApplication("app-1", pipeline.StageRecruiterProposed, "rec-1", "cand-1", "comp-1"))
	service := newTestService(repo)

	updated, err := service.Accept(context.Background(), "app-1", "cand-1", user.RoleCandidate, "excited about this one")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if updated.Stage != pipeline.StageCandidateAccepted {
		t.Fatalf("expected candidate_accepted, got %s", updated.Stage)
	}
	if updated.Notes != "excited about this one" {
		t.Fatalf("expected notes persisted, got %q", updated.Notes)
	}
}

func TestDeclineTransitions(t *testing.T) {
	repo := newFakeApplicationRepo()
	repo.add(fixtureApplication("app-1", pipeline.StageRecruiterProposed, "rec-1", "cand-1", "comp-1"))
	repo.add(fixtureApplication("app-2", pipeline.StageCandidateAccepted, "rec-1", "cand-1", "comp-1"))
	service := newTestService(repo)

	declined, err := service.Decline(context.Background(), "app-1", "cand-1", user.RoleCandidate, "not interested")
	if err != nil {
		t.Fatalf("decline: %v", err)
	}
	if declined.Stage != pipeline.StageDeclined {
		t.Fatalf("expected declined, got %s", declined.Stage)
	}

	withdrawn, err := service.Decline(context.Background(), "app-2", "rec-1", user.RoleRecruiter, "candidate unavailable")
	if err != nil {
		t.Fatalf("decline submission: %v", err)
	}
	if withdrawn.Stage != pipeline.StageWithdrawn {
		t.Fatalf("expected withdrawn, got %s", withdrawn.Stage)
	}
}

func TestAcceptPermissionDenied(t *testing.T) {
	repo := newFakeApplicationRepo()
	repo.add(fixtureApplication("app-1", pipeline.StageRecruiterProposed, "rec-1", "cand-1", "comp-1"))
	service := newTestService(repo)

	_, err := service.Accept(context.Background(), "app-1", "other-user", user.RoleCandidate, "")
	if err == nil || !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	_, err = service.Accept(context.Background(), "app-1", "rec-1", user.RoleRecruiter, "")
	if err == nil || !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden for the wrong role, got %v", err)
	}
}

func TestAcceptTerminalStageRejected(t *testing.T) {
	repo := newFakeApplicationRepo()
	repo.add(fixtureApplication("app-1", pipeline.StagePlaced, "rec-1", "cand-1", "comp-1"))
	service := newTestService(repo)

	// Admins pass the permission check, so a terminal stage surfaces as an
	// invalid transition rather than a permission failure.
	_, err := service.Accept(context.Background(), "app-1", "admin-1", user.RoleAdmin, "")
	if err == nil || !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict for a terminal stage, got %v", err)
	}
}

func TestSecondAcceptLosesTheRace(t *testing.T) {
	repo := newFakeApplicationRepo()
	repo.add(fixtureApplication("app-1", pipeline.StageRecruiterProposed, "rec-1", "cand-1", "comp-1"))
	service := newTestService(repo)

	if _, err := service.Accept(context.Background(), "app-1", "cand-1", user.RoleCandidate, ""); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	// The stage is now candidate_accepted and pending the recruiter, so the
	// candidate's second attempt must be rejected on re-fetch, never applied.
	_, err := service.Accept(context.Background(), "app-1", "cand-1", user.RoleCandidate, "")
	if err == nil {
		t.Fatal("expected the second accept to fail")
	}
	if !common.Is(err, common.CodeForbidden) && !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected forbidden or conflict, got %v", err)
	}

	current, err := repo.FindByID(context.Background(), "app-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if current.Stage != pipeline.StageCandidateAccepted {
		t.Fatalf("stage must not advance twice, got %s", current.Stage)
	}
}

func TestTransitionStageCompareAndSwap(t *testing.T) {
	repo := newFakeApplicationRepo()
	repo.add(fixtureApplication("app-1", pipeline.StageSubmitted, "rec-1", "cand-1", "comp-1"))

	// A write validated against a stale stage must be rejected by the swap.
	_, err := repo.TransitionStage(context.Background(), "app-1", pipeline.StageRecruiterProposed, pipeline.StageCandidateAccepted, "cand-1", "")
	if err == nil || !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestActUnknownProposal(t *testing.T) {
	service := newTestService(newFakeApplicationRepo())
	_, err := service.Accept(context.Background(), "missing", "cand-1", user.RoleCandidate, "")
	if err == nil || !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
