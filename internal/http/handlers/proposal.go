package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"talentbridge/internal/app"
	"talentbridge/internal/common"
	"talentbridge/internal/domain/pipeline"
	"talentbridge/internal/domain/user"
	"talentbridge/internal/http/middleware"
	"talentbridge/internal/http/response"
)

type ProposalHandler struct {
	proposals *app.ProposalService
	limiter   middleware.Limiter
	maxLimit  int
}

func NewProposalHandler(proposals *app.ProposalService, limiter middleware.Limiter, maxLimit int) *ProposalHandler {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	return &ProposalHandler{proposals: proposals, limiter: limiter, maxLimit: maxLimit}
}

func (h *ProposalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filters := app.ListFilters{
		State:  query.Get("state"),
		Search: query.Get("search"),
		Page:   1,
		Limit:  20,
	}
	if value := query.Get("page"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 1 {
			response.Error(w, common.NewValidationError("invalid page", map[string]string{"page": "page must be >= 1"}))
			return
		}
		filters.Page = parsed
	}
	if value := query.Get("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 1 {
			response.Error(w, common.NewValidationError("invalid limit", map[string]string{"limit": "limit must be >= 1"}))
			return
		}
		if parsed > h.maxLimit {
			parsed = h.maxLimit
		}
		filters.Limit = parsed
	}

	if role == user.RoleAdmin {
		var err error
		if filters.RecruiterID, err = optionalUUID(query.Get("recruiter_id"), "recruiter_id"); err != nil {
			response.Error(w, err)
			return
		}
		if filters.CandidateID, err = optionalUUID(query.Get("candidate_id"), "candidate_id"); err != nil {
			response.Error(w, err)
			return
		}
		if filters.CompanyID, err = optionalUUID(query.Get("company_id"), "company_id"); err != nil {
			response.Error(w, err)
			return
		}
	}

	result, err := h.proposals.ListForUser(r.Context(), userID, role, filters)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *ProposalHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := callerFromContext(w, r)
	if !ok {
		return
	}
	summary, err := h.proposals.Summarize(r.Context(), userID, role)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, summary)
}

type actionRequest struct {
	Notes string `json:"notes"`
}

type actionFunc func(ctx context.Context, proposalID, actorID common.UUID, actorRole user.Role, notes string) (*pipeline.Application, error)

func (h *ProposalHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.proposals.Accept)
}

func (h *ProposalHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, h.proposals.Decline)
}

func (h *ProposalHandler) act(w http.ResponseWriter, r *http.Request, action actionFunc) {
	userID, role, ok := callerFromContext(w, r)
	if !ok {
		return
	}
	proposalID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req actionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "proposal-action:" + proposalID.String() + ":" + userID.String()
		if !h.limiter.Allow(key, 5, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "action rate limit exceeded", nil))
			return
		}
		ipKey := "proposal-action:ip:" + middleware.ClientIP(r)
		if !h.limiter.Allow(ipKey, 30, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "action rate limit exceeded", nil))
			return
		}
	}
	updated, err := action(r.Context(), proposalID, userID, role, strings.TrimSpace(req.Notes))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func callerFromContext(w http.ResponseWriter, r *http.Request) (common.UUID, user.Role, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return "", "", false
	}
	role, ok := middleware.RoleFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return "", "", false
	}
	return userID, role, true
}

func optionalUUID(value, field string) (*common.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := common.ParseUUID(trimmed)
	if err != nil {
		return nil, common.NewValidationError("invalid "+field, map[string]string{field: "invalid uuid"})
	}
	return &parsed, nil
}
