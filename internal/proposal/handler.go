package proposal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/DaviDemarqui/workwise-v1/internal/governance"
	"github.com/DaviDemarqui/workwise-v1/pkg/middleware"
	"github.com/DaviDemarqui/workwise-v1/pkg/pagination"
	"github.com/DaviDemarqui/workwise-v1/pkg/response"
	"github.com/DaviDemarqui/workwise-v1/pkg/validation"
)

// Handler handles HTTP requests for proposal operations
type Handler struct {
	service  *Service
	createMW []func(http.Handler) http.Handler
}

// NewHandler creates a new proposal handler. createMW wraps only the
// proposal creation route.
func NewHandler(service *Service, createMW ...func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, createMW: createMW}
}

// Routes returns the router for proposal endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Get("/{id}/votes", h.ListVotes)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireIdentity)
		r.With(h.createMW...).Post("/", h.Create)
		r.Post("/{id}/votes", h.Vote)
		r.Post("/{id}/finalize", h.Finalize)
	})

	return r
}

// Create handles POST /proposals
// @Summary      Create a proposal
// @Description  Open a typed proposal. Only active members may create proposals.
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Param        X-Caller-Identity header string true "Caller identity"
// @Param        request body CreateProposalRequest true "Proposal creation request"
// @Success      201 {object} response.APIResponse{data=InvocationResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Failure      429 {object} response.APIResponse
// @Router       /proposals [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetIdentity(r.Context())

	var req CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		response.ValidationFailed(w, validation.Details(err))
		return
	}

	p, seq, err := h.service.Create(r.Context(), caller, &req)
	if err != nil {
		h.writeError(w, err, "Failed to create proposal")
		return
	}

	response.JSON(w, http.StatusCreated, &InvocationResponse{
		Seq:      seq,
		Proposal: ToProposalResponse(p, h.service.Now()),
	})
}

// GetByID handles GET /proposals/{id}
// @Summary      Get a proposal
// @Tags         proposals
// @Produce      json
// @Param        id path int true "Proposal ID"
// @Success      200 {object} response.APIResponse{data=ProposalResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /proposals/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := proposalID(w, r)
	if !ok {
		return
	}

	p, err := h.service.GetByID(id)
	if err != nil {
		h.writeError(w, err, "Failed to get proposal")
		return
	}

	response.JSON(w, http.StatusOK, ToProposalResponse(p, h.service.Now()))
}

// List handles GET /proposals
// @Summary      List proposals
// @Tags         proposals
// @Produce      json
// @Param        state query string false "Filter by state" Enums(OPEN, PASSED, REJECTED, EXPIRED)
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]ProposalResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /proposals [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	page, perPage = pagination.Normalize(page, perPage)

	proposals, total, err := h.service.List(q.Get("state"), page, perPage)
	if err != nil {
		h.writeError(w, err, "Failed to list proposals")
		return
	}

	now := h.service.Now()
	proposalResponses := make([]*ProposalResponse, len(proposals))
	for i, p := range proposals {
		proposalResponses[i] = ToProposalResponse(p, now)
	}

	response.JSONWithMeta(w, http.StatusOK, proposalResponses, response.NewMeta(page, perPage, total))
}

// ListVotes handles GET /proposals/{id}/votes
// @Summary      List the votes on a proposal
// @Tags         proposals
// @Produce      json
// @Param        id path int true "Proposal ID"
// @Success      200 {object} response.APIResponse{data=[]VoteResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /proposals/{id}/votes [get]
func (h *Handler) ListVotes(w http.ResponseWriter, r *http.Request) {
	id, ok := proposalID(w, r)
	if !ok {
		return
	}

	votes, err := h.service.Votes(id)
	if err != nil {
		h.writeError(w, err, "Failed to list votes")
		return
	}

	voteResponses := make([]*VoteResponse, len(votes))
	for i, v := range votes {
		voteResponses[i] = ToVoteResponse(v)
	}

	response.JSON(w, http.StatusOK, voteResponses)
}

// Vote handles POST /proposals/{id}/votes
// @Summary      Cast a vote
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Param        X-Caller-Identity header string true "Caller identity"
// @Param        id path int true "Proposal ID"
// @Param        request body VoteRequest true "Vote request"
// @Success      201 {object} response.APIResponse{data=InvocationResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /proposals/{id}/votes [post]
func (h *Handler) Vote(w http.ResponseWriter, r *http.Request) {
	id, ok := proposalID(w, r)
	if !ok {
		return
	}
	caller, _ := middleware.GetIdentity(r.Context())

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		response.ValidationFailed(w, validation.Details(err))
		return
	}

	p, v, seq, err := h.service.Vote(r.Context(), caller, id, &req)
	if err != nil {
		h.writeError(w, err, "Failed to cast vote")
		return
	}

	response.JSON(w, http.StatusCreated, &InvocationResponse{
		Seq:      seq,
		Proposal: ToProposalResponse(p, h.service.Now()),
		Vote:     ToVoteResponse(*v),
	})
}

// Finalize handles POST /proposals/{id}/finalize
// @Summary      Finalize a proposal
// @Description  Close a proposal whose voting period has ended and apply it if it passed. Any caller may finalize.
// @Tags         proposals
// @Produce      json
// @Param        X-Caller-Identity header string true "Caller identity"
// @Param        id path int true "Proposal ID"
// @Success      200 {object} response.APIResponse{data=InvocationResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /proposals/{id}/finalize [post]
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	id, ok := proposalID(w, r)
	if !ok {
		return
	}
	caller, _ := middleware.GetIdentity(r.Context())

	p, seq, err := h.service.Finalize(r.Context(), caller, id)
	if err != nil {
		h.writeError(w, err, "Failed to finalize proposal")
		return
	}

	response.JSON(w, http.StatusOK, &InvocationResponse{
		Seq:      seq,
		Proposal: ToProposalResponse(p, h.service.Now()),
	})
}

func proposalID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid proposal ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string) {
	if code, ok := governance.Code(err); ok {
		response.Reject(w, code, err.Error())
		return
	}
	switch {
	case errors.Is(err, ErrInvalidState):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
