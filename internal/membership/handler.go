package membership

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

// Handler handles HTTP requests for membership operations
type Handler struct {
	service *Service
}

// NewHandler creates a new membership handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for membership endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{identity}", h.GetByIdentity)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireIdentity)
		r.Post("/join", h.Join)
		r.Post("/leave", h.Leave)
	})

	return r
}

// Join handles POST /members/join
// @Summary      Join governance
// @Description  Attach at least the current join fee to become an active member
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        X-Caller-Identity header string true "Caller identity"
// @Param        request body JoinRequest true "Join request"
// @Success      201 {object} response.APIResponse{data=JoinResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /members/join [post]
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetIdentity(r.Context())

	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		response.ValidationFailed(w, validation.Details(err))
		return
	}

	member, seq, err := h.service.Join(r.Context(), caller, &req)
	if err != nil {
		h.writeError(w, err, "Failed to join")
		return
	}

	response.JSON(w, http.StatusCreated, &JoinResponse{Seq: seq, Member: ToMemberResponse(member)})
}

// Leave handles POST /members/leave
// @Summary      Leave governance
// @Description  Deactivate the caller and refund its full deposit
// @Tags         members
// @Produce      json
// @Param        X-Caller-Identity header string true "Caller identity"
// @Success      200 {object} response.APIResponse{data=LeaveResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /members/leave [post]
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetIdentity(r.Context())

	refund, seq, err := h.service.Leave(r.Context(), caller)
	if err != nil {
		h.writeError(w, err, "Failed to leave")
		return
	}

	resp := &LeaveResponse{Seq: seq}
	if refund != nil {
		resp.Refund = ToRefundResponse(*refund)
	}
	response.JSON(w, http.StatusOK, resp)
}

// GetByIdentity handles GET /members/{identity}
// @Summary      Get a membership record
// @Tags         members
// @Produce      json
// @Param        identity path string true "Member identity"
// @Success      200 {object} response.APIResponse{data=MemberResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /members/{identity} [get]
func (h *Handler) GetByIdentity(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "identity")
	if !validation.IsIdentity(raw) {
		response.BadRequest(w, "Invalid identity")
		return
	}

	member, err := h.service.GetByIdentity(governance.NormalizeIdentity(raw))
	if err != nil {
		h.writeError(w, err, "Failed to get member")
		return
	}

	response.JSON(w, http.StatusOK, ToMemberResponse(member))
}

// List handles GET /members
// @Summary      List members
// @Description  Membership records in first-join order, including former members unless active=true
// @Tags         members
// @Produce      json
// @Param        active query bool false "Only active members"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]MemberResponse}
// @Router       /members [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	activeOnly, _ := strconv.ParseBool(q.Get("active"))
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	page, perPage = pagination.Normalize(page, perPage)

	members, total := h.service.List(activeOnly, page, perPage)

	memberResponses := make([]*MemberResponse, len(members))
	for i, m := range members {
		memberResponses[i] = ToMemberResponse(m)
	}

	response.JSONWithMeta(w, http.StatusOK, memberResponses, response.NewMeta(page, perPage, total))
}

func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string) {
	if code, ok := governance.Code(err); ok {
		response.Reject(w, code, err.Error())
		return
	}
	switch {
	case errors.Is(err, ErrMemberNotFound):
		response.NotFound(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
