package payout

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/DaviDemarqui/workwise-v1/pkg/middleware"
	"github.com/DaviDemarqui/workwise-v1/pkg/pagination"
	"github.com/DaviDemarqui/workwise-v1/pkg/response"
)

// Handler handles HTTP requests for payout operations
type Handler struct {
	service *Service
}

// NewHandler creates a new payout handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for payout endpoints. Every route requires a
// caller identity.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireIdentity)

	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Post("/{id}/retry", h.Retry)

	return r
}

// List handles GET /payouts
// @Summary      List the caller's payouts
// @Tags         payouts
// @Produce      json
// @Param        X-Caller-Identity header string true "Caller identity"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]PayoutResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /payouts [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.GetIdentity(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	page, perPage = pagination.Normalize(page, perPage)

	payouts, total, err := h.service.ListByRecipient(r.Context(), caller, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list payouts")
		return
	}

	payoutResponses := make([]*PayoutResponse, len(payouts))
	for i, p := range payouts {
		payoutResponses[i] = p.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, payoutResponses, response.NewMeta(page, perPage, total))
}

// GetByID handles GET /payouts/{id}
// @Summary      Get a payout
// @Tags         payouts
// @Produce      json
// @Param        X-Caller-Identity header string true "Caller identity"
// @Param        id path int true "Payout ID"
// @Success      200 {object} response.APIResponse{data=PayoutResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /payouts/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid payout ID")
		return
	}

	caller, _ := middleware.GetIdentity(r.Context())

	p, err := h.service.GetByID(r.Context(), id, caller)
	if err != nil {
		h.writeError(w, err, "Failed to get payout")
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

// Retry handles POST /payouts/{id}/retry
// @Summary      Retry a failed payout
// @Description  Requeue a FAILED payout for delivery. Only the recipient may retry.
// @Tags         payouts
// @Produce      json
// @Param        X-Caller-Identity header string true "Caller identity"
// @Param        id path int true "Payout ID"
// @Success      200 {object} response.APIResponse{data=PayoutResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /payouts/{id}/retry [post]
func (h *Handler) Retry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid payout ID")
		return
	}

	caller, _ := middleware.GetIdentity(r.Context())

	p, err := h.service.Retry(r.Context(), id, caller)
	if err != nil {
		h.writeError(w, err, "Failed to retry payout")
		return
	}

	response.JSON(w, http.StatusOK, p.ToResponse())
}

func (h *Handler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrPayoutNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotRecipient):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidStatusChange):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
