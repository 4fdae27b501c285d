package eventlog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/DaviDemarqui/workwise-v1/internal/governance"
	"github.com/DaviDemarqui/workwise-v1/pkg/pagination"
	"github.com/DaviDemarqui/workwise-v1/pkg/response"
	"github.com/DaviDemarqui/workwise-v1/pkg/validation"
)

// Handler handles HTTP requests for the event log
type Handler struct {
	service *Service
}

// NewHandler creates a new event log handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for event endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	return r
}

// List handles GET /events
// @Summary      List governance events
// @Description  Events are returned newest first
// @Tags         events
// @Produce      json
// @Param        identity query string false "Filter by identity"
// @Param        kind query string false "Filter by event kind"
// @Param        proposal_id query int false "Filter by proposal"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]EventResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /events [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var f Filter
	if raw := q.Get("identity"); raw != "" {
		if !validation.IsIdentity(raw) {
			response.BadRequest(w, "Invalid identity")
			return
		}
		f.Identity = governance.NormalizeIdentity(raw)
	}
	f.Kind = governance.EventKind(q.Get("kind"))
	if raw := q.Get("proposal_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			response.BadRequest(w, "Invalid proposal ID")
			return
		}
		f.ProposalID = &id
	}

	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	page, perPage = pagination.Normalize(page, perPage)

	events, total, err := h.service.List(r.Context(), f, page, perPage)
	if err != nil {
		if errors.Is(err, ErrInvalidKind) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to list events")
		return
	}

	eventResponses := make([]*EventResponse, len(events))
	for i, e := range events {
		eventResponses[i] = e.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, eventResponses, response.NewMeta(page, perPage, total))
}
