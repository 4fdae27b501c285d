// Package parameter exposes the governance parameters in force.
package parameter

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DaviDemarqui/workwise-v1/internal/executor"
	"github.com/DaviDemarqui/workwise-v1/internal/governance"
	"github.com/DaviDemarqui/workwise-v1/pkg/response"
)

// Reader is the read side of the governance executor
type Reader interface {
	Parameters() governance.ParametersSnapshot
	Quorum() (governance.QuorumPolicy, uint64)
	MaxVotingPeriod() time.Duration
	Stats() executor.Stats
}

// ParametersResponse represents the governance parameters and the quorum
// that would apply if a proposal were finalized now
type ParametersResponse struct {
	JoinFee          uint64   `json:"join_fee"`
	StakeRequirement uint64   `json:"stake_requirement"`
	Categories       []string `json:"categories"`
	Skills           []string `json:"skills"`
	QuorumPercent    uint8    `json:"quorum_percent"`
	QuorumThreshold  uint64   `json:"quorum_threshold"`
	// MaxVotingPeriod is in seconds, 0 when unbounded
	MaxVotingPeriod int64  `json:"max_voting_period"`
	ActiveMembers   int    `json:"active_members"`
	Treasury        uint64 `json:"treasury"`
	ProposalCount   int    `json:"proposal_count"`
}

// Handler handles HTTP requests for governance parameters
type Handler struct {
	reader Reader
}

// NewHandler creates a new parameter handler
func NewHandler(reader Reader) *Handler {
	return &Handler{reader: reader}
}

// Routes returns the router for parameter endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Get)

	return r
}

// Get handles GET /parameters
// @Summary      Get governance parameters
// @Tags         parameters
// @Produce      json
// @Success      200 {object} response.APIResponse{data=ParametersResponse}
// @Router       /parameters [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	params := h.reader.Parameters()
	quorum, threshold := h.reader.Quorum()
	stats := h.reader.Stats()

	response.JSON(w, http.StatusOK, &ParametersResponse{
		JoinFee:          uint64(params.JoinFee),
		StakeRequirement: uint64(params.StakeRequirement),
		Categories:       nonNil(params.Categories),
		Skills:           nonNil(params.Skills),
		QuorumPercent:    quorum.Percent,
		QuorumThreshold:  threshold,
		MaxVotingPeriod:  int64(h.reader.MaxVotingPeriod() / time.Second),
		ActiveMembers:    stats.ActiveMembers,
		Treasury:         uint64(stats.Treasury),
		ProposalCount:    stats.Proposals,
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
