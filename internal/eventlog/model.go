package eventlog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/DaviDemarqui/workwise-v1/internal/governance"
)

// Event is a persisted governance event
type Event struct {
	ID         uuid.UUID            `json:"id"`
	Seq        int64                `json:"seq"`   // Invocation that emitted the event
	Index      int                  `json:"index"` // Position within the invocation
	Kind       governance.EventKind `json:"kind"`
	Identity   governance.Identity  `json:"identity,omitempty"`
	ProposalID *int64               `json:"proposal_id,omitempty"`
	Detail     json.RawMessage      `json:"detail"`
	CreatedAt  time.Time            `json:"created_at"`
}

// Filter restricts an event listing. Zero fields match everything.
type Filter struct {
	Identity   governance.Identity
	Kind       governance.EventKind
	ProposalID *int64
}

// ValidKind reports whether k is an event kind the module emits
func ValidKind(k governance.EventKind) bool {
	switch k {
	case governance.EventNewMemberJoined,
		governance.EventMemberLeaved,
		governance.EventMemberRemoved,
		governance.EventProposalCreated,
		governance.EventVoteCast,
		governance.EventProposalFinalized:
		return true
	}
	return false
}
