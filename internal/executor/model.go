package executor

import (
	"encoding/json"
	"math"
	"time"

	"github.com/DaviDemarqui/workwise-v1/internal/governance"
)

// Operation names an entry point of the governance module
type Operation string

const (
	OperationJoin           Operation = "joinGovernance"
	OperationLeave          Operation = "leaveGovernance"
	OperationCreateProposal Operation = "createProposal"
	OperationCastVote       Operation = "castVote"
	OperationFinalize       Operation = "finalize"
)

// Invocation is a journaled call. Replaying every invocation in Seq order
// with its recorded time rebuilds the module state.
type Invocation struct {
	Seq       int64               `json:"seq"`
	Operation Operation           `json:"operation"`
	Caller    governance.Identity `json:"caller"`
	Value     governance.Amount   `json:"value"`
	Args      json.RawMessage     `json:"args,omitempty"`
	At        time.Time           `json:"at"`
}

// ProposalArgs are the arguments of createProposal
type ProposalArgs struct {
	Type governance.ProposalType `json:"type"`
	// VotingPeriod is expressed in seconds
	VotingPeriod int64 `json:"voting_period"`
	governance.PayloadFields
}

// maxVotingPeriodSeconds is the longest period a time.Duration can hold
const maxVotingPeriodSeconds = math.MaxInt64 / int64(time.Second)

func (a ProposalArgs) request() (governance.ProposalRequest, error) {
	if a.VotingPeriod > maxVotingPeriodSeconds {
		return governance.ProposalRequest{}, governance.ErrInvalidVotingPeriod
	}
	return governance.ProposalRequest{
		Type:         a.Type,
		VotingPeriod: time.Duration(a.VotingPeriod) * time.Second,
		Fields:       a.PayloadFields,
	}, nil
}

// VoteArgs are the arguments of castVote
type VoteArgs struct {
	ProposalID uint64            `json:"proposal_id"`
	Choice     governance.Choice `json:"choice"`
}

// FinalizeArgs are the arguments of finalize
type FinalizeArgs struct {
	ProposalID uint64 `json:"proposal_id"`
}

// Entry is everything a single accepted invocation writes to the journal
type Entry struct {
	Invocation *Invocation
	Events     []governance.Event
	Refunds    []governance.Refund
}

// Result is returned to callers of an accepted invocation
type Result struct {
	Seq     int64
	Receipt *governance.Receipt
}

// Stats summarizes the live module
type Stats struct {
	LastSeq       int64             `json:"last_seq"`
	ActiveMembers int               `json:"active_members"`
	Treasury      governance.Amount `json:"treasury"`
	Proposals     int               `json:"proposals"`
}
