package governance

import (
	"strings"
	"time"
)

// Identity is the principal invoking an operation, as authenticated by the host
type Identity string

// NormalizeIdentity trims and lower-cases an identity so hex addresses compare equal
func NormalizeIdentity(s string) Identity {
	return Identity(strings.ToLower(strings.TrimSpace(s)))
}

// Amount is a value in the smallest currency unit (wei)
type Amount uint64

// Choice represents a voter's choice
type Choice string

const (
	ChoiceFor     Choice = "FOR"
	ChoiceAgainst Choice = "AGAINST"
)

// Valid reports whether c is one of the known choices
func (c Choice) Valid() bool {
	return c == ChoiceFor || c == ChoiceAgainst
}

// ProposalType represents the kind of change a proposal requests
type ProposalType string

const (
	ProposalTypeFeeUpdate      ProposalType = "FeeUpdate"
	ProposalTypeStakeUpdate    ProposalType = "StakeUpdate"
	ProposalTypeMemberRemoval  ProposalType = "MemberRemoval"
	ProposalTypeCategoryUpdate ProposalType = "CategoryUpdate"
	ProposalTypeSkillUpdate    ProposalType = "SkillUpdate"
)

// ProposalState represents the lifecycle state of a proposal
type ProposalState string

const (
	ProposalStateOpen     ProposalState = "OPEN"
	ProposalStatePassed   ProposalState = "PASSED"
	ProposalStateRejected ProposalState = "REJECTED"
	ProposalStateExpired  ProposalState = "EXPIRED"
)

// Terminal reports whether the state can no longer change
func (s ProposalState) Terminal() bool {
	return s == ProposalStatePassed || s == ProposalStateRejected || s == ProposalStateExpired
}

// Member represents an identity's membership record
type Member struct {
	Identity       Identity   `json:"identity"`
	DepositedValue Amount     `json:"deposited_value"`
	IsActive       bool       `json:"is_active"`
	JoinedAt       time.Time  `json:"joined_at"`
	LeftAt         *time.Time `json:"left_at,omitempty"`
}

// Proposal represents a typed, time-boxed request subject to vote
type Proposal struct {
	ID             uint64        `json:"id"`
	Type           ProposalType  `json:"type"`
	Payload        Payload       `json:"-"`
	Creator        Identity      `json:"creator"`
	CreatedAt      time.Time     `json:"created_at"`
	VotingDeadline time.Time     `json:"voting_deadline"`
	VotesFor       uint64        `json:"votes_for"`
	VotesAgainst   uint64        `json:"votes_against"`
	State          ProposalState `json:"state"`
	FinalizedAt    *time.Time    `json:"finalized_at,omitempty"`
}

// Closed reports whether voting has ended at now, whether or not the
// proposal has been finalized yet.
func (p *Proposal) Closed(now time.Time) bool {
	return p.State != ProposalStateOpen || now.After(p.VotingDeadline)
}

// Vote represents a single member's vote on a proposal
type Vote struct {
	ProposalID uint64    `json:"proposal_id"`
	Voter      Identity  `json:"voter"`
	Choice     Choice    `json:"choice"`
	CastAt     time.Time `json:"cast_at"`
}

// RefundReason explains why deposited value is being returned
type RefundReason string

const (
	RefundReasonLeave   RefundReason = "LEAVE"
	RefundReasonRemoval RefundReason = "REMOVAL"
)

// Refund is a value transfer the host must perform once the invocation that
// produced it has been committed.
type Refund struct {
	Recipient  Identity     `json:"recipient"`
	Amount     Amount       `json:"amount"`
	Reason     RefundReason `json:"reason"`
	ProposalID *uint64      `json:"proposal_id,omitempty"`
}

// Receipt is the output of a successful invocation
type Receipt struct {
	Events     []Event
	Refunds    []Refund
	ProposalID uint64
	Outcome    ProposalState
	// Vote is set by CastVote
	Vote *Vote
}

func (r *Receipt) emit(e Event) {
	r.Events = append(r.Events, e)
}

func uint64Ptr(v uint64) *uint64 {
	return &v
}

func timePtr(t time.Time) *time.Time {
	return &t
}
