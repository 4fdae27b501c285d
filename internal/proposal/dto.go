package proposal

import (
	"time"

	"github.com/DaviDemarqui/workwise-v1/internal/governance"
)

// CreateProposalRequest represents the request to open a proposal. Only the
// payload field matching Type is read.
type CreateProposalRequest struct {
	Type string `json:"type" validate:"required"`
	// VotingPeriod is expressed in seconds
	VotingPeriod        int64   `json:"voting_period"`
	MemberRemovalTarget string  `json:"member_removal_target,omitempty" validate:"omitempty,identity"`
	FeeUpdateValue      *uint64 `json:"fee_update_value,omitempty"`
	StakeUpdateValue    *uint64 `json:"stake_update_value,omitempty"`
	CategoryUpdateValue string  `json:"category_update_value,omitempty"`
	SkillUpdateValue    string  `json:"skill_update_value,omitempty"`
}

// VoteRequest represents the request to cast a vote
type VoteRequest struct {
	Choice string `json:"choice" validate:"required"`
}

// ProposalResponse represents the response for a proposal
type ProposalResponse struct {
	ID             uint64                   `json:"id"`
	Type           string                   `json:"type"`
	Creator        string                   `json:"creator"`
	Payload        governance.PayloadFields `json:"payload"`
	CreatedAt      string                   `json:"created_at"`
	VotingDeadline string                   `json:"voting_deadline"`
	VotesFor       uint64                   `json:"votes_for"`
	VotesAgainst   uint64                   `json:"votes_against"`
	State          string                   `json:"state"`
	Closed         bool                     `json:"closed"`
	FinalizedAt    *string                  `json:"finalized_at,omitempty"`
}

// VoteResponse represents a single vote
type VoteResponse struct {
	ProposalID uint64 `json:"proposal_id"`
	Voter      string `json:"voter"`
	Choice     string `json:"choice"`
	CastAt     string `json:"cast_at"`
}

// InvocationResponse wraps the proposal touched by a write with the journal
// sequence number of the invocation
type InvocationResponse struct {
	Seq      int64             `json:"seq"`
	Proposal *ProposalResponse `json:"proposal"`
	Vote     *VoteResponse     `json:"vote,omitempty"`
}

const timeLayout = "2006-01-02T15:04:05Z"

func (req *CreateProposalRequest) fields() governance.PayloadFields {
	f := governance.PayloadFields{
		MemberRemovalTarget: governance.NormalizeIdentity(req.MemberRemovalTarget),
		CategoryUpdateValue: req.CategoryUpdateValue,
		SkillUpdateValue:    req.SkillUpdateValue,
	}
	if req.FeeUpdateValue != nil {
		fee := governance.Amount(*req.FeeUpdateValue)
		f.FeeUpdateValue = &fee
	}
	if req.StakeUpdateValue != nil {
		stake := governance.Amount(*req.StakeUpdateValue)
		f.StakeUpdateValue = &stake
	}
	return f
}

// ToProposalResponse converts a proposal to a ProposalResponse DTO. Closed is
// evaluated at now so a proposal past its deadline reads as closed before
// anyone finalizes it.
func ToProposalResponse(p *governance.Proposal, now time.Time) *ProposalResponse {
	resp := &ProposalResponse{
		ID:             p.ID,
		Type:           string(p.Type),
		Creator:        string(p.Creator),
		Payload:        governance.Fields(p.Payload),
		CreatedAt:      p.CreatedAt.UTC().Format(timeLayout),
		VotingDeadline: p.VotingDeadline.UTC().Format(timeLayout),
		VotesFor:       p.VotesFor,
		VotesAgainst:   p.VotesAgainst,
		State:          string(p.State),
		Closed:         p.Closed(now),
	}
	if p.FinalizedAt != nil {
		at := p.FinalizedAt.UTC().Format(timeLayout)
		resp.FinalizedAt = &at
	}
	return resp
}

// ToVoteResponse converts a vote to a VoteResponse DTO
func ToVoteResponse(v governance.Vote) *VoteResponse {
	return &VoteResponse{
		ProposalID: v.ProposalID,
		Voter:      string(v.Voter),
		Choice:     string(v.Choice),
		CastAt:     v.CastAt.UTC().Format(timeLayout),
	}
}
