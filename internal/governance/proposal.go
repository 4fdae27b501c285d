package governance

import "time"

// ProposalRequest carries the inputs of createProposal
type ProposalRequest struct {
	Type         ProposalType
	VotingPeriod time.Duration
	Fields       PayloadFields
}

// proposalStore holds proposals indexed by their sequential id
type proposalStore struct {
	proposals []*Proposal
}

func (s *proposalStore) nextID() uint64 {
	return uint64(len(s.proposals))
}

func (s *proposalStore) get(id uint64) (*Proposal, bool) {
	if id >= uint64(len(s.proposals)) {
		return nil, false
	}
	return s.proposals[id], true
}

func (s *proposalStore) add(p *Proposal) {
	s.proposals = append(s.proposals, p)
}

func (s *proposalStore) clone() *proposalStore {
	c := &proposalStore{proposals: make([]*Proposal, len(s.proposals))}
	for i, p := range s.proposals {
		c.proposals[i] = copyProposal(p)
	}
	return c
}

func copyProposal(p *Proposal) *Proposal {
	c := *p
	if p.FinalizedAt != nil {
		c.FinalizedAt = timePtr(*p.FinalizedAt)
	}
	return &c
}
