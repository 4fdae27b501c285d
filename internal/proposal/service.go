// Package proposal exposes proposal creation, voting and finalization.
package proposal

import (
	"context"
	"errors"
	"time"

	"github.com/DaviDemarqui/workwise-v1/internal/executor"
	"github.com/DaviDemarqui/workwise-v1/internal/governance"
	"github.com/DaviDemarqui/workwise-v1/pkg/pagination"
)

// Common errors
var (
	ErrInvalidState = errors.New("unknown proposal state")
)

// Executor is the subset of the governance executor used by proposals
type Executor interface {
	CreateProposal(ctx context.Context, caller governance.Identity, args executor.ProposalArgs) (*executor.Result, error)
	CastVote(ctx context.Context, caller governance.Identity, proposalID uint64, choice governance.Choice) (*executor.Result, error)
	Finalize(ctx context.Context, caller governance.Identity, proposalID uint64) (*executor.Result, error)
	Proposal(id uint64) (*governance.Proposal, bool)
	Proposals() []*governance.Proposal
	Votes(proposalID uint64) ([]governance.Vote, bool)
	Now() time.Time
}

// Service handles proposal business logic
type Service struct {
	exec Executor
}

// NewService creates a new proposal service
func NewService(exec Executor) *Service {
	return &Service{exec: exec}
}

// Now returns the time reads are evaluated at
func (s *Service) Now() time.Time {
	return s.exec.Now()
}

// Create opens a proposal on behalf of caller
func (s *Service) Create(ctx context.Context, caller governance.Identity, req *CreateProposalRequest) (*governance.Proposal, int64, error) {
	res, err := s.exec.CreateProposal(ctx, caller, executor.ProposalArgs{
		Type:          governance.ProposalType(req.Type),
		VotingPeriod:  req.VotingPeriod,
		PayloadFields: req.fields(),
	})
	if err != nil {
		return nil, 0, err
	}
	p, err := s.GetByID(res.Receipt.ProposalID)
	if err != nil {
		return nil, 0, err
	}
	return p, res.Seq, nil
}

// GetByID retrieves a proposal
func (s *Service) GetByID(id uint64) (*governance.Proposal, error) {
	p, ok := s.exec.Proposal(id)
	if !ok {
		return nil, governance.ErrNoSuchProposal
	}
	return p, nil
}

// List retrieves a page of proposals ordered by id, optionally filtered by state
func (s *Service) List(state string, page, perPage int) ([]*governance.Proposal, int, error) {
	filter := governance.ProposalState(state)
	switch filter {
	case "", governance.ProposalStateOpen, governance.ProposalStatePassed,
		governance.ProposalStateRejected, governance.ProposalStateExpired:
	default:
		return nil, 0, ErrInvalidState
	}

	var proposals []*governance.Proposal
	for _, p := range s.exec.Proposals() {
		if filter == "" || p.State == filter {
			proposals = append(proposals, p)
		}
	}
	total := len(proposals)

	start, end := pagination.Bounds(page, perPage, total)
	if start == end {
		return []*governance.Proposal{}, total, nil
	}
	return proposals[start:end], total, nil
}

// Votes retrieves the votes cast on a proposal
func (s *Service) Votes(id uint64) ([]governance.Vote, error) {
	votes, ok := s.exec.Votes(id)
	if !ok {
		return nil, governance.ErrNoSuchProposal
	}
	return votes, nil
}

// Vote casts caller's vote and returns the updated proposal
func (s *Service) Vote(ctx context.Context, caller governance.Identity, id uint64, req *VoteRequest) (*governance.Proposal, *governance.Vote, int64, error) {
	res, err := s.exec.CastVote(ctx, caller, id, governance.Choice(req.Choice))
	if err != nil {
		return nil, nil, 0, err
	}
	p, err := s.GetByID(id)
	if err != nil {
		return nil, nil, 0, err
	}
	return p, res.Receipt.Vote, res.Seq, nil
}

// Finalize closes a proposal whose voting period has ended
func (s *Service) Finalize(ctx context.Context, caller governance.Identity, id uint64) (*governance.Proposal, int64, error) {
	res, err := s.exec.Finalize(ctx, caller, id)
	if err != nil {
		return nil, 0, err
	}
	p, err := s.GetByID(id)
	if err != nil {
		return nil, 0, err
	}
	return p, res.Seq, nil
}
