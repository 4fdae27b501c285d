// Package governance implements the membership, proposal and voting state
// machine. A Module is not safe for concurrent use: callers serialize
// invocations and every operation either applies completely or not at all.
package governance

import (
	"fmt"
	"slices"
	"time"
)

// Genesis configures a new module
type Genesis struct {
	// Founder joins with FounderDeposit when the module is first deployed.
	// Empty means the module starts without members.
	Founder         Identity          `yaml:"founder" json:"founder"`
	FounderDeposit  Amount            `yaml:"founder_deposit" json:"founder_deposit"`
	Parameters      InitialParameters `yaml:"parameters" json:"parameters"`
	QuorumPercent   uint8             `yaml:"quorum_percent" json:"quorum_percent"`
	MaxVotingPeriod time.Duration     `yaml:"max_voting_period" json:"max_voting_period"`
}

// Equal reports whether g and o build the same module. A nil catalog equals
// an empty one.
func (g Genesis) Equal(o Genesis) bool {
	return g.Founder == o.Founder &&
		g.FounderDeposit == o.FounderDeposit &&
		g.QuorumPercent == o.QuorumPercent &&
		g.MaxVotingPeriod == o.MaxVotingPeriod &&
		g.Parameters.JoinFee == o.Parameters.JoinFee &&
		g.Parameters.StakeRequirement == o.Parameters.StakeRequirement &&
		slices.Equal(g.Parameters.Categories, o.Parameters.Categories) &&
		slices.Equal(g.Parameters.Skills, o.Parameters.Skills)
}

// DefaultGenesis returns a genesis with no founder, a 0.0001 ether join fee
// and a simple-majority quorum.
func DefaultGenesis() Genesis {
	return Genesis{
		Parameters: InitialParameters{
			JoinFee: 100_000_000_000_000,
		},
		QuorumPercent: DefaultQuorumPercent,
	}
}

// Module owns all governance state
type Module struct {
	ledger          *Ledger
	registry        *Registry
	proposals       *proposalStore
	ballots         *ballotBox
	params          *Parameters
	quorum          QuorumPolicy
	maxVotingPeriod time.Duration
}

// New creates a module from the given genesis
func New(g Genesis) (*Module, error) {
	if g.QuorumPercent > 100 {
		return nil, fmt.Errorf("quorum percent must be between 0 and 100, got %d", g.QuorumPercent)
	}
	if g.MaxVotingPeriod < 0 {
		return nil, fmt.Errorf("max voting period cannot be negative")
	}
	return &Module{
		ledger:          newLedger(),
		registry:        newRegistry(),
		proposals:       &proposalStore{},
		ballots:         newBallotBox(),
		params:          newParameters(g.Parameters),
		quorum:          QuorumPolicy{Percent: g.QuorumPercent},
		maxVotingPeriod: g.MaxVotingPeriod,
	}, nil
}

// Clone returns a deep copy of the module
func (m *Module) Clone() *Module {
	return &Module{
		ledger:          m.ledger.clone(),
		registry:        m.registry.clone(),
		proposals:       m.proposals.clone(),
		ballots:         m.ballots.clone(),
		params:          m.params.clone(),
		quorum:          m.quorum,
		maxVotingPeriod: m.maxVotingPeriod,
	}
}

// Join makes caller a member, holding value as its deposit
func (m *Module) Join(caller Identity, value Amount, now time.Time) (*Receipt, error) {
	if caller == "" {
		return nil, ErrInvalidIdentity
	}
	// Fee is read at call time so later fee changes never apply retroactively
	if value < m.params.joinFee {
		return nil, ErrInsufficientFee
	}
	if m.registry.IsActive(caller) {
		return nil, ErrAlreadyMember
	}
	if !m.ledger.fits(value) {
		return nil, ErrTreasuryOverflow
	}

	m.registry.activate(caller, value, now)
	m.ledger.credit(caller, value)

	r := &Receipt{}
	r.emit(newMemberJoined(caller, value))
	return r, nil
}

// Leave deactivates caller and refunds its full deposit
func (m *Module) Leave(caller Identity, now time.Time) (*Receipt, error) {
	if !m.registry.IsActive(caller) {
		return nil, ErrNotMember
	}

	refunded := m.deactivate(caller, now)

	r := &Receipt{
		Refunds: []Refund{{Recipient: caller, Amount: refunded, Reason: RefundReasonLeave}},
	}
	r.emit(memberLeaved(caller, refunded))
	return r, nil
}

// CreateProposal opens a new proposal created by caller
func (m *Module) CreateProposal(caller Identity, req ProposalRequest, now time.Time) (*Receipt, error) {
	if !m.registry.IsActive(caller) {
		return nil, ErrNotMember
	}
	if req.VotingPeriod <= 0 || (m.maxVotingPeriod > 0 && req.VotingPeriod > m.maxVotingPeriod) {
		return nil, ErrInvalidVotingPeriod
	}
	payload, err := NewPayload(req.Type, req.Fields)
	if err != nil {
		return nil, err
	}
	if err := payload.validate(m); err != nil {
		return nil, err
	}

	p := &Proposal{
		ID:             m.proposals.nextID(),
		Type:           payload.Type(),
		Payload:        payload,
		Creator:        caller,
		CreatedAt:      now,
		VotingDeadline: now.Add(req.VotingPeriod),
		State:          ProposalStateOpen,
	}
	m.proposals.add(p)

	r := &Receipt{ProposalID: p.ID}
	r.emit(proposalCreated(caller, p.ID, p.Type))
	return r, nil
}

// CastVote records caller's vote on a proposal
func (m *Module) CastVote(caller Identity, proposalID uint64, choice Choice, now time.Time) (*Receipt, error) {
	if !choice.Valid() {
		return nil, ErrInvalidChoice
	}
	p, ok := m.proposals.get(proposalID)
	if !ok {
		return nil, ErrNoSuchProposal
	}
	if !m.registry.IsActive(caller) {
		return nil, ErrNotMember
	}
	if p.Closed(now) {
		return nil, ErrVotingClosed
	}
	if _, voted := m.ballots.get(proposalID, caller); voted {
		return nil, ErrAlreadyVoted
	}

	vote := Vote{ProposalID: proposalID, Voter: caller, Choice: choice, CastAt: now}
	m.ballots.record(vote)
	if choice == ChoiceFor {
		p.VotesFor++
	} else {
		p.VotesAgainst++
	}

	r := &Receipt{ProposalID: proposalID, Vote: &vote}
	r.emit(voteCast(caller, proposalID, choice))
	return r, nil
}

// Finalize closes a proposal whose deadline has passed and applies its
// payload if it passed. Anyone may finalize; caller is only recorded.
func (m *Module) Finalize(caller Identity, proposalID uint64, now time.Time) (*Receipt, error) {
	p, ok := m.proposals.get(proposalID)
	if !ok {
		return nil, ErrNoSuchProposal
	}
	if p.State.Terminal() {
		return nil, ErrAlreadyFinalized
	}
	if !now.After(p.VotingDeadline) {
		return nil, ErrVotingStillOpen
	}

	outcome := m.quorum.Outcome(p.VotesFor, p.VotesAgainst, m.registry.ActiveCount())
	p.State = outcome
	p.FinalizedAt = timePtr(now)

	r := &Receipt{ProposalID: proposalID, Outcome: outcome}
	r.emit(proposalFinalized(caller, proposalID, outcome))
	if outcome == ProposalStatePassed {
		p.Payload.apply(m, p, now, r)
	}
	return r, nil
}

// deactivate finishes all bookkeeping for a departing member and returns the
// value to transfer. The transfer itself happens outside the module.
func (m *Module) deactivate(id Identity, now time.Time) Amount {
	m.registry.deactivate(id, now)
	return m.ledger.release(id)
}

// Member returns the record for id, or nil if id never joined
func (m *Module) Member(id Identity) *Member {
	return m.registry.Get(id)
}

// Members returns membership records in first-join order
func (m *Module) Members(activeOnly bool) []*Member {
	return m.registry.List(activeOnly)
}

// ActiveMembers returns the number of active members
func (m *Module) ActiveMembers() int {
	return m.registry.ActiveCount()
}

// Treasury returns the total value held on behalf of members
func (m *Module) Treasury() Amount {
	return m.ledger.Total()
}

// Balance returns the deposit held for id
func (m *Module) Balance(id Identity) Amount {
	return m.ledger.Balance(id)
}

// Proposal returns a copy of the proposal with the given id
func (m *Module) Proposal(id uint64) (*Proposal, bool) {
	p, ok := m.proposals.get(id)
	if !ok {
		return nil, false
	}
	return copyProposal(p), true
}

// Proposals returns copies of all proposals ordered by id
func (m *Module) Proposals() []*Proposal {
	out := make([]*Proposal, len(m.proposals.proposals))
	for i, p := range m.proposals.proposals {
		out[i] = copyProposal(p)
	}
	return out
}

// ProposalCount returns the number of proposals ever created
func (m *Module) ProposalCount() int {
	return len(m.proposals.proposals)
}

// Votes returns the votes cast on a proposal in casting order
func (m *Module) Votes(proposalID uint64) []Vote {
	return m.ballots.list(proposalID)
}

// Vote returns voter's vote on a proposal
func (m *Module) Vote(proposalID uint64, voter Identity) (Vote, bool) {
	return m.ballots.get(proposalID, voter)
}

// Parameters returns a snapshot of the governance parameters
func (m *Module) Parameters() ParametersSnapshot {
	return m.params.Snapshot()
}

// Quorum returns the quorum policy in force
func (m *Module) Quorum() QuorumPolicy {
	return m.quorum
}

// MaxVotingPeriod returns the longest accepted voting period, 0 when unbounded
func (m *Module) MaxVotingPeriod() time.Duration {
	return m.maxVotingPeriod
}
