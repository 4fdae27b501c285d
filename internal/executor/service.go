// Package executor serializes governance invocations. Each accepted
// invocation is applied to a copy of the module, committed to the journal
// together with its events and payouts, and only then made visible.
package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DaviDemarqui/workwise-v1/internal/governance"
)

// Journal persists accepted invocations
type Journal interface {
	// Commit stores the entry atomically. Nothing is stored when it fails.
	Commit(ctx context.Context, e *Entry) error
	// Load returns all invocations ordered by seq
	Load(ctx context.Context) ([]*Invocation, error)
	// LoadGenesis returns the genesis the journal was started from, or nil
	// before the first start.
	LoadGenesis(ctx context.Context) (*governance.Genesis, error)
	// SaveGenesis records g unless a genesis is already stored
	SaveGenesis(ctx context.Context, g governance.Genesis) error
}

// MetricsRecorder receives executor metrics
type MetricsRecorder interface {
	RecordInvocation(operation, result string)
	RecordFinalized(outcome string)
	SetMembership(active int, treasury uint64)
}

// Invocation results reported to MetricsRecorder
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// ErrGenesisMismatch is returned when the configured genesis differs from the
// one the journal was started from
var ErrGenesisMismatch = errors.New("configured genesis differs from the journaled genesis")

// Service owns the live module. Mutations are totally ordered by mu.
type Service struct {
	mu      sync.RWMutex
	module  *governance.Module
	lastSeq int64

	genesis governance.Genesis
	journal Journal
	clock   func() time.Time
	logger  *slog.Logger
	metrics MetricsRecorder
	notify  func()
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the time source used to stamp invocations
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics recorder
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPayoutNotifier registers a callback run after a commit that produced refunds
func WithPayoutNotifier(fn func()) Option {
	return func(s *Service) { s.notify = fn }
}

// NewService creates an executor. Call Start before serving invocations.
func NewService(g governance.Genesis, journal Journal, opts ...Option) (*Service, error) {
	m, err := governance.New(g)
	if err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}
	s := &Service{
		module:  m,
		genesis: g,
		journal: journal,
		clock:   time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start replays the journal and, on first deployment, records the genesis
// and joins the founder
func (s *Service) Start(ctx context.Context) error {
	stored, err := s.replay(ctx)
	if err != nil {
		return err
	}
	if !stored {
		if err := s.journal.SaveGenesis(ctx, s.genesis); err != nil {
			return fmt.Errorf("failed to record genesis: %w", err)
		}
	}

	s.mu.RLock()
	empty := s.lastSeq == 0
	s.mu.RUnlock()

	if empty && s.genesis.Founder != "" {
		if _, err := s.Join(ctx, s.genesis.Founder, s.genesis.FounderDeposit); err != nil {
			return fmt.Errorf("failed to bootstrap founder: %w", err)
		}
		s.logger.Info("founder joined", slog.String("identity", string(s.genesis.Founder)))
	}
	return nil
}

// Replay rebuilds the live module from the journal. It fails with
// ErrGenesisMismatch when the journal was started from another genesis.
func (s *Service) Replay(ctx context.Context) error {
	_, err := s.replay(ctx)
	return err
}

// replay reports whether the journal already holds a genesis
func (s *Service) replay(ctx context.Context) (bool, error) {
	stored, err := s.journal.LoadGenesis(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load genesis: %w", err)
	}
	if stored != nil && !stored.Equal(s.genesis) {
		return false, ErrGenesisMismatch
	}

	invocations, err := s.journal.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load journal: %w", err)
	}

	m, last, err := Replay(s.genesis, invocations)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.module = m
	s.lastSeq = last
	s.mu.Unlock()

	s.recordMembership(m)
	s.logger.Info("journal replayed",
		slog.Int64("last_seq", last),
		slog.Int("active_members", m.ActiveMembers()),
	)
	return stored != nil, nil
}

// Join executes joinGovernance
func (s *Service) Join(ctx context.Context, caller governance.Identity, value governance.Amount) (*Result, error) {
	return s.execute(ctx, OperationJoin, caller, value, nil)
}

// Leave executes leaveGovernance
func (s *Service) Leave(ctx context.Context, caller governance.Identity) (*Result, error) {
	return s.execute(ctx, OperationLeave, caller, 0, nil)
}

// CreateProposal executes createProposal
func (s *Service) CreateProposal(ctx context.Context, caller governance.Identity, args ProposalArgs) (*Result, error) {
	return s.execute(ctx, OperationCreateProposal, caller, 0, args)
}

// CastVote executes castVote
func (s *Service) CastVote(ctx context.Context, caller governance.Identity, proposalID uint64, choice governance.Choice) (*Result, error) {
	return s.execute(ctx, OperationCastVote, caller, 0, VoteArgs{ProposalID: proposalID, Choice: choice})
}

// Finalize executes finalize
func (s *Service) Finalize(ctx context.Context, caller governance.Identity, proposalID uint64) (*Result, error) {
	return s.execute(ctx, OperationFinalize, caller, 0, FinalizeArgs{ProposalID: proposalID})
}

func (s *Service) execute(ctx context.Context, op Operation, caller governance.Identity, value governance.Amount, args any) (*Result, error) {
	var raw json.RawMessage
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("failed to encode arguments: %w", err)
		}
		raw = b
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inv := &Invocation{
		Seq:       s.lastSeq + 1,
		Operation: op,
		Caller:    caller,
		Value:     value,
		Args:      raw,
		// Postgres keeps microseconds; replay must see the same instant
		At: s.clock().UTC().Truncate(time.Microsecond),
	}

	next := s.module.Clone()
	receipt, err := apply(next, inv)
	if err != nil {
		s.recordInvocation(op, ResultRejected)
		s.logger.Debug("invocation rejected",
			slog.String("operation", string(op)),
			slog.String("caller", string(caller)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	entry := &Entry{Invocation: inv, Events: receipt.Events, Refunds: receipt.Refunds}
	if err := s.journal.Commit(ctx, entry); err != nil {
		s.recordInvocation(op, ResultFailed)
		s.logger.Error("failed to commit invocation",
			slog.String("operation", string(op)),
			slog.Int64("seq", inv.Seq),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to commit invocation: %w", err)
	}

	s.module = next
	s.lastSeq = inv.Seq

	s.recordInvocation(op, ResultAccepted)
	if op == OperationFinalize && s.metrics != nil {
		s.metrics.RecordFinalized(string(receipt.Outcome))
	}
	s.recordMembership(next)
	s.logger.Info("invocation accepted",
		slog.Int64("seq", inv.Seq),
		slog.String("operation", string(op)),
		slog.String("caller", string(caller)),
		slog.Int("events", len(receipt.Events)),
		slog.Int("refunds", len(receipt.Refunds)),
	)

	if len(receipt.Refunds) > 0 && s.notify != nil {
		s.notify()
	}

	return &Result{Seq: inv.Seq, Receipt: receipt}, nil
}

func (s *Service) recordInvocation(op Operation, result string) {
	if s.metrics != nil {
		s.metrics.RecordInvocation(string(op), result)
	}
}

func (s *Service) recordMembership(m *governance.Module) {
	if s.metrics != nil {
		s.metrics.SetMembership(m.ActiveMembers(), uint64(m.Treasury()))
	}
}

// Now returns the executor's current time
func (s *Service) Now() time.Time {
	return s.clock().UTC()
}

// Member returns the membership record for id, or nil
func (s *Service) Member(id governance.Identity) *governance.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.module.Member(id)
}

// Members returns membership records in first-join order
func (s *Service) Members(activeOnly bool) []*governance.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.module.Members(activeOnly)
}

// Proposal returns the proposal with the given id
func (s *Service) Proposal(id uint64) (*governance.Proposal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.module.Proposal(id)
}

// Proposals returns all proposals ordered by id
func (s *Service) Proposals() []*governance.Proposal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.module.Proposals()
}

// Votes returns the votes on a proposal. The bool is false when the
// proposal does not exist.
func (s *Service) Votes(proposalID uint64) ([]governance.Vote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.module.Proposal(proposalID); !ok {
		return nil, false
	}
	return s.module.Votes(proposalID), true
}

// Vote returns voter's vote on a proposal
func (s *Service) Vote(proposalID uint64, voter governance.Identity) (governance.Vote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.module.Vote(proposalID, voter)
}

// Parameters returns the current governance parameters
func (s *Service) Parameters() governance.ParametersSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.module.Parameters()
}

// Quorum returns the quorum policy and the current threshold
func (s *Service) Quorum() (governance.QuorumPolicy, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := s.module.Quorum()
	return q, q.Threshold(s.module.ActiveMembers())
}

// MaxVotingPeriod returns the longest accepted voting period, 0 when unbounded
func (s *Service) MaxVotingPeriod() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.module.MaxVotingPeriod()
}

// Stats summarizes the live module
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		LastSeq:       s.lastSeq,
		ActiveMembers: s.module.ActiveMembers(),
		Treasury:      s.module.Treasury(),
		Proposals:     s.module.ProposalCount(),
	}
}
