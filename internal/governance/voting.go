package governance

// DefaultQuorumPercent makes a simple majority of active members the quorum
const DefaultQuorumPercent = 50

// QuorumPolicy decides whether a tally is binding
type QuorumPolicy struct {
	// Percent of active membership that participation must exceed
	Percent uint8
}

// Threshold returns the number of votes required with active members.
// Zero means quorum can never be reached.
func (q QuorumPolicy) Threshold(active int) uint64 {
	if active <= 0 {
		return 0
	}
	n := uint64(active)
	t := n*uint64(q.Percent)/100 + 1
	if t > n {
		t = n
	}
	return t
}

// Outcome computes the terminal state for a closed proposal.
// Ties with quorum met resolve to REJECTED so the status quo is kept.
func (q QuorumPolicy) Outcome(votesFor, votesAgainst uint64, active int) ProposalState {
	threshold := q.Threshold(active)
	if threshold == 0 || votesFor+votesAgainst < threshold {
		return ProposalStateExpired
	}
	if votesFor > votesAgainst {
		return ProposalStatePassed
	}
	return ProposalStateRejected
}

// ballotBox records at most one vote per (proposal, voter)
type ballotBox struct {
	votes map[uint64]map[Identity]Vote
	order map[uint64][]Identity
}

func newBallotBox() *ballotBox {
	return &ballotBox{
		votes: make(map[uint64]map[Identity]Vote),
		order: make(map[uint64][]Identity),
	}
}

func (b *ballotBox) get(proposalID uint64, voter Identity) (Vote, bool) {
	v, ok := b.votes[proposalID][voter]
	return v, ok
}

func (b *ballotBox) record(v Vote) {
	byVoter, ok := b.votes[v.ProposalID]
	if !ok {
		byVoter = make(map[Identity]Vote)
		b.votes[v.ProposalID] = byVoter
	}
	byVoter[v.Voter] = v
	b.order[v.ProposalID] = append(b.order[v.ProposalID], v.Voter)
}

func (b *ballotBox) list(proposalID uint64) []Vote {
	voters := b.order[proposalID]
	out := make([]Vote, 0, len(voters))
	for _, id := range voters {
		out = append(out, b.votes[proposalID][id])
	}
	return out
}

func (b *ballotBox) clone() *ballotBox {
	c := newBallotBox()
	for pid, byVoter := range b.votes {
		m := make(map[Identity]Vote, len(byVoter))
		for id, v := range byVoter {
			m[id] = v
		}
		c.votes[pid] = m
	}
	for pid, voters := range b.order {
		c.order[pid] = append([]Identity(nil), voters...)
	}
	return c
}
