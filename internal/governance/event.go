package governance

// EventKind identifies a domain event
type EventKind string

const (
	EventNewMemberJoined   EventKind = "newMemberJoined"
	EventMemberLeaved      EventKind = "memberLeaved"
	EventMemberRemoved     EventKind = "memberRemoved"
	EventProposalCreated   EventKind = "proposalCreated"
	EventVoteCast          EventKind = "voteCast"
	EventProposalFinalized EventKind = "proposalFinalized"
)

// Event is a domain event emitted by a successful invocation. Only the fields
// relevant to the kind are set.
type Event struct {
	Kind         EventKind     `json:"kind"`
	Identity     Identity      `json:"identity,omitempty"`
	ProposalID   *uint64       `json:"proposal_id,omitempty"`
	ProposalType ProposalType  `json:"proposal_type,omitempty"`
	Choice       Choice        `json:"choice,omitempty"`
	Outcome      ProposalState `json:"outcome,omitempty"`
	Amount       Amount        `json:"amount,omitempty"`
}

func newMemberJoined(id Identity, value Amount) Event {
	return Event{Kind: EventNewMemberJoined, Identity: id, Amount: value}
}

func memberLeaved(id Identity, refunded Amount) Event {
	return Event{Kind: EventMemberLeaved, Identity: id, Amount: refunded}
}

func memberRemoved(id Identity, proposalID uint64, refunded Amount) Event {
	return Event{Kind: EventMemberRemoved, Identity: id, ProposalID: uint64Ptr(proposalID), Amount: refunded}
}

func proposalCreated(creator Identity, proposalID uint64, t ProposalType) Event {
	return Event{Kind: EventProposalCreated, Identity: creator, ProposalID: uint64Ptr(proposalID), ProposalType: t}
}

func voteCast(voter Identity, proposalID uint64, choice Choice) Event {
	return Event{Kind: EventVoteCast, Identity: voter, ProposalID: uint64Ptr(proposalID), Choice: choice}
}

func proposalFinalized(caller Identity, proposalID uint64, outcome ProposalState) Event {
	return Event{Kind: EventProposalFinalized, Identity: caller, ProposalID: uint64Ptr(proposalID), Outcome: outcome}
}
