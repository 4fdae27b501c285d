package executor

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DaviDemarqui/workwise-v1/internal/governance"
)

// ErrCorruptJournal is returned when journaled invocations cannot be replayed
var ErrCorruptJournal = errors.New("journal cannot be replayed")

// apply dispatches inv to the module. It is the only place where journaled
// arguments are decoded, so live execution and replay share one path.
func apply(m *governance.Module, inv *Invocation) (*governance.Receipt, error) {
	switch inv.Operation {
	case OperationJoin:
		return m.Join(inv.Caller, inv.Value, inv.At)

	case OperationLeave:
		return m.Leave(inv.Caller, inv.At)

	case OperationCreateProposal:
		var args ProposalArgs
		if err := decodeArgs(inv, &args); err != nil {
			return nil, err
		}
		req, err := args.request()
		if err != nil {
			return nil, err
		}
		return m.CreateProposal(inv.Caller, req, inv.At)

	case OperationCastVote:
		var args VoteArgs
		if err := decodeArgs(inv, &args); err != nil {
			return nil, err
		}
		return m.CastVote(inv.Caller, args.ProposalID, args.Choice, inv.At)

	case OperationFinalize:
		var args FinalizeArgs
		if err := decodeArgs(inv, &args); err != nil {
			return nil, err
		}
		return m.Finalize(inv.Caller, args.ProposalID, inv.At)

	default:
		return nil, fmt.Errorf("unknown operation %q", inv.Operation)
	}
}

func decodeArgs(inv *Invocation, v any) error {
	if len(inv.Args) == 0 {
		return fmt.Errorf("%s: missing arguments", inv.Operation)
	}
	if err := json.Unmarshal(inv.Args, v); err != nil {
		return fmt.Errorf("%s: failed to decode arguments: %w", inv.Operation, err)
	}
	return nil
}

// Replay builds a module from genesis by applying invocations in order.
// Every invocation in a journal was accepted once, so any rejection here
// means the journal and the code disagree.
func Replay(g governance.Genesis, invocations []*Invocation) (*governance.Module, int64, error) {
	m, err := governance.New(g)
	if err != nil {
		return nil, 0, err
	}

	var last int64
	for _, inv := range invocations {
		if inv.Seq != last+1 {
			return nil, 0, fmt.Errorf("%w: expected seq %d, got %d", ErrCorruptJournal, last+1, inv.Seq)
		}
		if _, err := apply(m, inv); err != nil {
			return nil, 0, fmt.Errorf("%w: seq %d (%s): %v", ErrCorruptJournal, inv.Seq, inv.Operation, err)
		}
		last = inv.Seq
	}
	return m, last, nil
}
