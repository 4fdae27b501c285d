package governance

import "math"

// Ledger tracks the value each identity has deposited with the module.
// The total always equals the sum of the individual balances.
type Ledger struct {
	balances map[Identity]Amount
	total    Amount
}

func newLedger() *Ledger {
	return &Ledger{balances: make(map[Identity]Amount)}
}

// Balance returns the deposited value held for id
func (l *Ledger) Balance(id Identity) Amount {
	return l.balances[id]
}

// Total returns the value held on behalf of all members
func (l *Ledger) Total() Amount {
	return l.total
}

// fits reports whether value can be credited without overflowing the total
func (l *Ledger) fits(value Amount) bool {
	return value <= math.MaxUint64-l.total
}

func (l *Ledger) credit(id Identity, value Amount) {
	l.balances[id] += value
	l.total += value
}

// release zeroes the balance of id and returns what was held
func (l *Ledger) release(id Identity) Amount {
	held := l.balances[id]
	delete(l.balances, id)
	l.total -= held
	return held
}

func (l *Ledger) clone() *Ledger {
	c := &Ledger{balances: make(map[Identity]Amount, len(l.balances)), total: l.total}
	for id, v := range l.balances {
		c.balances[id] = v
	}
	return c
}
