package governance

import "time"

// Registry maps identities to their membership record. Records are never
// deleted; leaving or removal marks them inactive.
type Registry struct {
	members map[Identity]*Member
	order   []Identity
	active  int
}

func newRegistry() *Registry {
	return &Registry{members: make(map[Identity]*Member)}
}

// Get returns a copy of the record for id, or nil if id never joined
func (r *Registry) Get(id Identity) *Member {
	m, ok := r.members[id]
	if !ok {
		return nil
	}
	c := *m
	return &c
}

// IsActive reports whether id is currently an active member
func (r *Registry) IsActive(id Identity) bool {
	m, ok := r.members[id]
	return ok && m.IsActive
}

// ActiveCount returns the number of active members
func (r *Registry) ActiveCount() int {
	return r.active
}

// List returns copies of all records in first-join order
func (r *Registry) List(activeOnly bool) []*Member {
	out := make([]*Member, 0, len(r.order))
	for _, id := range r.order {
		m := r.members[id]
		if activeOnly && !m.IsActive {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	return out
}

func (r *Registry) activate(id Identity, deposit Amount, now time.Time) {
	m, ok := r.members[id]
	if !ok {
		m = &Member{Identity: id}
		r.members[id] = m
		r.order = append(r.order, id)
	}
	m.DepositedValue = deposit
	m.IsActive = true
	m.JoinedAt = now
	m.LeftAt = nil
	r.active++
}

func (r *Registry) deactivate(id Identity, now time.Time) {
	m := r.members[id]
	m.IsActive = false
	m.DepositedValue = 0
	m.LeftAt = timePtr(now)
	r.active--
}

func (r *Registry) clone() *Registry {
	c := &Registry{
		members: make(map[Identity]*Member, len(r.members)),
		order:   append([]Identity(nil), r.order...),
		active:  r.active,
	}
	for id, m := range r.members {
		mc := *m
		if m.LeftAt != nil {
			mc.LeftAt = timePtr(*m.LeftAt)
		}
		c.members[id] = &mc
	}
	return c
}
