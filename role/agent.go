package role

import (
	"sort"

	"github.com/emirpasic/gods/sets/hashset"
)

// Agent is the local state of one agent. It is read and written only by
// that agent's own step; other agents learn about it through messages.
type Agent struct {
	ID         int
	Role       int
	Status     Status
	ProposedAt int
	// Seq numbers the agent's outgoing messages; 0 means nothing sent yet.
	Seq int

	known    map[int]Claim // other sources → latest claim heard
	lost     *hashset.Set  // roles this agent lost a tie-break over
	attempts []int         // every role proposed, in order
}

// NewAgent returns an UNASSIGNED agent with no knowledge.
func NewAgent(id int) *Agent {
	return &Agent{
		ID:         id,
		Role:       Unassigned,
		Status:     StatusUnassigned,
		ProposedAt: -1,
		known:      make(map[int]Claim),
		lost:       hashset.New(),
	}
}

// claim returns the agent's own current claim.
func (a *Agent) claim() Claim {
	return Claim{Agent: a.ID, Role: a.Role, ProposedAt: a.ProposedAt, Seq: a.Seq}
}

// Known returns the latest claim heard from source, if any. A withdrawn claim
// has Role == Unassigned.
func (a *Agent) Known(source int) (Claim, bool) {
	c, ok := a.known[source]
	return c, ok
}

// Taken returns, ascending and without duplicates, the roles this agent
// believes other agents currently claim.
func (a *Agent) Taken() []int {
	set := make(map[int]struct{}, len(a.known))
	for _, c := range a.known {
		if c.Role != Unassigned {
			set[c.Role] = struct{}{}
		}
	}
	out := make([]int, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Ints(out)
	return out
}

// Lost returns, ascending, the roles this agent gave up after losing a conflict.
func (a *Agent) Lost() []int {
	out := make([]int, 0, a.lost.Size())
	for _, v := range a.lost.Values() {
		out = append(out, v.(int))
	}
	sort.Ints(out)
	return out
}

// HasLost reports whether the agent ever lost a conflict over r.
func (a *Agent) HasLost(r int) bool { return a.lost.Contains(r) }

// Attempts returns every role the agent proposed, in proposal order.
func (a *Agent) Attempts() []int {
	return append([]int(nil), a.attempts...)
}
