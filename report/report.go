// Package report aggregates per-step ledger state into a global view of
// convergence and keeps the conflict event log.
//
// The Reporter never mutates agent state: it copies the ledger entries it is
// given at step boundaries and derives per-component convergence from them.
// Role collisions between different components are not conflicts and never
// block convergence.
package report

import (
	"sort"
	"sync"

	"github.com/katalvlaran/swarmrole/role"
	"github.com/katalvlaran/swarmrole/topology"
)

// Entry is one agent's ledger row.
type Entry struct {
	Agent  int
	Role   int
	Status role.Status
}

// ComponentStatus summarises one connected component.
type ComponentStatus struct {
	Index  int
	Agents []int
	// Confirmed counts agents in StatusConfirmed.
	Confirmed int
	// Duplicates lists, ascending, roles held by more than one agent.
	Duplicates []int
	// Converged: every agent CONFIRMED with a role unique in the component.
	Converged bool
}

// Snapshot is the aggregate state after a completed step.
type Snapshot struct {
	Step       int
	Agents     []Entry
	Components []ComponentStatus
	Converged  bool
}

// Reporter observes the ledger after every step. Safe for concurrent use.
type Reporter struct {
	topo      *topology.Topology
	mu        sync.RWMutex
	last      Snapshot
	conflicts []role.Conflict
}

// New returns a Reporter for the given topology.
func New(t *topology.Topology) *Reporter {
	r := &Reporter{topo: t}
	r.Reset()
	return r
}

// Reset clears the conflict log and the last snapshot.
func (r *Reporter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflicts = nil
	r.last = Snapshot{}
}

// Observe records the ledger at the end of step and appends the conflicts
// raised during it.
func (r *Reporter) Observe(step int, entries []Entry, conflicts []role.Conflict) Snapshot {
	snap := Snapshot{
		Step:   step,
		Agents: append([]Entry(nil), entries...),
	}
	snap.Converged = true
	for i, members := range r.topo.Components() {
		cs := evaluate(i, members, entries)
		if !cs.Converged {
			snap.Converged = false
		}
		snap.Components = append(snap.Components, cs)
	}

	r.mu.Lock()
	r.last = snap
	r.conflicts = append(r.conflicts, conflicts...)
	r.mu.Unlock()

	return clone(snap)
}

// evaluate checks confirmation and uniqueness inside one component.
func evaluate(index int, members []int, entries []Entry) ComponentStatus {
	cs := ComponentStatus{Index: index, Agents: members}
	holders := make(map[int]int, len(members))
	for _, id := range members {
		e := entries[id]
		if e.Status == role.StatusConfirmed {
			cs.Confirmed++
		}
		if e.Role != role.Unassigned {
			holders[e.Role]++
		}
	}
	for r, n := range holders {
		if n > 1 {
			cs.Duplicates = append(cs.Duplicates, r)
		}
	}
	sort.Ints(cs.Duplicates)
	cs.Converged = cs.Confirmed == len(members) && len(cs.Duplicates) == 0
	return cs
}

// Snapshot returns a deep copy of the last observed state.
func (r *Reporter) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.last)
}

// Conflicts returns the conflict events observed so far, in step order.
func (r *Reporter) Conflicts() []role.Conflict {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]role.Conflict(nil), r.conflicts...)
}

func clone(s Snapshot) Snapshot {
	out := s
	out.Agents = append([]Entry(nil), s.Agents...)
	out.Components = make([]ComponentStatus, len(s.Components))
	for i, c := range s.Components {
		c.Agents = append([]int(nil), c.Agents...)
		c.Duplicates = append([]int(nil), c.Duplicates...)
		out.Components[i] = c
	}
	return out
}
