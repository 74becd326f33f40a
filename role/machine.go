package role

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/katalvlaran/swarmrole/fabric"
)

// Option configures a Machine.
type Option func(*Machine)

// WithStrategy sets the proposal strategy (default LowestAvailable).
func WithStrategy(s ProposalStrategy) Option {
	return func(m *Machine) {
		if s != nil {
			m.strategy = s
		}
	}
}

// WithTieBreak sets the conflict resolution order (default LowerIDWins).
func WithTieBreak(tb TieBreak) Option {
	return func(m *Machine) {
		if tb != nil {
			m.tieBreak = tb
		}
	}
}

// Machine applies the per-agent role transitions. It holds only immutable
// configuration, so one Machine may step many agents concurrently.
type Machine struct {
	pool     *treeset.Set
	horizon  []int
	strategy ProposalStrategy
	tieBreak TieBreak
}

// NewMachine returns a state machine over the given role pool.
// horizon[id] is the number of quiet steps after a proposal before agent id
// confirms it; values below 1 are raised to 1.
func NewMachine(pool []int, horizon []int, opts ...Option) (*Machine, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	set := treeset.NewWithIntComparator()
	for _, r := range pool {
		if r < 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidRole, r)
		}
		set.Add(r)
	}
	h := make([]int, len(horizon))
	for i, v := range horizon {
		h[i] = max(v, 1)
	}
	m := &Machine{
		pool:     set,
		horizon:  h,
		strategy: LowestAvailable(),
		tieBreak: LowerIDWins,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// PoolSize returns the number of distinct roles.
func (m *Machine) PoolSize() int { return m.pool.Size() }

// Pool returns the distinct roles in ascending order.
func (m *Machine) Pool() []int {
	out := make([]int, 0, m.pool.Size())
	for _, v := range m.pool.Values() {
		out = append(out, v.(int))
	}
	return out
}

// Strategy returns the configured proposal strategy.
func (m *Machine) Strategy() ProposalStrategy { return m.strategy }

// Transition is the outcome of one agent step.
type Transition struct {
	// Out holds the payloads the agent emits this step, with Seq already
	// assigned from the agent's counter.
	Out []fabric.Message
	// Conflicts holds the tie-breaks this agent lost this step.
	Conflicts []Conflict
	// Changed reports whether role or status differ from the previous step.
	Changed bool
}

// Step runs one synchronous round for agent a: absorb the inbox, resolve
// conflicts against a's current role, confirm or (re-)propose. It reads only
// a and inbox, and writes only a.
func (m *Machine) Step(a *Agent, inbox []fabric.Message, step int) (Transition, error) {
	if a.ID < 0 || a.ID >= len(m.horizon) {
		return Transition{}, fmt.Errorf("%w: %d", ErrHorizon, a.ID)
	}
	prevRole, prevStatus := a.Role, a.Status
	var tr Transition

	rivals := m.absorb(a, inbox)

	switch a.Status {
	case StatusInConflict:
		a.Status = StatusUnassigned
	case StatusProposed, StatusConfirmed:
		for _, rival := range rivals {
			if m.tieBreak(a.claim(), rival) {
				continue
			}
			m.lose(a, rival, step, &tr)
			break
		}
		if a.Status == StatusProposed && step-a.ProposedAt >= m.horizon[a.ID] {
			a.Status = StatusConfirmed
		}
	}

	if a.Status == StatusUnassigned {
		if err := m.propose(a, step, &tr); err != nil {
			return tr, err
		}
	}

	tr.Changed = a.Role != prevRole || a.Status != prevStatus
	return tr, nil
}

// absorb records every fresh claim in a's knowledge and returns the
// proposals that contest a's current role.
func (m *Machine) absorb(a *Agent, inbox []fabric.Message) []Claim {
	var rivals []Claim
	for _, msg := range inbox {
		if msg.Source == a.ID {
			continue
		}
		if old, ok := a.known[msg.Source]; ok && old.Seq >= msg.Seq {
			continue
		}
		c := Claim{Agent: msg.Source, Seq: msg.Seq, Role: msg.Payload.Role, ProposedAt: msg.Payload.ProposedAt}
		switch msg.Payload.Kind {
		case fabric.KindNotice:
			c.Role = Unassigned
		case fabric.KindProposal:
			if a.Role != Unassigned && c.Role == a.Role {
				rivals = append(rivals, c)
			}
		}
		a.known[msg.Source] = c
	}
	return rivals
}

// lose drops a's role after a lost tie-break and announces the withdrawal.
func (m *Machine) lose(a *Agent, winner Claim, step int, tr *Transition) {
	contested := a.Role
	tr.Conflicts = append(tr.Conflicts, Conflict{Step: step, Winner: winner.Agent, Loser: a.ID, Role: contested})
	a.lost.Add(contested)
	a.Role = Unassigned
	a.Status = StatusInConflict
	a.Seq++
	tr.Out = append(tr.Out, fabric.Message{
		Source: a.ID,
		Seq:    a.Seq,
		Payload: fabric.Payload{
			Kind:       fabric.KindNotice,
			Role:       contested,
			ProposedAt: a.ProposedAt,
			Winner:     winner.Agent,
		},
	})
}

// propose picks a candidate among roles neither lost nor known taken. With no
// candidate left the agent stays UNASSIGNED and retries on a later step.
func (m *Machine) propose(a *Agent, step int, tr *Transition) error {
	taken := a.Taken()
	available := m.available(a, taken)
	if len(available) == 0 {
		return nil
	}
	r := m.strategy.Propose(Proposal{Agent: a.ID, Step: step, Available: available, Taken: taken})
	if !contains(available, r) {
		return fmt.Errorf("%w: agent %d proposed %d, available %v", ErrStrategyViolation, a.ID, r, available)
	}
	a.Role = r
	a.Status = StatusProposed
	a.ProposedAt = step
	a.Seq++
	a.attempts = append(a.attempts, r)
	tr.Out = append(tr.Out, fabric.Message{
		Source:  a.ID,
		Seq:     a.Seq,
		Payload: fabric.Payload{Kind: fabric.KindProposal, Role: r, ProposedAt: step},
	})
	return nil
}

// available returns pool − lost − taken, ascending.
func (m *Machine) available(a *Agent, taken []int) []int {
	out := make([]int, 0, m.pool.Size())
	it := m.pool.Iterator()
	for it.Next() {
		r := it.Value().(int)
		if a.lost.Contains(r) || contains(taken, r) {
			continue
		}
		out = append(out, r)
	}
	return out
}
