package role

import (
	"fmt"
	"math/rand"
	"sync"
)

// Proposal is the local knowledge a strategy may use to pick a role.
type Proposal struct {
	// Agent is the proposing agent.
	Agent int
	// Step is the current simulated step.
	Step int
	// Available lists, ascending, the pool roles the agent has neither lost
	// nor heard being claimed by another agent. Never empty.
	Available []int
	// Taken lists, ascending, the roles the agent knows other agents claim.
	Taken []int
}

// ProposalStrategy picks the next role candidate. The answer must be one of
// p.Available. Implementations are called from the proposing agent's step
// only and must be safe for concurrent calls with different p.Agent values.
type ProposalStrategy interface {
	Propose(p Proposal) int
}

// StrategyFunc adapts a plain function to ProposalStrategy.
type StrategyFunc func(p Proposal) int

// Propose calls f(p).
func (f StrategyFunc) Propose(p Proposal) int { return f(p) }

// LowestAvailable always proposes the smallest available role.
func LowestAvailable() ProposalStrategy {
	return StrategyFunc(func(p Proposal) int { return p.Available[0] })
}

// Seeder is implemented by strategies whose randomness can be re-seeded
// between trials.
type Seeder interface {
	Reseed(seed int64)
}

// randomAvailable draws uniformly from the available roles, one RNG stream per agent.
type randomAvailable struct {
	mu      sync.Mutex
	seed    int64
	streams map[int]*rand.Rand
}

// RandomAvailable proposes a uniformly random available role. Each agent
// draws from its own stream derived from seed, so results do not depend on
// step scheduling.
func RandomAvailable(seed int64) ProposalStrategy {
	return &randomAvailable{seed: seed, streams: make(map[int]*rand.Rand)}
}

func (r *randomAvailable) stream(id int) *rand.Rand {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.streams[id]
	if !ok {
		s = agentRNG(r.seed, id)
		r.streams[id] = s
	}
	return s
}

// Propose implements ProposalStrategy.
func (r *randomAvailable) Propose(p Proposal) int {
	return p.Available[r.stream(p.Agent).Intn(len(p.Available))]
}

// Reseed drops every agent stream and restarts them from seed.
func (r *randomAvailable) Reseed(seed int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seed = seed
	r.streams = make(map[int]*rand.Rand)
}

// Preferences proposes, per agent, the first role of its preference list that
// is still available, falling back to the lowest available role.
func Preferences(prefs map[int][]int) ProposalStrategy {
	table := make(map[int][]int, len(prefs))
	for id, list := range prefs {
		table[id] = append([]int(nil), list...)
	}
	return StrategyFunc(func(p Proposal) int {
		for _, want := range table[p.Agent] {
			if contains(p.Available, want) {
				return want
			}
		}
		return p.Available[0]
	})
}

// TieBreak decides a conflict over the same role from one side: it reports
// whether mine beats theirs. Both sides evaluate it with swapped arguments and
// must reach opposite answers, so it has to be a strict total order over
// claims that depends only on fields carried by messages.
type TieBreak func(mine, theirs Claim) bool

// LowerIDWins lets the agent with the smaller ID keep the role.
func LowerIDWins(mine, theirs Claim) bool {
	return mine.Agent < theirs.Agent
}

// EarlierProposalWins lets the older proposal keep the role; equal proposal
// steps fall back to the smaller agent ID.
func EarlierProposalWins(mine, theirs Claim) bool {
	if mine.ProposedAt != theirs.ProposedAt {
		return mine.ProposedAt < theirs.ProposedAt
	}
	return mine.Agent < theirs.Agent
}

// ParseTieBreak maps a configuration name to a TieBreak.
func ParseTieBreak(name string) (TieBreak, error) {
	switch name {
	case "", "lower-id":
		return LowerIDWins, nil
	case "earlier-proposal":
		return EarlierProposalWins, nil
	}
	return nil, fmt.Errorf("%w: unknown tie-break %q", ErrOptionViolation, name)
}

// ParseStrategy maps a configuration name to a ProposalStrategy.
func ParseStrategy(name string, seed int64) (ProposalStrategy, error) {
	switch name {
	case "", "random":
		return RandomAvailable(seed), nil
	case "lowest":
		return LowestAvailable(), nil
	}
	return nil, fmt.Errorf("%w: unknown strategy %q", ErrOptionViolation, name)
}

func contains(sorted []int, v int) bool {
	for _, x := range sorted {
		if x == v {
			return true
		}
		if x > v {
			return false
		}
	}
	return false
}
