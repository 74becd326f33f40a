package role_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/swarmrole/role"
)

// draws asks strategy s for n proposals of agent id over the same candidates.
func draws(s role.ProposalStrategy, id, n int, available []int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = s.Propose(role.Proposal{Agent: id, Available: available})
	}
	return out
}

// TestRandomAvailable_Deterministic: equal seeds give equal draws, answers
// stay inside the candidates, and Reseed restarts the streams.
func TestRandomAvailable_Deterministic(t *testing.T) {
	avail := []int{2, 4, 6, 8, 10}
	a := role.RandomAvailable(99)
	b := role.RandomAvailable(99)
	da := draws(a, 3, 50, avail)
	assert.Equal(t, da, draws(b, 3, 50, avail))
	for _, r := range da {
		assert.Contains(t, avail, r)
	}

	seeder, ok := a.(role.Seeder)
	require.True(t, ok)
	seeder.Reseed(99)
	assert.Equal(t, da, draws(a, 3, 50, avail))

	// a different agent has its own stream
	assert.NotEqual(t, da, draws(role.RandomAvailable(99), 4, 50, avail))
}

// TestRandomAvailable_ConcurrentAgents: per-agent streams do not depend on the
// interleaving of other agents' calls.
func TestRandomAvailable_ConcurrentAgents(t *testing.T) {
	avail := []int{0, 1, 2, 3, 4, 5, 6, 7}
	want := make([][]int, 8)
	for id := range want {
		want[id] = draws(role.RandomAvailable(7), id, 20, avail)
	}

	s := role.RandomAvailable(7)
	got := make([][]int, 8)
	var wg sync.WaitGroup
	for id := range got {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			got[id] = draws(s, id, 20, avail)
		}(id)
	}
	wg.Wait()
	assert.Equal(t, want, got)
}

// TestPreferences falls back to the lowest candidate.
func TestPreferences(t *testing.T) {
	s := role.Preferences(map[int][]int{1: {5, 3}})
	assert.Equal(t, 5, s.Propose(role.Proposal{Agent: 1, Available: []int{1, 3, 5}}))
	assert.Equal(t, 3, s.Propose(role.Proposal{Agent: 1, Available: []int{1, 3}}))
	assert.Equal(t, 1, s.Propose(role.Proposal{Agent: 1, Available: []int{1, 2}}))
	assert.Equal(t, 0, s.Propose(role.Proposal{Agent: 9, Available: []int{0, 5}}))
}

// TestParse maps configuration names.
func TestParse(t *testing.T) {
	for _, name := range []string{"", "lower-id", "earlier-proposal"} {
		_, err := role.ParseTieBreak(name)
		assert.NoError(t, err, name)
	}
	_, err := role.ParseTieBreak("coin-flip")
	assert.ErrorIs(t, err, role.ErrOptionViolation)

	for _, name := range []string{"", "random", "lowest"} {
		_, err := role.ParseStrategy(name, 1)
		assert.NoError(t, err, name)
	}
	_, err = role.ParseStrategy("greedy", 1)
	assert.ErrorIs(t, err, role.ErrOptionViolation)
}

// TestStatusString names every state.
func TestStatusString(t *testing.T) {
	assert.Equal(t, "UNASSIGNED", role.StatusUnassigned.String())
	assert.Equal(t, "PROPOSED", role.StatusProposed.String())
	assert.Equal(t, "CONFIRMED", role.StatusConfirmed.String())
	assert.Equal(t, "IN_CONFLICT", role.StatusInConflict.String())
}

// TestParseStatus inverts String.
func TestParseStatus(t *testing.T) {
	for _, s := range []role.Status{role.StatusUnassigned, role.StatusProposed, role.StatusConfirmed, role.StatusInConflict} {
		got, err := role.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := role.ParseStatus("DONE")
	assert.ErrorIs(t, err, role.ErrOptionViolation)
}
