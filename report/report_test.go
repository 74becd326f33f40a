package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/swarmrole/report"
	"github.com/katalvlaran/swarmrole/role"
	"github.com/katalvlaran/swarmrole/topology"
)

// twoTriangles builds two disjoint 3-agent triangle clusters.
func twoTriangles(t *testing.T) *topology.Topology {
	t.Helper()
	topo, err := topology.Build([]topology.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1},
		{X: 10, Y: 10}, {X: 11, Y: 10}, {X: 10, Y: 11},
	})
	require.NoError(t, err)
	require.Equal(t, 2, topo.ComponentCount())
	return topo
}

func confirmed(agent, r int) report.Entry {
	return report.Entry{Agent: agent, Role: r, Status: role.StatusConfirmed}
}

// TestObserve_CrossComponentCollision: the same roles in both clusters are fine.
func TestObserve_CrossComponentCollision(t *testing.T) {
	r := report.New(twoTriangles(t))
	snap := r.Observe(7, []report.Entry{
		confirmed(0, 0), confirmed(1, 1), confirmed(2, 2),
		confirmed(3, 0), confirmed(4, 1), confirmed(5, 2),
	}, nil)

	assert.True(t, snap.Converged)
	assert.Equal(t, 7, snap.Step)
	require.Len(t, snap.Components, 2)
	for _, c := range snap.Components {
		assert.Empty(t, c.Duplicates)
		assert.Equal(t, 3, c.Confirmed)
	}
	assert.Empty(t, r.Conflicts())
}

// TestObserve_DuplicateBlocksConvergence inside one component only.
func TestObserve_DuplicateBlocksConvergence(t *testing.T) {
	r := report.New(twoTriangles(t))
	snap := r.Observe(3, []report.Entry{
		confirmed(0, 1), confirmed(1, 1), confirmed(2, 2),
		confirmed(3, 0), confirmed(4, 1), confirmed(5, 2),
	}, nil)

	assert.False(t, snap.Converged)
	assert.Equal(t, []int{1}, snap.Components[0].Duplicates)
	assert.False(t, snap.Components[0].Converged)
	assert.True(t, snap.Components[1].Converged)
}

// TestObserve_PendingAgents: PROPOSED and UNASSIGNED agents are not converged.
func TestObserve_PendingAgents(t *testing.T) {
	r := report.New(twoTriangles(t))
	snap := r.Observe(1, []report.Entry{
		confirmed(0, 0), {Agent: 1, Role: 1, Status: role.StatusProposed}, confirmed(2, 2),
		confirmed(3, 0), confirmed(4, 1), {Agent: 5, Role: role.Unassigned, Status: role.StatusUnassigned},
	}, nil)
	assert.False(t, snap.Converged)
	assert.Equal(t, 2, snap.Components[0].Confirmed)
	assert.Equal(t, 2, snap.Components[1].Confirmed)
}

// TestConflicts_LogAndReset accumulates events across steps.
func TestConflicts_LogAndReset(t *testing.T) {
	r := report.New(twoTriangles(t))
	entries := make([]report.Entry, 6)
	for i := range entries {
		entries[i] = report.Entry{Agent: i, Role: role.Unassigned}
	}
	r.Observe(1, entries, []role.Conflict{{Step: 1, Winner: 0, Loser: 2, Role: 0}})
	r.Observe(2, entries, nil)
	r.Observe(3, entries, []role.Conflict{{Step: 3, Winner: 3, Loser: 4, Role: 1}})

	got := r.Conflicts()
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Step)
	assert.Equal(t, 3, got[1].Step)

	// callers cannot mutate the log or the snapshot
	got[0].Winner = 99
	snap := r.Snapshot()
	snap.Agents[0].Role = 42
	assert.Equal(t, 0, r.Conflicts()[0].Winner)
	assert.Equal(t, role.Unassigned, r.Snapshot().Agents[0].Role)

	r.Reset()
	assert.Empty(t, r.Conflicts())
	assert.Zero(t, r.Snapshot().Step)
}
