package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/swarmrole/role"
	"github.com/katalvlaran/swarmrole/sim"
	"github.com/katalvlaran/swarmrole/topology"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

// runLine runs a line of n agents with the given pool size.
func runLine(t *testing.T, n, roles int) *sim.Result {
	t.Helper()
	pts := make([]topology.Point, n)
	for i := range pts {
		pts[i] = topology.Point{X: i}
	}
	topo, err := topology.Build(pts)
	require.NoError(t, err)
	sm, err := sim.New(topo, sim.WithRoleCount(roles))
	require.NoError(t, err)
	res, err := sm.Run(context.Background())
	require.NoError(t, err)
	return res
}

func TestSaveAndLoadRun(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	res := runLine(t, 3, 3)
	require.NotEmpty(t, res.Conflicts)

	meta := Meta{Network: "3-0", Strategy: "lowest", TieBreak: "lower-id", Seed: 1, Roles: 3}
	require.NoError(t, store.SaveRun(ctx, meta, res))

	got, err := store.GetRun(ctx, res.RunID)
	require.NoError(t, err)
	assert.Equal(t, res.RunID, got.ID)
	assert.Equal(t, "3-0", got.Network)
	assert.Equal(t, 3, got.Agents)
	assert.Equal(t, "converged", got.Outcome)
	assert.Equal(t, res.Steps, got.Steps)
	assert.Equal(t, len(res.Conflicts), got.Conflicts)
	assert.Empty(t, got.LastError)
	assert.False(t, got.CreatedAt.IsZero())

	conflicts, err := store.ListConflicts(ctx, res.RunID)
	require.NoError(t, err)
	assert.Equal(t, res.Conflicts, conflicts)

	assignments, err := store.ListAssignments(ctx, res.RunID)
	require.NoError(t, err)
	assert.Equal(t, res.Snapshot.Agents, assignments)
}

func TestSaveInsufficientRun(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	res := runLine(t, 5, 3)
	require.Equal(t, sim.OutcomeInsufficientRoles, res.Outcome)
	require.NoError(t, store.SaveRun(ctx, Meta{Network: "5-0", Roles: 3}, res))

	got, err := store.GetRun(ctx, res.RunID)
	require.NoError(t, err)
	assert.Equal(t, "insufficient-roles", got.Outcome)
	assert.Contains(t, got.LastError, "role pool smaller")

	assignments, err := store.ListAssignments(ctx, res.RunID)
	require.NoError(t, err)
	unassigned := 0
	for _, e := range assignments {
		if e.Status == role.StatusUnassigned {
			unassigned++
		}
	}
	assert.Equal(t, 2, unassigned)
}

func TestListRunsAndCounts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	for trial := 0; trial < 3; trial++ {
		require.NoError(t, store.SaveRun(ctx, Meta{Network: "3-0", Trial: trial, Roles: 3}, runLine(t, 3, 3)))
	}
	require.NoError(t, store.SaveRun(ctx, Meta{Network: "5-0", Roles: 3}, runLine(t, 5, 3)))

	runs, err := store.ListRuns(ctx, "3-0")
	require.NoError(t, err)
	require.Len(t, runs, 3)
	for i, r := range runs {
		assert.Equal(t, i, r.Trial)
	}

	all, err := store.ListRuns(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	counts, err := store.OutcomeCounts(ctx, "3-0")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"converged": 3}, counts)
}

func TestGetRunNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetRun(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRunNotFound)
}
