package topology_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/swarmrole/topology"
)

func TestGenerators_Errors(t *testing.T) {
	_, err := topology.Line(0)
	assert.ErrorIs(t, err, topology.ErrTooFewAgents)
	_, err = topology.Lattice(3, 0)
	assert.ErrorIs(t, err, topology.ErrTooFewAgents)
	_, err = topology.RandomCluster(-1, topology.GridTriangle, 1)
	assert.ErrorIs(t, err, topology.ErrTooFewAgents)
}

func TestLattice(t *testing.T) {
	pts, err := topology.Lattice(2, 3)
	require.NoError(t, err)
	assert.Equal(t, topology.Point{X: 2, Y: 1}, pts[5])

	topo, err := topology.Build(pts, topology.WithGrid(topology.GridSquare))
	require.NoError(t, err)
	assert.Equal(t, 7, topo.EdgeCount())
	assert.Equal(t, 1, topo.ComponentCount())
}

// TestRandomCluster: connected under its own grid kind and reproducible.
func TestRandomCluster(t *testing.T) {
	for _, kind := range []topology.GridKind{topology.GridTriangle, topology.GridSquare, topology.GridSquare8} {
		pts, err := topology.RandomCluster(60, kind, 9)
		require.NoError(t, err)
		again, err := topology.RandomCluster(60, kind, 9)
		require.NoError(t, err)
		assert.Equal(t, pts, again)

		topo, err := topology.Build(pts, topology.WithGrid(kind))
		require.NoError(t, err, kind.String())
		assert.Equal(t, 1, topo.ComponentCount(), kind.String())
	}
}

func TestLine(t *testing.T) {
	pts, err := topology.Line(4)
	require.NoError(t, err)
	topo, err := topology.Build(pts)
	require.NoError(t, err)
	assert.Equal(t, 3, topo.EdgeCount())
}
