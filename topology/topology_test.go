package topology_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/swarmrole/topology"
)

// line returns n points on the x axis: (0,0) (1,0) ... (n-1,0).
func line(n int) []topology.Point {
	pts := make([]topology.Point, n)
	for i := range pts {
		pts[i] = topology.Point{X: i}
	}
	return pts
}

//----------------------------------------------------------------------------//
// Build errors
//----------------------------------------------------------------------------//

// TestBuild_Errors verifies every construction failure is an ErrInvalidTopology
// (or ErrOptionViolation for bad options) with the precise cause wrapped.
func TestBuild_Errors(t *testing.T) {
	cases := []struct {
		name   string
		points []topology.Point
		opts   []topology.Option
		want   error
	}{
		{"Empty", nil, nil, topology.ErrEmptyNetwork},
		{"Duplicate", []topology.Point{{0, 0}, {1, 0}, {0, 0}}, nil, topology.ErrDuplicateNode},
		{"SizeMismatch", line(3), []topology.Option{topology.WithExpectedSize(4)}, topology.ErrSizeMismatch},
		{"NegativeSize", line(3), []topology.Option{topology.WithExpectedSize(-1)}, topology.ErrOptionViolation},
		{"BadGrid", line(3), []topology.Option{topology.WithGrid(topology.GridKind(42))}, topology.ErrOptionViolation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := topology.Build(tc.points, tc.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			if !errors.Is(tc.want, topology.ErrOptionViolation) {
				assert.ErrorIs(t, err, topology.ErrInvalidTopology)
			}
		})
	}
}

//----------------------------------------------------------------------------//
// Adjacency
//----------------------------------------------------------------------------//

// TestBuild_TriangleAdjacency checks the triangle rule on a 2×2 patch:
//
//	(0,1) (1,1)
//	(0,0) (1,0)
//
// Pairs with Δx·Δy == -1 ((1,0)-(0,1)) are linked, Δx·Δy == +1 ((0,0)-(1,1)) are not.
func TestBuild_TriangleAdjacency(t *testing.T) {
	pts := []topology.Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	topo, err := topology.Build(pts, topology.WithGrid(topology.GridTriangle))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, topo.Neighbors(0))
	assert.Equal(t, []int{0, 2, 3}, topo.Neighbors(1))
	assert.Equal(t, []int{0, 1, 3}, topo.Neighbors(2))
	assert.Equal(t, []int{1, 2}, topo.Neighbors(3))
	assert.Equal(t, 5, topo.EdgeCount())
}

// TestBuild_GridKinds compares neighbour counts of the centre of a 3×3 block.
func TestBuild_GridKinds(t *testing.T) {
	var pts []topology.Point
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			pts = append(pts, topology.Point{X: x, Y: y})
		}
	}
	const centre = 4
	for kind, want := range map[topology.GridKind]int{
		topology.GridSquare:   4,
		topology.GridSquare8:  8,
		topology.GridTriangle: 6,
	} {
		topo, err := topology.Build(pts, topology.WithGrid(kind))
		require.NoError(t, err, kind.String())
		assert.Equal(t, want, topo.Degree(centre), kind.String())
	}
}

// TestBuild_Symmetric asserts i∈N(j) ⇔ j∈N(i) and no self-loops on a ragged shape.
func TestBuild_Symmetric(t *testing.T) {
	pts := []topology.Point{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {3, 1}, {2, 2}, {5, 5}}
	for _, kind := range []topology.GridKind{topology.GridTriangle, topology.GridSquare, topology.GridSquare8} {
		topo, err := topology.Build(pts, topology.WithGrid(kind))
		require.NoError(t, err)
		for i := 0; i < topo.Len(); i++ {
			for _, j := range topo.Neighbors(i) {
				assert.NotEqual(t, i, j, "self-loop at %d", i)
				assert.Contains(t, topo.Neighbors(j), i, "%s: %d→%d not mirrored", kind, i, j)
				assert.True(t, kind.Adjacent(pts[i], pts[j]))
			}
		}
	}
}

// TestTopology_Immutable ensures returned slices are copies.
func TestTopology_Immutable(t *testing.T) {
	topo, err := topology.Build(line(3), topology.WithGrid(topology.GridSquare))
	require.NoError(t, err)

	n := topo.Neighbors(1)
	n[0] = 99
	assert.Equal(t, []int{0, 2}, topo.Neighbors(1))

	p := topo.Points()
	p[0] = topology.Point{X: 7, Y: 7}
	got, err := topo.Position(0)
	require.NoError(t, err)
	assert.Equal(t, topology.Point{}, got)

	_, err = topo.Position(3)
	assert.ErrorIs(t, err, topology.ErrAgentIndex)
	assert.Nil(t, topo.Neighbors(-1))
}

//----------------------------------------------------------------------------//
// Components
//----------------------------------------------------------------------------//

// TestComponents_TwoTriangles builds two disjoint triangles and one isolated agent.
func TestComponents_TwoTriangles(t *testing.T) {
	pts := []topology.Point{
		{0, 0}, {1, 0}, {0, 1}, // triangle A
		{10, 0}, {11, 0}, {10, 1}, // triangle B
		{20, 20}, // isolated
	}
	topo, err := topology.Build(pts)
	require.NoError(t, err)

	assert.Equal(t, [][]int{{0, 1, 2}, {3, 4, 5}, {6}}, topo.Components())
	assert.Equal(t, 3, topo.ComponentCount())
	assert.True(t, topo.SameComponent(0, 2))
	assert.False(t, topo.SameComponent(2, 3))
	assert.Equal(t, 1, topo.ComponentSize(6))
	assert.Equal(t, -1, topo.ComponentOf(7))
	assert.Equal(t, [][2]int{{0, 1}, {0, 2}, {1, 2}, {3, 4}, {3, 5}, {4, 5}}, topo.Edges())
}

// TestCartesian checks the 60° shear of triangle grids.
func TestCartesian(t *testing.T) {
	topo, err := topology.Build([]topology.Point{{0, 0}, {0, 1}, {1, 0}})
	require.NoError(t, err)

	x, y, err := topo.Cartesian(1)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, x, 1e-9)
	assert.InDelta(t, math.Sqrt(3)/2, y, 1e-9)
	// neighbours stay one unit apart after conversion
	x2, y2, _ := topo.Cartesian(2)
	assert.InDelta(t, 1.0, math.Hypot(x2-x, y2-y), 1e-9)
}

// TestParseGridKind round-trips the configuration names.
func TestParseGridKind(t *testing.T) {
	for _, k := range []topology.GridKind{topology.GridTriangle, topology.GridSquare, topology.GridSquare8} {
		got, err := topology.ParseGridKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := topology.ParseGridKind("hexagon")
	assert.ErrorIs(t, err, topology.ErrOptionViolation)
}
