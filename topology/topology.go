package topology

import (
	"fmt"
	"math"
	"sort"
)

// Topology is an undirected communication graph over agents placed on a grid.
// It is immutable once built: accessors return copies, never internal slices.
//
// Invariants: adjacency is symmetric, there are no self-loops, and every
// position is unique. The graph need not be connected.
type Topology struct {
	grid      GridKind
	points    []Point
	neighbors [][]int
	edges     int
	comp      []int   // agent → component index
	comps     [][]int // component index → agent IDs ascending
}

// Build derives a Topology from an ordered sequence of grid positions.
// The i-th position becomes agent i.
// Returns ErrInvalidTopology wrapping ErrEmptyNetwork, ErrDuplicateNode or
// ErrSizeMismatch for bad input, and ErrOptionViolation for bad options.
// Complexity: O(N·d) time, O(N) memory (d = neighbour offsets of the grid kind).
func Build(points []Point, opts ...Option) (*Topology, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTopology, ErrEmptyNetwork)
	}
	if o.ExpectedSize > 0 && o.ExpectedSize != len(points) {
		return nil, fmt.Errorf("%w: %w: declared %d, found %d",
			ErrInvalidTopology, ErrSizeMismatch, o.ExpectedSize, len(points))
	}

	// Position index; duplicates are rejected here.
	index := make(map[Point]int, len(points))
	for i, p := range points {
		if j, dup := index[p]; dup {
			return nil, fmt.Errorf("%w: %w: agents %d and %d at (%s)",
				ErrInvalidTopology, ErrDuplicateNode, j, i, p)
		}
		index[p] = i
	}

	t := &Topology{
		grid:      o.Grid,
		points:    make([]Point, len(points)),
		neighbors: make([][]int, len(points)),
	}
	copy(t.points, points)

	offsets := o.Grid.offsets()
	for i, p := range t.points {
		for _, d := range offsets {
			j, ok := index[Point{p.X + d.X, p.Y + d.Y}]
			if !ok {
				continue
			}
			t.neighbors[i] = append(t.neighbors[i], j)
		}
		sort.Ints(t.neighbors[i])
		t.edges += len(t.neighbors[i])
	}
	t.edges /= 2
	t.comps, t.comp = connectedComponents(t.neighbors)

	return t, nil
}

// Len returns the number of agents.
func (t *Topology) Len() int { return len(t.points) }

// Grid returns the adjacency predicate the topology was built with.
func (t *Topology) Grid() GridKind { return t.grid }

// EdgeCount returns the number of undirected links.
func (t *Topology) EdgeCount() int { return t.edges }

// Valid reports whether id names an agent of this topology.
func (t *Topology) Valid(id int) bool { return id >= 0 && id < len(t.points) }

// Position returns the grid position of agent id.
func (t *Topology) Position(id int) (Point, error) {
	if !t.Valid(id) {
		return Point{}, fmt.Errorf("%w: %d", ErrAgentIndex, id)
	}
	return t.points[id], nil
}

// Points returns a copy of all positions, indexed by agent ID.
func (t *Topology) Points() []Point {
	out := make([]Point, len(t.points))
	copy(out, t.points)
	return out
}

// Neighbors returns the neighbour IDs of agent id in ascending order.
// The slice is a copy; an invalid id yields nil.
func (t *Topology) Neighbors(id int) []int {
	if !t.Valid(id) {
		return nil
	}
	out := make([]int, len(t.neighbors[id]))
	copy(out, t.neighbors[id])
	return out
}

// EachNeighbor calls fn for every neighbour of id without allocating.
// Iteration stops early when fn returns false.
func (t *Topology) EachNeighbor(id int, fn func(nbr int) bool) {
	if !t.Valid(id) {
		return
	}
	for _, n := range t.neighbors[id] {
		if !fn(n) {
			return
		}
	}
}

// Degree returns the number of neighbours of id.
func (t *Topology) Degree(id int) int {
	if !t.Valid(id) {
		return 0
	}
	return len(t.neighbors[id])
}

// Edges returns every undirected link once as (lower, higher) pairs,
// sorted lexicographically.
func (t *Topology) Edges() [][2]int {
	out := make([][2]int, 0, t.edges)
	for i, nbrs := range t.neighbors {
		for _, j := range nbrs {
			if i < j {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}

// Cartesian converts the grid position of id to Cartesian coordinates with unit
// link length, for renderers. Triangle grids are sheared by 60°; square grids
// map one to one.
func (t *Topology) Cartesian(id int) (x, y float64, err error) {
	p, err := t.Position(id)
	if err != nil {
		return 0, 0, err
	}
	if t.grid == GridTriangle {
		return float64(p.X) + float64(p.Y)/2, float64(p.Y) * math.Sqrt(3) / 2, nil
	}
	return float64(p.X), float64(p.Y), nil
}
