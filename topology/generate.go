package topology

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrTooFewAgents is returned by the generators for a non-positive size.
var ErrTooFewAgents = errors.New("topology: generator needs at least one agent")

// Line returns n positions along the x axis. Agent i sits at (i, 0), so
// consecutive agents are neighbours under every grid kind.
// Complexity: O(n).
func Line(n int) ([]Point, error) {
	if n < 1 {
		return nil, fmt.Errorf("Line: n=%d: %w", n, ErrTooFewAgents)
	}
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{X: i}
	}
	return pts, nil
}

// Lattice returns a rows×cols block in row-major order: agent r*cols+c sits
// at (c, r).
// Complexity: O(rows·cols).
func Lattice(rows, cols int) ([]Point, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("Lattice: rows=%d, cols=%d: %w", rows, cols, ErrTooFewAgents)
	}
	pts := make([]Point, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			pts = append(pts, Point{X: c, Y: r})
		}
	}
	return pts, nil
}

// RandomCluster grows a connected network of n agents under kind: starting
// from the origin, it repeatedly picks a placed agent and a grid direction
// and places a new agent there if the cell is free. The same seed always
// yields the same positions.
// Complexity: expected O(n) placements.
func RandomCluster(n int, kind GridKind, seed int64) ([]Point, error) {
	if n < 1 {
		return nil, fmt.Errorf("RandomCluster: n=%d: %w", n, ErrTooFewAgents)
	}
	rng := rand.New(rand.NewSource(seed))
	dirs := kind.offsets()
	occupied := map[Point]struct{}{{}: {}}
	pts := make([]Point, 1, n)
	for len(pts) < n {
		base := pts[rng.Intn(len(pts))]
		d := dirs[rng.Intn(len(dirs))]
		p := Point{X: base.X + d.X, Y: base.Y + d.Y}
		if _, taken := occupied[p]; taken {
			continue
		}
		occupied[p] = struct{}{}
		pts = append(pts, p)
	}
	return pts, nil
}
