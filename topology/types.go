package topology

import (
	"errors"
	"fmt"
)

// Sentinel errors for topology construction and parsing.
var (
	// ErrInvalidTopology wraps every malformed or inconsistent input.
	ErrInvalidTopology = errors.New("topology: invalid topology")

	// ErrEmptyNetwork indicates no agent positions were supplied.
	ErrEmptyNetwork = errors.New("topology: network has no nodes")

	// ErrDuplicateNode indicates two agents were placed on the same position.
	ErrDuplicateNode = errors.New("topology: duplicate node position")

	// ErrSizeMismatch indicates the declared size disagrees with the node count.
	ErrSizeMismatch = errors.New("topology: size does not match node count")

	// ErrMalformedLine indicates a coordinate line is not exactly two integers.
	ErrMalformedLine = errors.New("topology: malformed coordinate line")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("topology: invalid option supplied")

	// ErrAgentIndex indicates an agent ID outside 0..N-1.
	ErrAgentIndex = errors.New("topology: agent index out of range")
)

// GridKind selects the adjacency predicate used to derive neighbours.
type GridKind int

const (
	// GridTriangle connects (Δx,Δy) with |Δx|+|Δy| == 1 or Δx·Δy == -1.
	GridTriangle GridKind = iota
	// GridSquare connects orthogonal neighbours only.
	GridSquare
	// GridSquare8 connects orthogonal and diagonal neighbours.
	GridSquare8
)

// String returns the configuration name of the grid kind.
func (k GridKind) String() string {
	switch k {
	case GridTriangle:
		return "triangle"
	case GridSquare:
		return "square"
	case GridSquare8:
		return "square8"
	default:
		return fmt.Sprintf("GridKind(%d)", int(k))
	}
}

// ParseGridKind maps a configuration name back to a GridKind.
func ParseGridKind(name string) (GridKind, error) {
	switch name {
	case "triangle", "tri", "":
		return GridTriangle, nil
	case "square", "square4":
		return GridSquare, nil
	case "square8":
		return GridSquare8, nil
	}
	return 0, fmt.Errorf("%w: unknown grid kind %q", ErrOptionViolation, name)
}

// offsets returns the neighbour displacement set of the grid kind.
func (k GridKind) offsets() []Point {
	switch k {
	case GridSquare:
		return []Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	case GridSquare8:
		return []Point{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}
	default:
		// the four axis steps plus the two anti-diagonal steps (Δx·Δy == -1)
		return []Point{{0, -1}, {1, -1}, {1, 0}, {0, 1}, {-1, 1}, {-1, 0}}
	}
}

// Adjacent reports whether two positions are neighbours under this grid kind.
// Complexity: O(1).
func (k GridKind) Adjacent(a, b Point) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	switch k {
	case GridSquare:
		return abs(dx)+abs(dy) == 1
	case GridSquare8:
		return (dx != 0 || dy != 0) && abs(dx) <= 1 && abs(dy) <= 1
	default:
		return abs(dx)+abs(dy) == 1 || dx*dy == -1
	}
}

// Point is an integer grid position.
type Point struct {
	X, Y int
}

// String formats the point as "x y", the coordinate file line format.
func (p Point) String() string {
	return fmt.Sprintf("%d %d", p.X, p.Y)
}

// Option configures Build via functional arguments.
// Invalid values are recorded and surfaced as ErrOptionViolation by Build.
type Option func(*Options)

// Options holds the parameters of topology construction.
type Options struct {
	// Grid selects the adjacency predicate.
	Grid GridKind

	// ExpectedSize, if > 0, must equal the number of positions.
	// A value of 0 disables the size check.
	ExpectedSize int

	err error
}

// DefaultOptions returns Options with a triangle grid and no size check.
func DefaultOptions() Options {
	return Options{Grid: GridTriangle}
}

// WithGrid selects the adjacency predicate.
func WithGrid(k GridKind) Option {
	return func(o *Options) {
		switch k {
		case GridTriangle, GridSquare, GridSquare8:
			o.Grid = k
		default:
			o.err = fmt.Errorf("%w: unknown grid kind %d", ErrOptionViolation, int(k))
		}
	}
}

// WithExpectedSize requires the network to contain exactly n agents.
//
//	n > 0: enforce the size
//	n == 0: explicit "no check"
//	n < 0: invalid option → ErrOptionViolation
func WithExpectedSize(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: expected size cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.ExpectedSize = n
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
