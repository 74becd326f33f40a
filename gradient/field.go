package gradient

import (
	"fmt"

	"github.com/katalvlaran/swarmrole/topology"
)

// Field holds gradient(source, observer) for every ordered pair of agents.
// It is immutable once built.
type Field struct {
	n      int
	g      []int // row-major: g[source*n + observer]
	rounds int
	topo   *topology.Topology
}

// builder encapsulates mutable round state.
type builder struct {
	f        *Field
	opts     Options
	frontier [][]int // per source; nil once retired
	active   []int   // sources still expanding, ascending
}

// Build computes the gradient field of t with the round-based frontier
// algorithm. See the package documentation for the round semantics.
// Returns ErrTopologyNil, a context error, a wrapped OnRound error, or
// ErrInternalConsistency when verification is enabled and fails.
func Build(t *topology.Topology, opts ...Option) (*Field, error) {
	if t == nil {
		return nil, ErrTopologyNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	n := t.Len()
	f := &Field{n: n, g: make([]int, n*n), topo: t}
	for i := range f.g {
		f.g[i] = Unknown
	}
	b := &builder{
		f:        f,
		opts:     o,
		frontier: make([][]int, n),
		active:   make([]int, 0, n),
	}
	b.seed()
	if err := b.loop(); err != nil {
		return nil, err
	}
	if o.Verify {
		if err := f.Verify(); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// seed assigns gradient 0 to every source and gradient 1 to its neighbours,
// which form the initial frontier.
func (b *builder) seed() {
	for s := 0; s < b.f.n; s++ {
		b.assign(s, s, 0)
		nbrs := b.f.topo.Neighbors(s)
		for _, v := range nbrs {
			b.assign(s, v, 1)
		}
		b.frontier[s] = nbrs
		b.active = append(b.active, s)
	}
}

// loop runs rounds until every source is retired or the context is done.
func (b *builder) loop() error {
	for round := 1; len(b.active) > 0; round++ {
		select {
		case <-b.opts.Ctx.Done():
			return b.opts.Ctx.Err()
		default:
		}

		next := b.active[:0]
		for _, s := range b.active {
			if b.expand(s, round) {
				next = append(next, s)
			} else {
				b.frontier[s] = nil
			}
		}
		b.active = next
		b.f.rounds = round

		if err := b.opts.OnRound(round, len(b.active)); err != nil {
			return fmt.Errorf("gradient: OnRound error at round %d: %w", round, err)
		}
	}
	return nil
}

// expand pushes the frontier of source s one hop outward. Every neighbour of
// a frontier member without a gradient receives round+1. Reports whether any
// agent was reached.
func (b *builder) expand(s, round int) bool {
	var reached []int
	for _, u := range b.frontier[s] {
		b.f.topo.EachNeighbor(u, func(v int) bool {
			if b.f.at(s, v) == Unknown {
				b.assign(s, v, round+1)
				reached = append(reached, v)
			}
			return true
		})
	}
	b.frontier[s] = reached
	return len(reached) > 0
}

func (b *builder) assign(s, v, g int) {
	b.f.g[s*b.f.n+v] = g
	b.opts.OnAssign(s, v, g)
}

func (f *Field) at(s, v int) int { return f.g[s*f.n+v] }

// Len returns the number of agents covered by the field.
func (f *Field) Len() int { return f.n }

// Rounds returns how many expansion rounds the build took.
func (f *Field) Rounds() int { return f.rounds }

// Topology returns the topology the field was built from.
func (f *Field) Topology() *topology.Topology { return f.topo }

// Gradient returns gradient(source, observer). ok is false when the pair is
// out of range or the observer is unreachable from the source.
func (f *Field) Gradient(source, observer int) (g int, ok bool) {
	if source < 0 || source >= f.n || observer < 0 || observer >= f.n {
		return Unknown, false
	}
	g = f.at(source, observer)
	return g, g != Unknown
}

// Row returns a copy of the gradients of every observer toward source.
// Unreachable observers hold Unknown.
func (f *Field) Row(source int) []int {
	if source < 0 || source >= f.n {
		return nil
	}
	out := make([]int, f.n)
	copy(out, f.g[source*f.n:(source+1)*f.n])
	return out
}

// Eccentricity returns the largest finite gradient of any observer toward
// source: the number of hops a message from source needs to cover its whole
// component. Returns 0 for an isolated agent or an invalid source.
func (f *Field) Eccentricity(source int) int {
	if source < 0 || source >= f.n {
		return 0
	}
	ecc := 0
	for _, g := range f.g[source*f.n : (source+1)*f.n] {
		if g > ecc {
			ecc = g
		}
	}
	return ecc
}

// Diameter returns the largest finite gradient in the field, i.e. the largest
// component diameter of the topology.
func (f *Field) Diameter() int {
	d := 0
	for s := 0; s < f.n; s++ {
		if e := f.Eccentricity(s); e > d {
			d = e
		}
	}
	return d
}
