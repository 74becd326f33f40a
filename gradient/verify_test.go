package gradient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/swarmrole/topology"
)

// corrupt builds a valid field over the line 0-1-2-3 and lets mutate break it.
func corrupt(t *testing.T, mutate func(f *Field)) error {
	t.Helper()
	topo, err := topology.Build(
		[]topology.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}},
		topology.WithGrid(topology.GridSquare),
	)
	require.NoError(t, err)
	f, err := Build(topo)
	require.NoError(t, err)
	mutate(f)
	return f.Verify()
}

// TestVerify_DetectsDefects ensures each invariant violation is reported as an
// internal consistency error, never tolerated.
func TestVerify_DetectsDefects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(f *Field)
		want   error
	}{
		{"SourceNotZero", func(f *Field) { f.g[2*f.n+2] = 1 }, ErrSourceNotZero},
		{"Asymmetric", func(f *Field) { f.g[0*f.n+3] = 2 }, ErrAsymmetric},
		{"NotMonotone", func(f *Field) {
			// symmetric but jumps two hops across the 1-2 link
			f.g[0*f.n+2], f.g[2*f.n+0] = 4, 4
		}, ErrNotMonotone},
		{"HalfUnknown", func(f *Field) {
			f.g[0*f.n+3], f.g[3*f.n+0] = Unknown, Unknown
		}, ErrNotMonotone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := corrupt(t, tc.mutate)
			assert.ErrorIs(t, err, ErrInternalConsistency)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.NoError(t, corrupt(t, func(*Field) {}))
}
