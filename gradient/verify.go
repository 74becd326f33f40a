package gradient

import "fmt"

// Verify checks the field's post-conditions:
//
//   - gradient(s,s) == 0 for every s;
//   - gradient(i,j) == gradient(j,i) for every pair (Unknown on both sides for
//     different components);
//   - for every link (a,n) and every source s, both gradients are known or
//     both unknown, and they differ by at most one.
//
// Any violation is an algorithm defect, never a runtime condition, and is
// returned as ErrInternalConsistency wrapping the specific cause.
// Complexity: O(V² + V·E).
func (f *Field) Verify() error {
	for s := 0; s < f.n; s++ {
		if g := f.at(s, s); g != 0 {
			return fmt.Errorf("%w: %w: gradient(%d,%d)=%d",
				ErrInternalConsistency, ErrSourceNotZero, s, s, g)
		}
	}
	for i := 0; i < f.n; i++ {
		for j := i + 1; j < f.n; j++ {
			if a, b := f.at(i, j), f.at(j, i); a != b {
				return fmt.Errorf("%w: %w: gradient(%d,%d)=%d, gradient(%d,%d)=%d",
					ErrInternalConsistency, ErrAsymmetric, i, j, a, j, i, b)
			}
		}
	}
	for _, e := range f.topo.Edges() {
		a, n := e[0], e[1]
		for s := 0; s < f.n; s++ {
			ga, gn := f.at(s, a), f.at(s, n)
			if (ga == Unknown) != (gn == Unknown) || ga-gn > 1 || gn-ga > 1 {
				return fmt.Errorf("%w: %w: source %d sees %d at agent %d and %d at neighbour %d",
					ErrInternalConsistency, ErrNotMonotone, s, ga, a, gn, n)
			}
		}
	}
	return nil
}
