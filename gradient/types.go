package gradient

import (
	"context"
	"errors"
)

// Unknown marks a (source, observer) pair the source's wave has not reached.
const Unknown = -1

// Sentinel errors for gradient construction and verification.
var (
	// ErrTopologyNil is returned if a nil topology pointer is passed.
	ErrTopologyNil = errors.New("gradient: topology is nil")

	// ErrInternalConsistency wraps every invariant violation of a built field.
	ErrInternalConsistency = errors.New("gradient: internal consistency violation")

	// ErrAsymmetric indicates gradient(i,j) != gradient(j,i).
	ErrAsymmetric = errors.New("gradient: asymmetric gradient")

	// ErrNotMonotone indicates neighbouring agents differ by more than one hop.
	ErrNotMonotone = errors.New("gradient: neighbour gradients differ by more than one")

	// ErrSourceNotZero indicates gradient(s,s) != 0.
	ErrSourceNotZero = errors.New("gradient: source gradient is not zero")
)

// Option configures Build via functional arguments.
type Option func(*Options)

// Options holds parameters and callbacks for Build.
type Options struct {
	// Ctx allows cancellation between rounds.
	Ctx context.Context

	// OnRound is called after every round with the round number (starting at 1)
	// and the number of sources still active after it. Returning an error
	// aborts the build.
	OnRound func(round, active int) error

	// OnAssign is called whenever gradient(source, observer) is written.
	OnAssign func(source, observer, g int)

	// Verify runs Field.Verify before Build returns.
	Verify bool
}

// DefaultOptions returns Options with a background context, no-op hooks and
// verification enabled.
func DefaultOptions() Options {
	return Options{
		Ctx:      context.Background(),
		OnRound:  func(int, int) error { return nil },
		OnAssign: func(int, int, int) {},
		Verify:   true,
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnRound registers a per-round callback.
func WithOnRound(fn func(round, active int) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnRound = fn
		}
	}
}

// WithOnAssign registers a per-assignment callback.
func WithOnAssign(fn func(source, observer, g int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnAssign = fn
		}
	}
}

// WithVerify toggles the post-build consistency check.
func WithVerify(on bool) Option {
	return func(o *Options) {
		o.Verify = on
	}
}
