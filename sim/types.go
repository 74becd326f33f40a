package sim

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/katalvlaran/swarmrole/fabric"
	"github.com/katalvlaran/swarmrole/report"
	"github.com/katalvlaran/swarmrole/role"
	"github.com/katalvlaran/swarmrole/telemetry"
)

// Sentinel errors for simulation setup and terminal outcomes.
var (
	// ErrTopologyNil is returned if a nil topology pointer is passed.
	ErrTopologyNil = errors.New("sim: topology is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("sim: invalid option supplied")

	// ErrInsufficientRoles is the terminal error of a run in which some
	// connected component has more agents than the role pool.
	ErrInsufficientRoles = errors.New("sim: role pool smaller than a connected component")

	// ErrStallDetected is the terminal error of a run that stopped making
	// progress although every component fits the pool.
	ErrStallDetected = errors.New("sim: no progress within the stall window")

	// ErrStepLimit is the terminal error of a run cut off by WithMaxSteps.
	ErrStepLimit = errors.New("sim: step limit reached")
)

// DefaultStallFactor scales the stall window, in units of diameter+1 steps.
const DefaultStallFactor = 4

// Outcome classifies how a run ended.
type Outcome int

const (
	// OutcomeRunning: the run has not reached a terminal state.
	OutcomeRunning Outcome = iota
	// OutcomeConverged: every component converged.
	OutcomeConverged
	// OutcomeInsufficientRoles: stalled with a component larger than the pool.
	OutcomeInsufficientRoles
	// OutcomeStalled: stalled for any other reason.
	OutcomeStalled
	// OutcomeStepLimit: WithMaxSteps cut the run off.
	OutcomeStepLimit
)

// String returns the outcome name used in logs, metrics and the run store.
func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomeConverged:
		return "converged"
	case OutcomeInsufficientRoles:
		return "insufficient-roles"
	case OutcomeStalled:
		return "stalled"
	case OutcomeStepLimit:
		return "step-limit"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Err returns the terminal sentinel of the outcome, nil for convergence.
func (o Outcome) Err() error {
	switch o {
	case OutcomeInsufficientRoles:
		return ErrInsufficientRoles
	case OutcomeStalled:
		return ErrStallDetected
	case OutcomeStepLimit:
		return ErrStepLimit
	default:
		return nil
	}
}

// Result is the report of one finished run.
type Result struct {
	RunID     uuid.UUID
	Outcome   Outcome
	Steps     int
	Snapshot  report.Snapshot
	Conflicts []role.Conflict
	Traffic   fabric.Stats
	// Err carries ErrInsufficientRoles, ErrStallDetected or ErrStepLimit,
	// wrapped with detail; nil when the run converged.
	Err error
}

// Option configures a Simulation via functional arguments.
// Invalid values are recorded and surfaced as ErrOptionViolation by New.
type Option func(*Options)

// Options holds the run parameters.
type Options struct {
	// Pool lists the role identifiers; nil means 0..N-1.
	Pool []int

	Strategy role.ProposalStrategy
	TieBreak role.TieBreak

	// StallFactor scales the stall window stallFactor × (diameter+1).
	StallFactor int

	// MaxSteps, if > 0, ends a run after that many steps.
	MaxSteps int

	// Workers, if > 1, runs agent steps on that many goroutines per step.
	Workers int

	Logger  *slog.Logger
	Metrics *telemetry.Metrics

	// OnStep is called after every step with the reporter's snapshot.
	OnStep func(report.Snapshot)

	err error
}

// DefaultOptions returns Options with one role per agent, LowestAvailable,
// LowerIDWins, sequential agent steps and a discarding logger.
func DefaultOptions() Options {
	return Options{
		Strategy:    role.LowestAvailable(),
		TieBreak:    role.LowerIDWins,
		StallFactor: DefaultStallFactor,
		Logger:      telemetry.Discard(),
		OnStep:      func(report.Snapshot) {},
	}
}

// WithRolePool sets the role identifiers. An empty pool is invalid.
func WithRolePool(pool []int) Option {
	return func(o *Options) {
		if len(pool) == 0 {
			o.err = fmt.Errorf("%w: role pool is empty", ErrOptionViolation)
			return
		}
		o.Pool = append([]int(nil), pool...)
	}
}

// WithRoleCount sets the pool to 0..n-1.
func WithRoleCount(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: role count must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.Pool = make([]int, n)
		for i := range o.Pool {
			o.Pool[i] = i
		}
	}
}

// WithStrategy sets the proposal strategy.
func WithStrategy(s role.ProposalStrategy) Option {
	return func(o *Options) {
		if s != nil {
			o.Strategy = s
		}
	}
}

// WithTieBreak sets the conflict resolution order.
func WithTieBreak(tb role.TieBreak) Option {
	return func(o *Options) {
		if tb != nil {
			o.TieBreak = tb
		}
	}
}

// WithStallFactor sets the stall window multiplier.
//
//	f > 0: window f × (diameter+1)
//	f <= 0: invalid option → ErrOptionViolation
func WithStallFactor(f int) Option {
	return func(o *Options) {
		if f <= 0 {
			o.err = fmt.Errorf("%w: stall factor must be positive (%d)", ErrOptionViolation, f)
			return
		}
		o.StallFactor = f
	}
}

// WithMaxSteps bounds a run; 0 means unbounded.
func WithMaxSteps(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: max steps cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxSteps = n
	}
}

// WithParallel runs agent steps on n goroutines with a barrier per step.
// n <= 1 keeps them sequential.
func WithParallel(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: worker count cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.Workers = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMetrics records step and run metrics on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}

// WithOnStep registers a per-step snapshot callback.
func WithOnStep(fn func(report.Snapshot)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnStep = fn
		}
	}
}
