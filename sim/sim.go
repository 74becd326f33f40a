package sim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/swarmrole/fabric"
	"github.com/katalvlaran/swarmrole/gradient"
	"github.com/katalvlaran/swarmrole/report"
	"github.com/katalvlaran/swarmrole/role"
	"github.com/katalvlaran/swarmrole/telemetry"
	"github.com/katalvlaran/swarmrole/topology"
)

// Simulation owns every piece of mutable run state: agents, ledger, fabric,
// reporter and the global step clock. Topology and gradient field are built
// once and shared by all trials.
type Simulation struct {
	topo     *topology.Topology
	field    *gradient.Field
	fabric   *fabric.Fabric
	machine  *role.Machine
	reporter *report.Reporter
	opts     Options

	agents []*role.Agent
	ledger []report.Entry
	step   int
	quiet  int
	window int
}

// New builds the gradient field, fabric, state machine and reporter for t.
// Errors: ErrTopologyNil, ErrOptionViolation, gradient and role construction
// errors.
func New(t *topology.Topology, opts ...Option) (*Simulation, error) {
	if t == nil {
		return nil, ErrTopologyNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if o.Pool == nil {
		o.Pool = make([]int, t.Len())
		for i := range o.Pool {
			o.Pool[i] = i
		}
	}

	field, err := gradient.Build(t)
	if err != nil {
		return nil, err
	}
	// A claim reaches the farthest agent after ecc steps; a rival proposal made
	// before that needs as long to come back.
	horizon := make([]int, t.Len())
	for id := range horizon {
		horizon[id] = max(1, 2*field.Eccentricity(id))
	}
	machine, err := role.NewMachine(o.Pool, horizon,
		role.WithStrategy(o.Strategy), role.WithTieBreak(o.TieBreak))
	if err != nil {
		return nil, err
	}
	fb, err := fabric.New(field)
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		topo:     t,
		field:    field,
		fabric:   fb,
		machine:  machine,
		reporter: report.New(t),
		opts:     o,
		window:   o.StallFactor * (field.Diameter() + 1),
	}
	s.Reset()
	return s, nil
}

// Reset discards all run state so the next Step starts a fresh trial.
func (s *Simulation) Reset() {
	n := s.topo.Len()
	s.agents = make([]*role.Agent, n)
	s.ledger = make([]report.Entry, n)
	for id := range s.agents {
		s.agents[id] = role.NewAgent(id)
		s.ledger[id] = entry(s.agents[id])
	}
	s.fabric.Reset()
	s.reporter.Reset()
	s.step = 0
	s.quiet = 0
}

// Reseed restarts a seeded proposal strategy. It reports false when the
// configured strategy has no randomness.
func (s *Simulation) Reseed(seed int64) bool {
	sd, ok := s.machine.Strategy().(role.Seeder)
	if ok {
		sd.Reseed(seed)
	}
	return ok
}

// Topology returns the simulated topology.
func (s *Simulation) Topology() *topology.Topology { return s.topo }

// Field returns the gradient field.
func (s *Simulation) Field() *gradient.Field { return s.field }

// Now returns the number of completed steps.
func (s *Simulation) Now() int { return s.step }

// StallWindow returns the number of quiet steps that ends a run as stalled.
func (s *Simulation) StallWindow() int { return s.window }

// PoolSize returns the number of distinct roles.
func (s *Simulation) PoolSize() int { return s.machine.PoolSize() }

// Ledger returns a copy of the current (role, status) of every agent.
func (s *Simulation) Ledger() []report.Entry {
	return append([]report.Entry(nil), s.ledger...)
}

// Attempts returns every role agent id proposed since the last Reset.
func (s *Simulation) Attempts(id int) []int {
	if !s.topo.Valid(id) {
		return nil
	}
	return s.agents[id].Attempts()
}

// Lost returns the roles agent id gave up after a lost tie-break.
func (s *Simulation) Lost(id int) []int {
	if !s.topo.Valid(id) {
		return nil
	}
	return s.agents[id].Lost()
}

// Reporter exposes the aggregate view of the run.
func (s *Simulation) Reporter() *report.Reporter { return s.reporter }

// Step runs one synchronous round: the fabric moves every message one hop,
// each agent steps on its inbox, the ledger is rewritten, the new messages
// are emitted and the reporter observes the result.
func (s *Simulation) Step(ctx context.Context) (report.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return report.Snapshot{}, err
	}
	now := s.step
	delivered := s.fabric.Step()

	trs, err := s.stepAgents(now)
	if err != nil {
		return report.Snapshot{}, err
	}

	var (
		changed   bool
		conflicts []role.Conflict
	)
	for id, tr := range trs {
		s.ledger[id] = entry(s.agents[id])
		changed = changed || tr.Changed
		conflicts = append(conflicts, tr.Conflicts...)
		for _, m := range tr.Out {
			if err := s.fabric.Emit(m); err != nil {
				return report.Snapshot{}, fmt.Errorf("sim: step %d agent %d: %w", now, id, err)
			}
		}
	}
	s.step++

	if changed || s.fabric.InFlight() || s.awaiting() {
		s.quiet = 0
	} else {
		s.quiet++
	}

	snap := s.reporter.Observe(now, s.ledger, conflicts)
	s.log(ctx, now, delivered, changed, conflicts, snap)
	s.opts.Metrics.RecordStep(ctx, delivered, len(conflicts), confirmed(snap))
	s.opts.OnStep(snap)
	return snap, nil
}

// stepAgents runs machine.Step for every agent against the inboxes of this
// step. Each agent reads and writes only its own state.
func (s *Simulation) stepAgents(now int) ([]role.Transition, error) {
	n := len(s.agents)
	trs := make([]role.Transition, n)
	errs := make([]error, n)
	run := func(id int) {
		trs[id], errs[id] = s.machine.Step(s.agents[id], s.fabric.Inbox(id), now)
	}

	if w := s.opts.Workers; w > 1 && n > 1 {
		var wg sync.WaitGroup
		ids := make(chan int)
		for i, k := 0, min(w, n); i < k; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for id := range ids {
					run(id)
				}
			}()
		}
		for id := 0; id < n; id++ {
			ids <- id
		}
		close(ids)
		wg.Wait()
	} else {
		for id := 0; id < n; id++ {
			run(id)
		}
	}

	for id, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("sim: step %d agent %d: %w", now, id, err)
		}
	}
	return trs, nil
}

// awaiting reports whether some agent can still change state without new
// messages: a pending proposal confirms, an agent in conflict re-proposes.
func (s *Simulation) awaiting() bool {
	for _, e := range s.ledger {
		if e.Status == role.StatusProposed || e.Status == role.StatusInConflict {
			return true
		}
	}
	return false
}

// verdict classifies the state after the last step.
func (s *Simulation) verdict(snap report.Snapshot) Outcome {
	switch {
	case snap.Converged:
		return OutcomeConverged
	case s.quiet >= s.window:
		for _, c := range snap.Components {
			if len(c.Agents) > s.machine.PoolSize() {
				return OutcomeInsufficientRoles
			}
		}
		return OutcomeStalled
	case s.opts.MaxSteps > 0 && s.step >= s.opts.MaxSteps:
		return OutcomeStepLimit
	default:
		return OutcomeRunning
	}
}

// Run steps until every component converges, the run stalls or the step
// limit is hit. Terminal outcomes are reported in Result; the returned error
// is reserved for cancellation and invariant violations.
func (s *Simulation) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New()
	ctx, span := otel.Tracer(telemetry.Scope).Start(ctx, "sim.Run", trace.WithAttributes(
		attribute.String("run.id", runID.String()),
		attribute.Int("agents", s.topo.Len()),
		attribute.Int("roles", s.machine.PoolSize()),
	))
	defer span.End()

	log := s.opts.Logger.With("run", runID.String())
	log.InfoContext(ctx, "run started",
		"agents", s.topo.Len(), "roles", s.machine.PoolSize(),
		"components", s.topo.ComponentCount(), "diameter", s.field.Diameter(),
		"stall_window", s.window)

	for {
		snap, err := s.Step(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.ErrorContext(ctx, "run aborted", "step", s.step, "err", err)
			return nil, err
		}
		outcome := s.verdict(snap)
		if outcome == OutcomeRunning {
			continue
		}

		res := &Result{
			RunID:     runID,
			Outcome:   outcome,
			Steps:     s.step,
			Snapshot:  snap,
			Conflicts: s.reporter.Conflicts(),
			Traffic:   s.fabric.Stats(),
		}
		if err := outcome.Err(); err != nil {
			res.Err = fmt.Errorf("%w: after %d steps, %d of %d agents confirmed",
				err, s.step, confirmed(snap), s.topo.Len())
		}
		span.SetAttributes(
			attribute.String("outcome", outcome.String()),
			attribute.Int("steps", res.Steps),
			attribute.Int("conflicts", len(res.Conflicts)),
		)
		s.opts.Metrics.RecordRun(ctx, outcome.String())
		log.InfoContext(ctx, "run finished",
			"outcome", outcome.String(), "steps", res.Steps,
			"conflicts", len(res.Conflicts), "delivered", res.Traffic.Delivered)
		return res, nil
	}
}

func (s *Simulation) log(ctx context.Context, step, delivered int, changed bool, conflicts []role.Conflict, snap report.Snapshot) {
	l := s.opts.Logger
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}
	for _, c := range conflicts {
		l.DebugContext(ctx, "conflict", "step", c.Step, "role", c.Role, "winner", c.Winner, "loser", c.Loser)
	}
	l.DebugContext(ctx, "step",
		"step", step, "delivered", delivered, "changed", changed,
		"confirmed", confirmed(snap), "quiet", s.quiet)
}

func entry(a *role.Agent) report.Entry {
	return report.Entry{Agent: a.ID, Role: a.Role, Status: a.Status}
}

func confirmed(snap report.Snapshot) int {
	n := 0
	for _, c := range snap.Components {
		n += c.Confirmed
	}
	return n
}
