package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/swarmrole/role"
	"github.com/katalvlaran/swarmrole/sim"
	"github.com/katalvlaran/swarmrole/store/sqlite"
	"github.com/katalvlaran/swarmrole/telemetry"
	"github.com/katalvlaran/swarmrole/topology"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		grid, strategy, tieBreak, dbPath         string
		roles, trials, parallel, maxSteps, stall int
		seed                                     int64
		metrics                                  bool
	)
	cmd := &cobra.Command{
		Use:   "run [network-file]",
		Short: "Run the protocol for one or more seeded trials",
		Long: `Runs the protocol on the network file (or network.file from the
configuration). A file named <size>-<index> must contain exactly <size> agents.

With --trials N the same network is run N times; trial i reseeds a random
strategy with seed+i. Every trial prints one summary line; a single trial also
prints the final assignment of every agent.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			flags := cmd.Flags()
			if len(args) == 1 {
				cfg.Network.File = args[0]
			}
			if flags.Changed("grid") {
				cfg.Network.Grid = grid
			}
			if flags.Changed("roles") {
				cfg.Sim.Roles = roles
			}
			if flags.Changed("strategy") {
				cfg.Sim.Strategy = strategy
			}
			if flags.Changed("tie-break") {
				cfg.Sim.TieBreak = tieBreak
			}
			if flags.Changed("seed") {
				cfg.Sim.Seed = seed
			}
			if flags.Changed("trials") {
				cfg.Sim.Trials = trials
			}
			if flags.Changed("parallel") {
				cfg.Sim.Parallel = parallel
			}
			if flags.Changed("max-steps") {
				cfg.Sim.MaxSteps = maxSteps
			}
			if flags.Changed("stall-factor") {
				cfg.Sim.StallFactor = stall
			}
			if flags.Changed("db") {
				cfg.Store.Path = dbPath
			}
			if flags.Changed("metrics") {
				cfg.Metrics.Enabled = metrics
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Network.File == "" {
				return errors.New("no network file: pass one or set network.file")
			}
			return runTrials(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), a)
		},
	}
	f := cmd.Flags()
	f.StringVar(&grid, "grid", "triangle", "adjacency: triangle, square or square8")
	f.IntVar(&roles, "roles", 0, "role pool size; 0 means one role per agent")
	f.StringVar(&strategy, "strategy", "lowest", "proposal strategy: lowest or random")
	f.StringVar(&tieBreak, "tie-break", "lower-id", "conflict order: lower-id or earlier-proposal")
	f.Int64Var(&seed, "seed", 1, "seed of the random strategy")
	f.IntVar(&trials, "trials", 1, "number of trials")
	f.IntVar(&parallel, "parallel", 0, "goroutines per step for agent updates")
	f.IntVar(&maxSteps, "max-steps", 0, "step limit per trial; 0 means none")
	f.IntVar(&stall, "stall-factor", sim.DefaultStallFactor, "stall window in units of diameter+1 steps")
	f.StringVar(&dbPath, "db", "", "sqlite file recording every trial")
	f.BoolVar(&metrics, "metrics", false, "export OpenTelemetry metrics and traces to stderr")
	return cmd
}

func runTrials(ctx context.Context, out, errOut io.Writer, a *app) (err error) {
	cfg := a.cfg
	kind, err := topology.ParseGridKind(cfg.Network.Grid)
	if err != nil {
		return err
	}
	topo, err := topology.LoadFile(cfg.Network.File, topology.WithGrid(kind))
	if err != nil {
		return err
	}

	exporter := "none"
	if cfg.Metrics.Enabled {
		exporter = "stdout"
	}
	shutdown, err := telemetry.Init("rolesim", version, telemetry.Config{Exporter: exporter, Writer: errOut})
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, shutdown(context.WithoutCancel(ctx))) }()

	var m *telemetry.Metrics
	if cfg.Metrics.Enabled {
		if m, err = telemetry.NewMetrics(nil); err != nil {
			return err
		}
	}

	strategy, err := role.ParseStrategy(cfg.Sim.Strategy, cfg.Sim.Seed)
	if err != nil {
		return err
	}
	tieBreak, err := role.ParseTieBreak(cfg.Sim.TieBreak)
	if err != nil {
		return err
	}
	opts := []sim.Option{
		sim.WithStrategy(strategy),
		sim.WithTieBreak(tieBreak),
		sim.WithStallFactor(cfg.Sim.StallFactor),
		sim.WithMaxSteps(cfg.Sim.MaxSteps),
		sim.WithParallel(cfg.Sim.Parallel),
		sim.WithLogger(slog.Default()),
		sim.WithMetrics(m),
	}
	if cfg.Sim.Roles > 0 {
		opts = append(opts, sim.WithRoleCount(cfg.Sim.Roles))
	}
	sm, err := sim.New(topo, opts...)
	if err != nil {
		return err
	}

	var store *sqlite.Store
	if cfg.Store.Path != "" {
		if store, err = sqlite.Open(cfg.Store.Path); err != nil {
			return err
		}
		defer store.Close()
		if err = store.Migrate(ctx); err != nil {
			return err
		}
	}

	network := filepath.Base(cfg.Network.File)
	fmt.Fprintf(out, "network %s: %d agents, %d edges, %d components, diameter %d, %d roles\n",
		network, topo.Len(), topo.EdgeCount(), topo.ComponentCount(), sm.Field().Diameter(), sm.PoolSize())

	outcomes := make(map[string]int)
	var last *sim.Result
	for trial := 0; trial < cfg.Sim.Trials; trial++ {
		if trial > 0 {
			sm.Reset()
			sm.Reseed(cfg.Sim.Seed + int64(trial))
		}
		res, err := sm.Run(ctx)
		if err != nil {
			return fmt.Errorf("trial %d: %w", trial, err)
		}
		outcomes[res.Outcome.String()]++
		last = res
		fmt.Fprintf(out, "trial %d: %-18s steps=%d conflicts=%d delivered=%d run=%s\n",
			trial, res.Outcome, res.Steps, len(res.Conflicts), res.Traffic.Delivered, res.RunID)

		if store != nil {
			meta := sqlite.Meta{
				Network:  network,
				Strategy: cfg.Sim.Strategy,
				TieBreak: cfg.Sim.TieBreak,
				Seed:     cfg.Sim.Seed + int64(trial),
				Trial:    trial,
				Roles:    sm.PoolSize(),
			}
			if err := store.SaveRun(ctx, meta, res); err != nil {
				return err
			}
		}
	}

	if cfg.Sim.Trials == 1 {
		writeAssignments(out, last)
	} else {
		writeOutcomes(out, outcomes)
	}
	return nil
}

func writeAssignments(w io.Writer, res *sim.Result) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AGENT\tCOMPONENT\tROLE\tSTATUS")
	comp := make(map[int]int, len(res.Snapshot.Agents))
	for _, c := range res.Snapshot.Components {
		for _, id := range c.Agents {
			comp[id] = c.Index
		}
	}
	for _, e := range res.Snapshot.Agents {
		r := "-"
		if e.Role != role.Unassigned {
			r = fmt.Sprint(e.Role)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", e.Agent, comp[e.Agent], r, e.Status)
	}
	_ = tw.Flush()
	if res.Err != nil {
		fmt.Fprintln(w, "result:", res.Err)
	}
}

// writeOutcomes prints a text bar per outcome.
func writeOutcomes(w io.Writer, outcomes map[string]int) {
	names := make([]string, 0, len(outcomes))
	for name := range outcomes {
		names = append(names, name)
	}
	sort.Strings(names)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", name, outcomes[name], strings.Repeat("#", outcomes[name]))
	}
	_ = tw.Flush()
}
