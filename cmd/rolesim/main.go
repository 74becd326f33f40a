// Command rolesim runs the distributed role assignment protocol on a
// coordinate network file and reports the outcome.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/swarmrole/config"
	"github.com/katalvlaran/swarmrole/telemetry"
)

const version = "0.1.0"

// app carries the configuration shared by every subcommand.
type app struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "rolesim",
		Short: "Simulate one-to-one role assignment over a grid network of agents",
		Long: `rolesim loads agent positions from a coordinate file (one "x y" pair per
line, agent IDs in line order) and runs the gradient-based role assignment
protocol until every connected component converges or the run stalls.

Settings come from built-in defaults, an optional YAML file (--config) and
ROLESIM_* environment variables; command flags override all of them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			telemetry.ConfigureSlog(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")

	root.AddCommand(newRunCmd(a), newGradientCmd(a), newHistoryCmd(a), newGenerateCmd(a))
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "rolesim:", err)
		os.Exit(1)
	}
}
