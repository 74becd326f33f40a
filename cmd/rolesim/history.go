package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/swarmrole/store/sqlite"
)

func newHistoryCmd(a *app) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "history [network]",
		Short: "List recorded runs, optionally for one network",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("db") {
				dbPath = a.cfg.Store.Path
			}
			if dbPath == "" {
				return errors.New("no run store: pass --db or set store.path")
			}
			network := ""
			if len(args) == 1 {
				network = args[0]
			}

			store, err := sqlite.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()
			ctx := cmd.Context()
			if err := store.Migrate(ctx); err != nil {
				return err
			}
			runs, err := store.ListRuns(ctx, network)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tNETWORK\tTRIAL\tSEED\tOUTCOME\tSTEPS\tCONFLICTS")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%d\t%d\n",
					r.ID, r.Network, r.Trial, r.Seed, r.Outcome, r.Steps, r.Conflicts)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if network != "" {
				counts, err := store.OutcomeCounts(ctx, network)
				if err != nil {
					return err
				}
				writeOutcomes(out, counts)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite run store")
	return cmd
}
