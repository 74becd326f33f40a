package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/swarmrole/topology"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		size, count int
		seed        int64
		grid, dir   string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write random connected network files named <size>-<index>",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("grid") {
				grid = a.cfg.Network.Grid
			}
			kind, err := topology.ParseGridKind(grid)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			for i := 0; i < count; i++ {
				pts, err := topology.RandomCluster(size, kind, seed+int64(i))
				if err != nil {
					return err
				}
				path := filepath.Join(dir, fmt.Sprintf("%d-%d", size, i))
				if err := writePoints(path, pts); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&size, "size", 30, "agents per network")
	f.IntVar(&count, "count", 1, "number of networks")
	f.Int64Var(&seed, "seed", 1, "seed of the first network; network i uses seed+i")
	f.StringVar(&grid, "grid", "triangle", "adjacency the networks must be connected under")
	f.StringVar(&dir, "dir", ".", "output directory")
	return cmd
}

func writePoints(path string, pts []topology.Point) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return topology.WritePoints(f, pts)
}
