package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/swarmrole/gradient"
	"github.com/katalvlaran/swarmrole/topology"
)

func newGradientCmd(a *app) *cobra.Command {
	var grid string
	cmd := &cobra.Command{
		Use:   "gradient <network-file>",
		Short: "Print the hop-count gradient table of a network",
		Long: `Builds the gradient field of the network and prints one row per source
agent; "." marks agents in another component. The table is verified for
symmetry and monotonicity before it is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("grid") {
				grid = a.cfg.Network.Grid
			}
			kind, err := topology.ParseGridKind(grid)
			if err != nil {
				return err
			}
			topo, err := topology.LoadFile(args[0], topology.WithGrid(kind))
			if err != nil {
				return err
			}
			f, err := gradient.Build(topo)
			if err != nil {
				return err
			}
			writeField(cmd.OutOrStdout(), f)
			return nil
		},
	}
	cmd.Flags().StringVar(&grid, "grid", "triangle", "adjacency: triangle, square or square8")
	return cmd
}

func writeField(w io.Writer, f *gradient.Field) {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', tabwriter.AlignRight)
	header := make([]string, 0, f.Len()+1)
	header = append(header, "")
	for o := 0; o < f.Len(); o++ {
		header = append(header, fmt.Sprint(o))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for s := 0; s < f.Len(); s++ {
		cells := make([]string, 0, f.Len()+1)
		cells = append(cells, fmt.Sprint(s))
		for _, g := range f.Row(s) {
			if g == gradient.Unknown {
				cells = append(cells, ".")
			} else {
				cells = append(cells, fmt.Sprint(g))
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "rounds %d, diameter %d, symmetric\n", f.Rounds(), f.Diameter())
}
