package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/goalgraph/internal/export"
	"github.com/dusk-indust/goalgraph/internal/graph"
	"github.com/dusk-indust/goalgraph/internal/records"
)

func newLayoutCmd(a *app) *cobra.Command {
	var (
		focal  string
		format string
	)
	cmd := &cobra.Command{
		Use:   "layout <records...>",
		Short: "Lay out the graph in rings around a focal node",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDataset(cmd.Context(), args)
			if err != nil {
				return err
			}
			g := d.Graph()
			if g.Node(focal) == nil {
				return fmt.Errorf("%w: focal node %q", records.ErrUnknownRecord, focal)
			}

			layout := export.NewLayoutExport(g, focal, a.cfg.LayoutOptions())
			a.logger.Debug("layout computed", "focal", focal, "placed", len(layout.Placed()), "nodes", len(layout.Nodes))

			switch format {
			case "json":
				data, err := layout.Marshal()
				if err != nil {
					return fmt.Errorf("marshal layout: %w", err)
				}
				_, err = a.out.Write(append(data, '\n'))
				return err
			case "text":
				return printLayout(a, layout)
			default:
				return fmt.Errorf("unknown format %q (want json or text)", format)
			}
		},
	}
	cmd.Flags().StringVar(&focal, "focal", "", "node ID to center on, e.g. goal-1")
	cmd.Flags().StringVar(&format, "format", "text", "output format: json|text")
	_ = cmd.MarkFlagRequired("focal")
	return cmd
}

func printLayout(a *app, layout *export.LayoutExport) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DEPTH\tNODE\tX\tY\tTITLE")
	for _, n := range layout.Nodes {
		depth := "-"
		if n.Depth != nil {
			depth = fmt.Sprint(*n.Depth)
		}
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.1f\t%s\n", depth, n.ID, n.Position.X, n.Position.Y, n.Title)
	}
	return tw.Flush()
}

func newComponentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "components <records...>",
		Short: "List connected components of the graph",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDataset(cmd.Context(), args)
			if err != nil {
				return err
			}
			for _, c := range graph.Components(d.Graph()) {
				fmt.Fprintf(a.out, "%s (cohesion: %.2f) %d nodes\n", c.Name, c.Cohesion, len(c.Members))
				for _, m := range c.Members {
					fmt.Fprintf(a.out, "  %s\n", m)
				}
			}
			return nil
		},
	}
}
