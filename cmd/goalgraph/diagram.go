package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/goalgraph/internal/export"
)

func newDiagramCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diagram <records...>",
		Short: "Print the graph as a Mermaid flowchart",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDataset(cmd.Context(), args)
			if err != nil {
				return err
			}
			fmt.Fprint(a.out, export.GenerateMermaid(d.Graph()))
			return nil
		},
	}
}
