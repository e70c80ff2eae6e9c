package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/goalgraph/internal/graph"
	"github.com/dusk-indust/goalgraph/internal/records"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <records...>",
		Short: "Summarize goals, their progress and link weights",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDataset(cmd.Context(), args)
			if err != nil {
				return err
			}
			return printStatus(a, d)
		},
	}
}

func printStatus(a *app, d *records.Dataset) error {
	stats := d.Graph().Stats()
	fmt.Fprintf(a.out, "%d goals, %d projects, %d links\n", stats.GoalCount, stats.ProjectCount, stats.EdgeCount)

	if len(d.Goals) == 0 {
		fmt.Fprintln(a.out, "No goals found.")
	}

	s := records.NewSession(d, a.cfg.ZeroSumPolicy())
	for _, g := range d.Goals {
		fmt.Fprintf(a.out, "\nGoal %s: %s [%s]\n", g.ID, g.Title, g.Status)

		marker := "  "
		rolled, err := s.Rollup(g.ID)
		if err != nil {
			return err
		}
		if g.AutoProgress && float64(rolled) != g.Completion {
			marker = "->"
		}
		fmt.Fprintf(a.out, "  %s completion %s%% (rollup %d%%)\n", marker, formatPercent(g.Completion), rolled)

		printLinkSet(a, "projects", g.LinkedProjects)
		printLinkSet(a, "goals", g.LinkedGoals)
	}

	for _, p := range d.Projects {
		if len(p.LinkedGoals) == 0 {
			continue
		}
		fmt.Fprintf(a.out, "\nProject %s: %s [%s]\n", p.ID, p.Name, p.Status)
		fmt.Fprintf(a.out, "     completion %s%%\n", formatPercent(p.Completion))
		printLinkSet(a, "goals", p.LinkedGoals)
	}
	return nil
}

func printLinkSet(a *app, name string, links []graph.Link) {
	if len(links) == 0 {
		return
	}
	w := graph.WeightsFromLinks(links)
	note := ""
	if !w.Normalized() {
		note = fmt.Sprintf("  (sum %s, not normalized)", formatPercent(w.Sum()))
	}
	fmt.Fprintf(a.out, "     %s:%s\n", name, note)
	for _, l := range links {
		fmt.Fprintf(a.out, "       %-12s %s\n", l.ID, formatPercent(l.Weight))
	}
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
