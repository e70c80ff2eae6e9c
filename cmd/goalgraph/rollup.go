package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/goalgraph/internal/graph"
	"github.com/dusk-indust/goalgraph/internal/records"
)

func newRollupCmd(a *app) *cobra.Command {
	var (
		goalID string
		write  string
	)
	cmd := &cobra.Command{
		Use:   "rollup <records...>",
		Short: "Compute goal completion from linked projects",
		Long: `Without --goal, every goal with autoProgress set gets the weighted average
completion of its linked projects (or linked goals when it has no projects),
and the changed goals are printed. With --goal, only that goal's rollup is
printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDataset(cmd.Context(), args)
			if err != nil {
				return err
			}
			s := records.NewSession(d, a.cfg.ZeroSumPolicy())

			if goalID != "" {
				v, err := s.Rollup(goalID)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, v)
				return nil
			}

			before := d.Clone()
			for _, id := range s.ApplyRollups() {
				fmt.Fprintf(a.out, "goal %s: %s%% -> %s%%\n", id,
					formatPercent(before.Goal(id).Completion), formatPercent(s.Dataset().Goal(id).Completion))
			}

			if write != "" {
				return writeDataset(write, s.Dataset())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&goalID, "goal", "", "raw goal ID to roll up")
	cmd.Flags().StringVar(&write, "write", "", "write the updated records as YAML to this path")
	return cmd
}

func newReweightCmd(a *app) *cobra.Command {
	var (
		goalID    string
		projectID string
		set       string
		linkID    string
		weight    float64
		unlink    bool
		output    string
	)
	cmd := &cobra.Command{
		Use:   "reweight <records-file>",
		Short: "Change, add or remove a link and renormalize its siblings",
		Long: `Edit one link of a goal or project and renormalize the sibling set so it
sums to 100 again. The updated records are written as YAML to --output, or
to stdout.

  goalgraph reweight roadmap.yaml --goal 1 --set projects --link 10 --weight 50
  goalgraph reweight roadmap.yaml --goal 1 --set projects --link 10 --unlink`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var owner records.Owner
			switch {
			case goalID != "" && projectID == "":
				owner = records.GoalOwner(goalID)
			case projectID != "" && goalID == "":
				owner = records.ProjectOwner(projectID)
			default:
				return fmt.Errorf("exactly one of --goal or --project is required")
			}
			if linkID == "" {
				return fmt.Errorf("--link is required")
			}

			d, err := records.LoadFile(args[0])
			if err != nil {
				return err
			}
			s := records.NewSession(d, a.cfg.ZeroSumPolicy())

			var links []graph.Link
			ls := records.LinkSet(set)
			if unlink {
				links, err = s.Unlink(owner, ls, linkID)
			} else {
				links, err = s.Link(owner, ls, linkID, weight)
			}
			if err != nil {
				return err
			}
			a.logger.Info("links updated", "session", s.ID, "owner", owner.ID, "set", set, "links", links)

			if output == "" {
				data, err := records.Encode(s.Dataset())
				if err != nil {
					return err
				}
				_, err = a.out.Write(data)
				return err
			}
			return writeDataset(output, s.Dataset())
		},
	}
	cmd.Flags().StringVar(&goalID, "goal", "", "raw ID of the goal owning the link")
	cmd.Flags().StringVar(&projectID, "project", "", "raw ID of the project owning the link")
	cmd.Flags().StringVar(&set, "set", string(records.LinkSetProjects), "link set: goals|projects")
	cmd.Flags().StringVar(&linkID, "link", "", "raw ID of the link target")
	cmd.Flags().Float64Var(&weight, "weight", 0, "new weight, 0..100 (adds the link if missing)")
	cmd.Flags().BoolVar(&unlink, "unlink", false, "remove the link instead")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write YAML here instead of stdout")
	cmd.MarkFlagsOneRequired("weight", "unlink")
	cmd.MarkFlagsMutuallyExclusive("weight", "unlink")
	return cmd
}

func writeDataset(path string, d *records.Dataset) error {
	data, err := records.Encode(d)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
