package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/goalgraph/internal/graph"
)

func newNormalizeCmd(a *app) *cobra.Command {
	var policy string
	cmd := &cobra.Command{
		Use:   "normalize <id=weight...>",
		Short: "Rescale sibling weights to integers summing to 100",
		Long: `Rescale an ordered set of sibling weights proportionally so they sum to 100.
Rounding residue is charged to the first entry.

  goalgraph normalize a=50 b=30 c=30   # a=46 b=27 c=27`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			w, err := parseWeights(args)
			if err != nil {
				return err
			}

			p := a.cfg.ZeroSumPolicy()
			if policy != "" {
				p = graph.ZeroSumPolicy(policy)
			}
			if p != graph.ZeroSumLeave && p != graph.ZeroSumEqual {
				return fmt.Errorf("unknown policy %q (want leave or equal)", p)
			}

			for _, e := range graph.NormalizeWith(w, p) {
				fmt.Fprintf(a.out, "%s=%s\n", e.ID, strconv.FormatFloat(e.Value, 'f', -1, 64))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&policy, "policy", "", "all-zero handling: leave|equal (default: configured)")
	return cmd
}

// parseWeights parses id=weight arguments, keeping argument order.
func parseWeights(args []string) (graph.Weights, error) {
	w := make(graph.Weights, 0, len(args))
	for _, arg := range args {
		id, raw, ok := strings.Cut(arg, "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid weight %q (want id=weight)", arg)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q: %w", arg, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("invalid weight %q: must not be negative", arg)
		}
		if _, dup := w.Get(id); dup {
			return nil, fmt.Errorf("duplicate id %q", id)
		}
		w = append(w, graph.Weight{ID: id, Value: v})
	}
	return w, nil
}
