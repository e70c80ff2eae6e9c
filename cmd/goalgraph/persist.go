//go:build cgo

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/goalgraph/internal/export"
	"github.com/dusk-indust/goalgraph/internal/graph"
)

func init() {
	mcpStoreFactory = func() (graph.Store, error) {
		s, err := graph.NewKuzuStore()
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	extraCommands = append(extraCommands, newPersistCmd, newNeighborsCmd)
}

func newPersistCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "persist <records...>",
		Short: "Write the built graph to a Kuzu database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if path == "" {
				path = a.cfg.Store.Path
			}

			d, err := loadDataset(ctx, args)
			if err != nil {
				return err
			}
			g := d.Graph()

			// Remove old graph to avoid stale data.
			if err := os.RemoveAll(path); err != nil {
				return fmt.Errorf("remove %s: %w", path, err)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			store, err := graph.NewKuzuFileStore(path)
			if err != nil {
				return fmt.Errorf("open graph: %w", err)
			}
			defer store.Close()

			if err := graph.SaveGraph(ctx, store, g); err != nil {
				return err
			}
			stats, err := store.Stats(ctx)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			a.logger.Info("graph persisted", "path", path,
				"goals", stats.GoalCount, "projects", stats.ProjectCount, "edges", stats.EdgeCount)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "database directory (default: configured store.path)")
	return cmd
}

func newNeighborsCmd(a *app) *cobra.Command {
	var (
		path    string
		depth   int
		diagram bool
	)
	cmd := &cobra.Command{
		Use:   "neighbors [node-id]",
		Short: "Show what a node is linked to in the persisted graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if path == "" {
				path = a.cfg.Store.Path
			}
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("no graph found at %s\nRun 'goalgraph persist' first", path)
			}

			store, err := graph.NewKuzuFileStore(path)
			if err != nil {
				return fmt.Errorf("open graph: %w", err)
			}
			defer store.Close()

			if diagram {
				out, err := export.GenerateMermaidFromStore(ctx, store)
				if err != nil {
					return err
				}
				fmt.Fprint(a.out, out)
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("node ID is required unless --diagram is set")
			}
			id := args[0]
			node, err := store.GetNode(ctx, id)
			if err != nil {
				return err
			}
			if node == nil {
				return fmt.Errorf("node %q not found in %s", id, path)
			}
			paths, err := store.Neighborhood(ctx, id, depth)
			if err != nil {
				return err
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "## %s: %s (%s%%)\n", node.ID, node.Title, formatPercent(node.Completion))
			if len(paths) == 0 {
				sb.WriteString("\nNo linked nodes.\n")
			}
			for _, p := range paths {
				fmt.Fprintf(&sb, "- [%d] %s\n", p.Depth, strings.Join(p.Nodes, " -> "))
			}
			fmt.Fprint(a.out, sb.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "database directory (default: configured store.path)")
	cmd.Flags().IntVar(&depth, "depth", 2, "maximum number of hops")
	cmd.Flags().BoolVar(&diagram, "diagram", false, "print the whole persisted graph as Mermaid instead")
	return cmd
}
