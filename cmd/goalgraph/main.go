package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/goalgraph/internal/config"
	"github.com/dusk-indust/goalgraph/internal/ctxlog"
	"github.com/dusk-indust/goalgraph/internal/records"
)

// version is set by goreleaser at build time.
var version = "dev"

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
}

// extraCommands registers subcommands that only exist in some builds.
var extraCommands []func(a *app) *cobra.Command

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(&app{out: stdout, errOut: stderr})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "goalgraph",
		Short: "Build, weigh and lay out goal/project relationship graphs",
		Long: `goalgraph turns goal and project records into a weighted relationship
graph. It normalizes sibling link weights, rolls project progress up into
goals, and positions nodes in concentric rings around a focal node.

Records are read from .yml, .yaml or .json files of the form
{goals: [...], projects: [...]}.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: ./goalgraph.yml if present)")

	root.AddCommand(
		newLayoutCmd(a),
		newNormalizeCmd(a),
		newRollupCmd(a),
		newReweightCmd(a),
		newDiagramCmd(a),
		newComponentsCmd(a),
		newStatusCmd(a),
		newServeMCPCmd(a),
		newInitCmd(a),
	)
	for _, f := range extraCommands {
		root.AddCommand(f(a))
	}
	return root
}

// setup loads configuration and installs the logger into the command context.
func (a *app) setup(cmd *cobra.Command) error {
	a.logger = ctxlog.New(a.errOut, a.verbose)

	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.Load(".")
	}
	if err != nil {
		return err
	}

	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), a.logger))
	return nil
}

// loadDataset reads and merges record files in argument order.
func loadDataset(ctx context.Context, paths []string) (*records.Dataset, error) {
	d, err := records.LoadFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("records loaded",
		"files", len(paths),
		"goals", len(d.Goals),
		"projects", len(d.Projects),
	)
	return d, nil
}
