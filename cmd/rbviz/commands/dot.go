package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benz9527/xrbtree/internal/config"
	"github.com/benz9527/xrbtree/internal/viz"
	"github.com/benz9527/xrbtree/lib/infra"
)

func newDotCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dot [file ...]",
		Short: "Write the tree as a graphviz digraph",
		Long: `Write the tree as a graphviz digraph, black circles for black nodes and
red fill for red ones. A tree of fewer than two nodes has no edge and is
skipped. With several files each one gets <name>.dot, inputs that would
share a dot file are refused.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, err := inputs(args)
			if err != nil {
				return err
			}
			names, err := viz.DotNames(ins, a.cfg.Output.Name)
			if err != nil {
				return err
			}
			if a.cfg.Watch {
				if len(ins) != 1 || ins[0] == viz.StdinInput {
					return infra.NewErrorStack("--watch needs exactly one input file")
				}
				return viz.Watch(cmd.Context(), a.logger, ins[0], func(ctx context.Context) error {
					return a.dot(ctx, ins[0], names[ins[0]])
				})
			}
			return viz.Batch(cmd.Context(), a.logger, a.cfg.Workers, ins, func(ctx context.Context, input string) error {
				return a.dot(ctx, input, names[input])
			})
		},
	}

	flags := cmd.Flags()
	flags.String("output-dir", config.DefaultOutputDir, "directory the dot file is written to")
	flags.StringP("output", "o", config.DefaultOutputName, "dot file name for a single input")
	flags.String("dot", config.DefaultRenderDot, "graphviz layout program")
	flags.String("viewer", config.DefaultRenderViewer, "viewer reading the laid out graph from stdin")
	flags.Bool("show", false, "pipe the dot file through the layout program into the viewer")
	flags.Bool("watch", false, "rewrite the dot file whenever the input changes")
	return cmd
}

func (a *app) dot(ctx context.Context, input, name string) error {
	kt, err := a.load(ctx, input)
	if err != nil {
		return err
	}
	defer kt.Release()

	ctx = withInput(ctx, input)
	if kt.Len() < viz.MinDotNodes {
		a.logger.InfoContext(ctx, "too few nodes for a graph, skipping")
		return nil
	}

	a.logger.InfoContext(ctx, "writing "+name+" ...")
	path, err := viz.WriteDotFile(a.cfg.Output.Dir, name, kt)
	if err != nil {
		return err
	}
	if !a.cfg.Render.Show {
		return nil
	}
	a.logger.DebugContext(ctx, "rendering", zap.String("dot", a.cfg.Render.Dot), zap.String("viewer", a.cfg.Render.Viewer))
	return viz.Render(ctx, a.cfg.Render, path)
}
