package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xrbtree/internal/config"
	"github.com/benz9527/xrbtree/internal/viz"
	"github.com/benz9527/xrbtree/xlog"
)

// IOStreams are the streams rbviz talks through. Keys are read from In
// when no file is named, reports go to Err and Out only carries the
// printed trees.
type IOStreams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type app struct {
	streams    IOStreams
	configPath string
	cfg        *config.Config
	logger     xlog.XLogger
}

func NewRootCommand(streams IOStreams) *cobra.Command {
	a := &app{streams: streams}

	rootCmd := &cobra.Command{
		Use:   "rbviz [command]",
		Short: "Draw, print and check red-black trees built from integer keys",
		Long: `rbviz reads integer keys, one per line, into a red-black tree.
A line counts as a key when it starts with a digit or '-'. Every other line
is ignored and duplicate keys are dropped. With no file, keys come from stdin.

Commands:
  dot     Write the tree as a graphviz file and optionally show it
  print   Print the tree sideways on the terminal
  check   Verify the red-black rules, optionally after removing keys`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default .rbviz.yaml in the working or home directory)")
	flags.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
	flags.String("log-encoder", config.DefaultLogEncoder, "log encoder: plaintext or json")
	flags.Int("workers", config.DefaultWorkers, "how many input files are processed at once")

	rootCmd.AddCommand(
		newDotCommand(a),
		newPrintCommand(a),
		newCheckCommand(a),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = xlog.NewXLogger(append(cfg.XLoggerOptions(),
		xlog.WithXLoggerWriter(a.streams.Err),
		xlog.WithXLoggerContextFieldExtract("input"),
	)...)

	if _, err = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		a.logger.Logf(zapcore.DebugLevel, format, args...)
	})); err != nil {
		a.logger.Warn("failed to adjust GOMAXPROCS", zap.Error(err))
	}
	return nil
}

// inputs falls back to stdin when no file is given.
func inputs(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{viz.StdinInput}, nil
	}
	if err := viz.CheckInputs(args); err != nil {
		return nil, err
	}
	return args, nil
}

// load builds the tree of input and logs its size line.
func (a *app) load(ctx context.Context, input string) (*viz.KeyTree, error) {
	kt, err := viz.LoadFile(input, a.streams.In)
	if err != nil {
		return nil, err
	}
	a.logger.InfoContext(withInput(ctx, input),
		fmt.Sprintf("node count=%d, max depth=%d", kt.Len(), kt.Depth()),
		zap.String("nodes", humanize.Comma(int64(kt.Len()))),
	)
	return kt, nil
}

func withInput(ctx context.Context, input string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, xlog.ContextKey("input"), input)
}
