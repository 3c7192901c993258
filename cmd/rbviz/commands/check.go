package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/benz9527/xrbtree/internal/viz"
	"github.com/benz9527/xrbtree/lib/infra"
)

func newCheckCommand(a *app) *cobra.Command {
	var removes []int
	cmd := &cobra.Command{
		Use:   "check [file ...]",
		Short: "Verify the red-black rules, optionally after removing keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, err := inputs(args)
			if err != nil {
				return err
			}
			return viz.Batch(cmd.Context(), a.logger, a.cfg.Workers, ins, func(ctx context.Context, input string) error {
				return a.check(ctx, input, removes)
			})
		},
	}
	cmd.Flags().IntSliceVar(&removes, "remove", nil, "keys removed before the check")
	return cmd
}

func (a *app) check(ctx context.Context, input string, removes []int) error {
	kt, err := a.load(ctx, input)
	if err != nil {
		return err
	}
	defer kt.Release()

	ctx = withInput(ctx, input)
	for _, key := range removes {
		if !kt.Delete(key) {
			a.logger.WarnContext(ctx, "key to remove not found", zap.Int("key", key))
		}
	}
	if len(removes) > 0 {
		a.logger.InfoContext(ctx, fmt.Sprintf("node count=%d, max depth=%d", kt.Len(), kt.Depth()))
	}

	if err = kt.Validate(); err != nil {
		return infra.WrapErrorStack(err, "red-black rules broken")
	}
	h, err := kt.BlackHeight()
	if err != nil {
		return infra.WrapErrorStack(err, "red-black rules broken")
	}
	a.logger.InfoContext(ctx, "ok", zap.Int("blackHeight", h))
	return nil
}
