package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/benz9527/xrbtree/internal/viz"
)

func newPrintCommand(a *app) *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "print [file ...]",
		Short: "Print the tree sideways, [k] black and <k> red",
		RunE: func(cmd *cobra.Command, args []string) error {
			ins, err := inputs(args)
			if err != nil {
				return err
			}
			colorize := !noColor && !color.NoColor
			for i, input := range ins {
				kt, err := a.load(cmd.Context(), input)
				if err != nil {
					return err
				}
				if len(ins) > 1 {
					if i > 0 {
						_, _ = fmt.Fprintln(a.streams.Out)
					}
					_, _ = fmt.Fprintf(a.streams.Out, "%s:\n", input)
				}
				err = viz.WriteASCII(a.streams.Out, kt, colorize)
				kt.Release()
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "never color red keys")
	return cmd
}
