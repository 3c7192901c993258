package viz

import (
	"context"
	"os"
	"os/exec"

	"go.uber.org/multierr"

	"github.com/benz9527/xrbtree/internal/config"
	"github.com/benz9527/xrbtree/lib/infra"
)

// Render lays dotPath out with the dot program and pipes the result into
// the viewer, which reads it from stdin ("-"). It blocks until the viewer
// exits or ctx is done.
func Render(ctx context.Context, cfg config.RenderConfig, dotPath string) error {
	layout := exec.CommandContext(ctx, cfg.Dot, dotPath)
	viewer := exec.CommandContext(ctx, cfg.Viewer, "-")
	layout.Stderr, viewer.Stdout, viewer.Stderr = os.Stderr, os.Stdout, os.Stderr

	pipe, err := layout.StdoutPipe()
	if err != nil {
		return infra.WrapErrorStack(err, "pipe "+cfg.Dot)
	}
	viewer.Stdin = pipe

	if err = viewer.Start(); err != nil {
		_ = pipe.Close()
		return infra.WrapErrorStack(err, "start "+cfg.Viewer)
	}
	if err = layout.Start(); err != nil {
		_ = viewer.Process.Kill()
		return multierr.Append(
			infra.WrapErrorStack(err, "start "+cfg.Dot),
			viewer.Wait(),
		)
	}

	var merr error
	if err = layout.Wait(); err != nil {
		merr = multierr.Append(merr, infra.WrapErrorStack(err, cfg.Dot))
	}
	if err = viewer.Wait(); err != nil {
		merr = multierr.Append(merr, infra.WrapErrorStack(err, cfg.Viewer))
	}
	return merr
}
