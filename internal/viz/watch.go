package viz

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/benz9527/xrbtree/lib/infra"
	"github.com/benz9527/xrbtree/xlog"
)

// Watch calls fn once, then again every time path is written or
// recreated, until ctx is done. The directory is watched rather than the
// file so editors that save by rename are followed too. A failing fn is
// logged and watching goes on.
func Watch(ctx context.Context, logger xlog.XLogger, path string, fn func(ctx context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return infra.WrapErrorStack(err, "failed to create file watcher")
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err = watcher.Add(filepath.Dir(path)); err != nil {
		return infra.WrapErrorStack(err, "failed to watch "+path)
	}

	if err = fn(ctx); err != nil {
		logger.ErrorStackContext(ctx, err, "render failed", zap.String("input", path))
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target ||
				!(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			logger.DebugContext(ctx, "input changed", zap.String("input", path), zap.String("op", event.Op.String()))
			if err = fn(ctx); err != nil {
				logger.ErrorStackContext(ctx, err, "render failed", zap.String("input", path))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.ErrorContext(ctx, err, "file watcher failed", zap.String("input", path))
		}
	}
}
