package viz

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/multierr"

	"github.com/benz9527/xrbtree/lib/infra"
	"github.com/benz9527/xrbtree/xlog"
)

// Batch runs fn once per input on a bounded goroutine pool. Each input
// builds its own KeyTree, no tree is ever shared between workers.
// Every failure is returned, joined in input order.
func Batch(
	ctx context.Context,
	logger xlog.XLogger,
	workers int,
	inputs []string,
	fn func(ctx context.Context, input string) error,
) error {
	if len(inputs) == 0 {
		return nil
	}
	workers = max(1, min(workers, len(inputs)))

	pool, err := ants.NewPool(workers, ants.WithLogger(xlog.NewAntsXLogger(logger)))
	if err != nil {
		return infra.WrapErrorStack(err, "create worker pool")
	}
	defer pool.Release()

	errs := make([]error, len(inputs))
	wg := sync.WaitGroup{}
	for i, input := range inputs {
		if ctx.Err() != nil {
			errs[i] = ctx.Err()
			continue
		}
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			errs[i] = runOne(ctx, input, fn)
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = infra.WrapErrorStack(submitErr, "submit "+input)
		}
	}
	wg.Wait()
	return multierr.Combine(errs...)
}

// runOne turns a panic raised by a corrupted tree into an error of its
// input, the other inputs keep going.
func runOne(ctx context.Context, input string, fn func(ctx context.Context, input string) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = infra.NewErrorStack(fmt.Sprintf("%s: %v", input, r))
		}
	}()
	if err = fn(ctx, input); err != nil {
		return infra.WrapErrorStack(err, input)
	}
	return nil
}
