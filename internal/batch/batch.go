// Package batch provides a generic map-with-concurrency-limit used by the
// persistence jobs to bound outstanding database writes. The pricing engine
// never batches; this belongs to the I/O side only.
package batch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultSize bounds how many items run concurrently per batch.
	DefaultSize = 10

	// DefaultPause is the rest between batches, a small brake on write bursts.
	DefaultPause = 100 * time.Millisecond
)

// ForEach runs fn over items in fixed-size batches. Items inside a batch run
// concurrently; batches run one after another with a pause in between.
// Processing stops at the first fn error or when the context is done, and the
// first error encountered is returned.
func ForEach[T any](ctx context.Context, items []T, size int, pause time.Duration, fn func(ctx context.Context, item T) error) error {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		size = DefaultSize
	}

	for start := 0; start < len(items); start += size {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := start + size
		if end > len(items) {
			end = len(items)
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, item := range items[start:end] {
			g.Go(func() error {
				return fn(gctx, item)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if pause > 0 && end < len(items) {
			select {
			case <-time.After(pause):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}
