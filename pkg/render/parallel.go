package render

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// chunksPerWorker over-partitions work so uneven chunks still balance.
const chunksPerWorker = 4

type span struct{ lo, hi int }

// split divides [0, n) into at most parts contiguous spans of near-equal
// length, in order.
func split(n, parts int) []span {
	if n <= 0 {
		return nil
	}
	parts = max(1, min(parts, n))
	out := make([]span, parts)
	for i := range parts {
		out[i] = span{lo: i * n / parts, hi: (i + 1) * n / parts}
	}
	return out
}

// forEachChunk runs fn over contiguous chunks of [0, n) with at most workers
// goroutines. fn receives the chunk index so callers can write into
// per-chunk slots and reassemble results in order. It returns ctx's error if
// the context is done before every chunk has started.
func forEachChunk(ctx context.Context, n, workers int, fn func(chunk, lo, hi int)) error {
	chunks := split(n, workers*chunksPerWorker)
	if workers <= 1 {
		for i, c := range chunks {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(i, c.lo, c.hi)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i, c.lo, c.hi)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
