package interaction

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/topology"
)

// minChunk is the smallest neighbour slice handed to one worker.
const minChunk = 16

// NeighborEnergy returns the sum of PairEnergy(b, n) over neighbors, skipping
// b itself. With workers > 1 the neighbour list is split into chunks summed
// concurrently; the bodies are only read, and the partial sums are reduced in
// chunk order by the caller's goroutine. No body cache is written.
func (e *Evaluator) NeighborEnergy(ctx context.Context, b *body.Body, neighbors []*body.Body, workers int) (float64, error) {
	mb, err := e.molecule(b)
	if err != nil {
		return 0, err
	}

	n := len(neighbors)
	if workers <= 1 || n <= minChunk {
		return e.sumRange(ctx, b, mb, neighbors)
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	chunkSize := (n + workers - 1) / workers
	partials := make([]float64, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		g.Go(func() error {
			v, err := e.sumRange(gctx, b, mb, neighbors[start:end])
			partials[w] = v
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0.0
	for _, v := range partials {
		total += v
	}
	return total, nil
}

func (e *Evaluator) sumRange(ctx context.Context, b *body.Body, mb *topology.Molecule, neighbors []*body.Body) (float64, error) {
	buf := getScratch()
	defer putScratch(buf)

	var v float64
	total := 0.0
	for _, o := range neighbors {
		if o == b {
			continue
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		mo, err := e.molecule(o)
		if err != nil {
			return 0, err
		}
		v, *buf = e.pairEnergy(b, mb, o, mo, *buf)
		total += v
	}
	return total, nil
}
