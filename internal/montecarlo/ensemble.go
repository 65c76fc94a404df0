package montecarlo

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/rigidmc/internal/body"
)

// ReplicaFactory builds the sampler and starting bodies of one replica.
// Replicas must not share bodies or boundaries.
type ReplicaFactory func(replica int) (*Sampler, []*body.Body, error)

// Ensemble runs independent replicas of the same system concurrently, replica
// i with seed seedStart+i.
type Ensemble struct {
	build     ReplicaFactory
	numRuns   int
	seedStart int64
	parallel  int
}

func NewEnsemble(build ReplicaFactory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// SetParallelism caps the number of replicas running at once; n <= 0 runs
// them all together.
func (e *Ensemble) SetParallelism(n int) { e.parallel = n }

// Run returns one result per replica in replica order. The first failing
// replica cancels the others.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, gctx := errgroup.WithContext(ctx)
	if e.parallel > 0 {
		g.SetLimit(e.parallel)
	}

	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			s, bodies, err := e.build(i)
			if err != nil {
				return err
			}

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(i)

			res, err := s.Run(gctx, bodies, cfgCopy)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
