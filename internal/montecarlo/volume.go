package montecarlo

import (
	"context"
	"math"
	"math/rand"

	"github.com/san-kum/rigidmc/internal/body"
)

// volumeMove attempts an isobaric box rescale. The log of the area takes a
// uniform step of at most cfg.VolumeStep; every body position is expanded by
// the matching linear factor and all caches are invalidated.
func (s *Sampler) volumeMove(ctx context.Context, rng *rand.Rand, bodies []*body.Body, cfg Config) (bool, error) {
	before, err := s.SystemEnergy(ctx, bodies)
	if err != nil {
		return false, err
	}

	v := s.boundary.Area()
	ratio := math.Exp(symmetric(rng, cfg.VolumeStep))
	factor := math.Sqrt(ratio)

	saved := make([]*body.Body, len(bodies))
	for i, b := range bodies {
		saved[i] = b.Clone()
	}

	s.scale(bodies, factor)

	after, err := s.SystemEnergy(ctx, bodies)
	if err != nil {
		s.unscale(bodies, saved, factor)
		return false, err
	}

	n := float64(len(bodies))
	delta := (after - before) + cfg.Pressure*(v*ratio-v) - (n+1)*cfg.Temperature*math.Log(ratio)
	if metropolis(rng, delta, cfg.Temperature) {
		return true, nil
	}

	s.unscale(bodies, saved, factor)
	return false, nil
}

func (s *Sampler) scale(bodies []*body.Body, factor float64) {
	s.boundary.Scale(factor)
	for _, b := range bodies {
		b.Expand(factor)
		b.Invalidate()
	}
}

func (s *Sampler) unscale(bodies, saved []*body.Body, factor float64) {
	s.boundary.Scale(1 / factor)
	for i, b := range bodies {
		b.Assign(saved[i])
	}
}
