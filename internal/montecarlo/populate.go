package montecarlo

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/golang/geo/r2"

	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/boundary"
	"github.com/san-kum/rigidmc/internal/config"
)

const maxPlacementAttempts = 1000

// TypeCounter is the part of a topology Populate needs.
type TypeCounter interface {
	NumTypes() int
}

// Populate builds the initial bodies of a run: first those read from
// cfg.Configuration, then cfg.Bodies, then cfg.Population placed uniformly at
// random inside the box with a random orientation.
func Populate(cfg *config.Config, top TypeCounter, bd boundary.Boundary, rng *rand.Rand) ([]*body.Body, error) {
	bodies := make([]*body.Body, 0, cfg.NumBodies())

	if cfg.Configuration != "" {
		f, err := os.Open(cfg.Configuration)
		if err != nil {
			return nil, err
		}
		read, err := body.ReadConfiguration(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("montecarlo: read %s: %w", cfg.Configuration, err)
		}
		bodies = append(bodies, read...)
	}

	for _, bc := range cfg.Bodies {
		bodies = append(bodies, body.New(bc.Type, bc.X, bc.Y, bc.Angle))
	}

	bounds := bd.Bounds()
	for _, p := range cfg.Population {
		for k := 0; k < p.Count; k++ {
			pos, err := place(bd, bounds, rng)
			if err != nil {
				return nil, fmt.Errorf("%w: type %d member %d", err, p.Type, k)
			}
			bodies = append(bodies, body.New(p.Type, pos.X, pos.Y, rng.Float64()*body.TwoPi))
		}
	}

	for i, b := range bodies {
		if b.Type < 0 || b.Type >= top.NumTypes() {
			return nil, fmt.Errorf("%w: body %d has type %d, topology has %d", ErrInvalidConfig, i, b.Type, top.NumTypes())
		}
	}
	return bodies, nil
}

func place(bd boundary.Boundary, bounds r2.Rect, rng *rand.Rand) (r2.Point, error) {
	size := bounds.Size()
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		p := bounds.Lo().Add(r2.Point{X: rng.Float64() * size.X, Y: rng.Float64() * size.Y})
		if bd.Contains(p) {
			return p, nil
		}
	}
	return r2.Point{}, ErrPlacement
}
