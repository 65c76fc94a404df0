package montecarlo

import (
	"context"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/boundary"
	"github.com/san-kum/rigidmc/internal/interaction"
	"github.com/san-kum/rigidmc/internal/logging"
)

type Sampler struct {
	ev        *interaction.Evaluator
	boundary  boundary.Boundary
	logger    *zap.Logger
	metrics   []Metric
	observers []Observer

	images []*body.Body
}

func New(ev *interaction.Evaluator, bd boundary.Boundary, logger *zap.Logger) *Sampler {
	return &Sampler{
		ev:        ev,
		boundary:  bd,
		logger:    logging.OrNop(logger),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Sampler) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Sampler) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Sampler) Boundary() boundary.Boundary { return s.boundary }

// Run performs cfg.Sweeps sweeps of len(bodies) single-body trials each. The
// bodies are mutated in place and returned in Result.Bodies. On cancellation
// the partial result is returned with the context error.
func (s *Sampler) Run(ctx context.Context, bodies []*body.Body, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(bodies) == 0 {
		return nil, ErrNoBodies
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	result := &Result{
		Energies: make([]float64, 0, cfg.Sweeps+1),
		Volumes:  make([]float64, 0, cfg.Sweeps+1),
		Metrics:  make(map[string]float64),
		Bodies:   bodies,
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for i, b := range bodies {
		if b.Stats.MaxStep == 0 {
			b.Stats.MaxStep = cfg.MaxStep
		}
		if _, err := s.refresh(ctx, b, bodies, cfg.Workers); err != nil {
			return nil, &TrialError{Trial: -1, Body: i, Wrapped: err}
		}
	}

	energy, err := s.SystemEnergy(ctx, bodies)
	if err != nil {
		return nil, err
	}
	result.Energies = append(result.Energies, energy)
	result.Volumes = append(result.Volumes, s.boundary.Area())

	s.logger.Info("sampling started",
		zap.Int("bodies", len(bodies)),
		zap.Int("sweeps", cfg.Sweeps),
		zap.Float64("temperature", cfg.Temperature),
		zap.String("boundary", s.boundary.Name()),
		zap.Float64("energy", energy),
	)

	trial := 0
	for sweep := 1; sweep <= cfg.Sweeps; sweep++ {
		for k := 0; k < len(bodies); k++ {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			i := rng.Intn(len(bodies))
			accepted, err := s.trial(ctx, rng, bodies, i, cfg)
			if err != nil {
				return result, &TrialError{Trial: trial, Body: i, Wrapped: err}
			}
			if accepted {
				result.Accepted++
			} else {
				result.Rejected++
			}
			trial++
		}

		if cfg.Pressure > 0 {
			accepted, err := s.volumeMove(ctx, rng, bodies, cfg)
			if err != nil {
				return result, &TrialError{Trial: trial, Body: -1, Wrapped: err}
			}
			if accepted {
				result.VolumeAccepted++
			} else {
				result.VolumeRejected++
			}
		}

		energy, err := s.SystemEnergy(ctx, bodies)
		if err != nil {
			return result, err
		}
		result.Energies = append(result.Energies, energy)
		result.Volumes = append(result.Volumes, s.boundary.Area())
		result.Sweeps = sweep

		sample := Sample{
			Sweep:    sweep,
			Energy:   energy,
			Accepted: result.Accepted,
			Rejected: result.Rejected,
			Volume:   s.boundary.Area(),
		}
		for _, m := range s.metrics {
			m.Observe(sample)
		}
		for _, obs := range s.observers {
			obs.OnSweep(sample, bodies)
		}

		s.logger.Debug("sweep",
			zap.Int("sweep", sweep),
			zap.Float64("energy", energy),
			zap.Float64("acceptance", result.AcceptanceRatio()),
		)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Info("sampling finished",
		zap.Int("sweeps", result.Sweeps),
		zap.Int("accepted", result.Accepted),
		zap.Int("rejected", result.Rejected),
		zap.Float64("energy", result.FinalEnergy()),
	)

	return result, nil
}

// trial attempts one translation or rotation of bodies[i].
func (s *Sampler) trial(ctx context.Context, rng *rand.Rand, bodies []*body.Body, i int, cfg Config) (bool, error) {
	b := bodies[i]

	old, err := s.refresh(ctx, b, bodies, cfg.Workers)
	if err != nil {
		return false, err
	}
	saved := b.Clone()

	if rng.Float64() < cfg.RotateProb {
		b.Rotate(symmetric(rng, cfg.MaxAngle))
		b.Stats.Rotations++
	} else {
		step := b.Stats.MaxStep
		b.Move(symmetric(rng, step), symmetric(rng, step))
		b.Stats.Translations++
	}
	s.boundary.Confine(b)

	energy, err := s.BodyEnergy(ctx, b, bodies, cfg.Workers)
	if err != nil {
		s.restore(b, saved, old)
		return false, err
	}

	accepted := metropolis(rng, energy-old, cfg.Temperature)
	if accepted {
		b.SetEnergy(energy)
		b.Stats.Accepted++
		for j, o := range bodies {
			if j != i {
				o.Invalidate()
			}
		}
	} else {
		s.restore(b, saved, old)
		b.Stats.Rejected++
	}

	s.adapt(b, cfg)
	return accepted, nil
}

// restore puts back the pre-trial pose while keeping the statistics gathered
// during the trial.
func (s *Sampler) restore(b, saved *body.Body, energy float64) {
	stats := b.Stats
	b.Assign(saved)
	b.Stats = stats
	b.SetEnergy(energy)
}

// adapt nudges the body's step size towards the target acceptance every
// AdaptEvery trials of that body.
func (s *Sampler) adapt(b *body.Body, cfg Config) {
	if cfg.AdaptEvery <= 0 {
		return
	}
	n := b.Stats.Trials()
	if n == 0 || n%cfg.AdaptEvery != 0 {
		return
	}

	step := b.Stats.MaxStep
	if b.Stats.AcceptanceRatio() > cfg.TargetAcceptance {
		step *= 1.05
	} else {
		step *= 0.95
	}

	size := s.boundary.Bounds().Size()
	limit := math.Min(size.X, size.Y) / 2
	b.Stats.MaxStep = math.Max(cfg.MinStep, math.Min(limit, step))
}

// refresh returns the cached energy of b, recomputing and storing it first
// if it is stale.
func (s *Sampler) refresh(ctx context.Context, b *body.Body, bodies []*body.Body, workers int) (float64, error) {
	if e, err := b.CachedEnergy(); err == nil {
		return e, nil
	}
	e, err := s.BodyEnergy(ctx, b, bodies, workers)
	if err != nil {
		return 0, err
	}
	return b.SetEnergy(e), nil
}

// BodyEnergy is the interaction of b with every other body, seen through the
// boundary's images, plus its confinement energy. It does not touch any
// cache.
func (s *Sampler) BodyEnergy(ctx context.Context, b *body.Body, bodies []*body.Body, workers int) (float64, error) {
	s.images = s.boundary.Images(b, bodies, s.images)
	pair, err := s.ev.NeighborEnergy(ctx, b, s.images, workers)
	if err != nil {
		return 0, err
	}
	box, err := s.boundary.Energy(s.ev, b)
	if err != nil {
		return 0, err
	}
	return pair + box, nil
}

// SystemEnergy counts every pair once plus each body's confinement energy.
func (s *Sampler) SystemEnergy(ctx context.Context, bodies []*body.Body) (float64, error) {
	total := 0.0
	for i, b := range bodies {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		s.images = s.boundary.Images(b, bodies[i+1:], s.images)
		for _, o := range s.images {
			e, err := s.ev.PairEnergy(b, o)
			if err != nil {
				return 0, err
			}
			total += e
		}
		box, err := s.boundary.Energy(s.ev, b)
		if err != nil {
			return 0, err
		}
		total += box
	}
	return total, nil
}

func metropolis(rng *rand.Rand, delta, temperature float64) bool {
	if delta <= 0 {
		return true
	}
	return rng.Float64() < math.Exp(-delta/temperature)
}

func symmetric(rng *rand.Rand, max float64) float64 {
	return (2*rng.Float64() - 1) * max
}
