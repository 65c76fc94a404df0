package montecarlo

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/boundary"
	"github.com/san-kum/rigidmc/internal/config"
	"github.com/san-kum/rigidmc/internal/forcefield"
	"github.com/san-kum/rigidmc/internal/interaction"
	"github.com/san-kum/rigidmc/internal/topology"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Sweeps = 20
	cfg.Seed = 7
	cfg.AdaptEvery = 5
	return cfg
}

func newSystem(t *testing.T, kind string, n int) (*Sampler, []*body.Body) {
	t.Helper()

	rc := config.DefaultConfig()
	rc.Box = config.BoxConfig{Kind: kind, Width: 10, Height: 10}
	rc.Population = []config.PopulationConfig{{Type: 0, Count: n}}

	bd, err := boundary.FromConfig(rc.Box)
	require.NoError(t, err)

	top := topology.Point()
	bodies, err := Populate(rc, top, bd, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	ev := interaction.New(forcefield.Default(), top)
	return New(ev, bd, nil), bodies
}

func cloneAll(bodies []*body.Body) []*body.Body {
	out := make([]*body.Body, len(bodies))
	for i, b := range bodies {
		out[i] = b.Clone()
	}
	return out
}

func TestRun_Deterministic(t *testing.T) {
	s1, bodies := newSystem(t, config.BoxPeriodic, 12)
	s2, _ := newSystem(t, config.BoxPeriodic, 12)
	other := cloneAll(bodies)

	r1, err := s1.Run(context.Background(), bodies, testConfig())
	require.NoError(t, err)
	r2, err := s2.Run(context.Background(), other, testConfig())
	require.NoError(t, err)

	assert.Equal(t, r1.Energies, r2.Energies)
	assert.Equal(t, r1.Accepted, r2.Accepted)
	for i := range bodies {
		assert.Equal(t, bodies[i].Pos(), other[i].Pos(), "body %d", i)
		assert.Equal(t, bodies[i].Orientation(), other[i].Orientation(), "body %d", i)
	}
}

func TestRun_Counts(t *testing.T) {
	s, bodies := newSystem(t, config.BoxWalls, 8)
	cfg := testConfig()

	res, err := s.Run(context.Background(), bodies, cfg)
	require.NoError(t, err)

	assert.Equal(t, cfg.Sweeps, res.Sweeps)
	assert.Len(t, res.Energies, cfg.Sweeps+1)
	assert.Len(t, res.Volumes, cfg.Sweeps+1)
	assert.Equal(t, cfg.Sweeps*len(bodies), res.Accepted+res.Rejected)

	trials, moves := 0, 0
	for _, b := range bodies {
		trials += b.Stats.Trials()
		moves += b.Stats.Rotations + b.Stats.Translations
		assert.GreaterOrEqual(t, b.Stats.MaxStep, cfg.MinStep)
		assert.LessOrEqual(t, b.Stats.MaxStep, 5.0)
	}
	assert.Equal(t, res.Accepted+res.Rejected, trials)
	assert.Equal(t, trials, moves)
}

func TestRun_ValidCachesMatchRecomputation(t *testing.T) {
	for _, kind := range []string{config.BoxPeriodic, config.BoxWalls} {
		t.Run(kind, func(t *testing.T) {
			s, bodies := newSystem(t, kind, 10)
			_, err := s.Run(context.Background(), bodies, testConfig())
			require.NoError(t, err)

			valid := 0
			for i, b := range bodies {
				cached, err := b.CachedEnergy()
				if err != nil {
					assert.ErrorIs(t, err, body.ErrStaleEnergy)
					continue
				}
				valid++
				want, err := s.BodyEnergy(context.Background(), b, bodies, 1)
				require.NoError(t, err)
				assert.InDelta(t, want, cached, 1e-9, "body %d", i)
			}
			assert.Positive(t, valid)
		})
	}
}

func TestRun_WallsKeepBodiesInside(t *testing.T) {
	s, bodies := newSystem(t, config.BoxWalls, 10)
	_, err := s.Run(context.Background(), bodies, testConfig())
	require.NoError(t, err)

	for i, b := range bodies {
		assert.True(t, s.Boundary().Contains(b.Pos()), "body %d at %v", i, b.Pos())
	}
}

func TestRun_VolumeMoves(t *testing.T) {
	s, bodies := newSystem(t, config.BoxPeriodic, 10)
	cfg := testConfig()
	cfg.Pressure = 0.5
	cfg.VolumeStep = 0.05

	res, err := s.Run(context.Background(), bodies, cfg)
	require.NoError(t, err)

	assert.Equal(t, cfg.Sweeps, res.VolumeAccepted+res.VolumeRejected)
	assert.InDelta(t, s.Boundary().Area(), res.Volumes[len(res.Volumes)-1], 1e-9)
}

func TestRun_Canceled(t *testing.T) {
	s, bodies := newSystem(t, config.BoxPeriodic, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, bodies, testConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_UnknownTypeAborts(t *testing.T) {
	s, bodies := newSystem(t, config.BoxWalls, 3)
	bodies = append(bodies, body.New(5, 1, 1, 0))

	_, err := s.Run(context.Background(), bodies, testConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, topology.ErrUnknownType)

	var te *TrialError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, -1, te.Trial)
}

func TestRun_InvalidInput(t *testing.T) {
	s, bodies := newSystem(t, config.BoxWalls, 2)

	_, err := s.Run(context.Background(), nil, testConfig())
	assert.ErrorIs(t, err, ErrNoBodies)

	cfg := testConfig()
	cfg.Sweeps = 0
	_, err = s.Run(context.Background(), bodies, cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = testConfig()
	cfg.Pressure = 1
	cfg.VolumeStep = 0
	_, err = s.Run(context.Background(), bodies, cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

type countingMetric struct {
	observed int
	resets   int
	last     Sample
}

func (m *countingMetric) Name() string     { return "count" }
func (m *countingMetric) Observe(s Sample) { m.observed++; m.last = s }
func (m *countingMetric) Value() float64   { return float64(m.observed) }
func (m *countingMetric) Reset()           { m.resets++; m.observed = 0 }

type sweepRecorder struct {
	sweeps []int
}

func (o *sweepRecorder) OnSweep(s Sample, _ []*body.Body) { o.sweeps = append(o.sweeps, s.Sweep) }

func TestRun_MetricsAndObservers(t *testing.T) {
	s, bodies := newSystem(t, config.BoxPeriodic, 5)
	m := &countingMetric{}
	o := &sweepRecorder{}
	s.AddMetric(m)
	s.AddObserver(o)

	cfg := testConfig()
	res, err := s.Run(context.Background(), bodies, cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, m.resets)
	assert.Equal(t, float64(cfg.Sweeps), res.Metrics["count"])
	assert.Equal(t, res.FinalEnergy(), m.last.Energy)
	assert.Equal(t, res.Accepted, m.last.Accepted)
	require.Len(t, o.sweeps, cfg.Sweeps)
	assert.Equal(t, 1, o.sweeps[0])
	assert.Equal(t, cfg.Sweeps, o.sweeps[cfg.Sweeps-1])
}

func TestSystemEnergy_PeriodicImage(t *testing.T) {
	ff := forcefield.Default()
	ev := interaction.New(ff, topology.Point())
	s := New(ev, &boundary.Periodic{Width: 20, Height: 20}, nil)

	bodies := []*body.Body{body.New(0, 0.5, 5, 0), body.New(0, 19.4, 5, 0)}
	got, err := s.SystemEnergy(context.Background(), bodies)
	require.NoError(t, err)
	assert.InDelta(t, ff.PairEnergy(0, 0, 1.1), got, 1e-9)

	walled := New(ev, &boundary.Walls{Width: 20, Height: 20}, nil)
	got, err = walled.SystemEnergy(context.Background(), bodies)
	require.NoError(t, err)
	assert.InDelta(t, 0, got, 1e-12)
}

func TestMetropolis(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	assert.True(t, metropolis(rng, -1, 1))
	assert.True(t, metropolis(rng, 0, 1))
	assert.False(t, metropolis(rng, 1e6, 1))
}
