package montecarlo

import (
	"fmt"

	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/config"
)

// Sample is what metrics and observers see after every sweep. Counts are
// cumulative over the run.
type Sample struct {
	Sweep    int
	Energy   float64
	Accepted int
	Rejected int
	Volume   float64
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnSweep(s Sample, bodies []*body.Body)
}

type Config struct {
	Sweeps           int
	Temperature      float64
	MaxStep          float64
	MaxAngle         float64
	MinStep          float64
	RotateProb       float64
	Seed             int64
	Workers          int
	AdaptEvery       int
	TargetAcceptance float64
	Pressure         float64
	VolumeStep       float64
}

func DefaultConfig() Config {
	return Config{
		Sweeps:           config.DefaultSweeps,
		Temperature:      config.DefaultTemperature,
		MaxStep:          config.DefaultMaxStep,
		MaxAngle:         config.DefaultMaxAngle,
		MinStep:          1e-4,
		RotateProb:       config.DefaultRotateProb,
		Workers:          1,
		AdaptEvery:       config.DefaultAdaptEvery,
		TargetAcceptance: config.DefaultTargetAcceptance,
		VolumeStep:       0.01,
	}
}

// FromConfig converts the YAML run section into sampler parameters.
func FromConfig(mc config.MCConfig) Config {
	c := DefaultConfig()
	c.Sweeps = mc.Sweeps
	c.Temperature = mc.Temperature
	c.MaxStep = mc.MaxStep
	c.MaxAngle = mc.MaxAngle
	c.RotateProb = mc.RotateProb
	c.Seed = mc.Seed
	c.Workers = mc.Workers
	c.AdaptEvery = mc.AdaptEvery
	c.TargetAcceptance = mc.TargetAcceptance
	c.Pressure = mc.Pressure
	if mc.VolumeStep > 0 {
		c.VolumeStep = mc.VolumeStep
	}
	return c
}

func (c Config) validate() error {
	if c.Sweeps <= 0 {
		return fmt.Errorf("%w: sweeps must be positive, got %d", ErrInvalidConfig, c.Sweeps)
	}
	if c.Temperature <= 0 {
		return fmt.Errorf("%w: temperature must be positive, got %g", ErrInvalidConfig, c.Temperature)
	}
	if c.MaxStep < 0 || c.MaxAngle < 0 || c.MinStep < 0 {
		return fmt.Errorf("%w: step sizes must not be negative", ErrInvalidConfig)
	}
	if c.RotateProb < 0 || c.RotateProb > 1 {
		return fmt.Errorf("%w: rotate probability %g outside [0,1]", ErrInvalidConfig, c.RotateProb)
	}
	if c.Pressure < 0 {
		return fmt.Errorf("%w: pressure must not be negative, got %g", ErrInvalidConfig, c.Pressure)
	}
	if c.Pressure > 0 && c.VolumeStep <= 0 {
		return fmt.Errorf("%w: volume moves need a positive volume step", ErrInvalidConfig)
	}
	return nil
}

type Result struct {
	Energies       []float64
	Volumes        []float64
	Accepted       int
	Rejected       int
	VolumeAccepted int
	VolumeRejected int
	Sweeps         int
	Metrics        map[string]float64
	Bodies         []*body.Body
}

func (r *Result) AcceptanceRatio() float64 {
	n := r.Accepted + r.Rejected
	if n == 0 {
		return 0
	}
	return float64(r.Accepted) / float64(n)
}

// FinalEnergy is the last recorded system energy.
func (r *Result) FinalEnergy() float64 {
	if len(r.Energies) == 0 {
		return 0
	}
	return r.Energies[len(r.Energies)-1]
}
