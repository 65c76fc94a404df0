package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	BoxPeriodic = "periodic"
	BoxWalls    = "walls"
	BoxPolygon  = "polygon"
)

const (
	DefaultWidth            = 20.0
	DefaultHeight           = 20.0
	DefaultSweeps           = 200
	DefaultTemperature      = 1.0
	DefaultMaxStep          = 0.5
	DefaultMaxAngle         = 0.5
	DefaultRotateProb       = 0.5
	DefaultAdaptEvery       = 50
	DefaultTargetAcceptance = 0.4
	DefaultBodies           = 16
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Name          string             `yaml:"name"`
	Topology      string             `yaml:"topology"`
	ForceField    string             `yaml:"force_field"`
	Configuration string             `yaml:"configuration"`
	Box           BoxConfig          `yaml:"box"`
	Bodies        []BodyConfig       `yaml:"bodies"`
	Population    []PopulationConfig `yaml:"population"`
	MC            MCConfig           `yaml:"monte_carlo"`
}

type BoxConfig struct {
	Kind    string       `yaml:"kind" json:"kind"`
	Width   float64      `yaml:"width" json:"width,omitempty"`
	Height  float64      `yaml:"height" json:"height,omitempty"`
	Polygon [][2]float64 `yaml:"polygon" json:"polygon,omitempty"`
}

func (b BoxConfig) Periodic() bool { return b.Kind == BoxPeriodic }

type BodyConfig struct {
	Type  int     `yaml:"type"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Angle float64 `yaml:"angle"`
}

// PopulationConfig places Count bodies of Type uniformly at random.
type PopulationConfig struct {
	Type  int `yaml:"type"`
	Count int `yaml:"count"`
}

type MCConfig struct {
	Sweeps           int     `yaml:"sweeps"`
	Temperature      float64 `yaml:"temperature"`
	MaxStep          float64 `yaml:"max_step"`
	MaxAngle         float64 `yaml:"max_angle"`
	RotateProb       float64 `yaml:"rotate_prob"`
	Seed             int64   `yaml:"seed"`
	Workers          int     `yaml:"workers"`
	AdaptEvery       int     `yaml:"adapt_every"`
	TargetAcceptance float64 `yaml:"target_acceptance"`
	Pressure         float64 `yaml:"pressure"`
	VolumeStep       float64 `yaml:"volume_step"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "run",
		Box: BoxConfig{
			Kind:   BoxPeriodic,
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Population: []PopulationConfig{{Type: 0, Count: DefaultBodies}},
		MC: MCConfig{
			Sweeps:           DefaultSweeps,
			Temperature:      DefaultTemperature,
			MaxStep:          DefaultMaxStep,
			MaxAngle:         DefaultMaxAngle,
			RotateProb:       DefaultRotateProb,
			Workers:          1,
			AdaptEvery:       DefaultAdaptEvery,
			TargetAcceptance: DefaultTargetAcceptance,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch c.Box.Kind {
	case BoxPeriodic, BoxWalls:
		if c.Box.Width <= 0 || c.Box.Height <= 0 {
			return fmt.Errorf("%w: box %gx%g must be positive", ErrInvalidConfig, c.Box.Width, c.Box.Height)
		}
	case BoxPolygon:
		if len(c.Box.Polygon) < 3 {
			return fmt.Errorf("%w: polygon box needs at least 3 vertices, got %d", ErrInvalidConfig, len(c.Box.Polygon))
		}
	default:
		return fmt.Errorf("%w: unknown box kind %q", ErrInvalidConfig, c.Box.Kind)
	}

	mc := c.MC
	if mc.Sweeps <= 0 {
		return fmt.Errorf("%w: sweeps must be positive, got %d", ErrInvalidConfig, mc.Sweeps)
	}
	if mc.Temperature <= 0 {
		return fmt.Errorf("%w: temperature must be positive, got %g", ErrInvalidConfig, mc.Temperature)
	}
	if mc.MaxStep < 0 || mc.MaxAngle < 0 {
		return fmt.Errorf("%w: step sizes must not be negative", ErrInvalidConfig)
	}
	if mc.RotateProb < 0 || mc.RotateProb > 1 {
		return fmt.Errorf("%w: rotate_prob %g outside [0,1]", ErrInvalidConfig, mc.RotateProb)
	}
	if mc.Pressure < 0 || mc.VolumeStep < 0 {
		return fmt.Errorf("%w: pressure and volume_step must not be negative", ErrInvalidConfig)
	}
	if mc.TargetAcceptance <= 0 || mc.TargetAcceptance >= 1 {
		return fmt.Errorf("%w: target_acceptance %g outside (0,1)", ErrInvalidConfig, mc.TargetAcceptance)
	}

	for i, p := range c.Population {
		if p.Count < 0 || p.Type < 0 {
			return fmt.Errorf("%w: population %d has type %d count %d", ErrInvalidConfig, i, p.Type, p.Count)
		}
	}
	for i, b := range c.Bodies {
		if b.Type < 0 {
			return fmt.Errorf("%w: body %d has negative type %d", ErrInvalidConfig, i, b.Type)
		}
	}
	return nil
}

// NumBodies counts explicit bodies plus populations. Bodies read from
// Configuration are not included.
func (c *Config) NumBodies() int {
	n := len(c.Bodies)
	for _, p := range c.Population {
		n += p.Count
	}
	return n
}
