// Package automation drives multi-stage sampling schedules and parameter
// scans on top of the sampler.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/rigidmc/internal/analysis"
	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/logging"
	"github.com/san-kum/rigidmc/internal/montecarlo"
)

var ErrInvalidScenario = errors.New("automation: invalid scenario")

// Stage is one leg of a scenario. A zero MaxStep keeps the step sizes the
// bodies adapted to in the previous stage.
type Stage struct {
	Name        string  `yaml:"name"`
	Sweeps      int     `yaml:"sweeps"`
	Temperature float64 `yaml:"temperature"`
	Pressure    float64 `yaml:"pressure"`
	MaxStep     float64 `yaml:"max_step"`
}

// Scenario is a sequence of stages run back to back on the same bodies.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Stages      []Stage `yaml:"stages"`
}

func (sc *Scenario) Validate() error {
	if len(sc.Stages) == 0 {
		return fmt.Errorf("%w: no stages", ErrInvalidScenario)
	}
	for i, st := range sc.Stages {
		if st.Sweeps <= 0 {
			return fmt.Errorf("%w: stage %d has %d sweeps", ErrInvalidScenario, i+1, st.Sweeps)
		}
		if st.Temperature <= 0 {
			return fmt.Errorf("%w: stage %d has temperature %g", ErrInvalidScenario, i+1, st.Temperature)
		}
		if st.Pressure < 0 || st.MaxStep < 0 {
			return fmt.Errorf("%w: stage %d has a negative parameter", ErrInvalidScenario, i+1)
		}
	}
	return nil
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("automation: %w", err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Anneal cools geometrically from one temperature to another over the given
// number of stages.
func Anneal(from, to float64, stages, sweeps int) *Scenario {
	sc := &Scenario{
		Name:   "anneal",
		Stages: make([]Stage, stages),
	}
	for i := range sc.Stages {
		t := from
		if stages > 1 {
			t = from * math.Pow(to/from, float64(i)/float64(stages-1))
		}
		sc.Stages[i] = Stage{
			Name:        fmt.Sprintf("T=%.4g", t),
			Sweeps:      sweeps,
			Temperature: t,
		}
	}
	return sc
}

type StageResult struct {
	Stage  Stage
	Result *montecarlo.Result
}

// RunScenario executes every stage with base as the template. Stage i uses
// seed base.Seed+i. Results of the stages completed before a failure are
// returned with the error.
func RunScenario(ctx context.Context, s *montecarlo.Sampler, bodies []*body.Body, base montecarlo.Config, sc *Scenario, logger *zap.Logger) ([]StageResult, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	logger = logging.OrNop(logger)

	results := make([]StageResult, 0, len(sc.Stages))
	for i, st := range sc.Stages {
		cfg := base
		cfg.Sweeps = st.Sweeps
		cfg.Temperature = st.Temperature
		cfg.Pressure = st.Pressure
		cfg.Seed = base.Seed + int64(i)
		if st.MaxStep > 0 {
			cfg.MaxStep = st.MaxStep
			for _, b := range bodies {
				b.Stats.MaxStep = st.MaxStep
			}
		}

		logger.Info("stage started",
			zap.Int("stage", i+1),
			zap.Int("of", len(sc.Stages)),
			zap.String("name", st.Name),
			zap.Float64("temperature", st.Temperature),
		)

		res, err := s.Run(ctx, bodies, cfg)
		if err != nil {
			return results, fmt.Errorf("stage %d: %w", i+1, err)
		}
		results = append(results, StageResult{Stage: st, Result: res})
	}
	return results, nil
}

// Combine joins stage results into one result. Each stage after the first
// starts from the configuration the previous one ended with, so its initial
// sample is dropped. Metrics come from the last stage.
func Combine(stages []StageResult) *montecarlo.Result {
	out := &montecarlo.Result{Metrics: make(map[string]float64)}
	for i, st := range stages {
		r := st.Result
		energies, volumes := r.Energies, r.Volumes
		if i > 0 && len(energies) > 0 {
			energies, volumes = energies[1:], volumes[1:]
		}
		out.Energies = append(out.Energies, energies...)
		out.Volumes = append(out.Volumes, volumes...)
		out.Accepted += r.Accepted
		out.Rejected += r.Rejected
		out.VolumeAccepted += r.VolumeAccepted
		out.VolumeRejected += r.VolumeRejected
		out.Sweeps += r.Sweeps
		out.Bodies = r.Bodies
		out.Metrics = r.Metrics
	}
	return out
}

// Scan varies one sampler parameter over a range, starting every point from a
// freshly built system.
type Scan struct {
	Param    string
	Min, Max float64
	Steps    int
	// Discard is the number of initial sweeps dropped from each point's
	// statistics.
	Discard int
}

// ScanPoint summarizes the run at one parameter value.
type ScanPoint struct {
	Value      float64
	Energy     analysis.Summary
	Volume     analysis.Summary
	Acceptance float64
}

const (
	ParamTemperature = "temperature"
	ParamPressure    = "pressure"
)

// RunScan runs one point per step of the scan. Point i is built by build(i)
// and sampled with base and the scanned parameter set.
func RunScan(ctx context.Context, build montecarlo.ReplicaFactory, base montecarlo.Config, scan Scan) ([]ScanPoint, error) {
	if scan.Steps < 1 {
		return nil, fmt.Errorf("%w: scan needs at least one step", ErrInvalidScenario)
	}
	if scan.Param != ParamTemperature && scan.Param != ParamPressure {
		return nil, fmt.Errorf("%w: cannot scan %q", ErrInvalidScenario, scan.Param)
	}

	points := make([]ScanPoint, 0, scan.Steps)
	for i := 0; i < scan.Steps; i++ {
		value := scan.Min
		if scan.Steps > 1 {
			value += float64(i) * (scan.Max - scan.Min) / float64(scan.Steps-1)
		}

		cfg := base
		switch scan.Param {
		case ParamTemperature:
			cfg.Temperature = value
		case ParamPressure:
			cfg.Pressure = value
		}

		s, bodies, err := build(i)
		if err != nil {
			return points, err
		}
		res, err := s.Run(ctx, bodies, cfg)
		if err != nil {
			return points, fmt.Errorf("%s=%g: %w", scan.Param, value, err)
		}

		points = append(points, ScanPoint{
			Value:      value,
			Energy:     analysis.Summarize(res.Energies, scan.Discard),
			Volume:     analysis.Summarize(res.Volumes, scan.Discard),
			Acceptance: res.AcceptanceRatio(),
		})
	}
	return points, nil
}
