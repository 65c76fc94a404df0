package metrics

import "github.com/san-kum/rigidmc/internal/montecarlo"

// Stability is the fraction of sweeps whose system energy stayed at or below
// threshold. With the threshold set to the force field's big energy it
// measures how often the system was free of hard overlaps.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sample montecarlo.Sample) {
	s.samples++
	if sample.Energy > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
