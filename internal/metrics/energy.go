package metrics

import (
	"math"

	"github.com/san-kum/rigidmc/internal/montecarlo"
)

// MeanEnergy averages the system energy over the sweeps seen, skipping the
// first Discard of them as equilibration.
type MeanEnergy struct {
	name    string
	discard int
	seen    int
	samples int
	total   float64
}

func NewMeanEnergy(discard int) *MeanEnergy {
	return &MeanEnergy{
		name:    "mean_energy",
		discard: discard,
	}
}

func (e *MeanEnergy) Name() string { return e.name }

func (e *MeanEnergy) Observe(s montecarlo.Sample) {
	e.seen++
	if e.seen <= e.discard {
		return
	}
	e.total += s.Energy
	e.samples++
}

func (e *MeanEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *MeanEnergy) Reset() {
	e.seen = 0
	e.total = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change of the system energy from the
// first observed sweep.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s montecarlo.Sample) {
	if e.samples == 0 {
		e.initialEnergy = s.Energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(s.Energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
