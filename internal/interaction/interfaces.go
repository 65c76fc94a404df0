package interaction

import "github.com/san-kum/rigidmc/internal/topology"

// ForceField supplies short-range pair energies and per-atom exclusion radii.
type ForceField interface {
	PairEnergy(atomTypeA, atomTypeB int, distance float64) float64
	AtomRadius(atomType int) float64
	BigEnergy() float64
}

// Topology resolves a body type to its atoms. Unknown types must return an
// error wrapping topology.ErrUnknownType.
type Topology interface {
	Molecule(bodyType int) (*topology.Molecule, error)
}

// Region is a confinement shape such as a geometry.Polygon.
type Region interface {
	IsInside(x, y, radius float64) bool
}
