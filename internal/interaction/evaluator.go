package interaction

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/topology"
)

type Evaluator struct {
	ff  ForceField
	top Topology
}

func New(ff ForceField, top Topology) *Evaluator {
	return &Evaluator{ff: ff, top: top}
}

func (e *Evaluator) ForceField() ForceField { return e.ff }
func (e *Evaluator) Topology() Topology     { return e.top }

func (e *Evaluator) molecule(b *body.Body) (*topology.Molecule, error) {
	m, err := e.top.Molecule(b.Type)
	if err != nil {
		return nil, fmt.Errorf("interaction: body type %d: %w", b.Type, err)
	}
	return m, nil
}

// WorldAtoms returns the world coordinates of every atom of b.
func (e *Evaluator) WorldAtoms(b *body.Body) ([]r2.Point, error) {
	m, err := e.molecule(b)
	if err != nil {
		return nil, err
	}
	f := frameOf(b)
	pts := make([]r2.Point, len(m.Atoms))
	for i, a := range m.Atoms {
		pts[i] = f.apply(a.X, a.Y)
	}
	return pts, nil
}

// PairEnergy sums the force-field energy over every atom pair of a and b.
// No periodic images are considered.
func (e *Evaluator) PairEnergy(a, b *body.Body) (float64, error) {
	ma, err := e.molecule(a)
	if err != nil {
		return 0, err
	}
	mb, err := e.molecule(b)
	if err != nil {
		return 0, err
	}
	energy, _ := e.pairEnergy(a, ma, b, mb, nil)
	return energy, nil
}

// pairEnergy transforms b's atoms once into scratch and walks a's atoms
// against them. It returns the grown scratch for reuse.
func (e *Evaluator) pairEnergy(a *body.Body, ma *topology.Molecule, b *body.Body, mb *topology.Molecule, scratch []site) (float64, []site) {
	sitesB := worldSites(b, mb, scratch)
	fa := frameOf(a)

	energy := 0.0
	for _, at := range ma.Atoms {
		pa := fa.apply(at.X, at.Y)
		for _, sb := range sitesB {
			dx := sb.pos.X - pa.X
			dy := sb.pos.Y - pa.Y
			energy += e.ff.PairEnergy(at.Type, sb.typ, math.Sqrt(dx*dx+dy*dy))
		}
	}
	return energy, sitesB
}

// BoxEnergy adds BigEnergy for every atom of b closer than its radius to an
// edge of the rectangle [0,width]×[0,height].
func (e *Evaluator) BoxEnergy(b *body.Body, width, height float64) (float64, error) {
	m, err := e.molecule(b)
	if err != nil {
		return 0, err
	}

	f := frameOf(b)
	big := e.ff.BigEnergy()
	value := 0.0
	for _, at := range m.Atoms {
		p := f.apply(at.X, at.Y)
		r := e.ff.AtomRadius(at.Type)
		if p.X < r || p.X > width-r || p.Y < r || p.Y > height-r {
			value += big
		}
	}
	return value, nil
}

// PolygonEnergy adds BigEnergy for every atom of b whose disc is not inside
// region.
func (e *Evaluator) PolygonEnergy(b *body.Body, region Region) (float64, error) {
	m, err := e.molecule(b)
	if err != nil {
		return 0, err
	}

	f := frameOf(b)
	big := e.ff.BigEnergy()
	value := 0.0
	for _, at := range m.Atoms {
		p := f.apply(at.X, at.Y)
		if !region.IsInside(p.X, p.Y, e.ff.AtomRadius(at.Type)) {
			value += big
		}
	}
	return value, nil
}
