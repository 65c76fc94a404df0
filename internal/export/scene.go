package export

import (
	"github.com/golang/geo/r2"

	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/boundary"
	"github.com/san-kum/rigidmc/internal/interaction"
)

// NewScene places every atom of bodies in world space with its force-field
// radius. Polygon boxes contribute their outline.
func NewScene(bd boundary.Boundary, ev *interaction.Evaluator, bodies []*body.Body) (Scene, error) {
	scene := Scene{
		Bounds: bd.Bounds(),
		Bodies: make([][]Disc, len(bodies)),
	}
	if p, ok := bd.(*boundary.Polygon); ok {
		scene.Outline = append([]r2.Point(nil), p.Shape.Vertices...)
	}

	ff := ev.ForceField()
	for i, b := range bodies {
		m, err := ev.Topology().Molecule(b.Type)
		if err != nil {
			return Scene{}, err
		}
		pts, err := ev.WorldAtoms(b)
		if err != nil {
			return Scene{}, err
		}

		discs := make([]Disc, len(pts))
		for j, p := range pts {
			typ := m.Atoms[j].Type
			discs[j] = Disc{Center: p, Radius: ff.AtomRadius(typ), Type: typ}
		}
		scene.Bodies[i] = discs
	}
	return scene, nil
}
