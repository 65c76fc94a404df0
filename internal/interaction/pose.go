package interaction

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r2"

	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/topology"
)

// frame is the rigid transform of one body: rotation by its orientation,
// then translation to its position.
type frame struct {
	origin r2.Point
	rot    mgl64.Mat2
}

func frameOf(b *body.Body) frame {
	return frame{origin: b.Pos(), rot: mgl64.Rotate2D(b.Orientation())}
}

// apply maps a body-frame offset to world space:
// x = ox - sinθ·ly + cosθ·lx, y = oy + cosθ·ly + sinθ·lx.
func (f frame) apply(lx, ly float64) r2.Point {
	v := f.rot.Mul2x1(mgl64.Vec2{lx, ly})
	return r2.Point{X: f.origin.X + v[0], Y: f.origin.Y + v[1]}
}

type site struct {
	typ int
	pos r2.Point
}

func worldSites(b *body.Body, m *topology.Molecule, dst []site) []site {
	f := frameOf(b)
	dst = dst[:0]
	for _, a := range m.Atoms {
		dst = append(dst, site{typ: a.Type, pos: f.apply(a.X, a.Y)})
	}
	return dst
}
