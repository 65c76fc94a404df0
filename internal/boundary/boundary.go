// Package boundary applies the edge conditions of the simulation box: how a
// body is brought back after a move, what confinement energy it pays and how
// distances between bodies are measured.
package boundary

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"github.com/san-kum/rigidmc/internal/body"
	"github.com/san-kum/rigidmc/internal/config"
	"github.com/san-kum/rigidmc/internal/geometry"
	"github.com/san-kum/rigidmc/internal/interaction"
)

type Boundary interface {
	Name() string
	// Confine brings b back into the box after a move.
	Confine(b *body.Body)
	// Energy is the confinement energy of b.
	Energy(ev *interaction.Evaluator, b *body.Body) (float64, error)
	Distance(a, b *body.Body) float64
	// Images returns others as seen from ref. Periodic boxes substitute
	// shifted copies for bodies whose nearest image lies across an edge;
	// everything else, ref included, is passed through unchanged.
	Images(ref *body.Body, others []*body.Body, dst []*body.Body) []*body.Body
	// Contains reports whether point p lies inside the box.
	Contains(p r2.Point) bool
	// Scale rescales the box by factor; bodies are expanded separately.
	Scale(factor float64)
	Bounds() r2.Rect
	Area() float64
}

func FromConfig(cfg config.BoxConfig) (Boundary, error) {
	switch cfg.Kind {
	case config.BoxPeriodic:
		return &Periodic{Width: cfg.Width, Height: cfg.Height}, nil
	case config.BoxWalls:
		return &Walls{Width: cfg.Width, Height: cfg.Height}, nil
	case config.BoxPolygon:
		pts := make([]r2.Point, len(cfg.Polygon))
		for i, v := range cfg.Polygon {
			pts[i] = r2.Point{X: v[0], Y: v[1]}
		}
		shape, err := geometry.NewPolygon(pts)
		if err != nil {
			return nil, err
		}
		return &Polygon{Shape: shape}, nil
	default:
		return nil, fmt.Errorf("boundary: unknown kind %q", cfg.Kind)
	}
}

// ToConfig describes bd, including any rescaling since it was built.
func ToConfig(bd Boundary) config.BoxConfig {
	switch v := bd.(type) {
	case *Periodic:
		return config.BoxConfig{Kind: config.BoxPeriodic, Width: v.Width, Height: v.Height}
	case *Walls:
		return config.BoxConfig{Kind: config.BoxWalls, Width: v.Width, Height: v.Height}
	case *Polygon:
		pts := make([][2]float64, len(v.Shape.Vertices))
		for i, p := range v.Shape.Vertices {
			pts[i] = [2]float64{p.X, p.Y}
		}
		return config.BoxConfig{Kind: config.BoxPolygon, Polygon: pts}
	default:
		return config.BoxConfig{Kind: bd.Name()}
	}
}

// Periodic wraps positions into [0,Width)×[0,Height) and has no confinement
// energy.
type Periodic struct {
	Width, Height float64
}

func (p *Periodic) Name() string { return config.BoxPeriodic }

func (p *Periodic) Confine(b *body.Body) {
	dx := wrap(b.X(), p.Width) - b.X()
	dy := wrap(b.Y(), p.Height) - b.Y()
	if dx != 0 || dy != 0 {
		b.Move(dx, dy)
	}
}

func (p *Periodic) Energy(*interaction.Evaluator, *body.Body) (float64, error) { return 0, nil }

func (p *Periodic) Distance(a, b *body.Body) float64 {
	return a.Distance(b, p.Width, p.Height, true)
}

func (p *Periodic) Images(ref *body.Body, others []*body.Body, dst []*body.Body) []*body.Body {
	dst = dst[:0]
	for _, o := range others {
		sx := imageShift(o.X()-ref.X(), p.Width)
		sy := imageShift(o.Y()-ref.Y(), p.Height)
		if sx == 0 && sy == 0 {
			dst = append(dst, o)
			continue
		}
		img := o.Clone()
		img.Move(sx, sy)
		dst = append(dst, img)
	}
	return dst
}

func (p *Periodic) Contains(pt r2.Point) bool { return p.Bounds().ContainsPoint(pt) }

func (p *Periodic) Scale(factor float64) {
	p.Width *= factor
	p.Height *= factor
}

func (p *Periodic) Bounds() r2.Rect { return rect(p.Width, p.Height) }
func (p *Periodic) Area() float64   { return p.Width * p.Height }

// Walls reflects bodies off the edges of [0,Width]×[0,Height] and charges the
// rectangle box energy.
type Walls struct {
	Width, Height float64
}

func (w *Walls) Name() string { return config.BoxWalls }

func (w *Walls) Confine(b *body.Body) {
	dx := reflect(b.X(), w.Width) - b.X()
	dy := reflect(b.Y(), w.Height) - b.Y()
	if dx != 0 || dy != 0 {
		b.Move(dx, dy)
	}
}

func (w *Walls) Energy(ev *interaction.Evaluator, b *body.Body) (float64, error) {
	return ev.BoxEnergy(b, w.Width, w.Height)
}

func (w *Walls) Distance(a, b *body.Body) float64 {
	return a.Distance(b, w.Width, w.Height, false)
}

func (w *Walls) Images(_ *body.Body, others []*body.Body, dst []*body.Body) []*body.Body {
	return append(dst[:0], others...)
}

func (w *Walls) Contains(pt r2.Point) bool { return w.Bounds().ContainsPoint(pt) }

func (w *Walls) Scale(factor float64) {
	w.Width *= factor
	w.Height *= factor
}

func (w *Walls) Bounds() r2.Rect { return rect(w.Width, w.Height) }
func (w *Walls) Area() float64   { return w.Width * w.Height }

// Polygon confines through energy only: atoms outside the shape pay the big
// energy and the move is rejected by the sampler.
type Polygon struct {
	Shape *geometry.Polygon
}

func (p *Polygon) Name() string       { return config.BoxPolygon }
func (p *Polygon) Confine(*body.Body) {}

func (p *Polygon) Energy(ev *interaction.Evaluator, b *body.Body) (float64, error) {
	return ev.PolygonEnergy(b, p.Shape)
}

func (p *Polygon) Distance(a, b *body.Body) float64 {
	return a.Distance(b, 0, 0, false)
}

func (p *Polygon) Images(_ *body.Body, others []*body.Body, dst []*body.Body) []*body.Body {
	return append(dst[:0], others...)
}

func (p *Polygon) Contains(pt r2.Point) bool { return p.Shape.IsInside(pt.X, pt.Y, 0) }

func (p *Polygon) Scale(factor float64) { p.Shape.Scale(factor) }
func (p *Polygon) Bounds() r2.Rect      { return p.Shape.Bounds() }
func (p *Polygon) Area() float64        { return p.Shape.Area() }

// imageShift is the multiple of size that brings displacement d into
// [-size/2, size/2].
func imageShift(d, size float64) float64 {
	return -size * math.Round(d/size)
}

func wrap(v, size float64) float64 {
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	if v >= size {
		v = 0
	}
	return v
}

// reflect mirrors v back into [0,size]; steps longer than the box are clamped.
func reflect(v, size float64) float64 {
	if v < 0 {
		v = -v
	}
	if v > size {
		v = 2*size - v
	}
	return math.Max(0, math.Min(size, v))
}

func rect(w, h float64) r2.Rect {
	return r2.RectFromPoints(r2.Point{}, r2.Point{X: w, Y: h})
}
