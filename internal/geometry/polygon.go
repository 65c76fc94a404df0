// Package geometry provides the polygonal confinement region.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

var ErrDegeneratePolygon = errors.New("geometry: polygon needs at least three vertices and non-zero area")

// Polygon is a simple closed polygon; the last vertex connects back to the
// first. Orientation of the vertex order does not matter.
type Polygon struct {
	Vertices []r2.Point
}

func NewPolygon(vertices []r2.Point) (*Polygon, error) {
	p := &Polygon{Vertices: vertices}
	if len(vertices) < 3 || p.Area() == 0 {
		return nil, fmt.Errorf("%w (got %d vertices)", ErrDegeneratePolygon, len(vertices))
	}
	return p, nil
}

// Rectangle returns the axis-aligned polygon [0,w]×[0,h].
func Rectangle(w, h float64) *Polygon {
	return &Polygon{Vertices: []r2.Point{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}}
}

// IsInside reports whether a disc of radius r centred on (x, y) lies inside
// the polygon: the centre is inside and no edge is closer than r.
func (p *Polygon) IsInside(x, y, r float64) bool {
	pt := r2.Point{X: x, Y: y}
	if !p.contains(pt) {
		return false
	}
	if r <= 0 {
		return true
	}
	r2sq := r * r
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		if segmentDist2(pt, p.Vertices[i], p.Vertices[(i+1)%n]) < r2sq {
			return false
		}
	}
	return true
}

// contains is the even-odd ray casting test.
func (p *Polygon) contains(pt r2.Point) bool {
	inside := false
	n := len(p.Vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.Vertices[i], p.Vertices[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			xCross := (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y) + a.X
			if pt.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

func segmentDist2(pt, a, b r2.Point) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		d := pt.Sub(a)
		return d.Dot(d)
	}
	t := pt.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	d := pt.Sub(a.Add(ab.Mul(t)))
	return d.Dot(d)
}

// Area is the absolute shoelace area.
func (p *Polygon) Area() float64 {
	sum := 0.0
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		sum += p.Vertices[i].Cross(p.Vertices[(i+1)%n])
	}
	return math.Abs(sum) / 2
}

func (p *Polygon) Bounds() r2.Rect {
	return r2.RectFromPoints(p.Vertices...)
}

// Scale multiplies every vertex by factor about the origin, matching
// body.Expand.
func (p *Polygon) Scale(factor float64) {
	for i := range p.Vertices {
		p.Vertices[i] = p.Vertices[i].Mul(factor)
	}
}
