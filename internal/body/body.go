package body

import (
	"math"

	"github.com/golang/geo/r2"
)

const (
	// TwoPi is one full turn in radians.
	TwoPi = 2 * math.Pi

	// InvalidType marks a body built by Empty that has no topology entry.
	InvalidType = -1

	// Past this magnitude Rotate reduces with math.Mod before wrapping, since
	// adding 2π no longer changes the value once its ulp exceeds 2π.
	maxWrapAngle = 1 << 20
)

type Body struct {
	Type  int
	Stats MoveStats

	pos         r2.Point
	orientation float64
	cache       energyCache
}

// New returns a body of the given type at (x, y) with orientation angle,
// normalized into [0, 2π). The energy cache starts stale.
func New(typ int, x, y, angle float64) *Body {
	return &Body{
		Type:        typ,
		pos:         r2.Point{X: x, Y: y},
		orientation: normalizeAngle(angle),
	}
}

// Empty returns an uninitialized body. It must get a real type before any
// energy evaluation.
func Empty() *Body {
	return New(InvalidType, 0, 0, 0)
}

// Clone returns a copy of b. Pose, type and move statistics are copied; the
// energy cache of the copy is always stale because the copy cannot assume the
// source's neighbourhood.
func (b *Body) Clone() *Body {
	c := &Body{}
	c.Assign(b)
	return c
}

// Assign overwrites b with orig under the same contract as Clone.
func (b *Body) Assign(orig *Body) {
	b.Type = orig.Type
	b.pos = orig.pos
	b.orientation = orig.orientation
	b.Stats = orig.Stats
	b.cache = energyCache{}
}

func (b *Body) Pos() r2.Point        { return b.pos }
func (b *Body) X() float64           { return b.pos.X }
func (b *Body) Y() float64           { return b.pos.Y }
func (b *Body) Orientation() float64 { return b.orientation }
func (b *Body) IsValidType() bool    { return b.Type != InvalidType }

// Move translates the body by (dx, dy). Boundary handling is the caller's job.
func (b *Body) Move(dx, dy float64) {
	b.pos.X += dx
	b.pos.Y += dy
	b.cache.invalidate()
}

// Rotate adds angle to the orientation and wraps it back into [0, 2π).
// Non-finite angles panic.
func (b *Body) Rotate(angle float64) {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		panic(ErrNonFiniteAngle)
	}
	b.orientation = normalizeAngle(b.orientation + angle)
	b.cache.invalidate()
}

// Expand scales the position by factor, as when the whole box is rescaled.
// The cache is left alone; callers that need a fresh energy call Invalidate.
func (b *Body) Expand(factor float64) {
	b.pos = b.pos.Mul(factor)
}

// SetEnergy caches v, marks the cache valid and returns v.
func (b *Body) SetEnergy(v float64) float64 {
	return b.cache.set(v)
}

// Energy returns the cached energy. It panics with ErrStaleEnergy if the pose
// changed since the last SetEnergy.
func (b *Body) Energy() float64 {
	v, ok := b.cache.get()
	if !ok {
		panic(ErrStaleEnergy)
	}
	return v
}

// CachedEnergy is the non-panicking form of Energy.
func (b *Body) CachedEnergy() (float64, error) {
	v, ok := b.cache.get()
	if !ok {
		return 0, ErrStaleEnergy
	}
	return v, nil
}

func (b *Body) Invalidate()            { b.cache.invalidate() }
func (b *Body) CacheState() CacheState { return b.cache.state }

func normalizeAngle(a float64) float64 {
	if math.Abs(a) > maxWrapAngle {
		a = math.Mod(a, TwoPi)
	}
	for a < 0 {
		a += TwoPi
	}
	for a >= TwoPi {
		a -= TwoPi
	}
	return a
}
