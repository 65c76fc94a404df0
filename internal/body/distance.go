package body

import "math"

// Distance returns the centre-to-centre distance from b to other.
//
// With periodic set, each axis takes the smallest squared displacement among
// d, d+size and d-size before the two are combined. That is only the true
// minimum image while width and height exceed twice the interaction range.
func (b *Body) Distance(other *Body, width, height float64, periodic bool) float64 {
	dx := b.pos.X - other.pos.X
	dy := b.pos.Y - other.pos.Y

	dx2, dy2 := dx*dx, dy*dy
	if periodic {
		dx2 = nearestImage2(dx, width)
		dy2 = nearestImage2(dy, height)
	}
	return math.Sqrt(dx2 + dy2)
}

func nearestImage2(d, size float64) float64 {
	best := d * d
	if v := (d + size) * (d + size); v < best {
		best = v
	}
	if v := (d - size) * (d - size); v < best {
		best = v
	}
	return best
}
