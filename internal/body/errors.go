package body

import "errors"

var (
	// ErrStaleEnergy is the panic value of Energy on a stale cache.
	ErrStaleEnergy = errors.New("body: energy read while stale (recompute and SetEnergy first)")

	// ErrNonFiniteAngle is the panic value of Rotate given NaN or Inf.
	ErrNonFiniteAngle = errors.New("body: rotation angle is not finite")

	// ErrMalformedLine indicates a configuration line that does not hold four fields.
	ErrMalformedLine = errors.New("body: malformed configuration line")
)
