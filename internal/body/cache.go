package body

// CacheState tags the cached energy of a body.
type CacheState uint8

const (
	// Stale means the cached value must not be read.
	Stale CacheState = iota
	// Valid means the cached value matches the current pose.
	Valid
)

func (s CacheState) String() string {
	switch s {
	case Stale:
		return "stale"
	case Valid:
		return "valid"
	default:
		return "unknown"
	}
}

type energyCache struct {
	state CacheState
	value float64
}

func (c *energyCache) invalidate() {
	c.state = Stale
}

func (c *energyCache) set(v float64) float64 {
	c.value = v
	c.state = Valid
	return c.value
}

func (c *energyCache) get() (float64, bool) {
	if c.state != Valid {
		return 0, false
	}
	return c.value, true
}
