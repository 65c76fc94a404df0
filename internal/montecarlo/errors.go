package montecarlo

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBodies indicates a run with an empty body list.
	ErrNoBodies = errors.New("montecarlo: no bodies to sample")

	// ErrInvalidConfig indicates sampler parameters outside their valid range.
	ErrInvalidConfig = errors.New("montecarlo: invalid sampler configuration")

	// ErrPlacement indicates random placement could not find a free spot.
	ErrPlacement = errors.New("montecarlo: could not place body inside the box")
)

// TrialError aborts a run; it records which trial and body failed.
type TrialError struct {
	Trial   int
	Body    int
	Wrapped error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("trial %d (body %d): %v", e.Trial, e.Body, e.Wrapped)
}

func (e *TrialError) Unwrap() error {
	return e.Wrapped
}
