package metrics

import "github.com/san-kum/rigidmc/internal/montecarlo"

// AcceptanceRatio reports the cumulative fraction of accepted trials.
type AcceptanceRatio struct {
	name     string
	accepted int
	rejected int
}

func NewAcceptanceRatio() *AcceptanceRatio {
	return &AcceptanceRatio{
		name: "acceptance_ratio",
	}
}

func (a *AcceptanceRatio) Name() string {
	return a.name
}

func (a *AcceptanceRatio) Observe(s montecarlo.Sample) {
	a.accepted = s.Accepted
	a.rejected = s.Rejected
}

func (a *AcceptanceRatio) Value() float64 {
	n := a.accepted + a.rejected
	if n == 0 {
		return 0
	}
	return float64(a.accepted) / float64(n)
}

func (a *AcceptanceRatio) Reset() {
	a.accepted = 0
	a.rejected = 0
}
