package body

// MoveStats holds the per-body Monte-Carlo bookkeeping used by a driver to
// tune step sizes. Nothing in this package changes it except copying.
type MoveStats struct {
	Accepted     int
	Rejected     int
	Rotations    int
	Translations int
	MaxStep      float64
}

// Trials is the number of accepted plus rejected moves.
func (s MoveStats) Trials() int { return s.Accepted + s.Rejected }

// AcceptanceRatio returns Accepted/Trials, or 0 before the first trial.
func (s MoveStats) AcceptanceRatio() float64 {
	n := s.Trials()
	if n == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(n)
}
