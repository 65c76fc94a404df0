package analysis

import "math"

// Summary describes one observable over a run.
type Summary struct {
	Samples int
	Mean    float64
	Std     float64
	// StdErr is the standard error of Mean corrected by the integrated
	// autocorrelation time.
	StdErr float64
	Tau    float64
}

// Summarize drops the first discard samples as equilibration and summarizes
// the rest.
func Summarize(data []float64, discard int) Summary {
	if discard >= len(data) {
		return Summary{}
	}
	data = data[max(discard, 0):]
	n := len(data)

	mean, std := meanStd(data)
	s := Summary{Samples: n, Mean: mean, Std: std, Tau: 1}
	if acf := Autocorrelation(data); acf != nil {
		s.Tau = IntegratedTime(acf)
	}
	if n > 1 {
		s.StdErr = std * math.Sqrt(s.Tau/float64(n))
	}
	return s
}

// BlockAverage splits data into blocks equal blocks, dropping the remainder,
// and returns the mean of the block means and its standard error.
func BlockAverage(data []float64, blocks int) (mean, stderr float64) {
	if blocks < 1 || len(data) < blocks {
		return 0, 0
	}
	size := len(data) / blocks

	means := make([]float64, blocks)
	for b := range means {
		sum := 0.0
		for _, v := range data[b*size : (b+1)*size] {
			sum += v
		}
		means[b] = sum / float64(size)
	}

	mean, std := meanStd(means)
	if blocks > 1 {
		stderr = std / math.Sqrt(float64(blocks))
	}
	return mean, stderr
}

// meanStd returns the mean and the sample standard deviation.
func meanStd(data []float64) (float64, float64) {
	n := float64(len(data))
	if n == 0 {
		return 0, 0
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= n

	if n < 2 {
		return mean, 0
	}
	ss := 0.0
	for _, v := range data {
		ss += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(ss / (n - 1))
}
