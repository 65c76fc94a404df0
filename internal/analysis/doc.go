// Package analysis provides statistics for Monte-Carlo time series.
//
// Successive sweeps of a Metropolis chain are correlated, so the naive
// standard error of an average is too small. The package offers two ways to
// account for that:
//
//   - [Autocorrelation] and [IntegratedTime]: the normalized autocorrelation
//     function, computed by FFT, and the integrated autocorrelation time
//   - [BlockAverage]: the mean and its standard error from block means
//
// [Summarize] combines both for an energy trace:
//
//	s := analysis.Summarize(energies, discard)
//	fmt.Printf("E = %.4f ± %.4f (tau %.1f)\n", s.Mean, s.StdErr, s.Tau)
package analysis
