// Package montecarlo drives Metropolis sampling of rigid bodies.
//
// A [Sampler] owns nothing but its collaborators: an interaction evaluator,
// a boundary, a logger and the attached metrics. Each trial follows the
// energy-cache protocol of package body:
//
//  1. refresh the chosen body's cached energy if it is stale
//  2. translate or rotate it and confine it to the box
//  3. evaluate its new energy against every other body and the boundary
//  4. accept (SetEnergy, invalidate everyone else) or reject (restore, SetEnergy)
//
// With a positive pressure one volume move is attempted per sweep; it scales
// the box and every position, which leaves all caches stale until they are
// recomputed.
//
// # Example
//
//	ev := interaction.New(ff, top)
//	s := montecarlo.New(ev, bd, logger)
//	s.AddMetric(metrics.NewAcceptanceRatio())
//	result, err := s.Run(ctx, bodies, montecarlo.DefaultConfig())
//
// # Thread Safety
//
// Sampler instances are NOT thread-safe. Config.Workers only parallelizes
// the read-only neighbour sums inside a trial.
package montecarlo
