// Package body models a single rigid 2-D body taking part in a Monte-Carlo
// simulation.
//
// A [Body] carries a type handle into a topology table, a position in the
// simulation box, an orientation in radians and a cached interaction energy:
//
//   - [Body.Move], [Body.Rotate]: pose mutations that mark the cache stale
//   - [Body.SetEnergy], [Body.Energy]: populate and read the cache
//   - [Body.Distance]: centre distance with optional periodic images
//   - [Body.WriteTo], [Body.WriteFile]: the one-line text format
//
// # Energy cache
//
// The cache is either [Stale] or [Valid]. Every pose mutation makes it stale and
// only [Body.SetEnergy] makes it valid again. Reading a stale cache with
// [Body.Energy] panics: the caller skipped a recomputation.
//
//	b := body.New(0, 1.0, 2.0, 0.0)
//	b.Move(0.1, 0.0)
//	b.SetEnergy(e) // e computed by the interaction package
//	_ = b.Energy()
//
// # Thread Safety
//
// Bodies are NOT safe for concurrent mutation. Concurrent reads of an
// unchanging body are fine.
package body
