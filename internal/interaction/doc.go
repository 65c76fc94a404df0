// Package interaction evaluates the energy of rigid bodies.
//
// An [Evaluator] borrows a [ForceField] and a [Topology] for the duration of
// each call and never stores anything derived from a body:
//
//   - [Evaluator.PairEnergy]: O(n·m) sum over the atoms of two bodies
//   - [Evaluator.BoxEnergy]: penalty per atom too close to a rectangle edge
//   - [Evaluator.PolygonEnergy]: penalty per atom outside a [Region]
//   - [Evaluator.NeighborEnergy]: PairEnergy summed over many neighbours
//
// Atom offsets are rotated into world space once per body and call; the
// inner loop only does subtraction, a square root and the force-field call.
package interaction
