// Package viz draws a running sampler in the terminal with Bubble Tea.
//
// A [Feed] is registered as an observer on the sampler and forwards the
// configuration after each sweep to a [Model], which draws the box and every
// atom on a braille [Canvas] next to the energy trace.
//
// # Key Bindings
//
//	Q, Esc - Stop the run and quit
//	?      - Show help overlay
package viz
