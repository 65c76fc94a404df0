// Package optim tunes sampler parameters by exhaustive search.
package optim

import (
	"context"
	"math"

	"github.com/san-kum/rigidmc/internal/montecarlo"
)

// RunFunc performs one run with the given parameter values.
type RunFunc func(ctx context.Context, params map[string]float64) (*montecarlo.Result, error)

// Objective scores a finished run; lower is better.
type Objective func(*montecarlo.Result) float64

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs every combination of parameter values and returns the best one
// with its score. Runs that fail are skipped; cancellation stops the search.
func (g *GridSearch) Search(ctx context.Context, run RunFunc, objective Objective) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), run, objective, &best, &bestParams)
	return bestParams, best, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	run RunFunc,
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		result, err := run(ctx, current)
		if err != nil {
			return nil
		}

		val := objective(result)
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, run, objective, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// AcceptanceDistance scores a run by how far its acceptance ratio is from
// target.
func AcceptanceDistance(target float64) Objective {
	return func(r *montecarlo.Result) float64 {
		return math.Abs(r.AcceptanceRatio() - target)
	}
}

// FinalEnergy scores a run by its last system energy.
func FinalEnergy(r *montecarlo.Result) float64 {
	return r.FinalEnergy()
}
