// Package scan searches source parameter grids for the settings that
// maximize an observed spectral quantity.
package scan

import (
	"context"
	"math"
)

// Objective evaluates one parameter assignment and returns the value
// to maximize.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Range builds n evenly spaced values spanning [lo, hi].
func Range(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// Search evaluates every point of the grid and returns the best
// parameters with their objective value. Failed evaluations are
// skipped; cancellation stops the walk early.
func (g *GridSearch) Search(ctx context.Context, eval Objective) (map[string]float64, float64, error) {
	best := math.Inf(-1)
	var bestParams map[string]float64

	if err := g.searchRecursive(ctx, 0, make(map[string]float64), eval, &best, &bestParams); err != nil {
		return nil, 0, err
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval Objective,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		val, err := eval(ctx, current)
		if err != nil {
			return nil
		}
		if val > *best {
			*best = val
			copied := make(map[string]float64, len(current))
			for k, v := range current {
				copied[k] = v
			}
			*bestParams = copied
		}
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		if err := g.searchRecursive(ctx, depth+1, current, eval, best, bestParams); err != nil {
			return err
		}
	}
	delete(current, name)
	return nil
}
