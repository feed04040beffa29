package optim

import (
	"context"
	"errors"
	"math"
)

// ErrNoResult reports that no parameter combination evaluated cleanly.
var ErrNoResult = errors.New("gosph: no parameter combination evaluated successfully")

// EvalFunc scores one parameter combination. Lower is better.
// Combinations that fail to evaluate are skipped, not fatal; a sweep
// should survive the odd diverging corner of the grid.
type EvalFunc func(ctx context.Context, params map[string]float64) (float64, error)

// GridSearch exhaustively evaluates the cartesian product of the
// per-parameter value lists and keeps the combination with the lowest
// score.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

func (g *GridSearch) Search(ctx context.Context, eval EvalFunc) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	if err := g.searchRecursive(ctx, 0, make(map[string]float64), eval, &best, &bestParams); err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoResult
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval EvalFunc,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		val, err := eval(ctx, current)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return nil
		}
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

		if err := g.searchRecursive(ctx, depth+1, newParams, eval, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}
