package agent

import (
	"context"

	"ismcts/game"
	"ismcts/searcher"
)

type evaluationAgent[S, P any] struct {
	engine[S, P]
}

// NewEvaluationAgent returns a new agent for actual game play during evaluation.
// It always plays the most visited action. eval may be nil.
func NewEvaluationAgent[S, P any](plugin game.Plugin[S, P], params searcher.Params, eval game.EvalFunc[S, P]) Agent[S, P] {
	return evaluationAgent[S, P]{engine[S, P]{plugin: plugin, params: params, eval: eval}}
}

func (a evaluationAgent[S, P]) FindMove(ctx context.Context, state S, phase P, player game.PlayerID, players []game.PlayerID) (game.Action, searcher.SearchMetric) {
	result := a.run(ctx, state, phase, player, players)
	return result.Action, result.Metric
}
