package agent

import (
	"context"

	"ismcts/game"
	"ismcts/searcher"
)

type Agent[S, P any] interface {
	// FindMove returns the move to play and the metrics (if collected) of the search behind it
	FindMove(ctx context.Context, state S, phase P, player game.PlayerID, players []game.PlayerID) (game.Action, searcher.SearchMetric)
}

// engine is the search shared by every agent.
type engine[S, P any] struct {
	plugin game.Plugin[S, P]
	params searcher.Params
	eval   game.EvalFunc[S, P]
}

func (e engine[S, P]) run(ctx context.Context, state S, phase P, player game.PlayerID, players []game.PlayerID) searcher.Result {
	return searcher.Run(ctx, state, phase, player, e.plugin, players, e.params, e.eval)
}
