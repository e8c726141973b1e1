package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"ismcts/game"
	"ismcts/game/risk"
	"ismcts/searcher"
	"ismcts/searcher/agent"
)

// line is a toy game: seats alternate, every third ply is a coin flip played
// by nobody, and the game ends after length plies with the first seat
// winning.
type line struct {
	length int
}

type lineState []string

func (l line) LegalActions(s lineState, _ int, player game.PlayerID) []game.Action {
	if len(s) >= l.length {
		return nil
	}
	if actor, _ := l.ActingPlayer(s, 0); actor != player {
		return nil
	}
	return []game.Action{{Kind: "a"}, {Kind: "b"}}
}

func (l line) ActingPlayer(s lineState, _ int) (game.PlayerID, bool) {
	if len(s)%3 == 2 {
		return game.NoPlayer, false
	}
	if len(s)%3 == 0 {
		return "p1", true
	}
	return "p2", true
}

func (l line) Apply(s lineState, phase int, action game.Action, _ []game.PlayerID) game.Outcome[lineState, int] {
	next := append(append(lineState(nil), s...), action.Kind)
	outcome := game.Outcome[lineState, int]{State: next, Phase: phase + 1}
	if len(next) >= l.length {
		outcome.GameOver = &game.GameOver{Winners: []game.PlayerID{"p1"}}
	}
	return outcome
}

func (l line) Clone(s lineState) lineState { return append(lineState(nil), s...) }
func (l line) Determinize(lineState, game.PlayerID, *rand.Rand) {}
func (l line) Evaluate(lineState, int, game.PlayerID, []game.PlayerID) float64 { return 0.5 }
func (l line) ActionKey(action game.Action, context string) string { return game.DefaultKey(action, context) }
func (l line) AMAFContext(lineState) string { return "" }

type fixedAgent struct {
	kind  string
	calls int
}

func (a *fixedAgent) FindMove(context.Context, lineState, int, game.PlayerID, []game.PlayerID) (game.Action, searcher.SearchMetric) {
	a.calls++
	return game.Action{Kind: a.kind}, searcher.SearchMetric{Iterations: 7}
}

var twoPlayers = []game.PlayerID{"p1", "p2"}

func TestLocalEngine(t *testing.T) {
	t.Run("rejects mismatched agents", func(t *testing.T) {
		_, err := LocalEngine[lineState, int](line{4}, nil, 0, twoPlayers, []agent.Agent[lineState, int]{&fixedAgent{}})
		require.Error(t, err, "Should need one agent per player")
	})

	t.Run("rejects a single player", func(t *testing.T) {
		_, err := LocalEngine[lineState, int](line{4}, nil, 0, twoPlayers[:1], []agent.Agent[lineState, int]{&fixedAgent{}})
		require.Error(t, err, "Should need two players")
	})
}

func TestRun(t *testing.T) {
	t.Run("plays to the end", func(t *testing.T) {
		p1, p2 := &fixedAgent{kind: "b"}, &fixedAgent{kind: "a"}
		e, err := LocalEngine[lineState, int](line{6}, nil, 0, twoPlayers, []agent.Agent[lineState, int]{p1, p2})
		require.NoError(t, err, "Should create the engine")

		gameMetric, moves, err := e.Run(context.Background())
		require.NoError(t, err, "Should finish the game")

		state, phase := e.State()
		require.Equal(t, lineState{"b", "a", "a", "b", "a", "a"}, state, "Should play agent moves and first actions for nobody")
		require.Equal(t, 6, phase, "Should advance the phase every ply")
		require.Equal(t, []game.PlayerID{"p1"}, gameMetric.Winners, "Should report the winners")
		require.Equal(t, game.PlayerID("p1"), gameMetric.StartingPlayer, "Should record the starting player")
		require.Equal(t, 6, gameMetric.TotalMoves, "Should count every ply")
		require.Len(t, moves, 4, "Should only record agent moves")
		require.Equal(t, 2, p1.calls, "Should ask the first agent on its turns")
		require.Equal(t, MoveMetric{Step: 2, Player: "p2", Action: "a", SearchMetric: searcher.SearchMetric{Iterations: 7}}, moves[1], "Should record the move metric")
	})

	t.Run("replaces invalid actions", func(t *testing.T) {
		e, err := LocalEngine[lineState, int](line{2}, nil, 0, twoPlayers,
			[]agent.Agent[lineState, int]{&fixedAgent{kind: "bogus"}, &fixedAgent{kind: "b"}})
		require.NoError(t, err, "Should create the engine")

		_, moves, err := e.Run(context.Background())
		require.NoError(t, err, "Should finish the game")

		state, _ := e.State()
		require.Equal(t, lineState{"a", "b"}, state, "Should play the first legal action instead")
		require.Equal(t, "a", moves[0].Action, "Should record the action actually played")
	})

	t.Run("stops at the move limit", func(t *testing.T) {
		e, err := LocalEngine[lineState, int](line{100}, nil, 0, twoPlayers,
			[]agent.Agent[lineState, int]{&fixedAgent{kind: "a"}, &fixedAgent{kind: "a"}}, WithMaxMoves(5))
		require.NoError(t, err, "Should create the engine")

		gameMetric, _, err := e.Run(context.Background())
		require.NoError(t, err, "Should stop quietly")
		require.Equal(t, 5, gameMetric.TotalMoves, "Should stop at the limit")
		require.Empty(t, gameMetric.Winners, "Should have no winner")
	})

	t.Run("stops when cancelled", func(t *testing.T) {
		e, err := LocalEngine[lineState, int](line{4}, nil, 0, twoPlayers,
			[]agent.Agent[lineState, int]{&fixedAgent{kind: "a"}, &fixedAgent{kind: "a"}})
		require.NoError(t, err, "Should create the engine")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err = e.Run(ctx)
		require.ErrorIs(t, err, context.Canceled, "Should report the cancellation")
	})

	t.Run("risk with searching agents", func(t *testing.T) {
		players := []game.PlayerID{"Player1", "Player2"}
		s, phase := risk.NewGame(players, 21)
		params := searcher.NewParams(searcher.WithSimulations(40), searcher.WithDeterminizations(2), searcher.WithSeed(9))
		agents := []agent.Agent[*risk.State, risk.Phase]{
			agent.NewEvaluationAgent[*risk.State, risk.Phase](risk.Plugin{}, params, nil),
			agent.NewTrainingAgent[*risk.State, risk.Phase](risk.Plugin{}, params, risk.EvaluateBorderStrength, 1, 2),
		}
		e, err := LocalEngine[*risk.State, risk.Phase](risk.Plugin{}, s, phase, players, agents, WithMaxMoves(30))
		require.NoError(t, err, "Should create the engine")

		gameMetric, moves, err := e.Run(context.Background())
		require.NoError(t, err, "Should play")
		require.LessOrEqual(t, gameMetric.TotalMoves, 30, "Should respect the limit")
		require.NotEmpty(t, moves, "Should record agent moves")
		for _, m := range moves {
			require.Contains(t, players, m.Player, "Only seated players search")
		}
	})
}
