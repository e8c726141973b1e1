package game

import "golang.org/x/exp/rand"

// PlayerID identifies a seat in a game. The empty PlayerID marks an
// environment step that no player chose.
type PlayerID string

const NoPlayer PlayerID = ""

// GameOver lists the winners of a finished game. Several winners means a tie.
type GameOver struct {
	Winners []PlayerID
}

// Has reports whether player is among the winners.
func (g *GameOver) Has(player PlayerID) bool {
	if g == nil {
		return false
	}
	for _, w := range g.Winners {
		if w == player {
			return true
		}
	}
	return false
}

// Outcome is the result of applying an action.
type Outcome[S, P any] struct {
	State    S
	Phase    P
	Scores   map[PlayerID]float64
	GameOver *GameOver // nil while the game goes on
}

// Plugin is the capability set a game implements to be searchable. States
// passed in are never mutated except by Determinize, which works on a clone.
type Plugin[S, P any] interface {
	// LegalActions lists the actions available to player. An empty list means
	// there is nothing to play.
	LegalActions(state S, phase P, player PlayerID) []Action
	// ActingPlayer resolves who chooses the next action. ok is false for
	// environment steps, in which case LegalActions is queried with NoPlayer.
	ActingPlayer(state S, phase P) (player PlayerID, ok bool)
	Apply(state S, phase P, action Action, players []PlayerID) Outcome[S, P]
	Clone(state S) S
	// Determinize re-randomizes the information hidden from observer, in place.
	Determinize(state S, observer PlayerID, rng *rand.Rand)
	// Evaluate scores a non-terminal position for player in [0,1].
	Evaluate(state S, phase P, player PlayerID, players []PlayerID) float64
	// ActionKey returns the canonical identity of action. Equivalent actions
	// must map to equal keys. context is empty unless context-aware AMAF is on.
	ActionKey(action Action, context string) string
	// AMAFContext returns extra disambiguating context for action keys.
	AMAFContext(state S) string
}

// EvalFunc overrides a plugin's default evaluation.
type EvalFunc[S, P any] func(state S, phase P, player PlayerID, players []PlayerID) float64
