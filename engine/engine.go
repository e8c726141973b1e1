package engine

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"ismcts/game"
	"ismcts/searcher"
	"ismcts/searcher/agent"
)

const MaxMoves = 10000

type GameMetric struct {
	StartingPlayer game.PlayerID
	Winners        []game.PlayerID // empty when the game was cut off
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type MoveMetric struct {
	Step   int
	Player game.PlayerID
	Action string
	searcher.SearchMetric
}

// Engine plays one game between agents, one per player. Steps nobody acts on
// are played with their first legal action.
type Engine[S, P any] struct {
	plugin   game.Plugin[S, P]
	players  []game.PlayerID
	agents   map[game.PlayerID]agent.Agent[S, P]
	state    S
	phase    P
	maxMoves int
}

type Option func(maxMoves *int)

func WithMaxMoves(n int) Option {
	return func(maxMoves *int) {
		*maxMoves = n
	}
}

func LocalEngine[S, P any](plugin game.Plugin[S, P], state S, phase P, players []game.PlayerID,
	agents []agent.Agent[S, P], options ...Option) (*Engine[S, P], error) {
	if len(players) != len(agents) {
		return nil, errors.Errorf("got %d agents for %d players", len(agents), len(players))
	}
	if len(players) < 2 {
		return nil, errors.New("need at least two players")
	}
	e := &Engine[S, P]{
		plugin:   plugin,
		players:  append([]game.PlayerID(nil), players...),
		agents:   make(map[game.PlayerID]agent.Agent[S, P], len(players)),
		state:    state,
		phase:    phase,
		maxMoves: MaxMoves,
	}
	for i, player := range players {
		e.agents[player] = agents[i]
	}
	for _, option := range options {
		option(&e.maxMoves)
	}
	return e, nil
}

func (e *Engine[S, P]) State() (S, P) {
	return e.state, e.phase
}

// Run plays until the game is over, nobody can move or the move limit is
// reached.
func (e *Engine[S, P]) Run(ctx context.Context) (GameMetric, []MoveMetric, error) {
	starting, _ := e.plugin.ActingPlayer(e.state, e.phase)
	gameMetric := GameMetric{StartingPlayer: starting, StartTime: time.Now()}
	var moveMetrics []MoveMetric

	log.Info().Msgf("player %s is starting", starting)

	for gameMetric.TotalMoves < e.maxMoves {
		if err := ctx.Err(); err != nil {
			return gameMetric, moveMetrics, errors.Wrap(err, "game interrupted")
		}

		player, ok := e.plugin.ActingPlayer(e.state, e.phase)
		legal := e.plugin.LegalActions(e.state, e.phase, player)
		if len(legal) == 0 {
			log.Info().Msgf("player %s has no legal actions", player)
			break
		}

		action := legal[0]
		if ok {
			a, found := e.agents[player]
			if !found {
				return gameMetric, moveMetrics, errors.Errorf("no agent for player %s", player)
			}
			candidate, metric := a.FindMove(ctx, e.state, e.phase, player, e.players)
			action = e.validate(legal, candidate)
			moveMetrics = append(moveMetrics, MoveMetric{
				Step:         gameMetric.TotalMoves + 1,
				Player:       player,
				Action:       game.Encode(action),
				SearchMetric: metric,
			})
		}

		outcome := e.plugin.Apply(e.state, e.phase, action, e.players)
		e.state, e.phase = outcome.State, outcome.Phase
		gameMetric.TotalMoves++

		if outcome.GameOver != nil {
			gameMetric.Winners = outcome.GameOver.Winners
			break
		}
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	if len(gameMetric.Winners) > 0 {
		log.Info().Msgf("game ended after %d moves with winners %v", gameMetric.TotalMoves, gameMetric.Winners)
	} else {
		log.Info().Msgf("stopped after %d moves (no winner yet)", gameMetric.TotalMoves)
	}
	return gameMetric, moveMetrics, nil
}

// validate returns the legal action matching candidate by key, or the first
// legal action.
func (e *Engine[S, P]) validate(legal []game.Action, candidate game.Action) game.Action {
	key := e.plugin.ActionKey(candidate, "")
	for _, a := range legal {
		if e.plugin.ActionKey(a, "") == key {
			return a
		}
	}
	log.Warn().Msgf("agent returned an invalid action %s, playing %s", game.Encode(candidate), game.Encode(legal[0]))
	return legal[0]
}
