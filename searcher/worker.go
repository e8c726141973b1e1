package searcher

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"ismcts/game"
)

// played is one action of a simulated line, kept for AMAF credit.
type played struct {
	key    string
	player game.PlayerID
}

// worker grows one tree over one determinized state. It is not safe for
// concurrent use.
type worker[S, P any] struct {
	plugin  game.Plugin[S, P]
	params  Params
	player  game.PlayerID
	players []game.PlayerID
	eval    game.EvalFunc[S, P]
	rng     *rand.Rand
	metrics Collector
	logger  zerolog.Logger

	state S
	phase P
	arena *SearchArena
	trail []played
}

func newWorker[S, P any](plugin game.Plugin[S, P], state S, phase P, player game.PlayerID, players []game.PlayerID,
	params Params, eval game.EvalFunc[S, P], seed uint64, metrics Collector, logger zerolog.Logger) *worker[S, P] {
	w := &worker[S, P]{
		plugin:  plugin,
		params:  params,
		player:  player,
		players: players,
		eval:    eval,
		rng:     rand.New(rand.NewSource(seed)),
		metrics: metrics,
		logger:  logger,
		phase:   phase,
		arena:   newArena(),
	}
	if w.eval == nil {
		w.eval = plugin.Evaluate
	}
	w.state = plugin.Clone(state)
	plugin.Determinize(w.state, player, w.rng)
	return w
}

// run iterates until budget is spent or ctx is done. A panicking plugin ends
// the run early; the iterations completed so far are kept.
func (w *worker[S, P]) run(ctx context.Context, budget int) (iterations int) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().Str("panic", fmt.Sprint(r)).Int("iterations", iterations).Msg("determinization aborted")
		}
	}()
	for iterations < budget && ctx.Err() == nil {
		w.iterate()
		iterations++
		w.metrics.AddIteration()
	}
	return iterations
}

// iterate runs one select, expand, evaluate and backup pass.
func (w *worker[S, P]) iterate() {
	w.trail = w.trail[:0]
	state, phase := w.state, w.phase
	node := root
	var over *game.GameOver
	terminal := false

	for {
		n := w.arena.Node(node)
		if len(n.Children) == 0 || w.params.canGrow(n) {
			break
		}
		node = w.params.selectChild(w.arena, node)
		child := w.arena.Node(node)
		outcome := w.plugin.Apply(state, phase, *child.Action, w.players)
		state, phase = outcome.State, outcome.Phase
		w.trail = append(w.trail, played{key: child.AMAFKey, player: child.Player})
		if outcome.GameOver != nil {
			over, terminal = outcome.GameOver, true
			break
		}
	}

	if !terminal {
		actor, _ := w.plugin.ActingPlayer(state, phase)
		n := w.arena.Node(node)
		populate(n, w.plugin.LegalActions(state, phase, actor))
		switch {
		case w.params.canGrow(n):
			action := pop(n)
			key := w.key(action, state)
			node = w.arena.add(node, action, actor, key)
			outcome := w.plugin.Apply(state, phase, action, w.players)
			state, phase = outcome.State, outcome.Phase
			w.trail = append(w.trail, played{key: key, player: actor})
			if outcome.GameOver != nil {
				over, terminal = outcome.GameOver, true
			}
		case len(n.Children) == 0:
			terminal = true
		}
	}

	if !terminal && w.params.RolloutDepth > 0 {
		state, phase, over, terminal = w.rollout(state, phase)
	}

	var value float64
	if terminal {
		value = terminalValue(over, w.player)
		w.metrics.AddTerminal()
	} else {
		value = clamp(w.eval(state, phase, w.player, w.players))
	}
	w.backup(node, value)
}

// key is the AMAF key of action played from state. Without RAVE no key is needed.
func (w *worker[S, P]) key(action game.Action, state S) string {
	if !w.params.RAVE {
		return ""
	}
	extra := ""
	if w.params.ContextAMAF {
		extra = w.plugin.AMAFContext(state)
	}
	return w.plugin.ActionKey(action, extra)
}

// rollout plays uniformly random actions for up to RolloutDepth steps.
func (w *worker[S, P]) rollout(state S, phase P) (S, P, *game.GameOver, bool) {
	w.metrics.AddRollout()
	for i := 0; i < w.params.RolloutDepth; i++ {
		actor, _ := w.plugin.ActingPlayer(state, phase)
		actions := w.plugin.LegalActions(state, phase, actor)
		if len(actions) == 0 {
			return state, phase, nil, true
		}
		action := actions[w.rng.Intn(len(actions))]
		key := w.key(action, state)
		outcome := w.plugin.Apply(state, phase, action, w.players)
		state, phase = outcome.State, outcome.Phase
		w.trail = append(w.trail, played{key: key, player: actor})
		if outcome.GameOver != nil {
			return state, phase, outcome.GameOver, true
		}
	}
	return state, phase, nil, false
}

// rootStats collects the root children's statistics under plain canonical keys.
func (w *worker[S, P]) rootStats() map[string]Stats {
	stats := make(map[string]Stats)
	for _, c := range w.arena.Node(root).Children {
		child := w.arena.Node(c)
		key := w.plugin.ActionKey(*child.Action, "")
		s, ok := stats[key]
		if !ok {
			s.Action = *child.Action
		}
		s.Visits += child.Visits
		s.Value += child.Value
		stats[key] = s
	}
	return stats
}
