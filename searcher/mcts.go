package searcher

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"ismcts/game"
)

// Stats are the merged root statistics of one action.
type Stats struct {
	Action game.Action
	Visits int
	Value  float64
}

type Result struct {
	Action     game.Action
	Iterations int
	Policy     map[string]Stats // by canonical action key
	Metric     SearchMetric
}

// Search returns the most visited action over all determinizations and the
// number of iterations actually run. eval may be nil.
func Search[S, P any](ctx context.Context, state S, phase P, player game.PlayerID, plugin game.Plugin[S, P],
	players []game.PlayerID, params Params, eval game.EvalFunc[S, P]) (game.Action, int) {
	result := Run(ctx, state, phase, player, plugin, players, params, eval)
	return result.Action, result.Iterations
}

// Run is Search with the merged policy and metrics. It never fails: when no
// statistics are gathered it falls back to the first legal action, and when
// there is no legal action it returns the zero Action.
func Run[S, P any](ctx context.Context, state S, phase P, player game.PlayerID, plugin game.Plugin[S, P],
	players []game.PlayerID, params Params, eval game.EvalFunc[S, P]) Result {
	id := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().Str("search", id).Str("player", string(player)).Logger()

	legal := plugin.LegalActions(state, phase, player)
	switch len(legal) {
	case 0:
		logger.Warn().Msg("no legal actions")
		return Result{}
	case 1:
		return Result{Action: legal[0], Policy: map[string]Stats{}}
	}

	if err := params.Validate(); err != nil {
		logger.Warn().Err(err).Msg("invalid search params, using defaults")
		params = DefaultParams()
	}
	metrics := NewDummyCollector()
	if params.Metrics {
		metrics = NewCollector()
	}
	metrics.Start(id, params.Determinizations)

	if params.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, time.Now().Add(params.TimeLimit))
		defer cancel()
	}

	budgets := splitBudget(params.Simulations, params.Determinizations)
	results := make([]map[string]Stats, params.Determinizations)
	iterations := make([]int, params.Determinizations)
	seed := params.Seed
	if seed == 0 {
		seed = frand.Uint64n(math.MaxUint64)
	}

	var g errgroup.Group
	g.SetLimit(params.workers())
	for i := range budgets {
		if ctx.Err() != nil {
			metrics.AddExpired()
			continue
		}
		i := i
		g.Go(func() error {
			if ctx.Err() != nil {
				metrics.AddExpired()
				return nil
			}
			defer func() {
				if r := recover(); r != nil {
					logger.Error().Str("panic", fmt.Sprint(r)).Int("determinization", i).Msg("determinization failed")
				}
			}()
			w := newWorker(plugin, state, phase, player, players, params, eval, seed+uint64(i), metrics,
				logger.With().Int("determinization", i).Logger())
			iterations[i] = w.run(ctx, budgets[i])
			results[i] = w.rootStats()
			logger.Debug().Int("determinization", i).Int("iterations", iterations[i]).Int("nodes", w.arena.Len()).Msg("determinization done")
			return nil
		})
	}
	_ = g.Wait()

	result := Result{Policy: merge(results)}
	for _, n := range iterations {
		result.Iterations += n
	}
	best, ok := robustChild(result.Policy)
	if !ok {
		logger.Warn().Int("iterations", result.Iterations).Msg("no search statistics, playing first legal action")
		best = legal[0]
	}
	result.Action = best
	result.Metric = metrics.Complete(iterations)
	logger.Debug().Int("iterations", result.Iterations).Str("action", game.Encode(best)).Msg("search done")
	return result
}

// splitBudget shares simulations between n workers, the first ones taking
// the remainder. Zero simulations means no iteration cap.
func splitBudget(simulations, n int) []int {
	budgets := make([]int, n)
	for i := range budgets {
		if simulations == 0 {
			budgets[i] = math.MaxInt
			continue
		}
		budgets[i] = simulations / n
		if i < simulations%n {
			budgets[i]++
		}
	}
	return budgets
}

// merge sums per-determinization statistics by key. The first payload seen
// for a key is kept.
func merge(results []map[string]Stats) map[string]Stats {
	merged := make(map[string]Stats)
	for _, result := range results {
		for key, s := range result {
			m, ok := merged[key]
			if !ok {
				m.Action = s.Action
			}
			m.Visits += s.Visits
			m.Value += s.Value
			merged[key] = m
		}
	}
	return merged
}

// robustChild picks the most visited action, breaking ties by value sum and
// then by key.
func robustChild(policy map[string]Stats) (game.Action, bool) {
	keys := make([]string, 0, len(policy))
	for key := range policy {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	bestKey := ""
	found := false
	for _, key := range keys {
		s := policy[key]
		if s.Visits == 0 {
			continue
		}
		if !found || s.Visits > policy[bestKey].Visits ||
			(s.Visits == policy[bestKey].Visits && s.Value > policy[bestKey].Value) {
			bestKey, found = key, true
		}
	}
	if !found {
		return game.Action{}, false
	}
	return policy[bestKey].Action, true
}
