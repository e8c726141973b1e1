package agent

import (
	"context"
	"math"
	"sort"
	"sync"

	"golang.org/x/exp/rand"

	"ismcts/game"
	"ismcts/searcher"
)

type trainingAgent[S, P any] struct {
	engine[S, P]
	temperature float64
	mu          *sync.Mutex
	rng         *rand.Rand
}

// NewTrainingAgent returns a new agent for self-play during training. It
// samples moves in proportion to visits^(1/temperature); a temperature of 0
// plays like the evaluation agent.
func NewTrainingAgent[S, P any](plugin game.Plugin[S, P], params searcher.Params, eval game.EvalFunc[S, P],
	temperature float64, seed uint64) Agent[S, P] {
	return trainingAgent[S, P]{
		engine:      engine[S, P]{plugin: plugin, params: params, eval: eval},
		temperature: temperature,
		mu:          &sync.Mutex{},
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a trainingAgent[S, P]) FindMove(ctx context.Context, state S, phase P, player game.PlayerID, players []game.PlayerID) (game.Action, searcher.SearchMetric) {
	result := a.run(ctx, state, phase, player, players)
	if a.temperature <= 0 || len(result.Policy) == 0 {
		return result.Action, result.Metric
	}
	keys, probs := adjustTemperature(result.Policy, a.temperature)
	if len(keys) == 0 {
		return result.Action, result.Metric
	}
	a.mu.Lock()
	sampled := a.rng.Float64()
	a.mu.Unlock()
	return result.Policy[sample(keys, probs, sampled)].Action, result.Metric
}

// adjustTemperature turns visit counts into move probabilities, ordered by
// key so sampling is reproducible. Unvisited moves are left out.
func adjustTemperature(policy map[string]searcher.Stats, temperature float64) ([]string, []float64) {
	keys := make([]string, 0, len(policy))
	for key, s := range policy {
		if s.Visits > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	exponent := 1.0 / temperature
	sum := 0.0
	probs := make([]float64, len(keys))
	for i, key := range keys {
		probs[i] = math.Pow(float64(policy[key].Visits), exponent)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return keys, probs
}

func sample(keys []string, probs []float64, sampled float64) string {
	cumulative := 0.0
	for i, prob := range probs {
		cumulative += prob
		if sampled < cumulative {
			return keys[i]
		}
	}
	return keys[len(keys)-1] // rounding
}
