package experiments

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"

	"ismcts/engine"
	"ismcts/game"
	"ismcts/game/risk"
	"ismcts/searcher"
	"ismcts/searcher/agent"
)

const (
	NumGames   = 30 // Per match up
	TimeBudget = 10 * time.Millisecond
	MaxMoves   = 2000
)

type AgentConfig struct {
	ID          int
	Params      searcher.Params
	Temperature float64 // 0 = evaluation agent
}

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID of the first seat
	Agent2 int // AgentConfig.ID of the second seat
	Winner int // AgentConfig.ID, 0 when cut off or shared
	engine.GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	engine.MoveMetric
}

// Summary aggregates a match up from the point of view of its agents.
type Summary struct {
	Games            int
	Wins             map[int]int // by AgentConfig.ID
	Unfinished       int
	MeanMoves        float64
	StdDevMoves      float64
	MeanIterations   map[int]float64 // per move, by AgentConfig.ID
	StdDevIterations map[int]float64
}

// Game sets up a fresh game for the given seed.
type Game[S, P any] func(players []game.PlayerID, seed uint64) (S, P)

var players = []game.PlayerID{"Player1", "Player2"}

// RunMatchUp plays games between two configs, swapping seats every game so
// both start equally often.
func RunMatchUp[S, P any](ctx context.Context, plugin game.Plugin[S, P], newGame Game[S, P], eval game.EvalFunc[S, P],
	configs [2]AgentConfig, games int, maxMoves int) ([]GameRecord, []MoveRecord, error) {
	var gameRecords []GameRecord
	var moveRecords []MoveRecord

	for i := 0; i < games; i++ {
		seated := configs
		if i%2 == 1 {
			seated[0], seated[1] = configs[1], configs[0]
		}
		log.Info().Msgf("starting game %d of %d between agent%d and agent%d...", i+1, games, seated[0].ID, seated[1].ID)

		agents := []agent.Agent[S, P]{newAgent(plugin, eval, seated[0], i), newAgent(plugin, eval, seated[1], i)}
		state, phase := newGame(players, uint64(i+1))
		e, err := engine.LocalEngine(plugin, state, phase, players, agents, engine.WithMaxMoves(maxMoves))
		if err != nil {
			return gameRecords, moveRecords, errors.Wrapf(err, "set up game %d", i+1)
		}
		gameMetric, moveMetrics, err := e.Run(ctx)
		if err != nil {
			return gameRecords, moveRecords, errors.Wrapf(err, "play game %d", i+1)
		}

		record := GameRecord{ID: i + 1, Agent1: seated[0].ID, Agent2: seated[1].ID, GameMetric: gameMetric}
		if len(gameMetric.Winners) == 1 {
			for seat, player := range players {
				if gameMetric.Winners[0] == player {
					record.Winner = seated[seat].ID
				}
			}
		}
		gameRecords = append(gameRecords, record)
		for _, mm := range moveMetrics {
			moveRecords = append(moveRecords, MoveRecord{Game: record.ID, MoveMetric: mm})
		}

		log.Info().Msgf("completed game %d with winner: agent%d", i+1, record.Winner)
	}
	return gameRecords, moveRecords, nil
}

func newAgent[S, P any](plugin game.Plugin[S, P], eval game.EvalFunc[S, P], config AgentConfig, round int) agent.Agent[S, P] {
	if config.Temperature > 0 {
		return agent.NewTrainingAgent(plugin, config.Params, eval, config.Temperature, uint64(config.ID*1000+round))
	}
	return agent.NewEvaluationAgent(plugin, config.Params, eval)
}

func Summarize(gameRecords []GameRecord, moveRecords []MoveRecord) Summary {
	summary := Summary{
		Games:            len(gameRecords),
		Wins:             map[int]int{},
		MeanIterations:   map[int]float64{},
		StdDevIterations: map[int]float64{},
	}

	seats := map[int][2]int{}
	moves := make([]float64, len(gameRecords))
	for i, r := range gameRecords {
		seats[r.ID] = [2]int{r.Agent1, r.Agent2}
		moves[i] = float64(r.TotalMoves)
		if r.Winner == 0 {
			summary.Unfinished++
		} else {
			summary.Wins[r.Winner]++
		}
	}
	if len(moves) > 0 {
		summary.MeanMoves, summary.StdDevMoves = stat.MeanStdDev(moves, nil)
	}

	iterations := map[int][]float64{}
	for _, r := range moveRecords {
		seat := 0
		if r.Player == players[1] {
			seat = 1
		}
		id := seats[r.Game][seat]
		iterations[id] = append(iterations[id], float64(r.Iterations))
	}
	for id, xs := range iterations {
		summary.MeanIterations[id], summary.StdDevIterations[id] = stat.MeanStdDev(xs, nil)
	}
	return summary
}

// RunParallelizationExperiment pits a sequential searcher against ones with
// more concurrent determinizations under the same time budget.
func RunParallelizationExperiment(ctx context.Context) (map[int]Summary, error) {
	baseline := AgentConfig{ID: 1, Params: timed(searcher.WithWorkers(1))}
	configs := []AgentConfig{
		{ID: 2, Params: timed(searcher.WithWorkers(2), searcher.WithDeterminizations(8))},
		{ID: 3, Params: timed(searcher.WithWorkers(4), searcher.WithDeterminizations(8))},
		{ID: 4, Params: timed(searcher.WithWorkers(8), searcher.WithDeterminizations(8))},
	}
	return runExperiment(ctx, "parallelization", baseline, configs)
}

// RunRAVEExperiment measures what RAVE and first play urgency add over plain
// UCT.
func RunRAVEExperiment(ctx context.Context) (map[int]Summary, error) {
	baseline := AgentConfig{ID: 1, Params: timed(searcher.WithoutRAVE())}
	configs := []AgentConfig{
		{ID: 2, Params: timed()},
		{ID: 3, Params: timed(searcher.WithFirstPlayUrgency())},
		{ID: 4, Params: timed(searcher.WithContextAMAF())},
	}
	return runExperiment(ctx, "rave", baseline, configs)
}

func RunRolloutExperiment(ctx context.Context) (map[int]Summary, error) {
	baseline := AgentConfig{ID: 1, Params: timed()} // Evaluate leaves directly
	configs := []AgentConfig{
		{ID: 2, Params: timed(searcher.WithRolloutDepth(10))},
		{ID: 3, Params: timed(searcher.WithRolloutDepth(50))},
	}
	return runExperiment(ctx, "rollout", baseline, configs)
}

func timed(options ...searcher.Option) searcher.Params {
	options = append([]searcher.Option{searcher.WithSimulations(0), searcher.WithTimeLimit(TimeBudget)}, options...)
	return searcher.NewParams(options...)
}

func runExperiment(ctx context.Context, name string, baseline AgentConfig, configs []AgentConfig) (map[int]Summary, error) {
	log.Info().Msgf("starting %s experiment...", name)

	summaries := make(map[int]Summary, len(configs))
	for mi, config := range configs {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(configs), baseline, config)

		gameRecords, moveRecords, err := RunMatchUp[*risk.State, risk.Phase](ctx, risk.Plugin{}, risk.NewGame, nil,
			[2]AgentConfig{baseline, config}, NumGames, MaxMoves)
		if err != nil {
			return summaries, errors.Wrapf(err, "%s matchup %d", name, mi+1)
		}
		summary := Summarize(gameRecords, moveRecords)
		summaries[config.ID] = summary

		log.Info().Msgf("completed matchup %d of %d: %+v", mi+1, len(configs), summary)
	}

	log.Info().Msgf("completed %s experiment", name)
	return summaries, nil
}
