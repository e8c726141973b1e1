package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ismcts/engine"
	"ismcts/experiments"
	"ismcts/game"
	"ismcts/game/risk"
	"ismcts/searcher"
	"ismcts/searcher/agent"
)

func main() {
	paramsPath := flag.String("params", "", "YAML file with search params")
	experiment := flag.String("experiment", "", "Experiment to run instead of a single game: parallelization, rave or rollout")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed of the dealt game")
	maxMoves := flag.Int("max-moves", engine.MaxMoves, "Moves before the game is cut off")
	temperature := flag.Float64("temperature", 1, "Sampling temperature of the second player")
	debug := flag.Bool("debug", false, "Log every search")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	ctx := log.Logger.WithContext(context.Background())

	var err error
	switch *experiment {
	case "":
		err = runGame(ctx, *paramsPath, *seed, *maxMoves, *temperature)
	case "parallelization":
		_, err = experiments.RunParallelizationExperiment(ctx)
	case "rave":
		_, err = experiments.RunRAVEExperiment(ctx)
	case "rollout":
		_, err = experiments.RunRolloutExperiment(ctx)
	default:
		log.Fatal().Msgf("unknown experiment %q", *experiment)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed")
	}
}

// runGame plays an evaluation agent against a training agent on Risk.
func runGame(ctx context.Context, paramsPath string, seed uint64, maxMoves int, temperature float64) error {
	params := searcher.NewParams(searcher.WithTimeLimit(500 * time.Millisecond))
	if paramsPath != "" {
		var err error
		if params, err = searcher.LoadParamsFile(paramsPath); err != nil {
			return err
		}
	}

	players := []game.PlayerID{"Player1", "Player2"}
	state, phase := risk.NewGame(players, seed)
	agents := []agent.Agent[*risk.State, risk.Phase]{
		agent.NewEvaluationAgent[*risk.State, risk.Phase](risk.Plugin{}, params, nil),
		agent.NewTrainingAgent[*risk.State, risk.Phase](risk.Plugin{}, params, risk.EvaluateBorderStrength, temperature, seed),
	}
	e, err := engine.LocalEngine[*risk.State, risk.Phase](risk.Plugin{}, state, phase, players, agents, engine.WithMaxMoves(maxMoves))
	if err != nil {
		return err
	}

	gameMetric, _, err := e.Run(ctx)
	if err != nil {
		return err
	}
	log.Info().Msgf("Game over! Winners: %v after %d moves in %s", gameMetric.Winners, gameMetric.TotalMoves, gameMetric.Duration)
	return nil
}
