package searcher

import (
	"math"

	"ismcts/game"
)

const (
	Win     = 1.0
	TiedWin = 0.8
	Loss    = 0.0
	Unknown = 0.5
)

// terminalValue scores a finished simulation for player.
func terminalValue(over *game.GameOver, player game.PlayerID) float64 {
	switch {
	case over == nil:
		return Unknown
	case !over.Has(player):
		return Loss
	case len(over.Winners) == 1:
		return Win
	default:
		return TiedWin
	}
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return Unknown
	}
	return math.Max(0, math.Min(1, v))
}
