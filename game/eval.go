package game

import "math"

// ScoreSigmoid maps the gap between player's score and the best opponent
// score into (0,1). scale stretches the curve; a gap of one scale unit is
// worth about 0.73. Without opponents it returns 0.5.
func ScoreSigmoid(scores map[PlayerID]float64, player PlayerID, scale float64) float64 {
	if scale <= 0 {
		scale = 1
	}
	best := math.Inf(-1)
	for p, s := range scores {
		if p != player && s > best {
			best = s
		}
	}
	if math.IsInf(best, -1) {
		return 0.5
	}
	return 1 / (1 + math.Exp(-(scores[player]-best)/scale))
}

// Normalize converts two quantities into a share in [0,1] of the first.
func Normalize(value, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0.5
	}
	return value / total
}
