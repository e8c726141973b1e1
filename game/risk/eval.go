package risk

import (
	"math"

	"ismcts/game"
)

// scoreScale is the score gap worth about 0.73 under the sigmoid heuristic.
const scoreScale = 4.0

// Scores tallies territories plus region bonuses for each player.
func (s *State) Scores() map[game.PlayerID]float64 {
	scores := make(map[game.PlayerID]float64, len(s.Players))
	for i, n := range s.Territories() {
		scores[s.Players[i]] = float64(n)
	}
	for _, region := range s.Map.Regions {
		if owner := regionOwner(region, s.Ownership); owner >= 0 {
			scores[s.Players[owner]] += float64(region.Bonus)
		}
	}
	return scores
}

// EvaluateScore is the default heuristic: a sigmoid of the score gap to the
// strongest opponent.
func EvaluateScore(s *State, _ Phase, player game.PlayerID, _ []game.PlayerID) float64 {
	return game.ScoreSigmoid(s.Scores(), player, scoreScale)
}

// EvaluateBorderStrength averages the territory share, troop share and border
// strength share against the strongest opponent.
func EvaluateBorderStrength(s *State, _ Phase, player game.PlayerID, _ []game.PlayerID) float64 {
	seat := s.seat(player)
	if seat < 0 {
		return 0.5
	}
	territories := make([]float64, len(s.Players))
	troops := make([]float64, len(s.Players))
	for id, owner := range s.Ownership {
		territories[owner]++
		troops[owner] += float64(s.TroopCounts[id])
	}
	border := s.borderStrength()
	rival := strongestOpponent(territories, seat)
	if rival < 0 {
		return 1
	}
	return (game.Normalize(territories[seat], territories[rival]) +
		game.Normalize(troops[seat], troops[rival]) +
		game.Normalize(border[seat], border[rival])) / 3
}

func strongestOpponent(territories []float64, seat int) int {
	rival := -1
	for i, n := range territories {
		if i != seat && n > 0 && (rival < 0 || n > territories[rival]) {
			rival = i
		}
	}
	return rival
}

// borderStrength sums, per seat, the troop advantage over each hostile
// neighbor scaled by the square root of the number of hostile borders.
// Negative totals are clamped to zero so shares stay within [0,1].
func (s *State) borderStrength() []float64 {
	strength := make([]float64, len(s.Players))
	for id, owner := range s.Ownership {
		mine := float64(s.TroopCounts[id])
		borders := 0
		diff := 0.0
		for _, adj := range s.Map.Cantons[id].AdjacentIDs {
			if s.Ownership[adj] != owner {
				borders++
				diff += mine - float64(s.TroopCounts[adj])
			}
		}
		if borders > 0 {
			strength[owner] += diff / math.Sqrt(float64(borders))
		}
	}
	for i := range strength {
		strength[i] = math.Max(0, strength[i])
	}
	return strength
}
