package risk

import (
	"strconv"

	"golang.org/x/exp/rand"

	"ismcts/game"
)

// Plugin exposes the Risk rules to the searcher.
type Plugin struct{}

var _ game.Plugin[*State, Phase] = Plugin{}

func (Plugin) LegalActions(s *State, phase Phase, player game.PlayerID) []game.Action {
	if phase != DrawPhase && player != s.Players[s.Current] {
		return nil
	}
	return s.LegalActions(phase)
}

func (Plugin) ActingPlayer(s *State, phase Phase) (game.PlayerID, bool) {
	if phase == DrawPhase {
		return game.NoPlayer, false
	}
	return s.Players[s.Current], true
}

func (Plugin) Apply(s *State, phase Phase, action game.Action, _ []game.PlayerID) game.Outcome[*State, Phase] {
	next, nextPhase := s.Play(phase, action)
	outcome := game.Outcome[*State, Phase]{State: next, Phase: nextPhase, Scores: next.Scores()}
	if w := next.Winner(); w >= 0 {
		outcome.GameOver = &game.GameOver{Winners: []game.PlayerID{next.Players[w]}}
	}
	return outcome
}

func (Plugin) Clone(s *State) *State {
	return s.Copy()
}

// Determinize reshuffles every card the observer cannot see (the deck and the
// other hands) and redraws the future dice.
func (Plugin) Determinize(s *State, observer game.PlayerID, rng *rand.Rand) {
	seat := s.seat(observer)
	unseen := append([]Card(nil), s.Deck...)
	for i, hand := range s.Hands {
		if i != seat {
			unseen = append(unseen, hand...)
		}
	}
	rng.Shuffle(len(unseen), func(i, j int) {
		unseen[i], unseen[j] = unseen[j], unseen[i]
	})
	for i, hand := range s.Hands {
		if i == seat {
			continue
		}
		n := len(hand)
		s.Hands[i] = append([]Card(nil), unseen[:n]...)
		unseen = unseen[n:]
	}
	s.Deck = unseen
	s.DiceSeed = rng.Uint64()
	s.Rolls = 0
}

func (Plugin) Evaluate(s *State, phase Phase, player game.PlayerID, players []game.PlayerID) float64 {
	return EvaluateScore(s, phase, player, players)
}

func (Plugin) ActionKey(action game.Action, context string) string {
	return game.DefaultKey(action, context)
}

// AMAFContext names the type of the card on top of the deck, which is what a
// conquering turn would earn.
func (Plugin) AMAFContext(s *State) string {
	if len(s.Deck) == 0 {
		return ""
	}
	return "card" + strconv.Itoa(int(s.Deck[0].Type))
}
