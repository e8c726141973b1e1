package risk

import (
	"sort"

	"golang.org/x/exp/rand"
)

type CardType int

const (
	Infantry CardType = iota
	Cavalry
	Artillery
	Wild
)

type Card struct {
	Type        CardType
	TerritoryID int // -1 for wild cards
}

func newDeck(numCantons int, rng *rand.Rand) []Card {
	types := []CardType{Infantry, Cavalry, Artillery}
	deck := make([]Card, 0, numCantons+2)
	for i := 0; i < numCantons; i++ {
		deck = append(deck, Card{Type: types[i%3], TerritoryID: i})
	}
	deck = append(deck, Card{Type: Wild, TerritoryID: -1}, Card{Type: Wild, TerritoryID: -1})
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// findSet returns the indices of a tradable set in hand, or nil.
// Sets are three of a kind, one of each, or any two plus a wild.
func findSet(hand []Card) []int {
	countType := map[CardType][]int{}
	for i, c := range hand {
		countType[c.Type] = append(countType[c.Type], i)
	}

	for _, t := range []CardType{Infantry, Cavalry, Artillery} {
		if len(countType[t]) >= 3 {
			return countType[t][:3]
		}
	}

	inf, cav, art := countType[Infantry], countType[Cavalry], countType[Artillery]
	if len(inf) > 0 && len(cav) > 0 && len(art) > 0 {
		return []int{inf[0], cav[0], art[0]}
	}

	wilds := countType[Wild]
	if len(wilds) > 0 {
		var others []int
		for i, c := range hand {
			if c.Type != Wild {
				others = append(others, i)
			}
		}
		if len(others) >= 2 {
			return []int{others[0], others[1], wilds[0]}
		}
	}
	return nil
}

// armiesForExchange follows the escalating schedule 4, 6, 8, 10, 12, 15, then +5.
func armiesForExchange(n int) int {
	switch {
	case n <= 5:
		return 2 + 2*n
	case n == 6:
		return 15
	default:
		return 15 + 5*(n-6)
	}
}

// tradeCards trades every available set of the current player.
func (s *State) tradeCards() {
	hand := s.Hands[s.Current]
	for len(hand) >= 3 {
		set := findSet(hand)
		if set == nil {
			break
		}
		sort.Sort(sort.Reverse(sort.IntSlice(set)))
		bonusGranted := false
		for _, idx := range set {
			card := hand[idx]
			if !bonusGranted && card.TerritoryID >= 0 && s.Ownership[card.TerritoryID] == s.Current {
				s.TroopCounts[card.TerritoryID] += 2
				bonusGranted = true
			}
			s.Discard = append(s.Discard, card)
			hand = append(hand[:idx], hand[idx+1:]...)
		}
		s.Exchanges++
		s.TroopsToPlace += armiesForExchange(s.Exchanges)
	}
	s.Hands[s.Current] = hand
}

// drawCard takes the top card, recycling the discard pile in order when the
// deck runs out.
func (s *State) drawCard() (Card, bool) {
	if len(s.Deck) == 0 {
		if len(s.Discard) == 0 {
			return Card{}, false
		}
		s.Deck, s.Discard = s.Discard, nil
	}
	card := s.Deck[0]
	s.Deck = s.Deck[1:]
	return card, true
}
