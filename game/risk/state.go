package risk

import (
	"sort"

	"golang.org/x/exp/rand"

	"ismcts/game"
)

type Phase int

const (
	ReinforcementPhase Phase = iota
	AttackPhase
	ManeuverPhase
	DrawPhase // environment step awarding a card after a conquering turn
)

func (p Phase) String() string {
	switch p {
	case ReinforcementPhase:
		return "reinforcement"
	case AttackPhase:
		return "attack"
	case ManeuverPhase:
		return "maneuver"
	case DrawPhase:
		return "draw"
	}
	return "unknown"
}

// Action kinds.
const (
	Reinforce = "reinforce"
	Attack    = "attack"
	Maneuver  = "maneuver"
	Pass      = "pass"
	Draw      = "draw"
)

const initialTroops = 2

// State is the dynamic part of a game. The map and rules are shared between
// copies. The deck order, opponent hands and dice seed are hidden information.
type State struct {
	Map           *Map
	Rules         Rules
	Players       []game.PlayerID // Seat order
	Current       int             // Seat index of the current player
	Ownership     []int           // Seat index per canton
	TroopCounts   []int
	TroopsToPlace int
	Deck          []Card
	Discard       []Card
	Hands         [][]Card // Per seat
	Exchanges     int
	Conquered     bool // A territory was conquered this turn
	Turn          int
	DiceSeed      uint64
	Rolls         uint64
}

// NewGame deals the cantons round-robin in shuffled order and starts the
// first player's reinforcement phase.
func NewGame(players []game.PlayerID, seed uint64) (*State, Phase) {
	m := CreateMap()
	rng := rand.New(rand.NewSource(seed))
	s := &State{
		Map:         m,
		Rules:       NewStandardRules(),
		Players:     append([]game.PlayerID(nil), players...),
		Ownership:   make([]int, len(m.Cantons)),
		TroopCounts: make([]int, len(m.Cantons)),
		Deck:        newDeck(len(m.Cantons), rng),
		Hands:       make([][]Card, len(players)),
		DiceSeed:    rng.Uint64(),
	}
	for i, id := range rng.Perm(len(m.Cantons)) {
		s.Ownership[id] = i % len(players)
		s.TroopCounts[id] = initialTroops
	}
	s.beginTurn()
	return s, ReinforcementPhase
}

func (s *State) Copy() *State {
	c := *s
	c.Players = append([]game.PlayerID(nil), s.Players...)
	c.Ownership = append([]int(nil), s.Ownership...)
	c.TroopCounts = append([]int(nil), s.TroopCounts...)
	c.Deck = append([]Card(nil), s.Deck...)
	c.Discard = append([]Card(nil), s.Discard...)
	c.Hands = make([][]Card, len(s.Hands))
	for i, hand := range s.Hands {
		c.Hands[i] = append([]Card(nil), hand...)
	}
	return &c
}

func (s *State) seat(player game.PlayerID) int {
	for i, p := range s.Players {
		if p == player {
			return i
		}
	}
	return -1
}

// Territories counts the cantons owned by each seat.
func (s *State) Territories() []int {
	counts := make([]int, len(s.Players))
	for _, owner := range s.Ownership {
		if owner >= 0 {
			counts[owner]++
		}
	}
	return counts
}

// Winner returns the seat owning every canton, or -1.
func (s *State) Winner() int {
	owner := s.Ownership[0]
	for _, o := range s.Ownership[1:] {
		if o != owner {
			return -1
		}
	}
	return owner
}

func (s *State) nextSeat() int {
	territories := s.Territories()
	for i := 1; i <= len(s.Players); i++ {
		next := (s.Current + i) % len(s.Players)
		if territories[next] > 0 {
			return next
		}
	}
	return s.Current
}

func (s *State) beginTurn() {
	s.Conquered = false
	s.TroopsToPlace = s.troopIncome()
	s.tradeCards()
}

func (s *State) troopIncome() int {
	troops := max(3, s.Territories()[s.Current]/3)
	for _, region := range s.Map.Regions {
		if regionOwner(region, s.Ownership) == s.Current {
			troops += region.Bonus
		}
	}
	return troops
}

func regionOwner(region *Region, ownership []int) int {
	if len(region.CantonIDs) == 0 {
		return -1
	}
	owner := ownership[region.CantonIDs[0]]
	for _, id := range region.CantonIDs[1:] {
		if ownership[id] != owner {
			return -1
		}
	}
	return owner
}

func (s *State) LegalActions(phase Phase) []game.Action {
	if s.Winner() >= 0 {
		return nil
	}
	switch phase {
	case ReinforcementPhase:
		return s.reinforcementActions()
	case AttackPhase:
		return s.attackActions()
	case ManeuverPhase:
		return s.maneuverActions()
	case DrawPhase:
		return []game.Action{{Kind: Draw}}
	}
	return nil
}

func (s *State) cantonAction(kind string, to int, fields map[string]any) game.Action {
	pos := s.Map.Cantons[to].Pos
	fields["to"] = to
	return game.Action{Kind: kind, Pos: &pos, Fields: fields}
}

// reinforcementActions places one, half or all remaining troops on a border canton.
func (s *State) reinforcementActions() []game.Action {
	var actions []game.Action
	for _, id := range s.borderCantons() {
		for _, amount := range troopAmounts(s.TroopsToPlace) {
			actions = append(actions, s.cantonAction(Reinforce, id, map[string]any{"troops": amount}))
		}
	}
	return actions
}

func troopAmounts(total int) []int {
	var amounts []int
	for _, n := range []int{1, total / 2, total} {
		if n > 0 && !contains(amounts, n) {
			amounts = append(amounts, n)
		}
	}
	return amounts
}

func (s *State) borderCantons() []int {
	var cantons []int
	for id, owner := range s.Ownership {
		if owner != s.Current {
			continue
		}
		for _, adj := range s.Map.Cantons[id].AdjacentIDs {
			if s.Ownership[adj] != s.Current {
				cantons = append(cantons, id)
				break
			}
		}
	}
	return cantons
}

func (s *State) attackActions() []game.Action {
	var actions []game.Action
	for id, owner := range s.Ownership {
		if owner != s.Current || s.TroopCounts[id] <= 1 {
			continue
		}
		for _, adj := range s.Map.Cantons[id].AdjacentIDs {
			if s.Ownership[adj] != s.Current {
				actions = append(actions, s.cantonAction(Attack, adj, map[string]any{"from": id}))
			}
		}
	}
	return append(actions, game.Action{Kind: Pass})
}

func (s *State) maneuverActions() []game.Action {
	var actions []game.Action
	for from, owner := range s.Ownership {
		if owner != s.Current || s.TroopCounts[from] <= 1 {
			continue
		}
		for to, o := range s.Ownership {
			if o != s.Current || from == to || !s.AreConnected(from, to) {
				continue
			}
			for _, amount := range troopAmounts(s.TroopCounts[from] - 1) {
				actions = append(actions, s.cantonAction(Maneuver, to, map[string]any{"from": from, "troops": amount}))
			}
		}
	}
	return append(actions, game.Action{Kind: Pass})
}

// AreConnected reports whether a path of the owner's cantons joins from and to.
func (s *State) AreConnected(from, to int) bool {
	owner := s.Ownership[from]
	if s.Ownership[to] != owner {
		return false
	}
	visited := map[int]bool{from: true}
	queue := []int{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == to {
			return true
		}
		for _, adj := range s.Map.Cantons[current].AdjacentIDs {
			if !visited[adj] && s.Ownership[adj] == owner {
				visited[adj] = true
				queue = append(queue, adj)
			}
		}
	}
	return false
}

// Play returns the state and phase after action. It panics on actions that
// are illegal in the current phase.
func (s *State) Play(phase Phase, action game.Action) (*State, Phase) {
	next := s.Copy()
	to, _ := action.Int("to")
	from, _ := action.Int("from")
	troops, _ := action.Int("troops")

	switch {
	case phase == ReinforcementPhase && action.Kind == Reinforce:
		if troops <= 0 || troops > next.TroopsToPlace || next.Ownership[to] != next.Current {
			panic("invalid reinforcement")
		}
		next.TroopCounts[to] += troops
		next.TroopsToPlace -= troops
		if next.TroopsToPlace == 0 {
			return next, AttackPhase
		}
		return next, ReinforcementPhase
	case phase == AttackPhase && action.Kind == Attack:
		next.attack(from, to)
		return next, AttackPhase
	case phase == AttackPhase && action.Kind == Pass:
		return next, ManeuverPhase
	case phase == ManeuverPhase && action.Kind == Maneuver:
		if next.TroopCounts[from] <= troops || !next.AreConnected(from, to) {
			panic("invalid maneuver")
		}
		next.TroopCounts[from] -= troops
		next.TroopCounts[to] += troops
		return next.endTurn()
	case phase == ManeuverPhase && action.Kind == Pass:
		return next.endTurn()
	case phase == DrawPhase && action.Kind == Draw:
		if card, ok := next.drawCard(); ok {
			next.Hands[next.Current] = append(next.Hands[next.Current], card)
		}
		next.Current = next.nextSeat()
		next.Turn++
		next.beginTurn()
		return next, ReinforcementPhase
	}
	panic("invalid action " + action.Kind + " for " + phase.String() + " phase")
}

func (s *State) endTurn() (*State, Phase) {
	if s.Conquered {
		return s, DrawPhase
	}
	s.Current = s.nextSeat()
	s.Turn++
	s.beginTurn()
	return s, ReinforcementPhase
}

// attack fights until one side is exhausted. Dice come from the state's own
// seed so that replaying a line of play gives the same result.
func (s *State) attack(attackerID, defenderID int) {
	if s.Ownership[attackerID] != s.Current || s.Ownership[defenderID] == s.Current ||
		!s.Map.AreAdjacent(attackerID, defenderID) || s.TroopCounts[attackerID] <= 1 {
		panic("invalid attack")
	}
	rng := rand.New(rand.NewSource(s.DiceSeed + s.Rolls))
	s.Rolls++

	attackerTroops := s.TroopCounts[attackerID] - 1
	defenderTroops := s.TroopCounts[defenderID]
	for attackerTroops > 0 && defenderTroops > 0 {
		attackerRolls := rollDice(rng, min(attackerTroops, s.Rules.MaxAttackTroops()))
		defenderRolls := rollDice(rng, min(defenderTroops, s.Rules.MaxDefendTroops()))
		attackerLosses, defenderLosses := s.Rules.DetermineAttackOutcome(attackerRolls, defenderRolls)
		attackerTroops -= attackerLosses
		defenderTroops -= defenderLosses
	}

	if defenderTroops <= 0 {
		s.Ownership[defenderID] = s.Current
		s.TroopCounts[defenderID] = attackerTroops
		s.TroopCounts[attackerID] = 1
		s.Conquered = true
	} else {
		s.TroopCounts[attackerID] = 1
		s.TroopCounts[defenderID] = defenderTroops
	}
}

func rollDice(rng *rand.Rand, num int) []int {
	rolls := make([]int, num)
	for i := range rolls {
		rolls[i] = rng.Intn(6) + 1
	}
	sort.Sort(sort.Reverse(sort.IntSlice(rolls)))
	return rolls
}
