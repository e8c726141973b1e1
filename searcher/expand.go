package searcher

import (
	"math"

	"ismcts/game"
)

// widenLimit is how many children a node with the given visits may hold:
// max(1, c * max(visits,1)^alpha). It never decreases as visits grow.
func widenLimit(visits int, c, alpha float64) float64 {
	v := math.Max(1, float64(visits))
	return math.Max(1, c*math.Pow(v, alpha))
}

// canGrow reports whether node still has untried actions and room under the
// widening limit.
func (p Params) canGrow(node *SearchNode) bool {
	return len(node.Untried) > 0 && float64(len(node.Children)) < widenLimit(node.Visits, p.PWC, p.PWAlpha)
}

// populate fills the untried actions of node on its first expansion attempt.
func populate(node *SearchNode, legal []game.Action) {
	if node.populated {
		return
	}
	node.populated = true
	node.Untried = append([]game.Action(nil), legal...)
	game.SortActions(node.Untried)
}

// pop removes the first untried action of node.
func pop(node *SearchNode) game.Action {
	action := node.Untried[0]
	node.Untried = node.Untried[1:]
	return action
}
