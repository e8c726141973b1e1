package searcher

import "math"

type uct struct {
	numerator float64
}

// newUCT precomputes C^2 * ln(N) for a parent with N visits.
func newUCT(c float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: c * c * math.Log(N)}
}

// evaluate returns q/n + C*sqrt(ln(N)/n).
func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	return q/n + u.explore(n)
}

func (u uct) explore(n float64) float64 {
	return math.Sqrt(u.numerator / n)
}

// raveBeta is the weight of the AMAF estimate: sqrt(k / (3N + k)).
func raveBeta(k float64, parentVisits int) float64 {
	return math.Sqrt(k / (3*float64(parentVisits) + k))
}

// score rates child for selection from parent.
func (p Params) score(parent, child *SearchNode, policy *uct) float64 {
	if child.Visits == 0 {
		if p.RAVE && p.FirstPlayUrgency {
			if q, ok := parent.amafQ(child.AMAFKey); ok {
				return 1 + q
			}
		}
		return math.Inf(1)
	}
	n := float64(child.Visits)
	if !p.RAVE {
		return policy.evaluate(child.Value, n)
	}
	amaf, _ := parent.amafQ(child.AMAFKey)
	beta := raveBeta(p.RAVEK, parent.Visits)
	return (1-beta)*(child.Value/n) + beta*amaf + policy.explore(n)
}

// selectChild returns the best scoring child of parent, the earliest created
// one on ties.
func (p Params) selectChild(arena *SearchArena, parent int) int {
	node := arena.Node(parent)
	if node.Visits == 0 {
		return node.Children[0]
	}
	policy := newUCT(p.Exploration, float64(node.Visits))
	best, bestScore := noParent, math.Inf(-1)
	for _, c := range node.Children {
		score := p.score(node, arena.Node(c), policy)
		if best == noParent || score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}
