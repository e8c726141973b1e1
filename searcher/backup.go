package searcher

import "ismcts/game"

// credit is value seen from player: searcher's own and environment nodes keep
// it, opponents get the complement.
func credit(value float64, player, searcher game.PlayerID) float64 {
	if player == searcher || player == game.NoPlayer {
		return value
	}
	return 1 - value
}

// backup walks from leaf to the root updating visit and value totals and,
// with RAVE, the AMAF tables of every node on the way.
func (w *worker[S, P]) backup(leaf int, value float64) {
	depth := w.arena.depth(leaf)
	for node := leaf; node != noParent; depth-- {
		n := w.arena.Node(node)
		n.Visits++
		n.Value += credit(value, n.Player, w.player)
		if w.params.RAVE {
			w.updateAMAF(n, depth, value)
		}
		node = n.Parent
	}
}

// updateAMAF credits each distinct action played at or after depth, up to
// MaxAMAFDepth actions ahead (0 means the whole line).
func (w *worker[S, P]) updateAMAF(n *SearchNode, depth int, value float64) {
	end := len(w.trail)
	if w.params.MaxAMAFDepth > 0 {
		end = min(end, depth+w.params.MaxAMAFDepth)
	}
	if depth >= end {
		return
	}
	if n.AMAFVisits == nil {
		n.AMAFVisits = make(map[string]int)
		n.AMAFValues = make(map[string]float64)
	}
	seen := make(map[string]bool, end-depth)
	for _, p := range w.trail[depth:end] {
		if seen[p.key] {
			continue
		}
		seen[p.key] = true
		n.AMAFVisits[p.key]++
		n.AMAFValues[p.key] += credit(value, p.player, w.player)
	}
}
