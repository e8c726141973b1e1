package searcher

import "ismcts/game"

const noParent = -1

// SearchNode is one node of a determinization's tree. Links are arena indices.
type SearchNode struct {
	Action   *game.Action  // nil at the root
	Parent   int           // noParent at the root
	Player   game.PlayerID // who chose Action, NoPlayer at the root and for environment steps
	Children []int         // in creation order
	// Untried holds the legal actions not yet expanded. It is filled once, on
	// the first expansion attempt, and only shrinks afterwards.
	Untried    []game.Action
	populated  bool
	Visits     int
	Value      float64
	AMAFVisits map[string]int
	AMAFValues map[string]float64
	AMAFKey    string
}

// amafQ is the mean AMAF value recorded at n for key, 0.5 when unknown.
func (n *SearchNode) amafQ(key string) (float64, bool) {
	visits := n.AMAFVisits[key]
	if visits == 0 {
		return 0.5, false
	}
	return n.AMAFValues[key] / float64(visits), true
}

// SearchArena owns every node of one tree. Nodes are appended and never removed.
type SearchArena struct {
	nodes []SearchNode
}

func newArena() *SearchArena {
	return &SearchArena{nodes: []SearchNode{{Parent: noParent}}}
}

const root = 0

// Node returns the node at index i. The pointer is only valid until the next add.
func (a *SearchArena) Node(i int) *SearchNode {
	return &a.nodes[i]
}

func (a *SearchArena) Len() int {
	return len(a.nodes)
}

// add appends a child of parent and returns its index.
func (a *SearchArena) add(parent int, action game.Action, player game.PlayerID, key string) int {
	id := len(a.nodes)
	a.nodes = append(a.nodes, SearchNode{
		Action:  &action,
		Parent:  parent,
		Player:  player,
		AMAFKey: key,
	})
	a.nodes[parent].Children = append(a.nodes[parent].Children, id)
	return id
}

// depth counts the edges between node i and the root.
func (a *SearchArena) depth(i int) int {
	d := 0
	for a.nodes[i].Parent != noParent {
		i = a.nodes[i].Parent
		d++
	}
	return d
}
