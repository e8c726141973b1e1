package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"ismcts/game"
)

func TestNewUCT(t *testing.T) {
	t.Run("panics with zero parent visits", func(t *testing.T) {
		require.Panics(t, func() {
			newUCT(1.41, 0)
		}, "Should panic when N is 0")
	})
}

func TestUCTEvaluate(t *testing.T) {
	t.Run("computing UCT value", func(t *testing.T) {
		policy := newUCT(1.5, 100)
		got := policy.evaluate(5.0, 10)

		expected := 5.0/10 + 1.5*math.Sqrt(math.Log(100)/10.0)
		require.InDelta(t, expected, got, 0.0001,
			"Should compute q/n + C*sqrt(ln(N)/n)")
	})

	t.Run("panics with zero child visits", func(t *testing.T) {
		policy := newUCT(1.5, 100)

		require.Panics(t, func() {
			policy.evaluate(5.0, 0)
		}, "Should panic when n is 0")
	})

	t.Run("exploration term increases with parent visits", func(t *testing.T) {
		score1 := newUCT(1.5, 100).evaluate(5, 10)
		score2 := newUCT(1.5, 1000).evaluate(5, 10)

		require.Greater(t, score2, score1,
			"More parent visits should increase exploration term")
	})

	t.Run("exploration term decreases with child visits", func(t *testing.T) {
		policy := newUCT(1.5, 100)

		require.Greater(t, policy.evaluate(5, 10), policy.evaluate(5, 20),
			"More child visits should decrease exploration term")
	})
}

func TestRAVEBeta(t *testing.T) {
	t.Run("formula", func(t *testing.T) {
		require.InDelta(t, math.Sqrt(300.0/(3*100+300)), raveBeta(300, 100), 1e-12,
			"Should compute sqrt(k/(3N+k))")
		require.Equal(t, 1.0, raveBeta(300, 0), "Should trust AMAF fully before any visit")
	})

	t.Run("strictly decreases towards zero", func(t *testing.T) {
		prev := raveBeta(50, 1)
		for _, n := range []int{2, 10, 100, 1000, 100000} {
			beta := raveBeta(50, n)
			require.Less(t, beta, prev, "Beta should shrink as parent visits grow")
			prev = beta
		}
		require.Less(t, prev, 0.02, "Beta should approach zero")
	})
}

func TestScore(t *testing.T) {
	policy := newUCT(1.0, 20)

	t.Run("unvisited child is infinite under plain UCT", func(t *testing.T) {
		p := NewParams(WithoutRAVE())
		require.True(t, math.IsInf(p.score(&SearchNode{Visits: 20}, &SearchNode{}, policy), 1),
			"Should score an unvisited child +Inf")
	})

	t.Run("first play urgency uses parent AMAF data", func(t *testing.T) {
		p := NewParams(WithFirstPlayUrgency())
		parent := &SearchNode{
			Visits:     20,
			AMAFVisits: map[string]int{"a": 2},
			AMAFValues: map[string]float64{"a": 1.5},
		}

		require.Equal(t, 1.75, p.score(parent, &SearchNode{AMAFKey: "a"}, policy),
			"Should score 1 + amaf_q")
		require.True(t, math.IsInf(p.score(parent, &SearchNode{AMAFKey: "b"}, policy), 1),
			"Should stay infinite without AMAF data")
	})

	t.Run("without urgency unvisited stays infinite under RAVE", func(t *testing.T) {
		p := NewParams()
		parent := &SearchNode{Visits: 20, AMAFVisits: map[string]int{"a": 2}, AMAFValues: map[string]float64{"a": 1.5}}
		require.True(t, math.IsInf(p.score(parent, &SearchNode{AMAFKey: "a"}, policy), 1),
			"Should score +Inf")
	})

	t.Run("RAVE blends UCT and AMAF means", func(t *testing.T) {
		p := NewParams(WithRAVE(30, 0))
		parent := &SearchNode{
			Visits:     20,
			AMAFVisits: map[string]int{"a": 4},
			AMAFValues: map[string]float64{"a": 1},
		}
		child := &SearchNode{Visits: 5, Value: 4, AMAFKey: "a"}

		beta := math.Sqrt(30.0 / (3*20 + 30))
		want := (1-beta)*0.8 + beta*0.25 + math.Sqrt(math.Log(20)/5)
		require.InDelta(t, want, p.score(parent, child, policy), 1e-12, "Should blend with beta")
	})

	t.Run("RAVE defaults missing AMAF data to one half", func(t *testing.T) {
		p := NewParams(WithRAVE(30, 0))
		child := &SearchNode{Visits: 5, Value: 4, AMAFKey: "a"}

		beta := math.Sqrt(30.0 / (3*20 + 30))
		want := (1-beta)*0.8 + beta*0.5 + math.Sqrt(math.Log(20)/5)
		require.InDelta(t, want, p.score(&SearchNode{Visits: 20}, child, policy), 1e-12, "Should use 0.5")
	})
}

func TestSelectChild(t *testing.T) {
	build := func(stats ...[2]float64) *SearchArena {
		arena := newArena()
		total := 0
		for i, s := range stats {
			c := arena.add(root, game.Action{Kind: string(rune('a' + i))}, "p1", "")
			arena.Node(c).Visits = int(s[0])
			arena.Node(c).Value = s[1]
			total += int(s[0])
		}
		arena.Node(root).Visits = max(total, 1)
		return arena
	}

	t.Run("unvisited child beats any visited child", func(t *testing.T) {
		p := NewParams(WithoutRAVE())
		for _, visits := range []float64{1, 10, 1000} {
			arena := build([2]float64{visits, visits}, [2]float64{0, 0}, [2]float64{visits, 0})
			require.Equal(t, 2, p.selectChild(arena, root), "Should pick the unvisited child at %v visits", visits)
		}
	})

	t.Run("first unvisited child wins", func(t *testing.T) {
		p := NewParams(WithoutRAVE())
		arena := build([2]float64{3, 3}, [2]float64{0, 0}, [2]float64{0, 0})
		require.Equal(t, 2, p.selectChild(arena, root), "Should pick the earliest unvisited child")
	})

	t.Run("picks the best mean when exploration is off", func(t *testing.T) {
		p := NewParams(WithoutRAVE(), WithExploration(0))
		arena := build([2]float64{4, 1}, [2]float64{4, 3}, [2]float64{4, 2})
		require.Equal(t, 2, p.selectChild(arena, root), "Should pick the highest mean value")
	})

	t.Run("ties go to the earliest child", func(t *testing.T) {
		p := NewParams(WithoutRAVE())
		arena := build([2]float64{2, 1}, [2]float64{2, 1})
		require.Equal(t, 1, p.selectChild(arena, root), "Should keep creation order on ties")
	})
}
