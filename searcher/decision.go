package searcher

import (
	"math"
	"powerchess/game"
	"time"
)

func (e *Expectimax) search(board *game.Board, n node, limit int, deadline time.Time) Result {
	e.metrics.AddNode(n.depth)

	// The root always expands so a legal action is returned whenever one exists
	if board.IsOver() || n.depth > limit || (n.depth > 0 && e.expired(deadline)) {
		return e.leaf(board, n.depth)
	}

	cache := e.caches[n.side]
	key := board.Hash().Key()
	if cached, ok := cache.Get(key); ok && cached.Depth <= n.depth {
		e.cacheHits++
		e.metrics.AddCacheHit()
		return cached
	}

	actions := board.Actions(n.side)
	if len(actions) == 0 {
		return e.leaf(board, n.depth)
	}
	e.rand.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
	})

	maximizing := n.side == e.side
	best := Result{Score: worstScore(maximizing), Depth: n.depth}
	w := n.window
	for i, action := range actions {
		branchDeadline := deadline
		if n.depth == 0 {
			branchDeadline = e.share(len(actions) - i)
		}

		score := e.expectedScore(board, action, n.child(w), limit, branchDeadline)
		if !improves(maximizing, score, best.Score) {
			continue
		}
		chosen := action
		best.Score = score
		best.Action = &chosen
		if maximizing {
			w = w.raise(score)
		} else {
			w = w.lower(score)
		}
		if w.closed() {
			break
		}
	}

	// Scores outside the incoming window are bounds, not values
	if n.window.contains(best.Score) {
		cache.Set(key, best)
	}
	return best
}

func (e *Expectimax) leaf(board *game.Board, depth int) Result {
	return Result{Score: game.Evaluate(board, e.side), Depth: depth}
}

// expectedScore weighs the outcomes of action by their odds. Only a certain outcome
// inherits the alpha-beta window: a bound on one of several weighted outcomes says
// nothing about their sum.
func (e *Expectimax) expectedScore(board *game.Board, action game.Action, child node, limit int, deadline time.Time) float64 {
	outcomes := Expand(board, action)
	if len(outcomes) > 1 {
		child.window = fullWindow()
	}

	score := 0.0
	for _, outcome := range outcomes {
		score += outcome.Odds * e.bestBoard(outcome.Boards, child, limit, deadline)
	}
	return score
}

// bestBoard searches every candidate board and keeps the one preferred by the player
// who moved.
func (e *Expectimax) bestBoard(boards []*game.Board, child node, limit int, deadline time.Time) float64 {
	maximizing := child.side.Opponent() == e.side
	best := worstScore(maximizing)
	for _, board := range boards {
		score := e.search(board, child, limit, deadline).Score
		if improves(maximizing, score, best) {
			best = score
		}
	}
	return best
}

func worstScore(maximizing bool) float64 {
	if maximizing {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

func improves(maximizing bool, score, best float64) bool {
	if maximizing {
		return score > best
	}
	return score < best
}
