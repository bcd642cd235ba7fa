package searcher

import (
	"math"
	"powerchess/game"
)

// window holds the alpha-beta bounds of a node. Tightening returns a new window.
type window struct {
	alpha float64
	beta  float64
}

func fullWindow() window {
	return window{alpha: math.Inf(-1), beta: math.Inf(1)}
}

func (w window) raise(score float64) window {
	w.alpha = max(w.alpha, score)
	return w
}

func (w window) lower(score float64) window {
	w.beta = min(w.beta, score)
	return w
}

func (w window) closed() bool {
	return w.beta <= w.alpha
}

// contains reports whether score lies strictly inside the bounds. Only such scores are
// exact; anything else may be a bound produced by a cutoff.
func (w window) contains(score float64) bool {
	return w.alpha < score && score < w.beta
}

// node is the search state handed to each recursive call.
type node struct {
	side   game.Side // side to move
	window window
	depth  int
}

func root(side game.Side) node {
	return node{side: side, window: fullWindow()}
}

func (n node) child(w window) node {
	return node{side: n.side.Opponent(), window: w, depth: n.depth + 1}
}
