package searcher

import (
	"errors"
	"math"
	"powerchess/game"
)

// Result is the outcome of searching one position. Depth is the ply at which the
// position was searched; a smaller depth means a deeper look ahead.
type Result struct {
	Score  float64
	Action *game.Action
	Depth  int
}

var (
	ErrInvalidDepth = errors.New("max depth can't be less than 0")
	ErrInvalidSide  = errors.New("side must be white or black")
)

// Endgame extensions of the depth limit, by remaining piece count.
var depthExtensions = []struct {
	pieces int
	factor float64
}{
	{5, 1.3},
	{10, 1.2},
	{15, 1.1},
}

// depthLimit extends maxDepth once the board thins out, since branching shrinks.
func depthLimit(maxDepth, pieces int) int {
	for _, ext := range depthExtensions {
		if pieces <= ext.pieces {
			return int(math.Round(float64(maxDepth) * ext.factor))
		}
	}
	return maxDepth
}

func validSide(side game.Side) bool {
	return side == game.White || side == game.Black
}
