package searcher

import "powerchess/game"

func piece(t game.PieceType, side game.Side, power int) *game.Piece {
	p := game.NewPiece(t, side, 0, 0, power)
	return &p
}

func sq(x, y int) game.Square {
	return game.Square{X: x, Y: y}
}

func totalOdds(outcomes []Outcome) float64 {
	total := 0.0
	for _, o := range outcomes {
		total += o.Odds
	}
	return total
}
