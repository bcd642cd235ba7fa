package game

func pc(t PieceType, side Side, power int) *Piece {
	p := NewPiece(t, side, 0, 0, power)
	return &p
}

func sq(x, y int) Square {
	return Square{X: x, Y: y}
}
