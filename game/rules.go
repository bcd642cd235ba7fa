package game

// MoveKind classifies moving the piece on src to dst. It returns Invalid for any
// move the piece rules do not allow.
func (b *Board) MoveKind(src, dst Square) MoveKind {
	piece, ok := b.At(src)
	if !ok || src == dst || !b.InBounds(dst) {
		return Invalid
	}

	switch piece.Type {
	case Pawn:
		return b.pawnMoveKind(piece, dst)
	case Knight:
		return b.knightMoveKind(piece, dst)
	case Rook:
		return b.rookMoveKind(piece, dst)
	case King:
		return b.kingMoveKind(piece, dst)
	}
	return Invalid
}

// forward is the row direction a side's pawns advance in.
func forward(side Side) int {
	if side == White {
		return -1
	}
	return 1
}

func (b *Board) lastRank(side Side) int {
	if side == White {
		return 0
	}
	return b.Height() - 1
}

func (b *Board) pawnMoveKind(pawn Piece, dst Square) MoveKind {
	dx := abs(dst.X - pawn.Pos.X)
	dy := abs(dst.Y - pawn.Pos.Y)

	if (dst.Y-pawn.Pos.Y)*forward(pawn.Side) < 0 {
		return Invalid // backwards
	}
	if dy == 0 || dy > 2 || dx > 1 || (dx == 1 && dy == 2) {
		return Invalid
	}

	if dx == 1 {
		return b.pawnDiagonalKind(pawn, dst)
	}

	if dy == 2 && b.occupied(dst.X, dst.Y-forward(pawn.Side)) {
		return Invalid // pawns cannot skip pieces
	}
	if b.occupied(dst.X, dst.Y) {
		return Invalid
	}
	if dst.Y == b.lastRank(pawn.Side) {
		return PromotionAction
	}
	return MoveAction
}

func (b *Board) pawnDiagonalKind(pawn Piece, dst Square) MoveKind {
	other, ok := b.At(dst)
	if !ok {
		victim, hasVictim := b.EnPassant()
		if hasVictim && !pawn.IsAlly(victim) &&
			victim.Pos.X == dst.X && dst.Y == victim.Pos.Y+forward(pawn.Side) {
			return EnPassantAttackAction
		}
		return Invalid
	}

	if pawn.IsAlly(other) {
		return sacrificeKind(other)
	}
	if dst.Y == b.lastRank(pawn.Side) {
		return PromotionAttackAction
	}
	return AttackAction
}

func (b *Board) knightMoveKind(knight Piece, dst Square) MoveKind {
	dx := abs(dst.X - knight.Pos.X)
	dy := abs(dst.Y - knight.Pos.Y)

	if dx > 2 || dy > 2 {
		return Invalid
	}
	if (dx == 1 && dy == 2) || (dx == 2 && dy == 1) {
		return Invalid // no L moves
	}

	if dx <= 1 && dy <= 1 {
		if b.occupied(dst.X, dst.Y) {
			return Invalid // cannot attack immediate squares
		}
		return MoveAction
	}

	// Two-square moves must jump over an occupied square
	midX := knight.Pos.X + (dst.X-knight.Pos.X)/2
	midY := knight.Pos.Y + (dst.Y-knight.Pos.Y)/2
	if !b.occupied(midX, midY) {
		return Invalid
	}
	return b.landingKind(knight, dst)
}

func (b *Board) rookMoveKind(rook Piece, dst Square) MoveKind {
	dx := dst.X - rook.Pos.X
	dy := dst.Y - rook.Pos.Y
	if dx != 0 && dy != 0 {
		return Invalid
	}

	stepX, stepY := sign(dx), sign(dy)
	for x, y := rook.Pos.X+stepX, rook.Pos.Y+stepY; x != dst.X || y != dst.Y; x, y = x+stepX, y+stepY {
		if b.occupied(x, y) {
			return Invalid // rooks can't skip pieces
		}
	}
	return b.landingKind(rook, dst)
}

func (b *Board) kingMoveKind(king Piece, dst Square) MoveKind {
	dx := abs(dst.X - king.Pos.X)
	dy := abs(dst.Y - king.Pos.Y)

	if king.CanCastle && dy == 0 && dx > 1 {
		midX := min(king.Pos.X, dst.X) + 1
		if b.occupied(midX, dst.Y) {
			return Invalid
		}
		rook, ok := b.At(dst)
		if ok && rook.Type == Rook && king.IsAlly(rook) && rook.CanCastle {
			return CastleAction
		}
	}

	if dx > 1 || dy > 1 {
		return Invalid
	}

	other, ok := b.At(dst)
	if !ok {
		return MoveAction
	}
	if king.IsAlly(other) {
		return Invalid // kings cannot sacrifice allies
	}
	return AttackAction
}

func (b *Board) landingKind(piece Piece, dst Square) MoveKind {
	other, ok := b.At(dst)
	if !ok {
		return MoveAction
	}
	if piece.IsAlly(other) {
		return sacrificeKind(other)
	}
	return AttackAction
}

// sacrificeKind classifies landing on an ally. Kings can't be sacrificed.
func sacrificeKind(ally Piece) MoveKind {
	if ally.Type == King {
		return Invalid
	}
	return SacrificeAction
}

var (
	pawnDeltas   = [][2]int{{0, 1}, {0, 2}, {-1, 1}, {1, 1}}
	knightDeltas = [][2]int{
		{0, 1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {-1, -1}, {-1, 0}, {-1, 1},
		{0, 2}, {0, -2}, {2, -2}, {2, 0}, {2, 2}, {-2, -2}, {-2, 0}, {-2, 2},
	}
	kingDeltas = [][2]int{
		{0, 1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {-1, -1}, {-1, 0}, {-1, 1},
		{-2, 0}, {2, 0},
	}
)

func (b *Board) deltas(t PieceType) [][2]int {
	switch t {
	case Pawn:
		return pawnDeltas
	case Knight:
		return knightDeltas
	case King:
		return kingDeltas
	}

	reach := max(b.Width(), b.Height()) - 1
	rook := make([][2]int, 0, 4*reach)
	for d := 1; d <= reach; d++ {
		rook = append(rook, [2]int{0, d}, [2]int{0, -d}, [2]int{d, 0}, [2]int{-d, 0})
	}
	return rook
}

// PieceActions lists the legal actions of one piece.
func (b *Board) PieceActions(piece Piece) []Action {
	actions := []Action{}
	for _, d := range b.deltas(piece.Type) {
		dy := d[1]
		if piece.Side == White {
			dy = -dy
		}
		dst := Square{X: piece.Pos.X + d[0], Y: piece.Pos.Y + dy}
		if kind := b.MoveKind(piece.Pos, dst); kind != Invalid {
			actions = append(actions, Action{Src: piece.Pos, Dst: dst, Kind: kind})
		}
	}
	return actions
}

// Actions lists every legal action for side, in row-major piece order.
func (b *Board) Actions(side Side) []Action {
	actions := []Action{}
	for _, piece := range b.Pieces() {
		if piece.Side == side {
			actions = append(actions, b.PieceActions(piece)...)
		}
	}
	return actions
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
