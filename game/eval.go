package game

import "math"

const (
	PawnValue   = 1.0
	KnightValue = 2.5
	RookValue   = 5.0
	// KingValue outweighs every other piece of both sides put together
	KingValue = (PawnValue*8 + KnightValue*2 + RookValue*2) * 8
)

// Evaluate scores the board from side's perspective. Finished games score plus or
// minus KingValue; otherwise each piece adds its base value scaled by its strength and
// position, negated for the opponent's pieces.
func Evaluate(b *Board, side Side) float64 {
	if winner, over := b.Status().Winner(); over {
		if winner == side {
			return KingValue
		}
		return -KingValue
	}

	score := 0.0
	for _, piece := range b.Pieces() {
		value := baseValue(piece.Type) * b.multiplier(piece)
		if piece.Side == side {
			score += value
		} else {
			score -= value
		}
	}
	return truncateMillis(score)
}

func baseValue(t PieceType) float64 {
	switch t {
	case Pawn:
		return PawnValue
	case Knight:
		return KnightValue
	case Rook:
		return RookValue
	case King:
		return KingValue
	}
	return 0
}

func (b *Board) multiplier(piece Piece) float64 {
	return truncateMillis(1 + WinOdds(piece.Power, 0) + b.positionalBonus(piece))
}

// positionalBonus stays well below one so it can never outweigh a material difference.
func (b *Board) positionalBonus(piece Piece) float64 {
	switch piece.Type {
	case Pawn:
		return b.fileBonus(piece) + pawnRankBonus(b.advancement(piece))
	case Knight:
		return b.fileBonus(piece) + knightRankBonus(b.depth(piece)) + b.mobility(piece)
	case Rook:
		return b.fileBonus(piece) + rookRankBonus(b.depth(piece)) + b.mobility(piece)
	}
	return 0
}

func (b *Board) fileBonus(piece Piece) float64 {
	switch abs(piece.Pos.X - b.Width()/2) {
	case 0:
		return 0.25
	case 1:
		return 0.1
	}
	return 0
}

// advancement counts rows from the piece's own back rank.
func (b *Board) advancement(piece Piece) int {
	if piece.Side == White {
		return b.Height() - 1 - piece.Pos.Y
	}
	return piece.Pos.Y
}

// depth counts rows from the opponent's back rank.
func (b *Board) depth(piece Piece) int {
	return b.Height() - 1 - b.advancement(piece)
}

func pawnRankBonus(advancement int) float64 {
	switch advancement {
	case 2:
		return 0.1
	case 3:
		return 0.2
	case 4:
		return 0.25
	case 5:
		return 0.33
	case 6:
		return 0.5
	}
	return 0
}

func knightRankBonus(depth int) float64 {
	switch depth {
	case 0:
		return 0.1
	case 1, 3:
		return 0.33
	case 2:
		return 0.5
	}
	return 0
}

func rookRankBonus(depth int) float64 {
	switch depth {
	case 0:
		return 0.25
	case 1:
		return 0.5
	}
	return 0
}

// mobility rewards rooks and knights for available actions, weighted up for attacks
// on targets they are likely to beat.
func (b *Board) mobility(piece Piece) float64 {
	actions := b.PieceActions(piece)
	useful := 0
	for _, action := range actions {
		if action.Kind != AttackAction {
			continue
		}
		defender, _ := b.At(action.Dst)
		useful += attackValue(piece, defender)
	}
	return float64(len(actions)+useful) / 40.0
}

func attackValue(attacker, defender Piece) int {
	diff := attacker.Power - defender.Power
	switch {
	case defender.Type == King:
		return 4
	case attacker.Type == Knight && defender.Type == Rook:
		return 2 + max(0, diff)*3
	case defender.Type == attacker.Type && diff > 0:
		return diff * 2
	case attacker.Type == Rook && defender.Type == Knight && diff > 0:
		return diff
	case attacker.Type == Knight && defender.Type == Pawn && diff > 0:
		return diff
	}
	return 0
}

func truncateMillis(x float64) float64 {
	return math.Trunc(x*1000) / 1000
}
