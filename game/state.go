package game

import (
	"golang.org/x/exp/rand"
)

// Piece is an immutable value. Use the With* helpers to derive modified copies.
type Piece struct {
	Type      PieceType
	Side      Side
	Pos       Square
	Power     int
	CanCastle bool
}

// NewPiece returns an unmoved piece. Kings and rooks start with castling rights.
func NewPiece(t PieceType, side Side, x, y, power int) Piece {
	return Piece{
		Type:      t,
		Side:      side,
		Pos:       Square{X: x, Y: y},
		Power:     power,
		CanCastle: t == King || t == Rook,
	}
}

func (p Piece) WithPower(power int) Piece {
	p.Power = power
	return p
}

func (p Piece) WithPos(sq Square) Piece {
	p.Pos = sq
	return p
}

func (p Piece) moved() Piece {
	p.CanCastle = false
	return p
}

func (p Piece) IsAlly(other Piece) bool {
	return p.Side == other.Side
}

// Board represents the position at any point of the game. Rows are indexed by Y from
// the top (black's back rank) and cells by X. Empty cells are nil.
type Board struct {
	rows      [][]*Piece
	enPassant *Piece
	promotion *Piece
	status    GameStatus
}

// NewBoard copies the grid into a new in-progress board. Piece positions are taken
// from their grid coordinates.
func NewBoard(rows [][]*Piece) *Board {
	grid := make([][]*Piece, len(rows))
	for y, row := range rows {
		grid[y] = make([]*Piece, len(row))
		for x, cell := range row {
			if cell == nil {
				continue
			}
			p := cell.WithPos(Square{X: x, Y: y})
			grid[y][x] = &p
		}
	}
	return &Board{rows: grid, status: InProgress}
}

// StartingBoard returns the standard 5x8 starting position.
func StartingBoard() *Board {
	backRank := func(side Side, y int) []*Piece {
		types := []PieceType{Rook, Knight, King, Knight, Rook}
		row := make([]*Piece, len(types))
		for x, t := range types {
			p := NewPiece(t, side, x, y, 0)
			row[x] = &p
		}
		return row
	}
	pawns := func(side Side, y int) []*Piece {
		row := make([]*Piece, 5)
		for x := range row {
			p := NewPiece(Pawn, side, x, y, 0)
			row[x] = &p
		}
		return row
	}

	rows := [][]*Piece{
		backRank(Black, 0),
		pawns(Black, 1),
		make([]*Piece, 5),
		make([]*Piece, 5),
		make([]*Piece, 5),
		make([]*Piece, 5),
		pawns(White, 6),
		backRank(White, 7),
	}
	return &Board{rows: rows, status: InProgress}
}

func (b *Board) Width() int {
	if len(b.rows) == 0 {
		return 0
	}
	return len(b.rows[0])
}

func (b *Board) Height() int {
	return len(b.rows)
}

func (b *Board) Status() GameStatus {
	return b.status
}

func (b *Board) IsOver() bool {
	return b.status != InProgress
}

func (b *Board) EnPassant() (Piece, bool) {
	if b.enPassant == nil {
		return Piece{}, false
	}
	return *b.enPassant, true
}

func (b *Board) PendingPromotion() bool {
	return b.promotion != nil
}

func (b *Board) InBounds(sq Square) bool {
	return sq.X >= 0 && sq.Y >= 0 && sq.Y < b.Height() && sq.X < b.Width()
}

// At returns the piece on sq, if any.
func (b *Board) At(sq Square) (Piece, bool) {
	if !b.InBounds(sq) {
		return Piece{}, false
	}
	p := b.rows[sq.Y][sq.X]
	if p == nil {
		return Piece{}, false
	}
	return *p, true
}

func (b *Board) occupied(x, y int) bool {
	_, ok := b.At(Square{X: x, Y: y})
	return ok
}

// Pieces lists every piece in row-major order.
func (b *Board) Pieces() []Piece {
	pieces := []Piece{}
	for _, row := range b.rows {
		for _, cell := range row {
			if cell != nil {
				pieces = append(pieces, *cell)
			}
		}
	}
	return pieces
}

func (b *Board) PieceCount() int {
	count := 0
	for _, row := range b.rows {
		for _, cell := range row {
			if cell != nil {
				count++
			}
		}
	}
	return count
}

func (b *Board) copy() *Board {
	c := *b
	return &c
}

// setPiece returns a grid with sq replaced. Only the touched row is copied.
func setPiece(rows [][]*Piece, p *Piece, sq Square) [][]*Piece {
	grid := make([][]*Piece, len(rows))
	copy(grid, rows)
	row := make([]*Piece, len(rows[sq.Y]))
	copy(row, rows[sq.Y])
	if p == nil {
		row[sq.X] = nil
	} else {
		placed := p.WithPos(sq).moved()
		row[sq.X] = &placed
	}
	grid[sq.Y] = row
	return grid
}

func removePiece(rows [][]*Piece, sq Square) [][]*Piece {
	return setPiece(rows, nil, sq)
}

func movePiece(rows [][]*Piece, src, dst Square) ([][]*Piece, *Piece) {
	piece := *rows[src.Y][src.X]
	grid := setPiece(removePiece(rows, src), &piece, dst)

	var enPassant *Piece
	if piece.Type == Pawn && abs(src.Y-dst.Y) == 2 {
		enPassant = grid[dst.Y][dst.X]
	}
	return grid, enPassant
}

// Apply plays the action and returns the resulting board. Combats are settled by
// resolution. Invalid actions leave the board unchanged.
func (b *Board) Apply(action Action, resolution Resolution) *Board {
	src, dst := action.Src, action.Dst
	if src == dst {
		return b
	}
	if _, ok := b.At(src); !ok {
		return b
	}

	switch b.MoveKind(src, dst) {
	case MoveAction:
		return b.doMove(src, dst)
	case AttackAction:
		next, _ := b.doAttack(src, dst, resolution)
		return next
	case SacrificeAction:
		return b.doSacrifice(src, dst)
	case EnPassantAttackAction:
		return b.doEnPassantAttack(src, dst, resolution)
	case PromotionAction:
		return b.doPromotion(src, dst)
	case PromotionAttackAction:
		return b.doPromotionAttack(src, dst, resolution)
	case CastleAction:
		return b.doCastle(src, dst)
	default:
		return b
	}
}

func (b *Board) doMove(src, dst Square) *Board {
	next := b.copy()
	next.rows, next.enPassant = movePiece(b.rows, src, dst)
	return next
}

// combat settles an attack and returns whether the attacker won together with the
// surviving piece, already weakened by one power.
func combat(attacker, defender Piece, resolution Resolution) (bool, Piece) {
	won := false
	switch resolution {
	case AttackerWins:
		won = true
	case DefenderWins:
		won = false
	default:
		won = rand.Float64() < PieceWinOdds(attacker, defender)
	}

	if won {
		return true, attacker.WithPower(attacker.Power - 1).WithPos(defender.Pos)
	}
	return false, defender.WithPower(defender.Power - 1)
}

func statusAfterCombat(status GameStatus, attackerWon bool, attacker, defender Piece) GameStatus {
	if attackerWon && defender.Type == King {
		return wonBy(attacker.Side)
	}
	if !attackerWon && attacker.Type == King {
		return wonBy(defender.Side)
	}
	return status
}

func (b *Board) doAttack(src, dst Square, resolution Resolution) (*Board, bool) {
	attacker := *b.rows[src.Y][src.X]
	defender := *b.rows[dst.Y][dst.X]
	won, survivor := combat(attacker, defender, resolution)

	next := b.copy()
	next.rows = removePiece(setPiece(b.rows, &survivor, dst), src)
	next.enPassant = nil
	next.status = statusAfterCombat(b.status, won, attacker, defender)
	return next, won
}

func (b *Board) doSacrifice(src, dst Square) *Board {
	owner := *b.rows[src.Y][src.X]
	sacrificed := *b.rows[dst.Y][dst.X]

	merged := owner.WithPower(SacrificePower(owner.Power, sacrificed.Power))
	next := b.copy()
	next.rows = removePiece(setPiece(b.rows, &merged, dst), src)
	next.enPassant = nil
	return next
}

func (b *Board) doEnPassantAttack(src, dst Square, resolution Resolution) *Board {
	attacker := *b.rows[src.Y][src.X]
	victim := *b.enPassant
	won, survivor := combat(attacker, victim, resolution)

	next := b.copy()
	if won {
		next.rows = setPiece(removePiece(removePiece(b.rows, victim.Pos), src), &survivor, dst)
	} else {
		next.rows = setPiece(removePiece(b.rows, src), &survivor, victim.Pos)
	}
	next.enPassant = nil
	return next
}

func (b *Board) doPromotion(src, dst Square) *Board {
	next := b.doMove(src, dst)
	next.promotion = next.rows[dst.Y][dst.X]
	return next
}

func (b *Board) doPromotionAttack(src, dst Square, resolution Resolution) *Board {
	next, won := b.doAttack(src, dst, resolution)
	if won {
		next.promotion = next.rows[dst.Y][dst.X]
	}
	return next
}

func (b *Board) doCastle(src, dst Square) *Board {
	rook := *b.rows[dst.Y][dst.X]
	rookX := min(src.X, dst.X) + 1

	next := b.copy()
	rows, enPassant := movePiece(b.rows, src, dst)
	next.rows = setPiece(rows, &rook, Square{X: rookX, Y: dst.Y})
	next.enPassant = enPassant
	return next
}

// Promote resolves a pending promotion into a fresh rook or knight.
func (b *Board) Promote(t PieceType) *Board {
	if b.promotion == nil {
		return b
	}
	if t != Knight {
		t = Rook
	}
	pending := *b.promotion
	promoted := NewPiece(t, pending.Side, pending.Pos.X, pending.Pos.Y, 0)

	next := b.copy()
	next.rows = setPiece(b.rows, &promoted, pending.Pos)
	next.promotion = nil
	return next
}

// WithStatus returns a copy of the board carrying the given status.
func (b *Board) WithStatus(status GameStatus) *Board {
	next := b.copy()
	next.status = status
	return next
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// WithEnPassant marks the pawn on sq as capturable en passant.
func (b *Board) WithEnPassant(sq Square) *Board {
	p, ok := b.At(sq)
	if !ok || p.Type != Pawn {
		return b
	}
	next := b.copy()
	next.enPassant = b.rows[sq.Y][sq.X]
	return next
}
