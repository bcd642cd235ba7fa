package game

import "math/big"

const (
	cellBits  = 6
	emptyCell = 1 << cellBits
)

// PositionHash packs every cell of a board into one wide integer. An 8x5 board needs
// 240 bits, more than any native integer holds.
type PositionHash struct {
	v *big.Int
}

// Key returns a comparable form of the hash for use as a map key.
func (h PositionHash) Key() string {
	if h.v == nil {
		return ""
	}
	return string(h.v.Bytes())
}

func (h PositionHash) String() string {
	if h.v == nil {
		return "0"
	}
	return h.v.String()
}

func (h PositionHash) Cmp(other PositionHash) int {
	return h.Int().Cmp(other.Int())
}

// Int returns a copy of the underlying integer.
func (h PositionHash) Int() *big.Int {
	if h.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(h.v)
}

// cellHash encodes one cell: bits 0-1 piece type, bit 2 side, bits 3-5 power with the
// magnitude clamped to 3 and the sign in bit 5. Empty cells use the first code past
// the 6-bit range.
func cellHash(p *Piece) uint64 {
	if p == nil {
		return emptyCell
	}

	power := uint64(min(abs(p.Power), 3))
	if p.Power < 0 {
		power |= 0b100
	}
	return uint64(p.Type) | uint64(p.Side)<<2 | power<<3
}

// Hash computes the position hash. Each row takes width*6 bits, starting from the top
// row in the lowest bits.
func (b *Board) Hash() PositionHash {
	h := new(big.Int)
	cell := new(big.Int)
	rowBits := b.Width() * cellBits
	for y, row := range b.rows {
		for x, p := range row {
			cell.SetUint64(cellHash(p))
			h.Or(h, cell.Lsh(cell, uint(y*rowBits+x*cellBits)))
		}
	}
	return PositionHash{v: h}
}
