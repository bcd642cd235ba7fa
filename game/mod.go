package game

import "errors"

// Board values are immutable - operations on a Board always return a new copy

type Side int

const (
	White Side = iota
	Black
)

func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string {
	switch s {
	case White:
		return "WHITE"
	case Black:
		return "BLACK"
	}
	return "UNKNOWN"
}

// ParseSide converts the wire name of a side back into a Side.
func ParseSide(name string) (Side, error) {
	switch name {
	case "WHITE":
		return White, nil
	case "BLACK":
		return Black, nil
	}
	return White, ErrUnknownSide
}

type PieceType int

const (
	Pawn PieceType = iota
	Knight
	Rook
	King
)

func (t PieceType) String() string {
	switch t {
	case Pawn:
		return "PAWN"
	case Knight:
		return "KNIGHT"
	case Rook:
		return "ROOK"
	case King:
		return "KING"
	}
	return "UNKNOWN"
}

func parsePieceType(name string) (PieceType, error) {
	switch name {
	case "PAWN":
		return Pawn, nil
	case "KNIGHT":
		return Knight, nil
	case "ROOK":
		return Rook, nil
	case "KING":
		return King, nil
	}
	return Pawn, ErrUnknownPieceType
}

type GameStatus int

const (
	InProgress GameStatus = iota
	WhiteWon
	BlackWon
)

func (s GameStatus) String() string {
	switch s {
	case InProgress:
		return "IN_PROGRESS"
	case WhiteWon:
		return "WHITE_WON"
	case BlackWon:
		return "BLACK_WON"
	}
	return "UNKNOWN"
}

func parseGameStatus(name string) (GameStatus, error) {
	switch name {
	case "IN_PROGRESS", "":
		return InProgress, nil
	case "WHITE_WON":
		return WhiteWon, nil
	case "BLACK_WON":
		return BlackWon, nil
	}
	return InProgress, ErrUnknownStatus
}

// Winner reports the winning side of a finished game.
func (s GameStatus) Winner() (Side, bool) {
	switch s {
	case WhiteWon:
		return White, true
	case BlackWon:
		return Black, true
	}
	return White, false
}

func wonBy(side Side) GameStatus {
	if side == White {
		return WhiteWon
	}
	return BlackWon
}

// Resolution forces the result of a combat. Random realizes the win odds.
type Resolution int

const (
	Random Resolution = iota
	AttackerWins
	DefenderWins
)

var (
	ErrUnknownPieceType = errors.New("unknown piece type")
	ErrUnknownSide      = errors.New("unknown side")
	ErrUnknownStatus    = errors.New("unknown game status")
	ErrMalformedBoard   = errors.New("malformed board")
)
