package game

import (
	"encoding/json"
	"fmt"
)

type pieceJSON struct {
	Type      string `json:"type"`
	Side      string `json:"side"`
	Position  [2]int `json:"position"`
	Power     int    `json:"power"`
	CanCastle bool   `json:"canCastle,omitempty"`
}

type boardJSON struct {
	Squares    [][]*pieceJSON `json:"squares"`
	EnPassant  *pieceJSON     `json:"enPassant"`
	Promotion  *pieceJSON     `json:"promotion"`
	GameStatus string         `json:"gameStatus"`
}

type actionJSON struct {
	Src  [2]int `json:"src"`
	Dst  [2]int `json:"dst"`
	Type string `json:"type"`
}

func toPieceJSON(p *Piece) *pieceJSON {
	if p == nil {
		return nil
	}
	return &pieceJSON{
		Type:      p.Type.String(),
		Side:      p.Side.String(),
		Position:  [2]int{p.Pos.X, p.Pos.Y},
		Power:     p.Power,
		CanCastle: p.CanCastle,
	}
}

func fromPieceJSON(j *pieceJSON) (*Piece, error) {
	if j == nil {
		return nil, nil
	}
	t, err := parsePieceType(j.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, j.Type)
	}
	side, err := ParseSide(j.Side)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, j.Side)
	}
	return &Piece{
		Type:      t,
		Side:      side,
		Pos:       Square{X: j.Position[0], Y: j.Position[1]},
		Power:     j.Power,
		CanCastle: j.CanCastle,
	}, nil
}

func (b *Board) MarshalJSON() ([]byte, error) {
	squares := make([][]*pieceJSON, len(b.rows))
	for y, row := range b.rows {
		squares[y] = make([]*pieceJSON, len(row))
		for x, cell := range row {
			squares[y][x] = toPieceJSON(cell)
		}
	}
	return json.Marshal(boardJSON{
		Squares:    squares,
		EnPassant:  toPieceJSON(b.enPassant),
		Promotion:  toPieceJSON(b.promotion),
		GameStatus: b.status.String(),
	})
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var raw boardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	rows := make([][]*Piece, len(raw.Squares))
	for y, row := range raw.Squares {
		if len(row) != len(raw.Squares[0]) {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedBoard, y, len(row), len(raw.Squares[0]))
		}
		rows[y] = make([]*Piece, len(row))
		for x, cell := range row {
			p, err := fromPieceJSON(cell)
			if err != nil {
				return fmt.Errorf("cell (%d,%d): %w", x, y, err)
			}
			if p != nil {
				p.Pos = Square{X: x, Y: y}
			}
			rows[y][x] = p
		}
	}

	// En passant and promotion markers refer to pieces on the grid
	marker := func(j *pieceJSON) (*Piece, error) {
		p, err := fromPieceJSON(j)
		if err != nil || p == nil {
			return nil, err
		}
		if p.Pos.Y < 0 || p.Pos.Y >= len(rows) || p.Pos.X < 0 || p.Pos.X >= len(rows[p.Pos.Y]) {
			return nil, fmt.Errorf("%w: marker outside the board at (%d,%d)", ErrMalformedBoard, p.Pos.X, p.Pos.Y)
		}
		if onGrid := rows[p.Pos.Y][p.Pos.X]; onGrid != nil {
			return onGrid, nil
		}
		return p, nil
	}
	enPassant, err := marker(raw.EnPassant)
	if err != nil {
		return fmt.Errorf("en passant: %w", err)
	}
	promotion, err := marker(raw.Promotion)
	if err != nil {
		return fmt.Errorf("promotion: %w", err)
	}
	status, err := parseGameStatus(raw.GameStatus)
	if err != nil {
		return fmt.Errorf("%w: %q", err, raw.GameStatus)
	}

	*b = Board{rows: rows, enPassant: enPassant, promotion: promotion, status: status}
	return nil
}

// ParseBoard decodes a serialized board.
func ParseBoard(data []byte) (*Board, error) {
	b := &Board{}
	if err := json.Unmarshal(data, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(actionJSON{
		Src:  [2]int{a.Src.X, a.Src.Y},
		Dst:  [2]int{a.Dst.X, a.Dst.Y},
		Type: a.Kind.String(),
	})
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var raw actionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Action{
		Src:  Square{X: raw.Src[0], Y: raw.Src[1]},
		Dst:  Square{X: raw.Dst[0], Y: raw.Dst[1]},
		Kind: parseMoveKind(raw.Type),
	}
	return nil
}

func (s Side) MarshalText() ([]byte, error) {
	if s != White && s != Black {
		return nil, ErrUnknownSide
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	side, err := ParseSide(string(text))
	if err != nil {
		return fmt.Errorf("%w: %q", err, text)
	}
	*s = side
	return nil
}
