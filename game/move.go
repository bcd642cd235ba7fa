package game

import "fmt"

// Square is a cell coordinate: X is the file (column), Y the row from the top.
type Square struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Action represents a move by the piece on Src.
type Action struct {
	Src  Square
	Dst  Square
	Kind MoveKind
}

func (a Action) IsStochastic() bool {
	return a.Kind.IsStochastic()
}

func (a Action) String() string {
	return fmt.Sprintf("%s (%d,%d)->(%d,%d)", a.Kind, a.Src.X, a.Src.Y, a.Dst.X, a.Dst.Y)
}
