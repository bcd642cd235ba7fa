package searcher

import (
	"fmt"
	"powerchess/game"
)

// Outcome is one way an action can play out. Several boards mean the player who moved
// picks among them, as with the piece chosen on promotion.
type Outcome struct {
	Boards []*game.Board
	Odds   float64
}

// Expand lists the outcomes of playing action on board. The odds of all outcomes sum
// to one.
func Expand(board *game.Board, action game.Action) []Outcome {
	switch action.Kind {
	case game.MoveAction, game.CastleAction, game.SacrificeAction:
		return []Outcome{certain(board.Apply(action, game.Random))}

	case game.AttackAction, game.EnPassantAttackAction:
		odds := attackOdds(board, action)
		return []Outcome{
			{Boards: []*game.Board{board.Apply(action, game.AttackerWins)}, Odds: odds},
			{Boards: []*game.Board{board.Apply(action, game.DefenderWins)}, Odds: 1 - odds},
		}

	case game.PromotionAttackAction:
		odds := attackOdds(board, action)
		return []Outcome{
			{Boards: []*game.Board{board.Apply(action, game.DefenderWins)}, Odds: 1 - odds},
			{Boards: promotions(board.Apply(action, game.AttackerWins)), Odds: odds},
		}

	case game.PromotionAction:
		return []Outcome{{Boards: promotions(board.Apply(action, game.Random)), Odds: 1}}
	}

	panic(fmt.Sprintf("cannot expand action %s: unexpected move kind", action))
}

func certain(board *game.Board) Outcome {
	return Outcome{Boards: []*game.Board{board}, Odds: 1}
}

func promotions(pending *game.Board) []*game.Board {
	return []*game.Board{pending.Promote(game.Rook), pending.Promote(game.Knight)}
}

func attackOdds(board *game.Board, action game.Action) float64 {
	attacker, ok := board.At(action.Src)
	if !ok {
		panic(fmt.Sprintf("cannot expand action %s: no attacker", action))
	}

	var defender game.Piece
	if action.Kind == game.EnPassantAttackAction {
		defender, ok = board.EnPassant()
	} else {
		defender, ok = board.At(action.Dst)
	}
	if !ok {
		panic(fmt.Sprintf("cannot expand action %s: no defender", action))
	}
	return game.PieceWinOdds(attacker, defender)
}
