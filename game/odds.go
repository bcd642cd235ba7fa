package game

import "math"

// WinOdds is the probability that an attacker of power a defeats a defender of power b.
func WinOdds(a, b int) float64 {
	odds := math.Pow(2, -float64(1+abs(a-b)))
	if a >= b {
		return 1 - odds
	}
	return odds
}

// PieceWinOdds applies WinOdds to two pieces. A king facing a non-king piece fights
// with power 0; the opposing piece keeps its power.
func PieceWinOdds(attacker, defender Piece) float64 {
	attackPower := attacker.Power
	defendPower := defender.Power
	if attacker.Type == King && defender.Type != King {
		attackPower = 0
	} else if defender.Type == King && attacker.Type != King {
		defendPower = 0
	}
	return WinOdds(attackPower, defendPower)
}

// SacrificePower is the power of a piece after absorbing a sacrificed ally.
func SacrificePower(owner, sacrificed int) int {
	if owner < 0 {
		switch {
		case owner > sacrificed:
			return owner
		case owner == sacrificed:
			return owner + 1
		default:
			return sacrificed
		}
	}
	if sacrificed < 0 {
		return owner
	}
	return owner + sacrificed + 1
}
