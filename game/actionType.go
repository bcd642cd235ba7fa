package game

// MoveKind represents the type of action a piece performs.
type MoveKind int

const (
	Invalid MoveKind = iota
	MoveAction
	AttackAction
	SacrificeAction
	EnPassantAttackAction
	PromotionAction
	PromotionAttackAction
	CastleAction
)

var moveKindNames = [...]string{
	Invalid:               "INVALID",
	MoveAction:            "MOVE",
	AttackAction:          "ATTACK",
	SacrificeAction:       "SACRIFICE",
	EnPassantAttackAction: "EN_PASSANT_ATTACK",
	PromotionAction:       "PROMOTION",
	PromotionAttackAction: "PROMOTION_ATTACK",
	CastleAction:          "CASTLE",
}

func (k MoveKind) String() string {
	if k < 0 || int(k) >= len(moveKindNames) {
		return "UNKNOWN"
	}
	return moveKindNames[k]
}

func parseMoveKind(name string) MoveKind {
	for k, n := range moveKindNames {
		if n == name {
			return MoveKind(k)
		}
	}
	return Invalid
}

// IsStochastic reports whether the outcome of the action is decided by combat.
func (k MoveKind) IsStochastic() bool {
	return k == AttackAction || k == EnPassantAttackAction || k == PromotionAttackAction
}

func (k MoveKind) IsPromotion() bool {
	return k == PromotionAction || k == PromotionAttackAction
}
