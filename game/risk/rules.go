package risk

type Rules interface {
	MaxAttackTroops() int
	MaxDefendTroops() int
	DetermineAttackOutcome(attackerRolls, defenderRolls []int) (attackerLosses, defenderLosses int)
}

type StandardRules struct {
	MaxAttackDice int
	MaxDefendDice int
}

func NewStandardRules() *StandardRules {
	return &StandardRules{
		MaxAttackDice: 3,
		MaxDefendDice: 2,
	}
}

func (sr *StandardRules) MaxAttackTroops() int {
	return sr.MaxAttackDice
}

func (sr *StandardRules) MaxDefendTroops() int {
	return sr.MaxDefendDice
}

// DetermineAttackOutcome compares sorted rolls pairwise. Ties go to the defender.
func (sr *StandardRules) DetermineAttackOutcome(attackerRolls, defenderRolls []int) (attackerLosses, defenderLosses int) {
	battles := min(len(attackerRolls), len(defenderRolls))
	for i := 0; i < battles; i++ {
		if attackerRolls[i] > defenderRolls[i] {
			defenderLosses++
		} else {
			attackerLosses++
		}
	}
	return
}
