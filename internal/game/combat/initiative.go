package combat

import "github.com/cory-johannsen/pixelarena/internal/game/dice"

// InitiativeChance returns the probability that the side with speed a swings
// before the side with speed b in a round.
//
// Postcondition: t.InitiativeMin <= result <= t.InitiativeMax.
func InitiativeChance(a, b float64, t Tuning) float64 {
	return clamp(t.InitiativeBase+(a-b)*t.InitiativePerSpeed, t.InitiativeMin, t.InitiativeMax)
}

// RollInitiative reports whether the attacker side acts first this round.
//
// Postcondition: consumes exactly one draw from src.
func RollInitiative(attacker, defender Stats, src dice.Source, t Tuning) bool {
	return src.Float64() < InitiativeChance(attacker.Speed, defender.Speed, t)
}
