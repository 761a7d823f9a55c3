package combat

import (
	"math"

	"github.com/cory-johannsen/pixelarena/internal/game/character"
)

// Stats are the combat-ready values derived from a character snapshot for a
// single fight. They are never persisted.
type Stats struct {
	TotalPower float64
	Offense    float64
	Defense    float64
	Speed      float64
	CritChance float64 // percent, capped at Tuning.CritCap
	MagicPower float64
	Focus      float64
}

// ScaleStat applies diminishing returns above the baseline:
// baseline + (raw-baseline)^power for raw > baseline, raw otherwise.
//
// Postcondition: ScaleStat(raw) == raw for raw <= baseline; strictly concave above it.
func ScaleStat(raw int, t Tuning) float64 {
	v := float64(raw)
	if v <= t.StatBaseline {
		return v
	}
	return t.StatBaseline + math.Pow(v-t.StatBaseline, t.DiminishingPower)
}

// LevelMultiplier returns 1 + min(LevelBonusMax, (level-1)*LevelBonusPerLvl).
//
// Postcondition: 1 <= result <= 1+LevelBonusMax for level >= 1.
func LevelMultiplier(level int, t Tuning) float64 {
	bonus := float64(level-1) * t.LevelBonusPerLvl
	if bonus < 0 {
		bonus = 0
	}
	return 1 + math.Min(t.LevelBonusMax, bonus)
}

// ComputeCombatStats converts a character's raw stats and level into combat stats.
// Crit chance is not level scaled.
//
// Postcondition: CritChance <= t.CritCap; result depends only on c.Stats and c.Level.
func ComputeCombatStats(c character.Character, t Tuning) Stats {
	lm := LevelMultiplier(c.Level, t)
	s := Stats{
		Offense:    ScaleStat(c.Stats.Strength, t) * t.OffenseWeight * lm,
		Defense:    ScaleStat(c.Stats.Vitality, t) * t.DefenseWeight * lm,
		Speed:      ScaleStat(c.Stats.Dexterity, t) * t.SpeedWeight * lm,
		MagicPower: ScaleStat(c.Stats.Intelligence, t) * t.MagicWeight * lm,
		Focus:      ScaleStat(c.Stats.Focus, t) * t.FocusWeight * lm,
		CritChance: math.Min(t.CritCap, ScaleStat(c.Stats.Luck, t)*t.CritWeight),
	}
	s.TotalPower = s.Offense + s.Defense + s.Speed + s.MagicPower + s.CritChance + s.Focus*t.FocusPowerShare
	return s
}
