// Package progression implements the experience curve, fight XP awards and
// level-up application.
package progression

import (
	"math"

	"github.com/cory-johannsen/pixelarena/internal/game/character"
	"github.com/cory-johannsen/pixelarena/internal/game/dice"
)

// Infinite is returned by the curve functions for levels at or past the cap.
const Infinite = math.MaxInt

// Rules holds the configurable progression constants.
type Rules struct {
	WinXP              int
	LossXP             int
	LevelBonus         float64 // per-level XP multiplier bonus above level 1
	VarianceMin        float64
	VarianceRange      float64
	StatPointsPerLevel int
}

// DefaultRules returns the canonical progression constants.
func DefaultRules() Rules {
	return Rules{
		WinXP:              100,
		LossXP:             25,
		LevelBonus:         0.05,
		VarianceMin:        0.9,
		VarianceRange:      0.2,
		StatPointsPerLevel: 3,
	}
}

// XPRequiredForNextLevel returns the XP needed to advance from level to level+1.
//
// Postcondition: Returns floor(100 * level^1.8) for level < MaxLevel, Infinite otherwise.
func XPRequiredForNextLevel(level int) int {
	if level >= character.MaxLevel {
		return Infinite
	}
	if level < 1 {
		level = 1
	}
	return int(math.Floor(100 * math.Pow(float64(level), 1.8)))
}

// TotalXPForLevel returns the cumulative XP at which a character reaches level.
//
// Postcondition: 0 for level <= 1; Infinite for level > MaxLevel.
func TotalXPForLevel(level int) int {
	if level > character.MaxLevel {
		return Infinite
	}
	total := 0
	for i := 1; i < level; i++ {
		total += XPRequiredForNextLevel(i)
	}
	return total
}

// LevelUp describes the result of GainXP.
type LevelUp struct {
	Character    character.Character
	LeveledUp    bool
	LevelsGained int
	NewLevel     int
}

// GainXP adds xp to c and applies every level-up it earns, granting
// r.StatPointsPerLevel unspent stat points per level gained. Experience
// saturates at Infinite; negative xp is ignored.
//
// Postcondition: c is not modified; NewLevel <= MaxLevel; Experience >= 0.
func GainXP(c character.Character, xp int, r Rules) LevelUp {
	out := c.Clone()
	if out.Level < 1 {
		out.Level = 1
	}
	start := out.Level
	out.Experience = addXP(max(0, out.Experience), max(0, xp))
	for out.Level < character.MaxLevel && out.Experience >= TotalXPForLevel(out.Level+1) {
		out.Level++
	}
	gained := out.Level - start
	out.StatPoints += gained * r.StatPointsPerLevel
	return LevelUp{
		Character:    out,
		LeveledUp:    gained > 0,
		LevelsGained: gained,
		NewLevel:     out.Level,
	}
}

// addXP adds two non-negative amounts, saturating at Infinite.
func addXP(have, xp int) int {
	if xp > Infinite-have {
		return Infinite
	}
	return have + xp
}

// CalculateFightXP returns the XP award for a fight at level. Draws pay the loss
// amount. Consumes exactly one draw from src.
//
// Postcondition: result >= 0.
func CalculateFightXP(level int, won bool, r Rules, src dice.Source) int {
	base := r.LossXP
	if won {
		base = r.WinXP
	}
	if level < 1 {
		level = 1
	}
	mult := 1 + float64(level-1)*r.LevelBonus
	variance := r.VarianceMin + src.Float64()*r.VarianceRange
	xp := int(math.Floor(float64(base) * mult * variance))
	if xp < 0 {
		return 0
	}
	return xp
}

// Progress is a character's position within its current level.
type Progress struct {
	CurrentXPInLevel int
	XPForNextLevel   int
	Percentage       float64
	IsMaxLevel       bool
}

// ProgressFor derives the level progress bar for (level, experience).
//
// Postcondition: 0 <= Percentage <= 100.
func ProgressFor(level, experience int) Progress {
	if level >= character.MaxLevel {
		return Progress{XPForNextLevel: Infinite, Percentage: 100, IsMaxLevel: true}
	}
	floor := TotalXPForLevel(level)
	need := XPRequiredForNextLevel(level)
	cur := experience - floor
	if cur < 0 {
		cur = 0
	}
	pct := math.Min(100, float64(cur)/float64(need)*100)
	return Progress{CurrentXPInLevel: cur, XPForNextLevel: need, Percentage: pct}
}
