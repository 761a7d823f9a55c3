package progression_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/pixelarena/internal/game/character"
	"github.com/cory-johannsen/pixelarena/internal/game/dice"
	"github.com/cory-johannsen/pixelarena/internal/game/progression"
)

var rules = progression.DefaultRules()

func TestXPRequiredForNextLevel(t *testing.T) {
	assert.Equal(t, 100, progression.XPRequiredForNextLevel(1))
	assert.Equal(t, 348, progression.XPRequiredForNextLevel(2))
	assert.Equal(t, 722, progression.XPRequiredForNextLevel(3))
	assert.Equal(t, progression.Infinite, progression.XPRequiredForNextLevel(99))
	assert.Equal(t, progression.Infinite, progression.XPRequiredForNextLevel(120))
}

func TestTotalXPForLevel(t *testing.T) {
	assert.Equal(t, 0, progression.TotalXPForLevel(1))
	assert.Equal(t, 100, progression.TotalXPForLevel(2))
	assert.Equal(t, 448, progression.TotalXPForLevel(3))
	assert.Equal(t, 1170, progression.TotalXPForLevel(4))
	assert.Equal(t, progression.Infinite, progression.TotalXPForLevel(100))
}

func TestGainXP_NoLevelUp(t *testing.T) {
	c := character.Character{Name: "Pix", Level: 1}
	lu := progression.GainXP(c, 50, rules)
	assert.False(t, lu.LeveledUp)
	assert.Equal(t, 0, lu.LevelsGained)
	assert.Equal(t, 1, lu.NewLevel)
	assert.Equal(t, 50, lu.Character.Experience)
	assert.Equal(t, 0, c.Experience, "input must not be modified")
}

func TestGainXP_MultipleLevels(t *testing.T) {
	c := character.Character{Name: "Pix", Level: 1, StatPoints: 1}
	lu := progression.GainXP(c, 500, rules)
	assert.True(t, lu.LeveledUp)
	assert.Equal(t, 2, lu.LevelsGained)
	assert.Equal(t, 3, lu.NewLevel)
	assert.Equal(t, 3, lu.Character.Level)
	assert.Equal(t, 7, lu.Character.StatPoints)
}

func TestGainXP_CapsAtMaxLevel(t *testing.T) {
	c := character.Character{Name: "Pix", Level: 98, Experience: progression.TotalXPForLevel(98)}
	lu := progression.GainXP(c, 1<<40, rules)
	assert.Equal(t, character.MaxLevel, lu.NewLevel)
	assert.Equal(t, 1, lu.LevelsGained)

	again := progression.GainXP(lu.Character, 1<<40, rules)
	assert.False(t, again.LeveledUp)
	assert.Equal(t, character.MaxLevel, again.NewLevel)
}

func TestCalculateFightXP(t *testing.T) {
	// 100 * 1.0 * 0.9
	assert.Equal(t, 90, progression.CalculateFightXP(1, true, rules, dice.NewScripted(0.0)))
	// 25 * 1.0 * 1.0
	assert.Equal(t, 25, progression.CalculateFightXP(1, false, rules, dice.NewScripted(0.5)))
	// 100 * 1.45 * 1.0
	assert.Equal(t, 145, progression.CalculateFightXP(10, true, rules, dice.NewScripted(0.5)))
}

// Property: fight XP stays within the variance band.
func TestCalculateFightXP_Bounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		level := rapid.IntRange(1, 99).Draw(rt, "level")
		won := rapid.Bool().Draw(rt, "won")
		xp := progression.CalculateFightXP(level, won, rules, dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		base := float64(rules.LossXP)
		if won {
			base = float64(rules.WinXP)
		}
		mult := 1 + float64(level-1)*rules.LevelBonus
		if float64(xp) < base*mult*0.9-1 || float64(xp) > base*mult*1.1 {
			rt.Fatalf("xp %d outside band for level %d", xp, level)
		}
	})
}

// Property: level never decreases, never exceeds the cap, and matches the curve.
func TestGainXP_Invariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		level := rapid.IntRange(1, 99).Draw(rt, "level")
		c := character.Character{Level: level, Experience: progression.TotalXPForLevel(level)}
		xp := rapid.OneOf(
			rapid.IntRange(0, 5_000_000),
			rapid.IntRange(math.MaxInt-5_000_000, math.MaxInt),
		).Draw(rt, "xp")

		lu := progression.GainXP(c, xp, rules)

		if lu.Character.Experience < c.Experience {
			rt.Fatalf("experience went from %d to %d", c.Experience, lu.Character.Experience)
		}

		if lu.NewLevel < level || lu.NewLevel > character.MaxLevel {
			rt.Fatalf("level %d -> %d", level, lu.NewLevel)
		}
		if lu.LevelsGained != lu.NewLevel-level {
			rt.Fatalf("levels gained %d != %d", lu.LevelsGained, lu.NewLevel-level)
		}
		if lu.NewLevel < character.MaxLevel && lu.Character.Experience >= progression.TotalXPForLevel(lu.NewLevel+1) {
			rt.Fatalf("level-up not applied at %d xp", lu.Character.Experience)
		}
		if lu.Character.StatPoints != lu.LevelsGained*rules.StatPointsPerLevel {
			rt.Fatalf("stat points %d for %d levels", lu.Character.StatPoints, lu.LevelsGained)
		}
	})
}

func TestGainXP_SaturatesHugeAwards(t *testing.T) {
	capped := character.Character{Level: 99, Experience: progression.TotalXPForLevel(99)}
	lu := progression.GainXP(capped, math.MaxInt, rules)
	assert.Equal(t, progression.Infinite, lu.Character.Experience)
	assert.Equal(t, 99, lu.NewLevel)
	assert.False(t, lu.LeveledUp)

	fresh := character.Character{Level: 1, Experience: 10}
	lu = progression.GainXP(fresh, math.MaxInt, rules)
	assert.Equal(t, progression.Infinite, lu.Character.Experience)
	assert.Equal(t, character.MaxLevel, lu.NewLevel)
	assert.Equal(t, 98, lu.LevelsGained)
	assert.Equal(t, 98*rules.StatPointsPerLevel, lu.Character.StatPoints)

	again := progression.GainXP(lu.Character, math.MaxInt, rules)
	assert.Equal(t, progression.Infinite, again.Character.Experience)
}

func TestGainXP_IgnoresNegativeAward(t *testing.T) {
	c := character.Character{Level: 2, Experience: 150}
	lu := progression.GainXP(c, -500, rules)
	assert.Equal(t, 150, lu.Character.Experience)
	assert.Equal(t, 2, lu.NewLevel)
}

func TestProgressFor(t *testing.T) {
	p := progression.ProgressFor(2, 274)
	assert.Equal(t, 174, p.CurrentXPInLevel)
	assert.Equal(t, 348, p.XPForNextLevel)
	assert.InDelta(t, 50.0, p.Percentage, 1e-9)
	assert.False(t, p.IsMaxLevel)

	maxed := progression.ProgressFor(99, 0)
	require.True(t, maxed.IsMaxLevel)
	assert.Equal(t, 100.0, maxed.Percentage)
}
