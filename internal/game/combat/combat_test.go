package combat_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/pixelarena/internal/game/character"
	"github.com/cory-johannsen/pixelarena/internal/game/combat"
	"github.com/cory-johannsen/pixelarena/internal/game/dice"
)

func makeCharacter(name string, level, stat int) character.Character {
	stats := statsOf(stat)
	maxHP := character.MaxHPForVitality(stats.Vitality)
	return character.Character{
		Name:  name,
		Level: level,
		Stats: stats,
		HP:    maxHP,
		MaxHP: maxHP,
	}
}

// attackerHitsDefenderMisses scripts every round as: attacker wins initiative,
// lands a plain hit with neutral variance, defender misses the counter.
var attackerHitsDefenderMisses = []float64{
	0.0,  // initiative: attacker first
	0.0,  // attacker hit
	0.99, // no crit
	0.99, // no magic surge
	0.5,  // variance midpoint
	0.99, // no focus surge
	0.99, // defender counter misses
}

// TestSimulate_ScriptedFight pins an entire fight. Base damage for two all-10
// level-1 fighters is 18.5*1.18 - 20*0.55 = 10.83, so each hit deals 11 and the
// 180 HP defender falls in round 17.
func TestSimulate_ScriptedFight(t *testing.T) {
	a := makeCharacter("Alice", 1, 10)
	b := makeCharacter("Bob", 1, 10)

	res := combat.Simulate(a, b, dice.NewScripted(attackerHitsDefenderMisses...), tuning)

	assert.Equal(t, combat.WinnerAttacker, res.Winner)
	assert.Equal(t, 17, res.Rounds)
	require.Len(t, res.Details, 35)
	require.Len(t, res.Timeline, 35)

	assert.Equal(t, "Alice vs Bob", res.Details[0])
	assert.Equal(t, combat.Snapshot{AttackerHP: 180, DefenderHP: 180}, res.Timeline[0])
	assert.Equal(t, "Round 1: Alice hits Bob for 11 damage", res.Details[1])
	assert.Equal(t, combat.Snapshot{AttackerHP: 180, DefenderHP: 169}, res.Timeline[1])
	assert.Equal(t, "Round 1: Bob missed counter!", res.Details[2])
	assert.Equal(t, combat.Snapshot{AttackerHP: 180, DefenderHP: 169}, res.Timeline[2])
	assert.Equal(t, "Round 17: Alice hits Bob for 11 damage", res.Details[33])
	assert.Equal(t, "Alice wins after 17 rounds!", res.Details[34])
	assert.Equal(t, combat.Snapshot{AttackerHP: 180, DefenderHP: 0}, res.Timeline[34])
}

// TestSimulate_SameScriptSameResult verifies bit-identical replays.
func TestSimulate_SameScriptSameResult(t *testing.T) {
	a := makeCharacter("Alice", 3, 14)
	b := makeCharacter("Bob", 2, 16)
	r1 := combat.Simulate(a, b, dice.NewSeededSource(42), tuning)
	r2 := combat.Simulate(a, b, dice.NewSeededSource(42), tuning)
	assert.Equal(t, r1, r2)
}

func TestSimulate_CritAndMagicNarrative(t *testing.T) {
	a := makeCharacter("Alice", 1, 10)
	b := makeCharacter("Bob", 1, 10)

	// Crit: 18.5*1.18*1.45 - 11 = 20.65 -> 21.
	crit := combat.Simulate(a, b, dice.NewScripted(0.0, 0.0, 0.0, 0.99, 0.5, 0.99, 0.99), tuning)
	assert.Equal(t, "Round 1: Alice hits Bob for 21 damage CRIT!", crit.Details[1])

	// Magic surge adds 16*0.55 = 8.8 flat: 10.83 + 8.8 = 19.63 -> 20.
	magic := combat.Simulate(a, b, dice.NewScripted(0.0, 0.0, 0.99, 0.0, 0.5, 0.99, 0.99), tuning)
	assert.Equal(t, "Round 1: Alice unleashes a MAGIC SURGE on Bob for 20 damage", magic.Details[1])
}

// TestSimulate_DefenderFirstThenCounter verifies initiative can hand the first
// swing to the defender and that the attacker then counters.
func TestSimulate_DefenderFirstThenCounter(t *testing.T) {
	a := makeCharacter("Alice", 1, 10)
	b := makeCharacter("Bob", 1, 10)
	src := dice.NewScripted(
		0.99,                        // initiative: defender first
		0.0, 0.99, 0.99, 0.5, 0.99, // Bob hits
		0.0, 0.99, 0.99, 0.5, 0.99, // Alice counters
	)

	res := combat.Simulate(a, b, src, tuning)

	assert.Equal(t, "Round 1: Bob hits Alice for 11 damage", res.Details[1])
	assert.Equal(t, combat.Snapshot{AttackerHP: 169, DefenderHP: 180}, res.Timeline[1])
	assert.Equal(t, "Round 1: Alice counters Bob for 11 damage", res.Details[2])
	assert.Equal(t, combat.Snapshot{AttackerHP: 169, DefenderHP: 169}, res.Timeline[2])
}

func TestSimulate_RoundLimitDraw(t *testing.T) {
	a := makeCharacter("Alice", 1, 10)
	b := makeCharacter("Bob", 1, 10)

	res := combat.Simulate(a, b, dice.NewScripted(0.99), tuning)

	assert.Equal(t, combat.WinnerDraw, res.Winner)
	assert.Equal(t, 50, res.Rounds)
	assert.Len(t, res.Details, 102)
	assert.Equal(t, "Draw after 50 rounds!", res.Details[101])
	assert.Equal(t, combat.Snapshot{AttackerHP: 180, DefenderHP: 180}, res.Timeline[101])
}

func TestSimulate_ZeroHPSideLoses(t *testing.T) {
	a := makeCharacter("Alice", 1, 10)
	a.HP = 0
	b := makeCharacter("Bob", 1, 10)
	src := dice.NewScripted(0.5)

	res := combat.Simulate(a, b, src, tuning)

	assert.Equal(t, combat.WinnerDefender, res.Winner)
	assert.Equal(t, 0, res.Rounds)
	assert.Equal(t, []string{"Alice vs Bob", "Bob wins after 0 rounds!"}, res.Details)
	assert.Equal(t, 0, src.Draws())
}

func TestSimulate_BothZeroHPIsDraw(t *testing.T) {
	a := makeCharacter("Alice", 1, 10)
	b := makeCharacter("Bob", 1, 10)
	a.HP, b.HP = 0, 0
	res := combat.Simulate(a, b, dice.NewScripted(0.5), tuning)
	assert.Equal(t, combat.WinnerDraw, res.Winner)
}

// TestSimulate_ComebackBoostsDamage verifies a fighter under 35% HP deals 10% more.
func TestSimulate_ComebackBoostsDamage(t *testing.T) {
	a := makeCharacter("Alice", 1, 10)
	a.HP = 50 // 50 < 0.35*180
	b := makeCharacter("Bob", 1, 10)

	res := combat.Simulate(a, b, dice.NewScripted(attackerHitsDefenderMisses...), tuning)

	// 10.83 * 1.1 = 11.913 -> 12.
	assert.Equal(t, "Round 1: Alice hits Bob for 12 damage", res.Details[1])
}

// Property: structural invariants hold for arbitrary fighters and seeds.
func TestSimulate_Invariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		gen := func(label string) character.Character {
			c := character.Character{
				Name:  label,
				Level: rapid.IntRange(1, 99).Draw(rt, label+"_level"),
				Stats: character.Stats{
					Strength:     rapid.IntRange(1, 150).Draw(rt, label+"_str"),
					Vitality:     rapid.IntRange(1, 150).Draw(rt, label+"_vit"),
					Dexterity:    rapid.IntRange(1, 150).Draw(rt, label+"_dex"),
					Luck:         rapid.IntRange(1, 150).Draw(rt, label+"_lck"),
					Intelligence: rapid.IntRange(1, 150).Draw(rt, label+"_int"),
					Focus:        rapid.IntRange(1, 150).Draw(rt, label+"_foc"),
				},
			}
			c.MaxHP = character.MaxHPForVitality(c.Stats.Vitality)
			c.HP = rapid.IntRange(0, c.MaxHP).Draw(rt, label+"_hp")
			return c
		}
		a, b := gen("A"), gen("B")
		seed := rapid.Uint64().Draw(rt, "seed")

		res := combat.Simulate(a, b, dice.NewSeededSource(seed), tuning)

		if res.Rounds > tuning.RoundLimit {
			rt.Fatalf("rounds %d exceed limit", res.Rounds)
		}
		if len(res.Details) != len(res.Timeline) || len(res.Details) < 2 {
			rt.Fatalf("details %d / timeline %d mismatch", len(res.Details), len(res.Timeline))
		}
		if res.Details[0] != "A vs B" {
			rt.Fatalf("unexpected opening line %q", res.Details[0])
		}
		if res.Timeline[0] != (combat.Snapshot{AttackerHP: a.HP, DefenderHP: b.HP}) {
			rt.Fatalf("first snapshot %+v is not pre-fight HP", res.Timeline[0])
		}
		for i, s := range res.Timeline {
			if s.AttackerHP < 0 || s.DefenderHP < 0 || s.AttackerHP > a.MaxHP || s.DefenderHP > b.MaxHP {
				rt.Fatalf("snapshot %d out of range: %+v", i, s)
			}
		}
		for i := 1; i < len(res.Details)-1; i++ {
			if !strings.HasPrefix(res.Details[i], "Round ") {
				rt.Fatalf("line %d missing round prefix: %q", i, res.Details[i])
			}
		}
		last := res.Timeline[len(res.Timeline)-1]
		switch res.Winner {
		case combat.WinnerAttacker:
			if last.DefenderHP != 0 || last.AttackerHP == 0 {
				rt.Fatalf("attacker win with final %+v", last)
			}
		case combat.WinnerDefender:
			if last.AttackerHP != 0 || last.DefenderHP == 0 {
				rt.Fatalf("defender win with final %+v", last)
			}
		}
	})
}

// TestSimulate_HigherLevelDominates verifies a level-10 fighter with double the
// stats of a level-1 fighter wins at least 95 of 100 fights.
func TestSimulate_HigherLevelDominates(t *testing.T) {
	strong := makeCharacter("Veteran", 10, 20)
	weak := makeCharacter("Rookie", 1, 10)
	src := dice.NewSeededSource(2024)

	wins := 0
	for i := 0; i < 100; i++ {
		if combat.Simulate(strong, weak, src, tuning).Winner == combat.WinnerAttacker {
			wins++
		}
	}
	assert.GreaterOrEqual(t, wins, 95)
}

// TestSimulate_MirrorMatchIsFair verifies identical fighters split 500 fights
// within 35%-65%.
func TestSimulate_MirrorMatchIsFair(t *testing.T) {
	a := makeCharacter("Left", 5, 15)
	b := makeCharacter("Right", 5, 15)
	src := dice.NewSeededSource(7)

	wins := 0
	for i := 0; i < 500; i++ {
		if combat.Simulate(a, b, src, tuning).Winner == combat.WinnerAttacker {
			wins++
		}
	}
	assert.GreaterOrEqual(t, wins, 175)
	assert.LessOrEqual(t, wins, 325)
}

// TestSimulate_DoesNotMutateInputs verifies the fight is side-effect free.
func TestSimulate_DoesNotMutateInputs(t *testing.T) {
	a := makeCharacter("Alice", 1, 10)
	a.Inventory = []string{"sword"}
	b := makeCharacter("Bob", 1, 10)
	before := a.Clone()

	combat.Simulate(a, b, dice.NewSeededSource(1), tuning)

	assert.Equal(t, before, a)
	assert.Equal(t, 180, b.HP)
}
