// Package combat implements the pixel arena stat transform and the
// deterministic, round-based one-on-one fight resolver.
package combat

import (
	"fmt"

	"github.com/cory-johannsen/pixelarena/internal/game/character"
	"github.com/cory-johannsen/pixelarena/internal/game/dice"
)

// Winner identifies which side won a fight.
type Winner string

const (
	WinnerAttacker Winner = "attacker"
	WinnerDefender Winner = "defender"
	WinnerDraw     Winner = "draw"
)

// Snapshot is the HP of both sides at one log line.
type Snapshot struct {
	AttackerHP int `json:"attackerHp"`
	DefenderHP int `json:"defenderHp"`
}

// Result is the complete record of a simulated fight.
//
// Invariant: len(Details) == len(Timeline); Rounds <= Tuning.RoundLimit.
type Result struct {
	Winner   Winner
	Rounds   int
	Details  []string
	Timeline []Snapshot
}

// NewFighter builds the live fight state for c.
//
// Postcondition: HP is clamped to [0, MaxHP].
func NewFighter(c character.Character, t Tuning) *Fighter {
	maxHP := c.MaxHP
	if maxHP < 0 {
		maxHP = 0
	}
	return &Fighter{
		Name:  c.Name,
		Stats: ComputeCombatStats(c, t),
		HP:    clampHP(c.HP, maxHP),
		MaxHP: maxHP,
	}
}

func clampHP(hp, maxHP int) int {
	if hp < 0 {
		return 0
	}
	if hp > maxHP {
		return maxHP
	}
	return hp
}

func snapshotOf(a, d *Fighter) Snapshot {
	return Snapshot{
		AttackerHP: clampHP(a.HP, a.MaxHP),
		DefenderHP: clampHP(d.HP, d.MaxHP),
	}
}

// Simulate runs a full fight between attacker and defender. Both characters
// should already have equipment applied. The fight ends when either side has
// no HP left or after t.RoundLimit rounds, which is a draw. A side that enters
// with 0 HP loses before any round is played: Rounds is 0 and no draws are
// taken from src. Both sides at 0 HP is a draw.
//
// The only source of randomness is src; a fixed sequence of draws always yields
// the same Result. Simulate holds no state between calls and is safe to run
// concurrently with distinct sources.
//
// Precondition: src must be non-nil; t.RoundLimit >= 1.
// Postcondition: len(Details) == len(Timeline) >= 2; Details[0] == "{attacker} vs {defender}";
// Timeline[0] is the pre-fight HP; 0 <= Rounds <= t.RoundLimit, and Rounds == 0
// only when a side starts with 0 HP.
func Simulate(attacker, defender character.Character, src dice.Source, t Tuning) Result {
	a := NewFighter(attacker, t)
	d := NewFighter(defender, t)

	res := Result{}
	record := func(line string, s Snapshot) {
		res.Details = append(res.Details, line)
		res.Timeline = append(res.Timeline, s)
	}
	record(fmt.Sprintf("%s vs %s", a.Name, d.Name), snapshotOf(a, d))

	for res.Rounds < t.RoundLimit && a.Alive() && d.Alive() {
		res.Rounds++
		for _, ev := range ResolveRound(res.Rounds, a, d, src, t) {
			record(ev.Narrative, ev.Snapshot)
		}
	}

	res.Winner = decideWinner(a, d)
	record(closingLine(res, a, d), snapshotOf(a, d))
	return res
}

func decideWinner(a, d *Fighter) Winner {
	switch {
	case !a.Alive() && !d.Alive():
		return WinnerDraw
	case !d.Alive():
		return WinnerAttacker
	case !a.Alive():
		return WinnerDefender
	default:
		return WinnerDraw
	}
}

func closingLine(res Result, a, d *Fighter) string {
	switch res.Winner {
	case WinnerAttacker:
		return fmt.Sprintf("%s wins after %d rounds!", a.Name, res.Rounds)
	case WinnerDefender:
		return fmt.Sprintf("%s wins after %d rounds!", d.Name, res.Rounds)
	default:
		return fmt.Sprintf("Draw after %d rounds!", res.Rounds)
	}
}
