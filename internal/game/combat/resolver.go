package combat

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/pixelarena/internal/game/dice"
)

// Fighter is one side's live state during a fight.
type Fighter struct {
	Name  string
	Stats Stats
	HP    int
	MaxHP int
}

// Alive reports whether f still has hit points.
func (f *Fighter) Alive() bool { return f.HP > 0 }

// ApplyDamage reduces HP by amount, flooring at zero.
// Precondition: amount must be >= 0.
// Postcondition: HP >= 0.
func (f *Fighter) ApplyDamage(amount int) {
	f.HP -= amount
	if f.HP < 0 {
		f.HP = 0
	}
}

// AttackResult holds the outcome of a single attack.
type AttackResult struct {
	// HitChance is the clamped percent chance the attack had to land.
	HitChance float64
	Hit       bool
	Crit      bool
	// MagicSurge is true when the attack carried flat magic damage.
	MagicSurge bool
	// FocusSurge is true when the extra focus multiplier applied. It is not narrated.
	FocusSurge bool
	// Comeback is true when the actor was below the comeback HP threshold.
	Comeback bool
	// Variance is the random damage multiplier drawn for this attack.
	Variance float64
	// Damage is the HP removed from the target; 0 on a miss.
	Damage int
}

// HitChance returns the percent chance for actor to hit target.
//
// Postcondition: t.HitMin <= result <= t.HitMax.
func HitChance(actor, target Stats, comeback bool, t Tuning) float64 {
	chance := t.HitBase +
		(actor.Speed-target.Speed)*t.HitPerSpeed +
		(actor.Focus-target.Focus)*t.HitPerFocus
	if comeback {
		chance += t.ComebackHitBonus
	}
	return clamp(chance, t.HitMin, t.HitMax)
}

// MagicChance returns the percent chance of a magic surge for s.
func MagicChance(s Stats, t Tuning) float64 {
	return math.Min(t.MagicChanceCap, t.MagicChanceBase+s.MagicPower*t.MagicChancePerPower+s.Focus*t.MagicChancePerFocus)
}

// FocusSurgeChance returns the percent chance of a focus surge for s.
func FocusSurgeChance(s Stats, t Tuning) float64 {
	return math.Min(t.FocusSurgeCap, s.Focus*t.FocusSurgePerFocus)
}

// VarianceBounds returns the [low, low+width) range of the damage variance
// multiplier for s. Higher focus narrows the range around 1.
func VarianceBounds(s Stats, t Tuning) (low, width float64) {
	stability := math.Min(t.StabilityCap, s.Focus*t.StabilityPerFocus)
	width = t.VarianceRange - stability
	return 1 - width/2, width
}

// BaseDamage returns the pre-multiplier damage of actor against target,
// floored at t.MinDamage.
func BaseDamage(actor, target Stats, crit bool, t Tuning) float64 {
	mult := 1.0
	if crit {
		mult = t.CritMultiplier
	}
	return math.Max(t.MinDamage, actor.Offense*t.OffenseDamageFactor*mult-target.Defense*t.DefenseMitigation)
}

// ResolveAttack resolves one swing of actor at target. Draws are consumed in a
// fixed order: hit; then, only on a hit, crit, magic, variance, focus surge.
//
// Precondition: src must be non-nil.
// Postcondition: Damage == 0 iff !Hit; on a hit Damage >= 1. Fighters are not modified.
func ResolveAttack(actor, target *Fighter, src dice.Source, t Tuning) AttackResult {
	comeback := float64(actor.HP) < float64(actor.MaxHP)*t.ComebackThreshold
	r := AttackResult{
		Comeback:  comeback,
		HitChance: HitChance(actor.Stats, target.Stats, comeback, t),
	}
	if !dice.Percent(src, r.HitChance) {
		return r
	}
	r.Hit = true

	r.Crit = dice.Percent(src, actor.Stats.CritChance)
	r.MagicSurge = dice.Percent(src, MagicChance(actor.Stats, t))
	low, width := VarianceBounds(actor.Stats, t)
	r.Variance = low + src.Float64()*width
	r.FocusSurge = dice.Percent(src, FocusSurgeChance(actor.Stats, t))

	base := BaseDamage(actor.Stats, target.Stats, r.Crit, t)
	magic := 0.0
	if r.MagicSurge {
		magic = actor.Stats.MagicPower * t.MagicDamageShare
	}
	mult := r.Variance
	if comeback {
		mult *= t.ComebackMultiplier
	}
	if r.FocusSurge {
		mult *= t.FocusSurgeMultiplier
	}
	r.Damage = int(math.Round((base + magic) * mult))
	if r.Damage < 1 {
		r.Damage = 1
	}
	return r
}

// Narrative renders the log line for r. Every line starts with "Round {n}: {actor}".
func (r AttackResult) Narrative(round int, actor, target string, counter bool) string {
	if !r.Hit {
		if counter {
			return fmt.Sprintf("Round %d: %s missed counter!", round, actor)
		}
		return fmt.Sprintf("Round %d: %s missed!", round, actor)
	}
	var verb string
	switch {
	case r.MagicSurge && counter:
		verb = "counters with a MAGIC SURGE on"
	case r.MagicSurge:
		verb = "unleashes a MAGIC SURGE on"
	case counter:
		verb = "counters"
	default:
		verb = "hits"
	}
	line := fmt.Sprintf("Round %d: %s %s %s for %d damage", round, actor, verb, target, r.Damage)
	if r.Crit {
		line += " CRIT!"
	}
	return line
}
