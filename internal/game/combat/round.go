package combat

import "github.com/cory-johannsen/pixelarena/internal/game/dice"

// RoundEvent records one resolved attack.
type RoundEvent struct {
	Attack    AttackResult
	ActorName string
	Counter   bool
	Narrative string
	// Snapshot is the HP of both sides after the attack, in attacker/defender order.
	Snapshot Snapshot
}

// ResolveRound plays one round between the attacker side a and the defender side d:
//   - an initiative draw decides who swings first
//   - the first actor attacks; if the target drops to 0 HP the round ends
//   - otherwise the second actor counter-attacks
//
// Precondition: both fighters are alive; src must be non-nil.
// Postcondition: Returns 1 or 2 events; damage is applied in place on a and d.
func ResolveRound(round int, a, d *Fighter, src dice.Source, t Tuning) []RoundEvent {
	first, second := a, d
	if !RollInitiative(a.Stats, d.Stats, src, t) {
		first, second = d, a
	}

	events := make([]RoundEvent, 0, 2)
	swing := func(actor, target *Fighter, counter bool) {
		r := ResolveAttack(actor, target, src, t)
		if r.Hit {
			target.ApplyDamage(r.Damage)
		}
		events = append(events, RoundEvent{
			Attack:    r,
			ActorName: actor.Name,
			Counter:   counter,
			Narrative: r.Narrative(round, actor.Name, target.Name, counter),
			Snapshot:  snapshotOf(a, d),
		})
	}

	swing(first, second, false)
	if second.Alive() {
		swing(second, first, true)
	}
	return events
}
