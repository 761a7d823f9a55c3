package combat

import (
	"github.com/cory-johannsen/pixelarena/internal/game/character"
	"github.com/cory-johannsen/pixelarena/internal/game/dice"
)

// AuditReport tallies the outcomes of repeated fights between the same pair.
type AuditReport struct {
	Fights       int
	AttackerWins int
	DefenderWins int
	Draws        int
	TotalRounds  int
}

// AttackerWinRate returns the fraction of fights the attacker won.
func (r AuditReport) AttackerWinRate() float64 {
	if r.Fights == 0 {
		return 0
	}
	return float64(r.AttackerWins) / float64(r.Fights)
}

// AverageRounds returns the mean fight length.
func (r AuditReport) AverageRounds() float64 {
	if r.Fights == 0 {
		return 0
	}
	return float64(r.TotalRounds) / float64(r.Fights)
}

// Audit simulates n fights of attacker against defender drawing from one
// shared source. With a seeded source the whole report is reproducible.
//
// Precondition: n >= 0; src must be non-nil.
// Postcondition: AttackerWins + DefenderWins + Draws == n.
func Audit(attacker, defender character.Character, src dice.Source, t Tuning, n int) AuditReport {
	rep := AuditReport{Fights: n}
	for i := 0; i < n; i++ {
		res := Simulate(attacker, defender, src, t)
		rep.TotalRounds += res.Rounds
		switch res.Winner {
		case WinnerAttacker:
			rep.AttackerWins++
		case WinnerDefender:
			rep.DefenderWins++
		default:
			rep.Draws++
		}
	}
	return rep
}
