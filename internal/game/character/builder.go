package character

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInsufficientStatPoints is returned when an allocation spends more points than are available.
var ErrInsufficientStatPoints = errors.New("insufficient stat points")

// StatNames lists the accepted stat identifiers in display order.
var StatNames = []string{"strength", "vitality", "dexterity", "luck", "intelligence", "focus"}

// Build constructs a new level-1 Character. Every stat starts at StatFloor and
// receives the matching allocation; points of pool left unallocated are kept as
// StatPoints. HP starts full.
//
// Precondition: name must be non-empty; alloc fields must be >= 0; alloc.Sum() <= pool.
// Postcondition: Returns a Character ready for persistence, or a non-nil error.
func Build(name, seed, gender string, alloc Stats, pool int) (Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Character{}, errors.New("character name must not be empty")
	}
	if pool < 0 {
		return Character{}, fmt.Errorf("stat point pool must be >= 0, got %d", pool)
	}
	for _, n := range StatNames {
		if v, _ := alloc.Get(n); v < 0 {
			return Character{}, fmt.Errorf("allocation for %s must be >= 0, got %d", n, v)
		}
	}
	if alloc.Sum() > pool {
		return Character{}, fmt.Errorf("allocating %d of %d points: %w", alloc.Sum(), pool, ErrInsufficientStatPoints)
	}

	base := Stats{
		Strength: StatFloor, Vitality: StatFloor, Dexterity: StatFloor,
		Luck: StatFloor, Intelligence: StatFloor, Focus: StatFloor,
	}
	stats := base.Add(alloc)
	maxHP := MaxHPForVitality(stats.Vitality)

	return Character{
		Name:       name,
		Seed:       seed,
		Gender:     gender,
		Level:      1,
		Stats:      stats,
		HP:         maxHP,
		MaxHP:      maxHP,
		Inventory:  []string{},
		StatPoints: pool - alloc.Sum(),
	}, nil
}

// Get returns the value of the named stat.
//
// Postcondition: ok is false iff name is not one of StatNames.
func (s Stats) Get(name string) (int, bool) {
	switch strings.ToLower(name) {
	case "strength":
		return s.Strength, true
	case "vitality":
		return s.Vitality, true
	case "dexterity":
		return s.Dexterity, true
	case "luck":
		return s.Luck, true
	case "intelligence":
		return s.Intelligence, true
	case "focus":
		return s.Focus, true
	}
	return 0, false
}

// Plus returns a copy of s with the named stat increased by delta.
//
// Postcondition: ok is false iff name is not one of StatNames; s is unchanged.
func (s Stats) Plus(name string, delta int) (Stats, bool) {
	switch strings.ToLower(name) {
	case "strength":
		s.Strength += delta
	case "vitality":
		s.Vitality += delta
	case "dexterity":
		s.Dexterity += delta
	case "luck":
		s.Luck += delta
	case "intelligence":
		s.Intelligence += delta
	case "focus":
		s.Focus += delta
	default:
		return s, false
	}
	return s, true
}

// AllocateStatPoints spends n unspent stat points on the named stat. Vitality
// raises MaxHP, and HP by the same amount.
//
// Precondition: n > 0; stat must be one of StatNames.
// Postcondition: Returns the updated copy; c is unchanged.
func AllocateStatPoints(c Character, stat string, n int) (Character, error) {
	if n <= 0 {
		return c, fmt.Errorf("points to allocate must be > 0, got %d", n)
	}
	if n > c.StatPoints {
		return c, fmt.Errorf("allocating %d with %d available: %w", n, c.StatPoints, ErrInsufficientStatPoints)
	}
	stats, ok := c.Stats.Plus(stat, n)
	if !ok {
		return c, fmt.Errorf("unknown stat %q", stat)
	}

	out := c.Clone()
	out.Stats = stats
	out.StatPoints -= n
	newMax := MaxHPForVitality(stats.Vitality)
	out.HP += newMax - c.MaxHP
	out.MaxHP = newMax
	if out.HP > out.MaxHP {
		out.HP = out.MaxHP
	}
	return out, nil
}

// AbilityName returns the short display label for a stat field.
func AbilityName(field string) string {
	names := map[string]string{
		"strength":     "STR",
		"vitality":     "VIT",
		"dexterity":    "DEX",
		"luck":         "LCK",
		"intelligence": "INT",
		"focus":        "FOC",
	}
	if n, ok := names[field]; ok {
		return n
	}
	return fmt.Sprintf("<%s>", field)
}
