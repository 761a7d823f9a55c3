// Package character defines the character domain model and pure creation logic.
package character

import "time"

const (
	// MaxLevel is the level cap; characters at MaxLevel gain no further levels.
	MaxLevel = 99
	// StatBaseline is the raw stat value treated as "average" by the combat math.
	StatBaseline = 10
	// StatFloor is the starting value of every stat before creation points are spent.
	StatFloor = 5
	// BaseHP is the hit point total of a character with zero vitality.
	BaseHP = 100
	// HPPerVitality is the hit points granted by each point of vitality.
	HPPerVitality = 8
)

// Stats holds the six raw RPG attributes of a character.
type Stats struct {
	Strength     int `yaml:"strength"`
	Vitality     int `yaml:"vitality"`
	Dexterity    int `yaml:"dexterity"`
	Luck         int `yaml:"luck"`
	Intelligence int `yaml:"intelligence"`
	Focus        int `yaml:"focus"`
}

// Sum returns the total of all six stats.
func (s Stats) Sum() int {
	return s.Strength + s.Vitality + s.Dexterity + s.Luck + s.Intelligence + s.Focus
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Strength:     s.Strength + o.Strength,
		Vitality:     s.Vitality + o.Vitality,
		Dexterity:    s.Dexterity + o.Dexterity,
		Luck:         s.Luck + o.Luck,
		Intelligence: s.Intelligence + o.Intelligence,
		Focus:        s.Focus + o.Focus,
	}
}

// Character is an immutable-by-convention snapshot of a player's fighter.
// Functions in the game packages take Characters by value and return new ones.
//
// ID is set by the persistence layer; zero indicates an unsaved character.
type Character struct {
	ID int64

	Name   string
	Seed   string // avatar seed, cosmetic
	Gender string // cosmetic

	Level      int
	Experience int
	Stats      Stats

	HP    int
	MaxHP int

	// Inventory is the ordered list of item ids the character carries.
	Inventory  []string
	StatPoints int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// MaxHPForVitality returns the maximum hit points granted by a vitality score.
//
// Postcondition: Returns BaseHP + vitality*HPPerVitality.
func MaxHPForVitality(vitality int) int {
	return BaseHP + vitality*HPPerVitality
}

// Clone returns a copy of c that shares no slices with c.
func (c Character) Clone() Character {
	out := c
	if c.Inventory != nil {
		out.Inventory = make([]string, len(c.Inventory))
		copy(out.Inventory, c.Inventory)
	}
	return out
}

// IsMaxLevel reports whether c has reached the level cap.
func (c Character) IsMaxLevel() bool {
	return c.Level >= MaxLevel
}
