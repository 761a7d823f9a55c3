package character

// LegacyRecord is a character as stored by older clients, where fields added
// over time may be absent. Hydrate is the only place these gaps are filled.
type LegacyRecord struct {
	ID           int64    `yaml:"id"`
	Name         string   `yaml:"name"`
	Seed         string   `yaml:"seed"`
	Gender       string   `yaml:"gender"`
	Level        *int     `yaml:"level"`
	Experience   *int     `yaml:"experience"`
	Strength     *int     `yaml:"strength"`
	Vitality     *int     `yaml:"vitality"`
	Dexterity    *int     `yaml:"dexterity"`
	Luck         *int     `yaml:"luck"`
	Intelligence *int     `yaml:"intelligence"`
	Focus        *int     `yaml:"focus"`
	HP           *int     `yaml:"hp"`
	MaxHP        *int     `yaml:"max_hp"`
	Inventory    []string `yaml:"inventory"`
	StatPoints   *int     `yaml:"stat_points"`
}

func orDefault(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// Hydrate normalizes a possibly incomplete record into a fully populated Character:
//   - missing stats default to StatBaseline
//   - level defaults to 1 and is clamped to [1, MaxLevel]
//   - experience and stat points default to 0 and are never negative
//   - MaxHP defaults to MaxHPForVitality; HP defaults to MaxHP and is clamped to [0, MaxHP]
//
// Postcondition: the returned Character satisfies every invariant the combat core relies on.
func Hydrate(r LegacyRecord) Character {
	stats := Stats{
		Strength:     orDefault(r.Strength, StatBaseline),
		Vitality:     orDefault(r.Vitality, StatBaseline),
		Dexterity:    orDefault(r.Dexterity, StatBaseline),
		Luck:         orDefault(r.Luck, StatBaseline),
		Intelligence: orDefault(r.Intelligence, StatBaseline),
		Focus:        orDefault(r.Focus, StatBaseline),
	}

	level := orDefault(r.Level, 1)
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}

	maxHP := orDefault(r.MaxHP, MaxHPForVitality(stats.Vitality))
	if maxHP < 1 {
		maxHP = MaxHPForVitality(stats.Vitality)
	}
	hp := orDefault(r.HP, maxHP)
	if hp > maxHP {
		hp = maxHP
	}
	if hp < 0 {
		hp = 0
	}

	inv := make([]string, len(r.Inventory))
	copy(inv, r.Inventory)

	return Character{
		ID:         r.ID,
		Name:       r.Name,
		Seed:       r.Seed,
		Gender:     r.Gender,
		Level:      level,
		Experience: max(0, orDefault(r.Experience, 0)),
		Stats:      stats,
		HP:         hp,
		MaxHP:      maxHP,
		Inventory:  inv,
		StatPoints: max(0, orDefault(r.StatPoints, 0)),
	}
}
