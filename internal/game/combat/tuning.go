package combat

// Tuning holds every balance constant used by the stat transform and the
// combat resolver. Values are configuration, not derived quantities; changing
// any of them changes fight outcomes.
type Tuning struct {
	// Stat transform.
	StatBaseline     float64 `mapstructure:"stat_baseline"`       // raw stat value at or below which stats scale linearly
	DiminishingPower float64 `mapstructure:"diminishing_power"`   // exponent applied to the excess over the baseline
	LevelBonusPerLvl float64 `mapstructure:"level_bonus_per_lvl"` // multiplier bonus gained per level above 1
	LevelBonusMax    float64 `mapstructure:"level_bonus_max"`     // cap on the level multiplier bonus
	OffenseWeight    float64 `mapstructure:"offense_weight"`
	DefenseWeight    float64 `mapstructure:"defense_weight"`
	SpeedWeight      float64 `mapstructure:"speed_weight"`
	MagicWeight      float64 `mapstructure:"magic_weight"`
	FocusWeight      float64 `mapstructure:"focus_weight"`
	CritWeight       float64 `mapstructure:"crit_weight"`
	CritCap          float64 `mapstructure:"crit_cap"`          // percent
	FocusPowerShare  float64 `mapstructure:"focus_power_share"` // share of focus counted into TotalPower

	// Fight loop.
	RoundLimit int `mapstructure:"round_limit"`

	InitiativeBase       float64 `mapstructure:"initiative_base"`
	InitiativePerSpeed   float64 `mapstructure:"initiative_per_speed"`
	InitiativeMin        float64 `mapstructure:"initiative_min"`
	InitiativeMax        float64 `mapstructure:"initiative_max"`
	HitBase              float64 `mapstructure:"hit_base"` // percent
	HitPerSpeed          float64 `mapstructure:"hit_per_speed"`
	HitPerFocus          float64 `mapstructure:"hit_per_focus"`
	HitMin               float64 `mapstructure:"hit_min"`
	HitMax               float64 `mapstructure:"hit_max"`
	ComebackThreshold    float64 `mapstructure:"comeback_threshold"` // fraction of max HP
	ComebackMultiplier   float64 `mapstructure:"comeback_multiplier"`
	ComebackHitBonus     float64 `mapstructure:"comeback_hit_bonus"`
	CritMultiplier       float64 `mapstructure:"crit_multiplier"`
	MagicChanceBase      float64 `mapstructure:"magic_chance_base"` // percent
	MagicChancePerPower  float64 `mapstructure:"magic_chance_per_power"`
	MagicChancePerFocus  float64 `mapstructure:"magic_chance_per_focus"`
	MagicChanceCap       float64 `mapstructure:"magic_chance_cap"`
	MagicDamageShare     float64 `mapstructure:"magic_damage_share"`
	VarianceRange        float64 `mapstructure:"variance_range"`
	StabilityPerFocus    float64 `mapstructure:"stability_per_focus"`
	StabilityCap         float64 `mapstructure:"stability_cap"`
	FocusSurgePerFocus   float64 `mapstructure:"focus_surge_per_focus"`
	FocusSurgeCap        float64 `mapstructure:"focus_surge_cap"` // percent
	FocusSurgeMultiplier float64 `mapstructure:"focus_surge_multiplier"`
	OffenseDamageFactor  float64 `mapstructure:"offense_damage_factor"`
	DefenseMitigation    float64 `mapstructure:"defense_mitigation"`
	MinDamage            float64 `mapstructure:"min_damage"` // floor on base damage before multipliers
}

// DefaultTuning returns the canonical balance constants.
//
// Postcondition: CritCap == 28 and RoundLimit == 50.
func DefaultTuning() Tuning {
	return Tuning{
		StatBaseline:     10,
		DiminishingPower: 0.85,
		LevelBonusPerLvl: 0.012,
		LevelBonusMax:    0.22,
		OffenseWeight:    1.85,
		DefenseWeight:    2.0,
		SpeedWeight:      1.6,
		MagicWeight:      1.6,
		FocusWeight:      1.35,
		CritWeight:       1.35,
		CritCap:          28,
		FocusPowerShare:  0.6,

		RoundLimit:           50,
		InitiativeBase:       0.5,
		InitiativePerSpeed:   0.004,
		InitiativeMin:        0.4,
		InitiativeMax:        0.6,
		HitBase:              72,
		HitPerSpeed:          0.4,
		HitPerFocus:          0.25,
		HitMin:               60,
		HitMax:               92,
		ComebackThreshold:    0.35,
		ComebackMultiplier:   1.1,
		ComebackHitBonus:     4,
		CritMultiplier:       1.45,
		MagicChanceBase:      5,
		MagicChancePerPower:  0.32,
		MagicChancePerFocus:  0.08,
		MagicChanceCap:       30,
		MagicDamageShare:     0.55,
		VarianceRange:        0.2,
		StabilityPerFocus:    0.002,
		StabilityCap:         0.08,
		FocusSurgePerFocus:   0.22,
		FocusSurgeCap:        8,
		FocusSurgeMultiplier: 1.08,
		OffenseDamageFactor:  1.18,
		DefenseMitigation:    0.55,
		MinDamage:            4,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
