// Package config provides Viper-based configuration loading for the pixel arena.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/pixelarena/internal/game/combat"
	"github.com/cory-johannsen/pixelarena/internal/game/progression"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ProgressionConfig holds the fight XP award curve.
type ProgressionConfig struct {
	// LevelBonus is the XP multiplier bonus per level above 1.
	LevelBonus    float64 `mapstructure:"level_bonus"`
	VarianceMin   float64 `mapstructure:"variance_min"`
	VarianceRange float64 `mapstructure:"variance_range"`
}

// RulesConfig holds the game rules that sit around a fight.
type RulesConfig struct {
	// MaxDailyFights is the number of fights a character may start per UTC day.
	MaxDailyFights int `mapstructure:"max_daily_fights"`
	WinXP          int `mapstructure:"win_xp"`
	LossXP         int `mapstructure:"loss_xp"`
	// StatPointPool is the number of points a new character distributes at creation.
	StatPointPool      int `mapstructure:"stat_point_pool"`
	StatPointsPerLevel int `mapstructure:"stat_points_per_level"`
}

// CatalogConfig locates the item definition files.
type CatalogConfig struct {
	// ItemsDir is a directory of YAML item definitions. Empty disables equipment.
	ItemsDir string `mapstructure:"items_dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Database    DatabaseConfig    `mapstructure:"database"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Combat      combat.Tuning     `mapstructure:"combat"`
	Progression ProgressionConfig `mapstructure:"progression"`
	Rules       RulesConfig       `mapstructure:"rules"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
}

// ProgressionRules assembles the progression engine's rules from the
// progression and rules sections.
func (c Config) ProgressionRules() progression.Rules {
	return progression.Rules{
		WinXP:              c.Rules.WinXP,
		LossXP:             c.Rules.LossXP,
		LevelBonus:         c.Progression.LevelBonus,
		VarianceMin:        c.Progression.VarianceMin,
		VarianceRange:      c.Progression.VarianceRange,
		StatPointsPerLevel: c.Rules.StatPointsPerLevel,
	}
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateProgression(c.Progression); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRules(c.Rules); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateCombat(t combat.Tuning) error {
	var errs []string
	if t.RoundLimit < 1 {
		errs = append(errs, fmt.Sprintf("combat.round_limit must be >= 1, got %d", t.RoundLimit))
	}
	if t.CritCap < 0 || t.CritCap > 100 {
		errs = append(errs, fmt.Sprintf("combat.crit_cap must be 0-100, got %v", t.CritCap))
	}
	if t.HitMin > t.HitMax {
		errs = append(errs, "combat.hit_min must not exceed combat.hit_max")
	}
	if t.HitMin < 0 || t.HitMax > 100 {
		errs = append(errs, "combat.hit_min and combat.hit_max must lie within 0-100")
	}
	if t.InitiativeMin > t.InitiativeMax {
		errs = append(errs, "combat.initiative_min must not exceed combat.initiative_max")
	}
	if t.InitiativeMin < 0 || t.InitiativeMax > 1 {
		errs = append(errs, "combat.initiative_min and combat.initiative_max must lie within 0-1")
	}
	if t.DiminishingPower <= 0 || t.DiminishingPower > 1 {
		errs = append(errs, fmt.Sprintf("combat.diminishing_power must be in (0, 1], got %v", t.DiminishingPower))
	}
	if t.VarianceRange < 0 || t.StabilityCap > t.VarianceRange {
		errs = append(errs, "combat.stability_cap must not exceed combat.variance_range")
	}
	if t.MinDamage < 0 {
		errs = append(errs, fmt.Sprintf("combat.min_damage must be >= 0, got %v", t.MinDamage))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateProgression(p ProgressionConfig) error {
	var errs []string
	if p.LevelBonus < 0 {
		errs = append(errs, fmt.Sprintf("progression.level_bonus must be >= 0, got %v", p.LevelBonus))
	}
	if p.VarianceMin < 0 || p.VarianceRange < 0 {
		errs = append(errs, "progression.variance_min and progression.variance_range must be >= 0")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateRules(r RulesConfig) error {
	var errs []string
	if r.MaxDailyFights < 1 {
		errs = append(errs, fmt.Sprintf("rules.max_daily_fights must be >= 1, got %d", r.MaxDailyFights))
	}
	if r.WinXP < 0 || r.LossXP < 0 {
		errs = append(errs, "rules.win_xp and rules.loss_xp must be >= 0")
	}
	if r.StatPointPool < 0 {
		errs = append(errs, fmt.Sprintf("rules.stat_point_pool must be >= 0, got %d", r.StatPointPool))
	}
	if r.StatPointsPerLevel < 0 {
		errs = append(errs, fmt.Sprintf("rules.stat_points_per_level must be >= 0, got %d", r.StatPointsPerLevel))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and PIXEL_ environment
// overrides installed but no config file.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("PIXEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration produced by defaults alone.
func Default() (Config, error) {
	return LoadFromViper(NewViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "pixel")
	v.SetDefault("database.password", "pixel")
	v.SetDefault("database.name", "pixelarena")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	setStructDefaults(v, "combat", combat.DefaultTuning())

	rules := progression.DefaultRules()
	v.SetDefault("progression.level_bonus", rules.LevelBonus)
	v.SetDefault("progression.variance_min", rules.VarianceMin)
	v.SetDefault("progression.variance_range", rules.VarianceRange)

	v.SetDefault("rules.max_daily_fights", 10)
	v.SetDefault("rules.win_xp", rules.WinXP)
	v.SetDefault("rules.loss_xp", rules.LossXP)
	v.SetDefault("rules.stat_point_pool", 30)
	v.SetDefault("rules.stat_points_per_level", rules.StatPointsPerLevel)

	v.SetDefault("catalog.items_dir", "")
}

// setStructDefaults registers every mapstructure-tagged field of s under prefix.
// Viper only binds environment overrides for keys it already knows about.
func setStructDefaults(v *viper.Viper, prefix string, s any) {
	rv := reflect.ValueOf(s)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		tag := rt.Field(i).Tag.Get("mapstructure")
		if tag == "" {
			continue
		}
		v.SetDefault(prefix+"."+tag, rv.Field(i).Interface())
	}
}
