// Package main provides the offline fight simulator and balance auditor. It
// reads two YAML character sheets and needs no database.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/pixelarena/internal/config"
	"github.com/cory-johannsen/pixelarena/internal/game/character"
	"github.com/cory-johannsen/pixelarena/internal/game/combat"
	"github.com/cory-johannsen/pixelarena/internal/game/dice"
	"github.com/cory-johannsen/pixelarena/internal/game/inventory"
	"github.com/cory-johannsen/pixelarena/internal/game/progression"
	"github.com/cory-johannsen/pixelarena/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = built-in defaults")
	attackerPath := flag.String("attacker", "configs/sheets/attacker.yaml", "attacker character sheet")
	defenderPath := flag.String("defender", "configs/sheets/defender.yaml", "defender character sheet")
	itemsDir := flag.String("items", "", "item catalog directory; overrides catalog.items_dir")
	seed := flag.Uint64("seed", 0, "random seed; 0 = pick one and print it")
	fights := flag.Int("fights", 1, "number of fights; more than 1 prints a balance report instead of a transcript")
	trace := flag.Bool("trace", false, "log every random draw at debug level")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *trace {
		cfg.Logging.Level = "debug"
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	attacker, err := character.LoadSheet(*attackerPath)
	if err != nil {
		logger.Fatal("loading attacker", zap.Error(err))
	}
	defender, err := character.LoadSheet(*defenderPath)
	if err != nil {
		logger.Fatal("loading defender", zap.Error(err))
	}

	dir := cfg.Catalog.ItemsDir
	if *itemsDir != "" {
		dir = *itemsDir
	}
	var catalog inventory.Catalog
	if dir != "" {
		reg, err := inventory.LoadRegistry(dir)
		if err != nil {
			logger.Fatal("loading item catalog", zap.String("dir", dir), zap.Error(err))
		}
		logger.Info("item catalog loaded", zap.Int("items", reg.Len()))
		catalog = reg
	}

	if *seed == 0 {
		if *seed, err = dice.NewSeed(); err != nil {
			logger.Fatal("generating seed", zap.Error(err))
		}
	}
	var src dice.Source = dice.NewSeededSource(*seed)
	if *trace {
		src = dice.NewLoggedSource(src, logger, "simulate")
	}

	a := inventory.ApplyEquipment(attacker, catalog)
	d := inventory.ApplyEquipment(defender, catalog)

	fmt.Fprintf(os.Stdout, "seed %d\n", *seed)
	if *fights > 1 {
		rep := combat.Audit(a, d, src, cfg.Combat, *fights)
		printReport(rep, a, d)
	} else {
		res := combat.Simulate(a, d, src, cfg.Combat)
		printFight(res, attacker, cfg.ProgressionRules(), src)
	}

	logger.Info("simulation complete",
		zap.Uint64("seed", *seed),
		zap.Int("fights", *fights),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}

func printFight(res combat.Result, attacker character.Character, rules progression.Rules, src dice.Source) {
	for i, line := range res.Details {
		s := res.Timeline[i]
		fmt.Fprintf(os.Stdout, "[%4d | %4d] %s\n", s.AttackerHP, s.DefenderHP, line)
	}

	xp := progression.CalculateFightXP(attacker.Level, res.Winner == combat.WinnerAttacker, rules, src)
	lu := progression.GainXP(attacker, xp, rules)
	p := progression.ProgressFor(lu.NewLevel, lu.Character.Experience)
	fmt.Fprintf(os.Stdout, "%s earns %d XP", attacker.Name, xp)
	if lu.LeveledUp {
		fmt.Fprintf(os.Stdout, " and reaches level %d (+%d stat points)", lu.NewLevel, lu.LevelsGained*rules.StatPointsPerLevel)
	}
	if p.IsMaxLevel {
		fmt.Fprintln(os.Stdout, " [max level]")
		return
	}
	fmt.Fprintf(os.Stdout, " [%d/%d, %.1f%%]\n", p.CurrentXPInLevel, p.XPForNextLevel, p.Percentage)
}

func printReport(rep combat.AuditReport, a, d character.Character) {
	pct := func(n int) float64 { return 100 * float64(n) / float64(rep.Fights) }
	fmt.Fprintf(os.Stdout, "%s (L%d) vs %s (L%d), %d fights\n", a.Name, a.Level, d.Name, d.Level, rep.Fights)
	fmt.Fprintf(os.Stdout, "  attacker wins %6d (%5.1f%%)\n", rep.AttackerWins, pct(rep.AttackerWins))
	fmt.Fprintf(os.Stdout, "  defender wins %6d (%5.1f%%)\n", rep.DefenderWins, pct(rep.DefenderWins))
	fmt.Fprintf(os.Stdout, "  draws         %6d (%5.1f%%)\n", rep.Draws, pct(rep.Draws))
	fmt.Fprintf(os.Stdout, "  average rounds %.2f\n", rep.AverageRounds())
}
