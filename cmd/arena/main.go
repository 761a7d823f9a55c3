// Package main provides the arena CLI: create characters, spend stat points
// and run persisted fights against the PostgreSQL store.
//
// Usage:
//
//	arena [-config path] create   -name Zara -alloc strength=10,vitality=5
//	arena [-config path] allocate -id 1 -stat luck -points 3
//	arena [-config path] fight    -attacker 1 -defender 2
//	arena [-config path] history  -id 1
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/pixelarena/internal/config"
	"github.com/cory-johannsen/pixelarena/internal/game/character"
	"github.com/cory-johannsen/pixelarena/internal/game/dice"
	"github.com/cory-johannsen/pixelarena/internal/game/inventory"
	"github.com/cory-johannsen/pixelarena/internal/gameserver"
	"github.com/cory-johannsen/pixelarena/internal/observability"
	"github.com/cory-johannsen/pixelarena/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config path] create|allocate|fight|history [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()

	chars := postgres.NewCharacterRepository(pool.DB())
	fights := postgres.NewFightRepository(pool.DB())
	src := dice.NewLoggedSource(dice.NewCryptoSource(), logger, "arena")
	locks := gameserver.NewCharacterLocks()

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "create":
		err = runCreate(ctx, gameserver.NewRoster(chars, src, cfg.Rules.StatPointPool, locks, logger), args)
	case "allocate":
		err = runAllocate(ctx, gameserver.NewRoster(chars, src, cfg.Rules.StatPointPool, locks, logger), args)
	case "fight":
		var catalog inventory.Catalog
		if cfg.Catalog.ItemsDir != "" {
			reg, lerr := inventory.LoadRegistry(cfg.Catalog.ItemsDir)
			if lerr != nil {
				logger.Fatal("loading item catalog", zap.String("dir", cfg.Catalog.ItemsDir), zap.Error(lerr))
			}
			catalog = reg
		}
		err = runFight(ctx, gameserver.NewFightHandler(chars, fights, catalog, src, cfg, logger, gameserver.WithLocks(locks)), args)
	case "history":
		err = runHistory(ctx, fights, args)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", cmd), zap.Error(err))
		os.Exit(1)
	}
}

func runCreate(ctx context.Context, roster *gameserver.Roster, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	name := fs.String("name", "", "character name; empty = generated")
	seed := fs.String("seed", "", "avatar seed")
	gender := fs.String("gender", "", "avatar gender")
	alloc := fs.String("alloc", "", "stat allocation, e.g. strength=10,vitality=5")
	_ = fs.Parse(args)

	stats, err := parseAllocation(*alloc)
	if err != nil {
		return err
	}
	c, err := roster.Create(ctx, *name, *seed, *gender, stats)
	if err != nil {
		return err
	}
	printCharacter(c)
	return nil
}

func runAllocate(ctx context.Context, roster *gameserver.Roster, args []string) error {
	fs := flag.NewFlagSet("allocate", flag.ExitOnError)
	id := fs.Int64("id", 0, "character id")
	stat := fs.String("stat", "", "stat to raise: "+strings.Join(character.StatNames, ", "))
	points := fs.Int("points", 1, "points to spend")
	_ = fs.Parse(args)

	c, err := roster.Allocate(ctx, *id, *stat, *points)
	if err != nil {
		return err
	}
	printCharacter(c)
	return nil
}

func runFight(ctx context.Context, h *gameserver.FightHandler, args []string) error {
	fs := flag.NewFlagSet("fight", flag.ExitOnError)
	attacker := fs.Int64("attacker", 0, "attacker character id")
	defender := fs.Int64("defender", 0, "defender character id")
	_ = fs.Parse(args)

	out, err := h.Fight(ctx, *attacker, *defender)
	if errors.Is(err, gameserver.ErrDailyLimitReached) {
		fmt.Fprintln(os.Stdout, "No fights left today. Come back after midnight UTC.")
		return nil
	}
	if err != nil {
		return err
	}
	for _, line := range out.Result.Details {
		fmt.Fprintln(os.Stdout, line)
	}
	fmt.Fprintf(os.Stdout, "fight %s: %s earns %d XP\n", out.FightID, out.Attacker.Name, out.XPAwarded)
	if out.LevelUp.LeveledUp {
		fmt.Fprintf(os.Stdout, "%s reached level %d!\n", out.Attacker.Name, out.LevelUp.NewLevel)
	}
	remaining, err := h.RemainingFights(ctx, *attacker)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%d fights left today\n", remaining)
	return nil
}

func runHistory(ctx context.Context, fights *postgres.FightRepository, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	id := fs.Int64("id", 0, "character id")
	limit := fs.Int("limit", 10, "number of fights to show")
	_ = fs.Parse(args)

	recs, err := fights.ListByCharacter(ctx, *id, *limit)
	if err != nil {
		return err
	}
	for _, r := range recs {
		fmt.Fprintf(os.Stdout, "%s  %s  %d vs %d  %-8s %2d rounds  +%d XP\n",
			r.CreatedAt.Format(time.RFC3339), r.ID, r.AttackerID, r.DefenderID,
			r.Result.Winner, r.Result.Rounds, r.XPAwarded)
	}
	return nil
}

// parseAllocation parses "stat=n,stat=n" into a Stats allocation.
func parseAllocation(s string) (character.Stats, error) {
	var out character.Stats
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	for _, part := range strings.Split(s, ",") {
		name, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return character.Stats{}, fmt.Errorf("allocation %q: want stat=points", part)
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return character.Stats{}, fmt.Errorf("allocation %q: %w", part, err)
		}
		if out, ok = out.Plus(strings.ToLower(name), n); !ok {
			return character.Stats{}, fmt.Errorf("allocation %q: unknown stat %q", part, name)
		}
	}
	return out, nil
}

func printCharacter(c character.Character) {
	fmt.Fprintf(os.Stdout, "#%d %s  level %d  HP %d/%d  unspent %d\n", c.ID, c.Name, c.Level, c.HP, c.MaxHP, c.StatPoints)
	for _, n := range character.StatNames {
		v, _ := c.Stats.Get(n)
		fmt.Fprintf(os.Stdout, "  %s %3d\n", character.AbilityName(n), v)
	}
}
