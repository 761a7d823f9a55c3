package gameserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/pixelarena/internal/config"
	"github.com/cory-johannsen/pixelarena/internal/game/character"
	"github.com/cory-johannsen/pixelarena/internal/game/combat"
	"github.com/cory-johannsen/pixelarena/internal/game/dice"
	"github.com/cory-johannsen/pixelarena/internal/game/inventory"
	"github.com/cory-johannsen/pixelarena/internal/game/progression"
	"github.com/cory-johannsen/pixelarena/internal/observability"
	"github.com/cory-johannsen/pixelarena/internal/storage/postgres"
)

var (
	// ErrSelfFight is returned when a character is asked to fight itself.
	ErrSelfFight = errors.New("a character cannot fight itself")
	// ErrDailyLimitReached is returned when the attacker has used every fight for the current UTC day.
	ErrDailyLimitReached = errors.New("daily fight limit reached")
)

// CharacterStore loads characters.
type CharacterStore interface {
	GetByID(ctx context.Context, id int64) (character.Character, error)
}

// FightStore commits fights and counts an attacker's recent fights.
// CommitFight must apply award to the stored attacker and record the fight
// atomically.
type FightStore interface {
	CommitFight(ctx context.Context, rec postgres.FightRecord, award postgres.ProgressFunc) (postgres.FightRecord, character.Character, error)
	CountSince(ctx context.Context, attackerID int64, since time.Time) (int, error)
}

// FightOutcome is everything a caller needs to present a finished fight.
type FightOutcome struct {
	FightID   string
	Attacker  character.Character
	Defender  character.Character
	Result    combat.Result
	XPAwarded int
	LevelUp   progression.LevelUp
}

// FightHandler orchestrates a persisted fight: daily limit, equipment,
// simulation, XP award and storage.
//
// FightHandler is safe for concurrent use. Fights started by the same attacker
// are serialised so the daily limit cannot be overrun by parallel requests.
type FightHandler struct {
	chars    CharacterStore
	fights   FightStore
	catalog  inventory.Catalog
	src      dice.Source
	tuning   combat.Tuning
	rules    progression.Rules
	maxDaily int
	now      func() time.Time
	locks    *CharacterLocks
	logger   *zap.Logger
}

// FightOption customises a FightHandler.
type FightOption func(*FightHandler)

// WithClock replaces the wall clock used for the daily limit.
func WithClock(now func() time.Time) FightOption {
	return func(h *FightHandler) { h.now = now }
}

// WithLocks shares a lock set with other handlers that modify characters, such
// as Roster.
func WithLocks(locks *CharacterLocks) FightOption {
	return func(h *FightHandler) { h.locks = locks }
}

// NewFightHandler creates a FightHandler.
//
// Precondition: chars, fights, src and logger must be non-nil; catalog may be nil
// (no equipment bonuses); cfg must have passed Validate.
// Postcondition: Returns a non-nil FightHandler.
func NewFightHandler(
	chars CharacterStore,
	fights FightStore,
	catalog inventory.Catalog,
	src dice.Source,
	cfg config.Config,
	logger *zap.Logger,
	opts ...FightOption,
) *FightHandler {
	h := &FightHandler{
		chars:    chars,
		fights:   fights,
		catalog:  catalog,
		src:      src,
		tuning:   cfg.Combat,
		rules:    cfg.ProgressionRules(),
		maxDaily: cfg.Rules.MaxDailyFights,
		now:      time.Now,
		locks:    NewCharacterLocks(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Fight runs one fight of attackerID against defenderID. Only the attacker
// earns XP: the win amount on a win, the loss amount on a loss or draw.
//
// Precondition: ctx must be non-nil.
// Postcondition: On success the attacker's progression and the fight record are
// persisted together; on error neither is.
func (h *FightHandler) Fight(ctx context.Context, attackerID, defenderID int64) (FightOutcome, error) {
	if attackerID == defenderID {
		return FightOutcome{}, ErrSelfFight
	}

	unlock := h.locks.Lock(attackerID)
	defer unlock()

	used, err := h.fights.CountSince(ctx, attackerID, StartOfUTCDay(h.now()))
	if err != nil {
		return FightOutcome{}, fmt.Errorf("checking daily fights: %w", err)
	}
	if used >= h.maxDaily {
		return FightOutcome{}, fmt.Errorf("%d of %d fights used today: %w", used, h.maxDaily, ErrDailyLimitReached)
	}

	attacker, err := h.chars.GetByID(ctx, attackerID)
	if err != nil {
		return FightOutcome{}, fmt.Errorf("loading attacker %d: %w", attackerID, err)
	}
	defender, err := h.chars.GetByID(ctx, defenderID)
	if err != nil {
		return FightOutcome{}, fmt.Errorf("loading defender %d: %w", defenderID, err)
	}

	fields := append(observability.CharacterFields("attacker", attacker), observability.CharacterFields("defender", defender)...)
	h.logger.Info("fight started", fields...)

	result := combat.Simulate(
		inventory.ApplyEquipment(attacker, h.catalog),
		inventory.ApplyEquipment(defender, h.catalog),
		h.src, h.tuning,
	)

	won := result.Winner == combat.WinnerAttacker
	xp := progression.CalculateFightXP(attacker.Level, won, h.rules, h.src)

	// XP lands on the stored attacker, so equipment bonuses never persist.
	var lu progression.LevelUp
	rec, saved, err := h.fights.CommitFight(ctx, postgres.FightRecord{
		AttackerID: attackerID,
		DefenderID: defenderID,
		Result:     result,
		XPAwarded:  xp,
	}, func(c character.Character) (character.Character, error) {
		lu = progression.GainXP(c, xp, h.rules)
		return lu.Character, nil
	})
	if err != nil {
		return FightOutcome{}, fmt.Errorf("recording fight: %w", err)
	}

	h.logger.Info("fight finished",
		zap.String("fight_id", rec.ID.String()),
		zap.String("winner", string(result.Winner)),
		zap.Int("rounds", result.Rounds),
		zap.Int("xp_awarded", xp),
		zap.Bool("leveled_up", lu.LeveledUp),
		zap.Int("new_level", lu.NewLevel),
	)

	return FightOutcome{
		FightID:   rec.ID.String(),
		Attacker:  saved,
		Defender:  defender,
		Result:    result,
		XPAwarded: xp,
		LevelUp:   lu,
	}, nil
}

// RemainingFights returns how many fights attackerID may still start today.
//
// Postcondition: Returns a value in [0, MaxDailyFights] or a non-nil error.
func (h *FightHandler) RemainingFights(ctx context.Context, attackerID int64) (int, error) {
	used, err := h.fights.CountSince(ctx, attackerID, StartOfUTCDay(h.now()))
	if err != nil {
		return 0, fmt.Errorf("checking daily fights: %w", err)
	}
	return max(0, h.maxDaily-used), nil
}

// StartOfUTCDay returns midnight UTC of the day containing t.
func StartOfUTCDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
