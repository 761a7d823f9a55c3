package gameserver

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/pixelarena/internal/game/character"
	"github.com/cory-johannsen/pixelarena/internal/game/dice"
	"github.com/cory-johannsen/pixelarena/internal/game/namegen"
	"github.com/cory-johannsen/pixelarena/internal/observability"
	"github.com/cory-johannsen/pixelarena/internal/storage/postgres"
)

// RosterStore is the character persistence Roster needs.
type RosterStore interface {
	CharacterStore
	Create(ctx context.Context, c character.Character) (character.Character, error)
	ListNames(ctx context.Context) ([]string, error)
	UpdateProgress(ctx context.Context, id int64, fn postgres.ProgressFunc) (character.Character, error)
}

// Roster creates characters and spends their stat points.
type Roster struct {
	store  RosterStore
	src    dice.Source
	pool   int
	locks  *CharacterLocks
	logger *zap.Logger
}

// NewRoster creates a Roster. pool is the number of stat points a new
// character distributes at creation. locks should be the set the fight
// handler uses, so allocations and fights on one character take turns; nil
// gives the Roster its own.
//
// Precondition: store, src and logger must be non-nil; pool >= 0.
func NewRoster(store RosterStore, src dice.Source, pool int, locks *CharacterLocks, logger *zap.Logger) *Roster {
	if locks == nil {
		locks = NewCharacterLocks()
	}
	return &Roster{store: store, src: src, pool: pool, locks: locks, logger: logger}
}

// Create builds and stores a new level-1 character. An empty name is replaced
// by a generated one that no stored character uses.
//
// Postcondition: Returns the stored character with ID set, or a non-nil error.
func (r *Roster) Create(ctx context.Context, name, seed, gender string, alloc character.Stats) (character.Character, error) {
	if strings.TrimSpace(name) == "" {
		existing, err := r.store.ListNames(ctx)
		if err != nil {
			return character.Character{}, fmt.Errorf("loading taken names: %w", err)
		}
		name = namegen.Generate(r.src, namegen.NewRegistry(existing...))
	}
	c, err := character.Build(name, seed, gender, alloc, r.pool)
	if err != nil {
		return character.Character{}, fmt.Errorf("building character %q: %w", name, err)
	}
	created, err := r.store.Create(ctx, c)
	if err != nil {
		return character.Character{}, fmt.Errorf("creating character %q: %w", name, err)
	}
	r.logger.Info("character created", observability.CharacterFields("character", created)...)
	return created, nil
}

// Allocate spends n unspent stat points of character id on stat.
//
// Precondition: n > 0; stat is one of character.StatNames.
// Postcondition: Returns the updated, persisted character or a non-nil error
// wrapping character.ErrInsufficientStatPoints when the balance is too low.
func (r *Roster) Allocate(ctx context.Context, id int64, stat string, n int) (character.Character, error) {
	unlock := r.locks.Lock(id)
	defer unlock()

	updated, err := r.store.UpdateProgress(ctx, id, func(c character.Character) (character.Character, error) {
		return character.AllocateStatPoints(c, stat, n)
	})
	if err != nil {
		return character.Character{}, fmt.Errorf("allocating points of character %d: %w", id, err)
	}
	r.logger.Debug("stat points allocated",
		zap.Int64("character_id", id),
		zap.String("stat", stat),
		zap.Int("points", n),
		zap.Int("remaining", updated.StatPoints),
	)
	return updated, nil
}
