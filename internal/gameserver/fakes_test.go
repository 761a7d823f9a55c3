package gameserver

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/pixelarena/internal/config"
	"github.com/cory-johannsen/pixelarena/internal/game/character"
	"github.com/cory-johannsen/pixelarena/internal/storage/postgres"
)

// memCharacters is an in-memory RosterStore.
type memCharacters struct {
	mu     sync.Mutex
	byID   map[int64]character.Character
	nextID int64
}

func newMemCharacters(cs ...character.Character) *memCharacters {
	m := &memCharacters{byID: make(map[int64]character.Character)}
	for _, c := range cs {
		m.nextID++
		c.ID = m.nextID
		m.byID[c.ID] = c
	}
	return m
}

func (m *memCharacters) GetByID(_ context.Context, id int64) (character.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return character.Character{}, postgres.ErrCharacterNotFound
	}
	return c.Clone(), nil
}

// UpdateProgress applies fn under the store lock; an error from fn stores nothing.
func (m *memCharacters) UpdateProgress(_ context.Context, id int64, fn postgres.ProgressFunc) (character.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return character.Character{}, postgres.ErrCharacterNotFound
	}
	updated, err := fn(c.Clone())
	if err != nil {
		return character.Character{}, err
	}
	updated.ID = id
	m.byID[id] = updated.Clone()
	return updated, nil
}

func (m *memCharacters) Create(_ context.Context, c character.Character) (character.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Name == c.Name {
			return character.Character{}, postgres.ErrCharacterNameTaken
		}
	}
	m.nextID++
	c.ID = m.nextID
	m.byID[c.ID] = c.Clone()
	return c, nil
}

func (m *memCharacters) ListNames(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.byID))
	for _, c := range m.byID {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names, nil
}

// memFights is an in-memory FightStore stamped by a shared test clock. A
// non-nil insertErr fails every commit after the award is computed, the way a
// rejected insert rolls back the transaction.
type memFights struct {
	mu        sync.Mutex
	clock     *testClock
	chars     *memCharacters
	insertErr error
	records   []postgres.FightRecord
}

func (m *memFights) CommitFight(ctx context.Context, rec postgres.FightRecord, award postgres.ProgressFunc) (postgres.FightRecord, character.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	attacker, err := m.chars.UpdateProgress(ctx, rec.AttackerID, func(c character.Character) (character.Character, error) {
		updated, err := award(c)
		if err != nil {
			return c, err
		}
		if m.insertErr != nil {
			return c, m.insertErr
		}
		return updated, nil
	})
	if err != nil {
		return postgres.FightRecord{}, character.Character{}, err
	}
	rec.ID = uuid.New()
	rec.CreatedAt = m.clock.Now()
	m.records = append(m.records, rec)
	return rec, attacker, nil
}

func (m *memFights) CountSince(_ context.Context, attackerID int64, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.records {
		if r.AttackerID == attackerID && !r.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig(t *testing.T, maxDaily int) config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Rules.MaxDailyFights = maxDaily
	return cfg
}

func baselineCharacter(name string) character.Character {
	stats := character.Stats{Strength: 10, Vitality: 10, Dexterity: 10, Luck: 10, Intelligence: 10, Focus: 10}
	return character.Character{
		Name:      name,
		Level:     1,
		Stats:     stats,
		HP:        180,
		MaxHP:     180,
		Inventory: []string{},
	}
}
