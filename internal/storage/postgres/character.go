package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cory-johannsen/pixelarena/internal/game/character"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterNameTaken is returned when creating a character whose name is already used.
var ErrCharacterNameTaken = errors.New("character name already taken")

const characterColumns = `id, name, seed, gender, level, experience,
		       strength, vitality, dexterity, luck, intelligence, focus,
		       hp, max_hp, inventory, stat_points, created_at, updated_at`

// ProgressFunc derives a character's new progression from its stored state.
// Returning an error aborts the update.
type ProgressFunc func(c character.Character) (character.Character, error)

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db DBTX
}

// NewCharacterRepository creates a CharacterRepository backed by a pool or a
// transaction.
//
// Precondition: db must be non-nil and open.
func NewCharacterRepository(db DBTX) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create inserts a new character and returns it with ID and timestamps set.
//
// Precondition: c.Name must be non-empty.
// Postcondition: Returns the created character with ID set, or ErrCharacterNameTaken on duplicate.
func (r *CharacterRepository) Create(ctx context.Context, c character.Character) (character.Character, error) {
	inv := c.Inventory
	if inv == nil {
		inv = []string{}
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO characters
			(name, seed, gender, level, experience,
			 strength, vitality, dexterity, luck, intelligence, focus,
			 hp, max_hp, inventory, stat_points)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING `+characterColumns,
		c.Name, c.Seed, c.Gender, c.Level, c.Experience,
		c.Stats.Strength, c.Stats.Vitality, c.Stats.Dexterity,
		c.Stats.Luck, c.Stats.Intelligence, c.Stats.Focus,
		c.HP, c.MaxHP, inv, c.StatPoints,
	)
	out, err := scanCharacter(row)
	if err != nil {
		if isDuplicateKeyError(err) {
			return character.Character{}, ErrCharacterNameTaken
		}
		return character.Character{}, fmt.Errorf("inserting character: %w", err)
	}
	return out, nil
}

// GetByID retrieves a character by its primary key. Rows with missing legacy
// columns are hydrated with defaults.
//
// Precondition: id must be > 0.
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (character.Character, error) {
	row := r.db.QueryRow(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = $1`, id)
	c, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return character.Character{}, ErrCharacterNotFound
		}
		return character.Character{}, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// GetByName retrieves a character by its unique name.
//
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByName(ctx context.Context, name string) (character.Character, error) {
	row := r.db.QueryRow(ctx, `SELECT `+characterColumns+` FROM characters WHERE name = $1`, name)
	c, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return character.Character{}, ErrCharacterNotFound
		}
		return character.Character{}, fmt.Errorf("querying character by name: %w", err)
	}
	return c, nil
}

// ListNames returns every character name, ordered alphabetically. The name
// generator seeds its registry from this list.
func (r *CharacterRepository) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT name FROM characters ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing character names: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning character names: %w", err)
	}
	return names, nil
}

// SaveProgress persists the fields a fight or stat allocation can change:
// level, experience, stats, HP and unspent stat points.
//
// Precondition: c.ID must be > 0.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row updated.
func (r *CharacterRepository) SaveProgress(ctx context.Context, c character.Character) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET
			level = $2, experience = $3,
			strength = $4, vitality = $5, dexterity = $6,
			luck = $7, intelligence = $8, focus = $9,
			hp = $10, max_hp = $11, stat_points = $12,
			updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Level, c.Experience,
		c.Stats.Strength, c.Stats.Vitality, c.Stats.Dexterity,
		c.Stats.Luck, c.Stats.Intelligence, c.Stats.Focus,
		c.HP, c.MaxHP, c.StatPoints,
	)
	if err != nil {
		return fmt.Errorf("saving character progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// UpdateProgress locks character id, applies fn to the stored row and saves
// the result in one transaction. Concurrent updates of the same character
// queue on the row lock, so none is lost.
//
// Precondition: fn must not retain c.
// Postcondition: Returns the saved character, ErrCharacterNotFound, or fn's
// error with nothing written.
func (r *CharacterRepository) UpdateProgress(ctx context.Context, id int64, fn ProgressFunc) (character.Character, error) {
	var out character.Character
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		out, err = updateProgressTx(ctx, tx, id, fn)
		return err
	})
	if err != nil {
		return character.Character{}, err
	}
	return out, nil
}

func updateProgressTx(ctx context.Context, tx pgx.Tx, id int64, fn ProgressFunc) (character.Character, error) {
	repo := NewCharacterRepository(tx)
	c, err := scanCharacter(tx.QueryRow(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return character.Character{}, ErrCharacterNotFound
		}
		return character.Character{}, fmt.Errorf("locking character: %w", err)
	}
	updated, err := fn(c)
	if err != nil {
		return character.Character{}, err
	}
	updated.ID = id
	if err := repo.SaveProgress(ctx, updated); err != nil {
		return character.Character{}, err
	}
	return updated, nil
}

// SaveInventory replaces a character's ordered inventory.
//
// Precondition: id must be > 0.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row updated.
func (r *CharacterRepository) SaveInventory(ctx context.Context, id int64, inventory []string) error {
	if inventory == nil {
		inventory = []string{}
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET inventory = $2, updated_at = NOW()
		WHERE id = $1`,
		id, inventory,
	)
	if err != nil {
		return fmt.Errorf("saving character inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// scanCharacter reads a row of characterColumns through character.Hydrate.
func scanCharacter(row pgx.Row) (character.Character, error) {
	var (
		rec              character.LegacyRecord
		created, updated time.Time
	)
	if err := row.Scan(
		&rec.ID, &rec.Name, &rec.Seed, &rec.Gender, &rec.Level, &rec.Experience,
		&rec.Strength, &rec.Vitality, &rec.Dexterity, &rec.Luck, &rec.Intelligence, &rec.Focus,
		&rec.HP, &rec.MaxHP, &rec.Inventory, &rec.StatPoints, &created, &updated,
	); err != nil {
		return character.Character{}, err
	}
	out := character.Hydrate(rec)
	out.CreatedAt = created
	out.UpdatedAt = updated
	return out, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
