package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cory-johannsen/pixelarena/internal/game/character"
	"github.com/cory-johannsen/pixelarena/internal/game/combat"
)

// ErrFightNotFound is returned when a fight lookup yields no results.
var ErrFightNotFound = errors.New("fight not found")

// FightRecord is a persisted fight: the combat result plus who fought and the
// XP the attacker was awarded.
type FightRecord struct {
	ID         uuid.UUID
	AttackerID int64
	DefenderID int64
	Result     combat.Result
	XPAwarded  int
	CreatedAt  time.Time
}

// FightRepository provides fight history persistence.
type FightRepository struct {
	db DBTX
}

// NewFightRepository creates a FightRepository backed by a pool or a transaction.
//
// Precondition: db must be non-nil and open.
func NewFightRepository(db DBTX) *FightRepository {
	return &FightRepository{db: db}
}

// Record inserts a fight. A nil ID is replaced by a fresh random UUID.
//
// Precondition: AttackerID and DefenderID reference existing characters.
// Postcondition: Returns the stored record with ID and CreatedAt set.
func (r *FightRepository) Record(ctx context.Context, rec FightRecord) (FightRecord, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	timeline := rec.Result.Timeline
	if timeline == nil {
		timeline = []combat.Snapshot{}
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO fights
			(id, attacker_id, defender_id, winner, rounds, details, timeline, xp_awarded)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at`,
		rec.ID, rec.AttackerID, rec.DefenderID, string(rec.Result.Winner),
		rec.Result.Rounds, rec.Result.Details, timeline, rec.XPAwarded,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return FightRecord{}, fmt.Errorf("inserting fight: %w", err)
	}
	return rec, nil
}

// CommitFight applies award to the locked attacker row and records the fight
// in one transaction: either the attacker's progression and the record are
// both stored, or neither is.
//
// Precondition: rec.AttackerID references an existing character.
// Postcondition: Returns the stored record and the attacker as saved.
func (r *FightRepository) CommitFight(ctx context.Context, rec FightRecord, award ProgressFunc) (FightRecord, character.Character, error) {
	var (
		out      FightRecord
		attacker character.Character
	)
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		if attacker, err = updateProgressTx(ctx, tx, rec.AttackerID, award); err != nil {
			return err
		}
		out, err = NewFightRepository(tx).Record(ctx, rec)
		return err
	})
	if err != nil {
		return FightRecord{}, character.Character{}, fmt.Errorf("committing fight: %w", err)
	}
	return out, attacker, nil
}

// GetByID retrieves a fight by id.
//
// Postcondition: Returns the FightRecord or ErrFightNotFound.
func (r *FightRepository) GetByID(ctx context.Context, id uuid.UUID) (FightRecord, error) {
	rec, err := scanFight(r.db.QueryRow(ctx, `
		SELECT id, attacker_id, defender_id, winner, rounds, details, timeline, xp_awarded, created_at
		FROM fights WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FightRecord{}, ErrFightNotFound
		}
		return FightRecord{}, fmt.Errorf("querying fight: %w", err)
	}
	return rec, nil
}

// ListByCharacter returns the most recent fights the character took part in on
// either side, newest first.
//
// Precondition: limit must be > 0.
func (r *FightRepository) ListByCharacter(ctx context.Context, characterID int64, limit int) ([]FightRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, attacker_id, defender_id, winner, rounds, details, timeline, xp_awarded, created_at
		FROM fights WHERE attacker_id = $1 OR defender_id = $1
		ORDER BY created_at DESC LIMIT $2`,
		characterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing fights: %w", err)
	}
	defer rows.Close()

	fights := make([]FightRecord, 0)
	for rows.Next() {
		rec, err := scanFight(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning fight row: %w", err)
		}
		fights = append(fights, rec)
	}
	return fights, rows.Err()
}

// CountSince returns how many fights attackerID started at or after since.
//
// Postcondition: Returns a non-negative count or a non-nil error.
func (r *FightRepository) CountSince(ctx context.Context, attackerID int64, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM fights WHERE attacker_id = $1 AND created_at >= $2`,
		attackerID, since,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting fights: %w", err)
	}
	return n, nil
}

func scanFight(row pgx.Row) (FightRecord, error) {
	var (
		rec    FightRecord
		winner string
	)
	if err := row.Scan(
		&rec.ID, &rec.AttackerID, &rec.DefenderID, &winner, &rec.Result.Rounds,
		&rec.Result.Details, &rec.Result.Timeline, &rec.XPAwarded, &rec.CreatedAt,
	); err != nil {
		return FightRecord{}, err
	}
	rec.Result.Winner = combat.Winner(winner)
	return rec, nil
}
