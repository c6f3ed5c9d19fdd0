package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema embed.FS

// ErrNotFound is returned when a session id has no row.
var ErrNotFound = errors.New("store: not found")

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close(ctx context.Context)      { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

/* -----------------------------
   Ledger writes
------------------------------*/

// Round is one finished round as recorded in the ledger.
type Round struct {
	No          int       `json:"round_no"`
	Difficulty  int       `json:"difficulty"`
	Outcome     string    `json:"outcome"`
	Winner      string    `json:"winner"`
	PlayerCards []string  `json:"player_cards"`
	DealerCards []string  `json:"dealer_cards"`
	PlayerScore int       `json:"player_score"`
	DealerScore int       `json:"dealer_score"`
	Peeks       int       `json:"peeks"`
	Recycles    int       `json:"recycles"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateSession registers a play or simulation session.
func (db *DB) CreateSession(ctx context.Context, id uuid.UUID, mode string, difficulty int) error {
	_, err := db.Exec(ctx, `
		INSERT INTO sessions(id, mode, difficulty)
		VALUES ($1::uuid, $2, $3)
	`, id.String(), mode, difficulty)
	return err
}

// InsertRound appends one round to a session.
func (db *DB) InsertRound(ctx context.Context, sessionID uuid.UUID, r Round) error {
	_, err := db.Exec(ctx, `
		INSERT INTO rounds(
			session_id, round_no, difficulty, outcome, winner,
			player_cards, dealer_cards, player_score, dealer_score,
			peeks, recycles
		)
		VALUES ($1::uuid,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, sessionID.String(), r.No, r.Difficulty, r.Outcome, r.Winner,
		r.PlayerCards, r.DealerCards, r.PlayerScore, r.DealerScore,
		r.Peeks, r.Recycles)
	return err
}

// InsertRounds writes a batch of rounds for one session in a transaction.
func (db *DB) InsertRounds(ctx context.Context, sessionID uuid.UUID, rounds []Round) error {
	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // safe if already committed

	batch := &pgx.Batch{}
	for _, r := range rounds {
		batch.Queue(`
			INSERT INTO rounds(
				session_id, round_no, difficulty, outcome, winner,
				player_cards, dealer_cards, player_score, dealer_score,
				peeks, recycles
			)
			VALUES ($1::uuid,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`, sessionID.String(), r.No, r.Difficulty, r.Outcome, r.Winner,
			r.PlayerCards, r.DealerCards, r.PlayerScore, r.DealerScore,
			r.Peeks, r.Recycles)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert %d rounds: %w", len(rounds), err)
	}
	return tx.Commit(ctx)
}

// EndSession stamps the end time and round count.
func (db *DB) EndSession(ctx context.Context, id uuid.UUID, rounds int) error {
	_, err := db.Exec(ctx, `
		UPDATE sessions
		   SET ended_at = now(),
		       rounds = $2
		 WHERE id = $1::uuid
	`, id.String(), rounds)
	return err
}

/* -----------------------------
   Reads for the stats API
------------------------------*/

type OutcomeTotal struct {
	Difficulty int    `json:"difficulty"`
	Outcome    string `json:"outcome"`
	Count      int    `json:"count"`
}

// OutcomeTotals counts recorded rounds per difficulty and outcome.
func (db *DB) OutcomeTotals(ctx context.Context) ([]OutcomeTotal, error) {
	rows, err := db.Query(ctx, `
		SELECT difficulty, outcome, COUNT(*)::int
		  FROM rounds
		 GROUP BY difficulty, outcome
		 ORDER BY difficulty, outcome
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []OutcomeTotal{}
	for rows.Next() {
		var t OutcomeTotal
		if err := rows.Scan(&t.Difficulty, &t.Outcome, &t.Count); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SessionRounds lists a session's rounds in play order.
func (db *DB) SessionRounds(ctx context.Context, id uuid.UUID) ([]Round, error) {
	var exists bool
	if err := db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM sessions WHERE id = $1::uuid)`, id.String()).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	rows, err := db.Query(ctx, `
		SELECT round_no, difficulty, outcome, winner,
		       player_cards, dealer_cards, player_score, dealer_score,
		       peeks, recycles, created_at
		  FROM rounds
		 WHERE session_id = $1::uuid
		 ORDER BY round_no
	`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Round{}
	for rows.Next() {
		var r Round
		if err := rows.Scan(&r.No, &r.Difficulty, &r.Outcome, &r.Winner,
			&r.PlayerCards, &r.DealerCards, &r.PlayerScore, &r.DealerScore,
			&r.Peeks, &r.Recycles, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
