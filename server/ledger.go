package main

import (
	"blackjack-table/server/engine"
	"blackjack-table/server/store"
	"context"

	"fortio.org/log"
	"github.com/google/uuid"
)

// ledger wraps the optional round store. The first failed write disables it
// for the rest of the run; play never stops because the database did.
type ledger struct {
	db *store.DB
}

func (l *ledger) enabled() bool { return l != nil && l.db != nil }

func (l *ledger) disable(what string, err error) {
	log.Warnf("DB disabled (%s failed): %v; continuing", what, err)
	l.db = nil
}

func (l *ledger) start(ctx context.Context, id uuid.UUID, mode string, d engine.Difficulty) {
	if !l.enabled() {
		return
	}
	if err := l.db.CreateSession(ctx, id, mode, int(d)); err != nil {
		l.disable("create session", err)
	}
}

func (l *ledger) record(ctx context.Context, id uuid.UUID, r store.Round) {
	if !l.enabled() {
		return
	}
	if err := l.db.InsertRound(ctx, id, r); err != nil {
		l.disable("insert round", err)
	}
}

func (l *ledger) recordBatch(ctx context.Context, id uuid.UUID, rs []store.Round) {
	if !l.enabled() || len(rs) == 0 {
		return
	}
	if err := l.db.InsertRounds(ctx, id, rs); err != nil {
		l.disable("insert rounds", err)
	}
}

func (l *ledger) end(ctx context.Context, id uuid.UUID, rounds int) {
	if !l.enabled() {
		return
	}
	if err := l.db.EndSession(ctx, id, rounds); err != nil {
		l.disable("end session", err)
	}
}

func roundRecord(no int, d engine.Difficulty, res engine.Result) store.Round {
	return store.Round{
		No:          no,
		Difficulty:  int(d),
		Outcome:     res.Outcome.String(),
		Winner:      string(res.Winner),
		PlayerCards: res.Player.Strings(),
		DealerCards: res.Dealer.Strings(),
		PlayerScore: res.PlayerScore,
		DealerScore: res.DealerScore,
		Peeks:       res.Peeks,
		Recycles:    res.Recycles,
	}
}
