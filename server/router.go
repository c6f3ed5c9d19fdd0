// server/router.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"blackjack-table/server/engine"
	"blackjack-table/server/narrative"
	"blackjack-table/server/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// ledgerReader is the read side of the round store used by the API.
type ledgerReader interface {
	OutcomeTotals(ctx context.Context) ([]store.OutcomeTotal, error)
	SessionRounds(ctx context.Context, id uuid.UUID) ([]store.Round, error)
}

// Router serves read-only statistics over the round ledger. A nil reader
// answers 503 on every data route.
func Router(db ledgerReader) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	// Health
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "db": db != nil})
	})

	// Per-difficulty totals and player win rate
	r.Get("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			http.Error(w, "ledger disabled", http.StatusServiceUnavailable)
			return
		}
		totals, err := db.OutcomeTotals(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"rows": summarize(totals)})
	})

	// One session's rounds in play order
	r.Get("/api/sessions/{id}/rounds", func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "bad session id", http.StatusBadRequest)
			return
		}
		if db == nil {
			http.Error(w, "ledger disabled", http.StatusServiceUnavailable)
			return
		}
		rounds, err := db.SessionRounds(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "no such session", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"session": id, "rounds": rounds})
	})

	return r
}

// difficultyRow is one line of /api/stats.
type difficultyRow struct {
	Difficulty int            `json:"difficulty"`
	Dealer     string         `json:"dealer"`
	Rounds     int            `json:"rounds"`
	PlayerWins int            `json:"player_wins"`
	WinRate    float64        `json:"win_rate"`
	CILow      float64        `json:"ci_low"`
	CIHigh     float64        `json:"ci_high"`
	Outcomes   map[string]int `json:"outcomes"`
}

// summarize folds outcome totals into one row per difficulty, in difficulty
// order. Tags that no longer parse are counted as rounds but not as wins.
func summarize(totals []store.OutcomeTotal) []difficultyRow {
	byDiff := map[int]*difficultyRow{}
	order := []int{}
	for _, t := range totals {
		row, ok := byDiff[t.Difficulty]
		if !ok {
			row = &difficultyRow{
				Difficulty: t.Difficulty,
				Dealer:     narrative.Dealer(engine.Difficulty(t.Difficulty)),
				Outcomes:   map[string]int{},
			}
			byDiff[t.Difficulty] = row
			order = append(order, t.Difficulty)
		}
		row.Rounds += t.Count
		row.Outcomes[t.Outcome] += t.Count
		if o, ok := engine.ParseOutcome(t.Outcome); ok && o.Winner() == engine.PlayerSeat {
			row.PlayerWins += t.Count
		}
	}
	out := make([]difficultyRow, 0, len(order))
	for _, d := range order {
		row := byDiff[d]
		if row.Rounds > 0 {
			row.WinRate = float64(row.PlayerWins) / float64(row.Rounds)
		}
		row.CILow, row.CIHigh = WilsonCI95(row.PlayerWins, 0, row.Rounds)
		out = append(out, *row)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
