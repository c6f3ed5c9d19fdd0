package main

import (
	"blackjack-table/server/store"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	totals []store.OutcomeTotal
	rounds map[uuid.UUID][]store.Round
	err    error
}

func (f *fakeLedger) OutcomeTotals(ctx context.Context) ([]store.OutcomeTotal, error) {
	return f.totals, f.err
}

func (f *fakeLedger) SessionRounds(ctx context.Context, id uuid.UUID) ([]store.Round, error) {
	if f.err != nil {
		return nil, f.err
	}
	rs, ok := f.rounds[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rs, nil
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouter_Health(t *testing.T) {
	rec := get(t, Router(nil), "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok": true, "db": false}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestRouter_NoLedger(t *testing.T) {
	h := Router(nil)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/api/stats").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/api/sessions/"+uuid.NewString()+"/rounds").Code)
	// id validation comes first
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/sessions/not-a-uuid/rounds").Code)
}

func TestRouter_Stats(t *testing.T) {
	f := &fakeLedger{totals: []store.OutcomeTotal{
		{Difficulty: 1, Outcome: "theybust", Count: 30},
		{Difficulty: 1, Outcome: "theywin", Count: 60},
		{Difficulty: 1, Outcome: "youwin", Count: 10},
		{Difficulty: 4, Outcome: "youbust", Count: 5},
	}}
	rec := get(t, Router(f), "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Rows []difficultyRow `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Rows, 2)

	first := body.Rows[0]
	assert.Equal(t, 1, first.Difficulty)
	assert.Equal(t, "Lenny", first.Dealer)
	assert.Equal(t, 100, first.Rounds)
	assert.Equal(t, 40, first.PlayerWins)
	assert.InDelta(t, 0.4, first.WinRate, 1e-9)
	assert.Less(t, first.CILow, 0.4)
	assert.Greater(t, first.CIHigh, 0.4)
	assert.Equal(t, 60, first.Outcomes["theywin"])

	last := body.Rows[1]
	assert.Equal(t, "Madam Lulu", last.Dealer)
	assert.Zero(t, last.PlayerWins)
}

func TestRouter_StatsError(t *testing.T) {
	rec := get(t, Router(&fakeLedger{err: errors.New("boom")}), "/api/stats")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_SessionRounds(t *testing.T) {
	id := uuid.New()
	f := &fakeLedger{rounds: map[uuid.UUID][]store.Round{
		id: {{No: 1, Difficulty: 3, Outcome: "youblackjack", Winner: "player", PlayerCards: []string{"A♠", "K♥"}}},
	}}
	h := Router(f)

	rec := get(t, h, "/api/sessions/"+id.String()+"/rounds")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Session uuid.UUID     `json:"session"`
		Rounds  []store.Round `json:"rounds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, id, body.Session)
	require.Len(t, body.Rounds, 1)
	assert.Equal(t, "youblackjack", body.Rounds[0].Outcome)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/sessions/"+uuid.NewString()+"/rounds").Code)
}
