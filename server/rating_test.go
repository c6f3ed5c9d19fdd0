package main

import (
	"blackjack-table/server/engine"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElo_UpdateRound(t *testing.T) {
	e := NewElo(1500, 24)
	dP, dD := e.UpdateRound(true, false)
	assert.InDelta(t, 12.0, dP, 1e-9) // even ratings: K * 0.5
	assert.InDelta(t, -dP, dD, 1e-9)
	assert.Greater(t, e.Player, e.Dealer)
	assert.Equal(t, 1, e.Rounds)

	bj := NewElo(1500, 24)
	dBJ, _ := bj.UpdateRound(true, true)
	assert.Greater(t, dBJ, dP)
}

func TestElo_FavouriteGainsLess(t *testing.T) {
	e := Elo{Player: 1700, Dealer: 1500, K: 24}
	dP, _ := e.UpdateRound(true, false)
	assert.Less(t, dP, 12.0)
	assert.Greater(t, dP, 0.0)
}

func TestGlicko2_Update(t *testing.T) {
	a := NewGlicko2(1500)
	b := NewGlicko2(1500)
	a.update([]game{{opp: b, s: 1}, {opp: b, s: 1}, {opp: b, s: 0}}, g2Tau)
	assert.Greater(t, a.Rating, 1500.0)
	assert.Less(t, a.RD, 350.0)
	assert.Equal(t, 1, a.Periods)

	idle := NewGlicko2(1500)
	idle.RD = 50
	idle.update(nil, g2Tau)
	assert.Equal(t, 1500.0, idle.Rating)
	assert.Greater(t, idle.RD, 50.0)
}

func TestRateSimulation(t *testing.T) {
	results := []simResult{
		{Difficulty: engine.Cousin, Stats: OutcomeStats{Rounds: 100, PlayerWins: 60}},
		{Difficulty: engine.Clairvoyant, Stats: OutcomeStats{Rounds: 100, PlayerWins: 20}},
	}
	bot, dealers := rateSimulation(results, 1500)
	assert.Len(t, dealers, 2)
	assert.Less(t, dealers[0].Rating, 1500.0)
	assert.Greater(t, dealers[1].Rating, 1500.0)
	assert.Less(t, bot.Rating, 1500.0) // 80 of 200
}

func TestOutcomeStats(t *testing.T) {
	var s OutcomeStats
	assert.Zero(t, s.WinRate())
	s.Add(engine.Result{Outcome: engine.PlayerWin, Winner: engine.PlayerSeat, Peeks: 2, PlayerHits: 1})
	s.Add(engine.Result{Outcome: engine.DealerBust, Winner: engine.PlayerSeat, Recycles: 1})
	s.Add(engine.Result{Outcome: engine.DealerWin, Winner: engine.DealerSeat, DealerHits: 2})
	s.Add(engine.Result{Outcome: engine.PlayerBust, Winner: engine.DealerSeat})

	assert.Equal(t, 4, s.Rounds)
	assert.Equal(t, 2, s.PlayerWins)
	assert.InDelta(t, 0.5, s.WinRate(), 1e-9)
	assert.InDelta(t, 0.5, s.PeeksPerRound(), 1e-9)
	assert.Equal(t, 1, s.ByOutcome[engine.DealerBust])
	assert.Equal(t, 1, s.Recycles)
	assert.Equal(t, 2, s.DealerHits)
}

func TestWilsonCI95(t *testing.T) {
	lo, hi := WilsonCI95(50, 0, 100)
	assert.InDelta(t, 0.5, (lo+hi)/2, 1e-9)
	assert.InDelta(t, 0.404, lo, 0.005)
	assert.InDelta(t, 0.596, hi, 0.005)

	lo, hi = WilsonCI95(0, 0, 0)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}
