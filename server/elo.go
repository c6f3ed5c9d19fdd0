package main

import "math"

// Elo rates the player seat against one dealer persona.
type Elo struct {
	Player, Dealer float64 // ratings
	K              float64 // base K
	Rounds         int     // rounds applied
}

func NewElo(start, k float64) Elo { return Elo{Player: start, Dealer: start, K: k} }

func (e Elo) expect() (ep, ed float64) {
	ep = 1.0 / (1.0 + math.Pow(10, (e.Dealer-e.Player)/400.0))
	return ep, 1.0 - ep
}

// UpdateRound applies one decided round → returns applied deltas (dP, dD).
// blackjack rounds count with a slightly larger K.
func (e *Elo) UpdateRound(playerWon, blackjack bool) (dP, dD float64) {
	ep, ed := e.expect()
	sp := 0.0
	if playerWon {
		sp = 1.0
	}
	k := e.K * decay(e.Rounds)
	if blackjack {
		k *= 1.25
	}
	dP = k * (sp - ep)
	dD = k * ((1 - sp) - ed)
	e.Player += dP
	e.Dealer += dD
	e.Rounds++
	return dP, dD
}

func decay(rounds int) float64 {
	return 1.0 / (1.0 + 0.001*float64(rounds)) // slow anneal over long sessions
}
