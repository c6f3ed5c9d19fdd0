package main

import (
	"blackjack-table/server/engine"
	"math"
)

// OutcomeStats tallies finished rounds at one difficulty.
type OutcomeStats struct {
	Rounds     int
	ByOutcome  map[engine.Outcome]int
	PlayerWins int
	PlayerHits int
	DealerHits int
	Peeks      int
	Recycles   int

	Judged     int // decisions scored by the judge
	TopChoices int // of those, within eps of the best line
}

func (s *OutcomeStats) Add(res engine.Result) {
	if s.ByOutcome == nil {
		s.ByOutcome = map[engine.Outcome]int{}
	}
	s.Rounds++
	s.ByOutcome[res.Outcome]++
	if res.Winner == engine.PlayerSeat {
		s.PlayerWins++
	}
	s.PlayerHits += res.PlayerHits
	s.DealerHits += res.DealerHits
	s.Peeks += res.Peeks
	s.Recycles += res.Recycles
}

func (s *OutcomeStats) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.PlayerWins) / float64(s.Rounds)
}

// PeeksPerRound is how often the dealer looked at the next card.
func (s *OutcomeStats) PeeksPerRound() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Peeks) / float64(s.Rounds)
}

// JudgeAccuracy is the share of judged decisions that matched the best line.
func (s *OutcomeStats) JudgeAccuracy() float64 {
	if s.Judged == 0 {
		return 0
	}
	return float64(s.TopChoices) / float64(s.Judged)
}

// WilsonCI95 for Bernoulli win rate using wins/ties/total.
func WilsonCI95(wins, ties, total int) (low, hi float64) {
	if total <= 0 {
		return 0, 1
	}
	z := 1.96
	n := float64(total)
	p := (float64(wins) + 0.5*float64(ties)) / n
	den := 1 + (z*z)/n
	center := p + (z*z)/(2*n)
	half := z * math.Sqrt((p*(1-p))/n+(z*z)/(4*n*n))
	return (center - half) / den, (center + half) / den
}
