package agent

import "blackjack-table/server/engine"

// Threshold plays the player seat without input: hit while the score is
// below StandOn.
type Threshold struct {
	StandOn int
}

func (b Threshold) Decide(r *engine.Round) (engine.Choice, error) {
	if BuildObservation(r).PlayerScore < b.StandOn {
		return engine.Hit, nil
	}
	return engine.Stand, nil
}
