package agent

import (
	"blackjack-table/server/engine"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput marks a prompt answer that has to be asked again.
var ErrInvalidInput = errors.New("invalid input")

// Observation is what the player seat is allowed to see of a live round.
type Observation struct {
	Phase       string   `json:"phase"`
	PlayerCards []string `json:"player_cards"`
	PlayerTotal int      `json:"player_total"` // Aces low
	PlayerScore int      `json:"player_score"` // best non-busting reading
	DealerUp    string   `json:"dealer_up"`
	DealerCards int      `json:"dealer_cards"`
	DealerStood bool     `json:"dealer_stood"`
	DrawLeft    int      `json:"draw_left"`
}

// BuildObservation converts round state into the player's view. Only the
// dealer's first card is exposed.
func BuildObservation(r *engine.Round) Observation {
	ph := r.PlayerHand()
	dh := r.DealerHand()
	o := Observation{
		Phase:       r.Phase.String(),
		PlayerCards: ph.Strings(),
		PlayerTotal: ph.Total(1),
		PlayerScore: ph.Score(),
		DealerCards: dh.Len(),
		DealerStood: r.DealerStanding(),
		DrawLeft:    r.Piles.Draw.Len(),
	}
	if dh.Len() > 0 {
		o.DealerUp = dh[0].String()
	}
	return o
}

// ParseChoice accepts "h" or "s" in either case.
func ParseChoice(s string) (engine.Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h":
		return engine.Hit, nil
	case "s":
		return engine.Stand, nil
	}
	return engine.Stand, fmt.Errorf("%w: hit/stand answer %q", ErrInvalidInput, s)
}

// ParseReplay accepts "y" or "n".
func ParseReplay(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y":
		return true, nil
	case "n":
		return false, nil
	}
	return false, fmt.Errorf("%w: replay answer %q", ErrInvalidInput, s)
}

// ParseDifficulty accepts exactly 1-4 after trimming the line ending.
func ParseDifficulty(s string) (engine.Difficulty, error) {
	d, err := engine.ParseDifficulty(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return d, nil
}
