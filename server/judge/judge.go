// Package judge scores hit/stand decisions against a Monte Carlo estimate of
// the player's chance to win from the same position.
package judge

import (
	"blackjack-table/server/agent"
	"blackjack-table/server/engine"
	"errors"
	"fmt"
	"slices"
)

var (
	ErrNoPosition = errors.New("judge: observation has no position to evaluate")
	// ErrNoConsistentDeal means no hidden dealer cards kept the round live.
	ErrNoConsistentDeal = errors.New("judge: no dealer fill consistent with a live round")
)

// maxRedeals bounds the rejection sampling per requested sample.
const maxRedeals = 100

// Verdict compares both lines at one decision point.
type Verdict struct {
	Chosen  engine.Choice
	Best    engine.Choice
	Stand   float64 // P(player wins) standing now
	Hit     float64 // P(player wins) taking one card, then standing
	Samples int
}

func (v Verdict) value(c engine.Choice) float64 {
	if c == engine.Hit {
		return v.Hit
	}
	return v.Stand
}

// Gap is the win probability the chosen line gives up against the best one.
func (v Verdict) Gap() float64 { return v.value(v.Best) - v.value(v.Chosen) }

// IsTop reports whether the chosen line is within eps of the best.
func (v Verdict) IsTop(eps float64) bool { return v.Gap() <= eps }

// Evaluate deals the cards the player cannot see at random, samples times, and
// plays both lines out against the dealer policy in rules. Deals that would
// already have ended the round are redrawn. The hit line is a one-card
// lookahead.
func Evaluate(obs agent.Observation, chosen engine.Choice, rules engine.Rules, rng engine.Rand, samples int) (Verdict, error) {
	if samples <= 0 {
		return Verdict{}, fmt.Errorf("judge: samples must be positive, got %d", samples)
	}
	if len(obs.PlayerCards) == 0 || obs.DealerUp == "" || obs.DealerCards < 1 {
		return Verdict{}, ErrNoPosition
	}
	player := make(engine.Deck, 0, len(obs.PlayerCards))
	for _, s := range obs.PlayerCards {
		c, err := engine.ParseCard(s)
		if err != nil {
			return Verdict{}, fmt.Errorf("judge: player card: %w", err)
		}
		player.Push(c)
	}
	up, err := engine.ParseCard(obs.DealerUp)
	if err != nil {
		return Verdict{}, fmt.Errorf("judge: dealer card: %w", err)
	}
	unseen := unseenCards(append(slices.Clone(player), up))

	var standWins, hitWins int
	redeals := 0
	for i := 0; i < samples; i++ {
		deck, dealer, err := dealHidden(unseen, up, obs.DealerCards, rng)
		if err != nil {
			return Verdict{}, err
		}
		// A live round never has the dealer on 21 or bust.
		if dealer.IsBlackjack() || dealer.IsBust() {
			if redeals++; redeals > maxRedeals*samples {
				return Verdict{}, ErrNoConsistentDeal
			}
			i--
			continue
		}

		won, err := playOut(player, dealer, deck, rules, obs.DealerStood, rng)
		if err != nil {
			return Verdict{}, err
		}
		if won {
			standWins++
		}

		hitDeck := slices.Clone(deck)
		c, err := hitDeck.Pop()
		if err != nil {
			return Verdict{}, err
		}
		won, err = playOut(append(slices.Clone(player), c), dealer, hitDeck, rules, obs.DealerStood, rng)
		if err != nil {
			return Verdict{}, err
		}
		if won {
			hitWins++
		}
	}

	v := Verdict{
		Chosen:  chosen,
		Best:    engine.Stand,
		Stand:   float64(standWins) / float64(samples),
		Hit:     float64(hitWins) / float64(samples),
		Samples: samples,
	}
	if v.Hit > v.Stand {
		v.Best = engine.Hit
	}
	return v, nil
}

// dealHidden shuffles the unseen cards and fills the dealer's hand up to n
// cards behind the up card.
func dealHidden(unseen engine.Deck, up engine.Card, n int, rng engine.Rand) (engine.Deck, engine.Deck, error) {
	deck := slices.Clone(unseen)
	deck.Shuffle(rng)
	dealer := engine.Deck{up}
	for len(dealer) < n {
		c, err := deck.Pop()
		if err != nil {
			return nil, nil, err
		}
		dealer.Push(c)
	}
	return deck, dealer, nil
}

func unseenCards(seen engine.Deck) engine.Deck {
	out := make(engine.Deck, 0, engine.DeckSize)
	for _, c := range engine.NewDeck() {
		if !slices.Contains(seen, c) {
			out.Push(c)
		}
	}
	return out
}

// playOut finishes a round with the player's hand fixed and reports whether
// the player wins it.
func playOut(player, dealer, draw engine.Deck, rules engine.Rules, dealerStood bool, rng engine.Rand) (bool, error) {
	switch {
	case player.IsBlackjack():
		return true, nil
	case player.IsBust():
		return false, nil
	}
	p := &engine.Piles{Draw: slices.Clone(draw), Dealer: slices.Clone(dealer)}
	for !dealerStood && !p.Dealer.IsBlackjack() {
		d, err := engine.DealerDecide(p, rules, engine.RollCheat(rng), rng)
		if err != nil {
			return false, err
		}
		if !d.Hit {
			break
		}
		p.Dealer.Push(d.Card)
		if p.Dealer.IsBust() {
			return true, nil
		}
	}
	if p.Dealer.IsBlackjack() {
		return false, nil
	}
	return player.Score() > p.Dealer.Score(), nil
}
