package engine

import "fmt"

// Piles holds the four stacks every card of the session lives in. Between
// rounds both hands are empty; during a round the Round owns the Piles.
type Piles struct {
	Draw    Deck
	Player  Deck
	Dealer  Deck
	Discard Deck

	Recycles int // times the discard pile was shuffled back into the draw pile
}

// NewPiles populates and shuffles a fresh draw pile.
func NewPiles(r Rand) *Piles {
	d := NewDeck()
	d.Shuffle(r)
	return &Piles{Draw: d}
}

// DrawCard pops the top of draw. An empty draw pile is first refilled with
// every discarded card and reshuffled. Both piles empty is ErrNoCardsAvailable.
func DrawCard(draw, discard *Deck, r Rand) (Card, error) {
	if draw.Len() == 0 {
		if discard.Len() == 0 {
			return Card{}, ErrNoCardsAvailable
		}
		for discard.Len() > 0 {
			c, _ := discard.Pop()
			draw.Push(c)
		}
		draw.Shuffle(r)
	}
	return draw.Pop()
}

// Next draws one card through DrawCard, counting recycles.
func (p *Piles) Next(r Rand) (Card, error) {
	if p.Draw.Len() == 0 && p.Discard.Len() > 0 {
		p.Recycles++
	}
	c, err := DrawCard(&p.Draw, &p.Discard, r)
	if err != nil {
		return Card{}, fmt.Errorf("draw: %w", err)
	}
	return c, nil
}

// Undraw puts a peeked card back on top of the draw pile.
func (p *Piles) Undraw(c Card) { p.Draw.Push(c) }

// Collect empties the player's hand and then the dealer's into the discard
// pile, top card first.
func (p *Piles) Collect() {
	for _, hand := range []*Deck{&p.Player, &p.Dealer} {
		for hand.Len() > 0 {
			c, _ := hand.Pop()
			p.Discard.Push(c)
		}
	}
}

// Count is the number of cards across all four piles.
func (p *Piles) Count() int {
	return p.Draw.Len() + p.Player.Len() + p.Dealer.Len() + p.Discard.Len()
}

// Verify checks that the piles together hold exactly one standard deck.
func (p *Piles) Verify() error {
	seen := make(map[Card]int, DeckSize)
	for _, d := range []Deck{p.Draw, p.Player, p.Dealer, p.Discard} {
		for _, c := range d {
			seen[c]++
		}
	}
	for _, c := range NewDeck() {
		if seen[c] != 1 {
			return fmt.Errorf("%w: %s appears %d times", ErrInvariantViolation, c, seen[c])
		}
		delete(seen, c)
	}
	if len(seen) > 0 {
		return fmt.Errorf("%w: %d foreign cards", ErrInvariantViolation, len(seen))
	}
	return nil
}
