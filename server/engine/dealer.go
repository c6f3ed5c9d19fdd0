package engine

// Decision is one dealer move. A hit carries the card already taken off the
// draw pile; the caller adds it to the dealer's hand.
type Decision struct {
	Hit    bool
	Card   Card
	Peeked bool // the cheating branch looked at the next card
}

// RollCheat draws the uniform integer in [1,100) compared against CheatPercent.
func RollCheat(r Rand) int { return r.IntN(99) + 1 }

// DealerDecide applies the dealer policy for one turn given a cheat roll.
//
// When roll <= CheatPercent the dealer peeks: the next card is taken and kept
// only if the Ace-low total stays at or under 21 (a promoted Ace landing on
// exactly 21 is inside that bound); otherwise it goes back on top of the draw
// pile and the dealer stands. Any other roll is an honest turn: hit while the
// Ace-low total is at or below CardLimit.
//
// r is only consumed when the draw pile has to be refilled from discard.
func DealerDecide(p *Piles, rules Rules, roll int, r Rand) (Decision, error) {
	total := p.Dealer.Total(1)
	if roll <= rules.CheatPercent {
		c, err := p.Next(r)
		if err != nil {
			return Decision{}, err
		}
		if total+RankValue(c.Rank) <= BlackjackTotal {
			return Decision{Hit: true, Card: c, Peeked: true}, nil
		}
		p.Undraw(c)
		return Decision{Peeked: true}, nil
	}
	if total > rules.CardLimit {
		return Decision{}, nil
	}
	c, err := p.Next(r)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Hit: true, Card: c}, nil
}
