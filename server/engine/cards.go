package engine

import "strings"

const (
	// BlackjackTotal is the target every hand is measured against.
	BlackjackTotal = 21
	// DeckSize is the number of cards in one standard set.
	DeckSize = 52
	// Mask stands in for a dealer card that is face down.
	Mask = "**"
)

// Rand is the slice of math/rand/v2.*Rand the engine needs.
type Rand interface {
	IntN(n int) int
}

// RankValue is 1 for an Ace, the pip count for 2-10 and 10 for a face card.
func RankValue(r Rank) int {
	switch {
	case r == Ace:
		return 1
	case r >= Jack:
		return 10
	default:
		return int(r)
	}
}

// Deck is an ordered stack of cards; the last element is the top.
type Deck []Card

// NewDeck returns the 52 cards in canonical suit-major order
// (♠ A..K, ♥ A..K, ♦ A..K, ♣ A..K), unshuffled.
func NewDeck() Deck {
	deck := make(Deck, 0, DeckSize)
	for s := Spades; s <= Clubs; s++ {
		for r := Ace; r <= King; r++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

// Shuffle permutes d in place with a Fisher-Yates pass.
func (d Deck) Shuffle(r Rand) {
	for i := len(d) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		d[i], d[j] = d[j], d[i]
	}
}

func (d Deck) Len() int { return len(d) }

// Push puts c on top.
func (d *Deck) Push(c Card) { *d = append(*d, c) }

// Pop removes and returns the top card.
func (d *Deck) Pop() (Card, error) {
	n := len(*d)
	if n == 0 {
		return Card{}, ErrEmptyDeck
	}
	c := (*d)[n-1]
	*d = (*d)[:n-1]
	return c, nil
}

// Render writes every card followed by a space, bottom to top: "A♠ 9♦ K♣ ".
func (d Deck) Render() string {
	var b strings.Builder
	for _, c := range d {
		b.WriteString(c.String())
		b.WriteByte(' ')
	}
	return b.String()
}

// RenderMasked shows the first card and one mask per remaining card: "K♣ ** ".
func (d Deck) RenderMasked() string {
	if len(d) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(d[0].String())
	b.WriteByte(' ')
	for range d[1:] {
		b.WriteString(Mask)
		b.WriteByte(' ')
	}
	return b.String()
}

// Strings returns the cards as "<rank><suit>" strings, bottom to top.
func (d Deck) Strings() []string {
	out := make([]string, len(d))
	for i, c := range d {
		out[i] = c.String()
	}
	return out
}

// Total sums RankValue over the cards, counting every Ace as aceValue.
func (d Deck) Total(aceValue int) int {
	total := 0
	for _, c := range d {
		v := RankValue(c.Rank)
		if v == 1 {
			v = aceValue
		}
		total += v
	}
	return total
}

// Score is the Ace-high total, dropped by ten once when that busts a hand
// holding an Ace.
func (d Deck) Score() int {
	s := d.Total(11)
	if s > BlackjackTotal && s != d.Total(1) {
		s -= 10
	}
	return s
}

// IsBlackjack reports a total of exactly 21 counting Aces as 1 or as 11.
func (d Deck) IsBlackjack() bool {
	return d.Total(1) == BlackjackTotal || d.Total(11) == BlackjackTotal
}

// IsBust reports an Ace-low total over 21.
func (d Deck) IsBust() bool { return d.Total(1) > BlackjackTotal }
