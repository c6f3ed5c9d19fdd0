package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrEmptyDeck          = errors.New("engine: pop from empty deck")
	ErrNoCardsAvailable   = errors.New("engine: draw and discard piles are both empty")
	ErrInvalidDifficulty  = errors.New("engine: difficulty must be 1, 2, 3 or 4")
	ErrInvariantViolation = errors.New("engine: piles no longer hold one full deck")
)

// Suit is one of the four French suits.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Red reports whether the suit is printed red.
func (s Suit) Red() bool { return s == Hearts || s == Diamonds }

// Rank runs Ace (1) through King (13).
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return strconv.Itoa(int(r))
	}
}

// Card is an immutable rank/suit pair, e.g. "A♠".
type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string { return c.Rank.String() + c.Suit.String() }

// ParseCard reads the "<rank><suit>" form produced by Card.String.
func ParseCard(s string) (Card, error) {
	for _, suit := range []Suit{Spades, Hearts, Diamonds, Clubs} {
		sym := suit.String()
		if !strings.HasSuffix(s, sym) {
			continue
		}
		rs := strings.TrimSuffix(s, sym)
		for r := Ace; r <= King; r++ {
			if r.String() == rs {
				return Card{Rank: r, Suit: suit}, nil
			}
		}
	}
	return Card{}, fmt.Errorf("engine: bad card %q", s)
}

// Seat names the side of the table that won a round.
type Seat string

const (
	NoSeat     Seat = ""
	PlayerSeat Seat = "player"
	DealerSeat Seat = "dealer"
)

// Outcome is the closed set of message tags a narrative line is chosen by.
// Six of them end a round; Intro and Quit frame a session.
type Outcome int

const (
	Intro Outcome = iota
	PlayerBust
	DealerBust
	PlayerBlackjack
	DealerBlackjack
	PlayerWin
	DealerWin
	Quit
)

// Outcomes lists every tag in declaration order.
var Outcomes = []Outcome{Intro, PlayerBust, DealerBust, PlayerBlackjack, DealerBlackjack, PlayerWin, DealerWin, Quit}

func (o Outcome) String() string {
	switch o {
	case Intro:
		return "intro"
	case PlayerBust:
		return "youbust"
	case DealerBust:
		return "theybust"
	case PlayerBlackjack:
		return "youblackjack"
	case DealerBlackjack:
		return "theyblackjack"
	case PlayerWin:
		return "youwin"
	case DealerWin:
		return "theywin"
	case Quit:
		return "quit"
	default:
		return "Outcome(" + strconv.Itoa(int(o)) + ")"
	}
}

// ParseOutcome maps a tag back to its Outcome.
func ParseOutcome(tag string) (Outcome, bool) {
	for _, o := range Outcomes {
		if o.String() == tag {
			return o, true
		}
	}
	return 0, false
}

// Winner returns the seat an ending outcome awards the round to.
func (o Outcome) Winner() Seat {
	switch o {
	case PlayerBlackjack, DealerBust, PlayerWin:
		return PlayerSeat
	case DealerBlackjack, PlayerBust, DealerWin:
		return DealerSeat
	default:
		return NoSeat
	}
}

// Ends reports whether the outcome terminates a round.
func (o Outcome) Ends() bool { return o.Winner() != NoSeat }

// Phase is the round state machine position.
type Phase int

const (
	PhaseDealing Phase = iota
	PhasePlayerTurn
	PhaseDealerTurn
	PhaseResolving
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseDealing:
		return "dealing"
	case PhasePlayerTurn:
		return "player turn"
	case PhaseDealerTurn:
		return "dealer turn"
	case PhaseResolving:
		return "resolving"
	case PhaseTerminal:
		return "terminal"
	default:
		return "Phase(" + strconv.Itoa(int(p)) + ")"
	}
}

// Rules parameterize the dealer for one difficulty.
type Rules struct {
	CheatPercent int // chance in [0,100] that a dealer decision peeks at the next card
	CardLimit    int // honest dealer hits while its Ace-low total is at or below this
}

// Difficulty selects one of the four dealer personas.
type Difficulty int

const (
	Cousin Difficulty = iota + 1
	CardClub
	Casino
	Clairvoyant
)

// Difficulties lists the presets in menu order.
var Difficulties = []Difficulty{Cousin, CardClub, Casino, Clairvoyant}

func (d Difficulty) Valid() bool { return d >= Cousin && d <= Clairvoyant }

// Rules returns the fixed preset for d. Invalid difficulties get the honest
// card-club threshold with no cheating.
func (d Difficulty) Rules() Rules {
	switch d {
	case Cousin:
		return Rules{CheatPercent: 0, CardLimit: 19}
	case CardClub:
		return Rules{CheatPercent: 15, CardLimit: 18}
	case Casino:
		return Rules{CheatPercent: 50, CardLimit: 18}
	case Clairvoyant:
		return Rules{CheatPercent: 100, CardLimit: 18}
	default:
		return Rules{CheatPercent: 0, CardLimit: 18}
	}
}

func (d Difficulty) String() string { return strconv.Itoa(int(d)) }

// ParseDifficulty accepts exactly "1", "2", "3" or "4".
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "1":
		return Cousin, nil
	case "2":
		return CardClub, nil
	case "3":
		return Casino, nil
	case "4":
		return Clairvoyant, nil
	}
	return 0, fmt.Errorf("%w: got %q", ErrInvalidDifficulty, s)
}
