package engine

import (
	"fmt"
	"slices"
)

// Choice is the player's answer to the hit/stand prompt.
type Choice int

const (
	Stand Choice = iota
	Hit
)

func (c Choice) String() string {
	if c == Hit {
		return "hit"
	}
	return "stand"
}

// Player supplies the hit/stand decision. It is the only place a round blocks.
type Player interface {
	Decide(r *Round) (Choice, error)
}

// Table is shown the round once per pass of the turn loop and once more when
// the round ends.
type Table interface {
	Show(r *Round)
}

// Result summarizes a finished round. Hands are copies taken before the cards
// went to the discard pile.
type Result struct {
	Outcome     Outcome
	Winner      Seat
	Player      Deck
	Dealer      Deck
	PlayerScore int
	DealerScore int
	PlayerHits  int
	DealerHits  int
	Peeks       int
	Recycles    int
}

// Round is the context of a single deal. It owns the piles from Play until
// Play returns; afterwards both hands are back in the discard pile.
type Round struct {
	Piles   *Piles
	Rules   Rules
	Phase   Phase
	Outcome Outcome

	rng    Rand
	player Player
	table  Table

	playerPlaying bool
	dealerPlaying bool

	playerHits, dealerHits, peeks int
}

// NewRound prepares a round over p. table may be nil.
func NewRound(p *Piles, rules Rules, rng Rand, player Player, table Table) *Round {
	return &Round{Piles: p, Rules: rules, Phase: PhaseDealing, rng: rng, player: player, table: table}
}

// PlayerHand is the player's current hand.
func (r *Round) PlayerHand() Deck { return r.Piles.Player }

// DealerHand is the dealer's current hand, face-down cards included.
func (r *Round) DealerHand() Deck { return r.Piles.Dealer }

// Revealed reports whether the dealer's hand may be shown in full.
func (r *Round) Revealed() bool { return r.Phase == PhaseTerminal }

// PlayerStanding reports that the player has stood or the round is over.
func (r *Round) PlayerStanding() bool { return !r.playerPlaying }

// DealerStanding reports that the dealer has stood or the round is over.
func (r *Round) DealerStanding() bool { return !r.dealerPlaying }

// Play runs the round to its terminal outcome. Every pass of the loop checks
// for 21, gives the player one decision, checks for 21 again and gives the
// dealer one decision. Errors come only from the player or from a broken card
// invariant; the hands are still collected into the discard pile.
func (r *Round) Play() (Result, error) {
	if r.Piles.Player.Len() != 0 || r.Piles.Dealer.Len() != 0 {
		return Result{}, fmt.Errorf("%w: hands not empty at deal", ErrInvariantViolation)
	}
	startRecycles := r.Piles.Recycles
	if err := r.deal(); err != nil {
		r.Piles.Collect()
		return Result{}, err
	}
	r.playerPlaying, r.dealerPlaying = true, true

	for r.Phase != PhaseTerminal {
		r.show()
		if r.checkTwentyOne() {
			break
		}
		if r.playerPlaying {
			r.Phase = PhasePlayerTurn
			if err := r.playerTurn(); err != nil {
				r.Piles.Collect()
				return Result{}, err
			}
			if r.Phase == PhaseTerminal {
				break
			}
		}
		if r.checkTwentyOne() {
			break
		}
		if r.dealerPlaying {
			r.Phase = PhaseDealerTurn
			if err := r.dealerTurn(); err != nil {
				r.Piles.Collect()
				return Result{}, err
			}
			if r.Phase == PhaseTerminal {
				break
			}
		}
		if !r.playerPlaying && !r.dealerPlaying {
			r.resolve()
		}
	}

	res := Result{
		Outcome:     r.Outcome,
		Winner:      r.Outcome.Winner(),
		Player:      slices.Clone(r.Piles.Player),
		Dealer:      slices.Clone(r.Piles.Dealer),
		PlayerScore: r.Piles.Player.Score(),
		DealerScore: r.Piles.Dealer.Score(),
		PlayerHits:  r.playerHits,
		DealerHits:  r.dealerHits,
		Peeks:       r.peeks,
		Recycles:    r.Piles.Recycles - startRecycles,
	}
	r.show()
	r.Piles.Collect()
	return res, nil
}

// deal gives two cards each, player first, alternating.
func (r *Round) deal() error {
	r.Phase = PhaseDealing
	for i := 0; i < 4; i++ {
		c, err := r.Piles.Next(r.rng)
		if err != nil {
			return fmt.Errorf("deal card %d: %w", i+1, err)
		}
		if i%2 == 0 {
			r.Piles.Player.Push(c)
		} else {
			r.Piles.Dealer.Push(c)
		}
	}
	return nil
}

// checkTwentyOne ends the round when either hand makes 21; the player is
// checked first.
func (r *Round) checkTwentyOne() bool {
	switch {
	case r.Piles.Player.IsBlackjack():
		r.end(PlayerBlackjack)
	case r.Piles.Dealer.IsBlackjack():
		r.end(DealerBlackjack)
	default:
		return false
	}
	return true
}

func (r *Round) playerTurn() error {
	choice, err := r.player.Decide(r)
	if err != nil {
		return fmt.Errorf("player decision: %w", err)
	}
	if choice == Stand {
		r.playerPlaying = false
		return nil
	}
	c, err := r.Piles.Next(r.rng)
	if err != nil {
		return fmt.Errorf("player hit: %w", err)
	}
	r.Piles.Player.Push(c)
	r.playerHits++
	if r.Piles.Player.IsBust() {
		r.end(PlayerBust)
	}
	return nil
}

func (r *Round) dealerTurn() error {
	d, err := DealerDecide(r.Piles, r.Rules, RollCheat(r.rng), r.rng)
	if err != nil {
		return fmt.Errorf("dealer decision: %w", err)
	}
	if d.Peeked {
		r.peeks++
	}
	if !d.Hit {
		r.dealerPlaying = false
		return nil
	}
	r.Piles.Dealer.Push(d.Card)
	r.dealerHits++
	if r.Piles.Dealer.IsBust() {
		r.end(DealerBust)
	}
	return nil
}

// resolve compares scores once both sides stand. Ties go to the dealer.
func (r *Round) resolve() {
	r.Phase = PhaseResolving
	if r.Piles.Dealer.Score() >= r.Piles.Player.Score() {
		r.end(DealerWin)
		return
	}
	r.end(PlayerWin)
}

func (r *Round) end(o Outcome) {
	r.Outcome = o
	r.Phase = PhaseTerminal
	r.playerPlaying, r.dealerPlaying = false, false
}

func (r *Round) show() {
	if r.table != nil {
		r.table.Show(r)
	}
}
