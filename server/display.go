package main

import (
	"blackjack-table/server/engine"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
)

//
// ===== pretty printing =====
//

func bold(s string) string { return pterm.Bold.Sprint(s) }
func dim(s string) string  { return pterm.Gray(s) }
func good(s string) string { return pterm.LightGreen(s) }
func bad(s string) string  { return pterm.LightRed(s) }

// paint colours red-suited cards in a rendered hand, keeping the spacing.
func paint(rendered string) string {
	fields := strings.Split(rendered, " ")
	for i, f := range fields {
		if c, err := engine.ParseCard(f); err == nil && c.Suit.Red() {
			fields[i] = pterm.LightRed(f)
		}
	}
	return strings.Join(fields, " ")
}

func outcomeTag(o engine.Outcome) string {
	if o.Winner() == engine.PlayerSeat {
		return good(o.String())
	}
	return bad(o.String())
}

// screen is the display collaborator: it redraws both hands on every pass of
// the round loop, masking the dealer's hole cards until the round is over.
type screen struct {
	out   io.Writer
	clear bool
}

// clearSeq erases the terminal and homes the cursor (ED 2 then CUP).
const clearSeq = "\033[2J\033[H"

func (s *screen) clearScreen() {
	if s.clear {
		fmt.Fprint(s.out, clearSeq)
	}
}

func (s *screen) Show(r *engine.Round) {
	s.clearScreen()
	fmt.Fprintf(s.out, "%s %s\n", bold("Your cards:"), paint(r.PlayerHand().Render()))
	dealer := r.DealerHand().RenderMasked()
	if r.Revealed() {
		dealer = r.DealerHand().Render()
	}
	fmt.Fprintf(s.out, "%s %s\n", bold("Dealer's Cards:"), paint(dealer))
}

func (s *screen) say(line string) {
	if line != "" {
		fmt.Fprintln(s.out, line)
	}
}
