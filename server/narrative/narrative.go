// Package narrative holds the flavour text each dealer persona says at the
// start of a session, at the end of every round and when the player leaves.
package narrative

import "blackjack-table/server/engine"

// Menu is the difficulty prompt shown before a session.
const Menu = `Welcome to the blackjack table! Pick who deals tonight.
1. Your cousin Lenny. He learned the rules this morning and it shows.
2. Wilma and the regulars down at the card club. Solid players, nothing fancy.
3. A house dealer at the casino. Quiet, quick and very good at this.
4. Madam Lulu, local clairvoyant. She says she already knows what comes next.
Pick 1-4.`

// lines is indexed by outcome, then by difficulty-1.
var lines = map[engine.Outcome][4]string{
	engine.Intro: {
		`"Okay, two cards each, right? Not one? Two. Got it. This is gonna be great!"`,
		`Wilma shuffles with a practised riffle and slides four cards across the felt. "Good luck, hon."`,
		`The dealer nods once and sends out four cards without a word.`,
		`"Sit, sit. The cards have been waiting for you," Madam Lulu murmurs, dealing with her eyes half closed.`,
	},
	engine.PlayerBust: {
		`You show your bust and Lenny jumps out of his chair. "I won! Wait, did I? I won!"`,
		`Wilma clicks her tongue at your bust. "Rough one. It happens."`,
		`The dealer sweeps your bust away. "Over."`,
		`Madam Lulu barely glances at your bust. "I saw this an hour ago."`,
	},
	engine.DealerBust: {
		`Lenny counts his cards twice. "That's more than twenty-one. That's bad, isn't it? Aw, man."`,
		`Wilma flips over her bust and laughs. "Well, that's on me. Another?"`,
		`The dealer turns over a bust hand. "Dealer busts."`,
		`Madam Lulu stares at her bust hand. "That is not how it went in the vision. Someone should look into this."`,
	},
	engine.PlayerBlackjack: {
		`You lay down twenty-one and Lenny frowns. "So that's... good for you? Rematch, right now!"`,
		`Wilma whistles at your twenty-one. "Look at you. One more?"`,
		`The dealer eyes your twenty-one. "Congratulations," he says, not sounding like it.`,
		`Madam Lulu inclines her head at your twenty-one. "The spirits are generous tonight."`,
	},
	engine.DealerBlackjack: {
		`Lenny slaps down his cards. "Twenty-one! That's the one you want, right? Yes!"`,
		`Wilma shows her twenty-one. "Blackjack, sorry. Go again?"`,
		`The dealer reveals twenty-one with the faintest smile. "Unlucky."`,
		`Madam Lulu turns over twenty-one. "It was always going to be this way."`,
	},
	engine.PlayerWin: {
		`Lenny counts on his fingers and sighs. "Yours is bigger. One more, I'm figuring this out."`,
		`Wilma taps the table. "Nicely played. You knew when to stop."`,
		`The dealer totals both hands. "Player wins."`,
		`Madam Lulu smiles. "I knew you would win this one. I simply chose not to say."`,
	},
	engine.DealerWin: {
		`Lenny grins ear to ear. "Mine's bigger! I'm on a streak! Again, again!"`,
		`Wilma gathers the cards. "Can't win them all. Another hand?"`,
		`The dealer totals both hands and collects them. "House wins."`,
		`Madam Lulu gathers the cards. "Fate favours the one who reads it."`,
	},
	engine.Quit: {
		`"Done already? Okay. Same time tomorrow, I'll be better by then."`,
		`Wilma waves. "Thanks for stopping by the club. See you next week."`,
		`The dealer gives a small nod and turns to the next seat.`,
		`"Come back whenever you wish to argue with fate," Madam Lulu says as you leave.`,
	},
}

// Line returns the persona's line for o. Unknown difficulties get no line.
// Dealer names the persona behind a difficulty.
func Dealer(d engine.Difficulty) string {
	if !d.Valid() {
		return ""
	}
	return dealers[d-1]
}

var dealers = [4]string{"Lenny", "Wilma", "the house dealer", "Madam Lulu"}

func Line(o engine.Outcome, d engine.Difficulty) string {
	if !d.Valid() {
		return ""
	}
	return lines[o][d-1]
}
