package main

import (
	"blackjack-table/server/agent"
	"blackjack-table/server/engine"
	"blackjack-table/server/narrative"
	"context"
	"errors"
	"fmt"
	"io"

	"fortio.org/log"
	"github.com/google/uuid"
)

// sessionConfig is everything an interactive session needs from the process.
type sessionConfig struct {
	in         io.Reader
	out        io.Writer
	rng        engine.Rand
	difficulty engine.Difficulty // zero → prompt
	clear      bool
	eloStart   float64
	eloK       float64
	player     engine.Player // nil → the console decides hit/stand
}

// sessionSummary is what runSession reports back when the player leaves.
type sessionSummary struct {
	ID         uuid.UUID
	Difficulty engine.Difficulty
	Stats      OutcomeStats
	Elo        Elo
}

// runSession is the outer game loop: pick a dealer, play rounds until the
// player declines another, then say goodbye. End of input and cancellation of
// ctx (Ctrl+C) both count as leaving, at any prompt.
func runSession(ctx context.Context, cfg sessionConfig, led *ledger) (sessionSummary, error) {
	console := agent.NewConsole(cfg.in, cfg.out).WithContext(ctx)
	var player engine.Player = console
	if cfg.player != nil {
		player = cfg.player
	}
	scr := &screen{out: cfg.out, clear: cfg.clear}
	sum := sessionSummary{ID: uuid.New(), Elo: NewElo(cfg.eloStart, cfg.eloK)}

	d := cfg.difficulty
	if !d.Valid() {
		scr.clearScreen()
		scr.say(narrative.Menu)
		var err error
		d, err = console.Difficulty()
		if leaving(err) {
			return sum, nil
		}
		if err != nil {
			return sum, err
		}
	}
	sum.Difficulty = d
	log.Infof("session %s: difficulty %d (%s)", sum.ID, d, narrative.Dealer(d))

	piles := engine.NewPiles(cfg.rng)
	led.start(ctx, sum.ID, "play", d)
	defer func() { led.end(context.WithoutCancel(ctx), sum.ID, sum.Stats.Rounds) }()

	scr.clearScreen()
	scr.say(narrative.Line(engine.Intro, d))
	if err := console.Pause(); err != nil {
		return sum, quit(scr, d, &sum, err)
	}

	for n := 1; ; n++ {
		res, err := engine.NewRound(piles, d.Rules(), cfg.rng, player, scr).Play()
		if err != nil {
			return sum, quit(scr, d, &sum, err)
		}
		sum.Stats.Add(res)
		blackjack := res.Outcome == engine.PlayerBlackjack || res.Outcome == engine.DealerBlackjack
		sum.Elo.UpdateRound(res.Winner == engine.PlayerSeat, blackjack)
		led.record(ctx, sum.ID, roundRecord(n, d, res))
		log.Debugf("round %d: %s p=%d d=%d peeks=%d", n, res.Outcome, res.PlayerScore, res.DealerScore, res.Peeks)

		scr.say(narrative.Line(res.Outcome, d))
		fmt.Fprintf(cfg.out, "%s %s\n", dim("outcome:"), outcomeTag(res.Outcome))

		again, err := console.Again()
		if err != nil || !again {
			return sum, quit(scr, d, &sum, err)
		}
		if ctx.Err() != nil {
			return sum, quit(scr, d, &sum, nil)
		}
	}
}

func leaving(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, context.Canceled)
}

// quit prints the farewell and the running tally. End of input and
// cancellation are normal exits.
func quit(scr *screen, d engine.Difficulty, sum *sessionSummary, err error) error {
	if err != nil && !leaving(err) {
		return err
	}
	scr.say(narrative.Line(engine.Quit, d))
	wins := sum.Stats.PlayerWins
	fmt.Fprintf(scr.out, "%s %d  %s %d  %s %d  %s %.0f\n",
		dim("Rounds played:"), sum.Stats.Rounds,
		dim("won:"), wins,
		dim("lost:"), sum.Stats.Rounds-wins,
		dim("rating:"), sum.Elo.Player)
	return nil
}
