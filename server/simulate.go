package main

import (
	"blackjack-table/server/agent"
	"blackjack-table/server/engine"
	"blackjack-table/server/judge"
	"blackjack-table/server/narrative"
	"blackjack-table/server/store"
	"context"
	"fmt"
	"io"
	"strings"

	"fortio.org/log"
	"github.com/google/uuid"
)

type simConfig struct {
	rounds       int
	standOn      int
	rng          engine.Rand
	eloStart     float64
	eloK         float64
	judgeSamples int     // 0 disables the judge
	judgeEps     float64 // win probability a choice may give up and still count as top
}

// simResult is one difficulty's run.
type simResult struct {
	Difficulty engine.Difficulty
	Stats      OutcomeStats
	Elo        Elo
	Glicko     Glicko2 // the dealer's rating after the period
}

// judged wraps a decision source and scores every decision it makes.
type judged struct {
	player  engine.Player
	rng     engine.Rand
	samples int
	eps     float64
	stats   *OutcomeStats
}

func (j *judged) Decide(r *engine.Round) (engine.Choice, error) {
	c, err := j.player.Decide(r)
	if err != nil || j.samples <= 0 {
		return c, err
	}
	v, err := judge.Evaluate(agent.BuildObservation(r), c, r.Rules, j.rng, j.samples)
	if err != nil {
		return c, fmt.Errorf("judge: %w", err)
	}
	j.stats.Judged++
	if v.IsTop(j.eps) {
		j.stats.TopChoices++
	}
	return c, nil
}

// runSimulation plays cfg.rounds rounds against every dealer persona with the
// threshold bot in the player seat. The card-conservation invariant is checked
// after every round; a violation aborts the run.
func runSimulation(ctx context.Context, cfg simConfig, led *ledger) ([]simResult, Glicko2, error) {
	out := make([]simResult, 0, len(engine.Difficulties))

	for _, d := range engine.Difficulties {
		res := simResult{Difficulty: d, Elo: NewElo(cfg.eloStart, cfg.eloK)}
		bot := &judged{
			player:  agent.Threshold{StandOn: cfg.standOn},
			rng:     cfg.rng,
			samples: cfg.judgeSamples,
			eps:     cfg.judgeEps,
			stats:   &res.Stats,
		}
		id := uuid.New()
		led.start(ctx, id, "simulate", d)

		piles := engine.NewPiles(cfg.rng)
		batch := make([]store.Round, 0, cfg.rounds)
		for n := 1; n <= cfg.rounds; n++ {
			if ctx.Err() != nil {
				log.Warnf("simulation interrupted at difficulty %d after %d rounds", d, n-1)
				break
			}
			r, err := engine.NewRound(piles, d.Rules(), cfg.rng, bot, nil).Play()
			if err != nil {
				return out, Glicko2{}, fmt.Errorf("difficulty %d round %d: %w", d, n, err)
			}
			if err := piles.Verify(); err != nil {
				return out, Glicko2{}, fmt.Errorf("difficulty %d round %d: %w", d, n, err)
			}
			res.Stats.Add(r)
			blackjack := r.Outcome == engine.PlayerBlackjack || r.Outcome == engine.DealerBlackjack
			res.Elo.UpdateRound(r.Winner == engine.PlayerSeat, blackjack)
			batch = append(batch, roundRecord(n, d, r))
		}
		led.recordBatch(ctx, id, batch)
		led.end(ctx, id, res.Stats.Rounds)

		lo, hi := WilsonCI95(res.Stats.PlayerWins, 0, res.Stats.Rounds)
		log.Infof("sim %d: rounds=%d win=%.3f [%.3f, %.3f] peeks=%d recycles=%d elo=%.0f",
			d, res.Stats.Rounds, res.Stats.WinRate(), lo, hi, res.Stats.Peeks, res.Stats.Recycles, res.Elo.Player)
		out = append(out, res)
		if ctx.Err() != nil {
			break
		}
	}

	bot, dealers := rateSimulation(out, cfg.eloStart)
	for i := range out {
		out[i].Glicko = dealers[i]
	}
	return out, bot, nil
}

func printSimulation(w io.Writer, results []simResult, bot Glicko2) {
	fmt.Fprintf(w, "\n%s %s %s\n", dim("──"), bold("Simulation"), dim("──"))
	for _, r := range results {
		lo, hi := WilsonCI95(r.Stats.PlayerWins, 0, r.Stats.Rounds)
		fmt.Fprintf(w, "%s %s\n", dim("•"), bold(fmt.Sprintf("%d %s", r.Difficulty, narrative.Dealer(r.Difficulty))))
		fmt.Fprintf(w, "  rounds %d  player wins %d (%.1f%%, 95%% CI %.1f–%.1f%%)\n",
			r.Stats.Rounds, r.Stats.PlayerWins, 100*r.Stats.WinRate(), 100*lo, 100*hi)
		parts := make([]string, 0, len(engine.Outcomes))
		for _, o := range engine.Outcomes {
			if n := r.Stats.ByOutcome[o]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s=%d", outcomeTag(o), n))
			}
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(parts, " "))
		fmt.Fprintf(w, "  peeks %d (%.2f/round)  recycles %d  elo player %.0f vs dealer %.0f\n",
			r.Stats.Peeks, r.Stats.PeeksPerRound(), r.Stats.Recycles, r.Elo.Player, r.Elo.Dealer)
		fmt.Fprintf(w, "  glicko dealer %.0f ±%.0f", r.Glicko.Rating, 2*r.Glicko.RD)
		if r.Stats.Judged > 0 {
			fmt.Fprintf(w, "  judge %d/%d top (%.1f%%)", r.Stats.TopChoices, r.Stats.Judged, 100*r.Stats.JudgeAccuracy())
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%s %s %.0f ±%.0f (σ %.3f)\n", dim("•"), bold("bot glicko"), bot.Rating, 2*bot.RD, bot.Volatility)
}
