package main

import (
	"blackjack-table/server/agent"
	"blackjack-table/server/engine"
	"blackjack-table/server/narrative"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(in string, d engine.Difficulty) sessionConfig {
	return sessionConfig{
		in:         strings.NewReader(in),
		out:        &bytes.Buffer{},
		rng:        newRNG(2024),
		difficulty: d,
		eloStart:   1500,
		eloK:       24,
	}
}

func TestSession_PromptsThenQuitsOnEOF(t *testing.T) {
	// Menu pick, bad pick, enter, then stand until input runs out.
	cfg := testSession("9\n2\n\ns\ns\ns\n", 0)
	sum, err := runSession(context.Background(), cfg, &ledger{})
	require.NoError(t, err)
	out := cfg.out.(*bytes.Buffer).String()

	assert.Contains(t, out, narrative.Menu)
	assert.Contains(t, out, "Please input a valid number.")
	assert.Contains(t, out, narrative.Line(engine.Intro, engine.CardClub))
	assert.Contains(t, out, "Your cards:")
	assert.Contains(t, out, narrative.Line(engine.Quit, engine.CardClub))
	assert.Contains(t, out, "Rounds played: 1")
	assert.Equal(t, engine.CardClub, sum.Difficulty)
	assert.Equal(t, 1, sum.Stats.Rounds)
	assert.Equal(t, 1, sum.Elo.Rounds)
}

func TestSession_PresetSkipsMenu(t *testing.T) {
	cfg := testSession("\ns\nn\n", engine.Cousin)
	sum, err := runSession(context.Background(), cfg, &ledger{})
	require.NoError(t, err)
	out := cfg.out.(*bytes.Buffer).String()

	assert.NotContains(t, out, narrative.Menu)
	assert.Contains(t, out, narrative.Line(engine.Intro, engine.Cousin))
	assert.Contains(t, out, narrative.Line(engine.Quit, engine.Cousin))
	assert.Equal(t, 1, sum.Stats.Rounds)
}

func TestSession_ReplayPlaysAnotherRound(t *testing.T) {
	// Hands are played by a bot so every line of input lands on a session
	// prompt: enter, then y, Y, n at the replay prompts.
	cfg := testSession("\ny\nY\nn\n", engine.Casino)
	cfg.player = agent.Threshold{StandOn: 0}
	sum, err := runSession(context.Background(), cfg, &ledger{})
	require.NoError(t, err)
	out := cfg.out.(*bytes.Buffer).String()

	assert.Equal(t, 3, sum.Stats.Rounds)
	assert.Equal(t, 3, sum.Elo.Rounds)
	assert.Equal(t, 3, strings.Count(out, "outcome:"))
	assert.Equal(t, 1, strings.Count(out, narrative.Line(engine.Intro, engine.Casino)))
	assert.Contains(t, out, "Rounds played: 3")
	assert.Contains(t, out, narrative.Line(engine.Quit, engine.Casino))
}

func TestSession_CancelWhileWaitingForInput(t *testing.T) {
	// stdin stays open and silent, as a terminal does while Ctrl+C arrives.
	pr, pw := io.Pipe()
	defer pw.Close()
	cfg := testSession("", engine.Cousin)
	cfg.in = pr
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	done := make(chan error, 1)
	var sum sessionSummary
	go func() {
		var err error
		sum, err = runSession(ctx, cfg, &ledger{})
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not return after cancel")
	}
	out := cfg.out.(*bytes.Buffer).String()
	assert.Contains(t, out, narrative.Line(engine.Quit, engine.Cousin))
	assert.Contains(t, out, "Rounds played: 0")
	assert.Zero(t, sum.Stats.Rounds)
}

func TestSession_CancelAtMenu(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	cfg := testSession("", 0)
	cfg.in = pr
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := runSession(ctx, cfg, &ledger{})
	require.NoError(t, err)
	assert.Zero(t, sum.Stats.Rounds)
}

func TestSession_EOFAtMenu(t *testing.T) {
	cfg := testSession("", 0)
	sum, err := runSession(context.Background(), cfg, &ledger{})
	require.NoError(t, err)
	assert.Zero(t, sum.Stats.Rounds)
}

func TestScreen_MasksUntilRevealed(t *testing.T) {
	var buf bytes.Buffer
	scr := &screen{out: &buf}
	p := &engine.Piles{
		Player: engine.Deck{{Rank: engine.Ten, Suit: engine.Spades}, {Rank: engine.Nine, Suit: engine.Hearts}},
		Dealer: engine.Deck{{Rank: engine.King, Suit: engine.Clubs}, {Rank: engine.Seven, Suit: engine.Diamonds}},
	}
	r := engine.NewRound(p, engine.Cousin.Rules(), newRNG(1), nil, nil)
	scr.Show(r)
	assert.Equal(t, "Your cards: 10♠ 9♥ \nDealer's Cards: K♣ ** \n", buf.String())

	buf.Reset()
	r.Phase = engine.PhaseTerminal
	scr.Show(r)
	assert.Equal(t, "Your cards: 10♠ 9♥ \nDealer's Cards: K♣ 7♦ \n", buf.String())

	buf.Reset()
	scr.clear = true
	scr.Show(r)
	assert.True(t, strings.HasPrefix(buf.String(), clearSeq))
	assert.Equal(t, 1, strings.Count(buf.String(), "\033[2J"))
}
