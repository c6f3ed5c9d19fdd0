package agent

import (
	"blackjack-table/server/engine"
	"bytes"
	"context"
	"io"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChoice(t *testing.T) {
	for in, want := range map[string]engine.Choice{"h": engine.Hit, "H": engine.Hit, " s\n": engine.Stand, "S": engine.Stand} {
		got, err := ParseChoice(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got)
	}
	for _, bad := range []string{"", "hit", "x", "hs"} {
		_, err := ParseChoice(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, "input %q", bad)
	}
}

func TestParseReplay(t *testing.T) {
	yes, err := ParseReplay("y")
	require.NoError(t, err)
	assert.True(t, yes)
	no, err := ParseReplay("n\n")
	require.NoError(t, err)
	assert.False(t, no)
	_, err = ParseReplay("maybe")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConsole_DifficultyReprompts(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("9\nabc\n3\n"), &out)
	d, err := c.Difficulty()
	require.NoError(t, err)
	assert.Equal(t, engine.Casino, d)
	assert.Equal(t, 2, strings.Count(out.String(), "Please input a valid number."))
}

func TestConsole_DecideReprompts(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("q\nH\n"), &out)
	choice, err := c.Decide(nil)
	require.NoError(t, err)
	assert.Equal(t, engine.Hit, choice)
	assert.Contains(t, out.String(), "<H>it or <S>tay?")
	assert.Contains(t, out.String(), "Please input a valid response.")
}

func TestConsole_LastLineWithoutNewline(t *testing.T) {
	c := NewConsole(strings.NewReader("n"), io.Discard)
	again, err := c.Again()
	require.NoError(t, err)
	assert.False(t, again)
}

func TestConsole_EOF(t *testing.T) {
	c := NewConsole(strings.NewReader("x\n"), io.Discard)
	_, err := c.Decide(nil)
	assert.ErrorIs(t, err, io.EOF)

	c = NewConsole(strings.NewReader(""), io.Discard)
	assert.ErrorIs(t, c.Pause(), io.EOF)
}

func TestConsole_CancelInterruptsRead(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	c := NewConsole(pr, io.Discard).WithContext(ctx)

	time.AfterFunc(20*time.Millisecond, cancel)
	_, err := c.Difficulty()
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, c.Pause(), context.Canceled)
}

func TestConsole_WithContextStillReads(t *testing.T) {
	c := NewConsole(strings.NewReader("x
h
"), io.Discard).WithContext(context.Background())
	got, err := c.Decide(nil)
	require.NoError(t, err)
	assert.Equal(t, engine.Hit, got)
	assert.ErrorIs(t, c.Pause(), io.EOF)
	assert.ErrorIs(t, c.Pause(), io.EOF)
}

func TestObservation_HidesDealerHoleCards(t *testing.T) {
	var seen []Observation
	p := engine.NewPiles(rand.New(rand.NewPCG(9, 9)))
	watcher := playerFunc(func(r *engine.Round) (engine.Choice, error) {
		seen = append(seen, BuildObservation(r))
		return engine.Stand, nil
	})
	_, err := engine.NewRound(p, engine.Cousin.Rules(), rand.New(rand.NewPCG(1, 2)), watcher, nil).Play()
	require.NoError(t, err)
	for _, o := range seen {
		assert.Len(t, o.PlayerCards, 2)
		assert.NotEmpty(t, o.DealerUp)
		assert.Equal(t, 2, o.DealerCards)
		assert.Equal(t, "player turn", o.Phase)
	}
}

func TestThreshold(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	p := engine.NewPiles(rng)
	bot := Threshold{StandOn: 17}
	for i := 0; i < 500; i++ {
		res, err := engine.NewRound(p, engine.CardClub.Rules(), rng, bot, nil).Play()
		require.NoError(t, err)
		if res.Outcome == engine.PlayerWin || res.Outcome == engine.DealerWin {
			assert.GreaterOrEqual(t, res.PlayerScore, 17)
		}
	}
	require.NoError(t, p.Verify())
}

type playerFunc func(r *engine.Round) (engine.Choice, error)

func (f playerFunc) Decide(r *engine.Round) (engine.Choice, error) { return f(r) }
