package agent

import (
	"blackjack-table/server/engine"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Console is the line-based input collaborator. Malformed answers are
// re-prompted and never leave this type; io.EOF does, and so does the
// context error once a console bound with WithContext is cancelled.
type Console struct {
	in  *bufio.Reader
	out io.Writer

	ctx   context.Context
	once  sync.Once
	lines chan readResult
	err   error // sticky end of input
}

type readResult struct {
	line string
	err  error
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// WithContext makes every read give up when ctx is done. The underlying
// reader is drained by a goroutine that outlives a cancelled read.
func (c *Console) WithContext(ctx context.Context) *Console {
	c.ctx = ctx
	return c
}

func (c *Console) readLine() (string, error) {
	if c.ctx == nil {
		return c.readRaw()
	}
	if c.err != nil {
		return "", c.err
	}
	if err := c.ctx.Err(); err != nil {
		return "", err
	}
	c.once.Do(func() {
		c.lines = make(chan readResult)
		go func() {
			for {
				line, err := c.readRaw()
				c.lines <- readResult{line, err}
				if err != nil {
					return
				}
			}
		}()
	})
	select {
	case <-c.ctx.Done():
		return "", c.ctx.Err()
	case r := <-c.lines:
		if r.err != nil {
			c.err = r.err
		}
		return r.line, r.err
	}
}

func (c *Console) readRaw() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ask reads lines until parse accepts one, printing retry after each rejection.
func ask[T any](c *Console, prompt, retry string, parse func(string) (T, error)) (T, error) {
	if prompt != "" {
		fmt.Fprintln(c.out, prompt)
	}
	for {
		line, err := c.readLine()
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(line)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrInvalidInput) {
			var zero T
			return zero, err
		}
		fmt.Fprintln(c.out, retry)
	}
}

// Difficulty asks for 1-4. The menu text itself is printed by the caller.
func (c *Console) Difficulty() (engine.Difficulty, error) {
	return ask(c, "", "Please input a valid number.", ParseDifficulty)
}

// Decide implements engine.Player for a human at the keyboard.
func (c *Console) Decide(*engine.Round) (engine.Choice, error) {
	return ask(c, "<H>it or <S>tay?", "Please input a valid response.", ParseChoice)
}

// Again asks whether to play another round.
func (c *Console) Again() (bool, error) {
	return ask(c, "Play again? y/n", "Please answer y or n.", ParseReplay)
}

// Pause waits for any line.
func (c *Console) Pause() error {
	fmt.Fprintln(c.out, "(press <enter> to continue)")
	_, err := c.readLine()
	return err
}
