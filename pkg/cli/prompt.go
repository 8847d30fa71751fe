// tgtransfer - Batch media transfer tools for Telegram.
// Copyright (C) 2026 tgtransfer contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package cli contains the interactive terminal used by the tgtransfer tools.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/go-faster/errors"
	"golang.org/x/term"

	"github.com/tgtransfer/tgtransfer/pkg/sessions"
)

var (
	promptColor  = color.New(color.FgCyan)
	infoColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
)

// ErrInvalidChoice is returned by Menu when the answer isn't one of the
// offered options.
var ErrInvalidChoice = errors.New("invalid choice")

// Terminal reads answers from an input stream and writes prompts and
// messages to an output stream.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	// passwordFD is the terminal to read hidden input from, or -1.
	passwordFD int
	// pending is the result of a read that outlived a canceled prompt. The
	// next prompt takes over that read instead of starting a second one.
	pending chan lineResult
}

var _ sessions.Prompter = (*Terminal)(nil)

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{in: bufio.NewReader(in), out: out, passwordFD: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.passwordFD = int(f.Fd())
	}
	return t
}

func (t *Terminal) Out() io.Writer {
	return t.out
}

type lineResult struct {
	line string
	err  error
}

// readLine is not safe for concurrent use. Prompts are issued from a single
// goroutine.
func (t *Terminal) readLine(ctx context.Context) (string, error) {
	if t.pending == nil {
		ch := make(chan lineResult, 1)
		go func() {
			line, err := t.in.ReadString('\n')
			ch <- lineResult{line, err}
		}()
		t.pending = ch
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-t.pending:
		t.pending = nil
		if res.err != nil && (res.line == "" || !errors.Is(res.err, io.EOF)) {
			return "", res.err
		}
		return strings.TrimRight(res.line, "\r\n"), nil
	}
}

func (t *Terminal) Println(a ...any) {
	_, _ = fmt.Fprintln(t.out, a...)
}

func (t *Terminal) Header(format string, args ...any) {
	_, _ = promptColor.Fprintf(t.out, format+"\n", args...)
}

func (t *Terminal) Info(format string, args ...any) {
	_, _ = infoColor.Fprintf(t.out, format+"\n", args...)
}

func (t *Terminal) Success(format string, args ...any) {
	_, _ = successColor.Fprintf(t.out, format+"\n", args...)
}

func (t *Terminal) Error(format string, args ...any) {
	_, _ = errorColor.Fprintf(t.out, format+"\n", args...)
}

// Ask prints the prompt and returns the trimmed answer.
func (t *Terminal) Ask(ctx context.Context, prompt string) (string, error) {
	_, _ = promptColor.Fprint(t.out, prompt)
	line, err := t.readLine(ctx)
	return strings.TrimSpace(line), err
}

// AskDefault is like Ask, but returns def for an empty answer.
func (t *Terminal) AskDefault(ctx context.Context, prompt, def string) (string, error) {
	answer, err := t.Ask(ctx, fmt.Sprintf("%s (press Enter for default '%s'): ", prompt, def))
	if err != nil {
		return "", err
	} else if answer == "" {
		return def, nil
	}
	return answer, nil
}

// AskInt keeps asking until the answer is a number between lo and hi.
func (t *Terminal) AskInt(ctx context.Context, prompt string, lo, hi int) (int, error) {
	for {
		answer, err := t.Ask(ctx, prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err != nil {
			t.Error("Invalid input! Please enter a number.")
			continue
		} else if n < lo || n > hi {
			t.Error("Invalid choice! Please select a number between %d and %d.", lo, hi)
			continue
		}
		return n, nil
	}
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (t *Terminal) Confirm(ctx context.Context, prompt string) (bool, error) {
	answer, err := t.Ask(ctx, prompt)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Menu prints the numbered options and returns the chosen key. Options are
// shown in order, exit is always listed last as 0.
func (t *Terminal) Menu(ctx context.Context, title string, options []string, exit string) (int, error) {
	t.Header("\n%s", title)
	for i, opt := range options {
		t.Println(fmt.Sprintf("%d. %s", i+1, opt))
	}
	if exit != "" {
		t.Println("0. " + exit)
	}
	answer, err := t.Ask(ctx, fmt.Sprintf("\nEnter your choice (0-%d): ", len(options)))
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 0 || n > len(options) || (n == 0 && exit == "") {
		return 0, ErrInvalidChoice
	}
	return n, nil
}

// WaitEnter blocks until the user presses Enter.
func (t *Terminal) WaitEnter(ctx context.Context) error {
	_, err := t.Ask(ctx, "Press Enter to continue...")
	return err
}

func (t *Terminal) Phone(ctx context.Context) (string, error) {
	return t.Ask(ctx, "Phone number (with country code, e.g., +1234567890): ")
}

func (t *Terminal) Code(ctx context.Context) (string, error) {
	return t.Ask(ctx, "Enter the code you received: ")
}

// Password reads the two-factor password, hiding the input when reading from
// a terminal.
func (t *Terminal) Password(ctx context.Context) (string, error) {
	if t.passwordFD < 0 {
		return t.Ask(ctx, "Two-factor authentication is enabled. Password: ")
	}
	_, _ = promptColor.Fprint(t.out, "Two-factor authentication is enabled. Password: ")
	ch := make(chan lineResult, 1)
	go func() {
		pw, err := term.ReadPassword(t.passwordFD)
		ch <- lineResult{string(pw), err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		t.Println()
		return res.line, res.err
	}
}
