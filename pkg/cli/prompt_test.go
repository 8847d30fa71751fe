package cli_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgtransfer/tgtransfer/pkg/cli"
)

func newTerminal(input string) (*cli.Terminal, *bytes.Buffer) {
	var out bytes.Buffer
	return cli.NewTerminal(strings.NewReader(input), &out), &out
}

func TestTerminal_Ask(t *testing.T) {
	term, out := newTerminal("  hello world \r\nlast")
	ctx := context.Background()

	answer, err := term.Ask(ctx, "Say: ")
	require.NoError(t, err)
	assert.Equal(t, "hello world", answer)
	assert.Contains(t, out.String(), "Say: ")

	answer, err = term.Ask(ctx, "Again: ")
	require.NoError(t, err)
	assert.Equal(t, "last", answer)

	_, err = term.Ask(ctx, "Gone: ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestTerminal_AskDefault(t *testing.T) {
	term, out := newTerminal("\ncustom\n")
	ctx := context.Background()

	answer, err := term.AskDefault(ctx, "Folder", "images")
	require.NoError(t, err)
	assert.Equal(t, "images", answer)
	assert.Contains(t, out.String(), "default 'images'")

	answer, err = term.AskDefault(ctx, "Folder", "images")
	require.NoError(t, err)
	assert.Equal(t, "custom", answer)
}

func TestTerminal_AskInt(t *testing.T) {
	term, out := newTerminal("abc\n9\n3\n")
	n, err := term.AskInt(context.Background(), "Pick: ", 0, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Contains(t, out.String(), "Please enter a number")
	assert.Contains(t, out.String(), "between 0 and 5")
}

func TestTerminal_Confirm(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
	}
	for _, test := range tests {
		term, _ := newTerminal(test.input)
		ok, err := term.Confirm(context.Background(), "Sure? (y/N): ")
		require.NoError(t, err)
		assert.Equal(t, test.expected, ok, test.input)
	}
}

func TestTerminal_Menu(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		exit     string
		expected int
		err      error
	}{
		{name: "option", input: "2\n", exit: "Exit", expected: 2},
		{name: "exit", input: "0\n", exit: "Exit", expected: 0},
		{name: "no exit", input: "0\n", err: cli.ErrInvalidChoice},
		{name: "out of range", input: "4\n", exit: "Exit", err: cli.ErrInvalidChoice},
		{name: "not a number", input: "x\n", exit: "Exit", err: cli.ErrInvalidChoice},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			term, out := newTerminal(test.input)
			n, err := term.Menu(context.Background(), "Options:", []string{"One", "Two", "Three"}, test.exit)
			if test.err != nil {
				assert.ErrorIs(t, err, test.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, n)
			assert.Contains(t, out.String(), "3. Three")
			assert.Contains(t, out.String(), "0. Exit")
		})
	}
}

func TestTerminal_PasswordWithoutTTY(t *testing.T) {
	term, _ := newTerminal("hunter2\n")
	pw, err := term.Password(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pw)
}

type blockingReader struct{ ch chan struct{} }

func (r blockingReader) Read([]byte) (int, error) {
	<-r.ch
	return 0, io.EOF
}

func TestTerminal_AskCanceled(t *testing.T) {
	r := blockingReader{ch: make(chan struct{})}
	defer close(r.ch)
	term := cli.NewTerminal(r, io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := term.Ask(ctx, "Never: ")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestTerminal_AskAfterCanceledPrompt(t *testing.T) {
	r, w := io.Pipe()
	defer r.Close()
	term := cli.NewTerminal(r, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := term.Ask(ctx, "Name: ")
	assert.ErrorIs(t, err, context.Canceled)

	go func() {
		_, _ = io.WriteString(w, "first\nsecond\n")
	}()
	answer, err := term.Ask(context.Background(), "Name: ")
	require.NoError(t, err)
	assert.Equal(t, "first", answer)
	answer, err = term.Ask(context.Background(), "Again: ")
	require.NoError(t, err)
	assert.Equal(t, "second", answer)
}
