package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgtransfer/tgtransfer/pkg/app"
	"github.com/tgtransfer/tgtransfer/pkg/cli"
	"github.com/tgtransfer/tgtransfer/pkg/config"
	"github.com/tgtransfer/tgtransfer/pkg/sessions"
)

type fakeAuthorizer struct{}

func (fakeAuthorizer) Authorize(_ context.Context, info *sessions.SessionInfo) (*sessions.Profile, error) {
	if err := os.WriteFile(info.SessionFile, []byte("{}"), 0o600); err != nil {
		return nil, err
	}
	return &sessions.Profile{UserID: 1, FirstName: "Test", Username: "tester"}, nil
}

func newApp(t *testing.T, input string) (*app.App, *bytes.Buffer) {
	dir := t.TempDir()
	cfg := &config.Config{
		Transfer: config.TransferConfig{BatchSize: 2, DownloadRoot: filepath.Join(dir, "downloads"), MessageLimit: 10},
		Sessions: config.SessionsConfig{Dir: filepath.Join(dir, "sessions"), ConfigFile: filepath.Join(dir, "sessions_config.json")},
	}
	var out bytes.Buffer
	a, err := app.New(context.Background(), cfg, cli.NewTerminal(strings.NewReader(input), &out))
	require.NoError(t, err)
	a.Registry.Authorizer = fakeAuthorizer{}
	return a, &out
}

func TestManageSessions_AddListRemove(t *testing.T) {
	input := strings.Join([]string{
		"2", "work", "+100", "1234", "hash",
		"2", "work", "+100", "1234", "hash",
		"3", "work",
		"1",
		"4", "work", "y",
		"0",
	}, "\n") + "\n"
	a, out := newApp(t, input)

	require.NoError(t, a.ManageSessions(context.Background()))
	text := out.String()
	assert.Contains(t, text, "Session 'work' added successfully")
	assert.Contains(t, text, "Session 'work' already exists")
	assert.Contains(t, text, "Switched to session 'work'")
	assert.Contains(t, text, "ACTIVE")
	assert.Contains(t, text, "Session 'work' removed")
	assert.Contains(t, text, "Session Manager closed")
	assert.Equal(t, 0, a.Registry.Len())
	assert.Nil(t, a.Registry.Current())
}

func TestManageSessions_AddValidation(t *testing.T) {
	input := strings.Join([]string{
		"2", "",
		"2", "work", "",
		"2", "work", "+1", "abc",
		"2", "work", "+1", "5", "",
		"9",
		"0",
	}, "\n") + "\n"
	a, out := newApp(t, input)

	require.NoError(t, a.ManageSessions(context.Background()))
	text := out.String()
	assert.Contains(t, text, "Session name cannot be empty")
	assert.Contains(t, text, "Phone number cannot be empty")
	assert.Contains(t, text, "Invalid API ID")
	assert.Contains(t, text, "API Hash cannot be empty")
	assert.Contains(t, text, "Invalid choice!")
	assert.Equal(t, 0, a.Registry.Len())
}

func TestManageSessions_RemoveDeclined(t *testing.T) {
	input := strings.Join([]string{
		"2", "work", "+100", "1234", "hash",
		"4", "work", "n",
		"4", "nope",
		"0",
	}, "\n") + "\n"
	a, out := newApp(t, input)

	require.NoError(t, a.ManageSessions(context.Background()))
	assert.Contains(t, out.String(), "Deletion cancelled")
	assert.Contains(t, out.String(), "Session 'nope' not found")
	assert.Equal(t, 1, a.Registry.Len())
}

func TestSelectSession(t *testing.T) {
	input := strings.Join([]string{
		"1",
		"3", "home", "+1", "1", "hash",
		"1",
	}, "\n") + "\n"
	a, out := newApp(t, input)

	info, err := a.SelectSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "home", info.Name)
	assert.Contains(t, out.String(), "No active session available")
}

func TestSelectSession_Exit(t *testing.T) {
	a, _ := newApp(t, "0\n")
	_, err := a.SelectSession(context.Background())
	assert.ErrorIs(t, err, app.ErrAborted)
}

func TestSwitcher_NoCurrentSession(t *testing.T) {
	a, out := newApp(t, "1\n\n2\n\n0\n")
	require.NoError(t, a.Switcher(context.Background()))
	assert.Equal(t, 2, strings.Count(out.String(), "No active session. Please switch to an account first."))
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestSwitcher_SwitchMissingFile(t *testing.T) {
	input := strings.Join([]string{
		"4", "a", "+1", "1", "h", "",
		"4", "b", "+2", "1", "h", "",
		"0",
	}, "\n") + "\n"
	a, _ := newApp(t, input)
	require.NoError(t, a.Switcher(context.Background()))
	assert.Equal(t, "b", a.Registry.Current().Name)

	info, ok := a.Registry.Get("a")
	require.True(t, ok)
	require.NoError(t, os.Remove(info.SessionFile))

	var out bytes.Buffer
	a.Term = cli.NewTerminal(strings.NewReader("3\na\n\n0\n"), &out)
	require.NoError(t, a.Switcher(context.Background()))
	assert.Contains(t, out.String(), "Session file not found for 'a'")
	assert.Equal(t, "b", a.Registry.Current().Name)
}

func TestConnect_StaticRequiresCredentials(t *testing.T) {
	a, _ := newApp(t, "")
	a.Static = true
	_, err := a.Connect(context.Background(), "")
	assert.Error(t, err)
}

func TestConnect_NoActiveSession(t *testing.T) {
	a, _ := newApp(t, "")
	_, err := a.Connect(context.Background(), "")
	assert.ErrorIs(t, err, sessions.ErrNoActiveSession)
}
