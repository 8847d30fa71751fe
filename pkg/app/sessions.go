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

package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/k0kubun/pp/v3"

	"github.com/tgtransfer/tgtransfer/pkg/cli"
	"github.com/tgtransfer/tgtransfer/pkg/humanise"
	"github.com/tgtransfer/tgtransfer/pkg/sessions"
	"github.com/tgtransfer/tgtransfer/pkg/util"
)

func (a *App) printCurrent() {
	if current := a.Registry.Current(); current != nil {
		a.Term.Success("Current: %s (%s)", current.Name, current.PhoneNumber)
	} else {
		a.Term.Info("No active session")
	}
}

// ListSessions prints the session table.
func (a *App) ListSessions() {
	list := a.Registry.List()
	if len(list) == 0 {
		a.Term.Info("No saved sessions found")
		return
	}
	current := a.Registry.Current()
	a.Term.Header("\nAvailable Telegram Sessions:")
	a.Term.Header("%-4s %-15s %-15s %-15s %-10s", "No.", "Name", "Phone", "Username", "Status")
	a.Term.Println(strings.Repeat("-", 70))
	for i, info := range list {
		status := ""
		if current != nil && current.Name == info.Name {
			status = "ACTIVE"
		}
		a.Term.Println(fmt.Sprintf("%-4d %-15s %-15s %-15s %-10s",
			i+1, util.Truncate(info.Name, 15), info.PhoneNumber, util.Truncate(info.UsernameDisplay(), 15), status))
	}
}

// AddSession asks for the details of a new account and logs into it. The
// new session becomes the current one if switchAfter is set.
func (a *App) AddSession(ctx context.Context, switchAfter bool) error {
	a.Term.Header("\nAdd New Session")
	name, err := a.Term.Ask(ctx, "Session name (e.g., 'personal', 'work'): ")
	if err != nil {
		return err
	} else if name == "" {
		a.Term.Error("Session name cannot be empty")
		return nil
	}
	phone, err := a.Term.Ask(ctx, "Phone number (with country code, e.g., +1234567890): ")
	if err != nil {
		return err
	} else if phone == "" {
		a.Term.Error("Phone number cannot be empty")
		return nil
	}
	rawID, err := a.Term.Ask(ctx, "API ID: ")
	if err != nil {
		return err
	}
	apiID, convErr := strconv.Atoi(rawID)
	if convErr != nil || apiID <= 0 {
		a.Term.Error("Invalid API ID")
		return nil
	}
	apiHash, err := a.Term.Ask(ctx, "API Hash: ")
	if err != nil {
		return err
	} else if apiHash == "" {
		a.Term.Error("API Hash cannot be empty")
		return nil
	}

	a.Term.Info("Logging into Telegram account...")
	info, err := a.Registry.Add(ctx, name, phone, apiID, apiHash)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, sessions.ErrNameConflict):
		a.Term.Error("X Session '%s' already exists", name)
		return nil
	case errors.Is(err, sessions.ErrInvalidCode):
		a.Term.Error("X Invalid verification code")
		return nil
	case errors.Is(err, sessions.ErrPasswordRejected):
		a.Term.Error("X Failed to login with password: %s", humanise.Error(err))
		return nil
	case errors.Is(err, sessions.ErrConnectivity):
		a.Term.Error("X Could not connect to Telegram: %s", humanise.Error(err))
		return nil
	default:
		a.Term.Error("X Failed to add session: %s", humanise.Error(err))
		return nil
	}
	a.Term.Success("+ Session '%s' added successfully!", info.Name)
	a.Term.Success("  User: %s %s", info.FullName(), info.UsernameDisplay())
	if switchAfter {
		_, err = a.switchTo(ctx, info.Name)
	}
	return err
}

// switchTo makes name current. A nil result means the switch was refused
// and the reason has been printed.
func (a *App) switchTo(ctx context.Context, name string) (*sessions.SessionInfo, error) {
	previous := a.Registry.Current()
	info, err := a.Registry.Switch(ctx, name)
	switch {
	case errors.Is(err, sessions.ErrSessionNotFound):
		a.Term.Error("X Session '%s' not found", name)
		return nil, nil
	case errors.Is(err, sessions.ErrSessionFileMissing):
		a.Term.Error("X Session file not found for '%s'", name)
		return nil, nil
	case err != nil:
		return nil, err
	}
	a.Term.Success("+ Switched to session '%s'", info.Name)
	a.Term.Success("  Account: %s (%s)", info.FullName(), info.PhoneNumber)
	if previous != nil && previous.Name != info.Name {
		a.Term.Info("  Previous: %s", previous.Name)
	}
	return info, nil
}

// SwitchSession lists the sessions and makes the chosen one current. It
// returns nil if nothing was switched.
func (a *App) SwitchSession(ctx context.Context) (*sessions.SessionInfo, error) {
	if a.Registry.Len() == 0 {
		a.Term.Info("No sessions available. Add a session first.")
		return nil, nil
	}
	a.Term.Header("\nSwitch Session")
	a.ListSessions()
	name, err := a.Term.Ask(ctx, "\nEnter session name to switch to: ")
	if err != nil || name == "" {
		return nil, err
	}
	return a.switchTo(ctx, name)
}

// RemoveSession asks for a session and deletes it after confirmation.
func (a *App) RemoveSession(ctx context.Context) error {
	if a.Registry.Len() == 0 {
		a.Term.Info("No sessions available")
		return nil
	}
	a.Term.Header("\nRemove Session")
	a.ListSessions()
	name, err := a.Term.Ask(ctx, "\nEnter session name to remove: ")
	if err != nil || name == "" {
		return err
	}
	info, ok := a.Registry.Get(name)
	if !ok {
		a.Term.Error("X Session '%s' not found", name)
		return nil
	}
	confirm, err := a.Term.Confirm(ctx, fmt.Sprintf("! Delete session '%s' (%s)? (y/N): ", name, info.PhoneNumber))
	if err != nil {
		return err
	} else if !confirm {
		a.Term.Info("Deletion cancelled")
		return nil
	}
	if err = a.Registry.Remove(ctx, name); errors.Is(err, sessions.ErrSessionNotFound) {
		a.Term.Error("X Session '%s' not found", name)
		return nil
	} else if err != nil {
		return err
	}
	a.Term.Success("+ Session '%s' removed", name)
	return nil
}

// TestCurrentSession connects the current session and prints the account
// it's logged into.
func (a *App) TestCurrentSession(ctx context.Context) error {
	current := a.Registry.Current()
	if current == nil {
		a.Term.Info("No active session to test")
		return nil
	}
	a.Term.Header("\nTesting session '%s'...", current.Name)
	client, err := a.Registry.GetClient(ctx, current.Name)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.Term.Error("X Test failed: %s", humanise.Error(err))
		return nil
	}
	defer closeClient(ctx, client)
	profile := sessions.ProfileFromUser(client.User)
	a.Term.Success("+ Connection successful!")
	a.Term.Success("  User: %s", profile.DisplayName())
	a.Term.Success("  Phone: %s", profile.Phone)
	printer := pp.New()
	printer.SetOutput(a.Term.Out())
	printer.SetColoringEnabled(false)
	printer.Println(current)
	return nil
}

// ManageSessions runs the session manager menu until the user exits.
func (a *App) ManageSessions(ctx context.Context) error {
	for {
		a.Term.Header("\nTelegram Session Manager")
		a.Term.Header(strings.Repeat("=", 40))
		a.printCurrent()
		choice, err := a.Term.Menu(ctx, "Options:", []string{
			"List all sessions",
			"Add new session",
			"Switch session",
			"Remove session",
			"Test current session",
		}, "Exit")
		if errors.Is(err, cli.ErrInvalidChoice) {
			a.Term.Error("Invalid choice!")
			continue
		} else if err != nil {
			return err
		}
		switch choice {
		case 0:
			a.Term.Header("\nSession Manager closed")
			return nil
		case 1:
			a.ListSessions()
		case 2:
			err = a.AddSession(ctx, false)
		case 3:
			_, err = a.SwitchSession(ctx)
		case 4:
			err = a.RemoveSession(ctx)
		case 5:
			err = a.TestCurrentSession(ctx)
		}
		if err != nil {
			return err
		}
	}
}

// SelectSession shows the account selection menu used before uploading. It
// returns the session to use, or ErrAborted if the user exits.
func (a *App) SelectSession(ctx context.Context) (*sessions.SessionInfo, error) {
	for {
		a.Term.Header("\nSession Management")
		a.Term.Header(strings.Repeat("=", 30))
		a.printCurrent()
		choice, err := a.Term.Menu(ctx, "Options:", []string{
			"Use current session",
			"Switch session",
			"Add new session",
			"Manage sessions",
		}, "Exit")
		if errors.Is(err, cli.ErrInvalidChoice) {
			a.Term.Error("Invalid choice!")
			continue
		} else if err != nil {
			return nil, err
		}
		switch choice {
		case 0:
			return nil, ErrAborted
		case 1:
			if current := a.Registry.Current(); current != nil {
				return current, nil
			}
			a.Term.Error("No active session available")
		case 2:
			var switched *sessions.SessionInfo
			if switched, err = a.SwitchSession(ctx); switched != nil {
				return switched, nil
			}
		case 3:
			err = a.AddSession(ctx, true)
		case 4:
			err = a.ManageSessions(ctx)
		}
		if err != nil {
			return nil, err
		}
	}
}
