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
	"strings"

	"github.com/go-faster/errors"

	"github.com/tgtransfer/tgtransfer/pkg/cli"
)

const HelpText = `How to use the session switcher:

1. Add your accounts:
   - Get API credentials from https://my.telegram.org
   - Add each account with a unique name

2. Switch between accounts:
   - Select 'Switch to different account'
   - Choose from your saved accounts

3. Use the uploader/downloader:
   - The current account is used
   - Switch accounts at any time without logging in again
`

// RunDownload connects the chosen session and runs the download flow.
func (a *App) RunDownload(ctx context.Context, session string) error {
	client, err := a.Connect(ctx, session)
	if err != nil {
		return err
	}
	defer closeClient(ctx, client)
	return a.Download(ctx, client)
}

// RunUpload picks a session (unless the static session is used), connects
// it and runs the upload flow.
func (a *App) RunUpload(ctx context.Context) error {
	name := ""
	if !a.Static {
		info, err := a.SelectSession(ctx)
		if err != nil {
			return err
		}
		name = info.Name
	}
	client, err := a.Connect(ctx, name)
	if err != nil {
		return err
	}
	defer closeClient(ctx, client)
	return a.Upload(ctx, client)
}

// runWithCurrent runs fn against the current session, reporting flow errors
// instead of returning them so the switcher menu keeps running.
func (a *App) runWithCurrent(ctx context.Context, flow func(context.Context, string) error) error {
	current := a.Registry.Current()
	if current == nil {
		a.Term.Error("X No active session. Please switch to an account first.")
		return nil
	}
	err := flow(ctx, current.Name)
	if ctx.Err() != nil {
		return ctx.Err()
	} else if err != nil && !errors.Is(err, ErrAborted) {
		a.Term.Error("X Error: %s", err)
	}
	return nil
}

// Switcher runs the top level account switcher menu.
func (a *App) Switcher(ctx context.Context) error {
	a.Term.Header("Telegram Session Switcher")
	a.Term.Header(strings.Repeat("=", 35))
	a.Term.Info("Switch between your Telegram accounts easily")
	for {
		if current := a.Registry.Current(); current != nil {
			a.Term.Success("\nCurrent Account: %s (%s)", current.FullName(), current.PhoneNumber)
		} else {
			a.Term.Info("\nNo active session")
		}
		choice, err := a.Term.Menu(ctx, "What would you like to do?", []string{
			"Upload files (current session)",
			"Download files (current session)",
			"Switch to different account",
			"Add new account",
			"Manage sessions",
		}, "Exit")
		if errors.Is(err, cli.ErrInvalidChoice) {
			a.Term.Error("X Invalid choice!")
			continue
		} else if err != nil {
			return err
		}
		switch choice {
		case 0:
			a.Term.Info("Goodbye!")
			return nil
		case 1:
			err = a.runWithCurrent(ctx, func(ctx context.Context, name string) error {
				client, err := a.Connect(ctx, name)
				if err != nil {
					return err
				}
				defer closeClient(ctx, client)
				return a.Upload(ctx, client)
			})
		case 2:
			err = a.runWithCurrent(ctx, a.RunDownload)
		case 3:
			_, err = a.SwitchSession(ctx)
		case 4:
			err = a.AddSession(ctx, true)
		case 5:
			err = a.ManageSessions(ctx)
		}
		if err != nil {
			return err
		}
		if err = a.Term.WaitEnter(ctx); err != nil {
			return err
		}
	}
}
