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
	"strings"

	"github.com/rs/zerolog"

	"github.com/tgtransfer/tgtransfer/pkg/humanise"
	"github.com/tgtransfer/tgtransfer/pkg/sessions"
	"github.com/tgtransfer/tgtransfer/pkg/telegram"
	"github.com/tgtransfer/tgtransfer/pkg/util"
)

const titleWidth = 30

func usernameDisplay(target telegram.Target) string {
	if username := target.Username(); username != "" {
		return "@" + username
	}
	return "(Private)"
}

func (a *App) printTargets(targets []telegram.Target) {
	a.Term.Header("%-4s %-8s %-30s %-20s", "No.", "Type", "Title", "Username")
	a.Term.Println(strings.Repeat("-", 70))
	for i, target := range targets {
		a.Term.Println(fmt.Sprintf("%-4d %-8s %-30s %-20s",
			i+1, target.Kind(), util.Truncate(target.Title(), titleWidth), usernameDisplay(target)))
	}
	a.Term.Header("\n0. Enter channel manually")
}

// selectTarget lists the account's channels and groups and lets the user
// pick one, or enter one manually. With forUpload set, only targets where
// media can be sent are listed. Resolution errors are reported and the user
// is asked again.
func (a *App) selectTarget(ctx context.Context, client *sessions.Client, forUpload bool) (telegram.Target, error) {
	log := zerolog.Ctx(ctx)
	a.Term.Info("Fetching your channels and groups...")
	all, err := telegram.ListTargets(ctx, client.API())
	if err != nil {
		return nil, err
	}
	targets := all
	if forUpload {
		targets = targets[:0:0]
		for _, target := range all {
			if target.CanSendMedia() {
				targets = append(targets, target)
			}
		}
	}
	if len(targets) == 0 {
		if forUpload {
			a.Term.Error("No channels or groups found where you can upload!")
		} else {
			a.Term.Error("No channels or groups found!")
		}
		return nil, ErrAborted
	}

	if forUpload {
		a.Term.Header("\nAvailable channels and groups for upload:")
	} else {
		a.Term.Header("\nAvailable channels and groups:")
	}
	a.printTargets(targets)
	manager := client.Peers()
	for {
		choice, err := a.Term.AskInt(ctx, fmt.Sprintf("\nSelect a channel (0-%d): ", len(targets)), 0, len(targets))
		if err != nil {
			return nil, err
		}
		if choice > 0 {
			target := targets[choice-1]
			a.Term.Success("+ Selected: %s", target.Title())
			return target, nil
		}
		query, err := a.Term.Ask(ctx, "Enter the channel name or username: ")
		if err != nil {
			return nil, err
		}
		target, err := telegram.ResolveTarget(ctx, manager, all, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Debug().Err(err).Str("query", query).Msg("Failed to resolve target")
			a.Term.Error("X Cannot access '%s': %s", query, humanise.Error(err))
			a.Term.Info("Please try another selection.")
			continue
		}
		a.Term.Success("+ Found: %s", target.Title())
		return target, nil
	}
}
