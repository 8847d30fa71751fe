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

// Package app implements the interactive download, upload and session flows.
package app

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tgtransfer/tgtransfer/pkg/cli"
	"github.com/tgtransfer/tgtransfer/pkg/config"
	"github.com/tgtransfer/tgtransfer/pkg/sessions"
)

// ErrAborted is returned when the user backs out of a flow. The tools treat
// it as a normal exit.
var ErrAborted = errors.New("aborted by user")

type App struct {
	Config   *config.Config
	Term     *cli.Terminal
	Registry *sessions.Registry
	// Static makes the flows use the single session from the config instead
	// of the registry.
	Static bool
}

// New opens the session registry and wires the terminal in as the login
// prompter.
func New(ctx context.Context, cfg *config.Config, term *cli.Terminal) (*App, error) {
	registry, err := sessions.Open(ctx, cfg.Sessions.Dir, cfg.Sessions.ConfigFile)
	if err != nil {
		return nil, err
	}
	registry.ClientConfig = cfg.Telegram.ClientConfig
	registry.Authorizer = &sessions.FlowAuthorizer{Prompter: term, Config: cfg.Telegram.ClientConfig}
	return &App{Config: cfg, Term: term, Registry: registry}, nil
}

// WithRunID returns a context whose logger tags every line with a fresh run
// ID.
func WithRunID(ctx context.Context, tool string) context.Context {
	log := zerolog.Ctx(ctx).With().
		Str("tool", tool).
		Str("run_id", uuid.NewString()).
		Logger()
	return log.WithContext(ctx)
}

// Connect logs in with the static session or the named registry session
// (the current one if name is empty).
func (a *App) Connect(ctx context.Context, name string) (*sessions.Client, error) {
	var client *sessions.Client
	var err error
	if a.Static {
		if err = a.Config.Telegram.ValidateCredentials(); err != nil {
			return nil, errors.Wrap(err, "static session")
		}
		static := &sessions.StaticClient{
			Name:     a.Config.Telegram.SessionName,
			APIID:    a.Config.Telegram.APIID,
			APIHash:  a.Config.Telegram.APIHash,
			Prompter: a.Term,
			Config:   a.Config.Telegram.ClientConfig,
		}
		client, err = static.Connect(ctx)
	} else {
		client, err = a.Registry.GetClient(ctx, name)
	}
	if err != nil {
		return nil, err
	}
	a.Term.Success("+ Connected to Telegram successfully!")
	a.Term.Success("  Account: %s (%s)", accountName(client), client.User.Phone)
	return client, nil
}

func accountName(client *sessions.Client) string {
	return sessions.ProfileFromUser(client.User).DisplayName()
}

func closeClient(ctx context.Context, client *sessions.Client) {
	if err := client.Close(); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("Error closing client")
	}
}
