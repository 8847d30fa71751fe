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

package sessions

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/gotd/td/telegram/auth"
	"github.com/rs/zerolog"

	tgadapter "github.com/tgtransfer/tgtransfer/pkg/telegram"
)

// StaticClient describes the single account configured through SESSION_NAME,
// API_ID and API_HASH. Its session file lives next to the working directory
// rather than in the registry.
type StaticClient struct {
	Name     string
	APIID    int
	APIHash  string
	Prompter Prompter
	Config   tgadapter.ClientConfig
}

// SessionPath returns the session file of the static session.
func (s *StaticClient) SessionPath() string {
	return s.Name + SessionFileExtension
}

// Connect dials the static session, logging in interactively if the stored
// session is missing or no longer authorized.
func (s *StaticClient) Connect(ctx context.Context) (*Client, error) {
	if s.APIID == 0 || s.APIHash == "" {
		return nil, errors.New("API_ID and API_HASH must be set to use the static session")
	} else if s.Name == "" {
		return nil, ErrInvalidName
	}
	log := zerolog.Ctx(ctx).With().Str("session_name", s.Name).Logger()
	params := DialParams{
		APIID:   s.APIID,
		APIHash: s.APIHash,
		Storage: NewFileStorage(s.SessionPath()),
		Config:  s.Config,
	}
	if s.Prompter != nil {
		flow := auth.NewFlow(&Authenticator{Prompter: s.Prompter}, auth.SendCodeOptions{})
		params.Flow = &flow
	}
	return Dial(log.WithContext(ctx), params)
}
