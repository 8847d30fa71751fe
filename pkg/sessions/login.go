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
	"strings"

	"github.com/go-faster/errors"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/rs/zerolog"

	tgadapter "github.com/tgtransfer/tgtransfer/pkg/telegram"
)

// Prompter asks the user for login details.
type Prompter interface {
	Phone(ctx context.Context) (string, error)
	Code(ctx context.Context) (string, error)
	Password(ctx context.Context) (string, error)
}

// Authenticator answers the gotd login flow through a Prompter. The phone
// number is only asked for when none was given upfront.
type Authenticator struct {
	PhoneNumber string
	Prompter    Prompter
}

var _ auth.UserAuthenticator = (*Authenticator)(nil)

func (a *Authenticator) Phone(ctx context.Context) (string, error) {
	if a.PhoneNumber != "" {
		return a.PhoneNumber, nil
	}
	phone, err := a.Prompter.Phone(ctx)
	return strings.TrimSpace(phone), err
}

func (a *Authenticator) Password(ctx context.Context) (string, error) {
	return a.Prompter.Password(ctx)
}

func (a *Authenticator) AcceptTermsOfService(ctx context.Context, tos tg.HelpTermsOfService) error {
	return nil
}

func (a *Authenticator) SignUp(ctx context.Context) (auth.UserInfo, error) {
	return auth.UserInfo{}, errors.New("phone number does not correspond with an existing Telegram account and sign-up is not supported")
}

func (a *Authenticator) Code(ctx context.Context, sentCode *tg.AuthSentCode) (string, error) {
	code, err := a.Prompter.Code(ctx)
	return strings.TrimSpace(code), err
}

// Authorizer performs the interactive login for a new session. On success the
// session file named in info holds an authorized session.
type Authorizer interface {
	Authorize(ctx context.Context, info *SessionInfo) (*Profile, error)
}

// FlowAuthorizer logs in with the gotd code flow.
type FlowAuthorizer struct {
	Prompter Prompter
	Config   tgadapter.ClientConfig
}

var _ Authorizer = (*FlowAuthorizer)(nil)

func (a *FlowAuthorizer) Authorize(ctx context.Context, info *SessionInfo) (*Profile, error) {
	log := zerolog.Ctx(ctx).With().
		Str("component", "telegram_phone_login").
		Str("session_name", info.Name).
		Logger()
	flow := auth.NewFlow(&Authenticator{PhoneNumber: info.PhoneNumber, Prompter: a.Prompter}, auth.SendCodeOptions{})
	client, err := Dial(log.WithContext(ctx), DialParams{
		APIID:   info.APIID,
		APIHash: info.APIHash,
		Storage: NewFileStorage(info.SessionFile),
		Config:  a.Config,
		Flow:    &flow,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Debug().Err(err).Msg("Error closing login client")
		}
	}()
	log.Info().Int64("user_id", client.User.ID).Msg("Logged in")
	return ProfileFromUser(client.User), nil
}
