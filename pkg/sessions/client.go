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
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-faster/errors"
	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/peers"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	tgadapter "github.com/tgtransfer/tgtransfer/pkg/telegram"
)

const (
	DefaultConnectTimeout = 30 * time.Second
	DefaultConnectRetries = 3
)

// DialParams describes how to connect a client.
type DialParams struct {
	APIID   int
	APIHash string
	Storage session.Storage
	Config  tgadapter.ClientConfig

	// Flow is run when the stored session isn't authorized. Without a flow
	// an unauthorized session fails with ErrNotAuthorized.
	Flow *auth.Flow

	ConnectTimeout time.Duration
	MaxRetries     uint64
}

// Client is a connected Telegram client. It stays connected until Close is
// called or the context passed to Dial is canceled.
type Client struct {
	*telegram.Client
	// User is the logged in account.
	User *tg.User

	loop *runLoop
}

// Peers returns a peer manager bound to the client.
func (c *Client) Peers() *peers.Manager {
	return peers.Options{}.Build(c.API())
}

// Close disconnects the client and waits for it to stop.
func (c *Client) Close() error {
	return c.loop.Stop()
}

// Dial connects to Telegram, retrying with exponential backoff while the
// connection can't be established, then makes sure the session is logged in.
func Dial(ctx context.Context, params DialParams) (*Client, error) {
	log := zerolog.Ctx(ctx).With().Str("component", "telegram_client").Logger()
	ctx = log.WithContext(ctx)
	if params.ConnectTimeout <= 0 {
		params.ConnectTimeout = DefaultConnectTimeout
	}
	if params.MaxRetries == 0 {
		params.MaxRetries = DefaultConnectRetries
	}

	var client *Client
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), params.MaxRetries), ctx)
	err := backoff.RetryNotify(func() (err error) {
		client, err = startClient(ctx, params)
		return err
	}, policy, func(err error, next time.Duration) {
		log.Warn().Err(err).Dur("retry_in", next).Msg("Failed to connect to Telegram, retrying")
	})
	if ctx.Err() != nil {
		return nil, ctx.Err()
	} else if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectivity, err)
	}

	if err = client.ensureAuthorized(ctx, params.Flow); err != nil {
		return nil, multierr.Append(err, client.Close())
	}
	log.Debug().Int64("user_id", client.User.ID).Msg("Telegram client ready")
	return client, nil
}

// startClient blocks until client is connected, calling Run internally.
// Technique from: https://github.com/gotd/contrib/blob/master/bg/connect.go
func startClient(ctx context.Context, params DialParams) (*Client, error) {
	tc := telegram.NewClient(params.APIID, params.APIHash, tgadapter.ClientOptions(*zerolog.Ctx(ctx), params.Storage, params.Config))
	loop := startRunLoop(ctx, tc.Run)
	if err := waitConnected(ctx, loop, params.ConnectTimeout); err != nil {
		return nil, err
	}
	return &Client{Client: tc, loop: loop}, nil
}

func waitConnected(ctx context.Context, loop *runLoop, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		_ = loop.Stop()
		return backoff.Permanent(ctx.Err())
	case <-loop.stopped.GetChan(): // client stopped during startup
		loop.cancel()
		if loop.err == nil {
			return errors.New("client stopped during startup")
		}
		return loop.err
	case <-timer.C:
		_ = loop.Stop()
		return errors.Errorf("connection timed out after %s", timeout)
	case <-loop.connected.GetChan():
		return nil
	}
}

func (c *Client) ensureAuthorized(ctx context.Context, flow *auth.Flow) error {
	status, err := c.Auth().Status(ctx)
	if err != nil {
		return errors.Wrap(err, "check authorization status")
	}
	if !status.Authorized {
		if flow == nil {
			return ErrNotAuthorized
		}
		zerolog.Ctx(ctx).Info().Msg("Session not authorized, starting login")
		if err = c.Auth().IfNecessary(ctx, *flow); err != nil {
			return classifyAuthError(err)
		}
	}
	c.User, err = c.Self(ctx)
	if err != nil {
		return errors.Wrap(err, "get self")
	}
	return nil
}

func classifyAuthError(err error) error {
	switch {
	case tgerr.Is(err, "PHONE_CODE_INVALID", "PHONE_CODE_EXPIRED", "PHONE_CODE_EMPTY"):
		return fmt.Errorf("%w: %w", ErrInvalidCode, err)
	case errors.Is(err, auth.ErrPasswordInvalid), tgerr.Is(err, "PASSWORD_HASH_INVALID"):
		return fmt.Errorf("%w: %w", ErrPasswordRejected, err)
	default:
		return errors.Wrap(err, "login")
	}
}
