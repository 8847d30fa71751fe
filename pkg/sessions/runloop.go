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
	"go.mau.fi/util/exsync"
)

// runFunc has the signature of telegram.Client.Run.
type runFunc func(ctx context.Context, f func(ctx context.Context) error) error

// runLoop keeps a client's Run call alive in the background. The callback
// parks until the loop context is canceled.
type runLoop struct {
	cancel context.CancelFunc
	// connected is set once the callback starts, i.e. the connection is up.
	connected *exsync.Event
	// stopped is set after Run returns. err is only valid after that.
	stopped *exsync.Event
	err     error
}

func startRunLoop(ctx context.Context, run runFunc) *runLoop {
	runCtx, cancel := context.WithCancel(ctx)
	l := &runLoop{
		cancel:    cancel,
		connected: exsync.NewEvent(),
		stopped:   exsync.NewEvent(),
	}
	go func() {
		l.err = run(runCtx, func(ctx context.Context) error {
			l.connected.Set()
			<-ctx.Done()
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		})
		l.stopped.Set()
	}()
	return l
}

// Stop cancels the loop and waits for Run to return. Cancellation itself is
// not reported as an error.
func (l *runLoop) Stop() error {
	l.cancel()
	<-l.stopped.GetChan()
	if errors.Is(l.err, context.Canceled) {
		return nil
	}
	return l.err
}
