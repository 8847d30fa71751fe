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

package telegram

import (
	"time"

	"github.com/gotd/contrib/middleware/floodwait"
	"github.com/gotd/contrib/middleware/ratelimit"
	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/rs/zerolog"
	"go.mau.fi/zerozap"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ClientOptions builds the gotd options used by every client. The gotd
// logger is bridged into log.
func ClientOptions(log zerolog.Logger, storage session.Storage, cfg ClientConfig) telegram.Options {
	zaplog := zap.New(zerozap.New(log.With().Str("component", "gotd").Logger()))

	var middlewares []telegram.Middleware
	if cfg.FloodWait.MaxRetries > 0 {
		waiter := floodwait.NewSimpleWaiter().WithMaxRetries(cfg.FloodWait.MaxRetries)
		if cfg.FloodWait.MaxWaitSeconds > 0 {
			waiter = waiter.WithMaxWait(time.Duration(cfg.FloodWait.MaxWaitSeconds) * time.Second)
		}
		middlewares = append(middlewares, waiter)
	}
	if interval := cfg.rateInterval(); interval > 0 {
		middlewares = append(middlewares, ratelimit.New(rate.Every(interval), max(cfg.RateLimit.Burst, 1)))
	}

	return telegram.Options{
		SessionStorage: storage,
		Logger:         zaplog,
		Middlewares:    middlewares,
		Device:         cfg.DeviceInfo.toDeviceConfig(),
	}
}
