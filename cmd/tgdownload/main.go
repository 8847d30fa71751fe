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

package main

import (
	"context"

	"github.com/tgtransfer/tgtransfer/pkg/app"
)

func main() {
	app.Tool{
		Name:        "tgdownload",
		Description: "Download media from a Telegram channel or group in resumable batches.",
		AllowStatic: true,
		Run: func(ctx context.Context, a *app.App) error {
			if !a.Static && a.Registry.Current() == nil {
				a.Static = true
			}
			return a.RunDownload(ctx, "")
		},
	}.Main()
}
