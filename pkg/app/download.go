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
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/gotd/td/tg"
	"github.com/rs/zerolog"

	"github.com/tgtransfer/tgtransfer/pkg/cli"
	"github.com/tgtransfer/tgtransfer/pkg/sessions"
	"github.com/tgtransfer/tgtransfer/pkg/telegram"
	"github.com/tgtransfer/tgtransfer/pkg/transfer"
)

func (a *App) chooseMediaKind(ctx context.Context) (telegram.MediaKind, error) {
	options := make([]string, len(telegram.MediaKinds))
	for i, kind := range telegram.MediaKinds {
		options[i] = kind.String()
	}
	choice, err := a.Term.Menu(ctx, "Choose the type of content to download:", options, "")
	if errors.Is(err, cli.ErrInvalidChoice) {
		a.Term.Error("Invalid choice! Exiting...")
		return 0, ErrAborted
	} else if err != nil {
		return 0, err
	}
	return telegram.MediaKinds[choice-1], nil
}

// downloadItems turns messages into transfer items. Messages without
// downloadable media are dropped. When two messages carry the same file name
// the later one is prefixed with its message ID so both can be stored.
func downloadItems(ctx context.Context, msgs []*tg.Message) ([]transfer.Item[int], map[int]*telegram.Media) {
	log := zerolog.Ctx(ctx)
	items := make([]transfer.Item[int], 0, len(msgs))
	media := make(map[int]*telegram.Media, len(msgs))
	names := make(map[string]struct{}, len(msgs))
	for _, msg := range msgs {
		m, err := telegram.MediaFromMessage(msg)
		if err != nil {
			log.Debug().Err(err).Int("message_id", msg.ID).Msg("Skipping message")
			continue
		} else if _, dup := media[m.MessageID]; dup {
			continue
		}
		if _, taken := names[m.Name]; taken {
			m.Name = strconv.Itoa(m.MessageID) + "_" + m.Name
		}
		names[m.Name] = struct{}{}
		media[m.MessageID] = m
		items = append(items, transfer.Item[int]{ID: m.MessageID, Size: m.Size, Name: m.Name})
	}
	return items, media
}

// Download runs the interactive download flow with a connected client.
func (a *App) Download(ctx context.Context, client *sessions.Client) error {
	log := zerolog.Ctx(ctx).With().Str("component", "download").Logger()
	ctx = log.WithContext(ctx)

	target, err := a.selectTarget(ctx, client, false)
	if err != nil {
		return err
	}
	a.Term.Info("Selected channel: %s (ID: %d)", target.Title(), target.ID())
	kind, err := a.chooseMediaKind(ctx)
	if err != nil {
		return err
	}

	a.Term.Header("\nFolder Configuration:")
	folder, err := a.Term.AskDefault(ctx, "Enter custom folder name", kind.DefaultFolder())
	if err != nil {
		return err
	}
	dest := filepath.Join(a.Config.Transfer.DownloadRoot, filepath.Clean(folder))
	if _, err = os.Stat(dest); errors.Is(err, os.ErrNotExist) {
		if err = os.MkdirAll(dest, 0o755); err != nil {
			return errors.Wrap(err, "create download folder")
		}
		a.Term.Success("Created folder: %s", dest)
	} else {
		a.Term.Success("Using existing folder: %s", dest)
	}

	store := transfer.LoadState[int](ctx, filepath.Join(dest, transfer.DownloadStateFile))
	a.Term.Info("Fetching media messages...")
	msgs, err := telegram.FetchMessages(ctx, client.API(), target.InputPeer(), kind, a.Config.Transfer.MessageLimit)
	if err != nil {
		return err
	}
	items, media := downloadItems(ctx, msgs)
	runner := &transfer.Runner[int]{
		BatchSize: a.Config.Transfer.BatchSize,
		Store:     store,
		IsDone: func(item transfer.Item[int]) bool {
			_, err := os.Stat(telegram.DestinationPath(dest, media[item.ID]))
			return err == nil
		},
	}
	pending := runner.Pending(items)
	a.Term.Println(fmt.Sprintf("Found %d total messages matching your choice.", len(items)))
	if skipped := len(items) - len(pending); skipped > 0 {
		a.Term.Info("%d files already downloaded (skipping)", skipped)
	}
	a.Term.Success("%d new files to download", len(pending))
	if len(pending) == 0 {
		if len(items) > 0 {
			a.Term.Info("All files have already been downloaded!")
		} else {
			a.Term.Error("No media found for the selected type.")
		}
		return nil
	}

	dl := telegram.NewDownloader(client.API(), a.Config.Telegram.NormalizedPartSize())
	bars := cli.NewProgressBars(ctx, a.Term.Out(), "Downloading")
	runner.Progress = bars
	summary, runErr := runner.Run(ctx, items, func(ctx context.Context, item transfer.Item[int], tracker transfer.Tracker) error {
		_, err := dl.ToFile(ctx, media[item.ID], dest, tracker.OnProgress)
		return err
	})
	bars.Wait()
	a.reportSummary(ctx, summary, "downloaded")
	if summary.Succeeded > 0 {
		a.Term.Success("Download completed! Files saved to: %s", dest)
	}
	return runErr
}
