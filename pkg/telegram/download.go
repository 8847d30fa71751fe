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
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/telegram/query"
	"github.com/gotd/td/telegram/query/messages"
	"github.com/gotd/td/tg"
	"github.com/rogpeppe/go-internal/robustio"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

const PartialSuffix = ".part"

// FetchMessages returns the messages of kind in peer, newest first. At most
// limit messages are scanned, which means fewer may be returned when the
// client side part of the filter drops some.
func FetchMessages(ctx context.Context, api *tg.Client, peer tg.InputPeerClass, kind MediaKind, limit int) ([]*tg.Message, error) {
	if !kind.Valid() {
		return nil, errors.Wrapf(ErrInvalidMediaKind, "%d", int(kind))
	}
	if limit <= 0 {
		return nil, nil
	}
	batchSize := min(limit, 100)
	var iter *messages.Iterator
	if filter := kind.searchFilter(); filter != nil {
		iter = query.Messages(api).Search(peer).Filter(filter).BatchSize(batchSize).Iter()
	} else {
		iter = query.Messages(api).GetHistory(peer).BatchSize(batchSize).Iter()
	}

	var out []*tg.Message
	for scanned := 0; scanned < limit && iter.Next(ctx); scanned++ {
		msg, ok := iter.Value().Msg.(*tg.Message)
		if ok && kind.Matches(msg) {
			out = append(out, msg)
		}
	}
	if err := iter.Err(); err != nil {
		return out, errors.Wrap(err, "iterate messages")
	}
	zerolog.Ctx(ctx).Debug().
		Stringer("kind", kind).
		Int("found", len(out)).
		Msg("Fetched media messages")
	return out, nil
}

// Downloader saves message media into a local folder.
type Downloader struct {
	client   downloader.Client
	partSize int
}

func NewDownloader(client downloader.Client, partSize int) *Downloader {
	return &Downloader{client: client, partSize: partSize}
}

// DestinationPath is where media ends up inside dir.
func DestinationPath(dir string, media *Media) string {
	return filepath.Join(dir, media.Name)
}

// ToFile downloads media into dir. Data is streamed into a partial file that
// is renamed to the final name once complete, so an existing file in dir is
// always a finished download.
func (d *Downloader) ToFile(ctx context.Context, media *Media, dir string, onProgress func(written, total int64)) (string, error) {
	log := zerolog.Ctx(ctx).With().
		Str("component", "media_download").
		Int("message_id", media.MessageID).
		Str("file_name", media.Name).
		Logger()
	finalPath := DestinationPath(dir, media)
	partPath := finalPath + PartialSuffix

	file, err := os.Create(partPath)
	if err != nil {
		return "", errors.Wrap(err, "create partial file")
	}
	cleanup := func(cause error) error {
		return multierr.Combine(cause, file.Close(), removeIfExists(partPath))
	}

	w := &progressWriter{w: file, total: media.Size, onProgress: onProgress}
	storageType, err := downloader.NewDownloader().
		WithPartSize(d.partSize).
		Download(d.client, media.Location).
		Stream(ctx, w)
	if err != nil {
		return "", cleanup(errors.Wrap(err, "download"))
	}
	if err = file.Close(); err != nil {
		return "", multierr.Append(errors.Wrap(err, "close partial file"), removeIfExists(partPath))
	}
	if err = robustio.Rename(partPath, finalPath); err != nil {
		return "", multierr.Append(errors.Wrap(err, "rename partial file"), removeIfExists(partPath))
	}
	mimeType := media.MIMEType
	if detected := mimeFromStorageType(storageType); detected != "" {
		mimeType = detected
	}
	log.Debug().
		Int64("bytes", w.written).
		Str("mime_type", mimeType).
		Msg("Downloaded file")
	return finalPath, nil
}

type progressWriter struct {
	w          io.Writer
	written    int64
	total      int64
	onProgress func(written, total int64)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	if p.onProgress != nil {
		p.onProgress(p.written, max(p.total, p.written))
	}
	return n, err
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
