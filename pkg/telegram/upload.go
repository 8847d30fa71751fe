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
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/message/styling"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
	"github.com/rs/zerolog"
)

// Extensions that are sent as compressed photos instead of documents.
var photoExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// MIMEType guesses the content type of a local file from its extension.
func MIMEType(path string) string {
	if mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}

func isPhoto(path string) bool {
	_, ok := photoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Uploader sends local files to a chat.
type Uploader struct {
	api      *tg.Client
	partSize int
	maxSize  int64
}

func NewUploader(api *tg.Client, partSize int) *Uploader {
	return &Uploader{api: api, partSize: partSize, maxSize: MaxUploadSize}
}

type progressFunc func(uploaded, total int64)

func (f progressFunc) Chunk(_ context.Context, state uploader.ProgressState) error {
	f(state.Uploaded, state.Total)
	return nil
}

// CheckSize returns ErrFileTooLarge if path can't be uploaded. The check is
// done locally so that oversized files fail before any data is sent.
func (u *Uploader) CheckSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.Wrap(err, "stat file")
	} else if !info.Mode().IsRegular() {
		return 0, errors.Errorf("%s is not a regular file", path)
	} else if info.Size() > u.maxSize {
		return info.Size(), errors.Wrapf(ErrFileTooLarge, "%s is %d bytes", filepath.Base(path), info.Size())
	}
	return info.Size(), nil
}

// SendFile uploads path and posts it to peer. Images are sent as photos,
// everything else as a document carrying the original file name.
func (u *Uploader) SendFile(ctx context.Context, peer tg.InputPeerClass, path, caption string, onProgress func(uploaded, total int64)) error {
	name := filepath.Base(path)
	log := zerolog.Ctx(ctx).With().
		Str("component", "media_upload").
		Str("file_name", name).
		Logger()
	size, err := u.CheckSize(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open file")
	}
	defer f.Close()

	up := uploader.NewUploader(u.api).WithPartSize(u.partSize)
	if onProgress != nil {
		up = up.WithProgress(progressFunc(onProgress))
	}
	file, err := up.Upload(ctx, uploader.NewUpload(name, f, size))
	if err != nil {
		return errors.Wrap(err, "upload")
	}

	var captionOpts []styling.StyledTextOption
	if caption != "" {
		captionOpts = append(captionOpts, styling.Plain(caption))
	}
	var media message.MediaOption
	mimeType := MIMEType(path)
	if isPhoto(path) {
		media = message.UploadedPhoto(file, captionOpts...)
	} else {
		media = message.UploadedDocument(file, captionOpts...).
			Filename(name).
			MIME(mimeType)
	}
	if _, err = message.NewSender(u.api).To(peer).Media(ctx, media); err != nil {
		return errors.Wrap(err, "send media")
	}
	log.Debug().
		Int64("bytes", size).
		Str("mime_type", mimeType).
		Msg("Uploaded file")
	return nil
}
