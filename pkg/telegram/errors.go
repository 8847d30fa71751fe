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

import "github.com/go-faster/errors"

const (
	// MaxUploadSize is the largest file a regular account can upload.
	MaxUploadSize int64 = 2000 * 1024 * 1024

	DefaultPartSize = 512 * 1024
)

var (
	ErrFileTooLarge     = errors.New("file is too large for Telegram")
	ErrNoMedia          = errors.New("message has no downloadable media")
	ErrTargetNotFound   = errors.New("channel or group not found")
	ErrUnsupportedPeer  = errors.New("entity is not a channel or group")
	ErrInvalidMediaKind = errors.New("invalid media kind")
)
