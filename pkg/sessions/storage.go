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
	"os"

	"github.com/go-faster/errors"
	"github.com/gotd/td/session"

	"github.com/tgtransfer/tgtransfer/pkg/util"
)

// FileStorage is a [session.Storage] backed by a single file. Writes replace
// the file atomically so a crash never leaves a truncated session behind.
type FileStorage struct {
	Path string
}

var _ session.Storage = (*FileStorage)(nil)

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{Path: path}
}

// LoadSession loads session data from the file.
func (s *FileStorage) LoadSession(context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(data) == 0) {
		return nil, session.ErrNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "read session file")
	}
	return data, nil
}

// StoreSession stores session data for a login into the file.
func (s *FileStorage) StoreSession(_ context.Context, data []byte) error {
	return util.WriteFileAtomic(s.Path, data, 0o600)
}

// Exists reports whether a session has been stored.
func (s *FileStorage) Exists() bool {
	info, err := os.Stat(s.Path)
	return err == nil && info.Size() > 0
}
