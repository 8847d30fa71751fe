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

package transfer

import (
	"context"
	"encoding/json"
	"os"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"

	"github.com/tgtransfer/tgtransfer/pkg/util"
)

const (
	// StateFileSuffix marks files that belong to the transfer engine. The
	// file catalog never offers them for upload.
	StateFileSuffix = "_state.json"

	DownloadStateFile = "download" + StateFileSuffix
	UploadStateFile   = "upload" + StateFileSuffix
)

// StateStore is the persisted set of completed item IDs for one destination
// (download) or source (upload) folder.
//
// A StateStore has a single writer. It is only mutated by the runner between
// batches, so it does no locking of its own.
type StateStore[K comparable] struct {
	path  string
	ids   map[K]struct{}
	order []K
}

// NewStateStore returns an empty store that saves to path.
func NewStateStore[K comparable](path string) *StateStore[K] {
	return &StateStore[K]{path: path, ids: make(map[K]struct{})}
}

// LoadState reads the store at path. A missing file yields an empty store.
// A malformed file is logged as a warning and also yields an empty store, so
// a corrupted state file can cause work to be repeated but never aborts a run.
func LoadState[K comparable](ctx context.Context, path string) *StateStore[K] {
	log := zerolog.Ctx(ctx).With().Str("state_file", path).Logger()
	store := NewStateStore[K](path)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug().Msg("No transfer state found, starting fresh")
		return store
	} else if err != nil {
		log.Warn().Err(err).Msg("Failed to read transfer state, starting fresh")
		return store
	}
	var ids []K
	if err = json.Unmarshal(data, &ids); err != nil {
		log.Warn().Err(err).Msg("Transfer state is malformed, starting fresh")
		return store
	}
	for _, id := range ids {
		store.Add(id)
	}
	log.Debug().Int("completed", store.Len()).Msg("Loaded transfer state")
	return store
}

func (s *StateStore[K]) Path() string {
	return s.path
}

func (s *StateStore[K]) Contains(id K) bool {
	_, ok := s.ids[id]
	return ok
}

// Add marks id as completed. Adding an ID twice is a no-op.
func (s *StateStore[K]) Add(id K) {
	if _, ok := s.ids[id]; ok {
		return
	}
	s.ids[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *StateStore[K]) Len() int {
	return len(s.ids)
}

// IDs returns the completed IDs in the order they were added.
func (s *StateStore[K]) IDs() []K {
	out := make([]K, len(s.order))
	copy(out, s.order)
	return out
}

// Save overwrites the state file with the full set of completed IDs.
func (s *StateStore[K]) Save(ctx context.Context) error {
	ids := s.order
	if ids == nil {
		ids = []K{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return errors.Wrap(err, "marshal state")
	}
	if err = util.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return errors.Wrapf(err, "save state to %s", s.path)
	}
	zerolog.Ctx(ctx).Debug().
		Str("state_file", s.path).
		Int("completed", len(ids)).
		Msg("Saved transfer state")
	return nil
}
