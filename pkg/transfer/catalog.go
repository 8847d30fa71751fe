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
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"
)

type Extensions map[string]struct{}

func NewExtensions(exts ...string) Extensions {
	out := make(Extensions, len(exts))
	for _, ext := range exts {
		out[strings.ToLower(ext)] = struct{}{}
	}
	return out
}

func (e Extensions) Allows(name string) bool {
	if e == nil {
		return true
	}
	_, ok := e[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Category is a named group of file extensions offered by the upload menu.
type Category struct {
	Name       string
	Extensions Extensions
}

var Categories = []Category{
	{"Images", NewExtensions(".jpg", ".jpeg", ".png", ".gif", ".webp")},
	{"Videos", NewExtensions(".mp4", ".avi", ".mov", ".mkv", ".webm")},
	{"Documents", NewExtensions(".pdf", ".doc", ".docx", ".txt")},
	{"Archives", NewExtensions(".zip", ".rar", ".7z")},
	{"All files", nil},
}

// ListFiles walks root recursively and returns the sorted paths of regular
// files whose extension is in allowed. A nil allowed set accepts every
// extension. Files ending in [StateFileSuffix] are never returned.
//
// A missing or unreadable root is logged and yields an empty list.
func ListFiles(ctx context.Context, root string, allowed Extensions) []string {
	log := zerolog.Ctx(ctx).With().Str("root", root).Logger()
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Warn().Err(err).Str("path", path).Msg("Skipping unreadable path")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		name := d.Name()
		if strings.HasSuffix(name, StateFileSuffix) || !allowed.Allows(name) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		log.Warn().Msg("Folder does not exist")
		return nil
	} else if err != nil {
		log.Warn().Err(err).Msg("Failed to list folder")
		return nil
	}
	slices.Sort(files)
	return files
}
