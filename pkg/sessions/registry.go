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
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"go.mau.fi/util/ptr"

	tgadapter "github.com/tgtransfer/tgtransfer/pkg/telegram"
	"github.com/tgtransfer/tgtransfer/pkg/util"
)

const SessionFileExtension = ".session"

type registryFile struct {
	Sessions       map[string]*SessionInfo `json:"sessions"`
	CurrentSession *string                 `json:"current_session"`
}

// Registry is the set of saved sessions and the pointer to the current one.
// Every mutating method persists the registry file before it returns.
type Registry struct {
	Authorizer   Authorizer
	ClientConfig tgadapter.ClientConfig

	dir        string
	configPath string

	lock     sync.Mutex
	sessions map[string]*SessionInfo
	current  string
	now      func() time.Time
}

// Open loads the registry stored at configPath, creating sessionsDir if
// needed. A missing registry file yields an empty registry, a malformed one
// is logged and also yields an empty registry.
func Open(ctx context.Context, sessionsDir, configPath string) (*Registry, error) {
	log := zerolog.Ctx(ctx).With().Str("registry", configPath).Logger()
	if err := os.MkdirAll(sessionsDir, 0o700); err != nil {
		return nil, errors.Wrap(err, "create sessions directory")
	}
	r := &Registry{
		dir:        sessionsDir,
		configPath: configPath,
		sessions:   make(map[string]*SessionInfo),
		now:        time.Now,
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return r, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("Failed to read sessions config, starting empty")
		return r, nil
	}
	var file registryFile
	if err = json.Unmarshal(data, &file); err != nil {
		log.Warn().Err(err).Msg("Sessions config is malformed, starting empty")
		return r, nil
	}
	for name, info := range file.Sessions {
		if info == nil {
			continue
		}
		info.Name = name
		r.sessions[name] = info
	}
	if current := ptr.Val(file.CurrentSession); current != "" {
		if _, ok := r.sessions[current]; ok {
			r.current = current
		} else {
			log.Warn().Str("current_session", current).Msg("Current session is not in the registry, ignoring")
		}
	}
	log.Debug().Int("sessions", len(r.sessions)).Msg("Loaded sessions config")
	return r, nil
}

// SetClock replaces the time source used for timestamps.
func (r *Registry) SetClock(now func() time.Time) {
	r.lock.Lock()
	r.now = now
	r.lock.Unlock()
}

// SessionPath returns where the session file for name is stored.
func (r *Registry) SessionPath(name string) string {
	base := slug.Make(name)
	if base == "" {
		base = uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
	}
	return filepath.Join(r.dir, base+SessionFileExtension)
}

func (r *Registry) timestamp() *string {
	return ptr.Ptr(r.now().UTC().Format(time.RFC3339))
}

// save writes the registry file. The caller must hold the lock.
func (r *Registry) save() error {
	file := registryFile{Sessions: r.sessions}
	if r.current != "" {
		file.CurrentSession = ptr.Ptr(r.current)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&file); err != nil {
		return errors.Wrap(err, "marshal sessions config")
	}
	if err := util.WriteFileAtomic(r.configPath, buf.Bytes(), 0o600); err != nil {
		return errors.Wrap(err, "save sessions config")
	}
	return nil
}

// Add logs into a new account and records it under name.
func (r *Registry) Add(ctx context.Context, name, phone string, apiID int, apiHash string) (*SessionInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	log := zerolog.Ctx(ctx).With().Str("session_name", name).Logger()

	r.lock.Lock()
	defer r.lock.Unlock()
	if r.Authorizer == nil {
		return nil, ErrNoAuthorizer
	} else if _, exists := r.sessions[name]; exists {
		return nil, errors.Wrapf(ErrNameConflict, "%q", name)
	}
	info := &SessionInfo{
		Name:        name,
		PhoneNumber: strings.TrimSpace(phone),
		APIID:       apiID,
		APIHash:     strings.TrimSpace(apiHash),
		SessionFile: r.SessionPath(name),
	}
	for _, other := range r.sessions {
		if other.SessionFile == info.SessionFile {
			return nil, errors.Wrapf(ErrNameConflict, "%q uses the same session file as %q", name, other.Name)
		}
	}
	if err := removeIfExists(info.SessionFile); err != nil {
		return nil, errors.Wrap(err, "remove stale session file")
	}

	profile, err := r.Authorizer.Authorize(log.WithContext(ctx), info)
	if err != nil {
		if rmErr := removeIfExists(info.SessionFile); rmErr != nil {
			log.Warn().Err(rmErr).Msg("Failed to remove session file of failed login")
		}
		return nil, err
	}
	profile.apply(info)
	info.CreatedAt = r.timestamp()
	r.sessions[name] = info
	if err = r.save(); err != nil {
		delete(r.sessions, name)
		return nil, err
	}
	log.Info().Msg("Added session")
	return info.clone(), nil
}

// Switch makes name the current session.
func (r *Registry) Switch(ctx context.Context, name string) (*SessionInfo, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	info, ok := r.sessions[name]
	if !ok {
		return nil, errors.Wrapf(ErrSessionNotFound, "%q", name)
	}
	if _, err := os.Stat(info.SessionFile); err != nil {
		return nil, errors.Wrapf(ErrSessionFileMissing, "%s", info.SessionFile)
	}

	prevCurrent, prevLastUsed := r.current, info.LastUsed
	r.current = name
	info.LastUsed = r.timestamp()
	if err := r.save(); err != nil {
		r.current, info.LastUsed = prevCurrent, prevLastUsed
		return nil, err
	}
	zerolog.Ctx(ctx).Info().
		Str("session_name", name).
		Str("previous_session", prevCurrent).
		Msg("Switched session")
	return info.clone(), nil
}

// Remove deletes the record for name and, best effort, its session file.
func (r *Registry) Remove(ctx context.Context, name string) error {
	log := zerolog.Ctx(ctx).With().Str("session_name", name).Logger()
	r.lock.Lock()
	defer r.lock.Unlock()
	info, ok := r.sessions[name]
	if !ok {
		return errors.Wrapf(ErrSessionNotFound, "%q", name)
	}
	if err := removeIfExists(info.SessionFile); err != nil {
		log.Warn().Err(err).Msg("Failed to delete session file")
	}

	prevCurrent := r.current
	delete(r.sessions, name)
	if r.current == name {
		r.current = ""
	}
	if err := r.save(); err != nil {
		r.sessions[name] = info
		r.current = prevCurrent
		return err
	}
	log.Info().Msg("Removed session")
	return nil
}

// Current returns the current session, or nil if there is none.
func (r *Registry) Current() *SessionInfo {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.current == "" {
		return nil
	}
	return r.sessions[r.current].clone()
}

func (r *Registry) Get(name string) (*SessionInfo, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	info, ok := r.sessions[name]
	return info.clone(), ok
}

// List returns all sessions sorted by name.
func (r *Registry) List() []*SessionInfo {
	r.lock.Lock()
	defer r.lock.Unlock()
	out := make([]*SessionInfo, 0, len(r.sessions))
	for _, info := range r.sessions {
		out = append(out, info.clone())
	}
	slices.SortFunc(out, func(a, b *SessionInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

func (r *Registry) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.sessions)
}

// GetClient connects the named session, or the current one if name is
// empty.
func (r *Registry) GetClient(ctx context.Context, name string) (*Client, error) {
	r.lock.Lock()
	if name == "" {
		name = r.current
	}
	info, ok := r.sessions[name]
	info = info.clone()
	cfg := r.ClientConfig
	r.lock.Unlock()
	if name == "" || !ok {
		return nil, ErrNoActiveSession
	}

	storage := NewFileStorage(info.SessionFile)
	if !storage.Exists() {
		return nil, errors.Wrapf(ErrSessionFileMissing, "%s", info.SessionFile)
	}
	log := zerolog.Ctx(ctx).With().Str("session_name", name).Logger()
	return Dial(log.WithContext(ctx), DialParams{
		APIID:   info.APIID,
		APIHash: info.APIHash,
		Storage: storage,
		Config:  cfg,
	})
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
