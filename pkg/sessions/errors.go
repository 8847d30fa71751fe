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

import "github.com/go-faster/errors"

var (
	ErrInvalidName        = errors.New("session name must not be empty")
	ErrNameConflict       = errors.New("session already exists")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrPasswordRejected   = errors.New("two-factor password rejected")
	ErrConnectivity       = errors.New("failed to connect to Telegram")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionFileMissing = errors.New("session file not found")
	ErrNoActiveSession    = errors.New("no active session")
	ErrNotAuthorized      = errors.New("session is not authorized")
	ErrNoAuthorizer       = errors.New("no authorizer configured")
)
