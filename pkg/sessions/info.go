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

// Package sessions keeps track of the Telegram accounts a user has logged
// into and connects clients for them.
package sessions

import (
	"fmt"
	"strings"

	"github.com/gotd/td/tg"
	"go.mau.fi/util/ptr"

	"github.com/tgtransfer/tgtransfer/pkg/util"
)

// SessionInfo is the persisted record of one logged in account. Optional
// fields are null in the registry file when unknown.
type SessionInfo struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	APIID       int    `json:"api_id"`
	APIHash     string `json:"api_hash"`
	SessionFile string `json:"session_file"`

	UserID    *int64  `json:"user_id"`
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	CreatedAt *string `json:"created_at"`
	LastUsed  *string `json:"last_used"`
}

func (si *SessionInfo) clone() *SessionInfo {
	if si == nil {
		return nil
	}
	cp := *si
	return &cp
}

func (si *SessionInfo) FullName() string {
	return util.FormatFullName(ptr.Val(si.FirstName), ptr.Val(si.LastName))
}

// UsernameDisplay returns the @-prefixed username or a placeholder.
func (si *SessionInfo) UsernameDisplay() string {
	if username := ptr.Val(si.Username); username != "" {
		return "@" + username
	}
	return "(No username)"
}

func (si *SessionInfo) String() string {
	if name := si.FullName(); name != "" {
		return fmt.Sprintf("%s (%s, %s)", si.Name, name, si.PhoneNumber)
	}
	return fmt.Sprintf("%s (%s)", si.Name, si.PhoneNumber)
}

// Profile is what a successful login tells us about the account.
type Profile struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
	Phone     string
}

func ProfileFromUser(user *tg.User) *Profile {
	return &Profile{
		UserID:    user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
	}
}

// DisplayName is the account's full name followed by its username.
func (p *Profile) DisplayName() string {
	name := util.FormatFullName(p.FirstName, p.LastName)
	if p.Username != "" {
		return strings.TrimSpace(fmt.Sprintf("%s (@%s)", name, p.Username))
	}
	return name
}

func (p *Profile) apply(si *SessionInfo) {
	si.UserID = ptr.Ptr(p.UserID)
	si.Username = ptr.NonZero(p.Username)
	si.FirstName = ptr.NonZero(p.FirstName)
	si.LastName = ptr.NonZero(p.LastName)
}
