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

// Package humanise turns transfer errors into categories and messages that
// can be shown to the user.
package humanise

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/gotd/td/tgerr"

	"github.com/tgtransfer/tgtransfer/pkg/telegram"
)

type Kind int

const (
	KindOther Kind = iota
	KindRateLimited
	KindOversized
	KindPermissionDenied
	KindPeerInvalid
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindOversized:
		return "oversized"
	case KindPermissionDenied:
		return "permission_denied"
	case KindPeerInvalid:
		return "peer_invalid"
	case KindCanceled:
		return "canceled"
	default:
		return "other"
	}
}

var (
	rateLimitedTypes = []string{
		"FLOOD_WAIT", "SLOWMODE_WAIT", "PEER_FLOOD", "FLOOD_PREMIUM_WAIT",
	}
	oversizedTypes = []string{
		"FILE_PARTS_INVALID", "FILE_PART_TOO_BIG", "FILE_PART_SIZE_INVALID", "FILE_PARTS_TOO_MUCH",
		"PHOTO_SAVE_FILE_INVALID", "PHOTO_INVALID_DIMENSIONS", "MEDIA_TOO_BIG",
	}
	permissionTypes = []string{
		"CHAT_WRITE_FORBIDDEN", "CHAT_SEND_MEDIA_FORBIDDEN", "CHAT_SEND_PHOTOS_FORBIDDEN",
		"CHAT_SEND_VIDEOS_FORBIDDEN", "CHAT_SEND_DOCS_FORBIDDEN", "CHAT_FORBIDDEN", "CHANNEL_PRIVATE",
		"CHAT_ADMIN_REQUIRED", "CHAT_RESTRICTED", "USER_BANNED_IN_CHANNEL",
	}
	peerInvalidTypes = []string{
		"PEER_ID_INVALID", "CHANNEL_INVALID", "CHAT_ID_INVALID", "CHANNEL_ID_INVALID",
		"USERNAME_NOT_OCCUPIED", "USERNAME_INVALID", "CHANNEL_PUBLIC_GROUP_NA", "USER_NOT_PARTICIPANT",
	}
)

// Classify returns the category of a per-item transfer error.
//
// Typed Telegram RPC errors are matched by type and code. Anything else
// falls back to matching words in the error message, which depends on
// upstream wording and should not be relied on for more than display.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, telegram.ErrFileTooLarge):
		return KindOversized
	}
	if rpcErr, ok := tgerr.As(err); ok {
		switch {
		case rpcErr.IsOneOf(rateLimitedTypes...), rpcErr.IsCode(420):
			return KindRateLimited
		case rpcErr.IsOneOf(oversizedTypes...):
			return KindOversized
		case rpcErr.IsOneOf(permissionTypes...), rpcErr.IsCode(403):
			return KindPermissionDenied
		case rpcErr.IsOneOf(peerInvalidTypes...):
			return KindPeerInvalid
		}
	}
	return classifyText(err.Error())
}

func classifyText(msg string) Kind {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "peer"):
		return KindPeerInvalid
	case strings.Contains(msg, "flood"):
		return KindRateLimited
	case strings.Contains(msg, "file") && strings.Contains(msg, "large"):
		return KindOversized
	case strings.Contains(msg, "permission"), strings.Contains(msg, "forbidden"):
		return KindPermissionDenied
	default:
		return KindOther
	}
}

// Failure describes why the named item failed, in a form suitable for the
// end-of-run report.
func Failure(name string, err error) string {
	switch Classify(err) {
	case KindPeerInvalid:
		return fmt.Sprintf("Peer validation failed for %s. Channel may be inaccessible.", name)
	case KindRateLimited:
		return fmt.Sprintf("Rate limit exceeded while transferring %s: %s", name, Error(err))
	case KindOversized:
		return fmt.Sprintf("File %s is too large for upload.", name)
	case KindPermissionDenied:
		return fmt.Sprintf("Permission denied for %s. Check channel permissions.", name)
	case KindCanceled:
		return fmt.Sprintf("Transfer of %s was canceled.", name)
	default:
		return fmt.Sprintf("Failed to transfer %s: %s", name, Error(err))
	}
}

func Error(err error) string {
	if err == nil {
		return ""
	}
	if d, ok := tgerr.AsFloodWait(err); ok {
		return fmt.Sprintf("A wait of %s is required", d)
	}
	switch {
	case errors.Is(err, telegram.ErrFileTooLarge):
		return "The file exceeds the maximum size Telegram accepts"
	case tgerr.Is(err, "API_ID_INVALID"):
		return "The api_id/api_hash combination is invalid"
	case tgerr.Is(err, "AUTH_KEY_UNREGISTERED"):
		return "The key is not registered in the system"
	case tgerr.Is(err, "CHANNEL_INVALID"):
		return "Invalid channel object"
	case tgerr.Is(err, "CHANNEL_PRIVATE"):
		return "The channel specified is private and you lack permission to access it. Another reason may be that you were banned from it"
	case tgerr.Is(err, "CHANNEL_PUBLIC_GROUP_NA"):
		return "channel/supergroup not available"
	case tgerr.Is(err, "CHAT_ADMIN_REQUIRED"):
		return "Chat admin privileges are required to do that in the specified chat"
	case tgerr.Is(err, "CHAT_FORBIDDEN"):
		return "You cannot write in this chat"
	case tgerr.Is(err, "CHAT_RESTRICTED"):
		return "The chat is restricted and cannot be used in that request"
	case tgerr.Is(err, "CHAT_SEND_MEDIA_FORBIDDEN"):
		return "You can't send media in this chat"
	case tgerr.Is(err, "CHAT_WRITE_FORBIDDEN"):
		return "You can't write in this chat"
	case tgerr.Is(err, "FILE_PARTS_INVALID"):
		return "The number of file parts is invalid"
	case tgerr.Is(err, "FILE_PART_INVALID"):
		return "The file part number is invalid"
	case tgerr.Is(err, "FILE_PART_SIZE_INVALID"):
		return "The provided file part size is invalid"
	case tgerr.Is(err, "FILE_PART_TOO_BIG"):
		return "The uploaded file part is too big"
	case tgerr.Is(err, "FILE_REFERENCE_EXPIRED"):
		return "The file reference has expired and is no longer valid"
	case tgerr.Is(err, "MEDIA_EMPTY"):
		return "The provided media object is invalid or the current account may not be able to send it"
	case tgerr.Is(err, "MSG_ID_INVALID"):
		return "The message ID used in the peer was invalid"
	case tgerr.Is(err, "PASSWORD_HASH_INVALID"):
		return "The password (and thus its hash value) you entered is invalid"
	case tgerr.Is(err, "PEER_FLOOD"):
		return "Too many requests"
	case tgerr.Is(err, "PEER_ID_INVALID"):
		return "An invalid Peer was used"
	case tgerr.Is(err, "PHONE_CODE_EXPIRED"):
		return "The confirmation code has expired"
	case tgerr.Is(err, "PHONE_CODE_INVALID"):
		return "The phone code entered was invalid"
	case tgerr.Is(err, "PHONE_NUMBER_BANNED"):
		return "The used phone number has been banned from Telegram and cannot be used anymore"
	case tgerr.Is(err, "PHONE_NUMBER_INVALID"):
		return "The phone number is invalid"
	case tgerr.Is(err, "PHONE_NUMBER_UNOCCUPIED"):
		return "The phone number is not yet being used"
	case tgerr.Is(err, "PHOTO_SAVE_FILE_INVALID"):
		return "The photo you tried to send cannot be saved by Telegram. A reason may be that it exceeds 10MB"
	case tgerr.Is(err, "SESSION_PASSWORD_NEEDED"):
		return "Two-steps verification is enabled and a password is required"
	case tgerr.Is(err, "USERNAME_INVALID"):
		return "Nobody is using this username, or the username is unacceptable"
	case tgerr.Is(err, "USERNAME_NOT_OCCUPIED"):
		return "The username is not in use by anyone else yet"
	case tgerr.Is(err, "USER_BANNED_IN_CHANNEL"):
		return "You're banned from sending messages in supergroups/channels"
	case tgerr.Is(err, "USER_NOT_PARTICIPANT"):
		return "You are not a member of the specified megagroup or channel"
	default:
		return err.Error()
	}
}
