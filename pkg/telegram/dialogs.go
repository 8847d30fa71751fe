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
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/gotd/td/telegram/peers"
	"github.com/gotd/td/telegram/query"
	"github.com/gotd/td/tg"
	"github.com/rs/zerolog"
)

const (
	KindChannel = "Channel"
	KindGroup   = "Group"
)

// Target is a channel or group that media can be transferred from or to.
type Target interface {
	ID() int64
	Title() string
	// Username is empty for private chats.
	Username() string
	Kind() string
	InputPeer() tg.InputPeerClass
	BannedRights() (tg.ChatBannedRights, bool)
	// CanSendMedia is a best-effort local check, the server has the final say.
	CanSendMedia() bool
}

type chatTarget struct {
	chat *tg.Chat
}

var _ Target = chatTarget{}

func (t chatTarget) ID() int64        { return t.chat.ID }
func (t chatTarget) Title() string    { return t.chat.Title }
func (t chatTarget) Username() string { return "" }
func (t chatTarget) Kind() string     { return KindGroup }

func (t chatTarget) InputPeer() tg.InputPeerClass {
	return &tg.InputPeerChat{ChatID: t.chat.ID}
}

func (t chatTarget) BannedRights() (tg.ChatBannedRights, bool) {
	return t.chat.GetDefaultBannedRights()
}

func (t chatTarget) CanSendMedia() bool {
	if t.chat.Creator {
		return true
	} else if _, ok := t.chat.GetAdminRights(); ok {
		return true
	}
	rights, ok := t.BannedRights()
	return !ok || !rights.SendMedia
}

type channelTarget struct {
	channel *tg.Channel
}

var _ Target = channelTarget{}

func (t channelTarget) ID() int64        { return t.channel.ID }
func (t channelTarget) Title() string    { return t.channel.Title }
func (t channelTarget) Username() string { return t.channel.Username }
func (t channelTarget) Kind() string     { return KindChannel }

func (t channelTarget) InputPeer() tg.InputPeerClass {
	return &tg.InputPeerChannel{ChannelID: t.channel.ID, AccessHash: t.channel.AccessHash}
}

func (t channelTarget) BannedRights() (tg.ChatBannedRights, bool) {
	return t.channel.GetDefaultBannedRights()
}

func (t channelTarget) CanSendMedia() bool {
	if t.channel.Creator {
		return true
	} else if admin, ok := t.channel.GetAdminRights(); ok {
		return !t.channel.Broadcast || admin.PostMessages
	} else if t.channel.Broadcast {
		return false
	}
	rights, ok := t.BannedRights()
	return !ok || !rights.SendMedia
}

// NewTarget wraps a chat or channel entity. Other entity types return
// ErrUnsupportedPeer.
func NewTarget(entity any) (Target, error) {
	switch e := entity.(type) {
	case *tg.Chat:
		return chatTarget{e}, nil
	case *tg.Channel:
		return channelTarget{e}, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedPeer, "%T", entity)
	}
}

// ListTargets returns the channels and groups in the account's dialog list,
// in dialog order. Private chats and inaccessible entities are skipped.
func ListTargets(ctx context.Context, api *tg.Client) ([]Target, error) {
	var targets []Target
	iter := query.GetDialogs(api).BatchSize(100).Iter()
	for iter.Next(ctx) {
		elem := iter.Value()
		switch p := elem.Peer.(type) {
		case *tg.InputPeerChat:
			if chat, ok := elem.Entities.Chats()[p.ChatID]; ok {
				targets = append(targets, chatTarget{chat})
			}
		case *tg.InputPeerChannel:
			if channel, ok := elem.Entities.Channels()[p.ChannelID]; ok {
				targets = append(targets, channelTarget{channel})
			}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate dialogs")
	}
	zerolog.Ctx(ctx).Debug().Int("count", len(targets)).Msg("Listed dialogs")
	return targets, nil
}

// normalizeQuery turns links and mentions into a form the peer manager
// understands.
func normalizeQuery(q string) string {
	q = strings.TrimSpace(q)
	for _, prefix := range []string{"https://", "http://"} {
		q = strings.TrimPrefix(q, prefix)
	}
	if rest, ok := strings.CutPrefix(q, "telegram.me/"); ok {
		q = "t.me/" + rest
	}
	return q
}

// ResolveTarget finds the target described by a manual entry: a @username,
// a t.me link, a numeric ID or a title from known.
func ResolveTarget(ctx context.Context, manager *peers.Manager, known []Target, q string) (Target, error) {
	q = normalizeQuery(q)
	if q == "" {
		return nil, ErrTargetNotFound
	}
	if id, err := strconv.ParseInt(strings.TrimPrefix(q, "-100"), 10, 64); err == nil {
		for _, target := range known {
			if target.ID() == id {
				return target, nil
			}
		}
	}
	for _, target := range known {
		if strings.EqualFold(target.Title(), q) ||
			(target.Username() != "" && strings.EqualFold("@"+target.Username(), q)) {
			return target, nil
		}
	}

	resolved, err := manager.Resolve(ctx, q)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %q", q)
	}
	switch p := resolved.(type) {
	case peers.Channel:
		return channelTarget{p.Raw()}, nil
	case peers.Chat:
		return chatTarget{p.Raw()}, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedPeer, "%s", resolved.VisibleName())
	}
}
