package humanise_test

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/gotd/td/tgerr"
	"github.com/stretchr/testify/assert"

	"github.com/tgtransfer/tgtransfer/pkg/humanise"
	"github.com/tgtransfer/tgtransfer/pkg/telegram"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind humanise.Kind
	}{
		{"nil", nil, humanise.KindOther},
		{"flood wait", tgerr.New(420, "FLOOD_WAIT_30"), humanise.KindRateLimited},
		{"wrapped slowmode", errors.Wrap(tgerr.New(420, "SLOWMODE_WAIT_10"), "send media"), humanise.KindRateLimited},
		{"peer flood", tgerr.New(400, "PEER_FLOOD"), humanise.KindRateLimited},
		{"part too big", tgerr.New(400, "FILE_PART_TOO_BIG"), humanise.KindOversized},
		{"local size check", errors.Wrap(telegram.ErrFileTooLarge, "upload a.zip"), humanise.KindOversized},
		{"write forbidden", tgerr.New(403, "CHAT_WRITE_FORBIDDEN"), humanise.KindPermissionDenied},
		{"unknown 403", tgerr.New(403, "SOMETHING_NEW"), humanise.KindPermissionDenied},
		{"channel private", tgerr.New(400, "CHANNEL_PRIVATE"), humanise.KindPermissionDenied},
		{"peer invalid", tgerr.New(400, "PEER_ID_INVALID"), humanise.KindPeerInvalid},
		{"username", tgerr.New(400, "USERNAME_NOT_OCCUPIED"), humanise.KindPeerInvalid},
		{"canceled", errors.Wrap(context.Canceled, "download"), humanise.KindCanceled},
		{"text peer", errors.New("could not find the input entity for peer"), humanise.KindPeerInvalid},
		{"text flood", errors.New("Flood control triggered"), humanise.KindRateLimited},
		{"text large", errors.New("File is too large"), humanise.KindOversized},
		{"text forbidden", errors.New("403 Forbidden"), humanise.KindPermissionDenied},
		{"text other", errors.New("connection reset"), humanise.KindOther},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.kind, humanise.Classify(test.err))
		})
	}
}

func TestError(t *testing.T) {
	assert.Equal(t, "A wait of 30s is required", humanise.Error(tgerr.New(420, "FLOOD_WAIT_30")))
	assert.Equal(t, "You can't send media in this chat", humanise.Error(tgerr.New(403, "CHAT_SEND_MEDIA_FORBIDDEN")))
	assert.Equal(t, "connection reset", humanise.Error(errors.New("connection reset")))
	assert.Empty(t, humanise.Error(nil))
}

func TestFailure(t *testing.T) {
	assert.Equal(t,
		"Permission denied for a.jpg. Check channel permissions.",
		humanise.Failure("a.jpg", tgerr.New(403, "CHAT_WRITE_FORBIDDEN")),
	)
	assert.Equal(t,
		"File big.zip is too large for upload.",
		humanise.Failure("big.zip", telegram.ErrFileTooLarge),
	)
	assert.Equal(t,
		"Failed to transfer x.bin: connection reset",
		humanise.Failure("x.bin", errors.New("connection reset")),
	)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "rate_limited", humanise.KindRateLimited.String())
	assert.Equal(t, "other", humanise.Kind(99).String())
}
