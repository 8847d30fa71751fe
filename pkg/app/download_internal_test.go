package app

import (
	"context"
	"testing"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namedDocument(id int, name string) *tg.Message {
	media := &tg.MessageMediaDocument{}
	media.SetDocument(&tg.Document{
		ID:         int64(id),
		MimeType:   "application/pdf",
		Size:       100,
		Attributes: []tg.DocumentAttributeClass{&tg.DocumentAttributeFilename{FileName: name}},
	})
	msg := &tg.Message{ID: id}
	msg.SetMedia(media)
	return msg
}

func TestDownloadItems(t *testing.T) {
	msgs := []*tg.Message{
		namedDocument(1, "a.pdf"),
		{ID: 2, Message: "text only"},
		namedDocument(3, "a.pdf"),
		namedDocument(4, "b.pdf"),
		namedDocument(4, "b.pdf"),
	}
	items, media := downloadItems(context.Background(), msgs)
	require.Len(t, items, 3)
	assert.Equal(t, "a.pdf", items[0].Name)
	assert.Equal(t, "3_a.pdf", items[1].Name)
	assert.Equal(t, "b.pdf", items[2].Name)
	assert.Equal(t, int64(100), items[0].Size)
	assert.Equal(t, "3_a.pdf", media[3].Name)
	assert.Len(t, media, 3)
}
