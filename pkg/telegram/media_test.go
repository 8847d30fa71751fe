package telegram_test

import (
	"testing"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgtransfer/tgtransfer/pkg/telegram"
)

func documentMessage(id int, mimeType string, attrs ...tg.DocumentAttributeClass) *tg.Message {
	media := &tg.MessageMediaDocument{}
	media.SetDocument(&tg.Document{ID: int64(id) * 10, MimeType: mimeType, Size: 1234, Attributes: attrs})
	msg := &tg.Message{ID: id}
	msg.SetMedia(media)
	return msg
}

func photoMessage(id int, sizes ...tg.PhotoSizeClass) *tg.Message {
	media := &tg.MessageMediaPhoto{}
	media.SetPhoto(&tg.Photo{ID: int64(id) * 10, Sizes: sizes})
	msg := &tg.Message{ID: id}
	msg.SetMedia(media)
	return msg
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name     string
		msg      *tg.Message
		expected string
	}{
		{"original name", documentMessage(1, "application/pdf", &tg.DocumentAttributeFilename{FileName: "report.pdf"}), "report.pdf"},
		{"name with path", documentMessage(2, "text/plain", &tg.DocumentAttributeFilename{FileName: "../../etc/passwd"}), "passwd"},
		{"pdf", documentMessage(3, "application/pdf"), "document_3.pdf"},
		{"zip", documentMessage(4, "application/zip"), "archive_4.zip"},
		{"windows zip", documentMessage(5, "application/x-zip-compressed"), "archive_5.zip"},
		{"video", documentMessage(6, "video/quicktime"), "video_6.mp4"},
		{"other document", documentMessage(7, "audio/ogg"), "document_7.bin"},
		{"no mime", documentMessage(8, ""), "document_8.bin"},
		{"photo", photoMessage(9, &tg.PhotoSize{Type: "x", Size: 10}), "photo_9.jpg"},
		{"no media", &tg.Message{ID: 10}, "media_10.bin"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, telegram.FileName(test.msg))
		})
	}
}

func TestMediaKind_Matches(t *testing.T) {
	pdf := documentMessage(1, "application/pdf")
	zip := documentMessage(2, "application/zip")
	photo := photoMessage(3, &tg.PhotoSize{Type: "x", Size: 10})
	text := &tg.Message{ID: 4, Message: "hello"}

	assert.True(t, telegram.MediaPDFs.Matches(pdf))
	assert.False(t, telegram.MediaPDFs.Matches(zip))
	assert.True(t, telegram.MediaZIPs.Matches(zip))
	assert.False(t, telegram.MediaZIPs.Matches(photo))
	assert.True(t, telegram.MediaAll.Matches(photo))
	assert.True(t, telegram.MediaAll.Matches(pdf))
	assert.False(t, telegram.MediaAll.Matches(text))
}

func TestMediaKind_DefaultFolder(t *testing.T) {
	assert.Equal(t, "images", telegram.MediaImages.DefaultFolder())
	assert.Equal(t, "zips", telegram.MediaZIPs.DefaultFolder())
	assert.Equal(t, "all_media", telegram.MediaAll.DefaultFolder())
	assert.False(t, telegram.MediaKind(0).Valid())
	assert.True(t, telegram.MediaVideos.Valid())
}

func TestMediaFromMessage(t *testing.T) {
	media, err := telegram.MediaFromMessage(photoMessage(5,
		&tg.PhotoStrippedSize{Type: "i", Bytes: make([]byte, 5000)},
		&tg.PhotoSize{Type: "m", W: 320, H: 320, Size: 1000},
		&tg.PhotoSizeProgressive{Type: "y", W: 1280, H: 1280, Sizes: []int{2000, 9000, 12000}},
	))
	require.NoError(t, err)
	assert.Equal(t, "photo_5.jpg", media.Name)
	assert.EqualValues(t, 12000, media.Size)
	require.IsType(t, &tg.InputPhotoFileLocation{}, media.Location)
	assert.Equal(t, "y", media.Location.(*tg.InputPhotoFileLocation).ThumbSize)

	media, err = telegram.MediaFromMessage(documentMessage(6, "application/zip"))
	require.NoError(t, err)
	assert.EqualValues(t, 1234, media.Size)
	assert.Equal(t, "archive_6.zip", media.Name)
	assert.Equal(t, int64(60), media.Location.(*tg.InputDocumentFileLocation).ID)

	_, err = telegram.MediaFromMessage(&tg.Message{ID: 7})
	assert.ErrorIs(t, err, telegram.ErrNoMedia)
}

func TestMIMEType(t *testing.T) {
	assert.Equal(t, "application/pdf", telegram.MIMEType("a/b/report.PDF"))
	assert.Equal(t, "application/octet-stream", telegram.MIMEType("archive.unknownext"))
}
