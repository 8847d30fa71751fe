package telegram_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-faster/errors"
	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgtransfer/tgtransfer/pkg/telegram"
)

const testPartSize = 1024

// chunkClient serves a file in testPartSize chunks and fails at failAt, if
// set.
type chunkClient struct {
	data   []byte
	failAt int64
}

func (c *chunkClient) UploadGetFile(_ context.Context, req *tg.UploadGetFileRequest) (tg.UploadFileClass, error) {
	if c.failAt > 0 && req.Offset >= c.failAt {
		return nil, errors.New("network down")
	}
	end := min(req.Offset+int64(req.Limit), int64(len(c.data)))
	return &tg.UploadFile{Type: &tg.StorageFileJpeg{}, Bytes: c.data[req.Offset:end]}, nil
}

func (c *chunkClient) UploadGetFileHashes(context.Context, *tg.UploadGetFileHashesRequest) ([]tg.FileHash, error) {
	return nil, errors.New("not implemented")
}

func (c *chunkClient) UploadReuploadCDNFile(context.Context, *tg.UploadReuploadCDNFileRequest) ([]tg.FileHash, error) {
	return nil, errors.New("not implemented")
}

func (c *chunkClient) UploadGetCDNFileHashes(context.Context, *tg.UploadGetCDNFileHashesRequest) ([]tg.FileHash, error) {
	return nil, errors.New("not implemented")
}

func (c *chunkClient) UploadGetWebFile(context.Context, *tg.UploadGetWebFileRequest) (*tg.UploadWebFile, error) {
	return nil, errors.New("not implemented")
}

func testMedia(size int) *telegram.Media {
	return &telegram.Media{
		MessageID: 7,
		Name:      "photo_7.jpg",
		Size:      int64(size),
		MIMEType:  "image/jpeg",
		Location:  &tg.InputPhotoFileLocation{ID: 1, ThumbSize: "y"},
	}
}

func TestDownloader_ToFile(t *testing.T) {
	data := bytes.Repeat([]byte("abcd"), testPartSize/4*2+3)
	dir := t.TempDir()
	media := testMedia(len(data))

	var lastWritten, lastTotal int64
	path, err := telegram.NewDownloader(&chunkClient{data: data}, testPartSize).
		ToFile(context.Background(), media, dir, func(written, total int64) {
			lastWritten, lastTotal = written, total
		})
	require.NoError(t, err)
	assert.Equal(t, telegram.DestinationPath(dir, media), path)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, saved)
	assert.NoFileExists(t, path+telegram.PartialSuffix)
	assert.Equal(t, int64(len(data)), lastWritten)
	assert.Equal(t, int64(len(data)), lastTotal)
}

func TestDownloader_ToFileRemovesPartialOnFailure(t *testing.T) {
	data := bytes.Repeat([]byte{1}, testPartSize*3)
	dir := t.TempDir()

	_, err := telegram.NewDownloader(&chunkClient{data: data, failAt: testPartSize}, testPartSize).
		ToFile(context.Background(), testMedia(len(data)), dir, nil)
	assert.ErrorContains(t, err, "network down")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "neither the final nor the partial file may be left behind")
}

func TestDownloader_ToFileMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	_, err := telegram.NewDownloader(&chunkClient{data: []byte("x")}, testPartSize).
		ToFile(context.Background(), testMedia(1), dir, nil)
	assert.Error(t, err)
}
