package telegram_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgtransfer/tgtransfer/pkg/telegram"
)

func TestUploader_CheckSize(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "small.jpg")
	require.NoError(t, os.WriteFile(small, []byte("hello"), 0o644))
	huge := filepath.Join(dir, "huge.mkv")
	f, err := os.Create(huge)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(telegram.MaxUploadSize+1))
	require.NoError(t, f.Close())

	up := telegram.NewUploader(nil, telegram.DefaultPartSize)
	tests := []struct {
		name      string
		path      string
		size      int64
		tooLarge  bool
		wantError bool
	}{
		{name: "small", path: small, size: 5},
		{name: "over limit", path: huge, size: telegram.MaxUploadSize + 1, tooLarge: true, wantError: true},
		{name: "directory", path: dir, wantError: true},
		{name: "missing", path: filepath.Join(dir, "nope.png"), wantError: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			size, err := up.CheckSize(test.path)
			if test.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, test.tooLarge, errors.Is(err, telegram.ErrFileTooLarge))
			assert.Equal(t, test.size, size)
		})
	}
}
