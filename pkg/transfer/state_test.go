package transfer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mau.fi/util/ptr"

	"github.com/tgtransfer/tgtransfer/pkg/transfer"
)

func TestLoadState(t *testing.T) {
	tests := []struct {
		name     string
		contents *string
		expected []string
	}{
		{name: "missing"},
		{name: "malformed", contents: ptr.Ptr("{not json")},
		{name: "wrong shape", contents: ptr.Ptr(`{"a": 1}`)},
		{name: "valid", contents: ptr.Ptr(`["a/b.jpg", "c.png", "a/b.jpg"]`), expected: []string{"a/b.jpg", "c.png"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), transfer.UploadStateFile)
			if test.contents != nil {
				require.NoError(t, os.WriteFile(path, []byte(*test.contents), 0o644))
			}
			store := transfer.LoadState[string](context.Background(), path)
			assert.Equal(t, len(test.expected), store.Len())
			if test.expected != nil {
				assert.Equal(t, test.expected, store.IDs())
			}
		})
	}
}

func TestStateStore_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), transfer.DownloadStateFile)
	store := transfer.NewStateStore[int](path)
	store.Add(3)
	store.Add(1)
	store.Add(3)
	require.NoError(t, store.Save(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[3, 1]`, string(data))
	assert.True(t, store.Contains(1))
	assert.False(t, store.Contains(2))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestStateStore_SaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), transfer.DownloadStateFile)
	require.NoError(t, transfer.NewStateStore[int](path).Save(context.Background()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestStateStore_SaveMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", transfer.DownloadStateFile)
	store := transfer.NewStateStore[int](path)
	store.Add(1)
	assert.Error(t, store.Save(context.Background()))
}
