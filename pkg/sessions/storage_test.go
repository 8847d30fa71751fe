package sessions_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gotd/td/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgtransfer/tgtransfer/pkg/sessions"
)

func TestFileStorage(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "a.session")
	storage := sessions.NewFileStorage(path)

	_, err := storage.LoadSession(ctx)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.False(t, storage.Exists())

	require.NoError(t, os.WriteFile(path, nil, 0o600))
	_, err = storage.LoadSession(ctx)
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, storage.StoreSession(ctx, []byte(`{"Version":1}`)))
	data, err := storage.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"Version":1}`, string(data))
	assert.True(t, storage.Exists())

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), stat.Mode().Perm())
}
