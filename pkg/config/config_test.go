package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgtransfer/tgtransfer/pkg/config"
)

var envVars = []string{
	"API_ID", "API_HASH", "SESSION_NAME", "BATCH_SIZE", "DOWNLOAD_ROOT",
	"MESSAGE_LIMIT", "SESSIONS_DIR", "SESSIONS_CONFIG",
}

func clearEnv(t *testing.T) {
	for _, name := range envVars {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func writeConfig(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "tgtransfer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Transfer.BatchSize)
	assert.Equal(t, "downloads", cfg.Transfer.DownloadRoot)
	assert.Equal(t, 2000, cfg.Transfer.MessageLimit)
	assert.Equal(t, "sessions", cfg.Sessions.Dir)
	assert.Equal(t, "sessions_config.json", cfg.Sessions.ConfigFile)
	assert.Equal(t, "default_session", cfg.Telegram.SessionName)
	assert.Equal(t, 524288, cfg.Telegram.PartSize)
	assert.Empty(t, cfg.Telegram.DeviceInfo.SystemVersion)
	assert.Empty(t, cfg.Telegram.DeviceInfo.AppVersion)
	assert.Len(t, cfg.Logging.Writers, 2)
	assert.Error(t, cfg.Telegram.ValidateCredentials())
}

func TestLoad_MissingRequired(t *testing.T) {
	clearEnv(t)
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), true)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
telegram:
    api_id: 111
    api_hash: filehash
transfer:
    batch_size: 3
    message_limit: 50
`)
	t.Setenv("API_HASH", "envhash")
	t.Setenv("BATCH_SIZE", "8")
	t.Setenv("SESSIONS_DIR", "/tmp/s")

	cfg, err := config.Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, 111, cfg.Telegram.APIID)
	assert.Equal(t, "envhash", cfg.Telegram.APIHash)
	assert.Equal(t, 8, cfg.Transfer.BatchSize)
	assert.Equal(t, 50, cfg.Transfer.MessageLimit)
	assert.Equal(t, "/tmp/s", cfg.Sessions.Dir)
	assert.Equal(t, "downloads", cfg.Transfer.DownloadRoot)
	assert.NoError(t, cfg.Telegram.ValidateCredentials())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		env      map[string]string
	}{
		{name: "zero batch", contents: "transfer:\n    batch_size: 0\n"},
		{name: "negative limit", contents: "transfer:\n    message_limit: -1\n"},
		{name: "bad part size", contents: "telegram:\n    part_size: 1000\n"},
		{name: "huge part size", contents: "telegram:\n    part_size: 1048576\n"},
		{name: "empty download root", contents: "transfer:\n    download_root: \"\"\n"},
		{name: "malformed yaml", contents: "transfer: [\n"},
		{name: "bad env", contents: "", env: map[string]string{"BATCH_SIZE": "lots"}},
		{name: "env zero batch", contents: "", env: map[string]string{"BATCH_SIZE": "0"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range test.env {
				t.Setenv(k, v)
			}
			_, err := config.Load(writeConfig(t, test.contents), true)
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	shared := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(local, []byte("API_HASH=local\n"), 0o644))
	require.NoError(t, os.WriteFile(shared, []byte("API_HASH=shared\nAPI_ID=7\n"), 0o644))

	require.NoError(t, config.LoadDotEnv(local, shared, filepath.Join(dir, "missing")))
	t.Cleanup(func() {
		_ = os.Unsetenv("API_HASH")
		_ = os.Unsetenv("API_ID")
	})
	assert.Equal(t, "local", os.Getenv("API_HASH"))
	assert.Equal(t, "7", os.Getenv("API_ID"))
}
