package telegram_test

import (
	"testing"

	"github.com/gotd/td/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/tgtransfer/tgtransfer/pkg/telegram"
)

func TestClientOptions(t *testing.T) {
	var cfg telegram.ClientConfig
	cfg.DeviceInfo = telegram.DeviceInfo{
		DeviceModel:    "tgtransfer",
		SystemVersion:  "auto",
		AppVersion:     "AUTO",
		SystemLangCode: "en",
		LangCode:       "en",
	}
	cfg.RateLimit.IntervalMS = 100
	cfg.RateLimit.Burst = 5
	cfg.FloodWait.MaxRetries = 3

	storage := &session.StorageMemory{}
	opts := telegram.ClientOptions(zerolog.Nop(), storage, cfg)
	assert.Same(t, storage, opts.SessionStorage)
	assert.NotNil(t, opts.Logger)
	assert.Len(t, opts.Middlewares, 2)
	assert.Equal(t, "tgtransfer", opts.Device.DeviceModel)
	assert.Empty(t, opts.Device.SystemVersion, "auto must be left for gotd to fill in")
	assert.Empty(t, opts.Device.AppVersion)
	assert.Equal(t, "en", opts.Device.LangCode)
}

func TestClientOptions_MiddlewaresDisabled(t *testing.T) {
	opts := telegram.ClientOptions(zerolog.Nop(), &session.StorageMemory{}, telegram.ClientConfig{})
	assert.Empty(t, opts.Middlewares)
}
