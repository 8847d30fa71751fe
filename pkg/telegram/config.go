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
	"strings"
	"time"

	"github.com/gotd/td/telegram"
)

// DeviceInfo is reported to Telegram when a session logs in. Empty fields
// are filled in by gotd.
type DeviceInfo struct {
	DeviceModel    string `yaml:"device_model"`
	SystemVersion  string `yaml:"system_version"`
	AppVersion     string `yaml:"app_version"`
	SystemLangCode string `yaml:"system_lang_code"`
	LangCode       string `yaml:"lang_code"`
}

// autoValue maps the "auto" placeholder accepted by older configs to the
// empty string, which lets gotd fill in the value.
func autoValue(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), "auto") {
		return ""
	}
	return v
}

func (d DeviceInfo) toDeviceConfig() telegram.DeviceConfig {
	return telegram.DeviceConfig{
		DeviceModel:    autoValue(d.DeviceModel),
		SystemVersion:  autoValue(d.SystemVersion),
		AppVersion:     autoValue(d.AppVersion),
		SystemLangCode: d.SystemLangCode,
		LangCode:       d.LangCode,
	}
}

// ClientConfig tunes the MTProto client shared by all tools.
type ClientConfig struct {
	DeviceInfo DeviceInfo `yaml:"device_info"`

	// RateLimit spaces out API requests. An interval of zero disables the
	// limiter.
	RateLimit struct {
		IntervalMS int `yaml:"interval_ms"`
		Burst      int `yaml:"burst"`
	} `yaml:"rate_limit"`

	// FloodWait retries requests that hit FLOOD_WAIT. Zero retries disables
	// automatic waiting and surfaces the error to the caller.
	FloodWait struct {
		MaxRetries     uint `yaml:"max_retries"`
		MaxWaitSeconds int  `yaml:"max_wait_seconds"`
	} `yaml:"flood_wait"`

	// PartSize is the chunk size for uploads and downloads, in bytes.
	PartSize int `yaml:"part_size"`
}

func (c ClientConfig) rateInterval() time.Duration {
	return time.Duration(c.RateLimit.IntervalMS) * time.Millisecond
}

func (c ClientConfig) NormalizedPartSize() int {
	if c.PartSize <= 0 {
		return DefaultPartSize
	}
	return c.PartSize
}
