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

// Package config loads the settings shared by the tgtransfer tools from the
// YAML config file, dotenv files and the environment.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"go.mau.fi/zeroconfig"
	"gopkg.in/yaml.v3"

	"github.com/tgtransfer/tgtransfer/pkg/telegram"
)

const DefaultPath = "tgtransfer.yaml"

// DotEnvFiles are loaded in order. Variables that are already set, including
// ones set by an earlier file, are not overwritten.
var DotEnvFiles = []string{".env.local", ".env"}

//go:embed example-config.yaml
var ExampleConfig string

type TelegramConfig struct {
	APIID       int    `yaml:"api_id"`
	APIHash     string `yaml:"api_hash"`
	SessionName string `yaml:"session_name"`

	telegram.ClientConfig `yaml:",inline"`
}

type TransferConfig struct {
	BatchSize    int    `yaml:"batch_size"`
	DownloadRoot string `yaml:"download_root"`
	MessageLimit int    `yaml:"message_limit"`
}

type SessionsConfig struct {
	Dir        string `yaml:"dir"`
	ConfigFile string `yaml:"config_file"`
}

type Config struct {
	Telegram TelegramConfig    `yaml:"telegram"`
	Transfer TransferConfig    `yaml:"transfer"`
	Sessions SessionsConfig    `yaml:"sessions"`
	Logging  zeroconfig.Config `yaml:"logging"`
}

// envOverrides are the environment variables understood by all tools. Unset
// variables leave the file value alone.
type envOverrides struct {
	APIID          *int    `env:"API_ID"`
	APIHash        *string `env:"API_HASH"`
	SessionName    *string `env:"SESSION_NAME"`
	BatchSize      *int    `env:"BATCH_SIZE"`
	DownloadRoot   *string `env:"DOWNLOAD_ROOT"`
	MessageLimit   *int    `env:"MESSAGE_LIMIT"`
	SessionsDir    *string `env:"SESSIONS_DIR"`
	SessionsConfig *string `env:"SESSIONS_CONFIG"`
}

func setIfPresent[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}

func (o *envOverrides) apply(cfg *Config) {
	setIfPresent(&cfg.Telegram.APIID, o.APIID)
	setIfPresent(&cfg.Telegram.APIHash, o.APIHash)
	setIfPresent(&cfg.Telegram.SessionName, o.SessionName)
	setIfPresent(&cfg.Transfer.BatchSize, o.BatchSize)
	setIfPresent(&cfg.Transfer.DownloadRoot, o.DownloadRoot)
	setIfPresent(&cfg.Transfer.MessageLimit, o.MessageLimit)
	setIfPresent(&cfg.Sessions.Dir, o.SessionsDir)
	setIfPresent(&cfg.Sessions.ConfigFile, o.SessionsConfig)
}

// LoadDotEnv loads the given dotenv files into the process environment,
// skipping the ones that don't exist.
func LoadDotEnv(files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return errors.Wrapf(err, "load %s", file)
		}
	}
	return nil
}

// Load builds the config from the built-in defaults, the YAML file at path
// and the environment, then validates it. A missing file is only an error if
// required is set.
func Load(path string, required bool) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(ExampleConfig), &cfg); err != nil {
		return nil, errors.Wrap(err, "parse default config")
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !required:
	case err != nil:
		return nil, errors.Wrap(err, "read config")
	default:
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrapf(err, "parse %s", path)
		}
	}

	var overrides envOverrides
	if err = env.Parse(&overrides); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	overrides.apply(&cfg)
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Transfer.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.Transfer.BatchSize)
	}
	if c.Transfer.MessageLimit <= 0 {
		return fmt.Errorf("message_limit must be positive, got %d", c.Transfer.MessageLimit)
	}
	if c.Transfer.DownloadRoot == "" {
		return fmt.Errorf("download_root is required")
	}
	if c.Sessions.Dir == "" || c.Sessions.ConfigFile == "" {
		return fmt.Errorf("sessions dir and config_file are required")
	}
	if ps := c.Telegram.PartSize; ps != 0 && (ps%1024 != 0 || ps > telegram.DefaultPartSize) {
		return fmt.Errorf("part_size must be divisible by 1024 and at most %d, got %d", telegram.DefaultPartSize, ps)
	}
	return nil
}

// ValidateCredentials checks the settings needed for the static session.
func (c *TelegramConfig) ValidateCredentials() error {
	if c.APIID == 0 {
		return fmt.Errorf("api_id is required")
	}
	if c.APIHash == "" {
		return fmt.Errorf("api_hash is required")
	}
	if c.SessionName == "" {
		return fmt.Errorf("session_name is required")
	}
	return nil
}
