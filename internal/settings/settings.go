// Package settings loads preload command settings from an optional YAML settings file
// and PRELOAD_* environment variables. Environment variables override the file.
package settings

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "PRELOAD_"

// Settings are the command-level settings. Flags override them.
type Settings struct {
	ConfigPath string `koanf:"config"`
	Driver     string `koanf:"driver"`
	DSN        string `koanf:"dsn"`
	LogLevel   string `koanf:"log_level"`
	DryRun     bool   `koanf:"dry_run"`
	Trace      bool   `koanf:"trace"`
}

// Load reads envFiles (missing files are ignored) into the process environment,
// then decodes settingsFile (skipped when empty or missing) and PRELOAD_* variables:
// PRELOAD_LOG_LEVEL maps to log_level.
func Load(settingsFile string, envFiles ...string) (*Settings, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	k := koanf.New(".")
	if settingsFile != "" {
		if err := k.Load(file.Provider(settingsFile), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, err
	}

	defaults := map[string]any{
		"config":    "preload.yaml",
		"driver":    "sqlite",
		"dsn":       ":memory:",
		"log_level": "info",
	}
	for key, v := range defaults {
		if !k.Exists(key) {
			if err := k.Set(key, v); err != nil {
				return nil, err
			}
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, err
	}
	return &s, nil
}
