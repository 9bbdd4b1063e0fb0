package config

import (
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/rbxtools/reactls/pkg/schema"
)

// Config controls the server's factory naming and schema acquisition. All
// fields have working defaults; a config file only needs the keys it wants
// to override.
type Config struct {
	LogLevel string  `toml:"log_level"`
	Factory  Factory `toml:"factory"`
	Schema   Schema  `toml:"schema"`
}

// Factory names the tracked constructor pattern. The defaults match the
// React conventions: require(...React), React.createElement, React.Event.
type Factory struct {
	Module         string `toml:"module"`
	Call           string `toml:"call"`
	EventNamespace string `toml:"event_namespace"`
}

// Schema points at the dump endpoints and the local cache location. An
// empty CachePath defers to the executable-adjacent default.
type Schema struct {
	VersionURL    string `toml:"version_url"`
	DumpURLFormat string `toml:"dump_url_format"`
	CachePath     string `toml:"cache_path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Factory: Factory{
			Module:         "React",
			Call:           "createElement",
			EventNamespace: "Event",
		},
		Schema: Schema{
			VersionURL:    schema.DefaultVersionURL,
			DumpURLFormat: schema.DefaultDumpURLFormat,
		},
	}
}

// Load reads a TOML config file, applying its keys over the defaults. A
// missing file is not an error; the defaults stand alone.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := Default()

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, errors.Errorf("checking config file: %w", err)
	}
	if !exists {
		return cfg, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}
