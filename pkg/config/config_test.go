package config_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbxtools/reactls/pkg/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(afero.NewMemMapFs(), "/etc/reactls.toml")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "React", cfg.Factory.Module)
	assert.Equal(t, "createElement", cfg.Factory.Call)
	assert.Equal(t, "Event", cfg.Factory.EventNamespace)
	assert.NotEmpty(t, cfg.Schema.VersionURL)
}

func TestLoadOverridesDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/reactls.toml", []byte(`
log_level = "debug"

[factory]
module = "Roact"
`), 0o644))

	cfg, err := config.Load(fs, "/etc/reactls.toml")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "Roact", cfg.Factory.Module)
	assert.Equal(t, "createElement", cfg.Factory.Call, "unset keys keep defaults")
}

func TestLoadInvalidTOML(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/reactls.toml", []byte("not = [valid"), 0o644))

	_, err := config.Load(fs, "/etc/reactls.toml")
	assert.Error(t, err)
}
