package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "gapjournal/internal/errors"
)

func TestLoadMissingFileWritesTemplateAndUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	// The template exists for the user to edit next time.
	_, statErr := os.Stat(filepath.Join(dir, "config.toml"))
	assert.NoError(t, statErr)

	assert.Equal(t, "http://127.0.0.1:5000", cfg.Server.BaseURL)
	assert.Equal(t, 30, cfg.Server.TimeoutSeconds)
	assert.Equal(t, 3.0, cfg.UI.DefaultMinGap)
	assert.Equal(t, 30, cfg.UI.DefaultPeriodDays)
	assert.Equal(t, 300, cfg.UI.DebounceMillis)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Console)
}

func TestLoadReadsFileValues(t *testing.T) {
	dir := t.TempDir()
	content := `
[server]
base_url = "http://journal.local:8080"
timeout_seconds = 5

[ui]
default_min_gap = 5.5
debounce_ms = 150
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://journal.local:8080", cfg.Server.BaseURL)
	assert.Equal(t, 5, cfg.Server.TimeoutSeconds)
	assert.Equal(t, 5.5, cfg.UI.DefaultMinGap)
	assert.Equal(t, 150, cfg.UI.DebounceMillis)
	// Unset keys keep their defaults.
	assert.Equal(t, "01/02/2006", cfg.UI.DateFormat)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GAPJOURNAL_SERVER_URL", "http://override:9000")
	t.Setenv("GAPJOURNAL_LOG_LEVEL", "debug")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://override:9000", cfg.Server.BaseURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.Server.BaseURL = "" }},
		{"non-http url", func(c *Config) { c.Server.BaseURL = "ftp://host" }},
		{"zero timeout", func(c *Config) { c.Server.TimeoutSeconds = 0 }},
		{"negative min gap", func(c *Config) { c.UI.DefaultMinGap = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(t.TempDir())
			require.NoError(t, err)
			tc.mutate(cfg)
			err = cfg.Validate()
			assert.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrConfigInvalid)
		})
	}
}

func TestTimeoutAndDebounceHelpers(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "30s", cfg.Server.Timeout().String())
	assert.Equal(t, "300ms", cfg.UI.Debounce().String())
}
