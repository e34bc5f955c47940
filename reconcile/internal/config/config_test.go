package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg := LoadFromEnv()
	assert.Equal(t, ",", cfg.Delimiter)
	assert.Equal(t, "2006-01-02", cfg.DateFormat)
	assert.False(t, cfg.Header)
	assert.Equal(t, 0, cfg.AmountField)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Tail.Lines)
	assert.Equal(t, time.Second, cfg.Tail.PollInterval())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RECONCILE_DELIMITER", ";")
	t.Setenv("RECONCILE_HEADER", "true")
	t.Setenv("RECONCILE_AMOUNT_FIELD", "2")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECONCILE_TAIL_LINES", "nope")

	cfg := LoadFromEnv()
	assert.Equal(t, ";", cfg.Delimiter)
	assert.True(t, cfg.Header)
	assert.Equal(t, 2, cfg.AmountField)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Tail.Lines)
}

func TestLoad_TOML(t *testing.T) {
	t.Setenv("TEST_ACCOUNT", "Assets:Bank")
	path := filepath.Join(t.TempDir(), "reconcile.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
delimiter = ";"
header = true
amount_field = 2
account = "${TEST_ACCOUNT}"

[log]
level = "warn"

[tail]
lines = 25
interval = "250ms"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ";", cfg.Delimiter)
	assert.True(t, cfg.Header)
	assert.Equal(t, 2, cfg.AmountField)
	assert.Equal(t, "Assets:Bank", cfg.Account)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "2006-01-02", cfg.DateFormat)
	assert.Equal(t, 25, cfg.Tail.Lines)
	assert.Equal(t, 250*time.Millisecond, cfg.Tail.PollInterval())
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reconcile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
date_format: auto
log:
  format: json
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "auto", cfg.DateFormat)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ",", cfg.Delimiter)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("delimiter = \n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	_, err = LoadOrEnv(path)
	assert.Error(t, err)
}

func TestLoadOrEnv_Missing(t *testing.T) {
	t.Setenv("RECONCILE_DELIMITER", "|")

	cfg, err := LoadOrEnv(filepath.Join(t.TempDir(), "nonexistent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "|", cfg.Delimiter)
}

func TestLoadOrEnv_EnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`delimiter = "\t"`), 0o644))
	t.Setenv("RECONCILE_CONFIG", path)

	cfg, err := LoadOrEnv("")
	require.NoError(t, err)
	assert.Equal(t, "\t", cfg.Delimiter)
}
