package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/ledger/internal/paths"
	"github.com/mesh-intelligence/ledger/pkg/types"
)

// clearEnv blanks every variable that can leak into Load or Resolve.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LEDGER_BACKEND", "LEDGER_FILE", "LEDGER_LOG_LEVEL", paths.EnvDataDir} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	v, err := Load(filepath.Join(dir, "does-not-exist"))
	require.NoError(t, err)

	cfg, err := Resolve(v, Overrides{DataDir: dir})
	require.NoError(t, err)
	assert.Equal(t, types.Config{
		Backend:  types.BackendJSON,
		DataDir:  dir,
		LogLevel: DefaultLogLevel,
	}, cfg)
	assert.Equal(t, filepath.Join(dir, types.DefaultJSONFile), cfg.DocumentPath())
}

func TestLoadReadsFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "backend: sqlite\ndata_dir: /srv/stock\nfile: shop.db\nlog_level: debug\n")

	v, err := Load(dir)
	require.NoError(t, err)

	cfg, err := Resolve(v, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, types.BackendSQLite, cfg.Backend)
	assert.Equal(t, "/srv/stock", cfg.DataDir)
	assert.Equal(t, "shop.db", cfg.File)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "backend: sqlite\nfile: from-file.db\nlog_level: info\n")

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("LEDGER_FILE", "from-env.json")
		t.Setenv("LEDGER_BACKEND", "json")

		v, err := Load(dir)
		require.NoError(t, err)
		cfg, err := Resolve(v, Overrides{DataDir: dir})
		require.NoError(t, err)
		assert.Equal(t, "from-env.json", cfg.File)
		assert.Equal(t, types.BackendJSON, cfg.Backend)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("flags override env and file", func(t *testing.T) {
		t.Setenv("LEDGER_FILE", "from-env.json")

		v, err := Load(dir)
		require.NoError(t, err)
		cfg, err := Resolve(v, Overrides{DataDir: dir, File: "from-flag.json", LogLevel: "error", Backend: "json"})
		require.NoError(t, err)
		assert.Equal(t, "from-flag.json", cfg.File)
		assert.Equal(t, "error", cfg.LogLevel)
		assert.Equal(t, types.BackendJSON, cfg.Backend)
	})

	t.Run("config data_dir outranks env", func(t *testing.T) {
		other := t.TempDir()
		writeConfig(t, other, "data_dir: /from/config\n")
		t.Setenv(paths.EnvDataDir, "/from/env")

		v, err := Load(other)
		require.NoError(t, err)
		cfg, err := Resolve(v, Overrides{})
		require.NoError(t, err)
		assert.Equal(t, "/from/config", cfg.DataDir)
	})
}

func TestResolveRejectsUnknownBackend(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "backend: postgres\n")

	v, err := Load(dir)
	require.NoError(t, err)

	_, err = Resolve(v, Overrides{DataDir: dir})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
}

func TestLoadMalformedFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "backend: [unterminated\n")

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestWriteDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conf")
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: "/srv/stock"}

	path, created, err := WriteDefault(dir, cfg)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got types.Config
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, cfg, got)

	t.Run("idempotent", func(t *testing.T) {
		_, created, err := WriteDefault(dir, types.Config{Backend: types.BackendJSON})
		require.NoError(t, err)
		assert.False(t, created)

		again, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, data, again, "existing config.yaml is left alone")
	})

	t.Run("readable by Load", func(t *testing.T) {
		clearEnv(t)
		v, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, types.BackendSQLite, v.GetString(KeyBackend))
		assert.Equal(t, "/srv/stock", v.GetString(KeyDataDir))
	})
}
