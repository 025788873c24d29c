package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg, firstRun, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.True(t, firstRun)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.DataDir)
	assert.Equal(t, "latin1", cfg.SourceEncoding)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, cfg.DataDir, cfg.ExportDir, "bez export_dir eksport idzie do katalogu danych")

	_, err = os.Stat(path)
	require.NoError(t, err)

	again, firstRun, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.False(t, firstRun)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreateReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, Save(path, &Config{
		DataDir:        "/srv/reposicion",
		SourceEncoding: "windows-1252",
		LogLevel:       "debug",
		DBDriver:       "sqlite-cgo",
	}))

	cfg, _, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/reposicion", cfg.DataDir)
	assert.Equal(t, "windows-1252", cfg.SourceEncoding)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.DBEnabled)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	_, _, err := LoadOrCreate(path)
	require.NoError(t, err)

	t.Setenv("REPOSICION_DATA_DIR", "/tmp/otra")
	t.Setenv("REPOSICION_LOG_LEVEL", "warn")

	cfg, _, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/otra", cfg.DataDir)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadOrCreateBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{nie json"), 0o644))

	_, _, err := LoadOrCreate(path)
	assert.Error(t, err)
}

func TestLoadOrCreateRole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, Save(path, &Config{DataDir: "/d", Role: " Repositor "}))

	cfg, _, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, RoleRepositor, cfg.Role)

	t.Setenv("REPOSICION_ROLE", "cajero")
	_, _, err = LoadOrCreate(path)
	assert.ErrorContains(t, err, "cajero")
}

func TestLoadOrCreateReportsFolderError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "plik")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, _, err := LoadOrCreate(filepath.Join(blocker, "sub", "config.json"))
	assert.ErrorContains(t, err, "creando carpeta")

	err = Save(filepath.Join(blocker, "sub", "config.json"), Default(blocker))
	assert.ErrorContains(t, err, "creando carpeta")
}
