package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate moves the test into an empty directory with its own XDG config home.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	for _, key := range envKeys {
		t.Setenv("INKBOOK_"+strings.ToUpper(key), "")
		require.NoError(t, os.Unsetenv("INKBOOK_"+strings.ToUpper(key)))
	}
	return tmpDir
}

func TestGlobalPath(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		assert.Equal(t, "/custom/config/inkbook/inkbook.yml", GlobalPath())
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		got := GlobalPath()
		assert.True(t, filepath.IsAbs(got), got)
		assert.Equal(t, "inkbook.yml", filepath.Base(got))
		assert.Equal(t, "inkbook", filepath.Base(filepath.Dir(got)))
	})
}

func TestProjectPath(t *testing.T) {
	assert.Equal(t, "inkbook.yml", ProjectPath())
}

func TestExists(t *testing.T) {
	isolate(t)
	assert.False(t, Exists())

	require.NoError(t, WriteProject(Defaults()))
	assert.True(t, Exists())
}

func TestLoad_NoConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Defaults(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)

	global := Defaults()
	global.Studio = "Global Ink"
	global.LogLevel = "warn"
	global.SubmitDelay = 2 * time.Second
	require.NoError(t, WriteGlobal(global))

	project := []byte("studio: Project Ink\nauto_advance_delay: 250ms\n")
	require.NoError(t, os.WriteFile(ProjectPath(), project, 0644))

	t.Setenv("INKBOOK_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Project Ink", cfg.Studio)
	assert.Equal(t, 250*time.Millisecond, cfg.AutoAdvanceDelay)
	assert.Equal(t, 2*time.Second, cfg.SubmitDelay)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("INKBOOK_STUDIO=Dotenv Ink\nINKBOOK_MAX_REFERENCE_BYTES=2048\n"), 0644))
	t.Cleanup(func() {
		_ = os.Unsetenv("INKBOOK_STUDIO")
		_ = os.Unsetenv("INKBOOK_MAX_REFERENCE_BYTES")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Dotenv Ink", cfg.Studio)
	assert.Equal(t, 2048, cfg.MaxReferenceBytes)
}

func TestLoadDotEnv_MissingFileIgnored(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "nope.env")))
}

func TestWriteGlobal(t *testing.T) {
	isolate(t)

	cfg := Defaults()
	cfg.CatalogPath = "/srv/catalog.yml"
	require.NoError(t, WriteGlobal(cfg))

	data, err := os.ReadFile(GlobalPath())
	require.NoError(t, err)
	content := string(data)
	for _, field := range []string{"studio:", "log_level: info", "catalog_path: /srv/catalog.yml", "auto_advance_delay: 400ms", "submit_delay: 1.5s"} {
		assert.Contains(t, content, field)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero delays", func(c *Config) { c.AutoAdvanceDelay = 0; c.SubmitDelay = 0 }, false},
		{"negative auto advance", func(c *Config) { c.AutoAdvanceDelay = -time.Second }, true},
		{"negative submit", func(c *Config) { c.SubmitDelay = -time.Millisecond }, true},
		{"zero attachment limit", func(c *Config) { c.MaxReferenceBytes = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
