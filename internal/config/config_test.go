package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"API_KEY", "GEMINI_API_KEY", "CLEARVIEW_EDITOR_API_KEY", "CLEARVIEW_EDITOR_MODEL", "CLEARVIEW_LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, cfg.Editor.Model)
	assert.Equal(t, DefaultPrompt, cfg.Editor.Prompt)
	assert.Equal(t, 2*time.Minute, cfg.Editor.RequestTimeout)
	assert.Empty(t, cfg.Editor.APIKey)
	assert.True(t, cfg.Download.MatchSourceSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "clearview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
editor:
  model: file-model
  request_timeout: 30s
log:
  level: debug
  format: json
download:
  match_source_size: false
`), 0o600))

	t.Setenv("CLEARVIEW_EDITOR_MODEL", "env-model")
	t.Setenv("API_KEY", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-model", cfg.Editor.Model)
	assert.Equal(t, "secret", cfg.Editor.APIKey)
	assert.Equal(t, 30*time.Second, cfg.Editor.RequestTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Download.MatchSourceSize)
}

func TestLoadPrefersPrefixedAPIKey(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("API_KEY", "generic")
	t.Setenv("CLEARVIEW_EDITOR_API_KEY", "specific")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "specific", cfg.Editor.APIKey)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Editor: EditorConfig{Model: DefaultModel, RequestTimeout: time.Second},
		Window: WindowConfig{Width: 800, Height: 600},
		Log:    LogConfig{Format: "console"},
	}
	require.NoError(t, valid.Validate())

	noModel := valid
	noModel.Editor.Model = " "
	assert.Error(t, noModel.Validate())

	noTimeout := valid
	noTimeout.Editor.RequestTimeout = 0
	assert.Error(t, noTimeout.Validate())

	tiny := valid
	tiny.Window.Width = 100
	assert.Error(t, tiny.Validate())

	badFormat := valid
	badFormat.Log.Format = "xml"
	assert.Error(t, badFormat.Validate())
}
