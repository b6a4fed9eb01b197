package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadGlobalConfig_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("OPENAI_API_KEY", "")
	chdir(t, t.TempDir())

	cfg, err := LoadGlobalConfig("")

	require.NoError(t, err)
	assert.Equal(t, NewDefaultGlobalConfig().DiffConfig, cfg.DiffConfig)
}

func TestLoadGlobalConfig_MissingExplicitFile(t *testing.T) {
	cfg, err := LoadGlobalConfig("/nonexistent/config.json")

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config file does not exist")
	assert.ErrorIs(t, err, errorwrapper.ErrInvalidInput)
}

func TestLoadGlobalConfig_JSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"log_config": {"log_level": "debug"},
		"diff_config": {"default_unit": "lines", "max_snippets": 4}
	}`)

	cfg, err := LoadGlobalConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogConfig.LogLevel)
	assert.Equal(t, "lines", cfg.DiffConfig.DefaultUnit)
	assert.Equal(t, 4, cfg.DiffConfig.MaxSnippets)
	// untouched fields and sections keep their defaults
	assert.Equal(t, DefaultDiffMaxSnippetLength, cfg.DiffConfig.MaxSnippetLength)
	assert.Equal(t, DefaultServerListen, cfg.ServerConfig.Listen)
}

func TestLoadGlobalConfig_YAML(t *testing.T) {
	t.Setenv("DOCDIFF_TEST_INSIGHTS_KEY", "sk-from-env")
	path := writeConfig(t, "config.yaml", `
server_config:
  listen: ":9090"
extractor_config:
  provider: remote
  base_url: https://extract.example.com
insights_config:
  enabled: true
  api_key: ${DOCDIFF_TEST_INSIGHTS_KEY}
  model: test-model
`)

	cfg, err := LoadGlobalConfig(path)

	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerConfig.Listen)
	assert.Equal(t, "remote", cfg.ExtractorConfig.Provider)
	assert.Equal(t, "https://extract.example.com", cfg.ExtractorConfig.BaseURL)
	assert.True(t, cfg.InsightsConfig.Enabled)
	assert.Equal(t, "sk-from-env", cfg.InsightsConfig.APIKey)
	assert.Equal(t, "test-model", cfg.InsightsConfig.Model)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfig_YMLExtension(t *testing.T) {
	path := writeConfig(t, "config.yml", "storage_config:\n  cache_enabled: true\n  cache_ttl_hours: 12\n")

	cfg, err := LoadGlobalConfig(path)

	require.NoError(t, err)
	assert.True(t, cfg.StorageConfig.CacheEnabled)
	assert.Equal(t, 12, cfg.StorageConfig.CacheTTLHours)
	assert.Equal(t, DefaultStorageSQLiteDBPath, cfg.StorageConfig.SQLiteDBPath)
}

func TestLoadGlobalConfig_Malformed(t *testing.T) {
	tests := []struct {
		name, file, content, want string
	}{
		{"json trailing comma", "bad.json", `{"log_config": {},}`, "failed to unmarshal JSON"},
		{"yaml bad indent", "bad.yaml", "server_config: test\n  invalid_indent: value\n", "failed to unmarshal YAML"},
		{"unknown extension read as json", "config.conf", "listen = 1", "failed to unmarshal JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadGlobalConfig(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadGlobalConfig_EnvPath(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, writeConfig(t, "from-env.yaml", "log_config:\n  log_format: json\n"))

	cfg, err := LoadGlobalConfig("")

	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogConfig.LogFormat)
}

func TestGetConfigPath_WorkingDirectory(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("{}"), 0o644))
	chdir(t, dir)

	assert.Equal(t, filepath.Join(dir, "config.yml"), GetConfigPath(""))
	assert.Equal(t, "", GetConfigPath(filepath.Join(dir, "missing.yaml")))
}

func TestReadConfigFile(t *testing.T) {
	path := writeConfig(t, "test.json", `{"test": "data"}`)

	data, err := readConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"test": "data"}`, string(data))

	_, err = readConfigFile(t.TempDir())
	assert.ErrorIs(t, err, errorwrapper.ErrInvalidInput)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
