package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, DefaultServerListen, cfg.ServerConfig.Listen)
	assert.Equal(t, "words", cfg.DiffConfig.DefaultUnit)
	assert.True(t, cfg.DiffConfig.IncludeStructured)
	assert.Equal(t, "local", cfg.ExtractorConfig.Provider)
	assert.NotEmpty(t, cfg.ExtractorConfig.TextFields)
	assert.False(t, cfg.InsightsConfig.Enabled)
	assert.False(t, cfg.StorageConfig.CacheEnabled)
	assert.True(t, cfg.ResourceLimiterConfig.Enabled)
	assert.Equal(t, "info", cfg.LogConfig.LogLevel)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestExpandSecrets(t *testing.T) {
	t.Setenv("DOCDIFF_TEST_SECRET", "s3cret")
	t.Setenv("OPENAI_API_KEY", "sk-fallback")
	t.Setenv("DOCDIFF_EXTRACTOR_API_KEY", "")

	cfg := NewDefaultGlobalConfig()
	cfg.ExtractorConfig.APIKey = "${DOCDIFF_TEST_SECRET}"
	cfg.expandSecrets()

	assert.Equal(t, "s3cret", cfg.ExtractorConfig.APIKey)
	assert.Equal(t, "sk-fallback", cfg.InsightsConfig.APIKey, "empty key falls back to OPENAI_API_KEY")

	cfg = NewDefaultGlobalConfig()
	cfg.InsightsConfig.APIKey = "literal-key"
	cfg.expandSecrets()
	assert.Equal(t, "literal-key", cfg.InsightsConfig.APIKey)
	assert.Empty(t, cfg.ExtractorConfig.APIKey)
}

func TestExpandEnvReference(t *testing.T) {
	t.Setenv("DOCDIFF_TEST_SECRET", "s3cret")

	tests := map[string]string{
		"${DOCDIFF_TEST_SECRET}":         "s3cret",
		"plain-key":                      "plain-key",
		"prefix-${DOCDIFF_TEST_SECRET}":  "prefix-${DOCDIFF_TEST_SECRET}",
		"${DOCDIFF_TEST_UNSET_VARIABLE}": "",
	}
	for in, want := range tests {
		assert.Equal(t, want, expandEnvReference(in), in)
	}
}
