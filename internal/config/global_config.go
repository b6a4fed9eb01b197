package config

import (
	"os"
	"regexp"
)

// GlobalConfig is the whole docdiff configuration file. Every section is
// optional; missing sections and fields keep their defaults.
type GlobalConfig struct {
	ServerConfig          ServerConfig          `json:"server_config,omitempty" yaml:"server_config,omitempty"`
	DiffConfig            DiffConfig            `json:"diff_config,omitempty" yaml:"diff_config,omitempty"`
	ExtractorConfig       ExtractorConfig       `json:"extractor_config,omitempty" yaml:"extractor_config,omitempty"`
	InsightsConfig        InsightsConfig        `json:"insights_config,omitempty" yaml:"insights_config,omitempty"`
	StorageConfig         StorageConfig         `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
	ResourceLimiterConfig ResourceLimiterConfig `json:"resource_limiter_config,omitempty" yaml:"resource_limiter_config,omitempty"`
	LogConfig             LogConfig             `json:"log_config,omitempty" yaml:"log_config,omitempty"`
}

func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		ServerConfig:          NewDefaultServerConfig(),
		DiffConfig:            NewDefaultDiffConfig(),
		ExtractorConfig:       NewDefaultExtractorConfig(),
		InsightsConfig:        NewDefaultInsightsConfig(),
		StorageConfig:         NewDefaultStorageConfig(),
		ResourceLimiterConfig: NewDefaultResourceLimiterConfig(),
		LogConfig:             NewDefaultLogConfig(),
	}
}

var envReference = regexp.MustCompile(`^\$\{([A-Za-z_][A-Za-z0-9_]*)\}$`)

// credentials lists the secret fields together with the environment variable
// consulted when the field is left empty.
func (c *GlobalConfig) credentials() map[*string]string {
	return map[*string]string{
		&c.ExtractorConfig.APIKey: "DOCDIFF_EXTRACTOR_API_KEY",
		&c.InsightsConfig.APIKey:  "OPENAI_API_KEY",
	}
}

// expandSecrets resolves ${NAME} references in credential fields, then fills
// empty ones from their fallback variables.
func (c *GlobalConfig) expandSecrets() {
	for field, fallback := range c.credentials() {
		*field = expandEnvReference(*field)
		if *field == "" {
			*field = os.Getenv(fallback)
		}
	}
}

func expandEnvReference(value string) string {
	if match := envReference.FindStringSubmatch(value); match != nil {
		return os.Getenv(match[1])
	}
	return value
}
