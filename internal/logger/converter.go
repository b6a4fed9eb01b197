package logger

import (
	"strings"

	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
	"github.com/aleister1102/docdiff/internal/config"
	"github.com/rs/zerolog"
)

// ConfigConverter turns the log_config section into a LoggerConfig
type ConfigConverter struct{}

// NewConfigConverter creates a new config converter
func NewConfigConverter() *ConfigConverter {
	return &ConfigConverter{}
}

// ConvertConfig converts application config to logger config.
// The error reports an unparseable level; the returned config falls back to info.
func (cc *ConfigConverter) ConvertConfig(cfg config.LogConfig) (LoggerConfig, error) {
	level, err := ParseLevel(cfg.LogLevel)

	return LoggerConfig{
		Level:      level,
		Format:     ParseFormat(cfg.LogFormat),
		FilePath:   cfg.LogFile,
		MaxSizeMB:  positiveOr(cfg.MaxLogSizeMB, config.DefaultMaxLogSizeMB),
		MaxBackups: positiveOr(cfg.MaxLogBackups, config.DefaultMaxLogBackups),
	}, err
}

// ParseLevel maps a level name to zerolog.Level. Blank means info.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel, errorwrapper.WrapError(err, "invalid log level")
	}
	return level, nil
}

// ParseFormat maps a format name to LogFormat; unknown names get the console writer.
func ParseFormat(name string) LogFormat {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatConsole
	}
}

func positiveOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
