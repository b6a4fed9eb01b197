package logger

import (
	"io"

	"github.com/aleister1102/docdiff/internal/config"
	"github.com/rs/zerolog"
)

// LogFormat selects the console and file encoding
type LogFormat string

const (
	FormatJSON    LogFormat = "json"
	FormatConsole LogFormat = "console"
	FormatText    LogFormat = "text"
)

// LoggerConfig is log_config resolved into writer settings. The console sink is
// always on; a non-empty FilePath adds a size-rotated file sink.
type LoggerConfig struct {
	Level      zerolog.Level
	Format     LogFormat
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	// Output replaces stderr as the console destination when set
	Output io.Writer
}

func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:      zerolog.InfoLevel,
		Format:     FormatConsole,
		MaxSizeMB:  config.DefaultMaxLogSizeMB,
		MaxBackups: config.DefaultMaxLogBackups,
	}
}
