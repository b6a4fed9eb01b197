package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/docdiff/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultLogger(t *testing.T) {
	cfg := config.NewDefaultLogConfig()
	_, err := New(cfg)
	require.NoError(t, err)
}

func TestNew_InvalidLevel(t *testing.T) {
	cfg := config.NewDefaultLogConfig()
	cfg.LogLevel = "loud"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestLoggerBuilder_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.LogConfig{LogLevel: "debug", LogFormat: "json"}

	log, err := NewLoggerBuilder().WithConfig(cfg).WithOutput(&buf).Build()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, log.Config().Level)

	differLog := Component(*log.GetZerolog(), "differ")
	differLog.Debug().Str("unit", "words").Msg("comparison finished")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "differ", entry["component"])
	assert.Equal(t, "words", entry["unit"])
	assert.Equal(t, "comparison finished", entry["message"])
	assert.Equal(t, "debug", entry["level"])
}

func TestLoggerBuilder_FileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "docdiff.log")
	cfg := config.LogConfig{LogLevel: "info", LogFormat: "json", LogFile: logFile}

	log, err := NewLoggerBuilder().WithConfig(cfg).WithOutput(&bytes.Buffer{}).Build()
	require.NoError(t, err)
	assert.Equal(t, logFile, log.Config().FilePath)
	assert.Equal(t, config.DefaultMaxLogSizeMB, log.Config().MaxSizeMB)

	log.GetZerolog().Info().Msg("written to file")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestParseLevel(t *testing.T) {

	tests := []struct {
		input    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"WARN", zerolog.WarnLevel, false},
		{"", zerolog.InfoLevel, false},
		{"nonsense", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			assert.Equal(t, tt.expected, level)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat(" text "))
	assert.Equal(t, FormatConsole, ParseFormat("console"))
	assert.Equal(t, FormatConsole, ParseFormat("unknown"))
}
