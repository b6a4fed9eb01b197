package differ

import (
	"time"

	"github.com/aleister1102/docdiff/internal/config"
	"github.com/aleister1102/docdiff/internal/models"
)

// DiffConfig holds configuration for content diffing
type DiffConfig struct {
	DefaultUnit       models.DiffUnit
	// Timeout bounds the diff search; once reached the result stays a valid
	// edit script but may be coarser than minimal. Zero means unbounded.
	Timeout           time.Duration
	MaxTextBytes      int
	MaxSnippets       int
	MaxSnippetLength  int
	IncludeStructured bool
}

// DefaultDiffConfig mirrors the defaults of the diff_config file section
func DefaultDiffConfig() DiffConfig {
	return DiffConfig{
		DefaultUnit:       models.DiffUnit(config.DefaultDiffUnit),
		Timeout:           time.Duration(config.DefaultDiffTimeoutMs) * time.Millisecond,
		MaxTextBytes:      config.DefaultDiffMaxTextSizeMB * 1024 * 1024,
		MaxSnippets:       config.DefaultDiffMaxSnippets,
		MaxSnippetLength:  config.DefaultDiffMaxSnippetLength,
		IncludeStructured: true,
	}
}
