package differ

import (
	"time"

	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
	"github.com/aleister1102/docdiff/internal/config"
	"github.com/aleister1102/docdiff/internal/models"
	"github.com/rs/zerolog"
)

// ContentDiffer generates differences between two extracted document versions
type ContentDiffer struct {
	processor        *DiffProcessor
	sizeValidator    *ContentSizeValidator
	statsCalculator  *DiffStatsCalculator
	excerptCollector *ExcerptCollector
	structuredDiffer *StructuredDiffer
	config           DiffConfig
	logger           zerolog.Logger
}

// ContentDifferBuilder provides a fluent interface for creating ContentDiffer
type ContentDifferBuilder struct {
	diffCfg DiffConfig
	logger  zerolog.Logger
}

// NewContentDifferBuilder creates a new builder
func NewContentDifferBuilder(logger zerolog.Logger) *ContentDifferBuilder {
	return &ContentDifferBuilder{
		diffCfg: DefaultDiffConfig(),
		logger:  logger.With().Str("component", "ContentDiffer").Logger(),
	}
}

// WithDiffConfig sets the diff configuration
func (b *ContentDifferBuilder) WithDiffConfig(cfg DiffConfig) *ContentDifferBuilder {
	b.diffCfg = cfg
	return b
}

// WithGlobalDiffConfig converts the file-level diff section into a DiffConfig
func (b *ContentDifferBuilder) WithGlobalDiffConfig(cfg *config.DiffConfig) *ContentDifferBuilder {
	if cfg == nil {
		return b
	}
	unit, err := models.ParseDiffUnit(cfg.DefaultUnit, models.UnitWords)
	if err != nil {
		// left invalid so Build reports it
		unit = models.DiffUnit(cfg.DefaultUnit)
	}
	b.diffCfg = DiffConfig{
		DefaultUnit:       unit,
		Timeout:           time.Duration(cfg.TimeoutMs) * time.Millisecond,
		MaxTextBytes:      cfg.MaxTextSizeMB * 1024 * 1024,
		MaxSnippets:       cfg.MaxSnippets,
		MaxSnippetLength:  cfg.MaxSnippetLength,
		IncludeStructured: cfg.IncludeStructured,
	}
	return b
}

// Build creates a new ContentDiffer instance
func (b *ContentDifferBuilder) Build() (*ContentDiffer, error) {
	if b.diffCfg.DefaultUnit != models.UnitWords && b.diffCfg.DefaultUnit != models.UnitLines {
		return nil, errorwrapper.NewValidationError("default_unit", b.diffCfg.DefaultUnit, "default unit must be words or lines")
	}
	if b.diffCfg.MaxSnippets < 0 || b.diffCfg.MaxSnippetLength < 0 {
		return nil, errorwrapper.NewValidationError("max_snippets", b.diffCfg.MaxSnippets, "excerpt bounds cannot be negative")
	}

	return &ContentDiffer{
		processor:        NewDiffProcessor(b.diffCfg),
		sizeValidator:    NewContentSizeValidator(b.diffCfg.MaxTextBytes),
		statsCalculator:  NewDiffStatsCalculator(),
		excerptCollector: NewExcerptCollector(),
		structuredDiffer: NewStructuredDiffer(),
		config:           b.diffCfg,
		logger:           b.logger,
	}, nil
}

// NewContentDiffer creates a new instance of ContentDiffer
func NewContentDiffer(logger zerolog.Logger, cfg DiffConfig) (*ContentDiffer, error) {
	return NewContentDifferBuilder(logger).
		WithDiffConfig(cfg).
		Build()
}

// DefaultUnit returns the unit used when a request does not name one.
func (cd *ContentDiffer) DefaultUnit() models.DiffUnit {
	return cd.config.DefaultUnit
}

// Compare runs the full core pipeline over two extraction results. Nil results
// are treated as empty documents.
func (cd *ContentDiffer) Compare(left, right *models.ExtractionResult, unit models.DiffUnit) (*models.ContentDiffResult, error) {
	startTime := time.Now()

	if unit == "" {
		unit = cd.config.DefaultUnit
	}
	if unit != models.UnitWords && unit != models.UnitLines {
		return nil, errorwrapper.NewValidationError("unit", unit, "unit must be words or lines")
	}

	leftText, rightText := textOf(left), textOf(right)
	if err := cd.sizeValidator.ValidateSize(leftText, rightText); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to validate diff inputs")
	}

	segments := cd.processor.ProcessDiff(leftText, rightText, unit)

	result := NewContentDiffResultBuilder().
		WithSegments(segments, cd.statsCalculator.CalculateStats(segments, unit)).
		WithExcerpts(cd.excerptCollector.Collect(segments, cd.config.MaxSnippets, cd.config.MaxSnippetLength)).
		WithStructuredDiff(cd.diffStructured(left, right)).
		WithProcessingTime(time.Since(startTime)).
		Build()

	cd.logger.Debug().
		Str("unit", string(unit)).
		Int("segments", result.Summary.TotalParts).
		Int("additions", result.Summary.Additions).
		Int("removals", result.Summary.Removals).
		Int("structured_changes", len(result.StructuredDiff)).
		Int64("processing_time_ms", result.ProcessingTimeMs).
		Msg("Comparison computed")

	return result, nil
}

// diffStructured skips the tree diff unless both sides carry a structured record.
func (cd *ContentDiffer) diffStructured(left, right *models.ExtractionResult) []models.StructuredChange {
	if !cd.config.IncludeStructured || !left.HasStructuredOutput() || !right.HasStructuredOutput() {
		return []models.StructuredChange{}
	}
	return cd.structuredDiffer.Diff(left.StructuredOutput, right.StructuredOutput)
}

func textOf(r *models.ExtractionResult) string {
	if r == nil {
		return ""
	}
	return r.Text
}
