// Package comparison runs one end-to-end document comparison: admission,
// concurrent extraction of both sides, the diff core, rendering and insights.
package comparison

import (
	"context"
	"time"

	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
	"github.com/aleister1102/docdiff/internal/differ"
	"github.com/aleister1102/docdiff/internal/extractor"
	"github.com/aleister1102/docdiff/internal/insights"
	"github.com/aleister1102/docdiff/internal/models"
	"github.com/aleister1102/docdiff/internal/reporter"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Admitter decides whether a new comparison may start.
type Admitter interface {
	Admit() error
}

// Request compares two uploaded documents.
type Request struct {
	Left     extractor.Document
	Right    extractor.Document
	Unit     models.DiffUnit
	Insights bool
}

// TextRequest compares two already extracted documents.
type TextRequest struct {
	Left      models.ExtractionResult
	Right     models.ExtractionResult
	LeftName  string
	RightName string
	Unit      models.DiffUnit
	Insights  bool
}

// Service orchestrates comparisons
type Service struct {
	extractor    extractor.Extractor
	differ       *differ.ContentDiffer
	summarizer   insights.Summarizer
	limiter      Admitter
	inline       *reporter.InlineRenderer
	sideBySide   *reporter.SideBySideRenderer
	digestLimits insights.DigestLimits
	logger       zerolog.Logger
}

// ServiceBuilder provides a fluent interface for creating Service
type ServiceBuilder struct {
	extractor    extractor.Extractor
	differ       *differ.ContentDiffer
	summarizer   insights.Summarizer
	limiter      Admitter
	digestLimits insights.DigestLimits
	logger       zerolog.Logger
}

// NewServiceBuilder creates a new builder
func NewServiceBuilder(logger zerolog.Logger) *ServiceBuilder {
	return &ServiceBuilder{
		logger: logger.With().Str("component", "ComparisonService").Logger(),
	}
}

// WithExtractor sets the extraction collaborator
func (b *ServiceBuilder) WithExtractor(ext extractor.Extractor) *ServiceBuilder {
	b.extractor = ext
	return b
}

// WithDiffer sets the diff core
func (b *ServiceBuilder) WithDiffer(cd *differ.ContentDiffer) *ServiceBuilder {
	b.differ = cd
	return b
}

// WithSummarizer sets the insights collaborator
func (b *ServiceBuilder) WithSummarizer(s insights.Summarizer) *ServiceBuilder {
	b.summarizer = s
	return b
}

// WithLimiter sets the admission check
func (b *ServiceBuilder) WithLimiter(l Admitter) *ServiceBuilder {
	b.limiter = l
	return b
}

// WithDigestLimits bounds what reaches the summarizer
func (b *ServiceBuilder) WithDigestLimits(limits insights.DigestLimits) *ServiceBuilder {
	b.digestLimits = limits
	return b
}

// Build creates a new Service instance
func (b *ServiceBuilder) Build() (*Service, error) {
	if b.differ == nil {
		return nil, errorwrapper.NewValidationError("differ", nil, "content differ is required")
	}

	summarizer := b.summarizer
	if summarizer == nil {
		summarizer = insights.NoopSummarizer{}
	}

	return &Service{
		extractor:    b.extractor,
		differ:       b.differ,
		summarizer:   summarizer,
		limiter:      b.limiter,
		inline:       reporter.NewInlineRenderer(),
		sideBySide:   reporter.NewSideBySideRenderer(),
		digestLimits: b.digestLimits,
		logger:       b.logger,
	}, nil
}

// Compare extracts both documents concurrently and compares the results.
func (s *Service) Compare(ctx context.Context, req Request) (*models.ComparisonResult, error) {
	startTime := time.Now()

	if s.extractor == nil {
		return nil, errorwrapper.WrapError(errorwrapper.ErrServiceUnavailable, "no extractor configured")
	}
	if err := s.admit(); err != nil {
		return nil, err
	}
	unit, err := s.parseUnit(req.Unit)
	if err != nil {
		return nil, err
	}

	var left, right *models.ExtractionResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.extractor.Extract(gctx, req.Left)
		if err != nil {
			return errorwrapper.WrapError(err, "failed to extract left document")
		}
		left = res
		return nil
	})
	g.Go(func() error {
		res, err := s.extractor.Extract(gctx, req.Right)
		if err != nil {
			return errorwrapper.WrapError(err, "failed to extract right document")
		}
		right = res
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn().Err(err).Str("left", req.Left.Name).Str("right", req.Right.Name).Msg("Extraction failed")
		return nil, err
	}

	return s.compare(ctx, left, right, req.Left.Name, req.Right.Name, unit, req.Insights, startTime)
}

// CompareText runs the comparison on already extracted input.
func (s *Service) CompareText(ctx context.Context, req TextRequest) (*models.ComparisonResult, error) {
	startTime := time.Now()

	if err := s.admit(); err != nil {
		return nil, err
	}
	unit, err := s.parseUnit(req.Unit)
	if err != nil {
		return nil, err
	}

	return s.compare(ctx, &req.Left, &req.Right, req.LeftName, req.RightName, unit, req.Insights, startTime)
}

func (s *Service) parseUnit(requested models.DiffUnit) (models.DiffUnit, error) {
	unit, err := models.ParseDiffUnit(string(requested), s.differ.DefaultUnit())
	if err != nil {
		return "", errorwrapper.NewValidationError("unit", requested, err.Error())
	}
	return unit, nil
}

func (s *Service) admit() error {
	if s.limiter == nil {
		return nil
	}
	if err := s.limiter.Admit(); err != nil {
		s.logger.Warn().Err(err).Msg("Comparison refused by resource limiter")
		return err
	}
	return nil
}

func (s *Service) compare(ctx context.Context, left, right *models.ExtractionResult, leftName, rightName string, unit models.DiffUnit, wantInsights bool, startTime time.Time) (*models.ComparisonResult, error) {
	if left == nil {
		left = &models.ExtractionResult{}
	}
	if right == nil {
		right = &models.ExtractionResult{}
	}

	diff, err := s.differ.Compare(left, right, unit)
	if err != nil {
		return nil, err
	}

	result := &models.ComparisonResult{
		ID:             uuid.NewString(),
		Summary:        diff.Summary,
		InlineHTML:     s.inline.Render(diff.Segments, unit),
		SideBySideHTML: s.sideBySide.Render(diff.Segments, unit),
		Extracted: models.ExtractedPair{
			Left:  left.Text,
			Right: right.Text,
		},
		StructuredOutput: models.StructuredPair{
			Left:  left.StructuredOutput,
			Right: right.StructuredOutput,
		},
		StructuredDiff: diff.StructuredDiff,
		Excerpts:       diff.Excerpts,
		Segments:       diff.Segments,
	}

	result.Insights = s.summarize(ctx, diff, leftName, rightName, wantInsights)
	result.ProcessingTimeMs = time.Since(startTime).Milliseconds()

	s.logger.Info().
		Str("comparison_id", result.ID).
		Str("unit", string(unit)).
		Int("additions", result.Summary.Additions).
		Int("removals", result.Summary.Removals).
		Int("structured_changes", len(result.StructuredDiff)).
		Int64("processing_time_ms", result.ProcessingTimeMs).
		Msg("Comparison completed")

	return result, nil
}

// summarize never fails the comparison; summarizer errors are reported inside
// the insights block.
func (s *Service) summarize(ctx context.Context, diff *models.ContentDiffResult, leftName, rightName string, want bool) *models.Insights {
	if !want || !s.summarizer.Enabled() {
		return models.DisabledInsights()
	}

	digest := insights.BuildDigest(diff.Summary, diff.Excerpts, diff.StructuredDiff,
		insights.DigestMeta{LeftName: leftName, RightName: rightName}, s.digestLimits)

	out, err := s.summarizer.Summarize(ctx, digest)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Summarizer failed")
		return models.FailedInsights(err)
	}
	if out == nil {
		return models.DisabledInsights()
	}
	return out
}
