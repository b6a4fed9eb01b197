package insights

import (
	"context"

	"github.com/aleister1102/docdiff/internal/config"
	"github.com/aleister1102/docdiff/internal/models"
	"github.com/rs/zerolog"
)

// Summarizer turns a digest into insights.
type Summarizer interface {
	Summarize(ctx context.Context, digest Digest) (*models.Insights, error)
	Enabled() bool
}

// NoopSummarizer is used when insights are not configured.
type NoopSummarizer struct{}

// Summarize always reports insights as disabled.
func (NoopSummarizer) Summarize(ctx context.Context, digest Digest) (*models.Insights, error) {
	return models.DisabledInsights(), nil
}

// Enabled is always false.
func (NoopSummarizer) Enabled() bool { return false }

// NewFromConfig returns the summarizer described by cfg.
func NewFromConfig(cfg config.InsightsConfig, logger zerolog.Logger) (Summarizer, error) {
	if !cfg.Enabled {
		logger.Info().Msg("Insights disabled")
		return NoopSummarizer{}, nil
	}
	return NewLLMSummarizer(cfg, logger)
}
