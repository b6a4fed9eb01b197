package main

import (
	"fmt"

	"github.com/aleister1102/docdiff/internal/comparison"
	"github.com/aleister1102/docdiff/internal/config"
	"github.com/aleister1102/docdiff/internal/datastore"
	"github.com/aleister1102/docdiff/internal/differ"
	"github.com/aleister1102/docdiff/internal/extractor"
	"github.com/aleister1102/docdiff/internal/insights"
	"github.com/aleister1102/docdiff/internal/logger"
	"github.com/aleister1102/docdiff/internal/rslimiter"
	"github.com/rs/zerolog"
)

// application holds everything built from the global configuration
type application struct {
	cfg     *config.GlobalConfig
	logger  zerolog.Logger
	service *comparison.Service
	limiter *rslimiter.ResourceLimiter
	cache   *datastore.ExtractionCache
}

func newApplication(configPath string) (*application, error) {
	gCfg, err := config.LoadGlobalConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not load global config using path '%s': %w", configPath, err)
	}
	if err := config.ValidateConfig(gCfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		return nil, fmt.Errorf("could not initialize logger: %w", err)
	}

	app := &application{cfg: gCfg, logger: zLogger}

	// extractor.Cache must stay an untyped nil when caching is off
	var cache extractor.Cache
	if gCfg.StorageConfig.CacheEnabled {
		app.cache, err = datastore.NewExtractionCache(gCfg.StorageConfig, zLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to open extraction cache: %w", err)
		}
		cache = app.cache
	}

	ext, err := extractor.NewFromConfig(gCfg.ExtractorConfig, cache, zLogger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize extractor: %w", err)
	}

	contentDiffer, err := differ.NewContentDifferBuilder(zLogger).
		WithGlobalDiffConfig(&gCfg.DiffConfig).
		Build()
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize content differ: %w", err)
	}

	summarizer, err := insights.NewFromConfig(gCfg.InsightsConfig, zLogger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize insights: %w", err)
	}

	app.limiter = rslimiter.NewResourceLimiter(gCfg.ResourceLimiterConfig, zLogger)

	app.service, err = comparison.NewServiceBuilder(zLogger).
		WithExtractor(ext).
		WithDiffer(contentDiffer).
		WithSummarizer(summarizer).
		WithLimiter(app.limiter).
		WithDigestLimits(insights.DigestLimits{
			MaxSnippets:          gCfg.InsightsConfig.MaxSnippets,
			MaxSnippetLength:     gCfg.InsightsConfig.MaxSnippetLength,
			StructuredSampleSize: gCfg.DiffConfig.StructuredDiffSampleSize,
		}).
		Build()
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize comparison service: %w", err)
	}

	return app, nil
}

// Close releases the cache and stops the resource limiter
func (a *application) Close() {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to close extraction cache")
		}
	}
}
