package extractor

import (
	"github.com/aleister1102/docdiff/internal/config"
	"github.com/rs/zerolog"
)

// NewFromConfig assembles the extractor chain described by cfg. cache may be nil.
func NewFromConfig(cfg config.ExtractorConfig, cache Cache, logger zerolog.Logger) (Extractor, error) {
	var remote Extractor
	if cfg.Provider == ProviderRemote {
		re, err := NewRemoteExtractorFromConfig(cfg, logger)
		if err != nil {
			return nil, err
		}
		remote = re
	}

	var chain Extractor = NewRouter(NewLocalExtractor(logger), remote, cfg.PreferLocal, logger)
	if cache != nil {
		chain = NewCachingExtractor(chain, cache, logger)
	}

	logger.Info().
		Str("provider", cfg.Provider).
		Bool("prefer_local", cfg.PreferLocal).
		Bool("cache", cache != nil).
		Msg("Extractor initialized")
	return chain, nil
}
