package extractor

import (
	"context"

	"github.com/aleister1102/docdiff/internal/datastore"
	"github.com/aleister1102/docdiff/internal/models"
	"github.com/rs/zerolog"
)

// Cache persists extraction results by key.
type Cache interface {
	Get(ctx context.Context, key string) (*models.ExtractionResult, bool, error)
	Put(ctx context.Context, key string, result *models.ExtractionResult) error
}

// CachingExtractor reuses earlier extractions of identical documents. Cache
// failures are logged and never fail an extraction.
type CachingExtractor struct {
	inner  Extractor
	cache  Cache
	keys   *datastore.CacheKeyGenerator
	locks  *datastore.KeyMutexManager
	logger zerolog.Logger
}

// NewCachingExtractor wraps inner with cache
func NewCachingExtractor(inner Extractor, cache Cache, logger zerolog.Logger) *CachingExtractor {
	return &CachingExtractor{
		inner:  inner,
		cache:  cache,
		keys:   datastore.NewCacheKeyGenerator(),
		locks:  datastore.NewKeyMutexManager(logger),
		logger: logger.With().Str("component", "CachingExtractor").Logger(),
	}
}

// Extract serves doc from the cache when possible. Concurrent requests for the same
// document wait for the first extraction instead of repeating it.
func (ce *CachingExtractor) Extract(ctx context.Context, doc Document) (*models.ExtractionResult, error) {
	key := ce.keys.GenerateKey(doc.Data, doc.Schema)

	unlock := ce.locks.Lock(key)
	defer unlock()

	cached, ok, err := ce.cache.Get(ctx, key)
	if err != nil {
		ce.logger.Warn().Err(err).Str("name", doc.Name).Msg("Extraction cache lookup failed")
	} else if ok {
		ce.logger.Debug().Str("name", doc.Name).Str("key", key).Msg("Extraction cache hit")
		return cached, nil
	}

	result, err := ce.inner.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}

	if err := ce.cache.Put(ctx, key, result); err != nil {
		ce.logger.Warn().Err(err).Str("name", doc.Name).Msg("Failed to store extraction in cache")
	}
	return result, nil
}
