package datastore

import (
	"crypto/sha256"
	"encoding/hex"
)

// CacheKeyGenerator derives cache keys from document bytes and the extraction schema.
type CacheKeyGenerator struct{}

// NewCacheKeyGenerator creates a new cache key generator
func NewCacheKeyGenerator() *CacheKeyGenerator {
	return &CacheKeyGenerator{}
}

// GenerateKey returns the hex SHA-256 of data followed by a NUL separator and schema.
func (g *CacheKeyGenerator) GenerateKey(data []byte, schema string) string {
	hasher := sha256.New()
	hasher.Write(data)
	hasher.Write([]byte{0})
	hasher.Write([]byte(schema))
	return hex.EncodeToString(hasher.Sum(nil))
}
