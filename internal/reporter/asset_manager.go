package reporter

import (
	"embed"
	"fmt"

	"github.com/rs/zerolog"
)

// AssetManager reads embedded report assets
type AssetManager struct {
	logger zerolog.Logger
}

// NewAssetManager creates a new AssetManager
func NewAssetManager(logger zerolog.Logger) *AssetManager {
	return &AssetManager{
		logger: logger,
	}
}

// EmbedAssetContent returns the content of one embedded asset
func (am *AssetManager) EmbedAssetContent(efs embed.FS, assetPath string) (string, error) {
	data, err := efs.ReadFile(assetPath)
	if err != nil {
		am.logger.Error().Err(err).Str("asset", assetPath).Msg("Failed to read embedded asset")
		return "", fmt.Errorf("failed to read embedded asset '%s': %w", assetPath, err)
	}
	return string(data), nil
}
