// Package extractor turns uploaded documents into text and optional structured
// records, either locally or through a remote extraction service.
package extractor

import (
	"context"

	"github.com/aleister1102/docdiff/internal/models"
)

const (
	ProviderLocal  = "local"
	ProviderRemote = "remote"
)

// Document is one side of a comparison as uploaded by the client.
type Document struct {
	Name        string
	ContentType string
	Data        []byte
	// Schema is an optional JSON schema forwarded to the remote provider.
	Schema string
}

// Extractor yields the text and structured record of a document.
type Extractor interface {
	Extract(ctx context.Context, doc Document) (*models.ExtractionResult, error)
}
