package extractor

import (
	"context"
	"fmt"

	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
	"github.com/aleister1102/docdiff/internal/models"
	"github.com/rs/zerolog"
)

// Router sends each document to the local or the remote extractor.
type Router struct {
	local       Extractor
	remote      Extractor
	analyzer    *ContentTypeAnalyzer
	preferLocal bool
	logger      zerolog.Logger
}

// NewRouter creates a router. remote may be nil, in which case only locally
// supported content types can be extracted.
func NewRouter(local, remote Extractor, preferLocal bool, logger zerolog.Logger) *Router {
	return &Router{
		local:       local,
		remote:      remote,
		analyzer:    NewContentTypeAnalyzer(logger),
		preferLocal: preferLocal,
		logger:      logger.With().Str("component", "ExtractorRouter").Logger(),
	}
}

// Extract resolves the media type of doc and dispatches it.
func (r *Router) Extract(ctx context.Context, doc Document) (*models.ExtractionResult, error) {
	doc.ContentType = r.analyzer.Detect(doc)
	isLocal := r.analyzer.IsLocal(doc.ContentType)

	target, name := r.route(doc, isLocal)
	if target == nil {
		return nil, fmt.Errorf("%w: %s (%s) needs a remote extraction provider", errorwrapper.ErrUnsupportedContent, doc.ContentType, doc.Name)
	}

	r.logger.Debug().
		Str("name", doc.Name).
		Str("content_type", doc.ContentType).
		Str("provider", name).
		Msg("Routing document")
	return target.Extract(ctx, doc)
}

func (r *Router) route(doc Document, isLocal bool) (Extractor, string) {
	switch {
	case r.remote == nil && isLocal:
		return r.local, ProviderLocal
	case r.remote == nil:
		return nil, ""
	case !isLocal:
		return r.remote, ProviderRemote
	case doc.Schema != "" && doc.ContentType != ContentTypeJSON:
		// only the remote provider can fill a schema from free text
		return r.remote, ProviderRemote
	case r.preferLocal:
		return r.local, ProviderLocal
	default:
		return r.remote, ProviderRemote
	}
}
