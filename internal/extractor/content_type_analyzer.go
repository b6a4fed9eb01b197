package extractor

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const (
	ContentTypeText     = "text/plain"
	ContentTypeMarkdown = "text/markdown"
	ContentTypeHTML     = "text/html"
	ContentTypeXHTML    = "application/xhtml+xml"
	ContentTypeJSON     = "application/json"
	ContentTypeOctet    = "application/octet-stream"
)

var extensionContentTypes = map[string]string{
	".txt":      ContentTypeText,
	".text":     ContentTypeText,
	".log":      ContentTypeText,
	".csv":      ContentTypeText,
	".md":       ContentTypeMarkdown,
	".markdown": ContentTypeMarkdown,
	".htm":      ContentTypeHTML,
	".html":     ContentTypeHTML,
	".xhtml":    ContentTypeXHTML,
	".json":     ContentTypeJSON,
	".pdf":      "application/pdf",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".png":      "image/png",
	".jpg":      "image/jpeg",
	".jpeg":     "image/jpeg",
}

var localContentTypes = map[string]bool{
	ContentTypeText:     true,
	ContentTypeMarkdown: true,
	"text/x-markdown":   true,
	ContentTypeHTML:     true,
	ContentTypeXHTML:    true,
	ContentTypeJSON:     true,
}

// ContentTypeAnalyzer determines the media type of a document
type ContentTypeAnalyzer struct {
	logger zerolog.Logger
}

// NewContentTypeAnalyzer creates a new content type analyzer
func NewContentTypeAnalyzer(logger zerolog.Logger) *ContentTypeAnalyzer {
	return &ContentTypeAnalyzer{
		logger: logger.With().Str("component", "ContentTypeAnalyzer").Logger(),
	}
}

// Detect returns the bare media type of doc. A declared type wins unless it is
// missing or generic; then the file extension, then content sniffing decide.
func (cta *ContentTypeAnalyzer) Detect(doc Document) string {
	if mediaType := parseMediaType(doc.ContentType); mediaType != "" && mediaType != ContentTypeOctet {
		return mediaType
	}

	ext := strings.ToLower(filepath.Ext(doc.Name))
	if mediaType, ok := extensionContentTypes[ext]; ok {
		return mediaType
	}
	if mediaType := parseMediaType(mime.TypeByExtension(ext)); mediaType != "" {
		return mediaType
	}

	sniffed := parseMediaType(http.DetectContentType(doc.Data))

	cta.logger.Debug().
		Str("name", doc.Name).
		Str("declared", doc.ContentType).
		Str("sniffed", sniffed).
		Msg("Content type sniffed from data")

	return sniffed
}

// IsLocal reports whether the local extractor understands mediaType.
func (cta *ContentTypeAnalyzer) IsLocal(mediaType string) bool {
	return localContentTypes[mediaType]
}

func parseMediaType(contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}
