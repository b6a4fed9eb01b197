package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
	"github.com/aleister1102/docdiff/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// elements whose content never reaches the extracted text
const strippedSelector = "head, script, style, noscript, template, svg, iframe"

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "tr": true, "ul": true, "caption": true, "thead": true, "tbody": true,
}

// LocalExtractor handles text-like formats without a remote service.
type LocalExtractor struct {
	analyzer *ContentTypeAnalyzer
	logger   zerolog.Logger
}

// NewLocalExtractor creates a new local extractor
func NewLocalExtractor(logger zerolog.Logger) *LocalExtractor {
	return &LocalExtractor{
		analyzer: NewContentTypeAnalyzer(logger),
		logger:   logger.With().Str("component", "LocalExtractor").Logger(),
	}
}

// Extract converts plain text, markdown, HTML and JSON documents. Any other media
// type is rejected with ErrUnsupportedContent.
func (le *LocalExtractor) Extract(ctx context.Context, doc Document) (*models.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mediaType := le.analyzer.Detect(doc)
	data := bytes.TrimPrefix(doc.Data, utf8BOM)

	var result *models.ExtractionResult
	var err error
	switch mediaType {
	case ContentTypeText, ContentTypeMarkdown, "text/x-markdown":
		result = &models.ExtractionResult{Text: toValidUTF8(data)}
	case ContentTypeHTML, ContentTypeXHTML:
		result, err = le.extractHTML(data)
	case ContentTypeJSON:
		result, err = le.extractJSON(doc.Name, data)
	default:
		return nil, fmt.Errorf("%w: %s (%s)", errorwrapper.ErrUnsupportedContent, mediaType, doc.Name)
	}
	if err != nil {
		return nil, err
	}

	result.Provider = ProviderLocal
	le.logger.Debug().
		Str("name", doc.Name).
		Str("content_type", mediaType).
		Int("text_bytes", len(result.Text)).
		Bool("structured", result.HasStructuredOutput()).
		Msg("Document extracted locally")
	return result, nil
}

func (le *LocalExtractor) extractHTML(data []byte) (*models.ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to parse HTML document")
	}
	doc.Find(strippedSelector).Remove()

	var b strings.Builder
	for _, node := range doc.Selection.Nodes {
		writeNodeText(&b, node)
	}
	return &models.ExtractionResult{Text: tidyLines(b.String())}, nil
}

func writeNodeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		// source line breaks inside text are layout, not structure
		b.WriteString(strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return ' '
			}
			return r
		}, n.Data))
		return
	case html.CommentNode:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNodeText(b, c)
	}
	if block {
		b.WriteByte('\n')
	} else if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
		b.WriteByte('\t')
	}
}

// tidyLines collapses whitespace inside each line and drops blank lines.
func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if cleaned := strings.Join(strings.Fields(line), " "); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

func (le *LocalExtractor) extractJSON(name string, data []byte) (*models.ExtractionResult, error) {
	var structured any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&structured); err != nil {
		return nil, errorwrapper.NewValidationError("document", name, fmt.Sprintf("invalid JSON: %v", err))
	}
	if decoder.More() {
		return nil, errorwrapper.NewValidationError("document", name, "invalid JSON: trailing data after top-level value")
	}

	pretty, err := json.MarshalIndent(structured, "", "  ")
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to format JSON document")
	}
	return &models.ExtractionResult{
		Text:             string(pretty) + "\n",
		StructuredOutput: structured,
	}, nil
}

func toValidUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "�")
}
