package differ

import (
	"strings"

	"github.com/aleister1102/docdiff/internal/models"
)

const (
	minSnippetRunes = 4
	ellipsis        = "…"
)

// ExcerptCollector samples inserted and removed text for the insight summarizer.
type ExcerptCollector struct{}

// NewExcerptCollector creates a new excerpt collector
func NewExcerptCollector() *ExcerptCollector {
	return &ExcerptCollector{}
}

// Collect routes inserted segments to Added and removed segments to Removed, in
// document order. Each bucket holds at most maxSnippets cleaned snippets of at most
// maxLen runes (plus an ellipsis when truncated), deduplicated case-insensitively.
func (ec *ExcerptCollector) Collect(segments []models.EditSegment, maxSnippets, maxLen int) models.Excerpts {
	excerpts := models.Excerpts{
		Added:   []string{},
		Removed: []string{},
	}
	if maxSnippets <= 0 {
		return excerpts
	}

	added := newSnippetBucket(maxSnippets)
	removed := newSnippetBucket(maxSnippets)

	for _, seg := range segments {
		if added.full() && removed.full() {
			break
		}

		var bucket *snippetBucket
		switch seg.Kind {
		case models.SegmentInserted:
			bucket = added
		case models.SegmentRemoved:
			bucket = removed
		default:
			continue
		}
		if bucket.full() {
			continue
		}

		snippet, ok := cleanSnippet(seg.Value, maxLen)
		if !ok {
			continue
		}
		bucket.add(snippet)
	}

	excerpts.Added = added.items
	excerpts.Removed = removed.items
	return excerpts
}

// cleanSnippet collapses whitespace runs, trims, drops short candidates and
// truncates to maxLen runes.
func cleanSnippet(value string, maxLen int) (string, bool) {
	cleaned := strings.Join(strings.Fields(value), " ")
	runes := []rune(cleaned)
	if len(runes) < minSnippetRunes {
		return "", false
	}
	if maxLen > 0 && len(runes) > maxLen {
		cleaned = string(runes[:maxLen]) + ellipsis
	}
	return cleaned, true
}

type snippetBucket struct {
	limit int
	seen  map[string]struct{}
	items []string
}

func newSnippetBucket(limit int) *snippetBucket {
	return &snippetBucket{
		limit: limit,
		seen:  make(map[string]struct{}, limit),
		items: make([]string, 0, limit),
	}
}

func (b *snippetBucket) full() bool {
	return len(b.items) >= b.limit
}

func (b *snippetBucket) add(snippet string) {
	key := strings.ToLower(snippet)
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	b.items = append(b.items, snippet)
}
