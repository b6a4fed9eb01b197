// Package insights produces a short natural-language account of a comparison from
// a bounded digest of its changes.
package insights

import (
	"github.com/aleister1102/docdiff/internal/models"
)

// DigestMeta describes the compared documents and the overall change volume.
type DigestMeta struct {
	LeftName   string          `json:"leftName,omitempty"`
	RightName  string          `json:"rightName,omitempty"`
	Unit       models.DiffUnit `json:"unit"`
	Additions  int             `json:"additions"`
	Removals   int             `json:"removals"`
	TotalParts int             `json:"totalParts"`
}

// DigestLimits bounds how much of a comparison reaches the summarizer.
type DigestLimits struct {
	MaxSnippets          int
	MaxSnippetLength     int
	StructuredSampleSize int
}

// Digest is the bounded view of a comparison sent to the summarizer.
type Digest struct {
	Meta                 DigestMeta                `json:"meta"`
	Excerpts             models.Excerpts           `json:"excerpts"`
	StructuredDiffSample []models.StructuredChange `json:"structuredDiffSample"`
	StructuredDiffTotal  int                       `json:"structuredDiffTotal"`
}

// HasChanges reports whether the digest describes any difference at all.
func (d Digest) HasChanges() bool {
	return d.Meta.Additions > 0 || d.Meta.Removals > 0 || d.StructuredDiffTotal > 0
}

// BuildDigest combines the summary, excerpts and structured changes of one
// comparison into a digest within limits. A non-positive limit leaves that part
// unbounded.
func BuildDigest(summary models.ComparisonSummary, excerpts models.Excerpts, changes []models.StructuredChange, meta DigestMeta, limits DigestLimits) Digest {
	meta.Unit = summary.Unit
	meta.Additions = summary.Additions
	meta.Removals = summary.Removals
	meta.TotalParts = summary.TotalParts

	sample := changes
	if limits.StructuredSampleSize > 0 && len(sample) > limits.StructuredSampleSize {
		sample = sample[:limits.StructuredSampleSize]
	}
	if sample == nil {
		sample = []models.StructuredChange{}
	}

	return Digest{
		Meta: meta,
		Excerpts: models.Excerpts{
			Added:   boundSnippets(excerpts.Added, limits),
			Removed: boundSnippets(excerpts.Removed, limits),
		},
		StructuredDiffSample: sample,
		StructuredDiffTotal:  len(changes),
	}
}

func boundSnippets(snippets []string, limits DigestLimits) []string {
	if limits.MaxSnippets > 0 && len(snippets) > limits.MaxSnippets {
		snippets = snippets[:limits.MaxSnippets]
	}
	out := make([]string, 0, len(snippets))
	for _, s := range snippets {
		if runes := []rune(s); limits.MaxSnippetLength > 0 && len(runes) > limits.MaxSnippetLength {
			s = string(runes[:limits.MaxSnippetLength]) + "…"
		}
		out = append(out, s)
	}
	return out
}
