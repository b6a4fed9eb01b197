package differ

import (
	"time"

	"github.com/aleister1102/docdiff/internal/models"
)

// ContentDiffResultBuilder builds ContentDiffResult objects
type ContentDiffResultBuilder struct {
	result models.ContentDiffResult
}

// NewContentDiffResultBuilder creates a new result builder
func NewContentDiffResultBuilder() *ContentDiffResultBuilder {
	return &ContentDiffResultBuilder{
		result: models.ContentDiffResult{
			Segments:       []models.EditSegment{},
			Excerpts:       models.Excerpts{Added: []string{}, Removed: []string{}},
			StructuredDiff: []models.StructuredChange{},
		},
	}
}

// WithSegments sets the edit script and its summary
func (rb *ContentDiffResultBuilder) WithSegments(segments []models.EditSegment, summary models.ComparisonSummary) *ContentDiffResultBuilder {
	if segments != nil {
		rb.result.Segments = segments
	}
	rb.result.Summary = summary
	return rb
}

// WithExcerpts sets the sampled change excerpts
func (rb *ContentDiffResultBuilder) WithExcerpts(excerpts models.Excerpts) *ContentDiffResultBuilder {
	rb.result.Excerpts = excerpts
	return rb
}

// WithStructuredDiff sets the structured change list
func (rb *ContentDiffResultBuilder) WithStructuredDiff(changes []models.StructuredChange) *ContentDiffResultBuilder {
	if changes != nil {
		rb.result.StructuredDiff = changes
	}
	return rb
}

// WithProcessingTime sets the processing time
func (rb *ContentDiffResultBuilder) WithProcessingTime(duration time.Duration) *ContentDiffResultBuilder {
	rb.result.ProcessingTimeMs = duration.Milliseconds()
	return rb
}

// Build creates the final ContentDiffResult
func (rb *ContentDiffResultBuilder) Build() *models.ContentDiffResult {
	return &rb.result
}
