package models

// ExtractionResult is what the extraction collaborator yields for one document side.
// StructuredOutput is nil when the provider produced no structured record.
type ExtractionResult struct {
	Text             string `json:"text"`
	StructuredOutput any    `json:"structuredOutput,omitempty"`
	Provider         string `json:"provider,omitempty"`
	FromCache        bool   `json:"fromCache,omitempty"`
}

// HasStructuredOutput reports whether a structured record is present.
func (r *ExtractionResult) HasStructuredOutput() bool {
	return r != nil && r.StructuredOutput != nil
}
