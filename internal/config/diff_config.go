package config

// DiffConfig holds configuration for the comparison core
type DiffConfig struct {
	DefaultUnit              string `json:"default_unit,omitempty" yaml:"default_unit,omitempty" validate:"omitempty,diffunit"`
	TimeoutMs                int    `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty" validate:"omitempty,min=0"`
	MaxTextSizeMB            int    `json:"max_text_size_mb,omitempty" yaml:"max_text_size_mb,omitempty" validate:"omitempty,min=1"`
	MaxSnippets              int    `json:"max_snippets,omitempty" yaml:"max_snippets,omitempty" validate:"omitempty,min=0,max=100"`
	MaxSnippetLength         int    `json:"max_snippet_length,omitempty" yaml:"max_snippet_length,omitempty" validate:"omitempty,min=4"`
	IncludeStructured        bool   `json:"include_structured" yaml:"include_structured"`
	StructuredDiffSampleSize int    `json:"structured_diff_sample_size,omitempty" yaml:"structured_diff_sample_size,omitempty" validate:"omitempty,min=0"`
}

// NewDefaultDiffConfig creates default diff configuration
func NewDefaultDiffConfig() DiffConfig {
	return DiffConfig{
		DefaultUnit:              DefaultDiffUnit,
		TimeoutMs:                DefaultDiffTimeoutMs,
		MaxTextSizeMB:            DefaultDiffMaxTextSizeMB,
		MaxSnippets:              DefaultDiffMaxSnippets,
		MaxSnippetLength:         DefaultDiffMaxSnippetLength,
		IncludeStructured:        true,
		StructuredDiffSampleSize: DefaultStructuredDiffSampleSize,
	}
}
