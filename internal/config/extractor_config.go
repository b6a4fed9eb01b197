package config

// ExtractorConfig holds configuration for the document extraction collaborator
type ExtractorConfig struct {
	Provider              string   `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,provider"`
	BaseURL               string   `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	APIKey                string   `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	UploadPath            string   `json:"upload_path,omitempty" yaml:"upload_path,omitempty"`
	StatusPath            string   `json:"status_path,omitempty" yaml:"status_path,omitempty"`
	ResultPath            string   `json:"result_path,omitempty" yaml:"result_path,omitempty"`
	PollIntervalMs        int      `json:"poll_interval_ms,omitempty" yaml:"poll_interval_ms,omitempty" validate:"omitempty,min=50"`
	PollDeadlineSecs      int      `json:"poll_deadline_secs,omitempty" yaml:"poll_deadline_secs,omitempty" validate:"omitempty,min=1"`
	RequestTimeoutSecs    int      `json:"request_timeout_secs,omitempty" yaml:"request_timeout_secs,omitempty" validate:"omitempty,min=1"`
	MaxRetries            int      `json:"max_retries,omitempty" yaml:"max_retries,omitempty" validate:"omitempty,min=0,max=10"`
	PreferLocal           bool     `json:"prefer_local" yaml:"prefer_local"`
	InsecureSkipTLSVerify bool     `json:"insecure_skip_tls_verify" yaml:"insecure_skip_tls_verify"`
	EnableHTTP2           bool     `json:"enable_http2" yaml:"enable_http2"`
	JobIDFields           []string `json:"job_id_fields,omitempty" yaml:"job_id_fields,omitempty"`
	StatusFields          []string `json:"status_fields,omitempty" yaml:"status_fields,omitempty"`
	TextFields            []string `json:"text_fields,omitempty" yaml:"text_fields,omitempty"`
	StructuredFields      []string `json:"structured_fields,omitempty" yaml:"structured_fields,omitempty"`
}

// NewDefaultExtractorConfig creates default extraction configuration
func NewDefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Provider:           DefaultExtractionProvider,
		UploadPath:         DefaultExtractionUploadPath,
		StatusPath:         DefaultExtractionStatusPath,
		ResultPath:         DefaultExtractionResultPath,
		PollIntervalMs:     DefaultExtractionPollIntervalMs,
		PollDeadlineSecs:   DefaultExtractionPollDeadlineSecs,
		RequestTimeoutSecs: DefaultExtractionRequestTimeoutSecs,
		MaxRetries:         DefaultExtractionMaxRetries,
		PreferLocal:        true,
		EnableHTTP2:        true,
		JobIDFields:        []string{"id", "job_id", "jobId", "job.id"},
		StatusFields:       []string{"status", "state", "job.status"},
		TextFields:         []string{"text", "markdown", "content", "result.text", "result.markdown", "pages[*].text", "pages[*].markdown"},
		StructuredFields:   []string{"structured_output", "structuredOutput", "extracted", "result.structured_output", "result.extracted", "data"},
	}
}
