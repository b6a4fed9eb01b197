package config

// InsightsConfig holds configuration for the language-model change summarizer
type InsightsConfig struct {
	Enabled          bool    `json:"enabled" yaml:"enabled"`
	Provider         string  `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,oneof=openai"`
	BaseURL          string  `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	APIKey           string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Model            string  `json:"model,omitempty" yaml:"model,omitempty"`
	TimeoutSecs      int     `json:"timeout_secs,omitempty" yaml:"timeout_secs,omitempty" validate:"omitempty,min=1"`
	MaxTokens        int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" validate:"omitempty,min=16"`
	Temperature      float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" validate:"omitempty,min=0,max=2"`
	MaxRetries       int     `json:"max_retries,omitempty" yaml:"max_retries,omitempty" validate:"omitempty,min=0,max=10"`
	MaxSnippets      int     `json:"max_snippets,omitempty" yaml:"max_snippets,omitempty" validate:"omitempty,min=1,max=50"`
	MaxSnippetLength int     `json:"max_snippet_length,omitempty" yaml:"max_snippet_length,omitempty" validate:"omitempty,min=4"`
	PromptTemplate   string  `json:"prompt_template,omitempty" yaml:"prompt_template,omitempty"`
}

// NewDefaultInsightsConfig creates default insights configuration
func NewDefaultInsightsConfig() InsightsConfig {
	return InsightsConfig{
		Enabled:          false,
		Provider:         DefaultInsightsProvider,
		BaseURL:          DefaultInsightsBaseURL,
		Model:            DefaultInsightsModel,
		TimeoutSecs:      DefaultInsightsTimeoutSecs,
		MaxTokens:        DefaultInsightsMaxTokens,
		Temperature:      DefaultInsightsTemperature,
		MaxRetries:       DefaultInsightsMaxRetries,
		MaxSnippets:      DefaultInsightsMaxSnippets,
		MaxSnippetLength: DefaultInsightsMaxSnippetLength,
	}
}
