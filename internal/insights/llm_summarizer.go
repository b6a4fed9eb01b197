package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
	"github.com/aleister1102/docdiff/internal/config"
	"github.com/aleister1102/docdiff/internal/httpclient"
	"github.com/aleister1102/docdiff/internal/models"
	"github.com/rs/zerolog"
)

const systemPrompt = "You summarize differences between document versions for reviewers. Only describe changes present in the digest."

type chatRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	MaxTokens      int                 `json:"max_tokens,omitempty"`
	Temperature    float64             `json:"temperature"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Model string `json:"model"`
}

// modelReply accepts both snake_case and camelCase risk flags.
type modelReply struct {
	Headline       string   `json:"headline"`
	Bullets        []string `json:"bullets"`
	RiskFlags      []string `json:"risk_flags"`
	RiskFlagsCamel []string `json:"riskFlags"`
}

// LLMSummarizer asks an OpenAI-compatible chat completions endpoint for insights.
type LLMSummarizer struct {
	client   *httpclient.HTTPClient
	config   config.InsightsConfig
	endpoint string
	logger   zerolog.Logger
}

// NewLLMSummarizer creates a summarizer from the insights section.
func NewLLMSummarizer(cfg config.InsightsConfig, logger zerolog.Logger) (*LLMSummarizer, error) {
	if cfg.APIKey == "" {
		return nil, errorwrapper.NewValidationError("insights_config.api_key", "", "an API key is required when insights are enabled")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultInsightsBaseURL
	}
	if cfg.PromptTemplate == "" {
		cfg.PromptTemplate = DefaultPromptTemplate
	}
	if cfg.TimeoutSecs <= 0 {
		cfg.TimeoutSecs = config.DefaultInsightsTimeoutSecs
	}

	builder := httpclient.NewHTTPClientBuilder(logger).
		WithTimeout(time.Duration(cfg.TimeoutSecs) * time.Second)
	if cfg.MaxRetries > 0 {
		builder = builder.WithRetries(httpclient.DefaultRetryPolicy(cfg.MaxRetries))
	}
	client, err := builder.Build()
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to build insights HTTP client")
	}

	return &LLMSummarizer{
		client:   client,
		config:   cfg,
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		logger:   logger.With().Str("component", "LLMSummarizer").Str("model", cfg.Model).Logger(),
	}, nil
}

// Enabled is always true.
func (s *LLMSummarizer) Enabled() bool { return true }

// Summarize renders the prompt for digest and parses the model's JSON reply.
// Digests without changes are answered locally.
func (s *LLMSummarizer) Summarize(ctx context.Context, digest Digest) (*models.Insights, error) {
	if !digest.HasChanges() {
		return &models.Insights{
			Enabled:   true,
			Headline:  "No differences were found between the two documents.",
			Bullets:   []string{},
			RiskFlags: []string{},
			Model:     s.config.Model,
		}, nil
	}

	prompt, err := s.renderPrompt(digest)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.config.TimeoutSecs)*time.Second)
	defer cancel()

	start := time.Now()
	req := chatRequest{
		Model: s.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:      s.config.MaxTokens,
		Temperature:    s.config.Temperature,
		ResponseFormat: &chatResponseFormat{Type: "json_object"},
	}

	var resp chatResponse
	headers := map[string]string{"Authorization": "Bearer " + s.config.APIKey}
	if err := s.client.DoJSON(ctx, http.MethodPost, s.endpoint, headers, req, &resp); err != nil {
		return nil, errorwrapper.WrapError(err, "insights request failed")
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: insights response has no choices", errorwrapper.ErrUpstreamFailure)
	}

	insights, err := parseReply(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	insights.Model = s.config.Model
	if resp.Model != "" {
		insights.Model = resp.Model
	}

	s.logger.Debug().
		Dur("duration", time.Since(start)).
		Int("bullets", len(insights.Bullets)).
		Int("risk_flags", len(insights.RiskFlags)).
		Str("finish_reason", resp.Choices[0].FinishReason).
		Msg("Insights generated")
	return insights, nil
}

func (s *LLMSummarizer) renderPrompt(digest Digest) (string, error) {
	digestJSON, err := json.MarshalIndent(digest, "", "  ")
	if err != nil {
		return "", errorwrapper.WrapError(err, "failed to encode digest")
	}

	return RenderTemplate(s.config.PromptTemplate, map[string]string{
		"left_name":        displayName(digest.Meta.LeftName, "left"),
		"right_name":       displayName(digest.Meta.RightName, "right"),
		"unit":             string(digest.Meta.Unit),
		"additions":        strconv.Itoa(digest.Meta.Additions),
		"removals":         strconv.Itoa(digest.Meta.Removals),
		"total_parts":      strconv.Itoa(digest.Meta.TotalParts),
		"structured_total": strconv.Itoa(digest.StructuredDiffTotal),
		"digest":           string(digestJSON),
	}), nil
}

func parseReply(content string) (*models.Insights, error) {
	var reply modelReply
	if err := json.Unmarshal([]byte(unwrapCodeFence(content)), &reply); err != nil {
		return nil, fmt.Errorf("%w: insights reply is not valid JSON: %v", errorwrapper.ErrUpstreamFailure, err)
	}

	riskFlags := reply.RiskFlags
	if len(riskFlags) == 0 {
		riskFlags = reply.RiskFlagsCamel
	}
	return &models.Insights{
		Enabled:   true,
		Headline:  strings.TrimSpace(reply.Headline),
		Bullets:   nonBlank(reply.Bullets),
		RiskFlags: nonBlank(riskFlags),
	}, nil
}

// unwrapCodeFence strips a surrounding markdown code fence, with or without a
// language tag.
func unwrapCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func displayName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
