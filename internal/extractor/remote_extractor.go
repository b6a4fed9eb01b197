package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
	"github.com/aleister1102/docdiff/internal/config"
	"github.com/aleister1102/docdiff/internal/httpclient"
	"github.com/aleister1102/docdiff/internal/models"
	"github.com/rs/zerolog"
)

const jobIDPlaceholder = "{id}"

var (
	completedStatuses = map[string]bool{"completed": true, "complete": true, "success": true, "succeeded": true, "done": true, "finished": true}
	failedStatuses    = map[string]bool{"failed": true, "failure": true, "error": true, "errored": true, "cancelled": true, "canceled": true}
	errorFields       = []string{"error.message", "error", "message", "detail"}
)

// RemoteExtractorConfig holds the endpoints and field candidates of a remote
// extraction service.
type RemoteExtractorConfig struct {
	BaseURL          string
	APIKey           string
	UploadPath       string
	StatusPath       string
	ResultPath       string
	PollInterval     time.Duration
	PollDeadline     time.Duration
	JobIDFields      []string
	StatusFields     []string
	TextFields       []string
	StructuredFields []string
}

// RemoteExtractorConfigFrom converts the file-level extractor section.
func RemoteExtractorConfigFrom(cfg config.ExtractorConfig) RemoteExtractorConfig {
	return RemoteExtractorConfig{
		BaseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:           cfg.APIKey,
		UploadPath:       cfg.UploadPath,
		StatusPath:       cfg.StatusPath,
		ResultPath:       cfg.ResultPath,
		PollInterval:     time.Duration(cfg.PollIntervalMs) * time.Millisecond,
		PollDeadline:     time.Duration(cfg.PollDeadlineSecs) * time.Second,
		JobIDFields:      cfg.JobIDFields,
		StatusFields:     cfg.StatusFields,
		TextFields:       cfg.TextFields,
		StructuredFields: cfg.StructuredFields,
	}
}

// RemoteExtractor uploads documents to an asynchronous extraction service and
// polls the resulting job until it finishes.
type RemoteExtractor struct {
	client *httpclient.HTTPClient
	config RemoteExtractorConfig
	logger zerolog.Logger
}

// NewRemoteExtractor creates a remote extractor on top of an existing client
func NewRemoteExtractor(client *httpclient.HTTPClient, cfg RemoteExtractorConfig, logger zerolog.Logger) (*RemoteExtractor, error) {
	if cfg.BaseURL == "" {
		return nil, errorwrapper.NewValidationError("base_url", cfg.BaseURL, "remote extraction requires a base URL")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Duration(config.DefaultExtractionPollIntervalMs) * time.Millisecond
	}
	if cfg.PollDeadline <= 0 {
		cfg.PollDeadline = time.Duration(config.DefaultExtractionPollDeadlineSecs) * time.Second
	}
	return &RemoteExtractor{
		client: client,
		config: cfg,
		logger: logger.With().Str("component", "RemoteExtractor").Logger(),
	}, nil
}

// NewRemoteExtractorFromConfig builds the HTTP client and the extractor from the
// file-level extractor section.
func NewRemoteExtractorFromConfig(cfg config.ExtractorConfig, logger zerolog.Logger) (*RemoteExtractor, error) {
	builder := httpclient.NewHTTPClientBuilder(logger).
		WithTimeout(time.Duration(cfg.RequestTimeoutSecs) * time.Second).
		WithInsecureSkipVerify(cfg.InsecureSkipTLSVerify).
		WithHTTP2(cfg.EnableHTTP2)
	if cfg.MaxRetries > 0 {
		builder = builder.WithRetries(httpclient.DefaultRetryPolicy(cfg.MaxRetries))
	}
	client, err := builder.Build()
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to build extraction HTTP client")
	}
	return NewRemoteExtractor(client, RemoteExtractorConfigFrom(cfg), logger)
}

// Extract uploads doc, waits for the job and resolves text and structured output
// from the result payload.
func (re *RemoteExtractor) Extract(ctx context.Context, doc Document) (*models.ExtractionResult, error) {
	start := time.Now()

	uploaded, err := re.upload(ctx, doc)
	if err != nil {
		return nil, err
	}

	jobID, hasJob := re.jobID(uploaded)
	payload := uploaded
	if !hasJob {
		if _, hasText := ResolveString(uploaded, re.config.TextFields); !hasText {
			return nil, fmt.Errorf("%w: upload response for %s carries neither a job id nor text", errorwrapper.ErrUpstreamFailure, doc.Name)
		}
	} else if !re.isCompleted(uploaded) {
		if payload, err = re.waitForJob(ctx, jobID); err != nil {
			return nil, err
		}
		if re.config.ResultPath != "" {
			if payload, err = re.fetch(ctx, re.jobURL(re.config.ResultPath, jobID)); err != nil {
				return nil, err
			}
		}
	}

	result := re.buildResult(payload)
	re.logger.Info().
		Str("name", doc.Name).
		Str("job_id", jobID).
		Int("text_bytes", len(result.Text)).
		Bool("structured", result.HasStructuredOutput()).
		Dur("duration", time.Since(start)).
		Msg("Remote extraction finished")
	return result, nil
}

func (re *RemoteExtractor) upload(ctx context.Context, doc Document) (any, error) {
	fields := map[string]string{}
	if doc.Schema != "" {
		fields["schema"] = doc.Schema
	}

	target := re.config.BaseURL + re.config.UploadPath
	resp, err := re.client.PostMultipart(ctx, target, re.authHeaders(), httpclient.MultipartFile{
		FieldName:   "file",
		FileName:    doc.Name,
		ContentType: doc.ContentType,
		Data:        doc.Data,
	}, fields)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to upload document for extraction")
	}
	return decodePayload(resp.Body)
}

// waitForJob polls the status endpoint until the job completes, fails, or the
// poll deadline passes.
func (re *RemoteExtractor) waitForJob(ctx context.Context, jobID string) (any, error) {
	pollCtx, cancel := context.WithTimeout(ctx, re.config.PollDeadline)
	defer cancel()

	ticker := time.NewTicker(re.config.PollInterval)
	defer ticker.Stop()

	statusURL := re.jobURL(re.config.StatusPath, jobID)
	for attempt := 1; ; attempt++ {
		payload, err := re.fetch(pollCtx, statusURL)
		if err != nil {
			if pollCtx.Err() != nil && ctx.Err() == nil {
				return nil, re.deadlineError(jobID)
			}
			return nil, err
		}

		status, _ := ResolveString(payload, re.config.StatusFields)
		status = strings.ToLower(strings.TrimSpace(status))
		switch {
		case completedStatuses[status]:
			re.logger.Debug().Str("job_id", jobID).Int("polls", attempt).Msg("Extraction job completed")
			return payload, nil
		case failedStatuses[status]:
			reason, _ := ResolveString(payload, errorFields)
			return nil, fmt.Errorf("%w: extraction job %s ended with status %q: %s", errorwrapper.ErrUpstreamFailure, jobID, status, reason)
		}

		re.logger.Debug().Str("job_id", jobID).Str("status", status).Int("poll", attempt).Msg("Extraction job pending")

		select {
		case <-pollCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, re.deadlineError(jobID)
		case <-ticker.C:
		}
	}
}

func (re *RemoteExtractor) deadlineError(jobID string) error {
	return fmt.Errorf("%w: extraction job %s not finished after %s", errorwrapper.ErrTimeout, jobID, re.config.PollDeadline)
}

func (re *RemoteExtractor) fetch(ctx context.Context, target string) (any, error) {
	resp, err := re.client.Do(&httpclient.HTTPRequest{
		URL:     target,
		Method:  http.MethodGet,
		Headers: re.authHeaders(),
		Context: ctx,
	})
	if err != nil {
		return nil, err
	}
	if err := httpclient.CheckStatus(resp, target); err != nil {
		return nil, err
	}
	return decodePayload(resp.Body)
}

func (re *RemoteExtractor) buildResult(payload any) *models.ExtractionResult {
	result := &models.ExtractionResult{Provider: ProviderRemote}

	if text, ok := ResolveString(payload, re.config.TextFields); ok {
		result.Text = text
	} else {
		re.logger.Warn().Msg("Extraction result has no text; treating document as empty")
	}
	if structured, ok := ResolveValue(payload, re.config.StructuredFields); ok {
		result.StructuredOutput = decodeEmbeddedJSON(structured)
	}
	return result
}

func (re *RemoteExtractor) jobID(payload any) (string, bool) {
	v, ok := ResolveValue(payload, re.config.JobIDFields)
	if !ok {
		return "", false
	}
	switch id := v.(type) {
	case string:
		return id, id != ""
	case json.Number:
		return id.String(), true
	case float64:
		return fmt.Sprintf("%.0f", id), true
	default:
		return "", false
	}
}

func (re *RemoteExtractor) isCompleted(payload any) bool {
	status, _ := ResolveString(payload, re.config.StatusFields)
	if !completedStatuses[strings.ToLower(strings.TrimSpace(status))] {
		return false
	}
	_, hasText := ResolveString(payload, re.config.TextFields)
	return hasText
}

func (re *RemoteExtractor) jobURL(pathTemplate, jobID string) string {
	return re.config.BaseURL + strings.ReplaceAll(pathTemplate, jobIDPlaceholder, url.PathEscape(jobID))
}

func (re *RemoteExtractor) authHeaders() map[string]string {
	if re.config.APIKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + re.config.APIKey}
}

func decodePayload(body []byte) (any, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: extraction service returned invalid JSON: %v", errorwrapper.ErrUpstreamFailure, err)
	}
	return payload, nil
}

// decodeEmbeddedJSON unwraps structured output that a provider serialized as a
// JSON string.
func decodeEmbeddedJSON(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return v
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return v
	}
	return decoded
}
