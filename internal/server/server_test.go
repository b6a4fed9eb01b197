package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
	"github.com/aleister1102/docdiff/internal/comparison"
	"github.com/aleister1102/docdiff/internal/config"
	"github.com/aleister1102/docdiff/internal/differ"
	"github.com/aleister1102/docdiff/internal/extractor"
	"github.com/aleister1102/docdiff/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingComparer struct {
	err error
}

func (f failingComparer) Compare(ctx context.Context, req comparison.Request) (*models.ComparisonResult, error) {
	return nil, f.err
}

func (f failingComparer) CompareText(ctx context.Context, req comparison.TextRequest) (*models.ComparisonResult, error) {
	return nil, f.err
}

func newTestServer(t *testing.T, cfg config.ServerConfig) *Server {
	t.Helper()
	cd, err := differ.NewContentDiffer(zerolog.Nop(), differ.DefaultDiffConfig())
	require.NoError(t, err)

	svc, err := comparison.NewServiceBuilder(zerolog.Nop()).
		WithExtractor(extractor.NewRouter(extractor.NewLocalExtractor(zerolog.Nop()), nil, true, zerolog.Nop())).
		WithDiffer(cd).
		Build()
	require.NoError(t, err)

	s, err := New(cfg, svc, zerolog.Nop())
	require.NoError(t, err)
	return s
}

type upload struct {
	field, name, content string
}

func multipartRequest(t *testing.T, uploads []upload, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, u := range uploads {
		part, err := w.CreateFormFile(u.field, u.name)
		require.NoError(t, err)
		_, err = io.WriteString(part, u.content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/compare", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var out ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestNew_RequiresComparer(t *testing.T) {
	_, err := New(config.NewDefaultServerConfig(), nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, config.NewDefaultServerConfig())
	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var out HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "ok", out.Status)
	assert.Positive(t, out.Resources.Goroutines)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestCompare_Multipart(t *testing.T) {
	s := newTestServer(t, config.NewDefaultServerConfig())
	req := multipartRequest(t, []upload{
		{"left", "v1.txt", "alpha\nbeta\ngamma\n"},
		{"right", "v2.txt", "alpha\ndelta\ngamma\n"},
	}, map[string]string{"unit": "lines", "insights": "true"})

	rec := serve(s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.ComparisonResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, models.UnitLines, result.Summary.Unit)
	assert.Equal(t, 1, result.Summary.Additions)
	assert.Equal(t, 1, result.Summary.Removals)
	assert.Equal(t, "alpha\nbeta\ngamma\n", result.Extracted.Left)
	assert.Contains(t, result.InlineHTML, "delta")
	require.NotNil(t, result.Insights)
	assert.False(t, result.Insights.Enabled)
}

func TestCompare_BadForm(t *testing.T) {
	s := newTestServer(t, config.NewDefaultServerConfig())

	tests := []struct {
		name    string
		uploads []upload
		fields  map[string]string
		message string
	}{
		{
			name:    "missing right file",
			uploads: []upload{{"left", "a.txt", "a"}},
			message: "right",
		},
		{
			name:    "invalid schema",
			uploads: []upload{{"left", "a.txt", "a"}, {"right", "b.txt", "b"}},
			fields:  map[string]string{"schema": "{not json"},
			message: "schema must be valid JSON",
		},
		{
			name:    "invalid insights flag",
			uploads: []upload{{"left", "a.txt", "a"}, {"right", "b.txt", "b"}},
			fields:  map[string]string{"insights": "maybe"},
			message: "insights must be a boolean",
		},
		{
			name:    "invalid unit",
			uploads: []upload{{"left", "a.txt", "a"}, {"right", "b.txt", "b"}},
			fields:  map[string]string{"unit": "sentences"},
			message: "unknown diff unit",
		},
		{
			name:    "unsupported content",
			uploads: []upload{{"left", "a.bin", "\x00\x01\x02"}, {"right", "b.txt", "b"}},
			message: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, multipartRequest(t, tt.uploads, tt.fields))
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			out := decodeError(t, rec)
			assert.Equal(t, string(errorwrapper.CategoryBadInput), out.Category)
			assert.Contains(t, out.Error, tt.message)
		})
	}
}

func TestCompare_UploadTooLarge(t *testing.T) {
	cfg := config.NewDefaultServerConfig()
	cfg.MaxUploadMB = 1
	s := newTestServer(t, cfg)

	big := strings.Repeat("x", 2*1024*1024)
	rec := serve(s, multipartRequest(t, []upload{{"left", "a.txt", big}, {"right", "b.txt", "b"}}, nil))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, string(errorwrapper.CategoryBadInput), decodeError(t, rec).Category)
}

func TestCompareText(t *testing.T) {
	s := newTestServer(t, config.NewDefaultServerConfig())
	body := `{
		"left": {"name": "old", "text": "total 10", "structuredOutput": {"total": 10}},
		"right": {"name": "new", "text": "total 12", "structuredOutput": {"total": 12}},
		"unit": "words"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/compare/text", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := serve(s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.ComparisonResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Summary.Additions)
	assert.Equal(t, 1, result.Summary.Removals)
	require.Len(t, result.StructuredDiff, 1)
	assert.Equal(t, "total", result.StructuredDiff[0].Path)
	assert.Equal(t, models.ChangeChanged, result.StructuredDiff[0].Type)
	assert.Equal(t, float64(10), result.StructuredOutput.Left.(map[string]any)["total"])
}

func TestCompareText_BadInput(t *testing.T) {
	s := newTestServer(t, config.NewDefaultServerConfig())

	for name, body := range map[string]string{
		"invalid unit":   `{"left":{"text":"a"},"right":{"text":"b"},"unit":"sentences"}`,
		"malformed body": `{"left":`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/compare/text", strings.NewReader(body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := serve(s, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, string(errorwrapper.CategoryBadInput), decodeError(t, rec).Category)
		})
	}
}

func TestCompareText_CollaboratorErrors(t *testing.T) {
	tests := []struct {
		err      error
		status   int
		category errorwrapper.Category
	}{
		{errorwrapper.WrapError(errorwrapper.ErrUpstreamFailure, "extraction job failed"), http.StatusBadGateway, errorwrapper.CategoryUpstream},
		{errorwrapper.WrapError(errorwrapper.ErrTimeout, "poll deadline exceeded"), http.StatusGatewayTimeout, errorwrapper.CategoryTimeout},
		{errorwrapper.WrapError(errorwrapper.ErrServiceUnavailable, "memory limit"), http.StatusServiceUnavailable, errorwrapper.CategoryUnavailable},
		{context.Canceled, http.StatusInternalServerError, errorwrapper.CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			s, err := New(config.NewDefaultServerConfig(), failingComparer{err: tt.err}, zerolog.Nop())
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/compare/text", strings.NewReader(`{}`))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := serve(s, req)

			assert.Equal(t, tt.status, rec.Code)
			out := decodeError(t, rec)
			assert.Equal(t, string(tt.category), out.Category)
			assert.Equal(t, tt.err.Error(), out.Error)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, config.NewDefaultServerConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/compare/text", strings.NewReader(`{"left":{"text":"a"},"right":{"text":"b"}}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusOK, serve(s, req).Code)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `docdiff_comparisons_total{endpoint="compare_text",outcome="success"} 1`)
	assert.Contains(t, body, "docdiff_compare_duration_seconds_bucket")
	assert.Contains(t, body, `docdiff_compare_segments_count{unit="words"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	cfg := config.NewDefaultServerConfig()
	cfg.EnableMetrics = false
	s := newTestServer(t, cfg)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClassify(t *testing.T) {
	code, category, msg := classify(echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"))
	assert.Equal(t, http.StatusMethodNotAllowed, code)
	assert.Equal(t, errorwrapper.CategoryBadInput, category)
	assert.Equal(t, "nope", msg)

	code, category, _ = classify(errorwrapper.NewValidationError("unit", "x", "bad"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, errorwrapper.CategoryBadInput, category)
}
