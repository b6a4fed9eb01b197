package errorwrapper

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapError(t *testing.T) {
	cause := errors.New("connection reset")

	err := WrapError(cause, "failed to upload left document")
	assert.Equal(t, "failed to upload left document: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	err = WrapError(nil, "poll result")
	require.Error(t, err)
	assert.Equal(t, "poll result: <nil>", err.Error())
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   any
		message string
		want    string
	}{
		{"string value", "unit", "paragraphs", "unit must be words or lines", `invalid unit "paragraphs": unit must be words or lines`},
		{"numeric value", "max_snippets", -5, "must be positive", `invalid max_snippets "-5": must be positive`},
		{"no value", "right", "", "file is required", "invalid right: file is required"},
		{"nil value", "left", nil, "cannot be nil", "invalid left: cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.value, tt.message)
			assert.Equal(t, tt.want, err.Error())
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestNetworkError(t *testing.T) {
	bare := NewNetworkError("https://extract.example.com", "connection refused", nil)
	assert.Equal(t, "connection refused (https://extract.example.com)", bare.Error())
	assert.ErrorIs(t, bare, ErrNetworkFailure)

	cause := errors.New("no such host")
	withCause := NewNetworkError("https://llm.example.com/v1/chat/completions", "HTTP request failed", cause)
	assert.Equal(t, "HTTP request failed (https://llm.example.com/v1/chat/completions): no such host", withCause.Error())
	assert.ErrorIs(t, withCause, cause)
}

func TestHTTPError(t *testing.T) {
	withURL := NewHTTPErrorWithURL(http.StatusNotFound, "job not found", "https://extract.example.com/jobs/123")
	assert.Equal(t, "backend returned 404 for https://extract.example.com/jobs/123: job not found", withURL.Error())

	noURL := NewHTTPErrorWithURL(http.StatusInternalServerError, "boom", "")
	assert.Equal(t, "backend returned 500: boom", noURL.Error())
}

func TestErrorChaining(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapError(
		WrapError(NewNetworkError("https://extract.example.com/upload", "HTTP request failed", cause), "failed to upload document"),
		"failed to extract left document",
	)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "https://extract.example.com/upload", netErr.URL)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to extract left document: failed to upload document")
}
