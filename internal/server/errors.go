package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category"`
}

// classify resolves the status code, category and client message for err.
func classify(err error) (int, errorwrapper.Category, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, categoryForStatus(he.Code), msg
	}

	category := errorwrapper.Categorize(err)
	return category.HTTPStatus(), category, err.Error()
}

func categoryForStatus(code int) errorwrapper.Category {
	switch {
	case code == http.StatusServiceUnavailable:
		return errorwrapper.CategoryUnavailable
	case code == http.StatusGatewayTimeout:
		return errorwrapper.CategoryTimeout
	case code >= 400 && code < 500:
		return errorwrapper.CategoryBadInput
	case code == http.StatusBadGateway:
		return errorwrapper.CategoryUpstream
	default:
		return errorwrapper.CategoryInternal
	}
}

// handleError writes failures as ErrorResponse JSON
func (s *Server) handleError(err error, c echo.Context) {
	code, category, msg := classify(err)

	req := c.Request()
	event := s.logger.Warn()
	if code >= http.StatusInternalServerError {
		event = s.logger.Error()
	}
	event.Err(err).
		Int("status", code).
		Str("category", string(category)).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("remote_ip", c.RealIP()).
		Msg("Request failed")

	if c.Response().Committed {
		return
	}
	if req.Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, ErrorResponse{Error: msg, Category: string(category)})
}
