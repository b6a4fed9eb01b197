package server

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
	"github.com/aleister1102/docdiff/internal/comparison"
	"github.com/aleister1102/docdiff/internal/extractor"
	"github.com/aleister1102/docdiff/internal/models"
	"github.com/aleister1102/docdiff/internal/rslimiter"
	"github.com/labstack/echo/v4"
)

const (
	endpointCompare     = "compare"
	endpointCompareText = "compare_text"
)

// HealthResponse is returned by /healthz
type HealthResponse struct {
	Status    string                  `json:"status"`
	Time      time.Time               `json:"time"`
	Resources rslimiter.ResourceUsage `json:"resources"`
}

// TextSide is one already-extracted document in a text comparison
type TextSide struct {
	Name             string `json:"name"`
	Text             string `json:"text"`
	StructuredOutput any    `json:"structuredOutput"`
}

// TextCompareRequest is the JSON body of /api/compare/text
type TextCompareRequest struct {
	Left     TextSide `json:"left"`
	Right    TextSide `json:"right"`
	Unit     string   `json:"unit" validate:"omitempty,oneof=words lines word line"`
	Insights bool     `json:"insights"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Time:      time.Now().UTC(),
		Resources: s.usage(),
	})
}

func (s *Server) handleCompare(c echo.Context) error {
	started := time.Now()

	req, err := s.parseCompareForm(c)
	if err != nil {
		s.observe(endpointCompare, started, nil, err)
		return err
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	result, err := s.comparer.Compare(ctx, req)
	s.observe(endpointCompare, started, result, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleCompareText(c echo.Context) error {
	started := time.Now()

	var body TextCompareRequest
	if err := c.Bind(&body); err != nil {
		err = errorwrapper.WrapError(errorwrapper.ErrInvalidInput, "malformed JSON body")
		s.observe(endpointCompareText, started, nil, err)
		return err
	}
	if err := c.Validate(&body); err != nil {
		err = errorwrapper.NewValidationError("unit", body.Unit, "unit must be words or lines")
		s.observe(endpointCompareText, started, nil, err)
		return err
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	result, err := s.comparer.CompareText(ctx, comparison.TextRequest{
		Left:      models.ExtractionResult{Text: body.Left.Text, StructuredOutput: body.Left.StructuredOutput},
		Right:     models.ExtractionResult{Text: body.Right.Text, StructuredOutput: body.Right.StructuredOutput},
		LeftName:  body.Left.Name,
		RightName: body.Right.Name,
		Unit:      models.DiffUnit(body.Unit),
		Insights:  body.Insights,
	})
	s.observe(endpointCompareText, started, result, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) parseCompareForm(c echo.Context) (comparison.Request, error) {
	var req comparison.Request

	left, err := readUpload(c, "left")
	if err != nil {
		return req, err
	}
	right, err := readUpload(c, "right")
	if err != nil {
		return req, err
	}

	schema := strings.TrimSpace(c.FormValue("schema"))
	if schema != "" && !json.Valid([]byte(schema)) {
		return req, errorwrapper.NewValidationError("schema", "", "schema must be valid JSON")
	}
	left.Schema = schema
	right.Schema = schema

	wantInsights := false
	if raw := strings.TrimSpace(c.FormValue("insights")); raw != "" {
		wantInsights, err = strconv.ParseBool(raw)
		if err != nil {
			return req, errorwrapper.NewValidationError("insights", raw, "insights must be a boolean")
		}
	}

	req.Left = left
	req.Right = right
	req.Unit = models.DiffUnit(strings.TrimSpace(c.FormValue("unit")))
	req.Insights = wantInsights
	return req, nil
}

func readUpload(c echo.Context, field string) (extractor.Document, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return extractor.Document{}, errorwrapper.NewValidationError(field, "", "file is required")
	}

	data, err := readFormFile(header)
	if err != nil {
		return extractor.Document{}, errorwrapper.WrapError(errorwrapper.ErrInvalidInput, "failed to read "+field+" upload")
	}

	return extractor.Document{
		Name:        header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func (s *Server) requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), time.Duration(s.cfg.RequestTimeoutSecs)*time.Second)
}

func (s *Server) observe(endpoint string, started time.Time, result *models.ComparisonResult, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		_, category, _ := classify(err)
		outcome = string(category)
	}
	s.metrics.ObserveComparison(endpoint, outcome, started, result)
}
