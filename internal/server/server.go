// Package server exposes the comparison service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aleister1102/docdiff/internal/comparison"
	"github.com/aleister1102/docdiff/internal/config"
	"github.com/aleister1102/docdiff/internal/models"
	"github.com/aleister1102/docdiff/internal/rslimiter"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Comparer is the part of the comparison service the handlers need
type Comparer interface {
	Compare(ctx context.Context, req comparison.Request) (*models.ComparisonResult, error)
	CompareText(ctx context.Context, req comparison.TextRequest) (*models.ComparisonResult, error)
}

// Server wraps the echo instance serving the comparison API
type Server struct {
	echo     *echo.Echo
	cfg      config.ServerConfig
	comparer Comparer
	metrics  *Metrics
	usage    func() rslimiter.ResourceUsage
	logger   zerolog.Logger
}

// requestValidator adapts validator/v10 to echo.Validator
type requestValidator struct {
	validate *validator.Validate
}

func (rv *requestValidator) Validate(i interface{}) error {
	return rv.validate.Struct(i)
}

// New creates a server with routes and middleware registered
func New(cfg config.ServerConfig, comparer Comparer, logger zerolog.Logger) (*Server, error) {
	if comparer == nil {
		return nil, errors.New("comparer is required")
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = config.DefaultServerMaxUploadMB
	}
	if cfg.RequestTimeoutSecs <= 0 {
		cfg.RequestTimeoutSecs = config.DefaultServerRequestTimeoutSecs
	}

	s := &Server{
		echo:     echo.New(),
		cfg:      cfg,
		comparer: comparer,
		metrics:  NewMetrics(),
		usage:    rslimiter.GetResourceUsage,
		logger:   logger.With().Str("component", "HTTPServer").Logger(),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Validator = &requestValidator{validate: validator.New()}
	s.echo.HTTPErrorHandler = s.handleError

	s.registerMiddleware()
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug().
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("Request handled")
			return nil
		},
	}))

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	s.echo.Use(middleware.BodyLimit(fmt.Sprintf("%dM", s.cfg.MaxUploadMB)))
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)
	if s.cfg.EnableMetrics {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	api := s.echo.Group("/api")
	api.POST("/compare", s.handleCompare)
	api.POST("/compare/text", s.handleCompareText)
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Metrics returns the server's collectors
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start listens on the configured address until Shutdown is called
func (s *Server) Start() error {
	httpServer := &http.Server{
		Addr:         s.cfg.Listen,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
	}
	s.logger.Info().Str("listen", s.cfg.Listen).Bool("metrics", s.cfg.EnableMetrics).Msg("HTTP server starting")

	if err := s.echo.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("HTTP server shutting down")
	return s.echo.Shutdown(ctx)
}
