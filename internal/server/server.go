// Package server exposes research runs over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mohammad-safakhou/deepresearch/models"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Assembler runs the research pipeline for one topic.
type Assembler interface {
	Assemble(ctx context.Context, topic string) (*models.Result, error)
}

// Answerer turns a run's final summary into the user-facing answer.
type Answerer interface {
	Answer(ctx context.Context, topic, finalSummary string) string
}

// Options configures the HTTP server.
type Options struct {
	Address   string
	JWTSecret []byte // empty leaves the API open
	Assembler Assembler
	Answerer  Answerer
	Metrics   http.Handler // nil serves the default Prometheus registry
	Logger    *zap.Logger
}

type Server struct {
	e      *echo.Echo
	addr   string
	logger *zap.Logger
}

// New builds the echo router. Research runs are serialized: a single
// browser and model client serve every request.
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		log.Warn("request failed",
			zap.Int("status", code),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.String("remote", c.RealIP()),
			zap.Error(err),
		)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]string{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	metrics := opts.Metrics
	if metrics == nil {
		metrics = promhttp.Handler()
	}
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(metrics))

	api := e.Group("/api")
	if len(opts.JWTSecret) > 0 {
		api.Use(AuthMiddleware(opts.JWTSecret))
	}
	rh := &ResearchHandler{Assembler: opts.Assembler, Answerer: opts.Answerer, Logger: log, mu: &sync.Mutex{}}
	rh.Register(api)

	return &Server{e: e, addr: opts.Address, logger: log}
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.e }

// Start serves until Shutdown. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("listening", zap.String("addr", s.addr))
	if err := s.e.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
