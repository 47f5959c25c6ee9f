package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezonia/invoice-exporter/internal/config"
	"github.com/rezonia/invoice-exporter/internal/exporter"
	"github.com/rezonia/invoice-exporter/internal/logging"
	"github.com/rezonia/invoice-exporter/internal/metrics"
)

// Config holds server configuration
type Config struct {
	Address      string
	Credentials  config.Credentials
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Exporter runs one export per request
type Exporter interface {
	Export(ctx context.Context, queueID, annotationID int64) exporter.Result
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	exporter Exporter
	metrics  *metrics.Metrics
}

// NewServer creates a new API server. m may be nil, which disables /metrics.
func NewServer(cfg *Config, exp Exporter, m *metrics.Metrics) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), logging.Middleware())
	if m != nil {
		router.Use(m.Middleware())
	}

	s := &Server{
		config:   cfg,
		router:   router,
		exporter: exp,
		metrics:  m,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	export := s.router.Group("/export", BasicAuth(s.config.Credentials))
	{
		export.GET("", s.handleUsage)
		export.GET("/queue_id/:queue_id/annotation_id/:annotation_id", s.handleExport)
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleUsage(c *gin.Context) {
	c.JSON(http.StatusOK, exportUsage)
}

func (s *Server) handleExport(c *gin.Context) {
	var details []ValidationDetail
	queueID, detail := pathInt(c, "queue_id")
	if detail != nil {
		details = append(details, *detail)
	}
	annotationID, detail := pathInt(c, "annotation_id")
	if detail != nil {
		details = append(details, *detail)
	}
	if len(details) > 0 {
		c.JSON(http.StatusUnprocessableEntity, ValidationResponse{Detail: details})
		return
	}

	result := s.exporter.Export(c.Request.Context(), queueID, annotationID)
	c.JSON(http.StatusOK, result)
}

func pathInt(c *gin.Context, name string) (int64, *ValidationDetail) {
	raw := c.Param(name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &ValidationDetail{
			Type:  "int_parsing",
			Loc:   []string{"path", name},
			Msg:   "Input should be a valid integer, unable to parse string as an integer",
			Input: raw,
		}
	}
	return v, nil
}
