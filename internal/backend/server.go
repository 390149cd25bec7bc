// Package backend is the development analysis service the UI talks to:
// POST /api/v1/analysis with {"url": ...} returns a report.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/deepread/internal/form"
	"github.com/ppiankov/deepread/internal/model"
	"github.com/ppiankov/deepread/internal/pipeline"
)

// AnalysisPath is where the service accepts requests
const AnalysisPath = "/api/v1/analysis"

type analysisRequest struct {
	URL *string `json:"url" binding:"required"`
}

// Server serves the analysis API
type Server struct {
	addr     string
	analyzer form.Analyzer
	logger   *zap.Logger
	router   *gin.Engine
}

// New wires the router
func New(cfg model.BackendConfig, analyzer form.Analyzer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{addr: cfg.Addr, analyzer: analyzer, logger: logger}

	router := gin.New()
	router.Use(gin.Recovery(), cors())
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.POST("/analysis", s.analyze)
	api.OPTIONS("/analysis", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	s.router = router
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("analysis service listening", zap.String("addr", s.addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) analyze(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "field \"url\" is required"})
		return
	}

	start := time.Now()
	report, err := s.analyzer.Analyze(c.Request.Context(), model.AnalysisRequest{
		Kind: model.InputURL,
		Data: *req.URL,
	})
	if err != nil {
		s.logger.Warn("analysis failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		if errors.Is(err, pipeline.ErrEmptyArticle) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	s.logger.Info("analysis done",
		zap.Int("core_arguments", len(report.CoreArguments)),
		zap.Duration("elapsed", time.Since(start)))
	c.JSON(http.StatusOK, report)
}

// cors allows every origin, which the browser UI needs when served from
// another port
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			origin = "*"
		} else {
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
