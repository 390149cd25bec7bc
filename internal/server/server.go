// Package server is the browser front end: a gin router that renders the
// page of the caller's session and drives analyses in the background.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/deepread/internal/form"
	"github.com/ppiankov/deepread/internal/i18n"
	"github.com/ppiankov/deepread/internal/model"
	"github.com/ppiankov/deepread/internal/page"
	"github.com/ppiankov/deepread/internal/session"
)

// CookieName holds the session ID
const CookieName = "deepread_session"

// Server serves the web UI
type Server struct {
	cfg      model.UIConfig
	analyzer form.Analyzer
	sessions *session.Store
	logger   *zap.Logger
	router   *gin.Engine

	// Background submissions outlive their HTTP request
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New wires the router. The analyzer is usually a *client.Client.
func New(cfg model.UIConfig, analyzer form.Analyzer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		cfg:      cfg,
		analyzer: analyzer,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		sessions: session.NewStore(cfg.SessionTTL, 0, session.Defaults{
			Lang:  i18n.ParseLang(cfg.Language),
			Theme: cfg.Theme,
			Page:  page.Options{Mode: cfg.Mode},
		}),
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	ui := router.Group("/")
	ui.Use(s.sessionMiddleware())
	ui.GET("", s.index)
	ui.POST("analyze", s.analyze)
	ui.POST("reset", s.reset)
	ui.GET("report.json", s.reportJSON)
	ui.GET("report.txt", s.reportText)

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
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web ui listening", zap.String("addr", s.cfg.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			s.Close()
			return fmt.Errorf("serve: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("http shutdown", zap.Error(err))
	}
	s.Close()
	return nil
}

// Close tears down every session and waits for background submissions
func (s *Server) Close() {
	s.cancel()
	s.sessions.Close()
	s.wg.Wait()
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
