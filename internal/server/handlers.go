package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/deepread/internal/form"
	"github.com/ppiankov/deepread/internal/i18n"
	"github.com/ppiankov/deepread/internal/model"
	"github.com/ppiankov/deepread/internal/page"
	"github.com/ppiankov/deepread/internal/render"
	"github.com/ppiankov/deepread/internal/session"
)

const sessionKey = "session"

type analyzeRequest struct {
	Tab     string `form:"tab"`
	URL     string `form:"url"`
	Content string `form:"content"`
	Mode    string `form:"mode"`
}

func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(CookieName)
		sess, created := s.sessions.Acquire(id)
		if created {
			maxAge := int(s.cfg.SessionTTL / time.Second)
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieName, sess.ID, maxAge, "/", "", false, true)
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func mustSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func (s *Server) index(c *gin.Context) {
	sess := mustSession(c)
	if lang := c.Query("lang"); lang != "" {
		sess.SetLang(i18n.ParseLang(lang))
	}
	if theme := c.Query("theme"); theme != "" {
		sess.SetTheme(theme)
	}
	if mode := c.Query("mode"); mode != "" {
		sess.Page.SetMode(model.ParseMode(mode))
	}
	s.renderPage(c, http.StatusOK, sess)
}

func (s *Server) analyze(c *gin.Context) {
	sess := mustSession(c)

	var req analyzeRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
		return
	}
	f := form.Form{
		Tab:     form.ParseTab(req.Tab),
		URL:     req.URL,
		Content: req.Content,
		Mode:    model.ParseMode(req.Mode),
	}
	lang, _ := sess.Prefs()
	texts := i18n.Lookup(i18n.Resolve(lang, f.Input()))

	started := make(chan struct{})
	done := make(chan error, 1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := sess.Page.Submit(s.ctx, &notifyingAnalyzer{Analyzer: s.analyzer, started: started}, f, texts)
		if err != nil && !errors.Is(err, form.ErrEmptyInput) && !errors.Is(err, form.ErrInFlight) {
			s.logger.Warn("analysis failed", zap.String("session", sess.ID), zap.Error(err))
		}
		done <- err
	}()

	select {
	case <-started:
		c.Redirect(http.StatusSeeOther, "/")
	case err := <-done:
		switch {
		case errors.Is(err, form.ErrEmptyInput):
			s.renderPage(c, http.StatusUnprocessableEntity, sess)
		case errors.Is(err, form.ErrInFlight), errors.Is(err, page.ErrClosed):
			s.renderPage(c, http.StatusConflict, sess)
		default:
			c.Redirect(http.StatusSeeOther, "/")
		}
	}
}

func (s *Server) reset(c *gin.Context) {
	mustSession(c).Page.Reset()
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) reportJSON(c *gin.Context) {
	state := mustSession(c).Page.Snapshot()
	if state.Report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no report"})
		return
	}

	meta := render.ExportMeta{Mode: string(state.Form.Mode), Timestamp: time.Now().UTC()}
	if state.Form.Tab == form.TabURL {
		meta.URL = state.Form.URL
	}
	data, err := render.ExportJSON(state.Report, meta)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+render.ExportFilename(meta.Timestamp)+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (s *Server) reportText(c *gin.Context) {
	sess := mustSession(c)
	state := sess.Page.Snapshot()
	if state.Report == nil {
		c.String(http.StatusNotFound, "no report")
		return
	}
	lang, _ := sess.Prefs()
	texts := i18n.Lookup(i18n.Resolve(lang, state.Report.Summary+" "+firstOf(state.Report.CoreArguments)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(render.PlainText(state.Report, texts)))
}

func (s *Server) renderPage(c *gin.Context, status int, sess *session.Session) {
	state := sess.Page.Snapshot()
	lang, theme := sess.Prefs()

	view := render.Build(state.Report, state.Analyzing, render.Options{
		Lang:    lang,
		Mode:    state.Form.Mode,
		Elapsed: state.Elapsed,
	})
	texts := i18n.Lookup(i18n.Resolve(lang, ""))
	if view != nil {
		texts = view.Texts
	}

	var buf bytes.Buffer
	err := render.HTML(&buf, render.PageData{
		Texts:     texts,
		Theme:     theme,
		Form:      state.Form,
		View:      view,
		Analyzing: state.Analyzing,
		Elapsed:   state.Elapsed,
		HasReport: state.Report != nil && !state.Analyzing,
	})
	if err != nil {
		s.logger.Error("render page", zap.Error(err))
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// notifyingAnalyzer signals once the request is actually issued, so the
// handler can redirect only after the page shows the loading state
type notifyingAnalyzer struct {
	form.Analyzer
	started chan struct{}
	once    sync.Once
}

func (a *notifyingAnalyzer) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.Report, error) {
	a.once.Do(func() { close(a.started) })
	return a.Analyzer.Analyze(ctx, req)
}

func firstOf(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[0]
}
