// Package pipeline is the analysis behind the development service: fetch
// the article (or take pasted text), ask the model, normalize its reply.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/deepread/internal/extract"
	"github.com/ppiankov/deepread/internal/extract/adapters"
	"github.com/ppiankov/deepread/internal/llm"
	"github.com/ppiankov/deepread/internal/model"
	"github.com/ppiankov/deepread/internal/normalize"
)

// ErrEmptyArticle is returned when neither a URL nor text was given
var ErrEmptyArticle = errors.New("empty article")

// Pipeline orchestrates one analysis
type Pipeline struct {
	fetcher  *Fetcher
	registry *adapters.Registry
	provider llm.Provider
	maxChars int
	logger   *zap.Logger
}

// New creates a pipeline from configuration and a ready provider
func New(cfg model.BackendConfig, provider llm.Provider, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		fetcher: NewFetcher(FetcherOptions{
			Timeout:           cfg.FetchTimeout,
			UserAgent:         cfg.UserAgent,
			MaxBytes:          cfg.MaxBodyBytes,
			RespectRobots:     cfg.RespectRobots,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.BurstSize,
		}),
		registry: adapters.NewRegistry(),
		provider: provider,
		maxChars: cfg.MaxContentChars,
		logger:   logger,
	}
}

// Analyze treats req.Data as an article URL when it is one, otherwise as
// the article text itself
func (p *Pipeline) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.Report, error) {
	data := strings.TrimSpace(req.Data)
	if data == "" {
		return nil, ErrEmptyArticle
	}

	var article *extract.Article
	if u, ok := articleURL(data); ok {
		fetched, err := p.fetcher.Fetch(ctx, u.String())
		if err != nil {
			return nil, fmt.Errorf("fetch article: %w", err)
		}
		article, err = p.registry.Extract(fetched.Body, fetched.FinalURL, fetched.ContentType)
		if err != nil {
			return nil, fmt.Errorf("extract article: %w", err)
		}
		p.logger.Debug("article extracted",
			zap.String("url", article.URL),
			zap.String("adapter", article.Source),
			zap.Int("chars", len([]rune(article.Content))))
	} else {
		article = extract.FromText(data)
	}

	resp, err := p.provider.Complete(ctx, llm.Request{
		System: llm.AnalysisSystemPrompt,
		Prompt: llm.BuildAnalysisPrompt(llm.Article{
			Title:       article.Title,
			Author:      article.Author,
			PublishDate: article.PublishDate,
			URL:         article.URL,
			Content:     article.Content,
		}, p.maxChars),
	})
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	p.logger.Debug("model replied",
		zap.String("provider", p.provider.Name()),
		zap.String("model", resp.Model),
		zap.Int("tokens", resp.TokensUsed))

	raw, err := llm.ExtractJSON(resp.Text)
	if err != nil {
		return nil, err
	}
	report, err := normalize.Normalize([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("normalize reply: %w", err)
	}
	return report, nil
}

// articleURL accepts only absolute http(s) URLs
func articleURL(s string) (*url.URL, bool) {
	if strings.ContainsAny(s, " \n\t") {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	return u, true
}
