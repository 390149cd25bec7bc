package backend

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/deepread/internal/form"
	"github.com/ppiankov/deepread/internal/llm"
	"github.com/ppiankov/deepread/internal/model"
	"github.com/ppiankov/deepread/internal/pipeline"
)

// NewAnalyzer picks the analyzer named by backend.analyzer
func NewAnalyzer(cfg *model.Config, logger *zap.Logger) (form.Analyzer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend.Analyzer)) {
	case "", "mock":
		return MockAnalyzer{}, nil

	case "llm":
		llmCfg := llm.ConfigFromModel(cfg.LLM)
		llmCfg.HTTPProxy = cfg.Client.HTTPProxy
		llmCfg.HTTPSProxy = cfg.Client.HTTPSProxy
		provider, err := llm.NewProvider(llmCfg)
		if err != nil {
			return nil, fmt.Errorf("llm provider: %w", err)
		}
		return pipeline.New(cfg.Backend, provider, logger), nil

	default:
		return nil, fmt.Errorf("unknown analyzer: %q (supported: mock, llm)", cfg.Backend.Analyzer)
	}
}
