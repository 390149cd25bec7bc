package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/ppiankov/deepread/internal/backend"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// backendCmd represents the backend command
var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Run a local analysis service",
	Long: `Backend runs a development analysis service on POST /api/v1/analysis.

With --analyzer mock (the default) every request gets the same canned
report. With --analyzer llm the article is fetched (robots.txt and per-host
rate limits respected), extracted and sent to the configured model.

Example:
  deepread backend
  DASHSCOPE_API_KEY=sk-... deepread backend --analyzer llm
  deepread backend --analyzer llm --llm-provider anthropic --llm-model claude-3-5-haiku-latest`,
	Args: cobra.NoArgs,
	RunE: runBackend,
}

func init() {
	rootCmd.AddCommand(backendCmd)

	backendCmd.Flags().String("addr", "127.0.0.1:8000", "listen address")
	backendCmd.Flags().String("analyzer", "mock", "analyzer (mock, llm)")
	backendCmd.Flags().String("llm-provider", "qwen", "LLM provider (qwen, openai, anthropic, ollama)")
	backendCmd.Flags().String("llm-model", "qwen-turbo", "LLM model name")
}

func runBackend(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	err := bindFlags(v, cmd.Flags(), map[string]string{
		"backend.addr":     "addr",
		"backend.analyzer": "analyzer",
		"llm.provider":     "llm-provider",
		"llm.model":        "llm-model",
	})
	if err != nil {
		return err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	logger, err := newLogger(zapcore.InfoLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	analyzer, err := backend.NewAnalyzer(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("analyzer ready",
		zap.String("analyzer", cfg.Backend.Analyzer),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("llm_model", cfg.LLM.Model))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return backend.New(cfg.Backend, analyzer, logger).Run(ctx)
}
