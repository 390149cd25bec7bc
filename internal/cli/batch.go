package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ppiankov/deepread/internal/client"
	"github.com/ppiankov/deepread/internal/i18n"
	"github.com/ppiankov/deepread/internal/model"
	"github.com/ppiankov/deepread/internal/render"
	"github.com/ppiankov/deepread/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

var (
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze URLs from a file, one after another",
	Long: `Batch reads article URLs from a file (one per line, # for comments) and
analyzes them one at a time. Each successful analysis is written to the
output directory as <slug>.json and <slug>.md.

Example:
  deepread batch urls.txt
  deepread batch urls.txt --output-dir reports --mode expert`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "batch-timeout", 2*time.Hour, "overall batch timeout")
	batchCmd.Flags().String("mode", string(model.ModeConcise), "analysis mode (concise, expert)")
	batchCmd.Flags().String("lang", "zh", "label language (zh, en, auto)")
	batchCmd.Flags().String("endpoint", model.DefaultEndpoint, "analysis service endpoint")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	v := viper.GetViper()
	err := bindFlags(v, cmd.Flags(), map[string]string{
		"output.language": "lang",
		"ui.mode":         "mode",
		"client.endpoint": "endpoint",
	})
	if err != nil {
		return err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	logger, err := newLogger(zapcore.WarnLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	mode := model.ParseMode(string(cfg.UI.Mode))
	lang := i18n.ParseLang(cfg.Output.Language)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  deepread batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Endpoint:     %s\n", cfg.Client.Endpoint)
	fmt.Fprintf(os.Stderr, "  Mode:         %s\n", mode)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	urls, err := worker.ReadURLsFromFile(file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Loaded %d URLs\n\n", len(urls))

	successCount := 0
	failureCount := 0
	used := make(map[string]int)

	onResult := func(result worker.AnalyzeResult) {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.URL, result.Error)
			return
		}

		slug := uniqueSlug(used, sanitizeFilename(render.Subject(result.URL)))
		if err := writeBatchReport(result, slug, mode, lang); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.URL, err)
			return
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (%ds) → %s.json\n", result.URL, result.Elapsed, slug)
	}

	processor := worker.NewBatchProcessor(client.New(cfg.Client, logger), mode, i18n.Lookup(lang), onResult)
	results := processor.ProcessURLs(ctx, urls)

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d URLs\n", len(urls))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	if skipped := len(urls) - len(results); skipped > 0 {
		fmt.Fprintf(os.Stderr, "  Skipped:   %d\n", skipped)
	}
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return ctx.Err()
}

func writeBatchReport(result worker.AnalyzeResult, slug string, mode model.Mode, lang i18n.Lang) error {
	opts := renderOptions{Lang: lang, Mode: mode, Elapsed: result.Elapsed, Source: result.URL, ToFile: true}

	jsonOut, err := renderReport(result.Report, FormatJSON, opts)
	if err != nil {
		return err
	}
	mdOut, err := renderReport(result.Report, FormatMarkdown, opts)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(outputDir, slug+".json"), []byte(jsonOut), 0o644); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, slug+".md"), []byte(mdOut), 0o644); err != nil {
		return fmt.Errorf("failed to write Markdown: %w", err)
	}
	return nil
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename makes s safe to use as a file name
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(strings.TrimSpace(s))
	s = strings.Trim(s, ".-_")
	if s == "" {
		return "article"
	}

	// Limit length without splitting a rune
	if len(s) > 100 {
		cut := 100
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}

// uniqueSlug suffixes repeated slugs with -2, -3, ...
func uniqueSlug(used map[string]int, slug string) string {
	used[slug]++
	if n := used[slug]; n > 1 {
		return fmt.Sprintf("%s-%d", slug, n)
	}
	return slug
}
