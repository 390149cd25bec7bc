package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/deepread/internal/form"
	"github.com/ppiankov/deepread/internal/i18n"
	"github.com/ppiankov/deepread/internal/model"
	"github.com/ppiankov/deepread/internal/page"
)

// AnalyzeResult is the outcome of one URL in a batch
type AnalyzeResult struct {
	URL     string
	Report  *model.Report
	Elapsed int // Whole seconds
	Error   error
}

// BatchProcessor analyzes URLs one after another through a single page, so
// there is never more than one request in flight
type BatchProcessor struct {
	analyzer form.Analyzer
	mode     model.Mode
	texts    i18n.Texts
	onResult func(AnalyzeResult)
}

// NewBatchProcessor creates a new batch processor. onResult, if set, is
// called after each URL completes.
func NewBatchProcessor(analyzer form.Analyzer, mode model.Mode, texts i18n.Texts, onResult func(AnalyzeResult)) *BatchProcessor {
	return &BatchProcessor{
		analyzer: analyzer,
		mode:     mode,
		texts:    texts,
		onResult: onResult,
	}
}

// ProcessURLs analyzes every URL in order. It stops early only when ctx ends.
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []AnalyzeResult {
	results := make([]AnalyzeResult, 0, len(urls))

	p := page.New(page.Options{Mode: b.mode})
	defer p.Close()

	for _, u := range urls {
		if ctx.Err() != nil {
			break
		}

		f := form.Form{Tab: form.TabURL, URL: u, Mode: b.mode}
		err := p.Submit(ctx, b.analyzer, f, b.texts)
		state := p.Snapshot()

		result := AnalyzeResult{URL: u, Report: state.Report, Elapsed: state.Elapsed, Error: err}
		results = append(results, result)
		if b.onResult != nil {
			b.onResult(result)
		}
	}

	return results
}

// ReadURLsFromFile reads URLs from a file (one per line)
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
