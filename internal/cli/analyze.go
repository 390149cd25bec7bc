package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/ppiankov/deepread/internal/client"
	"github.com/ppiankov/deepread/internal/form"
	"github.com/ppiankov/deepread/internal/i18n"
	"github.com/ppiankov/deepread/internal/model"
	"github.com/ppiankov/deepread/internal/page"
	"github.com/ppiankov/deepread/internal/render"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Output formats
const (
	FormatCards    = "cards"
	FormatMarkdown = "markdown"
	FormatText     = "text"
	FormatJSON     = "json"
)

var (
	analyzeText  string
	analyzeFile  string
	analyzeOut   string
	analyzeWidth int
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [url]",
	Short: "Analyze one article and print the report",
	Long: `Analyze sends one article link, or pasted article text, to the analysis
service and prints the report: core arguments, argument analysis, critical
questions and key quotes.

Example:
  deepread analyze https://mp.weixin.qq.com/s/abc123
  deepread analyze --text "$(pbpaste)" --mode expert
  deepread analyze --file article.txt --format json --out report.json
  deepread analyze https://example.com/post --format markdown --lang en`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Input flags
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "article content to analyze instead of a URL")
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "read article content from a file (- for stdin)")

	// Output flags
	analyzeCmd.Flags().String("format", FormatCards, "output format (cards, markdown, text, json)")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().IntVar(&analyzeWidth, "width", 80, "terminal width for cards and markdown")
	analyzeCmd.Flags().String("mode", string(model.ModeConcise), "analysis mode (concise, expert)")
	analyzeCmd.Flags().String("lang", "zh", "label language (zh, en, auto)")

	// Client flags
	analyzeCmd.Flags().String("endpoint", model.DefaultEndpoint, "analysis service endpoint")
	analyzeCmd.Flags().Duration("timeout", 3*time.Minute, "request timeout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	err := bindFlags(v, cmd.Flags(), map[string]string{
		"output.format":   "format",
		"output.language": "lang",
		"ui.mode":         "mode",
		"client.endpoint": "endpoint",
		"client.timeout":  "timeout",
	})
	if err != nil {
		return err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	f, err := buildForm(args, analyzeText, analyzeFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	f.Mode = model.ParseMode(string(cfg.UI.Mode))

	logger, err := newLogger(zapcore.WarnLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	lang := i18n.ParseLang(cfg.Output.Language)
	texts := i18n.Lookup(lang)

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", describeInput(f))
		fmt.Fprintf(os.Stderr, "Endpoint:  %s\n", cfg.Client.Endpoint)
		fmt.Fprintf(os.Stderr, "Mode:      %s\n\n", f.Mode)
	}

	p := page.New(page.Options{
		Mode: f.Mode,
		OnTick: func(seconds int) {
			if verbose {
				fmt.Fprintf(os.Stderr, "\r⚙️  %s %ds", texts.Analyzing, seconds)
			}
		},
	})
	defer p.Close()

	submitErr := p.Submit(ctx, client.New(cfg.Client, logger), f, texts)
	state := p.Snapshot()
	if verbose {
		fmt.Fprintf(os.Stderr, "\r✓ %ds\n\n", state.Elapsed)
	}
	if submitErr != nil {
		if errors.Is(submitErr, form.ErrEmptyInput) {
			return errors.New(state.Form.Error)
		}
		return fmt.Errorf("%s: %w", state.Form.Error, submitErr)
	}

	rendered, err := renderReport(state.Report, cfg.Output.Format, renderOptions{
		Lang:    lang,
		Mode:    f.Mode,
		Elapsed: state.Elapsed,
		Source:  sourceURL(f),
		Width:   analyzeWidth,
		ToFile:  analyzeOut != "",
	})
	if err != nil {
		return err
	}

	if analyzeOut == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), rendered)
		return err
	}
	if err := os.WriteFile(analyzeOut, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Report written to %s\n", analyzeOut)
	return nil
}

// buildForm picks the active input: --file, then --text, then the URL
// argument. Blank input is left for the form to reject.
func buildForm(args []string, text, file string, stdin io.Reader) (form.Form, error) {
	switch {
	case file != "":
		var (
			data []byte
			err  error
		)
		if file == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(file)
		}
		if err != nil {
			return form.Form{}, fmt.Errorf("read input: %w", err)
		}
		return form.Form{Tab: form.TabContent, Content: string(data)}, nil
	case text != "":
		return form.Form{Tab: form.TabContent, Content: text}, nil
	case len(args) > 0:
		return form.Form{Tab: form.TabURL, URL: args[0]}, nil
	default:
		return form.Form{Tab: form.TabURL}, nil
	}
}

func sourceURL(f form.Form) string {
	if f.Tab == form.TabURL {
		return strings.TrimSpace(f.URL)
	}
	return ""
}

func describeInput(f form.Form) string {
	if f.Tab == form.TabURL {
		return strings.TrimSpace(f.URL)
	}
	return fmt.Sprintf("pasted content (%d chars)", len([]rune(strings.TrimSpace(f.Content))))
}

type renderOptions struct {
	Lang    i18n.Lang
	Mode    model.Mode
	Elapsed int
	Source  string // Article URL, empty for pasted content
	Width   int
	ToFile  bool // Plain Markdown instead of ANSI-styled output
}

// renderReport renders a finished report in one of the output formats
func renderReport(report *model.Report, format string, opts renderOptions) (string, error) {
	if report == nil {
		return "", errors.New("no report to render")
	}
	view := render.Build(report, false, render.Options{Lang: opts.Lang, Mode: opts.Mode, Elapsed: opts.Elapsed})

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatCards:
		return render.Terminal(view, opts.Width), nil
	case FormatMarkdown, "md":
		if opts.ToFile {
			return render.Markdown(view), nil
		}
		out, err := render.TerminalMarkdown(view, opts.Width)
		if err != nil {
			return "", fmt.Errorf("render markdown: %w", err)
		}
		return out, nil
	case FormatText, "txt":
		return render.PlainText(report, view.Texts), nil
	case FormatJSON:
		data, err := render.ExportJSON(report, render.ExportMeta{
			URL:  opts.Source,
			Mode: string(opts.Mode),
		})
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("unknown format: %q (supported: cards, markdown, text, json)", format)
	}
}
