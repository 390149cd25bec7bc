// Package form is the input component: it validates what the user typed,
// hands it to the analyzer once, and reports back through hooks.
package form

import (
	"context"
	"errors"
	"strings"

	"github.com/ppiankov/deepread/internal/i18n"
	"github.com/ppiankov/deepread/internal/model"
)

var (
	// ErrEmptyInput is returned when the active input is blank
	ErrEmptyInput = errors.New("form: empty input")

	// ErrInFlight is returned when a submission is made while one is running
	ErrInFlight = errors.New("form: analysis already in progress")
)

// Tab selects which input the form submits
type Tab string

const (
	TabURL     Tab = "url"
	TabContent Tab = "content"
)

// ParseTab maps a form value onto a Tab
func ParseTab(s string) Tab {
	if strings.TrimSpace(s) == string(TabContent) {
		return TabContent
	}
	return TabURL
}

// Analyzer performs one analysis request
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (*model.Report, error)
}

// Hooks connect the form to its owner
type Hooks struct {
	// Busy reports whether an analysis is already running. Nil means never.
	Busy func() bool

	// OnStart runs after validation passes, before the request is issued
	OnStart func()

	// OnComplete receives the report, or nil when the request failed
	OnComplete func(*model.Report)
}

// Form holds the mutable input state
type Form struct {
	Tab     Tab
	URL     string
	Content string
	Mode    model.Mode
	Error   string // Inline message shown under the form
}

// Input returns the text of the active tab, untrimmed
func (f *Form) Input() string {
	if f.Tab == TabContent {
		return f.Content
	}
	return f.URL
}

// Request builds the request for the active input
func (f *Form) Request() model.AnalysisRequest {
	kind := model.InputURL
	if f.Tab == TabContent {
		kind = model.InputContent
	}
	mode := f.Mode
	if mode == "" {
		mode = model.ModeConcise
	}
	return model.AnalysisRequest{
		Kind: kind,
		Data: strings.TrimSpace(f.Input()),
		Mode: mode,
	}
}

// Validate checks that the active input is not blank
func (f *Form) Validate(texts i18n.Texts) error {
	f.Error = ""
	if strings.TrimSpace(f.Input()) == "" {
		f.Error = texts.EmptyInput
		return ErrEmptyInput
	}
	return nil
}

// Submit validates, then calls the analyzer exactly once. On failure the
// error message is set and OnComplete receives nil, so the display shows
// no report rather than an empty one.
func (f *Form) Submit(ctx context.Context, analyzer Analyzer, hooks Hooks, texts i18n.Texts) error {
	f.Error = ""
	if hooks.Busy != nil && hooks.Busy() {
		f.Error = texts.Busy
		return ErrInFlight
	}
	if err := f.Validate(texts); err != nil {
		return err
	}

	if hooks.OnStart != nil {
		hooks.OnStart()
	}

	report, err := analyzer.Analyze(ctx, f.Request())
	if err != nil {
		f.Error = texts.AnalysisFailed
		if hooks.OnComplete != nil {
			hooks.OnComplete(nil)
		}
		return err
	}

	if hooks.OnComplete != nil {
		hooks.OnComplete(report)
	}
	return nil
}
