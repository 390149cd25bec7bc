// Package page is the root orchestrator. It owns the two state cells the
// display depends on (the current report and the analyzing flag) and wires
// the input component's callbacks to them.
package page

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ppiankov/deepread/internal/form"
	"github.com/ppiankov/deepread/internal/i18n"
	"github.com/ppiankov/deepread/internal/model"
)

// ErrClosed is returned when submitting to a page that was torn down
var ErrClosed = errors.New("page: closed")

// Options configures a Page
type Options struct {
	// Mode preselected in the form
	Mode model.Mode

	// OnTick receives elapsed seconds while an analysis runs.
	// It runs on the stopwatch goroutine and must not call back into the Page.
	OnTick func(seconds int)

	// TickInterval defaults to one second
	TickInterval time.Duration
}

// State is a point-in-time copy of the page, safe to render
type State struct {
	Report    *model.Report
	Analyzing bool
	Elapsed   int // Whole seconds of the running or last analysis
	Form      form.Form
}

// Page holds the state for one user
type Page struct {
	mu         sync.Mutex
	report     *model.Report
	analyzing  bool
	submitting bool
	closed     bool
	elapsed    int
	form       form.Form
	stopwatch  *Stopwatch
	cancel     context.CancelFunc

	onTick   func(int)
	interval time.Duration
}

// New creates an idle page with no report
func New(opts Options) *Page {
	mode := opts.Mode
	if mode == "" {
		mode = model.ModeConcise
	}
	return &Page{
		form:     form.Form{Tab: form.TabURL, Mode: mode},
		onTick:   opts.OnTick,
		interval: opts.TickInterval,
	}
}

// Start clears the report and marks an analysis as running
func (p *Page) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.report = nil
	p.analyzing = true
	p.stopStopwatch()
	p.elapsed = 0
	if !p.closed {
		p.stopwatch = StartStopwatch(p.interval, p.onTick)
	}
}

// Complete stores the report (nil after a failure) and clears analyzing
func (p *Page) Complete(report *model.Report) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.report = report
	p.analyzing = false
	p.stopStopwatch()
}

// Analyzing reports whether an analysis is running
func (p *Page) Analyzing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.analyzing || p.submitting
}

// Submit runs one analysis through the form. Only one submission may be in
// flight; a concurrent call gets form.ErrInFlight.
func (p *Page) Submit(ctx context.Context, analyzer form.Analyzer, f form.Form, texts i18n.Texts) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	reserved := false
	hooks := form.Hooks{
		Busy: func() bool {
			reserved = p.reserve(cancel)
			return !reserved
		},
		OnStart:    p.Start,
		OnComplete: p.Complete,
	}

	err := f.Submit(ctx, analyzer, hooks, texts)

	p.mu.Lock()
	if reserved {
		p.submitting = false
		p.cancel = nil
	}
	if !p.closed {
		p.form = f
	}
	closed := p.closed
	p.mu.Unlock()

	if closed && errors.Is(err, form.ErrInFlight) {
		return ErrClosed
	}
	return err
}

// reserve claims the single in-flight slot
func (p *Page) reserve(cancel context.CancelFunc) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.analyzing || p.submitting {
		return false
	}
	p.submitting = true
	p.cancel = cancel
	return true
}

// SetForm replaces the form state, e.g. after a rejected submission
func (p *Page) SetForm(f form.Form) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form = f
}

// SetMode changes the display mode without touching the report
func (p *Page) SetMode(mode model.Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form.Mode = mode
}

// Reset clears the report and the form inputs, keeping the selected mode.
// A running analysis is left alone.
func (p *Page) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.analyzing || p.submitting {
		return
	}
	p.report = nil
	p.elapsed = 0
	p.form = form.Form{Tab: p.form.Tab, Mode: p.form.Mode}
}

// Snapshot copies the current state
func (p *Page) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := p.elapsed
	if p.stopwatch != nil {
		elapsed = p.stopwatch.Seconds()
	}
	return State{
		Report:    p.report.Clone(),
		Analyzing: p.analyzing,
		Elapsed:   elapsed,
		Form:      p.form,
	}
}

// Close tears the page down: the stopwatch stops and any in-flight request
// is canceled
func (p *Page) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	p.stopStopwatch()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// stopStopwatch must be called with p.mu held
func (p *Page) stopStopwatch() {
	if p.stopwatch == nil {
		return
	}
	p.elapsed = p.stopwatch.Stop()
	p.stopwatch = nil
}
