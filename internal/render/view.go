// Package render is the result display. Build maps a report onto an ordered
// set of labeled sections; the HTML, terminal, Markdown and export renderers
// all work from that one mapping.
package render

import (
	"strconv"
	"strings"

	"github.com/ppiankov/deepread/internal/i18n"
	"github.com/ppiankov/deepread/internal/model"
)

// SkeletonRows is the number of placeholder rows shown while loading
const SkeletonRows = 4

// Style decides how a section's entries are drawn
type Style string

const (
	StyleNumbered Style = "numbered" // Numbered badges
	StyleProse    Style = "prose"    // Free-text block
	StyleQuote    Style = "quote"    // Block quotes
	StyleBulleted Style = "bulleted"
)

// Entry is one item of a section
type Entry struct {
	Badge string // "1", "2", ... for numbered sections
	Text  string
}

// Section is one labeled card
type Section struct {
	Key     string
	Title   string
	Style   Style
	Entries []Entry
}

// View is everything a renderer needs. A nil *View renders nothing.
type View struct {
	Texts     i18n.Texts
	Mode      model.Mode
	ModeLabel string

	Loading  bool
	Skeleton int // Placeholder rows when Loading
	Elapsed  int

	Empty    bool // Report present but carries no analysis
	Summary  string
	Sections []Section
}

// Options configure Build
type Options struct {
	Lang    i18n.Lang
	Mode    model.Mode
	Elapsed int
}

// Build is a pure function of its inputs. Loading wins over any report;
// a nil report without loading yields nil.
func Build(report *model.Report, loading bool, opts Options) *View {
	if !loading && report == nil {
		return nil
	}

	lang := i18n.Resolve(opts.Lang, sampleText(report))
	texts := i18n.Lookup(lang)
	mode := opts.Mode
	if mode == "" {
		mode = model.ModeConcise
	}

	v := &View{
		Texts:     texts,
		Mode:      mode,
		ModeLabel: modeLabel(mode, texts),
		Elapsed:   opts.Elapsed,
	}

	if loading {
		v.Loading = true
		v.Skeleton = SkeletonRows
		return v
	}

	if report.IsEmpty() {
		v.Empty = true
		return v
	}

	v.Summary = report.Summary
	v.Sections = appendSection(v.Sections, "core_arguments", texts.CoreArguments, StyleNumbered, report.CoreArguments)
	v.Sections = appendSection(v.Sections, "argument_analysis", texts.ArgumentAnalysis, StyleProse, report.ArgumentAnalysis)
	v.Sections = appendSection(v.Sections, "critical_questions", texts.CriticalQuestions, StyleNumbered, report.CriticalQuestions)
	v.Sections = appendSection(v.Sections, "key_quotes", texts.KeyQuotes, StyleQuote, report.KeyQuotes)
	if mode == model.ModeExpert {
		v.Sections = appendSection(v.Sections, "first_principles", texts.FirstPrinciples, StyleNumbered, report.FirstPrinciples)
		v.Sections = appendSection(v.Sections, "boundaries", texts.Boundaries, StyleBulleted, report.Boundaries)
	}

	return v
}

// Section returns the section with the given key, or nil
func (v *View) Section(key string) *Section {
	if v == nil {
		return nil
	}
	for i := range v.Sections {
		if v.Sections[i].Key == key {
			return &v.Sections[i]
		}
	}
	return nil
}

func appendSection(sections []Section, key, title string, style Style, items []string) []Section {
	if len(items) == 0 {
		return sections
	}
	entries := make([]Entry, 0, len(items))
	for i, item := range items {
		e := Entry{Text: item}
		if style == StyleNumbered {
			e.Badge = strconv.Itoa(i + 1)
		}
		entries = append(entries, e)
	}
	return append(sections, Section{Key: key, Title: title, Style: style, Entries: entries})
}

func modeLabel(mode model.Mode, texts i18n.Texts) string {
	if mode == model.ModeExpert {
		return texts.DeepAnalysis
	}
	return texts.QuickAnalysis
}

// sampleText feeds language detection when the UI language is auto
func sampleText(report *model.Report) string {
	if report == nil {
		return ""
	}
	parts := []string{report.Summary}
	parts = append(parts, report.CoreArguments...)
	return strings.Join(parts, " ")
}
