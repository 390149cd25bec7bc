package render

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/deepread/internal/form"
	"github.com/ppiankov/deepread/internal/i18n"
	"github.com/ppiankov/deepread/internal/model"
)

func sampleReport() *model.Report {
	r := model.EmptyReport()
	r.CoreArguments = []string{"X", "Y"}
	r.ArgumentAnalysis = []string{"first paragraph", "second paragraph"}
	r.CriticalQuestions = []string{"Why?"}
	r.KeyQuotes = []string{"Q"}
	r.FirstPrinciples = []string{"P"}
	r.Boundaries = []string{"B"}
	return r
}

func renderHTML(t *testing.T, v *View) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, PageData{
		Texts: i18n.Lookup(i18n.Chinese),
		Form:  form.Form{Tab: form.TabURL, Mode: model.ModeConcise},
		View:  v,
	}))
	return buf.String()
}

func TestBuild_LoadingWinsOverReport(t *testing.T) {
	v := Build(sampleReport(), true, Options{Lang: i18n.Chinese})
	require.NotNil(t, v)
	assert.True(t, v.Loading)
	assert.Equal(t, SkeletonRows, v.Skeleton)
	assert.Empty(t, v.Sections)
	assert.Empty(t, v.Summary)

	html := renderHTML(t, v)
	assert.Equal(t, SkeletonRows, strings.Count(html, `class="skeleton"`))
	assert.NotContains(t, html, "核心观点提炼")
}

func TestBuild_NilWhenIdle(t *testing.T) {
	assert.Nil(t, Build(nil, false, Options{}))

	html := renderHTML(t, nil)
	assert.NotContains(t, html, `class="card report"`)
	assert.NotContains(t, html, `class="skeleton"`)
}

func TestBuild_LoadingWithoutReport(t *testing.T) {
	v := Build(nil, true, Options{})
	require.NotNil(t, v)
	assert.True(t, v.Loading)
}

func TestBuild_EmptyReport(t *testing.T) {
	v := Build(model.EmptyReport(), false, Options{Lang: i18n.Chinese})
	require.NotNil(t, v)
	assert.True(t, v.Empty)
	assert.Empty(t, v.Sections)
	assert.Contains(t, renderHTML(t, v), "暂无分析数据")
}

func TestBuild_SectionOrder(t *testing.T) {
	tests := []struct {
		name string
		mode model.Mode
		want []string
	}{
		{"concise", model.ModeConcise, []string{"core_arguments", "argument_analysis", "critical_questions", "key_quotes"}},
		{"expert", model.ModeExpert, []string{"core_arguments", "argument_analysis", "critical_questions", "key_quotes", "first_principles", "boundaries"}},
		{"default", "", []string{"core_arguments", "argument_analysis", "critical_questions", "key_quotes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Build(sampleReport(), false, Options{Mode: tt.mode})
			var keys []string
			for _, s := range v.Sections {
				keys = append(keys, s.Key)
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestBuild_NumberedEntries(t *testing.T) {
	v := Build(sampleReport(), false, Options{Lang: i18n.Chinese})

	core := v.Section("core_arguments")
	require.NotNil(t, core)
	assert.Equal(t, StyleNumbered, core.Style)
	assert.Equal(t, []Entry{{Badge: "1", Text: "X"}, {Badge: "2", Text: "Y"}}, core.Entries)

	analysis := v.Section("argument_analysis")
	require.NotNil(t, analysis)
	assert.Equal(t, StyleProse, analysis.Style)
	assert.Len(t, analysis.Entries, 2)
	assert.Empty(t, analysis.Entries[0].Badge)

	assert.Nil(t, v.Section("missing"))
}

func TestBuild_OmitsEmptySections(t *testing.T) {
	r := model.EmptyReport()
	r.KeyQuotes = []string{"Q"}
	v := Build(r, false, Options{})
	require.Len(t, v.Sections, 1)
	assert.Equal(t, "key_quotes", v.Sections[0].Key)
}

func TestBuild_ModeLabel(t *testing.T) {
	assert.Equal(t, "快速分析", Build(sampleReport(), false, Options{Lang: i18n.Chinese}).ModeLabel)
	assert.Equal(t, "Deep Analysis", Build(sampleReport(), false, Options{Lang: i18n.English, Mode: model.ModeExpert}).ModeLabel)
}

func TestHTML_EndToEnd(t *testing.T) {
	r := model.EmptyReport()
	r.CoreArguments = []string{"X"}
	r.KeyQuotes = []string{"Q"}

	html := renderHTML(t, Build(r, false, Options{Lang: i18n.Chinese}))

	assert.Regexp(t, regexp.MustCompile(`<span class="badge">1</span><span class="entry-text">X</span>`), html)
	assert.Regexp(t, regexp.MustCompile(`<blockquote class="quote">“Q”</blockquote>`), html)
	assert.NotContains(t, html, "论证过程拆解")
}

func TestHTML_Idempotent(t *testing.T) {
	v := Build(sampleReport(), false, Options{Lang: i18n.English, Mode: model.ModeExpert})
	assert.Equal(t, renderHTML(t, v), renderHTML(t, v))
	assert.Equal(t, Markdown(v), Markdown(v))
	assert.Equal(t, Terminal(v, 60), Terminal(v, 60))
}

func TestHTML_EscapesReportText(t *testing.T) {
	r := model.EmptyReport()
	r.CoreArguments = []string{"<script>alert(1)</script>"}
	html := renderHTML(t, Build(r, false, Options{}))
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestHTML_FormState(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, PageData{
		Texts:     i18n.Lookup(i18n.English),
		Form:      form.Form{Tab: form.TabContent, Content: "hello", Mode: model.ModeExpert, Error: "Analysis failed, please try again later!"},
		Analyzing: true,
		Elapsed:   3,
	}))
	html := buf.String()
	assert.Contains(t, html, "Analysis failed, please try again later!")
	assert.Contains(t, html, "3 s elapsed")
	assert.Contains(t, html, "hello")
	assert.Contains(t, html, `http-equiv="refresh"`)
}

func TestMarkdown(t *testing.T) {
	md := Markdown(Build(sampleReport(), false, Options{Lang: i18n.English, Mode: model.ModeExpert}))

	assert.Contains(t, md, "# Analysis Report")
	assert.Contains(t, md, "## Core Viewpoints\n\n1. X\n2. Y\n")
	assert.Contains(t, md, "> “Q”")
	assert.Contains(t, md, "- B\n")
	assert.Less(t, strings.Index(md, "Core Viewpoints"), strings.Index(md, "Golden Quotes"))

	assert.Empty(t, Markdown(nil))
	assert.Contains(t, Markdown(Build(nil, true, Options{Lang: i18n.English})), "Analyzing...")
}

func TestTerminal(t *testing.T) {
	out := Terminal(Build(sampleReport(), false, Options{Lang: i18n.English}), 70)
	assert.Contains(t, out, "Core Viewpoints")
	assert.Contains(t, out, "Why?")
	assert.NotContains(t, out, "First Principles")

	assert.Empty(t, Terminal(nil, 70))
	assert.Contains(t, Terminal(Build(model.EmptyReport(), false, Options{Lang: i18n.English}), 70), "No analysis data available")
}

func TestPlainText(t *testing.T) {
	got := PlainText(sampleReport(), i18n.Lookup(i18n.Chinese))
	want := "核心观点提炼：\n1. X\n2. Y\n\n潜在问题与启发：\n1. Why?\n\n金句摘录：\n1. \"Q\"\n"
	assert.Equal(t, want, got)
	assert.Empty(t, PlainText(nil, i18n.Lookup(i18n.Chinese)))
}

func TestExportJSON(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	data, err := ExportJSON(sampleReport(), ExportMeta{URL: "https://mp.weixin.qq.com/s/abc-def", Mode: "expert", Timestamp: ts})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "abc def", doc["title"])
	assert.Equal(t, []any{"X", "Y"}, doc["coreViewpoints"])
	assert.Equal(t, "first paragraph\n\nsecond paragraph", doc["argumentAnalysis"])
	assert.Equal(t, []any{"Why?"}, doc["potentialIssues"])
	assert.Equal(t, []any{"Q"}, doc["goldenQuotes"])
	assert.Equal(t, "2024-05-01T12:00:00Z", doc["timestamp"])

	_, err = ExportJSON(nil, ExportMeta{})
	assert.Error(t, err)
}

func TestExportFilename(t *testing.T) {
	ts := time.UnixMilli(1714564800123)
	assert.Equal(t, "analysis-1714564800123.json", ExportFilename(ts))
}

func TestSubject(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/", "example.com"},
		{"https://example.com/blog/my-first_post.html", "my first post"},
		{"https://mp.weixin.qq.com/s/Abc123", "Abc123"},
		{"not a url", "not a url"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Subject(tt.in), tt.in)
	}
}
