package render

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/deepread/internal/i18n"
	"github.com/ppiankov/deepread/internal/model"
)

// ExportMeta describes where an exported report came from
type ExportMeta struct {
	Title     string    `json:"title,omitempty"`
	URL       string    `json:"url,omitempty"`
	Mode      string    `json:"mode,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// exportDoc is the downloadable JSON document
type exportDoc struct {
	ExportMeta
	CoreViewpoints   []string `json:"coreViewpoints"`
	ArgumentAnalysis string   `json:"argumentAnalysis"`
	PotentialIssues  []string `json:"potentialIssues"`
	GoldenQuotes     []string `json:"goldenQuotes"`
	Summary          string   `json:"summary,omitempty"`
	FirstPrinciples  []string `json:"firstPrinciples,omitempty"`
	Boundaries       []string `json:"boundaries,omitempty"`
}

// PlainText is the clipboard form of a report: numbered core arguments,
// numbered critical questions and numbered quotes in double quotes.
func PlainText(report *model.Report, texts i18n.Texts) string {
	if report == nil {
		return ""
	}
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s：\n", texts.CoreArguments)
	numbered(&sb, report.CoreArguments, "%d. %s\n")

	fmt.Fprintf(&sb, "\n%s：\n", texts.CriticalQuestions)
	numbered(&sb, report.CriticalQuestions, "%d. %s\n")

	fmt.Fprintf(&sb, "\n%s：\n", texts.KeyQuotes)
	numbered(&sb, report.KeyQuotes, "%d. \"%s\"\n")

	return sb.String()
}

func numbered(sb *strings.Builder, items []string, format string) {
	for i, item := range items {
		fmt.Fprintf(sb, format, i+1, item)
	}
}

// ExportJSON encodes the report with its provenance for download
func ExportJSON(report *model.Report, meta ExportMeta) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("export: no report")
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}
	if meta.Title == "" && meta.URL != "" {
		meta.Title = Subject(meta.URL)
	}

	doc := exportDoc{
		ExportMeta:       meta,
		CoreViewpoints:   nonNil(report.CoreArguments),
		ArgumentAnalysis: strings.Join(report.ArgumentAnalysis, "\n\n"),
		PotentialIssues:  nonNil(report.CriticalQuestions),
		GoldenQuotes:     nonNil(report.KeyQuotes),
		Summary:          report.Summary,
		FirstPrinciples:  report.FirstPrinciples,
		Boundaries:       report.Boundaries,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return data, nil
}

// ExportFilename names a download after the export time
func ExportFilename(t time.Time) string {
	return "analysis-" + strconv.FormatInt(t.UnixMilli(), 10) + ".json"
}

// Subject extracts a human-readable subject from an article URL
func Subject(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]

	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")

	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}
	if strings.TrimSpace(last) == "" {
		return parsed.Host
	}
	return last
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
