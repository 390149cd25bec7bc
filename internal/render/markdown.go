package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders the view as GitHub-flavoured Markdown
func Markdown(v *View) string {
	if v == nil {
		return ""
	}
	var sb strings.Builder

	switch {
	case v.Loading:
		fmt.Fprintf(&sb, "## %s\n\n_%s_\n", v.Texts.Analyzing, v.Texts.AnalyzingDesc)
		return sb.String()
	case v.Empty:
		fmt.Fprintf(&sb, "_%s_\n", v.Texts.NoData)
		return sb.String()
	}

	fmt.Fprintf(&sb, "# %s\n\n", v.Texts.AnalysisReport)
	fmt.Fprintf(&sb, "**%s**  \n_%s_\n\n", v.ModeLabel, v.Texts.AIGeneratedReport)
	if v.Summary != "" {
		fmt.Fprintf(&sb, "%s\n\n", v.Summary)
	}

	for _, s := range v.Sections {
		fmt.Fprintf(&sb, "## %s\n\n", s.Title)
		for _, e := range s.Entries {
			switch s.Style {
			case StyleNumbered:
				fmt.Fprintf(&sb, "%s. %s\n", e.Badge, mdLine(e.Text))
			case StyleQuote:
				fmt.Fprintf(&sb, "> “%s”\n\n", mdLine(e.Text))
			case StyleBulleted:
				fmt.Fprintf(&sb, "- %s\n", mdLine(e.Text))
			default:
				fmt.Fprintf(&sb, "%s\n\n", e.Text)
			}
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// TerminalMarkdown renders the Markdown form through glamour
func TerminalMarkdown(v *View, width int) (string, error) {
	if v == nil {
		return "", nil
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(Markdown(v))
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// mdLine keeps list items on one line
func mdLine(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " ")
}
