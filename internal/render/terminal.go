package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Card palette
var (
	accent = lipgloss.AdaptiveColor{Light: "#4f46e5", Dark: "#818cf8"}
	muted  = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	amber  = lipgloss.Color("#f59e0b")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	badgeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(accent).Padding(0, 1)
	quoteStyle   = lipgloss.NewStyle().Italic(true).Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(amber).PaddingLeft(1)
	skeletonLine = lipgloss.NewStyle().Foreground(muted)
)

// Terminal renders the view as bordered cards for a terminal of the given
// width. A nil view renders nothing.
func Terminal(v *View, width int) string {
	if v == nil {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	inner := width - 4

	var blocks []string
	switch {
	case v.Loading:
		lines := []string{titleStyle.Render(v.Texts.Analyzing), mutedStyle.Render(v.Texts.AnalyzingDesc)}
		if v.Elapsed > 0 {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf(v.Texts.Elapsed, v.Elapsed)))
		}
		for i := 0; i < v.Skeleton; i++ {
			lines = append(lines, skeletonLine.Render(strings.Repeat("░", inner)))
		}
		blocks = append(blocks, card(inner, lines...))

	case v.Empty:
		blocks = append(blocks, card(inner, mutedStyle.Render(v.Texts.NoData)))

	default:
		header := []string{
			titleStyle.Render(v.Texts.AnalysisReport) + "  " + mutedStyle.Render(v.ModeLabel),
			mutedStyle.Render(v.Texts.AIGeneratedReport),
		}
		if v.Summary != "" {
			header = append(header, "", wrap(v.Summary, inner))
		}
		blocks = append(blocks, card(inner, header...))

		for _, s := range v.Sections {
			blocks = append(blocks, card(inner, sectionLines(s, inner)...))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func sectionLines(s Section, width int) []string {
	lines := []string{titleStyle.Render(s.Title), ""}
	for _, e := range s.Entries {
		switch s.Style {
		case StyleNumbered:
			badge := badgeStyle.Render(e.Badge)
			text := wrap(e.Text, width-lipgloss.Width(badge)-1)
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, badge, " ", text))
		case StyleQuote:
			lines = append(lines, quoteStyle.Render(wrap("“"+e.Text+"”", width-2)))
		case StyleBulleted:
			lines = append(lines, wrap("• "+e.Text, width))
		default:
			lines = append(lines, wrap(e.Text, width))
		}
		lines = append(lines, "")
	}
	return lines[:len(lines)-1]
}

func card(width int, lines ...string) string {
	return cardStyle.Width(width + 2).Render(strings.Join(lines, "\n"))
}

func wrap(s string, width int) string {
	if width < 10 {
		width = 10
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
