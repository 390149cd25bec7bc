// Package extract turns fetched pages into plain article text.
package extract

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoContent means no article body could be found on the page
var ErrNoContent = errors.New("no article content found")

// Article is the readable part of a page
type Article struct {
	URL         string
	Title       string
	Author      string
	PublishDate string
	Content     string // Plain text, paragraphs separated by blank lines
	Source      string // Adapter that produced it
}

// Empty reports whether the article has no body text
func (a *Article) Empty() bool {
	return a == nil || strings.TrimSpace(a.Content) == ""
}

var (
	spaceRun   = regexp.MustCompile(`[ \t\x{00a0}\x{3000}]+`)
	newlineRun = regexp.MustCompile(`\n{3,}`)
)

// CleanText collapses runs of blanks within lines and limits blank lines
// to one between paragraphs
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = newlineRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// FromText wraps pasted article text
func FromText(content string) *Article {
	return &Article{Content: CleanText(content), Source: "text"}
}
