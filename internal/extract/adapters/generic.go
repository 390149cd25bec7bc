package adapters

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ppiankov/deepread/internal/extract"
)

// GenericAdapter is the fallback adapter for unknown sites. It runs the
// readability algorithm and, when that finds nothing, takes the body text.
type GenericAdapter struct {
	BaseAdapter
}

// NewGenericAdapter creates a new generic adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle always returns true (fallback adapter)
func (a *GenericAdapter) CanHandle(pageURL *url.URL, contentType string) bool {
	return true
}

// Extract runs readability over the document
func (a *GenericAdapter) Extract(doc *html.Node, pageURL *url.URL) (*extract.Article, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	parser := readability.NewParser()
	parsed, err := parser.Parse(&buf, pageURL)
	if err == nil {
		content, cerr := a.contentText(parsed.Content)
		if cerr == nil && content != "" {
			article := &extract.Article{
				Title:   strings.TrimSpace(parsed.Title),
				Author:  strings.TrimSpace(parsed.Byline),
				Content: content,
				Source:  a.Name(),
			}
			if parsed.PublishedTime != nil {
				article.PublishDate = parsed.PublishedTime.Format("2006-01-02")
			}
			return article, nil
		}
	}

	// Readability gave up; fall back to the whole body
	body := a.FindFirst(doc, isElement(atom.Body))
	if body == nil {
		return nil, extract.ErrNoContent
	}
	article := &extract.Article{
		Content: a.ExtractText(body),
		Source:  a.Name(),
	}
	if title := a.FindFirst(doc, isElement(atom.Title)); title != nil {
		article.Title = a.ExtractText(title)
	}
	return article, nil
}

// contentText flattens readability's cleaned HTML
func (a *GenericAdapter) contentText(contentHTML string) (string, error) {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(contentHTML))
	if err != nil {
		return "", err
	}
	if len(d.Nodes) == 0 {
		return "", nil
	}
	return a.ExtractText(d.Nodes[0]), nil
}
