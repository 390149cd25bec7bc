package adapters

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ppiankov/deepread/internal/extract"
)

// Adapter defines the interface for site-specific article extractors
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter can handle the given URL/content
	CanHandle(pageURL *url.URL, contentType string) bool

	// Extract pulls the article out of the parsed document
	Extract(doc *html.Node, pageURL *url.URL) (*extract.Article, error)
}

// Registry manages site adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a new adapter registry
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
	}

	// Register built-in adapters
	registry.Register(NewWeChatAdapter())

	// Set generic adapter as fallback
	registry.generic = NewGenericAdapter()

	return registry
}

// Register registers a new adapter
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the best adapter for the given URL and content type
func (r *Registry) FindAdapter(pageURL *url.URL, contentType string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(pageURL, contentType) {
			return adapter
		}
	}
	return r.generic
}

// Extract parses body once and runs the matching adapter. When a
// site adapter finds nothing the generic adapter gets a second try.
func (r *Registry) Extract(body []byte, pageURL *url.URL, contentType string) (*extract.Article, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	adapter := r.FindAdapter(pageURL, contentType)
	article, err := adapter.Extract(doc, pageURL)
	if (err != nil || article.Empty()) && adapter != r.generic {
		article, err = r.generic.Extract(doc, pageURL)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", adapter.Name(), err)
	}
	if article.Empty() {
		return nil, extract.ErrNoContent
	}

	article.URL = pageURL.String()
	return article, nil
}

// BaseAdapter provides common functionality for adapters
type BaseAdapter struct{}

// blockElements end a line when flattening a node to text
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.Br: true, atom.Li: true, atom.Blockquote: true, atom.Pre: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Tr: true, atom.Figure: true, atom.Figcaption: true,
}

// skipElements never contribute text
var skipElements = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true, atom.Template: true, atom.Svg: true,
}

// ExtractText flattens a node to text, one paragraph per block element
func (b *BaseAdapter) ExtractText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		switch node.Type {
		case html.TextNode:
			buf.WriteString(node.Data)
			return
		case html.ElementNode:
			if skipElements[node.DataAtom] {
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if node.Type == html.ElementNode && blockElements[node.DataAtom] {
			buf.WriteString("\n\n")
		}
	}

	walk(n)
	return extract.CleanText(buf.String())
}

// GetAttribute gets an attribute value from a node
func (b *BaseAdapter) GetAttribute(n *html.Node, attrKey string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrKey {
			return attr.Val
		}
	}
	return ""
}

// FindFirst finds the first node matching a predicate
func (b *BaseAdapter) FindFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	var result *html.Node

	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if predicate(node) {
			result = node
			return true
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return result
}

func isElement(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == a
	}
}
