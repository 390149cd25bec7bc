package adapters

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/ppiankov/deepread/internal/extract"
)

// WeChatAdapter reads WeChat official-account articles (mp.weixin.qq.com)
type WeChatAdapter struct {
	BaseAdapter
}

// NewWeChatAdapter creates a new WeChat adapter
func NewWeChatAdapter() *WeChatAdapter {
	return &WeChatAdapter{}
}

// Name returns the adapter name
func (a *WeChatAdapter) Name() string {
	return "wechat"
}

// CanHandle checks for the WeChat article host
func (a *WeChatAdapter) CanHandle(pageURL *url.URL, contentType string) bool {
	return pageURL != nil && strings.EqualFold(pageURL.Hostname(), "mp.weixin.qq.com")
}

// Extract reads the body from #js_content. Title, author and publish time
// come from the page metadata when present.
func (a *WeChatAdapter) Extract(doc *html.Node, pageURL *url.URL) (*extract.Article, error) {
	d := goquery.NewDocumentFromNode(doc)

	body := d.Find("#js_content").First()
	if body.Length() == 0 {
		return nil, extract.ErrNoContent
	}

	article := &extract.Article{
		Title:       firstNonEmpty(metaContent(d, `meta[property="og:title"]`), textOf(d, "#activity-name"), textOf(d, "title")),
		Author:      firstNonEmpty(metaContent(d, `meta[name="author"]`), textOf(d, "#js_name")),
		PublishDate: textOf(d, "#publish_time"),
		Content:     a.ExtractText(body.Nodes[0]),
		Source:      a.Name(),
	}
	return article, nil
}

func metaContent(d *goquery.Document, selector string) string {
	val, _ := d.Find(selector).First().Attr("content")
	return strings.TrimSpace(val)
}

func textOf(d *goquery.Document, selector string) string {
	return extract.CleanText(d.Find(selector).First().Text())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
