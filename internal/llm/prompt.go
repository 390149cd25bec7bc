package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNoJSON is returned when a reply carries no JSON object
var ErrNoJSON = errors.New("no JSON object in model reply")

// AnalysisSystemPrompt frames every article analysis
const AnalysisSystemPrompt = `你是一名严谨的阅读分析师。你只根据给出的文章内容进行分析，不编造文章中不存在的事实。
You are a rigorous reading analyst. Analyze only the article you are given and never invent facts it does not contain.
Reply with a single JSON object and nothing else.`

// Article is the input of an analysis prompt
type Article struct {
	Title       string
	Author      string
	PublishDate string
	URL         string
	Content     string
}

// BuildAnalysisPrompt asks for the report fields as one JSON object.
// Content longer than maxChars runes is truncated.
func BuildAnalysisPrompt(article Article, maxChars int) string {
	content := strings.TrimSpace(article.Content)
	if maxChars > 0 {
		if runes := []rune(content); len(runes) > maxChars {
			content = string(runes[:maxChars]) + "\n[...]"
		}
	}

	var sb strings.Builder
	sb.WriteString("请对下面的文章进行深度分析，并严格按照以下 JSON 结构输出，使用文章的语言作答：\n")
	sb.WriteString(`{
  "summary": "一段话概括全文",
  "core_arguments": ["核心观点提炼，每条一句"],
  "argument_analysis": ["论证过程拆解，每条一段"],
  "critical_questions": ["潜在问题与启发"],
  "key_quotes": ["金句摘录，原文引用，不加引号"],
  "first_principles": ["文章依赖的第一性原理"],
  "boundaries": ["结论成立的边界条件"]
}
`)
	sb.WriteString("\n--- 文章 ---\n")
	if article.Title != "" {
		fmt.Fprintf(&sb, "标题: %s\n", article.Title)
	}
	if article.Author != "" {
		fmt.Fprintf(&sb, "作者: %s\n", article.Author)
	}
	if article.PublishDate != "" {
		fmt.Fprintf(&sb, "发布时间: %s\n", article.PublishDate)
	}
	if article.URL != "" {
		fmt.Fprintf(&sb, "链接: %s\n", article.URL)
	}
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n--- 结束 ---\n")
	return sb.String()
}

// ExtractJSON returns the first complete JSON object in a model reply,
// skipping code fences and any chatter around it
func ExtractJSON(reply string) (string, error) {
	for start := strings.IndexByte(reply, '{'); start >= 0; {
		if end := matchBrace(reply, start); end > start {
			candidate := reply[start : end+1]
			if gjson.Valid(candidate) {
				return candidate, nil
			}
		}
		next := strings.IndexByte(reply[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return "", ErrNoJSON
}

// matchBrace finds the brace closing the one at start, honoring strings
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
