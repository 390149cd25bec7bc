// Package i18n holds the UI labels in Chinese and English.
package i18n

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// Lang is a UI language code
type Lang string

const (
	Chinese Lang = "zh"
	English Lang = "en"
	Auto    Lang = "auto" // Pick from the analyzed text
)

// Texts is one complete label set
type Texts struct {
	Lang Lang

	Title       string
	Subtitle    string
	HeroDesc    string
	URLLabel    string
	URLHint     string
	ContentTab  string
	URLTab      string
	ContentHint string

	QuickAnalysis string
	DeepAnalysis  string
	QuickDesc     string
	DeepDesc      string

	StartAnalysis string
	Analyzing     string
	AnalyzingDesc string
	Elapsed       string // Printf format taking whole seconds

	AnalysisReport    string
	AIGeneratedReport string
	Summary           string
	CoreArguments     string
	ArgumentAnalysis  string
	CriticalQuestions string
	KeyQuotes         string
	FirstPrinciples   string
	Boundaries        string
	NoData            string

	Copy       string
	Export     string
	AnalyzeNew string

	EmptyInput     string
	AnalysisFailed string
	Busy           string
}

var texts = map[Lang]Texts{
	Chinese: {
		Lang:        Chinese,
		Title:       "智能文章分析",
		Subtitle:    "AI驱动的深度洞察",
		HeroDesc:    "粘贴任意文章链接，即可获得AI驱动的深度分析、摘要和可执行的洞察",
		URLLabel:    "微信公众号文章链接",
		URLHint:     "https://mp.weixin.qq.com/s/...",
		URLTab:      "链接分析",
		ContentTab:  "内容分析",
		ContentHint: "请粘贴完整的文章内容...",

		QuickAnalysis: "快速分析",
		DeepAnalysis:  "深度分析",
		QuickDesc:     "核心要点和关键洞察",
		DeepDesc:      "全面分析与深度建议",

		StartAnalysis: "开始分析",
		Analyzing:     "正在分析中...",
		AnalyzingDesc: "正在对文章进行深度分析，请稍候",
		Elapsed:       "已用时 %d 秒",

		AnalysisReport:    "深度分析报告",
		AIGeneratedReport: "AI生成的结构化分析报告",
		Summary:           "摘要",
		CoreArguments:     "核心观点提炼",
		ArgumentAnalysis:  "论证过程拆解",
		CriticalQuestions: "潜在问题与启发",
		KeyQuotes:         "金句摘录",
		FirstPrinciples:   "第一性原理",
		Boundaries:        "边界分析",
		NoData:            "暂无分析数据",

		Copy:       "复制",
		Export:     "导出",
		AnalyzeNew: "分析新文章",

		EmptyInput:     "请输入文章链接或内容",
		AnalysisFailed: "分析失败，请稍后重试！",
		Busy:           "已有分析正在进行，请稍候",
	},
	English: {
		Lang:        English,
		Title:       "Article Analyzer",
		Subtitle:    "AI-Powered Insights",
		HeroDesc:    "Paste any URL and unlock deep AI-powered analysis, summaries, and actionable insights in seconds",
		URLLabel:    "Article link",
		URLHint:     "https://example.com/your-article",
		URLTab:      "Link",
		ContentTab:  "Content",
		ContentHint: "Paste the full article text...",

		QuickAnalysis: "Quick Analysis",
		DeepAnalysis:  "Deep Analysis",
		QuickDesc:     "Essential insights and key takeaways",
		DeepDesc:      "In-depth insights with context and recommendations",

		StartAnalysis: "Start Analysis",
		Analyzing:     "Analyzing...",
		AnalyzingDesc: "Running a deep analysis of the article, please wait",
		Elapsed:       "%d s elapsed",

		AnalysisReport:    "Analysis Report",
		AIGeneratedReport: "AI-generated structured analysis report",
		Summary:           "Summary",
		CoreArguments:     "Core Viewpoints",
		ArgumentAnalysis:  "Argument Analysis",
		CriticalQuestions: "Potential Issues & Insights",
		KeyQuotes:         "Golden Quotes",
		FirstPrinciples:   "First Principles",
		Boundaries:        "Boundary Analysis",
		NoData:            "No analysis data available",

		Copy:       "Copy",
		Export:     "Export",
		AnalyzeNew: "Analyze New Article",

		EmptyInput:     "Please enter an article link or content",
		AnalysisFailed: "Analysis failed, please try again later!",
		Busy:           "An analysis is already running, please wait",
	},
}

// ParseLang normalizes a language code; unknown values map to Chinese
func ParseLang(s string) Lang {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en", "en-us", "english":
		return English
	case "auto":
		return Auto
	default:
		return Chinese
	}
}

// Lookup returns the label set for lang, falling back to Chinese
func Lookup(lang Lang) Texts {
	if t, ok := texts[lang]; ok {
		return t
	}
	return texts[Chinese]
}

// Resolve turns Auto into a concrete language by inspecting sample text
func Resolve(lang Lang, sample string) Lang {
	if lang != Auto {
		if _, ok := texts[lang]; ok {
			return lang
		}
		return Chinese
	}
	return Detect(sample)
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// Detect guesses whether text is Chinese or English. Blank or
// undecidable text yields Chinese.
func Detect(text string) Lang {
	if strings.TrimSpace(text) == "" {
		return Chinese
	}

	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.Chinese, lingua.English).
			Build()
	})

	if language, ok := detector.DetectLanguageOf(text); ok && language == lingua.English {
		return English
	}
	return Chinese
}
