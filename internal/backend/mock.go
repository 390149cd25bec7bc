package backend

import (
	"context"

	"github.com/ppiankov/deepread/internal/model"
)

// MockAnalyzer returns one fixed report whatever the input
type MockAnalyzer struct{}

// Analyze implements form.Analyzer
func (MockAnalyzer) Analyze(ctx context.Context, _ model.AnalysisRequest) (*model.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return MockReport(), nil
}

// MockReport is the fixed development report
func MockReport() *model.Report {
	r := model.EmptyReport()
	r.CoreArguments = []string{
		"作者认为AI将深刻改变内容产业。",
		"技术进步带来新的商业模式。",
	}
	r.ArgumentAnalysis = []string{
		"作者引用了行业报告，数据较为充分。",
		"逻辑链条清晰，但部分观点缺乏反例支持。",
	}
	r.CriticalQuestions = []string{
		"AI内容生成是否会导致同质化？",
		"行业门槛降低后，优质内容如何突围？",
	}
	r.KeyQuotes = []string{
		"“未来的内容创作，AI是标配。”",
		"“技术不是终点，内容才是核心。”",
	}
	return r
}
