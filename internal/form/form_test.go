package form

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/deepread/internal/i18n"
	"github.com/ppiankov/deepread/internal/model"
)

type fakeAnalyzer struct {
	calls    int
	requests []model.AnalysisRequest
	report   *model.Report
	err      error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req model.AnalysisRequest) (*model.Report, error) {
	f.calls++
	f.requests = append(f.requests, req)
	return f.report, f.err
}

type recorder struct {
	started   int
	completed int
	last      *model.Report
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		OnStart: func() { r.started++ },
		OnComplete: func(rep *model.Report) {
			r.completed++
			r.last = rep
		},
	}
}

func TestSubmit_TrimsAndCallsOnce(t *testing.T) {
	inputs := []string{"https://mp.weixin.qq.com/s/abc", "  https://example.com/a  ", "\thello world\n"}
	for _, in := range inputs {
		analyzer := &fakeAnalyzer{report: &model.Report{CoreArguments: []string{"a"}}}
		rec := &recorder{}
		f := &Form{Tab: TabURL, URL: in}

		if err := f.Submit(context.Background(), analyzer, rec.hooks(), i18n.Lookup(i18n.Chinese)); err != nil {
			t.Fatalf("Submit(%q) failed: %v", in, err)
		}
		if analyzer.calls != 1 {
			t.Errorf("Submit(%q): expected 1 call, got %d", in, analyzer.calls)
		}
		if got := analyzer.requests[0].Data; got != strings.TrimSpace(in) {
			t.Errorf("Submit(%q): expected trimmed %q, got %q", in, strings.TrimSpace(in), got)
		}
		if rec.started != 1 || rec.completed != 1 || rec.last == nil {
			t.Errorf("Submit(%q): unexpected hook calls %+v", in, rec)
		}
		if f.Error != "" {
			t.Errorf("Submit(%q): unexpected error message %q", in, f.Error)
		}
	}
}

func TestSubmit_BlankInputNeverCallsAnalyzer(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t "} {
		analyzer := &fakeAnalyzer{}
		rec := &recorder{}
		f := &Form{Tab: TabURL, URL: in}

		err := f.Submit(context.Background(), analyzer, rec.hooks(), i18n.Lookup(i18n.Chinese))
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Submit(%q): expected ErrEmptyInput, got %v", in, err)
		}
		if analyzer.calls != 0 {
			t.Errorf("Submit(%q): analyzer called %d times", in, analyzer.calls)
		}
		if rec.started != 0 || rec.completed != 0 {
			t.Errorf("Submit(%q): hooks fired: %+v", in, rec)
		}
		if f.Error != "请输入文章链接或内容" {
			t.Errorf("Submit(%q): unexpected error message %q", in, f.Error)
		}
	}
}

func TestSubmit_FailureCompletesWithNil(t *testing.T) {
	analyzer := &fakeAnalyzer{err: errors.New("analysis request failed: status 500")}
	rec := &recorder{last: &model.Report{}}
	f := &Form{Tab: TabURL, URL: "https://example.com"}

	err := f.Submit(context.Background(), analyzer, rec.hooks(), i18n.Lookup(i18n.English))
	if err == nil {
		t.Fatal("Expected error")
	}
	if rec.completed != 1 || rec.last != nil {
		t.Errorf("Expected OnComplete(nil), got %+v", rec)
	}
	if f.Error != "Analysis failed, please try again later!" {
		t.Errorf("Unexpected error message %q", f.Error)
	}
}

func TestSubmit_ContentTab(t *testing.T) {
	analyzer := &fakeAnalyzer{report: model.EmptyReport()}
	f := &Form{Tab: TabContent, URL: "ignored", Content: "  文章内容  ", Mode: model.ModeExpert}

	if err := f.Submit(context.Background(), analyzer, Hooks{}, i18n.Lookup(i18n.Chinese)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	req := analyzer.requests[0]
	if req.Kind != model.InputContent || req.Data != "文章内容" || req.Mode != model.ModeExpert {
		t.Errorf("Unexpected request: %+v", req)
	}
}

func TestSubmit_BusyRejected(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	hooks := Hooks{Busy: func() bool { return true }}
	f := &Form{URL: "https://example.com"}

	err := f.Submit(context.Background(), analyzer, hooks, i18n.Lookup(i18n.Chinese))
	if !errors.Is(err, ErrInFlight) {
		t.Fatalf("Expected ErrInFlight, got %v", err)
	}
	if analyzer.calls != 0 {
		t.Errorf("Analyzer must not be called while busy")
	}
}

func TestRequest_DefaultMode(t *testing.T) {
	f := &Form{URL: "x"}
	if got := f.Request().Mode; got != model.ModeConcise {
		t.Errorf("Expected concise default, got %s", got)
	}
}

func TestParseTab(t *testing.T) {
	if ParseTab("content") != TabContent || ParseTab("url") != TabURL || ParseTab("") != TabURL {
		t.Error("Unexpected ParseTab mapping")
	}
}
