package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_SnakeCaseBackendShape(t *testing.T) {
	body := []byte(`{
		"core_arguments": ["作者认为AI将深刻改变内容产业。", "技术进步带来新的商业模式。"],
		"argument_analysis": ["作者引用了行业报告，数据较为充分。"],
		"critical_questions": ["AI内容生成是否会导致同质化？"],
		"key_quotes": ["“未来的内容创作，AI是标配。”"]
	}`)

	report, err := Normalize(body)
	require.NoError(t, err)

	assert.Equal(t, []string{"作者认为AI将深刻改变内容产业。", "技术进步带来新的商业模式。"}, report.CoreArguments)
	assert.Equal(t, []string{"作者引用了行业报告，数据较为充分。"}, report.ArgumentAnalysis)
	assert.Equal(t, []string{"AI内容生成是否会导致同质化？"}, report.CriticalQuestions)
	assert.Equal(t, []string{"“未来的内容创作，AI是标配。”"}, report.KeyQuotes)
	assert.Empty(t, report.Summary)
	assert.NotNil(t, report.FirstPrinciples)
	assert.NotNil(t, report.Boundaries)
	assert.Equal(t, 1, report.SchemaVersion)
}

func TestNormalize_CamelCaseWithStringAnalysis(t *testing.T) {
	body := []byte(`{
		"coreArguments": ["数字化转型是必选项"],
		"argumentAnalysis": "作者通过多个维度论证了数字化转型的重要性：\n\n1. 市场环境论证",
		"criticalQuestions": ["是否存在一刀切的问题？", "ROI 如何量化？"],
		"keyQuotes": ["最大的风险不是转型失败，而是不敢开始转型"],
		"summary": "文章深度分析了企业数字化转型的必要性和实施路径"
	}`)

	report, err := Normalize(body)
	require.NoError(t, err)

	assert.Equal(t, []string{"数字化转型是必选项"}, report.CoreArguments)
	require.Len(t, report.ArgumentAnalysis, 1)
	assert.Contains(t, report.ArgumentAnalysis[0], "\n\n1. 市场环境论证")
	assert.Len(t, report.CriticalQuestions, 2)
	assert.Equal(t, "文章深度分析了企业数字化转型的必要性和实施路径", report.Summary)
}

func TestNormalize_ViewpointsShape(t *testing.T) {
	body := []byte(`{
		"coreViewpoints": ["A", "B"],
		"argumentAnalysis": ["C"],
		"potentialIssues": ["D"],
		"goldenQuotes": ["E"],
		"firstPrinciples": ["F"],
		"boundaries": ["G", "H"]
	}`)

	report, err := Normalize(body)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, report.CoreArguments)
	assert.Equal(t, []string{"C"}, report.ArgumentAnalysis)
	assert.Equal(t, []string{"D"}, report.CriticalQuestions)
	assert.Equal(t, []string{"E"}, report.KeyQuotes)
	assert.Equal(t, []string{"F"}, report.FirstPrinciples)
	assert.Equal(t, []string{"G", "H"}, report.Boundaries)
}

func TestNormalize_AliasPriority(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"snake wins over camel", `{"core_arguments":["snake"],"coreArguments":["camel"]}`, []string{"snake"}},
		{"null falls through", `{"core_arguments":null,"coreArguments":["camel"]}`, []string{"camel"}},
		{"empty list does not fall through", `{"core_arguments":[],"coreViewpoints":["vp"]}`, []string{}},
		{"last alias", `{"core_viewpoints":["vp"]}`, []string{"vp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Normalize([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.CoreArguments)
		})
	}
}

func TestNormalize_MissingFieldsBecomeEmptyLists(t *testing.T) {
	report, err := Normalize([]byte(`{}`))
	require.NoError(t, err)

	assert.NotNil(t, report.CoreArguments)
	assert.NotNil(t, report.ArgumentAnalysis)
	assert.NotNil(t, report.CriticalQuestions)
	assert.NotNil(t, report.KeyQuotes)
	assert.True(t, report.IsEmpty())
}

func TestNormalize_ElementCoercion(t *testing.T) {
	report, err := Normalize([]byte(`{"key_quotes":[1, true, null, "  a  ", ""], "critical_questions": "  "}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "true", "a"}, report.KeyQuotes)
	assert.Empty(t, report.CriticalQuestions)
}

func TestNormalize_RejectsNonObjects(t *testing.T) {
	for _, body := range []string{`[1,2]`, `"text"`, `{broken`, ``, `null`} {
		_, err := Normalize([]byte(body))
		assert.ErrorIs(t, err, ErrNotObject, "body %q", body)
	}
}

func TestMissingRequired(t *testing.T) {
	missing, err := MissingRequired([]byte(`{"coreViewpoints":["a"],"key_quotes":["q"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"argument_analysis", "critical_questions"}, missing)

	missing, err = MissingRequired([]byte(`{"core_arguments":[],"argument_analysis":"x","critical_questions":[],"key_quotes":[]}`))
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestDetect(t *testing.T) {
	assert.Equal(t, ShapeSnake, Detect([]byte(`{"core_arguments":[]}`)))
	assert.Equal(t, ShapeCamel, Detect([]byte(`{"coreArguments":[]}`)))
	assert.Equal(t, ShapeViewpoints, Detect([]byte(`{"coreViewpoints":[]}`)))
	assert.Equal(t, ShapeUnknown, Detect([]byte(`{"foo":1}`)))
	assert.Equal(t, ShapeUnknown, Detect([]byte(`nope`)))
}
