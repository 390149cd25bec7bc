package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/deepread/internal/form"
	"github.com/ppiankov/deepread/internal/i18n"
	"github.com/ppiankov/deepread/internal/model"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	require.NoError(t, setDefaults(v, model.DefaultConfig()))
	v.SetEnvPrefix("DEEPREAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newTestViper(t))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), cfg)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DEEPREAD_CLIENT_ENDPOINT", "http://10.0.0.5:8000/api/v1/analysis")
	t.Setenv("DEEPREAD_CLIENT_TIMEOUT", "30s")
	t.Setenv("DEEPREAD_UI_MODE", "expert")
	t.Setenv("DEEPREAD_BACKEND_RESPECT_ROBOTS", "false")

	cfg, err := loadConfig(newTestViper(t))
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:8000/api/v1/analysis", cfg.Client.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, model.ModeExpert, cfg.UI.Mode)
	assert.False(t, cfg.Backend.RespectRobots)
	assert.Equal(t, "127.0.0.1:3000", cfg.UI.Addr)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "ui:\n  theme: dark\nllm:\n  provider: anthropic\n  timeout: 45s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	v := newTestViper(t)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "qwen-turbo", cfg.LLM.Model)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".deepread", "config.yaml")
	require.NoError(t, writeDefaultConfig(path))

	v := newTestViper(t)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConfig(), cfg)

	err = writeDefaultConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestBuildForm(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "article.txt")
	require.NoError(t, os.WriteFile(file, []byte("file body"), 0o600))

	tests := []struct {
		name    string
		args    []string
		text    string
		file    string
		stdin   string
		tab     form.Tab
		input   string
		wantErr bool
	}{
		{name: "url argument", args: []string{"https://example.com/a"}, tab: form.TabURL, input: "https://example.com/a"},
		{name: "text wins over url", args: []string{"https://example.com/a"}, text: "pasted", tab: form.TabContent, input: "pasted"},
		{name: "file wins over text", text: "pasted", file: file, tab: form.TabContent, input: "file body"},
		{name: "stdin", file: "-", stdin: "from stdin", tab: form.TabContent, input: "from stdin"},
		{name: "nothing", tab: form.TabURL, input: ""},
		{name: "missing file", file: filepath.Join(dir, "nope.txt"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := buildForm(tt.args, tt.text, tt.file, strings.NewReader(tt.stdin))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.tab, f.Tab)
			assert.Equal(t, tt.input, f.Input())
		})
	}
}

func TestBuildForm_BlankInputRejected(t *testing.T) {
	f, err := buildForm(nil, "   ", "", nil)
	require.NoError(t, err)
	err = f.Validate(i18n.Lookup(i18n.English))
	assert.ErrorIs(t, err, form.ErrEmptyInput)
}

func testReport() *model.Report {
	r := model.EmptyReport()
	r.CoreArguments = []string{"X"}
	r.ArgumentAnalysis = []string{"Y"}
	r.CriticalQuestions = []string{"Z"}
	r.KeyQuotes = []string{"Q"}
	return r
}

func TestRenderReport(t *testing.T) {
	opts := renderOptions{Lang: i18n.Chinese, Mode: model.ModeConcise, Source: "https://example.com/posts/deep-work", Width: 60, ToFile: true}

	cards, err := renderReport(testReport(), FormatCards, opts)
	require.NoError(t, err)
	assert.Contains(t, cards, "X")
	assert.Contains(t, cards, "Q")

	md, err := renderReport(testReport(), FormatMarkdown, opts)
	require.NoError(t, err)
	assert.Contains(t, md, "1. X")

	text, err := renderReport(testReport(), FormatText, opts)
	require.NoError(t, err)
	assert.Equal(t, "核心观点提炼：\n1. X\n\n潜在问题与启发：\n1. Z\n\n金句摘录：\n1. \"Q\"\n", text)

	raw, err := renderReport(testReport(), FormatJSON, opts)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "deep work", doc["title"])
	assert.Equal(t, "concise", doc["mode"])
	assert.Equal(t, []any{"X"}, doc["coreViewpoints"])

	_, err = renderReport(testReport(), "pdf", opts)
	assert.Error(t, err)

	_, err = renderReport(nil, FormatCards, opts)
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"deep work", "deep-work"},
		{"a/b\\c:d", "a_b_c_d"},
		{"what?*<>|\"", "what"},
		{"  ", "article"},
		{"..", "article"},
		{"mp.weixin.qq.com", "mp.weixin.qq.com"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}

	long := strings.Repeat("长", 50) // 150 bytes
	got := sanitizeFilename(long)
	assert.LessOrEqual(t, len(got), 100)
	assert.True(t, strings.HasPrefix(long, got))
	assert.Equal(t, strings.Repeat("长", 33), got)
}

func TestUniqueSlug(t *testing.T) {
	used := map[string]int{}
	assert.Equal(t, "a", uniqueSlug(used, "a"))
	assert.Equal(t, "a-2", uniqueSlug(used, "a"))
	assert.Equal(t, "b", uniqueSlug(used, "b"))
	assert.Equal(t, "a-3", uniqueSlug(used, "a"))
}
