package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/ppiankov/deepread/internal/form"
	"github.com/ppiankov/deepread/internal/i18n"
	"github.com/ppiankov/deepread/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.New("page.html.tmpl").
	Funcs(template.FuncMap{
		"elapsed": func(format string, seconds int) string { return fmt.Sprintf(format, seconds) },
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
	}).
	ParseFS(templateFS, "templates/*.tmpl"))

// PageData is the input of the HTML page
type PageData struct {
	Texts     i18n.Texts
	Theme     string // light or dark
	Form      form.Form
	View      *View // nil renders no report card
	Analyzing bool
	Elapsed   int
	HasReport bool
}

// IsContentTab is used by the template to pick the active tab
func (d PageData) IsContentTab() bool {
	return d.Form.Tab == form.TabContent
}

// IsExpert is used by the template to pick the active mode
func (d PageData) IsExpert() bool {
	return d.Form.Mode == model.ModeExpert
}

// HTML writes the full page
func HTML(w io.Writer, data PageData) error {
	if data.Theme != "dark" {
		data.Theme = "light"
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
