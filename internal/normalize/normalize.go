// Package normalize maps every wire shape the analysis service has produced
// onto the canonical model.Report. Display code only ever sees the result.
package normalize

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ppiankov/deepread/internal/model"
)

// ErrNotObject is returned when the body is not a JSON object
var ErrNotObject = errors.New("normalize: response is not a JSON object")

// Shape names a historical response layout
type Shape string

const (
	ShapeSnake      Shape = "snake"      // core_arguments, key_quotes, ...
	ShapeCamel      Shape = "camel"      // coreArguments, keyQuotes, ...
	ShapeViewpoints Shape = "viewpoints" // coreViewpoints, goldenQuotes, ...
	ShapeUnknown    Shape = "unknown"
)

// field lists the accepted keys for one canonical field, highest priority first
type field struct {
	name     string
	aliases  []string
	required bool
}

var (
	coreArguments     = field{"core_arguments", []string{"core_arguments", "coreArguments", "coreViewpoints", "core_viewpoints"}, true}
	argumentAnalysis  = field{"argument_analysis", []string{"argument_analysis", "argumentAnalysis"}, true}
	criticalQuestions = field{"critical_questions", []string{"critical_questions", "criticalQuestions", "potentialIssues", "potential_issues"}, true}
	keyQuotes         = field{"key_quotes", []string{"key_quotes", "keyQuotes", "goldenQuotes", "golden_quotes"}, true}
	summary           = field{"summary", []string{"summary"}, false}
	firstPrinciples   = field{"first_principles", []string{"first_principles", "firstPrinciples"}, false}
	boundaries        = field{"boundaries", []string{"boundaries"}, false}

	listFields = []field{coreArguments, argumentAnalysis, criticalQuestions, keyQuotes, firstPrinciples, boundaries}
)

// Normalize parses a response body into the canonical report.
// Missing or null fields become empty lists; a string where a list is
// expected becomes a single-element list.
func Normalize(data []byte) (*model.Report, error) {
	root, err := parseObject(data)
	if err != nil {
		return nil, err
	}

	report := model.EmptyReport()
	report.CoreArguments = list(lookup(root, coreArguments))
	report.ArgumentAnalysis = list(lookup(root, argumentAnalysis))
	report.CriticalQuestions = list(lookup(root, criticalQuestions))
	report.KeyQuotes = list(lookup(root, keyQuotes))
	report.FirstPrinciples = list(lookup(root, firstPrinciples))
	report.Boundaries = list(lookup(root, boundaries))
	report.Summary = text(lookup(root, summary))

	return report, nil
}

// MissingRequired returns the canonical names of required fields that no
// accepted alias provides
func MissingRequired(data []byte) ([]string, error) {
	root, err := parseObject(data)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, f := range listFields {
		if !f.required {
			continue
		}
		if !lookup(root, f).Exists() {
			missing = append(missing, f.name)
		}
	}
	return missing, nil
}

// Detect reports which historical layout the body uses
func Detect(data []byte) Shape {
	root, err := parseObject(data)
	if err != nil {
		return ShapeUnknown
	}
	switch {
	case present(root, "core_arguments") || present(root, "key_quotes"):
		return ShapeSnake
	case present(root, "coreViewpoints") || present(root, "goldenQuotes"):
		return ShapeViewpoints
	case present(root, "coreArguments") || present(root, "keyQuotes"):
		return ShapeCamel
	default:
		return ShapeUnknown
	}
}

func parseObject(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, ErrNotObject
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return gjson.Result{}, ErrNotObject
	}
	return root, nil
}

// lookup returns the first alias that is present and not null
func lookup(root gjson.Result, f field) gjson.Result {
	for _, key := range f.aliases {
		if present(root, key) {
			return root.Get(escapeKey(key))
		}
	}
	return gjson.Result{}
}

func present(root gjson.Result, key string) bool {
	v := root.Get(escapeKey(key))
	return v.Exists() && v.Type != gjson.Null
}

var pathEscaper = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)

// escapeKey keeps gjson path syntax from interpreting the key
func escapeKey(key string) string {
	return pathEscaper.Replace(key)
}

func list(v gjson.Result) []string {
	out := []string{}
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return out
	case v.IsArray():
		for _, item := range v.Array() {
			if item.Type == gjson.Null {
				continue
			}
			s := strings.TrimSpace(item.String())
			if item.IsObject() || item.IsArray() {
				s = item.Raw
			}
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := strings.TrimSpace(v.String()); s != "" {
			out = append(out, s)
		}
		return out
	}
}

func text(v gjson.Result) string {
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	if v.IsArray() {
		return strings.Join(list(v), "\n")
	}
	return strings.TrimSpace(v.String())
}
