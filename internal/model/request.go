package model

import "strings"

// InputKind identifies which form tab produced a request
type InputKind string

const (
	InputURL     InputKind = "url"     // Article link
	InputContent InputKind = "content" // Pasted article text
)

// Mode is the analysis depth selected in the UI.
// It is never sent to the analysis service; it only decides which
// report sections are displayed.
type Mode string

const (
	ModeConcise Mode = "concise" // Quick analysis
	ModeExpert  Mode = "expert"  // Deep analysis (adds first principles and boundaries)
)

// ParseMode maps user input onto a Mode, accepting the quick/deep aliases
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expert", "deep":
		return ModeExpert
	default:
		return ModeConcise
	}
}

// AnalysisRequest is built at submit time and discarded after the call
type AnalysisRequest struct {
	Kind InputKind `json:"-"`
	Data string    `json:"url"` // Trimmed URL or content, sent as the "url" field
	Mode Mode      `json:"-"`
}
