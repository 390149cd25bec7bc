package model

// SchemaVersion is the version of the canonical Report shape
const SchemaVersion = 1

// Report is the canonical analysis record. Every wire shape the analysis
// service has produced is normalized into this one record before display.
type Report struct {
	SchemaVersion int `json:"schema_version"`

	CoreArguments     []string `json:"core_arguments"`     // 核心观点提炼
	ArgumentAnalysis  []string `json:"argument_analysis"`  // 论证过程拆解 (paragraphs)
	CriticalQuestions []string `json:"critical_questions"` // 潜在问题与启发
	KeyQuotes         []string `json:"key_quotes"`         // 金句摘录

	Summary         string   `json:"summary,omitempty"`
	FirstPrinciples []string `json:"first_principles,omitempty"` // Expert mode only
	Boundaries      []string `json:"boundaries,omitempty"`       // Expert mode only
}

// EmptyReport returns a report whose list fields are empty but non-nil
func EmptyReport() *Report {
	return &Report{
		SchemaVersion:     SchemaVersion,
		CoreArguments:     []string{},
		ArgumentAnalysis:  []string{},
		CriticalQuestions: []string{},
		KeyQuotes:         []string{},
		FirstPrinciples:   []string{},
		Boundaries:        []string{},
	}
}

// IsEmpty reports whether the report carries no analysis at all
func (r *Report) IsEmpty() bool {
	if r == nil {
		return true
	}
	return len(r.CoreArguments) == 0 &&
		len(r.ArgumentAnalysis) == 0 &&
		len(r.CriticalQuestions) == 0 &&
		len(r.KeyQuotes) == 0 &&
		len(r.FirstPrinciples) == 0 &&
		len(r.Boundaries) == 0 &&
		r.Summary == ""
}

// Clone returns a deep copy so callers can hand reports across goroutines
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	c := *r
	c.CoreArguments = cloneStrings(r.CoreArguments)
	c.ArgumentAnalysis = cloneStrings(r.ArgumentAnalysis)
	c.CriticalQuestions = cloneStrings(r.CriticalQuestions)
	c.KeyQuotes = cloneStrings(r.KeyQuotes)
	c.FirstPrinciples = cloneStrings(r.FirstPrinciples)
	c.Boundaries = cloneStrings(r.Boundaries)
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
