package model

// EvidenceResult is the engine's answer for a single fact: the verbatim
// span of source text that substantiates it, or an empty span when no
// sufficiently confident match exists.
//
// Invariant: a non-empty Span is a case-insensitive substring of the
// artifact-cleaned, space-joined document text.
type EvidenceResult struct {
	Span       string  `json:"span"`
	Confidence float64 `json:"confidence"` // 0.0..1.0
	Method     Method  `json:"method"`
}

// Method records which extraction strategy produced the span
type Method string

const (
	MethodNumericAnchor Method = "numeric_anchor" // Metric anchor followed by the value
	MethodNumericPair   Method = "numeric_pair"   // Line with comparative numeric pair
	MethodNumericWindow Method = "numeric_window" // Character window around the value
	MethodClause        Method = "clause"         // Trimmed clause from a scored sentence
	MethodQuote         Method = "quote"          // Quoted-speech pattern
	MethodRecovery      Method = "recovery"       // Strict last-resort pass
	MethodNone          Method = "none"           // No evidence found
)

// None is the zero-confidence empty result every failure path degrades to.
func None() EvidenceResult {
	return EvidenceResult{Span: "", Confidence: 0, Method: MethodNone}
}

// CoverageSummary aggregates attribution statistics for one document pass
type CoverageSummary struct {
	TotalFields        int     `json:"total_fields"`
	FieldsWithContext  int     `json:"fields_with_context"`
	CoveragePercent    float64 `json:"coverage_percentage"`
	AverageSpanLength  float64 `json:"average_context_length"`
	TotalSpanChars     int     `json:"total_context_characters"`
	DocumentTextLines  int     `json:"document_text_lines"`
	DocumentTextChars  int     `json:"document_text_characters"`
}
