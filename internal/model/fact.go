package model

// Fact is a field/value pair proposed by an upstream extraction step.
// The engine attributes it to verbatim source text; it never invents
// or corrects the value.
type Fact struct {
	Field  string     `json:"field" yaml:"field"`   // Field name (e.g., "Underlying_NPAT_1HFY23")
	Value  string     `json:"value" yaml:"value"`   // Extracted value (e.g., "AUD 46.7mn")
	Source SourceKind `json:"source" yaml:"source"` // Where the upstream extractor found it
}

// SourceKind identifies which upstream extraction path produced the fact
type SourceKind string

const (
	SourceTable    SourceKind = "table"      // Structured table extraction
	SourceKeyValue SourceKind = "key_value"  // Key-value pair extraction
	SourceText     SourceKind = "text_chunk" // Free-text chunk extraction
)

// TextUnit is a cleaned sentence or bullet-derived phrase produced by
// normalization. OriginIndex preserves document order for proximity and
// tie-break reasoning. Units are created once per document and never
// mutated afterward.
type TextUnit struct {
	Text        string `json:"text"`
	OriginIndex int    `json:"origin_index"`
}
