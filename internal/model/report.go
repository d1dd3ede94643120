package model

import "time"

// Report is the complete attribution output for one document pass
type Report struct {
	Document    string    `json:"document"`     // Document identifier (path or label)
	ProcessedAt time.Time `json:"processed_at"` // When the pass ran

	Results []Attribution `json:"results"` // One entry per input fact

	// Unattributed holds substantial document paragraphs that no fact
	// claimed, so reviewers can see what the engine declined to match.
	Unattributed []string `json:"unattributed,omitempty"`

	Summary CoverageSummary `json:"summary"`
}

// Attribution pairs an input fact with its evidence
type Attribution struct {
	Fact       Fact    `json:"fact"`
	Context    string  `json:"context"`
	Confidence float64 `json:"confidence"`
	Method     Method  `json:"method"`
	HasContext bool    `json:"has_context"`
}
