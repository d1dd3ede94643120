package model

// Config holds every tunable weight and threshold in the engine. The
// numeric values were tuned empirically against interim financial
// disclosures; they are configuration, not invariants, and should be
// re-tuned for differently structured documents.
type Config struct {
	Scoring   ScoringConfig   `yaml:"scoring" json:"scoring"`
	Threshold ThresholdConfig `yaml:"threshold" json:"threshold"`
	Numeric   NumericConfig   `yaml:"numeric" json:"numeric"`
	Clause    ClauseConfig    `yaml:"clause" json:"clause"`
	Quality   QualityConfig   `yaml:"quality" json:"quality"`
	Embedding EmbeddingConfig `yaml:"embedding" json:"embedding"`
	Output    OutputConfig    `yaml:"output" json:"output"`
}

// ScoringConfig controls the sentence-level candidate scorer
type ScoringConfig struct {
	ValueExactWeight float64 `yaml:"value_exact_weight" json:"value_exact_weight"` // Exact value substring match
	FuzzyWeight      float64 `yaml:"fuzzy_weight" json:"fuzzy_weight"`             // Scaled partial-ratio contribution
	FuzzyFloor       int     `yaml:"fuzzy_floor" json:"fuzzy_floor"`               // Minimum partial ratio (0-100)
	CodeFuzzyFloor   int     `yaml:"code_fuzzy_floor" json:"code_fuzzy_floor"`     // Stricter floor for alphanumeric codes
	FieldTokenWeight float64 `yaml:"field_token_weight" json:"field_token_weight"` // Per field-name token found
	FieldTokenCap    float64 `yaml:"field_token_cap" json:"field_token_cap"`
	ValueTermWeight  float64 `yaml:"value_term_weight" json:"value_term_weight"` // Per value-derived term found
	ValueTermCap     float64 `yaml:"value_term_cap" json:"value_term_cap"`
	DomainWeight     float64 `yaml:"domain_weight" json:"domain_weight"`   // Semantic-group keyword match
	CompanyBonus     float64 `yaml:"company_bonus" json:"company_bonus"`   // Corporate indicators near company fields
	ProximityMax     float64 `yaml:"proximity_max" json:"proximity_max"`   // Cap on the field/value distance bonus
	EmbeddingWeight  float64 `yaml:"embedding_weight" json:"embedding_weight"`
	MinWords         int     `yaml:"min_words" json:"min_words"` // Word-count gate
	MaxWords         int     `yaml:"max_words" json:"max_words"`
	NumericMaxWords  int     `yaml:"numeric_max_words" json:"numeric_max_words"` // Wider gate for numeric facts
}

// ThresholdConfig controls adaptive acceptance and the recovery pass
type ThresholdConfig struct {
	ShortValue      float64  `yaml:"short_value" json:"short_value"` // Numeric, short, code-like or date-like values
	FreeText        float64  `yaml:"free_text" json:"free_text"`     // Longer free-text values
	CollisionProne  float64  `yaml:"collision_prone" json:"collision_prone"`
	CollisionFields []string `yaml:"collision_fields" json:"collision_fields"` // Fields that always use the strict threshold
	ShortValueLen   int      `yaml:"short_value_len" json:"short_value_len"`
	RecoveryFloor   float64  `yaml:"recovery_floor" json:"recovery_floor"`
	RecoveryMax     int      `yaml:"recovery_max" json:"recovery_max"` // Max candidates kept by recovery
}

// NumericConfig controls the numeric evidence extractor
type NumericConfig struct {
	DenyFields      []string `yaml:"deny_fields" json:"deny_fields"` // Fields that skip the numeric shortcut
	DigitDensity    float64  `yaml:"digit_density" json:"digit_density"`
	WindowChars     int      `yaml:"window_chars" json:"window_chars"` // Fallback window radius
	PairConfidence  float64  `yaml:"pair_confidence" json:"pair_confidence"`
	PairExactBoost  float64  `yaml:"pair_exact_boost" json:"pair_exact_boost"`
	WindowExact     float64  `yaml:"window_exact" json:"window_exact"`
	WindowPartial   float64  `yaml:"window_partial" json:"window_partial"`
	FailureDiscount float64  `yaml:"failure_discount" json:"failure_discount"` // Applied to the semantic path after a numeric miss
}

// ClauseConfig controls clause trimming
type ClauseConfig struct {
	MaxClauseChars int `yaml:"max_clause_chars" json:"max_clause_chars"`
	PreferMinChars int `yaml:"prefer_min_chars" json:"prefer_min_chars"`
	PreferMaxChars int `yaml:"prefer_max_chars" json:"prefer_max_chars"`
	ExpandWords    int `yaml:"expand_words" json:"expand_words"` // Words borrowed from a preceding clause
}

// QualityConfig controls the boundary quality gate and caching
type QualityConfig struct {
	CacheFloor      float64 `yaml:"cache_floor" json:"cache_floor"` // Minimum confidence to cache
	GateFloor       float64 `yaml:"gate_floor" json:"gate_floor"`   // Minimum confidence to leave the engine
	LongSpanChars   int     `yaml:"long_span_chars" json:"long_span_chars"`
	LongSpanFloor   float64 `yaml:"long_span_floor" json:"long_span_floor"` // Confidence required for long spans
	MaxSpanChars    int     `yaml:"max_span_chars" json:"max_span_chars"`
	TruncateRetain  float64 `yaml:"truncate_retain" json:"truncate_retain"` // Clause-boundary cut must keep this share
	UnmatchedChunks int     `yaml:"unmatched_chunks" json:"unmatched_chunks"`
}

// EmbeddingConfig controls the optional semantic-similarity capability
type EmbeddingConfig struct {
	Enabled           bool    `yaml:"enabled" json:"enabled"`
	Model             string  `yaml:"model" json:"model"`
	APIKey            string  `yaml:"-" json:"-"` // From OPENAI_API_KEY, never serialized
	BaseURL           string  `yaml:"base_url" json:"base_url,omitempty"`
	CacheSize         int     `yaml:"cache_size" json:"cache_size"`         // Bounded LRU memoization entries
	CacheDir          string  `yaml:"cache_dir" json:"cache_dir,omitempty"` // Persistent vector cache, empty disables
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
}

// OutputConfig controls CLI output behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns the tuned defaults
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			ValueExactWeight: 0.50,
			FuzzyWeight:      0.35,
			FuzzyFloor:       85,
			CodeFuzzyFloor:   92,
			FieldTokenWeight: 0.10,
			FieldTokenCap:    0.30,
			ValueTermWeight:  0.05,
			ValueTermCap:     0.15,
			DomainWeight:     0.15,
			CompanyBonus:     0.05,
			ProximityMax:     0.20,
			EmbeddingWeight:  0.20,
			MinWords:         5,
			MaxWords:         45,
			NumericMaxWords:  55,
		},
		Threshold: ThresholdConfig{
			ShortValue:      0.25,
			FreeText:        0.45,
			CollisionProne:  0.60,
			CollisionFields: []string{"period", "currency", "year", "date"},
			ShortValueLen:   10,
			RecoveryFloor:   0.30,
			RecoveryMax:     2,
		},
		Numeric: NumericConfig{
			DenyFields:      []string{"period", "company", "company_name", "date", "year"},
			DigitDensity:    0.40,
			WindowChars:     90,
			PairConfidence:  0.90,
			PairExactBoost:  0.05,
			WindowExact:     0.75,
			WindowPartial:   0.60,
			FailureDiscount: 0.65,
		},
		Clause: ClauseConfig{
			MaxClauseChars: 150,
			PreferMinChars: 20,
			PreferMaxChars: 100,
			ExpandWords:    10,
		},
		Quality: QualityConfig{
			CacheFloor:      0.50,
			GateFloor:       0.60,
			LongSpanChars:   500,
			LongSpanFloor:   0.60,
			MaxSpanChars:    2000,
			TruncateRetain:  0.70,
			UnmatchedChunks: 3,
		},
		Embedding: EmbeddingConfig{
			Enabled:           false,
			Model:             "text-embedding-3-small",
			CacheSize:         4096,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Output: OutputConfig{Verbose: false},
	}
}
