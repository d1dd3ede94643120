// Package score computes the relevance of a (field, value, sentence)
// triple. It layers lexical, fuzzy, proximity, domain and optional
// embedding signals into a single confidence in [0,1]; acceptance
// against that confidence is the engine's adaptive-threshold decision.
package score

import (
	"context"
	"regexp"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"go.uber.org/zap"

	"github.com/factrace/factrace/internal/embed"
	"github.com/factrace/factrace/internal/lexicon"
	"github.com/factrace/factrace/internal/model"
)

// Scorer scores text units against a fact.
type Scorer struct {
	cfg model.ScoringConfig
	lex *lexicon.Lexicon
	sim embed.Similarity // nil when the capability is unavailable
	log *zap.Logger
}

// NewScorer creates a scorer. sim may be nil; the lexical path alone
// is a complete scoring function.
func NewScorer(cfg model.ScoringConfig, lex *lexicon.Lexicon, sim embed.Similarity, log *zap.Logger) *Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scorer{cfg: cfg, lex: lex, sim: sim, log: log}
}

var (
	numberRe = regexp.MustCompile(`\d+\.?\d*`)
	wordRe   = regexp.MustCompile(`[A-Za-z]{3,}`)
	alnumRe  = regexp.MustCompile(`^[A-Za-z0-9+\-/]+$`)

	companyIndicators = []string{"inc", "corp", "ltd", "llc", "company", "corporation", "group", "limited"}
)

// Score computes the confidence that unit substantiates (field, value).
// A zero return means the unit was rejected outright (anti-pattern hit
// or length gate) or matched nothing.
func (s *Scorer) Score(ctx context.Context, field, value string, unit model.TextUnit, numericField bool) float64 {
	unitLower := strings.ToLower(unit.Text)
	valueLower := strings.ToLower(strings.TrimSpace(value))
	fieldLower := strings.ToLower(field)
	fieldTokens := lexicon.FieldTokens(field)
	fieldDomains := s.lex.GroupsFor(field)
	terms := valueTerms(value)

	// 1. Anti-pattern reject: an idiomatic phrase from a related
	// domain disqualifies the unit completely.
	for _, tag := range fieldDomains {
		for _, phrase := range s.lex.AntiPatternsFor(tag) {
			if strings.Contains(unitLower, phrase) {
				s.log.Debug("anti-pattern reject",
					zap.String("field", field),
					zap.String("phrase", phrase),
					zap.Int("unit", unit.OriginIndex))
				return 0
			}
		}
	}

	// 2. Length gate.
	words := len(strings.Fields(unit.Text))
	maxWords := s.cfg.MaxWords
	if numericField {
		maxWords = s.cfg.NumericMaxWords
	}
	if words < s.cfg.MinWords || words > maxWords {
		return 0
	}

	total := 0.0

	// 3. Value match: exact substring dominates; otherwise a fuzzy
	// partial-ratio contribution above a high floor.
	exactValue := valueLower != "" && strings.Contains(unitLower, valueLower)
	if exactValue {
		total += s.cfg.ValueExactWeight
	} else if len(valueLower) > 3 {
		floor := s.cfg.FuzzyFloor
		if IsCodeLike(value) {
			floor = s.cfg.CodeFuzzyFloor
		}
		if ratio := fuzzy.PartialRatio(valueLower, unitLower); ratio >= floor {
			total += float64(ratio) / 100 * s.cfg.FuzzyWeight
		}
	}

	// 4. Field-term match.
	fieldHits := 0.0
	for _, tok := range fieldTokens {
		if strings.Contains(unitLower, tok) {
			fieldHits += s.cfg.FieldTokenWeight
		}
	}
	if fieldHits > s.cfg.FieldTokenCap {
		fieldHits = s.cfg.FieldTokenCap
	}
	total += fieldHits

	// Value-derived terms back up a missing whole-value match.
	if !exactValue {
		termHits := 0.0
		for _, term := range terms {
			if strings.Contains(unitLower, term) {
				termHits += s.cfg.ValueTermWeight
			}
		}
		if termHits > s.cfg.ValueTermCap {
			termHits = s.cfg.ValueTermCap
		}
		total += termHits
	}

	// 5. Domain-group match.
	for _, tag := range fieldDomains {
		if containsKeyword(unitLower, s.lex.KeywordsFor(tag)) {
			total += s.cfg.DomainWeight
			break
		}
	}

	// Corporate-context bonus for company/name/symbol/ticker fields.
	if strings.Contains(fieldLower, "company") || strings.Contains(fieldLower, "name") ||
		strings.Contains(fieldLower, "symbol") || strings.Contains(fieldLower, "ticker") {
		if containsKeyword(unitLower, companyIndicators) {
			total += s.cfg.CompanyBonus
		}
	}

	// 6. Proximity bonus: a field token and a value token close
	// together earn up to ProximityMax, shrinking with distance.
	if d, ok := proximity(unitLower, fieldTokens, terms); ok {
		bonus := s.cfg.ProximityMax
		if d > 1 {
			bonus = s.cfg.ProximityMax / float64(d)
		}
		total += bonus
	}

	// 7. Optional semantic similarity.
	if s.sim != nil {
		fieldText := strings.Join(fieldTokens, " ")
		if sim, err := s.sim.Similarity(ctx, fieldText, unit.Text); err == nil {
			total += sim * s.cfg.EmbeddingWeight
		} else {
			s.log.Debug("similarity unavailable", zap.String("field", field), zap.Error(err))
		}
	}

	// 8. Multi-domain penalty: a sentence straddling unrelated topics
	// is diluted unless one of them is the field's own domain.
	if domains := s.lex.DomainsIn(unit.Text); len(domains) > 1 && !containsAny(domains, fieldDomains) {
		total /= float64(len(domains))
	}

	if total > 1 {
		total = 1
	}
	return total
}

// valueTerms decomposes a value into matchable terms: numeric tokens
// and words of three or more letters, plus the whole value.
func valueTerms(value string) []string {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	var terms []string
	for _, num := range numberRe.FindAllString(cleaned, -1) {
		if len(num) > 1 {
			terms = append(terms, num)
		}
	}
	terms = append(terms, wordRe.FindAllString(cleaned, -1)...)
	if len(cleaned) > 2 {
		terms = append(terms, cleaned)
	}
	return terms
}

// proximity returns the smallest word distance between any field token
// and any value term within the unit.
func proximity(unitLower string, fieldTokens, terms []string) (int, bool) {
	words := strings.Fields(unitLower)
	best := -1
	for i, w := range words {
		if !matchesAny(w, fieldTokens) {
			continue
		}
		for j, v := range words {
			if i == j || !matchesAny(v, terms) {
				continue
			}
			d := i - j
			if d < 0 {
				d = -d
			}
			if best == -1 || d < best {
				best = d
			}
		}
	}
	return best, best > 0
}

func matchesAny(word string, candidates []string) bool {
	for _, c := range candidates {
		if c != "" && strings.Contains(word, c) {
			return true
		}
	}
	return false
}

func containsKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func containsAny(haystack, needles []string) bool {
	for _, n := range needles {
		for _, h := range haystack {
			if h == n {
				return true
			}
		}
	}
	return false
}

// IsCodeLike reports whether a value looks like a short alphanumeric
// code (currency codes, blood types, tickers). Codes demand stricter
// fuzzy floors because a single character carries a lot of meaning.
func IsCodeLike(value string) bool {
	v := strings.TrimSpace(value)
	if len(v) == 0 || len(v) > 8 || strings.ContainsAny(v, " \t") {
		return false
	}
	if !alnumRe.MatchString(v) {
		return false
	}
	hasLetter := false
	for _, r := range v {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			hasLetter = true
		}
	}
	return hasLetter && strings.ToUpper(v) == v
}
