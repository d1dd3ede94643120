// Package lexicon holds the static domain tables the engine matches
// against: semantic keyword groups, anti-pattern phrase lists, and the
// financial-metric anchors used for precise numeric evidence location.
// It is pure lookup data with no behavior beyond membership tests.
package lexicon

import "strings"

// Lexicon is read-only after construction and safe for concurrent use.
type Lexicon struct {
	groups       map[string][]string
	antiPatterns map[string][]string
	anchors      []string
}

// Default returns the built-in lexicon tuned for financial disclosures
// with the occasional personal-record field mixed in.
func Default() *Lexicon {
	return &Lexicon{
		groups: map[string][]string{
			"profit":      {"profit", "npat", "earnings", "ebit", "ebitda", "income", "margin"},
			"revenue":     {"revenue", "sales", "turnover", "premium", "income"},
			"dividend":    {"dividend", "payout", "distribution", "cents per share"},
			"leverage":    {"leverage", "gearing", "debt", "ratio", "facility"},
			"guidance":    {"guidance", "outlook", "forecast", "expects", "upgraded"},
			"company":     {"company", "group", "limited", "ltd", "inc", "corp", "corporation", "llc"},
			"employment":  {"employment", "employer", "role", "position", "designation"},
			"age":         {"age", "years old", "born", "birth"},
			"blood":       {"blood", "type", "group", "medical"},
			"medical":     {"medical", "health", "emergency", "records", "hospital"},
			"citizenship": {"citizenship", "citizen", "nationality", "passport"},
			"education":   {"education", "degree", "university", "college", "engineering"},
			"location":    {"location", "address", "city", "region", "country"},
		},
		antiPatterns: map[string][]string{
			"blood":       {"blood money", "blood flow", "bad blood", "bloodbath", "new blood"},
			"age":         {"golden age", "ice age", "digital age", "age of", "coming of age"},
			"citizenship": {"corporate citizenship", "citizenship program"},
			"profit":      {"non-profit", "not-for-profit", "profit is not guaranteed"},
			"company":     {"in the company of", "company of strangers"},
			"location":    {"out of location", "on location"},
		},
		anchors: []string{
			"underlying npat", "reported npat", "npat", "ebit margin", "ebitda", "ebit",
			"earnings per share", "eps", "pre-tax profit", "net profit", "gross profit",
			"revenue", "gross written premium", "interim dividend", "final dividend",
			"dividend", "leverage ratio", "gearing ratio", "technology investment",
			"operating expenses", "guidance", "margin",
		},
	}
}

// GroupsFor returns the domain tags related to a field name. A tag is
// related when the tag itself or one of its keywords appears among the
// field's tokens.
func (l *Lexicon) GroupsFor(field string) []string {
	tokens := FieldTokens(field)
	if len(tokens) == 0 {
		return nil
	}
	joined := " " + strings.Join(tokens, " ") + " "

	var tags []string
	for tag, keywords := range l.groups {
		if strings.Contains(joined, " "+tag+" ") {
			tags = append(tags, tag)
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(joined, " "+kw+" ") {
				tags = append(tags, tag)
				break
			}
		}
	}
	return tags
}

// KeywordsFor returns the characteristic keywords of a domain tag.
func (l *Lexicon) KeywordsFor(tag string) []string {
	return l.groups[tag]
}

// AntiPatternsFor returns the disqualifying phrases for a domain tag.
func (l *Lexicon) AntiPatternsFor(tag string) []string {
	return l.antiPatterns[tag]
}

// Anchors returns the financial-metric anchor terms, longest first so
// that "underlying npat" wins over "npat" during scanning.
func (l *Lexicon) Anchors() []string {
	return l.anchors
}

// DomainsIn reports which semantic domains a sentence touches. Used by
// the scorer to penalize sentences that straddle unrelated topics.
func (l *Lexicon) DomainsIn(text string) []string {
	lower := " " + strings.ToLower(text) + " "
	var tags []string
	for tag, keywords := range l.groups {
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		// A single shared keyword (e.g. "income") is not enough to
		// claim the domain; require two, or the tag word itself.
		if hits >= 2 || strings.Contains(lower, " "+tag+" ") {
			tags = append(tags, tag)
		}
	}
	return tags
}

// FieldTokens splits a field name into lower-cased matchable tokens,
// dropping underscores, punctuation and tokens of two characters or
// fewer.
func FieldTokens(field string) []string {
	cleaned := strings.ToLower(field)
	cleaned = strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', '.', ',', '(', ')', ':', '/':
			return ' '
		}
		return r
	}, cleaned)

	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) > 2 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
