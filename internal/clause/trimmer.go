// Package clause narrows an accepted sentence to the minimal clause or
// clauses that jointly carry the field and value indicators. Trimming
// works on index ranges into the original sentence, so every returned
// span stays a verbatim substring of the source text.
package clause

import (
	"regexp"
	"strings"

	"github.com/factrace/factrace/internal/lexicon"
	"github.com/factrace/factrace/internal/model"
)

// Trimmer trims accepted sentences down to evidence clauses.
type Trimmer struct {
	cfg model.ClauseConfig
	lex *lexicon.Lexicon
}

// NewTrimmer creates a clause trimmer.
func NewTrimmer(cfg model.ClauseConfig, lex *lexicon.Lexicon) *Trimmer {
	return &Trimmer{cfg: cfg, lex: lex}
}

// candidate is a clause under evaluation: a [start,end) range of the
// sentence plus its running score.
type candidate struct {
	start, end int
	score      float64
	expanded   bool
}

var (
	strongConjunctions = []string{"while", "whereas", "however"}
	coordinating       = []string{"and", "but", "or", "yet", "so"}

	numberTokenRe = regexp.MustCompile(`\d[\d,]*\.?\d*`)
	danglingRe    = regexp.MustCompile(`(?i)^(of\s+(aud|usd|nzd|eur|gbp|cad|\$|€|£)|per\s+share)`)
)

// Trim returns the best evidence clause of the sentence and its
// confidence. An empty span means no clause carried enough signal.
func (t *Trimmer) Trim(field, value string, unit model.TextUnit) (string, float64) {
	text := unit.Text
	bounds := t.splitBounds(text)
	if len(bounds) == 0 {
		return "", 0
	}

	fieldTokens := lexicon.FieldTokens(field)
	valueLower := strings.ToLower(strings.TrimSpace(value))

	cands := make([]candidate, 0, len(bounds))
	for i, b := range bounds {
		c := candidate{start: b[0], end: b[1]}
		clauseLower := strings.ToLower(text[c.start:c.end])

		hasField := containsToken(clauseLower, fieldTokens)
		hasValue := valueLower != "" && strings.Contains(clauseLower, valueLower)
		partial := !hasValue && containsValuePart(clauseLower, valueLower)

		if hasField {
			c.score += 0.25
		}
		switch {
		case hasValue:
			c.score += 0.40
		case partial:
			c.score += 0.20
		}
		if hasField && (hasValue || partial) {
			c.score += 0.10
		}
		if t.hasAnchorComparative(clauseLower) {
			c.score += 0.20
		}

		// A value-bearing clause with no field indicator may borrow
		// trailing words from a preceding clause that names the field.
		if (hasValue || partial) && !hasField && i > 0 {
			prev := bounds[i-1]
			prevLower := strings.ToLower(text[prev[0]:prev[1]])
			if containsToken(prevLower, fieldTokens) {
				c.start = borrowStart(text, prev, t.cfg.ExpandWords)
				c.expanded = true
				c.score += 0.10
			}
		}

		if c.score <= 0 {
			continue
		}

		// Long clauses survive only when a neighbor corroborates the
		// same fact.
		if c.end-c.start > t.cfg.MaxClauseChars && !t.corroborated(text, bounds, i, fieldTokens, valueLower) {
			continue
		}

		cands = append(cands, c)
	}
	if len(cands) == 0 {
		return "", 0
	}

	best := t.pick(cands)
	best = t.repairDangling(text, bounds, best)

	span := strings.Trim(text[best.start:best.end], " ,;")
	conf := best.score
	if conf > 1 {
		conf = 1
	}
	return span, conf
}

// splitBounds splits a sentence into clause ranges on semicolons,
// strong conjunctions, and commas preceding coordinating conjunctions.
// Parenthetical spans are indivisible so financial comparatives are
// never cut apart.
func (t *Trimmer) splitBounds(text string) [][2]int {
	var bounds [][2]int
	depth, start := 0, 0

	flush := func(end int) {
		if end > start && strings.TrimSpace(text[start:end]) != "" {
			bounds = append(bounds, [2]int{start, end})
		}
	}

	i := 0
	for i < len(text) {
		switch text[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		case ',':
			if depth == 0 {
				if w := nextWord(text, i+1); isCoordinating(w) || isStrongConjunction(w) {
					flush(i)
					start = i + 1
				}
			}
		case ' ':
			if depth == 0 {
				if w := nextWord(text, i+1); isStrongConjunction(w) {
					flush(i)
					start = i + 1
				}
			}
		}
		i++
	}
	flush(len(text))
	return bounds
}

// corroborated reports whether a clause adjacent to index i carries the
// same field or value signal.
func (t *Trimmer) corroborated(text string, bounds [][2]int, i int, fieldTokens []string, valueLower string) bool {
	for _, j := range []int{i - 1, i + 1} {
		if j < 0 || j >= len(bounds) {
			continue
		}
		neighbor := strings.ToLower(text[bounds[j][0]:bounds[j][1]])
		if containsToken(neighbor, fieldTokens) {
			return true
		}
		if valueLower != "" && strings.Contains(neighbor, valueLower) {
			return true
		}
	}
	return false
}

// pick orders candidates by score, then by the stated preference:
// clauses of comfortable length beat longer ones, which beat clauses
// that needed expansion; remaining ties go to the shorter span.
func (t *Trimmer) pick(cands []candidate) candidate {
	best := cands[0]
	for _, c := range cands[1:] {
		if c.score != best.score {
			if c.score > best.score {
				best = c
			}
			continue
		}
		if cp, bp := t.preferenceClass(c), t.preferenceClass(best); cp != bp {
			if cp < bp {
				best = c
			}
			continue
		}
		if c.end-c.start < best.end-best.start {
			best = c
		}
	}
	return best
}

func (t *Trimmer) preferenceClass(c candidate) int {
	length := c.end - c.start
	switch {
	case c.expanded:
		return 2
	case length >= t.cfg.PreferMinChars && length <= t.cfg.PreferMaxChars:
		return 0
	default:
		return 1
	}
}

// repairDangling fixes winners that open with a fragment like
// "of AUD 46.7mn" or "per share ..." by pulling the span back to a
// sibling clause that names the metric. The repair merges ranges, so
// the result stays contiguous source text.
func (t *Trimmer) repairDangling(text string, bounds [][2]int, best candidate) candidate {
	opening := strings.TrimSpace(text[best.start:best.end])
	if !danglingRe.MatchString(opening) {
		return best
	}
	for _, b := range bounds {
		if b[0] >= best.start {
			break
		}
		clauseLower := strings.ToLower(text[b[0]:b[1]])
		if t.containsAnchor(clauseLower) {
			merged := best
			merged.start = b[0]
			if merged.end-merged.start <= 2*t.cfg.MaxClauseChars {
				return merged
			}
		}
	}
	// No sibling names the metric; widen to the sentence start when
	// that stays within bounds, otherwise keep the fragment.
	if best.end <= 2*t.cfg.MaxClauseChars {
		best.start = 0
	}
	return best
}

func (t *Trimmer) containsAnchor(clauseLower string) bool {
	for _, anchor := range t.lex.Anchors() {
		if strings.Contains(clauseLower, anchor) {
			return true
		}
	}
	return false
}

// hasAnchorComparative reports a metric anchor together with a
// parenthetical comparator ("(1HFY22: ...)") in the clause.
func (t *Trimmer) hasAnchorComparative(clauseLower string) bool {
	if !t.containsAnchor(clauseLower) {
		return false
	}
	open := strings.Index(clauseLower, "(")
	if open < 0 {
		return false
	}
	closing := strings.Index(clauseLower[open:], ")")
	return closing > 0 && strings.Contains(clauseLower[open:open+closing], ":")
}

// borrowStart moves a clause start backwards into the previous clause
// by at most maxWords words.
func borrowStart(text string, prev [2]int, maxWords int) int {
	segment := text[prev[0]:prev[1]]
	words := strings.Fields(segment)
	if len(words) <= maxWords {
		return prev[0]
	}
	tail := strings.Join(words[len(words)-maxWords:], " ")
	if idx := strings.LastIndex(segment, tail); idx >= 0 {
		return prev[0] + idx
	}
	return prev[0]
}

func nextWord(text string, i int) string {
	for i < len(text) && text[i] == ' ' {
		i++
	}
	start := i
	for i < len(text) && text[i] != ' ' && text[i] != ',' && text[i] != ';' {
		i++
	}
	return strings.ToLower(strings.Trim(text[start:i], ".!?"))
}

func isCoordinating(w string) bool {
	for _, c := range coordinating {
		if w == c {
			return true
		}
	}
	return false
}

func isStrongConjunction(w string) bool {
	for _, c := range strongConjunctions {
		if w == c {
			return true
		}
	}
	return false
}

func containsToken(textLower string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(textLower, tok) {
			return true
		}
	}
	return false
}

func containsValuePart(clauseLower, valueLower string) bool {
	if valueLower == "" {
		return false
	}
	for _, num := range numberTokenRe.FindAllString(valueLower, -1) {
		if len(num) > 1 && strings.Contains(clauseLower, num) {
			return true
		}
	}
	for _, w := range strings.Fields(valueLower) {
		if len(w) >= 3 && strings.Contains(clauseLower, w) {
			return true
		}
	}
	return false
}
