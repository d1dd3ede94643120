// Package normalize repairs OCR artifacts in raw document text and
// segments it into ordered sentence and phrase units. Every surviving
// unit remains, lower-cased, a substring of the cleaned lower-cased
// document text, so downstream spans are always verbatim evidence.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/factrace/factrace/internal/model"
)

// Normalizer segments raw document lines into TextUnits.
type Normalizer struct {
	minUnitChars int
	maxUnitChars int
}

// NewNormalizer creates a normalizer with the standard unit-length
// bounds (10 to 500 characters).
func NewNormalizer() *Normalizer {
	return &Normalizer{minUnitChars: 10, maxUnitChars: 500}
}

var (
	superscriptRe = regexp.MustCompile(`[⁰¹²³⁴⁵⁶⁷⁸⁹]+`)
	footnoteRe    = regexp.MustCompile(`\(\d+\)|\[\d+\]|\*+`)
	strayMarkRe   = regexp.MustCompile(`([A-Za-z0-9])\?([A-Za-z0-9])`)
	yoyRe         = regexp.MustCompile(`(?i)\b([yq])\s+o\s+([yq])\b`)
	bulletRe      = regexp.MustCompile(`^\s*(?:[•●▪◦‣]+|[-–—*]|\d{1,2}[.)])\s+`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// CleanArtifacts repairs known OCR damage in a string: superscript
// footnote markers, stray interrogation marks spliced between
// characters, duplicated bullet glyphs, unicode dashes, and split
// year-over-year style abbreviations. Whitespace runs collapse to a
// single space. The same transform must be applied to any text a span
// is validated against.
func CleanArtifacts(s string) string {
	s = superscriptRe.ReplaceAllString(s, "")
	s = footnoteRe.ReplaceAllString(s, "")
	for prev := ""; prev != s; {
		prev = s
		s = strayMarkRe.ReplaceAllString(s, "$1$2")
	}
	s = strings.NewReplacer("–", "-", "—", "-", " ", " ").Replace(s)
	s = yoyRe.ReplaceAllStringFunc(s, func(m string) string {
		first := strings.ToLower(string(m[0]))
		last := strings.ToLower(string(m[len(m)-1]))
		if first != last {
			return m
		}
		if first == "q" {
			return "QoQ"
		}
		return "YoY"
	})
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CleanedLines applies CleanArtifacts to every line, dropping lines
// that clean down to nothing.
func CleanedLines(lines []string) []string {
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if c := CleanArtifacts(line); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return cleaned
}

// JoinedText returns the cleaned document as one space-joined string,
// the ground truth the substring invariant is checked against.
func JoinedText(lines []string) string {
	return strings.Join(CleanedLines(lines), " ")
}

// Units segments raw document lines into ordered sentence and phrase
// units. Section headers (short all-caps lines) are boundaries and are
// discarded; bullet and numbered list items become standalone phrases;
// consecutive prose lines are joined into paragraphs before sentence
// splitting.
func (n *Normalizer) Units(lines []string) []model.TextUnit {
	var units []model.TextUnit
	var paragraph []string
	index := 0

	emit := func(text string) {
		text = strings.TrimSpace(text)
		if len(text) < n.minUnitChars || len(text) > n.maxUnitChars {
			return
		}
		units = append(units, model.TextUnit{Text: text, OriginIndex: index})
		index++
	}

	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		joined := strings.Join(paragraph, " ")
		paragraph = paragraph[:0]
		for _, sentence := range splitSentences(joined) {
			emit(sentence)
		}
	}

	for _, raw := range lines {
		line := CleanArtifacts(raw)
		if line == "" {
			flush()
			continue
		}
		if isHeader(line) {
			flush()
			continue
		}
		if m := bulletRe.FindString(line); m != "" {
			flush()
			for _, sentence := range splitSentences(line[len(m):]) {
				emit(sentence)
			}
			continue
		}
		paragraph = append(paragraph, line)
	}
	flush()

	return units
}

// isHeader reports whether a line is a short all-caps section header.
func isHeader(line string) bool {
	if len(line) > 60 {
		return false
	}
	letters := 0
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= 2
}

// splitSentences splits on terminator + space + capital boundaries,
// falling back to semicolons, and finally treating an unbroken long
// run as a single phrase.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes)-2; i++ {
		if (runes[i] == '.' || runes[i] == '!' || runes[i] == '?') &&
			unicode.IsSpace(runes[i+1]) && unicode.IsUpper(runes[i+2]) {
			sentences = append(sentences, strings.TrimSpace(string(runes[start:i+1])))
			start = i + 2
		}
	}
	sentences = append(sentences, strings.TrimSpace(string(runes[start:])))

	// An overly long single segment usually means OCR lost the
	// sentence punctuation; retry on semicolons.
	if len(sentences) == 1 && len(sentences[0]) > 500 && strings.Contains(sentences[0], ";") {
		parts := strings.Split(sentences[0], ";")
		sentences = sentences[:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				sentences = append(sentences, p)
			}
		}
	}

	return sentences
}
