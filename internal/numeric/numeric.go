// Package numeric implements the specialized evidence strategies for
// numeric and currency values: anchor-phrase extraction, comparative
// pair extraction, and a windowed fallback. Numeric facts are by far
// the most common in financial disclosures and the anchor strategy is
// what keeps prior-period comparatives intact.
package numeric

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/factrace/factrace/internal/lexicon"
	"github.com/factrace/factrace/internal/model"
	"github.com/factrace/factrace/internal/normalize"
)

// Extractor locates numeric evidence in cleaned document lines.
type Extractor struct {
	cfg model.NumericConfig
	lex *lexicon.Lexicon
	log *zap.Logger
}

// NewExtractor creates a numeric evidence extractor.
func NewExtractor(cfg model.NumericConfig, lex *lexicon.Lexicon, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{cfg: cfg, lex: lex, log: log}
}

var (
	numericValueRe = regexp.MustCompile(`(?i)^(aud|usd|nzd|eur|gbp|cad|jpy|[$€£¥])?\s*-?\d[\d,]*\.?\d*\s*(mn|bn|m|b|k|%|x|bps|cents?|million|billion|thousand)?$`)
	numberTokenRe  = regexp.MustCompile(`\d[\d,]*\.?\d*`)
	trailingPctRe  = regexp.MustCompile(`^,?\s*(?:up|down|flat)\s+[\d.]+%`)
	bulletPrefixRe = regexp.MustCompile(`^\s*(?:[•●▪◦‣]+|[-–—*]|\d{1,2}[.)])\s+`)
)

// IsNumeric classifies a value as numeric: currency, percentage or
// magnitude patterns, or digit density above the configured threshold.
func (e *Extractor) IsNumeric(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	if numericValueRe.MatchString(v) {
		return true
	}
	digits := 0
	for _, r := range v {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return float64(digits)/float64(len(v)) > e.cfg.DigitDensity
}

// Denied reports whether the field is in the deny-list of fields known
// to mis-match on numeric shortcuts (generic period/company fields).
func (e *Extractor) Denied(field string) bool {
	fieldLower := strings.ToLower(field)
	for _, deny := range e.cfg.DenyFields {
		if fieldLower == deny || strings.HasPrefix(fieldLower, deny+"_") || strings.HasSuffix(fieldLower, "_"+deny) {
			return true
		}
	}
	return false
}

// Extract runs the three ordered strategies over cleaned document
// lines. The boolean is false when every strategy failed and control
// should fall through to the semantic pipeline.
func (e *Extractor) Extract(lines []string, value string) (model.EvidenceResult, bool) {
	if res, ok := e.anchorPhrase(lines, value); ok {
		return res, true
	}
	if res, ok := e.comparativePair(lines, value); ok {
		return res, true
	}
	if res, ok := e.window(lines, value); ok {
		return res, true
	}
	return model.None(), false
}

// anchorPhrase scans for a financial-metric anchor followed by the
// target value within the same line. The phrase runs from the anchor
// to the end of the value match, extended to swallow an immediately
// trailing parenthetical comparative and/or percentage-change clause
// as one atomic span.
func (e *Extractor) anchorPhrase(lines []string, value string) (model.EvidenceResult, bool) {
	for _, line := range lines {
		lineLower := strings.ToLower(line)
		for _, anchor := range e.lex.Anchors() {
			anchorIdx := strings.Index(lineLower, anchor)
			if anchorIdx < 0 {
				continue
			}
			_, valEnd, ok := findValue(line, anchorIdx+len(anchor), value)
			if !ok {
				continue
			}
			end := extendComparative(line, valEnd)
			phrase := strings.TrimSpace(line[anchorIdx:end])
			if hasArtifact(phrase) {
				e.log.Debug("anchor phrase rejected for artifacts", zap.String("phrase", phrase))
				continue
			}
			return model.EvidenceResult{Span: phrase, Confidence: 1.0, Method: model.MethodNumericAnchor}, true
		}
	}
	return model.None(), false
}

// comparativePair returns the full cleaned line when it holds the
// target value alongside at least one other numeric token.
func (e *Extractor) comparativePair(lines []string, value string) (model.EvidenceResult, bool) {
	for _, line := range lines {
		if _, _, ok := findValue(line, 0, value); !ok {
			continue
		}
		if len(numberTokenRe.FindAllString(line, -1)) < 2 {
			continue
		}
		span := strings.TrimSpace(bulletPrefixRe.ReplaceAllString(line, ""))
		if hasArtifact(span) {
			continue
		}
		conf := e.cfg.PairConfidence
		if strings.Contains(strings.ToLower(span), strings.ToLower(strings.TrimSpace(value))) {
			conf += e.cfg.PairExactBoost
		}
		if conf > 1 {
			conf = 1
		}
		return model.EvidenceResult{Span: span, Confidence: conf, Method: model.MethodNumericPair}, true
	}
	return model.None(), false
}

// window extracts a fixed character window around the first occurrence
// of the value, expanded outward to the nearest sentence-ending
// punctuation in each direction. The window never leaves the line the
// value sits on, so headings and neighboring sections stay out of the
// span, and a decimal point inside a figure is not a sentence end.
func (e *Extractor) window(lines []string, value string) (model.EvidenceResult, bool) {
	for _, line := range lines {
		start, end, ok := findValue(line, 0, value)
		if !ok {
			continue
		}

		lo := start - e.cfg.WindowChars
		if lo < 0 {
			lo = 0
		}
		hi := end + e.cfg.WindowChars
		if hi > len(line) {
			hi = len(line)
		}
		for i := lo; i >= 0; i-- {
			if sentenceEnd(line, i) {
				lo = i + 1
				break
			}
			if i == 0 {
				lo = 0
			}
		}
		for i := hi - 1; i < len(line); i++ {
			if sentenceEnd(line, i) {
				hi = i + 1
				break
			}
			if i == len(line)-1 {
				hi = len(line)
			}
		}

		span := strings.TrimSpace(bulletPrefixRe.ReplaceAllString(line[lo:hi], ""))
		if hasArtifact(span) {
			return model.None(), false
		}
		conf := e.cfg.WindowPartial
		if strings.Contains(strings.ToLower(line), strings.ToLower(strings.TrimSpace(value))) {
			conf = e.cfg.WindowExact
		}
		return model.EvidenceResult{Span: span, Confidence: conf, Method: model.MethodNumericWindow}, true
	}
	return model.None(), false
}

// sentenceEnd reports whether s[i] terminates a sentence. A period
// flanked by digits is a decimal point, not a terminator.
func sentenceEnd(s string, i int) bool {
	switch s[i] {
	case '!', '?':
		return true
	case '.':
		return !(i > 0 && i+1 < len(s) && isDigit(s[i-1]) && isDigit(s[i+1]))
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// findValue locates the value within line starting at offset. The
// whole value is tried case-insensitively first; failing that, its
// first numeric token, with the end extended through an attached
// magnitude suffix (mn, %, cents).
func findValue(line string, offset int, value string) (start, end int, ok bool) {
	if offset >= len(line) {
		return 0, 0, false
	}
	haystack := strings.ToLower(line[offset:])
	needle := strings.ToLower(strings.TrimSpace(value))

	if needle != "" {
		if idx := strings.Index(haystack, needle); idx >= 0 {
			return offset + idx, offset + idx + len(needle), true
		}
	}

	num := numberTokenRe.FindString(needle)
	if num == "" {
		return 0, 0, false
	}
	idx := strings.Index(haystack, num)
	if idx < 0 {
		return 0, 0, false
	}
	start = offset + idx
	end = start + len(num)
	// Swallow an attached magnitude suffix so "46.7" becomes "46.7mn".
	for end < len(line) {
		r := line[end]
		if r == '%' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			end++
			continue
		}
		break
	}
	return start, end, true
}

// extendComparative pushes the span end past an immediately trailing
// parenthetical period-comparative and/or percentage-change clause.
// Parentheticals are atomic: the span never stops inside one.
func extendComparative(line string, end int) int {
	for {
		rest := line[end:]
		trimmed := strings.TrimLeft(rest, " ")
		lead := len(rest) - len(trimmed)

		if strings.HasPrefix(trimmed, "(") {
			if close := strings.Index(trimmed, ")"); close >= 0 {
				end += lead + close + 1
				continue
			}
			// Unterminated parenthetical: take the rest of the line
			// rather than cut mid-parenthetical.
			return len(line)
		}
		if m := trailingPctRe.FindString(trimmed); m != "" {
			end += lead + len(m)
			continue
		}
		return end
	}
}

// hasArtifact reports a leftover OCR marker in a candidate phrase.
// normalize.CleanArtifacts removes the repairable ones; anything that
// survives means the source text is unreliable here.
func hasArtifact(span string) bool {
	return strings.ContainsAny(normalize.CleanArtifacts(span), "?+")
}
