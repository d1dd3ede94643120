// Package engine orchestrates evidence attribution: for each proposed
// fact it locates the minimal verbatim span of document text that
// substantiates it, with a calibrated confidence, or correctly returns
// no evidence. The engine never returns an error for its normal
// contract; every degenerate or failing path produces a
// zero-confidence empty result instead.
package engine

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/factrace/factrace/internal/clause"
	"github.com/factrace/factrace/internal/embed"
	"github.com/factrace/factrace/internal/lexicon"
	"github.com/factrace/factrace/internal/model"
	"github.com/factrace/factrace/internal/normalize"
	"github.com/factrace/factrace/internal/numeric"
	"github.com/factrace/factrace/internal/score"
)

// Engine holds the static collaborators shared by all document passes.
// It is safe for concurrent use across documents; all per-document
// state lives in a Pass.
type Engine struct {
	cfg     *model.Config
	lex     *lexicon.Lexicon
	norm    *normalize.Normalizer
	scorer  *score.Scorer
	numeric *numeric.Extractor
	trimmer *clause.Trimmer
	log     *zap.Logger
}

// New creates an engine. sim may be nil; without the similarity
// capability the scorer runs on its lexical signals alone. log may be
// nil for a silent engine.
func New(cfg *model.Config, sim embed.Similarity, log *zap.Logger) *Engine {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	lex := lexicon.Default()
	return &Engine{
		cfg:     cfg,
		lex:     lex,
		norm:    normalize.NewNormalizer(),
		scorer:  score.NewScorer(cfg.Scoring, lex, sim, log),
		numeric: numeric.NewExtractor(cfg.Numeric, lex, log),
		trimmer: clause.NewTrimmer(cfg.Clause, lex),
		log:     log,
	}
}

// Pass is one document's attribution state: the normalized units, the
// cleaned ground-truth text, and the per-pass result cache. A Pass is
// not safe for concurrent use; run one goroutine per document instead.
type Pass struct {
	engine      *Engine
	lines       []string // artifact-cleaned document lines
	units       []model.TextUnit
	joinedLower string
	cache       *resultCache
}

// NewPass prepares a document for attribution. The raw lines are
// normalized once; every fact of the document reuses the result.
func (e *Engine) NewPass(documentText []string) *Pass {
	lines := normalize.CleanedLines(documentText)
	return &Pass{
		engine:      e,
		lines:       lines,
		units:       e.norm.Units(documentText),
		joinedLower: strings.ToLower(strings.Join(lines, " ")),
		cache:       newResultCache(),
	}
}

// Lines returns the cleaned document lines of this pass.
func (p *Pass) Lines() []string { return p.lines }

// scored pairs a unit with its confidence.
type scored struct {
	unit model.TextUnit
	conf float64
}

var (
	strictQuoteRe    = regexp.MustCompile(`(?i)\b(said|commented|stated)\s*:\s*["“][^"”]+["”]`)
	quoteIndicators  = []string{"said:", "commented:", "stated:"}
	dateLikeRe       = regexp.MustCompile(`(?i)^\d{1,2}[/\-. ]\d{1,2}[/\-. ]\d{2,4}$|^\d{1,2}\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{4}$|^(19|20)\d{2}$`)
	quoteFieldHints  = []string{"ceo", "statement", "comment", "quote", "remark"}
)

// Attribute locates evidence for one fact. It never returns an error:
// degenerate input, anti-pattern collisions and quality rejections all
// degrade to the empty result.
func (p *Pass) Attribute(ctx context.Context, fact model.Fact) model.EvidenceResult {
	e := p.engine
	field := strings.TrimSpace(fact.Field)
	value := strings.TrimSpace(fact.Value)

	if field == "" || value == "" || len(p.lines) == 0 {
		return model.None()
	}

	if cached, ok := p.cache.get(field, value); ok {
		e.log.Debug("cache hit", zap.String("field", field))
		return p.finish(field, value, cached, false)
	}

	discount := 1.0

	// Numeric shortcut: tried first for numeric-looking values unless
	// the field is deny-listed. A miss discounts the semantic path,
	// since a numeric value we could not pin down precisely is weaker
	// evidence wherever it turns up.
	isNumeric := e.numeric.IsNumeric(value)
	if isNumeric && !e.numeric.Denied(field) {
		if res, ok := e.numeric.Extract(p.lines, value); ok {
			e.log.Debug("numeric evidence",
				zap.String("field", field),
				zap.String("method", string(res.Method)),
				zap.Float64("confidence", res.Confidence))
			return p.finish(field, value, res, true)
		}
		discount = e.cfg.Numeric.FailureDiscount
	}

	threshold := e.thresholdFor(field, value)

	var accepted []scored
	for _, unit := range p.units {
		conf := e.scorer.Score(ctx, field, value, unit, isNumeric)
		if conf >= threshold {
			accepted = append(accepted, scored{unit: unit, conf: conf})
		}
	}

	// Quote-tagged fields either produce attributed speech or nothing;
	// a weak non-quote match would misattribute commentary.
	if isQuoteField(field) {
		return p.finish(field, value, p.quoteEvidence(accepted), true)
	}

	if len(accepted) > 0 {
		best := pickBest(accepted)
		res := p.clauseEvidence(field, value, best)
		res.Confidence *= discount
		return p.finish(field, value, res, true)
	}

	// Nothing accepted: strict recovery pass.
	res := p.recover(field, value)
	return p.finish(field, value, res, true)
}

// clauseEvidence trims the winning sentence to its evidence clause.
func (p *Pass) clauseEvidence(field, value string, best scored) model.EvidenceResult {
	span, clauseConf := p.engine.trimmer.Trim(field, value, best.unit)
	if span == "" {
		return model.EvidenceResult{Span: best.unit.Text, Confidence: best.conf, Method: model.MethodClause}
	}
	conf := (best.conf + clauseConf) / 2
	if conf > 1 {
		conf = 1
	}
	return model.EvidenceResult{Span: span, Confidence: conf, Method: model.MethodClause}
}

// quoteEvidence searches accepted sentences for quoted speech: first
// the strict `said: "..."` pattern, then clause-level indicators.
// Empty means the caller should route the fact to an unattributed
// commentary bucket.
func (p *Pass) quoteEvidence(accepted []scored) model.EvidenceResult {
	for _, s := range accepted {
		if strictQuoteRe.MatchString(s.unit.Text) {
			return model.EvidenceResult{Span: s.unit.Text, Confidence: s.conf, Method: model.MethodQuote}
		}
	}
	for _, s := range accepted {
		lower := strings.ToLower(s.unit.Text)
		for _, ind := range quoteIndicators {
			if strings.Contains(lower, ind) {
				return model.EvidenceResult{Span: s.unit.Text, Confidence: s.conf, Method: model.MethodQuote}
			}
		}
	}
	return model.None()
}

// recover is the last-resort pass: it demands an exact substring match
// of the value, trims the same way as the main path, applies a
// stricter confidence floor, and considers at most RecoveryMax
// candidates, preferring shorter sentences.
func (p *Pass) recover(field, value string) model.EvidenceResult {
	e := p.engine
	valueLower := strings.ToLower(value)

	var candidates []scored
	for _, unit := range p.units {
		if !strings.Contains(strings.ToLower(unit.Text), valueLower) {
			continue
		}
		candidates = append(candidates, scored{unit: unit})
	}
	if len(candidates) == 0 {
		return model.None()
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].unit.Text) < len(candidates[j].unit.Text)
	})
	if len(candidates) > e.cfg.Threshold.RecoveryMax {
		candidates = candidates[:e.cfg.Threshold.RecoveryMax]
	}

	best := model.None()
	for _, c := range candidates {
		span, conf := e.trimmer.Trim(field, value, c.unit)
		if span == "" || conf < e.cfg.Threshold.RecoveryFloor {
			continue
		}
		if conf > best.Confidence {
			best = model.EvidenceResult{Span: span, Confidence: conf, Method: model.MethodRecovery}
		}
	}
	if best.Method == model.MethodRecovery {
		e.log.Debug("recovery evidence", zap.String("field", field), zap.Float64("confidence", best.Confidence))
	}
	return best
}

// finish truncates, validates, and caches a result before returning it.
func (p *Pass) finish(field, value string, res model.EvidenceResult, fresh bool) model.EvidenceResult {
	e := p.engine
	if res.Span == "" {
		return model.None()
	}

	res = p.truncate(res)

	// Intrinsic rejections: artifacts and substring violations mean
	// the span cannot serve as verbatim evidence at any confidence.
	cleaned := normalize.CleanArtifacts(res.Span)
	if strings.ContainsAny(cleaned, "?") || containsStrayPlus(cleaned, value) {
		e.log.Debug("artifact rejection", zap.String("field", field))
		return model.None()
	}
	if !strings.Contains(p.joinedLower, strings.ToLower(res.Span)) {
		e.log.Debug("substring violation", zap.String("field", field))
		return model.None()
	}
	if len(res.Span) > e.cfg.Quality.LongSpanChars && res.Confidence < e.cfg.Quality.LongSpanFloor {
		e.log.Debug("long span rejection", zap.String("field", field), zap.Int("length", len(res.Span)))
		return model.None()
	}
	if res.Confidence > 1 {
		res.Confidence = 1
	}

	if fresh && res.Confidence > e.cfg.Quality.CacheFloor {
		p.cache.set(field, value, res)
	}
	return res
}

// truncate enforces the maximum span length: cut at the last clause
// boundary when that retains enough of the budget, otherwise at the
// last whole-word boundary. The span stays verbatim source text, so no
// ellipsis marker is appended.
func (p *Pass) truncate(res model.EvidenceResult) model.EvidenceResult {
	maxLen := p.engine.cfg.Quality.MaxSpanChars
	if len(res.Span) <= maxLen {
		return res
	}
	cut := res.Span[:maxLen]
	if idx := strings.LastIndexAny(cut, ".;!?"); idx >= int(float64(maxLen)*p.engine.cfg.Quality.TruncateRetain) {
		res.Span = strings.TrimSpace(cut[:idx+1])
		return res
	}
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	res.Span = strings.TrimSpace(cut)
	return res
}

// Gate applies the consuming caller's quality bar: spans below the
// configured confidence floor are cleared to empty. This is stricter
// than the engine's intrinsic acceptance thresholds, deliberately
// trading recall for precision at the boundary.
func (e *Engine) Gate(res model.EvidenceResult) model.EvidenceResult {
	if res.Span == "" {
		return model.None()
	}
	if res.Confidence < e.cfg.Quality.GateFloor {
		e.log.Debug("quality gate rejection", zap.Float64("confidence", res.Confidence))
		return model.None()
	}
	return res
}

// thresholdFor picks the adaptive acceptance threshold for a value.
func (e *Engine) thresholdFor(field, value string) float64 {
	fieldLower := strings.ToLower(field)
	for _, collision := range e.cfg.Threshold.CollisionFields {
		if fieldLower == collision || strings.Contains(fieldLower, collision) {
			return e.cfg.Threshold.CollisionProne
		}
	}
	if e.numeric.IsNumeric(value) ||
		len(strings.TrimSpace(value)) <= e.cfg.Threshold.ShortValueLen ||
		score.IsCodeLike(value) ||
		dateLikeRe.MatchString(strings.TrimSpace(value)) {
		return e.cfg.Threshold.ShortValue
	}
	return e.cfg.Threshold.FreeText
}

// pickBest returns the accepted unit with the highest confidence,
// breaking exact ties toward the earliest unit in the document.
func pickBest(accepted []scored) scored {
	best := accepted[0]
	for _, s := range accepted[1:] {
		if s.conf > best.conf ||
			(s.conf == best.conf && s.unit.OriginIndex < best.unit.OriginIndex) {
			best = s
		}
	}
	return best
}

// isQuoteField reports whether a field is tagged as reported speech.
func isQuoteField(field string) bool {
	fieldLower := strings.ToLower(field)
	for _, hint := range quoteFieldHints {
		if strings.Contains(fieldLower, hint) {
			return true
		}
	}
	return false
}

// containsStrayPlus reports a '+' in the span that is not part of the
// value itself (blood types and tickers legitimately carry one).
func containsStrayPlus(span, value string) bool {
	total := strings.Count(span, "+")
	if total == 0 {
		return false
	}
	inValue := strings.Count(value, "+")
	if inValue == 0 {
		return true
	}
	occurrences := strings.Count(strings.ToLower(span), strings.ToLower(value))
	return total > occurrences*inValue
}
