package engine

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/factrace/factrace/internal/model"
)

// ProcessDocument runs one full attribution pass: every fact is
// attributed against the document, the caller-level quality gate is
// applied, leftover commentary is collected, and coverage statistics
// are rolled up.
func (e *Engine) ProcessDocument(ctx context.Context, name string, documentText []string, facts []model.Fact) *model.Report {
	pass := e.NewPass(documentText)

	results := make([]model.Attribution, 0, len(facts))
	for _, fact := range facts {
		res := e.Gate(pass.Attribute(ctx, fact))
		results = append(results, model.Attribution{
			Fact:       fact,
			Context:    res.Span,
			Confidence: res.Confidence,
			Method:     res.Method,
			HasContext: res.Span != "",
		})
	}

	report := &model.Report{
		Document:     name,
		ProcessedAt:  time.Now().UTC(),
		Results:      results,
		Unattributed: pass.unmatchedParagraphs(results),
		Summary:      pass.summarize(results),
	}

	e.log.Info("document pass complete",
		zap.String("document", name),
		zap.Int("facts", report.Summary.TotalFields),
		zap.Int("with_context", report.Summary.FieldsWithContext),
		zap.Float64("coverage", report.Summary.CoveragePercent))

	return report
}

// summarize rolls up coverage statistics for the pass.
func (p *Pass) summarize(results []model.Attribution) model.CoverageSummary {
	summary := model.CoverageSummary{
		TotalFields:       len(results),
		DocumentTextLines: len(p.lines),
		DocumentTextChars: len(p.joinedLower),
	}
	for _, r := range results {
		if r.HasContext {
			summary.FieldsWithContext++
			summary.TotalSpanChars += len(r.Context)
		}
	}
	if summary.TotalFields > 0 {
		summary.CoveragePercent = round1(float64(summary.FieldsWithContext) / float64(summary.TotalFields) * 100)
	}
	if summary.FieldsWithContext > 0 {
		summary.AverageSpanLength = round1(float64(summary.TotalSpanChars) / float64(summary.FieldsWithContext))
	}
	return summary
}

// unmatchedParagraphs collects substantial document text that no
// returned context claimed, showing what the engine declined to
// attribute.
func (p *Pass) unmatchedParagraphs(results []model.Attribution) []string {
	used := make(map[int]bool)
	for _, r := range results {
		if !r.HasContext {
			continue
		}
		ctxLower := strings.ToLower(r.Context)
		head := ctxLower
		if len(head) > 100 {
			head = head[:100]
		}
		for i, line := range p.lines {
			lineLower := strings.ToLower(line)
			if strings.Contains(ctxLower, lineLower) || strings.Contains(lineLower, head) {
				for j := max(0, i-1); j < min(len(p.lines), i+2); j++ {
					used[j] = true
				}
			}
		}
	}

	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		paragraph := strings.Join(current, " ")
		current = current[:0]
		if len(paragraph) > 50 {
			paragraphs = append(paragraphs, paragraph)
		}
	}
	for i, line := range p.lines {
		if !used[i] && len(strings.TrimSpace(line)) > 15 {
			current = append(current, strings.TrimSpace(line))
		} else {
			flush()
		}
	}
	flush()

	limit := p.engine.cfg.Quality.UnmatchedChunks
	if len(paragraphs) > limit {
		paragraphs = paragraphs[:limit]
	}
	for i, paragraph := range paragraphs {
		paragraphs[i] = truncateAtSentence(paragraph, 500, 450)
	}
	return paragraphs
}

// truncateAtSentence shortens a paragraph past maxLen to complete
// sentences under budget, falling back to a word boundary.
func truncateAtSentence(text string, maxLen, budget int) string {
	if len(text) <= maxLen {
		return text
	}
	var out strings.Builder
	for _, sentence := range strings.SplitAfter(strings.NewReplacer("!", ".", "?", ".").Replace(text), ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if out.Len()+len(sentence) >= budget {
			break
		}
		out.WriteString(sentence)
		out.WriteString(" ")
	}
	if result := strings.TrimSpace(out.String()); len(result) > 50 {
		return result
	}
	cut := text[:budget]
	if idx := strings.LastIndex(cut, " "); idx > 300 {
		cut = cut[:idx]
	}
	return cut
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
