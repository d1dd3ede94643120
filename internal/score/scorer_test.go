package score

import (
	"context"
	"errors"
	"testing"

	"github.com/factrace/factrace/internal/lexicon"
	"github.com/factrace/factrace/internal/model"
)

func newTestScorer(sim *stubSimilarity) *Scorer {
	cfg := model.DefaultConfig().Scoring
	if sim == nil {
		return NewScorer(cfg, lexicon.Default(), nil, nil)
	}
	return NewScorer(cfg, lexicon.Default(), sim, nil)
}

type stubSimilarity struct {
	value float64
	err   error
	calls int
}

func (s *stubSimilarity) Similarity(ctx context.Context, a, b string) (float64, error) {
	s.calls++
	return s.value, s.err
}

func unit(text string) model.TextUnit {
	return model.TextUnit{Text: text, OriginIndex: 0}
}

func TestScorer_AntiPatternRejects(t *testing.T) {
	s := newTestScorer(nil)
	conf := s.Score(context.Background(), "Blood_Group", "O+",
		unit("Blood money transactions were flagged across the region during the review"), false)
	if conf != 0 {
		t.Errorf("Expected anti-pattern rejection, got confidence %f", conf)
	}
}

func TestScorer_ExactValueMatch(t *testing.T) {
	s := newTestScorer(nil)
	conf := s.Score(context.Background(), "Blood_Group", "O+",
		unit("The patient's blood group was recorded as O+ in the medical file"), false)
	if conf < 0.5 {
		t.Errorf("Expected strong confidence for exact value with field context, got %f", conf)
	}
}

func TestScorer_LengthGate(t *testing.T) {
	s := newTestScorer(nil)
	conf := s.Score(context.Background(), "revenue", "100", unit("Revenue was 100"), false)
	if conf != 0 {
		t.Errorf("Expected too-short unit rejected, got %f", conf)
	}
}

func TestScorer_NumericFieldsAllowLongerUnits(t *testing.T) {
	s := newTestScorer(nil)
	text := "The group reported revenue of AUD 210.4mn for the half year, an increase of 15.2% on the prior corresponding period, reflecting strong growth across all operating segments and continued momentum in new business wins together with solid renewal rates in the core portfolio of long standing clients"
	if got := len(splitWords(text)); got <= 45 || got > 55 {
		t.Fatalf("Test sentence must sit between the word caps, has %d words", got)
	}

	if conf := s.Score(context.Background(), "revenue", "AUD 210.4mn", unit(text), false); conf != 0 {
		t.Errorf("Expected over-cap rejection for non-numeric scoring, got %f", conf)
	}
	if conf := s.Score(context.Background(), "revenue", "AUD 210.4mn", unit(text), true); conf == 0 {
		t.Error("Expected numeric cap to accept the longer unit")
	}
}

func TestScorer_NoSignalScoresZero(t *testing.T) {
	s := newTestScorer(nil)
	conf := s.Score(context.Background(), "dividend_per_share", "18.0 cents",
		unit("The weather across the eastern seaboard stayed unusually mild this season"), false)
	if conf != 0 {
		t.Errorf("Expected zero for unrelated sentence, got %f", conf)
	}
}

func TestScorer_MultiDomainPenalty(t *testing.T) {
	s := newTestScorer(nil)
	straddling := unit("His employer recorded the blood type in medical records at the hospital where health checks were done for the role")
	focused := unit("The blood group on file for the patient was recorded as type AB in hospital records")

	strad := s.Score(context.Background(), "citizenship", "Indian", straddling, false)
	foc := s.Score(context.Background(), "citizenship", "Indian", focused, false)
	_ = foc
	if strad > 0.2 {
		t.Errorf("Expected straddling sentence diluted for unrelated field, got %f", strad)
	}
}

func TestScorer_EmbeddingContribution(t *testing.T) {
	sim := &stubSimilarity{value: 1.0}
	withSim := newTestScorer(sim)
	without := newTestScorer(nil)

	u := unit("The interim dividend was declared at 18.0 cents per share for the half")
	base := without.Score(context.Background(), "interim_dividend", "18.0 cents", u, false)
	boosted := withSim.Score(context.Background(), "interim_dividend", "18.0 cents", u, false)

	if sim.calls == 0 {
		t.Fatal("Expected the similarity provider to be consulted")
	}
	if boosted <= base {
		t.Errorf("Expected embedding boost: base %f, boosted %f", base, boosted)
	}
}

func TestScorer_EmbeddingErrorIsNotFatal(t *testing.T) {
	sim := &stubSimilarity{err: errors.New("rate limited")}
	s := newTestScorer(sim)
	u := unit("The interim dividend was declared at 18.0 cents per share for the half")
	conf := s.Score(context.Background(), "interim_dividend", "18.0 cents", u, false)
	if conf <= 0 {
		t.Errorf("Expected lexical score to survive similarity failure, got %f", conf)
	}
}

func TestScorer_ConfidenceBounded(t *testing.T) {
	sim := &stubSimilarity{value: 1.0}
	s := newTestScorer(sim)
	u := unit("Underlying NPAT profit earnings of AUD 46.7mn with npat margin up strongly for the period")
	conf := s.Score(context.Background(), "underlying_npat", "AUD 46.7mn", u, true)
	if conf < 0 || conf > 1 {
		t.Errorf("Confidence out of bounds: %f", conf)
	}
}

func TestIsCodeLike(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"O+", true},
		{"AUD", true},
		{"ASX", true},
		{"AB-", true},
		{"revenue", false},
		{"AUD 46.7mn", false},
		{"18.0", false},
		{"VERYLONGCODE", false},
	}
	for _, tc := range cases {
		if got := IsCodeLike(tc.value); got != tc.want {
			t.Errorf("IsCodeLike(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestValueTerms(t *testing.T) {
	terms := valueTerms("AUD 46.7mn")
	found := map[string]bool{}
	for _, term := range terms {
		found[term] = true
	}
	if !found["46.7"] {
		t.Errorf("Expected numeric term 46.7 in %v", terms)
	}
	if !found["aud"] {
		t.Errorf("Expected word term aud in %v", terms)
	}
	if !found["aud 46.7mn"] {
		t.Errorf("Expected whole value in %v", terms)
	}
}

func splitWords(s string) []string {
	var words []string
	start := -1
	for i, r := range s {
		if r == ' ' {
			if start >= 0 {
				words = append(words, s[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, s[start:])
	}
	return words
}
