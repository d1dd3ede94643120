package normalize

import (
	"strings"
	"testing"
)

func TestCleanArtifacts_Superscripts(t *testing.T) {
	got := CleanArtifacts("Revenue¹ grew to AUD 100mn²")
	want := "Revenue grew to AUD 100mn"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestCleanArtifacts_FootnoteMarkers(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Profit(1) rose sharply", "Profit rose sharply"},
		{"Profit[2] rose sharply", "Profit rose sharply"},
		{"Profit** rose sharply", "Profit rose sharply"},
	}
	for _, tc := range cases {
		if got := CleanArtifacts(tc.in); got != tc.want {
			t.Errorf("CleanArtifacts(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanArtifacts_StrayQuestionMarks(t *testing.T) {
	// OCR splices '?' between characters; repeated marks must all go.
	got := CleanArtifacts("divid?end of 1?8.0 cents")
	want := "dividend of 18.0 cents"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	// A real question mark at a word end survives.
	if got := CleanArtifacts("Will margins improve? Yes."); !strings.Contains(got, "improve?") {
		t.Errorf("Expected terminal question mark to survive, got %q", got)
	}
}

func TestCleanArtifacts_OverlappingStrayMarks(t *testing.T) {
	got := CleanArtifacts("a?b?c?d")
	if got != "abcd" {
		t.Errorf("Expected %q, got %q", "abcd", got)
	}
}

func TestCleanArtifacts_SplitYoY(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"up 12% y o y", "up 12% YoY"},
		{"down 3% Q o Q", "down 3% QoQ"},
		{"grew y o q overall", "grew y o q overall"},
		{"moved q o y slightly", "moved q o y slightly"},
	}
	for _, tc := range cases {
		if got := CleanArtifacts(tc.in); got != tc.want {
			t.Errorf("CleanArtifacts(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanArtifacts_DashesAndWhitespace(t *testing.T) {
	got := CleanArtifacts("pre–tax  profit —  up")
	want := "pre-tax profit - up"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestJoinedText_DropsEmptyLines(t *testing.T) {
	lines := []string{"First line.", "", "  ", "Second line."}
	got := JoinedText(lines)
	want := "First line. Second line."
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestUnits_SentenceSplitting(t *testing.T) {
	n := NewNormalizer()
	lines := []string{"The company reported revenue of AUD 100mn. Margins improved to 12% during the period."}

	units := n.Units(lines)
	if len(units) != 2 {
		t.Fatalf("Expected 2 units, got %d: %v", len(units), units)
	}
	if units[0].Text != "The company reported revenue of AUD 100mn." {
		t.Errorf("Unexpected first unit: %q", units[0].Text)
	}
	if units[1].OriginIndex != 1 {
		t.Errorf("Expected ordered origin indices, got %d", units[1].OriginIndex)
	}
}

func TestUnits_HeadersAreBoundariesAndDiscarded(t *testing.T) {
	n := NewNormalizer()
	lines := []string{
		"FINANCIAL HIGHLIGHTS",
		"Revenue grew strongly over the period.",
	}

	units := n.Units(lines)
	if len(units) != 1 {
		t.Fatalf("Expected 1 unit, got %d", len(units))
	}
	if strings.Contains(units[0].Text, "HIGHLIGHTS") {
		t.Errorf("Header leaked into unit: %q", units[0].Text)
	}
}

func TestUnits_BulletsAreStandalone(t *testing.T) {
	n := NewNormalizer()
	lines := []string{
		"• Underlying NPAT of AUD 46.7mn, up 52.6%",
		"• Interim dividend of 18.0 cents per share",
	}

	units := n.Units(lines)
	if len(units) != 2 {
		t.Fatalf("Expected 2 units, got %d: %v", len(units), units)
	}
	for _, u := range units {
		if strings.HasPrefix(u.Text, "•") {
			t.Errorf("Bullet glyph survived in unit: %q", u.Text)
		}
	}
}

func TestUnits_ParagraphAccumulation(t *testing.T) {
	n := NewNormalizer()
	lines := []string{
		"The group delivered a strong result",
		"with revenue up 15% on the prior period.",
		"",
		"Outlook remains positive for the full year.",
	}

	units := n.Units(lines)
	if len(units) != 2 {
		t.Fatalf("Expected 2 units, got %d: %v", len(units), units)
	}
	if !strings.Contains(units[0].Text, "strong result with revenue") {
		t.Errorf("Expected wrapped lines joined into one sentence, got %q", units[0].Text)
	}
}

func TestUnits_LengthBounds(t *testing.T) {
	n := NewNormalizer()
	lines := []string{
		"Short.",
		strings.Repeat("very long sentence fragment without terminator ", 20),
	}

	units := n.Units(lines)
	for _, u := range units {
		if len(u.Text) < 10 || len(u.Text) > 500 {
			t.Errorf("Unit length %d outside bounds: %q", len(u.Text), u.Text[:50])
		}
	}
}

func TestUnits_SubstringOfJoinedText(t *testing.T) {
	n := NewNormalizer()
	lines := []string{
		"Revenue¹ grew to AUD 100?mn. The interim dividend was 18.0 cents per share.",
		"• EBIT margin of 12.4% (1HFY22: 10.1%)",
	}

	joined := strings.ToLower(JoinedText(lines))
	for _, u := range n.Units(lines) {
		if !strings.Contains(joined, strings.ToLower(u.Text)) {
			t.Errorf("Unit is not a substring of the cleaned document: %q", u.Text)
		}
	}
}

func TestSplitSentences_SemicolonFallback(t *testing.T) {
	long := strings.Repeat("alpha beta gamma delta ", 12) + "; " + strings.Repeat("epsilon zeta eta theta ", 12)
	parts := splitSentences(long)
	if len(parts) < 2 {
		t.Errorf("Expected semicolon fallback to split long run, got %d parts", len(parts))
	}
}
