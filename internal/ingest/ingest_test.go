package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/factrace/factrace/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadDocument_PlainText(t *testing.T) {
	path := writeFile(t, "doc.txt", "first line\r\nsecond line\nthird line")
	lines, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "first line" || lines[1] != "second line" {
		t.Errorf("Unexpected lines: %v", lines)
	}
}

func TestLoadDocument_HTML(t *testing.T) {
	html := `<html><head><style>body { color: red }</style></head>
	<body>
	<h1>Half Year Results</h1>
	<p>Underlying NPAT of AUD 46.7mn</p>
	<script>console.log("ignored")</script>
	<p>Interim dividend of 18.0 cents</p>
	</body></html>`
	path := writeFile(t, "doc.html", html)

	lines, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "Underlying NPAT of AUD 46.7mn") {
		t.Errorf("Expected paragraph text, got %v", lines)
	}
	if strings.Contains(joined, "console.log") {
		t.Errorf("Script content leaked: %v", lines)
	}
	if strings.Contains(joined, "color: red") {
		t.Errorf("Style content leaked: %v", lines)
	}
}

func TestLoadDocument_Missing(t *testing.T) {
	if _, err := LoadDocument("/nonexistent/file.txt"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadFacts(t *testing.T) {
	yaml := `facts:
  Underlying_NPAT:
    value: "AUD 46.7mn"
    source: table
  Interim_Dividend:
    value: "18.0 cents"
    source: key_value
  CEO_Statement:
    value: "Results were strong"
`
	path := writeFile(t, "facts.yaml", yaml)

	facts, err := LoadFacts(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(facts) != 3 {
		t.Fatalf("Expected 3 facts, got %d", len(facts))
	}

	// Sorted field order keeps runs reproducible.
	if facts[0].Field != "CEO_Statement" || facts[2].Field != "Underlying_NPAT" {
		t.Errorf("Expected sorted field order, got %v", facts)
	}

	byField := map[string]model.Fact{}
	for _, f := range facts {
		byField[f.Field] = f
	}
	if byField["Underlying_NPAT"].Source != model.SourceTable {
		t.Errorf("Expected table source, got %s", byField["Underlying_NPAT"].Source)
	}
	if byField["CEO_Statement"].Source != model.SourceText {
		t.Errorf("Expected default text_chunk source, got %s", byField["CEO_Statement"].Source)
	}
}

func TestLoadFacts_UnknownSource(t *testing.T) {
	yaml := `facts:
  Field_A:
    value: "x"
    source: telepathy
`
	path := writeFile(t, "facts.yaml", yaml)
	if _, err := LoadFacts(path); err == nil {
		t.Error("Expected error for unknown source kind")
	}
}

func TestLoadFacts_Empty(t *testing.T) {
	path := writeFile(t, "facts.yaml", "facts: {}\n")
	if _, err := LoadFacts(path); err == nil {
		t.Error("Expected error for empty facts file")
	}
}
