// Package ingest loads documents into the line-oriented form the
// engine consumes. Real deployments receive document text from an
// upstream OCR/extraction service; these loaders exist so the CLI can
// drive the engine against local files.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/factrace/factrace/internal/model"
)

// LoadDocument reads a document file into raw text lines. HTML files
// are reduced to their visible text; everything else is treated as
// plain line-oriented text.
func LoadDocument(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return VisibleLines(strings.NewReader(string(data)))
	default:
		return strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n"), nil
	}
}

// factsFile is the YAML shape of a facts input file.
type factsFile struct {
	Facts map[string]factEntry `yaml:"facts"`
}

type factEntry struct {
	Value  string `yaml:"value"`
	Source string `yaml:"source"`
}

// LoadFacts reads a YAML facts file into engine input. Field order
// follows the sorted field names so runs are reproducible.
func LoadFacts(path string) ([]model.Fact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read facts: %w", err)
	}

	var file factsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse facts: %w", err)
	}
	if len(file.Facts) == 0 {
		return nil, fmt.Errorf("no facts in %s", path)
	}

	fields := make([]string, 0, len(file.Facts))
	for field := range file.Facts {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	facts := make([]model.Fact, 0, len(fields))
	for _, field := range fields {
		entry := file.Facts[field]
		source := model.SourceKind(entry.Source)
		switch source {
		case model.SourceTable, model.SourceKeyValue, model.SourceText:
		case "":
			source = model.SourceText
		default:
			return nil, fmt.Errorf("unknown source kind %q for field %q", entry.Source, field)
		}
		facts = append(facts, model.Fact{Field: field, Value: entry.Value, Source: source})
	}
	return facts, nil
}
