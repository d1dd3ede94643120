package validate

import (
	"testing"

	"github.com/factrace/factrace/internal/model"
)

func fact(field, value string) model.Fact {
	return model.Fact{Field: field, Value: value, Source: model.SourceText}
}

func TestFacts_ValidPassThrough(t *testing.T) {
	runnable, issues := Facts([]model.Fact{
		fact("underlying_npat", "AUD 46.7mn"),
		fact("interim_dividend", "18.0 cents"),
	})
	if len(issues) != 0 {
		t.Errorf("Expected no issues, got %v", issues)
	}
	if len(runnable) != 2 {
		t.Errorf("Expected 2 runnable facts, got %d", len(runnable))
	}
}

func TestFacts_EmptyFieldAndValueDropped(t *testing.T) {
	runnable, issues := Facts([]model.Fact{
		fact("", "AUD 46.7mn"),
		fact("revenue", "   "),
		fact("margin", "12.4%"),
	})
	if len(runnable) != 1 || runnable[0].Field != "margin" {
		t.Errorf("Expected only the valid fact to survive, got %v", runnable)
	}
	if len(issues) != 2 {
		t.Fatalf("Expected 2 issues, got %v", issues)
	}
	for _, issue := range issues {
		if issue.Severity != SeverityError {
			t.Errorf("Expected error severity, got %s", issue.Severity)
		}
	}
}

func TestFacts_DuplicateFieldDropped(t *testing.T) {
	runnable, issues := Facts([]model.Fact{
		fact("revenue", "AUD 210.4mn"),
		fact("Revenue", "AUD 999.9mn"),
	})
	if len(runnable) != 1 {
		t.Errorf("Expected duplicate dropped, got %v", runnable)
	}
	if len(issues) != 1 || issues[0].Message != "duplicate field" {
		t.Errorf("Expected duplicate issue, got %v", issues)
	}
	if runnable[0].Value != "AUD 210.4mn" {
		t.Errorf("Expected first occurrence kept, got %q", runnable[0].Value)
	}
}

func TestFacts_PlaceholderWarns(t *testing.T) {
	runnable, issues := Facts([]model.Fact{
		fact("citizenship", "N/A"),
	})
	if len(runnable) != 1 {
		t.Errorf("Warning-level facts must still run, got %v", runnable)
	}
	if len(issues) != 1 || issues[0].Severity != SeverityWarning {
		t.Errorf("Expected placeholder warning, got %v", issues)
	}
}

func TestFacts_ControlCharactersWarn(t *testing.T) {
	runnable, issues := Facts([]model.Fact{
		fact("notes", "value with \x00 byte"),
	})
	if len(runnable) != 1 {
		t.Errorf("Expected the fact kept, got %v", runnable)
	}
	if len(issues) != 1 || issues[0].Severity != SeverityWarning {
		t.Errorf("Expected control character warning, got %v", issues)
	}
}

func TestFacts_OversizedValueDropped(t *testing.T) {
	big := make([]byte, maxValueChars+1)
	for i := range big {
		big[i] = 'a'
	}
	runnable, issues := Facts([]model.Fact{fact("blob", string(big))})
	if len(runnable) != 0 {
		t.Errorf("Expected oversized value dropped, got %v", runnable)
	}
	if len(issues) != 1 || issues[0].Severity != SeverityError {
		t.Errorf("Expected error issue, got %v", issues)
	}
}
