// Package validate checks fact sets before an attribution pass. Bad
// input is reported up front instead of surfacing as silent
// no-evidence results mid-run.
package validate

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/factrace/factrace/internal/model"
)

// Severity classifies an issue.
type Severity string

const (
	// SeverityError facts are dropped from the pass.
	SeverityError Severity = "error"
	// SeverityWarning facts still run but deserve attention.
	SeverityWarning Severity = "warning"
)

// Issue describes a problem with a single fact.
type Issue struct {
	Field    string   `json:"field"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s (%s)", i.Field, i.Message, i.Severity)
}

const maxValueChars = 1000

// Facts validates a fact set and partitions it into runnable facts and
// issues. Error-severity facts are excluded from the returned slice;
// warning-severity facts are kept.
func Facts(facts []model.Fact) ([]model.Fact, []Issue) {
	var issues []Issue
	runnable := make([]model.Fact, 0, len(facts))
	seen := make(map[string]bool, len(facts))

	for _, fact := range facts {
		field := strings.TrimSpace(fact.Field)
		value := strings.TrimSpace(fact.Value)

		switch {
		case field == "":
			issues = append(issues, Issue{
				Field:    fact.Field,
				Severity: SeverityError,
				Message:  "empty field name",
			})
			continue
		case value == "":
			issues = append(issues, Issue{
				Field:    field,
				Severity: SeverityError,
				Message:  "empty value",
			})
			continue
		case len(value) > maxValueChars:
			issues = append(issues, Issue{
				Field:    field,
				Severity: SeverityError,
				Message:  fmt.Sprintf("value exceeds %d characters", maxValueChars),
			})
			continue
		}

		key := strings.ToLower(field)
		if seen[key] {
			issues = append(issues, Issue{
				Field:    field,
				Severity: SeverityError,
				Message:  "duplicate field",
			})
			continue
		}
		seen[key] = true

		if hasControlChars(value) {
			issues = append(issues, Issue{
				Field:    field,
				Severity: SeverityWarning,
				Message:  "value contains control characters",
			})
		}
		if isPlaceholder(value) {
			issues = append(issues, Issue{
				Field:    field,
				Severity: SeverityWarning,
				Message:  "value looks like a placeholder",
			})
		}

		runnable = append(runnable, fact)
	}

	return runnable, issues
}

func hasControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return true
		}
	}
	return false
}

// isPlaceholder flags values that are extraction failures rather than
// real facts.
func isPlaceholder(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n/a", "na", "none", "null", "nil", "unknown", "-", "--", "tbd":
		return true
	}
	return false
}
