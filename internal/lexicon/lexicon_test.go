package lexicon

import (
	"strings"
	"testing"
)

func TestFieldTokens(t *testing.T) {
	cases := []struct {
		field string
		want  []string
	}{
		{"Blood_Group", []string{"blood", "group"}},
		{"underlying_npat_1h_fy23", []string{"underlying", "npat", "fy23"}},
		{"Company.Name", []string{"company", "name"}},
		{"id", nil},
	}
	for _, tc := range cases {
		got := FieldTokens(tc.field)
		if len(got) != len(tc.want) {
			t.Errorf("FieldTokens(%q) = %v, want %v", tc.field, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("FieldTokens(%q) = %v, want %v", tc.field, got, tc.want)
				break
			}
		}
	}
}

func TestGroupsFor(t *testing.T) {
	lex := Default()

	groups := lex.GroupsFor("Blood_Group")
	if !containsTag(groups, "blood") {
		t.Errorf("Expected blood domain for Blood_Group, got %v", groups)
	}

	groups = lex.GroupsFor("underlying_npat")
	if !containsTag(groups, "profit") {
		t.Errorf("Expected profit domain for underlying_npat, got %v", groups)
	}

	if groups := lex.GroupsFor("xyzzy_field"); len(groups) != 0 {
		t.Errorf("Expected no domains for unknown field, got %v", groups)
	}
}

func TestAntiPatternsFor(t *testing.T) {
	lex := Default()
	patterns := lex.AntiPatternsFor("blood")
	found := false
	for _, p := range patterns {
		if p == "blood money" {
			found = true
		}
	}
	if !found {
		t.Error("Expected 'blood money' among blood anti-patterns")
	}
}

func TestAnchors_LongestFirst(t *testing.T) {
	lex := Default()
	anchors := lex.Anchors()

	// "underlying npat" must be scanned before the bare "npat" so the
	// longer anchor wins.
	underlying, bare := -1, -1
	for i, a := range anchors {
		switch a {
		case "underlying npat":
			underlying = i
		case "npat":
			bare = i
		}
	}
	if underlying < 0 || bare < 0 {
		t.Fatal("Expected both npat anchors present")
	}
	if underlying > bare {
		t.Error("Expected 'underlying npat' before 'npat'")
	}
}

func TestDomainsIn_RequiresTwoKeywordsOrTagWord(t *testing.T) {
	lex := Default()

	// "income" alone is shared by profit and revenue; one hit claims
	// neither.
	domains := lex.DomainsIn("Other income was not material")
	if containsTag(domains, "profit") || containsTag(domains, "revenue") {
		t.Errorf("Single shared keyword should not claim a domain, got %v", domains)
	}

	domains = lex.DomainsIn("Underlying profit and EBIT margin both improved")
	if !containsTag(domains, "profit") {
		t.Errorf("Expected profit domain, got %v", domains)
	}
}

func TestDomainsIn_MultipleDomains(t *testing.T) {
	lex := Default()
	text := "The employer recorded his blood type in the medical records at the hospital where his role required health checks"
	domains := lex.DomainsIn(strings.ToLower(text))
	if len(domains) < 2 {
		t.Errorf("Expected multiple domains for a straddling sentence, got %v", domains)
	}
}

func containsTag(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}
