package quickreply

import (
	"strings"
	"testing"
)

func testSelector(t *testing.T) *Selector {
	t.Helper()
	s, err := New([]Rule{
		{Keywords: []string{"budget", "cost"}, Response: "budget reply"},
		{Keywords: []string{"tech"}, Response: "tech reply"},
	}, []string{"generic one", "generic two"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestSelectFirstMatchingRuleWins(t *testing.T) {
	s := testSelector(t)

	if got := s.Select("what is my budget for tech"); got != "budget reply" {
		t.Fatalf("expected first rule to win, got %q", got)
	}
}

func TestSelectCaseInsensitiveSubstring(t *testing.T) {
	s := testSelector(t)

	if got := s.Select("My TECH stack?"); got != "tech reply" {
		t.Fatalf("expected tech rule, got %q", got)
	}
	if got := s.Select("the costly part"); got != "budget reply" {
		t.Fatalf("expected substring match on cost, got %q", got)
	}
}

func TestSelectFallsBackToGenericPool(t *testing.T) {
	s := testSelector(t)

	got := s.Select("completely unrelated input")
	if !strings.HasPrefix(got, "generic") {
		t.Fatalf("expected generic response, got %q", got)
	}
}

func TestNewValidatesRules(t *testing.T) {
	if _, err := New([]Rule{{Keywords: nil, Response: "x"}}, []string{"g"}); err == nil {
		t.Fatal("expected error for rule without keywords")
	}
	if _, err := New([]Rule{{Keywords: []string{"k"}, Response: " "}}, []string{"g"}); err == nil {
		t.Fatal("expected error for empty response")
	}
	if _, err := New(nil, nil); err == nil {
		t.Fatal("expected error for empty generic pool")
	}
}

func TestDefaultRulesParse(t *testing.T) {
	s, err := NewDefault()
	if err != nil {
		t.Fatalf("NewDefault failed: %v", err)
	}
	if len(s.rules) == 0 || len(s.generic) == 0 {
		t.Fatalf("default rules incomplete: %d rules, %d generic", len(s.rules), len(s.generic))
	}
	if got := s.Select("who is the target customer?"); got == "" {
		t.Fatal("expected a response")
	}
}
