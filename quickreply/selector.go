// Package quickreply produces the immediate, locally-computed placeholder
// reply that sendMessage returns before any provider is called.
package quickreply

import (
	_ "embed"
	"fmt"
	"math/rand"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Rule pairs a keyword set with a canned response.
type Rule struct {
	Keywords []string `yaml:"keywords"`
	Response string   `yaml:"response"`
}

type ruleFile struct {
	Rules   []Rule   `yaml:"rules"`
	Generic []string `yaml:"generic"`
}

// Selector matches user input against an ordered rule list. Select is pure
// and synchronous; it sits on the critical path of sendMessage and must
// never block.
type Selector struct {
	rules   []Rule
	generic []string
}

// NewDefault builds a selector from the embedded default rules.
func NewDefault() (*Selector, error) {
	return Parse(defaultRulesYAML)
}

// Parse builds a selector from YAML rule content.
func Parse(data []byte) (*Selector, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse quick-reply rules: %w", err)
	}
	return New(f.Rules, f.Generic)
}

// New builds a selector from an explicit rule table, validating it up
// front so a malformed table fails at load time rather than mid-chat.
func New(rules []Rule, generic []string) (*Selector, error) {
	for i, r := range rules {
		if len(r.Keywords) == 0 {
			return nil, fmt.Errorf("rule %d has no keywords", i)
		}
		for _, kw := range r.Keywords {
			if strings.TrimSpace(kw) == "" {
				return nil, fmt.Errorf("rule %d has an empty keyword", i)
			}
		}
		if strings.TrimSpace(r.Response) == "" {
			return nil, fmt.Errorf("rule %d has an empty response", i)
		}
	}
	if len(generic) == 0 {
		return nil, fmt.Errorf("generic response pool is empty")
	}
	for i, g := range generic {
		if strings.TrimSpace(g) == "" {
			return nil, fmt.Errorf("generic response %d is empty", i)
		}
	}
	return &Selector{rules: rules, generic: generic}, nil
}

// Select returns the first rule whose keyword set intersects the input
// (case-insensitive substring match), or a random generic response when no
// rule matches.
func (s *Selector) Select(userInput string) string {
	lower := strings.ToLower(userInput)
	for _, r := range s.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return r.Response
			}
		}
	}
	return s.generic[rand.Intn(len(s.generic))]
}
