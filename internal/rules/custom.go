package rules

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// PriorityRule is a user rule checked before everything else. Type selects
// the matching mode: "keyword" (any keyword, the default), "all_keywords"
// (every keyword), or "regex" (Pattern against the raw description).
type PriorityRule struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Keywords    []string `yaml:"keywords"`
	Pattern     string   `yaml:"pattern"`
	Category    string   `yaml:"category"`
	Subcategory string   `yaml:"subcategory"`
	Confidence  float64  `yaml:"confidence"`
}

// AmountRule matches on the transaction amount, optionally narrowed by
// direction and merchant hints. With FlagForReview set, a hit routes the
// transaction to manual review carrying the suggested category instead of
// assigning one.
type AmountRule struct {
	Name                  string   `yaml:"name"`
	MinAmount             float64  `yaml:"min_amount"`
	MaxAmount             *float64 `yaml:"max_amount"`
	RoundAmount           bool     `yaml:"round_amount"`
	Type                  string   `yaml:"type"` // debit, credit, or any
	MerchantHintKeywords  []string `yaml:"merchant_hint_keywords"`
	FlagForReview         bool     `yaml:"flag_for_review"`
	SuggestionCategory    string   `yaml:"suggestion_category"`
	SuggestionSubcategory string   `yaml:"suggestion_subcategory"`
	Category              string   `yaml:"category"`
	Subcategory           string   `yaml:"subcategory"`
	Confidence            float64  `yaml:"confidence"`
}

// CustomRules is the user-supplied rules document. Keyword groups are
// reusable keyword lists referenced from rule keyword lists as "@name".
type CustomRules struct {
	PriorityRules   []PriorityRule      `yaml:"priority_rules"`
	CustomMerchants map[string][]string `yaml:"custom_merchants"`
	AmountRules     []AmountRule        `yaml:"amount_rules"`
	KeywordGroups   map[string][]string `yaml:"keyword_groups"`
}

// LoadCustomRules reads and decodes a custom rules YAML document.
func LoadCustomRules(path string) (*CustomRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading custom rules: %w", err)
	}
	var rules CustomRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parsing custom rules %s: %w", path, err)
	}
	return &rules, nil
}

// merchantPatterns returns the custom merchant patterns in a stable order.
func (c *CustomRules) merchantPatterns() []string {
	patterns := make([]string, 0, len(c.CustomMerchants))
	for p := range c.CustomMerchants {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)
	return patterns
}
