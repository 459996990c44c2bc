// Package rules categorizes transactions without any external service.
//
// Matching runs through tiers in a fixed priority order: user priority
// rules, user merchant mappings, built-in semantic detectors, the built-in
// regex cascade, and finally amount-based rules. The first tier that
// matches wins.
package rules

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/banksort-dev/banksort/internal/model"
)

// Confidence is the score assigned to unambiguous rule hits. Detectors on
// shakier ground (generic keywords, multi-purpose merchants) report less.
const Confidence = 0.95

// Match is the outcome of a successful rule hit. With FlagForReview set the
// transaction goes to manual review and Suggested* carries the rule's best
// guess instead of a firm assignment.
type Match struct {
	Category             string
	Subcategory          string
	Confidence           float64
	Rule                 string
	Reason               string
	FlagForReview        bool
	SuggestedCategory    string
	SuggestedSubcategory string
}

// Engine evaluates all rule tiers. Construct with NewEngine; the zero value
// is not usable.
type Engine struct {
	matcher   *Matcher
	custom    *CustomRules
	groups    map[string][]string
	detectors []detector
}

// NewEngine builds an engine. custom may be nil when the user supplied no
// rules document.
func NewEngine(custom *CustomRules) *Engine {
	if custom == nil {
		custom = &CustomRules{}
	}
	return &Engine{
		matcher:   NewMatcher(),
		custom:    custom,
		groups:    custom.KeywordGroups,
		detectors: builtinDetectors(),
	}
}

// Categorize runs the tiers in priority order and returns the first match,
// or nil when nothing fires. amount feeds the amount-rule tier and is
// ignored by the others.
func (e *Engine) Categorize(description string, amount decimal.NullDecimal, isCredit bool) *Match {
	if description == "" {
		return nil
	}

	if m := e.matchPriorityRules(description); m != nil {
		return m
	}
	if m := e.matchCustomMerchants(description); m != nil {
		return m
	}
	for _, d := range e.detectors {
		if m := d.fn(e, description, amount, isCredit); m != nil {
			return m
		}
	}
	if m := matchCascade(description); m != nil {
		return m
	}
	if amount.Valid {
		if m := e.matchAmountRules(description, amount.Decimal, isCredit); m != nil {
			return m
		}
	}
	return nil
}

// expandGroups replaces "@name" entries with the named keyword group.
// Unknown group references pass through unchanged.
func (e *Engine) expandGroups(keywords []string) []string {
	expanded := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if len(kw) > 1 && kw[0] == '@' {
			if group, ok := e.groups[kw[1:]]; ok {
				expanded = append(expanded, group...)
				continue
			}
		}
		expanded = append(expanded, kw)
	}
	return expanded
}

// groupOr returns the named keyword group, or the built-in fallback when
// the user defined none.
func (e *Engine) groupOr(name string, fallback []string) []string {
	if group, ok := e.groups[name]; ok && len(group) > 0 {
		return group
	}
	return fallback
}

func (e *Engine) matchPriorityRules(description string) *Match {
	for _, rule := range e.custom.PriorityRules {
		matched := false

		switch rule.Type {
		case "", "keyword":
			matched, _ = e.matcher.MatchAny(description, e.expandGroups(rule.Keywords))
		case "all_keywords":
			matched = e.matcher.MatchAll(description, e.expandGroups(rule.Keywords))
		case "regex":
			re, err := regexp.Compile("(?i)" + rule.Pattern)
			if err != nil {
				continue
			}
			matched = re.MatchString(description)
		}

		if matched {
			name := rule.Name
			if name == "" {
				name = "custom_rule"
			}
			confidence := rule.Confidence
			if confidence == 0 {
				confidence = Confidence
			}
			return &Match{
				Category:    orDefault(rule.Category, "Other"),
				Subcategory: orDefault(rule.Subcategory, "Uncategorized"),
				Confidence:  confidence,
				Rule:        name,
				Reason:      "User priority rule",
			}
		}
	}
	return nil
}

func (e *Engine) matchCustomMerchants(description string) *Match {
	if len(e.custom.CustomMerchants) == 0 {
		return nil
	}

	normalized := e.matcher.Normalize(description)
	for _, pattern := range e.custom.merchantPatterns() {
		info := e.custom.CustomMerchants[pattern]
		if len(info) < 2 {
			continue
		}
		if e.matcher.MatchKeyword(normalized, pattern) {
			return &Match{
				Category:    info[0],
				Subcategory: info[1],
				Confidence:  Confidence,
				Rule:        "merchant:" + pattern,
				Reason:      "Custom merchant mapping",
			}
		}
	}
	return nil
}

var thousand = decimal.NewFromInt(1000)

func (e *Engine) matchAmountRules(description string, amount decimal.Decimal, isCredit bool) *Match {
	for _, rule := range e.custom.AmountRules {
		if amount.LessThan(decimal.NewFromFloat(rule.MinAmount)) {
			continue
		}
		if rule.MaxAmount != nil && amount.GreaterThan(decimal.NewFromFloat(*rule.MaxAmount)) {
			continue
		}
		if rule.RoundAmount && !amount.Mod(thousand).IsZero() {
			continue
		}
		switch rule.Type {
		case "debit":
			if isCredit {
				continue
			}
		case "credit":
			if !isCredit {
				continue
			}
		}
		if len(rule.MerchantHintKeywords) > 0 {
			if matched, _ := e.matcher.MatchAny(description, rule.MerchantHintKeywords); !matched {
				continue
			}
		}

		name := rule.Name
		if name == "" {
			name = "amount_rule"
		}

		if rule.FlagForReview {
			return &Match{
				Category:             model.CategoryReview,
				Subcategory:          model.SubcategoryReview,
				Confidence:           0.5,
				Rule:                 name,
				Reason:               "Amount-based suggestion",
				FlagForReview:        true,
				SuggestedCategory:    rule.SuggestionCategory,
				SuggestedSubcategory: rule.SuggestionSubcategory,
			}
		}

		confidence := rule.Confidence
		if confidence == 0 {
			confidence = 0.85
		}
		return &Match{
			Category:    orDefault(rule.Category, "Other"),
			Subcategory: orDefault(rule.Subcategory, "Uncategorized"),
			Confidence:  confidence,
			Rule:        name,
			Reason:      "Amount-based rule",
		}
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
