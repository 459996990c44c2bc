package rules

import (
	"regexp"
	"strings"
)

// normalizations maps canonical merchant and transaction words to the
// abbreviations and variants banks print. Matching runs over normalized
// text, so a rule keyed on "salary" also catches "SAL" and "PAYROLL".
var normalizations = map[string][]string{
	"amazon":     {"amzn", "amazon.com", "amazon.in", "amazonpay"},
	"flipkart":   {"flpkrt", "flipkart.com"},
	"swiggy":     {"swigy", "swiggy.com"},
	"zomato":     {"zomto", "zomato.com"},
	"uber":       {"uber.com", "uber india"},
	"ola":        {"ola cabs", "olacabs", "ola money"},
	"netflix":    {"netflix.com", "nflx"},
	"google":     {"googl", "google.com", "google pay", "gpay"},
	"paytm":      {"paytm.com", "paytm mall"},
	"salary":     {"sal", "payroll", "wages", "compensation"},
	"refund":     {"rfnd", "reversal", "cashback", "cash back"},
	"transfer":   {"tfr", "xfer", "trf"},
	"withdrawal": {"wdl", "wd", "w/d", "wtdrwl"},
	"deposit":    {"dep", "dpt"},
	"interest":   {"int", "intrst"},
	"insurance":  {"insur", "ins"},
}

var punctRe = regexp.MustCompile(`[^\w\s]`)

// Matcher matches keywords against transaction descriptions. Short keywords
// are bounded to whole words so "it" never fires inside "credit"; longer
// keywords match as substrings.
type Matcher struct {
	canonical map[string]string
}

// NewMatcher builds a matcher with the built-in abbreviation table.
func NewMatcher() *Matcher {
	canonical := make(map[string]string)
	for word, variants := range normalizations {
		for _, v := range variants {
			canonical[strings.ToLower(v)] = word
		}
	}
	return &Matcher{canonical: canonical}
}

// Normalize lowercases the text, strips punctuation, collapses whitespace,
// and expands known abbreviations word by word.
func (m *Matcher) Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(strings.TrimSpace(text))
	text = punctRe.ReplaceAllString(text, " ")

	words := strings.Fields(text)
	for i, w := range words {
		if c, ok := m.canonical[w]; ok {
			words[i] = c
		}
	}
	return strings.Join(words, " ")
}

// MatchKeyword reports whether keyword occurs in the normalized text.
// Keywords of 1-2 characters must stand alone between whitespace, 3-4
// character keywords respect word boundaries, anything longer matches as a
// substring.
func (m *Matcher) MatchKeyword(text, keyword string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return false
	}

	switch {
	case len(keyword) <= 2:
		re := regexp.MustCompile(`(?:^|\s)` + regexp.QuoteMeta(keyword) + `(?:\s|$)`)
		return re.MatchString(text)
	case len(keyword) <= 4:
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
		return re.MatchString(text)
	default:
		return strings.Contains(text, keyword)
	}
}

// MatchAny normalizes the text and returns the first keyword that matches.
// Keywords prefixed with "!" are exclusions: if one matches, the whole call
// fails regardless of other hits. Explicit negatives are checked first.
func (m *Matcher) MatchAny(text string, keywords []string, negatives ...string) (bool, string) {
	normalized := m.Normalize(text)

	for _, neg := range negatives {
		if m.MatchKeyword(normalized, neg) {
			return false, ""
		}
	}
	for _, kw := range keywords {
		if strings.HasPrefix(kw, "!") {
			if m.MatchKeyword(normalized, kw[1:]) {
				return false, ""
			}
			continue
		}
		if m.MatchKeyword(normalized, kw) {
			return true, kw
		}
	}
	return false, ""
}

// MatchAll reports whether every keyword matches the normalized text.
// "!" prefixed keywords must not match.
func (m *Matcher) MatchAll(text string, keywords []string) bool {
	normalized := m.Normalize(text)

	for _, kw := range keywords {
		if strings.HasPrefix(kw, "!") {
			if m.MatchKeyword(normalized, kw[1:]) {
				return false
			}
			continue
		}
		if !m.MatchKeyword(normalized, kw) {
			return false
		}
	}
	return true
}
