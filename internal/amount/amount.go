// Package amount normalizes raw statement amount tokens into decimals.
//
// Statement exports disagree on almost everything: currency markers, DR/CR
// suffixes, parenthesized negatives, and digit grouping (both the 3-digit
// style and the South-Asian 3-then-2 style appear in the wild). Parsing is
// total: malformed input yields "not an amount", never an error.
package amount

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Hint biases sign resolution when the column's meaning is known.
type Hint int

const (
	// HintNone leaves sign resolution to the token itself.
	HintNone Hint = iota
	// HintDebit treats the value as a withdrawal.
	HintDebit
	// HintCredit treats the value as a deposit.
	HintCredit
)

// Grouping selects a thousands-separator style for formatting.
type Grouping int

const (
	// GroupLakh groups 3 digits, then 2s: 9,17,390.58.
	GroupLakh Grouping = iota
	// GroupThousand groups 3 digits throughout: 917,390.58.
	GroupThousand
)

var (
	drSuffixRe = regexp.MustCompile(`(?i)\s*dr\s*$`)
	crSuffixRe = regexp.MustCompile(`(?i)\s*cr\s*$`)
	currencyRe = regexp.MustCompile(`(?i)(₹|rs\.?|inr|usd|eur|gbp|[$€£])\s*`)
)

// Parse converts a raw amount token into a decimal. The second return is
// false when the token holds no parseable amount. Both grouping styles parse
// to the same value; separators carry no numeric meaning.
func Parse(value string) (decimal.Decimal, bool) {
	d, _, ok := parseSigned(value)
	return d, ok
}

// Valid reports whether the token contains a parseable amount.
func Valid(value string) bool {
	_, ok := Parse(value)
	return ok
}

// parseSigned parses a token and reports the explicit DR/CR suffix, if any.
// Sign precedence: DR/CR suffix, then parentheses or minus, then positive.
func parseSigned(value string) (decimal.Decimal, string, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return decimal.Zero, "", false
	}

	negative := false
	suffix := ""
	if drSuffixRe.MatchString(s) {
		suffix = "DR"
		s = drSuffixRe.ReplaceAllString(s, "")
	} else if crSuffixRe.MatchString(s) {
		suffix = "CR"
		s = crSuffixRe.ReplaceAllString(s, "")
	}

	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}
	if strings.HasSuffix(s, "-") {
		negative = true
		s = s[:len(s)-1]
	}

	s = currencyRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, suffix, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, suffix, false
	}
	// The explicit suffix outranks parentheses and minus signs.
	switch suffix {
	case "DR":
		negative = true
	case "CR":
		negative = false
	}
	if negative {
		d = d.Abs().Neg()
	}
	return d, suffix, true
}

// SplitDebitCredit resolves a token into at most one of (debit, credit),
// both positive when present. Precedence: an explicit DR/CR suffix wins,
// then the column hint, then the arithmetic sign (negative means debit).
// Zero amounts resolve to neither side.
func SplitDebitCredit(value string, hint Hint) (debit, credit decimal.NullDecimal) {
	d, suffix, ok := parseSigned(value)
	if !ok {
		return
	}

	abs := decimal.NullDecimal{Decimal: d.Abs(), Valid: true}
	switch suffix {
	case "DR":
		return abs, decimal.NullDecimal{}
	case "CR":
		return decimal.NullDecimal{}, abs
	}

	switch hint {
	case HintDebit:
		if !d.IsZero() {
			return abs, decimal.NullDecimal{}
		}
		return
	case HintCredit:
		if !d.IsZero() {
			return decimal.NullDecimal{}, abs
		}
		return
	}

	switch {
	case d.IsNegative():
		return abs, decimal.NullDecimal{}
	case d.IsPositive():
		return decimal.NullDecimal{}, abs
	}
	return
}

// Format renders a decimal with the given grouping style and two decimal
// places. Parse(Format(d)) round-trips for any d.
func Format(d decimal.Decimal, style Grouping) string {
	s := d.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(s, ".")

	grouped := groupDigits(intPart, style)
	out := grouped + "." + fracPart
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}

func groupDigits(digits string, style Grouping) string {
	if len(digits) <= 3 {
		return digits
	}

	var groups []string
	rest := digits
	// Rightmost group is always 3 digits; the lakh style then groups by 2.
	groups = append(groups, rest[len(rest)-3:])
	rest = rest[:len(rest)-3]

	width := 3
	if style == GroupLakh {
		width = 2
	}
	for len(rest) > width {
		groups = append(groups, rest[len(rest)-width:])
		rest = rest[:len(rest)-width]
	}
	if rest != "" {
		groups = append(groups, rest)
	}

	for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
		groups[i], groups[j] = groups[j], groups[i]
	}
	return strings.Join(groups, ",")
}
