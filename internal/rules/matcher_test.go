package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	m := NewMatcher()

	tests := []struct {
		in   string
		want string
	}{
		{"SAL FOR OCT 2024", "salary for oct 2024"},
		{"ATM WDL 15000", "atm withdrawal 15000"},
		{"UPI/DR/AMZN/RETAIL", "upi dr amazon retail"},
		{"  INT   CR  ", "interest cr"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Normalize(tt.in), tt.in)
	}
}

func TestMatchKeywordBoundaries(t *testing.T) {
	m := NewMatcher()

	// 1-2 char keywords stand alone between whitespace.
	assert.True(t, m.MatchKeyword("upi dr paytm", "dr"))
	assert.False(t, m.MatchKeyword("hydro power bill", "dr"))
	assert.False(t, m.MatchKeyword("credit card", "it"))

	// 3-4 char keywords respect word boundaries.
	assert.True(t, m.MatchKeyword("neft from acme", "neft"))
	assert.False(t, m.MatchKeyword("benefit payout", "neft"))

	// Longer keywords are plain substrings.
	assert.True(t, m.MatchKeyword("swiggyorder 123", "swiggy"))
}

func TestMatchAny(t *testing.T) {
	m := NewMatcher()

	ok, kw := m.MatchAny("SWIGGY ORDER 12345", []string{"zomato", "swiggy"})
	assert.True(t, ok)
	assert.Equal(t, "swiggy", kw)

	// Explicit negatives veto the whole call.
	ok, _ = m.MatchAny("UBER EATS ORDER", []string{"uber"}, "eats")
	assert.False(t, ok)

	// Inline "!" exclusions do the same.
	ok, _ = m.MatchAny("UBER EATS ORDER", []string{"!eats", "uber"})
	assert.False(t, ok)

	ok, _ = m.MatchAny("UBER TRIP 42", []string{"!eats", "uber"})
	assert.True(t, ok)
}

func TestMatchAll(t *testing.T) {
	m := NewMatcher()

	assert.True(t, m.MatchAll("NEFT RENT PAYMENT", []string{"neft", "rent"}))
	assert.False(t, m.MatchAll("NEFT PAYMENT", []string{"neft", "rent"}))
	assert.False(t, m.MatchAll("NEFT RENT PAYMENT", []string{"neft", "!rent"}))
}
