package amount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain", "1234.56", "1234.56", true},
		{"thousand grouping", "917,390.58", "917390.58", true},
		{"lakh grouping", "9,17,390.58", "917390.58", true},
		{"rupee symbol", "₹1,500.00", "1500", true},
		{"rs prefix", "Rs. 2500", "2500", true},
		{"inr prefix", "INR 300.25", "300.25", true},
		{"dollar", "$45.99", "45.99", true},
		{"negative minus", "-500.00", "-500", true},
		{"trailing minus", "500.00-", "-500", true},
		{"parentheses", "(1,200.50)", "-1200.5", true},
		{"dr suffix", "1,500.00 DR", "-1500", true},
		{"cr suffix", "1,500.00 CR", "1500", true},
		{"dr lowercase", "250dr", "-250", true},
		{"dr overrides parens", "(1,500.00) DR", "-1500", true},
		{"cr overrides minus", "-1,500.00 CR", "1500", true},
		{"internal spaces", "1 234.56", "1234.56", true},
		{"zero", "0.00", "0", true},
		{"empty", "", "", false},
		{"whitespace", "   ", "", false},
		{"text", "opening balance", "", false},
		{"bare currency", "₹", "", false},
		{"double decimal", "1.2.3", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				want, err := decimal.NewFromString(tt.want)
				require.NoError(t, err)
				assert.True(t, want.Equal(got), "got %s want %s", got, want)
			}
		})
	}
}

func TestParseGroupingStylesAgree(t *testing.T) {
	lakh, ok := Parse("12,34,567.89")
	require.True(t, ok)
	thousand, ok := Parse("1,234,567.89")
	require.True(t, ok)
	assert.True(t, lakh.Equal(thousand))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("1,500.00 CR"))
	assert.True(t, Valid("(42)"))
	assert.False(t, Valid("TOTAL"))
	assert.False(t, Valid(""))
}

func TestSplitDebitCredit(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		hint   Hint
		debit  string
		credit string
	}{
		{"cr suffix beats debit hint", "1,500.00 CR", HintDebit, "", "1500"},
		{"dr suffix beats credit hint", "1,500.00 DR", HintCredit, "1500", ""},
		{"debit hint", "250.00", HintDebit, "250", ""},
		{"credit hint", "250.00", HintCredit, "", "250"},
		{"hint overrides minus", "-250.00", HintCredit, "", "250"},
		{"negative no hint", "-300.00", HintNone, "300", ""},
		{"parens no hint", "(300.00)", HintNone, "300", ""},
		{"positive no hint", "300.00", HintNone, "", "300"},
		{"zero resolves neither", "0.00", HintDebit, "", ""},
		{"unparseable", "n/a", HintDebit, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debit, credit := SplitDebitCredit(tt.input, tt.hint)
			assertNullDecimal(t, tt.debit, debit)
			assertNullDecimal(t, tt.credit, credit)
			assert.False(t, debit.Valid && credit.Valid, "both sides set")
		})
	}
}

func assertNullDecimal(t *testing.T, want string, got decimal.NullDecimal) {
	t.Helper()
	if want == "" {
		assert.False(t, got.Valid)
		return
	}
	require.True(t, got.Valid)
	wantDec, err := decimal.NewFromString(want)
	require.NoError(t, err)
	assert.True(t, wantDec.Equal(got.Decimal), "got %s want %s", got.Decimal, wantDec)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		style Grouping
		want  string
	}{
		{"lakh large", "917390.58", GroupLakh, "9,17,390.58"},
		{"lakh crore", "12345678.9", GroupLakh, "1,23,45,678.90"},
		{"lakh small", "999.5", GroupLakh, "999.50"},
		{"lakh four digits", "1234", GroupLakh, "1,234.00"},
		{"thousand large", "917390.58", GroupThousand, "917,390.58"},
		{"thousand million", "1234567.89", GroupThousand, "1,234,567.89"},
		{"negative", "-1500", GroupLakh, "-1,500.00"},
		{"zero", "0", GroupThousand, "0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Format(d, tt.style))
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1", "-42.5", "999", "1000", "123456.78", "98765432.1"} {
		d, err := decimal.NewFromString(s)
		require.NoError(t, err)
		for _, style := range []Grouping{GroupLakh, GroupThousand} {
			got, ok := Parse(Format(d, style))
			require.True(t, ok, "format %q", Format(d, style))
			assert.True(t, d.Round(2).Equal(got), "round-trip %s: got %s", s, got)
		}
	}
}
