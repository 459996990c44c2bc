package pnl

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pnlPageText = `
Statement of Profit and Loss for the year ended 31 March 2025
(All amounts in lakhs unless otherwise stated)
Particulars Note Year ended 31.03.2025 Year ended 31.03.2024
Revenue from operations 21 12,345.67 11,234.56
Other income 22 234.50 189.20
Total income 12,580.17 11,423.76
Employee benefits expense 23 3,456.78 3,210.45
Finance cost 24 120.00 98.50
Profit before tax 4,100.25 3,870.10
`

const balanceSheetText = `
Balance Sheet as at 31 March 2025
Notes forming part of the financial statements
Schedule of fixed assets
Equity and liabilities
`

func TestScorePage(t *testing.T) {
	score, matched := ScorePage(pnlPageText)
	assert.GreaterOrEqual(t, score, DefaultMinScore)
	assert.Contains(t, matched, "statement of profit and loss")
	assert.Contains(t, matched, "revenue from operations")
	assert.Contains(t, matched, "period header")

	score, _ = ScorePage(balanceSheetText)
	assert.Less(t, score, DefaultMinScore)
}

func TestScorePageFloorsAtZero(t *testing.T) {
	score, _ := ScorePage("auditor report board of directors corporate governance schedule")
	assert.Equal(t, 0.0, score)
}

func TestLooksLikeAmount(t *testing.T) {
	for _, s := range []string{"1,234.56", "(1,234.56)", "-1,234.56", "123.45", "1,23,456.78", "234"} {
		assert.True(t, looksLikeAmount(s), s)
	}
	for _, s := range []string{"", "Revenue", "31.03.2025x", "note 21 ref", "12,34,56,78,90abc"} {
		assert.False(t, looksLikeAmount(s), s)
	}
}

func TestParseFinancialAmount(t *testing.T) {
	a := parseFinancialAmount("1,23,456.78")
	require.True(t, a.Valid)
	assert.True(t, a.Decimal.Equal(decimal.RequireFromString("123456.78")))

	a = parseFinancialAmount("(500.00)")
	require.True(t, a.Valid)
	assert.True(t, a.Decimal.Equal(decimal.RequireFromString("-500.00")))

	for _, nilTok := range []string{"-", "--", "Nil", "—", ""} {
		assert.False(t, parseFinancialAmount(nilTok).Valid, nilTok)
	}
	assert.False(t, parseFinancialAmount("n/a").Valid)
}

func TestDetectIndent(t *testing.T) {
	assert.Equal(t, 0, detectIndent("Revenue from operations"))
	assert.Equal(t, 2, detectIndent("(a) Cost of materials consumed"))
	assert.Equal(t, 2, detectIndent("(ii) Changes in inventories"))
	assert.Equal(t, 1, detectIndent("    Other expenses"))
	assert.Equal(t, 2, detectIndent("        Sub item"))
}

func TestGridStrategy(t *testing.T) {
	data := pageData{rows: [][]string{
		{"Statement of Profit and Loss"},
		{"Particulars", "Note", "Year ended 31.03.2025", "Year ended 31.03.2024"},
		{"Revenue from operations", "21", "12,345.67", "11,234.56"},
		{"Other income", "22", "234.50", "189.20"},
		{"Total income", "12,580.17", "11,423.76"},
		{"Employee benefits expense", "23", "3,456.78", "3,210.45"},
		{"Profit before tax", "4,100.25", "3,870.10"},
	}}

	items := extractGrid(data, 42)
	require.NotEmpty(t, items)

	first := items[0]
	assert.Equal(t, "Revenue from operations", first.Label)
	assert.Equal(t, "21", first.NoteRef)
	assert.Equal(t, 42, first.Page)
	require.NotEmpty(t, first.Amounts)
	require.True(t, first.Amounts[0].Valid)
	assert.True(t, first.Amounts[0].Decimal.Equal(decimal.RequireFromString("12345.67")))

	var sawTotal bool
	for _, it := range items {
		if strings.HasPrefix(it.Label, "Total income") {
			sawTotal = true
			assert.True(t, it.IsTotal)
		}
	}
	assert.True(t, sawTotal)
}

func TestGridStrategyNoAmountColumns(t *testing.T) {
	data := pageData{rows: [][]string{
		{"Director report"},
		{"The board met four times during the year."},
	}}
	assert.Empty(t, extractGrid(data, 1))
}

func TestPositionalStrategy(t *testing.T) {
	// Two amount columns right-aligned at x=400 and x=500; the note
	// column at x=250 holds bare refs, which never cluster as amounts.
	mkLine := func(y float64, label string, note string, a1, a2 string) []word {
		ws := []word{{text: label, x0: 50, x1: 200, y: y}}
		if note != "" {
			ws = append(ws, word{text: note, x0: 245, x1: 255, y: y})
		}
		ws = append(ws,
			word{text: a1, x0: 400 - 50, x1: 400, y: y},
			word{text: a2, x0: 500 - 50, x1: 500, y: y},
		)
		return ws
	}

	var words []word
	words = append(words, mkLine(700, "Revenue from operations", "21", "12,345.67", "11,234.56")...)
	words = append(words, mkLine(680, "Other income", "22", "234.50", "189.20")...)
	words = append(words, mkLine(660, "Total income", "", "12,580.17", "11,423.76")...)
	words = append(words, mkLine(640, "Profit before tax", "", "4,100.25", "3,870.10")...)

	items := extractPositional(pageData{words: words}, 7)
	require.Len(t, items, 4)

	first := items[0]
	assert.Equal(t, "Revenue from operations", first.Label)
	assert.Equal(t, "21", first.NoteRef)
	require.Len(t, first.Amounts, 2)
	assert.True(t, first.Amounts[0].Decimal.Equal(decimal.RequireFromString("12345.67")))
	assert.True(t, first.Amounts[1].Decimal.Equal(decimal.RequireFromString("11234.56")))

	assert.True(t, items[2].IsTotal)
}

func TestLineRegexStrategy(t *testing.T) {
	data := pageData{lines: []string{
		"Statement of Profit and Loss",
		"Revenue from Operations 21 1,234.56 1,100.23",
		"(a) Cost of materials consumed 26 (500.00) (450.00)",
		"Total Income 1,280.23 1,139.13",
		"Page 12",
	}}

	items := extractLineRegex(data, 3)
	require.Len(t, items, 3)

	first := items[0]
	assert.Equal(t, "Revenue from Operations", first.Label)
	assert.Equal(t, "21", first.NoteRef)
	require.Len(t, first.Amounts, 2)
	assert.True(t, first.Amounts[0].Decimal.Equal(decimal.RequireFromString("1234.56")))

	sub := items[1]
	assert.Equal(t, 2, sub.Indent)
	assert.True(t, sub.Amounts[0].Decimal.Equal(decimal.RequireFromString("-500.00")))

	assert.True(t, items[2].IsTotal)
}

func TestStrategyCascadeOrder(t *testing.T) {
	// With usable rows, the grid strategy wins and the others never run.
	data := pageData{
		rows: [][]string{
			{"Particulars", "Year ended 31.03.2025"},
			{"Revenue from operations", "12,345.67"},
			{"Other income", "234.50"},
			{"Total income", "12,580.17"},
		},
		lines: []string{"Revenue from operations 12,345.67"},
	}
	items := extractPage(data, 1)
	require.NotEmpty(t, items)
	// Grid output carries the pipe-joined raw text; the regex strategy
	// would have kept the plain line.
	assert.Contains(t, items[0].RawText, " | ")
}

func TestExtractPageAllStrategiesFail(t *testing.T) {
	assert.Empty(t, extractPage(pageData{}, 1))
}
