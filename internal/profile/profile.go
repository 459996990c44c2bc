// Package profile holds per-bank parsing configuration: locale preferences,
// column-name vocabularies, and row-skip patterns. Profiles are static
// registry entries; extractors select one per parse and never mutate it.
package profile

import (
	"regexp"
	"strings"

	"github.com/banksort-dev/banksort/internal/amount"
	"github.com/banksort-dev/banksort/internal/dates"
)

// Direction is the inferred movement direction for a single-amount-column
// statement.
type Direction string

const (
	DirectionCredit  Direction = "credit"
	DirectionDebit   Direction = "debit"
	DirectionUnknown Direction = "unknown"
)

// ColumnKeywords lists the header names that identify each column role.
// An empty list falls back to the shared defaults at lookup time.
type ColumnKeywords struct {
	Date        []string
	Description []string
	Debit       []string
	Credit      []string
	Balance     []string
	Amount      []string // combined signed-amount column
}

// Profile describes one bank's statement format. Values are immutable after
// construction; callers read, never write.
type Profile struct {
	Name    string
	Aliases []string

	DateOrder dates.Order
	Grouping  amount.Grouping
	Currency  string

	Columns      ColumnKeywords
	SkipPhrases  []string
	PagePatterns []*regexp.Regexp

	// SeparateDebitCredit is false for single signed-amount-column formats.
	SeparateDebitCredit bool
	HasBalance          bool
	MultiRow            bool

	// TxnStart anchors the first row of a multi-row transaction in
	// pre-structured text. Nil means use the generic leading-date patterns.
	TxnStart *regexp.Regexp
	// FieldOrder is the expected field sequence in structured text blocks,
	// when the exporter guarantees one.
	FieldOrder []string

	CreditIndicators []string
	DebitIndicators  []string
}

// Shared default vocabularies. Bank profiles override per-role lists only
// where the bank's exports deviate.
var (
	defaultDateKeywords = []string{
		"date", "txn date", "transaction date", "value date", "posting date",
		"txn dt", "trans date", "tran date", "trn date", "entry date",
	}
	defaultDescriptionKeywords = []string{
		"description", "narration", "particulars", "remarks", "details",
		"transaction details", "txn description", "memo", "reference",
		"transaction narration", "txn remarks",
	}
	defaultDebitKeywords = []string{
		"debit", "withdrawal", "dr", "debit amount", "withdrawal amt",
		"debit amt", "withdrawals", "dr amount", "dr amt", "paid out",
		"money out", "spent",
	}
	defaultCreditKeywords = []string{
		"credit", "deposit", "cr", "credit amount", "deposit amt",
		"credit amt", "deposits", "cr amount", "cr amt", "paid in",
		"money in", "received",
	}
	defaultBalanceKeywords = []string{
		"balance", "running balance", "closing balance", "available balance",
		"bal", "ledger balance", "book balance", "current balance",
	}
	defaultAmountKeywords = []string{"amount", "transaction amount"}

	defaultSkipPhrases = []string{
		"total", "opening balance", "closing balance", "statement summary",
		"account summary", "grand total", "sub total", "subtotal",
		"brought forward", "carried forward", "page total",
	}

	defaultPagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)page\s*\d+`),
		regexp.MustCompile(`(?i)page\s+\d+\s+of\s+\d+`),
		regexp.MustCompile(`(?i)page\s+\d+[-/]\d+`),
	}

	genericTxnStarts = []*regexp.Regexp{
		regexp.MustCompile(`^\d{2}[-/]\d{2}[-/]\d{4}\s+\d{2}:\d{2}`),
		regexp.MustCompile(`^\d{2}[-/]\d{2}[-/]\d{4}`),
		regexp.MustCompile(`^\d{4}[-/]\d{2}[-/]\d{2}`),
	}
)

// DateKeywords returns the profile's date vocabulary, or the default.
func (p Profile) DateKeywords() []string {
	return orDefault(p.Columns.Date, defaultDateKeywords)
}

// DescriptionKeywords returns the description vocabulary, or the default.
func (p Profile) DescriptionKeywords() []string {
	return orDefault(p.Columns.Description, defaultDescriptionKeywords)
}

// DebitKeywords returns the debit vocabulary, or the default.
func (p Profile) DebitKeywords() []string {
	return orDefault(p.Columns.Debit, defaultDebitKeywords)
}

// CreditKeywords returns the credit vocabulary, or the default.
func (p Profile) CreditKeywords() []string {
	return orDefault(p.Columns.Credit, defaultCreditKeywords)
}

// BalanceKeywords returns the balance vocabulary, or the default.
func (p Profile) BalanceKeywords() []string {
	return orDefault(p.Columns.Balance, defaultBalanceKeywords)
}

// AmountKeywords returns the combined-amount vocabulary, or the default.
func (p Profile) AmountKeywords() []string {
	return orDefault(p.Columns.Amount, defaultAmountKeywords)
}

func orDefault(list, fallback []string) []string {
	if len(list) > 0 {
		return list
	}
	return fallback
}

// SkipRow reports whether a row is statement furniture (totals, balance
// summaries, page markers) rather than transaction data.
func (p Profile) SkipRow(row []string) bool {
	var parts []string
	for _, c := range row {
		if s := strings.TrimSpace(c); s != "" {
			parts = append(parts, strings.ToLower(s))
		}
	}
	text := strings.Join(parts, " ")
	if text == "" {
		return false
	}

	for _, phrase := range p.SkipPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	for _, phrase := range defaultSkipPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	for _, re := range p.PagePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// IsTransactionStart reports whether a structured-text line opens a new
// multi-row transaction.
func (p Profile) IsTransactionStart(line string) bool {
	if !p.MultiRow {
		return false
	}
	if p.TxnStart != nil {
		return p.TxnStart.MatchString(line)
	}
	for _, re := range genericTxnStarts {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// InferDirection guesses credit vs debit from a description, for formats
// with a single unsigned amount column. Credit indicators are checked first.
func (p Profile) InferDirection(description string) Direction {
	desc := strings.ToLower(description)
	for _, ind := range p.CreditIndicators {
		if strings.Contains(desc, strings.ToLower(ind)) {
			return DirectionCredit
		}
	}
	for _, ind := range p.DebitIndicators {
		if strings.Contains(desc, strings.ToLower(ind)) {
			return DirectionDebit
		}
	}
	return DirectionUnknown
}
