package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategorySource records which stage of the pipeline categorized a transaction.
type CategorySource string

const (
	// SourceRules means an internal rule matched.
	SourceRules CategorySource = "rules"
	// SourceClassifier means the external classifier's answer was accepted.
	SourceClassifier CategorySource = "classifier"
	// SourceFlagged means the transaction needs manual review.
	SourceFlagged CategorySource = "flagged"
)

// Transaction is one normalized financial movement extracted from a statement.
// Extractors create it, the categorizer fills the categorization fields in
// place, and reconciliation reads it without modifying it.
type Transaction struct {
	Date        time.Time // zero means the source row had no parseable date
	Description string
	Debit       decimal.NullDecimal // positive when valid
	Credit      decimal.NullDecimal // positive when valid
	Balance     decimal.NullDecimal // running balance as stated by the source
	RawText     string              // original row text, kept for audit
	Rows        []int               // 1-based source row numbers this was assembled from

	// Categorization outputs.
	Category    string
	Subcategory string
	Confidence  float64 // in [0, 1]
	Source      CategorySource
	Suggestion  string // proposed category retained when flagged
}

// NewAmount wraps a decimal in a valid NullDecimal.
func NewAmount(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// HasDate reports whether the transaction carries a parsed date.
func (t *Transaction) HasDate() bool { return !t.Date.IsZero() }

// IsDebit reports whether the transaction is a positive debit.
func (t *Transaction) IsDebit() bool {
	return t.Debit.Valid && t.Debit.Decimal.IsPositive()
}

// IsCredit reports whether the transaction is a positive credit.
func (t *Transaction) IsCredit() bool {
	return t.Credit.Valid && t.Credit.Decimal.IsPositive()
}

// Amount returns the signed movement: positive for credit, negative for debit,
// zero when neither side is present.
func (t *Transaction) Amount() decimal.Decimal {
	if t.Credit.Valid {
		return t.Credit.Decimal
	}
	if t.Debit.Valid {
		return t.Debit.Decimal.Neg()
	}
	return decimal.Zero
}

// Summary aggregates a transaction sequence for reporting.
type Summary struct {
	Total        int
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
	DebitCount   int
	CreditCount  int
	FirstDate    time.Time
	LastDate     time.Time
}

// Summarize computes totals and the covered date range for a sequence.
func Summarize(txns []*Transaction) Summary {
	s := Summary{Total: len(txns)}
	for _, t := range txns {
		if t.Debit.Valid {
			s.TotalDebits = s.TotalDebits.Add(t.Debit.Decimal)
		}
		if t.Credit.Valid {
			s.TotalCredits = s.TotalCredits.Add(t.Credit.Decimal)
		}
		if t.IsDebit() {
			s.DebitCount++
		}
		if t.IsCredit() {
			s.CreditCount++
		}
		if !t.HasDate() {
			continue
		}
		if s.FirstDate.IsZero() || t.Date.Before(s.FirstDate) {
			s.FirstDate = t.Date
		}
		if s.LastDate.IsZero() || t.Date.After(s.LastDate) {
			s.LastDate = t.Date
		}
	}
	return s
}
