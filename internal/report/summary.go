package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/banksort-dev/banksort/internal/model"
)

// CategoryRow aggregates one (category, subcategory) pair.
type CategoryRow struct {
	Category    string
	Subcategory string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Count       int
}

// Net is credits minus debits.
func (r CategoryRow) Net() decimal.Decimal { return r.Credit.Sub(r.Debit) }

// CategorySummary aggregates transactions per (category, subcategory),
// sorted by category then subcategory.
func CategorySummary(txns []*model.Transaction) []CategoryRow {
	type key struct{ cat, sub string }
	agg := make(map[key]*CategoryRow)

	for _, txn := range txns {
		k := key{txn.Category, txn.Subcategory}
		row, ok := agg[k]
		if !ok {
			row = &CategoryRow{Category: txn.Category, Subcategory: txn.Subcategory}
			agg[k] = row
		}
		if txn.Debit.Valid {
			row.Debit = row.Debit.Add(txn.Debit.Decimal)
		}
		if txn.Credit.Valid {
			row.Credit = row.Credit.Add(txn.Credit.Decimal)
		}
		row.Count++
	}

	rows := make([]CategoryRow, 0, len(agg))
	for _, row := range agg {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].Subcategory < rows[j].Subcategory
	})
	return rows
}

// MonthRow aggregates one calendar month.
type MonthRow struct {
	Month  string // YYYY-MM
	Debit  decimal.Decimal
	Credit decimal.Decimal
	Count  int
}

// Net is credits minus debits.
func (r MonthRow) Net() decimal.Decimal { return r.Credit.Sub(r.Debit) }

// MonthlySummary aggregates dated transactions per calendar month in
// chronological order. Undated transactions are skipped.
func MonthlySummary(txns []*model.Transaction) []MonthRow {
	agg := make(map[string]*MonthRow)

	for _, txn := range txns {
		if !txn.HasDate() {
			continue
		}
		month := txn.Date.Format("2006-01")
		row, ok := agg[month]
		if !ok {
			row = &MonthRow{Month: month}
			agg[month] = row
		}
		if txn.Debit.Valid {
			row.Debit = row.Debit.Add(txn.Debit.Decimal)
		}
		if txn.Credit.Valid {
			row.Credit = row.Credit.Add(txn.Credit.Decimal)
		}
		row.Count++
	}

	rows := make([]MonthRow, 0, len(agg))
	for _, row := range agg {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })
	return rows
}

// Flagged filters the transactions routed to manual review.
func Flagged(txns []*model.Transaction) []*model.Transaction {
	var flagged []*model.Transaction
	for _, txn := range txns {
		if txn.Source == model.SourceFlagged {
			flagged = append(flagged, txn)
		}
	}
	return flagged
}
