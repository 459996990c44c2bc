// Package report renders categorized transactions and P&L line items as
// CSV files and Excel workbooks.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banksort-dev/banksort/internal/dates"
	"github.com/banksort-dev/banksort/internal/model"
	"github.com/banksort-dev/banksort/internal/pnl"
)

// Header is the CSV header for the transactions report.
const Header = "date,description,debit,credit,balance,category,subcategory,confidence,source,suggestion,source_rows"

const (
	numFields     = 11
	colDate       = 0
	colDesc       = 1
	colDebit      = 2
	colCredit     = 3
	colBalance    = 4
	colCategory   = 5
	colSubcat     = 6
	colConfidence = 7
	colSource     = 8
	colSuggestion = 9
	colRows       = 10
)

// WriteTransactions writes the report including the header row.
func WriteTransactions(w io.Writer, txns []*model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, txn := range txns {
		if err := cw.Write(MarshalTransaction(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTransaction converts a transaction to a CSV row.
func MarshalTransaction(txn *model.Transaction) []string {
	row := make([]string, numFields)

	if txn.HasDate() {
		row[colDate] = dates.Format(txn.Date)
	}
	row[colDesc] = txn.Description

	if txn.Debit.Valid {
		row[colDebit] = txn.Debit.Decimal.StringFixed(2)
	}
	if txn.Credit.Valid {
		row[colCredit] = txn.Credit.Decimal.StringFixed(2)
	}
	if txn.Balance.Valid {
		row[colBalance] = txn.Balance.Decimal.StringFixed(2)
	}

	row[colCategory] = txn.Category
	row[colSubcat] = txn.Subcategory
	if txn.Confidence > 0 {
		row[colConfidence] = strconv.FormatFloat(txn.Confidence, 'f', 2, 64)
	}
	row[colSource] = string(txn.Source)
	row[colSuggestion] = txn.Suggestion
	row[colRows] = joinRows(txn.Rows)
	return row
}

func joinRows(rows []int) string {
	if len(rows) == 0 {
		return ""
	}
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, "+")
}

// WriteLineItems writes P&L line items as CSV. The amount column count
// follows the widest row.
func WriteLineItems(w io.Writer, items []pnl.LineItem) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	periods := 0
	for _, it := range items {
		if len(it.Amounts) > periods {
			periods = len(it.Amounts)
		}
	}

	header := []string{"page", "label", "note_ref", "indent", "is_total"}
	for i := 1; i <= periods; i++ {
		header = append(header, fmt.Sprintf("amount_%d", i))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, it := range items {
		row := []string{
			strconv.Itoa(it.Page),
			it.Label,
			it.NoteRef,
			strconv.Itoa(it.Indent),
			strconv.FormatBool(it.IsTotal),
		}
		for p := 0; p < periods; p++ {
			cell := ""
			if p < len(it.Amounts) && it.Amounts[p].Valid {
				cell = it.Amounts[p].Decimal.StringFixed(2)
			}
			row = append(row, cell)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}
