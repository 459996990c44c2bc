package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/banksort-dev/banksort/internal/dates"
	"github.com/banksort-dev/banksort/internal/model"
)

const (
	sheetTransactions = "All Transactions"
	sheetCategories   = "Category Summary"
	sheetMonthly      = "Monthly Summary"
	sheetFlagged      = "Flagged for Review"
)

// WriteWorkbook writes the full report workbook: every transaction, the
// category and monthly rollups, and a worksheet of flagged rows with blank
// columns for the reviewer to fill in.
func WriteWorkbook(path string, txns []*model.Transaction) error {
	f, err := BuildWorkbook(txns)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// BuildWorkbook assembles the report workbook in memory.
func BuildWorkbook(txns []*model.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeTransactionsSheet(f, txns); err != nil {
		return nil, err
	}
	if err := writeCategorySheet(f, txns); err != nil {
		return nil, err
	}
	if err := writeMonthlySheet(f, txns); err != nil {
		return nil, err
	}
	if err := writeFlaggedSheet(f, txns); err != nil {
		return nil, err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}
	return f, nil
}

func newSheet(f *excelize.File, name string, header []interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %s: %w", name, err)
	}
	if err := writeRow(f, name, 1, header); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(name, "A1", last, style); err != nil {
		return fmt.Errorf("styling header on %s: %w", name, err)
	}

	return f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

func writeTransactionsSheet(f *excelize.File, txns []*model.Transaction) error {
	header := []interface{}{
		"Date", "Description", "Debit", "Credit", "Balance",
		"Category", "Subcategory", "Confidence", "Source", "Suggestion",
	}
	if err := newSheet(f, sheetTransactions, header); err != nil {
		return err
	}

	for i, txn := range txns {
		row := []interface{}{
			formatDate(txn), txn.Description,
			cellAmount(txn.Debit), cellAmount(txn.Credit), cellAmount(txn.Balance),
			txn.Category, txn.Subcategory, txn.Confidence,
			string(txn.Source), txn.Suggestion,
		}
		if err := writeRow(f, sheetTransactions, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeCategorySheet(f *excelize.File, txns []*model.Transaction) error {
	header := []interface{}{"Category", "Subcategory", "Total Debit", "Total Credit", "Net", "Count"}
	if err := newSheet(f, sheetCategories, header); err != nil {
		return err
	}

	rows := CategorySummary(txns)
	var totalDebit, totalCredit float64
	totalCount := 0
	for i, r := range rows {
		debit := r.Debit.InexactFloat64()
		credit := r.Credit.InexactFloat64()
		totalDebit += debit
		totalCredit += credit
		totalCount += r.Count

		row := []interface{}{r.Category, r.Subcategory, debit, credit, r.Net().InexactFloat64(), r.Count}
		if err := writeRow(f, sheetCategories, i+2, row); err != nil {
			return err
		}
	}

	total := []interface{}{"GRAND TOTAL", "", totalDebit, totalCredit, totalCredit - totalDebit, totalCount}
	return writeRow(f, sheetCategories, len(rows)+3, total)
}

func writeMonthlySheet(f *excelize.File, txns []*model.Transaction) error {
	header := []interface{}{"Month", "Total Debits", "Total Credits", "Net Flow"}
	if err := newSheet(f, sheetMonthly, header); err != nil {
		return err
	}

	rows := MonthlySummary(txns)
	var totalDebit, totalCredit float64
	for i, r := range rows {
		debit := r.Debit.InexactFloat64()
		credit := r.Credit.InexactFloat64()
		totalDebit += debit
		totalCredit += credit

		row := []interface{}{r.Month, debit, credit, r.Net().InexactFloat64()}
		if err := writeRow(f, sheetMonthly, i+2, row); err != nil {
			return err
		}
	}

	total := []interface{}{"TOTAL", totalDebit, totalCredit, totalCredit - totalDebit}
	return writeRow(f, sheetMonthly, len(rows)+2, total)
}

func writeFlaggedSheet(f *excelize.File, txns []*model.Transaction) error {
	header := []interface{}{
		"Date", "Description", "Debit", "Credit", "Balance",
		"Suggestion", "Your Category", "Your Subcategory",
	}
	if err := newSheet(f, sheetFlagged, header); err != nil {
		return err
	}

	for i, txn := range Flagged(txns) {
		row := []interface{}{
			formatDate(txn), txn.Description,
			cellAmount(txn.Debit), cellAmount(txn.Credit), cellAmount(txn.Balance),
			txn.Suggestion, "", "",
		}
		if err := writeRow(f, sheetFlagged, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func formatDate(txn *model.Transaction) string {
	if !txn.HasDate() {
		return ""
	}
	return dates.Format(txn.Date)
}

// cellAmount renders a nullable amount for a worksheet cell, nil when the
// side is absent so the cell stays empty.
func cellAmount(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}
