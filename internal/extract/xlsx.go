package extract

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/banksort-dev/banksort/internal/dates"
	"github.com/banksort-dev/banksort/internal/model"
	"github.com/banksort-dev/banksort/internal/profile"
)

// XLSX extracts transactions from spreadsheet statement downloads.
//
// Spreadsheet rows are atomic, so there is no continuation merging: header
// discovery and role assignment run once over the sheet, then every
// surviving row with a parseable date becomes exactly one transaction.
type XLSX struct {
	Profiles *profile.Registry

	// Sheet selects a worksheet by name. Empty means the first sheet.
	Sheet string

	// Overrides pins column roles instead of auto-detecting them.
	Overrides *Roles
}

// Format returns "xlsx".
func (x *XLSX) Format() string { return "xlsx" }

// Extract parses the workbook at path.
func (x *XLSX) Extract(path string) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	res, err := x.ExtractFile(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", filepath.Base(path), err)
	}
	return res, nil
}

// ExtractFile parses an already-open workbook. The filename, when known,
// feeds bank detection.
func (x *XLSX) ExtractFile(f *excelize.File, filename string) (*Result, error) {
	sheet := x.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoTransactions
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoTransactions
	}

	prof := x.Profiles.DetectRows(rows, filename)

	// Overrides skip header discovery entirely: a pinned layout may have no
	// header row at all, and the date-parse check below drops one if present.
	var roles Roles
	start := 0
	if x.Overrides != nil {
		roles = *x.Overrides
	} else {
		headerIdx, _ := FindHeaderRow(rows)
		roles = DetectRoles(rows[headerIdx], prof)
		start = headerIdx + 1
	}
	if !roles.HasDate() {
		return nil, fmt.Errorf("no date column found in sheet %q: %w", sheet, ErrNoTransactions)
	}

	var txns []*model.Transaction
	for rowIdx, row := range rows[start:] {
		rowNum := start + rowIdx + 1 // 1-based sheet row

		if emptyRow(row) || prof.SkipRow(row) {
			continue
		}
		date, ok := dates.Parse(cell(row, roles.Date), prof.DateOrder)
		if !ok {
			continue
		}

		debit, credit := rowAmounts(row, roles)
		txns = append(txns, &model.Transaction{
			Date:        date,
			Description: roles.description(row),
			Debit:       debit,
			Credit:      credit,
			Balance:     rowBalance(row, roles),
			RawText:     rawText(row),
			Rows:        []int{rowNum},
		})
	}

	if len(txns) == 0 {
		return nil, ErrNoTransactions
	}
	return &Result{
		Transactions: txns,
		Issues:       Validate(txns),
		Profile:      prof,
		Roles:        roles,
	}, nil
}

// Sheets lists the worksheet names in a workbook file.
func Sheets(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}
