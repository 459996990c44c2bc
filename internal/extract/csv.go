package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/banksort-dev/banksort/internal/amount"
	"github.com/banksort-dev/banksort/internal/dates"
	"github.com/banksort-dev/banksort/internal/model"
	"github.com/banksort-dev/banksort/internal/profile"
)

// CSV extracts transactions from CSV statement exports, including the
// structured variant produced by OCR/table-extraction tools.
//
// The core algorithm is date-anchored row merging: a row whose date column
// parses starts a new transaction; a row whose date column does not parse is
// a continuation of the previous transaction, its description appended and
// its row index recorded. Repeated headers, page markers, and summary rows
// are discarded before the date check.
type CSV struct {
	Profiles *profile.Registry

	// Overrides pins column roles instead of auto-detecting them. Nil means
	// detect from the header row.
	Overrides *Roles
}

// Format returns "csv".
func (c *CSV) Format() string { return "csv" }

// Extract parses the file at path.
func (c *CSV) Extract(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	res, err := c.ExtractReader(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", filepath.Base(path), err)
	}
	return res, nil
}

// ExtractReader parses CSV content from r. The filename, when known, feeds
// bank detection.
func (c *CSV) ExtractReader(r io.Reader, filename string) (*Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}
	decoded, err := decodeStatement(raw)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoTransactions
	}

	prof := c.Profiles.DetectRows(rows, filename)

	if layout, ok := detectStructured(rows); ok {
		return extractStructured(rows, layout, prof)
	}

	roles := c.roles(rows, prof)
	if !roles.HasDate() {
		return nil, fmt.Errorf("no date column found: %w", ErrNoTransactions)
	}

	txns := mergeDateAnchored(rows, roles, prof)
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

func (c *CSV) roles(rows [][]string, prof profile.Profile) Roles {
	if c.Overrides != nil {
		return *c.Overrides
	}
	headerIdx, _ := FindHeaderRow(rows)
	return DetectRoles(rows[headerIdx], prof)
}

var pageNumberRe = regexp.MustCompile(`(?i)^page\s*\d+`)

// garbageRow reports whether a row is noise: a page marker, a repeated
// header, a summary row, or a "continued" banner.
func garbageRow(row []string, prof profile.Profile) bool {
	var parts []string
	for _, c := range row {
		if s := strings.TrimSpace(c); s != "" {
			parts = append(parts, strings.ToLower(s))
		}
	}
	text := strings.Join(parts, " ")

	if pageNumberRe.MatchString(text) {
		return true
	}
	if HeaderScore(row) >= headerScoreMin {
		return true
	}
	if prof.SkipRow(row) {
		return true
	}
	return strings.Contains(text, "continued") || strings.Contains(text, "contd")
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func rawText(row []string) string {
	var parts []string
	for _, c := range row {
		if s := strings.TrimSpace(c); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " | ")
}

// mergeDateAnchored runs the shared continuation-merging loop over raw rows.
func mergeDateAnchored(rows [][]string, roles Roles, prof profile.Profile) []*model.Transaction {
	var txns []*model.Transaction
	var current *model.Transaction

	for rowIdx, row := range rows {
		rowNum := rowIdx + 1

		if emptyRow(row) || garbageRow(row, prof) {
			continue
		}

		date, ok := dates.Parse(cell(row, roles.Date), prof.DateOrder)
		if ok {
			if current != nil {
				txns = append(txns, current)
			}
			debit, credit := rowAmounts(row, roles)
			current = &model.Transaction{
				Date:        date,
				Description: roles.description(row),
				Debit:       debit,
				Credit:      credit,
				Balance:     rowBalance(row, roles),
				RawText:     rawText(row),
				Rows:        []int{rowNum},
			}
			continue
		}

		// Continuation: the row belongs to the transaction above it.
		if current == nil {
			continue
		}
		if extra := roles.description(row); extra != "" {
			if current.Description != "" {
				current.Description += " " + extra
			} else {
				current.Description = extra
			}
		}
		current.Rows = append(current.Rows, rowNum)
		if text := rawText(row); text != "" {
			current.RawText += " [cont] " + text
		}
	}

	if current != nil {
		txns = append(txns, current)
	}
	return txns
}

// rowAmounts reads the debit and credit cells, falling back to the combined
// amount column when neither dedicated column is present.
func rowAmounts(row []string, roles Roles) (debit, credit decimal.NullDecimal) {
	if roles.Debit >= 0 {
		if d, ok := amount.Parse(cell(row, roles.Debit)); ok && !d.IsZero() {
			debit = model.NewAmount(d.Abs())
		}
	}
	if roles.Credit >= 0 {
		if d, ok := amount.Parse(cell(row, roles.Credit)); ok && !d.IsZero() {
			credit = model.NewAmount(d.Abs())
		}
	}
	if !debit.Valid && !credit.Valid && roles.Amount >= 0 {
		debit, credit = amount.SplitDebitCredit(cell(row, roles.Amount), amount.HintNone)
	}
	return debit, credit
}

func rowBalance(row []string, roles Roles) decimal.NullDecimal {
	if roles.Balance < 0 {
		return decimal.NullDecimal{}
	}
	if d, ok := amount.Parse(cell(row, roles.Balance)); ok {
		return model.NewAmount(d)
	}
	return decimal.NullDecimal{}
}
