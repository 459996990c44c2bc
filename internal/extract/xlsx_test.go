package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/banksort-dev/banksort/internal/profile"
)

// buildWorkbook writes rows into the default sheet of a new workbook.
func buildWorkbook(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, addr, &row))
	}
	return f
}

func TestXLSXExtract(t *testing.T) {
	f := buildWorkbook(t, [][]interface{}{
		{"State Bank of India"},
		{"Statement for Account XXXX5678"},
		{"Txn Date", "Description", "Debit", "Credit", "Balance"},
		{"15/01/2025", "UPI-SWIGGY BANGALORE", "350.00", "", "9650.00"},
		{"16/01/2025", "NEFT SALARY CREDIT", "", "45000.00", "54650.00"},
		{"", "stray note without date", "", "", ""},
		{"17/01/2025", "ATM CASH WITHDRAWAL", "2000.00", "", "52650.00"},
		{"", "Closing Balance", "", "", "52650.00"},
	})
	defer f.Close()

	x := &XLSX{Profiles: profile.NewRegistry()}
	res, err := x.ExtractFile(f, "sbi_statement.xlsx")
	require.NoError(t, err)

	assert.Equal(t, "State Bank of India", res.Profile.Name)
	// Spreadsheet rows are atomic: the date-less row is not merged into
	// the one above it, and the closing-balance row is skipped.
	require.Len(t, res.Transactions, 3)

	first := res.Transactions[0]
	assert.Equal(t, "UPI-SWIGGY BANGALORE", first.Description)
	assert.True(t, first.Debit.Decimal.Equal(decimal.RequireFromString("350.00")))
	assert.Equal(t, []int{4}, first.Rows)

	second := res.Transactions[1]
	assert.True(t, second.IsCredit())
	require.True(t, second.Balance.Valid)
	assert.True(t, second.Balance.Decimal.Equal(decimal.RequireFromString("54650.00")))
}

func TestXLSXOverridesHeaderlessSheet(t *testing.T) {
	f := buildWorkbook(t, [][]interface{}{
		{"01/01/2025", "COFFEE SHOP", "-120.00"},
		{"02/01/2025", "CASHBACK STORE", "80.00"},
	})
	defer f.Close()

	roles := NewRoles()
	roles.Date = 0
	roles.Description = []int{1}
	roles.Amount = 2

	x := &XLSX{Profiles: profile.NewRegistry(), Overrides: &roles}
	res, err := x.ExtractFile(f, "headerless.xlsx")
	require.NoError(t, err)

	// No header row exists, so the first data row must survive.
	require.Len(t, res.Transactions, 2)

	first := res.Transactions[0]
	assert.Equal(t, "COFFEE SHOP", first.Description)
	assert.True(t, first.IsDebit())
	assert.Equal(t, []int{1}, first.Rows)

	second := res.Transactions[1]
	assert.True(t, second.IsCredit())
	assert.Equal(t, []int{2}, second.Rows)
}

func TestXLSXOverridesSkipRealHeader(t *testing.T) {
	f := buildWorkbook(t, [][]interface{}{
		{"Date", "Narration", "Amount"},
		{"01/01/2025", "COFFEE SHOP", "-120.00"},
	})
	defer f.Close()

	roles := NewRoles()
	roles.Date = 0
	roles.Description = []int{1}
	roles.Amount = 2

	x := &XLSX{Profiles: profile.NewRegistry(), Overrides: &roles}
	res, err := x.ExtractFile(f, "with_header.xlsx")
	require.NoError(t, err)

	// "Date" does not parse as a date, so the header contributes no row.
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "COFFEE SHOP", res.Transactions[0].Description)
	assert.Equal(t, []int{2}, res.Transactions[0].Rows)
}

func TestXLSXNoDateColumn(t *testing.T) {
	f := buildWorkbook(t, [][]interface{}{
		{"foo", "bar"},
		{"1", "2"},
	})
	defer f.Close()

	x := &XLSX{Profiles: profile.NewRegistry()}
	_, err := x.ExtractFile(f, "junk.xlsx")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoTransactions)
}

func TestRegistryForFile(t *testing.T) {
	r := DefaultRegistry(profile.NewRegistry())

	e, err := r.ForFile("statements/jan.csv")
	require.NoError(t, err)
	assert.Equal(t, "csv", e.Format())

	e, err = r.ForFile("statements/jan.XLSX")
	require.NoError(t, err)
	assert.Equal(t, "xlsx", e.Format())

	e, err = r.ForFile("statements/jan.xls")
	require.NoError(t, err)
	assert.Equal(t, "xlsx", e.Format())

	_, err = r.ForFile("statements/jan.pdf")
	assert.Error(t, err)
}
