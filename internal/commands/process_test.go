package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banksort-dev/banksort/internal/runlog"
)

const sampleStatement = `HDFC Bank Statement of Account,,,,
Account No: XXXXXXXX1234,,,,
Date,Narration,Withdrawal Amt,Deposit Amt,Closing Balance
01/01/2025,UPI-GROCERY MART-PAYTM,450.00,,49550.00
02/01/2025,NEFT CR SALARY JAN ACME CORP,,50000.00,99550.00
03/01/2025,ATM WDL MG ROAD BRANCH,2000.00,,97550.00
`

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestProcessStatement(t *testing.T) {
	dir := t.TempDir()
	statement := filepath.Join(dir, "statement.csv")
	require.NoError(t, os.WriteFile(statement, []byte(sampleStatement), 0o644))

	csvOut := filepath.Join(dir, "out.csv")
	xlsxOut := filepath.Join(dir, "out.xlsx")
	logDir := filepath.Join(dir, "logs")

	out, err := runCommand(t, "process", statement,
		"--no-classify",
		"--csv", csvOut,
		"--xlsx", xlsxOut,
		"--log-dir", logDir,
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Processed 3 transactions")
	assert.Contains(t, out, "Balance verification: pass")

	data, err := os.ReadFile(csvOut)
	require.NoError(t, err)
	contents := string(data)
	assert.Contains(t, contents, "01-Jan-2025")
	assert.Contains(t, contents, "Income,Salary")
	assert.Contains(t, contents, "Groceries")

	_, err = os.Stat(xlsxOut)
	require.NoError(t, err)

	entries, err := runlog.Read(logDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, statement, entries[0].Source)
	assert.Equal(t, 3, entries[0].Transactions)
	assert.Equal(t, "pass", entries[0].Reconciled)
}

func TestProcessDefaultOutputs(t *testing.T) {
	dir := t.TempDir()
	statement := filepath.Join(dir, "acct.csv")
	require.NoError(t, os.WriteFile(statement, []byte(sampleStatement), 0o644))

	_, err := runCommand(t, "process", statement,
		"--no-classify",
		"--log-dir", filepath.Join(dir, "logs"),
	)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "acct_transactions.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "acct_report.xlsx"))
	assert.NoError(t, err)
}

func TestProcessUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "statement.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a statement"), 0o644))

	_, err := runCommand(t, "process", path, "--no-classify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported statement format")
}

func TestProcessCustomRules(t *testing.T) {
	dir := t.TempDir()
	statement := filepath.Join(dir, "statement.csv")
	require.NoError(t, os.WriteFile(statement, []byte(sampleStatement), 0o644))

	rulesPath := filepath.Join(dir, "rules.yaml")
	rulesYAML := `priority_rules:
  - name: atm_override
    type: keyword
    keywords: ["atm"]
    category: Business
    subcategory: Petty Cash
`
	require.NoError(t, os.WriteFile(rulesPath, []byte(rulesYAML), 0o644))

	csvOut := filepath.Join(dir, "out.csv")
	_, err := runCommand(t, "process", statement,
		"--no-classify",
		"--rules", rulesPath,
		"--csv", csvOut,
		"--log-dir", filepath.Join(dir, "logs"),
	)
	require.NoError(t, err)

	data, err := os.ReadFile(csvOut)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Petty Cash")
}

func TestProcessColumnOverrides(t *testing.T) {
	dir := t.TempDir()
	statement := filepath.Join(dir, "headerless.csv")
	headerless := "01/01/2025,COFFEE SHOP,-120.00\n02/01/2025,CASHBACK STORE,80.00\n"
	require.NoError(t, os.WriteFile(statement, []byte(headerless), 0o644))

	csvOut := filepath.Join(dir, "out.csv")
	out, err := runCommand(t, "process", statement,
		"--no-classify",
		"--date-col", "0",
		"--desc-col", "1",
		"--amount-col", "2",
		"--csv", csvOut,
		"--log-dir", filepath.Join(dir, "logs"),
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Processed 2 transactions")

	data, err := os.ReadFile(csvOut)
	require.NoError(t, err)
	contents := string(data)
	assert.Contains(t, contents, "COFFEE SHOP")
	assert.Contains(t, contents, "120.00")
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, filepath.Join("a", "b_transactions.csv"), outputName(filepath.Join("a", "b.csv"), "_transactions.csv"))
	assert.Equal(t, "report_pnl.csv", outputName("report.pdf", "_pnl.csv"))
}

func TestParsePages(t *testing.T) {
	first, last, single, err := parsePages("")
	require.NoError(t, err)
	assert.Zero(t, first)
	assert.Zero(t, last)
	assert.Zero(t, single)

	first, last, single, err = parsePages("40-60")
	require.NoError(t, err)
	assert.Equal(t, 40, first)
	assert.Equal(t, 60, last)
	assert.Zero(t, single)

	_, _, single, err = parsePages("7")
	require.NoError(t, err)
	assert.Equal(t, 7, single)

	for _, bad := range []string{"0", "-3", "10-5", "abc", "1-x"} {
		_, _, _, err := parsePages(bad)
		assert.Error(t, err, bad)
	}
}
