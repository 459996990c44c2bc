package extract

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banksort-dev/banksort/internal/profile"
)

func newCSV() *CSV {
	return &CSV{Profiles: profile.NewRegistry()}
}

func TestCSVExtract(t *testing.T) {
	res, err := newCSV().Extract(filepath.Join("testdata", "hdfc_statement.csv"))
	require.NoError(t, err)

	assert.Equal(t, "HDFC Bank", res.Profile.Name)
	require.Len(t, res.Transactions, 4)

	first := res.Transactions[0]
	assert.Equal(t, "01-Jan-2025", first.Date.Format("02-Jan-2006"))
	// Continuation row text is appended, its row index recorded.
	assert.Equal(t, "UPI-GROCERY MART-PAYTM REF 500123456789", first.Description)
	assert.Equal(t, []int{4, 5}, first.Rows)
	assert.Contains(t, first.RawText, "[cont]")
	require.True(t, first.Debit.Valid)
	assert.True(t, first.Debit.Decimal.Equal(decimal.RequireFromString("450.00")))
	assert.False(t, first.Credit.Valid)
	require.True(t, first.Balance.Valid)
	assert.True(t, first.Balance.Decimal.Equal(decimal.RequireFromString("49550.00")))

	second := res.Transactions[1]
	assert.True(t, second.IsCredit())
	assert.True(t, second.Credit.Decimal.Equal(decimal.RequireFromString("50000.00")))

	// Lakh-grouped amount on the fourth transaction parses cleanly.
	fourth := res.Transactions[3]
	assert.True(t, fourth.Debit.Decimal.Equal(decimal.RequireFromString("1250.50")))

	assert.Empty(t, res.Issues)
}

func TestCSVHeaderReplicaNotATransaction(t *testing.T) {
	res, err := newCSV().Extract(filepath.Join("testdata", "hdfc_statement.csv"))
	require.NoError(t, err)

	// The page break repeats the header mid-file; it must vanish, not
	// become a transaction or a continuation.
	for _, txn := range res.Transactions {
		assert.NotContains(t, txn.Description, "Narration")
		assert.NotContains(t, txn.Description, "Page 1")
	}
}

func TestCSVCombinedAmountColumn(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Amount,Balance",
		"01/02/2025,CARD PAYMENT,-1200.00,8800.00",
		"02/02/2025,REFUND STORE,300.00,9100.00",
		"03/02/2025,FEE REVERSAL,150.00 CR,9250.00",
	}, "\n")

	res, err := newCSV().ExtractReader(strings.NewReader(input), "export.csv")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 3)

	assert.True(t, res.Transactions[0].IsDebit())
	assert.True(t, res.Transactions[0].Debit.Decimal.Equal(decimal.RequireFromString("1200.00")))
	assert.True(t, res.Transactions[1].IsCredit())
	assert.True(t, res.Transactions[2].IsCredit())
}

func TestCSVOverrides(t *testing.T) {
	input := strings.Join([]string{
		"c0,c1,c2",
		"05/03/2025,POS PURCHASE,750.00",
	}, "\n")

	roles := NewRoles()
	roles.Date = 0
	roles.Description = []int{1}
	roles.Debit = 2

	c := newCSV()
	c.Overrides = &roles
	res, err := c.ExtractReader(strings.NewReader(input), "raw.csv")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "POS PURCHASE", res.Transactions[0].Description)
	assert.True(t, res.Transactions[0].IsDebit())
}

func TestCSVNoDateColumn(t *testing.T) {
	input := "foo,bar\nx,y\n"
	_, err := newCSV().ExtractReader(strings.NewReader(input), "junk.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoTransactions)
}

func TestCSVLeadingContinuationDropped(t *testing.T) {
	// A date-less row before any dated row has no transaction to join.
	input := strings.Join([]string{
		"Date,Description,Debit,Credit,Balance",
		",ORPHAN FRAGMENT,,,",
		"01/02/2025,FIRST REAL TXN,100.00,,900.00",
	}, "\n")

	res, err := newCSV().ExtractReader(strings.NewReader(input), "s.csv")
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "FIRST REAL TXN", res.Transactions[0].Description)
}

func TestDecodeStatementEncodings(t *testing.T) {
	// UTF-8 BOM is stripped.
	out, err := decodeStatement(append([]byte{0xEF, 0xBB, 0xBF}, []byte("Date,Desc")...))
	require.NoError(t, err)
	assert.Equal(t, "Date,Desc", string(out))

	// Windows-1252: 0x92 is a right single quote, invalid as UTF-8.
	out, err = decodeStatement([]byte{'M', 0x92, 's', ' ', 'S', 't', 'o', 'r', 'e'})
	require.NoError(t, err)
	assert.Equal(t, "M’s Store", string(out))
}
