package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banksort-dev/banksort/internal/profile"
)

func TestHeaderScore(t *testing.T) {
	assert.Equal(t, 5, HeaderScore([]string{"Date", "Narration", "Debit", "Credit", "Balance"}))
	assert.Equal(t, 0, HeaderScore([]string{"01/01/2025", "UPI GROCERY", "450.00"}))
	// A cell matching several keywords still counts once.
	assert.Equal(t, 1, HeaderScore([]string{"Date of Withdrawal/Deposit"}))
}

func TestFindHeaderRow(t *testing.T) {
	rows := [][]string{
		{"Some Bank Statement"},
		{"Account: 1234"},
		{"Date", "Description", "Debit", "Credit", "Balance"},
		{"01/01/2025", "UPI", "100", "", "900"},
	}
	idx, ok := FindHeaderRow(rows)
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	idx, ok = FindHeaderRow([][]string{{"a", "b"}, {"c", "d"}})
	assert.False(t, ok)
	assert.Equal(t, 0, idx)
}

func TestMatchesKeyword(t *testing.T) {
	creditKw := []string{"credit", "cr"}

	assert.True(t, MatchesKeyword("credit amount", creditKw))
	assert.True(t, MatchesKeyword("cr", creditKw))
	assert.True(t, MatchesKeyword("cr amount", creditKw))
	assert.True(t, MatchesKeyword("amount (cr)", creditKw))
	// Short keywords need word boundaries.
	assert.False(t, MatchesKeyword("description", []string{"cr"}))
	assert.False(t, MatchesKeyword("crore value", []string{"cr"}))
}

func TestDetectRoles(t *testing.T) {
	p := profile.NewRegistry().Generic()

	roles := DetectRoles([]string{"Txn Date", "Particulars", "Withdrawal Amt", "Deposit Amt", "Balance"}, p)
	assert.Equal(t, 0, roles.Date)
	assert.Equal(t, []int{1}, roles.Description)
	assert.Equal(t, 2, roles.Debit)
	assert.Equal(t, 3, roles.Credit)
	assert.Equal(t, 4, roles.Balance)
	assert.Equal(t, -1, roles.Amount)
}

func TestDetectRolesFirstMatchWins(t *testing.T) {
	p := profile.NewRegistry().Generic()

	// Two date-like columns: only the first is claimed, leaving the second
	// free for no one (value date also matches the date vocabulary).
	roles := DetectRoles([]string{"Txn Date", "Value Date", "Narration", "Balance"}, p)
	assert.Equal(t, 0, roles.Date)
	assert.Equal(t, []int{2}, roles.Description)
	assert.Equal(t, 3, roles.Balance)
}

func TestDetectRolesCombinedAmountFallback(t *testing.T) {
	p := profile.NewRegistry().Generic()

	roles := DetectRoles([]string{"Date", "Description", "Amount", "Balance"}, p)
	assert.Equal(t, -1, roles.Debit)
	assert.Equal(t, -1, roles.Credit)
	assert.Equal(t, 2, roles.Amount)

	// With a dedicated debit column present the fallback never fires.
	roles = DetectRoles([]string{"Date", "Description", "Debit", "Amount"}, p)
	assert.Equal(t, 2, roles.Debit)
	assert.Equal(t, -1, roles.Amount)
}
