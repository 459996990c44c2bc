package extract

import (
	"regexp"
	"strings"

	"github.com/banksort-dev/banksort/internal/profile"
)

// headerKeywords is the vocabulary used to score candidate header rows.
var headerKeywords = []string{
	"date", "description", "narration", "particulars",
	"debit", "credit", "withdrawal", "deposit", "balance",
}

// headerScoreMin is the minimum score for a row to count as a header.
const headerScoreMin = 3

// headerScanRows bounds how deep into the file header detection looks.
const headerScanRows = 20

// Roles maps logical column roles to physical column indices. -1 means the
// role was not found. Each role claims at most one column, and a column is
// claimed by at most one role.
type Roles struct {
	Date        int
	Description []int
	Debit       int
	Credit      int
	Amount      int // combined signed-amount column
	Balance     int
}

// NewRoles returns a Roles value with every index unset.
func NewRoles() Roles {
	return Roles{Date: -1, Debit: -1, Credit: -1, Amount: -1, Balance: -1}
}

// HasDate reports whether a date column was found.
func (r Roles) HasDate() bool { return r.Date >= 0 }

// HeaderScore counts cells whose text contains any header keyword. Each
// cell contributes at most one point.
func HeaderScore(row []string) int {
	score := 0
	for _, cell := range row {
		text := strings.ToLower(strings.TrimSpace(cell))
		for _, kw := range headerKeywords {
			if strings.Contains(text, kw) {
				score++
				break
			}
		}
	}
	return score
}

// FindHeaderRow returns the best-scoring row index within the scan window.
// The second return is false when no row reaches the minimum score; callers
// then default to row 0.
func FindHeaderRow(rows [][]string) (int, bool) {
	bestIdx, bestScore := 0, 0
	for idx, row := range rows {
		if idx >= headerScanRows {
			break
		}
		if score := HeaderScore(row); score > bestScore {
			bestIdx, bestScore = idx, score
		}
	}
	if bestScore < headerScoreMin {
		return 0, false
	}
	return bestIdx, true
}

// MatchesKeyword reports whether a normalized column name matches any
// keyword. Keywords of one or two characters require word boundaries, so
// "cr" matches "cr amount" but not "description".
func MatchesKeyword(name string, keywords []string) bool {
	for _, kw := range keywords {
		if len(kw) <= 2 {
			pattern := `(?:^|[^a-z])` + regexp.QuoteMeta(kw) + `(?:[^a-z]|$)`
			if regexp.MustCompile(pattern).MatchString(name) {
				return true
			}
		} else if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// DetectRoles assigns column roles from a header row using the profile's
// vocabularies. Roles are checked in a fixed priority order (date,
// description, debit, credit, balance) and assignment is first-match-wins:
// once a column is claimed it is never reconsidered for a later role. When
// neither a debit nor a credit column is found, a combined-amount column is
// sought among the remaining columns.
func DetectRoles(header []string, p profile.Profile) Roles {
	roles := NewRoles()
	used := make(map[int]bool)

	claim := func(idx int) {
		used[idx] = true
	}

	for idx, name := range header {
		text := strings.ToLower(strings.TrimSpace(name))
		if used[idx] {
			continue
		}
		switch {
		case !roles.HasDate() && MatchesKeyword(text, p.DateKeywords()):
			roles.Date = idx
			claim(idx)
		case len(roles.Description) == 0 && MatchesKeyword(text, p.DescriptionKeywords()):
			roles.Description = []int{idx}
			claim(idx)
		case roles.Debit < 0 && MatchesKeyword(text, p.DebitKeywords()):
			roles.Debit = idx
			claim(idx)
		case roles.Credit < 0 && MatchesKeyword(text, p.CreditKeywords()):
			roles.Credit = idx
			claim(idx)
		case roles.Balance < 0 && MatchesKeyword(text, p.BalanceKeywords()):
			roles.Balance = idx
			claim(idx)
		}
	}

	if roles.Debit < 0 && roles.Credit < 0 {
		for idx, name := range header {
			if used[idx] {
				continue
			}
			text := strings.ToLower(strings.TrimSpace(name))
			if MatchesKeyword(text, p.AmountKeywords()) {
				roles.Amount = idx
				break
			}
		}
	}
	return roles
}

// cell safely reads a column from a row, returning "" when out of range.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// description joins the role's description columns for one row.
func (r Roles) description(row []string) string {
	var parts []string
	for _, idx := range r.Description {
		if v := cell(row, idx); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}
