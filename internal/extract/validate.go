package extract

import (
	"fmt"
	"strings"

	"github.com/banksort-dev/banksort/internal/model"
)

// Validate inspects extracted transactions for row-level defects. Issues
// are warnings tied to the source rows; they never block processing.
func Validate(txns []*model.Transaction) []model.ValidationIssue {
	var issues []model.ValidationIssue
	add := func(t *model.Transaction, typ, msg string) {
		issues = append(issues, model.ValidationIssue{
			Rows:     t.Rows,
			Type:     typ,
			Message:  msg,
			Severity: model.SeverityWarning,
		})
	}

	for i, t := range txns {
		n := i + 1
		if !t.HasDate() {
			add(t, model.IssueMissingDate, fmt.Sprintf("transaction %d has no valid date", n))
		}
		if strings.TrimSpace(t.Description) == "" {
			add(t, model.IssueMissingDescription, fmt.Sprintf("transaction %d has no description", n))
		}
		if !t.Debit.Valid && !t.Credit.Valid {
			add(t, model.IssueMissingAmount, fmt.Sprintf("transaction %d has no debit or credit amount", n))
		}
		if t.Debit.Valid && t.Debit.Decimal.IsZero() || t.Credit.Valid && t.Credit.Decimal.IsZero() {
			add(t, model.IssueZeroAmount, fmt.Sprintf("transaction %d has a zero amount", n))
		}
	}
	return issues
}
