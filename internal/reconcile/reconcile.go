// Package reconcile verifies extracted transactions against the running
// balance the statement itself reports.
//
// A replayed balance that drifts from the stated one points at a missing or
// duplicated transaction, usually a casualty of the extraction step. After
// each mismatch the replay resynchronizes to the stated balance so one bad
// row does not condemn the rest of the statement.
package reconcile

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/banksort-dev/banksort/internal/model"
)

// ErrNoTransactions is returned when there is nothing to reconcile.
var ErrNoTransactions = errors.New("no transactions to reconcile")

// DefaultTolerance absorbs rounding noise between the replayed and stated
// balances.
var DefaultTolerance = decimal.NewFromFloat(0.01)

// Entry is the reconciliation outcome for one transaction, in replay order.
type Entry struct {
	Transaction *model.Transaction
	Calculated  decimal.Decimal
	// Difference is calculated minus stated, set only when the row
	// carries a stated balance.
	Difference decimal.NullDecimal
	Mismatch   bool
	Reason     string
}

// Report is the outcome for a whole statement.
type Report struct {
	Entries        []Entry
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	Mismatches     int
	TotalDebits    decimal.Decimal
	TotalCredits   decimal.Decimal
}

// Passed reports whether the statement reconciled cleanly.
func (r *Report) Passed() bool { return r.Mismatches == 0 }

// Reconciler replays transactions against stated balances. The zero value
// uses DefaultTolerance.
type Reconciler struct {
	// Tolerance overrides DefaultTolerance when positive.
	Tolerance decimal.Decimal
	// OpeningBalance seeds the replay. When Valid is false it is
	// inferred from the first transaction's stated balance.
	OpeningBalance decimal.NullDecimal
}

func (r *Reconciler) tolerance() decimal.Decimal {
	if r.Tolerance.IsPositive() {
		return r.Tolerance
	}
	return DefaultTolerance
}

// Reconcile sorts the transactions by date and replays every movement,
// comparing the running balance against each stated balance. The input
// slice is not modified.
func (r *Reconciler) Reconcile(txns []*model.Transaction) (*Report, error) {
	if len(txns) == 0 {
		return nil, ErrNoTransactions
	}

	sorted := SortByDate(txns)

	opening := r.OpeningBalance.Decimal
	if !r.OpeningBalance.Valid {
		opening = inferOpening(sorted[0])
	}

	report := &Report{
		Entries:        make([]Entry, 0, len(sorted)),
		OpeningBalance: opening,
	}

	running := opening
	for _, txn := range sorted {
		if txn.Debit.Valid {
			running = running.Sub(txn.Debit.Decimal)
			report.TotalDebits = report.TotalDebits.Add(txn.Debit.Decimal)
		}
		if txn.Credit.Valid {
			running = running.Add(txn.Credit.Decimal)
			report.TotalCredits = report.TotalCredits.Add(txn.Credit.Decimal)
		}

		entry := Entry{Transaction: txn, Calculated: running}

		if txn.Balance.Valid {
			diff := running.Sub(txn.Balance.Decimal).Round(2)
			entry.Difference = model.NewAmount(diff)

			if diff.Abs().GreaterThan(r.tolerance()) {
				entry.Mismatch = true
				entry.Reason = mismatchReason(diff)
				report.Mismatches++

				// Resync so later rows are checked on their own merits.
				running = txn.Balance.Decimal
				entry.Calculated = running
			}
		}
		report.Entries = append(report.Entries, entry)
	}

	report.ClosingBalance = running
	return report, nil
}

// mismatchReason names the likely cause from the drift direction.
func mismatchReason(diff decimal.Decimal) string {
	if diff.IsPositive() {
		return "calculated " + diff.StringFixed(2) + " more than stated (possible missing debit)"
	}
	return "calculated " + diff.Abs().StringFixed(2) + " less than stated (possible missing credit)"
}

// inferOpening reverses the first transaction's effect off its stated
// balance. Without a stated balance the opening is taken as zero.
func inferOpening(first *model.Transaction) decimal.Decimal {
	if !first.Balance.Valid {
		return decimal.Zero
	}
	opening := first.Balance.Decimal
	if first.Debit.Valid {
		opening = opening.Add(first.Debit.Decimal)
	}
	if first.Credit.Valid {
		opening = opening.Sub(first.Credit.Decimal)
	}
	return opening
}

// SortByDate returns a new slice ordered by date, undated rows first.
// The sort is stable so statement order survives within a day.
func SortByDate(txns []*model.Transaction) []*model.Transaction {
	sorted := make([]*model.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
