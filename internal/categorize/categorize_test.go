package categorize

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banksort-dev/banksort/internal/model"
	"github.com/banksort-dev/banksort/internal/rules"
)

type fakeClassifier struct {
	results []*Result
	err     error
	batches [][]Input
}

func (f *fakeClassifier) Classify(_ context.Context, batch []Input) ([]*Result, error) {
	f.batches = append(f.batches, batch)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func debit(desc, amount string) *model.Transaction {
	return &model.Transaction{
		Description: desc,
		Debit:       model.NewAmount(decimal.RequireFromString(amount)),
	}
}

func credit(desc, amount string) *model.Transaction {
	return &model.Transaction{
		Description: desc,
		Credit:      model.NewAmount(decimal.RequireFromString(amount)),
	}
}

func TestCategorizeAllRulesOnly(t *testing.T) {
	c := New(rules.NewEngine(nil))

	txns := []*model.Transaction{
		credit("SAL FOR OCT 2024", "125000"),
		debit("SWIGGY ORDER 12345", "450"),
	}
	stats := c.CategorizeAll(context.Background(), txns)

	assert.Equal(t, 2, stats.RuleMatched)
	assert.Equal(t, 0, stats.Flagged)

	assert.Equal(t, "Income", txns[0].Category)
	assert.Equal(t, "Salary", txns[0].Subcategory)
	assert.Equal(t, model.SourceRules, txns[0].Source)
	assert.Equal(t, rules.Confidence, txns[0].Confidence)

	assert.Equal(t, "Food & Dining", txns[1].Category)
}

func TestCategorizeAllClassifierFallback(t *testing.T) {
	fake := &fakeClassifier{results: []*Result{
		{Category: "Business Expense", Subcategory: "Vendor Payment", Confidence: 0.92},
		{Category: "Shopping", Subcategory: "Clothing", Confidence: 0.55},
		nil,
	}}
	c := New(rules.NewEngine(nil), WithClassifier(fake))

	txns := []*model.Transaction{
		debit("SWIGGY ORDER 12345", "450"), // rules handle this one
		debit("ACME WIDGETS 99", "20000"),
		debit("MYSTERY STORE 7", "1200"),
		debit("QQQ 1", "10"),
	}
	stats := c.CategorizeAll(context.Background(), txns)

	assert.Equal(t, 1, stats.RuleMatched)
	assert.Equal(t, 1, stats.ClassifierMatched)
	assert.Equal(t, 2, stats.Flagged)
	assert.Equal(t, 1, stats.ClassifierFailed)

	// Only unmatched transactions went to the classifier.
	require.Len(t, fake.batches, 1)
	require.Len(t, fake.batches[0], 3)
	assert.Equal(t, "ACME WIDGETS 99", fake.batches[0][0].Description)
	assert.True(t, fake.batches[0][0].IsDebit)

	// High confidence accepted.
	assert.Equal(t, "Business Expense", txns[1].Category)
	assert.Equal(t, model.SourceClassifier, txns[1].Source)
	assert.Equal(t, 0.92, txns[1].Confidence)

	// Low confidence flagged with the suggestion retained.
	assert.Equal(t, model.CategoryReview, txns[2].Category)
	assert.Equal(t, model.SubcategoryReview, txns[2].Subcategory)
	assert.Equal(t, model.SourceFlagged, txns[2].Source)
	assert.Equal(t, 0.55, txns[2].Confidence)
	assert.Equal(t, "Shopping > Clothing (conf: 0.55)", txns[2].Suggestion)

	// Individual failure flagged.
	assert.Equal(t, model.CategoryReview, txns[3].Category)
	assert.Equal(t, "classifier call failed", txns[3].Suggestion)
}

func TestCategorizeAllNoClassifier(t *testing.T) {
	c := New(rules.NewEngine(nil))

	txns := []*model.Transaction{debit("MYSTERY STORE 7", "1200")}
	stats := c.CategorizeAll(context.Background(), txns)

	assert.Equal(t, 1, stats.Flagged)
	assert.Equal(t, model.CategoryReview, txns[0].Category)
	assert.Equal(t, model.SourceFlagged, txns[0].Source)
	assert.Equal(t, 0.0, txns[0].Confidence)
	assert.Equal(t, "classifier not configured", txns[0].Suggestion)
}

func TestCategorizeAllClassifierBatchError(t *testing.T) {
	fake := &fakeClassifier{err: errors.New("boom")}
	c := New(rules.NewEngine(nil), WithClassifier(fake))

	txns := []*model.Transaction{
		debit("MYSTERY STORE 7", "1200"),
		debit("QQQ 1", "10"),
	}
	stats := c.CategorizeAll(context.Background(), txns)

	assert.Equal(t, 2, stats.Flagged)
	assert.Equal(t, 2, stats.ClassifierFailed)
	for _, txn := range txns {
		assert.Equal(t, model.CategoryReview, txn.Category)
		assert.Equal(t, "classifier call failed", txn.Suggestion)
	}
}

// singleOnlyClassifier rejects multi-input batches but answers single-input
// calls, the way a model returning a malformed batch array behaves.
type singleOnlyClassifier struct {
	singles map[string]*Result
	calls   int
}

func (f *singleOnlyClassifier) Classify(_ context.Context, batch []Input) ([]*Result, error) {
	f.calls++
	if len(batch) > 1 {
		return nil, errors.New("malformed batch response")
	}
	return []*Result{f.singles[batch[0].Description]}, nil
}

func TestCategorizeAllBatchFailureFallsBackPerItem(t *testing.T) {
	fake := &singleOnlyClassifier{singles: map[string]*Result{
		"ACME WIDGETS 99": {Category: "Business Expense", Subcategory: "Vendor Payment", Confidence: 0.92},
		"MYSTERY STORE 7": {Category: "Shopping", Subcategory: "Clothing", Confidence: 0.55},
		// "QQQ 1" deliberately absent: its single call answers nil.
	}}
	c := New(rules.NewEngine(nil), WithClassifier(fake))

	txns := []*model.Transaction{
		debit("ACME WIDGETS 99", "20000"),
		debit("MYSTERY STORE 7", "1200"),
		debit("QQQ 1", "10"),
	}
	stats := c.CategorizeAll(context.Background(), txns)

	// One failed batch call, then one call per transaction.
	assert.Equal(t, 4, fake.calls)

	assert.Equal(t, 1, stats.ClassifierMatched)
	assert.Equal(t, 2, stats.Flagged)
	assert.Equal(t, 1, stats.ClassifierFailed)

	assert.Equal(t, "Business Expense", txns[0].Category)
	assert.Equal(t, model.SourceClassifier, txns[0].Source)

	assert.Equal(t, model.CategoryReview, txns[1].Category)
	assert.Equal(t, "Shopping > Clothing (conf: 0.55)", txns[1].Suggestion)

	assert.Equal(t, model.CategoryReview, txns[2].Category)
	assert.Equal(t, "classifier call failed", txns[2].Suggestion)
}

func TestCategorizeAllThreshold(t *testing.T) {
	fake := &fakeClassifier{results: []*Result{
		{Category: "Shopping", Subcategory: "Clothing", Confidence: 0.85},
	}}
	c := New(rules.NewEngine(nil), WithClassifier(fake), WithThreshold(0.9))

	txns := []*model.Transaction{debit("MYSTERY STORE 7", "1200")}
	stats := c.CategorizeAll(context.Background(), txns)

	// 0.85 clears the default but not the raised threshold.
	assert.Equal(t, 1, stats.Flagged)
	assert.Equal(t, model.CategoryReview, txns[0].Category)
}

func TestCategorizeAllRuleFlag(t *testing.T) {
	engine := rules.NewEngine(&rules.CustomRules{
		AmountRules: []rules.AmountRule{{
			Name:                  "large-round",
			MinAmount:             10000,
			RoundAmount:           true,
			Type:                  "debit",
			FlagForReview:         true,
			SuggestionCategory:    "Transfer",
			SuggestionSubcategory: "Family Transfer",
		}},
	})
	c := New(engine)

	txns := []*model.Transaction{debit("QQQ 50K", "50000")}
	stats := c.CategorizeAll(context.Background(), txns)

	assert.Equal(t, 1, stats.Flagged)
	assert.Equal(t, 0, stats.RuleMatched)
	assert.Equal(t, model.CategoryReview, txns[0].Category)
	assert.Equal(t, 0.5, txns[0].Confidence)
	assert.Equal(t, "Transfer > Family Transfer", txns[0].Suggestion)
}
