// Package categorize assigns categories to extracted transactions.
//
// The rule engine runs first since it is cheap and deterministic. Whatever
// it cannot place goes to an external classifier in one batch, and any
// answer below the confidence threshold is flagged for manual review with
// the classifier's suggestion kept alongside.
package categorize

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/banksort-dev/banksort/internal/model"
	"github.com/banksort-dev/banksort/internal/rules"
)

// DefaultThreshold is the minimum classifier confidence accepted without
// review.
const DefaultThreshold = 0.8

// Input is one transaction handed to the classifier.
type Input struct {
	Description string
	Amount      decimal.NullDecimal
	IsDebit     bool
}

// Result is a classifier answer for one input. Confidence is clamped to
// [0, 1] by implementations.
type Result struct {
	Category    string
	Subcategory string
	Confidence  float64
}

// Classifier categorizes transactions the rule engine could not. A nil
// entry in the returned slice means that input failed individually.
type Classifier interface {
	Classify(ctx context.Context, batch []Input) ([]*Result, error)
}

// Stats counts how each transaction was resolved.
type Stats struct {
	Total             int
	RuleMatched       int
	ClassifierMatched int
	Flagged           int
	ClassifierFailed  int
}

// Categorizer runs the full categorization pipeline over a transaction
// sequence, filling the categorization fields in place.
type Categorizer struct {
	engine     *rules.Engine
	classifier Classifier
	threshold  float64
	log        zerolog.Logger
}

// Option configures a Categorizer.
type Option func(*Categorizer)

// WithClassifier sets the fallback classifier. Without one, unmatched
// transactions are flagged for review.
func WithClassifier(c Classifier) Option {
	return func(cat *Categorizer) { cat.classifier = c }
}

// WithThreshold overrides DefaultThreshold.
func WithThreshold(t float64) Option {
	return func(cat *Categorizer) {
		if t > 0 {
			cat.threshold = t
		}
	}
}

// WithLogger sets the progress logger.
func WithLogger(log zerolog.Logger) Option {
	return func(cat *Categorizer) { cat.log = log }
}

// New builds a Categorizer around a rule engine.
func New(engine *rules.Engine, opts ...Option) *Categorizer {
	c := &Categorizer{
		engine:    engine,
		threshold: DefaultThreshold,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CategorizeAll categorizes every transaction and returns resolution
// counts. Transactions are modified in place.
func (c *Categorizer) CategorizeAll(ctx context.Context, txns []*model.Transaction) Stats {
	stats := Stats{Total: len(txns)}

	var unmatched []int
	for i, txn := range txns {
		match := c.engine.Categorize(txn.Description, movementAmount(txn), txn.IsCredit())
		if match == nil {
			unmatched = append(unmatched, i)
			continue
		}
		applyRuleMatch(txn, match, &stats)
	}

	c.log.Debug().
		Int("total", stats.Total).
		Int("rule_matched", stats.RuleMatched).
		Int("unmatched", len(unmatched)).
		Msg("rule pass complete")

	if len(unmatched) == 0 {
		return stats
	}

	if c.classifier == nil {
		for _, i := range unmatched {
			flag(txns[i], 0, "classifier not configured")
			stats.Flagged++
		}
		return stats
	}

	batch := make([]Input, len(unmatched))
	for bi, i := range unmatched {
		txn := txns[i]
		batch[bi] = Input{
			Description: txn.Description,
			Amount:      movementAmount(txn),
			IsDebit:     txn.IsDebit(),
		}
	}

	results, err := c.classifier.Classify(ctx, batch)
	if err != nil || len(results) != len(unmatched) {
		c.log.Warn().Err(err).Msg("classifier batch failed, retrying one at a time")
		results = c.classifyOneByOne(ctx, batch)
	}

	for bi, i := range unmatched {
		txn := txns[i]
		res := results[bi]
		switch {
		case res == nil:
			flag(txn, 0, "classifier call failed")
			stats.Flagged++
			stats.ClassifierFailed++
		case res.Confidence >= c.threshold:
			txn.Category = res.Category
			txn.Subcategory = res.Subcategory
			txn.Confidence = res.Confidence
			txn.Source = model.SourceClassifier
			stats.ClassifierMatched++
		default:
			flag(txn, res.Confidence,
				fmt.Sprintf("%s > %s (conf: %.2f)", res.Category, res.Subcategory, res.Confidence))
			stats.Flagged++
		}
	}
	return stats
}

// classifyOneByOne degrades a failed batch to single-input calls so one bad
// response costs one transaction, not the whole remainder. Inputs whose
// single call also fails come back nil.
func (c *Categorizer) classifyOneByOne(ctx context.Context, batch []Input) []*Result {
	results := make([]*Result, len(batch))
	for i, in := range batch {
		single, err := c.classifier.Classify(ctx, []Input{in})
		if err != nil || len(single) != 1 {
			c.log.Warn().Err(err).Str("description", in.Description).Msg("classifier call failed")
			continue
		}
		results[i] = single[0]
	}
	return results
}

// applyRuleMatch writes a rule engine match into the transaction.
func applyRuleMatch(txn *model.Transaction, match *rules.Match, stats *Stats) {
	if match.FlagForReview {
		suggestion := ""
		if match.SuggestedCategory != "" {
			suggestion = match.SuggestedCategory + " > " + match.SuggestedSubcategory
		}
		flag(txn, match.Confidence, suggestion)
		stats.Flagged++
		return
	}
	txn.Category = match.Category
	txn.Subcategory = match.Subcategory
	txn.Confidence = match.Confidence
	txn.Source = model.SourceRules
	stats.RuleMatched++
}

func flag(txn *model.Transaction, confidence float64, suggestion string) {
	txn.Category = model.CategoryReview
	txn.Subcategory = model.SubcategoryReview
	txn.Confidence = confidence
	txn.Source = model.SourceFlagged
	txn.Suggestion = suggestion
}

// movementAmount picks the side of the transaction that moved.
func movementAmount(txn *model.Transaction) decimal.NullDecimal {
	if txn.Debit.Valid {
		return txn.Debit
	}
	return txn.Credit
}
