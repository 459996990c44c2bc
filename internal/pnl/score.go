package pnl

import (
	"regexp"
	"strings"
)

// Keyword vocabularies for page identification. Primary keywords are
// statement titles, secondary keywords are typical line-item labels, and
// negative keywords mark the neighboring statements that share vocabulary
// with a P&L.
var (
	primaryKeywords = []string{
		"statement of profit and loss",
		"profit and loss account",
		"profit and loss statement",
		"income statement",
		"statement of income",
		"consolidated statement of profit",
		"standalone statement of profit",
		"statement of profit & loss",
		"profit & loss account",
		"profit & loss statement",
	}

	secondaryKeywords = []string{
		"revenue from operations",
		"other income",
		"total income",
		"total revenue",
		"cost of materials consumed",
		"cost of goods sold",
		"employee benefit",
		"employee benefits expense",
		"finance cost",
		"depreciation and amortisation",
		"depreciation and amortization",
		"total expenses",
		"profit before tax",
		"profit before exceptional",
		"profit after tax",
		"profit for the period",
		"profit for the year",
		"profit/(loss)",
		"profit / (loss)",
		"loss for the period",
		"loss for the year",
		"tax expense",
		"current tax",
		"deferred tax",
		"earnings per equity share",
		"earnings per share",
		"basic eps",
		"diluted eps",
		"other comprehensive income",
		"total comprehensive income",
	}

	negativeKeywords = []string{
		"balance sheet",
		"statement of financial position",
		"cash flow statement",
		"statement of cash flows",
		"statement of changes in equity",
		"notes to financial statements",
		"notes forming part",
		"schedule",
		"auditor",
		"director",
		"board of directors",
		"corporate governance",
		"management discussion",
	}

	totalKeywords = []string{
		"total income",
		"total revenue",
		"total expenses",
		"profit before",
		"profit after",
		"profit for the",
		"profit/(loss)",
		"profit / (loss)",
		"loss before",
		"loss after",
		"loss for the",
		"net profit",
		"net loss",
		"total comprehensive",
		"total other comprehensive",
	}
)

var (
	currencyHintRe = regexp.MustCompile(`[₹]|rs\.?\s|in\s+(lakhs?|crores?|thousands?|millions?)`)
	noteRefHintRe  = regexp.MustCompile(`note\s*(?:no\.?)?\s*\d`)
	periodHintRe   = regexp.MustCompile(`(?:year|period)\s+ended|for\s+the\s+(?:year|period)`)
	amountHintRe   = regexp.MustCompile(`\d{1,3}(?:,\d{2,3})*(?:\.\d{1,2})?`)
)

// ScorePage rates how likely a page's text is to be a P&L statement.
// Primary keyword hits add 5, secondary hits 1, negative hits subtract 2;
// currency markers, note references, period headers, and a density of
// grouped amounts add small bonuses. The score floors at zero.
func ScorePage(text string) (float64, []string) {
	text = strings.ToLower(text)
	score := 0.0
	var matched []string

	for _, kw := range primaryKeywords {
		if strings.Contains(text, kw) {
			score += 5.0
			matched = append(matched, kw)
		}
	}
	for _, kw := range secondaryKeywords {
		if strings.Contains(text, kw) {
			score += 1.0
			matched = append(matched, kw)
		}
	}
	for _, kw := range negativeKeywords {
		if strings.Contains(text, kw) {
			score -= 2.0
		}
	}

	if currencyHintRe.MatchString(text) {
		score += 1.0
	}
	if noteRefHintRe.MatchString(text) {
		score += 0.5
	}
	if periodHintRe.MatchString(text) {
		score += 1.5
		matched = append(matched, "period header")
	}
	if len(amountHintRe.FindAllString(text, 6)) >= 5 {
		score += 1.0
	}

	if score < 0 {
		score = 0
	}
	return score, matched
}
