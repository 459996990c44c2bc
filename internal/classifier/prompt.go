package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/banksort-dev/banksort/internal/categorize"
	"github.com/banksort-dev/banksort/internal/model"
)

// buildPrompt renders the batch and the category taxonomy into one request.
// The model must answer with a JSON array in batch order.
func buildPrompt(batch []categorize.Input) string {
	var b strings.Builder

	b.WriteString("Categorize these Indian bank transactions into the given categories.\n\n")
	b.WriteString("Transactions:\n")
	for i, in := range batch {
		kind := "income/credit"
		if in.IsDebit {
			kind = "expense/debit"
		}
		fmt.Fprintf(&b, "%d. %q (%s", i+1, in.Description, kind)
		if in.Amount.Valid {
			fmt.Fprintf(&b, ", amount: %s", in.Amount.Decimal.StringFixed(2))
		}
		b.WriteString(")\n")
	}

	b.WriteString("\nAvailable categories:\n")
	b.WriteString(model.CategoryPromptList())
	b.WriteString("\n\n")
	b.WriteString("Respond with ONLY a JSON array, one object per transaction in the same order:\n")
	b.WriteString(`[{"category": "CategoryName", "subcategory": "SubcategoryName", "confidence": 0.85}]` + "\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- confidence is between 0.0 and 1.0\n")
	b.WriteString("- use lower confidence (0.5-0.7) when the description is ambiguous\n")
	b.WriteString("- use \"Other\" > \"Uncategorized\" with low confidence when you cannot tell\n")
	b.WriteString("- match category and subcategory names EXACTLY as listed\n")
	b.WriteString("- output raw JSON only, no code fences, no extra text\n")
	return b.String()
}

type rawResult struct {
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Confidence  float64 `json:"confidence"`
}

// parseResponse decodes the model answer into one result per input. A short
// answer leaves the tail nil; a longer one is truncated.
func parseResponse(text string, want int) ([]*categorize.Result, error) {
	clean := stripFences(text)

	var raw []rawResult
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		return nil, fmt.Errorf("parsing classifier response: %w", err)
	}

	results := make([]*categorize.Result, want)
	for i := 0; i < want && i < len(raw); i++ {
		r := raw[i]
		if r.Category == "" {
			continue
		}
		results[i] = &categorize.Result{
			Category:    r.Category,
			Subcategory: orUncategorized(r.Subcategory),
			Confidence:  clamp(r.Confidence),
		}
	}
	return results, nil
}

// stripFences removes markdown fences and surrounding prose, keeping the
// outermost JSON array.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}

func orUncategorized(s string) string {
	if s == "" {
		return "Uncategorized"
	}
	return s
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
