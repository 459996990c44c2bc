package profile

import (
	"regexp"
	"strings"

	"github.com/banksort-dev/banksort/internal/amount"
	"github.com/banksort-dev/banksort/internal/dates"
)

// Registry holds the known bank profiles plus the generic fallback.
// Construct one with NewRegistry; there is no package-level instance.
type Registry struct {
	profiles []Profile
	generic  Profile
}

// NewRegistry builds a registry with the built-in bank profiles.
func NewRegistry() *Registry {
	return &Registry{profiles: builtinProfiles(), generic: genericProfile()}
}

// Generic returns the fallback profile used when no bank matches.
func (r *Registry) Generic() Profile { return r.generic }

// Profiles returns the registered profiles in registration order.
func (r *Registry) Profiles() []Profile {
	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// Lookup resolves a bank name or alias to its profile, falling back to the
// generic profile when nothing matches.
func (r *Registry) Lookup(name string) Profile {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return r.generic
	}
	for _, p := range r.profiles {
		if strings.ToLower(p.Name) == want {
			return p
		}
	}
	for _, p := range r.profiles {
		if p.matches(want) {
			return p
		}
	}
	return r.generic
}

// Detect scores every profile against sampled statement content plus the
// filename: a full-name hit scores 10, each alias hit 5. The best-scoring
// profile wins; zero everywhere returns the generic profile.
func (r *Registry) Detect(content, filename string) Profile {
	search := strings.ToLower(content)
	if filename != "" {
		search += " " + strings.ToLower(filename)
	}

	best := r.generic
	bestScore := 0
	for _, p := range r.profiles {
		score := 0
		if strings.Contains(search, strings.ToLower(p.Name)) {
			score += 10
		}
		for _, alias := range p.Aliases {
			if strings.Contains(search, strings.ToLower(alias)) {
				score += 5
			}
		}
		if score > bestScore {
			bestScore = score
			best = p
		}
	}
	return best
}

// DetectRows runs Detect over the first 20 rows of tabular input.
func (r *Registry) DetectRows(rows [][]string, filename string) Profile {
	var parts []string
	for i, row := range rows {
		if i >= 20 {
			break
		}
		parts = append(parts, row...)
	}
	return r.Detect(strings.Join(parts, " "), filename)
}

func (p Profile) matches(identifier string) bool {
	if strings.Contains(identifier, strings.ToLower(p.Name)) {
		return true
	}
	for _, alias := range p.Aliases {
		if strings.Contains(identifier, strings.ToLower(alias)) {
			return true
		}
	}
	return false
}

func indianDefaults(p Profile) Profile {
	p.DateOrder = dates.DayFirst
	p.Grouping = amount.GroupLakh
	p.Currency = "INR"
	p.SeparateDebitCredit = true
	p.HasBalance = true
	p.PagePatterns = defaultPagePatterns[:2]
	p.CreditIndicators = []string{
		"cr", "credit", "neft cr", "salary", "refund", "interest",
		"dividend", "by transfer", "by clearing", "deposit",
	}
	p.DebitIndicators = []string{
		"dr", "debit", "neft dr", "withdrawal", "emi", "payment",
		"to transfer", "to clearing", "purchase",
	}
	return p
}

func usDefaults(p Profile) Profile {
	p.DateOrder = dates.MonthFirst
	p.Grouping = amount.GroupThousand
	p.Currency = "USD"
	p.SeparateDebitCredit = false
	p.HasBalance = true
	p.Columns = ColumnKeywords{
		Date:        []string{"date", "transaction date", "post date", "posted"},
		Description: []string{"description", "memo", "details", "transaction"},
		Amount:      []string{"amount", "transaction amount"},
		Balance:     []string{"balance", "running balance"},
	}
	p.SkipPhrases = []string{"beginning balance", "ending balance", "total"}
	return p
}

func builtinProfiles() []Profile {
	return []Profile{
		func() Profile {
			p := indianDefaults(Profile{
				Name:    "Canara Bank",
				Aliases: []string{"canara", "canarabank", "canara bank ltd"},
			})
			p.MultiRow = true
			p.TxnStart = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}\s+\d{2}:\d{2}`)
			p.FieldOrder = []string{
				"txn_datetime", "value_date", "cheque_no", "description",
				"branch_code", "amount", "balance",
			}
			return p
		}(),
		func() Profile {
			p := indianDefaults(Profile{
				Name:    "HDFC Bank",
				Aliases: []string{"hdfc", "hdfcbank", "hdfc ltd"},
			})
			p.Columns = ColumnKeywords{
				Date:        []string{"date", "value dt", "txn date"},
				Description: []string{"narration", "description", "particulars"},
				Debit:       []string{"withdrawal amt", "debit"},
				Credit:      []string{"deposit amt", "credit"},
				Balance:     []string{"closing balance", "balance"},
			}
			return p
		}(),
		func() Profile {
			p := indianDefaults(Profile{
				Name:    "ICICI Bank",
				Aliases: []string{"icici", "icicibank"},
			})
			p.Columns = ColumnKeywords{
				Date:        []string{"transaction date", "value date", "date"},
				Description: []string{"transaction remarks", "particulars", "description"},
				Debit:       []string{"withdrawal amount", "debit"},
				Credit:      []string{"deposit amount", "credit"},
				Balance:     []string{"balance"},
			}
			return p
		}(),
		func() Profile {
			p := indianDefaults(Profile{
				Name:    "State Bank of India",
				Aliases: []string{"sbi", "state bank", "sbibank"},
			})
			p.Columns = ColumnKeywords{
				Date:        []string{"txn date", "value date", "date"},
				Description: []string{"description", "narration"},
				Debit:       []string{"debit", "withdrawal"},
				Credit:      []string{"credit", "deposit"},
				Balance:     []string{"balance"},
			}
			return p
		}(),
		indianDefaults(Profile{Name: "Axis Bank", Aliases: []string{"axis", "axisbank"}}),
		indianDefaults(Profile{Name: "Kotak Mahindra Bank", Aliases: []string{"kotak", "kotakbank", "kotak mahindra"}}),
		usDefaults(Profile{Name: "JPMorgan Chase", Aliases: []string{"chase", "jp morgan", "jpmorgan"}}),
		usDefaults(Profile{Name: "Wells Fargo", Aliases: []string{"wellsfargo", "wells"}}),
		usDefaults(Profile{Name: "Bank of America", Aliases: []string{"boa", "bofa", "bank of america"}}),
		usDefaults(Profile{Name: "Citibank", Aliases: []string{"citi", "citibank"}}),
		{
			Name:                "Barclays",
			Aliases:             []string{"barclays bank"},
			DateOrder:           dates.DayFirst,
			Grouping:            amount.GroupThousand,
			Currency:            "GBP",
			SeparateDebitCredit: false,
			HasBalance:          true,
		},
		{
			Name:                "HSBC",
			Aliases:             []string{"hsbc bank", "hongkong shanghai"},
			DateOrder:           dates.DayFirst,
			Grouping:            amount.GroupThousand,
			Currency:            "GBP",
			SeparateDebitCredit: true,
			HasBalance:          true,
		},
	}
}

func genericProfile() Profile {
	return Profile{
		Name:                "Generic",
		DateOrder:           dates.DayFirst,
		Grouping:            amount.GroupThousand,
		Currency:            "INR",
		SeparateDebitCredit: true,
		HasBalance:          true,
		PagePatterns:        defaultPagePatterns,
		CreditIndicators: []string{
			"cr", "credit", "neft cr", "salary", "refund", "interest",
			"dividend", "deposit", "received", "by",
		},
		DebitIndicators: []string{
			"dr", "debit", "neft dr", "withdrawal", "emi", "payment",
			"purchase", "to", "paid",
		},
	}
}
