package model

import (
	"fmt"
	"strings"
)

// Category names used across rules, the classifier prompt, and reports.
const (
	CategoryReview    = "Review Required"
	SubcategoryReview = "Manual Review Needed"
)

// CategoryGroup is one top-level category with its subcategories.
type CategoryGroup struct {
	Name          string
	Subcategories []string
}

// Categories is the taxonomy every categorization result must come from.
// Order is the presentation order used in reports and prompts.
var Categories = []CategoryGroup{
	{"Income", []string{"Salary", "Business Income", "Interest", "Dividend", "Refund", "Rental Income", "Other Income"}},
	{"Shopping", []string{"Online Shopping", "Groceries", "Electronics", "Clothing", "Home & Furniture", "Other Shopping"}},
	{"Food & Dining", []string{"Restaurant", "Food Delivery", "Cafe/Coffee", "Other Food"}},
	{"Transport", []string{"Fuel", "Cab/Taxi", "Public Transport", "Flight", "Train", "Other Travel"}},
	{"Bills & Utilities", []string{"Electricity", "Mobile/Internet", "Water", "Gas", "Rent", "Subscriptions", "Other Bills"}},
	{"Investments", []string{"Mutual Funds", "Stocks", "Fixed Deposit", "PPF", "NPS", "Other Investment"}},
	{"Insurance", []string{"Life Insurance", "Health Insurance", "Vehicle Insurance", "Other Insurance"}},
	{"Transfer", []string{"Bank Transfer", "Self Transfer", "Family Transfer"}},
	{"Healthcare", []string{"Hospital", "Pharmacy", "Doctor/Consultation", "Lab Tests"}},
	{"Education", []string{"School/College Fees", "Books", "Online Courses"}},
	{"Entertainment", []string{"Movies", "Events", "Gaming", "OTT Subscriptions"}},
	{"Taxes", []string{"GST Payment", "Income Tax", "TDS", "Professional Tax", "Tax Refund"}},
	{"Business Expense", []string{"Vendor Payment", "Professional Services", "Office Supplies"}},
	{"Cash", []string{"ATM Withdrawal", "Cash Deposit"}},
	{"Bank Charges", []string{"Service Charges", "Penalties", "Interest Paid"}},
	{"Other", []string{"Uncategorized"}},
	{CategoryReview, []string{SubcategoryReview}},
}

// CategoryPromptList renders the taxonomy for the classifier prompt,
// omitting the review bucket which is never a valid answer.
func CategoryPromptList() string {
	var b strings.Builder
	for _, g := range Categories {
		if g.Name == CategoryReview {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", g.Name, strings.Join(g.Subcategories, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}
