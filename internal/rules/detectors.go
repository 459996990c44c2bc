package rules

import (
	"strings"

	"github.com/shopspring/decimal"
)

// detector is one built-in semantic rule. Detectors run in declaration
// order; earlier entries shadow later ones, so more specific intents
// (salary, refunds) sit above catch-alls like transfers.
type detector struct {
	name string
	fn   func(e *Engine, description string, amount decimal.NullDecimal, isCredit bool) *Match
}

func builtinDetectors() []detector {
	return []detector{
		{"salary_detection", (*Engine).detectSalary},
		{"interest_income", (*Engine).detectInterest},
		{"refund_detection", (*Engine).detectRefund},
		{"food_delivery", (*Engine).detectFoodDelivery},
		{"groceries", (*Engine).detectGroceries},
		{"online_shopping", (*Engine).detectOnlineShopping},
		{"cab_taxi", (*Engine).detectCabTaxi},
		{"fuel", (*Engine).detectFuel},
		{"utilities", (*Engine).detectUtilities},
		{"subscriptions", (*Engine).detectSubscriptions},
		{"investments", (*Engine).detectInvestments},
		{"insurance", (*Engine).detectInsurance},
		{"healthcare", (*Engine).detectHealthcare},
		{"education", (*Engine).detectEducation},
		{"atm_cash", (*Engine).detectATMCash},
		{"bank_charges", (*Engine).detectBankCharges},
		{"loan_emi", (*Engine).detectLoanEMI},
		{"tax_payment", (*Engine).detectTaxPayment},
		{"transfer", (*Engine).detectTransfer},
	}
}

func ruleHit(category, subcategory string, confidence float64, rule, keyword string) *Match {
	return &Match{
		Category:    category,
		Subcategory: subcategory,
		Confidence:  confidence,
		Rule:        rule,
		Reason:      "Matched keyword: " + keyword,
	}
}

func (e *Engine) detectSalary(description string, _ decimal.NullDecimal, isCredit bool) *Match {
	if !isCredit {
		return nil
	}
	keywords := []string{
		"salary", "sal for", "payroll", "monthly salary", "wages",
		"compensation", "pay from employer", "annual salary",
	}
	keywords = append(keywords, e.groups["salary_indicators"]...)

	if ok, kw := e.matcher.MatchAny(description, keywords); ok {
		return ruleHit("Income", "Salary", Confidence, "salary_detection", kw)
	}
	return nil
}

func (e *Engine) detectInterest(description string, _ decimal.NullDecimal, isCredit bool) *Match {
	if !isCredit {
		return nil
	}
	keywords := []string{
		"interest credit", "interest paid", "interest recd",
		"int cr", "interest earned", "savings interest",
		"fd interest", "deposit interest",
	}
	if ok, kw := e.matcher.MatchAny(description, keywords); ok {
		return ruleHit("Income", "Interest", Confidence, "interest_income", kw)
	}
	return nil
}

func (e *Engine) detectRefund(description string, _ decimal.NullDecimal, isCredit bool) *Match {
	if !isCredit {
		return nil
	}

	// Tax refunds first, they are more specific.
	taxRefund := []string{
		"gst refund", "igst refund", "cgst refund", "sgst refund",
		"it refund", "income tax refund", "tds refund", "refund cpc",
	}
	if ok, kw := e.matcher.MatchAny(description, taxRefund); ok {
		return ruleHit("Taxes", "Tax Refund", Confidence, "tax_refund", kw)
	}

	refund := []string{"refund", "reversal", "cashback", "cash back"}
	if ok, kw := e.matcher.MatchAny(description, refund); ok {
		return ruleHit("Income", "Refund", 0.90, "refund_detection", kw)
	}
	return nil
}

func (e *Engine) detectFoodDelivery(description string, _ decimal.NullDecimal, _ bool) *Match {
	keywords := e.groupOr("food_delivery", []string{
		"swiggy", "zomato", "uber eats", "dunzo", "food panda",
	})

	// Plain uber is a cab, not uber eats.
	lower := strings.ToLower(description)
	if strings.Contains(lower, "uber") && !strings.Contains(lower, "eats") {
		return nil
	}

	if ok, kw := e.matcher.MatchAny(description, keywords); ok {
		return ruleHit("Food & Dining", "Food Delivery", Confidence, "food_delivery", kw)
	}

	restaurants := []string{
		"dominos", "pizza hut", "mcdonalds", "burger king", "kfc",
		"subway", "taco bell", "papa johns", "wendys", "starbucks",
		"cafe coffee day", "ccd", "barista", "restaurant",
	}
	if ok, kw := e.matcher.MatchAny(description, restaurants); ok {
		return ruleHit("Food & Dining", "Restaurant", Confidence, "restaurant", kw)
	}
	return nil
}

func (e *Engine) detectGroceries(description string, _ decimal.NullDecimal, _ bool) *Match {
	keywords := e.groupOr("groceries", []string{
		"blinkit", "zepto", "bigbasket", "grofers", "jiomart",
		"amazon fresh", "instamart", "dmart", "reliance fresh",
		"big bazaar", "spencer", "more retail",
	})
	if ok, kw := e.matcher.MatchAny(description, keywords); ok {
		return ruleHit("Shopping", "Groceries", Confidence, "groceries", kw)
	}
	return nil
}

func (e *Engine) detectOnlineShopping(description string, _ decimal.NullDecimal, _ bool) *Match {
	keywords := e.groupOr("online_shopping", []string{
		"amazon", "flipkart", "myntra", "ajio", "nykaa",
		"meesho", "snapdeal", "tatacliq",
	})

	// Amazon Fresh is groceries, not shopping.
	lower := strings.ToLower(description)
	if strings.Contains(lower, "amazon") && strings.Contains(lower, "fresh") {
		return nil
	}

	if ok, kw := e.matcher.MatchAny(description, keywords); ok {
		// Marketplaces sell everything, so slightly lower confidence.
		return ruleHit("Shopping", "Online Shopping", 0.90, "online_shopping", kw)
	}

	electronics := []string{
		"croma", "reliance digital", "vijay sales", "samsung store",
		"apple store", "mi store",
	}
	if ok, kw := e.matcher.MatchAny(description, electronics); ok {
		return ruleHit("Shopping", "Electronics", Confidence, "electronics", kw)
	}
	return nil
}

func (e *Engine) detectCabTaxi(description string, _ decimal.NullDecimal, _ bool) *Match {
	keywords := e.groupOr("cab_services", []string{
		"uber", "ola cabs", "ola money", "rapido", "meru", "lyft",
	})

	lower := strings.ToLower(description)
	if strings.Contains(lower, "uber") && strings.Contains(lower, "eats") {
		return nil
	}

	if ok, kw := e.matcher.MatchAny(description, keywords, "eats", "food"); ok {
		return ruleHit("Transport", "Cab/Taxi", Confidence, "cab_taxi", kw)
	}
	return nil
}

func (e *Engine) detectFuel(description string, _ decimal.NullDecimal, _ bool) *Match {
	keywords := e.groupOr("fuel", []string{
		"petrol", "diesel", "fuel", "hp pay", "indian oil",
		"iocl", "bpcl", "hpcl", "shell", "essar",
	})
	if ok, kw := e.matcher.MatchAny(description, keywords); ok {
		return ruleHit("Transport", "Fuel", Confidence, "fuel", kw)
	}

	travel := []string{
		"irctc", "railway", "train ticket", "indian railways",
		"makemytrip", "mmt", "goibibo", "cleartrip", "yatra",
		"flight", "indigo", "spicejet", "air india", "vistara",
	}
	if ok, kw := e.matcher.MatchAny(description, travel); ok {
		sub := "Flight"
		lower := strings.ToLower(description)
		for _, t := range []string{"irctc", "railway", "train"} {
			if strings.Contains(lower, t) {
				sub = "Train"
				break
			}
		}
		return ruleHit("Transport", sub, Confidence, "travel", kw)
	}
	return nil
}

func (e *Engine) detectUtilities(description string, _ decimal.NullDecimal, _ bool) *Match {
	utilities := e.groupOr("utilities", []string{
		"electricity", "bescom", "tata power", "adani", "bses",
		"water bill", "gas bill", "lpg", "indane",
	})
	if ok, kw := e.matcher.MatchAny(description, utilities); ok {
		lower := strings.ToLower(description)
		sub := "Other Bills"
		switch {
		case containsAny(lower, "electricity", "bescom", "power", "bses"):
			sub = "Electricity"
		case strings.Contains(lower, "water"):
			sub = "Water"
		case containsAny(lower, "lpg", "gas", "indane", "bharat gas"):
			sub = "Gas"
		}
		return ruleHit("Bills & Utilities", sub, Confidence, "utilities", kw)
	}

	telecom := e.groupOr("telecom", []string{
		"airtel", "jio", "vodafone", "bsnl", "idea", "mobile recharge",
	})
	if ok, kw := e.matcher.MatchAny(description, telecom); ok {
		return ruleHit("Bills & Utilities", "Mobile/Internet", Confidence, "telecom", kw)
	}

	rent := []string{
		"rent paid", "rent payment", "rent transfer", "house rent",
		"flat rent", "monthly rent", "rent to", "rent for",
	}
	if ok, kw := e.matcher.MatchAny(description, rent); ok {
		return ruleHit("Bills & Utilities", "Rent", 0.90, "rent", kw)
	}
	return nil
}

func (e *Engine) detectSubscriptions(description string, _ decimal.NullDecimal, _ bool) *Match {
	streaming := e.groupOr("streaming", []string{
		"netflix", "hotstar", "disney", "amazon prime", "prime video",
		"spotify", "youtube premium", "apple music",
	})
	if ok, kw := e.matcher.MatchAny(description, streaming); ok {
		return ruleHit("Entertainment", "OTT Subscriptions", Confidence, "streaming", kw)
	}

	generic := []string{"subscription", "membership", "annual plan", "monthly plan"}
	if ok, kw := e.matcher.MatchAny(description, generic); ok {
		return ruleHit("Bills & Utilities", "Subscriptions", 0.85, "subscription", kw)
	}
	return nil
}

func (e *Engine) detectInvestments(description string, _ decimal.NullDecimal, _ bool) *Match {
	mf := []string{
		"mutual fund", "mf purchase", "mf sip", "sip payment",
		"systematic inv", "kuvera", "groww mf", "coin by zerodha",
		"hdfc mf", "icici pru mf", "sbi mf", "axis mf", "nippon",
	}
	if ok, kw := e.matcher.MatchAny(description, mf); ok {
		return ruleHit("Investments", "Mutual Funds", Confidence, "mutual_funds", kw)
	}

	brokers := e.groupOr("investment_platforms", []string{
		"zerodha", "groww", "upstox", "angel one", "icici direct",
		"hdfc sec", "kotak sec", "5paisa", "paytm money",
	})
	if ok, kw := e.matcher.MatchAny(description, brokers); ok {
		// Could be mutual funds routed through a broker.
		return ruleHit("Investments", "Stocks", 0.90, "stocks", kw)
	}

	ppfNPS := []string{"ppf", "public provident", "nps", "national pension", "pfrda"}
	if ok, kw := e.matcher.MatchAny(description, ppfNPS); ok {
		sub := "NPS"
		if strings.Contains(strings.ToLower(description), "ppf") {
			sub = "PPF"
		}
		return ruleHit("Investments", sub, Confidence, "ppf_nps", kw)
	}

	fd := []string{"fd opening", "fd booking", "fixed deposit", "term deposit"}
	if ok, kw := e.matcher.MatchAny(description, fd); ok {
		return ruleHit("Investments", "Fixed Deposit", Confidence, "fd", kw)
	}
	return nil
}

func (e *Engine) detectInsurance(description string, _ decimal.NullDecimal, _ bool) *Match {
	keywords := e.groupOr("insurance", []string{
		"lic", "life insurance", "hdfc life", "icici prudential",
		"sbi life", "max life", "star health", "care health",
	})
	if ok, kw := e.matcher.MatchAny(description, keywords); ok {
		lower := strings.ToLower(description)
		sub := "Life Insurance"
		switch {
		case containsAny(lower, "health", "mediclaim", "bupa"):
			sub = "Health Insurance"
		case containsAny(lower, "vehicle", "motor", "car", "bike", "acko", "digit"):
			sub = "Vehicle Insurance"
		}
		return ruleHit("Insurance", sub, Confidence, "insurance", kw)
	}
	return nil
}

func (e *Engine) detectHealthcare(description string, _ decimal.NullDecimal, _ bool) *Match {
	hospitals := []string{
		"hospital", "apollo", "fortis", "max healthcare", "manipal",
		"narayana", "medanta", "aiims", "aster",
	}
	if ok, kw := e.matcher.MatchAny(description, hospitals); ok {
		return ruleHit("Healthcare", "Hospital", Confidence, "hospital", kw)
	}

	pharmacies := []string{
		"pharmacy", "pharmeasy", "netmeds", "1mg", "medplus",
		"apollo pharmacy", "medlife",
	}
	if ok, kw := e.matcher.MatchAny(description, pharmacies); ok {
		return ruleHit("Healthcare", "Pharmacy", Confidence, "pharmacy", kw)
	}

	doctors := []string{
		"dr ", "dr.", "doctor", "consultation", "diagnostic",
		"lab", "thyrocare", "lal path", "metropolis", "practo",
	}
	if ok, kw := e.matcher.MatchAny(description, doctors); ok {
		// "dr" is short enough to collide with other words.
		return ruleHit("Healthcare", "Doctor/Consultation", 0.90, "doctor", kw)
	}
	return nil
}

func (e *Engine) detectEducation(description string, _ decimal.NullDecimal, _ bool) *Match {
	courses := []string{
		"udemy", "coursera", "unacademy", "byju", "whitehat",
		"upgrad", "simplilearn", "great learning", "edureka", "skillshare",
	}
	if ok, kw := e.matcher.MatchAny(description, courses); ok {
		return ruleHit("Education", "Online Courses", Confidence, "online_courses", kw)
	}

	schools := []string{
		"school", "college", "university", "institute", "academy",
		"fees", "tuition", "education",
	}
	if ok, kw := e.matcher.MatchAny(description, schools); ok {
		return ruleHit("Education", "School/College Fees", 0.85, "education", kw)
	}
	return nil
}

func (e *Engine) detectATMCash(description string, _ decimal.NullDecimal, _ bool) *Match {
	atm := []string{
		"atm wdl", "atm withdrawal", "atm w/d", "atm wd",
		"cash withdrawal", "nfs wdl", "nfs wd", "atm cash",
		"cash at atm",
	}
	if ok, kw := e.matcher.MatchAny(description, atm); ok {
		return ruleHit("Cash", "ATM Withdrawal", Confidence, "atm", kw)
	}

	deposits := []string{"cash deposit", "cdm deposit", "cash dep"}
	if ok, kw := e.matcher.MatchAny(description, deposits); ok {
		return ruleHit("Cash", "Cash Deposit", Confidence, "cash_deposit", kw)
	}
	return nil
}

func (e *Engine) detectBankCharges(description string, _ decimal.NullDecimal, _ bool) *Match {
	charges := []string{
		"service charge", "maintenance charge", "account charge",
		"sms charge", "annual fee", "yearly fee", "debit card fee",
	}
	if ok, kw := e.matcher.MatchAny(description, charges); ok {
		return ruleHit("Bank Charges", "Service Charges", Confidence, "service_charge", kw)
	}

	penalties := []string{
		"insufficient charge", "bounce charge", "return charge",
		"penalty charge", "ecs return", "nach return", "cheque bounce",
		"min bal", "minimum balance",
	}
	if ok, kw := e.matcher.MatchAny(description, penalties); ok {
		return ruleHit("Bank Charges", "Penalties", Confidence, "penalty", kw)
	}
	return nil
}

func (e *Engine) detectLoanEMI(description string, _ decimal.NullDecimal, _ bool) *Match {
	keywords := []string{
		"loan emi", "emi payment", "home loan", "car loan",
		"personal loan", "education loan", "interest debit",
		"interest paid", "interest charged", "int dr",
	}
	if ok, kw := e.matcher.MatchAny(description, keywords); ok {
		return ruleHit("Bank Charges", "Interest Paid", Confidence, "loan_emi", kw)
	}
	return nil
}

func (e *Engine) detectTaxPayment(description string, _ decimal.NullDecimal, _ bool) *Match {
	gst := []string{
		"gst payment", "gst challan", "gst pmt", "gst deposit",
		"cgst", "sgst", "igst", "gst portal",
	}
	if ok, kw := e.matcher.MatchAny(description, gst); ok {
		return ruleHit("Taxes", "GST Payment", Confidence, "gst", kw)
	}

	incomeTax := []string{
		"advance tax", "self assessment tax", "income tax pmt",
		"income tax payment", "it payment", "challan 280", "challan 281",
	}
	if ok, kw := e.matcher.MatchAny(description, incomeTax); ok {
		return ruleHit("Taxes", "Income Tax", Confidence, "income_tax", kw)
	}

	tds := []string{"tds payment", "tds deposit", "tds challan"}
	if ok, kw := e.matcher.MatchAny(description, tds); ok {
		return ruleHit("Taxes", "TDS", Confidence, "tds", kw)
	}

	pt := []string{"professional tax", "pt payment", "p tax"}
	if ok, kw := e.matcher.MatchAny(description, pt); ok {
		return ruleHit("Taxes", "Professional Tax", Confidence, "professional_tax", kw)
	}
	return nil
}

func (e *Engine) detectTransfer(description string, _ decimal.NullDecimal, _ bool) *Match {
	selfTransfer := []string{
		"self transfer", "transfer to self", "own account",
		"between accounts",
	}
	if ok, kw := e.matcher.MatchAny(description, selfTransfer); ok {
		return ruleHit("Transfer", "Self Transfer", 0.90, "self_transfer", kw)
	}

	transfers := e.groupOr("transfer_indicators", []string{
		"neft", "rtgs", "imps", "upi", "fund transfer", "bank transfer",
	})
	if ok, kw := e.matcher.MatchAny(description, transfers); ok {
		// A transfer mentioning salary, rent, or a loan belongs to a more
		// specific category, so stand down.
		lower := strings.ToLower(description)
		for _, hint := range []string{
			"salary", "payroll", "wages", "rent", "emi", "loan", "vendor", "supplier",
		} {
			if strings.Contains(lower, hint) {
				return nil
			}
		}
		return ruleHit("Transfer", "Bank Transfer", 0.75, "transfer", kw)
	}
	return nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
