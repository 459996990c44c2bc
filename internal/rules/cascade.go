package rules

import (
	"regexp"
	"strings"
)

// cascadeRule is one entry in the built-in pattern table. exclude vetoes a
// hit; it stands in for lookaheads Go's regexp cannot express.
type cascadeRule struct {
	re          *regexp.Regexp
	exclude     *regexp.Regexp
	category    string
	subcategory string
}

func pat(expr string) *regexp.Regexp { return regexp.MustCompile(`(?i)` + expr) }

// cascade is checked top to bottom after the semantic detectors. Rules are
// ordered by specificity: tax refunds before generic refunds, uber eats
// before uber, transfers last since they usually deserve a closer look.
var cascade = []cascadeRule{
	// Income
	{pat(`salary|sal\s+for|payroll|monthly\s*salary`), nil, "Income", "Salary"},
	{pat(`interest\s*(credit|paid|recd|on\s+dep)|int\s+cr|int\.\s*cr|interest\s+earned|savings\s+interest`), nil, "Income", "Interest"},
	{pat(`dividend|div\s+on|div\s+paid`), nil, "Income", "Dividend"},
	{pat(`gst\s*refund|igst\s*refund|cgst\s*refund|sgst\s*refund`), nil, "Taxes", "Tax Refund"},
	{pat(`it\s*refund|income\s*tax\s*refund|refund.*cpc|cpc.*refund|refund.*income\s*tax`), nil, "Taxes", "Tax Refund"},
	{pat(`refund|reversal|cashback`), nil, "Income", "Refund"},
	{pat(`rent\s*(received|recd|credit)|rental\s+income`), nil, "Income", "Rental Income"},

	// Food & dining
	{pat(`swiggy|zomato|uber\s*eats|dunzo\s*food|food\s*panda`), nil, "Food & Dining", "Food Delivery"},
	{pat(`dominos|pizza\s*hut|mcdonalds|burger\s*king|kfc|subway|taco\s*bell|papa\s*johns|wendys`), nil, "Food & Dining", "Restaurant"},
	{pat(`starbucks|cafe\s*coffee\s*day|\bccd\b|barista|costa\s*coffee|blue\s*tokai|third\s*wave`), nil, "Food & Dining", "Cafe/Coffee"},

	// Shopping
	{pat(`blinkit|zepto|bigbasket|grofers|jiomart|amazon\s*fresh|instamart|swiggy\s*instamart`), nil, "Shopping", "Groceries"},
	{pat(`dmart|reliance\s*(retail|fresh|smart)|big\s*bazaar|more\s*retail|spencer|star\s*bazaar|spar|nature.*basket`), nil, "Shopping", "Groceries"},
	{pat(`amazon|flipkart|myntra|ajio|nykaa|meesho|snapdeal|tatacliq|shopclues|paytm\s*mall`), nil, "Shopping", "Online Shopping"},
	{pat(`croma|reliance\s*digital|vijay\s*sales|samsung\s*store|apple\s*store|mi\s*store`), nil, "Shopping", "Electronics"},
	{pat(`zara|h&m|uniqlo|pantaloons|lifestyle|westside|max\s*fashion|benetton|levis|pepe\s*jeans`), nil, "Shopping", "Clothing"},

	// Transport
	{pat(`uber|ola\s*cabs|ola\s*money|rapido|meru\s*cabs|mega\s*cabs|tab\s*cab`), pat(`uber\s*eats`), "Transport", "Cab/Taxi"},
	{pat(`petrol|diesel|fuel|hp\s*pay|indian\s*oil|iocl|bpcl|hpcl|shell|essar|reliance\s*petrol`), nil, "Transport", "Fuel"},
	{pat(`irctc|railway|train\s*ticket|indian\s*railways`), nil, "Transport", "Train"},
	{pat(`makemytrip|\bmmt\b|goibibo|cleartrip|yatra|flight|indigo|spicejet|air\s*india|vistara|akasa|jet\s*airways`), nil, "Transport", "Flight"},
	{pat(`metro\s*card|dmrc|bmrc|cmrl|hmrl|nmrc|metro\s*recharge|bus\s*pass|bmtc|best\s*bus`), nil, "Transport", "Public Transport"},

	// Bills & utilities
	{pat(`electricity|bescom|tata\s*power|adani\s*(elec|power|gas)|bses|msedcl|dgvcl|pgvcl|torrent\s*power|cesc`), nil, "Bills & Utilities", "Electricity"},
	{pat(`airtel|jio\s|reliance\s*jio|vodafone|vi\s|bsnl|idea\s|mobile\s*recharge|prepaid\s*recharge`), nil, "Bills & Utilities", "Mobile/Internet"},
	{pat(`act\s*fibernet|hathway|tikona|broadband|fiber|wifi|spectra|excitel|you\s*broadband`), nil, "Bills & Utilities", "Mobile/Internet"},
	{pat(`netflix|hotstar|disney|prime\s*video|amazon\s*prime|spotify|youtube\s*premium|apple\s*music|gaana|jio\s*saavn|zee5|sonyliv|voot|alt\s*balaji`), nil, "Entertainment", "OTT Subscriptions"},
	{pat(`subscription|membership|annual\s*plan|monthly\s*plan`), nil, "Bills & Utilities", "Subscriptions"},
	{pat(`rent\s*(paid|payment|transfer|for)|house\s*rent|flat\s*rent|monthly\s*rent|rent\s+to`), nil, "Bills & Utilities", "Rent"},
	{pat(`lpg|indane|hp\s*gas|bharat\s*gas|gas\s*cylinder|piped\s*gas|mahanagar\s*gas|\bigl\b|adani\s*gas`), nil, "Bills & Utilities", "Gas"},
	{pat(`water\s*(bill|charge)|bwssb|water\s*board|water\s*supply`), nil, "Bills & Utilities", "Water"},

	// Investments
	{pat(`mutual\s*fund|mf\s*(purchase|sip|inv)|sip\s*(payment|pur|inv)|systematic\s*inv|kuvera|groww\s*mf|coin\s*by\s*zerodha|\bamc\b|nippon|hdfc\s*mf|icici\s*pru.*mf|sbi\s*mf|axis\s*mf`), nil, "Investments", "Mutual Funds"},
	{pat(`zerodha|groww|upstox|angel\s*(one|broking)|icici\s*direct|hdfc\s*sec|kotak\s*sec|5paisa|paytm\s*money|share\s*khan|motilal\s*oswal|iifl\s*sec`), nil, "Investments", "Stocks"},
	{pat(`\bppf\b|public\s*provident`), nil, "Investments", "PPF"},
	{pat(`\bnps\b|national\s*pension|pfrda|tier\s*[12]`), nil, "Investments", "NPS"},
	{pat(`fd\s*(opening|booking|placement)|fixed\s*deposit|term\s*deposit|td\s*booking`), nil, "Investments", "Fixed Deposit"},

	// Insurance
	{pat(`\blic\b|life\s*insurance|hdfc\s*life|icici\s*pru.*life|sbi\s*life|max\s*life|bajaj\s*(allianz\s*)?life|tata\s*aia|kotak\s*life|edelweiss\s*tokio`), nil, "Insurance", "Life Insurance"},
	{pat(`health\s*insurance|mediclaim|star\s*health|care\s*health|niva\s*bupa|max\s*bupa|hdfc\s*ergo.*health|icici\s*lombard.*health|aditya\s*birla\s*health`), nil, "Insurance", "Health Insurance"},
	{pat(`vehicle\s*insurance|motor\s*insurance|car\s*insurance|bike\s*insurance|two\s*wheeler\s*insurance|acko|digit|policy\s*bazaar`), nil, "Insurance", "Vehicle Insurance"},

	// Taxes
	{pat(`gst\s*(payment|challan|pmt|deposit)|cgst|sgst|igst|gst\s*portal`), nil, "Taxes", "GST Payment"},
	{pat(`advance\s*tax|self\s*assessment\s*tax|income\s*tax\s*(pmt|payment)|it\s*payment|challan\s*280|challan\s*281`), nil, "Taxes", "Income Tax"},
	{pat(`tds\s*(payment|deposit|challan)`), nil, "Taxes", "TDS"},
	{pat(`professional\s*tax|pt\s*payment|p\s*tax`), nil, "Taxes", "Professional Tax"},

	// Healthcare
	{pat(`hospital|apollo|fortis|max\s*healthcare|manipal|narayana|medanta|aiims|aster|columbia\s*asia`), nil, "Healthcare", "Hospital"},
	{pat(`pharmacy|pharmeasy|netmeds|1mg|medplus|apollo\s*pharmacy|medlife|wellness\s*forever`), nil, "Healthcare", "Pharmacy"},
	{pat(`\bdr\b\.?|doctor|consultation|diagnostic|\blab\b|thyrocare|lal\s*path|metropolis|\bsrl\b|practo`), nil, "Healthcare", "Doctor/Consultation"},

	// Education
	{pat(`udemy|coursera|unacademy|byju|whitehat|upgrad|simplilearn|great\s*learning|edureka|skillshare`), nil, "Education", "Online Courses"},
	{pat(`school|college|university|institute|academy|fees|tuition|education`), nil, "Education", "School/College Fees"},

	// Entertainment
	{pat(`pvr|inox|cinepolis|bookmyshow|movie|cinema|multiplex`), nil, "Entertainment", "Movies"},
	{pat(`steam|playstation|xbox|gaming|pubg|\bcod\b|mobile\s*game|google\s*play\s*game`), nil, "Entertainment", "Gaming"},
	{pat(`event|concert|show|ticket|paytm\s*insider|insider`), nil, "Entertainment", "Events"},

	// Cash & bank charges
	{pat(`atm\s*(wdl|withdrawal|w/d|wd)|cash\s*withdrawal|nfs\s*(wdl|wd)|atm\s*cash|cash\s*at\s*atm`), nil, "Cash", "ATM Withdrawal"},
	{pat(`cash\s*deposit|cdm\s*deposit|cash\s*dep`), nil, "Cash", "Cash Deposit"},
	{pat(`(service|maintenance|account)\s*charge|sms\s*charge|annual\s*fee|yearly\s*fee|debit\s*card\s*fee`), nil, "Bank Charges", "Service Charges"},
	{pat(`(insufficient|bounce|return|penalty)\s*charge|ecs\s*return|nach\s*return|cheque\s*bounce|min\s*bal`), nil, "Bank Charges", "Penalties"},
	{pat(`interest\s*(debit|paid|charged)|int\s+dr|int\.\s*dr|loan\s*emi|emi\s*payment|home\s*loan|car\s*loan|personal\s*loan`), nil, "Bank Charges", "Interest Paid"},

	// Transfers, lowest priority
	{pat(`self\s*transfer|transfer\s*to\s*self|own\s*account|between\s*accounts`), nil, "Transfer", "Self Transfer"},
	{pat(`neft|rtgs|imps`), nil, "Transfer", "Bank Transfer"},
	{pat(`upi`), nil, "Transfer", "Bank Transfer"},
	{pat(`fund\s*transfer|bank\s*transfer`), nil, "Transfer", "Bank Transfer"},

	// Business expenses
	{pat(`vendor|supplier|professional\s*fee|consultant|legal\s*fee|audit\s*fee`), nil, "Business Expense", "Professional Services"},
	{pat(`office\s*supplies|stationery|printing`), nil, "Business Expense", "Office Supplies"},
}

// matchCascade checks the description against the built-in pattern table
// and returns the first hit.
func matchCascade(description string) *Match {
	desc := strings.Join(strings.Fields(strings.ToLower(description)), " ")
	if desc == "" {
		return nil
	}

	for _, rule := range cascade {
		if !rule.re.MatchString(desc) {
			continue
		}
		if rule.exclude != nil && rule.exclude.MatchString(desc) {
			continue
		}
		return &Match{
			Category:    rule.category,
			Subcategory: rule.subcategory,
			Confidence:  Confidence,
			Rule:        "pattern:" + rule.subcategory,
			Reason:      "Built-in pattern",
		}
	}
	return nil
}
