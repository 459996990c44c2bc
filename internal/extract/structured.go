package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/banksort-dev/banksort/internal/amount"
	"github.com/banksort-dev/banksort/internal/dates"
	"github.com/banksort-dev/banksort/internal/model"
	"github.com/banksort-dev/banksort/internal/profile"
)

// The structured CSV variant comes from OCR/table-extraction tools that
// pre-classify each row with a type column: "table" rows carry one
// pipe-delimited statement line, "text" rows carry free-form fragments with
// transactions fenced between ### delimiter lines. Field order inside a
// text block is not guaranteed, so fields are classified purely by shape.

// structuredLayout locates the type/content columns and the role mapping
// recovered from the pipe-delimited table header.
type structuredLayout struct {
	typeCol    int
	contentCol int
	fields     map[string]int // role -> pipe-field index
}

var datetimePrefixRe = regexp.MustCompile(`^(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})\s+\d{1,2}:\d{2}`)

var structuredRowTypes = map[string]bool{
	"text": true, "table": true, "section_header": true, "page_header": true,
}

// detectStructured checks whether rows use the typed-row format: a "type"
// header column whose values include the known row types.
func detectStructured(rows [][]string) (structuredLayout, bool) {
	if len(rows) < 2 {
		return structuredLayout{}, false
	}

	layout := structuredLayout{typeCol: -1, contentCol: -1}
	for idx, name := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "type":
			layout.typeCol = idx
		case "content", "text":
			layout.contentCol = idx
		}
	}
	if layout.typeCol < 0 {
		return structuredLayout{}, false
	}
	if layout.contentCol < 0 {
		layout.contentCol = len(rows[0]) - 1
	}

	for i, row := range rows[1:] {
		if i >= headerScanRows {
			break
		}
		if structuredRowTypes[strings.ToLower(cell(row, layout.typeCol))] {
			return layout, true
		}
	}
	return structuredLayout{}, false
}

// tableHeaderFields maps roles to field positions in a pipe-delimited
// header line, first match wins per role.
func tableHeaderFields(header string, prof profile.Profile) map[string]int {
	fields := strings.Split(header, "|")
	mapping := make(map[string]int)
	assign := func(role string, idx int, keywords []string, text string) {
		if _, ok := mapping[role]; !ok && MatchesKeyword(text, keywords) {
			mapping[role] = idx
		}
	}
	for idx, f := range fields {
		text := strings.ToLower(strings.TrimSpace(f))
		assign("date", idx, prof.DateKeywords(), text)
		assign("description", idx, prof.DescriptionKeywords(), text)
		assign("debit", idx, prof.DebitKeywords(), text)
		assign("credit", idx, prof.CreditKeywords(), text)
		assign("balance", idx, prof.BalanceKeywords(), text)
	}
	return mapping
}

func looksLikeTableHeader(content string) bool {
	text := strings.ToLower(content)
	for _, kw := range []string{"date", "description", "debit", "credit", "balance"} {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// extractStructured walks typed rows, parsing pipe-delimited table rows
// positionally and delimited text blocks by field shape.
func extractStructured(rows [][]string, layout structuredLayout, prof profile.Profile) (*Result, error) {
	var txns []*model.Transaction

	var blockFields []string
	inBlock := false
	blockStart := 0
	headerSeen := false

	flushBlock := func(endRow int) {
		if len(blockFields) > 0 {
			if t := parseTextBlock(blockFields, blockStart, endRow, prof); t != nil {
				txns = append(txns, t)
			}
			blockFields = nil
		}
	}

	rowNum := 1
	for rowIdx, row := range rows[1:] {
		rowNum = rowIdx + 2 // 1-based, after the header row

		rowType := strings.ToLower(cell(row, layout.typeCol))
		content := cell(row, layout.contentCol)
		if content == "" {
			continue
		}

		switch {
		case rowType == "text":
			if strings.HasPrefix(content, "###") {
				if inBlock {
					flushBlock(rowNum)
				}
				inBlock = !inBlock
				if inBlock {
					blockStart = rowNum
				}
			} else if inBlock {
				blockFields = append(blockFields, content)
			}

		case rowType == "table" && strings.Contains(content, "|"):
			if !headerSeen && looksLikeTableHeader(content) {
				layout.fields = tableHeaderFields(content, prof)
				headerSeen = true
				continue
			}
			if t := parseTableRow(content, rowNum, layout.fields, prof); t != nil {
				txns = append(txns, t)
			}
		}
	}
	if inBlock {
		flushBlock(rowNum)
	}

	if len(txns) == 0 {
		return nil, ErrNoTransactions
	}
	return &Result{
		Transactions: txns,
		Issues:       Validate(txns),
		Profile:      prof,
	}, nil
}

// parseTableRow converts one pipe-delimited data line using the header's
// role mapping. A row without a parseable date is dropped.
func parseTableRow(content string, rowNum int, fields map[string]int, prof profile.Profile) *model.Transaction {
	if len(fields) == 0 {
		return nil
	}
	parts := strings.Split(content, "|")
	get := func(role string) string {
		idx, ok := fields[role]
		if !ok || idx >= len(parts) {
			return ""
		}
		return strings.TrimSpace(parts[idx])
	}

	date, ok := dates.Parse(get("date"), prof.DateOrder)
	if !ok {
		return nil
	}

	var debit, credit, balance decimal.NullDecimal
	if d, ok := amount.Parse(get("debit")); ok && !d.IsZero() {
		debit = model.NewAmount(d.Abs())
	}
	if d, ok := amount.Parse(get("credit")); ok && !d.IsZero() {
		credit = model.NewAmount(d.Abs())
	}
	if d, ok := amount.Parse(get("balance")); ok {
		balance = model.NewAmount(d)
	}

	return &model.Transaction{
		Date:        date,
		Description: get("description"),
		Debit:       debit,
		Credit:      credit,
		Balance:     balance,
		RawText:     content,
		Rows:        []int{rowNum},
	}
}

// parseTextBlock classifies a delimited block's fields by shape: the first
// date-parseable field is the date, predominantly-numeric fields with
// separators are amounts, bare digit runs (cheque or branch numbers) are
// dropped, and everything else joins the description. With two or more
// amounts the last is the balance and the one before it the movement; the
// movement side comes from the profile's direction indicators, defaulting
// to debit.
func parseTextBlock(fields []string, startRow, endRow int, prof profile.Profile) *model.Transaction {
	if len(fields) < 3 {
		return nil
	}

	var (
		txnDate    time.Time
		parsedDate bool
		descParts  []string
		amounts    []decimal.Decimal
	)
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		if !parsedDate {
			candidate := field
			// Exporters often stamp a time after the date; drop it.
			if m := datetimePrefixRe.FindStringSubmatch(field); m != nil {
				candidate = m[1]
			}
			if d, ok := dates.Parse(candidate, prof.DateOrder); ok {
				txnDate = d
				parsedDate = true
				continue
			}
		}

		if amount.Valid(field) && mostlyNumeric(field) {
			if d, ok := amount.Parse(field); ok {
				amounts = append(amounts, d)
				continue
			}
		}

		if !isDigitRun(field) {
			descParts = append(descParts, field)
		}
	}

	if !parsedDate {
		return nil
	}

	description := strings.Join(descParts, " ")

	var debit, credit, balance decimal.NullDecimal
	switch {
	case len(amounts) >= 2:
		balance = model.NewAmount(amounts[len(amounts)-1])
		movement := amounts[len(amounts)-2]
		if !movement.IsZero() {
			if prof.InferDirection(description) == profile.DirectionCredit {
				credit = model.NewAmount(movement.Abs())
			} else {
				debit = model.NewAmount(movement.Abs())
			}
		}
	case len(amounts) == 1:
		balance = model.NewAmount(amounts[0])
	}

	rowNums := make([]int, 0, endRow-startRow+1)
	for n := startRow; n <= endRow; n++ {
		rowNums = append(rowNums, n)
	}

	return &model.Transaction{
		Date:        txnDate,
		Description: description,
		Debit:       debit,
		Credit:      credit,
		Balance:     balance,
		RawText:     strings.Join(fields, " | "),
		Rows:        rowNums,
	}
}

// mostlyNumeric reports whether over half the characters are digits or
// amount punctuation, distinguishing "2,19,436.87" from "REF 123".
func mostlyNumeric(s string) bool {
	numeric := 0
	for _, r := range s {
		if r >= '0' && r <= '9' || r == ',' || r == '.' || r == '₹' {
			numeric++
		}
	}
	return numeric > len([]rune(s))/2
}

// isDigitRun reports whether the field is digits only (ignoring spaces).
func isDigitRun(s string) bool {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
