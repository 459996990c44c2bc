package pnl

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/shopspring/decimal"
)

// word is one positioned text fragment on a page.
type word struct {
	text   string
	x0, x1 float64
	y      float64
}

// pageData is the raw material every strategy works from: pre-segmented
// row cells, positioned words, and plain text lines.
type pageData struct {
	rows  [][]string
	words []word
	lines []string
}

// readPage pulls all three representations from a PDF page. Any individual
// extraction failing just leaves that representation empty; the strategy
// cascade handles the rest.
func readPage(p pdf.Page) pageData {
	var data pageData
	if p.V.IsNull() {
		return data
	}

	if rows, err := p.GetTextByRow(); err == nil {
		for _, row := range rows {
			texts := make([]pdf.Text, len(row.Content))
			copy(texts, row.Content)
			sort.SliceStable(texts, func(i, j int) bool { return texts[i].X < texts[j].X })

			var cells []string
			for _, t := range texts {
				if s := cleanText(t.S); s != "" {
					cells = append(cells, s)
				}
			}
			if len(cells) > 0 {
				data.rows = append(data.rows, cells)
				data.lines = append(data.lines, strings.Join(cells, " "))
			}
		}
	}

	for _, t := range p.Content().Text {
		if s := strings.TrimSpace(t.S); s != "" {
			data.words = append(data.words, word{text: s, x0: t.X, x1: t.X + t.W, y: t.Y})
		}
	}

	if len(data.lines) == 0 {
		if text, err := p.GetPlainText(nil); err == nil {
			data.lines = strings.Split(text, "\n")
		}
	}
	return data
}

// strategy is one recovery approach. The cascade tries them in order and
// stops at the first that yields items.
type strategy struct {
	name string
	fn   func(data pageData, pageNum int) []LineItem
}

var strategies = []strategy{
	{"row-grid", extractGrid},
	{"positional", extractPositional},
	{"line-regex", extractLineRegex},
}

func extractPage(data pageData, pageNum int) []LineItem {
	for _, s := range strategies {
		if items := s.fn(data, pageNum); len(items) > 0 {
			return items
		}
	}
	return nil
}

// --- strategy 1: row-grid recovery -----------------------------------------

var headerLabelKeywords = []string{"particulars", "note", "description", "items"}

var headerPeriodRe = regexp.MustCompile(`(?:year|period)\s+ended|20\d{2}|march|31st|fy\s*\d{2}`)

// extractGrid treats the page's segmented rows as a table: locate the
// header row, work out which cell positions hold amounts, then parse every
// data row positionally.
func extractGrid(data pageData, pageNum int) []LineItem {
	if len(data.rows) < 2 {
		return nil
	}

	headerIdx, amountCols := findGridStructure(data.rows)
	if len(amountCols) == 0 {
		return nil
	}

	dataStart := 0
	if headerIdx >= 0 {
		dataStart = headerIdx + 1
	}

	var items []LineItem
	for _, row := range data.rows[dataStart:] {
		if item, ok := parseGridRow(row, amountCols, pageNum); ok {
			items = append(items, item)
		}
	}
	return items
}

// findGridStructure returns the header row index (-1 when inferred purely
// from data) and the amount column positions.
func findGridStructure(rows [][]string) (int, []int) {
	for idx, row := range rows {
		if idx >= 5 {
			break
		}
		text := strings.ToLower(strings.Join(row, " "))

		hasLabel := false
		for _, kw := range headerLabelKeywords {
			if strings.Contains(text, kw) {
				hasLabel = true
				break
			}
		}
		if hasLabel || headerPeriodRe.MatchString(text) {
			if cols := amountColumns(rows, idx); len(cols) > 0 {
				return idx, cols
			}
		}
	}
	if cols := amountColumnsFromData(rows); len(cols) > 0 {
		return -1, cols
	}
	return -1, nil
}

// amountColumns scores cell positions below a header row: a position
// qualifies when over 40% of sampled rows hold an amount there, it is not
// the label column, not a note column, and carries at least one
// financial-sized value rather than bare note references.
func amountColumns(rows [][]string, headerIdx int) []int {
	if headerIdx+1 >= len(rows) {
		return nil
	}

	numCols := 0
	for _, row := range rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}

	noteCols := make(map[int]bool)
	for ci, cell := range rows[headerIdx] {
		if regexp.MustCompile(`\bnote\b`).MatchString(strings.ToLower(cell)) {
			noteCols[ci] = true
		}
	}

	scores := make([]int, numCols)
	large := make([]bool, numCols)
	sample := rows[headerIdx+1:]
	if len(sample) > 9 {
		sample = sample[:9]
	}
	for _, row := range sample {
		for ci, cellText := range row {
			if !looksLikeAmount(cellText) {
				continue
			}
			scores[ci]++
			clean := strings.NewReplacer("(", "", ")", "", "-", "", " ", "").Replace(cellText)
			if strings.ContainsAny(cellText, ",.") || len(clean) >= 4 {
				large[ci] = true
			}
		}
	}

	threshold := len(sample) * 2 / 5
	if threshold < 1 {
		threshold = 1
	}
	var cols []int
	for ci := 1; ci < numCols; ci++ {
		if scores[ci] >= threshold && !noteCols[ci] && large[ci] {
			cols = append(cols, ci)
		}
	}
	return cols
}

// amountColumnsFromData infers amount positions with no header row.
func amountColumnsFromData(rows [][]string) []int {
	if len(rows) < 3 {
		return nil
	}
	numCols := 0
	for _, row := range rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}
	scores := make([]int, numCols)
	for _, row := range rows {
		for ci, cellText := range row {
			if looksLikeAmount(cellText) {
				scores[ci]++
			}
		}
	}
	threshold := len(rows) * 3 / 10
	if threshold < 2 {
		threshold = 2
	}
	var cols []int
	for ci := 1; ci < numCols; ci++ {
		if scores[ci] >= threshold {
			cols = append(cols, ci)
		}
	}
	return cols
}

func parseGridRow(row []string, amountCols []int, pageNum int) (LineItem, bool) {
	inAmounts := make(map[int]bool, len(amountCols))
	for _, c := range amountCols {
		inAmounts[c] = true
	}

	label := ""
	noteRef := ""
	for ci, cellText := range row {
		if inAmounts[ci] {
			continue
		}
		text := cleanText(cellText)
		if text == "" {
			continue
		}
		if noteRefRe.MatchString(text) {
			noteRef = text
			continue
		}
		if label == "" {
			label = text
		} else {
			label += " " + text
		}
	}
	if label == "" || skipLabel(label) {
		return LineItem{}, false
	}

	amounts := make([]decimal.NullDecimal, len(amountCols))
	hasAny := false
	for i, ci := range amountCols {
		if ci < len(row) {
			amounts[i] = parseFinancialAmount(cleanText(row[ci]))
			hasAny = hasAny || amounts[i].Valid
		}
	}
	if !hasAny && !sectionHeader(label) {
		return LineItem{}, false
	}

	return LineItem{
		Label:   strings.TrimSpace(label),
		Amounts: amounts,
		NoteRef: noteRef,
		Indent:  detectIndent(label),
		IsTotal: totalLabel(label),
		Page:    pageNum,
		RawText: strings.Join(row, " | "),
	}, true
}

// --- strategy 2: positional reconstruction ---------------------------------

// extractPositional rebuilds columns from word bounding boxes: amounts in
// the same column share a right edge, so clustering right edges recovers
// the column x-ranges even with no table structure at all.
func extractPositional(data pageData, pageNum int) []LineItem {
	if len(data.words) == 0 {
		return nil
	}

	lines := groupWordsIntoLines(data.words)
	if len(lines) < 3 {
		return nil
	}

	ranges := amountColumnRanges(lines)
	if len(ranges) == 0 {
		return nil
	}

	var items []LineItem
	for _, line := range lines {
		if item, ok := parsePositionedLine(line, ranges, pageNum); ok {
			items = append(items, item)
		}
	}
	return items
}

const lineYTolerance = 5

// groupWordsIntoLines buckets words by vertical proximity, each bucket
// sorted left to right.
func groupWordsIntoLines(words []word) [][]word {
	sorted := make([]word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].y != sorted[j].y {
			return sorted[i].y > sorted[j].y // PDF y grows upward
		}
		return sorted[i].x0 < sorted[j].x0
	})

	var lines [][]word
	current := []word{sorted[0]}
	currentY := sorted[0].y
	for _, w := range sorted[1:] {
		if currentY-w.y < lineYTolerance {
			current = append(current, w)
			continue
		}
		sortLine(current)
		lines = append(lines, current)
		current = []word{w}
		currentY = w.y
	}
	sortLine(current)
	lines = append(lines, current)
	return lines
}

func sortLine(line []word) {
	sort.SliceStable(line, func(i, j int) bool { return line[i].x0 < line[j].x0 })
}

type xRange struct{ left, right float64 }

const (
	clusterTolerance = 15
	columnWidth      = 120
)

// amountColumnRanges clusters the right edges of amount-like words; a
// cluster of three or more aligned edges marks an amount column.
func amountColumnRanges(lines [][]word) []xRange {
	var rights []float64
	for _, line := range lines {
		for _, w := range line {
			if looksLikeAmount(w.text) {
				rights = append(rights, w.x1)
			}
		}
	}
	if len(rights) < 3 {
		return nil
	}

	sort.Float64s(rights)
	clusters := [][]float64{{rights[0]}}
	for _, v := range rights[1:] {
		last := clusters[len(clusters)-1]
		if v-last[len(last)-1] <= clusterTolerance {
			clusters[len(clusters)-1] = append(last, v)
		} else {
			clusters = append(clusters, []float64{v})
		}
	}

	var ranges []xRange
	for _, c := range clusters {
		if len(c) < 3 {
			continue
		}
		right := c[len(c)-1]
		ranges = append(ranges, xRange{left: right - columnWidth, right: right})
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].left < ranges[j].left })
	return ranges
}

func parsePositionedLine(line []word, ranges []xRange, pageNum int) (LineItem, bool) {
	var labelParts []string
	amounts := make([]decimal.NullDecimal, len(ranges))
	noteRef := ""

	var rawParts []string
	for _, w := range line {
		rawParts = append(rawParts, w.text)

		center := (w.x0 + w.x1) / 2
		placed := false
		for ci, r := range ranges {
			if center >= r.left && center <= r.right+10 {
				if looksLikeAmount(w.text) {
					if !amounts[ci].Valid {
						amounts[ci] = parseFinancialAmount(w.text)
					}
					placed = true
				}
				break
			}
		}
		if placed {
			continue
		}
		if noteRef == "" && noteRefRe.MatchString(w.text) {
			noteRef = w.text
		} else {
			labelParts = append(labelParts, w.text)
		}
	}

	label := strings.TrimSpace(strings.Join(labelParts, " "))
	if label == "" || skipLabel(label) {
		return LineItem{}, false
	}

	hasAny := false
	for _, a := range amounts {
		hasAny = hasAny || a.Valid
	}
	if !hasAny && !sectionHeader(label) {
		return LineItem{}, false
	}

	return LineItem{
		Label:   label,
		Amounts: amounts,
		NoteRef: noteRef,
		Indent:  detectIndent(label),
		IsTotal: totalLabel(label),
		Page:    pageNum,
		RawText: strings.Join(rawParts, " "),
	}, true
}

// --- strategy 3: line regex -------------------------------------------------

var lineAmountRe = regexp.MustCompile(`[\(\-]?\d{1,3}(?:,\d{2,3})*(?:\.\d{1,2})?\)?`)

// extractLineRegex is the last resort: split the page into text lines and
// peel amounts off the right of each.
func extractLineRegex(data pageData, pageNum int) []LineItem {
	var items []LineItem
	for _, line := range data.lines {
		line = strings.TrimSpace(line)
		if len(line) < 3 {
			continue
		}
		if item, ok := parseTextLine(line, pageNum); ok {
			items = append(items, item)
		}
	}
	return items
}

var trailingNoteRe = regexp.MustCompile(`\s+(\d{1,3}[a-z]?)\s*$`)

func parseTextLine(line string, pageNum int) (LineItem, bool) {
	matches := lineAmountRe.FindAllStringIndex(line, -1)
	if len(matches) == 0 {
		return LineItem{}, false
	}

	// Years and note references also match the amount pattern; a real
	// financial amount has separators or at least four digits.
	var real [][]int
	for _, m := range matches {
		tok := line[m[0]:m[1]]
		clean := strings.NewReplacer("(", "", ")", "", "-", "", ",", "").Replace(tok)
		if strings.ContainsAny(tok, ",.") || len(clean) >= 4 {
			real = append(real, m)
		}
	}
	if len(real) == 0 {
		return LineItem{}, false
	}

	label := strings.TrimSpace(line[:real[0][0]])
	noteRef := ""
	if m := trailingNoteRe.FindStringSubmatch(label); m != nil {
		noteRef = m[1]
		label = strings.TrimSpace(trailingNoteRe.ReplaceAllString(label, ""))
	}
	if len(label) < 2 || skipLabel(label) {
		return LineItem{}, false
	}

	var amounts []decimal.NullDecimal
	hasAny := false
	for _, m := range real {
		a := parseFinancialAmount(line[m[0]:m[1]])
		amounts = append(amounts, a)
		hasAny = hasAny || a.Valid
	}
	if !hasAny && !sectionHeader(label) {
		return LineItem{}, false
	}

	return LineItem{
		Label:   label,
		Amounts: amounts,
		NoteRef: noteRef,
		Indent:  detectIndent(label),
		IsTotal: totalLabel(label),
		Page:    pageNum,
		RawText: line,
	}, true
}

// --- shared helpers ---------------------------------------------------------

var (
	cidRe        = regexp.MustCompile(`\(cid:\d+\)`)
	spaceRe      = regexp.MustCompile(`\s+`)
	noteRefRe    = regexp.MustCompile(`^\d{1,3}[a-z]?$`)
	amountTokRe  = regexp.MustCompile(`^[\(\-]?\d{1,3}(?:,\d{2,3})*(?:\.\d{1,2})?\)?$`)
	skipLabelRes = []*regexp.Regexp{
		regexp.MustCompile(`^page\s+\d+`),
		regexp.MustCompile(`^note\s*$`),
		regexp.MustCompile(`^note\s+no`),
		regexp.MustCompile(`^particulars\s*$`),
		regexp.MustCompile(`^s[rl]?\.?\s*no`),
		regexp.MustCompile(`^\(?\s*₹`),
		regexp.MustCompile(`^in\s+(lakhs?|crores?|thousands?|millions?)`),
		regexp.MustCompile(`^amount\s+in`),
		regexp.MustCompile(`^\d+\s*$`),
	}
)

func cleanText(s string) string {
	s = cidRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// looksLikeAmount reports whether text is a lone financial amount token,
// including parenthesized and lakh-grouped forms.
func looksLikeAmount(text string) bool {
	text = strings.ReplaceAll(strings.TrimSpace(text), " ", "")
	if text == "" {
		return false
	}
	return amountTokRe.MatchString(text)
}

// parseFinancialAmount converts an amount token to a decimal. Nil markers
// ("-", "nil", em dashes) and unparseable text yield an invalid value.
func parseFinancialAmount(text string) decimal.NullDecimal {
	text = strings.TrimSpace(text)
	switch strings.ToLower(text) {
	case "", "-", "--", "–", "—", "nil":
		return decimal.NullDecimal{}
	}

	negative := false
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		negative = true
		text = text[1 : len(text)-1]
	} else if strings.HasPrefix(text, "-") {
		negative = true
		text = text[1:]
	}

	text = strings.NewReplacer(",", "", " ", "").Replace(text)
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.NullDecimal{}
	}
	if negative {
		d = d.Neg()
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func skipLabel(label string) bool {
	l := strings.ToLower(strings.TrimSpace(label))
	for _, re := range skipLabelRes {
		if re.MatchString(l) {
			return true
		}
	}
	return false
}

var sectionKeywords = []string{
	"income", "revenue", "expenses", "expenditure",
	"continuing operations", "discontinued operations",
	"other comprehensive", "items that will", "items that may",
	"i.", "ii.", "iii.", "iv.", "v.", "a.", "b.", "c.", "d.",
}

func sectionHeader(label string) bool {
	l := strings.ToLower(strings.TrimSpace(label))
	for _, kw := range sectionKeywords {
		if strings.Contains(l, kw) {
			return true
		}
	}
	return false
}

func totalLabel(label string) bool {
	l := strings.ToLower(label)
	for _, kw := range totalKeywords {
		if strings.Contains(l, kw) {
			return true
		}
	}
	return false
}

var (
	subItemPrefixRe = regexp.MustCompile(`^(?:\([a-d]\)|\((?:i|ii|iii|iv|v)\)|[a-z]\)|[ivxIVX]+[.)])`)
)

// detectIndent infers nesting from explicit markers or leading spaces.
func detectIndent(label string) int {
	stripped := strings.TrimLeft(label, " ")
	leading := len(label) - len(stripped)

	if subItemPrefixRe.MatchString(stripped) {
		return 2
	}
	if leading >= 8 {
		return 2
	}
	if leading >= 4 {
		return 1
	}
	return 0
}
