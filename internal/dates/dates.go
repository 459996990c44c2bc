// Package dates parses statement dates across the formats banks actually
// emit. Parsing tries an ordered list of explicit layouts, then a permissive
// token-based fallback biased by the configured day/month/year order. It
// never returns an error; an unparseable value is simply "no date".
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Order is the preferred field order for ambiguous numeric dates.
type Order int

const (
	// DayFirst reads 03/04/2025 as 3 April (most locales).
	DayFirst Order = iota
	// MonthFirst reads 03/04/2025 as March 4 (US exports).
	MonthFirst
	// YearFirst prefers ISO-style YYYY-MM-DD.
	YearFirst
)

// baseLayouts is the day-first layout list tried in order. Non-padded
// verbs accept both "5/1/2025" and "05/01/2025".
var baseLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2/1/06",
	"2-1-06",
	"2006-1-2",
	"2 Jan 2006",
	"2-Jan-2006",
	"2 January 2006",
	"2-January-2006",
	"2.1.2006",
	"2.1.06",
}

var monthFirstLayouts = []string{
	"1/2/2006",
	"1-2-2006",
	"1/2/06",
	"1-2-06",
}

var yearFirstLayouts = []string{
	"2006-1-2",
	"2006/1/2",
}

// Layouts returns the layout list for an order preference. The preferred
// layouts are tried before the day-first base list, so unambiguous values
// parse identically under every preference.
func Layouts(order Order) []string {
	switch order {
	case MonthFirst:
		return append(append([]string{}, monthFirstLayouts...), baseLayouts...)
	case YearFirst:
		return append(append([]string{}, yearFirstLayouts...), baseLayouts...)
	}
	return baseLayouts
}

// Parse converts a raw date token into a time.Time. The second return is
// false when no layout or fallback matches. The result is midnight UTC;
// only the calendar date is meaningful.
func Parse(value string, order Order) (time.Time, bool) {
	s := normalize(value)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range Layouts(order) {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return parseLoose(s, order)
}

// Valid reports whether the token parses as a date.
func Valid(value string, order Order) bool {
	_, ok := Parse(value, order)
	return ok
}

// Format renders a date as DD-MMM-YYYY, the style used in reports.
// A zero time renders as the empty string.
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02-Jan-2006")
}

var extractPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})\b`),
	regexp.MustCompile(`\b(\d{4}[/\-]\d{1,2}[/\-]\d{1,2})\b`),
	regexp.MustCompile(`(?i)\b(\d{1,2}[\s\-](?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*[\s\-]\d{2,4})\b`),
	regexp.MustCompile(`\b(\d{1,2}\.\d{1,2}\.\d{2,4})\b`),
}

// Extract finds the first parseable date embedded in free text.
func Extract(text string, order Order) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, re := range extractPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if t, ok := Parse(m[1], order); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// normalize collapses whitespace and unifies mixed slash/dash separators.
// Alphabetic month tokens are left alone so "15-Jan-2025" survives.
func normalize(value string) string {
	s := strings.Join(strings.Fields(value), " ")
	if strings.Contains(s, "/") && strings.Contains(s, "-") {
		if !strings.ContainsFunc(s, func(r rune) bool {
			return r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z'
		}) {
			s = strings.ReplaceAll(s, "-", "/")
		}
	}
	return s
}

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// parseLoose handles values the explicit layouts miss, such as "15th Jan
// 2025" or swapped numeric fields. It splits into tokens and assigns
// year/month/day using the order preference only where genuinely ambiguous.
func parseLoose(s string, order Order) (time.Time, bool) {
	parts := regexp.MustCompile(`[/\-.\s,]+`).Split(s, -1)
	var nums []int
	var month time.Month
	for _, p := range parts {
		if p == "" {
			continue
		}
		if m, ok := monthNames[monthPrefix(p)]; ok {
			if month != 0 {
				return time.Time{}, false
			}
			month = m
			continue
		}
		p = strings.TrimRight(p, "stndrh") // 1st, 2nd, 3rd, 15th
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		nums = append(nums, n)
	}

	var day, year int
	switch {
	case month != 0 && len(nums) == 2:
		day, year = nums[0], nums[1]
		if day > 31 {
			day, year = year, day
		}
	case month == 0 && len(nums) == 3:
		day, year = splitNumeric(nums, &month, order)
	default:
		return time.Time{}, false
	}

	if year < 100 {
		year += 2000
	}
	if month < time.January || month > time.December {
		return time.Time{}, false
	}
	if day < 1 || day > 31 || year < 1900 || year > 2200 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false // e.g. 31 Feb rolled over
	}
	return t, true
}

func monthPrefix(p string) string {
	p = strings.ToLower(p)
	if len(p) > 3 {
		p = p[:3]
	}
	return p
}

func splitNumeric(nums []int, month *time.Month, order Order) (day, year int) {
	a, b, c := nums[0], nums[1], nums[2]
	if a > 999 || order == YearFirst && a > 31 {
		// Year leads: YYYY M D.
		*month = time.Month(b)
		return c, a
	}
	year = c
	if order == MonthFirst && a <= 12 {
		*month = time.Month(a)
		return b, year
	}
	// Day-first, unless the day slot cannot be a day.
	if b > 12 && a <= 12 {
		*month = time.Month(a)
		return b, year
	}
	*month = time.Month(b)
	return a, year
}
