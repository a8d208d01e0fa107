package dates

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/araddon/dateparse"
)

var monthNumber = map[string]string{
	"january": "01", "february": "02", "march": "03", "april": "04",
	"may": "05", "june": "06", "july": "07", "august": "08",
	"september": "09", "october": "10", "november": "11", "december": "12",
	"jan": "01", "feb": "02", "mar": "03", "apr": "04",
	"jun": "06", "jul": "07", "aug": "08", "sep": "09",
	"oct": "10", "nov": "11", "dec": "12",
}

var (
	reDayMonthYear = regexp.MustCompile(`(\d{1,2})\s+(\w+)\s+(\d{4})`)
	reCJKDate      = regexp.MustCompile(`(\d{4})\s*年\s*(\d{1,2})\s*月\s*(\d{1,2})\s*日`)
	reISODash      = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
	reISOSlash     = regexp.MustCompile(`(\d{4})/(\d{1,2})/(\d{1,2})`)
)

// Normalize reduces a free-form date string to YYYY-MM-DD. A generic parse is
// tried first, then a fixed ladder of formats. Returns "" when nothing in the
// input looks like a date; never errors. Already-normalized input comes back
// unchanged.
func Normalize(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	if t, err := dateparse.ParseAny(s); err == nil {
		return t.Format("2006-01-02")
	}

	// "24 December 2025", also matches inside "Wed, 24 Dec 2025 15:15:18 UTC"
	if m := reDayMonthYear.FindStringSubmatch(s); m != nil {
		month, ok := monthNumber[strings.ToLower(m[2])]
		if !ok {
			month = "01"
		}
		return fmt.Sprintf("%s-%s-%s", m[3], month, pad2(m[1]))
	}

	// "2025年12月24日", with or without interior spaces
	if m := reCJKDate.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[1], pad2(m[2]), pad2(m[3]))
	}

	if m := reISODash.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[1], pad2(m[2]), pad2(m[3]))
	}

	if m := reISOSlash.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[1], pad2(m[2]), pad2(m[3]))
	}

	return ""
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
