// Package coerce converts raw spreadsheet cell values into the
// numeric and date types the pipeline works with. Every function is
// total: malformed input degrades to a zero value or to the original
// string, never to an error.
package coerce

import (
	"strconv"
	"strings"
	"time"
)

// serialEpochOffset is the number of days between the spreadsheet
// epoch (1899-12-30) and the Unix epoch (1970-01-01). Date serials
// are converted by subtracting it before scaling to seconds.
const serialEpochOffset = 25569

const isoDate = "2006-01-02"

// dateLayouts are tried in order when parsing a string date. The
// first successful parse wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
	"2006.01.02",
	"2006.1.2",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"20060102",
}

// ParseNumber converts a raw cell value to a float64. Numeric input
// is returned as-is. String input is stripped of every character
// except digits, '.' and '-' before parsing, so currency symbols and
// thousands separators ("₩1,234.5", "1,234원") are tolerated.
// Anything unparseable yields 0.
func ParseNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		return parseNumericString(n)
	default:
		return 0
	}
}

func parseNumericString(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParseDate converts a raw cell value to an ISO-8601 date string.
// Numeric input is treated as a spreadsheet date serial (days since
// 1899-12-30). String input is tried against the known layouts; when
// none match, the original string is returned unchanged so the caller
// can still display it. Empty input yields "".
func ParseDate(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case float64:
		return serialToDate(d)
	case float32:
		return serialToDate(float64(d))
	case int:
		return serialToDate(float64(d))
	case int64:
		return serialToDate(float64(d))
	case string:
		return parseDateString(d)
	default:
		return ""
	}
}

func serialToDate(serial float64) string {
	if serial <= 0 {
		return ""
	}
	unix := int64((serial - serialEpochOffset) * 86400)
	return time.Unix(unix, 0).UTC().Format(isoDate)
}

func parseDateString(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(isoDate)
		}
	}
	return s
}
