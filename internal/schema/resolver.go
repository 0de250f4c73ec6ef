// Package schema locates header rows in raw sheet data and resolves
// flexible column-name aliases to canonical fields. The lookup
// contract is exact key first, then whitespace-stripped lowercase
// equality, then substring containment for aliases of two or more
// runes. Short aliases are excluded from the substring pass because
// one-character fragments match almost anything.
package schema

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"costpulse/pkg/contracts/domain"
)

// headerScanLimit caps how many leading rows are inspected when
// searching for the header row.
const headerScanLimit = 20

// ResolveHeaderRow scans at most the first 20 rows and returns the
// index of the first row containing any of the keywords. When nothing
// matches it returns 0; source sheets usually start with the header,
// so row 0 is the safe default. Never fails.
func ResolveHeaderRow(rows [][]string, keywords []string, logger *slog.Logger) int {
	if logger == nil {
		logger = slog.Default()
	}

	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	for i := 0; i < limit; i++ {
		serialized := strings.Join(rows[i], " ")
		for _, kw := range keywords {
			if strings.Contains(serialized, kw) {
				return i
			}
		}
	}

	logger.Warn("header row not found, defaulting to first row",
		slog.Int("rows_scanned", limit),
		slog.Int("keywords", len(keywords)))
	return 0
}

// LookupAlias resolves a value from a heterogeneously-keyed row.
// Pass 1 tries each alias as a literal key. Pass 2 normalizes row
// keys and aliases (strip whitespace, lowercase) and tries equality,
// then containment for aliases of length >= 2. Only non-empty values
// count as hits; an empty cell under a matching header must not
// shadow a populated cell under a looser match.
func LookupAlias(row domain.RawRow, aliases []string) (any, bool) {
	for _, alias := range aliases {
		if val, ok := row[alias]; ok && !isEmptyValue(val) {
			return val, true
		}
	}

	// Snapshot keys in a stable order; map iteration order would make
	// containment matches nondeterministic across runs.
	rowKeys := make([]string, 0, len(row))
	for k := range row {
		rowKeys = append(rowKeys, k)
	}
	sort.Strings(rowKeys)

	normalized := make([]string, len(rowKeys))
	for i, k := range rowKeys {
		normalized[i] = normalizeKey(k)
	}

	for _, alias := range aliases {
		cleanAlias := normalizeKey(alias)
		if cleanAlias == "" {
			continue
		}

		for i, key := range rowKeys {
			if normalized[i] == cleanAlias && !isEmptyValue(row[key]) {
				return row[key], true
			}
		}

		if utf8.RuneCountInString(cleanAlias) < 2 {
			continue
		}
		for i, key := range rowKeys {
			if strings.Contains(normalized[i], cleanAlias) && !isEmptyValue(row[key]) {
				return row[key], true
			}
		}
	}

	return nil, false
}

// LookupString resolves an alias and returns the value as a trimmed
// string, or "" when nothing matched.
func LookupString(row domain.RawRow, aliases []string) string {
	val, ok := LookupAlias(row, aliases)
	if !ok {
		return ""
	}
	return strings.TrimSpace(stringify(val))
}

// Serialize flattens a row's keys and values into one searchable
// string. Used by the normalizer's last-resort keyword scan. Keys are
// sorted so output is stable.
func Serialize(row domain.RawRow) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(" ")
		b.WriteString(stringify(row[k]))
		b.WriteString(" ")
	}
	return b.String()
}

func normalizeKey(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	return strings.TrimSpace(stringify(v)) == ""
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return formatFloat(s)
	default:
		return fmt.Sprint(v)
	}
}

// formatFloat renders floats the way spreadsheet values print:
// integral values without a trailing ".0".
func formatFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
