package aggregate

import (
	"sort"
	"strings"

	"costpulse/pkg/contracts/domain"
)

// FilterTransactionsByRange keeps transactions whose date falls in
// [start, end], inclusive. Lexicographic comparison is correct for
// ISO dates; sentinel "Unknown Date" rows never survive a range
// filter. An empty start or end disables filtering entirely.
func FilterTransactionsByRange(txs []domain.Transaction, start, end string) []domain.Transaction {
	if start == "" || end == "" {
		return txs
	}
	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Date == domain.UnknownDate {
			continue
		}
		if tx.Date >= start && tx.Date <= end {
			out = append(out, tx)
		}
	}
	return out
}

// FilterPurchasesByRange is the purchase-ledger counterpart of
// FilterTransactionsByRange.
func FilterPurchasesByRange(ps []domain.Purchase, start, end string) []domain.Purchase {
	if start == "" || end == "" {
		return ps
	}
	out := make([]domain.Purchase, 0, len(ps))
	for _, p := range ps {
		if p.Date == domain.UnknownDate {
			continue
		}
		if p.Date >= start && p.Date <= end {
			out = append(out, p)
		}
	}
	return out
}

// FilterPurchasesByMonth keeps purchases dated in the given
// "2006-01" month.
func FilterPurchasesByMonth(ps []domain.Purchase, month string) []domain.Purchase {
	if month == "" {
		return ps
	}
	out := make([]domain.Purchase, 0, len(ps))
	for _, p := range ps {
		if strings.HasPrefix(p.Date, month) {
			out = append(out, p)
		}
	}
	return out
}

// AvailableMonths lists the distinct "2006-01" months present in the
// purchase set, sorted ascending. Undated records are skipped.
func AvailableMonths(ps []domain.Purchase) []string {
	seen := make(map[string]struct{})
	for _, p := range ps {
		if p.Date == domain.UnknownDate || len(p.Date) < monthKeyLen {
			continue
		}
		seen[p.Date[:monthKeyLen]] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
