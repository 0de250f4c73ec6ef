// Package aggregate buckets normalized records by period and by
// counterparty, and filters record sets by date range. Summation is
// associative and commutative, so partitioned inputs can be merged
// in any order before bucketing.
package aggregate

import (
	"sort"
	"time"

	"costpulse/pkg/contracts/domain"
)

// dailySpanLimit is the maximum day span rendered at daily
// granularity. Spans beyond it collapse into calendar months. The
// value is a fixed design constant shared with the reporting UI;
// changing it breaks chart parity.
const dailySpanLimit = 62

const isoDate = "2006-01-02"

// monthKeyLen slices "2006-01-02" down to "2006-01".
const monthKeyLen = 7

// SelectGranularity returns daily bucketing when the span between
// the earliest and latest dated transaction is at most 62 days, and
// monthly otherwise. Undated sentinel rows do not count toward the
// span. An empty or fully undated set defaults to daily.
func SelectGranularity(txs []domain.Transaction) domain.Granularity {
	var minT, maxT time.Time
	seen := false

	for _, tx := range txs {
		t, err := time.Parse(isoDate, tx.Date)
		if err != nil {
			continue
		}
		if !seen || t.Before(minT) {
			minT = t
		}
		if !seen || t.After(maxT) {
			maxT = t
		}
		seen = true
	}

	if !seen {
		return domain.GranularityDaily
	}
	if maxT.Sub(minT).Hours()/24 <= dailySpanLimit {
		return domain.GranularityDaily
	}
	return domain.GranularityMonthly
}

// BucketByPeriod aggregates transactions into one bucket per period
// key, using SelectGranularity to pick the key shape. Buckets come
// back sorted ascending by key.
func BucketByPeriod(txs []domain.Transaction) ([]domain.PeriodBucket, domain.Granularity) {
	gran := SelectGranularity(txs)

	buckets := make(map[string]*domain.PeriodBucket)
	for _, tx := range txs {
		key := tx.Date
		if gran == domain.GranularityMonthly && key != domain.UnknownDate && len(key) >= monthKeyLen {
			key = key[:monthKeyLen]
		}

		b, ok := buckets[key]
		if !ok {
			b = &domain.PeriodBucket{Key: key}
			buckets[key] = b
		}
		b.Revenue += tx.Revenue
		b.Expense += tx.Expense
		b.Profit += tx.Profit
	}

	out := make([]domain.PeriodBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out, gran
}

// ByCounterparty aggregates revenue and expense per counterparty.
// Empty names fold into the "General" bucket. Output is sorted by
// revenue descending, then name, matching report ordering.
func ByCounterparty(txs []domain.Transaction) []domain.CounterpartyTotal {
	totals := make(map[string]*domain.CounterpartyTotal)

	for _, tx := range txs {
		name := tx.Counterparty
		if name == "" {
			name = domain.DefaultCounterparty
		}
		t, ok := totals[name]
		if !ok {
			t = &domain.CounterpartyTotal{Name: name}
			totals[name] = t
		}
		t.Revenue += tx.Revenue
		t.Expense += tx.Expense
		t.Count++
	}

	out := make([]domain.CounterpartyTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Name < out[j].Name
	})

	return out
}
