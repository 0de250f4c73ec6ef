package metrics

import (
	"math"
	"sort"

	"costpulse/internal/classify"
	"costpulse/pkg/contracts/domain"
)

// VendorTotals aggregates purchase spend per vendor, sorted by total
// descending. Empty vendor names fold into "General".
func VendorTotals(ps []domain.Purchase) []domain.VendorTotal {
	totals := make(map[string]*domain.VendorTotal)

	for _, p := range ps {
		vendor := p.Vendor
		if vendor == "" {
			vendor = domain.DefaultCounterparty
		}
		t, ok := totals[vendor]
		if !ok {
			t = &domain.VendorTotal{Vendor: vendor}
			totals[vendor] = t
		}
		t.Total += p.LineTotal
		t.ItemCount++
	}

	out := make([]domain.VendorTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Vendor < out[j].Vendor
	})

	return out
}

// CostBreakdown splits purchase spend across the three major
// purchase categories using each record's assigned MajorCategory;
// records that somehow lack one are classified on the spot.
func CostBreakdown(ps []domain.Purchase, pc *classify.PurchaseClassifier) domain.CostTypeBreakdown {
	var out domain.CostTypeBreakdown

	for _, p := range ps {
		category := p.MajorCategory
		if category == "" && pc != nil {
			category = pc.ClassifyHeuristic(p)
		}

		switch category {
		case domain.PurchaseFood:
			out.FoodTotal += p.LineTotal
			out.FoodCount++
		case domain.PurchaseSupply:
			out.SupplyTotal += p.LineTotal
			out.SupplyCount++
		default:
			out.OtherTotal += p.LineTotal
			out.OtherCount++
		}
	}

	return out
}

// PriceTrends tracks unit-price movement for items purchased more
// than once. For each such item the latest and previous purchase
// prices are compared; results are sorted by absolute percent change
// descending so the most volatile items surface first.
func PriceTrends(ps []domain.Purchase) []domain.PriceTrend {
	grouped := make(map[string][]domain.Purchase)
	for _, p := range ps {
		if p.ItemName == "" {
			continue
		}
		grouped[p.ItemName] = append(grouped[p.ItemName], p)
	}

	out := make([]domain.PriceTrend, 0, len(grouped))
	for name, items := range grouped {
		if len(items) < 2 {
			continue
		}

		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Date < items[j].Date
		})

		latest := items[len(items)-1]
		previous := items[len(items)-2]

		var change float64
		if previous.UnitPrice != 0 {
			change = (latest.UnitPrice - previous.UnitPrice) / previous.UnitPrice * 100
		}

		var spent float64
		for _, it := range items {
			spent += it.LineTotal
		}

		out = append(out, domain.PriceTrend{
			ItemName:      name,
			LatestPrice:   latest.UnitPrice,
			PreviousPrice: previous.UnitPrice,
			ChangePercent: change,
			PurchaseCount: len(items),
			TotalSpent:    spent,
			LatestDate:    latest.Date,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		di, dj := math.Abs(out[i].ChangePercent), math.Abs(out[j].ChangePercent)
		if di != dj {
			return di > dj
		}
		return out[i].ItemName < out[j].ItemName
	})

	return out
}
