// Package metrics derives the financial picture — FL ratio, prime
// cost, break-even point, productivity — from classified transaction
// and purchase data. Everything is recomputed per call from the
// record sets; no state is kept between queries.
package metrics

import (
	"context"
	"log/slog"
	"strings"

	"costpulse/internal/classify"
	"costpulse/pkg/contracts/domain"
)

// FL ratio tiers. At or below Good the cost structure is healthy; at
// or below Caution it needs watching; beyond that it is a risk.
// Industry-standard thresholds shared with the reporting surface.
const (
	FLRatioGood    = 65.0
	FLRatioCaution = 70.0
)

// Engine computes financial snapshots. It owns a cost classifier and
// the keyword groups used to tag classified categories into the four
// tracked cost groups.
type Engine struct {
	classifier *classify.Classifier
	groups     classify.KeywordGroups
	logger     *slog.Logger
}

// NewEngine constructs an Engine. A nil classifier gets the default
// rule table; a nil logger falls back to slog.Default.
func NewEngine(classifier *classify.Classifier, groups classify.KeywordGroups, logger *slog.Logger) *Engine {
	if classifier == nil {
		classifier = classify.NewClassifier(classify.DefaultRules())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{classifier: classifier, groups: groups, logger: logger}
}

// Snapshot computes the financial snapshot for a transaction window.
// Purchases feed the food-cost fallback: when no transaction
// classified as food exists but purchase data does, purchase line
// totals stand in for food cost. headcount drives revenue-per-head;
// zero or negative headcount zeroes that metric rather than failing.
// Empty input yields an all-zero snapshot.
func (e *Engine) Snapshot(ctx context.Context, txs []domain.Transaction, purchases []domain.Purchase, headcount int) domain.FinancialSnapshot {
	var snap domain.FinancialSnapshot

	for _, tx := range txs {
		snap.TotalRevenue += tx.Revenue
		snap.TotalExpense += tx.Expense
	}

	for _, tx := range txs {
		if tx.Expense <= 0 {
			continue
		}

		cls := e.classifier.Classify(tx.CategoryRaw, tx.Counterparty)
		if cls.Type == domain.CostTypeFixed {
			snap.FixedCost += tx.Expense
		} else {
			snap.VariableCost += tx.Expense
		}

		// One cost group per transaction, tested in fixed order.
		switch {
		case containsAny(cls.Category, e.groups.Food):
			snap.FoodCost += tx.Expense
		case containsAny(cls.Category, e.groups.Labor):
			snap.LaborCost += tx.Expense
		case containsAny(cls.Category, e.groups.Utility):
			snap.UtilityCost += tx.Expense
		case containsAny(cls.Category, e.groups.Supplies):
			snap.SuppliesCost += tx.Expense
		}
	}

	// Food-cost fallback: tenants that track ingredients in a
	// separate purchase ledger have no food-classified expense rows.
	if snap.FoodCost == 0 && len(purchases) > 0 {
		var purchaseSum float64
		for _, p := range purchases {
			purchaseSum += p.LineTotal
		}
		if purchaseSum > 0 {
			snap.FoodCost = purchaseSum
			snap.VariableCost += purchaseSum
		}
	}

	snap.FLCost = snap.FoodCost + snap.LaborCost
	if snap.TotalRevenue > 0 {
		snap.FLRatio = snap.FLCost / snap.TotalRevenue * 100
		snap.LaborRatio = snap.LaborCost / snap.TotalRevenue * 100
	}
	snap.PrimeCost = snap.FLCost + snap.UtilityCost

	snap.ContributionMargin = snap.TotalRevenue - snap.VariableCost
	if snap.TotalRevenue > 0 {
		snap.CMRatio = snap.ContributionMargin / snap.TotalRevenue
	}
	if snap.CMRatio > 0 && snap.FixedCost > 0 {
		snap.BreakEvenPoint = snap.FixedCost / snap.CMRatio
	}
	snap.BreakEvenReached = snap.BreakEvenPoint > 0 && snap.TotalRevenue >= snap.BreakEvenPoint

	if headcount > 0 {
		snap.RevenuePerHead = snap.TotalRevenue / float64(headcount)
	}

	switch {
	case snap.FLRatio <= FLRatioGood:
		snap.Status = domain.StatusGood
	case snap.FLRatio <= FLRatioCaution:
		snap.Status = domain.StatusCaution
	default:
		snap.Status = domain.StatusRisk
	}

	e.logger.DebugContext(ctx, "computed financial snapshot",
		slog.Float64("total_revenue", snap.TotalRevenue),
		slog.Float64("fl_ratio", snap.FLRatio),
		slog.Float64("break_even_point", snap.BreakEvenPoint),
		slog.String("status", string(snap.Status)))

	return snap
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
