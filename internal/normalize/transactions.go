// Package normalize turns raw key-value rows from reader
// collaborators into canonical transaction and purchase records. It
// is the only place that knows the revenue-vs-expense disambiguation
// ladder; everything downstream consumes clean records.
package normalize

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"costpulse/internal/coerce"
	"costpulse/internal/schema"
	"costpulse/pkg/contracts/domain"
)

// Options control the heuristic defaults of normalization. Both
// fields preserve observed business assumptions; they are options
// precisely so a tenant can flip them without a code change.
type Options struct {
	// AmbiguousAmountDefault decides where a lone positive amount
	// lands when no revenue/expense signal exists anywhere in the
	// row. Ledgers in this domain are revenue-centric, hence the
	// default.
	AmbiguousAmountDefault AmountSide
}

// AmountSide names the two sides a bare amount can fall on.
type AmountSide string

const (
	SideRevenue AmountSide = "revenue"
	SideExpense AmountSide = "expense"
)

// Normalizer builds canonical records using an alias table and the
// coercion rules. Safe for concurrent use; it holds only read-only
// configuration.
type Normalizer struct {
	aliases schema.AliasTable
	opts    Options
	logger  *slog.Logger
}

// NewNormalizer constructs a Normalizer. A nil logger falls back to
// slog.Default.
func NewNormalizer(aliases schema.AliasTable, opts Options, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.AmbiguousAmountDefault == "" {
		opts.AmbiguousAmountDefault = SideRevenue
	}
	return &Normalizer{aliases: aliases, opts: opts, logger: logger}
}

// Transactions normalizes raw rows into canonical transactions.
// Rows with no financial signal at all are dropped; output is sorted
// ascending by date string, which orders ISO dates chronologically
// and pushes the "Unknown Date" sentinel to the tail.
func (n *Normalizer) Transactions(ctx context.Context, rows []domain.RawRow) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		tx := n.transaction(row)
		if tx.IsEmpty() {
			dropped++
			continue
		}
		out = append(out, tx)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})

	n.logger.InfoContext(ctx, "normalized transactions",
		slog.Int("input_rows", len(rows)),
		slog.Int("records", len(out)),
		slog.Int("dropped_empty", dropped))

	return out
}

func (n *Normalizer) transaction(row domain.RawRow) domain.Transaction {
	date := coerce.ParseDate(lookupRaw(row, n.aliases.Date))
	if date == "" {
		date = domain.UnknownDate
	}

	amount := n.lookupNumber(row, n.aliases.Amount)
	typeStr := schema.LookupString(row, n.aliases.Type)

	var revenue, expense float64

	switch {
	// 1. Type column carries an expense-class keyword. Only decisive
	// when an amount column produced a value; otherwise the dedicated
	// columns below still get their shot.
	case amount != 0 && typeStr != "" && containsAnyFold(typeStr, n.aliases.ExpenseTypeKeywords):
		expense = amount

	// 2. Type column carries a revenue-class keyword.
	case amount != 0 && typeStr != "" && containsAnyFold(typeStr, n.aliases.RevenueTypeKeywords):
		revenue = amount

	// 3. Dedicated revenue/expense columns, then secondary alias
	// sets, then a last-resort scan of the whole row.
	default:
		revenue = n.lookupNumber(row, n.aliases.Revenue)
		expense = n.lookupNumber(row, n.aliases.Expense)

		if revenue == 0 {
			revenue = n.lookupNumber(row, n.aliases.RevenueSecondary)
		}
		if expense == 0 {
			expense = n.lookupNumber(row, n.aliases.ExpenseSecondary)
		}

		if revenue == 0 && expense == 0 && amount > 0 {
			serialized := schema.Serialize(row)
			switch {
			case containsAny(serialized, n.aliases.RevenueSignals):
				revenue = amount
			case containsAny(serialized, n.aliases.ExpenseSignals):
				expense = amount
			case n.opts.AmbiguousAmountDefault == SideExpense:
				expense = amount
			default:
				revenue = amount
			}
		}
	}

	fixedCost := n.lookupNumber(row, n.aliases.FixedCost)
	variableCost := n.lookupNumber(row, n.aliases.VariableCost)
	if expense == 0 && (fixedCost > 0 || variableCost > 0) {
		expense = fixedCost + variableCost
	}

	// Canonical records never carry negative revenue or expense;
	// sign conventions vary per source and a negative here is noise,
	// not a refund ledger.
	if revenue < 0 {
		revenue = 0
	}
	if expense < 0 {
		expense = 0
	}

	profit := n.lookupNumber(row, n.aliases.Profit)
	if profit == 0 && (revenue != 0 || expense != 0) {
		profit = revenue - expense
	}

	counterparty := schema.LookupString(row, n.aliases.Counterparty)
	if counterparty == "" {
		counterparty = domain.DefaultCounterparty
	}

	return domain.Transaction{
		Date:          date,
		Revenue:       revenue,
		Expense:       expense,
		FixedCost:     fixedCost,
		VariableCost:  variableCost,
		Profit:        profit,
		Counterparty:  counterparty,
		CategoryRaw:   schema.LookupString(row, n.aliases.Category),
		Memo:          schema.LookupString(row, n.aliases.Memo),
		PaymentMethod: schema.LookupString(row, n.aliases.PaymentMethod),
	}
}

func (n *Normalizer) lookupNumber(row domain.RawRow, aliases []string) float64 {
	return coerce.ParseNumber(lookupRaw(row, aliases))
}

func lookupRaw(row domain.RawRow, aliases []string) any {
	val, ok := schema.LookupAlias(row, aliases)
	if !ok {
		return nil
	}
	return val
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// containsAnyFold matches Korean keywords exactly and latin keywords
// case-insensitively, mirroring how type-column text is written in
// the wild ("Expense", "EXPENSE", "지출").
func containsAnyFold(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
