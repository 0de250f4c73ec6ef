package normalize

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/google/uuid"

	"costpulse/internal/classify"
	"costpulse/internal/coerce"
	"costpulse/internal/schema"
	"costpulse/pkg/contracts/domain"
)

// unknownItemName is assigned when no item-name column resolved.
// Rows that carry neither a name nor any amount are dropped.
const unknownItemName = "Unknown Item"

// vatRate is the Korean VAT rate used to split a line total into
// supply price and tax when the source sheet does not carry them.
const vatRate = 1.1

// Purchases normalizes raw purchase-ledger rows into canonical
// purchase records. Line totals missing from the source are
// reconstructed as unitPrice × quantity; supply price and VAT are
// derived from the total when absent. Output is sorted by date.
func (n *Normalizer) Purchases(ctx context.Context, rows []domain.RawRow, pc *classify.PurchaseClassifier) []domain.Purchase {
	out := make([]domain.Purchase, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		p, ok := n.purchase(row, pc)
		if !ok {
			dropped++
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})

	n.logger.InfoContext(ctx, "normalized purchases",
		slog.Int("input_rows", len(rows)),
		slog.Int("records", len(out)),
		slog.Int("dropped", dropped))

	return out
}

func (n *Normalizer) purchase(row domain.RawRow, pc *classify.PurchaseClassifier) (domain.Purchase, bool) {
	unitPrice := n.lookupNumber(row, n.aliases.UnitPrice)
	quantity := n.lookupNumber(row, n.aliases.Quantity)
	lineTotal := n.lookupNumber(row, n.aliases.LineTotal)

	if lineTotal == 0 && unitPrice > 0 && quantity > 0 {
		lineTotal = unitPrice * quantity
	}

	name := schema.LookupString(row, n.aliases.ItemName)
	if name == "" {
		name = unknownItemName
	}

	// Not a real line item: no money, no quantity, no name.
	if lineTotal <= 0 && quantity <= 0 && name == unknownItemName {
		return domain.Purchase{}, false
	}

	date := coerce.ParseDate(lookupRaw(row, n.aliases.PurchaseDate))
	if date == "" {
		date = domain.UnknownDate
	}

	vendor := schema.LookupString(row, n.aliases.Vendor)
	if vendor == "" {
		vendor = domain.DefaultCounterparty
	}

	supplyPrice := n.lookupNumber(row, n.aliases.SupplyPrice)
	vat := n.lookupNumber(row, n.aliases.VAT)
	if supplyPrice == 0 && lineTotal > 0 {
		supplyPrice = math.Round(lineTotal / vatRate)
		vat = lineTotal - supplyPrice
	}

	p := domain.Purchase{
		ID:          uuid.NewString(),
		Date:        date,
		Vendor:      vendor,
		ItemName:    name,
		Spec:        schema.LookupString(row, n.aliases.Spec),
		Unit:        schema.LookupString(row, n.aliases.Unit),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		SupplyPrice: supplyPrice,
		VAT:         vat,
		LineTotal:   lineTotal,
		CategoryRaw: schema.LookupString(row, n.aliases.PurchaseCategory),
		SubCategory: schema.LookupString(row, n.aliases.SubCategory),
	}

	if pc != nil {
		p.MajorCategory = pc.ClassifyHeuristic(p)
	} else {
		p.MajorCategory = classify.ClassifyExplicit(p.CategoryRaw)
	}

	return p, true
}
