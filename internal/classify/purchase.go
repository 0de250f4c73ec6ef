package classify

import (
	"strings"

	"costpulse/pkg/contracts/domain"
)

// Explicit major-category labels carried by curated purchase sheets.
const (
	labelFood     = "식자재"
	labelHomeware = "생활용품"
	labelOpsGoods = "운용용품"
	labelFacility = "시설투자"
	labelMisc     = "기타"
)

// facilityNameKeywords mark one-off facility spend that must never be
// counted as food or supplies.
var facilityNameKeywords = []string{"시설", "공사", "인테리어", "설비"}

// PurchaseClassifier tags purchase line items as food, supply or
// other. Keyword lists are injected so tenants can extend the
// vocabulary; UnmatchedDefault preserves the business assumption that
// an uncategorized purchase in this domain is most likely food. That
// default is deliberate and configurable rather than hard-coded.
type PurchaseClassifier struct {
	FoodKeywords     []string
	SupplyKeywords   []string
	UnmatchedDefault domain.PurchaseCategory
}

// NewPurchaseClassifier returns a classifier with the built-in
// keyword vocabulary and the default-to-food fallback.
func NewPurchaseClassifier() *PurchaseClassifier {
	return &PurchaseClassifier{
		FoodKeywords:     FoodKeywords(),
		SupplyKeywords:   SupplyKeywords(),
		UnmatchedDefault: domain.PurchaseFood,
	}
}

// ClassifyExplicit is the strict three-way switch over a curated
// major-category field. No fallback heuristics: sheets that carry a
// reliable category column get exactly what they declared.
func ClassifyExplicit(categoryRaw string) domain.PurchaseCategory {
	switch strings.TrimSpace(categoryRaw) {
	case labelFood, "Food", "FOOD":
		return domain.PurchaseFood
	case labelHomeware, labelOpsGoods, "Supply", "SUPPLY", "Supplies":
		return domain.PurchaseSupply
	default:
		return domain.PurchaseOther
	}
}

// ClassifyHeuristic tags a purchase whose major category is missing
// or unreliable. Explicit category and subcategory labels are
// honored first, then the item text is tested against the food and
// supply keyword lists, then the configured default applies — except
// for items explicitly labeled 기타/Other, which stay OTHER.
func (pc *PurchaseClassifier) ClassifyHeuristic(p domain.Purchase) domain.PurchaseCategory {
	category := strings.TrimSpace(p.CategoryRaw)
	sub := strings.TrimSpace(p.SubCategory)
	name := strings.TrimSpace(p.ItemName)

	if category == labelFacility || sub == labelFacility || containsAny(name, facilityNameKeywords) {
		return domain.PurchaseOther
	}
	if category == labelOpsGoods || sub == labelOpsGoods || category == "소모품" || sub == "소모품" {
		return domain.PurchaseSupply
	}
	if category == labelFood || sub == labelFood {
		return domain.PurchaseFood
	}

	target := category + " " + name + " " + sub
	if containsAny(target, pc.FoodKeywords) {
		return domain.PurchaseFood
	}
	if containsAny(target, pc.SupplyKeywords) {
		return domain.PurchaseSupply
	}
	if category == labelMisc || strings.EqualFold(category, "other") {
		return domain.PurchaseOther
	}
	return pc.UnmatchedDefault
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
