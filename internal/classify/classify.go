// Package classify assigns cost types and categories to expenses and
// purchase line items. Classification is a pure function of text
// fields against injectable rule tables; nothing here touches I/O or
// mutates shared state, so results are deterministic and safe to
// recompute on demand.
package classify

import (
	"strings"

	"costpulse/pkg/contracts/domain"
)

// Classification is the outcome of classifying one expense.
type Classification struct {
	Type     domain.CostType
	Category string
}

// explicit fixed/variable tags that may be embedded in category text.
var (
	fixedTags    = []string{"(고정비)", "(Fixed)", "(fixed)", "(FIXED)"}
	variableTags = []string{"(변동비)", "(Variable)", "(variable)", "(VARIABLE)"}
)

// Classifier classifies expenses against a rule table. The zero
// value is not usable; construct with NewClassifier.
type Classifier struct {
	rules RuleTable
}

// NewClassifier returns a classifier over the given rule table.
func NewClassifier(rules RuleTable) *Classifier {
	return &Classifier{rules: rules}
}

// Classify resolves the cost type and category for one expense from
// its raw category text and counterparty name.
//
// Resolution order:
//  1. an explicit "(고정비)"/"(Fixed)" or "(변동비)"/"(Variable)" tag in
//     the category text is honored; the tag is stripped and the
//     cleaned label becomes the category,
//  2. the FIXED table, first keyword hit wins,
//  3. the VARIABLE table, same contract,
//  4. fallback: VARIABLE with the cleaned raw label, or
//     FallbackCategory when no label exists at all.
//
// Pure and total: identical input always yields identical output and
// no input can fail.
func (c *Classifier) Classify(categoryRaw, counterparty string) Classification {
	search := categoryRaw + " " + counterparty
	lowerRaw := strings.ToLower(categoryRaw)

	if strings.Contains(categoryRaw, "고정비") || strings.Contains(lowerRaw, "fixed") {
		return Classification{Type: domain.CostTypeFixed, Category: cleanLabel(categoryRaw, counterparty)}
	}
	if strings.Contains(categoryRaw, "변동비") || strings.Contains(lowerRaw, "variable") {
		return Classification{Type: domain.CostTypeVariable, Category: cleanLabel(categoryRaw, counterparty)}
	}

	if cat, ok := matchCategory(search, c.rules.Fixed); ok {
		return Classification{Type: domain.CostTypeFixed, Category: cat}
	}
	if cat, ok := matchCategory(search, c.rules.Variable); ok {
		return Classification{Type: domain.CostTypeVariable, Category: cat}
	}

	fallback := cleanLabel(categoryRaw, counterparty)
	if fallback == "" {
		fallback = FallbackCategory
	}
	return Classification{Type: domain.CostTypeVariable, Category: fallback}
}

// matchCategory runs the first-match (not best-match) table search.
func matchCategory(search string, rules []Rule) (string, bool) {
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(search, kw) {
				return rule.Category, true
			}
		}
	}
	return "", false
}

// cleanLabel picks the category text over the counterparty, strips
// any explicit type tags, and trims the result.
func cleanLabel(categoryRaw, counterparty string) string {
	label := categoryRaw
	if label == "" {
		label = counterparty
	}
	for _, tag := range fixedTags {
		label = strings.ReplaceAll(label, tag, "")
	}
	for _, tag := range variableTags {
		label = strings.ReplaceAll(label, tag, "")
	}
	return strings.TrimSpace(label)
}
