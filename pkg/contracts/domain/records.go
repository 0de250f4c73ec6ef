package domain

// RawRow is a single spreadsheet row as handed over by a reader
// collaborator: arbitrary string keys mapped to whatever scalar the
// source cell held (string, float64, int, or nil). No schema is
// assumed; the schema resolver decides what each key means.
type RawRow map[string]any

// UnknownDate is the sentinel used when no date could be resolved for
// a row. It sorts after all ISO dates, which keeps undated rows at the
// tail of chronologically sorted output.
const UnknownDate = "Unknown Date"

// DefaultCounterparty is assigned when a transaction carries no
// client or vendor name.
const DefaultCounterparty = "General"

// Transaction is the canonical normalized form of one revenue or
// expense row, independent of the source column naming. Dates are
// ISO-8601 (`2006-01-02`) strings or UnknownDate. Revenue and Expense
// are always non-negative; Profit may be negative.
type Transaction struct {
	Date          string  `json:"date"`
	Revenue       float64 `json:"revenue"`
	Expense       float64 `json:"expense"`
	FixedCost     float64 `json:"fixed_cost,omitempty"`
	VariableCost  float64 `json:"variable_cost,omitempty"`
	Profit        float64 `json:"profit"`
	Counterparty  string  `json:"counterparty"`
	CategoryRaw   string  `json:"category_raw,omitempty"`
	Memo          string  `json:"memo,omitempty"`
	PaymentMethod string  `json:"payment_method,omitempty"`
}

// IsEmpty reports whether the transaction carries no financial signal
// at all. Such rows are artifacts of header or spacer rows in the
// source sheet and are dropped during normalization.
func (t Transaction) IsEmpty() bool {
	return t.Revenue == 0 && t.Expense == 0 && t.FixedCost == 0 && t.VariableCost == 0 && t.Profit == 0
}

// CostType distinguishes fixed from variable expenses.
type CostType string

const (
	CostTypeFixed    CostType = "FIXED"
	CostTypeVariable CostType = "VARIABLE"
)

// PurchaseCategory is the major category of a purchase line item.
type PurchaseCategory string

const (
	PurchaseFood   PurchaseCategory = "FOOD"
	PurchaseSupply PurchaseCategory = "SUPPLY"
	PurchaseOther  PurchaseCategory = "OTHER"
)

// Purchase is one normalized purchase-ledger line item.
// LineTotal ≈ UnitPrice × Quantity when both are present; when the
// source omits the total it is reconstructed from the product.
type Purchase struct {
	ID            string           `json:"id"`
	Date          string           `json:"date"`
	Vendor        string           `json:"vendor"`
	ItemName      string           `json:"item_name"`
	Spec          string           `json:"spec,omitempty"`
	Unit          string           `json:"unit,omitempty"`
	Quantity      float64          `json:"quantity"`
	UnitPrice     float64          `json:"unit_price"`
	SupplyPrice   float64          `json:"supply_price,omitempty"`
	VAT           float64          `json:"vat,omitempty"`
	LineTotal     float64          `json:"line_total"`
	MajorCategory PurchaseCategory `json:"major_category"`
	SubCategory   string           `json:"sub_category,omitempty"`
	CategoryRaw   string           `json:"category_raw,omitempty"`
}
