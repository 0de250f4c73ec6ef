package domain

// Granularity selects how transactions are bucketed over time.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityMonthly Granularity = "monthly"
)

// PeriodBucket is one time bucket of aggregated transactions. Key is
// an exact date (`2006-01-02`) for daily buckets and a `2006-01`
// prefix for monthly buckets.
type PeriodBucket struct {
	Key     string  `json:"key"`
	Revenue float64 `json:"revenue"`
	Expense float64 `json:"expense"`
	Profit  float64 `json:"profit"`
}

// CounterpartyTotal aggregates revenue and expense for one
// counterparty name.
type CounterpartyTotal struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Expense float64 `json:"expense"`
	Count   int     `json:"count"`
}

// HealthStatus is the coarse verdict attached to a snapshot based on
// the FL ratio thresholds.
type HealthStatus string

const (
	StatusGood    HealthStatus = "good"
	StatusCaution HealthStatus = "caution"
	StatusRisk    HealthStatus = "risk"
)

// FinancialSnapshot is the derived picture of one analysis window.
// It is recomputed per query and never persisted.
type FinancialSnapshot struct {
	TotalRevenue float64 `json:"total_revenue"`
	TotalExpense float64 `json:"total_expense"`

	FixedCost    float64 `json:"fixed_cost"`
	VariableCost float64 `json:"variable_cost"`
	FoodCost     float64 `json:"food_cost"`
	LaborCost    float64 `json:"labor_cost"`
	UtilityCost  float64 `json:"utility_cost"`
	SuppliesCost float64 `json:"supplies_cost"`

	FLCost             float64      `json:"fl_cost"`
	FLRatio            float64      `json:"fl_ratio"`
	PrimeCost          float64      `json:"prime_cost"`
	ContributionMargin float64      `json:"contribution_margin"`
	CMRatio            float64      `json:"cm_ratio"`
	BreakEvenPoint     float64      `json:"break_even_point"`
	BreakEvenReached   bool         `json:"break_even_reached"`
	RevenuePerHead     float64      `json:"revenue_per_head"`
	LaborRatio         float64      `json:"labor_ratio"`
	Status             HealthStatus `json:"status"`
}

// VendorTotal aggregates purchase spend for one vendor.
type VendorTotal struct {
	Vendor    string  `json:"vendor"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
}

// CostTypeBreakdown splits purchase spend across the three major
// purchase categories.
type CostTypeBreakdown struct {
	FoodTotal   float64 `json:"food_total"`
	FoodCount   int     `json:"food_count"`
	SupplyTotal float64 `json:"supply_total"`
	SupplyCount int     `json:"supply_count"`
	OtherTotal  float64 `json:"other_total"`
	OtherCount  int     `json:"other_count"`
}

// PriceTrend tracks unit-price movement of one purchased item across
// repeat purchases.
type PriceTrend struct {
	ItemName      string  `json:"item_name"`
	LatestPrice   float64 `json:"latest_price"`
	PreviousPrice float64 `json:"previous_price"`
	ChangePercent float64 `json:"change_percent"`
	PurchaseCount int     `json:"purchase_count"`
	TotalSpent    float64 `json:"total_spent"`
	LatestDate    string  `json:"latest_date"`
}
