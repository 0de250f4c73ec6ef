package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costpulse/internal/classify"
	"costpulse/pkg/contracts/domain"
)

func newTestEngine() *Engine {
	return NewEngine(nil, classify.DefaultKeywordGroups(), nil)
}

func expense(category string, amount float64) domain.Transaction {
	return domain.Transaction{Date: "2024-01-15", Expense: amount, CategoryRaw: category}
}

func revenue(amount float64) domain.Transaction {
	return domain.Transaction{Date: "2024-01-15", Revenue: amount}
}

func TestEngine_Snapshot_CostAccumulation(t *testing.T) {
	e := newTestEngine()

	txs := []domain.Transaction{
		revenue(1000000),
		expense("식자재", 50000),
		expense("직원 급여", 150000),
		expense("전기요금", 30000),
		expense("소모품 구매", 20000),
		expense("월세", 200000),
	}

	snap := e.Snapshot(context.Background(), txs, nil, 5)

	assert.Equal(t, 1000000.0, snap.TotalRevenue)
	assert.Equal(t, 450000.0, snap.TotalExpense)
	assert.Equal(t, 50000.0, snap.FoodCost)
	assert.Equal(t, 150000.0, snap.LaborCost)
	assert.Equal(t, 30000.0, snap.UtilityCost)
	assert.Equal(t, 20000.0, snap.SuppliesCost)
	assert.Equal(t, 200000.0, snap.FixedCost)
	assert.Equal(t, 250000.0, snap.VariableCost)

	assert.Equal(t, 200000.0, snap.FLCost)
	assert.InDelta(t, 20.0, snap.FLRatio, 1e-9)
	assert.Equal(t, 230000.0, snap.PrimeCost)
	assert.Equal(t, 200000.0, snap.RevenuePerHead)
	assert.InDelta(t, 15.0, snap.LaborRatio, 1e-9)
	assert.Equal(t, domain.StatusGood, snap.Status)
}

func TestEngine_Snapshot_BreakEven(t *testing.T) {
	e := newTestEngine()

	// totalRevenue=1,000,000; fixedCost=200,000; variableCost=300,000
	// cmRatio=0.70; BEP = 200,000 / 0.70 ≈ 285,714
	txs := []domain.Transaction{
		revenue(1000000),
		expense("월세(고정비)", 200000),
		expense("재료(변동비)", 300000),
	}

	snap := e.Snapshot(context.Background(), txs, nil, 0)

	assert.InDelta(t, 0.70, snap.CMRatio, 1e-9)
	assert.InDelta(t, 285714.285714, snap.BreakEvenPoint, 0.001)
	assert.True(t, snap.BreakEvenReached)
	assert.Equal(t, 0.0, snap.RevenuePerHead)
}

func TestEngine_Snapshot_ZeroFixedCostZeroBEP(t *testing.T) {
	e := newTestEngine()

	txs := []domain.Transaction{
		revenue(500000),
		expense("식자재", 100000),
	}

	snap := e.Snapshot(context.Background(), txs, nil, 3)

	assert.Equal(t, 0.0, snap.FixedCost)
	assert.Equal(t, 0.0, snap.BreakEvenPoint)
	assert.False(t, snap.BreakEvenReached)
}

func TestEngine_Snapshot_FoodCostFallbackFromPurchases(t *testing.T) {
	e := newTestEngine()

	txs := []domain.Transaction{
		revenue(800000),
		expense("월세", 100000),
	}
	purchases := []domain.Purchase{
		{Date: "2024-01-10", ItemName: "한우", LineTotal: 120000},
		{Date: "2024-01-12", ItemName: "야채", LineTotal: 30000},
	}

	snap := e.Snapshot(context.Background(), txs, purchases, 0)

	assert.Equal(t, 150000.0, snap.FoodCost)
	assert.Equal(t, 150000.0, snap.VariableCost)
	assert.Equal(t, 150000.0, snap.FLCost)
}

func TestEngine_Snapshot_NoFallbackWhenFoodClassified(t *testing.T) {
	e := newTestEngine()

	txs := []domain.Transaction{
		revenue(800000),
		expense("식자재", 60000),
	}
	purchases := []domain.Purchase{
		{Date: "2024-01-10", ItemName: "한우", LineTotal: 120000},
	}

	snap := e.Snapshot(context.Background(), txs, purchases, 0)

	assert.Equal(t, 60000.0, snap.FoodCost)
	assert.Equal(t, 60000.0, snap.VariableCost)
}

func TestEngine_Snapshot_StatusTiers(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name     string
		flCost   float64
		want     domain.HealthStatus
	}{
		{name: "65 percent is good", flCost: 650000, want: domain.StatusGood},
		{name: "70 percent is caution", flCost: 700000, want: domain.StatusCaution},
		{name: "above 70 is risk", flCost: 750000, want: domain.StatusRisk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := []domain.Transaction{
				revenue(1000000),
				expense("식자재", tt.flCost),
			}
			snap := e.Snapshot(context.Background(), txs, nil, 0)
			assert.Equal(t, tt.want, snap.Status)
		})
	}
}

func TestEngine_Snapshot_SingleCostGroupPerTransaction(t *testing.T) {
	e := newTestEngine()

	// A category matching both food and supplies keywords counts
	// only toward food, the first group tested.
	txs := []domain.Transaction{
		revenue(100000),
		expense("식자재 소모품", 10000),
	}

	snap := e.Snapshot(context.Background(), txs, nil, 0)

	assert.Equal(t, 10000.0, snap.FoodCost)
	assert.Equal(t, 0.0, snap.SuppliesCost)
}

func TestEngine_Snapshot_EmptyDataset(t *testing.T) {
	e := newTestEngine()

	snap := e.Snapshot(context.Background(), nil, nil, 5)

	assert.Zero(t, snap.TotalRevenue)
	assert.Zero(t, snap.TotalExpense)
	assert.Zero(t, snap.FLRatio)
	assert.Zero(t, snap.BreakEvenPoint)
	assert.Zero(t, snap.RevenuePerHead)
	assert.Equal(t, domain.StatusGood, snap.Status)
}

func TestEngine_Snapshot_ScenarioC(t *testing.T) {
	// Food-keyword expense lands in variable cost and the food
	// accumulator.
	e := newTestEngine()

	txs := []domain.Transaction{expense("식자재", 50000)}
	snap := e.Snapshot(context.Background(), txs, nil, 0)

	assert.Equal(t, 50000.0, snap.VariableCost)
	assert.Equal(t, 50000.0, snap.FoodCost)
	assert.Equal(t, 0.0, snap.FixedCost)
}

func TestVendorTotals(t *testing.T) {
	ps := []domain.Purchase{
		{Vendor: "쿠팡", LineTotal: 30000},
		{Vendor: "웰스토리", LineTotal: 100000},
		{Vendor: "쿠팡", LineTotal: 25000},
		{Vendor: "", LineTotal: 1000},
	}

	got := VendorTotals(ps)

	require.Len(t, got, 3)
	assert.Equal(t, "웰스토리", got[0].Vendor)
	assert.Equal(t, 100000.0, got[0].Total)
	assert.Equal(t, "쿠팡", got[1].Vendor)
	assert.Equal(t, 55000.0, got[1].Total)
	assert.Equal(t, 2, got[1].ItemCount)
	assert.Equal(t, domain.DefaultCounterparty, got[2].Vendor)
}

func TestCostBreakdown(t *testing.T) {
	ps := []domain.Purchase{
		{MajorCategory: domain.PurchaseFood, LineTotal: 50000},
		{MajorCategory: domain.PurchaseFood, LineTotal: 20000},
		{MajorCategory: domain.PurchaseSupply, LineTotal: 9000},
		{MajorCategory: domain.PurchaseOther, LineTotal: 300000},
	}

	got := CostBreakdown(ps, nil)

	assert.Equal(t, 70000.0, got.FoodTotal)
	assert.Equal(t, 2, got.FoodCount)
	assert.Equal(t, 9000.0, got.SupplyTotal)
	assert.Equal(t, 300000.0, got.OtherTotal)
}

func TestPriceTrends(t *testing.T) {
	ps := []domain.Purchase{
		{ItemName: "삼겹살", Date: "2024-01-01", UnitPrice: 10000, LineTotal: 50000},
		{ItemName: "삼겹살", Date: "2024-02-01", UnitPrice: 12000, LineTotal: 60000},
		{ItemName: "양파", Date: "2024-01-05", UnitPrice: 2000, LineTotal: 2000},
		{ItemName: "양파", Date: "2024-02-05", UnitPrice: 2100, LineTotal: 2100},
		{ItemName: "한번만", Date: "2024-01-01", UnitPrice: 500, LineTotal: 500},
	}

	got := PriceTrends(ps)

	require.Len(t, got, 2, "single-purchase items excluded")
	assert.Equal(t, "삼겹살", got[0].ItemName, "largest absolute change first")
	assert.InDelta(t, 20.0, got[0].ChangePercent, 1e-9)
	assert.Equal(t, 110000.0, got[0].TotalSpent)
	assert.Equal(t, "2024-02-01", got[0].LatestDate)
	assert.InDelta(t, 5.0, got[1].ChangePercent, 1e-9)
}

func TestPriceTrends_ZeroPreviousPrice(t *testing.T) {
	ps := []domain.Purchase{
		{ItemName: "증정품", Date: "2024-01-01", UnitPrice: 0, LineTotal: 0},
		{ItemName: "증정품", Date: "2024-02-01", UnitPrice: 1000, LineTotal: 1000},
	}

	got := PriceTrends(ps)
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].ChangePercent)
}
