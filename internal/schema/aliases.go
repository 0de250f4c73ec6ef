package schema

// AliasTable holds the column-name aliases recognized for each
// canonical field. Source spreadsheets name their columns in Korean
// or English with inconsistent spacing and punctuation; the resolver
// matches against these lists in order, so more specific aliases come
// first. The table is plain data so deployments can swap it out
// without touching lookup logic.
type AliasTable struct {
	// Transaction ledger fields.
	Date              []string
	Amount            []string
	Type              []string
	Revenue           []string
	Expense           []string
	RevenueSecondary  []string
	ExpenseSecondary  []string
	FixedCost         []string
	VariableCost      []string
	Profit            []string
	Counterparty      []string
	Category          []string
	Memo              []string
	PaymentMethod     []string

	// Purchase ledger fields.
	PurchaseDate     []string
	ItemName         []string
	UnitPrice        []string
	Quantity         []string
	LineTotal        []string
	SupplyPrice      []string
	VAT              []string
	Vendor           []string
	PurchaseCategory []string
	SubCategory      []string
	Spec             []string
	Unit             []string

	// Header-row detection keywords per sheet kind.
	TransactionHeaderKeywords []string
	PurchaseHeaderKeywords    []string

	// Row-wide disambiguation keywords used when a single amount
	// column exists with no usable type column.
	RevenueSignals []string
	ExpenseSignals []string

	// Type-column keywords deciding expense vs revenue.
	ExpenseTypeKeywords []string
	RevenueTypeKeywords []string
}

// DefaultAliases returns the alias table covering the Korean and
// English column vocabularies seen in real tenant spreadsheets.
func DefaultAliases() AliasTable {
	return AliasTable{
		Date:   []string{"날짜", "일자", "Date", "date", "Day", "day", "거래일", "승인일"},
		Amount: []string{"금액", "합계", "Amount", "Total", "Price", "거래금액", "입금금액", "출금금액", "입금액", "출금액"},
		Type:   []string{"매출/지출", "구분", "Type", "Category", "Class", "Kind", "InOut", "매출구분", "지출구분", "매출/지출구분", "거래처", "항목"},

		Revenue:          []string{"매출액", "Revenue", "Sales", "입금합계", "수입금액", "수입액"},
		Expense:          []string{"지출총액", "비용", "Expense", "Total Expense", "출금합계", "지출금액", "지출액", "지출합계"},
		RevenueSecondary: []string{"매출", "입금액"},
		ExpenseSecondary: []string{"지출", "출금액", "출금"},

		FixedCost:    []string{"고정비", "임대료/인건비", "FixedCost", "Fixed Cost"},
		VariableCost: []string{"변동비", "식자재비", "VariableCost", "Variable Cost"},
		Profit:       []string{"순이익", "영업이익", "Profit", "Net Profit"},

		Counterparty:  []string{"거래처", "공급사", "입점사", "Vendor", "매출구분", "구분", "Type"},
		Category:      []string{"지출구분", "비용구분", "항목", "계정과목", "품명", "Item", "Category", "Classification"},
		Memo:          []string{"내역", "적요", "세부내용", "Details", "description", "Memo"},
		PaymentMethod: []string{"결제수단", "결제방법", "수단", "PaymentMethod", "Payment", "Method"},

		PurchaseDate: []string{"구매일", "날짜", "일자", "Date", "date", "거래일"},
		ItemName:     []string{"식재료명", "품목", "품명", "자재명", "Name", "Item", "Ingredient", "상품명", "내역", "적요"},
		UnitPrice:    []string{"단가", "가격", "Price", "Unit Price", "cost"},
		Quantity:     []string{"수량", "개수", "Qty", "Quantity", "amount"},
		LineTotal:    []string{"총액", "합계", "금액", "Total", "Total Price", "공급가액", "합계금액"},
		SupplyPrice:  []string{"공급가", "공급가액", "Supply Price"},
		VAT:          []string{"부가세", "세액", "VAT", "Tax"},

		Vendor:           []string{"구매처", "거래처", "공급사", "Vendor", "Supplier", "Source"},
		PurchaseCategory: []string{"분류", "카테고리", "구분", "Category", "Type", "대분류"},
		SubCategory:      []string{"소분류", "Sub Category", "SubCategory", "Detail", "세부분류", "상세분류", "품목분류"},
		Spec:             []string{"규격", "단위규격", "Spec", "Specification"},
		Unit:             []string{"단위", "Unit"},

		TransactionHeaderKeywords: []string{"매출", "Revenue", "날짜", "Date", "일자", "금액", "합계"},
		PurchaseHeaderKeywords:    []string{"식재료명", "구매처", "단가", "Item", "Vendor", "Price", "품목", "명칭"},

		RevenueSignals: []string{"매출", "수입", "입금"},
		ExpenseSignals: []string{"지출", "비용", "출금"},

		ExpenseTypeKeywords: []string{"지출", "비용", "출금", "expense", "output", "차변"},
		RevenueTypeKeywords: []string{"매출", "수입", "입금", "revenue", "income", "input", "대변"},
	}
}
