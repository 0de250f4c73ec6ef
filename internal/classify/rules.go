package classify

// Rule pairs one cost category label with the keywords that select
// it. Matching is first-hit substring search, so tables are ordered:
// categories earlier in a table win over later ones.
type Rule struct {
	Category string
	Keywords []string
}

// RuleTable is the single source of truth for expense
// classification. Both the transaction cost classifier and the
// metrics engine consume this one value; the keyword lists are data,
// not code, so tenants can override them wholesale.
type RuleTable struct {
	Fixed    []Rule
	Variable []Rule
}

// Fallback category assigned when an expense matches nothing and
// carries no usable label of its own.
const FallbackCategory = "Other Variable Cost"

// DefaultRules returns the built-in fixed/variable rule tables. The
// keyword vocabularies mix Korean vendor and account names with
// English equivalents because tenant ledgers freely mix both.
func DefaultRules() RuleTable {
	return RuleTable{
		Fixed: []Rule{
			{Category: "Rent/Maintenance", Keywords: []string{"임대", "월세", "관리비", "보증금", "부동산", "Rent", "Space"}},
			{Category: "Tax/Insurance", Keywords: []string{"세금", "국세", "지방세", "보험", "부가세", "Tax", "Insurance"}},
			{Category: "Communications", Keywords: []string{"통신", "인터넷", "전화", "KT", "LG", "SK", "유플러스"}},
			{Category: "Contracted Services", Keywords: []string{"세스코", "보안", "경비", "캡스", "정수기", "렌탈", "청소", "Service"}},
			{Category: "Financing/Other", Keywords: []string{"이자", "대출", "상환", "카드대금", "협회", "회비", "고정", "감가상각"}},
		},
		Variable: []Rule{
			{Category: "Food", Keywords: []string{"식자재", "농산", "축산", "수산", "유통", "푸드", "청과", "미트", "웰스토리", "프레시", "마트", "시장", "상회", "고기", "쌀", "야채", "Food", "Meat", "Rice", "식품"}},
			{Category: "Beverage/Liquor", Keywords: []string{"주류", "주사", "음료", "하이트", "오비", "칠성", "코카", "와인", "Liquor", "Beer"}},
			{Category: "Labor", Keywords: []string{"급여", "인건비", "알바", "아르바이트", "월급", "직원", "매니저", "스탭", "Part", "Salary", "Payroll", "Wages"}},
			{Category: "Utilities", Keywords: []string{"수도", "가스", "전기", "한전", "삼천리", "예스코", "도시가스", "Utility", "Gas", "Electric"}},
			{Category: "Operating Supplies", Keywords: []string{"쿠팡", "다이소", "비닐", "포장", "용기", "배민상회", "소모품", "잡화", "네이버", "Supplies", "생활"}},
			{Category: "Delivery/Fees", Keywords: []string{"배민", "요기요", "토스", "카드", "수수료", "퀵", "라이더", "부릉", "바로고", "Delivery", "Fee"}},
			{Category: "Marketing", Keywords: []string{"광고", "홍보", "마케팅", "인스타", "페이스북", "블로그", "Marketing", "Ads"}},
		},
	}
}

// KeywordGroups are the category-text tests used by the metrics
// engine to tag classified expenses into the four tracked cost
// groups. A transaction lands in at most one group, tested in the
// declared order.
type KeywordGroups struct {
	Food     []string
	Labor    []string
	Utility  []string
	Supplies []string
}

// DefaultKeywordGroups matches the category labels produced by
// DefaultRules plus the raw labels that pass through the explicit-tag
// path.
func DefaultKeywordGroups() KeywordGroups {
	return KeywordGroups{
		Food:     []string{"식자재", "Food", "Meat"},
		Labor:    []string{"인건비", "급여", "Labor", "Salary", "Wages", "Payroll"},
		Utility:  []string{"수도", "가스", "전기", "광열", "Utilit"},
		Supplies: []string{"운영용품", "운용용품", "소모품", "잡화", "Supplies", "Supply"},
	}
}

// FoodKeywords and SupplyKeywords drive the purchase heuristic
// classifier: an uncategorized line item whose combined text contains
// any of these is tagged food or supply respectively.
func FoodKeywords() []string {
	return []string{
		"육류", "소고기", "돼지고기", "닭고기", "채소", "야채", "과일", "식용유", "소스",
		"파우더", "가루", "면", "쌀", "김치", "해산물", "생선", "냉동", "유제품", "우유",
		"치즈", "계란", "음료", "주류", "커피", "원두", "빵", "베이커리", "밀가루", "설탕",
		"소금", "조미료", "양념", "육수", "토핑", "시럽", "퓨레", "농축액", "파스타", "떡",
		"Meat", "Beef", "Pork", "Chicken", "Vegetable", "Fruit", "Seafood", "Dairy",
		"Coffee", "Bread", "Flour", "Sauce", "Noodle", "Rice",
	}
}

func SupplyKeywords() []string {
	return []string{
		"공산품", "생활용품", "소모품", "주방용품", "잡화", "비품", "포장", "용기",
		"세제", "위생", "타올", "티슈", "휴지", "장갑", "봉투", "호일", "랩",
		"수세미", "부탄", "가스", "세정", "락스", "행주", "컵", "빨대", "캐리어",
		"홀더", "유산지", "이쑤시개", "철수세미", "마스크", "앞치마", "세탁",
		"린스", "샴푸", "비누", "치약", "칫솔", "테이프", "일회용", "종이", "플라스틱",
		"Packaging", "Container", "Detergent", "Tissue", "Glove", "Cup", "Straw",
		"Napkin", "Mask", "Tape", "Disposable", "Paper", "Plastic",
	}
}
