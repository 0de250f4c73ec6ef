package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costpulse/pkg/contracts/domain"
)

func TestResolveHeaderRow(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]string
		keywords []string
		want     int
	}{
		{
			name:     "keyword in first row",
			rows:     [][]string{{"Date", "Revenue", "Expense"}},
			keywords: []string{"Revenue"},
			want:     0,
		},
		{
			name: "title rows before header",
			rows: [][]string{
				{"Monthly Report"},
				{""},
				{"날짜", "금액", "구분"},
				{"2024-01-01", "50000", "매출"},
			},
			keywords: []string{"날짜", "금액"},
			want:     2,
		},
		{
			name: "no match defaults to zero",
			rows: [][]string{
				{"a", "b"},
				{"c", "d"},
			},
			keywords: []string{"Revenue"},
			want:     0,
		},
		{
			name:     "empty input",
			rows:     nil,
			keywords: []string{"Revenue"},
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveHeaderRow(tt.rows, tt.keywords, nil))
		})
	}
}

func TestResolveHeaderRow_ScanLimit(t *testing.T) {
	// Keyword beyond row 20 must not be found.
	rows := make([][]string, 25)
	for i := range rows {
		rows[i] = []string{"filler"}
	}
	rows[22] = []string{"Revenue"}

	assert.Equal(t, 0, ResolveHeaderRow(rows, []string{"Revenue"}, nil))
}

func TestLookupAlias(t *testing.T) {
	tests := []struct {
		name    string
		row     domain.RawRow
		aliases []string
		want    any
		wantOK  bool
	}{
		{
			name:    "exact key",
			row:     domain.RawRow{"날짜": "2024-01-01"},
			aliases: []string{"날짜", "일자"},
			want:    "2024-01-01",
			wantOK:  true,
		},
		{
			name:    "exact key skips empty value",
			row:     domain.RawRow{"금액": "  ", "거래금액": 5000.0},
			aliases: []string{"금액", "거래금액"},
			want:    5000.0,
			wantOK:  true,
		},
		{
			name:    "normalized equality across spacing",
			row:     domain.RawRow{"지출 금액": 30000.0},
			aliases: []string{"지출금액"},
			want:    30000.0,
			wantOK:  true,
		},
		{
			name:    "normalized equality across case",
			row:     domain.RawRow{"REVENUE": 100.0},
			aliases: []string{"Revenue"},
			want:    100.0,
			wantOK:  true,
		},
		{
			name:    "containment match",
			row:     domain.RawRow{"지출금액(원)": 45000.0},
			aliases: []string{"지출금액"},
			want:    45000.0,
			wantOK:  true,
		},
		{
			name:    "short alias excluded from containment",
			row:     domain.RawRow{"x-ray": 1.0},
			aliases: []string{"x"},
			want:    nil,
			wantOK:  false,
		},
		{
			name:    "short alias still matches exactly",
			row:     domain.RawRow{"월": "2024-01"},
			aliases: []string{"월"},
			want:    "2024-01",
			wantOK:  true,
		},
		{
			name:    "no match",
			row:     domain.RawRow{"foo": "bar"},
			aliases: []string{"날짜"},
			want:    nil,
			wantOK:  false,
		},
		{
			name:    "nil value is empty",
			row:     domain.RawRow{"Date": nil},
			aliases: []string{"Date"},
			want:    nil,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LookupAlias(tt.row, tt.aliases)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLookupAlias_AliasOrderWins(t *testing.T) {
	// Earlier aliases take priority over later ones regardless of key
	// ordering in the row.
	row := domain.RawRow{
		"지출액": 1000.0,
		"지출총액": 2000.0,
	}
	got, ok := LookupAlias(row, []string{"지출총액", "지출액"})
	require.True(t, ok)
	assert.Equal(t, 2000.0, got)
}

func TestLookupString(t *testing.T) {
	row := domain.RawRow{"거래처": "  웰스토리  ", "수량": 3.0}

	assert.Equal(t, "웰스토리", LookupString(row, []string{"거래처"}))
	assert.Equal(t, "3", LookupString(row, []string{"수량"}))
	assert.Equal(t, "", LookupString(row, []string{"없는키"}))
}

func TestSerialize(t *testing.T) {
	row := domain.RawRow{"구분": "매출", "금액": 50000.0}
	s := Serialize(row)

	assert.Contains(t, s, "매출")
	assert.Contains(t, s, "50000")
	// Stable across calls.
	assert.Equal(t, s, Serialize(row))
}

func TestDefaultAliases_CoverCanonicalFields(t *testing.T) {
	a := DefaultAliases()

	for name, list := range map[string][]string{
		"date":          a.Date,
		"amount":        a.Amount,
		"type":          a.Type,
		"revenue":       a.Revenue,
		"expense":       a.Expense,
		"counterparty":  a.Counterparty,
		"category":      a.Category,
		"memo":          a.Memo,
		"paymentMethod": a.PaymentMethod,
		"itemName":      a.ItemName,
		"unitPrice":     a.UnitPrice,
		"quantity":      a.Quantity,
		"lineTotal":     a.LineTotal,
		"vendor":        a.Vendor,
	} {
		assert.NotEmpty(t, list, "alias list %s must not be empty", name)
	}

	assert.Contains(t, a.TransactionHeaderKeywords, "Revenue")
	assert.Contains(t, a.PurchaseHeaderKeywords, "Vendor")
}
