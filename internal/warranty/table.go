package warranty

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Division column and sentinel shared by every summary table.
const (
	DivisionColumn  = "Division"
	GrandTotalLabel = "Grand Total"
)

// FiscalMonths is the aggregation calendar. Summaries carry one column per
// entry; the ledger's Fiscal Month cell is matched on its first three
// characters.
var FiscalMonths = []string{"Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// fiscalYearOrder sorts detail-export rows; months outside it go last.
var fiscalYearOrder = []string{"Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec", "Jan", "Feb", "Mar"}

// MonthKey reduces a raw fiscal-month cell to its 3-letter key.
func MonthKey(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) > 3 {
		s = s[:3]
	}
	return s
}

func monthRank(key string) int {
	for i, m := range fiscalYearOrder {
		if m == key {
			return i
		}
	}
	return len(fiscalYearOrder) + 900
}

// Row is one record of a source or summary table. Cell values are string,
// decimal.Decimal, int, time.Time, or nil for a missing cell.
type Row map[string]any

// SourceTable holds the raw rows of one loaded workbook, column order
// preserved. Tables are built once by the loader and never mutated.
type SourceTable struct {
	Name    string
	Columns []string
	Rows    []Row
}

func (t *SourceTable) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

func (t *SourceTable) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// SummaryTable is one aggregated output: division rows in ascending order
// with the Grand Total row last.
type SummaryTable struct {
	Columns []string
	Rows    []Row
}

func (t *SummaryTable) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Division returns the row's division cell as a string.
func (r Row) Division() string {
	return CellText(r[DivisionColumn])
}

// Records flattens the table for the JSON API: decimals become numbers,
// missing cells become 0, column order is carried by the table itself.
func (t *SummaryTable) Records() []map[string]any {
	if t.Empty() {
		return []map[string]any{}
	}
	out := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for _, col := range t.Columns {
			switch v := row[col].(type) {
			case decimal.Decimal:
				rec[col] = v.InexactFloat64()
			case int:
				rec[col] = v
			case string:
				rec[col] = v
			case time.Time:
				rec[col] = v.Format("2006-01-02")
			case nil:
				rec[col] = 0
			default:
				rec[col] = v
			}
		}
		out = append(out, rec)
	}
	return out
}

// CellText renders any cell value for display and width measurement.
func CellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case decimal.Decimal:
		return x.String()
	case int:
		return decimal.NewFromInt(int64(x)).String()
	case time.Time:
		return x.Format("01-02-2006")
	}
	return ""
}

// CellDecimal reads a cell as a decimal; anything non-numeric is zero.
func CellDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return x
	case int:
		return decimal.NewFromInt(int64(x))
	}
	return decimal.Zero
}

// Missing reports whether a cell carries no usable value.
func Missing(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		trimmed := strings.TrimSpace(s)
		return trimmed == "" || strings.EqualFold(trimmed, "nan")
	}
	return false
}
