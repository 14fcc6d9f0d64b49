package warranty

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMonthKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Apr", "Apr"},
		{"April", "Apr"},
		{" May ", "May"},
		{"Jun'25", "Jun"},
		{"Ja", "Ja"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MonthKey(tc.in), "input %q", tc.in)
	}
}

func TestCellText(t *testing.T) {
	when := time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"hello", "hello"},
		{decimal.NewFromFloat(12.5), "12.5"},
		{7, "7"},
		{when, "04-09-2025"},
		{3.14, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CellText(tc.in), "input %v", tc.in)
	}
}

func TestCellDecimal(t *testing.T) {
	assert.True(t, CellDecimal(decimal.NewFromInt(42)).Equal(decimal.NewFromInt(42)))
	assert.True(t, CellDecimal(7).Equal(decimal.NewFromInt(7)))
	assert.True(t, CellDecimal("12.5").IsZero(), "strings are not coerced")
	assert.True(t, CellDecimal(nil).IsZero())
}

func TestMissing(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{nil, true},
		{"", true},
		{"   ", true},
		{"nan", true},
		{"NaN", true},
		{"0", false},
		{"x", false},
		{0, false},
		{decimal.Zero, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Missing(tc.in), "input %v", tc.in)
	}
}

func TestRecords(t *testing.T) {
	when := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	table := &SummaryTable{
		Columns: []string{DivisionColumn, "Amount", "Count", "When", "Blank"},
		Rows: []Row{
			{DivisionColumn: "AMT", "Amount": decimal.NewFromFloat(10.25), "Count": 3, "When": when},
		},
	}

	recs := table.Records()
	assert.Len(t, recs, 1)
	assert.Equal(t, "AMT", recs[0][DivisionColumn])
	assert.Equal(t, 10.25, recs[0]["Amount"])
	assert.Equal(t, 3, recs[0]["Count"])
	assert.Equal(t, "2025-06-01", recs[0]["When"])
	assert.Equal(t, 0, recs[0]["Blank"])

	t.Run("empty table yields an empty slice, not nil", func(t *testing.T) {
		recs := (&SummaryTable{}).Records()
		assert.NotNil(t, recs)
		assert.Len(t, recs, 0)
	})
}

func TestTableHelpers(t *testing.T) {
	var nilSource *SourceTable
	assert.True(t, nilSource.Empty())
	assert.False(t, nilSource.HasColumn("Division"))

	src := &SourceTable{Columns: []string{"Division", "Claim No"}}
	assert.True(t, src.Empty())
	assert.True(t, src.HasColumn("Claim No"))
	assert.False(t, src.HasColumn("Missing"))

	var nilSummary *SummaryTable
	assert.True(t, nilSummary.Empty())

	row := Row{DivisionColumn: "WAG"}
	assert.Equal(t, "WAG", row.Division())
	assert.Equal(t, "", Row{}.Division())
}

func TestMonthRank(t *testing.T) {
	assert.Equal(t, 0, monthRank("Apr"))
	assert.Equal(t, 9, monthRank("Jan"))
	assert.Less(t, monthRank("Mar"), monthRank("zzz"), "unknown keys sort last")
}
