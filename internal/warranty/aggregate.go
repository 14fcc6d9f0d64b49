package warranty

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"WarrantyDesk/internal/validation"
)

// Summary column names shared with the export builder.
const (
	ColTotalCredit        = "Total Credit"
	ColTotalDebit         = "Total Debit"
	ColPendingArbitration = "Pending Claim Arbitration"
	ColSparesCount        = "Pending Claims Spares Count"
	ColLabourCount        = "Pending Claims Labour Count"
	ColTotalPending       = "Total Pending Claims"
	ColTotalClaims        = "Total Claims"
	ColTotalClaimAmount   = "Total Claim Amount"
	ColTotalApproved      = "Total Approved Amount"
	ColAvgDays            = "Avg No. of Days"
	ColTotalRequests      = "Total Requests"
	ColTotalCostOfRepair  = "Total Cost of Repair"
	ColRequestedAmount    = "Req. Claim Amt from M&M"
)

// AggregateCredit folds the ledger into the per-division credit summary:
// one column per fiscal month plus the row-wise total.
func AggregateCredit(ledger *SourceTable) (*SummaryTable, error) {
	if err := checkLedger(ledger); err != nil {
		return nil, err
	}
	return pivotLedger(ledger, "Credit Note Amount", "Credit Note", ColTotalCredit), nil
}

// AggregateDebit is the debit-side twin of AggregateCredit.
func AggregateDebit(ledger *SourceTable) (*SummaryTable, error) {
	if err := checkLedger(ledger); err != nil {
		return nil, err
	}
	return pivotLedger(ledger, "Debit Note Amount", "Debit Note", ColTotalDebit), nil
}

// AggregateArbitration sums debit amounts of arbitration-tagged claims per
// division and month, then derives the pending figure against the debit
// summary: max(0, total debit - total claimed). Never negative.
func AggregateArbitration(ledger *SourceTable, debit *SummaryTable) (*SummaryTable, error) {
	if err := checkLedger(ledger); err != nil {
		return nil, err
	}
	if debit.Empty() {
		return nil, fmt.Errorf("arbitration needs the debit summary: %w", ErrSchemaMismatch)
	}

	columns := []string{DivisionColumn}
	for _, m := range FiscalMonths {
		columns = append(columns, "Claim Arbitration "+m)
	}
	columns = append(columns, ColPendingArbitration)

	divisions, sums := pivotSums(ledger, "Debit Note Amount", func(row Row) bool {
		return IsArbitrationID(row["Claim arbitration ID"])
	})

	totalDebit := make(map[string]decimal.Decimal, len(debit.Rows))
	for _, row := range debit.Rows {
		if div := row.Division(); div != GrandTotalLabel {
			totalDebit[div] = CellDecimal(row[ColTotalDebit])
		}
	}

	table := &SummaryTable{Columns: columns}
	for _, div := range divisions {
		row := Row{DivisionColumn: div}
		claimed := decimal.Zero
		for _, m := range FiscalMonths {
			v := sums[div][m]
			row["Claim Arbitration "+m] = v
			claimed = claimed.Add(v)
		}
		pending := totalDebit[div].Sub(claimed)
		if pending.IsNegative() {
			pending = decimal.Zero
		}
		row[ColPendingArbitration] = pending
		table.Rows = append(table.Rows, row)
	}
	appendGrandTotal(table)
	return table, nil
}

// AggregateCurrentMonth counts non-missing pending-claim cells per division.
// Counts, not sums: a division's figure is how many rows still carry a value
// in the spares/labour column. Returns the division-filtered source rows for
// the detail export.
func AggregateCurrentMonth(src *SourceTable) (*SummaryTable, *SourceTable, error) {
	if src == nil {
		return nil, nil, fmt.Errorf("%s: %w", PendingClaimsSchema.Logical, ErrSourceMissing)
	}
	if res := validation.RequireColumns(PendingClaimsSchema.Logical, src.Columns, PendingClaimsSchema.RequiredColumns()); !res.OK() {
		return nil, nil, fmt.Errorf("%s: %w", res.Describe(), ErrSchemaMismatch)
	}

	retained := &SourceTable{Name: src.Name, Columns: src.Columns}
	spares := map[string]int{}
	labour := map[string]int{}
	divSet := map[string]bool{}
	for _, row := range src.Rows {
		div := CellText(row[DivisionColumn])
		if div == "" {
			continue
		}
		retained.Rows = append(retained.Rows, row)
		divSet[div] = true
		if !Missing(row["Pending Claims Spares"]) {
			spares[div]++
		}
		if !Missing(row["Pending Claims Labour"]) {
			labour[div]++
		}
	}

	table := &SummaryTable{Columns: []string{DivisionColumn, ColSparesCount, ColLabourCount, ColTotalPending}}
	for _, div := range sortedKeys(divSet) {
		table.Rows = append(table.Rows, Row{
			DivisionColumn:  div,
			ColSparesCount:  spares[div],
			ColLabourCount:  labour[div],
			ColTotalPending: spares[div] + labour[div],
		})
	}
	appendGrandTotal(table)
	return table, retained, nil
}

// AggregateCompensation trims the source to the allow-list columns actually
// present, formats record ids with the RO prefix, and sums claim amounts per
// division. Avg No. of Days is the mean of the raw column; its grand total is
// the mean of the division means, not a sum.
func AggregateCompensation(src *SourceTable) (*SummaryTable, *SourceTable, error) {
	if src == nil {
		return nil, nil, fmt.Errorf("%s: %w", CompensationSchema.Logical, ErrSourceMissing)
	}
	present, _ := validation.AllowListed(src.Columns, compensationAllowList)
	if len(present) == 0 {
		return nil, nil, fmt.Errorf("%s has no usable columns: %w", CompensationSchema.Logical, ErrSchemaMismatch)
	}
	if !contains(present, DivisionColumn) {
		return nil, nil, fmt.Errorf("%s missing %s: %w", CompensationSchema.Logical, DivisionColumn, ErrSchemaMismatch)
	}

	retained := &SourceTable{Name: src.Name, Columns: present}
	type acc struct {
		count    int
		claimed  decimal.Decimal
		approved decimal.Decimal
		days     decimal.Decimal
	}
	byDiv := map[string]*acc{}
	for _, row := range src.Rows {
		div := CellText(row[DivisionColumn])
		if div == "" {
			continue
		}
		kept := make(Row, len(present))
		for _, col := range present {
			kept[col] = row[col]
		}
		if contains(present, "RO Id.") {
			kept["RO Id."] = FormatROID(kept["RO Id."])
		}
		retained.Rows = append(retained.Rows, kept)

		a := byDiv[div]
		if a == nil {
			a = &acc{}
			byDiv[div] = a
		}
		a.count++
		a.claimed = a.claimed.Add(CellDecimal(row["Claim Amount"]))
		a.approved = a.approved.Add(CellDecimal(row["Claim Approved Amt."]))
		a.days = a.days.Add(CellDecimal(row["No. of Days"]))
	}

	columns := []string{DivisionColumn, ColTotalClaims}
	hasClaim := contains(present, "Claim Amount")
	hasApproved := contains(present, "Claim Approved Amt.")
	hasDays := contains(present, "No. of Days")
	if hasClaim {
		columns = append(columns, ColTotalClaimAmount)
	}
	if hasApproved {
		columns = append(columns, ColTotalApproved)
	}
	if hasDays {
		columns = append(columns, ColAvgDays)
	}

	divisions := make([]string, 0, len(byDiv))
	for div := range byDiv {
		divisions = append(divisions, div)
	}
	sort.Strings(divisions)

	table := &SummaryTable{Columns: columns}
	avgSum := decimal.Zero
	for _, div := range divisions {
		a := byDiv[div]
		row := Row{DivisionColumn: div, ColTotalClaims: a.count}
		if hasClaim {
			row[ColTotalClaimAmount] = a.claimed
		}
		if hasApproved {
			row[ColTotalApproved] = a.approved
		}
		if hasDays {
			avg := a.days.Div(decimal.NewFromInt(int64(a.count)))
			row[ColAvgDays] = avg
			avgSum = avgSum.Add(avg)
		}
		table.Rows = append(table.Rows, row)
	}
	appendGrandTotal(table)
	if hasDays && len(table.Rows) > 1 {
		gt := table.Rows[len(table.Rows)-1]
		gt[ColAvgDays] = avgSum.Div(decimal.NewFromInt(int64(len(table.Rows) - 1)))
	}
	return table, retained, nil
}

// AggregatePRApproval groups the PR approval export by division, counting
// requests and summing the repair/requested/approved amounts. The full source
// is retained for export.
func AggregatePRApproval(src *SourceTable) (*SummaryTable, *SourceTable, error) {
	if src == nil {
		return nil, nil, fmt.Errorf("%s: %w", PRApprovalSchema.Logical, ErrSourceMissing)
	}
	if res := validation.RequireColumns(PRApprovalSchema.Logical, src.Columns, PRApprovalSchema.RequiredColumns()); !res.OK() {
		return nil, nil, fmt.Errorf("%s: %w", res.Describe(), ErrSchemaMismatch)
	}

	retained := &SourceTable{Name: src.Name, Columns: src.Columns}
	type acc struct {
		count     int
		repair    decimal.Decimal
		requested decimal.Decimal
		approved  decimal.Decimal
	}
	byDiv := map[string]*acc{}
	for _, row := range src.Rows {
		div := CellText(row[DivisionColumn])
		if div == "" {
			continue
		}
		retained.Rows = append(retained.Rows, row)
		a := byDiv[div]
		if a == nil {
			a = &acc{}
			byDiv[div] = a
		}
		a.count++
		a.repair = a.repair.Add(CellDecimal(row[ColTotalCostOfRepair]))
		a.requested = a.requested.Add(CellDecimal(row[ColRequestedAmount]))
		a.approved = a.approved.Add(CellDecimal(row["App. Claim Amt from M&M"]))
	}

	columns := []string{DivisionColumn, ColTotalRequests}
	hasRepair := src.HasColumn(ColTotalCostOfRepair)
	hasRequested := src.HasColumn(ColRequestedAmount)
	hasApproved := src.HasColumn("App. Claim Amt from M&M")
	if hasRepair {
		columns = append(columns, ColTotalCostOfRepair)
	}
	if hasRequested {
		columns = append(columns, ColRequestedAmount)
	}
	if hasApproved {
		columns = append(columns, ColTotalApproved)
	}

	divisions := make([]string, 0, len(byDiv))
	for div := range byDiv {
		divisions = append(divisions, div)
	}
	sort.Strings(divisions)

	table := &SummaryTable{Columns: columns}
	for _, div := range divisions {
		a := byDiv[div]
		row := Row{DivisionColumn: div, ColTotalRequests: a.count}
		if hasRepair {
			row[ColTotalCostOfRepair] = a.repair
		}
		if hasRequested {
			row[ColRequestedAmount] = a.requested
		}
		if hasApproved {
			row[ColTotalApproved] = a.approved
		}
		table.Rows = append(table.Rows, row)
	}
	appendGrandTotal(table)
	return table, retained, nil
}

// IsArbitrationID reports whether a cell carries a recognized arbitration
// claim id: trimmed and uppercased it starts with ARB and is not empty/NAN.
func IsArbitrationID(v any) bool {
	if Missing(v) {
		return false
	}
	s := strings.ToUpper(strings.TrimSpace(CellText(v)))
	return strings.HasPrefix(s, "ARB") && s != "NAN" && s != ""
}

// EmptyOrHyphenID matches rows with no real arbitration id: missing, empty,
// a bare hyphen, or the NAN sentinel.
func EmptyOrHyphenID(v any) bool {
	if Missing(v) {
		return true
	}
	s := strings.TrimSpace(CellText(v))
	return s == "" || s == "-" || strings.EqualFold(s, "nan")
}

// FormatROID renders a record id with the RO prefix: numeric ids truncate to
// integers ("1001.0" becomes RO1001), everything else is prefixed unless it
// already starts with RO.
func FormatROID(v any) string {
	if Missing(v) {
		return ""
	}
	s := strings.TrimSpace(CellText(v))
	if s == "" {
		return ""
	}
	if d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "")); err == nil {
		return "RO" + d.Truncate(0).String()
	}
	if !strings.HasPrefix(s, "RO") {
		return "RO" + s
	}
	return s
}

// FormatClaimNo renders a claim number as text, truncating numeric values to
// integers the way the dashboard shows them.
func FormatClaimNo(v any) string {
	if Missing(v) {
		return ""
	}
	s := strings.TrimSpace(CellText(v))
	if s == "" {
		return ""
	}
	if d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "")); err == nil {
		return d.Truncate(0).String()
	}
	return s
}

func checkLedger(ledger *SourceTable) error {
	if ledger == nil {
		return fmt.Errorf("%s: %w", LedgerSchema.Logical, ErrSourceMissing)
	}
	res := validation.RequireColumns(LedgerSchema.Logical, ledger.Columns, LedgerSchema.RequiredColumns())
	if !res.OK() {
		return fmt.Errorf("%s: %w", res.Describe(), ErrSchemaMismatch)
	}
	return nil
}

// pivotLedger produces the month-pivoted credit/debit shape.
func pivotLedger(ledger *SourceTable, amountCol, prefix, totalCol string) *SummaryTable {
	columns := []string{DivisionColumn}
	for _, m := range FiscalMonths {
		columns = append(columns, prefix+" "+m)
	}
	columns = append(columns, totalCol)

	divisions, sums := pivotSums(ledger, amountCol, nil)

	table := &SummaryTable{Columns: columns}
	for _, div := range divisions {
		row := Row{DivisionColumn: div}
		total := decimal.Zero
		for _, m := range FiscalMonths {
			v := sums[div][m]
			row[prefix+" "+m] = v
			total = total.Add(v)
		}
		row[totalCol] = total
		table.Rows = append(table.Rows, row)
	}
	appendGrandTotal(table)
	return table
}

// pivotSums groups ledger rows by division and fiscal month, summing
// amountCol over rows that pass the filter. Divisions whose rows fall only
// outside the calendar still get an all-zero row.
func pivotSums(ledger *SourceTable, amountCol string, filter func(Row) bool) ([]string, map[string]map[string]decimal.Decimal) {
	divSet := map[string]bool{}
	sums := map[string]map[string]decimal.Decimal{}
	for _, row := range ledger.Rows {
		location := CellText(row["Dealer Location"])
		if location == "" {
			continue
		}
		div := NormalizeDealer(location)
		divSet[div] = true
		if filter != nil && !filter(row) {
			continue
		}
		month := MonthKey(CellText(row["Fiscal Month"]))
		if !calendarMonth(month) {
			continue
		}
		if sums[div] == nil {
			sums[div] = map[string]decimal.Decimal{}
		}
		sums[div][month] = sums[div][month].Add(CellDecimal(row[amountCol]))
	}
	return sortedKeys(divSet), sums
}

// appendGrandTotal closes a summary with the sentinel row: column-wise sums
// for numeric columns, blank for text.
func appendGrandTotal(t *SummaryTable) {
	gt := Row{DivisionColumn: GrandTotalLabel}
	for _, col := range t.Columns {
		if col == DivisionColumn {
			continue
		}
		dsum := decimal.Zero
		isum := 0
		kind := 0
		for _, row := range t.Rows {
			switch v := row[col].(type) {
			case decimal.Decimal:
				dsum = dsum.Add(v)
				kind = 1
			case int:
				isum += v
				if kind == 0 {
					kind = 2
				}
			}
		}
		switch kind {
		case 1:
			gt[col] = dsum
		case 2:
			gt[col] = isum
		default:
			gt[col] = nil
		}
	}
	t.Rows = append(t.Rows, gt)
}

func calendarMonth(key string) bool {
	for _, m := range FiscalMonths {
		if m == key {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}
