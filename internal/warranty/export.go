package warranty

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// exportLabels maps the request type to the filename label. Keys are the
// accepted export types.
var exportLabels = map[string]string{
	"credit":       "credit",
	"debit":        "debit",
	"arbitration":  "arbitration",
	"currentmonth": "CurrentMonthWarranty",
	"compensation": "CompensationClaim",
	"pr_approval":  "PrApproval",
}

// ledgerDetailBase is the column order of the ledger detail sheets; the
// amount columns for the export type follow it.
var ledgerDetailBase = []string{
	"Fiscal Month",
	"Dealer Location",
	"Claim arbitration ID",
	"Claim Invoice Date",
	"Claim No",
	"Claim Date",
	"Chassis No",
	"Ro Id",
	"Claim Type",
}

// ValidExportType reports whether t names an exportable table.
func ValidExportType(t string) bool {
	_, ok := exportLabels[t]
	return ok
}

// Export renders the requested table as a styled workbook: the summary sheet
// first, then the detail sheets the type defines. Returns the download
// filename and the xlsx bytes.
func Export(d *AggregatedDataset, exportType, division string) (string, []byte, error) {
	if division == "" {
		division = "All"
	}
	if !ValidExportType(exportType) {
		return "", nil, fmt.Errorf("%s: %w", exportType, ErrInvalidExportType)
	}
	section := d.Section(exportType)
	if section.Empty() {
		return "", nil, fmt.Errorf("%s: %w", exportType, ErrExportNoData)
	}

	f := excelize.NewFile()
	defer f.Close()
	st, err := newExportStyles(f)
	if err != nil {
		return "", nil, err
	}

	specific := divisionSpecific(division)
	rows := section.Summary.Rows
	if specific {
		rows = filterSummary(section.Summary, division)
	}

	title := summaryTitle(exportType, division, specific)
	if err := f.SetSheetName("Sheet1", title); err != nil {
		return "", nil, err
	}
	numStyle := st.number
	if exportType == "currentmonth" {
		numStyle = st.count
	}
	if err := writeSheet(f, st, title, section.Summary.Columns, rows, nil, numStyle, 30); err != nil {
		return "", nil, err
	}

	switch exportType {
	case "credit", "debit", "arbitration":
		if specific {
			if err := appendLedgerDetail(f, st, section.Source, exportType, division); err != nil {
				return "", nil, err
			}
			if exportType == "arbitration" {
				if err := appendPendingArbitration(f, st, section.Source, division); err != nil {
					return "", nil, err
				}
			}
		}
	case "currentmonth":
		if err := appendPendingDetail(f, st, section.Source, division, "Pending Claims Spares", "Spares", "Pending Spares Claims"); err != nil {
			return "", nil, err
		}
		if err := appendPendingDetail(f, st, section.Source, division, "Pending Claims Labour", "Labour", "Pending Labour Claims"); err != nil {
			return "", nil, err
		}
	case "compensation":
		if err := appendCompensationDetail(f, st, section.Source, division); err != nil {
			return "", nil, err
		}
	case "pr_approval":
		if err := appendSourceDetail(f, st, section.Source, division, "PR Approval Details"); err != nil {
			return "", nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", nil, err
	}
	name := fmt.Sprintf("%s_%s_%s.xlsx", division, exportLabels[exportType], time.Now().Format("20060102_150405"))
	return name, buf.Bytes(), nil
}

func divisionSpecific(division string) bool {
	return division != "" && division != "All" && division != GrandTotalLabel
}

func summaryTitle(exportType, division string, specific bool) string {
	switch exportType {
	case "credit", "debit", "arbitration":
		if specific {
			return sheetTitle(division + " - " + capitalize(exportType))
		}
		return capitalize(exportType)
	case "currentmonth":
		if specific {
			return sheetTitle(division + " - Summary")
		}
		return "Current Month Summary"
	case "compensation":
		if specific {
			return sheetTitle(division + " - Summary")
		}
		return "Compensation Summary"
	default:
		if specific {
			return sheetTitle(division + " - Summary")
		}
		return "PR Approval Summary"
	}
}

// filterSummary keeps the chosen division's rows and re-appends the Grand
// Total row so the exported sheet still closes with it.
func filterSummary(t *SummaryTable, division string) []Row {
	var rows, grand []Row
	for _, r := range t.Rows {
		switch r.Division() {
		case division:
			rows = append(rows, r)
		case GrandTotalLabel:
			grand = append(grand, r)
		}
	}
	return append(rows, grand...)
}

// appendLedgerDetail adds the "{division} - Detailed Data" sheet: source rows
// for the division's dealer location, filtered per export type, sorted by
// fiscal month.
func appendLedgerDetail(f *excelize.File, st exportStyles, source *SourceTable, exportType, division string) error {
	sheet := sheetTitle(division + " - Detailed Data")
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if source.Empty() {
		return nil
	}

	location := DealerLocation(division)
	var rows []Row
	for _, row := range source.Rows {
		if CellText(row["Dealer Location"]) != location {
			continue
		}
		switch exportType {
		case "credit":
			if !CellDecimal(row["Credit Note Amount"]).IsPositive() || !EmptyOrHyphenID(row["Claim arbitration ID"]) {
				continue
			}
		case "debit":
			if !CellDecimal(row["Debit Note Amount"]).IsPositive() {
				continue
			}
		default:
			if !IsArbitrationID(row["Claim arbitration ID"]) {
				continue
			}
		}
		rows = append(rows, row)
	}

	columns := append([]string{}, ledgerDetailBase...)
	if exportType == "arbitration" {
		columns = append(columns, "Credit Note Amount", "Debit Note Amount")
	} else {
		columns = append(columns, "Total Claim Amount")
		if exportType == "credit" {
			columns = append(columns, "Credit Note Amount")
		} else {
			columns = append(columns, "Debit Note Amount")
		}
	}
	columns = availableColumns(columns, source)
	rows = projectDetailRows(rows, columns)
	sortByFiscalMonth(rows)
	if exportType == "arbitration" {
		columns = renameColumn(columns, rows, "Debit Note Amount", "Arbitration Amount")
	}

	return writeSheet(f, st, sheet, columns, rows, ledgerTextColumns, st.number, 30)
}

// appendPendingArbitration adds the third arbitration sheet: debited rows
// still waiting for an arbitration id.
func appendPendingArbitration(f *excelize.File, st exportStyles, source *SourceTable, division string) error {
	if source.Empty() {
		return nil
	}
	sheet := sheetTitle(division + " - Pending Arb")
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	location := DealerLocation(division)
	var rows []Row
	for _, row := range source.Rows {
		if CellText(row["Dealer Location"]) != location {
			continue
		}
		if !CellDecimal(row["Debit Note Amount"]).IsPositive() || !EmptyOrHyphenID(row["Claim arbitration ID"]) {
			continue
		}
		rows = append(rows, row)
	}

	columns := append([]string{}, ledgerDetailBase...)
	columns = append(columns, "Credit Note Amount", "Debit Note Amount")
	columns = availableColumns(columns, source)
	rows = projectDetailRows(rows, columns)
	sortByFiscalMonth(rows)
	columns = renameColumn(columns, rows, "Debit Note Amount", "Pending Arbitration Amount")

	return writeSheet(f, st, sheet, columns, rows, ledgerTextColumns, st.number, 30)
}

// appendPendingDetail adds one spares/labour sheet: source rows that still
// carry a value in filterCol. The sheet is omitted when nothing matches.
func appendPendingDetail(f *excelize.File, st exportStyles, source *SourceTable, division, filterCol, suffix, allTitle string) error {
	if source.Empty() {
		return nil
	}
	specific := divisionSpecific(division)
	var rows []Row
	for _, row := range source.Rows {
		if specific && row.Division() != division {
			continue
		}
		if Missing(row[filterCol]) {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}

	title := allTitle
	if specific {
		title = sheetTitle(division + " - " + suffix)
	}
	if _, err := f.NewSheet(title); err != nil {
		return err
	}
	return writeSheet(f, st, title, source.Columns, rows, nil, st.number, 35)
}

// appendCompensationDetail adds the retained compensation rows plus the
// derived turn-around column: days elapsed since the bill date, zero when
// the date is missing. Kept separate from the raw No. of Days column.
func appendCompensationDetail(f *excelize.File, st exportStyles, source *SourceTable, division string) error {
	if source.Empty() {
		return nil
	}
	specific := divisionSpecific(division)
	columns := append(append([]string{}, source.Columns...), "Days Since Bill Date")
	var rows []Row
	for _, row := range source.Rows {
		if specific && row.Division() != division {
			continue
		}
		kept := make(Row, len(columns))
		for _, col := range source.Columns {
			kept[col] = row[col]
		}
		days := 0
		if billed, ok := row["RO Bill Date"].(time.Time); ok {
			if d := int(time.Since(billed).Hours() / 24); d > 0 {
				days = d
			}
		}
		kept["Days Since Bill Date"] = days
		rows = append(rows, kept)
	}
	if len(rows) == 0 {
		return nil
	}

	title := "Compensation Details"
	if specific {
		title = sheetTitle(division + " - Details")
	}
	if _, err := f.NewSheet(title); err != nil {
		return err
	}
	return writeSheet(f, st, title, columns, rows, map[string]bool{"RO Id.": true}, st.number, 35)
}

// appendSourceDetail adds the retained source rows unchanged.
func appendSourceDetail(f *excelize.File, st exportStyles, source *SourceTable, division, allTitle string) error {
	if source.Empty() {
		return nil
	}
	specific := divisionSpecific(division)
	var rows []Row
	for _, row := range source.Rows {
		if specific && row.Division() != division {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}

	title := allTitle
	if specific {
		title = sheetTitle(division + " - Details")
	}
	if _, err := f.NewSheet(title); err != nil {
		return err
	}
	return writeSheet(f, st, title, source.Columns, rows, nil, st.number, 35)
}

var ledgerTextColumns = map[string]bool{"Claim No": true, "Ro Id": true}

// projectDetailRows copies rows down to the chosen columns and applies the
// text renderings for claim numbers and repair-order ids.
func projectDetailRows(rows []Row, columns []string) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		kept := make(Row, len(columns))
		for _, col := range columns {
			kept[col] = row[col]
		}
		if _, ok := kept["Claim No"]; ok {
			kept["Claim No"] = FormatClaimNo(kept["Claim No"])
		}
		if _, ok := kept["Ro Id"]; ok {
			kept["Ro Id"] = FormatROID(kept["Ro Id"])
		}
		out = append(out, kept)
	}
	return out
}

func renameColumn(columns []string, rows []Row, from, to string) []string {
	for i, c := range columns {
		if c != from {
			continue
		}
		columns[i] = to
		for _, r := range rows {
			if v, ok := r[from]; ok {
				r[to] = v
				delete(r, from)
			}
		}
	}
	return columns
}

func availableColumns(want []string, source *SourceTable) []string {
	var out []string
	for _, col := range want {
		if source.HasColumn(col) {
			out = append(out, col)
		}
	}
	return out
}

func sortByFiscalMonth(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a := monthRank(MonthKey(CellText(rows[i]["Fiscal Month"])))
		b := monthRank(MonthKey(CellText(rows[j]["Fiscal Month"])))
		return a < b
	})
}

// sheetTitle clips to Excel's 31-character sheet name limit.
func sheetTitle(title string) string {
	if len(title) > 31 {
		return title[:31]
	}
	return title
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type exportStyles struct {
	header int
	text   int
	number int
	count  int
	date   int
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func newExportStyles(f *excelize.File) (exportStyles, error) {
	var st exportStyles
	var err error

	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FF8C00"}},
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return st, err
	}

	st.text, err = f.NewStyle(&excelize.Style{
		Border:    thinBorder(),
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return st, err
	}

	amount := "#,##0.00"
	st.number, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &amount,
		Border:       thinBorder(),
		Alignment:    &excelize.Alignment{Horizontal: "right", Vertical: "center"},
	})
	if err != nil {
		return st, err
	}

	whole := "#,##0"
	st.count, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &whole,
		Border:       thinBorder(),
		Alignment:    &excelize.Alignment{Horizontal: "right", Vertical: "center"},
	})
	if err != nil {
		return st, err
	}

	day := "mm-dd-yyyy"
	st.date, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &day,
		Border:       thinBorder(),
		Alignment:    &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	return st, err
}

// writeSheet lays out one sheet: styled header row, typed data cells, column
// widths sized to content with a cap. forceText columns always render as
// left-aligned strings.
func writeSheet(f *excelize.File, st exportStyles, sheet string, columns []string, rows []Row, forceText map[string]bool, numberStyle int, widthCap float64) error {
	widths := make([]int, len(columns))
	for i, col := range columns {
		if err := setCell(f, sheet, i+1, 1, col, st.header); err != nil {
			return err
		}
		widths[i] = len(col)
	}

	for rIdx, row := range rows {
		for cIdx, col := range columns {
			v := row[col]
			style := st.text
			var value any
			switch {
			case forceText != nil && forceText[col]:
				value = CellText(v)
			default:
				switch x := v.(type) {
				case decimal.Decimal:
					value = x.InexactFloat64()
					style = numberStyle
				case int:
					value = x
					style = numberStyle
				case time.Time:
					value = x
					style = st.date
				case nil:
					value = ""
				default:
					value = CellText(v)
				}
			}
			if err := setCell(f, sheet, cIdx+1, rIdx+2, value, style); err != nil {
				return err
			}
			if n := len(CellText(v)); n > widths[cIdx] {
				widths[cIdx] = n
			}
		}
	}

	for i := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		w := float64(widths[i] + 2)
		if w > widthCap {
			w = widthCap
		}
		if err := f.SetColWidth(sheet, name, name, w); err != nil {
			return err
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any, styleID int) error {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, ref, v); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, ref, ref, styleID)
}
