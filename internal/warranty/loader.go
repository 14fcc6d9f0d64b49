package warranty

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Loader resolves logical source files under the data directory and parses
// them into SourceTables. A missing file is ErrSourceMissing, never a panic;
// callers degrade that one table to empty.
type Loader struct {
	DataDir string
}

func NewLoader(dataDir string) *Loader {
	if dataDir == "" {
		dataDir = "."
	}
	return &Loader{DataDir: dataDir}
}

// candidatePaths probes the working directory, the data directory and its
// data/ subfolder, then the " - Copy" variant users leave behind, then the
// legacy .xls spelling.
func (l *Loader) candidatePaths(filename string) []string {
	paths := []string{
		filename,
		"./" + filename,
		filepath.Join(l.DataDir, filename),
		filepath.Join(l.DataDir, "data", filename),
		filepath.Join("data", filename),
	}
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	copyVariant := base + " - Copy" + ext
	paths = append(paths,
		copyVariant,
		"./"+copyVariant,
		filepath.Join(l.DataDir, copyVariant),
	)
	if strings.EqualFold(ext, ".xlsx") {
		legacy := base + ".xls"
		paths = append(paths, legacy, filepath.Join(l.DataDir, legacy))
	}
	return paths
}

// FindFile returns the first existing candidate path for filename, or "".
func (l *Loader) FindFile(filename string) string {
	for _, p := range l.candidatePaths(filename) {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// SourcePaths resolves every known source workbook that currently exists.
// The rebuild job fingerprints these to skip builds when nothing changed.
func (l *Loader) SourcePaths() []string {
	var paths []string
	for _, schema := range []SourceSchema{LedgerSchema, PendingClaimsSchema, CompensationSchema, PRApprovalSchema} {
		if p := l.FindFile(schema.Filename); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// Load locates and parses the schema's workbook. The header row names the
// columns; all sheet columns are kept, with cells coerced per the schema
// (unknown columns load as text).
func (l *Loader) Load(schema SourceSchema) (*SourceTable, error) {
	path := l.FindFile(schema.Filename)
	if path == "" {
		return nil, fmt.Errorf("%w: %s", ErrSourceMissing, schema.Filename)
	}

	var rows [][]string
	var err error
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		rows, err = readXLSRows(path)
	} else {
		rows, err = readXLSXRows(path, schema.Sheet)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return &SourceTable{Name: schema.Logical}, nil
	}

	headers := make([]string, 0, len(rows[0]))
	for _, h := range rows[0] {
		headers = append(headers, strings.TrimSpace(h))
	}

	table := &SourceTable{Name: schema.Logical, Columns: headers}
	for _, raw := range rows[1:] {
		if blankRow(raw) {
			continue
		}
		row := make(Row, len(headers))
		for i, col := range headers {
			var cell string
			if i < len(raw) {
				cell = raw[i]
			}
			row[col] = coerceCell(cell, schema.kindOf(col))
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func readXLSXRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := sheet
	if name == "" {
		name = f.GetSheetName(0)
	} else {
		found := false
		for _, s := range f.GetSheetList() {
			if s == name {
				found = true
				break
			}
		}
		if !found {
			name = f.GetSheetName(0)
		}
	}
	return f.GetRows(name)
}

func readXLSRows(path string) ([][]string, error) {
	book, err := xls.OpenFile(path)
	if err != nil {
		return nil, err
	}
	sheet, err := book.GetSheet(0)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	for _, r := range sheet.GetRows() {
		var vals []string
		for _, c := range r.GetCols() {
			vals = append(vals, c.GetString())
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// coerceCell applies the invalid-to-zero / missing-marker policy: numbers
// parse tolerantly with 0 on failure, dates try the layout list then the
// Excel serial form with nil on failure, text trims with ""/"nan" as nil.
func coerceCell(cell string, kind ColumnKind) any {
	s := strings.TrimSpace(cell)
	switch kind {
	case KindNumber:
		return parseAmount(s)
	case KindDate:
		if s == "" {
			return nil
		}
		if t, ok := parseDate(s); ok {
			return t
		}
		return nil
	default:
		if s == "" || strings.EqualFold(s, "nan") {
			return nil
		}
		return s
	}
}

func parseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	clean := strings.ReplaceAll(s, ",", "")
	clean = strings.ReplaceAll(clean, " ", "")
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// dd/mm layouts come before mm/dd: the source workbooks are Indian.
var dateLayouts = []string{
	"02/01/2006", "2/1/2006", "02-01-2006",
	"2006-01-02", "2006-01-02 15:04:05", "2006/01/02",
	"01-02-2006", "01/02/2006", "01-02-06",
	"02-Jan-2006", "2-Jan-2006", "02-Jan-06",
	time.RFC3339,
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Excel serial date, days since 1899-12-30.
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 59 && f < 80000 {
		base := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
		return base.AddDate(0, 0, int(f)), true
	}
	return time.Time{}, false
}
