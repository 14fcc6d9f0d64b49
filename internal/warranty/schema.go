package warranty

import "WarrantyDesk/internal/config"

// ColumnKind drives cell coercion in the loader.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindNumber
	KindDate
)

// ColumnSpec declares one known column of a source workbook. Required columns
// are what the consuming aggregator cannot work without; their absence makes
// it decline with ErrSchemaMismatch. Columns the schema does not name load as
// text so detail exports keep every sheet column.
type ColumnSpec struct {
	Name     string
	Kind     ColumnKind
	Required bool
}

// SourceSchema identifies a logical source file and its known columns.
type SourceSchema struct {
	Logical  string
	Filename string
	Sheet    string // empty means first sheet
	Columns  []ColumnSpec
}

func (s SourceSchema) kindOf(column string) ColumnKind {
	for _, c := range s.Columns {
		if c.Name == column {
			return c.Kind
		}
	}
	return KindText
}

// RequiredColumns lists the columns the schema marks required.
func (s SourceSchema) RequiredColumns() []string {
	var out []string
	for _, c := range s.Columns {
		if c.Required {
			out = append(out, c.Name)
		}
	}
	return out
}

// LedgerSchema describes the primary warranty debit/credit ledger.
var LedgerSchema = SourceSchema{
	Logical:  "warranty-debit",
	Filename: config.WarrantyLedgerFile,
	Sheet:    config.WarrantyLedgerSheet,
	Columns: []ColumnSpec{
		{Name: "Dealer Location", Kind: KindText, Required: true},
		{Name: "Fiscal Month", Kind: KindText, Required: true},
		{Name: "Total Claim Amount", Kind: KindNumber, Required: true},
		{Name: "Credit Note Amount", Kind: KindNumber, Required: true},
		{Name: "Debit Note Amount", Kind: KindNumber, Required: true},
		{Name: "Claim arbitration ID", Kind: KindText},
		{Name: "Claim Invoice Date", Kind: KindDate},
		{Name: "Claim No", Kind: KindText},
		{Name: "Claim Date", Kind: KindDate},
		{Name: "Chassis No", Kind: KindText},
		{Name: "Ro Id", Kind: KindText},
		{Name: "Claim Type", Kind: KindText},
	},
}

// PendingClaimsSchema describes the current-month pending claim list.
var PendingClaimsSchema = SourceSchema{
	Logical:  "pending-claims",
	Filename: config.PendingClaimsFile,
	Sheet:    config.PendingClaimsSheet,
	Columns: []ColumnSpec{
		{Name: "Division", Kind: KindText, Required: true},
		{Name: "Pending Claims Spares", Kind: KindText, Required: true},
		{Name: "Pending Claims Labour", Kind: KindText, Required: true},
	},
}

// CompensationSchema describes the transit compensation claim export. Every
// column is optional; the aggregator declines only when Division is absent.
var CompensationSchema = SourceSchema{
	Logical:  "compensation",
	Filename: config.CompensationFile,
	Columns: []ColumnSpec{
		{Name: "Division", Kind: KindText},
		{Name: "RO Id.", Kind: KindText},
		{Name: "Registration No.", Kind: KindText},
		{Name: "RO Date", Kind: KindDate},
		{Name: "RO Bill Date", Kind: KindDate},
		{Name: "Chassis No.", Kind: KindText},
		{Name: "Model Group", Kind: KindText},
		{Name: "Claim Amount", Kind: KindNumber},
		{Name: "Request Status", Kind: KindText},
		{Name: "Claim Approved Amt.", Kind: KindNumber},
		{Name: "No. of Days", Kind: KindNumber},
	},
}

// compensationAllowList is the column subset retained for aggregation and
// detail export, in sheet order.
var compensationAllowList = []string{
	"Division", "RO Id.", "Registration No.", "RO Date", "RO Bill Date",
	"Chassis No.", "Model Group", "Claim Amount", "Request Status",
	"Claim Approved Amt.", "No. of Days",
}

// PRApprovalSchema describes the PR approval claim export.
var PRApprovalSchema = SourceSchema{
	Logical:  "pr-approval",
	Filename: config.PRApprovalFile,
	Columns: []ColumnSpec{
		{Name: "Division", Kind: KindText, Required: true},
		{Name: "Total Cost of Repair", Kind: KindNumber},
		{Name: "Req. Claim Amt from M&M", Kind: KindNumber},
		{Name: "App. Claim Amt from M&M", Kind: KindNumber},
	},
}

// CredentialsSchema describes the login workbook read by the auth service.
var CredentialsSchema = SourceSchema{
	Logical:  "credentials",
	Filename: config.CredentialsFile,
	Columns: []ColumnSpec{
		{Name: "User ID", Kind: KindText, Required: true},
		{Name: "Password", Kind: KindText, Required: true},
	},
}
