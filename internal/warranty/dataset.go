package warranty

import (
	"log"
	"sync/atomic"
	"time"
)

// Section pairs one summary with the source rows it was derived from. The
// source backs the detail sheets of the Excel export.
type Section struct {
	Summary *SummaryTable
	Source  *SourceTable
}

func (s Section) Empty() bool {
	return s.Summary.Empty()
}

// AggregatedDataset is one immutable build of every dashboard table. Handlers
// read whole snapshots; a rebuild swaps in a fresh one and never touches a
// published dataset again.
type AggregatedDataset struct {
	Credit       Section
	Debit        Section
	Arbitration  Section
	CurrentMonth Section
	Compensation Section
	PRApproval   Section

	BuiltAt     time.Time
	Version     uint64
	Fingerprint string
}

// Payload is the shape the dashboard polls: one record array per table,
// empty arrays where a source was missing or declined.
func (d *AggregatedDataset) Payload() map[string]any {
	return map[string]any{
		"credit":       d.Credit.Summary.Records(),
		"debit":        d.Debit.Summary.Records(),
		"arbitration":  d.Arbitration.Summary.Records(),
		"currentMonth": d.CurrentMonth.Summary.Records(),
		"compensation": d.Compensation.Summary.Records(),
		"prApproval":   d.PRApproval.Summary.Records(),
	}
}

// Section returns the named export section, nil for unknown types.
func (d *AggregatedDataset) Section(exportType string) *Section {
	switch exportType {
	case "credit":
		return &d.Credit
	case "debit":
		return &d.Debit
	case "arbitration":
		return &d.Arbitration
	case "currentmonth":
		return &d.CurrentMonth
	case "compensation":
		return &d.Compensation
	case "pr_approval":
		return &d.PRApproval
	}
	return nil
}

// Sources holds the raw tables of one load pass. A nil field means the file
// was absent or unreadable; the matching sections come out empty.
type Sources struct {
	Ledger        *SourceTable
	PendingClaims *SourceTable
	Compensation  *SourceTable
	PRApproval    *SourceTable
}

// LoadSources reads all four workbooks. Load failures are logged and leave
// the field nil so one bad file never takes the rest of the dashboard down.
func LoadSources(loader *Loader) *Sources {
	src := &Sources{}
	src.Ledger = loadOne(loader, LedgerSchema)
	src.PendingClaims = loadOne(loader, PendingClaimsSchema)
	src.Compensation = loadOne(loader, CompensationSchema)
	src.PRApproval = loadOne(loader, PRApprovalSchema)
	return src
}

func loadOne(loader *Loader, schema SourceSchema) *SourceTable {
	table, err := loader.Load(schema)
	if err != nil {
		log.Printf("Warranty source %s unavailable: %v", schema.Logical, err)
		return nil
	}
	return table
}

// BuildDataset runs every aggregation over the loaded sources. Failures are
// contained per section: the error is logged and the section stays empty.
func BuildDataset(src *Sources) *AggregatedDataset {
	d := &AggregatedDataset{BuiltAt: time.Now()}

	credit, err := AggregateCredit(src.Ledger)
	if err != nil {
		log.Printf("Credit aggregation skipped: %v", err)
	} else {
		d.Credit = Section{Summary: credit, Source: src.Ledger}
	}

	debit, err := AggregateDebit(src.Ledger)
	if err != nil {
		log.Printf("Debit aggregation skipped: %v", err)
	} else {
		d.Debit = Section{Summary: debit, Source: src.Ledger}
	}

	if debit != nil {
		arbitration, err := AggregateArbitration(src.Ledger, debit)
		if err != nil {
			log.Printf("Arbitration aggregation skipped: %v", err)
		} else {
			d.Arbitration = Section{Summary: arbitration, Source: src.Ledger}
		}
	}

	currentMonth, pending, err := AggregateCurrentMonth(src.PendingClaims)
	if err != nil {
		log.Printf("Current month aggregation skipped: %v", err)
	} else {
		d.CurrentMonth = Section{Summary: currentMonth, Source: pending}
	}

	compensation, compRows, err := AggregateCompensation(src.Compensation)
	if err != nil {
		log.Printf("Compensation aggregation skipped: %v", err)
	} else {
		d.Compensation = Section{Summary: compensation, Source: compRows}
	}

	prApproval, prRows, err := AggregatePRApproval(src.PRApproval)
	if err != nil {
		log.Printf("PR approval aggregation skipped: %v", err)
	} else {
		d.PRApproval = Section{Summary: prApproval, Source: prRows}
	}

	return d
}

// Store publishes dataset snapshots to the HTTP handlers. Swap installs a new
// build atomically; readers keep whatever snapshot they already hold.
type Store struct {
	current atomic.Pointer[AggregatedDataset]
	version atomic.Uint64
}

// NewStore starts with an empty dataset so readers never see nil.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&AggregatedDataset{})
	return s
}

// Snapshot returns the currently published dataset.
func (s *Store) Snapshot() *AggregatedDataset {
	return s.current.Load()
}

// Swap publishes a new dataset, stamping it with the next version, and
// returns the one it replaced.
func (s *Store) Swap(d *AggregatedDataset) *AggregatedDataset {
	d.Version = s.version.Add(1)
	return s.current.Swap(d)
}
