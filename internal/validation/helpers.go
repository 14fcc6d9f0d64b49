package validation

import "strings"

// Result is the outcome of pre-validating a loaded source table against the
// columns its aggregator needs. One check up front replaces per-column
// presence branching scattered through the aggregation code.
type Result struct {
	Table   string
	Missing []string
}

func (r *Result) OK() bool {
	return r == nil || len(r.Missing) == 0
}

// Describe renders the failure for audit logs and user-facing messages.
func (r *Result) Describe() string {
	if r.OK() {
		return ""
	}
	return r.Table + " missing columns: " + strings.Join(r.Missing, ", ")
}

// RequireColumns checks that every required column is present in the table.
func RequireColumns(table string, have []string, required []string) *Result {
	res := &Result{Table: table}
	for _, want := range required {
		if !contains(have, want) {
			res.Missing = append(res.Missing, want)
		}
	}
	return res
}

// AllowListed splits an allow-list into the columns actually present (in
// allow-list order) and the ones the file dropped.
func AllowListed(have []string, allowed []string) (present []string, missing []string) {
	for _, col := range allowed {
		if contains(have, col) {
			present = append(present, col)
		} else {
			missing = append(missing, col)
		}
	}
	return present, missing
}

func contains(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}
