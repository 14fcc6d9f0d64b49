package warranty

import "errors"

// Contained-failure sentinels. Loader and aggregator errors never abort the
// pipeline: the affected table comes back empty while siblings proceed.
var (
	ErrSourceMissing     = errors.New("source file not found")
	ErrSchemaMismatch    = errors.New("required columns missing")
	ErrExportNoData      = errors.New("no data available for export")
	ErrInvalidExportType = errors.New("invalid export type")
)
