package sheetfeed

import "context"

// Cell is one spreadsheet cell. V is the raw value as decoded from JSON
// (string, float64, bool, or nil); F, when present, is the sheet's
// formatted display string. Date and time columns prefer F because the
// sheet's formatting is the authoritative display convention.
type Cell struct {
	V any
	F string
}

// Row is an ordered sequence of cells; the index is the 0-based column
// position. A nil entry means the cell is absent. Rows with a nil Cells
// slice are malformed and are skipped by the normalizer.
type Row struct {
	Cells []*Cell
}

// Source provides raw rows for the three logical tables multiplexed onto
// one published spreadsheet document.
//
// Tolerance contract:
//   - MemberRows fails with an error wrapping ErrUnavailable when the member
//     table cannot be fetched; member lookup cannot degrade gracefully.
//   - NotificationRows and SessionRows return an empty slice and nil error
//     when their sheet is unreachable or unpublished.
//
// No implementation retries or caches.
type Source interface {
	MemberRows(ctx context.Context) ([]Row, error)
	NotificationRows(ctx context.Context) ([]Row, error)
	SessionRows(ctx context.Context) ([]Row, error)
}
