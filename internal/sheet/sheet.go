// ABOUTME: Table is the row-oriented backing store boundary for profile persistence
// ABOUTME: Implemented by the Google Sheets client and an in-memory fake for tests

package sheet

import "context"

// Table is a row-oriented range of string cells, addressed with A1-style
// range specs (e.g. "Profiles!A:F", "Profiles!A3:F3"). It exposes exactly
// what the Sheets values API exposes: no transactions, no row locking.
type Table interface {
	// ReadRange returns the rows within the range. Rows may be ragged
	// (trailing empty cells are not padded).
	ReadRange(ctx context.Context, rangeSpec string) ([][]string, error)

	// WriteRange overwrites the rows at the range.
	WriteRange(ctx context.Context, rangeSpec string, rows [][]string) error

	// AppendRows appends rows after the last data row of the range's sheet.
	AppendRows(ctx context.Context, rangeSpec string, rows [][]string) error
}
