// ABOUTME: In-memory Table implementation for tests and local development
// ABOUTME: Simulates the Sheets values API including A1-range addressing

package sheet

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"
)

// Memory is an in-memory Table. The mutex guards only individual calls,
// mirroring the backing service: each read or write is atomic, sequences
// of them are not.
type Memory struct {
	mu   sync.Mutex
	rows [][]string

	// OnRead, if set, is called after each ReadRange snapshot (outside the
	// lock) with the range spec. Tests use it to force call interleavings.
	OnRead func(rangeSpec string)

	// Injectable failures for error-path tests.
	ReadErr   error
	WriteErr  error
	AppendErr error
}

// NewMemory creates an empty in-memory table.
func NewMemory() *Memory {
	return &Memory{}
}

// a1Range matches "Sheet!A1:F1" and unbounded column ranges like "Sheet!A:F".
var a1Range = regexp.MustCompile(`^[^!]+![A-Z]+([0-9]*):[A-Z]+([0-9]*)$`)

// rowSpan extracts the 1-based row span from an A1 range spec.
// bounded is false for whole-column ranges.
func rowSpan(rangeSpec string) (start, end int, bounded bool, err error) {
	m := a1Range.FindStringSubmatch(rangeSpec)
	if m == nil {
		return 0, 0, false, fmt.Errorf("unsupported range spec %q", rangeSpec)
	}
	if m[1] == "" && m[2] == "" {
		return 0, 0, false, nil
	}
	if start, err = strconv.Atoi(m[1]); err != nil {
		return 0, 0, false, fmt.Errorf("unsupported range spec %q", rangeSpec)
	}
	if end, err = strconv.Atoi(m[2]); err != nil {
		return 0, 0, false, fmt.Errorf("unsupported range spec %q", rangeSpec)
	}
	if start < 1 || end < start {
		return 0, 0, false, fmt.Errorf("unsupported range spec %q", rangeSpec)
	}
	return start, end, true, nil
}

// ReadRange returns a copy of the rows within the range.
func (m *Memory) ReadRange(ctx context.Context, rangeSpec string) ([][]string, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	start, end, bounded, err := rowSpan(rangeSpec)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	var out [][]string
	if !bounded {
		out = copyRows(m.rows)
	} else if start <= len(m.rows) {
		if end > len(m.rows) {
			end = len(m.rows)
		}
		out = copyRows(m.rows[start-1 : end])
	}
	m.mu.Unlock()

	if m.OnRead != nil {
		m.OnRead(rangeSpec)
	}
	return out, nil
}

// WriteRange overwrites the rows at the range, growing the table with
// empty rows if the range lies beyond the current data.
func (m *Memory) WriteRange(ctx context.Context, rangeSpec string, rows [][]string) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	start, _, bounded, err := rowSpan(rangeSpec)
	if err != nil {
		return err
	}
	if !bounded {
		start = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, row := range rows {
		idx := start - 1 + i
		for idx >= len(m.rows) {
			m.rows = append(m.rows, nil)
		}
		m.rows[idx] = append([]string(nil), row...)
	}
	return nil
}

// AppendRows appends rows after the last data row.
func (m *Memory) AppendRows(ctx context.Context, rangeSpec string, rows [][]string) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	if _, _, _, err := rowSpan(rangeSpec); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range rows {
		m.rows = append(m.rows, append([]string(nil), row...))
	}
	return nil
}

// Rows returns a copy of the full table for assertions.
func (m *Memory) Rows() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyRows(m.rows)
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
