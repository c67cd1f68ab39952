// ABOUTME: Sheet-backed Store implementation with full-range scans
// ABOUTME: Upsert is a read-then-write sequence; the lost-update race is a property of the backing model

package profile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiscus-labs/lingo-relay/internal/sheet"
)

// SheetStore persists profiles in a row-keyed table.
//
// Upsert is not atomic: it reads the full table, locates the row locally,
// then writes back to that index. Two concurrent Upserts for the same
// (id, kind) can both read before either writes, losing the earlier write
// or appending two rows for a key that did not yet exist. The backing
// table has no transactions, so the store does not pretend otherwise;
// the last write is authoritative.
type SheetStore struct {
	table  sheet.Table
	logger *slog.Logger
	now    func() time.Time
}

// NewSheetStore creates a profile store over the given table.
func NewSheetStore(table sheet.Table, logger *slog.Logger) *SheetStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SheetStore{
		table:  table,
		logger: logger.With("component", "profile"),
		now:    time.Now,
	}
}

// Get scans the table for the (id, kind) row.
func (s *SheetStore) Get(ctx context.Context, id string, kind Kind) (*Profile, error) {
	rows, err := s.table.ReadRange(ctx, fullRange)
	if err != nil {
		return nil, fmt.Errorf("%w: reading profile table: %v", ErrStoreUnavailable, err)
	}
	if idx := findRow(rows, id, kind); idx >= 0 {
		return decodeRow(rows[idx]), nil
	}
	return nil, ErrNotFound
}

// Upsert replaces the (id, kind) row wholesale, creating it if absent.
// The header row is checked and repaired first; header repair touches
// only row 1, never data rows.
func (s *SheetStore) Upsert(ctx context.Context, id string, kind Kind, languages []string, verified bool, modifiedBy string) error {
	if err := s.ensureHeader(ctx); err != nil {
		return err
	}

	rows, err := s.table.ReadRange(ctx, fullRange)
	if err != nil {
		return fmt.Errorf("%w: reading profile table: %v", ErrStoreUnavailable, err)
	}

	row := encodeRow(&Profile{
		ID:          id,
		Kind:        kind,
		Languages:   languages,
		Verified:    verified,
		LastUpdated: s.now(),
		ModifiedBy:  modifiedBy,
	})

	if idx := findRow(rows, id, kind); idx >= 0 {
		rangeSpec := fmt.Sprintf("%s!A%d:F%d", SheetName, idx+1, idx+1)
		if err := s.table.WriteRange(ctx, rangeSpec, [][]string{row}); err != nil {
			return fmt.Errorf("%w: updating profile row: %v", ErrStoreUnavailable, err)
		}
		s.logger.Debug("profile updated", "id", id, "kind", kind, "row", idx+1)
		return nil
	}

	if err := s.table.AppendRows(ctx, fullRange, [][]string{row}); err != nil {
		return fmt.Errorf("%w: appending profile row: %v", ErrStoreUnavailable, err)
	}
	s.logger.Debug("profile created", "id", id, "kind", kind)
	return nil
}

// ensureHeader rewrites the header row if it diverges from the expected
// column set. Rows written with an older header remain readable via the
// lenient row codec.
func (s *SheetStore) ensureHeader(ctx context.Context) error {
	rows, err := s.table.ReadRange(ctx, headerRange)
	if err != nil {
		return fmt.Errorf("%w: reading header row: %v", ErrStoreUnavailable, err)
	}

	var current []string
	if len(rows) > 0 {
		current = rows[0]
	}
	if equalRows(current, headerRow) {
		return nil
	}

	if err := s.table.WriteRange(ctx, headerRange, [][]string{headerRow}); err != nil {
		return fmt.Errorf("%w: repairing header row: %v", ErrStoreUnavailable, err)
	}
	s.logger.Warn("header row repaired", "previous", current)
	return nil
}

// findRow returns the index of the (id, kind) row, or -1. The header row
// never matches because "id" is not a conversation identity column value
// paired with a valid kind.
func findRow(rows [][]string, id string, kind Kind) int {
	for i, row := range rows {
		if len(row) >= 2 && row[0] == id && row[1] == string(kind) {
			return i
		}
	}
	return -1
}

func equalRows(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
