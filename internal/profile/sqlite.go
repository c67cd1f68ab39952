// ABOUTME: SQLite implementation of the profile Store using modernc.org/sqlite
// ABOUTME: Single-statement upsert, the hardened alternative to the sheet-backed store

package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store with atomic upserts. Unlike SheetStore,
// concurrent Upserts for the same key cannot lose updates or create
// duplicate rows.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a SQLite-backed profile store at the given path.
// The schema is created if it doesn't exist; parent directories are
// created if needed.
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "profile")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS profiles (
			id TEXT NOT NULL,
			kind TEXT NOT NULL,
			languages TEXT NOT NULL DEFAULT '[]',
			last_updated TEXT NOT NULL,
			verified INTEGER NOT NULL DEFAULT 0,
			last_modified_by TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (id, kind)
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("sqlite profile store initialized", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

// Get returns the profile for (id, kind), or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string, kind Kind) (*Profile, error) {
	var (
		p         = Profile{ID: id, Kind: kind}
		languages string
		updated   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT languages, last_updated, verified, last_modified_by
		 FROM profiles WHERE id = ? AND kind = ?`,
		id, string(kind),
	).Scan(&languages, &updated, &p.Verified, &p.ModifiedBy)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: querying profile: %v", ErrStoreUnavailable, err)
	}

	if err := json.Unmarshal([]byte(languages), &p.Languages); err != nil {
		return nil, fmt.Errorf("%w: malformed languages column: %v", ErrStoreUnavailable, err)
	}
	if ts, err := time.Parse(time.RFC3339, updated); err == nil {
		p.LastUpdated = ts
	}
	return &p, nil
}

// Upsert replaces the profile row in a single statement.
func (s *SQLiteStore) Upsert(ctx context.Context, id string, kind Kind, languages []string, verified bool, modifiedBy string) error {
	encoded, err := json.Marshal(languages)
	if err != nil {
		return fmt.Errorf("encoding languages: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, kind, languages, last_updated, verified, last_modified_by)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id, kind) DO UPDATE SET
			languages = excluded.languages,
			last_updated = excluded.last_updated,
			verified = excluded.verified,
			last_modified_by = excluded.last_modified_by`,
		id, string(kind), string(encoded),
		time.Now().UTC().Format(time.RFC3339), verified, modifiedBy)
	if err != nil {
		return fmt.Errorf("%w: upserting profile: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
